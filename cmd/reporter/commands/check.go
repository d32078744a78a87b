package commands

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/spf13/cobra"

	"github.com/Alvic-maker/Telegram-bot-update1/pkg/config"
	"github.com/Alvic-maker/Telegram-bot-update1/pkg/database"
	"github.com/Alvic-maker/Telegram-bot-update1/pkg/redis"
)

// checkCmd represents the check command
var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Validate config and test optional backends",
	Long: `Loads the configuration and checks the optional backends.

이 명령어는:
- config 로드 및 검증
- DATABASE_URL 이 있으면 warehouse Ping
- REDIS_ENABLED 이면 Redis Ping
- Telegram 자격 증명 확인

Example:
  go run ./cmd/reporter check`,
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	PrintDoubleSeparator()

	cfg, err := config.LoadWithFile(configFile)
	if err != nil {
		PrintError(err.Error())
		return err
	}
	PrintSuccess(fmt.Sprintf("Config loaded (ENV: %s)", cfg.Env))
	PrintKeyValue("Watchlist", fmt.Sprint(cfg.Watchlist), 10)
	PrintKeyValue("Index", cfg.MarketIndex, 10)
	PrintKeyValue("Schedule", cfg.Schedule, 10)
	PrintSeparator()

	ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
	defer cancel()

	if cfg.Database.Enabled() {
		PrintKeyValue("Database", maskPassword(cfg.Database.URL), 10)
		db, err := database.New(ctx, cfg)
		if err != nil {
			PrintError(fmt.Sprintf("Warehouse: %v", err))
		} else {
			PrintSuccess("Warehouse ping successful")
			db.Close()
		}
	} else {
		PrintInfo("Warehouse not configured")
	}

	if cfg.Redis.Enabled {
		rc, err := redis.New(cfg)
		if err != nil {
			PrintError(fmt.Sprintf("Redis: %v", err))
		} else {
			PrintSuccess("Redis ping successful")
			_ = rc.Close()
		}
	} else {
		PrintInfo("Redis disabled, in-process rate limits only")
	}

	if cfg.Telegram.Enabled() {
		PrintSuccess("Telegram credentials present")
	} else {
		PrintWarning("BOT_TOKEN/CHAT_ID missing, reports are printed to stdout")
	}

	PrintDoubleSeparator()
	return nil
}

// maskPassword hides the password in a database URL for display
func maskPassword(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.User == nil {
		return raw
	}
	if _, ok := u.User.Password(); ok {
		u.User = url.UserPassword(u.User.Username(), "***")
	}
	return u.String()
}
