package config_test

import (
	"fmt"

	"github.com/Alvic-maker/Telegram-bot-update1/pkg/config"
)

// Example demonstrates how to use the config package
func Example() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		return
	}

	// Access configuration values
	fmt.Printf("Watchlist: %v\n", cfg.Watchlist)
	fmt.Printf("Environment: %s\n", cfg.Env)
	fmt.Printf("Symbol TTL: %s\n", cfg.Cache.SymbolTTL)
	fmt.Printf("Telegram enabled: %v\n", cfg.Telegram.Enabled())
}
