package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the application
// ⭐ SSOT: 모든 환경변수는 여기서만 읽음
type Config struct {
	// Server
	Port string
	Env  string // development, staging, production

	// Watchlist
	Watchlist   []string
	MarketIndex string
	Timezone    string

	Alerts   AlertConfig
	Sources  SourceConfig
	Cache    CacheConfig
	Telegram TelegramConfig

	// Scheduled report (cron with seconds)
	Schedule string

	// Optional read-only EOD warehouse
	Database DatabaseConfig

	// Optional shared rate limiter
	Redis RedisConfig

	// Logging
	LogLevel  string
	LogFormat string
}

// AlertConfig holds report alert thresholds
type AlertConfig struct {
	PctUp       float64 `yaml:"pct_up"`       // alert when pct_change >= PctUp
	PctDown     float64 `yaml:"pct_down"`     // alert when pct_change <= PctDown (negative)
	VolumeSurge float64 `yaml:"volume_surge"` // alert when vol_ratio >= VolumeSurge
}

// SourceConfig holds upstream data source configuration
type SourceConfig struct {
	YahooBaseURL     string
	VNDirectBaseURL  string
	VietstockBaseURL string
	CafefBaseURL     string

	EnableSecondary bool // vnstock-style foreign flow API

	HTTPTimeout   time.Duration
	ScrapeTimeout time.Duration
	RateLimit     float64 // requests per second per source, 0 = unlimited
	Workers       int     // concurrent symbol fetches
}

// CacheConfig holds in-process TTL cache configuration
type CacheConfig struct {
	SymbolTTL time.Duration
	MarketTTL time.Duration
}

// TelegramConfig holds Telegram delivery configuration
type TelegramConfig struct {
	BotToken  string
	ChatID    string
	BaseURL   string
	Timeout   time.Duration
	ChunkSize int

	// Required refuses to start without credentials instead of printing a preview
	Required bool
}

// Enabled reports whether both credentials are present
func (t TelegramConfig) Enabled() bool {
	return t.BotToken != "" && t.ChatID != ""
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
	Enabled  bool
}

// DatabaseConfig holds PostgreSQL configuration
type DatabaseConfig struct {
	URL string

	// Connection Pool
	MaxConns        int
	MinConns        int
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration
}

// Enabled reports whether a warehouse database is configured
func (d DatabaseConfig) Enabled() bool {
	return d.URL != ""
}

// Overlay is the optional YAML file applied on top of the environment
type Overlay struct {
	Watchlist       []string      `yaml:"watchlist"`
	MarketIndex     string        `yaml:"market_index"`
	Alerts          *AlertOverlay `yaml:"alerts"`
	EnableSecondary *bool        `yaml:"enable_secondary_source"`
	Schedule        string       `yaml:"schedule"`
}

// AlertOverlay overrides only the thresholds the file sets
type AlertOverlay struct {
	PctUp       *float64 `yaml:"pct_up"`
	PctDown     *float64 `yaml:"pct_down"`
	VolumeSurge *float64 `yaml:"volume_surge"`
}

// apply copies the set thresholds onto a
func (o AlertOverlay) apply(a *AlertConfig) {
	if o.PctUp != nil {
		a.PctUp = *o.PctUp
	}
	if o.PctDown != nil {
		a.PctDown = *o.PctDown
	}
	if o.VolumeSurge != nil {
		a.VolumeSurge = *o.VolumeSurge
	}
}

// Load reads configuration from environment variables
// ⭐ SSOT: 이 함수만 os.Getenv()를 호출함
func Load() (*Config, error) {
	return LoadWithFile("")
}

// LoadWithFile reads the environment and then applies the YAML overlay at path (if any)
func LoadWithFile(path string) (*Config, error) {
	loadEnvFile()

	cfg := &Config{
		// Server
		Port: getEnv("PORT", "8089"),
		Env:  getEnv("ENV", "development"),

		Watchlist:   getEnvAsList("SYMBOLS", "MBB,HPG,SSI,PVP,KSB,QTP"),
		MarketIndex: strings.ToUpper(getEnv("MARKET_INDEX", "VNINDEX")),
		Timezone:    getEnv("TIMEZONE", "Asia/Ho_Chi_Minh"),

		Alerts: AlertConfig{
			PctUp:       getEnvAsFloat("ALERT_PCT_UP", 3.0),
			PctDown:     getEnvAsFloat("ALERT_PCT_DOWN", -3.0),
			VolumeSurge: getEnvAsFloat("ALERT_VOLUME_SURGE", 2.0),
		},

		Sources: SourceConfig{
			YahooBaseURL:     getEnv("YAHOO_BASE_URL", "https://query1.finance.yahoo.com"),
			VNDirectBaseURL:  getEnv("VNDIRECT_BASE_URL", "https://finfo-api.vndirect.com.vn"),
			VietstockBaseURL: getEnv("VIETSTOCK_BASE_URL", "https://finance.vietstock.vn"),
			CafefBaseURL:     getEnv("CAFEF_BASE_URL", "https://cafef.vn"),
			EnableSecondary:  getEnvAsBool("ENABLE_SECONDARY_SOURCE", getEnvAsBool("USE_VNSTOCK", true)),
			HTTPTimeout:      getEnvAsDuration("HTTP_TIMEOUT", "15s"),
			ScrapeTimeout:    getEnvAsDuration("SCRAPE_TIMEOUT", "8s"),
			RateLimit:        getEnvAsFloat("SOURCE_RATE_LIMIT", 5),
			Workers:          getEnvAsInt("FETCH_WORKERS", 4),
		},

		Cache: CacheConfig{
			SymbolTTL: getEnvAsDuration("SYMBOL_TTL", "30s"),
			MarketTTL: getEnvAsDuration("MARKET_TTL", "50s"),
		},

		Telegram: TelegramConfig{
			BotToken:  getEnv("BOT_TOKEN", ""),
			ChatID:    getEnv("CHAT_ID", ""),
			BaseURL:   getEnv("TELEGRAM_BASE_URL", "https://api.telegram.org"),
			Timeout:   getEnvAsDuration("TELEGRAM_TIMEOUT", "20s"),
			ChunkSize: getEnvAsInt("TELEGRAM_CHUNK_SIZE", 3500),
			Required:  getEnvAsBool("SEND_REQUIRED", false),
		},

		Schedule: getEnv("REPORT_SCHEDULE", "0 */30 9-15 * * MON-FRI"),

		Database: DatabaseConfig{
			URL:             getEnv("DATABASE_URL", ""),
			MaxConns:        getEnvAsInt("DB_MAX_CONNS", 4),
			MinConns:        getEnvAsInt("DB_MIN_CONNS", 0),
			MaxConnLifetime: getEnvAsDuration("DB_MAX_CONN_LIFETIME", "1h"),
			MaxConnIdleTime: getEnvAsDuration("DB_MAX_CONN_IDLE_TIME", "30m"),
		},

		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
			Enabled:  getEnvAsBool("REDIS_ENABLED", false),
		},

		// Logging
		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "console"),
	}

	if path != "" {
		if err := cfg.applyFile(path); err != nil {
			return nil, err
		}
	}

	// Validate configuration
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// applyFile merges a YAML overlay into the config
func (c *Config) applyFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}

	var ov Overlay
	if err := yaml.Unmarshal(data, &ov); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}

	if len(ov.Watchlist) > 0 {
		c.Watchlist = normalizeSymbols(ov.Watchlist)
	}
	if ov.MarketIndex != "" {
		c.MarketIndex = strings.ToUpper(ov.MarketIndex)
	}
	if ov.Alerts != nil {
		ov.Alerts.apply(&c.Alerts)
	}
	if ov.EnableSecondary != nil {
		c.Sources.EnableSecondary = *ov.EnableSecondary
	}
	if ov.Schedule != "" {
		c.Schedule = ov.Schedule
	}
	return nil
}

// validate checks if required configuration values are set
func (c *Config) validate() error {
	// Validate environment
	if c.Env != "development" && c.Env != "staging" && c.Env != "production" {
		return fmt.Errorf("ENV must be one of: development, staging, production")
	}

	if len(c.Watchlist) == 0 {
		return fmt.Errorf("SYMBOLS must contain at least one ticker")
	}

	if c.Cache.SymbolTTL <= 0 || c.Cache.MarketTTL <= 0 {
		return fmt.Errorf("SYMBOL_TTL and MARKET_TTL must be positive")
	}

	if c.Sources.Workers < 1 {
		return fmt.Errorf("FETCH_WORKERS must be >= 1")
	}

	if c.Alerts.PctUp <= 0 || c.Alerts.PctDown >= 0 {
		return fmt.Errorf("ALERT_PCT_UP must be positive and ALERT_PCT_DOWN negative")
	}

	if c.Alerts.VolumeSurge <= 0 {
		return fmt.Errorf("ALERT_VOLUME_SURGE must be positive")
	}

	if c.Telegram.Required && !c.Telegram.Enabled() {
		return fmt.Errorf("SEND_REQUIRED is set but BOT_TOKEN or CHAT_ID is missing")
	}

	if c.Telegram.ChunkSize < 100 {
		return fmt.Errorf("TELEGRAM_CHUNK_SIZE must be >= 100")
	}

	return nil
}

// Helper functions (private, only used within this file)

// loadEnvFile tries to load .env from multiple locations
func loadEnvFile() {
	// Try paths in order of priority
	paths := []string{
		".env", // Current directory
	}

	// Also try relative to executable
	if exe, err := os.Executable(); err == nil {
		exeDir := filepath.Dir(exe)
		paths = append(paths,
			filepath.Join(exeDir, ".env"),
			filepath.Join(exeDir, "..", ".env"),
		)
	}

	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			_ = godotenv.Load(path)
			return
		}
	}
}

func getEnv(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(strings.TrimSpace(valueStr))
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseFloat(strings.TrimSpace(valueStr), 64)
	if err != nil {
		return defaultValue
	}

	return value
}

// getEnvAsBool also accepts the yes/no spellings the old bot scripts used
func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := strings.ToLower(strings.TrimSpace(os.Getenv(key)))
	if valueStr == "" {
		return defaultValue
	}

	switch valueStr {
	case "yes", "y", "on":
		return true
	case "no", "n", "off":
		return false
	}

	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		valueStr = defaultValue
	}

	duration, err := time.ParseDuration(valueStr)
	if err != nil {
		// Fallback to default
		duration, _ = time.ParseDuration(defaultValue)
	}

	return duration
}

func getEnvAsList(key string, defaultValue string) []string {
	return normalizeSymbols(strings.Split(getEnv(key, defaultValue), ","))
}

// normalizeSymbols trims, upper-cases and de-duplicates tickers, keeping order
func normalizeSymbols(raw []string) []string {
	seen := make(map[string]bool, len(raw))
	out := make([]string, 0, len(raw))
	for _, s := range raw {
		s = strings.ToUpper(strings.TrimSpace(s))
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}
