package cmd

import (
	"fmt"
	"net/url"
	"time"

	"orderledger/internal/core/domain/model/kernel"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

const (
	AppModeProduction = "PROD"
	AppModeDevelop    = "DEV"
)

type Config struct {
	HTTPPort   string `env:"HTTP_PORT" envDefault:"8080"`
	DBHost     string `env:"DB_HOST" envDefault:"localhost"`
	DBPort     string `env:"DB_PORT" envDefault:"5432"`
	DBUser     string `env:"DB_USER" envDefault:"postgres"`
	DBPassword string `env:"DB_PASSWORD"`
	DBName     string `env:"DB_NAME" envDefault:"orderledger"`
	DBSslMode  string `env:"DB_SSLMODE" envDefault:"disable"`

	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
	LogMode  string `env:"LOG_MODE" envDefault:"PROD"`

	PlatformAccountID kernel.UUID `env:"PLATFORM_ACCOUNT_ID,required"`
	SessionKeyHex     string      `env:"SESSION_KEY_HEX,required"`
	RateLimitRPS      float64     `env:"RATE_LIMIT_RPS" envDefault:"20"`
	RateLimitBurst    int         `env:"RATE_LIMIT_BURST" envDefault:"40"`

	SellerCommissionPct  decimal.Decimal `env:"SELLER_COMMISSION_PCT" envDefault:"10"`
	CourierCommissionPct decimal.Decimal `env:"COURIER_COMMISSION_PCT" envDefault:"20"`
	DeliveryFeeFloor     int64           `env:"DELIVERY_FEE_FLOOR" envDefault:"10000"`
	SettlementDelay      time.Duration   `env:"SETTLEMENT_DELAY" envDefault:"168h"`

	SellerSettlementSchedule  string        `env:"SELLER_SETTLEMENT_SCHEDULE" envDefault:"0 0 0 * * MON"`
	CourierSettlementSchedule string        `env:"COURIER_SETTLEMENT_SCHEDULE" envDefault:"0 0 0 * * FRI"`
	NotificationSweepSchedule string        `env:"NOTIFICATION_SWEEP_SCHEDULE" envDefault:"@every 5m"`
	NotificationSweepLookback time.Duration `env:"NOTIFICATION_SWEEP_LOOKBACK" envDefault:"1h"`
	AutoCompleteAfter         time.Duration `env:"AUTO_COMPLETE_AFTER" envDefault:"24h"`
	AutoCompleteSchedule      string        `env:"AUTO_COMPLETE_SCHEDULE" envDefault:"@every 1m"`
}

// LoadConfig reads .env when present and then the process environment.
func LoadConfig() (Config, error) {
	_ = godotenv.Load(".env")

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("error parsing env config: %w", err)
	}
	return cfg, nil
}

// DSN is the postgres:// URL of the configured database.
func (c Config) DSN() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.DBUser, c.DBPassword),
		Host:     c.DBHost + ":" + c.DBPort,
		Path:     "/" + c.DBName,
		RawQuery: "sslmode=" + url.QueryEscape(c.DBSslMode),
	}
	return u.String()
}

// WatchConfig configures the order watcher client.
type WatchConfig struct {
	APIBaseURL   string        `env:"API_BASE_URL" envDefault:"http://localhost:8080"`
	SessionToken string        `env:"SESSION_TOKEN,required"`
	UserID       kernel.UUID   `env:"SESSION_USER_ID,required"`
	Role         string        `env:"SESSION_ROLE,required"`
	PollInterval time.Duration `env:"SYNC_POLL_INTERVAL" envDefault:"30s"`
	LogLevel     string        `env:"LOG_LEVEL" envDefault:"info"`
	LogMode      string        `env:"LOG_MODE" envDefault:"DEV"`
}

func LoadWatchConfig() (WatchConfig, error) {
	_ = godotenv.Load(".env")

	var cfg WatchConfig
	if err := env.Parse(&cfg); err != nil {
		return WatchConfig{}, fmt.Errorf("error parsing env config: %w", err)
	}
	return cfg, nil
}
