package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

type Config struct {
	BotToken    string
	BotUsername string

	TeamAddresses  []string
	ReferralPrefix string
	DirectCredit   string
	IndirectCredit string
	TierDepth      int

	LogProduction bool

	MetricsAddr         string
	MetricsAllowedCIDRs []string

	DBUser     string
	DBPassword string
	DBName     string
	DBHost     string
	DBPort     string

	RedisHost       string
	RedisPort       string
	RedisPassword   string
	RefreshCooldown time.Duration
}

var defaultTeamAddresses = "8rMj1dMR6tp428j7DaGUn6TpLi89fpdYNQEwqUzyFCe3,EATAgjcHTZxCaudus4VvktLRfxYjtHMbNLSnyDJYXtnt"

func LoadConfig() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	return &Config{
		BotToken:            getEnv("TELEGRAM_BOT_TOKEN", ""),
		BotUsername:         getEnv("BOT_USERNAME", "Thanatos_TrojanBot"),
		TeamAddresses:       splitList(getEnv("TEAM_ADDRESSES", defaultTeamAddresses)),
		ReferralPrefix:      getEnv("REFERRAL_PREFIX", "ref_"),
		DirectCredit:        getEnv("REFERRAL_DIRECT_CREDIT", "0.01"),
		IndirectCredit:      getEnv("REFERRAL_INDIRECT_CREDIT", "0.005"),
		TierDepth:           getEnvInt("REFERRAL_TIER_DEPTH", 2),
		LogProduction:       getEnvBool("LOG_PRODUCTION", false),
		MetricsAddr:         getEnv("METRICS_ADDR", ":9100"),
		MetricsAllowedCIDRs: splitList(getEnv("METRICS_ALLOWED_CIDRS", "127.0.0.0/8,::1/128")),
		DBUser:              getEnv("DB_USER", "postgres"),
		DBPassword:          getEnv("DB_PASSWORD", "postgres"),
		DBName:              getEnv("DB_NAME", "trojan_bot"),
		DBHost:              getEnv("DB_HOST", ""),
		DBPort:              getEnv("DB_PORT", "5432"),
		RedisHost:           getEnv("REDIS_HOST", ""),
		RedisPort:           getEnv("REDIS_PORT", "6379"),
		RedisPassword:       getEnv("REDIS_PASSWORD", ""),
		RefreshCooldown:     getEnvDuration("REFRESH_COOLDOWN", 3*time.Second),
	}
}

// Validate checks everything the process cannot start without.
func (c *Config) Validate() error {
	var errs []error
	if c.BotToken == "" {
		errs = append(errs, errors.New("TELEGRAM_BOT_TOKEN is required"))
	}
	if len(c.TeamAddresses) == 0 {
		errs = append(errs, errors.New("TEAM_ADDRESSES must list at least one address"))
	}
	if c.ReferralPrefix == "" {
		errs = append(errs, errors.New("REFERRAL_PREFIX must not be empty"))
	}
	if c.TierDepth < 1 {
		errs = append(errs, fmt.Errorf("REFERRAL_TIER_DEPTH must be at least 1, got %d", c.TierDepth))
	}
	direct, indirect, err := c.Credits()
	if err != nil {
		errs = append(errs, err)
	} else if direct.LessThan(indirect) {
		errs = append(errs, fmt.Errorf("REFERRAL_DIRECT_CREDIT (%s) must not be lower than REFERRAL_INDIRECT_CREDIT (%s)", direct, indirect))
	}
	return errors.Join(errs...)
}

// Credits parses the configured per-tier reward increments.
func (c *Config) Credits() (direct, indirect decimal.Decimal, err error) {
	direct, err = parseCredit("REFERRAL_DIRECT_CREDIT", c.DirectCredit)
	if err != nil {
		return
	}
	indirect, err = parseCredit("REFERRAL_INDIRECT_CREDIT", c.IndirectCredit)
	return
}

func (c *Config) AuditEnabled() bool {
	return c.DBHost != ""
}

func (c *Config) ThrottleEnabled() bool {
	return c.RedisHost != ""
}

func parseCredit(key, raw string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return decimal.Zero, fmt.Errorf("%s: %w", key, err)
	}
	if d.IsNegative() {
		return decimal.Zero, fmt.Errorf("%s must not be negative, got %s", key, d)
	}
	return d, nil
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v, err := strconv.Atoi(getEnv(key, ""))
	if err != nil {
		return fallback
	}
	return v
}

func getEnvBool(key string, fallback bool) bool {
	v, err := strconv.ParseBool(getEnv(key, ""))
	if err != nil {
		return fallback
	}
	return v
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	v, err := time.ParseDuration(getEnv(key, ""))
	if err != nil {
		return fallback
	}
	return v
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
