// Package config loads server configuration from the environment and an
// optional .env file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"

	"github.com/warp/attendance-engine/factory"
	"github.com/warp/attendance-engine/overtime"
	"github.com/warp/attendance-engine/worktime"
)

type Config struct {
	App     AppConfig
	Rules   worktime.Config
	Tiers   overtime.TierTable
	Monitor MonitorConfig
}

// AppConfig holds HTTP server and storage settings.
type AppConfig struct {
	Port               int
	DBPath             string
	LogLevel           slog.Level
	CORSAllowedOrigins []string
	RulesFile          string
}

// MonitorConfig holds the overtime ceiling monitor settings.
type MonitorConfig struct {
	Enabled  bool
	Interval time.Duration
}

// Load reads .env when present, then the environment. A rules file, when
// RULES_FILE is set, is applied first; the individual work-rule variables
// override it.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	config := &Config{
		Rules: worktime.DefaultConfig(),
		Tiers: overtime.DefaultTiers(),
	}

	port, err := getEnvInt("PORT", 8080)
	if err != nil {
		return nil, err
	}
	level, err := parseLevel(getEnv("LOG_LEVEL", "info"))
	if err != nil {
		return nil, err
	}
	config.App = AppConfig{
		Port:               port,
		DBPath:             getEnv("DB_PATH", "./data/attendance.db"),
		LogLevel:           level,
		CORSAllowedOrigins: getEnvSlice("CORS_ALLOWED_ORIGINS", []string{"http://localhost:5173", "http://localhost:8080"}),
		RulesFile:          getEnv("RULES_FILE", ""),
	}

	if config.App.RulesFile != "" {
		rules, err := factory.LoadRulesFile(config.App.RulesFile)
		if err != nil {
			return nil, err
		}
		config.Rules = rules.Config
		config.Tiers = rules.Tiers
	}
	if err := config.loadRules(); err != nil {
		return nil, err
	}

	enabled, err := getEnvBool("CEILING_MONITOR_ENABLED", true)
	if err != nil {
		return nil, err
	}
	interval, err := getEnvDuration("CEILING_MONITOR_INTERVAL", time.Hour)
	if err != nil {
		return nil, err
	}
	config.Monitor = MonitorConfig{Enabled: enabled, Interval: interval}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return config, nil
}

func (c *Config) loadRules() error {
	r := &c.Rules
	for _, f := range []struct {
		key string
		dst *int
	}{
		{"WORKDAY_START_HOUR", &r.StartHour},
		{"WORKDAY_END_HOUR", &r.EndHour},
		{"LUNCH_START_HOUR", &r.LunchStartHour},
		{"LUNCH_END_HOUR", &r.LunchEndHour},
		{"DAILY_HOURS", &r.DailyHours},
	} {
		v, err := getEnvInt(f.key, *f.dst)
		if err != nil {
			return err
		}
		*f.dst = v
	}

	if v := os.Getenv("OVERTIME_MONTHLY_CEILING"); v != "" {
		d, err := decimal.NewFromString(v)
		if err != nil {
			return fmt.Errorf("invalid OVERTIME_MONTHLY_CEILING: %w", err)
		}
		r.MonthlyOvertimeCeiling = d
	}

	if tz := os.Getenv("TIMEZONE"); tz != "" {
		loc, err := time.LoadLocation(tz)
		if err != nil {
			return fmt.Errorf("invalid TIMEZONE: %w", err)
		}
		r.Location = loc
	}
	return nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.App.Port <= 0 || c.App.Port > 65535 {
		return fmt.Errorf("PORT out of range: %d", c.App.Port)
	}
	if c.App.DBPath == "" {
		return fmt.Errorf("DB_PATH is required")
	}
	if c.Monitor.Enabled && c.Monitor.Interval <= 0 {
		return fmt.Errorf("CEILING_MONITOR_INTERVAL must be positive")
	}
	if err := c.Rules.Validate(); err != nil {
		return err
	}
	return c.Tiers.Validate()
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func getEnvBool(key string, defaultValue bool) (bool, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("invalid %s: %w", key, err)
	}
	return b, nil
}

func getEnvDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

func getEnvSlice(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func parseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("invalid LOG_LEVEL: %w", err)
	}
	return level, nil
}
