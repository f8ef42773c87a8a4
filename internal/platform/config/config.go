package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	DriverMemory   = "memory"
	DriverXLSX     = "xlsx"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

type Sheets struct {
	Directory   string `yaml:"directory"`
	Headers     string `yaml:"headers"`
	Details     string `yaml:"details"`
	CommonItems string `yaml:"common_items"`
	GradeItems  string `yaml:"grade_items"`
}

type SMTP struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	UseTLS   bool   `yaml:"use_tls"`
	From     string `yaml:"from"`
}

type Config struct {
	Addr               string        `yaml:"addr"`
	Environment        string        `yaml:"env"`
	StorageDriver      string        `yaml:"storage_driver"`
	WorkbookPath       string        `yaml:"workbook_path"`
	SQLitePath         string        `yaml:"sqlite_path"`
	DatabaseURL        string        `yaml:"database_url"`
	JWTSecret          string        `yaml:"jwt_secret"`
	AdminEmails        []string      `yaml:"admin_emails"`
	Sheets             Sheets        `yaml:"sheets"`
	MaxBodyBytes       int64         `yaml:"max_body_bytes"`
	RateLimitPerMinute int           `yaml:"rate_limit_per_minute"`
	ReminderSchedule   string        `yaml:"reminder_schedule"`
	SlackBotToken      string        `yaml:"slack_bot_token"`
	SMTP               SMTP          `yaml:"smtp"`
	Timezone           string        `yaml:"timezone"`
	DateLayout         string        `yaml:"date_layout"`
	PDFFontPath        string        `yaml:"pdf_font_path"`
	RunMigrations      bool          `yaml:"run_migrations"`
	RunSeed            bool          `yaml:"run_seed"`
	MetricsEnabled     bool          `yaml:"metrics_enabled"`
	ShutdownTimeout    time.Duration `yaml:"shutdown_timeout"`
	LockTimeout        time.Duration `yaml:"lock_timeout"`
	LockConns          int           `yaml:"lock_conns"`
}

func Defaults() Config {
	return Config{
		Addr:          ":8080",
		Environment:   "development",
		StorageDriver: DriverMemory,
		WorkbookPath:  "evaluations.xlsx",
		SQLitePath:    "perfreview.db",
		Sheets: Sheets{
			Directory:   "社員マスタ",
			Headers:     "評価ヘッダDB",
			Details:     "評価明細DB",
			CommonItems: "評価項目マスタ_共通",
			GradeItems:  "評価項目マスタ_等級別",
		},
		SMTP: SMTP{
			Port:   587,
			UseTLS: true,
			From:   "perfreview@example.com",
		},
		MaxBodyBytes:       1048576,
		RateLimitPerMinute: 60,
		Timezone:           "Asia/Tokyo",
		DateLayout:         "2006/01/02",
		RunMigrations:      true,
		RunSeed:            true,
		MetricsEnabled:     true,
		ShutdownTimeout:    10 * time.Second,
		LockTimeout:        30 * time.Second,
		LockConns:          4,
	}
}

func Load() (Config, error) {
	cfg := Defaults()

	path := getEnv("CONFIG_PATH", "config.yaml")
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse %s: %w", path, err)
		}
	case !errors.Is(err, os.ErrNotExist):
		return Config{}, fmt.Errorf("read %s: %w", path, err)
	}

	cfg.Addr = getEnv("APP_ADDR", cfg.Addr)
	cfg.Environment = getEnv("APP_ENV", cfg.Environment)
	cfg.StorageDriver = strings.ToLower(getEnv("STORAGE_DRIVER", cfg.StorageDriver))
	cfg.WorkbookPath = getEnv("WORKBOOK_PATH", cfg.WorkbookPath)
	cfg.SQLitePath = getEnv("SQLITE_PATH", cfg.SQLitePath)
	cfg.DatabaseURL = getEnv("DATABASE_URL", cfg.DatabaseURL)
	cfg.JWTSecret = getEnv("JWT_SECRET", cfg.JWTSecret)
	cfg.AdminEmails = getEnvList("ADMIN_EMAILS", cfg.AdminEmails)
	cfg.MaxBodyBytes = int64(getEnvInt("MAX_BODY_BYTES", int(cfg.MaxBodyBytes)))
	cfg.RateLimitPerMinute = getEnvInt("RATE_LIMIT_PER_MINUTE", cfg.RateLimitPerMinute)
	cfg.ReminderSchedule = getEnv("REMINDER_SCHEDULE", cfg.ReminderSchedule)
	cfg.SlackBotToken = getEnv("SLACK_BOT_TOKEN", cfg.SlackBotToken)
	cfg.SMTP.Host = getEnv("SMTP_HOST", cfg.SMTP.Host)
	cfg.SMTP.Port = getEnvInt("SMTP_PORT", cfg.SMTP.Port)
	cfg.SMTP.User = getEnv("SMTP_USER", cfg.SMTP.User)
	cfg.SMTP.Password = getEnv("SMTP_PASSWORD", cfg.SMTP.Password)
	cfg.SMTP.UseTLS = getEnvBool("SMTP_USE_TLS", cfg.SMTP.UseTLS)
	cfg.SMTP.From = getEnv("EMAIL_FROM", cfg.SMTP.From)
	cfg.Timezone = getEnv("TIMEZONE", cfg.Timezone)
	cfg.DateLayout = getEnv("DATE_LAYOUT", cfg.DateLayout)
	cfg.PDFFontPath = getEnv("PDF_FONT_PATH", cfg.PDFFontPath)
	cfg.RunMigrations = getEnvBool("RUN_MIGRATIONS", cfg.RunMigrations)
	cfg.RunSeed = getEnvBool("RUN_SEED", cfg.RunSeed)
	cfg.MetricsEnabled = getEnvBool("METRICS_ENABLED", cfg.MetricsEnabled)
	cfg.ShutdownTimeout = getEnvDuration("SHUTDOWN_TIMEOUT", cfg.ShutdownTimeout)
	cfg.LockTimeout = getEnvDuration("LOCK_TIMEOUT", cfg.LockTimeout)
	cfg.LockConns = getEnvInt("LOCK_CONNS", cfg.LockConns)

	return cfg, nil
}

func (c Config) Location() *time.Location {
	if c.Timezone == "" || strings.EqualFold(c.Timezone, "Local") {
		return time.Local
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvList(key string, fallback []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	var out []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

func getEnvBool(key string, fallback bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func (c Config) Validate() error {
	switch c.StorageDriver {
	case DriverMemory:
	case DriverXLSX:
		if strings.TrimSpace(c.WorkbookPath) == "" {
			return fmt.Errorf("WORKBOOK_PATH is required for the xlsx driver")
		}
	case DriverSQLite:
		if strings.TrimSpace(c.SQLitePath) == "" {
			return fmt.Errorf("SQLITE_PATH is required for the sqlite driver")
		}
	case DriverPostgres:
		if strings.TrimSpace(c.DatabaseURL) == "" {
			return fmt.Errorf("DATABASE_URL is required for the postgres driver")
		}
		if c.LockConns <= 0 {
			return fmt.Errorf("LOCK_CONNS must be positive")
		}
	default:
		return fmt.Errorf("STORAGE_DRIVER must be one of memory, xlsx, sqlite, postgres; got %q", c.StorageDriver)
	}
	if c.Environment == "production" {
		if strings.TrimSpace(c.JWTSecret) == "" {
			return fmt.Errorf("JWT_SECRET must be set to a strong value in production")
		}
		if c.StorageDriver == DriverMemory {
			return fmt.Errorf("the memory driver cannot be used in production")
		}
	}
	if c.MaxBodyBytes < 1024 {
		return fmt.Errorf("MAX_BODY_BYTES must be at least 1024")
	}
	if c.RateLimitPerMinute <= 0 {
		return fmt.Errorf("RATE_LIMIT_PER_MINUTE must be positive")
	}
	if strings.TrimSpace(c.DateLayout) == "" {
		return fmt.Errorf("DATE_LAYOUT must not be empty")
	}
	if c.Timezone != "" && !strings.EqualFold(c.Timezone, "Local") {
		if _, err := time.LoadLocation(c.Timezone); err != nil {
			return fmt.Errorf("invalid TIMEZONE %q: %w", c.Timezone, err)
		}
	}
	return nil
}
