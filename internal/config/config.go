package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config aggregates runtime configuration for the maintenance worker.
type Config struct {
	App         AppConfig
	Postgres    PostgresConfig
	Redis       RedisConfig
	Logger      LoggerConfig
	Scheduler   SchedulerConfig
	Maintenance MaintenanceConfig
	Stats       StatsConfig
}

// AppConfig controls process-level behavior and the ops HTTP surface.
type AppConfig struct {
	Name    string
	Env     string
	Version string
	OpsHost string
	OpsPort string
}

// PostgresConfig holds DB connection values.
type PostgresConfig struct {
	DSN            string
	MaxConns       int32
	MinConns       int32
	RunMigrations  bool
	ConnMaxIdleSec int32
	ConnMaxLifeSec int32
}

// RedisConfig holds Redis connection values.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level string
}

// SchedulerConfig holds per-job interval overrides and SLA tuning.
type SchedulerConfig struct {
	SlaInterval          time.Duration
	SlaWarningWindow     time.Duration
	DailyStatsInterval   time.Duration
	WeeklyStatsInterval  time.Duration
	MonthlyStatsInterval time.Duration
	ExpirySweepInterval  time.Duration
}

// MaintenanceConfig tunes the short-interval consistency loop.
type MaintenanceConfig struct {
	Interval              time.Duration
	PendingPaymentTimeout time.Duration
}

// StatsConfig sizes the aggregation windows and the startup backfill.
type StatsConfig struct {
	DailyWindowDays     int
	WeeklyWindowWeeks   int
	MonthlyWindowMonths int
	BackfillOnStart     bool
	BackfillDays        int
	BackfillWeeks       int
	BackfillMonths      int
}

// Load reads configuration from environment variables, applying defaults where possible.
func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	cfg := &Config{
		App: AppConfig{
			Name:    getEnv("APP_NAME", "commerce-maintenance-worker"),
			Env:     getEnv("APP_ENV", "development"),
			Version: getEnv("APP_VERSION", "dev"),
			OpsHost: getEnv("OPS_HOST", "0.0.0.0"),
			OpsPort: getEnv("OPS_PORT", "8081"),
		},
		Postgres: PostgresConfig{
			DSN:            os.Getenv("POSTGRES_DSN"),
			MaxConns:       int32(getEnvAsInt("POSTGRES_MAX_CONNS", 10)),
			MinConns:       int32(getEnvAsInt("POSTGRES_MIN_CONNS", 2)),
			RunMigrations:  getEnvAsBool("POSTGRES_RUN_MIGRATIONS", true),
			ConnMaxIdleSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_IDLE_SECONDS", 30)),
			ConnMaxLifeSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_LIFE_SECONDS", 300)),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "127.0.0.1:6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       redisDB,
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Scheduler: SchedulerConfig{
			SlaInterval:          getEnvAsDuration("JOB_SLA_INTERVAL", 5*time.Minute),
			SlaWarningWindow:     getEnvAsDuration("SLA_WARNING_WINDOW", 30*time.Minute),
			DailyStatsInterval:   getEnvAsDuration("JOB_DAILY_STATS_INTERVAL", time.Hour),
			WeeklyStatsInterval:  getEnvAsDuration("JOB_WEEKLY_STATS_INTERVAL", 6*time.Hour),
			MonthlyStatsInterval: getEnvAsDuration("JOB_MONTHLY_STATS_INTERVAL", 24*time.Hour),
			ExpirySweepInterval:  getEnvAsDuration("JOB_EXPIRY_SWEEP_INTERVAL", 6*time.Hour),
		},
		Maintenance: MaintenanceConfig{
			Interval:              getEnvAsDuration("MAINTENANCE_INTERVAL", time.Minute),
			PendingPaymentTimeout: getEnvAsDuration("PENDING_PAYMENT_TIMEOUT", 5*time.Minute),
		},
		Stats: StatsConfig{
			DailyWindowDays:     getEnvAsInt("STATS_DAILY_WINDOW_DAYS", 7),
			WeeklyWindowWeeks:   getEnvAsInt("STATS_WEEKLY_WINDOW_WEEKS", 4),
			MonthlyWindowMonths: getEnvAsInt("STATS_MONTHLY_WINDOW_MONTHS", 6),
			BackfillOnStart:     getEnvAsBool("STATS_BACKFILL_ON_START", false),
			BackfillDays:        getEnvAsInt("STATS_BACKFILL_DAYS", 90),
			BackfillWeeks:       getEnvAsInt("STATS_BACKFILL_WEEKS", 26),
			BackfillMonths:      getEnvAsInt("STATS_BACKFILL_MONTHS", 12),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Scheduler.SlaInterval <= 0 {
		return fmt.Errorf("JOB_SLA_INTERVAL must be positive")
	}
	if c.Maintenance.Interval <= 0 {
		return fmt.Errorf("MAINTENANCE_INTERVAL must be positive")
	}
	if c.Maintenance.PendingPaymentTimeout <= 0 {
		return fmt.Errorf("PENDING_PAYMENT_TIMEOUT must be positive")
	}
	if c.Stats.DailyWindowDays <= 0 || c.Stats.WeeklyWindowWeeks <= 0 || c.Stats.MonthlyWindowMonths <= 0 {
		return fmt.Errorf("aggregation windows must be positive")
	}
	return nil
}

// OpsAddr returns the ops HTTP bind address.
func (a AppConfig) OpsAddr() string {
	return fmt.Sprintf("%s:%s", a.OpsHost, a.OpsPort)
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvAsBool(key string, fallback bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(val)
	if err != nil {
		return fallback
	}
	return parsed
}
