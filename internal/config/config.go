package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	App        AppConfig
	Database   DatabaseConfig
	Redis      RedisConfig
	JWT        JWTConfig
	Scoring    ScoringConfig
	Tracing    TracingConfig
	Migrations MigrationsConfig
}

type AppConfig struct {
	AppName     string
	Environment string
	HTTPPort    string
	LogLevel    string
	LogFormat   string
}

type DatabaseConfig struct {
	DBHost     string
	DBPort     string
	DBName     string
	DBUser     string
	DBPassword string
	DBSSLMode  string

	ConnectTimeout        time.Duration
	PoolMaxConns          int32
	PoolMinConns          int32
	PoolMaxConnLifetime   time.Duration
	PoolMaxConnIdleTime   time.Duration
	PoolHealthCheckPeriod time.Duration
}

func (d DatabaseConfig) Enabled() bool {
	return d.DBHost != "" && d.DBName != ""
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
	TTL      time.Duration
}

func (r RedisConfig) Addr() string {
	return r.Host + ":" + r.Port
}

type JWTConfig struct {
	AccessSecret     string
	RefreshSecret    string
	AccessExpiresIn  time.Duration
	RefreshExpiresIn time.Duration
}

type ScoringConfig struct {
	MinScore    int
	TopN        int
	MaxLimit    int
	Concurrency int
	Prefilter   bool
	WeightsFile string
}

type TracingConfig struct {
	Enabled     bool
	ServiceName string
}

type MigrationsConfig struct {
	Dir string
}

var errMissingRequiredEnv = errors.New("missing required environment variables")

func Load() (Config, error) {
	loadDotEnv()

	v := viper.New()
	v.AutomaticEnv()
	setDefaults(v)

	return fromViper(v)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_CONNECT_TIMEOUT", "5s")
	v.SetDefault("DB_POOL_MAX_CONNS", 10)
	v.SetDefault("DB_POOL_MIN_CONNS", 0)
	v.SetDefault("DB_POOL_MAX_CONN_LIFETIME", "1h")
	v.SetDefault("DB_POOL_MAX_CONN_IDLE_TIME", "30m")
	v.SetDefault("DB_POOL_HEALTH_CHECK_PERIOD", "1m")

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", "6379")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("REDIS_TTL", "300s")

	v.SetDefault("JWT_ACCESS_EXPIRES_IN", "15m")
	v.SetDefault("JWT_REFRESH_EXPIRES_IN", "168h")

	v.SetDefault("SCORING_MIN_SCORE", 30)
	v.SetDefault("SCORING_TOP_N", 15)
	v.SetDefault("SCORING_MAX_LIMIT", 50)
	v.SetDefault("SCORING_CONCURRENCY", 8)
	v.SetDefault("SCORING_PREFILTER", false)

	v.SetDefault("TRACING_ENABLED", false)
	v.SetDefault("TRACING_SERVICE_NAME", "scholar-match")

	v.SetDefault("MIGRATIONS_DIR", "migrations")
}

func fromViper(v *viper.Viper) (Config, error) {
	cfg := Config{}

	var missing []string
	req := func(key string) string {
		s := strings.TrimSpace(v.GetString(key))
		if s == "" {
			missing = append(missing, key)
		}
		return s
	}
	opt := func(key string) string {
		return strings.TrimSpace(v.GetString(key))
	}

	cfg.App = AppConfig{
		AppName:     req("APP_NAME"),
		Environment: req("APP_ENV"),
		HTTPPort:    req("HTTP_PORT"),
		LogLevel:    strings.ToLower(opt("LOG_LEVEL")),
		LogFormat:   strings.ToLower(opt("LOG_FORMAT")),
	}

	cfg.Database = DatabaseConfig{
		DBHost:     opt("DB_HOST"),
		DBPort:     opt("DB_PORT"),
		DBName:     opt("DB_NAME"),
		DBUser:     opt("DB_USER"),
		DBPassword: v.GetString("DB_PASSWORD"),
		DBSSLMode:  opt("DB_SSL_MODE"),

		ConnectTimeout:        v.GetDuration("DB_CONNECT_TIMEOUT"),
		PoolMaxConns:          v.GetInt32("DB_POOL_MAX_CONNS"),
		PoolMinConns:          v.GetInt32("DB_POOL_MIN_CONNS"),
		PoolMaxConnLifetime:   v.GetDuration("DB_POOL_MAX_CONN_LIFETIME"),
		PoolMaxConnIdleTime:   v.GetDuration("DB_POOL_MAX_CONN_IDLE_TIME"),
		PoolHealthCheckPeriod: v.GetDuration("DB_POOL_HEALTH_CHECK_PERIOD"),
	}

	cfg.Redis = RedisConfig{
		Host:     opt("REDIS_HOST"),
		Port:     opt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
		TTL:      v.GetDuration("REDIS_TTL"),
	}

	cfg.JWT = JWTConfig{
		AccessSecret:     opt("JWT_ACCESS_SECRET"),
		RefreshSecret:    opt("JWT_REFRESH_SECRET"),
		AccessExpiresIn:  v.GetDuration("JWT_ACCESS_EXPIRES_IN"),
		RefreshExpiresIn: v.GetDuration("JWT_REFRESH_EXPIRES_IN"),
	}

	cfg.Scoring = ScoringConfig{
		MinScore:    v.GetInt("SCORING_MIN_SCORE"),
		TopN:        v.GetInt("SCORING_TOP_N"),
		MaxLimit:    v.GetInt("SCORING_MAX_LIMIT"),
		Concurrency: v.GetInt("SCORING_CONCURRENCY"),
		Prefilter:   v.GetBool("SCORING_PREFILTER"),
		WeightsFile: opt("SCORING_WEIGHTS_FILE"),
	}

	cfg.Tracing = TracingConfig{
		Enabled:     v.GetBool("TRACING_ENABLED"),
		ServiceName: opt("TRACING_SERVICE_NAME"),
	}

	cfg.Migrations = MigrationsConfig{Dir: opt("MIGRATIONS_DIR")}

	if len(missing) > 0 {
		return Config{}, fmt.Errorf("%w: %s", errMissingRequiredEnv, strings.Join(missing, ", "))
	}
	if err := cfg.Scoring.validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func (s ScoringConfig) validate() error {
	if s.MinScore < 0 || s.MinScore > 100 {
		return fmt.Errorf("SCORING_MIN_SCORE must be within [0,100], got %d", s.MinScore)
	}
	if s.TopN <= 0 {
		return fmt.Errorf("SCORING_TOP_N must be positive, got %d", s.TopN)
	}
	if s.MaxLimit < s.TopN {
		return fmt.Errorf("SCORING_MAX_LIMIT (%d) must be at least SCORING_TOP_N (%d)", s.MaxLimit, s.TopN)
	}
	if s.Concurrency <= 0 {
		return fmt.Errorf("SCORING_CONCURRENCY must be positive, got %d", s.Concurrency)
	}
	return nil
}

// loadDotEnv loads the first .env found walking up from the working
// directory. Variables already set in the environment win.
func loadDotEnv() {
	dir, err := os.Getwd()
	if err != nil {
		return
	}
	for {
		p := filepath.Join(dir, ".env")
		if _, err := os.Stat(p); err == nil {
			_ = godotenv.Load(p)
			return
		}
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return
		}
		dir = parent
	}
}
