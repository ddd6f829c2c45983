package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/damoang/payout-ledger/pkg/logger"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// Config 애플리케이션 설정
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Database   DatabaseConfig   `yaml:"database"`
	Redis      RedisConfig      `yaml:"redis"`
	JWT        JWTConfig        `yaml:"jwt"`
	Internal   InternalConfig   `yaml:"internal"`
	CORS       CORSConfig       `yaml:"cors"`
	Settlement SettlementConfig `yaml:"settlement"`
}

type ServerConfig struct {
	Port int    `yaml:"port"`
	Mode string `yaml:"mode"` // gin mode: debug | release | test
	Env  string `yaml:"-"`
}

type DatabaseConfig struct {
	Driver          string `yaml:"driver"` // mysql | sqlite
	DSN             string `yaml:"dsn"`
	Host            string `yaml:"host"`
	Port            int    `yaml:"port"`
	User            string `yaml:"user"`
	Password        string `yaml:"password"`
	Name            string `yaml:"name"`
	MaxIdleConns    int    `yaml:"max_idle_conns"`
	MaxOpenConns    int    `yaml:"max_open_conns"`
	ConnMaxLifetime int    `yaml:"conn_max_lifetime"` // seconds
}

type RedisConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	PoolSize int    `yaml:"pool_size"`
}

type JWTConfig struct {
	Secret    string        `yaml:"secret"`
	ExpiresIn time.Duration `yaml:"expires_in"`
}

type InternalConfig struct {
	APIKey string `yaml:"api_key"`
}

type CORSConfig struct {
	AllowOrigins string `yaml:"allow_origins"` // comma separated
}

// SettlementConfig 정산 도메인 설정
type SettlementConfig struct {
	Currency                 string          `yaml:"currency"`
	DefaultCommissionPercent decimal.Decimal `yaml:"default_commission_percent"`
	DefaultGSTPercent        decimal.Decimal `yaml:"default_gst_percent"`
	ReturnWindow             time.Duration   `yaml:"return_window"`
	ReconcileInterval        time.Duration   `yaml:"reconcile_interval"`
	ReconcileBatchSize       int             `yaml:"reconcile_batch_size"`
	PayoutRateLimit          int             `yaml:"payout_rate_limit"` // admin 전이 요청/분, 0이면 비활성
}

// Default 파일 없이도 기동 가능한 기본값
func Default() *Config {
	return &Config{
		Server: ServerConfig{Port: 8090, Mode: "debug"},
		Database: DatabaseConfig{
			Driver:          "mysql",
			Host:            "localhost",
			Port:            3306,
			User:            "payout",
			Name:            "payout_ledger",
			MaxIdleConns:    10,
			MaxOpenConns:    50,
			ConnMaxLifetime: 300,
		},
		Redis:    RedisConfig{Host: "localhost", Port: 6379, PoolSize: 10},
		JWT:      JWTConfig{ExpiresIn: 15 * time.Minute},
		CORS:     CORSConfig{AllowOrigins: "http://localhost:3000"},
		Settlement: SettlementConfig{
			Currency:                 "INR",
			DefaultCommissionPercent: decimal.NewFromInt(5),
			DefaultGSTPercent:        decimal.NewFromInt(18),
			ReturnWindow:             7 * 24 * time.Hour,
			ReconcileInterval:        time.Minute,
			ReconcileBatchSize:       100,
			PayoutRateLimit:          60,
		},
	}
}

// Load YAML 설정을 읽고 환경변수로 덮어쓴다. 파일이 없으면 기본값 + 환경변수.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("config parse %s: %w", path, err)
		}
	case os.IsNotExist(err):
		logger.GetLogger().Warn().Str("path", path).Msg("config file not found, using defaults")
	default:
		return nil, err
	}

	if err := applyEnv(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) error {
	cfg.Server.Env = envOr("APP_ENV", "local")

	if v := os.Getenv("PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("PORT: %w", err)
		}
		cfg.Server.Port = port
	}
	if v := os.Getenv("DB_DRIVER"); v != "" {
		cfg.Database.Driver = v
	}
	if v := os.Getenv("DB_DSN"); v != "" {
		cfg.Database.DSN = v
	}
	if v := os.Getenv("DB_PASSWORD"); v != "" {
		cfg.Database.Password = v
	}
	if v := os.Getenv("REDIS_HOST"); v != "" {
		cfg.Redis.Host = v
		cfg.Redis.Enabled = true
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		cfg.Redis.Password = v
	}
	if v := os.Getenv("JWT_SECRET"); v != "" {
		cfg.JWT.Secret = v
	}
	if v := os.Getenv("INTERNAL_API_KEY"); v != "" {
		cfg.Internal.APIKey = v
	}
	if v := os.Getenv("CORS_ALLOW_ORIGINS"); v != "" {
		cfg.CORS.AllowOrigins = v
	}
	return nil
}

// Validate 기동 전에 확인해야 하는 값
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case "mysql", "sqlite":
	default:
		return fmt.Errorf("database.driver must be mysql or sqlite, got %q", c.Database.Driver)
	}
	if c.JWT.Secret == "" && !c.IsDevelopment() {
		return fmt.Errorf("jwt.secret (JWT_SECRET) is required outside development")
	}
	if c.Settlement.ReturnWindow < 0 {
		return fmt.Errorf("settlement.return_window must not be negative")
	}
	if strings.TrimSpace(c.Settlement.Currency) == "" {
		return fmt.Errorf("settlement.currency is required")
	}
	return nil
}

// IsDevelopment local/dev 환경 여부
func (c *Config) IsDevelopment() bool {
	switch c.Server.Env {
	case "", "local", "dev", "development":
		return true
	}
	return false
}

// GetDSN dsn이 지정되어 있으면 그대로, 아니면 개별 항목으로 조립
func (d *DatabaseConfig) GetDSN() string {
	if d.DSN != "" {
		return d.DSN
	}
	if d.Driver == "sqlite" {
		return "file:payout_ledger.db?_foreign_keys=on"
	}
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=true&loc=UTC",
		d.User, d.Password, d.Host, d.Port, d.Name)
}

// LogResolved 비밀값을 제외한 최종 설정을 남긴다
func LogResolved(cfg *Config) {
	logger.GetLogger().Info().
		Str("env", cfg.Server.Env).
		Int("port", cfg.Server.Port).
		Str("db_driver", cfg.Database.Driver).
		Str("db_host", cfg.Database.Host).
		Bool("redis_enabled", cfg.Redis.Enabled).
		Str("currency", cfg.Settlement.Currency).
		Str("default_commission_percent", cfg.Settlement.DefaultCommissionPercent.String()).
		Str("default_gst_percent", cfg.Settlement.DefaultGSTPercent.String()).
		Dur("return_window", cfg.Settlement.ReturnWindow).
		Dur("reconcile_interval", cfg.Settlement.ReconcileInterval).
		Bool("internal_api_key_set", cfg.Internal.APIKey != "").
		Msg("config resolved")
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
