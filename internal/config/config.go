// AngelaMos | 2026
// config.go

package config

import (
	"fmt"
	"sync"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const (
	BackendMemory   = "memory"
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
)

type Config struct {
	App        AppConfig        `koanf:"app"`
	Server     ServerConfig     `koanf:"server"`
	Storage    StorageConfig    `koanf:"storage"`
	Database   DatabaseConfig   `koanf:"database"`
	Redis      RedisConfig      `koanf:"redis"`
	Device     DeviceConfig     `koanf:"device"`
	Simulation SimulationConfig `koanf:"simulation"`
	RateLimit  RateLimitConfig  `koanf:"rate_limit"`
	Log        LogConfig        `koanf:"log"`
	Otel       OtelConfig       `koanf:"otel"`
}

type AppConfig struct {
	Name        string `koanf:"name"`
	Version     string `koanf:"version"`
	Environment string `koanf:"environment"`
}

type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port"`
	ReadTimeout     time.Duration `koanf:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout"`
	IdleTimeout     time.Duration `koanf:"idle_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

// StorageConfig selects the backend behind the persistence adapter.
type StorageConfig struct {
	Backend   string        `koanf:"backend"`
	KeyPrefix string        `koanf:"key_prefix"`
	TTL       time.Duration `koanf:"ttl"`
}

type DatabaseConfig struct {
	URL             string        `koanf:"url"`
	MaxOpenConns    int           `koanf:"max_open_conns"`
	MaxIdleConns    int           `koanf:"max_idle_conns"`
	ConnMaxLifetime time.Duration `koanf:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `koanf:"conn_max_idle_time"`
}

type RedisConfig struct {
	URL          string `koanf:"url"`
	PoolSize     int    `koanf:"pool_size"`
	MinIdleConns int    `koanf:"min_idle_conns"`
}

type DeviceConfig struct {
	PrivateKeyPath string        `koanf:"private_key_path"`
	PublicKeyPath  string        `koanf:"public_key_path"`
	GenerateKeys   bool          `koanf:"generate_keys"`
	TokenExpire    time.Duration `koanf:"token_expire"`
	Issuer         string        `koanf:"issuer"`
	Audience       string        `koanf:"audience"`
}

// SimulationConfig holds the artificial latencies and outcome
// probabilities of the simulated remote actions.
type SimulationConfig struct {
	TopUpLatency       time.Duration `koanf:"topup_latency"`
	CardLatency        time.Duration `koanf:"card_latency"`
	WalletLatency      time.Duration `koanf:"wallet_latency"`
	PurchaseLatency    time.Duration `koanf:"purchase_latency"`
	ActivationLatency  time.Duration `koanf:"activation_latency"`
	AutoRenewLatency   time.Duration `koanf:"autorenew_latency"`
	ContactLatency     time.Duration `koanf:"contact_latency"`
	ResetLatency       time.Duration `koanf:"reset_latency"`
	LoginLatency       time.Duration `koanf:"login_latency"`
	CardFailureRate    float64       `koanf:"card_failure_rate"`
	WalletFailureRate  float64       `koanf:"wallet_failure_rate"`
	ActivationSuccess  float64       `koanf:"activation_success_rate"`
	MinTopUp           float64       `koanf:"min_topup"`
	MaxTopUp           float64       `koanf:"max_topup"`
	DefaultRenewAmount float64       `koanf:"default_renew_amount"`
}

// RateLimitConfig holds the per-address limit applied to every route
// and the tighter per-device limit on state changing view actions.
type RateLimitConfig struct {
	Requests       int           `koanf:"requests"`
	Window         time.Duration `koanf:"window"`
	Burst          int           `koanf:"burst"`
	ActionRequests int           `koanf:"action_requests"`
	ActionBurst    int           `koanf:"action_burst"`
}

type LogConfig struct {
	Level  string        `koanf:"level"`
	Format string        `koanf:"format"`
	File   string        `koanf:"file"`
	MaxAge time.Duration `koanf:"max_age"`
}

type OtelConfig struct {
	Endpoint    string  `koanf:"endpoint"`
	ServiceName string  `koanf:"service_name"`
	Enabled     bool    `koanf:"enabled"`
	Insecure    bool    `koanf:"insecure"`
	SampleRate  float64 `koanf:"sample_rate"`
}

var (
	cfg  *Config
	once sync.Once
)

func Load(configPath string) (*Config, error) {
	var loadErr error

	once.Do(func() {
		cfg, loadErr = load(configPath)
	})

	if loadErr != nil {
		return nil, loadErr
	}

	return cfg, nil
}

func Get() *Config {
	if cfg == nil {
		panic("config not loaded: call Load() first")
	}
	return cfg
}

func load(configPath string) (*Config, error) {
	k := koanf.New(".")

	if err := loadDefaults(k); err != nil {
		return nil, fmt.Errorf("load defaults: %w", err)
	}

	if configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load config file: %w", err)
		}
	}

	if err := k.Load(env.Provider("", ".", envKeyReplacer), nil); err != nil {
		return nil, fmt.Errorf("load env vars: %w", err)
	}

	c := &Config{}
	if err := k.Unmarshal("", c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := validate(c); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return c, nil
}

func loadDefaults(k *koanf.Koanf) error {
	defaults := map[string]any{
		"app.name":        "eSimphony Demo",
		"app.version":     "1.0.0",
		"app.environment": "development",

		"server.host":             "0.0.0.0",
		"server.port":             8080,
		"server.read_timeout":     "30s",
		"server.write_timeout":    "30s",
		"server.idle_timeout":     "120s",
		"server.shutdown_timeout": "15s",

		"storage.backend":    BackendMemory,
		"storage.key_prefix": "esim",
		"storage.ttl":        "720h",

		"database.max_open_conns":     25,
		"database.max_idle_conns":     5,
		"database.conn_max_lifetime":  "1h",
		"database.conn_max_idle_time": "30m",

		"redis.pool_size":      10,
		"redis.min_idle_conns": 5,

		"device.private_key_path": "keys/private.pem",
		"device.public_key_path":  "keys/public.pem",
		"device.generate_keys":    true,
		"device.token_expire":     "720h",
		"device.issuer":           "esimphony-demo",
		"device.audience":         "esimphony-demo-views",

		"simulation.topup_latency":           "3s",
		"simulation.card_latency":            "3s",
		"simulation.wallet_latency":          "2s",
		"simulation.purchase_latency":        "1s",
		"simulation.activation_latency":      "3s",
		"simulation.autorenew_latency":       "1s",
		"simulation.contact_latency":         "2s",
		"simulation.reset_latency":           "2s",
		"simulation.login_latency":           "1s",
		"simulation.card_failure_rate":       0.10,
		"simulation.wallet_failure_rate":     0.05,
		"simulation.activation_success_rate": 0.80,
		"simulation.min_topup":               1.0,
		"simulation.max_topup":               500.0,
		"simulation.default_renew_amount":    25.0,

		"rate_limit.requests": 100,
		"rate_limit.window":   "1m",
		"rate_limit.burst":    20,

		"rate_limit.action_requests": 20,
		"rate_limit.action_burst":    5,

		"log.level":   "info",
		"log.format":  "json",
		"log.max_age": "168h",

		"otel.enabled":      false,
		"otel.insecure":     true,
		"otel.sample_rate":  0.1,
		"otel.service_name": "esimphony-demo",
	}

	for key, value := range defaults {
		if err := k.Set(key, value); err != nil {
			return fmt.Errorf("set default %s: %w", key, err)
		}
	}

	return nil
}

var envKeyMap = map[string]string{
	"ENVIRONMENT":                 "app.environment",
	"HOST":                        "server.host",
	"PORT":                        "server.port",
	"STORAGE_BACKEND":             "storage.backend",
	"STORAGE_KEY_PREFIX":          "storage.key_prefix",
	"STORAGE_TTL":                 "storage.ttl",
	"DATABASE_URL":                "database.url",
	"REDIS_URL":                   "redis.url",
	"LOG_LEVEL":                   "log.level",
	"LOG_FORMAT":                  "log.format",
	"LOG_FILE":                    "log.file",
	"DEVICE_PRIVATE_KEY_PATH":     "device.private_key_path",
	"DEVICE_PUBLIC_KEY_PATH":      "device.public_key_path",
	"DEVICE_GENERATE_KEYS":        "device.generate_keys",
	"DEVICE_TOKEN_EXPIRE":         "device.token_expire",
	"SIM_CARD_FAILURE_RATE":       "simulation.card_failure_rate",
	"SIM_WALLET_FAILURE_RATE":     "simulation.wallet_failure_rate",
	"SIM_ACTIVATION_SUCCESS_RATE": "simulation.activation_success_rate",
	"RATE_LIMIT_REQUESTS":         "rate_limit.requests",
	"RATE_LIMIT_WINDOW":           "rate_limit.window",
	"RATE_LIMIT_BURST":            "rate_limit.burst",
	"RATE_LIMIT_ACTION_REQUESTS":  "rate_limit.action_requests",
	"RATE_LIMIT_ACTION_BURST":     "rate_limit.action_burst",
	"OTEL_ENDPOINT":               "otel.endpoint",
	"OTEL_EXPORTER_OTLP_ENDPOINT": "otel.endpoint",
	"OTEL_SERVICE_NAME":           "otel.service_name",
	"OTEL_ENABLED":                "otel.enabled",
	"OTEL_INSECURE":               "otel.insecure",
	"OTEL_SAMPLE_RATE":            "otel.sample_rate",
}

func envKeyReplacer(s string) string {
	if mapped, ok := envKeyMap[s]; ok {
		return mapped
	}
	return ""
}

func validate(c *Config) error {
	switch c.Storage.Backend {
	case BackendMemory:
	case BackendRedis:
		if c.Redis.URL == "" {
			return fmt.Errorf("REDIS_URL is required for the redis backend")
		}
	case BackendPostgres:
		if c.Database.URL == "" {
			return fmt.Errorf("DATABASE_URL is required for the postgres backend")
		}
	default:
		return fmt.Errorf("unknown storage backend %q", c.Storage.Backend)
	}

	if c.Device.PrivateKeyPath == "" {
		return fmt.Errorf("DEVICE_PRIVATE_KEY_PATH is required")
	}

	if c.Device.PublicKeyPath == "" {
		return fmt.Errorf("DEVICE_PUBLIC_KEY_PATH is required")
	}

	rates := map[string]float64{
		"simulation.card_failure_rate":       c.Simulation.CardFailureRate,
		"simulation.wallet_failure_rate":     c.Simulation.WalletFailureRate,
		"simulation.activation_success_rate": c.Simulation.ActivationSuccess,
	}
	for name, rate := range rates {
		if rate < 0 || rate > 1 {
			return fmt.Errorf("%s must be within [0, 1]", name)
		}
	}

	if c.Simulation.MinTopUp <= 0 || c.Simulation.MaxTopUp < c.Simulation.MinTopUp {
		return fmt.Errorf("simulation top-up bounds are inconsistent")
	}

	if c.App.Environment == "production" {
		if c.Otel.Enabled && c.Otel.Insecure {
			return fmt.Errorf("OTEL_INSECURE must be false in production")
		}
	}

	if c.RateLimit.ActionRequests <= 0 || c.RateLimit.ActionBurst <= 0 {
		return fmt.Errorf("rate_limit action limits must be positive")
	}

	if c.Server.ReadTimeout <= 0 {
		return fmt.Errorf("server.read_timeout must be positive")
	}

	if c.Server.WriteTimeout <= 0 {
		return fmt.Errorf("server.write_timeout must be positive")
	}

	return nil
}

func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

func (s *ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}
