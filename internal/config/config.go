package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

var (
	// ErrReadConfig возвращается, когда не удалось прочитать файл конфигурации
	ErrReadConfig = errors.New("config: failed to read config file")

	// ErrInvalidConfig возвращается, когда конфигурация содержит недопустимые значения
	ErrInvalidConfig = errors.New("config: invalid configuration")
)

// Config конфигурация сервиса
type Config struct {
	Server       ServerConfig       `toml:"server"`
	Database     DatabaseConfig     `toml:"database"`
	Logs         LogsConfig         `toml:"logs"`
	Metrics      MetricsConfig      `toml:"metrics"`
	Availability AvailabilityConfig `toml:"availability"`
	Webhooks     WebhooksConfig     `toml:"webhooks"`
	RateLimit    RateLimitConfig    `toml:"rate_limit"`
	Redis        RedisConfig        `toml:"redis"`
	Sweeper      SweeperConfig      `toml:"sweeper"`
}

// ServerConfig настройки HTTP сервера (таймауты в секундах)
type ServerConfig struct {
	HTTPPort        int    `toml:"http_port"`
	ReadTimeout     int    `toml:"read_timeout"`
	WriteTimeout    int    `toml:"write_timeout"`
	IdleTimeout     int    `toml:"idle_timeout"`
	ShutdownTimeout int    `toml:"shutdown_timeout"`
	PublicBaseURL   string `toml:"public_base_url"`
}

// DatabaseConfig настройки подключения к PostgreSQL
type DatabaseConfig struct {
	Host            string `toml:"host"`
	Port            int    `toml:"port"`
	User            string `toml:"user"`
	Password        string `toml:"password"`
	DBName          string `toml:"dbname"`
	SSLMode         string `toml:"sslmode"`
	MaxOpenConns    int    `toml:"max_open_conns"`
	MaxIdleConns    int    `toml:"max_idle_conns"`
	ConnMaxLifetime int    `toml:"conn_max_lifetime"`
}

// DSN возвращает строку подключения для lib/pq
func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}

// LogsConfig настройки логирования
type LogsConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

// MetricsConfig настройки Prometheus
type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	Path        string `toml:"path"`
	ServiceName string `toml:"service_name"`
}

// AvailabilityConfig параметры расчета свободных слотов
type AvailabilityConfig struct {
	SlotIntervalMinutes int    `toml:"slot_interval_minutes"`
	MaxBookingDays      int    `toml:"max_booking_days"`
	MinLeadTimeMinutes  int    `toml:"min_lead_time_minutes"`
	DefaultTimezone     string `toml:"default_timezone"`
}

// WebhooksConfig настройки доставки вебхуков
type WebhooksConfig struct {
	MasterSecret       string `toml:"master_secret"`
	CancellationSecret string `toml:"cancellation_secret"`
	MaxAttempts        int    `toml:"max_attempts"`
	TimeoutSeconds     int    `toml:"timeout_seconds"`
	BackoffStepMillis  int    `toml:"backoff_step_millis"`
}

// Timeout таймаут одной попытки доставки
func (c WebhooksConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// BackoffStep шаг линейной задержки между попытками
func (c WebhooksConfig) BackoffStep() time.Duration {
	return time.Duration(c.BackoffStepMillis) * time.Millisecond
}

// RateLimitConfig настройки ограничения частоты запросов внешнего API
type RateLimitConfig struct {
	Backend       string `toml:"backend"` // memory | redis
	Limit         int    `toml:"limit"`
	WindowSeconds int    `toml:"window_seconds"`
	FailOpen      bool   `toml:"fail_open"`
}

// Window длительность окна
func (c RateLimitConfig) Window() time.Duration {
	return time.Duration(c.WindowSeconds) * time.Second
}

// RedisConfig настройки подключения к Redis
type RedisConfig struct {
	Addr      string `toml:"addr"`
	Password  string `toml:"password"`
	DB        int    `toml:"db"`
	KeyPrefix string `toml:"key_prefix"`
}

// SweeperConfig настройки фонового завершения прошедших записей
type SweeperConfig struct {
	Enabled         bool `toml:"enabled"`
	IntervalSeconds int  `toml:"interval_seconds"`
}

// Interval период запуска
func (c SweeperConfig) Interval() time.Duration {
	return time.Duration(c.IntervalSeconds) * time.Second
}

// Default возвращает конфигурацию со значениями по умолчанию
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			HTTPPort:        8080,
			ReadTimeout:     15,
			WriteTimeout:    15,
			IdleTimeout:     60,
			ShutdownTimeout: 30,
			PublicBaseURL:   "http://localhost:3000",
		},
		Database: DatabaseConfig{
			Host:            "localhost",
			Port:            5432,
			User:            "postgres",
			DBName:          "turnero",
			SSLMode:         "disable",
			MaxOpenConns:    25,
			MaxIdleConns:    5,
			ConnMaxLifetime: 300,
		},
		Logs: LogsConfig{
			Level: "info",
		},
		Metrics: MetricsConfig{
			Enabled:     true,
			Path:        "/metrics",
			ServiceName: "turnero-service",
		},
		Availability: AvailabilityConfig{
			SlotIntervalMinutes: 5,
			MaxBookingDays:      30,
			MinLeadTimeMinutes:  60,
			DefaultTimezone:     "America/Argentina/Buenos_Aires",
		},
		Webhooks: WebhooksConfig{
			MaxAttempts:       3,
			TimeoutSeconds:    10,
			BackoffStepMillis: 1000,
		},
		RateLimit: RateLimitConfig{
			Backend:       "memory",
			Limit:         100,
			WindowSeconds: 60,
			FailOpen:      true,
		},
		Redis: RedisConfig{
			Addr:      "localhost:6379",
			KeyPrefix: "turnero:rl",
		},
		Sweeper: SweeperConfig{
			Enabled:         true,
			IntervalSeconds: 300,
		},
	}
}

// Load читает конфигурацию из TOML файла поверх значений по умолчанию
// и применяет переопределения секретов из переменных окружения
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrReadConfig, path, err)
	}

	if err := Parse(string(data), cfg); err != nil {
		return nil, err
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Parse декодирует TOML в cfg
func Parse(data string, cfg *Config) error {
	if _, err := toml.Decode(data, cfg); err != nil {
		return fmt.Errorf("%w: decode toml: %v", ErrReadConfig, err)
	}
	return nil
}

func (c *Config) applyEnv() {
	overrides := map[string]*string{
		"DB_PASSWORD":           &c.Database.Password,
		"WEBHOOK_MASTER_SECRET": &c.Webhooks.MasterSecret,
		"CANCELLATION_SECRET":   &c.Webhooks.CancellationSecret,
		"REDIS_PASSWORD":        &c.Redis.Password,
	}
	for name, target := range overrides {
		if v, ok := os.LookupEnv(name); ok && v != "" {
			*target = v
		}
	}
}

// Validate проверяет корректность значений
func (c *Config) Validate() error {
	switch {
	case c.Server.HTTPPort <= 0 || c.Server.HTTPPort > 65535:
		return fmt.Errorf("%w: server.http_port=%d", ErrInvalidConfig, c.Server.HTTPPort)
	case c.Availability.SlotIntervalMinutes <= 0:
		return fmt.Errorf("%w: availability.slot_interval_minutes must be positive", ErrInvalidConfig)
	case c.Availability.MaxBookingDays < 0:
		return fmt.Errorf("%w: availability.max_booking_days must not be negative", ErrInvalidConfig)
	case c.Availability.MinLeadTimeMinutes < 0:
		return fmt.Errorf("%w: availability.min_lead_time_minutes must not be negative", ErrInvalidConfig)
	case c.Webhooks.MaxAttempts <= 0:
		return fmt.Errorf("%w: webhooks.max_attempts must be positive", ErrInvalidConfig)
	case c.Webhooks.TimeoutSeconds <= 0:
		return fmt.Errorf("%w: webhooks.timeout_seconds must be positive", ErrInvalidConfig)
	case c.RateLimit.Limit <= 0 || c.RateLimit.WindowSeconds <= 0:
		return fmt.Errorf("%w: rate_limit.limit and rate_limit.window_seconds must be positive", ErrInvalidConfig)
	case c.Sweeper.Enabled && c.Sweeper.IntervalSeconds <= 0:
		return fmt.Errorf("%w: sweeper.interval_seconds must be positive", ErrInvalidConfig)
	}

	if _, err := time.LoadLocation(c.Availability.DefaultTimezone); err != nil {
		return fmt.Errorf("%w: availability.default_timezone=%q: %v", ErrInvalidConfig, c.Availability.DefaultTimezone, err)
	}

	switch strings.ToLower(c.RateLimit.Backend) {
	case "memory", "redis":
	default:
		return fmt.Errorf("%w: rate_limit.backend=%q, expected memory or redis", ErrInvalidConfig, c.RateLimit.Backend)
	}

	return nil
}
