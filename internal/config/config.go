package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
)

var ErrInvalidConfig = errors.New("config: invalid configuration")

// Режимы работы платежного шлюза
const (
	PaymentModeGateway = "gateway"
	PaymentModeBypass  = "bypass"
)

// Config конфигурация сервиса
type Config struct {
	Server    ServerConfig    `toml:"server"`
	Database  DatabaseConfig  `toml:"database"`
	Logs      LogsConfig      `toml:"logs"`
	Metrics   MetricsConfig   `toml:"metrics"`
	Booking   BookingConfig   `toml:"booking"`
	Payment   PaymentConfig   `toml:"payment"`
	Redis     RedisConfig     `toml:"redis"`
	RateLimit RateLimitConfig `toml:"ratelimit"`
	Reaper    ReaperConfig    `toml:"reaper"`
}

type ServerConfig struct {
	HTTPPort        int `toml:"http_port"`
	ReadTimeout     int `toml:"read_timeout"`
	WriteTimeout    int `toml:"write_timeout"`
	IdleTimeout     int `toml:"idle_timeout"`
	ShutdownTimeout int `toml:"shutdown_timeout"`
	// TrustedProxies адреса (CIDR или IP), от которых принимаются заголовки X-User-ID / X-User-Email
	TrustedProxies []string `toml:"trusted_proxies"`
}

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

// DSN строка подключения для lib/pq
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode)
}

type LogsConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	Path        string `toml:"path"`
	ServiceName string `toml:"service_name"`
}

type BookingConfig struct {
	Enabled  bool   `toml:"enabled"`
	Timezone string `toml:"timezone"`
	// CheckoutURL шаблон ссылки на оплату, {bookingId} заменяется на ID бронирования
	CheckoutURL string `toml:"checkout_url"`
}

// PaymentURL ссылка на страницу оплаты конкретного бронирования
func (b BookingConfig) PaymentURL(bookingID string) string {
	return strings.ReplaceAll(b.CheckoutURL, "{bookingId}", bookingID)
}

type PaymentConfig struct {
	Mode      string `toml:"mode"`
	BaseURL   string `toml:"base_url"`
	KeyID     string `toml:"key_id"`
	KeySecret string `toml:"key_secret"`
	Currency  string `toml:"currency"`
	Timeout   int    `toml:"timeout"`
}

// IsBypass true, если включен явный режим разработки без реального шлюза
func (p PaymentConfig) IsBypass() bool {
	return p.Mode == PaymentModeBypass
}

type RedisConfig struct {
	Enabled bool   `toml:"enabled"`
	URL     string `toml:"url"`
}

type RateLimitConfig struct {
	Enabled       bool `toml:"enabled"`
	Requests      int  `toml:"requests"`
	WindowSeconds int  `toml:"window_seconds"`
}

type ReaperConfig struct {
	Enabled           bool `toml:"enabled"`
	IntervalSeconds   int  `toml:"interval_seconds"`
	StaleAfterMinutes int  `toml:"stale_after_minutes"`
}

// Load читает конфигурацию из TOML файла, применяет переменные окружения и значения по умолчанию
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("config: decode %s: %w", path, err)
	}
	return finalize(cfg)
}

// Parse разбирает конфигурацию из строки (используется в тестах)
func Parse(data string) (*Config, error) {
	cfg := &Config{}
	if _, err := toml.Decode(data, cfg); err != nil {
		return nil, fmt.Errorf("config: decode: %w", err)
	}
	return finalize(cfg)
}

func finalize(cfg *Config) (*Config, error) {
	cfg.applyEnv()
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnv секреты можно не хранить в файле
func (c *Config) applyEnv() {
	if v := os.Getenv("DB_PASSWORD"); v != "" {
		c.Database.Password = v
	}
	if v := os.Getenv("PAYMENT_KEY_ID"); v != "" {
		c.Payment.KeyID = v
	}
	if v := os.Getenv("PAYMENT_KEY_SECRET"); v != "" {
		c.Payment.KeySecret = v
	}
	if v := os.Getenv("REDIS_URL"); v != "" {
		c.Redis.URL = v
	}
}

func (c *Config) applyDefaults() {
	if c.Server.HTTPPort == 0 {
		c.Server.HTTPPort = 8080
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = 15
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = 15
	}
	if c.Server.IdleTimeout == 0 {
		c.Server.IdleTimeout = 60
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = 10
	}
	if c.Database.SSLMode == "" {
		c.Database.SSLMode = "disable"
	}
	if c.Database.MaxOpenConns == 0 {
		c.Database.MaxOpenConns = 25
	}
	if c.Database.MaxIdleConns == 0 {
		c.Database.MaxIdleConns = 5
	}
	if c.Database.ConnMaxLifetime == 0 {
		c.Database.ConnMaxLifetime = 300
	}
	if c.Logs.Level == "" {
		c.Logs.Level = "info"
	}
	if c.Metrics.Path == "" {
		c.Metrics.Path = "/metrics"
	}
	if c.Metrics.ServiceName == "" {
		c.Metrics.ServiceName = "smc_service_booking"
	}
	if c.Booking.Timezone == "" {
		c.Booking.Timezone = "Asia/Kolkata"
	}
	if c.Booking.CheckoutURL == "" {
		c.Booking.CheckoutURL = "/checkout/booking/{bookingId}"
	}
	if c.Payment.Mode == "" {
		c.Payment.Mode = PaymentModeGateway
	}
	if c.Payment.Currency == "" {
		c.Payment.Currency = "INR"
	}
	if c.Payment.Timeout == 0 {
		c.Payment.Timeout = 10
	}
	if c.RateLimit.Requests == 0 {
		c.RateLimit.Requests = 20
	}
	if c.RateLimit.WindowSeconds == 0 {
		c.RateLimit.WindowSeconds = 60
	}
	if c.Reaper.IntervalSeconds == 0 {
		c.Reaper.IntervalSeconds = 60
	}
	if c.Reaper.StaleAfterMinutes == 0 {
		c.Reaper.StaleAfterMinutes = 10
	}
}

// Validate проверяет значения, с которыми сервис не может стартовать
func (c *Config) Validate() error {
	switch c.Payment.Mode {
	case PaymentModeGateway:
		// Ключ нужен и для открытия заказа, и для проверки подписи
		if c.Payment.BaseURL == "" || c.Payment.KeyID == "" || c.Payment.KeySecret == "" {
			return fmt.Errorf("%w: payment gateway requires base_url, key_id and key_secret", ErrInvalidConfig)
		}
	case PaymentModeBypass:
		if c.Payment.KeySecret == "" {
			return fmt.Errorf("%w: payment bypass mode still requires key_secret for signatures", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: unknown payment mode %q", ErrInvalidConfig, c.Payment.Mode)
	}

	if c.Redis.Enabled && c.Redis.URL == "" {
		return fmt.Errorf("%w: redis enabled without url", ErrInvalidConfig)
	}
	if c.Reaper.StaleAfterMinutes < 1 {
		return fmt.Errorf("%w: reaper stale_after_minutes must be positive", ErrInvalidConfig)
	}
	if !strings.Contains(c.Booking.CheckoutURL, "{bookingId}") {
		return fmt.Errorf("%w: booking checkout_url must contain {bookingId}", ErrInvalidConfig)
	}

	return nil
}
