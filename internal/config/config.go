package config

import (
	"fmt"

	"github.com/BurntSushi/toml"
)

// Config конфигурация сервиса, загружается из config.toml
type Config struct {
	Server      ServerConfig      `toml:"server"`
	Database    DatabaseConfig    `toml:"database"`
	Logs        LogsConfig        `toml:"logs"`
	Metrics     MetricsConfig     `toml:"metrics"`
	MailService MailServiceConfig `toml:"mailservice"`
	Booking     BookingConfig     `toml:"booking"`
}

// ServerConfig настройки HTTP сервера
type ServerConfig struct {
	HTTPPort        int `toml:"http_port"`
	ReadTimeout     int `toml:"read_timeout"`     // секунды
	WriteTimeout    int `toml:"write_timeout"`    // секунды
	IdleTimeout     int `toml:"idle_timeout"`     // секунды
	ShutdownTimeout int `toml:"shutdown_timeout"` // секунды
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
	ConnMaxLifetime int    `toml:"conn_max_lifetime"` // секунды
}

// DSN возвращает строку подключения к PostgreSQL
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}

// LogsConfig настройки логирования
type LogsConfig struct {
	File  string `toml:"file"`
	Level string `toml:"level"`
}

// MetricsConfig настройки метрик Prometheus
type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	Path        string `toml:"path"`
	ServiceName string `toml:"service_name"`
}

// MailServiceConfig настройки клиента почтового API
type MailServiceConfig struct {
	URL        string `toml:"url"`
	APIKey     string `toml:"api_key"`
	From       string `toml:"from"`
	AdminEmail string `toml:"admin_email"`
	Timeout    int    `toml:"timeout"` // секунды
}

// BookingConfig правила бронирования и тарифы
// Иммутабельна после загрузки: передаётся по значению в конструкторы компонентов
type BookingConfig struct {
	ReferencePrefix string `toml:"reference_prefix"`

	MinLeadDays int `toml:"min_lead_days"`
	MaxLeadDays int `toml:"max_lead_days"`

	BusinessOpen  string `toml:"business_open"`  // "08:00"
	BusinessClose string `toml:"business_close"` // "20:00", верхняя граница не включается

	SlotGranularityMinutes int `toml:"slot_granularity_minutes"`
	SlotCapacity           int `toml:"slot_capacity"`
	DefaultDurationMinutes int `toml:"default_duration_minutes"`

	MinBedrooms  int `toml:"min_bedrooms"`
	MinBathrooms int `toml:"min_bathrooms"`

	TaxRate float64 `toml:"tax_rate"`

	Rates map[string]TierRates `toml:"rates"`
}

// TierRates тарифы за единицу для одного типа уборки
type TierRates struct {
	BedroomRate  float64 `toml:"bedroom_rate"`
	BathroomRate float64 `toml:"bathroom_rate"`
}

// Load читает и валидирует конфигурацию из TOML файла
func Load(path string) (*Config, error) {
	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, fmt.Errorf("config: failed to decode %s: %w", path, err)
	}

	applyDefaults(&cfg)

	if err := validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Server.HTTPPort == 0 {
		cfg.Server.HTTPPort = 8080
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = 10
	}
	if cfg.Logs.File == "" {
		cfg.Logs.File = "logs/booking-service.log"
	}
	if cfg.Logs.Level == "" {
		cfg.Logs.Level = "info"
	}
	if cfg.Metrics.Path == "" {
		cfg.Metrics.Path = "/metrics"
	}
	if cfg.Metrics.ServiceName == "" {
		cfg.Metrics.ServiceName = "ch-booking-service"
	}

	b := &cfg.Booking
	if b.ReferencePrefix == "" {
		b.ReferencePrefix = "CLN"
	}
	if b.MinLeadDays == 0 {
		b.MinLeadDays = 1
	}
	if b.MaxLeadDays == 0 {
		b.MaxLeadDays = 90
	}
	if b.BusinessOpen == "" {
		b.BusinessOpen = "08:00"
	}
	if b.BusinessClose == "" {
		b.BusinessClose = "20:00"
	}
	if b.SlotGranularityMinutes == 0 {
		b.SlotGranularityMinutes = 30
	}
	if b.SlotCapacity == 0 {
		b.SlotCapacity = 1
	}
	if b.DefaultDurationMinutes == 0 {
		b.DefaultDurationMinutes = 120
	}
	if b.MinBedrooms == 0 {
		b.MinBedrooms = 1
	}
	if b.MinBathrooms == 0 {
		b.MinBathrooms = 1
	}
}

func validate(cfg *Config) error {
	if cfg.Database.Host == "" {
		return fmt.Errorf("config: database.host is required")
	}
	if cfg.Database.DBName == "" {
		return fmt.Errorf("config: database.dbname is required")
	}
	if cfg.Booking.TaxRate < 0 || cfg.Booking.TaxRate >= 1 {
		return fmt.Errorf("config: booking.tax_rate must be in [0, 1)")
	}
	if cfg.Booking.SlotCapacity < 1 {
		return fmt.Errorf("config: booking.slot_capacity must be positive")
	}
	return nil
}
