package config

import (
	"fmt"

	"github.com/BurntSushi/toml"
)

// Config конфигурация сервиса, загружается из config.toml
type Config struct {
	Server       ServerConfig       `toml:"server"`
	Database     DatabaseConfig     `toml:"database"`
	Logs         LogsConfig         `toml:"logs"`
	Metrics      MetricsConfig      `toml:"metrics"`
	Holds        HoldsConfig        `toml:"holds"`
	SMSGateway   SMSGatewayConfig   `toml:"sms_gateway"`
	EmailGateway EmailGatewayConfig `toml:"email_gateway"`
	RabbitMQ     RabbitMQConfig     `toml:"rabbitmq"`
	Sweeper      SweeperConfig      `toml:"sweeper"`
}

// ServerConfig настройки HTTP сервера
type ServerConfig struct {
	HTTPPort        int `toml:"http_port"`
	ReadTimeout     int `toml:"read_timeout"`
	WriteTimeout    int `toml:"write_timeout"`
	IdleTimeout     int `toml:"idle_timeout"`
	ShutdownTimeout int `toml:"shutdown_timeout"`
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

// DSN возвращает строку подключения к PostgreSQL
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode)
}

// LogsConfig настройки логирования
type LogsConfig struct {
	File  string `toml:"file"`
	Level string `toml:"level"`
}

// MetricsConfig настройки метрик
type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	Path        string `toml:"path"`
	ServiceName string `toml:"service_name"`
}

// HoldsConfig тайминги жизненного цикла hold'а.
// Все значения - смещения в минутах от момента создания.
// Дедлайн подписания короче дедлайна оплаты, оба в пределах общего expiry.
type HoldsConfig struct {
	SigningDeadlineMinutes int    `toml:"signing_deadline_minutes"`
	PaymentDeadlineMinutes int    `toml:"payment_deadline_minutes"`
	ExpiryMinutes          int    `toml:"expiry_minutes"`
	SigningLinkBaseURL     string `toml:"signing_link_base_url"`
}

// SMSGatewayConfig настройки SMS-шлюза
type SMSGatewayConfig struct {
	URL     string `toml:"url"`
	APIKey  string `toml:"api_key"`
	Sender  string `toml:"sender"`
	Timeout int    `toml:"timeout"`
}

// EmailGatewayConfig настройки SMTP
type EmailGatewayConfig struct {
	Host     string `toml:"host"`
	Port     int    `toml:"port"`
	Username string `toml:"username"`
	Password string `toml:"password"`
	From     string `toml:"from"`
	FromName string `toml:"from_name"`
}

// RabbitMQConfig настройки брокера событий
type RabbitMQConfig struct {
	URL   string `toml:"url"`
	Queue string `toml:"queue"`
}

// SweeperConfig настройки фонового sweeper'а
type SweeperConfig struct {
	Enabled         bool `toml:"enabled"`
	IntervalSeconds int  `toml:"interval_seconds"`
	BatchSize       int  `toml:"batch_size"`
}

// Load читает и валидирует конфигурацию из TOML файла
func Load(path string) (*Config, error) {
	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, fmt.Errorf("config: failed to decode %s: %w", path, err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Server.HTTPPort <= 0 {
		return fmt.Errorf("config: server.http_port must be positive")
	}
	if c.Database.Host == "" {
		return fmt.Errorf("config: database.host is required")
	}
	if c.Holds.SigningDeadlineMinutes <= 0 ||
		c.Holds.PaymentDeadlineMinutes <= c.Holds.SigningDeadlineMinutes ||
		c.Holds.ExpiryMinutes < c.Holds.PaymentDeadlineMinutes {
		return fmt.Errorf("config: holds deadlines must satisfy 0 < signing < payment <= expiry")
	}
	if c.Holds.SigningLinkBaseURL == "" {
		return fmt.Errorf("config: holds.signing_link_base_url is required")
	}
	if c.Sweeper.Enabled && c.Sweeper.IntervalSeconds <= 0 {
		return fmt.Errorf("config: sweeper.interval_seconds must be positive")
	}
	return nil
}
