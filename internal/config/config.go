package config

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
)

// Config конфигурация сервиса
type Config struct {
	Server   ServerConfig   `toml:"server"`
	Database DatabaseConfig `toml:"database"`
	Redis    RedisConfig    `toml:"redis"`
	Kafka    KafkaConfig    `toml:"kafka"`
	Identity IdentityConfig `toml:"identity"`
	Booking  BookingConfig  `toml:"booking"`
	Logs     LogsConfig     `toml:"logs"`
	Metrics  MetricsConfig  `toml:"metrics"`
}

// ServerConfig настройки HTTP-сервера
type ServerConfig struct {
	HTTPPort        int `toml:"http_port"`
	ReadTimeout     int `toml:"read_timeout"`     // seconds
	WriteTimeout    int `toml:"write_timeout"`    // seconds
	IdleTimeout     int `toml:"idle_timeout"`     // seconds
	ShutdownTimeout int `toml:"shutdown_timeout"` // seconds
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
	ConnMaxLifetime int    `toml:"conn_max_lifetime"` // seconds
}

// DSN возвращает строку подключения к PostgreSQL
func (d *DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode)
}

// RedisConfig настройки Redis для межпроцессных блокировок слотов
type RedisConfig struct {
	Addr           string `toml:"addr"`
	Password       string `toml:"password"`
	DB             int    `toml:"db"`
	LockTTLSeconds int    `toml:"lock_ttl_seconds"`
}

// KafkaConfig настройки публикации событий бронирований
type KafkaConfig struct {
	Enabled     bool   `toml:"enabled"`
	Brokers     string `toml:"brokers"`      // Список брокеров через запятую
	TopicPrefix string `toml:"topic_prefix"` // Префикс топика, имя топика = префикс + тип события
	QueueSize   int    `toml:"queue_size"`   // Размер внутренней очереди диспетчера
}

// BrokerList возвращает список брокеров
func (k *KafkaConfig) BrokerList() []string {
	if k.Brokers == "" {
		return nil
	}
	parts := strings.Split(k.Brokers, ",")
	brokers := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			brokers = append(brokers, trimmed)
		}
	}
	return brokers
}

// IdentityConfig настройки клиента внешнего identity-сервиса
type IdentityConfig struct {
	URL     string `toml:"url"`
	Timeout int    `toml:"timeout"` // seconds
}

// BookingConfig бизнес-настройки движка бронирований
type BookingConfig struct {
	PendingTTLMinutes    int  `toml:"pending_ttl_minutes"`    // Авто-освобождение незакоммиченных pending-слотов
	ReaperIntervalSec    int  `toml:"reaper_interval_sec"`    // Интервал фонового освобождения
	ReopenCancelledSlots bool `toml:"reopen_cancelled_slots"` // Возвращать ли слот в available при отмене подтверждённой записи
}

// LogsConfig настройки логирования
type LogsConfig struct {
	File  string `toml:"file"`
	Level string `toml:"level"`
}

// MetricsConfig настройки Prometheus-метрик
type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	Path        string `toml:"path"`
	ServiceName string `toml:"service_name"`
}

// Load читает конфигурацию из TOML-файла и подставляет значения по умолчанию
func Load(path string) (*Config, error) {
	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, fmt.Errorf("config: failed to decode %s: %w", path, err)
	}
	cfg.applyDefaults()
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Server.HTTPPort == 0 {
		c.Server.HTTPPort = 8080
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = 10
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = 10
	}
	if c.Server.IdleTimeout == 0 {
		c.Server.IdleTimeout = 60
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = 15
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
	if c.Redis.LockTTLSeconds == 0 {
		c.Redis.LockTTLSeconds = 10
	}
	if c.Kafka.QueueSize == 0 {
		c.Kafka.QueueSize = 256
	}
	if c.Kafka.TopicPrefix == "" {
		c.Kafka.TopicPrefix = "glowbook."
	}
	if c.Identity.Timeout == 0 {
		c.Identity.Timeout = 5
	}
	if c.Booking.PendingTTLMinutes == 0 {
		c.Booking.PendingTTLMinutes = 15
	}
	if c.Booking.ReaperIntervalSec == 0 {
		c.Booking.ReaperIntervalSec = 60
	}
	if c.Metrics.Path == "" {
		c.Metrics.Path = "/metrics"
	}
	if c.Metrics.ServiceName == "" {
		c.Metrics.ServiceName = "booking-service"
	}
	if c.Logs.Level == "" {
		c.Logs.Level = "info"
	}
}
