package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"github.com/m04kA/BH-BookingService/internal/domain"
	"github.com/m04kA/BH-BookingService/internal/integrations/notifier"
)

// Config конфигурация сервиса
type Config struct {
	Server         ServerConfig         `toml:"server"`
	Database       DatabaseConfig       `toml:"database"`
	Logs           LogsConfig           `toml:"logs"`
	Metrics        MetricsConfig        `toml:"metrics"`
	Booking        BookingConfig        `toml:"booking"`
	Notifications  NotificationsConfig  `toml:"notifications"`
	PaymentService PaymentServiceConfig `toml:"payment_service"`
}

type ServerConfig struct {
	HTTPPort        int `toml:"http_port"`
	ReadTimeout     int `toml:"read_timeout"`     // секунды
	WriteTimeout    int `toml:"write_timeout"`    // секунды
	IdleTimeout     int `toml:"idle_timeout"`     // секунды
	ShutdownTimeout int `toml:"shutdown_timeout"` // секунды
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
	ConnMaxLifetime int    `toml:"conn_max_lifetime"` // секунды
}

// DSN строка подключения для lib/pq
func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}

type LogsConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"` // пусто - только stdout
}

type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	ServiceName string `toml:"service_name"`
	Path        string `toml:"path"`
}

type BookingConfig struct {
	// Срок ответа на запрос по умолчанию; 0 - запросы без срока
	RequestTTLHours int `toml:"request_ttl_hours"`
	// Период фонового истечения запросов; 0 - фоновая задача выключена
	ExpirySweepIntervalSeconds int `toml:"expiry_sweep_interval_seconds"`
	ExpiryBatchSize            int `toml:"expiry_batch_size"`
}

func (c BookingConfig) RequestTTL() time.Duration {
	return time.Duration(c.RequestTTLHours) * time.Hour
}

func (c BookingConfig) ExpirySweepInterval() time.Duration {
	return time.Duration(c.ExpirySweepIntervalSeconds) * time.Second
}

type NotificationsConfig struct {
	Driver  string `toml:"driver"`  // log | kafka | rabbitmq | redis
	Timeout int    `toml:"timeout"` // секунды на одну публикацию

	KafkaBrokers string `toml:"kafka_brokers"`
	KafkaTopic   string `toml:"kafka_topic"`

	RabbitMQURL   string `toml:"rabbitmq_url"`
	RabbitMQQueue string `toml:"rabbitmq_queue"`

	RedisAddr          string `toml:"redis_addr"`
	RedisPassword      string `toml:"redis_password"`
	RedisDB            int    `toml:"redis_db"`
	RedisChannelPrefix string `toml:"redis_channel_prefix"`
}

// SinkConfig параметры транспорта уведомлений
func (c NotificationsConfig) SinkConfig() notifier.SinkConfig {
	return notifier.SinkConfig{
		Driver:             c.Driver,
		KafkaBrokers:       c.KafkaBrokers,
		KafkaTopic:         c.KafkaTopic,
		RabbitMQURL:        c.RabbitMQURL,
		RabbitMQQueue:      c.RabbitMQQueue,
		RedisAddr:          c.RedisAddr,
		RedisPassword:      c.RedisPassword,
		RedisDB:            c.RedisDB,
		RedisChannelPrefix: c.RedisChannelPrefix,
	}
}

type PaymentServiceConfig struct {
	URL     string `toml:"url"`
	Timeout int    `toml:"timeout"` // секунды
}

// Load читает config.toml, затем .env (если есть) и переменные окружения.
// Переменные окружения имеют приоритет над файлом.
func Load(path string) (*Config, error) {
	cfg := defaults()

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}
	if err := applyEnv(cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func defaults() *Config {
	return &Config{
		Server: ServerConfig{
			HTTPPort:        8080,
			ReadTimeout:     10,
			WriteTimeout:    10,
			IdleTimeout:     60,
			ShutdownTimeout: 15,
		},
		Database: DatabaseConfig{
			Host:            "localhost",
			Port:            5432,
			SSLMode:         "disable",
			MaxOpenConns:    25,
			MaxIdleConns:    5,
			ConnMaxLifetime: 300,
		},
		Logs: LogsConfig{
			Level: "info",
		},
		Metrics: MetricsConfig{
			ServiceName: "booking-service",
			Path:        "/metrics",
		},
		Booking: BookingConfig{
			RequestTTLHours:            domain.DefaultRequestTTLHours,
			ExpirySweepIntervalSeconds: 60,
			ExpiryBatchSize:            100,
		},
		Notifications: NotificationsConfig{
			Driver:  "log",
			Timeout: 5,
		},
		PaymentService: PaymentServiceConfig{
			Timeout: 5,
		},
	}
}

// applyEnv переопределяет секреты и адреса из окружения
func applyEnv(cfg *Config) error {
	setString(&cfg.Database.Host, "DB_HOST")
	setString(&cfg.Database.User, "DB_USER")
	setString(&cfg.Database.Password, "DB_PASSWORD")
	setString(&cfg.Database.DBName, "DB_NAME")
	setString(&cfg.Logs.Level, "LOG_LEVEL")
	setString(&cfg.PaymentService.URL, "PAYMENT_SERVICE_URL")
	setString(&cfg.Notifications.Driver, "NOTIFICATIONS_DRIVER")
	setString(&cfg.Notifications.KafkaBrokers, "KAFKA_BROKERS")
	setString(&cfg.Notifications.RabbitMQURL, "RABBITMQ_URL")
	setString(&cfg.Notifications.RedisAddr, "REDIS_ADDR")
	setString(&cfg.Notifications.RedisPassword, "REDIS_PASSWORD")

	if err := setInt(&cfg.Database.Port, "DB_PORT"); err != nil {
		return err
	}
	return setInt(&cfg.Server.HTTPPort, "HTTP_PORT")
}

func setString(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) error {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("invalid %s: %w", key, err)
	}
	*dst = n
	return nil
}

// Validate проверяет обязательные поля и диапазоны
func (c *Config) Validate() error {
	if c.Server.HTTPPort <= 0 || c.Server.HTTPPort > 65535 {
		return fmt.Errorf("server.http_port out of range: %d", c.Server.HTTPPort)
	}
	if c.Database.Host == "" || c.Database.DBName == "" || c.Database.User == "" {
		return errors.New("database host, dbname and user are required")
	}
	if c.Booking.RequestTTLHours < 0 {
		return fmt.Errorf("booking.request_ttl_hours must not be negative: %d", c.Booking.RequestTTLHours)
	}
	if c.Booking.ExpirySweepIntervalSeconds < 0 {
		return fmt.Errorf("booking.expiry_sweep_interval_seconds must not be negative: %d", c.Booking.ExpirySweepIntervalSeconds)
	}
	if c.Booking.ExpiryBatchSize <= 0 {
		return fmt.Errorf("booking.expiry_batch_size must be positive: %d", c.Booking.ExpiryBatchSize)
	}
	if c.PaymentService.URL == "" {
		return errors.New("payment_service.url is required")
	}
	if c.PaymentService.Timeout <= 0 || c.Notifications.Timeout <= 0 {
		return errors.New("payment_service.timeout and notifications.timeout must be positive")
	}
	if c.Metrics.Enabled && c.Metrics.Path == "" {
		return errors.New("metrics.path is required when metrics are enabled")
	}
	return nil
}
