package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"time"
	_ "time/tzdata" // часовые пояса клиники без системной tzdata

	"github.com/BurntSushi/toml"

	"github.com/m04kA/SMC-ClinicBookingService/pkg/ptr"
)

const (
	StorageDriverPostgres = "postgres"
	StorageDriverMemory   = "memory"
)

// Config конфигурация сервиса (config.toml)
type Config struct {
	Server        ServerConfig        `toml:"server"`
	Database      DatabaseConfig      `toml:"database"`
	Storage       StorageConfig       `toml:"storage"`
	Logs          LogsConfig          `toml:"logs"`
	Metrics       MetricsConfig       `toml:"metrics"`
	Clinic        ClinicConfig        `toml:"clinic"`
	UserService   UserServiceConfig   `toml:"user_service"`
	Notifications NotificationsConfig `toml:"notifications"`
	RateLimit     RateLimitConfig     `toml:"rate_limit"`
	Workers       WorkersConfig       `toml:"workers"`
}

// ServerConfig HTTP сервер. Таймауты в секундах
type ServerConfig struct {
	HTTPPort        int `toml:"http_port"`
	ReadTimeout     int `toml:"read_timeout"`
	WriteTimeout    int `toml:"write_timeout"`
	IdleTimeout     int `toml:"idle_timeout"`
	ShutdownTimeout int `toml:"shutdown_timeout"`
}

// DatabaseConfig подключение к PostgreSQL
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
	TxMaxAttempts   int    `toml:"tx_max_attempts"`   // повторы serializable транзакций
	TxTimeout       int    `toml:"tx_timeout"`        // секунды на одну попытку
}

// StorageConfig выбор драйвера хранилища
type StorageConfig struct {
	Driver string `toml:"driver"` // postgres | memory
}

type LogsConfig struct {
	File  string `toml:"file"` // пусто - stdout
	Level string `toml:"level"`
}

type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	ServiceName string `toml:"service_name"`
	Path        string `toml:"path"`
}

// ClinicConfig правила клиники
type ClinicConfig struct {
	Timezone            string `toml:"timezone"`
	CancelLeadTime      *int   `toml:"cancel_lead_time_minutes"` // nil - 120 минут, 0 - без ограничения
	ClinicCancelReason  string `toml:"clinic_cancel_reason"`
	PatientCancelReason string `toml:"patient_cancel_reason"`
}

// UserServiceConfig провайдер идентичности
type UserServiceConfig struct {
	URL     string     `toml:"url"` // пусто - статический справочник (только для memory)
	Timeout int        `toml:"timeout"`
	Users   []UserSeed `toml:"users"`
}

// UserSeed пользователь статического справочника
type UserSeed struct {
	ID   string `toml:"id"`
	Name string `toml:"name"`
	Role string `toml:"role"`
}

type NotificationsConfig struct {
	BufferSize int         `toml:"buffer_size"`
	Kafka      KafkaConfig `toml:"kafka"`
}

type KafkaConfig struct {
	Enabled bool     `toml:"enabled"`
	Brokers []string `toml:"brokers"`
	Topic   string   `toml:"topic"`
}

// RateLimitConfig ограничение частоты бронирований и смен статуса
type RateLimitConfig struct {
	Enabled       bool   `toml:"enabled"`
	RedisAddr     string `toml:"redis_addr"`
	RedisPassword string `toml:"redis_password"`
	RedisDB       int    `toml:"redis_db"`
	Limit         int    `toml:"limit"`
	WindowSeconds int    `toml:"window_seconds"`
	Prefix        string `toml:"prefix"`
	FailOpen      bool   `toml:"fail_open"`
}

type WorkersConfig struct {
	Missed MissedWorkerConfig `toml:"missed"`
}

// MissedWorkerConfig фоновая отметка неявок
type MissedWorkerConfig struct {
	Enabled         bool `toml:"enabled"`
	IntervalSeconds int  `toml:"interval_seconds"`
	GraceMinutes    *int `toml:"grace_minutes"` // nil - 60 минут, 0 - сразу после начала слота
}

// Load читает конфигурацию из файла, применяет значения по умолчанию и проверяет ее
func Load(path string) (*Config, error) {
	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config %s: %w", path, err)
	}

	cfg.applyEnv()
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// applyEnv секреты можно не хранить в файле
func (c *Config) applyEnv() {
	if v := os.Getenv("DB_PASSWORD"); v != "" {
		c.Database.Password = v
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		c.RateLimit.RedisPassword = v
	}
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

	if c.Storage.Driver == "" {
		c.Storage.Driver = StorageDriverPostgres
	}
	if c.Database.Port == 0 {
		c.Database.Port = 5432
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
	if c.Database.TxMaxAttempts == 0 {
		c.Database.TxMaxAttempts = 5
	}
	if c.Database.TxTimeout == 0 {
		c.Database.TxTimeout = 5
	}

	if c.Logs.Level == "" {
		c.Logs.Level = "info"
	}
	if c.Metrics.ServiceName == "" {
		c.Metrics.ServiceName = "clinic_booking_service"
	}
	if c.Metrics.Path == "" {
		c.Metrics.Path = "/metrics"
	}

	if c.Clinic.Timezone == "" {
		c.Clinic.Timezone = "Asia/Bangkok"
	}
	if c.Clinic.CancelLeadTime == nil {
		c.Clinic.CancelLeadTime = ptr.Ptr(120)
	}
	if c.Clinic.ClinicCancelReason == "" {
		c.Clinic.ClinicCancelReason = "Cancelled by clinic"
	}
	if c.Clinic.PatientCancelReason == "" {
		c.Clinic.PatientCancelReason = "Cancelled by patient"
	}

	if c.UserService.Timeout == 0 {
		c.UserService.Timeout = 5
	}
	if c.Notifications.BufferSize == 0 {
		c.Notifications.BufferSize = 256
	}
	if c.Notifications.Kafka.Topic == "" {
		c.Notifications.Kafka.Topic = "clinic.notifications"
	}

	if c.RateLimit.Limit == 0 {
		c.RateLimit.Limit = 60
	}
	if c.RateLimit.WindowSeconds == 0 {
		c.RateLimit.WindowSeconds = 60
	}
	if c.RateLimit.Prefix == "" {
		c.RateLimit.Prefix = "clinic_booking:rl"
	}

	if c.Workers.Missed.IntervalSeconds == 0 {
		c.Workers.Missed.IntervalSeconds = 60
	}
	if c.Workers.Missed.GraceMinutes == nil {
		c.Workers.Missed.GraceMinutes = ptr.Ptr(60)
	}
}

// Validate проверяет значения после применения умолчаний
func (c *Config) Validate() error {
	var errs []error

	if c.Server.HTTPPort < 1 || c.Server.HTTPPort > 65535 {
		errs = append(errs, fmt.Errorf("server.http_port must be a valid TCP port, got %d", c.Server.HTTPPort))
	}

	switch c.Storage.Driver {
	case StorageDriverMemory:
	case StorageDriverPostgres:
		if c.Database.Host == "" || c.Database.DBName == "" || c.Database.User == "" {
			errs = append(errs, errors.New("database.host, database.user and database.dbname are required for postgres driver"))
		}
		if c.UserService.URL == "" {
			errs = append(errs, errors.New("user_service.url is required for postgres driver"))
		}
	default:
		errs = append(errs, fmt.Errorf("storage.driver must be %q or %q, got %q",
			StorageDriverPostgres, StorageDriverMemory, c.Storage.Driver))
	}

	if _, err := time.LoadLocation(c.Clinic.Timezone); err != nil {
		errs = append(errs, fmt.Errorf("clinic.timezone: %w", err))
	}
	if ptr.Deref(c.Clinic.CancelLeadTime, 0) < 0 {
		errs = append(errs, errors.New("clinic.cancel_lead_time_minutes must not be negative"))
	}

	if c.Notifications.BufferSize < 0 {
		errs = append(errs, errors.New("notifications.buffer_size must not be negative"))
	}
	if c.Notifications.Kafka.Enabled && len(c.Notifications.Kafka.Brokers) == 0 {
		errs = append(errs, errors.New("notifications.kafka.brokers are required when kafka is enabled"))
	}

	if c.RateLimit.Enabled && c.RateLimit.RedisAddr == "" {
		errs = append(errs, errors.New("rate_limit.redis_addr is required when rate limiting is enabled"))
	}

	if c.Workers.Missed.IntervalSeconds < 0 || ptr.Deref(c.Workers.Missed.GraceMinutes, 0) < 0 {
		errs = append(errs, errors.New("workers.missed interval and grace must not be negative"))
	}

	return errors.Join(errs...)
}

// DSN строка подключения для lib/pq
func (d DatabaseConfig) DSN() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(d.User, d.Password),
		Host:     fmt.Sprintf("%s:%d", d.Host, d.Port),
		Path:     d.DBName,
		RawQuery: url.Values{"sslmode": []string{d.SSLMode}}.Encode(),
	}
	return u.String()
}

// Location часовой пояс клиники. Вызывать после Validate
func (c ClinicConfig) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func (c ClinicConfig) CancelLeadTimeDuration() time.Duration {
	return time.Duration(ptr.Deref(c.CancelLeadTime, 0)) * time.Minute
}

func (c MissedWorkerConfig) Grace() time.Duration {
	return time.Duration(ptr.Deref(c.GraceMinutes, 0)) * time.Minute
}
