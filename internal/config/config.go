package config

import (
	"fmt"

	"github.com/BurntSushi/toml"
)

// Поддерживаемые драйверы базы данных
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Config корневая конфигурация сервиса
type Config struct {
	Server    ServerConfig    `toml:"server"`
	Database  DatabaseConfig  `toml:"database"`
	Telegram  TelegramConfig  `toml:"telegram"`
	Booking   BookingConfig   `toml:"booking"`
	Reminders RemindersConfig `toml:"reminders"`
	Logs      LogsConfig      `toml:"logs"`
	Metrics   MetricsConfig   `toml:"metrics"`
}

// ServerConfig настройки служебного HTTP-сервера
type ServerConfig struct {
	HTTPPort        int `toml:"http_port"`
	ReadTimeout     int `toml:"read_timeout"`
	WriteTimeout    int `toml:"write_timeout"`
	IdleTimeout     int `toml:"idle_timeout"`
	ShutdownTimeout int `toml:"shutdown_timeout"`
}

// DatabaseConfig настройки подключения к базе данных.
// Поле Path используется драйвером sqlite, остальные поля — postgres.
type DatabaseConfig struct {
	Driver          string `toml:"driver"`
	Path            string `toml:"path"`
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

// DSN возвращает строку подключения для выбранного драйвера.
// Для sqlite включаются busy_timeout и WAL: без них конкурентные
// записи падают с SQLITE_BUSY.
func (c DatabaseConfig) DSN() string {
	if c.Driver == DriverPostgres {
		return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
			c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
	}
	return fmt.Sprintf("file:%s?_pragma=foreign_keys(1)&_pragma=busy_timeout(10000)&_pragma=journal_mode(WAL)", c.Path)
}

// TelegramConfig настройки бота для уведомлений
type TelegramConfig struct {
	Enabled     bool   `toml:"enabled"`
	Token       string `toml:"token"`
	AdminChatID int64  `toml:"admin_chat_id"`
}

// BookingConfig правила расписания для записи на услуги
type BookingConfig struct {
	WorkStartHour   int `toml:"work_start_hour"`
	WorkEndHour     int `toml:"work_end_hour"`
	MinAdvanceHours int `toml:"min_advance_hours"`
	MaxAdvanceDays  int `toml:"max_advance_days"`
	SlotStepMinutes int `toml:"slot_step_minutes"`
}

// RemindersConfig настройки фонового воркера напоминаний
type RemindersConfig struct {
	Enabled         bool `toml:"enabled"`
	IntervalSeconds int  `toml:"interval_seconds"`
	LookaheadDays   int  `toml:"lookahead_days"`
}

// LogsConfig настройки логирования
type LogsConfig struct {
	File  string `toml:"file"`
	Level string `toml:"level"`
}

// MetricsConfig настройки экспорта метрик Prometheus
type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	ServiceName string `toml:"service_name"`
	Path        string `toml:"path"`
}

// Load читает конфигурацию из TOML-файла поверх значений по умолчанию
func Load(path string) (*Config, error) {
	cfg := defaultConfig()

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoadConfig, err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			HTTPPort:        8081,
			ReadTimeout:     15,
			WriteTimeout:    15,
			IdleTimeout:     60,
			ShutdownTimeout: 10,
		},
		Database: DatabaseConfig{
			Driver:          DriverSQLite,
			Path:            "detailing.db",
			Host:            "localhost",
			Port:            5432,
			User:            "postgres",
			DBName:          "detailing",
			SSLMode:         "disable",
			MaxOpenConns:    25,
			MaxIdleConns:    5,
			ConnMaxLifetime: 300,
		},
		Booking: BookingConfig{
			WorkStartHour:   9,
			WorkEndHour:     20,
			MinAdvanceHours: 1,
			MaxAdvanceDays:  90,
			SlotStepMinutes: 30,
		},
		Reminders: RemindersConfig{
			Enabled:         true,
			IntervalSeconds: 1800,
			LookaheadDays:   2,
		},
		Logs: LogsConfig{
			File:  "logs/app.log",
			Level: "info",
		},
		Metrics: MetricsConfig{
			ServiceName: "detailing-bot",
			Path:        "/metrics",
		},
	}
}

func (c *Config) validate() error {
	if c.Database.Driver != DriverSQLite && c.Database.Driver != DriverPostgres {
		return fmt.Errorf("%w: unsupported database driver %q", ErrInvalidConfig, c.Database.Driver)
	}

	if c.Booking.WorkStartHour < 0 || c.Booking.WorkEndHour > 24 ||
		c.Booking.WorkStartHour >= c.Booking.WorkEndHour {
		return fmt.Errorf("%w: working hours %d..%d", ErrInvalidConfig,
			c.Booking.WorkStartHour, c.Booking.WorkEndHour)
	}

	if c.Booking.SlotStepMinutes <= 0 || c.Booking.SlotStepMinutes > 60 {
		return fmt.Errorf("%w: slot step %d minutes", ErrInvalidConfig, c.Booking.SlotStepMinutes)
	}

	if c.Telegram.Enabled && c.Telegram.Token == "" {
		return fmt.Errorf("%w: telegram enabled without token", ErrInvalidConfig)
	}

	if c.Reminders.Enabled && c.Reminders.IntervalSeconds <= 0 {
		return fmt.Errorf("%w: reminders interval %d seconds", ErrInvalidConfig, c.Reminders.IntervalSeconds)
	}

	return nil
}
