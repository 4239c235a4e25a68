package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"

	"github.com/aslima544/consultorio-slot-engine/internal/core/json_types"
)

type Environment string

const (
	EnvLocal      Environment = "local"
	EnvDev        Environment = "dev"
	EnvStage      Environment = "stage"
	EnvProduction Environment = "production"
)

type ConfigBasicClient struct {
	Username string
	Password string
}

type Config struct {
	App struct {
		Version  string      `env:"APP_VERSION" envDefault:"local"`
		Env      Environment `env:"APP_ENV" envDefault:"local"`
		Timezone string      `env:"APP_TIMEZONE" envDefault:"America/Sao_Paulo"`
	}

	HTTP struct {
		Port string `env:"HTTP_SERVER_PORT" envDefault:"8080"`
		Host string `env:"HTTP_SERVER_HOST" envDefault:"localhost"`
	}

	Auth struct {
		BasicClientsString string `env:"AUTH_BASIC_CLIENTS" envDefault:"slot_engine:slot_engine"`
		BasicClients       []ConfigBasicClient
	}

	// Параметры движка слотов. Дефолты - это конфигурационный выбор
	// деплоя, не инварианты движка
	Engine struct {
		GranularityMinutes        int           `env:"SLOT_GRANULARITY_MINUTES" envDefault:"15"`
		DefaultAppointmentMinutes int           `env:"DEFAULT_APPOINTMENT_MINUTES" envDefault:"30"`
		DefaultOpening            string        `env:"DEFAULT_OPENING" envDefault:"08:00"`
		DefaultClosing            string        `env:"DEFAULT_CLOSING" envDefault:"17:00"`
		LockTimeout               time.Duration `env:"BOOKING_LOCK_TIMEOUT" envDefault:"5s"`
	}

	Registry struct {
		URL      string `env:"REGISTRY_URL"`
		Username string `env:"REGISTRY_USERNAME"`
		Password string `env:"REGISTRY_PASSWORD"`
	}

	Postgres struct {
		URL string `env:"DATABASE_URL"`
	}

	RabbitMq struct {
		Enabled bool   `env:"RABBITMQ_ENABLED"`
		AmqpUri string `env:"RABBITMQ_URL"`
		Queue   string `env:"RABBITMQ_QUEUE" envDefault:"slot-engine.registry"`
	}

	Cache struct {
		Enabled          bool          `env:"CACHE_ENABLED"`
		ConsultoriosSize int           `env:"CACHE_CONSULTORIOS_SIZE" envDefault:"128"`
		HolidayTTL       time.Duration `env:"CACHE_HOLIDAY_TTL" envDefault:"30m"`
	}

	// Вычисляемые поля
	Location       *time.Location
	DefaultWindow  struct{ Start, End json_types.ClockTime }
	Granularity    time.Duration
	DefaultBooking time.Duration
}

func NewConfig() (*Config, error) {
	// .env опционален, в проде переменные приходят из окружения
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}

	// Приведение окружения к нижнему регистру для унификации
	cfg.App.Env = Environment(strings.ToLower(string(cfg.App.Env)))

	loc, err := time.LoadLocation(cfg.App.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid APP_TIMEZONE %q: %w", cfg.App.Timezone, err)
	}
	cfg.Location = loc
	json_types.SetLocation(loc)

	if cfg.Engine.GranularityMinutes <= 0 {
		return nil, fmt.Errorf("SLOT_GRANULARITY_MINUTES must be positive, got %d", cfg.Engine.GranularityMinutes)
	}
	if cfg.Engine.DefaultAppointmentMinutes <= 0 {
		return nil, fmt.Errorf("DEFAULT_APPOINTMENT_MINUTES must be positive, got %d", cfg.Engine.DefaultAppointmentMinutes)
	}
	cfg.Granularity = time.Duration(cfg.Engine.GranularityMinutes) * time.Minute
	cfg.DefaultBooking = time.Duration(cfg.Engine.DefaultAppointmentMinutes) * time.Minute

	opening, err := json_types.ParseClockTime(cfg.Engine.DefaultOpening)
	if err != nil {
		return nil, fmt.Errorf("invalid DEFAULT_OPENING: %w", err)
	}
	closing, err := json_types.ParseClockTime(cfg.Engine.DefaultClosing)
	if err != nil {
		return nil, fmt.Errorf("invalid DEFAULT_CLOSING: %w", err)
	}
	if !opening.Before(closing) {
		return nil, fmt.Errorf("DEFAULT_OPENING %s must be before DEFAULT_CLOSING %s", opening, closing)
	}
	cfg.DefaultWindow.Start = opening
	cfg.DefaultWindow.End = closing

	// Разбор клиентов basic auth
	if cfg.Auth.BasicClients == nil {
		cfg.Auth.BasicClients = []ConfigBasicClient{}
	}
	clientPairs := strings.Split(cfg.Auth.BasicClientsString, ",")
	for _, pair := range clientPairs {
		parts := strings.Split(pair, ":")
		if len(parts) == 2 {
			cfg.Auth.BasicClients = append(cfg.Auth.BasicClients, ConfigBasicClient{
				Username: parts[0],
				Password: parts[1],
			})
		}
	}

	// Без RabbitMQ некому инвалидировать кэш консульториев, кэш не включаем
	if !cfg.RabbitMq.Enabled {
		cfg.Cache.Enabled = false
	}

	return cfg, nil
}

func (c *Config) IsLocal() bool {
	return c.App.Env == EnvLocal
}

func (c *Config) IsNotLocal() bool {
	return c.App.Env == EnvDev || c.App.Env == EnvStage || c.App.Env == EnvProduction
}
