package config

import (
	"fmt"
	"time"

	"ctchen222/Solo-Tic-Tac-Toe/internal/validator"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	Port              string        `yaml:"port" env:"PORT" env-default:"3000" validate:"required,numeric"`
	APIKey            string        `yaml:"api-key" env:"API_KEY"`
	StaticDir         string        `yaml:"static-dir" env:"STATIC_DIR" env-default:"./web" validate:"required"`
	LogLevel          string        `yaml:"log-level" env:"LOG_LEVEL" env-default:"debug" validate:"oneof=debug info warn error DEBUG INFO WARN ERROR"`
	DefaultDifficulty string        `yaml:"default-difficulty" env:"DEFAULT_DIFFICULTY" env-default:"medium" validate:"oneof=easy medium hard"`
	AIDelay           string        `yaml:"ai-delay" env:"AI_DELAY" env-default:"500"`
	ShutdownTimeout   time.Duration `yaml:"shutdown-timeout" env:"SHUTDOWN_TIMEOUT" env-default:"5s" validate:"gt=0"`
	Redis             Redis         `yaml:"redis"`
	Telemetry         Telemetry     `yaml:"telemetry"`
}

type Redis struct {
	// ConnString is host:port or a redis:// URL. Empty disables event publishing.
	ConnString string `yaml:"conn-string" env:"REDIS_CONNSTRING"`
}

type Telemetry struct {
	// OTLPEndpoint is the gRPC collector address. Empty disables export.
	OTLPEndpoint   string `yaml:"otlp-endpoint" env:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	ServiceVersion string `yaml:"service-version" env:"SERVICE_VERSION" env-default:"v0.1.0"`
	StdoutTraces   bool   `yaml:"stdout-traces" env:"OTEL_STDOUT_TRACES" env-default:"false"`
}

// Load reads the configuration from the environment. When path is set the
// YAML file at path is read first and the environment overrides it.
func Load(path string) (*Config, error) {
	config := &Config{}

	if path != "" {
		if err := cleanenv.ReadConfig(path, config); err != nil {
			return nil, fmt.Errorf("unable to load config file: %w", err)
		}
	} else if err := cleanenv.ReadEnv(config); err != nil {
		return nil, fmt.Errorf("unable to read environment: %w", err)
	}

	if err := validator.Validate(config); err != nil {
		return nil, err
	}
	return config, nil
}

// Addr is the listen address for the HTTP server.
func (c *Config) Addr() string {
	return ":" + c.Port
}

// Usage describes every supported environment variable.
func Usage() string {
	description, err := cleanenv.GetDescription(&Config{}, nil)
	if err != nil {
		return err.Error()
	}
	return description
}
