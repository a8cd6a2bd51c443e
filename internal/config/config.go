package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

const (
	BackendMemory   = "memory"
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
)

type ServerConfig struct {
	Port         string `yaml:"port" env:"PORT" validate:"omitempty,numeric"`
	ReadTimeout  string `yaml:"readTimeout" env:"SERVER_READ_TIMEOUT"`
	WriteTimeout string `yaml:"writeTimeout" env:"SERVER_WRITE_TIMEOUT"`
}

type StorageConfig struct {
	Backend string `yaml:"backend" env:"STORAGE_BACKEND" validate:"omitempty,oneof=memory redis postgres"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr" env:"REDIS_ADDR" validate:"omitempty,hostname_port"`
	Password string `yaml:"password" env:"REDIS_PASSWORD"`
	DB       int    `yaml:"db" env:"REDIS_DB" validate:"gte=0"`
}

type PostgresConfig struct {
	URL string `yaml:"url" env:"POSTGRES_URL"`
}

type QuestionsConfig struct {
	CacheTTL string `yaml:"cacheTTL" env:"QUESTIONS_CACHE_TTL"`
}

type ScoringConfig struct {
	// TrustClient accepts the client's isCorrect flag instead of verifying
	// the selected option against the stored answer.
	TrustClient bool `yaml:"trustClient" env:"SCORING_TRUST_CLIENT"`
}

type LoggingConfig struct {
	Level  string `yaml:"level" env:"LOG_LEVEL" validate:"omitempty,oneof=debug info warn error DEBUG INFO WARN ERROR"`
	Format string `yaml:"format" env:"LOG_FORMAT" validate:"omitempty,oneof=text json"`
}

type OpenTDBConfig struct {
	BaseURL string `yaml:"baseURL" env:"OPENTDB_BASE_URL" validate:"omitempty,url"`
	Timeout string `yaml:"timeout" env:"OPENTDB_TIMEOUT"`
}

type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Storage   StorageConfig   `yaml:"storage"`
	Redis     RedisConfig     `yaml:"redis"`
	Postgres  PostgresConfig  `yaml:"postgres"`
	Questions QuestionsConfig `yaml:"questions"`
	Scoring   ScoringConfig   `yaml:"scoring"`
	Logging   LoggingConfig   `yaml:"logging"`
	OpenTDB   OpenTDBConfig   `yaml:"opentdb"`
}

// Load reads YAML config from path, overlays environment variables and
// validates the result.
func Load(path string) (Config, error) {
	cfg := Config{}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("parse env: %w", err)
	}
	if cfg.Storage.Backend == "" {
		cfg.Storage.Backend = BackendMemory
	}
	if err := Validate(cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate checks field formats and that the selected storage backend has
// its connection settings.
func Validate(cfg Config) error {
	validate := validator.New()
	validate.RegisterStructValidation(backendSettings, Config{})

	err := validate.Struct(cfg)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("validate config: %w", err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s failed %q (value: %v)", fe.Namespace(), fe.Tag(), fe.Value()))
	}
	return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
}

func backendSettings(sl validator.StructLevel) {
	cfg := sl.Current().Interface().(Config)
	switch cfg.Storage.Backend {
	case BackendRedis:
		if cfg.Redis.Addr == "" {
			sl.ReportError(cfg.Redis.Addr, "Redis.Addr", "addr", "required_for_redis_backend", "")
		}
	case BackendPostgres:
		if cfg.Postgres.URL == "" {
			sl.ReportError(cfg.Postgres.URL, "Postgres.URL", "url", "required_for_postgres_backend", "")
		}
	}
}

// TTLDuration parses a duration string or returns the fallback if empty.
func TTLDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	return fallback
}
