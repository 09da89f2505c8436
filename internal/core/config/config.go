package config

import (
	"fmt"
	"net"
	"strconv"
	"time"

	redisclient "github.com/vietddude/triage/internal/infra/redis"
	"github.com/vietddude/triage/internal/infra/storage/postgres"
)

// AppConfig represents the top-level configuration.
type AppConfig struct {
	Server   ServerConfig       `yaml:"server"`
	GRPC     GRPCConfig         `yaml:"grpc"`
	Logging  LoggingConfig      `yaml:"logging"`
	Model    ModelConfig        `yaml:"model"`
	Database postgres.Config    `yaml:"database"`
	Redis    redisclient.Config `yaml:"redis"`
	Storage  StorageConfig      `yaml:"storage"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host         string        `yaml:"host"`
	Port         int           `yaml:"port"`
	RateLimit    float64       `yaml:"rate_limit"` // requests per second, 0 = unlimited
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
}

// Addr returns the listen address.
func (s ServerConfig) Addr() string {
	return net.JoinHostPort(s.Host, strconv.Itoa(s.Port))
}

// GRPCConfig holds gRPC server settings.
type GRPCConfig struct {
	Port int `yaml:"port"` // 0 = disabled
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // text, json
}

// ModelConfig holds training settings.
type ModelConfig struct {
	CorpusPath    string  `yaml:"corpus_path"` // empty = built-in corpus
	C             float64 `yaml:"c"`
	MaxIterations int     `yaml:"max_iterations"`
}

// StorageConfig holds incident retention settings.
type StorageConfig struct {
	Retention time.Duration `yaml:"retention"` // 0 = keep forever
}

// Validate rejects settings the service cannot start with.
func (c *AppConfig) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port out of range: %d", c.Server.Port)
	}
	if c.GRPC.Port < 0 || c.GRPC.Port > 65535 {
		return fmt.Errorf("grpc.port out of range: %d", c.GRPC.Port)
	}
	if c.GRPC.Port != 0 && c.GRPC.Port == c.Server.Port {
		return fmt.Errorf("grpc.port must differ from server.port")
	}
	if c.Server.RateLimit < 0 {
		return fmt.Errorf("server.rate_limit must not be negative")
	}
	if c.Model.C < 0 {
		return fmt.Errorf("model.c must not be negative")
	}
	if c.Storage.Retention < 0 {
		return fmt.Errorf("storage.retention must not be negative")
	}
	switch c.Database.Driver {
	case "", postgres.DriverPgx, postgres.DriverPQ:
	default:
		return fmt.Errorf("database.driver must be %q or %q", postgres.DriverPgx, postgres.DriverPQ)
	}
	return nil
}
