package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// AppInfo holds basic information about the application.
type AppInfo struct {
	Name        string `yaml:"name"`        // Application name
	Version     string `yaml:"version"`     // Application version
	Environment string `yaml:"environment"` // Runtime environment ("development", "production")
}

// ServerConfig holds the HTTP server settings.
type ServerConfig struct {
	Address        string `yaml:"address"`        // Listen address, e.g. ":8080"
	MaxUploadBytes int64  `yaml:"maxUploadBytes"` // Maximum accepted upload size in bytes
}

// LoggerConfig holds the logger settings.
type LoggerConfig struct {
	Level string `yaml:"level"` // Log level ("debug", "info", "warn", "error")
}

// AuthConfig holds JWT authentication settings.
type AuthConfig struct {
	JwtSecret string `yaml:"jwtSecret"` // HMAC secret used to sign tokens
	TokenTTL  int    `yaml:"tokenTTL"`  // Token lifetime in seconds
}

// MySQLConfig holds the MySQL connection settings.
type MySQLConfig struct {
	Address         string `yaml:"address"`         // Server address, e.g. "localhost:3306"
	Username        string `yaml:"username"`        // User name
	Password        string `yaml:"password"`        // Password
	Database        string `yaml:"database"`        // Database name
	MaxOpenConns    int    `yaml:"maxOpenConns"`    // Maximum open connections
	MaxIdleConns    int    `yaml:"maxIdleConns"`    // Maximum idle connections
	ConnMaxLifetime int    `yaml:"connMaxLifetime"` // Connection lifetime in seconds
}

// MinIOConfig holds the MinIO object storage settings.
type MinIOConfig struct {
	Endpoint  string `yaml:"endpoint"`  // Service endpoint
	AccessKey string `yaml:"accessKey"` // Access key
	SecretKey string `yaml:"secretKey"` // Secret key
	Bucket    string `yaml:"bucket"`    // Bucket for file blobs
	Secure    bool   `yaml:"secure"`    // Use HTTPS
}

// StorageConfig selects and configures the blob backing store.
type StorageConfig struct {
	// Backend picks the implementation: "minio" or "filesystem".
	Backend string `yaml:"backend"`
	// Root is the base directory used by the filesystem backend.
	Root string `yaml:"root"`
}

// RateLimitConfig configures the per-user request throttle.
type RateLimitConfig struct {
	Enabled  bool    `yaml:"enabled"`
	Rate     float64 `yaml:"rate"`     // Tokens generated per second
	Capacity int     `yaml:"capacity"` // Burst size
}

// DatabaseConfigs groups the external store settings.
type DatabaseConfigs struct {
	MySQL MySQLConfig `yaml:"mysql"`
	MinIO MinIOConfig `yaml:"minio"`
}

// AppConfig is the root of the YAML configuration file.
type AppConfig struct {
	App       AppInfo         `yaml:"app"`
	Server    ServerConfig    `yaml:"server"`
	Logger    LoggerConfig    `yaml:"logger"`
	Auth      AuthConfig      `yaml:"auth"`
	Databases DatabaseConfigs `yaml:"databases"`
	Storage   StorageConfig   `yaml:"storage"`
	RateLimit RateLimitConfig `yaml:"rateLimit"`
}

// LoadConfig reads and parses the YAML configuration file at path.
func LoadConfig(path string) (*AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg AppConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	applyDefaults(&cfg)
	return &cfg, nil
}

func applyDefaults(cfg *AppConfig) {
	if cfg.Server.Address == "" {
		cfg.Server.Address = ":8080"
	}
	if cfg.Server.MaxUploadBytes == 0 {
		cfg.Server.MaxUploadBytes = 64 << 20
	}
	if cfg.Logger.Level == "" {
		cfg.Logger.Level = "info"
	}
	if cfg.Auth.TokenTTL == 0 {
		cfg.Auth.TokenTTL = 7 * 24 * 3600
	}
	if cfg.Storage.Backend == "" {
		cfg.Storage.Backend = "minio"
	}
}
