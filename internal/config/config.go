package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Session backends
const (
	BackendFile   = "file"
	BackendRedis  = "redis"
	BackendMemory = "memory"
)

const (
	defaultRedisPrefix = "vc:session"
	defaultLogDir      = "logs"

	// EnvPrefix is prepended to every environment override
	EnvPrefix = "VC_"
)

// RedisConfig points the session at a shared Redis instance
type RedisConfig struct {
	Addr     string `yaml:"addr" env:"ADDR"`
	Password string `yaml:"password,omitempty" env:"PASSWORD"`
	DB       int    `yaml:"db,omitempty" env:"DB" validate:"min=0"`
	Prefix   string `yaml:"prefix,omitempty" env:"PREFIX"`
}

// SessionConfig selects where the session is persisted
type SessionConfig struct {
	Backend string      `yaml:"backend" env:"BACKEND" validate:"oneof=file redis memory"`
	Path    string      `yaml:"path,omitempty" env:"PATH"`
	Redis   RedisConfig `yaml:"redis,omitempty" envPrefix:"REDIS_"`
}

// Config represents the application configuration
type Config struct {
	APIBaseURL string `yaml:"apiBaseURL" env:"API_BASE_URL" validate:"required,url"`
	// RequestTimeout of zero leaves requests bounded only by their context
	RequestTimeout time.Duration `yaml:"requestTimeout,omitempty" env:"REQUEST_TIMEOUT" validate:"min=0"`
	LogDir         string        `yaml:"logDir,omitempty" env:"LOG_DIR"`
	Session        SessionConfig `yaml:"session" envPrefix:"SESSION_"`
}

var validate *validator.Validate

func init() {
	validate = validator.New()
}

// LoadWithEnv loads and validates the configuration for an environment.
// For example, env="test" will look for "vc_config.test.yaml".
// Without a config file the configuration comes from the environment alone.
func LoadWithEnv(envName string) (*Config, error) {
	configPath, err := findConfigFile(envName)
	if err != nil {
		cfg := &Config{}
		if err := finish(cfg); err != nil {
			return nil, fmt.Errorf("no config file found and environment is incomplete: %w", err)
		}
		return cfg, nil
	}

	return LoadFromPath(configPath)
}

// LoadFromPath loads and validates the configuration from a specific path.
// Values from a .env file and VC_* environment variables override the file.
func LoadFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := finish(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func finish(cfg *Config) error {
	if err := applyEnvOverrides(cfg); err != nil {
		return err
	}
	applyDefaults(cfg)
	return Validate(cfg)
}

// applyEnvOverrides loads .env from the working directory, if any, then
// applies VC_* variables. Variables already set in the process win over .env.
func applyEnvOverrides(cfg *Config) error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to load .env file: %w", err)
	}

	if err := env.ParseWithOptions(cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return fmt.Errorf("failed to parse environment overrides: %w", err)
	}
	return nil
}

func applyDefaults(cfg *Config) {
	if cfg.Session.Backend == "" {
		cfg.Session.Backend = BackendFile
	}
	if cfg.Session.Redis.Prefix == "" {
		cfg.Session.Redis.Prefix = defaultRedisPrefix
	}
	if cfg.LogDir == "" {
		cfg.LogDir = defaultLogDir
	}
}

// Validate validates the configuration struct and the backend-specific settings
func Validate(cfg *Config) error {
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	if cfg.Session.Backend == BackendRedis && cfg.Session.Redis.Addr == "" {
		return fmt.Errorf("config validation failed: session.redis.addr is required for the redis backend")
	}

	return nil
}

// findConfigFile searches for vc_config.yaml in current directory and home directory
// If env is provided, it adds it as an extension (e.g., "vc_config.test.yaml")
func findConfigFile(envName string) (string, error) {
	configFileName := "vc_config.yaml"
	if envName != "" {
		configFileName = "vc_config." + envName + ".yaml"
	}

	// Check current directory
	if _, err := os.Stat(configFileName); err == nil {
		return configFileName, nil
	}

	// Check home directory
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	homeConfigPath := filepath.Join(homeDir, configFileName)
	if _, err := os.Stat(homeConfigPath); err == nil {
		return homeConfigPath, nil
	}

	return "", fmt.Errorf("config file %s not found in current directory or home directory", configFileName)
}
