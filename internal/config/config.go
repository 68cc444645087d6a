// internal/config/config.go
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/n1rna/hbnb-cli/internal/logger"
)

const (
	// DefaultFilePath is the backing JSON file, relative to the working directory
	DefaultFilePath = "file.json"
	// DefaultConfigFile is the optional YAML file read from the working directory
	DefaultConfigFile = ".hbnb.yaml"
	// DefaultLogLevel keeps the shell quiet unless something goes wrong
	DefaultLogLevel = "warn"
)

// Environment variables that override file settings
const (
	EnvFilePath = "HBNB_FILE"
	EnvLogLevel = "HBNB_LOG_LEVEL"
	EnvLogFile  = "HBNB_LOG_FILE"
)

// Config holds global configuration settings
type Config struct {
	// FilePath is the JSON file the store is persisted to
	FilePath string `yaml:"file_path"`
	// LogLevel is one of debug, info, warn, error
	LogLevel string `yaml:"log_level"`
	// LogFile, when set, receives log output in addition to stderr
	LogFile string `yaml:"log_file"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		FilePath: DefaultFilePath,
		LogLevel: DefaultLogLevel,
	}
}

// LoadConfig builds the configuration from defaults, the optional YAML file,
// a .env file and the environment, then validates it. An empty configFile
// means DefaultConfigFile, which may be absent.
func LoadConfig(configFile string) (*Config, error) {
	cfg := DefaultConfig()

	explicit := configFile != ""
	if !explicit {
		configFile = DefaultConfigFile
	}
	if err := cfg.loadFile(configFile); err != nil {
		if explicit || !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
	}

	// .env is optional; a missing file is fine
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		logger.Warn("failed to load .env: %v", err)
	}
	cfg.applyEnv()

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// loadFile merges settings from a YAML file
func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	var fileCfg Config
	if err := yaml.Unmarshal(data, &fileCfg); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	if fileCfg.FilePath != "" {
		c.FilePath = fileCfg.FilePath
	}
	if fileCfg.LogLevel != "" {
		c.LogLevel = fileCfg.LogLevel
	}
	if fileCfg.LogFile != "" {
		c.LogFile = fileCfg.LogFile
	}
	return nil
}

// applyEnv overrides settings with environment variables if present
func (c *Config) applyEnv() {
	if v := os.Getenv(EnvFilePath); v != "" {
		c.FilePath = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.LogLevel = v
	}
	if v := os.Getenv(EnvLogFile); v != "" {
		c.LogFile = v
	}
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.FilePath == "" {
		return fmt.Errorf("storage file path cannot be empty")
	}

	if _, err := logger.ParseLevel(c.LogLevel); err != nil {
		return err
	}

	// Convert to absolute path
	absPath, err := filepath.Abs(c.FilePath)
	if err != nil {
		return fmt.Errorf("failed to resolve absolute path: %w", err)
	}
	c.FilePath = absPath

	return nil
}
