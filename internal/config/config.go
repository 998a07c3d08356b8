package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/orrn/printbridge/internal/core"
)

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Printers PrintersConfig `yaml:"printers"`
	Webhooks WebhooksConfig `yaml:"webhooks"`
	Logging  LoggingConfig  `yaml:"logging"`
}

type ServerConfig struct {
	Port         int           `yaml:"port"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
}

type DatabaseConfig struct {
	Path string `yaml:"path"`
}

type PrintersConfig struct {
	DeviceDir       string               `yaml:"device_dir"`
	PrintCommand    string               `yaml:"print_command"`
	DiscoverCommand string               `yaml:"discover_command"`
	SystemDiscovery bool                 `yaml:"system_discovery"`
	Static          []core.PrinterRecord `yaml:"static"`
}

type WebhooksConfig struct {
	RetryCount  int           `yaml:"retry_count"`
	RetryDelay  time.Duration `yaml:"retry_delay"`
	Timeout     time.Duration `yaml:"timeout"`
	WorkerCount int           `yaml:"worker_count"`
	QueueSize   int           `yaml:"queue_size"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Output string `yaml:"output"`
}

func defaults() *Config {
	return &Config{
		Server: ServerConfig{
			Port:         8631,
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 2 * time.Minute,
		},
		Database: DatabaseConfig{
			Path: "./data/printbridge.db",
		},
		Printers: PrintersConfig{
			DeviceDir:       "/dev",
			SystemDiscovery: true,
		},
		Webhooks: WebhooksConfig{
			RetryCount:  3,
			RetryDelay:  5 * time.Second,
			Timeout:     10 * time.Second,
			WorkerCount: 2,
			QueueSize:   100,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Output: "stdout",
		},
	}
}

func Default() *Config {
	return defaults()
}

func Load(configPath string) (*Config, error) {
	cfg := defaults()

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return cfg, nil
}

// ApplyEnv overrides fields from PRINTBRIDGE_* environment variables.
func (c *Config) ApplyEnv() {
	if v := os.Getenv("PRINTBRIDGE_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.Server.Port = port
		}
	}

	if v := os.Getenv("PRINTBRIDGE_DB_PATH"); v != "" {
		c.Database.Path = v
	}

	if v := os.Getenv("PRINTBRIDGE_DEVICE_DIR"); v != "" {
		c.Printers.DeviceDir = v
	}

	if v := os.Getenv("PRINTBRIDGE_PRINT_COMMAND"); v != "" {
		c.Printers.PrintCommand = v
	}

	if v := os.Getenv("PRINTBRIDGE_SYSTEM_DISCOVERY"); v != "" {
		if on, err := strconv.ParseBool(v); err == nil {
			c.Printers.SystemDiscovery = on
		}
	}

	if v := os.Getenv("PRINTBRIDGE_LOG_LEVEL"); v != "" {
		c.Logging.Level = strings.ToLower(v)
	}

	if v := os.Getenv("PRINTBRIDGE_LOG_FORMAT"); v != "" {
		c.Logging.Format = strings.ToLower(v)
	}
}

func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server port must be between 1 and 65535, got %d", c.Server.Port)
	}

	if c.Server.ReadTimeout < 0 {
		return fmt.Errorf("server read timeout must be non-negative")
	}

	if c.Server.WriteTimeout < 0 {
		return fmt.Errorf("server write timeout must be non-negative")
	}

	if c.Database.Path == "" {
		return fmt.Errorf("database path is required")
	}

	seen := make(map[string]bool, len(c.Printers.Static))
	for i, p := range c.Printers.Static {
		if p.Name == "" {
			return fmt.Errorf("printers.static[%d]: name is required", i)
		}
		if seen[p.Name] {
			return fmt.Errorf("printers.static[%d]: duplicate printer name %q", i, p.Name)
		}
		seen[p.Name] = true
	}

	if c.Webhooks.RetryCount < 0 {
		return fmt.Errorf("webhook retry count must be non-negative")
	}

	if c.Webhooks.RetryDelay < 0 {
		return fmt.Errorf("webhook retry delay must be non-negative")
	}

	if c.Webhooks.WorkerCount < 1 {
		return fmt.Errorf("webhook worker count must be at least 1")
	}

	validLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}

	if !validLevels[c.Logging.Level] {
		return fmt.Errorf("invalid log level: %s (valid: debug, info, warn, error)", c.Logging.Level)
	}

	validFormats := map[string]bool{
		"json":    true,
		"console": true,
	}

	if !validFormats[c.Logging.Format] {
		return fmt.Errorf("invalid log format: %s (valid: json, console)", c.Logging.Format)
	}

	return nil
}
