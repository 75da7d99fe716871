package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server struct {
		Port int `yaml:"port"`
	} `yaml:"server"`

	Database struct {
		URI string `yaml:"uri"`
	} `yaml:"database"`

	Clerk struct {
		SecretKey string `yaml:"secretKey"`
	} `yaml:"clerk"`

	Cors struct {
		AllowedOrigins []string `yaml:"allowedOrigins"`
	} `yaml:"cors"`

	Metrics struct {
		Username string `yaml:"username"`
		Password string `yaml:"password"`
	} `yaml:"metrics"`
}

// LoadConfig reads the configuration file. Secrets may be overridden by
// environment variables so the yaml file can stay out of secret scope.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal yaml: %w", err)
	}

	if v := os.Getenv("CLERK_SECRET_KEY"); v != "" {
		cfg.Clerk.SecretKey = v
	}
	if v := os.Getenv("MONGODB_URI"); v != "" {
		cfg.Database.URI = v
	}
	if v := os.Getenv("METRICS_USER"); v != "" {
		cfg.Metrics.Username = v
	}
	if v := os.Getenv("METRICS_PASS"); v != "" {
		cfg.Metrics.Password = v
	}

	return &cfg, nil
}
