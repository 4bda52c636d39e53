package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the application
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Redis     RedisConfig     `yaml:"redis"`
	AWS       AWSConfig       `yaml:"aws"`
	APNS      APNSConfig      `yaml:"apns"`
	JWT       JWTConfig       `yaml:"jwt"`
	Challenge ChallengeConfig `yaml:"challenge"`
	Log       LogConfig       `yaml:"log"`
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port int    `yaml:"port"`
	Host string `yaml:"host"`
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	DBName   string `yaml:"dbname"`
	SSLMode  string `yaml:"sslmode"`
}

// RedisConfig holds the device registry configuration
type RedisConfig struct {
	Addr      string `yaml:"addr"`
	Password  string `yaml:"password"`
	DB        int    `yaml:"db"`
	DeviceTTL string `yaml:"device_ttl"` // Go duration, e.g. "720h"
}

// AWSConfig holds S3 photo storage configuration
type AWSConfig struct {
	Region     string `yaml:"region"`
	S3Bucket   string `yaml:"s3_bucket"`
	AccessKey  string `yaml:"access_key"`
	SecretKey  string `yaml:"secret_key"`
	Endpoint   string `yaml:"endpoint"` // custom S3-compatible endpoint, optional
	DisableSSL bool   `yaml:"disable_ssl"`
}

// APNSConfig holds push delivery configuration
type APNSConfig struct {
	Enabled      bool   `yaml:"enabled"`
	CertPath     string `yaml:"cert_path"`
	CertPassword string `yaml:"cert_password"`
	Topic        string `yaml:"topic"`
	Production   bool   `yaml:"production"`
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret string `yaml:"secret"`
}

// ChallengeConfig holds the daily challenge rotation configuration
type ChallengeConfig struct {
	Timezone string `yaml:"timezone"`  // reference timezone for vibe days
	CronSpec string `yaml:"cron_spec"` // daily job schedule, e.g. "0 10 * * *"
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level string `yaml:"level"`
}

// Load reads configuration from a YAML file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if cfg.Challenge.Timezone == "" {
		cfg.Challenge.Timezone = "UTC"
	}
	if cfg.Challenge.CronSpec == "" {
		cfg.Challenge.CronSpec = "0 10 * * *"
	}
	if cfg.Redis.DeviceTTL == "" {
		cfg.Redis.DeviceTTL = "720h"
	}

	return &cfg, nil
}

// DSN returns the PostgreSQL connection string
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}

// Location resolves the configured reference timezone
func (c *ChallengeConfig) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid challenge timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// TTL parses the device registry TTL
func (c *RedisConfig) TTL() (time.Duration, error) {
	d, err := time.ParseDuration(c.DeviceTTL)
	if err != nil {
		return 0, fmt.Errorf("invalid device_ttl %q: %w", c.DeviceTTL, err)
	}
	return d, nil
}
