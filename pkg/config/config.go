// Package config loads the session-vault service configuration.
package config

import (
	"encoding/base64"
	"fmt"
	"os"
	"regexp"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/txn2/session-vault/pkg/session"
)

// Config holds the complete service configuration.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Auth     AuthConfig     `yaml:"auth"`
	Database DatabaseConfig `yaml:"database"`
	Storage  StorageConfig  `yaml:"storage"`
	Limits   LimitsConfig   `yaml:"limits"`
	Audit    AuditConfig    `yaml:"audit"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Address string    `yaml:"address"`
	TLS     TLSConfig `yaml:"tls"`
}

// TLSConfig configures TLS.
type TLSConfig struct {
	Enabled  bool   `yaml:"enabled"`
	CertFile string `yaml:"cert_file"`
	KeyFile  string `yaml:"key_file"`
}

// AuthConfig configures bot-token authentication and JWT issuance.
type AuthConfig struct {
	// SigningKey is the base64-encoded HMAC key for JWT signing.
	SigningKey string `yaml:"signing_key"`

	// TokenTTL is the access token lifetime; zero means non-expiring.
	TokenTTL time.Duration `yaml:"token_ttl"`

	// TelegramAPI overrides the Bot API base URL.
	TelegramAPI string `yaml:"telegram_api"`
}

// DatabaseConfig configures the PostgreSQL connection.
type DatabaseConfig struct {
	DSN          string `yaml:"dsn"`
	MaxOpenConns int    `yaml:"max_open_conns"`
}

// StorageConfig configures the blob backend.
type StorageConfig struct {
	S3 S3Config `yaml:"s3"`
}

// S3Config configures the S3 blob store.
type S3Config struct {
	Region       string `yaml:"region"`
	Endpoint     string `yaml:"endpoint"`
	Bucket       string `yaml:"bucket"`
	AccessKeyID  string `yaml:"access_key_id"`
	SecretKey    string `yaml:"secret_key"`
	UsePathStyle bool   `yaml:"use_path_style"`
}

// LimitsConfig configures the per-tenant quotas.
type LimitsConfig struct {
	MaxKeyLength    int   `yaml:"max_key_length"`
	MaxDataBytes    int64 `yaml:"max_data_bytes"`
	MaxSessionCount int   `yaml:"max_session_count"`
}

// AuditConfig configures the audit trail.
type AuditConfig struct {
	Enabled       bool `yaml:"enabled"`
	RetentionDays int  `yaml:"retention_days"`
}

// Load reads, expands, and validates a config file.
func Load(path string) (*Config, error) {
	// #nosec G304 -- path is from CLI args, controlled by admin
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Parse parses config bytes with ${VAR} expansion and applies defaults.
func Parse(data []byte) (*Config, error) {
	data = []byte(expandEnvVars(string(data)))

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	applyDefaults(&cfg)
	return &cfg, nil
}

// expandEnvVars expands ${VAR} patterns in the string.
func expandEnvVars(s string) string {
	re := regexp.MustCompile(`\$\{([^}]+)\}`)
	return re.ReplaceAllStringFunc(s, func(match string) string {
		varName := match[2 : len(match)-1]
		return os.Getenv(varName)
	})
}

// applyDefaults applies default values to the config.
func applyDefaults(cfg *Config) {
	if cfg.Server.Address == "" {
		cfg.Server.Address = ":8080"
	}
	if cfg.Database.MaxOpenConns == 0 {
		cfg.Database.MaxOpenConns = 25
	}
	if cfg.Limits.MaxKeyLength == 0 {
		cfg.Limits.MaxKeyLength = session.DefaultMaxKeyLength
	}
	if cfg.Limits.MaxDataBytes == 0 {
		cfg.Limits.MaxDataBytes = session.DefaultMaxDataBytes
	}
	if cfg.Limits.MaxSessionCount == 0 {
		cfg.Limits.MaxSessionCount = session.DefaultMaxSessionCount
	}
	if cfg.Audit.RetentionDays == 0 {
		cfg.Audit.RetentionDays = 90
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	var errs []string

	if c.Auth.SigningKey == "" {
		errs = append(errs, "auth.signing_key is required")
	} else if _, err := c.SigningKey(); err != nil {
		errs = append(errs, "auth.signing_key must be base64")
	}
	if c.Database.DSN == "" {
		errs = append(errs, "database.dsn is required")
	}
	if c.Storage.S3.Bucket == "" {
		errs = append(errs, "storage.s3.bucket is required")
	}
	if c.Server.TLS.Enabled && (c.Server.TLS.CertFile == "" || c.Server.TLS.KeyFile == "") {
		errs = append(errs, "server.tls.cert_file and key_file are required when TLS is enabled")
	}
	if c.Limits.MaxKeyLength < 0 || c.Limits.MaxDataBytes < 0 || c.Limits.MaxSessionCount < 0 {
		errs = append(errs, "limits must not be negative")
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %s", strings.Join(errs, "; "))
	}
	return nil
}

// SigningKey decodes the base64 HMAC signing key.
func (c *Config) SigningKey() ([]byte, error) {
	key, err := base64.StdEncoding.DecodeString(c.Auth.SigningKey)
	if err != nil {
		return nil, fmt.Errorf("decoding signing key: %w", err)
	}
	return key, nil
}

// SessionLimits converts the limits section into session.Limits.
func (c *Config) SessionLimits() session.Limits {
	return session.Limits{
		MaxKeyLength:    c.Limits.MaxKeyLength,
		MaxDataBytes:    c.Limits.MaxDataBytes,
		MaxSessionCount: c.Limits.MaxSessionCount,
	}
}
