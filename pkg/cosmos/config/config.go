// Package config loads the account settings used by the cosmos client.
//
// Settings come from a static configuration file and fall back to the
// environment for the two required values:
//
//	COSMOS_DB_KEY   base64 account key
//	COSMOS_DB_HOST  account endpoint URL
//
// Example configuration (HCL):
//
//	host        = "https://myaccount.documents.azure.com:443/"
//	timeout     = "30s"
//	max_retries = 2
//	tls_verify  = true
//
// The same attributes are accepted in .json and .yaml files.
package config

import (
	"encoding/base64"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/hashicorp/go-multierror"
	"github.com/hashicorp/hcl/v2/hclsimple"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"

	"github.com/hashicorp-forge/cosmosrest/pkg/cosmos/auth"
)

// Environment variables consulted when the file leaves a value unset.
const (
	EnvKey  = "COSMOS_DB_KEY"
	EnvHost = "COSMOS_DB_HOST"
)

var (
	// ErrMissingKey is returned when neither the file nor the environment
	// provide the account key.
	ErrMissingKey = errors.New("database key is required (key or " + EnvKey + ")")

	// ErrMissingHost is returned when neither the file nor the environment
	// provide the account endpoint.
	ErrMissingHost = errors.New("database host is required (host or " + EnvHost + ")")
)

// Config contains the account settings.
type Config struct {
	// Key is the base64 account key. Prefer the environment over the file.
	Key string `hcl:"key,optional" json:"-" yaml:"key"`

	// Host is the account endpoint URL.
	Host string `hcl:"host,optional" json:"host" yaml:"host"`

	// KeyType of Key. Default: "master"
	KeyType string `hcl:"key_type,optional" json:"keyType,omitempty" yaml:"key_type"`

	// TokenVersion of the authorization token. Default: "1.0"
	TokenVersion string `hcl:"token_version,optional" json:"tokenVersion,omitempty" yaml:"token_version"`

	// Timeout for a single HTTP attempt, as a duration string.
	// Default: "30s"
	Timeout string `hcl:"timeout,optional" json:"timeout,omitempty" yaml:"timeout"`

	// TLSVerify controls TLS certificate verification.
	// Set to false only for the local emulator.
	TLSVerify *bool `hcl:"tls_verify,optional" json:"tlsVerify,omitempty" yaml:"tls_verify"`

	// MaxRetries for connection-level failures. Default: 0
	MaxRetries int `hcl:"max_retries,optional" json:"maxRetries,omitempty" yaml:"max_retries"`

	// RetryDelay before the first retry, as a duration string.
	// Default: "500ms"
	RetryDelay string `hcl:"retry_delay,optional" json:"retryDelay,omitempty" yaml:"retry_delay"`

	// Tracing enables Datadog spans for outgoing calls.
	Tracing bool `hcl:"tracing,optional" json:"tracing,omitempty" yaml:"tracing"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	tlsVerify := true
	return &Config{
		KeyType:      string(auth.KeyTypeMaster),
		TokenVersion: auth.DefaultTokenVersion,
		Timeout:      "30s",
		TLSVerify:    &tlsVerify,
		RetryDelay:   "500ms",
	}
}

// Load reads the configuration file at path from fs, if path is not empty,
// and fills a missing key or host from the environment. lookupEnv defaults
// to os.LookupEnv. The result is validated.
func Load(fs afero.Fs, path string, lookupEnv func(string) (string, bool)) (*Config, error) {
	if lookupEnv == nil {
		lookupEnv = os.LookupEnv
	}

	cfg := DefaultConfig()

	if path != "" {
		if err := decodeFile(fs, path, cfg); err != nil {
			return nil, err
		}
	}

	if cfg.Key == "" {
		if v, ok := lookupEnv(EnvKey); ok {
			cfg.Key = strings.TrimSpace(v)
		}
	}
	if cfg.Host == "" {
		if v, ok := lookupEnv(EnvHost); ok {
			cfg.Host = strings.TrimSpace(v)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func decodeFile(fs afero.Fs, path string, cfg *Config) error {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return fmt.Errorf("failed to decode config file %s: %w", path, err)
		}
	case ".hcl", ".json":
		if err := hclsimple.Decode(path, data, nil, cfg); err != nil {
			return fmt.Errorf("failed to decode config file %s: %w", path, err)
		}
	default:
		return fmt.Errorf("unsupported config file extension %q (want .hcl, .json, .yaml or .yml)", filepath.Ext(path))
	}
	return nil
}

// Validate checks if the configuration is valid. All problems are reported
// together.
func (c *Config) Validate() error {
	var result *multierror.Error

	if c.Key == "" {
		result = multierror.Append(result, ErrMissingKey)
	}
	if c.Host == "" {
		result = multierror.Append(result, ErrMissingHost)
	}

	if err := validation.ValidateStruct(c,
		validation.Field(&c.Key, validation.By(isBase64)),
		validation.Field(&c.Host, validation.By(isHTTPURL)),
		validation.Field(&c.KeyType, validation.In(string(auth.KeyTypeMaster))),
		validation.Field(&c.Timeout, validation.By(isPositiveDuration)),
		validation.Field(&c.RetryDelay, validation.By(isPositiveDuration)),
		validation.Field(&c.MaxRetries, validation.Min(0)),
	); err != nil {
		result = multierror.Append(result, err)
	}

	return result.ErrorOrNil()
}

// Credentials returns the signing credentials described by c.
func (c *Config) Credentials() auth.Credentials {
	return auth.Credentials{
		Key:          c.Key,
		KeyType:      auth.KeyType(c.KeyType),
		TokenVersion: c.TokenVersion,
	}
}

// TimeoutDuration returns Timeout parsed, or 30 seconds when unset.
func (c *Config) TimeoutDuration() time.Duration {
	return parseDuration(c.Timeout, 30*time.Second)
}

// RetryDelayDuration returns RetryDelay parsed, or 500ms when unset.
func (c *Config) RetryDelayDuration() time.Duration {
	return parseDuration(c.RetryDelay, 500*time.Millisecond)
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	if s == "" {
		return fallback
	}
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}

func isBase64(value interface{}) error {
	s, _ := value.(string)
	if s == "" {
		return nil
	}
	if _, err := base64.StdEncoding.DecodeString(s); err != nil {
		return errors.New("must be base64 encoded")
	}
	return nil
}

func isHTTPURL(value interface{}) error {
	s, _ := value.(string)
	if s == "" {
		return nil
	}
	u, err := url.Parse(s)
	if err != nil {
		return fmt.Errorf("invalid URL: %v", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("must use http or https scheme, got: %q", u.Scheme)
	}
	if u.Host == "" {
		return errors.New("must include a host")
	}
	return nil
}

func isPositiveDuration(value interface{}) error {
	s, _ := value.(string)
	if s == "" {
		return nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration: %v", err)
	}
	if d <= 0 {
		return errors.New("must be positive")
	}
	return nil
}
