package config

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

const (
	defaultEnvFile        = ".env"
	defaultPort           = "8080"
	defaultReadTimeout    = 15 * time.Second
	defaultWriteTimeout   = 30 * time.Second
	defaultIdleTimeout    = 120 * time.Second
	defaultGeoTimeout     = 1500 * time.Millisecond
	defaultPricingTimeout = 2 * time.Second
	defaultProviderName   = "sessions"
)

// Config captures all runtime configuration organised by concern.
type Config struct {
	Server   ServerConfig
	Geo      GeoConfig
	Pricing  PricingConfig
	Payments PaymentsConfig
	Catalog  CatalogConfig
	CORS     CORSConfig
}

// ServerConfig configures HTTP server parameters.
type ServerConfig struct {
	Port          string
	ReadTimeout   time.Duration
	WriteTimeout  time.Duration
	IdleTimeout   time.Duration
	SecureCookies bool
}

// GeoConfig points at the upstream geo-IP lookup service.
type GeoConfig struct {
	Endpoint string
	Timeout  time.Duration
}

// PricingConfig points at the upstream pricing service. An empty endpoint
// disables the upstream path entirely; quotes come from the local catalog.
type PricingConfig struct {
	Endpoint string
	Timeout  time.Duration
}

// PaymentsConfig collects payment provider settings.
type PaymentsConfig struct {
	SessionEndpoint string
	SessionAPIKey   string
	StripeAPIKey    string
	DefaultProvider string
	SuccessURL      string
	CancelURL       string
}

// CatalogConfig locates the optional catalog overlay file.
type CatalogConfig struct {
	File string
}

// CORSConfig lists origins allowed to call the public API.
type CORSConfig struct {
	AllowedOrigins []string
}

// ValidationError is returned when required configuration fields are missing or invalid.
type ValidationError struct {
	fields []string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("config validation failed: missing or invalid fields [%s]", strings.Join(e.fields, ", "))
}

// Fields returns a copy of the missing/invalid field list.
func (e *ValidationError) Fields() []string {
	out := make([]string, len(e.fields))
	copy(out, e.fields)
	return out
}

// Option customises Load behaviour.
type Option func(*loaderOptions)

type loaderOptions struct {
	envFile      string
	envMap       map[string]string
	useSystemEnv bool
}

// WithEnvFile overrides the .env file path used for local overrides.
func WithEnvFile(path string) Option {
	return func(o *loaderOptions) {
		o.envFile = path
	}
}

// WithEnvMap injects an explicit key/value map for environment lookups.
// Values in the map take precedence over system environment variables.
func WithEnvMap(values map[string]string) Option {
	return func(o *loaderOptions) {
		o.envMap = values
	}
}

// WithoutSystemEnv disables reading from os.Getenv, relying only on provided maps and .env files.
func WithoutSystemEnv() Option {
	return func(o *loaderOptions) {
		o.useSystemEnv = false
	}
}

// Load assembles the application configuration by combining defaults,
// .env overrides, and environment variables.
func Load(opts ...Option) (Config, error) {
	options := loaderOptions{
		envFile:      defaultEnvFile,
		useSystemEnv: true,
	}
	for _, opt := range opts {
		opt(&options)
	}

	dotEnvValues, err := loadDotEnv(options.envFile)
	if err != nil {
		return Config{}, err
	}

	lookup := func(key string) (string, bool) {
		if options.envMap != nil {
			if value, ok := options.envMap[key]; ok {
				return value, true
			}
		}
		if options.useSystemEnv {
			if value, ok := os.LookupEnv(key); ok {
				return value, true
			}
		}
		if dotEnvValues != nil {
			if value, ok := dotEnvValues[key]; ok {
				return value, true
			}
		}
		return "", false
	}

	cfg := Config{
		Server: ServerConfig{
			Port:          stringWithDefault(lookup, "IGV_SERVER_PORT", defaultPort),
			ReadTimeout:   durationWithDefault(lookup, "IGV_SERVER_READ_TIMEOUT", defaultReadTimeout),
			WriteTimeout:  durationWithDefault(lookup, "IGV_SERVER_WRITE_TIMEOUT", defaultWriteTimeout),
			IdleTimeout:   durationWithDefault(lookup, "IGV_SERVER_IDLE_TIMEOUT", defaultIdleTimeout),
			SecureCookies: boolWithDefault(lookup, "IGV_SERVER_SECURE_COOKIES", false),
		},
		Geo: GeoConfig{
			Endpoint: stringWithDefault(lookup, "IGV_GEO_ENDPOINT", ""),
			Timeout:  durationWithDefault(lookup, "IGV_GEO_TIMEOUT", defaultGeoTimeout),
		},
		Pricing: PricingConfig{
			Endpoint: stringWithDefault(lookup, "IGV_PRICING_ENDPOINT", ""),
			Timeout:  durationWithDefault(lookup, "IGV_PRICING_TIMEOUT", defaultPricingTimeout),
		},
		Payments: PaymentsConfig{
			SessionEndpoint: stringWithDefault(lookup, "IGV_PAYMENTS_SESSION_ENDPOINT", ""),
			SessionAPIKey:   stringWithDefault(lookup, "IGV_PAYMENTS_SESSION_API_KEY", ""),
			StripeAPIKey:    stringWithDefault(lookup, "IGV_PAYMENTS_STRIPE_API_KEY", ""),
			DefaultProvider: strings.ToLower(stringWithDefault(lookup, "IGV_PAYMENTS_DEFAULT_PROVIDER", defaultProviderName)),
			SuccessURL:      stringWithDefault(lookup, "IGV_PAYMENTS_SUCCESS_URL", ""),
			CancelURL:       stringWithDefault(lookup, "IGV_PAYMENTS_CANCEL_URL", ""),
		},
		Catalog: CatalogConfig{
			File: stringWithDefault(lookup, "IGV_CATALOG_FILE", ""),
		},
		CORS: CORSConfig{
			AllowedOrigins: csvWithDefault(lookup, "IGV_CORS_ALLOWED_ORIGINS"),
		},
	}

	if err := validateConfig(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func validateConfig(cfg Config) error {
	var missing []string

	if cfg.Server.Port == "" {
		missing = append(missing, "Server.Port")
	}
	if cfg.Geo.Timeout <= 0 {
		missing = append(missing, "Geo.Timeout")
	}
	if cfg.Pricing.Timeout <= 0 {
		missing = append(missing, "Pricing.Timeout")
	}
	if cfg.Payments.SessionEndpoint == "" && cfg.Payments.StripeAPIKey == "" {
		missing = append(missing, "Payments.SessionEndpoint")
	}

	if len(missing) > 0 {
		return &ValidationError{fields: missing}
	}
	return nil
}

func loadDotEnv(path string) (map[string]string, error) {
	if path == "" {
		return nil, nil
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		absPath = path
	}

	file, err := os.Open(absPath)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("config: unable to read %s: %w", absPath, err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	values := make(map[string]string)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if strings.HasPrefix(line, "export ") {
			line = strings.TrimSpace(strings.TrimPrefix(line, "export "))
		}
		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			continue
		}
		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])
		if key == "" {
			continue
		}
		value = strings.Trim(value, "\"'")
		values[key] = value
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("config: failed parsing %s: %w", absPath, err)
	}
	return values, nil
}

func stringWithDefault(lookup func(string) (string, bool), key, fallback string) string {
	if value, ok := lookup(key); ok && value != "" {
		return value
	}
	return fallback
}

func durationWithDefault(lookup func(string) (string, bool), key string, fallback time.Duration) time.Duration {
	if value, ok := lookup(key); ok && value != "" {
		d, err := time.ParseDuration(value)
		if err == nil {
			return d
		}
	}
	return fallback
}

func boolWithDefault(lookup func(string) (string, bool), key string, fallback bool) bool {
	if value, ok := lookup(key); ok && value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return fallback
}

func csvWithDefault(lookup func(string) (string, bool), key string) []string {
	raw, ok := lookup(key)
	if !ok || strings.TrimSpace(raw) == "" {
		return []string{}
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
