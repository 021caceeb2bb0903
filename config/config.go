// Package config loads process-wide client defaults from a cascade of
// sources: built-in defaults, an optional YAML file, a .env file, and
// environment variables.
package config

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	envprovider "github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"

	"github.com/rely-go/rely/httpclient"
)

// EnvPrefix namespaces the environment variables read by Load, e.g.
// RELY_HTTP_RETRIES_MAX maps to the http.retries.max key.
const EnvPrefix = "RELY_"

// DefaultFile is the YAML file Load looks for in the working directory.
const DefaultFile = "config.yaml"

// Load reads settings with priority: environment variables (including
// a .env file loaded into the environment first) > config.yaml >
// built-in defaults.
func Load() (*Settings, error) {
	return LoadFile(DefaultFile)
}

// LoadFile is Load with an explicit YAML path. A missing file is not an
// error; the file layer is optional.
func LoadFile(path string) (*Settings, error) {
	// Pull a .env file into the process environment before the env
	// provider reads it. Absence is fine.
	_ = godotenv.Load()

	k := koanf.New(".")
	if err := loadDefaults(k); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if path != "" {
		// The YAML file is optional; ignore a missing or unreadable one.
		_ = k.Load(file.Provider(path), yaml.Parser())
	}

	if err := k.Load(envprovider.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	return unmarshal(k)
}

// LoadBytes reads settings from in-memory YAML layered over the
// built-in defaults. The environment is not consulted.
func LoadBytes(b []byte) (*Settings, error) {
	k := koanf.New(".")
	if err := loadDefaults(k); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}
	if err := k.Load(rawbytes.Provider(b), yaml.Parser()); err != nil {
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}
	return unmarshal(k)
}

// envKey converts RELY_HTTP_RETRIES_MAX to http.retries.max.
func envKey(s string) string {
	s = strings.TrimPrefix(s, EnvPrefix)
	return strings.ReplaceAll(strings.ToLower(s), "_", ".")
}

func loadDefaults(k *koanf.Koanf) error {
	defaults := map[string]any{
		"http.retries.max":           httpclient.DefaultMaxRetries,
		"http.timeout.request":       httpclient.DefaultRequestTimeout.String(),
		"http.timeout.global":        httpclient.DefaultGlobalTimeout.String(),
		"http.backoff.delay.initial": httpclient.DefaultInitialDelay.String(),
		"http.backoff.delay.max":     httpclient.DefaultMaxDelay.String(),
		"http.backoff.multiplier":    httpclient.DefaultMultiplier,
		"http.backoff.jitter":        true,
		"http.logging.level":         httpclient.DefaultLogLevel,
		"http.logging.retries":       true,

		"log.level":  "info",
		"log.pretty": false,
	}
	return k.Load(confmap.Provider(defaults, "."), nil)
}

func unmarshal(k *koanf.Koanf) (*Settings, error) {
	var s Settings
	if err := k.Unmarshal("", &s); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}
	if err := validator.New().Struct(&s); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &s, nil
}
