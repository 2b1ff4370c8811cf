package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	env "github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const (
	envPrefix        = "APP_"
	defaultConfigDir = "configs"
)

// Option configures Load.
type Option func(*loadOptions)

type loadOptions struct {
	configDir string
}

// WithConfigDir reads the YAML files from dir instead of "configs".
func WithConfigDir(dir string) Option {
	return func(o *loadOptions) {
		o.configDir = dir
	}
}

// Load builds the configuration for profile from four layers, later layers
// winning:
//
//  1. built-in defaults
//  2. {configDir}/base.yaml
//  3. {configDir}/{profile}.yaml
//  4. APP_-prefixed environment variables
//
// Environment variables are matched against the keys known after the file
// layers, so underscores inside a key survive:
//
//	APP_SERVER_READ_TIMEOUT                   -> server.read_timeout
//	APP_DATABASE_DSN                          -> database.dsn
//	APP_DATABASE_PASSWORD                     -> database.password
//	APP_DATABASE_CIRCUIT_BREAKER_MAX_FAILURES -> database.circuit_breaker.max_failures
func Load(profile string, opts ...Option) (*Config, error) {
	if err := validateProfile(profile); err != nil {
		return nil, err
	}

	o := &loadOptions{configDir: defaultConfigDir}
	for _, opt := range opts {
		opt(o)
	}

	k := koanf.New(".")
	layers := []func(*koanf.Koanf) error{
		loadDefaults,
		loadFile(filepath.Join(o.configDir, "base.yaml")),
		loadFile(filepath.Join(o.configDir, profile+".yaml")),
		loadEnv,
	}
	for _, layer := range layers {
		if err := layer(k); err != nil {
			return nil, err
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}
	return &cfg, nil
}

// loadDefaults seeds every known key so environment variables can match it.
func loadDefaults(k *koanf.Koanf) error {
	for key, value := range defaults() {
		if err := k.Set(key, value); err != nil {
			return fmt.Errorf("setting default %s: %w", key, err)
		}
	}
	return nil
}

func loadFile(path string) func(*koanf.Koanf) error {
	return func(k *koanf.Koanf) error {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return fmt.Errorf("loading config %s: %w", path, err)
		}
		return nil
	}
}

func loadEnv(k *koanf.Koanf) error {
	known := envKeys(k.Keys())

	provider := env.Provider(".", env.Opt{
		Prefix: envPrefix,
		TransformFunc: func(key, value string) (string, any) {
			key = strings.ToLower(strings.TrimPrefix(key, envPrefix))
			if koanfKey, ok := known[key]; ok {
				return koanfKey, value
			}
			return strings.ReplaceAll(key, "_", "."), value
		},
	})
	if err := k.Load(provider, nil); err != nil {
		return fmt.Errorf("loading env vars: %w", err)
	}
	return nil
}

// validateProfile rejects empty names and names that could escape configDir.
func validateProfile(profile string) error {
	switch {
	case strings.TrimSpace(profile) == "":
		return errors.New("profile must not be empty")
	case strings.ContainsAny(profile, `/\`):
		return fmt.Errorf("profile must not contain path separators, got %q", profile)
	case strings.Contains(profile, ".."):
		return fmt.Errorf("profile must not contain path traversal, got %q", profile)
	}
	return nil
}

// envKeys maps the env form of each koanf key ("server_read_timeout") to the
// key itself ("server.read_timeout").
func envKeys(keys []string) map[string]string {
	lookup := make(map[string]string, len(keys))
	for _, key := range keys {
		lookup[strings.ReplaceAll(key, ".", "_")] = key
	}
	return lookup
}
