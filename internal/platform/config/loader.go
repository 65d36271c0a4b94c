package config

import (
	"encoding/hex"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	platformerrors "lvlhub-server-go/internal/platform/errors"
)

const (
	// DefaultPath is where the loader looks when LVLHUB_CONFIG is unset.
	DefaultPath = "configs/config.yaml"

	envConfigPath  = "LVLHUB_CONFIG"
	envEnvironment = "LVLHUB_ENV"
	envTokenSecret = "LVLHUB_TOKEN_SECRET"
	envCipherKey   = "LVLHUB_CIPHER_KEY"
	envRedisAddr   = "LVLHUB_REDIS_ADDR"
	envDatabaseDSN = "LVLHUB_DATABASE_DSN"
)

// document mirrors the on-disk layout: one block per environment.
type document struct {
	DefaultEnvironment string             `yaml:"default_environment"`
	Environments       map[string]*Config `yaml:"environments"`
}

// Loader resolves exactly one environment into a typed Config.
type Loader struct {
	useDotEnv   bool
	path        string
	environment string
}

func NewLoader() *Loader {
	return &Loader{useDotEnv: true}
}

// WithDotEnv toggles loading variables from a .env file before resolving.
func (l *Loader) WithDotEnv(enabled bool) *Loader {
	l.useDotEnv = enabled
	return l
}

// WithPath overrides the configuration document location.
func (l *Loader) WithPath(path string) *Loader {
	if path != "" {
		l.path = path
	}
	return l
}

// WithEnvironment forces an environment regardless of LVLHUB_ENV.
func (l *Loader) WithEnvironment(name string) *Loader {
	if name != "" {
		l.environment = name
	}
	return l
}

// Result captures the resolved configuration and its origin.
type Result struct {
	Config      *Config
	Path        string
	Environment string
}

// Load reads the document, selects the active environment, applies secrets
// from the process environment and validates the outcome.
func (l *Loader) Load() (*Result, error) {
	if l.useDotEnv {
		// A missing .env file is not an error; system env vars still apply.
		_ = godotenv.Load()
	}

	path := l.path
	if path == "" {
		path = os.Getenv(envConfigPath)
	}
	if path == "" {
		path = DefaultPath
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, platformerrors.Wrap(
			platformerrors.KindConfig, "config.load", "read config document", err)
	}

	var doc document
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, platformerrors.Wrap(
			platformerrors.KindConfig, "config.load", "parse config document", err)
	}

	envName := l.environment
	if envName == "" {
		envName = os.Getenv(envEnvironment)
	}
	if envName == "" {
		envName = doc.DefaultEnvironment
	}
	if envName == "" {
		envName = "development"
	}

	cfg, ok := doc.Environments[envName]
	if !ok || cfg == nil {
		return nil, platformerrors.New(
			platformerrors.KindConfig, "config.load",
			fmt.Sprintf("environment %q not defined in %s", envName, path))
	}
	cfg.Environment = envName

	applyEnvOverrides(cfg)
	applyDefaults(cfg)
	if err := Validate(cfg); err != nil {
		return nil, err
	}

	return &Result{
		Config:      cfg,
		Path:        path,
		Environment: envName,
	}, nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv(envTokenSecret); v != "" {
		cfg.Session.Token.Secret = v
	}
	if v := os.Getenv(envCipherKey); v != "" {
		cfg.Session.Cipher.Key = v
	}
	if v := os.Getenv(envRedisAddr); v != "" {
		cfg.Cache.Addr = v
	}
	if v := os.Getenv(envDatabaseDSN); v != "" {
		cfg.Database.DSN = v
	}
}

// Validate rejects partially configured environments. Serving requests with
// a missing secret is worse than refusing to start.
func Validate(cfg *Config) error {
	switch cfg.Session.Token.Mode {
	case "opaque":
	case "hs256":
		if cfg.Session.Token.Secret == "" {
			return platformerrors.New(
				platformerrors.KindConfig, "config.validate",
				"token mode hs256 requires a signing secret")
		}
	default:
		return platformerrors.New(
			platformerrors.KindConfig, "config.validate",
			fmt.Sprintf("unsupported token mode: %s", cfg.Session.Token.Mode))
	}

	if key := cfg.Session.Cipher.Key; key != "" {
		decoded, err := hex.DecodeString(key)
		if err != nil {
			return platformerrors.Wrap(
				platformerrors.KindConfig, "config.validate",
				"cipher key is not valid hex", err)
		}
		if len(decoded) != 32 {
			return platformerrors.New(
				platformerrors.KindConfig, "config.validate",
				"cipher key must decode to 32 bytes for AES-256-GCM")
		}
	}

	switch cfg.Identity.Store {
	case "memory", "sqlite", "redis":
	default:
		return platformerrors.New(
			platformerrors.KindConfig, "config.validate",
			fmt.Sprintf("unsupported identity store: %s", cfg.Identity.Store))
	}
	switch cfg.Session.Store {
	case "memory", "sqlite", "redis":
	default:
		return platformerrors.New(
			platformerrors.KindConfig, "config.validate",
			fmt.Sprintf("unsupported session store: %s", cfg.Session.Store))
	}

	if (cfg.Identity.Store == "redis" || cfg.Session.Store == "redis") &&
		cfg.Cache.Addr == "" {
		return platformerrors.New(
			platformerrors.KindConfig, "config.validate",
			"redis store selected but no cache address configured")
	}
	return nil
}
