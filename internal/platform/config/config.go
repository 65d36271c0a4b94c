package config

import "time"

// Config is the fully resolved configuration for one environment. The core
// components never read the raw document; they consume these values only.
type Config struct {
	Environment string `yaml:"-"`

	Server   ServerConfig   `yaml:"server"`
	Log      LogConfig      `yaml:"log"`
	Web      WebConfig      `yaml:"web"`
	Database DatabaseConfig `yaml:"database"`
	Cache    CacheConfig    `yaml:"cache"`
	Identity IdentityConfig `yaml:"identity"`
	Session  SessionConfig  `yaml:"session"`
	Dispatch DispatchConfig `yaml:"dispatch"`
}

type ServerConfig struct {
	IP   string `yaml:"ip"`
	Port int    `yaml:"port"`
}

type LogConfig struct {
	Level string `yaml:"log_level"`
	Dir   string `yaml:"log_dir"`
	File  string `yaml:"log_file"`
}

type WebConfig struct {
	Enabled   bool   `yaml:"enabled"`
	StaticDir string `yaml:"static_dir"`
}

// DatabaseConfig describes the relational backend used by the sqlite-backed
// identity and session stores.
type DatabaseConfig struct {
	Driver string `yaml:"driver"`
	DSN    string `yaml:"dsn"`
}

// CacheConfig describes the redis backend.
type CacheConfig struct {
	Addr     string `yaml:"addr"`
	Username string `yaml:"username,omitempty"`
	Password string `yaml:"password,omitempty"`
	DB       int    `yaml:"db,omitempty"`
	Prefix   string `yaml:"prefix,omitempty"`
}

type IdentityConfig struct {
	Store string `yaml:"store"`
}

type SessionConfig struct {
	Store          string       `yaml:"store"`
	TTLSeconds     int          `yaml:"ttl_seconds"`
	GraceSeconds   int          `yaml:"grace_seconds"`
	CleanupSeconds int          `yaml:"cleanup_seconds"`
	Token          TokenConfig  `yaml:"token"`
	Cipher         CipherConfig `yaml:"cipher"`
}

// TokenConfig selects the outward token format. Mode "opaque" returns the
// raw random session identifier; "hs256" wraps it in a signed JWT.
type TokenConfig struct {
	Mode   string `yaml:"mode"`
	Secret string `yaml:"secret,omitempty"`
}

// CipherConfig keys the AES-256-GCM cipher that seals session payloads
// before they leave the process (redis store). An empty key disables it.
type CipherConfig struct {
	Algorithm string `yaml:"algorithm,omitempty"`
	Key       string `yaml:"key,omitempty"`
}

type DispatchConfig struct {
	TimeoutSeconds int `yaml:"timeout_seconds"`
}

func (s SessionConfig) TTL() time.Duration {
	return time.Duration(s.TTLSeconds) * time.Second
}

func (s SessionConfig) Grace() time.Duration {
	return time.Duration(s.GraceSeconds) * time.Second
}

func (s SessionConfig) CleanupInterval() time.Duration {
	return time.Duration(s.CleanupSeconds) * time.Second
}

func (d DispatchConfig) Timeout() time.Duration {
	return time.Duration(d.TimeoutSeconds) * time.Second
}
