package config

const (
	// DefaultSessionTTLSeconds matches the documented per-environment default.
	DefaultSessionTTLSeconds = 3600

	defaultGraceSeconds    = 300
	defaultCleanupSeconds  = 600
	defaultDispatchTimeout = 30
)

// applyDefaults fills the gaps an environment block leaves open.
func applyDefaults(cfg *Config) {
	if cfg.Server.IP == "" {
		cfg.Server.IP = "0.0.0.0"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "INFO"
	}
	if cfg.Database.Driver == "" {
		cfg.Database.Driver = "sqlite"
	}
	if cfg.Database.DSN == "" {
		cfg.Database.DSN = "lvlhub.db"
	}
	if cfg.Identity.Store == "" {
		cfg.Identity.Store = "memory"
	}
	if cfg.Session.Store == "" {
		cfg.Session.Store = "memory"
	}
	if cfg.Session.TTLSeconds <= 0 {
		cfg.Session.TTLSeconds = DefaultSessionTTLSeconds
	}
	if cfg.Session.GraceSeconds <= 0 {
		cfg.Session.GraceSeconds = defaultGraceSeconds
	}
	if cfg.Session.CleanupSeconds <= 0 {
		cfg.Session.CleanupSeconds = defaultCleanupSeconds
	}
	if cfg.Session.Token.Mode == "" {
		cfg.Session.Token.Mode = "opaque"
	}
	if cfg.Session.Cipher.Key != "" && cfg.Session.Cipher.Algorithm == "" {
		cfg.Session.Cipher.Algorithm = "aes-256-gcm"
	}
	if cfg.Dispatch.TimeoutSeconds <= 0 {
		cfg.Dispatch.TimeoutSeconds = defaultDispatchTimeout
	}
	if cfg.Web.StaticDir == "" {
		cfg.Web.StaticDir = "./web"
	}
}
