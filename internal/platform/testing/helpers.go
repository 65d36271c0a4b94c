package testing

import (
	"testing"

	"lvlhub-server-go/internal/platform/config"
	"lvlhub-server-go/internal/platform/logging"
)

func SetupTestConfig(t *testing.T) *config.Config {
	t.Helper()

	cfg := &config.Config{
		Environment: "testing",
		Server: config.ServerConfig{
			IP:   "127.0.0.1",
			Port: 8080,
		},
		Log: config.LogConfig{
			Level: "DEBUG",
		},
		Session: config.SessionConfig{
			Store:          "memory",
			TTLSeconds:     60,
			GraceSeconds:   30,
			CleanupSeconds: 60,
			Token:          config.TokenConfig{Mode: "opaque"},
		},
		Identity: config.IdentityConfig{Store: "memory"},
		Dispatch: config.DispatchConfig{TimeoutSeconds: 5},
	}

	return cfg
}

func SetupTestLogger(t *testing.T) *logging.Logger {
	t.Helper()

	logger, err := logging.New(logging.Config{Level: "DEBUG"})
	if err != nil {
		t.Fatalf("failed to create test logger: %v", err)
	}
	return logger
}

func AssertNoError(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func AssertError(t *testing.T, err error) {
	t.Helper()
	if err == nil {
		t.Fatal("expected error but got nil")
	}
}

func AssertEqual(t *testing.T, expected, actual interface{}) {
	t.Helper()
	if expected != actual {
		t.Fatalf("expected %v, got %v", expected, actual)
	}
}
