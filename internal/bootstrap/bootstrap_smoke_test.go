package bootstrap

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

const smokeConfigYAML = `default_environment: testing
environments:
  testing:
    server:
      ip: "127.0.0.1"
      port: 8090
    log:
      log_level: DEBUG
    identity:
      store: memory
    session:
      store: memory
      ttl_seconds: 60
      grace_seconds: 30
      cleanup_seconds: 60
      token:
        mode: opaque
    dispatch:
      timeout_seconds: 5
`

func writeSmokeConfig(t *testing.T) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(smokeConfigYAML), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("LVLHUB_CONFIG", path)
	t.Setenv("LVLHUB_ENV", "testing")
}

func TestInitGraphOrder(t *testing.T) {
	steps := InitGraph()
	want := []string{
		"config:load",
		"logging:init-provider",
		"storage:open-database",
		"events:init-bus",
		"app:init-platform",
	}
	if len(steps) != len(want) {
		t.Fatalf("unexpected step count: got %d want %d", len(steps), len(want))
	}

	completed := make(map[string]bool, len(steps))
	for i, step := range steps {
		if step.ID != want[i] {
			t.Fatalf("step %d: got %s want %s", i, step.ID, want[i])
		}
		for _, dep := range step.DependsOn {
			if !completed[dep] {
				t.Fatalf("step %s depends on %s which is not satisfied yet", step.ID, dep)
			}
		}
		completed[step.ID] = true
	}
}

func TestExecuteInitStepsSmoke(t *testing.T) {
	writeSmokeConfig(t)

	state := &appState{}
	if err := executeInitSteps(context.Background(), InitGraph(), state); err != nil {
		t.Fatalf("executeInitSteps: %v", err)
	}
	t.Cleanup(func() {
		if state.platform != nil {
			_ = state.platform.Close()
		}
		if state.bus != nil {
			state.bus.Shutdown()
		}
		if state.logger != nil {
			_ = state.logger.Close()
		}
	})

	if state.config == nil || state.config.Environment != "testing" {
		t.Fatalf("unexpected config state: %+v", state.config)
	}
	if state.platform == nil {
		t.Fatalf("platform not initialised")
	}
	if state.db != nil {
		t.Fatalf("memory stores must not open the database")
	}
}

func TestExecuteInitStepsRejectsUnsatisfiedDependency(t *testing.T) {
	steps := []initStep{
		{
			ID:        "late",
			DependsOn: []string{"missing"},
			Execute:   func(context.Context, *appState) error { return nil },
		},
	}
	if err := executeInitSteps(context.Background(), steps, &appState{}); err == nil {
		t.Fatalf("expected dependency error")
	}
}
