package dispatch

import (
	"context"
	"errors"
	"testing"

	identitymodel "lvlhub-server-go/internal/domain/identity/model"
)

func echoHandler() Handler {
	return HandlerFunc(func(_ context.Context, _ identitymodel.Identity, params map[string]any) (any, error) {
		return params, nil
	})
}

func TestRegistryRegisterAndResolve(t *testing.T) {
	reg := NewRegistry()

	if err := reg.Register("echo", echoHandler()); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if _, err := reg.Resolve("echo"); err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if _, err := reg.Resolve("missing"); !errors.Is(err, ErrUnknownType) {
		t.Fatalf("expected ErrUnknownType, got %v", err)
	}
}

func TestRegistryRejectsDuplicates(t *testing.T) {
	reg := NewRegistry()

	if err := reg.Register("echo", echoHandler()); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if err := reg.Register("echo", echoHandler()); !errors.Is(err, ErrDuplicateType) {
		t.Fatalf("expected ErrDuplicateType, got %v", err)
	}

	// The original binding survives the rejected registration.
	if _, err := reg.Resolve("echo"); err != nil {
		t.Fatalf("Resolve after duplicate: %v", err)
	}
}

func TestRegistryRejectsInvalidBindings(t *testing.T) {
	reg := NewRegistry()

	if err := reg.Register("", echoHandler()); err == nil {
		t.Fatalf("expected error for empty type")
	}
	if err := reg.Register("echo", nil); err == nil {
		t.Fatalf("expected error for nil handler")
	}
}

func TestRegistryList(t *testing.T) {
	reg := NewRegistry()
	for _, name := range []string{"zeta", "alpha", "mid"} {
		if err := reg.Register(name, echoHandler()); err != nil {
			t.Fatalf("Register %s: %v", name, err)
		}
	}

	got := reg.List()
	want := []string{"alpha", "mid", "zeta"}
	if len(got) != len(want) {
		t.Fatalf("unexpected list: %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected sorted list %v, got %v", want, got)
		}
	}
}
