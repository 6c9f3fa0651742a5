package engine

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
)

type nopEngine struct{}

func (nopEngine) Migrate(ctx context.Context, spec json.RawMessage, cb Callbacks) error {
	return nil
}

func TestRegisterAndOpen(t *testing.T) {
	Register("test-nop", func() (Engine, error) {
		return nopEngine{}, nil
	})

	eng, err := Open("test-nop")
	if err != nil {
		t.Fatalf("Open returned error: %v", err)
	}
	if _, ok := eng.(nopEngine); !ok {
		t.Fatalf("expected nopEngine, got %T", eng)
	}

	names := Registered()
	found := false
	for _, name := range names {
		if name == "test-nop" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected test-nop in registered names, got %v", names)
	}
}

func TestOpenUnknownEngine(t *testing.T) {
	_, err := Open("no-such-engine")
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if !strings.Contains(err.Error(), "no-such-engine") {
		t.Errorf("error should name the missing engine: %v", err)
	}
}

func TestRegisterDuplicatePanics(t *testing.T) {
	Register("test-dup", func() (Engine, error) {
		return nopEngine{}, nil
	})

	defer func() {
		if recover() == nil {
			t.Error("expected panic on duplicate registration")
		}
	}()
	Register("test-dup", func() (Engine, error) {
		return nopEngine{}, nil
	})
}

func TestRegisterNilFactoryPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic on nil factory")
		}
	}()
	Register("test-nil", nil)
}
