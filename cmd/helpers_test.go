package cmd

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/daoforge/daoforge/internal/checkpoint"
	"github.com/daoforge/daoforge/internal/config"
	"github.com/daoforge/daoforge/internal/engine"
	"github.com/daoforge/daoforge/internal/provider"
	"github.com/daoforge/daoforge/internal/session"
)

func TestResolveCheckpointURL(t *testing.T) {
	env := &config.ResolvedEnvironment{CheckpointURL: "checkpoints.db"}

	tests := []struct {
		name     string
		explicit string
		env      *config.ResolvedEnvironment
		want     string
	}{
		{"explicit flag wins", "postgres://db/ckpt", env, "postgres://db/ckpt"},
		{"environment value", "", env, "checkpoints.db"},
		{"default file", "", &config.ResolvedEnvironment{}, checkpoint.DefaultFile},
		{"nil environment", "", nil, checkpoint.DefaultFile},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := resolveCheckpointURL(tt.explicit, tt.env); got != tt.want {
				t.Errorf("resolveCheckpointURL(%q) = %q, want %q", tt.explicit, got, tt.want)
			}
		})
	}
}

func TestIsEmptyCheckpoint(t *testing.T) {
	tests := []struct {
		name string
		blob string
		want bool
	}{
		{"empty object", "{}", true},
		{"populated", `{"step":3}`, false},
		{"not an object", `[1,2]`, false},
		{"garbage", "not json", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isEmptyCheckpoint(json.RawMessage(tt.blob)); got != tt.want {
				t.Errorf("isEmptyCheckpoint(%q) = %v, want %v", tt.blob, got, tt.want)
			}
		})
	}
}

// approvalEngine asks one question and completes.
type approvalEngine struct {
	decision *bool
}

func (e *approvalEngine) Migrate(ctx context.Context, spec json.RawMessage, cb engine.Callbacks) error {
	ok, err := cb.RequestApproval(ctx, "Deploy 3 contracts?")
	if err != nil {
		cb.Aborted(err)
		return nil
	}
	*e.decision = ok
	cb.Complete(nil)
	return nil
}

func TestTerminalHostApprovalFromStdin(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{"yes", "yes\n", true},
		{"y", "y\n", true},
		{"uppercase", "YES\n", true},
		{"no", "no\n", false},
		{"anything else", "maybe\n", false},
		{"eof", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			host := &terminalHost{
				out:  &out,
				in:   bufio.NewReader(strings.NewReader(tt.input)),
				done: make(chan struct{}),
			}

			var decision bool
			sess, err := session.New(session.Config{
				Resolver:    &provider.Static{Provider: provider.Provider{RPCURL: "http://localhost:8545"}},
				Engine:      &approvalEngine{decision: &decision},
				Checkpoints: checkpoint.NewFileStore(filepath.Join(t.TempDir(), "ckpt.json")),
				Host:        host,
				LogSink:     host.Render,
			})
			if err != nil {
				t.Fatalf("session.New returned error: %v", err)
			}

			if err := sess.Start(context.Background(), json.RawMessage(`{}`)); err != nil {
				t.Fatalf("Start returned error: %v", err)
			}

			select {
			case <-host.done:
			case <-time.After(5 * time.Second):
				t.Fatal("timed out waiting for migration to finish")
			}

			if decision != tt.want {
				t.Errorf("expected decision %v, got %v", tt.want, decision)
			}
			if !strings.Contains(out.String(), "Deploy 3 contracts?") {
				t.Errorf("prompt not rendered:\n%s", out.String())
			}
		})
	}
}

func TestTerminalHostAutoApprove(t *testing.T) {
	var out bytes.Buffer
	host := &terminalHost{
		out:         &out,
		in:          bufio.NewReader(strings.NewReader("")),
		autoApprove: true,
		done:        make(chan struct{}),
	}

	var decision bool
	sess, err := session.New(session.Config{
		Resolver:    &provider.Static{Provider: provider.Provider{RPCURL: "http://localhost:8545"}},
		Engine:      &approvalEngine{decision: &decision},
		Checkpoints: checkpoint.NewFileStore(filepath.Join(t.TempDir(), "ckpt.json")),
		Host:        host,
		LogSink:     host.Render,
	})
	if err != nil {
		t.Fatalf("session.New returned error: %v", err)
	}

	if err := sess.Start(context.Background(), json.RawMessage(`{}`)); err != nil {
		t.Fatalf("Start returned error: %v", err)
	}

	select {
	case <-host.done:
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for migration to finish")
	}

	if !decision {
		t.Error("expected auto-approval")
	}
	// No prompt is written in auto-approve mode
	if strings.Contains(out.String(), "Proceed?") {
		t.Errorf("unexpected prompt:\n%s", out.String())
	}
}
