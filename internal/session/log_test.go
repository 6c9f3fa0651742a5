package session

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"
)

func TestApprovalRequestSingleResolution(t *testing.T) {
	req := newApprovalRequest("Deploy avatar?")

	if req.Resolved() {
		t.Error("new request should not be resolved")
	}
	if err := req.Resolve(true); err != nil {
		t.Fatalf("first Resolve returned error: %v", err)
	}
	if !req.Resolved() {
		t.Error("request should be resolved after Resolve")
	}

	if err := req.Resolve(false); !errors.Is(err, ErrAlreadyResolved) {
		t.Fatalf("second Resolve: expected ErrAlreadyResolved, got %v", err)
	}

	approved, err := req.Wait(context.Background())
	if err != nil {
		t.Fatalf("Wait returned error: %v", err)
	}
	if !approved {
		t.Error("expected the first decision to win")
	}
}

func TestApprovalRequestWaitCancellation(t *testing.T) {
	req := newApprovalRequest("Proceed?")

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := req.Wait(ctx)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
}

func TestApprovalRequestResolveBeforeWait(t *testing.T) {
	req := newApprovalRequest("Proceed?")

	// Resolve must not block even when nobody is waiting yet
	if err := req.Resolve(false); err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}

	approved, err := req.Wait(context.Background())
	if err != nil {
		t.Fatalf("Wait returned error: %v", err)
	}
	if approved {
		t.Error("expected denial")
	}
}

func TestLogLineKinds(t *testing.T) {
	tests := []struct {
		name string
		line LogLine
		kind LogKind
		text string
	}{
		{"info", InfoLine{Text: "deploying token"}, LogInfo, "deploying token"},
		{"error", ErrorLine{Text: "gas spike"}, LogError, "gas spike"},
		{"aborted", AbortedLine{Err: fmt.Errorf("out of gas")}, LogMigrationAborted, "out of gas"},
		{"approval", newApprovalRequest("ok?"), LogUserApproval, "ok?"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.line.Kind() != tt.kind {
				t.Errorf("expected kind %q, got %q", tt.kind, tt.line.Kind())
			}
			if tt.line.String() != tt.text {
				t.Errorf("expected %q, got %q", tt.text, tt.line.String())
			}
		})
	}
}

func TestTransactionResultString(t *testing.T) {
	line := TransactionResult{Text: "token deployed", TxHash: "0xabc", Cost: 0.02, State: TxConfirmed}
	if line.Kind() != LogTransactionResult {
		t.Errorf("unexpected kind %q", line.Kind())
	}
	want := "token deployed (tx 0xabc, cost 0.02)"
	if line.String() != want {
		t.Errorf("expected %q, got %q", want, line.String())
	}
}
