package session

import (
	"context"
	"fmt"
	"sync"
)

// LogKind tags the variant of a log line.
type LogKind string

const (
	LogUserApproval      LogKind = "user_approval"
	LogInfo              LogKind = "info"
	LogError             LogKind = "error"
	LogTransactionResult LogKind = "transaction_result"
	LogMigrationAborted  LogKind = "migration_aborted"
)

// TxState is the lifecycle of a single on-chain transaction within a
// migration. The session records the state the engine reports; it does not
// drive transitions itself. Lost means the transaction went unconfirmed for
// too long.
type TxState string

const (
	TxBroadcasting TxState = "broadcasting"
	TxWaiting      TxState = "waiting"
	TxConfirmed    TxState = "confirmed"
	TxFailed       TxState = "failed"
	TxLost         TxState = "lost"
)

// LogLine is one entry in a session's append-only migration log. Entries are
// immutable once appended; the sole exception is an ApprovalRequest's
// resolution state, which exists to carry the user's decision back to the
// engine.
type LogLine interface {
	Kind() LogKind
	String() string
}

// InfoLine is a progress message from the engine.
type InfoLine struct {
	Text string
}

func (l InfoLine) Kind() LogKind  { return LogInfo }
func (l InfoLine) String() string { return l.Text }

// ErrorLine is a non-fatal error reported by the engine.
type ErrorLine struct {
	Text string
}

func (l ErrorLine) Kind() LogKind  { return LogError }
func (l ErrorLine) String() string { return l.Text }

// TransactionResult records one completed on-chain transaction.
type TransactionResult struct {
	Text   string
	TxHash string
	Cost   float64
	State  TxState
}

func (l TransactionResult) Kind() LogKind { return LogTransactionResult }
func (l TransactionResult) String() string {
	return fmt.Sprintf("%s (tx %s, cost %g)", l.Text, l.TxHash, l.Cost)
}

// AbortedLine records the fatal error that ended a migration.
type AbortedLine struct {
	Err error
}

func (l AbortedLine) Kind() LogKind  { return LogMigrationAborted }
func (l AbortedLine) String() string { return l.Err.Error() }

// ErrAlreadyResolved is returned when an approval request is resolved twice.
// Double resolution is a programming error in the host, not a condition to
// swallow.
var ErrAlreadyResolved = fmt.Errorf("approval request already resolved")

// ApprovalRequest is a log line holding a pending user decision. The engine
// blocks in Wait until the host calls Resolve exactly once.
type ApprovalRequest struct {
	Text string

	mu       sync.Mutex
	resolved bool
	decision chan bool
}

func newApprovalRequest(message string) *ApprovalRequest {
	return &ApprovalRequest{
		Text:     message,
		decision: make(chan bool, 1),
	}
}

func (r *ApprovalRequest) Kind() LogKind  { return LogUserApproval }
func (r *ApprovalRequest) String() string { return r.Text }

// Resolved reports whether a decision has been recorded.
func (r *ApprovalRequest) Resolved() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.resolved
}

// Resolve records the user's decision. A second call returns
// ErrAlreadyResolved.
func (r *ApprovalRequest) Resolve(approved bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.resolved {
		return ErrAlreadyResolved
	}
	r.resolved = true
	r.decision <- approved
	return nil
}

// Wait blocks until the request is resolved or ctx is cancelled.
func (r *ApprovalRequest) Wait(ctx context.Context) (bool, error) {
	select {
	case approved := <-r.decision:
		return approved, nil
	case <-ctx.Done():
		return false, ctx.Err()
	}
}
