// Package engine defines the contract between daoforge and an external DAO
// migration engine. The engine owns all chain interaction: it deploys and
// configures the organization's contracts from an opaque deployment
// specification and reports progress through the Callbacks bundle. daoforge
// never inspects transactions itself.
package engine

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"
)

// Callbacks is the bundle a migration session hands to the engine. The engine
// may invoke these from any goroutine and in any order it chooses; the
// session guarantees they are safe to call concurrently and never block the
// engine beyond their documented semantics.
type Callbacks interface {
	// RequestApproval asks the user to confirm a step. It blocks until the
	// host records a yes/no decision or ctx is cancelled.
	RequestApproval(ctx context.Context, message string) (bool, error)

	// Info reports a progress message.
	Info(message string)

	// Error reports a non-fatal error. The migration continues; only
	// Aborted ends it.
	Error(message string)

	// TransactionComplete reports one confirmed on-chain transaction and
	// its cost. It returns as soon as bookkeeping is done.
	TransactionComplete(message, txHash string, cost float64)

	// Aborted reports a fatal failure. Terminal: the engine must not invoke
	// further callbacks after it.
	Aborted(err error)

	// Complete reports successful deployment with the engine's result
	// document (addresses of the deployed contracts, etc.). Terminal.
	Complete(result json.RawMessage)

	// GetCheckpoint returns the last persisted checkpoint, or an empty JSON
	// object if none exists. The engine uses it to resume an interrupted
	// deployment.
	GetCheckpoint() (json.RawMessage, error)

	// SetCheckpoint persists the engine's progress blob, replacing any
	// prior value.
	SetCheckpoint(blob json.RawMessage) error

	// ClearCheckpoint deletes the persisted checkpoint. The engine calls it
	// once deployment fully succeeds.
	ClearCheckpoint() error
}

// Engine performs a DAO migration. The spec document is opaque to the
// caller; its schema is an agreement between the spec author and the engine.
// A non-nil return without a prior Aborted callback is treated by the
// session as an abort.
type Engine interface {
	Migrate(ctx context.Context, spec json.RawMessage, cb Callbacks) error
}

var (
	registryMu sync.RWMutex
	registry   = make(map[string]func() (Engine, error))
)

// Register makes an engine constructor available under a name. Engine
// implementations call it from an init function, mirroring database/sql
// driver registration; the CLI selects one with --engine.
func Register(name string, factory func() (Engine, error)) {
	registryMu.Lock()
	defer registryMu.Unlock()
	if factory == nil {
		panic("engine: Register factory is nil")
	}
	if _, dup := registry[name]; dup {
		panic("engine: Register called twice for " + name)
	}
	registry[name] = factory
}

// Open instantiates a registered engine by name.
func Open(name string) (Engine, error) {
	registryMu.RLock()
	factory, ok := registry[name]
	registryMu.RUnlock()
	if !ok {
		known := Registered()
		if len(known) == 0 {
			return nil, fmt.Errorf("unknown migration engine %q (no engines registered in this build)", name)
		}
		return nil, fmt.Errorf("unknown migration engine %q (registered: %v)", name, known)
	}
	return factory()
}

// Registered returns the names of all registered engines, sorted.
func Registered() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
