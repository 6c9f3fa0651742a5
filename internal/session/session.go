// Package session owns the deployment phase of a DAO setup: it issues a
// migration request to an external engine, tracks the session through a
// small set of phases, accumulates a log of migration events, tallies
// cumulative transaction cost, and checkpoints progress durably so an
// interrupted deployment can resume.
//
// The session is a single-writer aggregate. Engine callbacks may arrive from
// any goroutine; all mutation is serialized internally and callers only ever
// see copied snapshots.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/daoforge/daoforge/internal/checkpoint"
	"github.com/daoforge/daoforge/internal/engine"
	"github.com/daoforge/daoforge/internal/provider"
)

// Phase is the coarse lifecycle stage of a migration session.
type Phase string

const (
	PhaseWaiting   Phase = "waiting"
	PhaseMigrating Phase = "migrating"
	PhaseCompleted Phase = "completed"
	PhaseFailed    Phase = "failed"
)

var (
	// ErrNotWaiting is returned by Start when a migration is already in
	// flight or finished. Start is a guarded no-op in that case.
	ErrNotWaiting = errors.New("migration session is not in the waiting phase")

	// ErrMigrationInFlight is returned by Reset while a migration is
	// running.
	ErrMigrationInFlight = errors.New("migration is in flight")
)

// Host receives session lifecycle notifications. The host owns rendering and
// navigation; the session only reports.
type Host interface {
	OnStart()
	OnComplete(result json.RawMessage)
	OnAbort(err error)
	OnStop()
}

// Guard is installed for the duration of a migration to warn the user
// against quitting mid-deployment, and removed at any terminal callback. The
// browser original was a beforeunload prompt; the CLI traps SIGINT.
type Guard interface {
	Install()
	Remove()
}

// Config wires a session to its collaborators. Resolver, Engine, Checkpoints
// and Host are required; Guard and LogSink are optional.
type Config struct {
	Resolver    provider.Resolver
	Engine      engine.Engine
	Checkpoints checkpoint.Store
	Host        Host
	Guard       Guard

	// LogSink observes each appended log line. It stands in for the
	// original's observable log array; hosts use it to render progress and
	// to notice pending approval requests.
	LogSink func(LogLine)
}

// Session is the aggregate root for one migration. Zero or one migration is
// in flight at a time; Start outside the waiting phase is a no-op.
type Session struct {
	cfg Config

	mu             sync.Mutex
	phase          Phase
	starting       bool
	logLines       []LogLine
	minimal        []LogLine // declared projection, never populated
	cumulativeCost float64
	result         json.RawMessage
	noProvider     bool
}

// Snapshot is a read-only copy of session state.
type Snapshot struct {
	Phase               Phase
	Log                 []LogLine
	MinimalLog          []LogLine
	CumulativeCost      float64
	Result              json.RawMessage
	ProviderUnavailable bool
}

// New creates a session in the waiting phase.
func New(cfg Config) (*Session, error) {
	if cfg.Resolver == nil {
		return nil, fmt.Errorf("session: Resolver is required")
	}
	if cfg.Engine == nil {
		return nil, fmt.Errorf("session: Engine is required")
	}
	if cfg.Checkpoints == nil {
		return nil, fmt.Errorf("session: Checkpoints store is required")
	}
	if cfg.Host == nil {
		return nil, fmt.Errorf("session: Host is required")
	}
	return &Session{cfg: cfg, phase: PhaseWaiting}, nil
}

// Start begins a migration with the given deployment spec. The spec is
// passed through to the engine unmodified.
//
// If no provider can be resolved, the provider-unavailable flag is set, the
// phase stays waiting, and the wrapped provider.ErrNoProvider is returned;
// the user can connect a provider and retry. On success the log is reset,
// the host is notified, the guard is installed, and the engine is dispatched
// asynchronously; all further progress arrives through the callback bundle.
func (s *Session) Start(ctx context.Context, spec json.RawMessage) error {
	s.mu.Lock()
	if s.phase != PhaseWaiting || s.starting {
		s.mu.Unlock()
		return ErrNotWaiting
	}
	s.starting = true
	s.mu.Unlock()

	prov, err := s.cfg.Resolver.Resolve(ctx)
	if err != nil || prov == nil {
		s.mu.Lock()
		s.noProvider = true
		s.starting = false
		s.mu.Unlock()
		// Every resolution failure collapses to "no provider"; the session
		// does not distinguish causes.
		if err == nil {
			return provider.ErrNoProvider
		}
		if errors.Is(err, provider.ErrNoProvider) {
			return err
		}
		return fmt.Errorf("%v: %w", err, provider.ErrNoProvider)
	}

	s.mu.Lock()
	s.logLines = nil
	s.minimal = nil
	s.cumulativeCost = 0
	s.result = nil
	s.noProvider = false
	s.phase = PhaseMigrating
	s.starting = false
	s.mu.Unlock()

	s.cfg.Host.OnStart()
	if s.cfg.Guard != nil {
		s.cfg.Guard.Install()
	}

	go s.run(ctx, spec)
	return nil
}

func (s *Session) run(ctx context.Context, spec json.RawMessage) {
	cb := &bundle{s: s}
	err := s.cfg.Engine.Migrate(ctx, spec, cb)
	if err != nil {
		// An engine that errors out without reporting the abort itself
		// still ends the session; Aborted is a no-op if it already did.
		cb.Aborted(err)
	}
}

// Reset returns a finished (or never-started) session to the waiting phase,
// clearing the log and the provider-unavailable flag. It does not clear the
// durable checkpoint; only the engine decides when resume data is obsolete.
func (s *Session) Reset() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.phase == PhaseMigrating || s.starting {
		return ErrMigrationInFlight
	}
	s.phase = PhaseWaiting
	s.logLines = nil
	s.minimal = nil
	s.cumulativeCost = 0
	s.result = nil
	s.noProvider = false
	return nil
}

// Snapshot returns a copy of the current state.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := Snapshot{
		Phase:               s.phase,
		CumulativeCost:      s.cumulativeCost,
		ProviderUnavailable: s.noProvider,
	}
	if len(s.logLines) > 0 {
		snap.Log = append([]LogLine(nil), s.logLines...)
	}
	if len(s.minimal) > 0 {
		snap.MinimalLog = append([]LogLine(nil), s.minimal...)
	}
	if s.result != nil {
		snap.Result = append(json.RawMessage(nil), s.result...)
	}
	return snap
}

// Phase returns the current phase.
func (s *Session) Phase() Phase {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.phase
}

// Callbacks returns the bundle to hand to an engine. Start wires it up
// itself; this accessor exists for engines driven outside Start (tests,
// embedding).
func (s *Session) Callbacks() engine.Callbacks {
	return &bundle{s: s}
}

// bundle implements engine.Callbacks against the session.
type bundle struct {
	s *Session
}

// append adds a line while migrating. Post-terminal callbacks are dropped:
// the engine contract says none arrive after Aborted/Complete, and a late
// straggler must not disturb a finished log.
func (b *bundle) append(line LogLine) bool {
	s := b.s
	s.mu.Lock()
	if s.phase != PhaseMigrating {
		s.mu.Unlock()
		return false
	}
	s.logLines = append(s.logLines, line)
	s.mu.Unlock()
	if s.cfg.LogSink != nil {
		s.cfg.LogSink(line)
	}
	return true
}

func (b *bundle) RequestApproval(ctx context.Context, message string) (bool, error) {
	req := newApprovalRequest(message)
	if !b.append(req) {
		return false, fmt.Errorf("approval requested outside an active migration")
	}
	return req.Wait(ctx)
}

func (b *bundle) Info(message string) {
	b.append(InfoLine{Text: message})
}

func (b *bundle) Error(message string) {
	b.append(ErrorLine{Text: message})
}

func (b *bundle) TransactionComplete(message, txHash string, cost float64) {
	s := b.s
	line := TransactionResult{Text: message, TxHash: txHash, Cost: cost, State: TxConfirmed}
	s.mu.Lock()
	if s.phase != PhaseMigrating {
		s.mu.Unlock()
		return
	}
	s.cumulativeCost += cost
	s.logLines = append(s.logLines, line)
	s.mu.Unlock()
	if s.cfg.LogSink != nil {
		s.cfg.LogSink(line)
	}
}

func (b *bundle) Aborted(err error) {
	s := b.s
	line := AbortedLine{Err: err}
	s.mu.Lock()
	if s.phase != PhaseMigrating {
		s.mu.Unlock()
		return
	}
	s.logLines = append(s.logLines, line)
	s.phase = PhaseFailed
	s.mu.Unlock()
	if s.cfg.LogSink != nil {
		s.cfg.LogSink(line)
	}
	if s.cfg.Guard != nil {
		s.cfg.Guard.Remove()
	}
	s.cfg.Host.OnAbort(err)
	s.cfg.Host.OnStop()
}

func (b *bundle) Complete(result json.RawMessage) {
	s := b.s
	s.mu.Lock()
	if s.phase != PhaseMigrating {
		s.mu.Unlock()
		return
	}
	if result != nil {
		s.result = append(json.RawMessage(nil), result...)
	}
	s.phase = PhaseCompleted
	s.mu.Unlock()
	if s.cfg.Guard != nil {
		s.cfg.Guard.Remove()
	}
	s.cfg.Host.OnComplete(result)
	s.cfg.Host.OnStop()
}

func (b *bundle) GetCheckpoint() (json.RawMessage, error) {
	return b.s.cfg.Checkpoints.Get()
}

func (b *bundle) SetCheckpoint(blob json.RawMessage) error {
	return b.s.cfg.Checkpoints.Set(blob)
}

func (b *bundle) ClearCheckpoint() error {
	return b.s.cfg.Checkpoints.Clear()
}
