// Package simulator provides a built-in migration engine that walks a
// deployment spec and emits deterministic fake transactions. It exists so
// the deploy flow can be exercised end to end without a chain: session
// phases, approval prompts, cost accounting, and checkpoint resume all
// behave exactly as they would against a real engine.
package simulator

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/daoforge/daoforge/internal/engine"
)

// Name is the registry name of the simulated engine.
const Name = "simulated"

func init() {
	engine.Register(Name, func() (engine.Engine, error) {
		return New(), nil
	})
}

// defaultStepCost is the fake per-transaction cost.
const defaultStepCost = 0.01

// Simulator deploys nothing. Each migration step produces one fake
// transaction with a hash derived from the organization name, so repeated
// runs of the same spec are byte-for-byte reproducible.
type Simulator struct {
	// StepCost overrides the per-transaction cost. Zero means the default.
	StepCost float64
}

func New() *Simulator {
	return &Simulator{}
}

// simSpec is the simulator's view of the deployment document. Unknown
// fields are ignored; the spec schema belongs to the spec author.
type simSpec struct {
	OrgName string `json:"orgName"`
	Token   struct {
		Name   string `json:"name"`
		Symbol string `json:"symbol"`
	} `json:"token"`
	Members []struct {
		Address string `json:"address"`
	} `json:"members"`
	Schemes []struct {
		Kind string `json:"kind"`
	} `json:"schemes"`
}

// simCheckpoint is the resume blob: the number of completed steps.
type simCheckpoint struct {
	OrgName   string `json:"orgName"`
	Completed int    `json:"completed"`
}

func (s *Simulator) Migrate(ctx context.Context, rawSpec json.RawMessage, cb engine.Callbacks) error {
	var doc simSpec
	if err := json.Unmarshal(rawSpec, &doc); err != nil {
		cb.Aborted(fmt.Errorf("unreadable deployment spec: %w", err))
		return nil
	}

	steps := planSteps(doc)
	cost := s.StepCost
	if cost == 0 {
		cost = defaultStepCost
	}

	completed := 0
	blob, err := cb.GetCheckpoint()
	if err != nil {
		cb.Aborted(fmt.Errorf("failed to read checkpoint: %w", err))
		return nil
	}
	var saved simCheckpoint
	if err := json.Unmarshal(blob, &saved); err == nil && saved.OrgName == doc.OrgName {
		completed = saved.Completed
	}
	if completed > len(steps) {
		completed = len(steps)
	}

	if completed > 0 {
		cb.Info(fmt.Sprintf("Resuming deployment of %s: %d of %d steps already done", doc.OrgName, completed, len(steps)))
	} else {
		remaining := len(steps) - completed
		ok, err := cb.RequestApproval(ctx, fmt.Sprintf(
			"Deploy %s: %d transactions at an estimated total cost of %g?",
			doc.OrgName, remaining, float64(remaining)*cost))
		if err != nil {
			cb.Aborted(fmt.Errorf("approval failed: %w", err))
			return nil
		}
		if !ok {
			cb.Aborted(fmt.Errorf("deployment declined by user"))
			return nil
		}
	}

	for i := completed; i < len(steps); i++ {
		if ctx.Err() != nil {
			cb.Aborted(ctx.Err())
			return nil
		}

		step := steps[i]
		cb.Info(step.describe)
		cb.TransactionComplete(step.done, txHash(doc.OrgName, step.name), cost)

		if err := cb.SetCheckpoint(mustMarshal(simCheckpoint{OrgName: doc.OrgName, Completed: i + 1})); err != nil {
			cb.Aborted(fmt.Errorf("failed to persist checkpoint: %w", err))
			return nil
		}
	}

	if err := cb.ClearCheckpoint(); err != nil {
		cb.Error(fmt.Sprintf("deployment finished but checkpoint cleanup failed: %v", err))
	}

	cb.Complete(mustMarshal(result(doc)))
	return nil
}

type step struct {
	name     string
	describe string
	done     string
}

// planSteps lays out the fixed deployment order: core contracts first, then
// one registration per scheme, then the founder allocations.
func planSteps(doc simSpec) []step {
	steps := []step{
		{"token", fmt.Sprintf("Deploying token %s (%s)", doc.Token.Name, doc.Token.Symbol), "Token deployed"},
		{"reputation", "Deploying reputation ledger", "Reputation ledger deployed"},
		{"avatar", fmt.Sprintf("Deploying avatar for %s", doc.OrgName), "Avatar deployed"},
		{"controller", "Deploying controller", "Controller deployed"},
	}
	for _, sch := range doc.Schemes {
		steps = append(steps, step{
			"scheme:" + sch.Kind,
			fmt.Sprintf("Registering scheme %s", sch.Kind),
			fmt.Sprintf("Scheme %s registered", sch.Kind),
		})
	}
	for _, m := range doc.Members {
		steps = append(steps, step{
			"founder:" + m.Address,
			fmt.Sprintf("Allocating tokens and reputation to %s", m.Address),
			fmt.Sprintf("Founder %s funded", m.Address),
		})
	}
	return steps
}

func result(doc simSpec) map[string]string {
	return map[string]string{
		"orgName":    doc.OrgName,
		"Avatar":     address(doc.OrgName, "avatar"),
		"DAOToken":   address(doc.OrgName, "token"),
		"Reputation": address(doc.OrgName, "reputation"),
		"Controller": address(doc.OrgName, "controller"),
	}
}

// txHash derives a stable fake transaction hash from the organization and
// step names.
func txHash(orgName, stepName string) string {
	sum := sha256.Sum256([]byte(orgName + "/" + stepName))
	return "0x" + hex.EncodeToString(sum[:])
}

// address derives a stable fake contract address the same way.
func address(orgName, contract string) string {
	sum := sha256.Sum256([]byte(orgName + "@" + contract))
	return "0x" + hex.EncodeToString(sum[:20])
}

func mustMarshal(v any) json.RawMessage {
	data, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return data
}
