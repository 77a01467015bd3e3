// Package wallet tracks total budget and cumulative spend (§4.3). It is
// the pre-call gate and post-call recorder for every provider's cost.
package wallet

import (
	"path/filepath"
	"sync"
	"time"

	"github.com/majorcontext/butterknife/internal/broker"
	"github.com/majorcontext/butterknife/internal/storage"
)

const fileName = "wallet.json"

// State is the safe-to-show snapshot returned by State() (§3 WalletState).
type State struct {
	TotalBudget int64            `json:"totalBudget"`
	Spent       int64            `json:"spent"`
	ByProvider  map[string]int64 `json:"byProvider"`
	CreatedAt   string           `json:"createdAt"`
}

// CheckResult is the outcome of a pre-call budget check.
type CheckResult struct {
	Allowed        bool
	EstimatedCost  int64
	RemainingAfter int64
	Reason         string
}

// Wallet holds a single WalletState and persists every mutation
// synchronously.
type Wallet struct {
	mu    sync.Mutex
	path  string
	state State
}

// Open loads dataDir/wallet.json. A missing or corrupt file starts a fresh
// wallet with zero budget and CreatedAt set to now (§3 "Lifecycle").
func Open(dataDir string) (*Wallet, error) {
	w := &Wallet{path: filepath.Join(dataDir, fileName)}
	found, _, err := storage.Load(w.path, &w.state)
	if err != nil {
		return nil, broker.NewPersistenceError("wallet", err)
	}
	if w.state.ByProvider == nil {
		w.state.ByProvider = make(map[string]int64)
	}
	if !found {
		w.state.CreatedAt = time.Now().UTC().Format(time.RFC3339)
	}
	return w, nil
}

// State returns a copy of the current wallet snapshot.
func (w *Wallet) State() State {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.snapshotLocked()
}

func (w *Wallet) snapshotLocked() State {
	byProvider := make(map[string]int64, len(w.state.ByProvider))
	for k, v := range w.state.ByProvider {
		byProvider[k] = v
	}
	return State{
		TotalBudget: w.state.TotalBudget,
		Spent:       w.state.Spent,
		ByProvider:  byProvider,
		CreatedAt:   w.state.CreatedAt,
	}
}

func (w *Wallet) remainingLocked() int64 {
	remaining := w.state.TotalBudget - w.state.Spent
	if remaining < 0 {
		return 0
	}
	return remaining
}

// CheckBudget reports whether estimatedCost fits within the remaining
// budget. It does not mutate state — only RecordSpend does.
//
// A negative estimatedCost is rejected outright (§4.3: "no negative
// inputs are accepted") rather than treated as a refund; it comes back
// as a disallowed result carrying a CONFIG_ERROR reason so callers that
// only check Allowed still fail closed.
func (w *Wallet) CheckBudget(providerID string, estimatedCost int64) CheckResult {
	w.mu.Lock()
	defer w.mu.Unlock()

	if estimatedCost < 0 {
		return CheckResult{
			Allowed:       false,
			EstimatedCost: estimatedCost,
			Reason:        broker.NewConfigError("estimated cost must not be negative, got %d", estimatedCost).Error(),
		}
	}

	remaining := w.remainingLocked()
	if estimatedCost <= remaining {
		return CheckResult{Allowed: true, EstimatedCost: estimatedCost, RemainingAfter: remaining - estimatedCost}
	}
	return CheckResult{
		Allowed:        false,
		EstimatedCost:  estimatedCost,
		RemainingAfter: remaining,
		Reason:         broker.NewBudgetExceededError(providerID, estimatedCost, remaining).Error(),
	}
}

// RecordSpend atomically adds actualCost to Spent and ByProvider[providerID],
// persists, and returns the new remaining budget.
//
// actualCost must be non-negative, and the running totals must not
// overflow int64 (§4.3). Butterknife fails rather than saturates on
// either violation: a receipt chain's cost figures feed a budget
// that gates real spend, so silently clamping a total would understate
// what was actually spent instead of surfacing the bad input.
func (w *Wallet) RecordSpend(providerID string, actualCost int64) (int64, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if actualCost < 0 {
		return 0, broker.NewConfigError("actual cost must not be negative, got %d", actualCost)
	}
	newSpent, ok := addOverflows(w.state.Spent, actualCost)
	if !ok {
		return 0, broker.NewConfigError("recording spend for %s would overflow total spent (%d + %d)", providerID, w.state.Spent, actualCost)
	}
	newByProvider, ok := addOverflows(w.state.ByProvider[providerID], actualCost)
	if !ok {
		return 0, broker.NewConfigError("recording spend for %s would overflow provider total (%d + %d)", providerID, w.state.ByProvider[providerID], actualCost)
	}

	w.state.Spent = newSpent
	w.state.ByProvider[providerID] = newByProvider
	if err := w.persistLocked(); err != nil {
		return 0, err
	}
	return w.remainingLocked(), nil
}

// SetBudget replaces the total budget. Administrative operation; rejects
// a negative budget per §4.3.
func (w *Wallet) SetBudget(microdollars int64) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if microdollars < 0 {
		return broker.NewConfigError("budget must not be negative, got %d", microdollars)
	}
	w.state.TotalBudget = microdollars
	return w.persistLocked()
}

// addOverflows adds b to a, reporting false if the signed sum wraps
// around int64 instead of overflowing silently.
func addOverflows(a, b int64) (int64, bool) {
	sum := a + b
	if (b > 0 && sum < a) || (b < 0 && sum > a) {
		return 0, false
	}
	return sum, true
}

// ResetSpend zeroes Spent and every ByProvider entry. Administrative
// operation; does not change TotalBudget.
func (w *Wallet) ResetSpend() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.state.Spent = 0
	w.state.ByProvider = make(map[string]int64)
	return w.persistLocked()
}

func (w *Wallet) persistLocked() error {
	if err := storage.Save(w.path, w.state); err != nil {
		return broker.NewPersistenceError("wallet", err)
	}
	return nil
}
