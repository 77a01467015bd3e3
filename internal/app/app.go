// Package app wires the registry, vault, wallet, ledger, and dispatcher
// into a single Broker and is the only package that imports all of them;
// cmd/butterknife depends on this package, not on the components directly.
package app

import (
	"fmt"
	"os"

	"github.com/majorcontext/butterknife/internal/config"
	"github.com/majorcontext/butterknife/internal/dispatcher"
	"github.com/majorcontext/butterknife/internal/ledger"
	"github.com/majorcontext/butterknife/internal/log"
	"github.com/majorcontext/butterknife/internal/pipeline"
	"github.com/majorcontext/butterknife/internal/provider"
	"github.com/majorcontext/butterknife/internal/vault"
	"github.com/majorcontext/butterknife/internal/wallet"
)

// Broker owns the registry, vault, wallet, and ledger for one data
// directory and exposes the pipeline's Call as its single entry point,
// plus the administrative operations the tool surface needs (§6 "Inbound
// tool surface").
type Broker struct {
	Registry *provider.Registry
	Vault    *vault.Vault
	Wallet   *wallet.Wallet
	Ledger   *ledger.Ledger
	Pipeline *pipeline.Pipeline
}

// Open constructs a Broker from cfg, loading (or initialising) all three
// stores in cfg.DataDir and applying cfg.Budget if the wallet has never
// been given one.
func Open(cfg *config.BrokerConfig) (*Broker, error) {
	if err := os.MkdirAll(cfg.DataDir, 0700); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	registry := provider.NewRegistry()

	v, err := vault.Open(cfg.DataDir)
	if err != nil {
		return nil, err
	}
	w, err := wallet.Open(cfg.DataDir)
	if err != nil {
		return nil, err
	}
	if w.State().TotalBudget == 0 && cfg.Budget > 0 {
		if err := w.SetBudget(cfg.Budget); err != nil {
			return nil, err
		}
	}
	l, err := ledger.Open(cfg.DataDir)
	if err != nil {
		return nil, err
	}

	log.SetContextID(l.Summary().ContextID)

	p := pipeline.New(registry, v, w, l, dispatcher.New())

	return &Broker{Registry: registry, Vault: v, Wallet: w, Ledger: l, Pipeline: p}, nil
}
