// Package toolsurface defines the parameter schemas for the six inbound
// tool operations (§6 "Inbound tool surface", §9 "Dynamic tool parameter
// shapes"). The tool-protocol front end itself is out of scope; this
// package is the boundary a front end converts its weakly-typed call into
// before handing it to the broker. Unknown fields on the wire are ignored
// (encoding/json already does this); Validate reports the fields that
// matter for each operation. Style grounded on the teacher's
// provider/util validators (ValidateTokenPrefix/ValidateTokenLength).
package toolsurface

import (
	"fmt"

	"github.com/majorcontext/butterknife/internal/provider"
	"github.com/majorcontext/butterknife/internal/provider/util"
)

// CallAPIParams is the call_api operation's parameters.
type CallAPIParams struct {
	ProviderID  string            `json:"provider_id"`
	Method      string            `json:"method"`
	Path        string            `json:"path"`
	Headers     map[string]string `json:"headers,omitempty"`
	QueryParams map[string]string `json:"query_params,omitempty"`
	Body        any               `json:"body,omitempty"`
}

func (p CallAPIParams) Validate() error {
	if p.ProviderID == "" {
		return fmt.Errorf("provider_id is required")
	}
	if p.Method == "" {
		return fmt.Errorf("method is required")
	}
	if p.Path == "" {
		return fmt.Errorf("path is required")
	}
	return nil
}

// StoreCredentialParams is the store_credential operation's parameters.
type StoreCredentialParams struct {
	ProviderID string `json:"provider_id"`
	Credential string `json:"credential"`
}

func (p StoreCredentialParams) Validate() error {
	if p.ProviderID == "" {
		return fmt.Errorf("provider_id is required")
	}
	if p.Credential == "" {
		return fmt.Errorf("credential is required")
	}
	return nil
}

// ListProvidersParams is the list_providers operation's parameters.
// It currently has no fields: list_providers takes no arguments and
// includes providers without a stored credential (§9 Open Question).
type ListProvidersParams struct{}

func (p ListProvidersParams) Validate() error {
	return nil
}

// WalletAction selects a wallet operation's behaviour.
type WalletAction string

const (
	WalletActionState      WalletAction = "state"
	WalletActionSetBudget  WalletAction = "set_budget"
	WalletActionResetSpend WalletAction = "reset_spend"
)

// WalletParams is the wallet operation's parameters.
type WalletParams struct {
	Action WalletAction `json:"action"`
	Budget int64        `json:"budget,omitempty"`
}

func (p WalletParams) Validate() error {
	switch p.Action {
	case WalletActionState, WalletActionResetSpend:
		return nil
	case WalletActionSetBudget:
		if p.Budget < 0 {
			return fmt.Errorf("budget must be non-negative")
		}
		return nil
	default:
		return fmt.Errorf("unknown wallet action %q", p.Action)
	}
}

// ReceiptsAction selects a receipts operation's behaviour.
type ReceiptsAction string

const (
	ReceiptsActionChain   ReceiptsAction = "chain"
	ReceiptsActionRecent  ReceiptsAction = "recent"
	ReceiptsActionVerify  ReceiptsAction = "verify"
	ReceiptsActionSummary ReceiptsAction = "summary"
)

// ReceiptsParams is the receipts operation's parameters.
type ReceiptsParams struct {
	Action ReceiptsAction `json:"action"`
	N      int            `json:"n,omitempty"` // only meaningful for action=recent
}

func (p ReceiptsParams) Validate() error {
	switch p.Action {
	case ReceiptsActionChain, ReceiptsActionVerify, ReceiptsActionSummary:
		return nil
	case ReceiptsActionRecent:
		if p.N <= 0 {
			return fmt.Errorf("n must be positive for action=recent")
		}
		return nil
	default:
		return fmt.Errorf("unknown receipts action %q", p.Action)
	}
}

// AddProviderParams is the add_provider operation's parameters, matching
// ProviderConfig field-for-field (§3).
type AddProviderParams struct {
	ID          string              `json:"id"`
	Name        string              `json:"name"`
	BaseURL     string              `json:"base_url"`
	AuthMethod  provider.AuthMethod `json:"auth_method"`
	AuthField   string              `json:"auth_field"`
	AuthPrefix  string              `json:"auth_prefix,omitempty"`
	CostPerUnit int64               `json:"cost_per_unit"`
	CostUnit    provider.CostUnit   `json:"cost_unit"`
}

func (p AddProviderParams) Validate() error {
	if err := util.ValidateProviderID(p.ID); err != nil {
		return err
	}
	if p.BaseURL == "" {
		return fmt.Errorf("base_url is required")
	}
	switch p.AuthMethod {
	case provider.AuthHeader, provider.AuthQuery, provider.AuthBody:
	default:
		return fmt.Errorf("auth_method must be one of header, query, body")
	}
	if p.AuthField == "" {
		return fmt.Errorf("auth_field is required")
	}
	switch p.CostUnit {
	case provider.CostPerRequest, provider.CostPer1kTokens, provider.CostPer1kChars:
	default:
		return fmt.Errorf("cost_unit must be one of per_request, per_1k_tokens, per_1k_chars")
	}
	if p.CostPerUnit < 0 {
		return fmt.Errorf("cost_per_unit must be non-negative")
	}
	return nil
}

// ToConfig converts validated params into the registry's provider.Config.
func (p AddProviderParams) ToConfig() provider.Config {
	return provider.Config{
		ID:          p.ID,
		Name:        p.Name,
		BaseURL:     p.BaseURL,
		AuthMethod:  p.AuthMethod,
		AuthField:   p.AuthField,
		AuthPrefix:  p.AuthPrefix,
		CostPerUnit: p.CostPerUnit,
		CostUnit:    p.CostUnit,
	}
}
