// Package pipeline implements the Call Pipeline (§4.5): the single
// orchestration path from an ApiCallRequest through the registry, vault,
// wallet, dispatcher, and ledger. It is the core of the broker; every
// other component exists to be called from here in the order §4.5 fixes.
package pipeline

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/majorcontext/butterknife/internal/broker"
	"github.com/majorcontext/butterknife/internal/dispatcher"
	"github.com/majorcontext/butterknife/internal/id"
	"github.com/majorcontext/butterknife/internal/ledger"
	"github.com/majorcontext/butterknife/internal/log"
	"github.com/majorcontext/butterknife/internal/provider"
	"github.com/majorcontext/butterknife/internal/wallet"
)

// State names the pipeline's progress through a single call (§4.5 "State
// machine per call"). It exists for logging/diagnostics; Call itself
// reports success or a typed *broker.Error, not a State.
type State string

const (
	StateInit           State = "INIT"
	StateProviderOK     State = "PROVIDER_OK"
	StateBudgetOK       State = "BUDGET_OK"
	StateRequestSent    State = "REQUEST_SENT"
	StateResponseParsed State = "RESPONSE_PARSED"
	StateSpendRecorded  State = "SPEND_RECORDED"
	StateReceiptMinted  State = "RECEIPT_MINTED"
	StateDone           State = "DONE"
)

// Request is the pipeline's public input (ApiCallRequest in §4.5).
type Request struct {
	ProviderID  string
	Method      string
	Path        string
	Headers     map[string]string
	QueryParams map[string]string
	Body        any // nil, or a JSON-serializable value; object required for body auth
}

// Response is the pipeline's public output (ApiCallResponse in §4.5).
// Never carries credential-bearing data (§8 invariant).
type Response struct {
	Status          int
	Data            any
	Receipt         ledger.Receipt
	Cost            int64
	RemainingBudget int64
}

// Vault is the subset of *vault.Vault the pipeline needs; narrowed to an
// interface so tests can substitute a fake without constructing a real
// on-disk store.
type Vault interface {
	Has(providerID string) bool
	InjectAuth(providerID string, cfg provider.Config, headers, queryParams map[string]string) *broker.Error
	CredentialForBodyInjection(providerID string) (string, *broker.Error)
}

// Registry is the subset of *provider.Registry the pipeline needs.
type Registry interface {
	Get(id string) (provider.Config, bool)
	EstimateCost(id string, requestBody any) int64
}

// Pipeline wires the registry, vault, wallet, ledger, and dispatcher
// together behind the single Call entry point.
type Pipeline struct {
	Registry   Registry
	Vault      Vault
	Wallet     *wallet.Wallet
	Ledger     *ledger.Ledger
	Dispatcher dispatcher.Dispatcher
}

// New returns a Pipeline with the given collaborators.
func New(registry Registry, v Vault, w *wallet.Wallet, l *ledger.Ledger, d dispatcher.Dispatcher) *Pipeline {
	return &Pipeline{Registry: registry, Vault: v, Wallet: w, Ledger: l, Dispatcher: d}
}

// Call executes the full pipeline for one request (§4.5, steps 1-11).
func (p *Pipeline) Call(ctx context.Context, req Request) (Response, *broker.Error) {
	state := StateInit
	callID := id.Generate("call")
	log.SetCallID(callID)
	defer log.ClearCallID()
	log.Debug("pipeline call starting", "provider_id", req.ProviderID, "method", req.Method, "path", req.Path)

	// Step 1: resolve provider.
	cfg, ok := p.Registry.Get(req.ProviderID)
	if !ok {
		err := broker.NewUnknownProviderError(req.ProviderID)
		log.Debug("pipeline call failed", "state", state, "kind", err.Kind)
		return Response{}, err
	}
	state = StateProviderOK

	// Step 2: credential check.
	if !p.Vault.Has(req.ProviderID) {
		err := broker.NewNoCredentialError(req.ProviderID)
		log.Debug("pipeline call failed", "state", state, "kind", err.Kind)
		return Response{}, err
	}

	// Step 3: estimate cost.
	estimated := p.Registry.EstimateCost(req.ProviderID, req.Body)

	// Step 4: budget gate.
	check := p.Wallet.CheckBudget(req.ProviderID, estimated)
	if !check.Allowed {
		err := &broker.Error{Kind: broker.KindBudgetExceeded, Message: check.Reason}
		log.Debug("pipeline call failed", "state", state, "kind", err.Kind)
		return Response{}, err
	}
	state = StateBudgetOK

	// Step 5: compose request.
	headers := map[string]string{"Content-Type": "application/json"}
	for k, v := range req.Headers {
		headers[k] = v
	}
	queryParams := make(map[string]string, len(req.QueryParams))
	for k, v := range req.QueryParams {
		queryParams[k] = v
	}

	if brokerErr := p.Vault.InjectAuth(req.ProviderID, cfg, headers, queryParams); brokerErr != nil {
		return Response{}, brokerErr
	}

	body := req.Body
	bodyPresent := body != nil
	if cfg.AuthMethod == provider.AuthBody {
		merged, brokerErr := p.mergeBodyCredential(req.ProviderID, cfg, body)
		if brokerErr != nil {
			return Response{}, brokerErr
		}
		body = merged
		bodyPresent = true
	}

	url := buildURL(cfg.BaseURL, req.Path, queryParams)

	var bodyBytes []byte
	if req.Method != "GET" && bodyPresent {
		b, err := json.Marshal(body)
		if err != nil {
			return Response{}, broker.NewConfigError("marshaling request body: %v", err)
		}
		bodyBytes = b
	}

	// Step 6: dispatch.
	dispatchResp, err := p.Dispatcher.Dispatch(ctx, dispatcher.Request{
		Method:  req.Method,
		URL:     url,
		Headers: headers,
		Body:    bodyBytes,
	})
	if err != nil {
		if berr, ok := err.(*broker.Error); ok {
			return Response{}, berr
		}
		return Response{}, broker.NewNetworkError(err)
	}
	state = StateRequestSent

	// Step 7: parse response.
	data := parseResponse(dispatchResp)
	state = StateResponseParsed

	// Step 8: compute actual cost.
	actualCost := actualCostFromResponse(data, cfg, estimated)

	// Step 9: record spend.
	remaining, err := p.Wallet.RecordSpend(req.ProviderID, actualCost)
	if err != nil {
		if berr, ok := err.(*broker.Error); ok {
			return Response{}, berr
		}
		return Response{}, broker.NewPersistenceError("wallet", err)
	}
	state = StateSpendRecorded

	// Step 10: mint receipt. Credentials never enter the hash input.
	descriptor := ledger.RequestDescriptor{
		Method:      req.Method,
		Path:        req.Path,
		QueryParams: req.QueryParams,
		BodyHash:    presenceOf(bodyPresent),
	}
	receipt, err := p.Ledger.Mint(req.ProviderID, actualCost, descriptor, data)
	if err != nil {
		if berr, ok := err.(*broker.Error); ok {
			return Response{}, berr
		}
		return Response{}, broker.NewPersistenceError("ledger", err)
	}
	state = StateReceiptMinted

	state = StateDone
	log.Debug("pipeline call finished", "provider_id", req.ProviderID, "state", state, "cost", actualCost)

	return Response{
		Status:          dispatchResp.Status,
		Data:            data,
		Receipt:         receipt,
		Cost:            actualCost,
		RemainingBudget: remaining,
	}, nil
}

// mergeBodyCredential implements §4.5 step 5's body-auth merge and §9's
// "Body mutation for body-auth" design note: a non-object body with
// auth_method=body is a configuration error, not a silent coercion.
func (p *Pipeline) mergeBodyCredential(providerID string, cfg provider.Config, body any) (any, *broker.Error) {
	obj, ok := body.(map[string]any)
	if !ok {
		return nil, broker.NewConfigError(
			"provider %q uses body auth but request body is not a JSON object", providerID)
	}
	cred, brokerErr := p.Vault.CredentialForBodyInjection(providerID)
	if brokerErr != nil {
		return nil, brokerErr
	}
	merged := make(map[string]any, len(obj)+1)
	for k, v := range obj {
		merged[k] = v
	}
	merged[cfg.AuthField] = cred
	return merged, nil
}

func buildURL(baseURL, path string, queryParams map[string]string) string {
	base := strings.TrimRight(baseURL, "/")
	joined := base + "/" + strings.TrimLeft(path, "/")
	if len(queryParams) == 0 {
		return joined
	}
	var sb strings.Builder
	sb.WriteString(joined)
	sb.WriteByte('?')
	first := true
	for k, v := range queryParams {
		if !first {
			sb.WriteByte('&')
		}
		first = false
		sb.WriteString(k)
		sb.WriteByte('=')
		sb.WriteString(v)
	}
	return sb.String()
}

// parseResponse implements §4.5 step 7: JSON if advertised, else raw text.
func parseResponse(resp dispatcher.Response) any {
	contentType := resp.Headers.Get("Content-Type")
	if strings.Contains(contentType, "application/json") {
		var parsed any
		if err := json.Unmarshal(resp.Body, &parsed); err == nil {
			return parsed
		}
	}
	return string(resp.Body)
}

// actualCostFromResponse implements §4.5 step 8.
func actualCostFromResponse(data any, cfg provider.Config, estimated int64) int64 {
	if cfg.CostUnit != provider.CostPer1kTokens {
		return estimated
	}
	obj, ok := data.(map[string]any)
	if !ok {
		return estimated
	}
	usage, ok := obj["usage"].(map[string]any)
	if !ok {
		return estimated
	}
	totalTokens, ok := usage["total_tokens"].(float64)
	if !ok || totalTokens < 0 {
		return estimated
	}
	return ceilMicrodollars(int64(totalTokens), cfg.CostPerUnit)
}

func ceilMicrodollars(units, perUnit int64) int64 {
	if units <= 0 || perUnit <= 0 {
		return 0
	}
	return (units*perUnit + 999) / 1000
}

func presenceOf(present bool) string {
	if present {
		return "present"
	}
	return "absent"
}
