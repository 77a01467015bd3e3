// Package provider holds the provider registry: descriptors that tell the
// rest of the broker how to reach a given API (base URL), how to inject a
// credential into a request (auth method/field/prefix), and how to estimate
// the cost of a call before it is dispatched.
package provider

import (
	"github.com/majorcontext/butterknife/internal/canonjson"
)

// AuthMethod describes where a provider expects its credential.
type AuthMethod string

const (
	AuthHeader AuthMethod = "header"
	AuthQuery  AuthMethod = "query"
	AuthBody   AuthMethod = "body"
)

// CostUnit describes how a provider's cost_per_unit is metered.
type CostUnit string

const (
	CostPerRequest  CostUnit = "per_request"
	CostPer1kTokens CostUnit = "per_1k_tokens"
	CostPer1kChars  CostUnit = "per_1k_chars"
)

// Config is an immutable provider descriptor. Once registered, a Config is
// replaced wholesale by a later Add call with the same ID; it is never
// mutated in place.
type Config struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	BaseURL     string     `json:"base_url"`
	AuthMethod  AuthMethod `json:"auth_method"`
	AuthField   string     `json:"auth_field"`
	AuthPrefix  string     `json:"auth_prefix,omitempty"`
	CostPerUnit int64      `json:"cost_per_unit"`
	CostUnit    CostUnit   `json:"cost_unit"`
}

// EstimateCost implements the §4.1 cost estimate rules for this provider.
// An unrecognized CostUnit estimates to 0; callers must reject the request
// through other means (the registry never does so itself).
func (c Config) EstimateCost(requestBody any) int64 {
	switch c.CostUnit {
	case CostPerRequest:
		return c.CostPerUnit
	case CostPer1kTokens:
		units := ceilDiv(canonjson.ByteLen(requestBody), 4)
		return ceilMul(units, c.CostPerUnit)
	case CostPer1kChars:
		units := canonjson.RuneLen(requestBody)
		return ceilMul(int64(units), c.CostPerUnit)
	default:
		return 0
	}
}

func ceilDiv(n int, by int) int64 {
	if by <= 0 || n <= 0 {
		return 0
	}
	return int64((n + by - 1) / by)
}

// ceilMul computes ceil(units/1000 * perUnit) without floating point, since
// cost_per_unit is an integer microdollar amount and the spec requires an
// integer result.
func ceilMul(units int64, perUnit int64) int64 {
	if units <= 0 || perUnit <= 0 {
		return 0
	}
	return (units*perUnit + 999) / 1000
}
