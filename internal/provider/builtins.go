package provider

// Builtins returns the fixed default provider set in display order.
// Reimplementers must keep these IDs, base URLs, and auth recipes stable so
// vaults populated against an older registry stay usable (§4.1).
func Builtins() []Config {
	return []Config{
		{
			ID:          "openai",
			Name:        "OpenAI",
			BaseURL:     "https://api.openai.com/v1",
			AuthMethod:  AuthHeader,
			AuthField:   "Authorization",
			AuthPrefix:  "Bearer ",
			CostPerUnit: 3000,
			CostUnit:    CostPer1kTokens,
		},
		{
			ID:          "anthropic",
			Name:        "Anthropic",
			BaseURL:     "https://api.anthropic.com/v1",
			AuthMethod:  AuthHeader,
			AuthField:   "x-api-key",
			CostPerUnit: 15000,
			CostUnit:    CostPer1kTokens,
		},
		{
			ID:          "groq",
			Name:        "Groq",
			BaseURL:     "https://api.groq.com/openai/v1",
			AuthMethod:  AuthHeader,
			AuthField:   "Authorization",
			AuthPrefix:  "Bearer ",
			CostPerUnit: 200,
			CostUnit:    CostPer1kTokens,
		},
		{
			ID:          "together",
			Name:        "Together AI",
			BaseURL:     "https://api.together.xyz/v1",
			AuthMethod:  AuthHeader,
			AuthField:   "Authorization",
			AuthPrefix:  "Bearer ",
			CostPerUnit: 900,
			CostUnit:    CostPer1kTokens,
		},
		{
			ID:          "fireworks",
			Name:        "Fireworks AI",
			BaseURL:     "https://api.fireworks.ai/inference/v1",
			AuthMethod:  AuthHeader,
			AuthField:   "Authorization",
			AuthPrefix:  "Bearer ",
			CostPerUnit: 1000,
			CostUnit:    CostPer1kTokens,
		},
		{
			ID:          "perplexity",
			Name:        "Perplexity",
			BaseURL:     "https://api.perplexity.ai",
			AuthMethod:  AuthHeader,
			AuthField:   "Authorization",
			AuthPrefix:  "Bearer ",
			CostPerUnit: 5000,
			CostUnit:    CostPer1kTokens,
		},
	}
}
