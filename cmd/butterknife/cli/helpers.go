package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// parseKeyValues turns a "--flag k=v" repeated flag's collected values into
// a map. A malformed entry (no "=") is an error rather than silently
// dropped — the caller asked for a specific header/query param.
func parseKeyValues(pairs []string) (map[string]string, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	out := make(map[string]string, len(pairs))
	for _, p := range pairs {
		k, v, ok := strings.Cut(p, "=")
		if !ok {
			return nil, fmt.Errorf("invalid key=value pair %q", p)
		}
		out[k] = v
	}
	return out, nil
}

// parseBody decodes a JSON body argument. An empty string means "no body".
func parseBody(raw string) (any, error) {
	if raw == "" {
		return nil, nil
	}
	var v any
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		return nil, fmt.Errorf("parsing --body as JSON: %w", err)
	}
	return v, nil
}

// printJSON writes v to stdout as indented JSON.
func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
