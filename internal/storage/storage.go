// Package storage implements the atomic JSON persistence shared by the
// vault, wallet, and ledger stores (§3 "Persisted files", §5 "Shared
// resource policy"): write-to-temp-then-rename via
// github.com/moby/sys/atomicwriter, pretty-printed, mode 0600.
package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/moby/sys/atomicwriter"
)

const filePerm = 0o600

// Load decodes the JSON document at path into dst. A missing file leaves
// dst untouched and returns (false, nil) — callers treat this as "start
// from empty state" per §3's lifecycle rule. A corrupt file also returns
// (false, nil): the state is empty, not aborted, but the corruption is
// reported to the caller so it can be logged.
func Load(path string, dst any) (found bool, corrupt bool, err error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return false, false, nil
	}
	if err != nil {
		return false, false, fmt.Errorf("storage: reading %s: %w", path, err)
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return false, true, nil
	}
	return true, false, nil
}

// Save serialises v as pretty-printed JSON and atomically replaces the
// file at path, creating parent-free single-directory files with
// owner-only permissions where the OS supports it.
func Save(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("storage: marshaling %s: %w", path, err)
	}
	data = append(data, '\n')
	if err := atomicwriter.WriteFile(path, data, filePerm); err != nil {
		return fmt.Errorf("storage: writing %s: %w", path, err)
	}
	return nil
}
