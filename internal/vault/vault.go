// Package vault implements the credential store (§4.2). It persists one
// active VaultRecord per provider, injects credentials into outbound
// requests, and never discloses secret material to callers outside the
// pipeline. Structure grounded on the teacher's credential.Store shape
// (internal/credential/types.go), generalised to plain-JSON persistence
// with a typed secret.Value in place of an encrypted, keyring-backed file.
package vault

import (
	"path/filepath"
	"sync"
	"time"

	"github.com/majorcontext/butterknife/internal/broker"
	"github.com/majorcontext/butterknife/internal/provider"
	"github.com/majorcontext/butterknife/internal/secret"
	"github.com/majorcontext/butterknife/internal/storage"
)

// fileName is fixed per §6: "<data_dir>/vault.json".
const fileName = "vault.json"

// record is the on-disk shape, matching §6's field names exactly:
// {providerId, credential, storedAt, active}. The file itself is a bare
// JSON array of records (§3), not an object wrapper.
type record struct {
	ProviderID string `json:"providerId"`
	Credential string `json:"credential"`
	StoredAt   string `json:"storedAt"`
	Active     bool   `json:"active"`
}

// Entry is the public projection of a stored credential (§3's VaultEntry):
// it omits the credential and exposes only its fingerprint.
type Entry struct {
	ProviderID  string `json:"provider_id"`
	Fingerprint string `json:"fingerprint"`
	StoredAt    string `json:"stored_at"`
	Active      bool   `json:"active"`
}

// Vault holds one active credential per provider.
type Vault struct {
	mu      sync.RWMutex
	path    string
	records map[string]record
}

// Open loads dataDir/vault.json, tolerating a missing or corrupt file as
// empty state (§3 "Lifecycle").
func Open(dataDir string) (*Vault, error) {
	v := &Vault{
		path:    filepath.Join(dataDir, fileName),
		records: make(map[string]record),
	}
	var records []record
	if _, _, err := storage.Load(v.path, &records); err != nil {
		return nil, broker.NewPersistenceError("vault", err)
	}
	for _, r := range records {
		v.records[r.ProviderID] = r
	}
	return v, nil
}

// Store upserts the credential for providerID and persists synchronously.
func (v *Vault) Store(providerID string, credential secret.Value) (Entry, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	r := record{
		ProviderID: providerID,
		Credential: credential.Reveal(),
		StoredAt:   time.Now().UTC().Format(time.RFC3339),
		Active:     true,
	}
	v.records[providerID] = r
	if err := v.persistLocked(); err != nil {
		return Entry{}, err
	}
	return toEntry(r), nil
}

// Remove deletes the record for providerID, returning false if none existed.
func (v *Vault) Remove(providerID string) (bool, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if _, ok := v.records[providerID]; !ok {
		return false, nil
	}
	delete(v.records, providerID)
	if err := v.persistLocked(); err != nil {
		return false, err
	}
	return true, nil
}

// List returns every stored credential's public projection; never the
// raw secret (§8 invariant).
func (v *Vault) List() []Entry {
	v.mu.RLock()
	defer v.mu.RUnlock()

	out := make([]Entry, 0, len(v.records))
	for _, r := range v.records {
		out = append(out, toEntry(r))
	}
	return out
}

// Has reports whether providerID has an active stored credential.
func (v *Vault) Has(providerID string) bool {
	v.mu.RLock()
	defer v.mu.RUnlock()
	r, ok := v.records[providerID]
	return ok && r.Active
}

// InjectAuth mutates headers/queryParams per cfg.AuthMethod, writing
// cfg.AuthPrefix+credential under cfg.AuthField. body auth is a no-op here;
// the pipeline performs body injection itself via CredentialForBodyInjection
// since it needs to merge into a request body vault has no access to.
func (v *Vault) InjectAuth(providerID string, cfg provider.Config, headers, queryParams map[string]string) *broker.Error {
	v.mu.RLock()
	r, ok := v.records[providerID]
	v.mu.RUnlock()
	if !ok || !r.Active {
		return broker.NewNoCredentialError(providerID)
	}

	value := cfg.AuthPrefix + r.Credential
	switch cfg.AuthMethod {
	case provider.AuthHeader:
		headers[cfg.AuthField] = value
	case provider.AuthQuery:
		queryParams[cfg.AuthField] = value
	case provider.AuthBody:
		// handled by the pipeline via CredentialForBodyInjection
	}
	return nil
}

// CredentialForBodyInjection returns the raw secret for providerID.
// Privileged: callers must not log or surface the returned string.
func (v *Vault) CredentialForBodyInjection(providerID string) (string, *broker.Error) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	r, ok := v.records[providerID]
	if !ok || !r.Active {
		return "", broker.NewNoCredentialError(providerID)
	}
	return r.Credential, nil
}

func (v *Vault) persistLocked() error {
	records := make([]record, 0, len(v.records))
	for _, r := range v.records {
		records = append(records, r)
	}
	if err := storage.Save(v.path, records); err != nil {
		return broker.NewPersistenceError("vault", err)
	}
	return nil
}

func toEntry(r record) Entry {
	return Entry{
		ProviderID:  r.ProviderID,
		Fingerprint: secret.New(r.Credential).Fingerprint(),
		StoredAt:    r.StoredAt,
		Active:      r.Active,
	}
}
