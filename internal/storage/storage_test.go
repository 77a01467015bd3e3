package storage

import (
	"os"
	"path/filepath"
	"testing"
)

type sample struct {
	Name string `json:"name"`
	N    int    `json:"n"`
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sample.json")
	want := sample{Name: "x", N: 7}

	if err := Save(path, want); err != nil {
		t.Fatalf("Save: %v", err)
	}

	var got sample
	found, corrupt, err := Load(path, &got)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !found || corrupt {
		t.Fatalf("Load() found=%v corrupt=%v, want true/false", found, corrupt)
	}
	if got != want {
		t.Errorf("Load() = %+v, want %+v", got, want)
	}
}

func TestLoad_MissingFileIsEmptyNotError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.json")
	var got sample
	found, corrupt, err := Load(path, &got)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if found || corrupt {
		t.Errorf("Load() found=%v corrupt=%v, want false/false", found, corrupt)
	}
}

func TestLoad_CorruptFileIsEmptyNotError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "corrupt.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o600); err != nil {
		t.Fatal(err)
	}
	var got sample
	found, corrupt, err := Load(path, &got)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if found || !corrupt {
		t.Errorf("Load() found=%v corrupt=%v, want false/true", found, corrupt)
	}
}

func TestSave_FileModeIsOwnerOnly(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mode.json")
	if err := Save(path, sample{Name: "a"}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Errorf("file mode = %o, want 0600", perm)
	}
}
