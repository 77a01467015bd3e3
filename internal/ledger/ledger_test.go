package ledger

import (
	"testing"
)

func TestGenesisHash_Is64Zeros(t *testing.T) {
	if len(genesisHash) != 64 {
		t.Fatalf("len(genesisHash) = %d, want 64", len(genesisHash))
	}
	for i, c := range genesisHash {
		if c != '0' {
			t.Fatalf("genesisHash[%d] = %q, want '0'", i, c)
		}
	}
}

func TestLedger_FirstMintLinksToGenesis(t *testing.T) {
	l, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	r, err := l.Mint("openai", 6000, RequestDescriptor{Method: "POST", Path: "/chat/completions", BodyHash: "present"}, map[string]any{"usage": map[string]any{"total_tokens": 2000}})
	if err != nil {
		t.Fatalf("Mint: %v", err)
	}
	if r.PreviousReceiptHash != genesisHash {
		t.Errorf("PreviousReceiptHash = %q, want genesis", r.PreviousReceiptHash)
	}
	if res := l.Verify(); !res.Valid {
		t.Errorf("Verify() after first mint = %+v, want valid", res)
	}
}

func TestLedger_ChainLinksSequentially(t *testing.T) {
	l, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	for i := 0; i < 3; i++ {
		if _, err := l.Mint("openai", int64(i), RequestDescriptor{Method: "GET", Path: "/x", BodyHash: "absent"}, map[string]any{"i": i}); err != nil {
			t.Fatalf("Mint %d: %v", i, err)
		}
	}
	chain := l.Chain()
	if len(chain) != 3 {
		t.Fatalf("len(Chain()) = %d, want 3", len(chain))
	}
	for i := 1; i < len(chain); i++ {
		if chain[i].PreviousReceiptHash != chain[i-1].ReceiptHash {
			t.Errorf("chain[%d].PreviousReceiptHash != chain[%d].ReceiptHash", i, i-1)
		}
	}
	if res := l.Verify(); !res.Valid {
		t.Errorf("Verify() = %+v, want valid", res)
	}
}

func TestLedger_Recent(t *testing.T) {
	l, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	for i := 0; i < 5; i++ {
		l.Mint("p", 1, RequestDescriptor{Method: "GET", Path: "/x", BodyHash: "absent"}, nil)
	}
	if got := len(l.Recent(2)); got != 2 {
		t.Errorf("len(Recent(2)) = %d, want 2", got)
	}
	if got := len(l.Recent(100)); got != 5 {
		t.Errorf("len(Recent(100)) = %d, want 5 (clamped to chain length)", got)
	}
}

func TestLedger_TamperDetection(t *testing.T) {
	dir := t.TempDir()
	l, err := Open(dir)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	for i := 0; i < 3; i++ {
		if _, err := l.Mint("p", int64(i), RequestDescriptor{Method: "GET", Path: "/x", BodyHash: "absent"}, nil); err != nil {
			t.Fatalf("Mint %d: %v", i, err)
		}
	}

	l.doc.Receipts[1].Cost = 999999

	res := l.Verify()
	if res.Valid {
		t.Fatal("Verify() after tamper = valid, want invalid")
	}
	if res.BrokenAt != 1 {
		t.Errorf("BrokenAt = %d, want 1", res.BrokenAt)
	}
}

func TestLedger_CanonicalHashingIsKeyOrderIndependent(t *testing.T) {
	l1, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	l2, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	r1, err := l1.Mint("p", 1, RequestDescriptor{Method: "POST", Path: "/x", BodyHash: "present"}, map[string]any{"b": 1, "a": 2})
	if err != nil {
		t.Fatalf("Mint l1: %v", err)
	}
	r2, err := l2.Mint("p", 1, RequestDescriptor{Method: "POST", Path: "/x", BodyHash: "present"}, map[string]any{"a": 2, "b": 1})
	if err != nil {
		t.Fatalf("Mint l2: %v", err)
	}
	if r1.ResponseHash != r2.ResponseHash {
		t.Errorf("ResponseHash differs for semantically equal, differently ordered objects: %q != %q", r1.ResponseHash, r2.ResponseHash)
	}
}

func TestLedger_Summary(t *testing.T) {
	l, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	l.Mint("openai", 100, RequestDescriptor{Method: "GET", Path: "/x", BodyHash: "absent"}, nil)
	l.Mint("openai", 200, RequestDescriptor{Method: "GET", Path: "/x", BodyHash: "absent"}, nil)
	l.Mint("anthropic", 50, RequestDescriptor{Method: "GET", Path: "/x", BodyHash: "absent"}, nil)

	s := l.Summary()
	if s.TotalReceipts != 3 {
		t.Errorf("TotalReceipts = %d, want 3", s.TotalReceipts)
	}
	if s.TotalCost != 350 {
		t.Errorf("TotalCost = %d, want 350", s.TotalCost)
	}
	if s.ByProvider["openai"].Count != 2 || s.ByProvider["openai"].Cost != 300 {
		t.Errorf("ByProvider[openai] = %+v, want count=2 cost=300", s.ByProvider["openai"])
	}
	if !s.ChainValid {
		t.Error("ChainValid = false, want true")
	}
}

func TestLedger_ContextIDPersistsAcrossReopen(t *testing.T) {
	dir := t.TempDir()
	l1, err := Open(dir)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	ctx1 := l1.Summary().ContextID

	l2, err := Open(dir)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	if got := l2.Summary().ContextID; got != ctx1 {
		t.Errorf("context_id changed across reopen: %q != %q", got, ctx1)
	}
}
