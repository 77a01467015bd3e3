package wallet

import (
	"strings"
	"testing"
)

func TestWallet_CheckBudget_Boundary(t *testing.T) {
	w, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := w.SetBudget(100); err != nil {
		t.Fatalf("SetBudget: %v", err)
	}

	if res := w.CheckBudget("p", 100); !res.Allowed {
		t.Error("CheckBudget(100) on budget 100 = denied, want allowed")
	}
	if res := w.CheckBudget("p", 101); res.Allowed {
		t.Error("CheckBudget(101) on budget 100 = allowed, want denied")
	}
}

func TestWallet_RecordSpend_UpdatesSpentAndByProvider(t *testing.T) {
	w, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	w.SetBudget(10_000_000)

	remaining, err := w.RecordSpend("openai", 6000)
	if err != nil {
		t.Fatalf("RecordSpend: %v", err)
	}
	if remaining != 9_994_000 {
		t.Errorf("remaining = %d, want 9994000", remaining)
	}

	state := w.State()
	if state.Spent != 6000 {
		t.Errorf("Spent = %d, want 6000", state.Spent)
	}
	if state.ByProvider["openai"] != 6000 {
		t.Errorf("ByProvider[openai] = %d, want 6000", state.ByProvider["openai"])
	}
}

func TestWallet_SpentEqualsSumByProvider(t *testing.T) {
	w, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	w.SetBudget(1_000_000)
	w.RecordSpend("openai", 100)
	w.RecordSpend("anthropic", 200)
	w.RecordSpend("openai", 50)

	state := w.State()
	var sum int64
	for _, v := range state.ByProvider {
		sum += v
	}
	if state.Spent != sum {
		t.Errorf("Spent = %d, sum(ByProvider) = %d, want equal", state.Spent, sum)
	}
}

func TestWallet_ResetSpend(t *testing.T) {
	w, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	w.SetBudget(1_000_000)
	w.RecordSpend("openai", 500)

	if err := w.ResetSpend(); err != nil {
		t.Fatalf("ResetSpend: %v", err)
	}
	state := w.State()
	if state.Spent != 0 {
		t.Errorf("Spent after reset = %d, want 0", state.Spent)
	}
	if len(state.ByProvider) != 0 {
		t.Errorf("ByProvider after reset = %v, want empty", state.ByProvider)
	}
	if state.TotalBudget != 1_000_000 {
		t.Errorf("TotalBudget after ResetSpend = %d, want unchanged 1000000", state.TotalBudget)
	}
}

func TestWallet_BudgetDenialReasonMentionsNumbers(t *testing.T) {
	w, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	w.SetBudget(100)

	res := w.CheckBudget("p", 500)
	if res.Allowed {
		t.Fatal("CheckBudget() = allowed, want denied")
	}
	if !strings.Contains(res.Reason, "500") || !strings.Contains(res.Reason, "100") {
		t.Errorf("Reason = %q, want to mention 500 and 100", res.Reason)
	}
}

func TestWallet_PersistsAcrossReopen(t *testing.T) {
	dir := t.TempDir()
	w1, err := Open(dir)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	w1.SetBudget(1_000_000)
	w1.RecordSpend("openai", 1000)

	w2, err := Open(dir)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	state := w2.State()
	if state.TotalBudget != 1_000_000 || state.Spent != 1000 {
		t.Errorf("reopened state = %+v, want budget 1000000 spent 1000", state)
	}
}

func TestWallet_SetBudget_RejectsNegative(t *testing.T) {
	w, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := w.SetBudget(-1); err == nil {
		t.Error("SetBudget(-1) = nil, want error")
	}
}

func TestWallet_CheckBudget_RejectsNegativeEstimate(t *testing.T) {
	w, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	w.SetBudget(100)

	res := w.CheckBudget("p", -5)
	if res.Allowed {
		t.Error("CheckBudget(-5) = allowed, want denied")
	}
	if res.Reason == "" {
		t.Error("CheckBudget(-5) should carry a reason")
	}
}

func TestWallet_RecordSpend_RejectsNegative(t *testing.T) {
	w, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	w.SetBudget(100)

	if _, err := w.RecordSpend("p", -1); err == nil {
		t.Error("RecordSpend(-1) = nil, want error")
	}
}

func TestWallet_RecordSpend_DetectsOverflow(t *testing.T) {
	w, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	w.SetBudget(1 << 62)

	if _, err := w.RecordSpend("p", 1<<62); err != nil {
		t.Fatalf("first RecordSpend: %v", err)
	}
	if _, err := w.RecordSpend("p", 1<<62); err == nil {
		t.Error("RecordSpend() pushing total past int64 max = nil, want overflow error")
	}
}
