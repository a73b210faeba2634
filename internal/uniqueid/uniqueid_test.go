package uniqueid

import (
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestCartIDFormat(t *testing.T) {
	id := CartID(12, decimal.NewFromInt(5))

	if !strings.HasPrefix(id, "C-") {
		t.Errorf("expected C- prefix, got %q", id)
	}
	if id != strings.ToUpper(id) {
		t.Errorf("expected uppercase, got %q", id)
	}
}

func TestCartIDUnique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 200; i++ {
		id := CartID(7, decimal.NewFromInt(3))
		if seen[id] {
			t.Fatalf("duplicate cart ID on iteration %d: %q", i, id)
		}
		seen[id] = true
	}
}

func TestOrderIDFormat(t *testing.T) {
	maxDate := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)
	id := OrderID("C-ABCD-1234", maxDate)

	if !strings.HasPrefix(id, "O-") {
		t.Errorf("expected O- prefix, got %q", id)
	}
	if !strings.Contains(id, "1234") {
		t.Errorf("expected the source reference tail in %q", id)
	}
}

func TestOrderIDUnique(t *testing.T) {
	maxDate := time.Now().AddDate(0, 0, 10)
	seen := make(map[string]bool)
	for i := 0; i < 200; i++ {
		id := OrderID("REF-0001", maxDate)
		if seen[id] {
			t.Fatalf("duplicate order ID on iteration %d: %q", i, id)
		}
		seen[id] = true
	}
}

func TestBatchCodeEmbedsProduct(t *testing.T) {
	start := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 2, 10, 0, 0, 0, 0, time.UTC)
	code := BatchCode(42, start, end)

	if !strings.HasPrefix(code, "42") {
		t.Errorf("expected product prefix 42, got %q", code)
	}
}

func TestReadableAlphabetAvoidsAmbiguousRunes(t *testing.T) {
	for _, r := range "IO01" {
		if strings.ContainsRune(readableAlphabet, r) {
			t.Errorf("alphabet should not contain %q", r)
		}
	}
	if got := len(readableAlphabet); got != 32 {
		t.Errorf("expected 32 runes, got %d", got)
	}
}

func TestUserCodeFormat(t *testing.T) {
	code := UserCode()
	if !strings.HasPrefix(code, "U-") {
		t.Errorf("expected U- prefix, got %q", code)
	}
}
