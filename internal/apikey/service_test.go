package apikey

import (
	"strings"
	"testing"
)

func TestNewKeyValueFormat(t *testing.T) {
	value, err := NewKeyValue()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasPrefix(value, KeyPrefix) {
		t.Errorf("expected %q prefix, got %q", KeyPrefix, value)
	}
	if len(value) != len(KeyPrefix)+64 {
		t.Errorf("expected %d characters, got %d", len(KeyPrefix)+64, len(value))
	}
}

func TestNewKeyValueUnique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		value, err := NewKeyValue()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if seen[value] {
			t.Fatalf("duplicate key on iteration %d", i)
		}
		seen[value] = true
	}
}
