package ident

import (
	"testing"
	"time"

	"github.com/oklog/ulid/v2"
)

func TestNewRunIDIsMonotonic(t *testing.T) {
	gen := NewULIDGenerator()
	at := time.Date(2026, 10, 17, 12, 0, 0, 0, time.UTC)

	first, err := gen.NewRunID(at)
	if err != nil {
		t.Fatalf("NewRunID returned error: %v", err)
	}
	second, err := gen.NewRunID(at)
	if err != nil {
		t.Fatalf("NewRunID returned error: %v", err)
	}
	if first >= second {
		t.Fatalf("expected increasing ids, got %s then %s", first, second)
	}

	parsed, err := ulid.Parse(first)
	if err != nil {
		t.Fatalf("expected valid ulid, got %v", err)
	}
	if got := ulid.Time(parsed.Time()); !got.Equal(at) {
		t.Fatalf("expected timestamp %v, got %v", at, got)
	}
}
