package codegen

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
)

type mockRow struct {
	val int64
	err error
}

func (m *mockRow) Scan(dest ...any) error {
	if m.err != nil {
		return m.err
	}
	if len(dest) > 0 {
		if ptr, ok := dest[0].(*int64); ok {
			*ptr = m.val
		}
	}
	return nil
}

type mockQuerier struct {
	mu           sync.Mutex
	currentValue int64
	calls        int
}

func (m *mockQuerier) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls++

	var increment int64 = 1
	if len(args) == 2 {
		if v, ok := args[1].(int64); ok {
			increment = v
		}
	}

	m.currentValue += increment
	return &mockRow{val: m.currentValue}
}

var testPeriod = time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)

func TestNextFor_Strict(t *testing.T) {
	q := &mockQuerier{}
	g := New(q)
	ctx := context.Background()
	cfg := DefaultConfig("ALQ")

	code, err := g.NextFor(ctx, cfg, nil, testPeriod)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if code != "ALQ-2026-00001" {
		t.Errorf("expected ALQ-2026-00001, got %s", code)
	}

	code, err = g.NextFor(ctx, cfg, nil, testPeriod)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if code != "ALQ-2026-00002" {
		t.Errorf("expected ALQ-2026-00002, got %s", code)
	}
}

func TestNextFor_Cached(t *testing.T) {
	q := &mockQuerier{}
	g := New(q)
	ctx := context.Background()
	cfg := DefaultConfig("MOV")
	opts := &Options{Strategy: StrategyCached, RangeSize: 10}

	for i := int64(1); i <= 10; i++ {
		code, err := g.NextFor(ctx, cfg, opts, testPeriod)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		want := formatCode(cfg, testPeriod, i)
		if code != want {
			t.Errorf("expected %s, got %s", want, code)
		}
	}

	// The whole range of 10 must come from a single DB round-trip.
	if q.calls != 1 {
		t.Errorf("expected 1 DB call for the range, got %d", q.calls)
	}

	// The 11th code triggers a new range allocation.
	code, err := g.NextFor(ctx, cfg, opts, testPeriod)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if code != "MOV-2026-00011" {
		t.Errorf("expected MOV-2026-00011, got %s", code)
	}
	if q.calls != 2 {
		t.Errorf("expected 2 DB calls, got %d", q.calls)
	}
}

func TestNextFor_NoYear(t *testing.T) {
	q := &mockQuerier{}
	g := New(q)
	cfg := Config{Prefix: "SEQ", PadWidth: 3, ResetPeriod: "never"}

	code, err := g.NextFor(context.Background(), cfg, nil, testPeriod)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if code != "SEQ-001" {
		t.Errorf("expected SEQ-001, got %s", code)
	}
}

func TestBuildKey(t *testing.T) {
	tests := []struct {
		reset string
		want  string
	}{
		{"year", "ALQ_2026"},
		{"month", "ALQ_2026_03"},
		{"never", "ALQ"},
	}
	for _, tt := range tests {
		cfg := Config{Prefix: "ALQ", ResetPeriod: tt.reset}
		if got := buildKey(cfg, testPeriod); got != tt.want {
			t.Errorf("buildKey(%s) = %s, want %s", tt.reset, got, tt.want)
		}
	}
}

func TestParseNumber(t *testing.T) {
	if n := ParseNumber("ALQ-2026-00042"); n != 42 {
		t.Errorf("expected 42, got %d", n)
	}
	if n := ParseNumber("SEQ-007"); n != 7 {
		t.Errorf("expected 7, got %d", n)
	}
	if n := ParseNumber("garbage"); n != -1 {
		t.Errorf("expected -1, got %d", n)
	}
	if n := ParseNumber("ORD-"); n != -1 {
		t.Errorf("expected -1 for trailing dash, got %d", n)
	}
	if n := ParseNumber("ORD-abc"); n != -1 {
		t.Errorf("expected -1 for non-numeric tail, got %d", n)
	}
}
