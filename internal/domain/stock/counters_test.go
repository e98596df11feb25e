package stock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rentware/internal/core/apperror"
	"rentware/internal/core/id"
)

func TestCountersApply(t *testing.T) {
	tests := []struct {
		name    string
		start   Counters
		kind    Kind
		qty     int64
		want    Counters
		wantErr string
	}{
		{
			name:  "inflow adds owned and available",
			start: Counters{Owned: 100, Rented: 0, Available: 100},
			kind:  KindInflow, qty: 20,
			want: Counters{Owned: 120, Rented: 0, Available: 120},
		},
		{
			name:  "adjust up behaves like inflow",
			start: Counters{Owned: 10, Rented: 4, Available: 6},
			kind:  KindAdjustUp, qty: 5,
			want: Counters{Owned: 15, Rented: 4, Available: 11},
		},
		{
			name:  "outflow removes owned and available",
			start: Counters{Owned: 50, Rented: 10, Available: 40},
			kind:  KindOutflow, qty: 15,
			want: Counters{Owned: 35, Rented: 10, Available: 25},
		},
		{
			name:  "outflow at exactly available drains to zero",
			start: Counters{Owned: 50, Rented: 10, Available: 40},
			kind:  KindOutflow, qty: 40,
			want: Counters{Owned: 10, Rented: 10, Available: 0},
		},
		{
			name:  "outflow beyond available fails",
			start: Counters{Owned: 50, Rented: 10, Available: 40},
			kind:  KindOutflow, qty: 41,
			wantErr: apperror.CodeInsufficientStock,
		},
		{
			name:  "outflow beyond owned fails",
			start: Counters{Owned: 5, Rented: 0, Available: 5},
			kind:  KindOutflow, qty: 6,
			wantErr: apperror.CodeInsufficientStock,
		},
		{
			name:  "adjust down removes owned and available",
			start: Counters{Owned: 30, Rented: 5, Available: 25},
			kind:  KindAdjustDown, qty: 10,
			want: Counters{Owned: 20, Rented: 5, Available: 15},
		},
		{
			name:  "adjust down shortfall fails",
			start: Counters{Owned: 30, Rented: 5, Available: 25},
			kind:  KindAdjustDown, qty: 26,
			wantErr: apperror.CodeInsufficientStock,
		},
		{
			name:  "rental out moves available to rented",
			start: Counters{Owned: 100, Rented: 0, Available: 100},
			kind:  KindRentalOut, qty: 80,
			want: Counters{Owned: 100, Rented: 80, Available: 20},
		},
		{
			name:  "rental out at exactly available succeeds",
			start: Counters{Owned: 100, Rented: 60, Available: 40},
			kind:  KindRentalOut, qty: 40,
			want: Counters{Owned: 100, Rented: 100, Available: 0},
		},
		{
			name:  "rental out one over available fails",
			start: Counters{Owned: 100, Rented: 60, Available: 40},
			kind:  KindRentalOut, qty: 41,
			wantErr: apperror.CodeInsufficientAvailable,
		},
		{
			name:  "rental return moves rented to available",
			start: Counters{Owned: 100, Rented: 80, Available: 20},
			kind:  KindRentalReturn, qty: 30,
			want: Counters{Owned: 100, Rented: 50, Available: 50},
		},
		{
			name:  "rental return beyond rented fails",
			start: Counters{Owned: 100, Rented: 30, Available: 70},
			kind:  KindRentalReturn, qty: 31,
			wantErr: apperror.CodeExcessReturn,
		},
		{
			name:  "zero quantity fails",
			start: Counters{Owned: 10, Rented: 0, Available: 10},
			kind:  KindInflow, qty: 0,
			wantErr: apperror.CodeInvalidQuantity,
		},
		{
			name:  "negative quantity fails",
			start: Counters{Owned: 10, Rented: 0, Available: 10},
			kind:  KindOutflow, qty: -5,
			wantErr: apperror.CodeInvalidQuantity,
		},
		{
			name:  "unknown kind fails",
			start: Counters{Owned: 10, Rented: 0, Available: 10},
			kind:  Kind("transfer"), qty: 5,
			wantErr: apperror.CodeInvalidMovementKind,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := tt.start
			err := c.Apply(tt.kind, tt.qty, "p1")

			if tt.wantErr != "" {
				require.Error(t, err)
				assert.True(t, apperror.HasCode(err, tt.wantErr))
				// Counters must be untouched on failure.
				assert.Equal(t, tt.start, c)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, c)
		})
	}
}

func TestCountersClamp(t *testing.T) {
	tests := []struct {
		name  string
		in    Counters
		want  Counters
	}{
		{
			name: "within bounds untouched",
			in:   Counters{Owned: 10, Rented: 4, Available: 6},
			want: Counters{Owned: 10, Rented: 4, Available: 6},
		},
		{
			name: "available above cap is clamped down",
			in:   Counters{Owned: 10, Rented: 4, Available: 9},
			want: Counters{Owned: 10, Rented: 4, Available: 6},
		},
		{
			name: "negative available is clamped to zero",
			in:   Counters{Owned: 10, Rented: 4, Available: -3},
			want: Counters{Owned: 10, Rented: 4, Available: 0},
		},
		{
			name: "rented above owned gives zero cap",
			in:   Counters{Owned: 3, Rented: 5, Available: 2},
			want: Counters{Owned: 3, Rented: 5, Available: 0},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := tt.in
			c.Clamp()
			assert.Equal(t, tt.want, c)
		})
	}
}

func TestReplayReproducesCounters(t *testing.T) {
	productID := id.New()
	base := time.Date(2026, 6, 1, 10, 0, 0, 0, time.UTC)

	mv := func(kind Kind, qty int64, offset time.Duration) Movement {
		m := NewMovement(productID, kind, qty, "")
		m.OccurredAt = base.Add(offset)
		return *m
	}

	// Deliberately out of timestamp order; Replay must sort.
	history := []Movement{
		mv(KindRentalOut, 80, 2*time.Hour),
		mv(KindInflow, 100, 0),
		mv(KindRentalReturn, 30, 4*time.Hour),
		mv(KindInflow, 20, 1*time.Hour),
		mv(KindOutflow, 10, 3*time.Hour),
	}

	got, err := Replay(history)
	require.NoError(t, err)

	// inflow 100 -> inflow 20 -> rental_out 80 -> outflow 10 -> return 30
	want := Counters{Owned: 110, Rented: 50, Available: 60}
	assert.Equal(t, want, got)
}

func TestReplayBreaksTimestampTiesByCreatedAt(t *testing.T) {
	productID := id.New()
	occurred := time.Date(2026, 6, 1, 10, 0, 0, 0, time.UTC)

	mv := func(kind Kind, qty int64, created time.Duration) Movement {
		m := NewMovement(productID, kind, qty, "")
		m.OccurredAt = occurred
		m.CreatedAt = occurred.Add(created)
		return *m
	}

	// Same OccurredAt, fed newest-first the way the ledger lists them.
	// Only insertion order (CreatedAt) makes this history replayable:
	// renting out before the inflow would fail.
	history := []Movement{
		mv(KindRentalOut, 50, 2*time.Second),
		mv(KindInflow, 50, 1*time.Second),
	}

	got, err := Replay(history)
	require.NoError(t, err)
	assert.Equal(t, Counters{Owned: 50, Rented: 50, Available: 0}, got)
}

func TestReplayEmptyLedgerIsZero(t *testing.T) {
	got, err := Replay(nil)
	require.NoError(t, err)
	assert.Equal(t, Counters{}, got)
}

func TestParseKind(t *testing.T) {
	for _, valid := range []string{"inflow", "outflow", "adjust_up", "adjust_down", "rental_out", "rental_return"} {
		k, ok := ParseKind(valid)
		assert.True(t, ok, valid)
		assert.Equal(t, Kind(valid), k)
	}

	for _, invalid := range []string{"", "Inflow", "INFLOW", "transfer", "rental"} {
		_, ok := ParseKind(invalid)
		assert.False(t, ok, invalid)
	}
}
