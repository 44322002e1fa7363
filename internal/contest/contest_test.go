package contest

import (
	"math"
	"testing"
	"time"
)

func TestStatusAt(t *testing.T) {
	c := &Contest{
		StartTime: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		EndTime:   time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC),
	}

	tests := []struct {
		name string
		now  time.Time
		want Status
	}{
		{
			name: "before start",
			now:  time.Date(2023, 12, 31, 23, 59, 0, 0, time.UTC),
			want: StatusUpcoming,
		},
		{
			name: "exactly at start",
			now:  c.StartTime,
			want: StatusActive,
		},
		{
			name: "mid contest",
			now:  time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
			want: StatusActive,
		},
		{
			name: "exactly at end",
			now:  c.EndTime,
			want: StatusActive,
		},
		{
			name: "after end",
			now:  time.Date(2024, 1, 31, 0, 1, 0, 0, time.UTC),
			want: StatusEnded,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := c.StatusAt(tt.now); got != tt.want {
				t.Errorf("StatusAt(%v) = %v, want %v", tt.now, got, tt.want)
			}
		})
	}
}

func TestQuantityFor(t *testing.T) {
	// $1000 budget at $250 buys exactly 4 shares
	if got := QuantityFor(250.0); got != 4.0 {
		t.Errorf("QuantityFor(250) = %v, want 4.0", got)
	}

	// Fractional share counts are kept unrounded
	got := QuantityFor(333.33)
	if math.Abs(got-3.00003) > 1e-5 {
		t.Errorf("QuantityFor(333.33) = %v, want ~3.00003", got)
	}
	if got == 3.0 {
		t.Error("QuantityFor(333.33) must not be rounded to a whole share count")
	}
}

func TestContestantDisplayName(t *testing.T) {
	tests := []struct {
		name       string
		contestant Contestant
		want       string
	}{
		{"username preferred", Contestant{Username: "trader1", FullName: "Jo Doe"}, "trader1"},
		{"full name fallback", Contestant{FullName: "Jo Doe"}, "Jo Doe"},
		{"placeholder", Contestant{}, "Unknown user"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.contestant.DisplayName(); got != tt.want {
				t.Errorf("DisplayName() = %q, want %q", got, tt.want)
			}
		})
	}
}
