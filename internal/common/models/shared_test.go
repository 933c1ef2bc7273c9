package models

import (
	"testing"
	"time"
)

func TestClockMinutes(t *testing.T) {
	tests := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{"00:00", 0, false},
		{"09:05", 545, false},
		{"23:59", 1439, false},
		{"24:00", 0, true},
		{"12:60", 0, true},
		{"-1:00", 0, true},
		{"0900", 0, true},
		{"ab:cd", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		got, err := ClockMinutes(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ClockMinutes(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if !tt.wantErr && got != tt.want {
			t.Errorf("ClockMinutes(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestMinuteOfDay(t *testing.T) {
	at := time.Date(2026, 3, 10, 14, 30, 59, 0, time.UTC)
	if got := MinuteOfDay(at); got != 870 {
		t.Errorf("MinuteOfDay() = %d, want 870", got)
	}
}

func TestPriorityRankOrdering(t *testing.T) {
	ordered := []Priority{PriorityUrgent, PriorityHigh, PriorityNormal, PriorityLow}
	for i := 1; i < len(ordered); i++ {
		if PriorityRank(ordered[i-1]) <= PriorityRank(ordered[i]) {
			t.Errorf("PriorityRank(%s) should outrank %s", ordered[i-1], ordered[i])
		}
	}
	if PriorityRank(Priority("bogus")) != 0 {
		t.Errorf("unknown priority should rank 0")
	}
}
