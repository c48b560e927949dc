package gateway

import (
	"testing"
	"time"
	_ "time/tzdata"
)

func TestStartOfDay(t *testing.T) {
	t.Parallel()

	newYork, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Fatalf("failed to load location: %v", err)
	}

	tests := []struct {
		name string
		in   time.Time
		loc  *time.Location
		want time.Time
	}{
		{
			name: "afternoon",
			in:   time.Date(2026, time.October, 16, 15, 30, 0, 0, time.UTC),
			loc:  time.UTC,
			want: time.Date(2026, time.October, 16, 0, 0, 0, 0, time.UTC),
		},
		{
			name: "exactly midnight",
			in:   time.Date(2026, time.October, 16, 0, 0, 0, 0, time.UTC),
			loc:  time.UTC,
			want: time.Date(2026, time.October, 16, 0, 0, 0, 0, time.UTC),
		},
		{
			name: "utc instant is previous local day",
			in:   time.Date(2026, time.October, 16, 2, 0, 0, 0, time.UTC),
			loc:  newYork,
			want: time.Date(2026, time.October, 15, 0, 0, 0, 0, newYork),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := StartOfDay(tt.in, tt.loc)
			if !got.Equal(tt.want) {
				t.Errorf("StartOfDay(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestAddDaysKeepsWallClockAcrossDST(t *testing.T) {
	t.Parallel()

	newYork, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Fatalf("failed to load location: %v", err)
	}

	// DST ends 2026-11-01 in New York.
	in := time.Date(2026, time.November, 4, 9, 0, 0, 0, newYork)
	got := AddDays(in, -7)
	want := time.Date(2026, time.October, 28, 9, 0, 0, 0, newYork)

	if !got.Equal(want) {
		t.Errorf("AddDays(%v, -7) = %v, want %v", in, got, want)
	}
	if d := in.Sub(got); d != 7*24*time.Hour+time.Hour {
		t.Errorf("elapsed = %v, want 169h", d)
	}
}
