package interval

import (
	"testing"
	"time"
)

func at(t *testing.T, hour, minute int) time.Time {
	t.Helper()
	return time.Date(2025, time.June, 2, hour, minute, 0, 0, time.UTC)
}

func TestIsValid(t *testing.T) {
	cases := []struct {
		name  string
		start time.Time
		end   time.Time
		want  bool
	}{
		{name: "end after start", start: at(t, 9, 0), end: at(t, 10, 0), want: true},
		{name: "end equals start", start: at(t, 9, 0), end: at(t, 9, 0), want: false},
		{name: "end before start", start: at(t, 10, 0), end: at(t, 9, 0), want: false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := New(tc.start, tc.end).IsValid(); got != tc.want {
				t.Fatalf("IsValid() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestContains(t *testing.T) {
	iv := New(at(t, 9, 0), at(t, 10, 0))

	cases := []struct {
		name    string
		instant time.Time
		want    bool
	}{
		{name: "strictly inside", instant: at(t, 9, 30), want: true},
		{name: "equals start", instant: at(t, 9, 0), want: true},
		{name: "equals end", instant: at(t, 10, 0), want: true},
		{name: "before start", instant: at(t, 8, 59), want: false},
		{name: "after end", instant: at(t, 10, 1), want: false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := iv.Contains(tc.instant); got != tc.want {
				t.Fatalf("Contains(%v) = %v, want %v", tc.instant, got, tc.want)
			}
		})
	}
}

func TestOverlaps(t *testing.T) {
	existing := New(at(t, 9, 0), at(t, 10, 0))

	cases := []struct {
		name      string
		candidate Interval
		want      bool
	}{
		{name: "identical interval", candidate: New(at(t, 9, 0), at(t, 10, 0)), want: true},
		{name: "start inside existing", candidate: New(at(t, 9, 30), at(t, 10, 30)), want: true},
		{name: "end inside existing", candidate: New(at(t, 8, 30), at(t, 9, 30)), want: true},
		{name: "encloses existing", candidate: New(at(t, 8, 0), at(t, 11, 0)), want: true},
		{name: "enclosed by existing", candidate: New(at(t, 9, 15), at(t, 9, 45)), want: true},
		{name: "starts at existing end", candidate: New(at(t, 10, 0), at(t, 11, 0)), want: true},
		{name: "ends at existing start", candidate: New(at(t, 8, 0), at(t, 9, 0)), want: true},
		{name: "strictly after", candidate: New(at(t, 11, 0), at(t, 12, 0)), want: false},
		{name: "strictly before", candidate: New(at(t, 7, 0), at(t, 8, 0)), want: false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.candidate.Overlaps(existing); got != tc.want {
				t.Fatalf("Overlaps() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestEncloses(t *testing.T) {
	outer := New(at(t, 8, 0), at(t, 12, 0))
	inner := New(at(t, 9, 0), at(t, 10, 0))

	if !outer.Encloses(inner) {
		t.Fatalf("expected outer interval to enclose inner")
	}
	if inner.Encloses(outer) {
		t.Fatalf("inner interval must not enclose outer")
	}
	if !outer.Encloses(outer) {
		t.Fatalf("an interval encloses itself")
	}
}
