package schedule

import (
	"testing"
	"time"
)

func TestParseClock(t *testing.T) {
	cases := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{"06:00", 360, false},
		{"22:00", 1320, false},
		{"09:30", 570, false},
		{"00:00", 0, false},
		{"23:59", 1439, false},
		{"24:00", 0, true},
		{"09:60", 0, true},
		{"9am", 0, true},
		{"09", 0, true},
		{"", 0, true},
		{"xx:yy", 0, true},
	}
	for _, tc := range cases {
		got, err := ParseClock(tc.in)
		if tc.wantErr {
			if err == nil {
				t.Errorf("ParseClock(%q): expected error, got %d", tc.in, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseClock(%q): unexpected error %v", tc.in, err)
			continue
		}
		if got != tc.want {
			t.Errorf("ParseClock(%q) = %d, want %d", tc.in, got, tc.want)
		}
	}
}

func TestOverlapsHalfOpen(t *testing.T) {
	// Back-to-back ranges share a boundary instant but must not overlap.
	ok, err := OverlapsClock("09:00", "10:00", "10:00", "11:00")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Error("09:00-10:00 and 10:00-11:00 touch but must not overlap")
	}

	ok, err = OverlapsClock("09:00", "10:30", "10:00", "11:00")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok {
		t.Error("09:00-10:30 and 10:00-11:00 must overlap")
	}

	// Containment counts as overlap.
	ok, _ = OverlapsClock("08:00", "12:00", "09:00", "10:00")
	if !ok {
		t.Error("containing range must overlap the contained one")
	}
}

func TestOverlapsSymmetry(t *testing.T) {
	pairs := [][4]string{
		{"09:00", "11:00", "10:00", "12:00"},
		{"06:00", "07:00", "06:30", "08:00"},
		{"09:00", "10:00", "10:00", "11:00"}, // touching, no overlap either way
	}
	for _, p := range pairs {
		ab, err := OverlapsClock(p[0], p[1], p[2], p[3])
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		ba, err := OverlapsClock(p[2], p[3], p[0], p[1])
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if ab != ba {
			t.Errorf("overlap of %v not symmetric: a-b=%v b-a=%v", p, ab, ba)
		}
	}
}

func TestOverlapsClockMalformed(t *testing.T) {
	if _, err := OverlapsClock("09:00", "ten", "10:00", "11:00"); err == nil {
		t.Error("malformed time must fail the comparison, not coerce")
	}
}

func TestValidateRange(t *testing.T) {
	if _, _, err := ValidateRange("10:00", "09:00"); err == nil {
		t.Error("inverted range must be rejected")
	}
	if _, _, err := ValidateRange("10:00", "10:00"); err == nil {
		t.Error("empty range must be rejected")
	}
	s, e, err := ValidateRange("06:00", "22:00")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s != 360 || e != 1320 {
		t.Errorf("got %d-%d, want 360-1320", s, e)
	}
}

func TestDurationHours(t *testing.T) {
	cases := []struct {
		start, end string
		want       uint64
	}{
		{"09:00", "10:00", 1},
		{"09:00", "11:00", 2},
		{"09:00", "10:30", 2}, // partial hour rounds up
		{"09:15", "09:45", 1},
	}
	for _, tc := range cases {
		s, e, err := ValidateRange(tc.start, tc.end)
		if err != nil {
			t.Fatalf("ValidateRange(%s, %s): %v", tc.start, tc.end, err)
		}
		if got := DurationHours(s, e); got != tc.want {
			t.Errorf("DurationHours(%s-%s) = %d, want %d", tc.start, tc.end, got, tc.want)
		}
	}
}

func TestTruncateToDay(t *testing.T) {
	// 23:30 UTC on Jan 1 is already Jan 2 in the business zone.
	in := time.Date(2025, 1, 1, 23, 30, 0, 0, time.UTC)
	got := TruncateToDay(in)
	if got.Year() != 2025 || got.Month() != time.January || got.Day() != 2 {
		t.Errorf("expected business-local Jan 2, got %v", got)
	}
	if got.Hour() != 0 || got.Minute() != 0 {
		t.Errorf("expected midnight, got %v", got)
	}
}
