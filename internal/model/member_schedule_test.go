package model

import (
	"testing"
	"time"
)

func TestParseDayOfWeek(t *testing.T) {
	if d, ok := ParseDayOfWeek(" monday "); !ok || d != Monday {
		t.Errorf("lowercase padded input should normalize to MONDAY, got %q ok=%v", d, ok)
	}
	if _, ok := ParseDayOfWeek("someday"); ok {
		t.Error("invalid weekday should not parse")
	}
}

func TestDayOfWeekHumanName(t *testing.T) {
	if got := Wednesday.HumanName(); got != "Wednesday" {
		t.Errorf("got %q, want Wednesday", got)
	}
}

func TestPackageMonths(t *testing.T) {
	cases := map[PackageType]int{
		PackageOneMonth:    1,
		PackageTwoMonths:   2,
		PackageThreeMonths: 3,
		PackageSixMonths:   6,
		PackageOneYear:     12,
		PackageType("???"): 1, // unknown falls back to one month
	}
	for pkg, want := range cases {
		if got := pkg.Months(); got != want {
			t.Errorf("%s.Months() = %d, want %d", pkg, got, want)
		}
	}
}

func TestCoversDate(t *testing.T) {
	zone := time.FixedZone("WIB", 7*60*60)
	m := MemberSchedule{
		ValidFrom:  time.Date(2025, 3, 1, 0, 0, 0, 0, zone),
		ValidUntil: time.Date(2025, 3, 31, 0, 0, 0, 0, zone),
	}
	if !m.CoversDate(time.Date(2025, 3, 1, 0, 0, 0, 0, zone)) {
		t.Error("first day of the window should be covered")
	}
	if !m.CoversDate(time.Date(2025, 3, 31, 0, 0, 0, 0, zone)) {
		t.Error("valid_until is inclusive")
	}
	if m.CoversDate(time.Date(2025, 4, 1, 0, 0, 0, 0, zone)) {
		t.Error("day after valid_until should not be covered")
	}
	if m.CoversDate(time.Date(2025, 2, 28, 0, 0, 0, 0, zone)) {
		t.Error("day before valid_from should not be covered")
	}
}

// DATE columns come back from the driver as UTC midnights, while the
// availability grid asks about business-local midnights (UTC+7, a few
// hours earlier as an instant).  Coverage must still match on the
// calendar date.
func TestCoversDateUTCStoredWindow(t *testing.T) {
	zone := time.FixedZone("WIB", 7*60*60)
	m := MemberSchedule{
		ValidFrom:  time.Date(2025, 3, 17, 0, 0, 0, 0, time.UTC),
		ValidUntil: time.Date(2025, 4, 16, 0, 0, 0, 0, time.UTC),
	}
	if !m.CoversDate(time.Date(2025, 3, 17, 0, 0, 0, 0, zone)) {
		t.Error("first day of a UTC-stored window should be covered")
	}
	if !m.CoversDate(time.Date(2025, 4, 16, 0, 0, 0, 0, zone)) {
		t.Error("last day of a UTC-stored window should be covered")
	}
	if m.CoversDate(time.Date(2025, 3, 16, 0, 0, 0, 0, zone)) {
		t.Error("day before the window should not be covered")
	}
	if m.CoversDate(time.Date(2025, 4, 17, 0, 0, 0, 0, zone)) {
		t.Error("day after the window should not be covered")
	}
}
