package schedule

import (
	"testing"
	"time"

	"github.com/rakhadimas/field-reservation/internal/model"
)

func memberRow(id uint64, day model.DayOfWeek, start, end, name string) model.MemberSchedule {
	return model.MemberSchedule{
		ID:         id,
		FieldID:    1,
		MemberName: name,
		Day:        day,
		StartTime:  start,
		EndTime:    end,
		IsActive:   true,
	}
}

func TestFindMemberConflictsReportsAll(t *testing.T) {
	existing := []model.MemberSchedule{
		memberRow(1, model.Monday, "08:00", "09:00", "Budi"),
		memberRow(2, model.Tuesday, "19:00", "21:00", "Sari"),
		memberRow(3, model.Wednesday, "10:00", "11:00", "Agus"),
	}
	candidates := []CandidateSlot{
		{Day: model.Monday, StartTime: "08:30", EndTime: "09:30"},  // collides with Budi
		{Day: model.Tuesday, StartTime: "20:00", EndTime: "22:00"}, // collides with Sari
		{Day: model.Thursday, StartTime: "10:00", EndTime: "11:00"},
	}
	conflicts, err := FindMemberConflicts(existing, candidates)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(conflicts) != 2 {
		t.Fatalf("expected 2 conflicts, got %d: %v", len(conflicts), conflicts)
	}
	if conflicts[0].HolderName != "Budi" || conflicts[0].Day != "Monday" {
		t.Errorf("first conflict should name Budi on Monday, got %+v", conflicts[0])
	}
	if conflicts[1].HolderName != "Sari" || conflicts[1].Day != "Tuesday" {
		t.Errorf("second conflict should name Sari on Tuesday, got %+v", conflicts[1])
	}
}

func TestFindMemberConflictsDifferentDayNoConflict(t *testing.T) {
	existing := []model.MemberSchedule{
		memberRow(1, model.Monday, "08:00", "09:00", "Budi"),
	}
	candidates := []CandidateSlot{
		// Identical clock range on a different weekday is free.
		{Day: model.Tuesday, StartTime: "08:00", EndTime: "09:00"},
	}
	conflicts, err := FindMemberConflicts(existing, candidates)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(conflicts) != 0 {
		t.Errorf("expected no conflicts across weekdays, got %v", conflicts)
	}
}

func TestFindMemberConflictsTouchingSlots(t *testing.T) {
	existing := []model.MemberSchedule{
		memberRow(1, model.Monday, "08:00", "09:00", "Budi"),
	}
	candidates := []CandidateSlot{
		{Day: model.Monday, StartTime: "09:00", EndTime: "10:00"},
	}
	conflicts, err := FindMemberConflicts(existing, candidates)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(conflicts) != 0 {
		t.Errorf("back-to-back member slots must not conflict, got %v", conflicts)
	}
}

func TestFindMemberConflictsWithinBatch(t *testing.T) {
	candidates := []CandidateSlot{
		{Day: model.Monday, StartTime: "08:00", EndTime: "09:00"},
		{Day: model.Monday, StartTime: "08:30", EndTime: "09:30"},
	}
	conflicts, err := FindMemberConflicts(nil, candidates)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(conflicts) != 1 {
		t.Fatalf("overlapping slots in one batch must conflict, got %v", conflicts)
	}
	if conflicts[0].StartTime != "08:00" || conflicts[0].EndTime != "09:00" {
		t.Errorf("conflict should name the earlier slot, got %+v", conflicts[0])
	}
}

func TestFindMemberConflictsWithinBatchDifferentDays(t *testing.T) {
	candidates := []CandidateSlot{
		{Day: model.Monday, StartTime: "08:00", EndTime: "09:00"},
		{Day: model.Tuesday, StartTime: "08:00", EndTime: "09:00"},
	}
	conflicts, err := FindMemberConflicts(nil, candidates)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(conflicts) != 0 {
		t.Errorf("same clock on different weekdays must not conflict, got %v", conflicts)
	}
}

func TestFindMemberConflictsMalformedCandidate(t *testing.T) {
	candidates := []CandidateSlot{
		{Day: model.Monday, StartTime: "08:00", EndTime: "nope"},
	}
	if _, err := FindMemberConflicts(nil, candidates); err == nil {
		t.Error("malformed candidate time must abort the check with an error")
	}
}

func TestValidityWindow(t *testing.T) {
	now := time.Date(2025, 3, 15, 14, 30, 0, 0, BusinessZone)

	start, end := ValidityWindow(model.PackageOneMonth, nil, now)
	if !start.Equal(time.Date(2025, 3, 15, 0, 0, 0, 0, BusinessZone)) {
		t.Errorf("start should truncate now to the business day, got %v", start)
	}
	// 1 month minus a day: March 15 -> April 14 inclusive.
	if !end.Equal(time.Date(2025, 4, 14, 0, 0, 0, 0, BusinessZone)) {
		t.Errorf("1-month window should end April 14, got %v", end)
	}

	explicit := time.Date(2025, 6, 1, 0, 0, 0, 0, BusinessZone)
	start, end = ValidityWindow(model.PackageThreeMonths, &explicit, now)
	if !start.Equal(explicit) {
		t.Errorf("explicit start should win over now, got %v", start)
	}
	if !end.Equal(time.Date(2025, 8, 31, 0, 0, 0, 0, BusinessZone)) {
		t.Errorf("3-month window from June 1 should end August 31, got %v", end)
	}
}

func reservationRow(id uint64, status model.Status, start, end, name string) model.Reservation {
	return model.Reservation{
		ID:           id,
		FieldID:      1,
		CustomerName: name,
		Date:         time.Date(2025, 3, 20, 0, 0, 0, 0, BusinessZone),
		StartTime:    start,
		EndTime:      end,
		Status:       status,
	}
}

func TestFindReservationConflictExactDuplicate(t *testing.T) {
	existing := []model.Reservation{
		reservationRow(7, model.StatusPending, "09:00", "10:00", "Dewi"),
	}
	c, err := FindReservationConflict(existing, "09:00", "10:00", 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c == nil {
		t.Fatal("exact duplicate range must conflict")
	}
	if c.ReservationID != 7 || c.HolderName != "Dewi" {
		t.Errorf("conflict should identify reservation 7 held by Dewi, got %+v", c)
	}
}

func TestFindReservationConflictThreeWays(t *testing.T) {
	existing := []model.Reservation{
		reservationRow(1, model.StatusDPPaid, "10:00", "12:00", "Dewi"),
	}
	cases := []struct {
		name       string
		start, end string
		want       bool
	}{
		{"starts inside", "11:00", "13:00", true},
		{"ends inside", "09:00", "11:00", true},
		{"contains", "09:00", "13:00", true},
		{"contained", "10:30", "11:30", true},
		{"before touching", "08:00", "10:00", false},
		{"after touching", "12:00", "14:00", false},
	}
	for _, tc := range cases {
		c, err := FindReservationConflict(existing, tc.start, tc.end, 0)
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", tc.name, err)
		}
		if (c != nil) != tc.want {
			t.Errorf("%s (%s-%s): conflict=%v, want %v", tc.name, tc.start, tc.end, c != nil, tc.want)
		}
	}
}

func TestFindReservationConflictIgnoresTerminal(t *testing.T) {
	existing := []model.Reservation{
		reservationRow(1, model.StatusRejected, "09:00", "10:00", "Dewi"),
		reservationRow(2, model.StatusCancelled, "09:00", "10:00", "Rudi"),
		reservationRow(3, model.StatusCompleted, "09:00", "10:00", "Tono"),
	}
	c, err := FindReservationConflict(existing, "09:00", "10:00", 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c != nil {
		t.Errorf("terminal reservations must free their slot, got conflict %+v", c)
	}
}

func TestFindReservationConflictExcludesSelf(t *testing.T) {
	existing := []model.Reservation{
		reservationRow(5, model.StatusDPPaid, "09:00", "10:00", "Dewi"),
	}
	// Rescheduling reservation 5 to an overlapping range must not collide
	// with its own prior slot.
	c, err := FindReservationConflict(existing, "09:30", "10:30", 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c != nil {
		t.Errorf("reservation must not conflict with itself, got %+v", c)
	}
	// But a different reservation on the same range still does.
	c, err = FindReservationConflict(existing, "09:30", "10:30", 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c == nil {
		t.Error("other bookings on the range must still conflict")
	}
}
