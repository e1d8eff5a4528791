package schedule

import (
	"context"
	"testing"
	"time"

	"github.com/rakhadimas/field-reservation/internal/model"
)

// fakeSource serves canned rows and counts calls so the tests can pin
// down the fetch plan of the grid generator.
type fakeSource struct {
	field        model.Field
	fieldErr     error
	members      []model.MemberSchedule
	reservations []model.Reservation

	fieldCalls       int
	memberCalls      int
	reservationCalls int
}

func (f *fakeSource) GetActiveField(ctx context.Context, fieldID uint64) (model.Field, error) {
	f.fieldCalls++
	if f.fieldErr != nil {
		return model.Field{}, f.fieldErr
	}
	return f.field, nil
}

func (f *fakeSource) ListActiveMemberSchedules(ctx context.Context, fieldID uint64) ([]model.MemberSchedule, error) {
	f.memberCalls++
	return f.members, nil
}

func (f *fakeSource) ListReservationsInRange(ctx context.Context, fieldID uint64, from, to time.Time, excluded []model.Status) ([]model.Reservation, error) {
	f.reservationCalls++
	return f.reservations, nil
}

var testNow = time.Date(2025, 3, 17, 10, 0, 0, 0, BusinessZone) // a Monday

func testField() model.Field {
	return model.Field{ID: 1, Name: "Lapangan A", PricePerHour: 150000, IsActive: true}
}

func TestGenerateGridShape(t *testing.T) {
	src := &fakeSource{field: testField()}
	grid, err := GenerateGrid(context.Background(), src, 1, testNow)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(grid.Days) != HorizonDays {
		t.Fatalf("expected %d days, got %d", HorizonDays, len(grid.Days))
	}
	if grid.Days[0].Date != "2025-03-17" || grid.Days[0].DayName != "Monday" {
		t.Errorf("first day should be Monday 2025-03-17, got %s %s", grid.Days[0].DayName, grid.Days[0].Date)
	}
	for _, day := range grid.Days {
		if len(day.Slots) != SlotsPerDay {
			t.Fatalf("day %s has %d slots, want %d", day.Date, len(day.Slots), SlotsPerDay)
		}
	}
	first := grid.Days[0].Slots[0]
	last := grid.Days[0].Slots[SlotsPerDay-1]
	if first.StartTime != "06:00" || last.EndTime != "22:00" {
		t.Errorf("slots should run 06:00-22:00, got %s..%s", first.StartTime, last.EndTime)
	}
}

func TestGenerateGridEmptyAllAvailable(t *testing.T) {
	src := &fakeSource{field: testField()}
	grid, err := GenerateGrid(context.Background(), src, 1, testNow)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, day := range grid.Days {
		for _, s := range day.Slots {
			if s.Status != SlotAvailable {
				t.Fatalf("%s %s should be available, got %s", day.Date, s.StartTime, s.Status)
			}
			if s.Price != 150000 {
				t.Fatalf("slot price should carry the field rate, got %d", s.Price)
			}
		}
	}
}

func TestGenerateGridFetchPlan(t *testing.T) {
	src := &fakeSource{field: testField()}
	if _, err := GenerateGrid(context.Background(), src, 1, testNow); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// One member fetch and one reservation fetch for the whole horizon;
	// everything per-day must be in-memory.
	if src.memberCalls != 1 {
		t.Errorf("member schedules fetched %d times, want 1", src.memberCalls)
	}
	if src.reservationCalls != 1 {
		t.Errorf("reservations fetched %d times, want 1", src.reservationCalls)
	}
}

func TestGenerateGridBookedSlot(t *testing.T) {
	src := &fakeSource{
		field: testField(),
		reservations: []model.Reservation{
			{
				ID:           42,
				FieldID:      1,
				CustomerName: "Dewi",
				Date:         time.Date(2025, 3, 18, 0, 0, 0, 0, BusinessZone),
				StartTime:    "09:00",
				EndTime:      "11:00",
				Status:       model.StatusDPPaid,
			},
		},
	}
	grid, err := GenerateGrid(context.Background(), src, 1, testNow)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	day := grid.Days[1] // 2025-03-18
	if day.Date != "2025-03-18" {
		t.Fatalf("expected second day 2025-03-18, got %s", day.Date)
	}
	for _, s := range day.Slots {
		switch s.StartTime {
		case "09:00", "10:00":
			if s.Status != SlotBooked {
				t.Errorf("slot %s should be booked, got %s", s.StartTime, s.Status)
			}
			if s.ReservationID == nil || *s.ReservationID != 42 {
				t.Errorf("booked slot %s should carry reservation 42", s.StartTime)
			}
		default:
			if s.Status != SlotAvailable {
				t.Errorf("slot %s should be available, got %s", s.StartTime, s.Status)
			}
		}
	}
	// Same clock range on other days stays free.
	if got := grid.Days[0].Slots[3].Status; got != SlotAvailable {
		t.Errorf("Monday 09:00 should be available, got %s", got)
	}
}

func TestGenerateGridMemberValidityWindow(t *testing.T) {
	// Member holds Mondays 19:00-21:00, valid for the first week only.
	src := &fakeSource{
		field: testField(),
		members: []model.MemberSchedule{
			{
				ID:          3,
				FieldID:     1,
				MemberName:  "Budi",
				MemberPhone: "0812",
				Day:         model.Monday,
				StartTime:   "19:00",
				EndTime:     "21:00",
				ValidFrom:   time.Date(2025, 3, 17, 0, 0, 0, 0, BusinessZone),
				ValidUntil:  time.Date(2025, 3, 23, 0, 0, 0, 0, BusinessZone),
				IsActive:    true,
			},
		},
	}
	grid, err := GenerateGrid(context.Background(), src, 1, testNow)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	slotAt := func(dayIdx int, start string) Slot {
		for _, s := range grid.Days[dayIdx].Slots {
			if s.StartTime == start {
				return s
			}
		}
		t.Fatalf("no slot starting %s on day %d", start, dayIdx)
		return Slot{}
	}

	// Day 0 is Monday inside the window: 19:00 and 20:00 are member slots.
	s := slotAt(0, "19:00")
	if s.Status != SlotMember {
		t.Fatalf("Monday 19:00 inside the window should be a member slot, got %s", s.Status)
	}
	if s.MemberName == nil || *s.MemberName != "Budi" {
		t.Error("member slot should carry the member name")
	}
	if slotAt(0, "20:00").Status != SlotMember {
		t.Error("Monday 20:00 inside the window should be a member slot")
	}
	if slotAt(0, "18:00").Status != SlotAvailable {
		t.Error("Monday 18:00 is outside the member range and should be available")
	}

	// Day 7 is the next Monday, past valid_until: the slot is free again.
	if grid.Days[7].DayName != "Monday" {
		t.Fatalf("day 7 should be a Monday, got %s", grid.Days[7].DayName)
	}
	if got := slotAt(7, "19:00").Status; got != SlotAvailable {
		t.Errorf("next Monday 19:00 should be free after the window ends, got %s", got)
	}
}

// The driver scans valid_from/valid_until DATE columns as UTC midnights.
// A window starting on the grid's first day must still cover that day
// even though the UTC instant lands after the business-local midnight.
func TestGenerateGridMemberWindowScannedAsUTC(t *testing.T) {
	src := &fakeSource{
		field: testField(),
		members: []model.MemberSchedule{
			{
				ID:          4,
				FieldID:     1,
				MemberName:  "Budi",
				MemberPhone: "0812",
				Day:         model.Monday,
				StartTime:   "19:00",
				EndTime:     "21:00",
				ValidFrom:   time.Date(2025, 3, 17, 0, 0, 0, 0, time.UTC),
				ValidUntil:  time.Date(2025, 4, 16, 0, 0, 0, 0, time.UTC),
				IsActive:    true,
			},
		},
	}
	grid, err := GenerateGrid(context.Background(), src, 1, testNow)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, s := range grid.Days[0].Slots {
		if s.StartTime == "19:00" {
			if s.Status != SlotMember {
				t.Fatalf("first-day 19:00 slot should be a member slot, got %s", s.Status)
			}
			return
		}
	}
	t.Fatal("no 19:00 slot on the first day")
}

func TestGenerateGridMemberExpired(t *testing.T) {
	// The whole package expired before the horizon starts; the schedule
	// must never surface anywhere in the grid.
	src := &fakeSource{
		field: testField(),
		members: []model.MemberSchedule{
			{
				ID:         3,
				FieldID:    1,
				MemberName: "Budi",
				Day:        model.Monday,
				StartTime:  "19:00",
				EndTime:    "21:00",
				ValidFrom:  time.Date(2025, 2, 1, 0, 0, 0, 0, BusinessZone),
				ValidUntil: time.Date(2025, 3, 1, 0, 0, 0, 0, BusinessZone),
				IsActive:   true,
			},
		},
	}
	grid, err := GenerateGrid(context.Background(), src, 1, testNow)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, s := range grid.Days[0].Slots {
		if s.Status != SlotAvailable {
			t.Errorf("Monday %s should be available after the package expired, got %s", s.StartTime, s.Status)
		}
	}
}

func TestGenerateGridReservationWinsOverMember(t *testing.T) {
	src := &fakeSource{
		field: testField(),
		members: []model.MemberSchedule{
			{
				ID:         3,
				FieldID:    1,
				MemberName: "Budi",
				Day:        model.Monday,
				StartTime:  "19:00",
				EndTime:    "21:00",
				ValidFrom:  time.Date(2025, 1, 1, 0, 0, 0, 0, BusinessZone),
				ValidUntil: time.Date(2025, 12, 31, 0, 0, 0, 0, BusinessZone),
				IsActive:   true,
			},
		},
		reservations: []model.Reservation{
			{
				ID:        9,
				FieldID:   1,
				Date:      time.Date(2025, 3, 17, 0, 0, 0, 0, BusinessZone),
				StartTime: "19:00",
				EndTime:   "20:00",
				Status:    model.StatusPending,
			},
		},
	}
	grid, err := GenerateGrid(context.Background(), src, 1, testNow)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var got19, got20 SlotStatus
	for _, s := range grid.Days[0].Slots {
		if s.StartTime == "19:00" {
			got19 = s.Status
		}
		if s.StartTime == "20:00" {
			got20 = s.Status
		}
	}
	if got19 != SlotBooked {
		t.Errorf("19:00 should show the booking over the member slot, got %s", got19)
	}
	if got20 != SlotMember {
		t.Errorf("20:00 is member-only and should stay a member slot, got %s", got20)
	}
}
