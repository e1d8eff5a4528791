package schedule

import (
	"context"
	"fmt"
	"time"

	"github.com/rakhadimas/field-reservation/internal/model"
)

// HorizonDays is the rolling window the availability grid covers.
const HorizonDays = 365

// SlotStatus classifies one hourly window of the grid.
type SlotStatus string

const (
	SlotAvailable SlotStatus = "available"
	SlotBooked    SlotStatus = "booked"
	SlotMember    SlotStatus = "member"
)

// Slot is one one-hour window for one field on one date.  It is derived
// on every query and never persisted.  Occupant details are attached
// only for the matching status: ReservationID for booked slots, the
// member's name and phone for member slots.
type Slot struct {
	StartTime     string     `json:"start_time"`
	EndTime       string     `json:"end_time"`
	Status        SlotStatus `json:"status"`
	Price         uint64     `json:"price"`
	ReservationID *uint64    `json:"reservation_id,omitempty"`
	MemberName    *string    `json:"member_name,omitempty"`
	MemberPhone   *string    `json:"member_phone,omitempty"`
}

// DayAvailability is the full slot row for one calendar day.
type DayAvailability struct {
	Date    string `json:"date"`     // "YYYY-MM-DD"
	DayName string `json:"day_name"` // "Monday".."Sunday"
	Slots   []Slot `json:"slots"`
}

// FieldAvailability is the grid response: a field summary plus one
// DayAvailability per day of the horizon.
type FieldAvailability struct {
	FieldID      uint64            `json:"field_id"`
	FieldName    string            `json:"field_name"`
	PricePerHour uint64            `json:"price_per_hour"`
	Days         []DayAvailability `json:"days"`
}

// Source is the narrow read contract the grid generator needs.  The
// repository layer satisfies it; tests substitute counting fakes to
// pin down the two-fetch invariant.
type Source interface {
	// GetActiveField resolves a field that is present and active.
	GetActiveField(ctx context.Context, fieldID uint64) (model.Field, error)
	// ListActiveMemberSchedules returns every active schedule on the field.
	ListActiveMemberSchedules(ctx context.Context, fieldID uint64) ([]model.MemberSchedule, error)
	// ListReservationsInRange returns reservations on the field whose date
	// falls in [from, to) and whose status is not in excluded.
	ListReservationsInRange(ctx context.Context, fieldID uint64, from, to time.Time, excluded []model.Status) ([]model.Reservation, error)
}

// GenerateGrid builds the availability grid for one field starting at
// the business-local day of now.  It performs exactly one member fetch
// and one reservation fetch regardless of horizon length; every per-day
// and per-slot decision afterwards is in-memory filtering.  A naive
// per-slot query plan would cost 365x16 round trips, which is the whole
// reason this function exists as a unit.
func GenerateGrid(ctx context.Context, src Source, fieldID uint64, now time.Time) (*FieldAvailability, error) {
	field, err := src.GetActiveField(ctx, fieldID)
	if err != nil {
		return nil, err
	}

	start := TruncateToDay(now)
	end := start.AddDate(0, 0, HorizonDays)

	members, err := src.ListActiveMemberSchedules(ctx, fieldID)
	if err != nil {
		return nil, err
	}
	// Drop schedules whose package already expired before the horizon.
	live := members[:0]
	for _, m := range members {
		if !m.ValidUntil.Before(start) {
			live = append(live, m)
		}
	}
	members = live

	reservations, err := src.ListReservationsInRange(ctx, fieldID, start, end, model.GridExcludedStatuses())
	if err != nil {
		return nil, err
	}
	// Index reservations by calendar day for O(1) per-day lookup.
	byDate := make(map[string][]model.Reservation, len(reservations))
	for _, r := range reservations {
		key := TruncateToDay(r.Date).Format("2006-01-02")
		byDate[key] = append(byDate[key], r)
	}

	out := &FieldAvailability{
		FieldID:      field.ID,
		FieldName:    field.Name,
		PricePerHour: field.PricePerHour,
		Days:         make([]DayAvailability, 0, HorizonDays),
	}
	for i := 0; i < HorizonDays; i++ {
		day := start.AddDate(0, 0, i)
		dateStr := day.Format("2006-01-02")
		weekday := model.DayOfWeekFromTime(day.Weekday())

		var dayMembers []model.MemberSchedule
		for _, m := range members {
			if m.Day == weekday && m.CoversDate(day) {
				dayMembers = append(dayMembers, m)
			}
		}
		dayReservations := byDate[dateStr]

		row := DayAvailability{
			Date:    dateStr,
			DayName: weekday.HumanName(),
			Slots:   make([]Slot, 0, SlotsPerDay),
		}
		for h := OpenHour; h < CloseHour; h++ {
			slot, err := classifySlot(h, field.PricePerHour, dayReservations, dayMembers)
			if err != nil {
				return nil, err
			}
			row.Slots = append(row.Slots, slot)
		}
		out.Days = append(out.Days, row)
	}
	return out, nil
}

// classifySlot decides the status of one hourly slot.  A reservation
// wins over a member schedule when both cover the hour; the conflict
// guards prevent that from happening between two entries of the same
// kind, but a member slot can legitimately coincide with a one-off
// booking made before the membership started.
func classifySlot(hour int, price uint64, reservations []model.Reservation, members []model.MemberSchedule) (Slot, error) {
	slot := Slot{
		StartTime: fmt.Sprintf("%02d:00", hour),
		EndTime:   fmt.Sprintf("%02d:00", hour+1),
		Status:    SlotAvailable,
		Price:     price,
	}
	for _, r := range reservations {
		ok, err := coversHour(r.StartTime, r.EndTime, hour)
		if err != nil {
			return slot, fmt.Errorf("reservation %d: %w", r.ID, err)
		}
		if ok {
			id := r.ID
			slot.Status = SlotBooked
			slot.ReservationID = &id
			return slot, nil
		}
	}
	for _, m := range members {
		ok, err := coversHour(m.StartTime, m.EndTime, hour)
		if err != nil {
			return slot, fmt.Errorf("member schedule %d: %w", m.ID, err)
		}
		if ok {
			name, phone := m.MemberName, m.MemberPhone
			slot.Status = SlotMember
			slot.MemberName = &name
			slot.MemberPhone = &phone
			return slot, nil
		}
	}
	return slot, nil
}

// coversHour reports whether the stored [start, end) clock range,
// truncated to integer hours, contains the given slot hour.
func coversHour(start, end string, hour int) (bool, error) {
	s, err := ParseClock(start)
	if err != nil {
		return false, err
	}
	e, err := ParseClock(end)
	if err != nil {
		return false, err
	}
	return hour >= s/60 && hour < e/60, nil
}
