package schedule

import (
	"fmt"
	"time"

	"github.com/rakhadimas/field-reservation/internal/model"
)

// CandidateSlot is one requested weekly slot in a member batch.
type CandidateSlot struct {
	Day       model.DayOfWeek
	StartTime string // "HH:MM"
	EndTime   string // "HH:MM", exclusive
}

// MemberConflict describes one collision between a candidate slot and an
// existing member schedule.  The holder name and human day name are
// included so clients can render an actionable message.
type MemberConflict struct {
	Day        string `json:"day"`
	StartTime  string `json:"start_time"`
	EndTime    string `json:"end_time"`
	HolderName string `json:"holder"`
}

func (c MemberConflict) String() string {
	return fmt.Sprintf("%s %s-%s is held by %s", c.Day, c.StartTime, c.EndTime, c.HolderName)
}

// FindMemberConflicts compares every candidate slot against every active
// schedule on the same weekday, and against the other slots of the same
// batch, and returns ALL collisions found, not just the first.  A
// non-empty result means the whole batch must be rejected; partial
// creation is never allowed.  Malformed candidate times abort the check
// with a validation error.
func FindMemberConflicts(existing []model.MemberSchedule, candidates []CandidateSlot) ([]MemberConflict, error) {
	starts := make([]int, len(candidates))
	ends := make([]int, len(candidates))
	for i, cand := range candidates {
		cs, ce, err := ValidateRange(cand.StartTime, cand.EndTime)
		if err != nil {
			return nil, err
		}
		starts[i], ends[i] = cs, ce
	}
	var conflicts []MemberConflict
	for i, cand := range candidates {
		for _, ex := range existing {
			if ex.Day != cand.Day {
				continue
			}
			es, err := ParseClock(ex.StartTime)
			if err != nil {
				return nil, fmt.Errorf("stored schedule %d has bad start time: %w", ex.ID, err)
			}
			ee, err := ParseClock(ex.EndTime)
			if err != nil {
				return nil, fmt.Errorf("stored schedule %d has bad end time: %w", ex.ID, err)
			}
			if Overlaps(starts[i], ends[i], es, ee) {
				conflicts = append(conflicts, MemberConflict{
					Day:        ex.Day.HumanName(),
					StartTime:  ex.StartTime,
					EndTime:    ex.EndTime,
					HolderName: ex.MemberName,
				})
			}
		}
		// Slots inside one batch can also collide with each other.
		for j := 0; j < i; j++ {
			if candidates[j].Day != cand.Day {
				continue
			}
			if Overlaps(starts[i], ends[i], starts[j], ends[j]) {
				conflicts = append(conflicts, MemberConflict{
					Day:        cand.Day.HumanName(),
					StartTime:  candidates[j].StartTime,
					EndTime:    candidates[j].EndTime,
					HolderName: "another slot in this request",
				})
			}
		}
	}
	return conflicts, nil
}

// ValidityWindow computes the validity date range for a member batch.
// The window starts at the explicit start date when given, otherwise at
// the business-local day of now, and ends inclusively after the
// package's calendar months (start + months - 1 day).
func ValidityWindow(pkg model.PackageType, explicitStart *time.Time, now time.Time) (time.Time, time.Time) {
	start := now
	if explicitStart != nil {
		start = *explicitStart
	}
	start = TruncateToDay(start)
	end := start.AddDate(0, pkg.Months(), -1)
	return start, end
}

// ReservationConflict describes the existing booking that blocks a
// candidate reservation.
type ReservationConflict struct {
	ReservationID uint64 `json:"reservation_id"`
	Date          string `json:"date"`
	StartTime     string `json:"start_time"`
	EndTime       string `json:"end_time"`
	HolderName    string `json:"holder"`
}

// FindReservationConflict checks a candidate time range against the
// holding reservations already loaded for the same field and date.
// excludeID skips the reservation being rescheduled so it cannot
// conflict with its own prior slot; pass 0 for a fresh booking.
//
// The comparison covers the three overlap cases explicitly (candidate
// starts inside, candidate ends inside, candidate swallows the existing
// booking) with half-open boundaries, so back-to-back bookings that
// touch at one instant are allowed.  The first collision is returned.
func FindReservationConflict(existing []model.Reservation, startTime, endTime string, excludeID uint64) (*ReservationConflict, error) {
	cs, ce, err := ValidateRange(startTime, endTime)
	if err != nil {
		return nil, err
	}
	for _, ex := range existing {
		if excludeID != 0 && ex.ID == excludeID {
			continue
		}
		if !ex.Status.Holding() {
			continue
		}
		es, err := ParseClock(ex.StartTime)
		if err != nil {
			return nil, fmt.Errorf("stored reservation %d has bad start time: %w", ex.ID, err)
		}
		ee, err := ParseClock(ex.EndTime)
		if err != nil {
			return nil, fmt.Errorf("stored reservation %d has bad end time: %w", ex.ID, err)
		}
		startsInside := cs >= es && cs < ee
		endsInside := ce > es && ce <= ee
		contains := cs <= es && ce >= ee
		if startsInside || endsInside || contains {
			return &ReservationConflict{
				ReservationID: ex.ID,
				Date:          ex.Date.Format("2006-01-02"),
				StartTime:     ex.StartTime,
				EndTime:       ex.EndTime,
				HolderName:    ex.CustomerName,
			}, nil
		}
	}
	return nil, nil
}
