package model

import (
	"strings"
	"time"
)

// DayOfWeek is the uppercase English name of a weekday as stored in the
// member_schedules table.  Using names instead of numbers keeps the rows
// readable and avoids the Sunday=0 vs Monday=0 ambiguity between systems.
type DayOfWeek string

const (
	Monday    DayOfWeek = "MONDAY"
	Tuesday   DayOfWeek = "TUESDAY"
	Wednesday DayOfWeek = "WEDNESDAY"
	Thursday  DayOfWeek = "THURSDAY"
	Friday    DayOfWeek = "FRIDAY"
	Saturday  DayOfWeek = "SATURDAY"
	Sunday    DayOfWeek = "SUNDAY"
)

// ParseDayOfWeek normalizes and validates a weekday name.  The second
// return value is false when the input does not name a weekday.
func ParseDayOfWeek(s string) (DayOfWeek, bool) {
	d := DayOfWeek(strings.ToUpper(strings.TrimSpace(s)))
	switch d {
	case Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday:
		return d, true
	}
	return "", false
}

// DayOfWeekFromTime maps a time.Weekday to its stored name.
func DayOfWeekFromTime(w time.Weekday) DayOfWeek {
	switch w {
	case time.Monday:
		return Monday
	case time.Tuesday:
		return Tuesday
	case time.Wednesday:
		return Wednesday
	case time.Thursday:
		return Thursday
	case time.Friday:
		return Friday
	case time.Saturday:
		return Saturday
	default:
		return Sunday
	}
}

// HumanName returns the weekday in title case for user-facing conflict
// messages ("Monday" rather than "MONDAY").
func (d DayOfWeek) HumanName() string {
	s := string(d)
	if s == "" {
		return s
	}
	return s[:1] + strings.ToLower(s[1:])
}

// PackageType enumerates the membership durations sold by the venue.
// The value is the number of months added to the validity start date.
type PackageType string

const (
	PackageOneMonth    PackageType = "1_MONTH"
	PackageTwoMonths   PackageType = "2_MONTHS"
	PackageThreeMonths PackageType = "3_MONTHS"
	PackageFourMonths  PackageType = "4_MONTHS"
	PackageFiveMonths  PackageType = "5_MONTHS"
	PackageSixMonths   PackageType = "6_MONTHS"
	PackageOneYear     PackageType = "12_MONTHS"
)

// Months returns the duration of the package in calendar months.
// Unrecognized package types fall back to one month, matching the
// booking desk's default offer.
func (p PackageType) Months() int {
	switch p {
	case PackageTwoMonths:
		return 2
	case PackageThreeMonths:
		return 3
	case PackageFourMonths:
		return 4
	case PackageFiveMonths:
		return 5
	case PackageSixMonths:
		return 6
	case PackageOneYear:
		return 12
	default:
		return 1
	}
}

// MemberSchedule is one recurring weekly commitment on a field.  A member
// holding several weekly slots is stored as several rows sharing the
// member's name, phone and validity window; each row is validated for
// conflicts independently.  Members are not user accounts -- only a
// name and contact string are recorded.
//
// Fields:
//  ID          – primary key identifier.
//  FieldID     – field the slot belongs to.
//  MemberName  – display name of the member.
//  MemberPhone – contact number of the member.
//  Day         – weekday of the recurring slot.
//  StartTime   – slot start as "HH:MM".
//  EndTime     – slot end as "HH:MM" (exclusive).
//  Package     – membership package that determined the validity window.
//  ValidFrom   – first calendar day the slot applies.
//  ValidUntil  – last calendar day the slot applies (inclusive).
//  IsActive    – whether the slot still blocks availability.
//  CreatedAt   – creation timestamp.
type MemberSchedule struct {
	ID          uint64      // member_schedules.id
	FieldID     uint64      // member_schedules.field_id
	MemberName  string      // member_schedules.member_name
	MemberPhone string      // member_schedules.member_phone
	Day         DayOfWeek   // member_schedules.day_of_week
	StartTime   string      // member_schedules.start_time ("HH:MM")
	EndTime     string      // member_schedules.end_time ("HH:MM", exclusive)
	Package     PackageType // member_schedules.package_type
	ValidFrom   time.Time   // member_schedules.valid_from (calendar day)
	ValidUntil  time.Time   // member_schedules.valid_until (calendar day, inclusive)
	IsActive    bool        // member_schedules.is_active
	CreatedAt   time.Time   // member_schedules.created_at
}

// CoversDate reports whether the schedule's validity window contains the
// given calendar day.  Comparison is done on dates only, each value read
// in its own location: the driver scans DATE columns as UTC midnights
// while grid days are business-local midnights, so comparing instants
// would shift the window by the zone offset.
func (m MemberSchedule) CoversDate(day time.Time) bool {
	d := day.Format("2006-01-02")
	return d >= m.ValidFrom.Format("2006-01-02") && d <= m.ValidUntil.Format("2006-01-02")
}
