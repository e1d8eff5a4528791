package handler // handler defines http handlers

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/rakhadimas/field-reservation/internal/model"
	"github.com/rakhadimas/field-reservation/internal/repository"
	"github.com/rakhadimas/field-reservation/internal/schedule"
)

// getUserID extracts the user_id from echo.Context and converts it to uint64
func getUserID(c echo.Context) (uint64, error) {
	v := c.Get("user_id")
	switch t := v.(type) {
	case uint64:
		return t, nil
	case int:
		return uint64(t), nil
	case int64:
		return uint64(t), nil
	case float64:
		return uint64(t), nil
	case string:
		if n, err := strconv.ParseUint(t, 10, 64); err == nil {
			return n, nil
		}
	}
	return 0, errors.New("invalid user_id in context")
}

// parseID parses a numeric path parameter; zero is rejected.
func parseID(c echo.Context, name string) (uint64, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, errors.New("invalid " + name)
	}
	return id, nil
}

// queryUint parses an optional numeric query parameter; absent values
// return 0 with no error.
func queryUint(c echo.Context, name string) (uint64, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return 0, nil
	}
	return strconv.ParseUint(raw, 10, 64)
}

// parseDate parses a "YYYY-MM-DD" calendar day in the business zone.
func parseDate(s string) (time.Time, error) {
	return time.ParseInLocation("2006-01-02", s, schedule.BusinessZone)
}

// gridSource adapts the repositories to the schedule.Source contract so
// the grid generator stays decoupled from the storage layer.
type gridSource struct {
	fields       *repository.FieldRepo
	members      *repository.MemberScheduleRepo
	reservations *repository.ReservationRepo
}

func (s gridSource) GetActiveField(ctx context.Context, fieldID uint64) (model.Field, error) {
	return s.fields.GetActiveByID(ctx, fieldID)
}

func (s gridSource) ListActiveMemberSchedules(ctx context.Context, fieldID uint64) ([]model.MemberSchedule, error) {
	return s.members.ListActiveByField(ctx, fieldID)
}

func (s gridSource) ListReservationsInRange(ctx context.Context, fieldID uint64, from, to time.Time, excluded []model.Status) ([]model.Reservation, error) {
	return s.reservations.ListInRange(ctx, fieldID, from, to, excluded)
}
