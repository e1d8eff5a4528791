package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/rakhadimas/field-reservation/internal/model"
	"github.com/rakhadimas/field-reservation/internal/repository"
	"github.com/rakhadimas/field-reservation/internal/schedule"
)

// MemberHandler exposes admin endpoints for recurring member slots.
// Route middleware enforces the ADMIN role before any method runs.
type MemberHandler struct {
	FieldRepo  *repository.FieldRepo
	MemberRepo *repository.MemberScheduleRepo
	Now        func() time.Time
}

// NewMemberHandler constructs a MemberHandler.  All dependencies must
// be non-nil.
func NewMemberHandler(fieldRepo *repository.FieldRepo, memberRepo *repository.MemberScheduleRepo) *MemberHandler {
	if fieldRepo == nil || memberRepo == nil {
		panic("nil repository passed to NewMemberHandler")
	}
	return &MemberHandler{FieldRepo: fieldRepo, MemberRepo: memberRepo, Now: time.Now}
}

type memberScheduleView struct {
	ID          uint64 `json:"id"`
	FieldID     uint64 `json:"field_id"`
	MemberName  string `json:"member_name"`
	MemberPhone string `json:"member_phone"`
	Day         string `json:"day"`
	StartTime   string `json:"start_time"`
	EndTime     string `json:"end_time"`
	Package     string `json:"package"`
	ValidFrom   string `json:"valid_from"`
	ValidUntil  string `json:"valid_until"`
	IsActive    bool   `json:"is_active"`
}

func toMemberScheduleView(m model.MemberSchedule) memberScheduleView {
	return memberScheduleView{
		ID:          m.ID,
		FieldID:     m.FieldID,
		MemberName:  m.MemberName,
		MemberPhone: m.MemberPhone,
		Day:         string(m.Day),
		StartTime:   m.StartTime,
		EndTime:     m.EndTime,
		Package:     string(m.Package),
		ValidFrom:   m.ValidFrom.Format("2006-01-02"),
		ValidUntil:  m.ValidUntil.Format("2006-01-02"),
		IsActive:    m.IsActive,
	}
}

// CreateBatch handles POST /v1/admin/members.  One call creates every
// weekly slot of a member in a single transaction: the guard loads all
// active schedules on the field under FOR UPDATE locks, collects every
// conflict across the whole batch, and only inserts when the batch is
// completely clean.  A single conflicting slot rejects all of them --
// there are no torn batches.
func (h *MemberHandler) CreateBatch(c echo.Context) error {
	var body struct {
		FieldID     uint64  `json:"field_id"`
		MemberName  string  `json:"member_name"`
		MemberPhone string  `json:"member_phone"`
		Package     string  `json:"package"`
		StartDate   *string `json:"start_date"` // optional explicit validity start
		Slots       []struct {
			Day       string `json:"day"`
			StartTime string `json:"start_time"`
			EndTime   string `json:"end_time"`
		} `json:"slots"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if body.FieldID == 0 || strings.TrimSpace(body.MemberName) == "" || strings.TrimSpace(body.MemberPhone) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "field_id, member_name and member_phone are required"})
	}
	if len(body.Slots) == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "at least one slot is required"})
	}

	candidates := make([]schedule.CandidateSlot, 0, len(body.Slots))
	for _, s := range body.Slots {
		day, ok := model.ParseDayOfWeek(s.Day)
		if !ok {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid day: " + s.Day})
		}
		if _, _, err := schedule.ValidateRange(s.StartTime, s.EndTime); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		}
		candidates = append(candidates, schedule.CandidateSlot{Day: day, StartTime: s.StartTime, EndTime: s.EndTime})
	}

	var explicitStart *time.Time
	if body.StartDate != nil && strings.TrimSpace(*body.StartDate) != "" {
		d, err := parseDate(*body.StartDate)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid start_date, want YYYY-MM-DD"})
		}
		explicitStart = &d
	}

	ctx := c.Request().Context()
	field, err := h.FieldRepo.GetActiveByID(ctx, body.FieldID)
	if err != nil {
		if errors.Is(err, repository.ErrFieldNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "field not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}

	tx, err := h.MemberRepo.DB().BeginTx(ctx, nil)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to start transaction"})
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	existing, err := h.MemberRepo.ListActiveByFieldTx(ctx, tx, field.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load member schedules"})
	}
	conflicts, err := schedule.FindMemberConflicts(existing, candidates)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	if len(conflicts) > 0 {
		return c.JSON(http.StatusConflict, echo.Map{
			"error":     "one or more requested slots conflict with existing members",
			"conflicts": conflicts,
		})
	}

	pkg := model.PackageType(strings.ToUpper(strings.TrimSpace(body.Package)))
	validFrom, validUntil := schedule.ValidityWindow(pkg, explicitStart, h.Now())

	rows := make([]model.MemberSchedule, 0, len(candidates))
	for _, cand := range candidates {
		rows = append(rows, model.MemberSchedule{
			FieldID:     field.ID,
			MemberName:  strings.TrimSpace(body.MemberName),
			MemberPhone: strings.TrimSpace(body.MemberPhone),
			Day:         cand.Day,
			StartTime:   cand.StartTime,
			EndTime:     cand.EndTime,
			Package:     pkg,
			ValidFrom:   validFrom,
			ValidUntil:  validUntil,
			IsActive:    true,
		})
	}
	if err := h.MemberRepo.CreateBatchTx(ctx, tx, rows); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create member schedules"})
	}
	if err := tx.Commit(); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to commit transaction"})
	}
	committed = true

	items := make([]memberScheduleView, 0, len(rows))
	for _, m := range rows {
		items = append(items, toMemberScheduleView(m))
	}
	return c.JSON(http.StatusCreated, echo.Map{"items": items})
}

// List handles GET /v1/admin/members?field_id=N.  It returns every
// schedule on a field including inactive and expired ones.
func (h *MemberHandler) List(c echo.Context) error {
	fieldID, err := queryUint(c, "field_id")
	if err != nil || fieldID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "field_id query parameter is required"})
	}
	ctx := c.Request().Context()
	schedules, err := h.MemberRepo.ListByField(ctx, fieldID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load member schedules"})
	}
	items := make([]memberScheduleView, 0, len(schedules))
	for _, m := range schedules {
		items = append(items, toMemberScheduleView(m))
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// Deactivate handles DELETE /v1/admin/members/:id.  Retiring a slot
// frees it in the next grid run; the row stays for history.
func (h *MemberHandler) Deactivate(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid member schedule id"})
	}
	ctx := c.Request().Context()
	if err := h.MemberRepo.Deactivate(ctx, id); err != nil {
		if errors.Is(err, repository.ErrMemberScheduleNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "member schedule not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to deactivate member schedule"})
	}
	return c.NoContent(http.StatusNoContent)
}
