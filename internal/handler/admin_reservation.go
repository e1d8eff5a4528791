package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/rakhadimas/field-reservation/internal/model"
	"github.com/rakhadimas/field-reservation/internal/queue"
	"github.com/rakhadimas/field-reservation/internal/repository"
	"github.com/rakhadimas/field-reservation/internal/schedule"
	queue_publisher "github.com/rakhadimas/field-reservation/internal/service"
)

// AdminReservationHandler exposes the staff actions that drive the
// reservation lifecycle: reject, reschedule, payment validation,
// complete and cancel.  Every mutation loads the reservation FOR
// UPDATE, validates the transition against the state table and writes
// the result in one transaction, so an illegal action never leaves a
// partial update behind.
type AdminReservationHandler struct {
	FieldRepo       *repository.FieldRepo
	ReservationRepo *repository.ReservationRepo
	Now             func() time.Time
}

// NewAdminReservationHandler constructs an AdminReservationHandler.
func NewAdminReservationHandler(fieldRepo *repository.FieldRepo, reservationRepo *repository.ReservationRepo) *AdminReservationHandler {
	if fieldRepo == nil || reservationRepo == nil {
		panic("nil repository passed to NewAdminReservationHandler")
	}
	return &AdminReservationHandler{FieldRepo: fieldRepo, ReservationRepo: reservationRepo, Now: time.Now}
}

// List handles GET /v1/admin/reservations with optional field_id, date
// and status query filters.
func (h *AdminReservationHandler) List(c echo.Context) error {
	var filter repository.AdminFilter
	fieldID, err := queryUint(c, "field_id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid field_id"})
	}
	filter.FieldID = fieldID
	if raw := c.QueryParam("date"); raw != "" {
		d, err := parseDate(raw)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid date, want YYYY-MM-DD"})
		}
		filter.Date = &d
	}
	if raw := c.QueryParam("status"); raw != "" {
		filter.Status = model.Status(strings.ToUpper(raw))
	}
	reservations, err := h.ReservationRepo.ListForAdmin(c.Request().Context(), filter)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load reservations"})
	}
	items := make([]reservationView, 0, len(reservations))
	for _, r := range reservations {
		items = append(items, toReservationView(r))
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// Reject handles PATCH /v1/admin/reservations/:id/reject.  Rejecting a
// reservation frees its slot.  Rejecting one that is already terminal
// is an error, not a no-op: the second reject of the same booking gets
// 422.
func (h *AdminReservationHandler) Reject(c echo.Context) error {
	return h.transition(c, func(res model.Reservation) (model.Status, model.PayStatus, error) {
		if err := model.Transition(res.Status, model.StatusRejected); err != nil {
			return "", "", err
		}
		return model.StatusRejected, model.PayRejected, nil
	})
}

// Complete handles PATCH /v1/admin/reservations/:id/complete.
func (h *AdminReservationHandler) Complete(c echo.Context) error {
	return h.transition(c, func(res model.Reservation) (model.Status, model.PayStatus, error) {
		if err := model.Transition(res.Status, model.StatusCompleted); err != nil {
			return "", "", err
		}
		return model.StatusCompleted, res.PaymentStatus, nil
	})
}

// Cancel handles PATCH /v1/admin/reservations/:id/cancel.  Money that
// was already validated is marked for refund.
func (h *AdminReservationHandler) Cancel(c echo.Context) error {
	return h.transition(c, func(res model.Reservation) (model.Status, model.PayStatus, error) {
		if err := model.Transition(res.Status, model.StatusCancelled); err != nil {
			return "", "", err
		}
		pay := res.PaymentStatus
		if pay == model.PayDPPaid || pay == model.PayPaid {
			pay = model.PayRefunded
		}
		return model.StatusCancelled, pay, nil
	})
}

// transition runs one table-validated lifecycle move in a transaction
// and publishes the status change.
func (h *AdminReservationHandler) transition(c echo.Context, decide func(model.Reservation) (model.Status, model.PayStatus, error)) error {
	resID, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid reservation id"})
	}
	ctx := c.Request().Context()
	tx, err := h.ReservationRepo.DB().BeginTx(ctx, nil)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to start transaction"})
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	res, err := h.ReservationRepo.GetByIDTx(ctx, tx, resID)
	if err != nil {
		if errors.Is(err, repository.ErrReservationNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "reservation not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load reservation"})
	}
	newStatus, newPay, err := decide(res)
	if err != nil {
		if errors.Is(err, model.ErrIllegalTransition) {
			return illegalTransition(c, err)
		}
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	if err := h.ReservationRepo.UpdateStatusTx(ctx, tx, res.ID, newStatus, newPay); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update reservation"})
	}
	if err := tx.Commit(); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to commit transaction"})
	}
	committed = true

	h.publishStatusChange(c, res, newStatus, newPay)
	res.Status = newStatus
	res.PaymentStatus = newPay
	return c.JSON(http.StatusOK, echo.Map{"item": toReservationView(res)})
}

// Reschedule handles PATCH /v1/admin/reservations/:id/reschedule.  It
// re-runs the reservation conflict guard against the new date and time
// (excluding the reservation itself, so its old slot cannot block the
// move) before touching the row.  On conflict the reservation is left
// untouched and the blocking entry is returned.
func (h *AdminReservationHandler) Reschedule(c echo.Context) error {
	resID, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid reservation id"})
	}
	var body struct {
		Date      string  `json:"date"`
		StartTime string  `json:"start_time"`
		EndTime   string  `json:"end_time"`
		Note      *string `json:"note"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	date, err := parseDate(body.Date)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid date, want YYYY-MM-DD"})
	}
	startMin, endMin, err := schedule.ValidateRange(body.StartTime, body.EndTime)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	if startMin < schedule.OpenHour*60 || endMin > schedule.CloseHour*60 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "bookings are accepted between 06:00 and 22:00"})
	}

	ctx := c.Request().Context()
	tx, err := h.ReservationRepo.DB().BeginTx(ctx, nil)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to start transaction"})
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	res, err := h.ReservationRepo.GetByIDTx(ctx, tx, resID)
	if err != nil {
		if errors.Is(err, repository.ErrReservationNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "reservation not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load reservation"})
	}
	if res.Status.Terminal() {
		return illegalTransition(c, errors.New("cannot reschedule a "+string(res.Status)+" reservation"))
	}

	existing, err := h.ReservationRepo.ListHoldingByFieldDateTx(ctx, tx, res.FieldID, date, res.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to check availability"})
	}
	conflict, err := schedule.FindReservationConflict(existing, body.StartTime, body.EndTime, res.ID)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	if conflict != nil {
		return c.JSON(http.StatusConflict, echo.Map{
			"error":     "requested slot is already booked",
			"conflicts": []schedule.ReservationConflict{*conflict},
		})
	}
	if err := h.ReservationRepo.UpdateScheduleTx(ctx, tx, res.ID, date, body.StartTime, body.EndTime, body.Note); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to reschedule reservation"})
	}
	if err := tx.Commit(); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to commit transaction"})
	}
	committed = true

	res.Date = date
	res.StartTime = body.StartTime
	res.EndTime = body.EndTime
	if body.Note != nil {
		res.Note = body.Note
	}
	return c.JSON(http.StatusOK, echo.Map{"item": toReservationView(res)})
}

// ValidatePayment handles PATCH /v1/admin/reservations/:id/validate-payment.
// The request names the phase explicitly and whether the proof is
// approved.  Approval moves the payment forward and records the
// validating admin and timestamp; rejection of a settlement proof
// falls back to the last good state (DP_PAID for deposit-based
// bookings, PENDING for full-payment ones).
func (h *AdminReservationHandler) ValidatePayment(c echo.Context) error {
	adminID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	resID, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid reservation id"})
	}
	var body struct {
		Phase    string `json:"phase"`
		Approved *bool  `json:"approved"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	phase, ok := model.ParsePaymentPhase(strings.ToUpper(strings.TrimSpace(body.Phase)))
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "phase must be DEPOSIT, SETTLEMENT or FULL"})
	}
	if body.Approved == nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "approved is required"})
	}

	ctx := c.Request().Context()
	tx, err := h.ReservationRepo.DB().BeginTx(ctx, nil)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to start transaction"})
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	res, err := h.ReservationRepo.GetByIDTx(ctx, tx, resID)
	if err != nil {
		if errors.Is(err, repository.ErrReservationNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "reservation not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load reservation"})
	}

	if !phaseMatchesPaymentType(phase, res.PaymentType) {
		msg := "reservation is not deposit-based"
		if phase == model.PhaseFull {
			msg = "reservation is not full-payment"
		}
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}

	now := h.Now().UTC()
	newStatus, newPay := validationOutcome(phase, *body.Approved, res.PaymentType)
	if err := model.Transition(res.Status, newStatus); err != nil {
		return illegalTransition(c, err)
	}

	if phase == model.PhaseDeposit {
		if err := h.ReservationRepo.SetDepositValidationTx(ctx, tx, res.ID, &adminID, &now); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to record validation"})
		}
	} else {
		if err := h.ReservationRepo.SetSettlementValidationTx(ctx, tx, res.ID, &adminID, &now); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to record validation"})
		}
	}
	if err := h.ReservationRepo.UpdateStatusTx(ctx, tx, res.ID, newStatus, newPay); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update reservation"})
	}
	if err := tx.Commit(); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to commit transaction"})
	}
	committed = true

	h.publishStatusChange(c, res, newStatus, newPay)
	res.Status = newStatus
	res.PaymentStatus = newPay
	return c.JSON(http.StatusOK, echo.Map{"item": toReservationView(res)})
}

// phaseMatchesPaymentType reports whether a validation phase applies to
// the reservation's payment type.  DEPOSIT and SETTLEMENT exist only for
// deposit-based bookings, FULL only for full-payment ones.
func phaseMatchesPaymentType(phase model.PaymentPhase, payType model.PaymentType) bool {
	if phase == model.PhaseFull {
		return payType == model.PaymentFull
	}
	return payType == model.PaymentDP
}

// validationOutcome maps an admin's approve/reject decision on a payment
// phase to the resulting reservation and payment statuses.  A rejected
// settlement falls back to DP_PAID for deposit bookings; a rejected full
// payment returns the reservation to PENDING.
func validationOutcome(phase model.PaymentPhase, approved bool, payType model.PaymentType) (model.Status, model.PayStatus) {
	switch {
	case phase == model.PhaseDeposit && approved:
		return model.StatusDPPaid, model.PayDPPaid
	case phase == model.PhaseDeposit:
		return model.StatusDPRejected, model.PayDPRejected
	case approved: // SETTLEMENT or FULL
		return model.StatusPelunasanPaid, model.PayPaid
	case payType == model.PaymentDP:
		return model.StatusDPPaid, model.PayDPPaid
	default:
		return model.StatusPending, model.PayPending
	}
}

// publishStatusChange emits a status-change event; failures are logged
// by the publisher and never surface to the client.
func (h *AdminReservationHandler) publishStatusChange(c echo.Context, res model.Reservation, status model.Status, pay model.PayStatus) {
	fieldName := ""
	if f, err := h.FieldRepo.GetByID(c.Request().Context(), res.FieldID); err == nil {
		fieldName = f.Name
	}
	_ = queue_publisher.PublishReservationEvent(c.Request().Context(), queue.ReservationEvent{
		Type:          queue.EventReservationStatusChanged,
		ReservationID: res.ID,
		FieldID:       res.FieldID,
		FieldName:     fieldName,
		CustomerName:  res.CustomerName,
		Date:          res.Date.Format("2006-01-02"),
		StartTime:     res.StartTime,
		EndTime:       res.EndTime,
		Status:        string(status),
		PaymentStatus: string(pay),
		TotalPrice:    res.TotalPrice,
		OccurredAt:    h.Now().UTC().Format(time.RFC3339),
	})
}
