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

// ReservationHandler groups repositories required to create bookings,
// attach payment proofs and list reservations on behalf of customers.
// All methods assume that JWT authentication has already been performed
// by middleware.  Each write runs its conflict check and its mutation
// inside one transaction so a check never observes state that a
// concurrent request is about to invalidate.
type ReservationHandler struct {
	FieldRepo       *repository.FieldRepo
	ReservationRepo *repository.ReservationRepo
	Now             func() time.Time
}

// NewReservationHandler constructs a ReservationHandler.  All
// dependencies must be non-nil.
func NewReservationHandler(fieldRepo *repository.FieldRepo, reservationRepo *repository.ReservationRepo) *ReservationHandler {
	if fieldRepo == nil || reservationRepo == nil {
		panic("nil repository passed to NewReservationHandler")
	}
	return &ReservationHandler{FieldRepo: fieldRepo, ReservationRepo: reservationRepo, Now: time.Now}
}

// reservationView is the JSON shape of a reservation across the
// customer and admin APIs.
type reservationView struct {
	ID            uint64  `json:"id"`
	FieldID       uint64  `json:"field_id"`
	UserID        uint64  `json:"user_id"`
	CustomerName  string  `json:"customer_name"`
	CustomerPhone string  `json:"customer_phone"`
	Date          string  `json:"date"`
	StartTime     string  `json:"start_time"`
	EndTime       string  `json:"end_time"`
	TotalPrice    uint64  `json:"total_price"`
	PaymentType   string  `json:"payment_type"`
	PaymentAmount uint64  `json:"payment_amount"`
	Status        string  `json:"status"`
	PaymentStatus string  `json:"payment_status"`
	Note          *string `json:"note,omitempty"`

	DPProofURL            *string    `json:"dp_proof_url,omitempty"`
	DPSenderName          *string    `json:"dp_sender_name,omitempty"`
	DPValidatedAt         *time.Time `json:"dp_validated_at,omitempty"`
	SettlementProofURL    *string    `json:"settlement_proof_url,omitempty"`
	SettlementSenderName  *string    `json:"settlement_sender_name,omitempty"`
	SettlementValidatedAt *time.Time `json:"settlement_validated_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

func toReservationView(r model.Reservation) reservationView {
	return reservationView{
		ID:            r.ID,
		FieldID:       r.FieldID,
		UserID:        r.UserID,
		CustomerName:  r.CustomerName,
		CustomerPhone: r.CustomerPhone,
		Date:          r.Date.Format("2006-01-02"),
		StartTime:     r.StartTime,
		EndTime:       r.EndTime,
		TotalPrice:    r.TotalPrice,
		PaymentType:   string(r.PaymentType),
		PaymentAmount: r.PaymentAmount,
		Status:        string(r.Status),
		PaymentStatus: string(r.PaymentStatus),
		Note:          r.Note,

		DPProofURL:            r.DPProofURL,
		DPSenderName:          r.DPSenderName,
		DPValidatedAt:         r.DPValidatedAt,
		SettlementProofURL:    r.SettlementProofURL,
		SettlementSenderName:  r.SettlementSenderName,
		SettlementValidatedAt: r.SettlementValidatedAt,

		CreatedAt: r.CreatedAt,
	}
}

// Create handles POST /v1/reservations.  It validates the requested
// slot, runs the reservation conflict guard against all holding
// bookings on the same field and date under FOR UPDATE locks, and
// inserts the reservation in the same transaction.  A conflicting
// request gets 409 with the blocking entry; nothing is written.
func (h *ReservationHandler) Create(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var body struct {
		FieldID       uint64  `json:"field_id"`
		Date          string  `json:"date"`
		StartTime     string  `json:"start_time"`
		EndTime       string  `json:"end_time"`
		CustomerName  string  `json:"customer_name"`
		CustomerPhone string  `json:"customer_phone"`
		PaymentType   string  `json:"payment_type"`
		PaymentAmount *uint64 `json:"payment_amount"`
		Note          *string `json:"note"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if body.FieldID == 0 || strings.TrimSpace(body.CustomerName) == "" || strings.TrimSpace(body.CustomerPhone) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "field_id, customer_name and customer_phone are required"})
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
	payType := model.PaymentType(strings.ToUpper(strings.TrimSpace(body.PaymentType)))
	if payType != model.PaymentFull && payType != model.PaymentDP {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "payment_type must be FULL or DP"})
	}

	ctx := c.Request().Context()
	field, err := h.FieldRepo.GetActiveByID(ctx, body.FieldID)
	if err != nil {
		if errors.Is(err, repository.ErrFieldNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "field not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}

	totalPrice := field.PricePerHour * schedule.DurationHours(startMin, endMin)
	paymentAmount, err := paymentAmountFor(payType, totalPrice, body.PaymentAmount)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "payment_amount exceeds total price"})
	}

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

	existing, err := h.ReservationRepo.ListHoldingByFieldDateTx(ctx, tx, field.ID, date, 0)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to check availability"})
	}
	conflict, err := schedule.FindReservationConflict(existing, body.StartTime, body.EndTime, 0)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	if conflict != nil {
		return c.JSON(http.StatusConflict, echo.Map{
			"error":     "requested slot is already booked",
			"conflicts": []schedule.ReservationConflict{*conflict},
		})
	}

	res := &model.Reservation{
		FieldID:       field.ID,
		UserID:        userID,
		CustomerName:  strings.TrimSpace(body.CustomerName),
		CustomerPhone: strings.TrimSpace(body.CustomerPhone),
		Date:          date,
		StartTime:     body.StartTime,
		EndTime:       body.EndTime,
		TotalPrice:    totalPrice,
		PaymentType:   payType,
		PaymentAmount: paymentAmount,
		Status:        model.StatusPending,
		PaymentStatus: model.PayPending,
		Note:          body.Note,
	}
	if err := h.ReservationRepo.CreateTx(ctx, tx, res); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create reservation"})
	}
	if err := tx.Commit(); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to commit transaction"})
	}
	committed = true

	// Notify downstream consumers; failures are logged by the publisher
	// and never fail the booking.
	_ = queue_publisher.PublishReservationEvent(ctx, queue.ReservationEvent{
		Type:          queue.EventReservationCreated,
		ReservationID: res.ID,
		FieldID:       field.ID,
		FieldName:     field.Name,
		CustomerName:  res.CustomerName,
		Date:          res.Date.Format("2006-01-02"),
		StartTime:     res.StartTime,
		EndTime:       res.EndTime,
		Status:        string(res.Status),
		PaymentStatus: string(res.PaymentStatus),
		TotalPrice:    res.TotalPrice,
		OccurredAt:    h.Now().UTC().Format(time.RFC3339),
	})

	return c.JSON(http.StatusCreated, echo.Map{"item": toReservationView(*res)})
}

// ListMine handles GET /v1/my-reservations.  It returns all
// reservations created by the current user, newest first.
func (h *ReservationHandler) ListMine(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	ctx := c.Request().Context()
	reservations, err := h.ReservationRepo.ListByUser(ctx, userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load reservations"})
	}
	items := make([]reservationView, 0, len(reservations))
	for _, r := range reservations {
		items = append(items, toReservationView(r))
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// Get handles GET /v1/reservations/:id.  Customers can only read their
// own reservations; someone else's booking is reported as not found to
// avoid leaking its existence.
func (h *ReservationHandler) Get(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	resID, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid reservation id"})
	}
	ctx := c.Request().Context()
	res, err := h.ReservationRepo.GetByID(ctx, resID)
	if err != nil {
		if errors.Is(err, repository.ErrReservationNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "reservation not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to fetch reservation"})
	}
	if res.UserID != userID {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "reservation not found"})
	}
	return c.JSON(http.StatusOK, echo.Map{"item": toReservationView(res)})
}

// SubmitPaymentProof handles POST /v1/reservations/:id/payment-proof.
// The payment phase is an explicit field of the request; it is never
// inferred from the note text.  A deposit proof is recorded under the
// DP slot and leaves the payment awaiting validation; a settlement or
// full-payment proof moves the reservation to PELUNASAN_SENT.
func (h *ReservationHandler) SubmitPaymentProof(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	resID, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid reservation id"})
	}
	var body struct {
		Phase      string `json:"phase"`
		ProofURL   string `json:"proof_url"`
		SenderName string `json:"sender_name"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	phase, ok := model.ParsePaymentPhase(strings.ToUpper(strings.TrimSpace(body.Phase)))
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "phase must be DEPOSIT, SETTLEMENT or FULL"})
	}
	if strings.TrimSpace(body.ProofURL) == "" || strings.TrimSpace(body.SenderName) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "proof_url and sender_name are required"})
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
	if res.UserID != userID {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "reservation not found"})
	}

	var newStatus model.Status
	var newPay model.PayStatus
	switch phase {
	case model.PhaseDeposit:
		if res.PaymentType != model.PaymentDP {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "reservation is not deposit-based"})
		}
		newStatus, newPay = model.StatusDPSent, model.PayPending
		if err := model.Transition(res.Status, newStatus); err != nil {
			return illegalTransition(c, err)
		}
		if err := h.ReservationRepo.SetDepositProofTx(ctx, tx, res.ID, body.ProofURL, body.SenderName); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to record proof"})
		}
	case model.PhaseSettlement:
		if res.PaymentType != model.PaymentDP {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "reservation is not deposit-based"})
		}
		newStatus, newPay = model.StatusPelunasanSent, model.PayPelunasanSent
		if err := model.Transition(res.Status, newStatus); err != nil {
			return illegalTransition(c, err)
		}
		if err := h.ReservationRepo.SetSettlementProofTx(ctx, tx, res.ID, body.ProofURL, body.SenderName); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to record proof"})
		}
	case model.PhaseFull:
		if res.PaymentType != model.PaymentFull {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "reservation is not full-payment"})
		}
		newStatus, newPay = model.StatusPelunasanSent, model.PayPelunasanSent
		if err := model.Transition(res.Status, newStatus); err != nil {
			return illegalTransition(c, err)
		}
		if err := h.ReservationRepo.SetSettlementProofTx(ctx, tx, res.ID, body.ProofURL, body.SenderName); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to record proof"})
		}
	}
	if err := h.ReservationRepo.UpdateStatusTx(ctx, tx, res.ID, newStatus, newPay); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update reservation"})
	}
	if err := tx.Commit(); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to commit transaction"})
	}
	committed = true

	res.Status = newStatus
	res.PaymentStatus = newPay
	return c.JSON(http.StatusOK, echo.Map{"item": toReservationView(res)})
}

// errAmountExceedsTotal rejects a requested up-front payment larger than
// the booking's total price.
var errAmountExceedsTotal = errors.New("payment amount exceeds total price")

// paymentAmountFor resolves the up-front amount for a new booking: the
// full price for FULL, half for DP, overridden by an explicit request
// only when it does not exceed the total.
func paymentAmountFor(payType model.PaymentType, totalPrice uint64, requested *uint64) (uint64, error) {
	amount := totalPrice
	if payType == model.PaymentDP {
		amount = totalPrice / 2
	}
	if requested != nil && *requested > 0 {
		if *requested > totalPrice {
			return 0, errAmountExceedsTotal
		}
		amount = *requested
	}
	return amount, nil
}

// illegalTransition translates a state-machine rejection into 422 so
// clients can tell it apart from plain validation errors.
func illegalTransition(c echo.Context, err error) error {
	return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": err.Error()})
}
