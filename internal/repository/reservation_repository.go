package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/rakhadimas/field-reservation/internal/model"
)

// ReservationRepo provides CRUD operations for reservations.  Writes
// that depend on a prior conflict check expose Tx variants so the
// check, the lock and the mutation share one transaction; the grid and
// listing reads run outside transactions.  All dates are stored as
// DATE columns and all clock times as "HH:MM" strings.
type ReservationRepo struct {
	db *sql.DB
}

// NewReservationRepo returns a new ReservationRepo bound to the given database.
func NewReservationRepo(db *sql.DB) *ReservationRepo { return &ReservationRepo{db: db} }

// DB exposes the underlying handle so handlers can open transactions.
func (r *ReservationRepo) DB() *sql.DB { return r.db }

const reservationColumns = `id, field_id, user_id, customer_name, customer_phone, date, start_time, end_time,
	total_price, payment_type, payment_amount, status, payment_status, note,
	dp_proof_url, dp_sender_name, dp_validated_by, dp_validated_at,
	settlement_proof_url, settlement_sender_name, settlement_validated_by, settlement_validated_at,
	created_at, updated_at`

func scanReservation(row interface{ Scan(...any) error }) (model.Reservation, error) {
	var res model.Reservation
	var payType, status, payStatus string
	var note, dpProof, dpSender, setProof, setSender sql.NullString
	var dpBy, setBy sql.NullInt64
	var dpAt, setAt sql.NullTime
	err := row.Scan(&res.ID, &res.FieldID, &res.UserID, &res.CustomerName, &res.CustomerPhone,
		&res.Date, &res.StartTime, &res.EndTime,
		&res.TotalPrice, &payType, &res.PaymentAmount, &status, &payStatus, &note,
		&dpProof, &dpSender, &dpBy, &dpAt,
		&setProof, &setSender, &setBy, &setAt,
		&res.CreatedAt, &res.UpdatedAt)
	if err != nil {
		return res, err
	}
	res.PaymentType = model.PaymentType(payType)
	res.Status = model.Status(status)
	res.PaymentStatus = model.PayStatus(payStatus)
	if note.Valid {
		v := note.String
		res.Note = &v
	}
	if dpProof.Valid {
		v := dpProof.String
		res.DPProofURL = &v
	}
	if dpSender.Valid {
		v := dpSender.String
		res.DPSenderName = &v
	}
	if dpBy.Valid {
		v := uint64(dpBy.Int64)
		res.DPValidatedBy = &v
	}
	if dpAt.Valid {
		v := dpAt.Time
		res.DPValidatedAt = &v
	}
	if setProof.Valid {
		v := setProof.String
		res.SettlementProofURL = &v
	}
	if setSender.Valid {
		v := setSender.String
		res.SettlementSenderName = &v
	}
	if setBy.Valid {
		v := uint64(setBy.Int64)
		res.SettlementValidatedBy = &v
	}
	if setAt.Valid {
		v := setAt.Time
		res.SettlementValidatedAt = &v
	}
	return res, nil
}

func statusPlaceholders(statuses []model.Status) (string, []interface{}) {
	ph := make([]string, len(statuses))
	args := make([]interface{}, len(statuses))
	for i, s := range statuses {
		ph[i] = "?"
		args[i] = string(s)
	}
	return strings.Join(ph, ","), args
}

// CreateTx inserts a reservation within an existing transaction and
// reads the full row back to populate defaults and timestamps.  The
// caller must commit or roll back; the conflict guard runs in the same
// transaction before this insert.
func (r *ReservationRepo) CreateTx(ctx context.Context, tx *sql.Tx, res *model.Reservation) error {
	var note sql.NullString
	if res.Note != nil {
		note = sql.NullString{String: *res.Note, Valid: true}
	}
	const q = `INSERT INTO reservations
	           (field_id, user_id, customer_name, customer_phone, date, start_time, end_time,
	            total_price, payment_type, payment_amount, status, payment_status, note)
	           VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	result, err := tx.ExecContext(ctx, q,
		res.FieldID, res.UserID, res.CustomerName, res.CustomerPhone,
		res.Date.Format("2006-01-02"), res.StartTime, res.EndTime,
		res.TotalPrice, string(res.PaymentType), res.PaymentAmount,
		string(res.Status), string(res.PaymentStatus), note)
	if err != nil {
		return err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	created, err := r.getByIDTx(ctx, tx, uint64(id), false)
	if err != nil {
		return err
	}
	*res = created
	return nil
}

// ListHoldingByFieldDateTx returns the reservations that occupy slots
// on one field and date, locked FOR UPDATE.  This is the comparison
// set of the reservation conflict guard; running it inside the same
// transaction as the subsequent insert closes the check-then-write
// race between concurrent bookings.  excludeID skips the reservation
// being rescheduled (0 for none).
func (r *ReservationRepo) ListHoldingByFieldDateTx(ctx context.Context, tx *sql.Tx, fieldID uint64, date time.Time, excludeID uint64) ([]model.Reservation, error) {
	ph, args := statusPlaceholders(model.HoldingStatuses())
	q := `SELECT ` + reservationColumns + ` FROM reservations
	      WHERE field_id = ? AND date = ? AND status IN (` + ph + `) AND id <> ?
	      ORDER BY start_time
	      FOR UPDATE`
	all := append([]interface{}{fieldID, date.Format("2006-01-02")}, args...)
	all = append(all, excludeID)
	rows, err := tx.QueryContext(ctx, q, all...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectReservations(rows)
}

// ListInRange returns reservations on a field whose date falls in
// [from, to) excluding the given statuses.  This is the single
// reservation fetch of the availability grid.
func (r *ReservationRepo) ListInRange(ctx context.Context, fieldID uint64, from, to time.Time, excluded []model.Status) ([]model.Reservation, error) {
	q := `SELECT ` + reservationColumns + ` FROM reservations
	      WHERE field_id = ? AND date >= ? AND date < ?`
	args := []interface{}{fieldID, from.Format("2006-01-02"), to.Format("2006-01-02")}
	if len(excluded) > 0 {
		ph, exArgs := statusPlaceholders(excluded)
		q += ` AND status NOT IN (` + ph + `)`
		args = append(args, exArgs...)
	}
	q += ` ORDER BY date, start_time`
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectReservations(rows)
}

// GetByID returns a reservation or ErrReservationNotFound.
func (r *ReservationRepo) GetByID(ctx context.Context, id uint64) (model.Reservation, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+reservationColumns+` FROM reservations WHERE id = ?`, id)
	res, err := scanReservation(row)
	if err == sql.ErrNoRows {
		return res, ErrReservationNotFound
	}
	return res, err
}

// GetByIDTx loads a reservation FOR UPDATE so a lifecycle transition
// can validate the current state and write the new one atomically.
func (r *ReservationRepo) GetByIDTx(ctx context.Context, tx *sql.Tx, id uint64) (model.Reservation, error) {
	return r.getByIDTx(ctx, tx, id, true)
}

func (r *ReservationRepo) getByIDTx(ctx context.Context, tx *sql.Tx, id uint64, lock bool) (model.Reservation, error) {
	q := `SELECT ` + reservationColumns + ` FROM reservations WHERE id = ?`
	if lock {
		q += ` FOR UPDATE`
	}
	row := tx.QueryRowContext(ctx, q, id)
	res, err := scanReservation(row)
	if err == sql.ErrNoRows {
		return res, ErrReservationNotFound
	}
	return res, err
}

// UpdateStatusTx writes both lifecycle columns in one statement.  The
// caller has already validated the transition against the state table.
func (r *ReservationRepo) UpdateStatusTx(ctx context.Context, tx *sql.Tx, id uint64, status model.Status, pay model.PayStatus) error {
	_, err := tx.ExecContext(ctx,
		`UPDATE reservations SET status = ?, payment_status = ? WHERE id = ?`,
		string(status), string(pay), id)
	return err
}

// UpdateScheduleTx moves a reservation to a new date and time range.
// Only called after the conflict guard has passed in the same
// transaction.
func (r *ReservationRepo) UpdateScheduleTx(ctx context.Context, tx *sql.Tx, id uint64, date time.Time, startTime, endTime string, note *string) error {
	var n sql.NullString
	if note != nil {
		n = sql.NullString{String: *note, Valid: true}
	}
	_, err := tx.ExecContext(ctx,
		`UPDATE reservations SET date = ?, start_time = ?, end_time = ?, note = COALESCE(?, note) WHERE id = ?`,
		date.Format("2006-01-02"), startTime, endTime, n, id)
	return err
}

// SetDepositProofTx records a deposit payment proof and its sender.
func (r *ReservationRepo) SetDepositProofTx(ctx context.Context, tx *sql.Tx, id uint64, proofURL, senderName string) error {
	_, err := tx.ExecContext(ctx,
		`UPDATE reservations SET dp_proof_url = ?, dp_sender_name = ? WHERE id = ?`,
		proofURL, senderName, id)
	return err
}

// SetSettlementProofTx records a settlement (or full payment) proof and
// its sender.
func (r *ReservationRepo) SetSettlementProofTx(ctx context.Context, tx *sql.Tx, id uint64, proofURL, senderName string) error {
	_, err := tx.ExecContext(ctx,
		`UPDATE reservations SET settlement_proof_url = ?, settlement_sender_name = ? WHERE id = ?`,
		proofURL, senderName, id)
	return err
}

// SetDepositValidationTx records which admin validated the deposit and
// when.  Passed nil values clear the record (used when a proof is
// rejected and must be re-submitted).
func (r *ReservationRepo) SetDepositValidationTx(ctx context.Context, tx *sql.Tx, id uint64, adminID *uint64, at *time.Time) error {
	var by sql.NullInt64
	var ts sql.NullTime
	if adminID != nil {
		by = sql.NullInt64{Int64: int64(*adminID), Valid: true}
	}
	if at != nil {
		ts = sql.NullTime{Time: *at, Valid: true}
	}
	_, err := tx.ExecContext(ctx,
		`UPDATE reservations SET dp_validated_by = ?, dp_validated_at = ? WHERE id = ?`,
		by, ts, id)
	return err
}

// SetSettlementValidationTx records which admin validated the
// settlement and when.
func (r *ReservationRepo) SetSettlementValidationTx(ctx context.Context, tx *sql.Tx, id uint64, adminID *uint64, at *time.Time) error {
	var by sql.NullInt64
	var ts sql.NullTime
	if adminID != nil {
		by = sql.NullInt64{Int64: int64(*adminID), Valid: true}
	}
	if at != nil {
		ts = sql.NullTime{Time: *at, Valid: true}
	}
	_, err := tx.ExecContext(ctx,
		`UPDATE reservations SET settlement_validated_by = ?, settlement_validated_at = ? WHERE id = ?`,
		by, ts, id)
	return err
}

// ListByUser returns all reservations created by one customer, newest
// first.
func (r *ReservationRepo) ListByUser(ctx context.Context, userID uint64) ([]model.Reservation, error) {
	q := `SELECT ` + reservationColumns + ` FROM reservations
	      WHERE user_id = ?
	      ORDER BY created_at DESC`
	rows, err := r.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectReservations(rows)
}

// AdminFilter narrows the admin reservation listing.  Zero values mean
// "no filter" for that axis.
type AdminFilter struct {
	FieldID uint64
	Date    *time.Time
	Status  model.Status
}

// ListForAdmin returns reservations matching the filter, newest first.
func (r *ReservationRepo) ListForAdmin(ctx context.Context, f AdminFilter) ([]model.Reservation, error) {
	q := `SELECT ` + reservationColumns + ` FROM reservations WHERE 1=1`
	args := make([]interface{}, 0, 3)
	if f.FieldID != 0 {
		q += ` AND field_id = ?`
		args = append(args, f.FieldID)
	}
	if f.Date != nil {
		q += ` AND date = ?`
		args = append(args, f.Date.Format("2006-01-02"))
	}
	if f.Status != "" {
		q += ` AND status = ?`
		args = append(args, string(f.Status))
	}
	q += ` ORDER BY created_at DESC`
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectReservations(rows)
}

func collectReservations(rows *sql.Rows) ([]model.Reservation, error) {
	out := make([]model.Reservation, 0)
	for rows.Next() {
		res, err := scanReservation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, res)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
