package repository

import (
	"context"
	"database/sql"

	"github.com/rakhadimas/field-reservation/internal/model"
)

// MemberScheduleRepo persists recurring weekly member slots.  A member
// holding several weekly slots is stored as several rows created in one
// transaction, so a batch either lands completely or not at all.
type MemberScheduleRepo struct {
	db *sql.DB
}

// NewMemberScheduleRepo returns a new MemberScheduleRepo bound to the
// given database.
func NewMemberScheduleRepo(db *sql.DB) *MemberScheduleRepo { return &MemberScheduleRepo{db: db} }

// DB exposes the underlying handle for transaction management.
func (r *MemberScheduleRepo) DB() *sql.DB { return r.db }

const memberColumns = `id, field_id, member_name, member_phone, day_of_week, start_time, end_time,
	package_type, valid_from, valid_until, is_active, created_at`

func scanMemberSchedule(row interface{ Scan(...any) error }) (model.MemberSchedule, error) {
	var m model.MemberSchedule
	var day, pkg string
	err := row.Scan(&m.ID, &m.FieldID, &m.MemberName, &m.MemberPhone, &day, &m.StartTime, &m.EndTime,
		&pkg, &m.ValidFrom, &m.ValidUntil, &m.IsActive, &m.CreatedAt)
	if err != nil {
		return m, err
	}
	m.Day = model.DayOfWeek(day)
	m.Package = model.PackageType(pkg)
	return m, nil
}

// ListActiveByField returns every active schedule on a field in one
// query.  This is the single member fetch of the availability grid and
// of the member conflict guard.
func (r *MemberScheduleRepo) ListActiveByField(ctx context.Context, fieldID uint64) ([]model.MemberSchedule, error) {
	const q = `SELECT ` + memberColumns + ` FROM member_schedules
	           WHERE field_id = ? AND is_active = 1
	           ORDER BY day_of_week, start_time`
	rows, err := r.db.QueryContext(ctx, q, fieldID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectMemberSchedules(rows)
}

// ListActiveByFieldTx is ListActiveByField inside a transaction with
// FOR UPDATE row locks.  The member conflict guard must read under the
// same lock scope as the subsequent batch insert, otherwise two
// concurrent batches could both pass the check before either commits.
func (r *MemberScheduleRepo) ListActiveByFieldTx(ctx context.Context, tx *sql.Tx, fieldID uint64) ([]model.MemberSchedule, error) {
	const q = `SELECT ` + memberColumns + ` FROM member_schedules
	           WHERE field_id = ? AND is_active = 1
	           ORDER BY day_of_week, start_time
	           FOR UPDATE`
	rows, err := tx.QueryContext(ctx, q, fieldID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectMemberSchedules(rows)
}

// ListByField returns all schedules on a field including inactive and
// expired ones, newest first, for the admin dashboard.
func (r *MemberScheduleRepo) ListByField(ctx context.Context, fieldID uint64) ([]model.MemberSchedule, error) {
	const q = `SELECT ` + memberColumns + ` FROM member_schedules
	           WHERE field_id = ?
	           ORDER BY created_at DESC`
	rows, err := r.db.QueryContext(ctx, q, fieldID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectMemberSchedules(rows)
}

func collectMemberSchedules(rows *sql.Rows) ([]model.MemberSchedule, error) {
	out := make([]model.MemberSchedule, 0)
	for rows.Next() {
		m, err := scanMemberSchedule(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateBatchTx inserts all rows of a member batch in a single
// multi-row statement within the provided transaction.  Generated IDs
// are populated back onto the slice (MySQL allocates consecutive IDs
// for a multi-row insert).  Passing an empty slice has no effect.
func (r *MemberScheduleRepo) CreateBatchTx(ctx context.Context, tx *sql.Tx, schedules []model.MemberSchedule) error {
	if len(schedules) == 0 {
		return nil
	}
	query := `INSERT INTO member_schedules
	          (field_id, member_name, member_phone, day_of_week, start_time, end_time, package_type, valid_from, valid_until, is_active) VALUES `
	args := make([]interface{}, 0, len(schedules)*10)
	for i, m := range schedules {
		if i > 0 {
			query += ","
		}
		query += "(?, ?, ?, ?, ?, ?, ?, ?, ?, ?)"
		args = append(args, m.FieldID, m.MemberName, m.MemberPhone, string(m.Day), m.StartTime, m.EndTime,
			string(m.Package), m.ValidFrom.Format("2006-01-02"), m.ValidUntil.Format("2006-01-02"), m.IsActive)
	}
	res, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	first, err := res.LastInsertId()
	if err != nil {
		return err
	}
	for i := range schedules {
		schedules[i].ID = uint64(first) + uint64(i)
	}
	return nil
}

// Deactivate retires a member schedule so it stops blocking slots.  It
// returns ErrMemberScheduleNotFound when no active row matches.
func (r *MemberScheduleRepo) Deactivate(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE member_schedules SET is_active = 0 WHERE id = ? AND is_active = 1`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrMemberScheduleNotFound
	}
	return nil
}
