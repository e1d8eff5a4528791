package repository

import (
	"context"
	"database/sql"

	"github.com/rakhadimas/field-reservation/internal/model"
)

// FieldRepo provides CRUD operations for fields.  Fields are never
// hard-deleted: deactivation flips is_active so historical reservations
// keep a valid reference.
type FieldRepo struct {
	db *sql.DB
}

// NewFieldRepo returns a new FieldRepo bound to the given database.
func NewFieldRepo(db *sql.DB) *FieldRepo { return &FieldRepo{db: db} }

// DB exposes the underlying handle so handlers can open transactions
// that span multiple repositories.
func (r *FieldRepo) DB() *sql.DB { return r.db }

const fieldColumns = `id, name, description, price_per_hour, is_active, created_at, updated_at`

func scanField(row interface{ Scan(...any) error }) (model.Field, error) {
	var f model.Field
	var desc sql.NullString
	err := row.Scan(&f.ID, &f.Name, &desc, &f.PricePerHour, &f.IsActive, &f.CreatedAt, &f.UpdatedAt)
	if err != nil {
		return f, err
	}
	if desc.Valid {
		d := desc.String
		f.Description = &d
	}
	return f, nil
}

// Create inserts a new field and populates the generated ID and
// timestamps on the provided model.
func (r *FieldRepo) Create(ctx context.Context, f *model.Field) error {
	var desc sql.NullString
	if f.Description != nil {
		desc = sql.NullString{String: *f.Description, Valid: true}
	}
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO fields (name, description, price_per_hour, is_active) VALUES (?, ?, ?, ?)`,
		f.Name, desc, f.PricePerHour, f.IsActive)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	f.ID = uint64(id)
	created, err := r.GetByID(ctx, f.ID)
	if err != nil {
		return err
	}
	*f = created
	return nil
}

// Update overwrites name, description and price of a field.  It returns
// ErrFieldNotFound when the field does not exist.
func (r *FieldRepo) Update(ctx context.Context, f *model.Field) error {
	var desc sql.NullString
	if f.Description != nil {
		desc = sql.NullString{String: *f.Description, Valid: true}
	}
	res, err := r.db.ExecContext(ctx,
		`UPDATE fields SET name = ?, description = ?, price_per_hour = ?, is_active = ? WHERE id = ?`,
		f.Name, desc, f.PricePerHour, f.IsActive, f.ID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		// RowsAffected is also 0 for a no-op update; confirm existence.
		if _, err := r.GetByID(ctx, f.ID); err != nil {
			return err
		}
	}
	return nil
}

// Deactivate hides a field from booking.  Existing reservations and
// member schedules are untouched.
func (r *FieldRepo) Deactivate(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, `UPDATE fields SET is_active = 0 WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		if _, err := r.GetByID(ctx, id); err != nil {
			return err
		}
	}
	return nil
}

// GetByID returns a field regardless of its active flag.
func (r *FieldRepo) GetByID(ctx context.Context, id uint64) (model.Field, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+fieldColumns+` FROM fields WHERE id = ?`, id)
	f, err := scanField(row)
	if err == sql.ErrNoRows {
		return f, ErrFieldNotFound
	}
	return f, err
}

// GetActiveByID returns a field that exists and is active; a missing or
// deactivated field yields ErrFieldNotFound either way, so the booking
// surface never reveals hidden fields.
func (r *FieldRepo) GetActiveByID(ctx context.Context, id uint64) (model.Field, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+fieldColumns+` FROM fields WHERE id = ? AND is_active = 1`, id)
	f, err := scanField(row)
	if err == sql.ErrNoRows {
		return f, ErrFieldNotFound
	}
	return f, err
}

// ListActive returns all active fields ordered by name, for the public
// booking surface.
func (r *FieldRepo) ListActive(ctx context.Context) ([]model.Field, error) {
	return r.list(ctx, `SELECT `+fieldColumns+` FROM fields WHERE is_active = 1 ORDER BY name`)
}

// ListAll returns every field including deactivated ones, for the admin
// dashboard.
func (r *FieldRepo) ListAll(ctx context.Context) ([]model.Field, error) {
	return r.list(ctx, `SELECT `+fieldColumns+` FROM fields ORDER BY name`)
}

func (r *FieldRepo) list(ctx context.Context, query string) ([]model.Field, error) {
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Field, 0)
	for rows.Next() {
		f, err := scanField(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
