package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/seongmin-k/festival-discovery/internal/model"
)

// FestivalRepo provides CRUD operations for festivals.  Categories are
// persisted as a single comma-delimited string; conversion to and from
// the ordered list on model.Festival happens here so business logic
// never sees the delimiter format.
type FestivalRepo struct {
	db *sql.DB
}

// NewFestivalRepo returns a new FestivalRepo bound to the given database.
func NewFestivalRepo(db *sql.DB) *FestivalRepo { return &FestivalRepo{db: db} }

const festivalCols = `id, name, description, location, categories, lat, lng, image_url, region, start_date, end_date`

// scanFestival reads one festival row from any row scanner and maps the
// nullable columns and the delimited category string onto the model.
func scanFestival(scan func(dest ...any) error) (*model.Festival, error) {
	var f model.Festival
	var categories, imageURL sql.NullString
	var lat, lng sql.NullFloat64
	if err := scan(
		&f.ID, &f.Name, &f.Description, &f.Location, &categories,
		&lat, &lng, &imageURL, &f.Region, &f.StartDate, &f.EndDate,
	); err != nil {
		return nil, err
	}
	f.Categories = model.SplitCategories(categories.String)
	if lat.Valid {
		v := lat.Float64
		f.Lat = &v
	}
	if lng.Valid {
		v := lng.Float64
		f.Lng = &v
	}
	if imageURL.Valid {
		v := imageURL.String
		f.ImageURL = &v
	}
	return &f, nil
}

// Create inserts a festival and populates its generated ID.
func (r *FestivalRepo) Create(ctx context.Context, f *model.Festival) error {
	const q = `INSERT INTO festivals (name, description, location, categories, lat, lng, image_url, region, start_date, end_date)
	           VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q,
		f.Name, f.Description, f.Location, model.JoinCategories(f.Categories),
		f.Lat, f.Lng, f.ImageURL, f.Region, f.StartDate, f.EndDate)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	f.ID = uint64(id)
	return nil
}

// GetByID returns a festival by id or ErrNotFound.
func (r *FestivalRepo) GetByID(ctx context.Context, id uint64) (*model.Festival, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+festivalCols+` FROM festivals WHERE id = ?`, id)
	f, err := scanFestival(row.Scan)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	return f, err
}

// Exists reports whether a festival with the given id exists.
func (r *FestivalRepo) Exists(ctx context.Context, id uint64) (bool, error) {
	var one int
	err := r.db.QueryRowContext(ctx, `SELECT 1 FROM festivals WHERE id = ?`, id).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// ListAll returns every festival in primary-key order.
func (r *FestivalRepo) ListAll(ctx context.Context) ([]model.Festival, error) {
	return r.list(ctx, `SELECT `+festivalCols+` FROM festivals ORDER BY id`)
}

// ListUpcoming returns festivals that have not yet ended on the given
// date, ordered by start date ascending.
func (r *FestivalRepo) ListUpcoming(ctx context.Context, from time.Time) ([]model.Festival, error) {
	return r.list(ctx, `SELECT `+festivalCols+` FROM festivals WHERE end_date >= ? ORDER BY start_date ASC`, from)
}

func (r *FestivalRepo) list(ctx context.Context, query string, args ...any) ([]model.Festival, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Festival, 0)
	for rows.Next() {
		f, err := scanFestival(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, *f)
	}
	return out, rows.Err()
}

// Update overwrites every mutable column of the festival row.  Partial
// merging against the existing record happens in the service layer.
func (r *FestivalRepo) Update(ctx context.Context, f *model.Festival) error {
	const q = `UPDATE festivals
	           SET name = ?, description = ?, location = ?, categories = ?, lat = ?, lng = ?, image_url = ?, region = ?, start_date = ?, end_date = ?
	           WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q,
		f.Name, f.Description, f.Location, model.JoinCategories(f.Categories),
		f.Lat, f.Lng, f.ImageURL, f.Region, f.StartDate, f.EndDate, f.ID)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		// The row may still exist when the update was a no-op, so verify.
		ok, err := r.Exists(ctx, f.ID)
		if err != nil {
			return err
		}
		if !ok {
			return ErrNotFound
		}
	}
	return nil
}

// DeleteTx removes the festival row inside an ongoing cascade
// transaction.  Dependent rows must already have been deleted.
func (r *FestivalRepo) DeleteTx(ctx context.Context, tx *sql.Tx, id uint64) error {
	_, err := tx.ExecContext(ctx, `DELETE FROM festivals WHERE id = ?`, id)
	return err
}
