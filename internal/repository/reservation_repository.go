package repository

import (
	"context"
	"database/sql"

	"github.com/seongmin-k/festival-discovery/internal/model"
)

// ReservationRepo provides persistence for reservations.  Review
// eligibility is derived from this table: a user may review a festival
// only when at least one of their reservations points at a product of
// that festival, regardless of the reservation's status.
type ReservationRepo struct {
	db *sql.DB
}

// NewReservationRepo returns a new ReservationRepo bound to the given database.
func NewReservationRepo(db *sql.DB) *ReservationRepo { return &ReservationRepo{db: db} }

// ReservationDetail is a reservation joined with festival and product
// display fields for API responses.
type ReservationDetail struct {
	model.Reservation
	FestivalName    string
	ProductName     string
	ProductImageURL *string
}

const reservationCols = `r.id, r.user_id, r.festival_id, r.product_id, r.discount_rate, r.reserved_at, r.date, r.time, r.head_count, r.status`

func scanReservation(scan func(dest ...any) error, withDetail bool) (*ReservationDetail, error) {
	var d ReservationDetail
	var discount sql.NullFloat64
	dest := []any{
		&d.ID, &d.UserID, &d.FestivalID, &d.ProductID, &discount,
		&d.ReservedAt, &d.Date, &d.Time, &d.HeadCount, &d.Status,
	}
	var productImage sql.NullString
	if withDetail {
		dest = append(dest, &d.FestivalName, &d.ProductName, &productImage)
	}
	if err := scan(dest...); err != nil {
		return nil, err
	}
	if discount.Valid {
		v := discount.Float64
		d.DiscountRate = &v
	}
	if productImage.Valid {
		v := productImage.String
		d.ProductImageURL = &v
	}
	return &d, nil
}

// Create inserts a reservation and populates its generated ID.
func (r *ReservationRepo) Create(ctx context.Context, res *model.Reservation) error {
	const q = `INSERT INTO reservations (user_id, festival_id, product_id, discount_rate, reserved_at, date, time, head_count, status)
	           VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	result, err := r.db.ExecContext(ctx, q,
		res.UserID, res.FestivalID, res.ProductID, res.DiscountRate,
		res.ReservedAt, res.Date, res.Time, res.HeadCount, res.Status)
	if err != nil {
		return err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	res.ID = uint64(id)
	return nil
}

// GetByID returns a reservation by id or ErrNotFound.
func (r *ReservationRepo) GetByID(ctx context.Context, id uint64) (*model.Reservation, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+reservationCols+` FROM reservations r WHERE r.id = ?`, id)
	d, err := scanReservation(row.Scan, false)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &d.Reservation, nil
}

// GetByIDForUser returns the reservation only when it belongs to the
// given user.  Existence and ownership are a single combined lookup so
// callers cannot distinguish another user's reservation from a missing
// one.
func (r *ReservationRepo) GetByIDForUser(ctx context.Context, id, userID uint64) (*model.Reservation, error) {
	const q = `SELECT ` + reservationCols + ` FROM reservations r WHERE r.id = ? AND r.user_id = ?`
	row := r.db.QueryRowContext(ctx, q, id, userID)
	d, err := scanReservation(row.Scan, false)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &d.Reservation, nil
}

// GetDetailByID returns a reservation joined with festival and product
// display fields, or ErrNotFound.
func (r *ReservationRepo) GetDetailByID(ctx context.Context, id uint64) (*ReservationDetail, error) {
	const q = `SELECT ` + reservationCols + `, f.name, p.name, p.image_url
	           FROM reservations r
	           JOIN festivals f ON f.id = r.festival_id
	           JOIN products p ON p.id = r.product_id
	           WHERE r.id = ?`
	row := r.db.QueryRowContext(ctx, q, id)
	d, err := scanReservation(row.Scan, true)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	return d, err
}

// ListByUser returns all reservations of a user, newest first.
func (r *ReservationRepo) ListByUser(ctx context.Context, userID uint64) ([]ReservationDetail, error) {
	const q = `SELECT ` + reservationCols + `, f.name, p.name, p.image_url
	           FROM reservations r
	           JOIN festivals f ON f.id = r.festival_id
	           JOIN products p ON p.id = r.product_id
	           WHERE r.user_id = ?
	           ORDER BY r.reserved_at DESC, r.id DESC`
	return r.listDetails(ctx, q, userID)
}

// ListAll returns every reservation with its display fields.
func (r *ReservationRepo) ListAll(ctx context.Context) ([]ReservationDetail, error) {
	const q = `SELECT ` + reservationCols + `, f.name, p.name, p.image_url
	           FROM reservations r
	           JOIN festivals f ON f.id = r.festival_id
	           JOIN products p ON p.id = r.product_id
	           ORDER BY r.id`
	return r.listDetails(ctx, q)
}

func (r *ReservationRepo) listDetails(ctx context.Context, query string, args ...any) ([]ReservationDetail, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]ReservationDetail, 0)
	for rows.Next() {
		d, err := scanReservation(rows.Scan, true)
		if err != nil {
			return nil, err
		}
		out = append(out, *d)
	}
	return out, rows.Err()
}

// CountByUserExcludingStatus counts a user's reservations whose status
// differs from the given one.  Used with StatusCancelled it yields the
// active-reservation count, which includes ATTENDED rows.
func (r *ReservationRepo) CountByUserExcludingStatus(ctx context.Context, userID uint64, status string) (int64, error) {
	var n int64
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM reservations WHERE user_id = ? AND status <> ?`,
		userID, status).Scan(&n)
	return n, err
}

// ExistsByUserAndProductFestivalTx reports whether the user holds any
// reservation for a product of the given festival, in any status.
// Cancelled reservations still count as eligibility proof.
func (r *ReservationRepo) ExistsByUserAndProductFestivalTx(ctx context.Context, tx *sql.Tx, userID, festivalID uint64) (bool, error) {
	const q = `SELECT EXISTS (
	               SELECT 1 FROM reservations r
	               JOIN products p ON p.id = r.product_id
	               WHERE r.user_id = ? AND p.festival_id = ?)`
	var exists bool
	if err := tx.QueryRowContext(ctx, q, userID, festivalID).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

// ExistsByUserAndProductFestival is the non-transactional variant used
// by the eligibility probe endpoint.
func (r *ReservationRepo) ExistsByUserAndProductFestival(ctx context.Context, userID, festivalID uint64) (bool, error) {
	const q = `SELECT EXISTS (
	               SELECT 1 FROM reservations r
	               JOIN products p ON p.id = r.product_id
	               WHERE r.user_id = ? AND p.festival_id = ?)`
	var exists bool
	if err := r.db.QueryRowContext(ctx, q, userID, festivalID).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

// FirstByUserAndProductFestivalTx returns the oldest reservation that
// links the user to a product of the given festival, or ErrNotFound.
// This is a distinct, stricter lookup than the EXISTS probe above: it
// loads the full row that sources the canonical user and festival
// references for a new review.
func (r *ReservationRepo) FirstByUserAndProductFestivalTx(ctx context.Context, tx *sql.Tx, userID, festivalID uint64) (*model.Reservation, error) {
	const q = `SELECT ` + reservationCols + `
	           FROM reservations r
	           JOIN products p ON p.id = r.product_id
	           WHERE r.user_id = ? AND p.festival_id = ?
	           ORDER BY r.id
	           LIMIT 1`
	row := tx.QueryRowContext(ctx, q, userID, festivalID)
	d, err := scanReservation(row.Scan, false)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &d.Reservation, nil
}

// UpdateStatus sets the status of a reservation.
func (r *ReservationRepo) UpdateStatus(ctx context.Context, id uint64, status string) error {
	_, err := r.db.ExecContext(ctx, `UPDATE reservations SET status = ? WHERE id = ?`, status, id)
	return err
}

// Delete removes a reservation by id, returning ErrNotFound when no
// row was deleted.
func (r *ReservationRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM reservations WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteByFestivalTx removes all reservations referencing a festival
// inside the cascade transaction.  This must run before the festival's
// products are deleted because reservations reference products.
func (r *ReservationRepo) DeleteByFestivalTx(ctx context.Context, tx *sql.Tx, festivalID uint64) error {
	_, err := tx.ExecContext(ctx, `DELETE FROM reservations WHERE festival_id = ?`, festivalID)
	return err
}
