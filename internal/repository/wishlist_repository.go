package repository

import (
	"context"
	"database/sql"

	"github.com/seongmin-k/festival-discovery/internal/model"
)

// WishlistRepo provides persistence for wishlist entries.  The
// at-most-one-row-per-(user, festival) invariant is maintained by the
// toggle operation in the service layer, not by a database constraint,
// which is why the check and the act run inside one transaction.
type WishlistRepo struct {
	db *sql.DB
}

// NewWishlistRepo returns a new WishlistRepo bound to the given database.
func NewWishlistRepo(db *sql.DB) *WishlistRepo { return &WishlistRepo{db: db} }

// WishlistDetail is a wishlist entry joined with festival display
// fields for API responses.
type WishlistDetail struct {
	model.Wishlist
	FestivalName     string
	FestivalImageURL *string
}

// GetByUserAndFestivalTx returns the wishlist entry for the pair, or
// ErrNotFound, inside the toggle transaction.
func (r *WishlistRepo) GetByUserAndFestivalTx(ctx context.Context, tx *sql.Tx, userID, festivalID uint64) (*model.Wishlist, error) {
	var w model.Wishlist
	err := tx.QueryRowContext(ctx,
		`SELECT id, user_id, festival_id FROM wishlists WHERE user_id = ? AND festival_id = ?`,
		userID, festivalID).Scan(&w.ID, &w.UserID, &w.FestivalID)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &w, nil
}

// CreateTx inserts a wishlist entry inside the toggle transaction and
// populates its generated ID.
func (r *WishlistRepo) CreateTx(ctx context.Context, tx *sql.Tx, w *model.Wishlist) error {
	res, err := tx.ExecContext(ctx,
		`INSERT INTO wishlists (user_id, festival_id) VALUES (?, ?)`,
		w.UserID, w.FestivalID)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	w.ID = uint64(id)
	return nil
}

// DeleteTx removes a wishlist entry by id inside the toggle transaction.
func (r *WishlistRepo) DeleteTx(ctx context.Context, tx *sql.Tx, id uint64) error {
	_, err := tx.ExecContext(ctx, `DELETE FROM wishlists WHERE id = ?`, id)
	return err
}

// DeleteByUserAndFestival removes the entry for the pair if present.
// Deleting an absent entry is a silent no-op.
func (r *WishlistRepo) DeleteByUserAndFestival(ctx context.Context, userID, festivalID uint64) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM wishlists WHERE user_id = ? AND festival_id = ?`, userID, festivalID)
	return err
}

// ListByUser returns a user's wishlist with festival display fields.
func (r *WishlistRepo) ListByUser(ctx context.Context, userID uint64) ([]WishlistDetail, error) {
	const q = `SELECT w.id, w.user_id, w.festival_id, f.name, f.image_url
	           FROM wishlists w
	           JOIN festivals f ON f.id = w.festival_id
	           WHERE w.user_id = ?
	           ORDER BY w.id`
	rows, err := r.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]WishlistDetail, 0)
	for rows.Next() {
		var d WishlistDetail
		var imageURL sql.NullString
		if err := rows.Scan(&d.ID, &d.UserID, &d.FestivalID, &d.FestivalName, &imageURL); err != nil {
			return nil, err
		}
		if imageURL.Valid {
			v := imageURL.String
			d.FestivalImageURL = &v
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// DeleteByFestivalTx removes all wishlist entries referencing a
// festival inside the cascade transaction.
func (r *WishlistRepo) DeleteByFestivalTx(ctx context.Context, tx *sql.Tx, festivalID uint64) error {
	_, err := tx.ExecContext(ctx, `DELETE FROM wishlists WHERE festival_id = ?`, festivalID)
	return err
}
