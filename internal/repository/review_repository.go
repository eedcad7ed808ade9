package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/seongmin-k/festival-discovery/internal/model"
)

// ReviewRepo provides persistence for reviews and the rating
// aggregates derived from them.  The reviews table carries a
// uniqueness constraint on (user_id, festival_id); the service layer
// additionally checks for an existing review before inserting so the
// duplicate case surfaces as ErrConflict rather than a driver error.
type ReviewRepo struct {
	db *sql.DB
}

// NewReviewRepo returns a new ReviewRepo bound to the given database.
func NewReviewRepo(db *sql.DB) *ReviewRepo { return &ReviewRepo{db: db} }

// ReviewDetail is a review joined with author and festival names for
// API responses.
type ReviewDetail struct {
	model.Review
	UserName     string
	FestivalName string
}

// FestivalRating is one row of the ranked festival listing: a festival
// with its review aggregate.  Festivals without reviews carry a zero
// average and a zero count, unlike AverageRatingByFestival which
// reports the absence of reviews as nil.
type FestivalRating struct {
	Festival    model.Festival
	AvgRating   float64
	ReviewCount int64
}

const reviewCols = `rv.id, rv.user_id, rv.festival_id, rv.rating, rv.content, rv.review_date, rv.last_modified`

func scanReview(scan func(dest ...any) error, withDetail bool) (*ReviewDetail, error) {
	var d ReviewDetail
	dest := []any{
		&d.ID, &d.UserID, &d.FestivalID, &d.Rating, &d.Content,
		&d.ReviewDate, &d.LastModified,
	}
	if withDetail {
		dest = append(dest, &d.UserName, &d.FestivalName)
	}
	if err := scan(dest...); err != nil {
		return nil, err
	}
	return &d, nil
}

// CreateTx inserts a review inside the eligibility transaction and
// populates its generated ID.  A duplicate-key violation on the
// (user_id, festival_id) constraint maps to ErrConflict.
func (r *ReviewRepo) CreateTx(ctx context.Context, tx *sql.Tx, rv *model.Review) error {
	const q = `INSERT INTO reviews (user_id, festival_id, rating, content, review_date, last_modified)
	           VALUES (?, ?, ?, ?, ?, ?)`
	res, err := tx.ExecContext(ctx, q,
		rv.UserID, rv.FestivalID, rv.Rating, rv.Content, rv.ReviewDate, rv.LastModified)
	if err != nil {
		if strings.Contains(err.Error(), "1062") {
			return ErrConflict
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	rv.ID = uint64(id)
	return nil
}

// ExistsByUserAndFestivalTx reports whether the user already reviewed
// the festival, inside the eligibility transaction.
func (r *ReviewRepo) ExistsByUserAndFestivalTx(ctx context.Context, tx *sql.Tx, userID, festivalID uint64) (bool, error) {
	var exists bool
	err := tx.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM reviews WHERE user_id = ? AND festival_id = ?)`,
		userID, festivalID).Scan(&exists)
	return exists, err
}

// GetByID returns a review by id or ErrNotFound.
func (r *ReviewRepo) GetByID(ctx context.Context, id uint64) (*model.Review, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+reviewCols+` FROM reviews rv WHERE rv.id = ?`, id)
	d, err := scanReview(row.Scan, false)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &d.Review, nil
}

// GetDetailByID returns a review joined with author and festival names.
func (r *ReviewRepo) GetDetailByID(ctx context.Context, id uint64) (*ReviewDetail, error) {
	const q = `SELECT ` + reviewCols + `, u.name, f.name
	           FROM reviews rv
	           JOIN users u ON u.id = rv.user_id
	           JOIN festivals f ON f.id = rv.festival_id
	           WHERE rv.id = ?`
	row := r.db.QueryRowContext(ctx, q, id)
	d, err := scanReview(row.Scan, true)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	return d, err
}

// ListByFestival returns all reviews of a festival with display names.
func (r *ReviewRepo) ListByFestival(ctx context.Context, festivalID uint64) ([]ReviewDetail, error) {
	const q = `SELECT ` + reviewCols + `, u.name, f.name
	           FROM reviews rv
	           JOIN users u ON u.id = rv.user_id
	           JOIN festivals f ON f.id = rv.festival_id
	           WHERE rv.festival_id = ?
	           ORDER BY rv.id`
	return r.listDetails(ctx, q, festivalID)
}

// ListByUser returns all reviews written by a user with display names.
func (r *ReviewRepo) ListByUser(ctx context.Context, userID uint64) ([]ReviewDetail, error) {
	const q = `SELECT ` + reviewCols + `, u.name, f.name
	           FROM reviews rv
	           JOIN users u ON u.id = rv.user_id
	           JOIN festivals f ON f.id = rv.festival_id
	           WHERE rv.user_id = ?
	           ORDER BY rv.id`
	return r.listDetails(ctx, q, userID)
}

// ListAll returns every review with display names.
func (r *ReviewRepo) ListAll(ctx context.Context) ([]ReviewDetail, error) {
	const q = `SELECT ` + reviewCols + `, u.name, f.name
	           FROM reviews rv
	           JOIN users u ON u.id = rv.user_id
	           JOIN festivals f ON f.id = rv.festival_id
	           ORDER BY rv.id`
	return r.listDetails(ctx, q)
}

func (r *ReviewRepo) listDetails(ctx context.Context, query string, args ...any) ([]ReviewDetail, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]ReviewDetail, 0)
	for rows.Next() {
		d, err := scanReview(rows.Scan, true)
		if err != nil {
			return nil, err
		}
		out = append(out, *d)
	}
	return out, rows.Err()
}

// Update overwrites rating, content and last_modified.  The review
// date is immutable after creation and is deliberately not touched.
func (r *ReviewRepo) Update(ctx context.Context, rv *model.Review) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE reviews SET rating = ?, content = ?, last_modified = ? WHERE id = ?`,
		rv.Rating, rv.Content, rv.LastModified, rv.ID)
	return err
}

// Delete removes a review by id, returning ErrNotFound when no row was
// deleted.
func (r *ReviewRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM reviews WHERE id = ?`, id)
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

// AverageRatingByFestival returns the arithmetic mean of a festival's
// review ratings, or nil when the festival has no reviews.  Callers
// rendering the ranked listing must use ListFestivalsByRating instead;
// that query substitutes 0 for missing averages.
func (r *ReviewRepo) AverageRatingByFestival(ctx context.Context, festivalID uint64) (*float64, error) {
	var avg sql.NullFloat64
	err := r.db.QueryRowContext(ctx,
		`SELECT AVG(rating) FROM reviews WHERE festival_id = ?`, festivalID).Scan(&avg)
	if err != nil {
		return nil, err
	}
	if !avg.Valid {
		return nil, nil
	}
	v := avg.Float64
	return &v, nil
}

// ListFestivalsByRating returns every festival with its review
// aggregate via a left outer join, ordered by average rating
// descending.  Festivals without reviews appear with average 0 and
// count 0.  The relative order of equal averages is not guaranteed.
func (r *ReviewRepo) ListFestivalsByRating(ctx context.Context) ([]FestivalRating, error) {
	const q = `SELECT ` + festivalCols2 + `,
	                  COALESCE(AVG(rv.rating), 0) AS avg_rating,
	                  COUNT(rv.id) AS review_count
	           FROM festivals f
	           LEFT JOIN reviews rv ON rv.festival_id = f.id
	           GROUP BY f.id
	           ORDER BY avg_rating DESC`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]FestivalRating, 0)
	for rows.Next() {
		var fr FestivalRating
		f, err := scanFestivalRating(rows, &fr)
		if err != nil {
			return nil, err
		}
		fr.Festival = *f
		out = append(out, fr)
	}
	return out, rows.Err()
}

const festivalCols2 = `f.id, f.name, f.description, f.location, f.categories, f.lat, f.lng, f.image_url, f.region, f.start_date, f.end_date`

func scanFestivalRating(rows *sql.Rows, fr *FestivalRating) (*model.Festival, error) {
	var f model.Festival
	var categories, imageURL sql.NullString
	var lat, lng sql.NullFloat64
	if err := rows.Scan(
		&f.ID, &f.Name, &f.Description, &f.Location, &categories,
		&lat, &lng, &imageURL, &f.Region, &f.StartDate, &f.EndDate,
		&fr.AvgRating, &fr.ReviewCount,
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

// DeleteByFestivalTx removes all reviews of a festival inside the
// cascade transaction.
func (r *ReviewRepo) DeleteByFestivalTx(ctx context.Context, tx *sql.Tx, festivalID uint64) error {
	_, err := tx.ExecContext(ctx, `DELETE FROM reviews WHERE festival_id = ?`, festivalID)
	return err
}
