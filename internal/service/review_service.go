package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/seongmin-k/festival-discovery/internal/database"
	"github.com/seongmin-k/festival-discovery/internal/model"
	"github.com/seongmin-k/festival-discovery/internal/repository"
)

// ReviewService is the review eligibility engine.  A user may review a
// festival only with proof of a prior reservation for one of the
// festival's products, and at most once per festival.  The
// check-then-insert sequence runs inside one transaction so concurrent
// submissions cannot slip a duplicate past the existence check.
type ReviewService struct {
	reviews      ReviewStore
	reservations ReservationStore
	tx           database.TxRunner
}

// NewReviewService constructs a ReviewService from its stores and
// transaction runner.
func NewReviewService(reviews ReviewStore, reservations ReservationStore, tx database.TxRunner) *ReviewService {
	return &ReviewService{reviews: reviews, reservations: reservations, tx: tx}
}

// HasReserved reports whether the user holds any reservation for a
// product of the festival.  Reservation status is ignored: a cancelled
// reservation still counts as eligibility proof.
func (s *ReviewService) HasReserved(ctx context.Context, userID, festivalID uint64) (bool, error) {
	return s.reservations.ExistsByUserAndProductFestival(ctx, userID, festivalID)
}

// Create writes a new review after the eligibility checks pass:
//
//  1. the user must hold a reservation for a product of the festival
//     (ErrForbidden otherwise),
//  2. no review may already exist for the pair (ErrConflict),
//  3. the first matching reservation sources the canonical user and
//     festival references; failing to locate one after check 1 passed
//     is still ErrForbidden.
//
// Checks 1 and 3 use two distinct queries on purpose — an existence
// probe and a full-row first-match — and both are kept even though
// they filter on the same relation, so the error paths stay as they
// are.  Both timestamps are set to the creation instant.
func (s *ReviewService) Create(ctx context.Context, userID, festivalID uint64, rating float64, content string) (*repository.ReviewDetail, error) {
	var created model.Review
	err := s.tx.RunInTx(ctx, func(tx *sql.Tx) error {
		reserved, err := s.reservations.ExistsByUserAndProductFestivalTx(ctx, tx, userID, festivalID)
		if err != nil {
			return err
		}
		if !reserved {
			return fmt.Errorf("%w: only users who reserved a product of this festival may review it", repository.ErrForbidden)
		}
		exists, err := s.reviews.ExistsByUserAndFestivalTx(ctx, tx, userID, festivalID)
		if err != nil {
			return err
		}
		if exists {
			return fmt.Errorf("%w: a review for this festival already exists", repository.ErrConflict)
		}
		res, err := s.reservations.FirstByUserAndProductFestivalTx(ctx, tx, userID, festivalID)
		if errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("%w: no reservation found for this festival", repository.ErrForbidden)
		}
		if err != nil {
			return err
		}
		now := time.Now().UTC()
		created = model.Review{
			UserID:       res.UserID,
			FestivalID:   res.FestivalID,
			Rating:       rating,
			Content:      content,
			ReviewDate:   now,
			LastModified: now,
		}
		return s.reviews.CreateTx(ctx, tx, &created)
	})
	if err != nil {
		return nil, err
	}
	return s.reviews.GetDetailByID(ctx, created.ID)
}

// Update overwrites rating and content of the caller's own review and
// refreshes last_modified.  The original review date stays untouched.
func (s *ReviewService) Update(ctx context.Context, reviewID, userID uint64, rating float64, content string) (*repository.ReviewDetail, error) {
	rv, err := s.reviews.GetByID(ctx, reviewID)
	if err != nil {
		return nil, err
	}
	if rv.UserID != userID {
		return nil, fmt.Errorf("%w: only the author may edit a review", repository.ErrForbidden)
	}
	rv.Rating = rating
	rv.Content = content
	rv.LastModified = time.Now().UTC()
	if err := s.reviews.Update(ctx, rv); err != nil {
		return nil, err
	}
	return s.reviews.GetDetailByID(ctx, reviewID)
}

// Delete removes the caller's own review, failing with ErrForbidden
// for anyone else's.
func (s *ReviewService) Delete(ctx context.Context, reviewID, userID uint64) error {
	rv, err := s.reviews.GetByID(ctx, reviewID)
	if err != nil {
		return err
	}
	if rv.UserID != userID {
		return fmt.Errorf("%w: only the author may delete a review", repository.ErrForbidden)
	}
	return s.reviews.Delete(ctx, reviewID)
}

// AdminDelete removes any review without an ownership check.  Unknown
// ids fail with ErrNotFound.
func (s *ReviewService) AdminDelete(ctx context.Context, reviewID uint64) error {
	return s.reviews.Delete(ctx, reviewID)
}

// ListByFestival returns all reviews of a festival.
func (s *ReviewService) ListByFestival(ctx context.Context, festivalID uint64) ([]repository.ReviewDetail, error) {
	return s.reviews.ListByFestival(ctx, festivalID)
}

// ListByUser returns all reviews written by a user.
func (s *ReviewService) ListByUser(ctx context.Context, userID uint64) ([]repository.ReviewDetail, error) {
	return s.reviews.ListByUser(ctx, userID)
}

// ListAll returns every review.
func (s *ReviewService) ListAll(ctx context.Context) ([]repository.ReviewDetail, error) {
	return s.reviews.ListAll(ctx)
}
