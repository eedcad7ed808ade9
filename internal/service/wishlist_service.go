package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/seongmin-k/festival-discovery/internal/database"
	"github.com/seongmin-k/festival-discovery/internal/model"
	"github.com/seongmin-k/festival-discovery/internal/repository"
)

// WishlistService implements the idempotent wishlist toggle keyed by
// (user, festival).  The check-then-act pair runs inside one
// transaction so two concurrent toggles cannot create duplicate rows.
type WishlistService struct {
	wishlists WishlistStore
	users     UserStore
	festivals FestivalStore
	tx        database.TxRunner
}

// NewWishlistService constructs a WishlistService from its stores and
// transaction runner.
func NewWishlistService(wishlists WishlistStore, users UserStore, festivals FestivalStore, tx database.TxRunner) *WishlistService {
	return &WishlistService{wishlists: wishlists, users: users, festivals: festivals, tx: tx}
}

// WishlistToggle reports the outcome of a toggle: the affected entry
// and whether it was added (true) or removed (false).
type WishlistToggle struct {
	WishlistID       uint64
	UserID           uint64
	FestivalID       uint64
	FestivalName     string
	FestivalImageURL *string
	Added            bool
}

// Toggle adds the festival to the user's wishlist when absent and
// removes it when present, in a single round-trip.  Unknown user or
// festival ids fail with ErrNotFound before anything is written.
func (s *WishlistService) Toggle(ctx context.Context, userID, festivalID uint64) (*WishlistToggle, error) {
	festival, err := s.festivals.GetByID(ctx, festivalID)
	if err != nil {
		return nil, err
	}
	if ok, err := s.users.Exists(ctx, userID); err != nil {
		return nil, err
	} else if !ok {
		return nil, fmt.Errorf("%w: user %d", repository.ErrNotFound, userID)
	}

	out := WishlistToggle{
		UserID:           userID,
		FestivalID:       festivalID,
		FestivalName:     festival.Name,
		FestivalImageURL: festival.ImageURL,
	}
	err = s.tx.RunInTx(ctx, func(tx *sql.Tx) error {
		existing, err := s.wishlists.GetByUserAndFestivalTx(ctx, tx, userID, festivalID)
		switch {
		case err == nil:
			out.WishlistID = existing.ID
			out.Added = false
			return s.wishlists.DeleteTx(ctx, tx, existing.ID)
		case errors.Is(err, repository.ErrNotFound):
			w := model.Wishlist{UserID: userID, FestivalID: festivalID}
			if err := s.wishlists.CreateTx(ctx, tx, &w); err != nil {
				return err
			}
			out.WishlistID = w.ID
			out.Added = true
			return nil
		default:
			return err
		}
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Remove deletes the wishlist entry for the pair if present.  Removing
// an absent entry is a deliberate no-op, not an error.
func (s *WishlistService) Remove(ctx context.Context, userID, festivalID uint64) error {
	return s.wishlists.DeleteByUserAndFestival(ctx, userID, festivalID)
}

// ListByUser returns the user's wishlist with festival display fields.
func (s *WishlistService) ListByUser(ctx context.Context, userID uint64) ([]repository.WishlistDetail, error) {
	return s.wishlists.ListByUser(ctx, userID)
}
