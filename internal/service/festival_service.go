package service

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/seongmin-k/festival-discovery/internal/database"
	"github.com/seongmin-k/festival-discovery/internal/model"
	"github.com/seongmin-k/festival-discovery/internal/repository"
)

// FestivalService owns festival CRUD plus the three cross-entity rules
// centred on festivals: the rating-ranked listing, per-user
// recommendation ordering, and the cascade delete that removes every
// dependent row before the festival itself.
type FestivalService struct {
	festivals    FestivalStore
	users        UserStore
	products     ProductStore
	reservations ReservationStore
	reviews      ReviewStore
	wishlists    WishlistStore
	tx           database.TxRunner
}

// NewFestivalService constructs a FestivalService from its stores and
// transaction runner.
func NewFestivalService(
	festivals FestivalStore,
	users UserStore,
	products ProductStore,
	reservations ReservationStore,
	reviews ReviewStore,
	wishlists WishlistStore,
	tx database.TxRunner,
) *FestivalService {
	return &FestivalService{
		festivals:    festivals,
		users:        users,
		products:     products,
		reservations: reservations,
		reviews:      reviews,
		wishlists:    wishlists,
		tx:           tx,
	}
}

// FestivalWithRating pairs a festival with its per-festival average
// rating.  The average is nil when the festival has no reviews, unlike
// the ranked listing where the aggregate substitutes 0.
type FestivalWithRating struct {
	Festival      model.Festival
	AverageRating *float64
}

// ListRanked returns every festival ordered by average rating
// descending, via the single left-outer-join aggregate.  Festivals
// without reviews appear with average 0 and count 0; callers must use
// the aggregate's average rather than recomputing per festival, so the
// nil-vs-0 mismatch never leaks into responses.
func (s *FestivalService) ListRanked(ctx context.Context) ([]repository.FestivalRating, error) {
	return s.reviews.ListFestivalsByRating(ctx)
}

// Get returns one festival with its average rating, which is nil when
// no reviews exist.
func (s *FestivalService) Get(ctx context.Context, id uint64) (*FestivalWithRating, error) {
	f, err := s.festivals.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	avg, err := s.reviews.AverageRatingByFestival(ctx, id)
	if err != nil {
		return nil, err
	}
	return &FestivalWithRating{Festival: *f, AverageRating: avg}, nil
}

// Recommend orders all festivals for a user: festivals with at least
// one category matching the user's interest come first, the rest
// follow, each partition keeping the store's original order.  A user
// with a blank interest gets the unpartitioned pass-through.
func (s *FestivalService) Recommend(ctx context.Context, userID uint64) ([]FestivalWithRating, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	all, err := s.festivals.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	ordered := partitionByInterest(all, user.Interest)
	out := make([]FestivalWithRating, 0, len(ordered))
	for _, f := range ordered {
		avg, err := s.reviews.AverageRatingByFestival(ctx, f.ID)
		if err != nil {
			return nil, err
		}
		out = append(out, FestivalWithRating{Festival: f, AverageRating: avg})
	}
	return out, nil
}

// partitionByInterest splits festivals into preferred and others while
// preserving relative order, then concatenates preferred first.  The
// interest is matched as a single trimmed token against each category,
// case-insensitively; no substring or multi-token matching.
func partitionByInterest(festivals []model.Festival, interest string) []model.Festival {
	interest = strings.TrimSpace(interest)
	if interest == "" {
		return festivals
	}
	preferred := make([]model.Festival, 0, len(festivals))
	others := make([]model.Festival, 0, len(festivals))
	for _, f := range festivals {
		if matchesInterest(f, interest) {
			preferred = append(preferred, f)
		} else {
			others = append(others, f)
		}
	}
	return append(preferred, others...)
}

func matchesInterest(f model.Festival, interest string) bool {
	for _, c := range f.Categories {
		if strings.EqualFold(c, interest) {
			return true
		}
	}
	return false
}

// Create persists a new festival.  Start/end date ordering is not
// validated; the permissive behavior of the stored data is preserved.
func (s *FestivalService) Create(ctx context.Context, f *model.Festival) (*model.Festival, error) {
	if err := s.festivals.Create(ctx, f); err != nil {
		return nil, err
	}
	return f, nil
}

// FestivalPatch carries the optional fields of a festival update.  Nil
// fields leave the stored value untouched.
type FestivalPatch struct {
	Name        *string
	Description *string
	Location    *string
	Categories  []string
	Lat         *float64
	Lng         *float64
	ImageURL    *string
	Region      *string
	StartDate   *time.Time
	EndDate     *time.Time
}

// Update merges the patch onto the stored festival and persists it.
func (s *FestivalService) Update(ctx context.Context, id uint64, patch FestivalPatch) (*FestivalWithRating, error) {
	f, err := s.festivals.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if patch.Name != nil {
		f.Name = *patch.Name
	}
	if patch.Description != nil {
		f.Description = *patch.Description
	}
	if patch.Location != nil {
		f.Location = *patch.Location
	}
	if patch.Categories != nil {
		f.Categories = patch.Categories
	}
	if patch.Lat != nil {
		f.Lat = patch.Lat
	}
	if patch.Lng != nil {
		f.Lng = patch.Lng
	}
	if patch.ImageURL != nil {
		f.ImageURL = patch.ImageURL
	}
	if patch.Region != nil {
		f.Region = *patch.Region
	}
	if patch.StartDate != nil {
		f.StartDate = *patch.StartDate
	}
	if patch.EndDate != nil {
		f.EndDate = *patch.EndDate
	}
	if err := s.festivals.Update(ctx, f); err != nil {
		return nil, err
	}
	avg, err := s.reviews.AverageRatingByFestival(ctx, id)
	if err != nil {
		return nil, err
	}
	return &FestivalWithRating{Festival: *f, AverageRating: avg}, nil
}

// Upcoming returns festivals whose end date is today or later, ordered
// by start date ascending.
func (s *FestivalService) Upcoming(ctx context.Context) ([]FestivalWithRating, error) {
	today := time.Now().UTC().Truncate(24 * time.Hour)
	list, err := s.festivals.ListUpcoming(ctx, today)
	if err != nil {
		return nil, err
	}
	out := make([]FestivalWithRating, 0, len(list))
	for _, f := range list {
		avg, err := s.reviews.AverageRatingByFestival(ctx, f.ID)
		if err != nil {
			return nil, err
		}
		out = append(out, FestivalWithRating{Festival: f, AverageRating: avg})
	}
	return out, nil
}

// Delete removes a festival and everything that references it, inside
// one transaction.  The deletion order is load-bearing: reservations
// reference products which reference the festival, so reservations go
// first, then reviews and wishlist entries, then products, then the
// festival row itself.  A missing festival fails with ErrNotFound
// before anything is touched.
func (s *FestivalService) Delete(ctx context.Context, id uint64) error {
	ok, err := s.festivals.Exists(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: festival %d", repository.ErrNotFound, id)
	}
	return s.tx.RunInTx(ctx, func(tx *sql.Tx) error {
		if err := s.reservations.DeleteByFestivalTx(ctx, tx, id); err != nil {
			return err
		}
		if err := s.reviews.DeleteByFestivalTx(ctx, tx, id); err != nil {
			return err
		}
		if err := s.wishlists.DeleteByFestivalTx(ctx, tx, id); err != nil {
			return err
		}
		if err := s.products.DeleteByFestivalTx(ctx, tx, id); err != nil {
			return err
		}
		return s.festivals.DeleteTx(ctx, tx, id)
	})
}
