package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seongmin-k/festival-discovery/internal/model"
	"github.com/seongmin-k/festival-discovery/internal/repository"
)

func newFestivalFixture() (*FestivalService, *fakeFestivalStore, *fakeReviewStore, *fakeUserStore, *fakeReservationStore, *fakeWishlistStore, *fakeProductStore, *[]string) {
	log := &[]string{}
	festivals := &fakeFestivalStore{log: log}
	products := &fakeProductStore{log: log}
	reservations := &fakeReservationStore{log: log}
	reviews := &fakeReviewStore{festivals: festivals, log: log}
	wishlists := &fakeWishlistStore{log: log}
	users := &fakeUserStore{}
	svc := NewFestivalService(festivals, users, products, reservations, reviews, wishlists, &fakeTxRunner{})
	return svc, festivals, reviews, users, reservations, wishlists, products, log
}

func TestListRankedOrdersByAverageDescending(t *testing.T) {
	svc, festivals, reviews, _, _, _, _, _ := newFestivalFixture()
	quiet := festivals.add(model.Festival{Name: "quiet"})
	loved := festivals.add(model.Festival{Name: "loved"})
	reviews.reviews = []model.Review{
		{ID: 1, UserID: 1, FestivalID: loved.ID, Rating: 4},
		{ID: 2, UserID: 2, FestivalID: loved.ID, Rating: 5},
	}

	ranked, err := svc.ListRanked(context.Background())
	require.NoError(t, err)
	require.Len(t, ranked, 2)

	assert.Equal(t, loved.ID, ranked[0].Festival.ID)
	assert.InDelta(t, 4.5, ranked[0].AvgRating, 1e-9)
	assert.Equal(t, int64(2), ranked[0].ReviewCount)

	// No reviews ranks last with an average of exactly 0, not null.
	assert.Equal(t, quiet.ID, ranked[1].Festival.ID)
	assert.Zero(t, ranked[1].AvgRating)
	assert.Zero(t, ranked[1].ReviewCount)
}

func TestGetReportsNilAverageWithoutReviews(t *testing.T) {
	svc, festivals, _, _, _, _, _, _ := newFestivalFixture()
	f := festivals.add(model.Festival{Name: "new"})

	got, err := svc.Get(context.Background(), f.ID)
	require.NoError(t, err)
	assert.Nil(t, got.AverageRating)

	_, err = svc.Get(context.Background(), 999)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestRecommendPartitionsByInterest(t *testing.T) {
	svc, festivals, _, users, _, _, _, _ := newFestivalFixture()
	a := festivals.add(model.Festival{Name: "a", Categories: []string{"공연", "전시"}})
	b := festivals.add(model.Festival{Name: "b", Categories: []string{"음식"}})
	c := festivals.add(model.Festival{Name: "c", Categories: []string{"체험"}})
	d := festivals.add(model.Festival{Name: "d", Categories: []string{"음식", "공연"}})
	u := users.add(model.User{Name: "kim", Email: "kim@example.com", Interest: " 음식 "})

	got, err := svc.Recommend(context.Background(), u.ID)
	require.NoError(t, err)
	require.Len(t, got, 4)

	// Matching festivals first, each partition in original order.
	ids := []uint64{got[0].Festival.ID, got[1].Festival.ID, got[2].Festival.ID, got[3].Festival.ID}
	assert.Equal(t, []uint64{b.ID, d.ID, a.ID, c.ID}, ids)
}

func TestRecommendBlankInterestKeepsOriginalOrder(t *testing.T) {
	svc, festivals, _, users, _, _, _, _ := newFestivalFixture()
	a := festivals.add(model.Festival{Name: "a", Categories: []string{"공연"}})
	b := festivals.add(model.Festival{Name: "b", Categories: []string{"음식"}})
	u := users.add(model.User{Name: "lee", Email: "lee@example.com", Interest: "   "})

	got, err := svc.Recommend(context.Background(), u.ID)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, a.ID, got[0].Festival.ID)
	assert.Equal(t, b.ID, got[1].Festival.ID)
}

func TestRecommendMatchingIsWholeTokenCaseInsensitive(t *testing.T) {
	festivals := []model.Festival{
		{ID: 1, Categories: []string{"Music", "Food"}},
		{ID: 2, Categories: []string{"Musical"}}, // substring must not match
	}
	got := partitionByInterest(festivals, "music")
	assert.Equal(t, uint64(1), got[0].ID)
	assert.Equal(t, uint64(2), got[1].ID)
}

func TestDeleteCascadesInDependencyOrder(t *testing.T) {
	svc, festivals, reviews, _, reservations, wishlists, products, log := newFestivalFixture()
	f := festivals.add(model.Festival{Name: "doomed"})
	products.add(model.Product{FestivalID: f.ID, Name: "ticket"})
	reservations.add(model.Reservation{UserID: 1, FestivalID: f.ID, ProductID: 1, Status: model.StatusReserved})
	reviews.reviews = append(reviews.reviews, model.Review{ID: 1, UserID: 1, FestivalID: f.ID, Rating: 3})
	wishlists.entries = append(wishlists.entries, model.Wishlist{ID: 1, UserID: 1, FestivalID: f.ID})

	require.NoError(t, svc.Delete(context.Background(), f.ID))

	assert.Equal(t, []string{"reservations", "reviews", "wishlists", "products", "festival"}, *log)
	assert.Empty(t, festivals.festivals)
	assert.Empty(t, products.products)
	assert.Empty(t, reservations.reservations)
	assert.Empty(t, reviews.reviews)
	assert.Empty(t, wishlists.entries)
}

func TestDeleteUnknownFestivalTouchesNothing(t *testing.T) {
	svc, festivals, _, _, _, _, _, log := newFestivalFixture()
	festivals.add(model.Festival{Name: "survivor"})

	err := svc.Delete(context.Background(), 42)
	assert.ErrorIs(t, err, repository.ErrNotFound)
	assert.Empty(t, *log)
	assert.Len(t, festivals.festivals, 1)
}

func TestUpdateMergesOnlyProvidedFields(t *testing.T) {
	svc, festivals, _, _, _, _, _, _ := newFestivalFixture()
	f := festivals.add(model.Festival{
		Name:       "before",
		Region:     "seoul",
		Categories: []string{"공연"},
		StartDate:  time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
		EndDate:    time.Date(2026, 9, 3, 0, 0, 0, 0, time.UTC),
	})

	name := "after"
	got, err := svc.Update(context.Background(), f.ID, FestivalPatch{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "after", got.Festival.Name)
	assert.Equal(t, "seoul", got.Festival.Region)
	assert.Equal(t, []string{"공연"}, got.Festival.Categories)
}

func TestUpcomingExcludesEndedFestivals(t *testing.T) {
	svc, festivals, _, _, _, _, _, _ := newFestivalFixture()
	past := time.Now().UTC().AddDate(0, 0, -10)
	future := time.Now().UTC().AddDate(0, 0, 10)
	festivals.add(model.Festival{Name: "over", StartDate: past, EndDate: past.AddDate(0, 0, 2)})
	ongoing := festivals.add(model.Festival{Name: "ongoing", StartDate: past, EndDate: future})

	got, err := svc.Upcoming(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, ongoing.ID, got[0].Festival.ID)
}
