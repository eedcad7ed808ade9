package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seongmin-k/festival-discovery/internal/model"
	"github.com/seongmin-k/festival-discovery/internal/repository"
)

func newReservationFixture() (*ReservationService, *fakeReservationStore, *fakePublisher) {
	users := &fakeUserStore{}
	users.add(model.User{Name: "kim", Email: "kim@example.com"})
	festivals := &fakeFestivalStore{}
	festivals.add(model.Festival{Name: "festival"})
	products := &fakeProductStore{}
	products.add(model.Product{FestivalID: 1, Name: "ticket", Price: 1000, Stock: 10})
	reservations := &fakeReservationStore{}
	pub := &fakePublisher{}
	svc := NewReservationService(reservations, users, festivals, products, pub)
	return svc, reservations, pub
}

func validInput() CreateReservationInput {
	return CreateReservationInput{
		UserID:     1,
		FestivalID: 1,
		ProductID:  1,
		Date:       "2026-10-01",
		Time:       "18:00",
		HeadCount:  2,
	}
}

func TestCreateReservationNormalizesTime(t *testing.T) {
	svc, _, _ := newReservationFixture()

	got, err := svc.Create(context.Background(), validInput())
	require.NoError(t, err)
	assert.Equal(t, model.StatusReserved, got.Status)
	assert.Equal(t, "18:00:00", got.Time)
	assert.False(t, got.ReservedAt.IsZero())
}

func TestCreateReservationRejectsBadDateAndTime(t *testing.T) {
	svc, _, _ := newReservationFixture()

	in := validInput()
	in.Date = "10/01/2026"
	_, err := svc.Create(context.Background(), in)
	assert.ErrorIs(t, err, ErrValidation)

	in = validInput()
	in.Time = "6pm"
	_, err = svc.Create(context.Background(), in)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestCreateReservationUnknownReferences(t *testing.T) {
	svc, _, _ := newReservationFixture()

	in := validInput()
	in.UserID = 99
	_, err := svc.Create(context.Background(), in)
	assert.ErrorIs(t, err, repository.ErrNotFound)

	in = validInput()
	in.FestivalID = 99
	_, err = svc.Create(context.Background(), in)
	assert.ErrorIs(t, err, repository.ErrNotFound)

	in = validInput()
	in.ProductID = 99
	_, err = svc.Create(context.Background(), in)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestCreateReservationPublishesEvent(t *testing.T) {
	svc, _, pub := newReservationFixture()

	got, err := svc.Create(context.Background(), validInput())
	require.NoError(t, err)
	require.Len(t, pub.events, 1)
	assert.Equal(t, got.ID, pub.events[0].ReservationID)
	assert.Equal(t, "2026-10-01", pub.events[0].Date)
	assert.Equal(t, model.StatusReserved, pub.events[0].Status)
}

func TestCancelIsOwnerScopedAndIdempotent(t *testing.T) {
	svc, _, _ := newReservationFixture()
	created, err := svc.Create(context.Background(), validInput())
	require.NoError(t, err)

	// Another user's cancel looks like a missing reservation.
	_, err = svc.Cancel(context.Background(), 42, created.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)

	got, err := svc.Cancel(context.Background(), 1, created.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusCancelled, got.Status)

	// A second cancel is a no-op on the already-cancelled record.
	again, err := svc.Cancel(context.Background(), 1, created.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusCancelled, again.Status)
}

func TestMarkAttendedHasNoStatusPrecondition(t *testing.T) {
	svc, _, _ := newReservationFixture()
	created, err := svc.Create(context.Background(), validInput())
	require.NoError(t, err)

	_, err = svc.Cancel(context.Background(), 1, created.ID)
	require.NoError(t, err)

	// Attending a cancelled reservation simply overwrites the status.
	got, err := svc.MarkAttended(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusAttended, got.Status)

	_, err = svc.MarkAttended(context.Background(), 999)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestCountActiveExcludesOnlyCancelled(t *testing.T) {
	svc, reservations, _ := newReservationFixture()
	reservations.add(model.Reservation{UserID: 1, FestivalID: 1, ProductID: 1, Status: model.StatusReserved})
	reservations.add(model.Reservation{UserID: 1, FestivalID: 1, ProductID: 1, Status: model.StatusAttended})
	reservations.add(model.Reservation{UserID: 1, FestivalID: 1, ProductID: 1, Status: model.StatusCancelled})
	reservations.add(model.Reservation{UserID: 2, FestivalID: 1, ProductID: 1, Status: model.StatusReserved})

	n, err := svc.CountActive(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
}
