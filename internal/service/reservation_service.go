package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/seongmin-k/festival-discovery/internal/model"
	"github.com/seongmin-k/festival-discovery/internal/queue"
	"github.com/seongmin-k/festival-discovery/internal/repository"
)

// ReservationService manages the reservation lifecycle:
// RESERVED (initial) -> ATTENDED or CANCELLED.  Marking attended checks
// no status precondition; cancelling is owner-scoped and idempotent on
// an already-cancelled reservation.
type ReservationService struct {
	reservations ReservationStore
	users        UserStore
	festivals    FestivalStore
	products     ProductStore
	events       EventPublisher // nil disables event publishing
}

// NewReservationService constructs a ReservationService.  The event
// publisher may be nil when no broker is configured.
func NewReservationService(
	reservations ReservationStore,
	users UserStore,
	festivals FestivalStore,
	products ProductStore,
	events EventPublisher,
) *ReservationService {
	return &ReservationService{
		reservations: reservations,
		users:        users,
		festivals:    festivals,
		products:     products,
		events:       events,
	}
}

// CreateReservationInput carries the request payload for a new
// reservation.  Date and Time arrive as strings and are validated
// here.
type CreateReservationInput struct {
	UserID       uint64
	FestivalID   uint64
	ProductID    uint64
	DiscountRate *float64
	Date         string // "2006-01-02"
	Time         string // "15:04" or "15:04:05"
	HeadCount    int
}

// Create validates and persists a new reservation in status RESERVED
// with a server-generated creation timestamp, then publishes a
// reservation.created event best-effort.
func (s *ReservationService) Create(ctx context.Context, in CreateReservationInput) (*repository.ReservationDetail, error) {
	date, err := time.Parse("2006-01-02", in.Date)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid date %q", ErrValidation, in.Date)
	}
	tod, err := parseTimeOfDay(in.Time)
	if err != nil {
		return nil, err
	}
	if ok, err := s.users.Exists(ctx, in.UserID); err != nil {
		return nil, err
	} else if !ok {
		return nil, fmt.Errorf("%w: user %d", repository.ErrNotFound, in.UserID)
	}
	if ok, err := s.festivals.Exists(ctx, in.FestivalID); err != nil {
		return nil, err
	} else if !ok {
		return nil, fmt.Errorf("%w: festival %d", repository.ErrNotFound, in.FestivalID)
	}
	if _, err := s.products.GetByID(ctx, in.ProductID); err != nil {
		return nil, err
	}

	res := model.Reservation{
		UserID:       in.UserID,
		FestivalID:   in.FestivalID,
		ProductID:    in.ProductID,
		DiscountRate: in.DiscountRate,
		ReservedAt:   time.Now().UTC(),
		Date:         date,
		Time:         tod,
		HeadCount:    in.HeadCount,
		Status:       model.StatusReserved,
	}
	if err := s.reservations.Create(ctx, &res); err != nil {
		return nil, err
	}
	detail, err := s.reservations.GetDetailByID(ctx, res.ID)
	if err != nil {
		return nil, err
	}
	s.publishCreated(ctx, detail)
	return detail, nil
}

// parseTimeOfDay accepts "HH:MM" or "HH:MM:SS" and normalizes to the
// stored "HH:MM:SS" form.
func parseTimeOfDay(raw string) (string, error) {
	if t, err := time.Parse("15:04:05", raw); err == nil {
		return t.Format("15:04:05"), nil
	}
	if t, err := time.Parse("15:04", raw); err == nil {
		return t.Format("15:04:05"), nil
	}
	return "", fmt.Errorf("%w: invalid time %q", ErrValidation, raw)
}

func (s *ReservationService) publishCreated(ctx context.Context, d *repository.ReservationDetail) {
	if s.events == nil {
		return
	}
	ev := queue.ReservationCreatedEvent{
		ReservationID: d.ID,
		UserID:        d.UserID,
		FestivalID:    d.FestivalID,
		FestivalName:  d.FestivalName,
		ProductID:     d.ProductID,
		ProductName:   d.ProductName,
		Date:          d.Date.Format("2006-01-02"),
		Time:          d.Time,
		HeadCount:     d.HeadCount,
		Status:        d.Status,
		ReservedAt:    d.ReservedAt.Format(time.RFC3339),
	}
	if err := s.events.PublishReservationCreated(ctx, ev); err != nil {
		log.Printf("reservation: publish created event failed: %v", err)
	}
}

// ListByUser returns a user's reservations, newest first.
func (s *ReservationService) ListByUser(ctx context.Context, userID uint64) ([]repository.ReservationDetail, error) {
	return s.reservations.ListByUser(ctx, userID)
}

// CountActive counts a user's reservations that are not cancelled.
// ATTENDED rows are included.
func (s *ReservationService) CountActive(ctx context.Context, userID uint64) (int64, error) {
	return s.reservations.CountByUserExcludingStatus(ctx, userID, model.StatusCancelled)
}

// MarkAttended transitions a reservation to ATTENDED.  No prior-state
// check is performed: attending an already-attended or cancelled
// reservation simply overwrites the status.
func (s *ReservationService) MarkAttended(ctx context.Context, id uint64) (*repository.ReservationDetail, error) {
	if _, err := s.reservations.GetByID(ctx, id); err != nil {
		return nil, err
	}
	if err := s.reservations.UpdateStatus(ctx, id, model.StatusAttended); err != nil {
		return nil, err
	}
	return s.reservations.GetDetailByID(ctx, id)
}

// Cancel transitions the caller's own reservation to CANCELLED.
// Existence and ownership are one combined lookup, so another user's
// reservation is indistinguishable from a missing one.  Re-cancelling
// an already-cancelled reservation is a no-op returning the unchanged
// record.
func (s *ReservationService) Cancel(ctx context.Context, userID, id uint64) (*repository.ReservationDetail, error) {
	res, err := s.reservations.GetByIDForUser(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	if res.Status == model.StatusCancelled {
		return s.reservations.GetDetailByID(ctx, id)
	}
	if err := s.reservations.UpdateStatus(ctx, id, model.StatusCancelled); err != nil {
		return nil, err
	}
	return s.reservations.GetDetailByID(ctx, id)
}

// ListAll returns every reservation.
func (s *ReservationService) ListAll(ctx context.Context) ([]repository.ReservationDetail, error) {
	return s.reservations.ListAll(ctx)
}

// Delete removes a reservation by id, failing with ErrNotFound when it
// does not exist.
func (s *ReservationService) Delete(ctx context.Context, id uint64) error {
	return s.reservations.Delete(ctx, id)
}
