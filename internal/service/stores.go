// Package service implements the business rules that keep festivals,
// products, reservations, reviews and wishlists mutually consistent:
// rating aggregation, review eligibility, recommendation ranking, the
// festival cascade delete, the reservation lifecycle and the wishlist
// toggle.  Services depend on narrow per-entity store interfaces and a
// transaction runner, both injected through plain constructors; the
// repository package provides the production implementations.
package service

import (
	"context"
	"database/sql"
	"time"

	"github.com/seongmin-k/festival-discovery/internal/model"
	"github.com/seongmin-k/festival-discovery/internal/queue"
	"github.com/seongmin-k/festival-discovery/internal/repository"
)

// FestivalStore is the festival persistence contract consumed by the
// services.  *repository.FestivalRepo implements it.
type FestivalStore interface {
	Create(ctx context.Context, f *model.Festival) error
	GetByID(ctx context.Context, id uint64) (*model.Festival, error)
	Exists(ctx context.Context, id uint64) (bool, error)
	ListAll(ctx context.Context) ([]model.Festival, error)
	ListUpcoming(ctx context.Context, from time.Time) ([]model.Festival, error)
	Update(ctx context.Context, f *model.Festival) error
	DeleteTx(ctx context.Context, tx *sql.Tx, id uint64) error
}

// ProductStore is the product persistence contract.
// *repository.ProductRepo implements it.
type ProductStore interface {
	Create(ctx context.Context, p *model.Product) error
	GetByID(ctx context.Context, id uint64) (*model.Product, error)
	GetDetailByID(ctx context.Context, id uint64) (*repository.ProductDetail, error)
	ListDetails(ctx context.Context) ([]repository.ProductDetail, error)
	ListDetailsByFestival(ctx context.Context, festivalID uint64) ([]repository.ProductDetail, error)
	Update(ctx context.Context, p *model.Product) error
	Delete(ctx context.Context, id uint64) error
	DeleteByFestivalTx(ctx context.Context, tx *sql.Tx, festivalID uint64) error
}

// ReservationStore is the reservation persistence contract.
// *repository.ReservationRepo implements it.
type ReservationStore interface {
	Create(ctx context.Context, r *model.Reservation) error
	GetByID(ctx context.Context, id uint64) (*model.Reservation, error)
	GetByIDForUser(ctx context.Context, id, userID uint64) (*model.Reservation, error)
	GetDetailByID(ctx context.Context, id uint64) (*repository.ReservationDetail, error)
	ListByUser(ctx context.Context, userID uint64) ([]repository.ReservationDetail, error)
	ListAll(ctx context.Context) ([]repository.ReservationDetail, error)
	CountByUserExcludingStatus(ctx context.Context, userID uint64, status string) (int64, error)
	ExistsByUserAndProductFestival(ctx context.Context, userID, festivalID uint64) (bool, error)
	ExistsByUserAndProductFestivalTx(ctx context.Context, tx *sql.Tx, userID, festivalID uint64) (bool, error)
	FirstByUserAndProductFestivalTx(ctx context.Context, tx *sql.Tx, userID, festivalID uint64) (*model.Reservation, error)
	UpdateStatus(ctx context.Context, id uint64, status string) error
	Delete(ctx context.Context, id uint64) error
	DeleteByFestivalTx(ctx context.Context, tx *sql.Tx, festivalID uint64) error
}

// ReviewStore is the review persistence contract, including the rating
// aggregates.  *repository.ReviewRepo implements it.
type ReviewStore interface {
	CreateTx(ctx context.Context, tx *sql.Tx, rv *model.Review) error
	ExistsByUserAndFestivalTx(ctx context.Context, tx *sql.Tx, userID, festivalID uint64) (bool, error)
	GetByID(ctx context.Context, id uint64) (*model.Review, error)
	GetDetailByID(ctx context.Context, id uint64) (*repository.ReviewDetail, error)
	ListByFestival(ctx context.Context, festivalID uint64) ([]repository.ReviewDetail, error)
	ListByUser(ctx context.Context, userID uint64) ([]repository.ReviewDetail, error)
	ListAll(ctx context.Context) ([]repository.ReviewDetail, error)
	Update(ctx context.Context, rv *model.Review) error
	Delete(ctx context.Context, id uint64) error
	AverageRatingByFestival(ctx context.Context, festivalID uint64) (*float64, error)
	ListFestivalsByRating(ctx context.Context) ([]repository.FestivalRating, error)
	DeleteByFestivalTx(ctx context.Context, tx *sql.Tx, festivalID uint64) error
}

// WishlistStore is the wishlist persistence contract.
// *repository.WishlistRepo implements it.
type WishlistStore interface {
	GetByUserAndFestivalTx(ctx context.Context, tx *sql.Tx, userID, festivalID uint64) (*model.Wishlist, error)
	CreateTx(ctx context.Context, tx *sql.Tx, w *model.Wishlist) error
	DeleteTx(ctx context.Context, tx *sql.Tx, id uint64) error
	DeleteByUserAndFestival(ctx context.Context, userID, festivalID uint64) error
	ListByUser(ctx context.Context, userID uint64) ([]repository.WishlistDetail, error)
	DeleteByFestivalTx(ctx context.Context, tx *sql.Tx, festivalID uint64) error
}

// UserStore is the user persistence contract.  *repository.UserRepo
// implements it.
type UserStore interface {
	Create(ctx context.Context, u *model.User) error
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	GetByID(ctx context.Context, id uint64) (*model.User, error)
	Exists(ctx context.Context, id uint64) (bool, error)
	ListAll(ctx context.Context) ([]model.User, error)
	Update(ctx context.Context, u *model.User) error
}

// EventPublisher delivers domain events to the message broker.  A nil
// publisher disables event publishing; failures are logged and never
// interrupt the request flow.
type EventPublisher interface {
	PublishReservationCreated(ctx context.Context, ev queue.ReservationCreatedEvent) error
}
