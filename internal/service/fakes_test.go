package service

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/seongmin-k/festival-discovery/internal/database"
	"github.com/seongmin-k/festival-discovery/internal/model"
	"github.com/seongmin-k/festival-discovery/internal/queue"
	"github.com/seongmin-k/festival-discovery/internal/repository"
)

// In-memory store fakes.  The transaction runner passes a nil *sql.Tx
// straight through, which the fakes ignore; the cascade test reads the
// shared call log to assert deletion order.

type fakeTxRunner struct{ calls int }

var _ database.TxRunner = (*fakeTxRunner)(nil)

func (r *fakeTxRunner) RunInTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	r.calls++
	return fn(nil)
}

// ----- festivals -----

type fakeFestivalStore struct {
	nextID    uint64
	festivals []model.Festival
	log       *[]string
}

var _ FestivalStore = (*fakeFestivalStore)(nil)

func (s *fakeFestivalStore) add(f model.Festival) model.Festival {
	s.nextID++
	f.ID = s.nextID
	s.festivals = append(s.festivals, f)
	return f
}

func (s *fakeFestivalStore) Create(ctx context.Context, f *model.Festival) error {
	*f = s.add(*f)
	return nil
}

func (s *fakeFestivalStore) GetByID(ctx context.Context, id uint64) (*model.Festival, error) {
	for i := range s.festivals {
		if s.festivals[i].ID == id {
			f := s.festivals[i]
			return &f, nil
		}
	}
	return nil, fmt.Errorf("%w: festival %d", repository.ErrNotFound, id)
}

func (s *fakeFestivalStore) Exists(ctx context.Context, id uint64) (bool, error) {
	_, err := s.GetByID(ctx, id)
	return err == nil, nil
}

func (s *fakeFestivalStore) ListAll(ctx context.Context) ([]model.Festival, error) {
	return append([]model.Festival(nil), s.festivals...), nil
}

func (s *fakeFestivalStore) ListUpcoming(ctx context.Context, from time.Time) ([]model.Festival, error) {
	var out []model.Festival
	for _, f := range s.festivals {
		if !f.EndDate.Before(from) {
			out = append(out, f)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].StartDate.Before(out[j].StartDate) })
	return out, nil
}

func (s *fakeFestivalStore) Update(ctx context.Context, f *model.Festival) error {
	for i := range s.festivals {
		if s.festivals[i].ID == f.ID {
			s.festivals[i] = *f
			return nil
		}
	}
	return fmt.Errorf("%w: festival %d", repository.ErrNotFound, f.ID)
}

func (s *fakeFestivalStore) DeleteTx(ctx context.Context, tx *sql.Tx, id uint64) error {
	if s.log != nil {
		*s.log = append(*s.log, "festival")
	}
	for i := range s.festivals {
		if s.festivals[i].ID == id {
			s.festivals = append(s.festivals[:i], s.festivals[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("%w: festival %d", repository.ErrNotFound, id)
}

// ----- products -----

type fakeProductStore struct {
	nextID   uint64
	products []model.Product
	log      *[]string
}

var _ ProductStore = (*fakeProductStore)(nil)

func (s *fakeProductStore) add(p model.Product) model.Product {
	s.nextID++
	p.ID = s.nextID
	s.products = append(s.products, p)
	return p
}

func (s *fakeProductStore) Create(ctx context.Context, p *model.Product) error {
	*p = s.add(*p)
	return nil
}

func (s *fakeProductStore) GetByID(ctx context.Context, id uint64) (*model.Product, error) {
	for i := range s.products {
		if s.products[i].ID == id {
			p := s.products[i]
			return &p, nil
		}
	}
	return nil, fmt.Errorf("%w: product %d", repository.ErrNotFound, id)
}

func (s *fakeProductStore) GetDetailByID(ctx context.Context, id uint64) (*repository.ProductDetail, error) {
	p, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return &repository.ProductDetail{Product: *p}, nil
}

func (s *fakeProductStore) ListDetails(ctx context.Context) ([]repository.ProductDetail, error) {
	out := make([]repository.ProductDetail, 0, len(s.products))
	for _, p := range s.products {
		out = append(out, repository.ProductDetail{Product: p})
	}
	return out, nil
}

func (s *fakeProductStore) ListDetailsByFestival(ctx context.Context, festivalID uint64) ([]repository.ProductDetail, error) {
	var out []repository.ProductDetail
	for _, p := range s.products {
		if p.FestivalID == festivalID {
			out = append(out, repository.ProductDetail{Product: p})
		}
	}
	return out, nil
}

func (s *fakeProductStore) Update(ctx context.Context, p *model.Product) error {
	for i := range s.products {
		if s.products[i].ID == p.ID {
			s.products[i] = *p
			return nil
		}
	}
	return fmt.Errorf("%w: product %d", repository.ErrNotFound, p.ID)
}

func (s *fakeProductStore) Delete(ctx context.Context, id uint64) error {
	for i := range s.products {
		if s.products[i].ID == id {
			s.products = append(s.products[:i], s.products[i+1:]...)
			return nil
		}
	}
	return nil
}

func (s *fakeProductStore) DeleteByFestivalTx(ctx context.Context, tx *sql.Tx, festivalID uint64) error {
	if s.log != nil {
		*s.log = append(*s.log, "products")
	}
	kept := s.products[:0]
	for _, p := range s.products {
		if p.FestivalID != festivalID {
			kept = append(kept, p)
		}
	}
	s.products = kept
	return nil
}

// ----- reservations -----

type fakeReservationStore struct {
	nextID       uint64
	reservations []model.Reservation
	log          *[]string
}

var _ ReservationStore = (*fakeReservationStore)(nil)

func (s *fakeReservationStore) add(r model.Reservation) model.Reservation {
	s.nextID++
	r.ID = s.nextID
	s.reservations = append(s.reservations, r)
	return r
}

func (s *fakeReservationStore) Create(ctx context.Context, r *model.Reservation) error {
	*r = s.add(*r)
	return nil
}

func (s *fakeReservationStore) GetByID(ctx context.Context, id uint64) (*model.Reservation, error) {
	for i := range s.reservations {
		if s.reservations[i].ID == id {
			r := s.reservations[i]
			return &r, nil
		}
	}
	return nil, fmt.Errorf("%w: reservation %d", repository.ErrNotFound, id)
}

func (s *fakeReservationStore) GetByIDForUser(ctx context.Context, id, userID uint64) (*model.Reservation, error) {
	r, err := s.GetByID(ctx, id)
	if err != nil || r.UserID != userID {
		return nil, fmt.Errorf("%w: reservation %d", repository.ErrNotFound, id)
	}
	return r, nil
}

func (s *fakeReservationStore) GetDetailByID(ctx context.Context, id uint64) (*repository.ReservationDetail, error) {
	r, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return &repository.ReservationDetail{
		Reservation:  *r,
		FestivalName: fmt.Sprintf("festival-%d", r.FestivalID),
		ProductName:  fmt.Sprintf("product-%d", r.ProductID),
	}, nil
}

func (s *fakeReservationStore) ListByUser(ctx context.Context, userID uint64) ([]repository.ReservationDetail, error) {
	var out []repository.ReservationDetail
	for _, r := range s.reservations {
		if r.UserID == userID {
			d, _ := s.GetDetailByID(ctx, r.ID)
			out = append(out, *d)
		}
	}
	return out, nil
}

func (s *fakeReservationStore) ListAll(ctx context.Context) ([]repository.ReservationDetail, error) {
	var out []repository.ReservationDetail
	for _, r := range s.reservations {
		d, _ := s.GetDetailByID(ctx, r.ID)
		out = append(out, *d)
	}
	return out, nil
}

func (s *fakeReservationStore) CountByUserExcludingStatus(ctx context.Context, userID uint64, status string) (int64, error) {
	var n int64
	for _, r := range s.reservations {
		if r.UserID == userID && r.Status != status {
			n++
		}
	}
	return n, nil
}

func (s *fakeReservationStore) ExistsByUserAndProductFestival(ctx context.Context, userID, festivalID uint64) (bool, error) {
	for _, r := range s.reservations {
		if r.UserID == userID && r.FestivalID == festivalID {
			return true, nil
		}
	}
	return false, nil
}

func (s *fakeReservationStore) ExistsByUserAndProductFestivalTx(ctx context.Context, tx *sql.Tx, userID, festivalID uint64) (bool, error) {
	return s.ExistsByUserAndProductFestival(ctx, userID, festivalID)
}

func (s *fakeReservationStore) FirstByUserAndProductFestivalTx(ctx context.Context, tx *sql.Tx, userID, festivalID uint64) (*model.Reservation, error) {
	for i := range s.reservations {
		if s.reservations[i].UserID == userID && s.reservations[i].FestivalID == festivalID {
			r := s.reservations[i]
			return &r, nil
		}
	}
	return nil, fmt.Errorf("%w: no reservation", repository.ErrNotFound)
}

func (s *fakeReservationStore) UpdateStatus(ctx context.Context, id uint64, status string) error {
	for i := range s.reservations {
		if s.reservations[i].ID == id {
			s.reservations[i].Status = status
			return nil
		}
	}
	return fmt.Errorf("%w: reservation %d", repository.ErrNotFound, id)
}

func (s *fakeReservationStore) Delete(ctx context.Context, id uint64) error {
	for i := range s.reservations {
		if s.reservations[i].ID == id {
			s.reservations = append(s.reservations[:i], s.reservations[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("%w: reservation %d", repository.ErrNotFound, id)
}

func (s *fakeReservationStore) DeleteByFestivalTx(ctx context.Context, tx *sql.Tx, festivalID uint64) error {
	if s.log != nil {
		*s.log = append(*s.log, "reservations")
	}
	kept := s.reservations[:0]
	for _, r := range s.reservations {
		if r.FestivalID != festivalID {
			kept = append(kept, r)
		}
	}
	s.reservations = kept
	return nil
}

// ----- reviews -----

type fakeReviewStore struct {
	nextID    uint64
	reviews   []model.Review
	festivals *fakeFestivalStore // source of the ranked listing
	log       *[]string
}

var _ ReviewStore = (*fakeReviewStore)(nil)

func (s *fakeReviewStore) CreateTx(ctx context.Context, tx *sql.Tx, rv *model.Review) error {
	for _, existing := range s.reviews {
		if existing.UserID == rv.UserID && existing.FestivalID == rv.FestivalID {
			return fmt.Errorf("%w: duplicate review", repository.ErrConflict)
		}
	}
	s.nextID++
	rv.ID = s.nextID
	s.reviews = append(s.reviews, *rv)
	return nil
}

func (s *fakeReviewStore) ExistsByUserAndFestivalTx(ctx context.Context, tx *sql.Tx, userID, festivalID uint64) (bool, error) {
	for _, rv := range s.reviews {
		if rv.UserID == userID && rv.FestivalID == festivalID {
			return true, nil
		}
	}
	return false, nil
}

func (s *fakeReviewStore) GetByID(ctx context.Context, id uint64) (*model.Review, error) {
	for i := range s.reviews {
		if s.reviews[i].ID == id {
			rv := s.reviews[i]
			return &rv, nil
		}
	}
	return nil, fmt.Errorf("%w: review %d", repository.ErrNotFound, id)
}

func (s *fakeReviewStore) GetDetailByID(ctx context.Context, id uint64) (*repository.ReviewDetail, error) {
	rv, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return &repository.ReviewDetail{
		Review:       *rv,
		UserName:     fmt.Sprintf("user-%d", rv.UserID),
		FestivalName: fmt.Sprintf("festival-%d", rv.FestivalID),
	}, nil
}

func (s *fakeReviewStore) ListByFestival(ctx context.Context, festivalID uint64) ([]repository.ReviewDetail, error) {
	var out []repository.ReviewDetail
	for _, rv := range s.reviews {
		if rv.FestivalID == festivalID {
			d, _ := s.GetDetailByID(ctx, rv.ID)
			out = append(out, *d)
		}
	}
	return out, nil
}

func (s *fakeReviewStore) ListByUser(ctx context.Context, userID uint64) ([]repository.ReviewDetail, error) {
	var out []repository.ReviewDetail
	for _, rv := range s.reviews {
		if rv.UserID == userID {
			d, _ := s.GetDetailByID(ctx, rv.ID)
			out = append(out, *d)
		}
	}
	return out, nil
}

func (s *fakeReviewStore) ListAll(ctx context.Context) ([]repository.ReviewDetail, error) {
	var out []repository.ReviewDetail
	for _, rv := range s.reviews {
		d, _ := s.GetDetailByID(ctx, rv.ID)
		out = append(out, *d)
	}
	return out, nil
}

func (s *fakeReviewStore) Update(ctx context.Context, rv *model.Review) error {
	for i := range s.reviews {
		if s.reviews[i].ID == rv.ID {
			s.reviews[i] = *rv
			return nil
		}
	}
	return fmt.Errorf("%w: review %d", repository.ErrNotFound, rv.ID)
}

func (s *fakeReviewStore) Delete(ctx context.Context, id uint64) error {
	for i := range s.reviews {
		if s.reviews[i].ID == id {
			s.reviews = append(s.reviews[:i], s.reviews[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("%w: review %d", repository.ErrNotFound, id)
}

func (s *fakeReviewStore) AverageRatingByFestival(ctx context.Context, festivalID uint64) (*float64, error) {
	var sum float64
	var n int
	for _, rv := range s.reviews {
		if rv.FestivalID == festivalID {
			sum += rv.Rating
			n++
		}
	}
	if n == 0 {
		return nil, nil
	}
	avg := sum / float64(n)
	return &avg, nil
}

func (s *fakeReviewStore) ListFestivalsByRating(ctx context.Context) ([]repository.FestivalRating, error) {
	out := make([]repository.FestivalRating, 0, len(s.festivals.festivals))
	for _, f := range s.festivals.festivals {
		row := repository.FestivalRating{Festival: f}
		for _, rv := range s.reviews {
			if rv.FestivalID == f.ID {
				row.AvgRating += rv.Rating
				row.ReviewCount++
			}
		}
		if row.ReviewCount > 0 {
			row.AvgRating /= float64(row.ReviewCount)
		}
		out = append(out, row)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].AvgRating > out[j].AvgRating })
	return out, nil
}

func (s *fakeReviewStore) DeleteByFestivalTx(ctx context.Context, tx *sql.Tx, festivalID uint64) error {
	if s.log != nil {
		*s.log = append(*s.log, "reviews")
	}
	kept := s.reviews[:0]
	for _, rv := range s.reviews {
		if rv.FestivalID != festivalID {
			kept = append(kept, rv)
		}
	}
	s.reviews = kept
	return nil
}

// ----- wishlists -----

type fakeWishlistStore struct {
	nextID  uint64
	entries []model.Wishlist
	log     *[]string
}

var _ WishlistStore = (*fakeWishlistStore)(nil)

func (s *fakeWishlistStore) GetByUserAndFestivalTx(ctx context.Context, tx *sql.Tx, userID, festivalID uint64) (*model.Wishlist, error) {
	for i := range s.entries {
		if s.entries[i].UserID == userID && s.entries[i].FestivalID == festivalID {
			w := s.entries[i]
			return &w, nil
		}
	}
	return nil, fmt.Errorf("%w: wishlist entry", repository.ErrNotFound)
}

func (s *fakeWishlistStore) CreateTx(ctx context.Context, tx *sql.Tx, w *model.Wishlist) error {
	s.nextID++
	w.ID = s.nextID
	s.entries = append(s.entries, *w)
	return nil
}

func (s *fakeWishlistStore) DeleteTx(ctx context.Context, tx *sql.Tx, id uint64) error {
	for i := range s.entries {
		if s.entries[i].ID == id {
			s.entries = append(s.entries[:i], s.entries[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("%w: wishlist %d", repository.ErrNotFound, id)
}

func (s *fakeWishlistStore) DeleteByUserAndFestival(ctx context.Context, userID, festivalID uint64) error {
	for i := range s.entries {
		if s.entries[i].UserID == userID && s.entries[i].FestivalID == festivalID {
			s.entries = append(s.entries[:i], s.entries[i+1:]...)
			return nil
		}
	}
	return nil
}

func (s *fakeWishlistStore) ListByUser(ctx context.Context, userID uint64) ([]repository.WishlistDetail, error) {
	var out []repository.WishlistDetail
	for _, w := range s.entries {
		if w.UserID == userID {
			out = append(out, repository.WishlistDetail{
				Wishlist:     w,
				FestivalName: fmt.Sprintf("festival-%d", w.FestivalID),
			})
		}
	}
	return out, nil
}

func (s *fakeWishlistStore) DeleteByFestivalTx(ctx context.Context, tx *sql.Tx, festivalID uint64) error {
	if s.log != nil {
		*s.log = append(*s.log, "wishlists")
	}
	kept := s.entries[:0]
	for _, w := range s.entries {
		if w.FestivalID != festivalID {
			kept = append(kept, w)
		}
	}
	s.entries = kept
	return nil
}

// ----- users -----

type fakeUserStore struct {
	nextID uint64
	users  []model.User
}

var _ UserStore = (*fakeUserStore)(nil)

func (s *fakeUserStore) add(u model.User) model.User {
	s.nextID++
	u.ID = s.nextID
	s.users = append(s.users, u)
	return u
}

func (s *fakeUserStore) Create(ctx context.Context, u *model.User) error {
	for _, existing := range s.users {
		if strings.EqualFold(existing.Email, u.Email) {
			return fmt.Errorf("%w: %s", repository.ErrEmailExists, u.Email)
		}
	}
	*u = s.add(*u)
	return nil
}

func (s *fakeUserStore) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	for i := range s.users {
		if strings.EqualFold(s.users[i].Email, email) {
			u := s.users[i]
			return &u, nil
		}
	}
	return nil, fmt.Errorf("%w: user %s", repository.ErrNotFound, email)
}

func (s *fakeUserStore) GetByID(ctx context.Context, id uint64) (*model.User, error) {
	for i := range s.users {
		if s.users[i].ID == id {
			u := s.users[i]
			return &u, nil
		}
	}
	return nil, fmt.Errorf("%w: user %d", repository.ErrNotFound, id)
}

func (s *fakeUserStore) Exists(ctx context.Context, id uint64) (bool, error) {
	_, err := s.GetByID(ctx, id)
	return err == nil, nil
}

func (s *fakeUserStore) ListAll(ctx context.Context) ([]model.User, error) {
	return append([]model.User(nil), s.users...), nil
}

func (s *fakeUserStore) Update(ctx context.Context, u *model.User) error {
	for i := range s.users {
		if s.users[i].ID == u.ID {
			s.users[i] = *u
			return nil
		}
	}
	return fmt.Errorf("%w: user %d", repository.ErrNotFound, u.ID)
}

// ----- events -----

type fakePublisher struct {
	events []queue.ReservationCreatedEvent
}

var _ EventPublisher = (*fakePublisher)(nil)

func (p *fakePublisher) PublishReservationCreated(ctx context.Context, ev queue.ReservationCreatedEvent) error {
	p.events = append(p.events, ev)
	return nil
}
