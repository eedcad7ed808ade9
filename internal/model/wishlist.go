package model

// Wishlist is a user's saved-for-later marker on a festival.  At most
// one row exists per (user, festival) pair; the toggle operation keeps
// that invariant rather than a database uniqueness constraint.
//
// Fields:
//  ID         – primary key identifier.
//  UserID     – owner of the wishlist entry.
//  FestivalID – marked festival.
type Wishlist struct {
	ID         uint64 // wishlists.id
	UserID     uint64 // wishlists.user_id
	FestivalID uint64 // wishlists.festival_id
}
