package model

import "time"

// Review is a user's rating and comment on a festival.  At most one
// review may exist per (user, festival) pair; the `reviews` table
// carries a uniqueness constraint on those two columns and the service
// layer performs an explicit existence check before inserting.
//
// Fields:
//  ID           – primary key identifier.
//  UserID       – author of the review.
//  FestivalID   – reviewed festival.
//  Rating       – numeric rating (range is not validated).
//  Content      – bounded-length review text (500 chars in storage).
//  ReviewDate   – creation timestamp, immutable after insert.
//  LastModified – refreshed whenever rating/content change.
type Review struct {
	ID           uint64    // reviews.id
	UserID       uint64    // reviews.user_id
	FestivalID   uint64    // reviews.festival_id
	Rating       float64   // reviews.rating
	Content      string    // reviews.content
	ReviewDate   time.Time // reviews.review_date
	LastModified time.Time // reviews.last_modified
}
