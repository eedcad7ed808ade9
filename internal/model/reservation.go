package model

import "time"

// Reservation status values as stored in reservations.status.
// StatusReserved is the initial state; StatusActive is a legacy alias
// kept for rows written by earlier versions of the schema.  Active
// reservation counts exclude CANCELLED but include ATTENDED.
const (
	StatusActive    = "ACTIVE"
	StatusReserved  = "RESERVED"
	StatusAttended  = "ATTENDED"
	StatusCancelled = "CANCELLED"
)

// Reservation records a user's claim on a festival product for a chosen
// calendar date, time of day and head count.  This struct corresponds
// to a row in the `reservations` table.
//
// Fields:
//  ID           – primary key identifier.
//  UserID       – user who made the reservation.
//  FestivalID   – festival the reserved product belongs to.
//  ProductID    – reserved product.
//  DiscountRate – optional discount applied (nil when absent).
//  ReservedAt   – server-side creation timestamp.
//  Date         – calendar date chosen by the requester.
//  Time         – time of day chosen by the requester ("HH:MM:SS").
//  HeadCount    – number of attendees.
//  Status       – one of the Status* constants above.
type Reservation struct {
	ID           uint64    // reservations.id
	UserID       uint64    // reservations.user_id
	FestivalID   uint64    // reservations.festival_id
	ProductID    uint64    // reservations.product_id
	DiscountRate *float64  // reservations.discount_rate (nullable)
	ReservedAt   time.Time // reservations.reserved_at
	Date         time.Time // reservations.date
	Time         string    // reservations.time
	HeadCount    int       // reservations.head_count
	Status       string    // reservations.status
}
