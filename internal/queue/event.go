// Package queue defines message payloads exchanged over the message
// broker, the publisher and the background consumer.
package queue

// ReservationCreatedEvent is published when a reservation is
// successfully created.  It carries enough information for downstream
// consumers to log, notify or feed analytics without querying the
// primary database.
type ReservationCreatedEvent struct {
	ReservationID uint64 `json:"reservation_id"`
	UserID        uint64 `json:"user_id"`
	FestivalID    uint64 `json:"festival_id"`
	FestivalName  string `json:"festival_name"`
	ProductID     uint64 `json:"product_id"`
	ProductName   string `json:"product_name"`
	Date          string `json:"date"`
	Time          string `json:"time"`
	HeadCount     int    `json:"head_count"`
	Status        string `json:"status"`
	ReservedAt    string `json:"reserved_at"`
}
