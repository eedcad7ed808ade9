package model

import "time"

// Festival represents a dated public event with a location, a set of
// free-form categories and the products sold at it.  This struct
// corresponds to a row in the `festivals` table.  Categories are stored
// in the database as a single comma-delimited string; the repository
// layer converts between that form and the ordered slice held here.
//
// Fields:
//  ID          – primary key identifier.
//  Name        – display name of the festival.
//  Description – long free-text description.
//  Location    – human-readable venue/address.
//  Categories  – ordered category names, parsed from the stored string.
//  Lat, Lng    – optional geo-coordinates (nil when not provided).
//  ImageURL    – optional image reference.
//  Region      – administrative region used for browsing.
//  StartDate   – first day of the festival.
//  EndDate     – last day of the festival.
type Festival struct {
	ID          uint64    // festivals.id
	Name        string    // festivals.name
	Description string    // festivals.description
	Location    string    // festivals.location
	Categories  []string  // festivals.categories (comma-delimited in storage)
	Lat         *float64  // festivals.lat (nullable)
	Lng         *float64  // festivals.lng (nullable)
	ImageURL    *string   // festivals.image_url (nullable)
	Region      string    // festivals.region
	StartDate   time.Time // festivals.start_date
	EndDate     time.Time // festivals.end_date
}
