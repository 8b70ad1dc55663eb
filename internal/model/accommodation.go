package model

import "time"

// Accommodation is a rentable unit from the catalog.  The booking core
// treats accommodations as read-only lookups: rows are seeded or
// administered outside this service, and only the identifier, the daily
// rate and the deletion flag matter to the lifecycle engine.
//
// Fields:
//  ID             - primary key identifier.
//  Type           - kind of unit (HOUSE, APARTMENT, CONDO, VACATION_HOME).
//  Location       - human-readable address line.
//  Size           - free-form size descriptor, e.g. "Studio, 1 Bedroom".
//  Amenities      - comma-separated amenity list.
//  DailyRateCents - nightly price in cents.
//  Availability   - number of identical units listed.
//  IsDeleted      - soft-delete flag.
//  CreatedAt      - creation timestamp.
//  UpdatedAt      - last update timestamp.
type Accommodation struct {
	ID             uint64    // accommodations.id
	Type           string    // accommodations.type
	Location       string    // accommodations.location
	Size           string    // accommodations.size
	Amenities      string    // accommodations.amenities
	DailyRateCents int64     // accommodations.daily_rate_cents
	Availability   int       // accommodations.availability
	IsDeleted      bool      // accommodations.is_deleted
	CreatedAt      time.Time // accommodations.created_at
	UpdatedAt      time.Time // accommodations.updated_at
}
