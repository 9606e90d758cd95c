// Package repository contains data access for the board tables. The MySQL
// repositories follow one struct per table; SQLStore and MemoryStore combine
// them into the three reads and the admin writes the service needs.
package repository

import "errors"

// ErrPromotionNotFound is returned when no promotion has the requested id.
var ErrPromotionNotFound = errors.New("promotion not found")

// ErrPromotionExists is returned when adding a promotion whose id is taken.
var ErrPromotionExists = errors.New("promotion already exists")

// ErrLateNightNotFound is returned when the late_night_lanes singleton row
// has not been seeded.
var ErrLateNightNotFound = errors.New("late night lanes not configured")

// ErrStoreUnavailable wraps failures to reach the backing database so the
// handlers can answer 503 instead of 500.
var ErrStoreUnavailable = errors.New("store unavailable")
