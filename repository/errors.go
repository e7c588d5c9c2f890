package repository

import (
	"context"
	"errors"
	"fmt"

	"eventhub/database"

	"go.mongodb.org/mongo-driver/mongo"
)

// ErrNotFound is returned when a referenced event or booking does not exist.
var ErrNotFound = errors.New("not found")

// ErrDuplicateSlug is returned when an event title normalizes to a slug
// that already identifies another event.
var ErrDuplicateSlug = errors.New("an event with this slug already exists")

// ErrDuplicateBooking is returned when the (event, email) pair is already
// registered.
var ErrDuplicateBooking = errors.New("already registered for this event")

// ErrCapacityFull is returned when the confirmed-booking count has reached
// the event's capacity.
var ErrCapacityFull = errors.New("event is at full capacity")

// ErrStoreUnavailable is returned on write paths when the document store is
// unreachable or times out. Read paths absorb these failures into empty
// results instead.
var ErrStoreUnavailable = errors.New("document store unavailable")

// classifyStoreErr maps connectivity failures to ErrStoreUnavailable so the
// presentation layer can answer 503; everything else passes through.
func classifyStoreErr(err error) error {
	if err == nil {
		return nil
	}
	if mongo.IsTimeout(err) || mongo.IsNetworkError(err) ||
		errors.Is(err, context.DeadlineExceeded) ||
		errors.Is(err, database.ErrUnavailable) {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return err
}
