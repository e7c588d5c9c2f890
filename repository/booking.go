package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"eventhub/model"
	"eventhub/validation"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EventStore is the slice of the event repository the booking side needs:
// resolving the referenced event and maintaining its attendees counter.
type EventStore interface {
	GetByID(ctx context.Context, id string) (*model.Event, error)
	AdjustAttendees(ctx context.Context, id primitive.ObjectID, delta int) error
}

// BookingPage is one page of bookings for an event.
type BookingPage struct {
	Bookings    []model.Booking `json:"bookings"`
	Total       int64           `json:"total"`
	TotalPages  int             `json:"total_pages"`
	CurrentPage int             `json:"current_page"`
}

// BookingRepository owns the bookings collection. The per-(event, email)
// unique index is the atomic backstop behind the capacity gate: the
// count-then-insert below has a race window under concurrent registration,
// accepted as a bounded overshoot (the index still forbids duplicate
// pairs). A cancelled booking keeps occupying its (event, email) slot
// because the unique index carries no status qualifier. Product decision
// to confirm: whether cancelling should free the slot for re-registration.
type BookingRepository struct {
	bookings Collection
	events   EventStore
	log      zerolog.Logger
}

func NewBookingRepository(bookings Collection, events EventStore, log zerolog.Logger) *BookingRepository {
	return &BookingRepository{
		bookings: bookings,
		events:   events,
		log:      log.With().Str("component", "booking_repository").Logger(),
	}
}

// Create registers an attendee: resolve the event, gate on capacity,
// validate the attendee fields, insert with status confirmed. The unique
// index translates a concurrent or repeated same-pair insert into
// ErrDuplicateBooking.
func (r *BookingRepository) Create(ctx context.Context, in model.BookingInput) (*model.Booking, error) {
	event, err := r.events.GetByID(ctx, in.EventId)
	if errors.Is(err, ErrNotFound) {
		return nil, fmt.Errorf("event not found: %w", ErrNotFound)
	}
	if err != nil {
		return nil, err
	}

	if event.Capacity != nil {
		confirmed, err := r.bookings.CountDocuments(ctx, bson.M{
			"event_id": event.Id,
			"status":   model.BookingConfirmed,
		})
		if err != nil {
			return nil, classifyStoreErr(err)
		}
		if confirmed >= int64(*event.Capacity) {
			return nil, ErrCapacityFull
		}
	}

	email := validation.NormalizeEmail(in.Email)
	fullName := strings.TrimSpace(in.FullName)
	if errs := validation.Booking(email, fullName); len(errs) > 0 {
		return nil, errs
	}

	now := time.Now().UTC()
	booking := model.Booking{
		Id:        primitive.NewObjectID(),
		EventId:   event.Id,
		Email:     email,
		FullName:  fullName,
		Status:    model.BookingConfirmed,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if _, err := r.bookings.InsertOne(ctx, booking); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, ErrDuplicateBooking
		}
		return nil, classifyStoreErr(err)
	}

	if err := r.events.AdjustAttendees(ctx, event.Id, 1); err != nil {
		// The booking stands; the popularity counter catches up later.
		r.log.Warn().Err(err).Str("event_id", event.Id.Hex()).Msg("attendees increment failed")
	}

	return &booking, nil
}

// Cancel flips a booking to cancelled. The (event, email) uniqueness slot
// stays occupied.
func (r *BookingRepository) Cancel(ctx context.Context, bookingId string) (*model.Booking, error) {
	objId, err := primitive.ObjectIDFromHex(strings.TrimSpace(bookingId))
	if err != nil {
		return nil, ErrNotFound
	}

	now := time.Now().UTC()
	var previous model.Booking
	err = r.bookings.FindOneAndUpdate(ctx,
		bson.M{"_id": objId},
		bson.M{"$set": bson.M{"status": model.BookingCancelled, "updated_at": now}},
		options.FindOneAndUpdate().SetReturnDocument(options.Before),
	).Decode(&previous)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, classifyStoreErr(err)
	}

	if previous.Status == model.BookingConfirmed {
		if err := r.events.AdjustAttendees(ctx, previous.EventId, -1); err != nil {
			r.log.Warn().Err(err).Str("event_id", previous.EventId.Hex()).Msg("attendees decrement failed")
		}
	}

	cancelled := previous
	cancelled.Status = model.BookingCancelled
	cancelled.UpdatedAt = now
	return &cancelled, nil
}

// ListByEvent returns one page of confirmed bookings for an event, most
// recent first. Store failures degrade to an empty page.
func (r *BookingRepository) ListByEvent(ctx context.Context, eventId string, page, pageSize int) BookingPage {
	page, pageSize = normalizePaging(page, pageSize)
	empty := BookingPage{Bookings: []model.Booking{}, Total: 0, TotalPages: 0, CurrentPage: page}

	objId, err := primitive.ObjectIDFromHex(strings.TrimSpace(eventId))
	if err != nil {
		return empty
	}
	filter := bson.M{"event_id": objId, "status": model.BookingConfirmed}

	total, err := r.bookings.CountDocuments(ctx, filter)
	if err != nil {
		r.log.Warn().Err(err).Msg("booking count failed, returning empty page")
		return empty
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(int64((page - 1) * pageSize)).
		SetLimit(int64(pageSize))
	cur, err := r.bookings.Find(ctx, filter, opts)
	if err != nil {
		r.log.Warn().Err(err).Msg("booking find failed, returning empty page")
		return empty
	}

	bookings := []model.Booking{}
	if err := cur.All(ctx, &bookings); err != nil {
		r.log.Warn().Err(err).Msg("booking decode failed, returning empty page")
		return empty
	}

	return BookingPage{
		Bookings:    bookings,
		Total:       total,
		TotalPages:  pageCount(total, pageSize),
		CurrentPage: page,
	}
}
