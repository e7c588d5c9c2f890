// Package repository implements the event/booking consistency layer on top
// of the document store: slug uniqueness, capacity-bounded registration,
// and the filtered, paginated listing queries.
package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"eventhub/model"
	"eventhub/query"
	"eventhub/slug"
	"eventhub/validation"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EventPage is one page of a listing result.
type EventPage struct {
	Events      []model.Event `json:"events"`
	TotalPages  int           `json:"total_pages"`
	CurrentPage int           `json:"current_page"`
}

// EventRepository owns the events collection.
type EventRepository struct {
	events Collection
	log    zerolog.Logger
}

func NewEventRepository(events Collection, log zerolog.Logger) *EventRepository {
	return &EventRepository{
		events: events,
		log:    log.With().Str("component", "event_repository").Logger(),
	}
}

// Create validates the input, derives the slug and persists the event.
// A slug collision surfaces as ErrDuplicateSlug via the unique index.
func (r *EventRepository) Create(ctx context.Context, in model.EventInput) (*model.Event, error) {
	in.Title = strings.TrimSpace(in.Title)

	if errs := validation.Event(in, true); len(errs) > 0 {
		return nil, errs
	}
	s := slug.Make(in.Title)
	if s == "" {
		return nil, validation.Errors{{Field: "title", Message: "must contain characters usable in a URL"}}
	}

	now := time.Now().UTC()
	event := model.Event{
		Id:              primitive.NewObjectID(),
		Title:           in.Title,
		Slug:            s,
		Description:     in.Description,
		Overview:        in.Overview,
		Image:           in.Image,
		Venue:           in.Venue,
		Location:        in.Location,
		Date:            in.Date,
		Time:            in.Time,
		Mode:            in.Mode,
		Audience:        in.Audience,
		Agenda:          in.Agenda,
		Organizer:       in.Organizer,
		Tags:            in.Tags,
		Price:           in.Price,
		Capacity:        in.Capacity,
		RegistrationUrl: in.RegistrationUrl,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if _, err := r.events.InsertOne(ctx, event); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, ErrDuplicateSlug
		}
		return nil, classifyStoreErr(err)
	}

	return &event, nil
}

// Update re-validates the changed fields and persists them. The slug is
// regenerated only when the title changed or no slug exists yet; the
// past-date rule applies only when the date itself changed.
func (r *EventRepository) Update(ctx context.Context, id string, in model.EventInput) (*model.Event, error) {
	current, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	in.Title = strings.TrimSpace(in.Title)

	if errs := validation.Event(in, in.Date != current.Date); len(errs) > 0 {
		return nil, errs
	}

	newSlug := current.Slug
	if in.Title != current.Title || newSlug == "" {
		newSlug = slug.Make(in.Title)
		if newSlug == "" {
			return nil, validation.Errors{{Field: "title", Message: "must contain characters usable in a URL"}}
		}
	}

	updated := *current
	updated.Title = in.Title
	updated.Slug = newSlug
	updated.Description = in.Description
	updated.Overview = in.Overview
	updated.Image = in.Image
	updated.Venue = in.Venue
	updated.Location = in.Location
	updated.Date = in.Date
	updated.Time = in.Time
	updated.Mode = in.Mode
	updated.Audience = in.Audience
	updated.Agenda = in.Agenda
	updated.Organizer = in.Organizer
	updated.Tags = in.Tags
	updated.Price = in.Price
	updated.Capacity = in.Capacity
	updated.RegistrationUrl = in.RegistrationUrl
	updated.UpdatedAt = time.Now().UTC()

	_, err = r.events.UpdateOne(ctx,
		bson.M{"_id": current.Id},
		bson.M{"$set": bson.M{
			"title":            updated.Title,
			"slug":             updated.Slug,
			"description":      updated.Description,
			"overview":         updated.Overview,
			"image":            updated.Image,
			"venue":            updated.Venue,
			"location":         updated.Location,
			"date":             updated.Date,
			"time":             updated.Time,
			"mode":             updated.Mode,
			"audience":         updated.Audience,
			"agenda":           updated.Agenda,
			"organizer":        updated.Organizer,
			"tags":             updated.Tags,
			"price":            updated.Price,
			"capacity":         updated.Capacity,
			"registration_url": updated.RegistrationUrl,
			"updated_at":       updated.UpdatedAt,
		}})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, ErrDuplicateSlug
		}
		return nil, classifyStoreErr(err)
	}

	return &updated, nil
}

// GetBySlug looks an event up by its slug, normalized to lowercase.
func (r *EventRepository) GetBySlug(ctx context.Context, s string) (*model.Event, error) {
	return r.getOne(ctx, bson.M{"slug": strings.ToLower(strings.TrimSpace(s))})
}

// GetByID looks an event up by its store identifier.
func (r *EventRepository) GetByID(ctx context.Context, id string) (*model.Event, error) {
	objId, err := primitive.ObjectIDFromHex(strings.TrimSpace(id))
	if err != nil {
		return nil, ErrNotFound
	}
	return r.getOne(ctx, bson.M{"_id": objId})
}

func (r *EventRepository) getOne(ctx context.Context, filter bson.M) (*model.Event, error) {
	var event model.Event
	err := r.events.FindOne(ctx, filter).Decode(&event)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, classifyStoreErr(err)
	}
	return &event, nil
}

// ListUpcoming returns one page of events dated today or later, narrowed
// by the filter and ordered by the sort key. Store failures degrade to an
// empty page so listing pages always render.
func (r *EventRepository) ListUpcoming(ctx context.Context, page, pageSize int, f query.Filter, sort query.SortKey) EventPage {
	f.DateFloor = validation.Today()
	return r.listPage(ctx, "list_upcoming", page, pageSize, f.Document(), query.Sort(sort))
}

// Search returns one page of events matching the free-text query across
// title, description, tags, organizer and location, with no date
// restriction.
func (r *EventRepository) Search(ctx context.Context, q string, page, pageSize int) EventPage {
	f := query.Filter{Search: q}
	return r.listPage(ctx, "search", page, pageSize, f.Document(), query.Sort(query.SortSoonest))
}

func (r *EventRepository) listPage(ctx context.Context, op string, page, pageSize int, filter bson.M, sort bson.D) EventPage {
	page, pageSize = normalizePaging(page, pageSize)
	empty := EventPage{Events: []model.Event{}, TotalPages: 0, CurrentPage: page}

	total, err := r.events.CountDocuments(ctx, filter)
	if err != nil {
		r.log.Warn().Err(err).Str("op", op).Msg("count failed, returning empty page")
		return empty
	}

	opts := options.Find().
		SetSort(sort).
		SetSkip(int64((page - 1) * pageSize)).
		SetLimit(int64(pageSize))
	cur, err := r.events.Find(ctx, filter, opts)
	if err != nil {
		r.log.Warn().Err(err).Str("op", op).Msg("find failed, returning empty page")
		return empty
	}

	events := []model.Event{}
	if err := cur.All(ctx, &events); err != nil {
		r.log.Warn().Err(err).Str("op", op).Msg("decode failed, returning empty page")
		return empty
	}

	return EventPage{
		Events:      events,
		TotalPages:  pageCount(total, pageSize),
		CurrentPage: page,
	}
}

// FindSimilar returns up to limit other upcoming events sharing at least
// one tag with the referenced event, soonest first with recency as the
// tiebreak. An unknown slug yields an empty result, not an error.
func (r *EventRepository) FindSimilar(ctx context.Context, s string, limit int) []model.Event {
	ref, err := r.GetBySlug(ctx, s)
	if err != nil {
		r.log.Info().Str("slug", s).Msg("similar lookup for unknown event")
		return []model.Event{}
	}

	filter := bson.M{
		"tags": bson.M{"$in": ref.Tags},
		"date": bson.M{"$gte": validation.Today()},
		"_id":  bson.M{"$ne": ref.Id},
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "date", Value: 1}, {Key: "created_at", Value: -1}}).
		SetLimit(int64(limit))

	cur, err := r.events.Find(ctx, filter, opts)
	if err != nil {
		r.log.Warn().Err(err).Msg("similar lookup failed, returning empty result")
		return []model.Event{}
	}

	events := []model.Event{}
	if err := cur.All(ctx, &events); err != nil {
		r.log.Warn().Err(err).Msg("similar decode failed, returning empty result")
		return []model.Event{}
	}
	return events
}

// DistinctTags returns every tag in use, blanks excluded.
func (r *EventRepository) DistinctTags(ctx context.Context) []string {
	values, err := r.events.Distinct(ctx, "tags", bson.M{})
	if err != nil {
		r.log.Warn().Err(err).Msg("distinct tags failed, returning empty result")
		return []string{}
	}

	tags := []string{}
	for _, v := range values {
		if tag, ok := v.(string); ok && strings.TrimSpace(tag) != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}

// CountByMode returns the upcoming-event counts, total and per mode.
// Store failures degrade to zero counts.
func (r *EventRepository) CountByMode(ctx context.Context) model.EventStats {
	upcoming := bson.M{"date": bson.M{"$gte": validation.Today()}}

	count := func(mode model.Mode) int64 {
		filter := bson.M{"date": upcoming["date"]}
		if mode != "" {
			filter["mode"] = mode
		}
		n, err := r.events.CountDocuments(ctx, filter)
		if err != nil {
			r.log.Warn().Err(err).Str("mode", string(mode)).Msg("mode count failed, returning zero")
			return 0
		}
		return n
	}

	return model.EventStats{
		Total:   count(""),
		Online:  count(model.ModeOnline),
		Offline: count(model.ModeOffline),
		Hybrid:  count(model.ModeHybrid),
	}
}

// AdjustAttendees moves the denormalized confirmed-booking counter on an
// event. The booking repository calls it after successful registration and
// cancellation; it backs the "most popular" sort.
func (r *EventRepository) AdjustAttendees(ctx context.Context, id primitive.ObjectID, delta int) error {
	_, err := r.events.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$inc": bson.M{"attendees": delta}})
	return classifyStoreErr(err)
}
