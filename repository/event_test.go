package repository

import (
	"context"
	"testing"
	"time"

	"eventhub/model"
	"eventhub/query"
	"eventhub/validation"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var ctx = context.TODO()

func eventInput() model.EventInput {
	return model.EventInput{
		Title:       "Go Meetup Berlin",
		Description: "An evening of Go talks.",
		Overview:    "Talks and networking.",
		Image:       "https://cdn.example.com/meetup.png",
		Venue:       "Main Hall",
		Location:    "Berlin, Germany",
		Date:        validation.Today(),
		Time:        "18:30",
		Mode:        model.ModeOffline,
		Audience:    "Developers",
		Agenda:      []string{"Welcome", "Talks"},
		Organizer:   "Go Berlin",
		Tags:        []string{"go", "meetup"},
	}
}

func storedEvent(title, slug string, tags []string) model.Event {
	// BSON datetimes carry millisecond precision; truncate so fixtures
	// survive the fake's marshal/unmarshal round trip unchanged.
	now := time.Now().UTC().Truncate(time.Millisecond)
	return model.Event{
		Id:          primitive.NewObjectID(),
		Title:       title,
		Slug:        slug,
		Description: "desc",
		Overview:    "overview",
		Image:       "https://cdn.example.com/x.png",
		Venue:       "Hall",
		Location:    "Berlin",
		Date:        validation.Today(),
		Time:        "10:00",
		Mode:        model.ModeOnline,
		Audience:    "Everyone",
		Agenda:      []string{"a"},
		Organizer:   "Org",
		Tags:        tags,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func TestEventCreate(t *testing.T) {
	var inserted model.Event
	coll := &fakeCollection{
		insertOneFn: func(doc interface{}) (*mongo.InsertOneResult, error) {
			inserted = doc.(model.Event)
			return &mongo.InsertOneResult{InsertedID: inserted.Id}, nil
		},
	}
	repo := NewEventRepository(coll, zerolog.Nop())

	created, err := repo.Create(ctx, eventInput())
	require.NoError(t, err)

	assert.Equal(t, "go-meetup-berlin", created.Slug)
	assert.Equal(t, created.Slug, inserted.Slug)
	assert.False(t, created.Id.IsZero())
	assert.False(t, created.CreatedAt.IsZero())
	assert.Equal(t, created.CreatedAt, created.UpdatedAt)
	assert.Equal(t, 0, created.Attendees)
	assert.Equal(t, 1, coll.insertCalls)
}

func TestEventCreateValidationStopsWrite(t *testing.T) {
	coll := &fakeCollection{}
	repo := NewEventRepository(coll, zerolog.Nop())

	in := eventInput()
	in.Time = "25:99"
	_, err := repo.Create(ctx, in)

	var verrs validation.Errors
	require.ErrorAs(t, err, &verrs)
	assert.Equal(t, 0, coll.insertCalls, "invalid input must not reach the store")
}

func TestEventCreateDuplicateSlug(t *testing.T) {
	coll := &fakeCollection{
		insertOneFn: func(interface{}) (*mongo.InsertOneResult, error) { return nil, duplicateKeyErr() },
	}
	repo := NewEventRepository(coll, zerolog.Nop())

	// "My Talk" and "my talk" normalize to the same slug; the unique
	// index rejects the second insert.
	in := eventInput()
	in.Title = "my talk"
	_, err := repo.Create(ctx, in)
	assert.ErrorIs(t, err, ErrDuplicateSlug)
}

func TestEventCreateStoreUnavailable(t *testing.T) {
	coll := &fakeCollection{
		insertOneFn: func(interface{}) (*mongo.InsertOneResult, error) {
			return nil, context.DeadlineExceeded
		},
	}
	repo := NewEventRepository(coll, zerolog.Nop())

	_, err := repo.Create(ctx, eventInput())
	assert.ErrorIs(t, err, ErrStoreUnavailable)
}

func TestEventGetByIDBadHex(t *testing.T) {
	repo := NewEventRepository(&fakeCollection{}, zerolog.Nop())
	_, err := repo.GetByID(ctx, "definitely-not-an-object-id")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestEventGetBySlugNormalizes(t *testing.T) {
	stored := storedEvent("Go Conf", "go-conf", []string{"go"})
	var gotFilter bson.M
	coll := &fakeCollection{
		findOneFn: func(filter interface{}) *mongo.SingleResult {
			gotFilter = filter.(bson.M)
			return singleResult(stored)
		},
	}
	repo := NewEventRepository(coll, zerolog.Nop())

	event, err := repo.GetBySlug(ctx, "  GO-Conf ")
	require.NoError(t, err)
	assert.Equal(t, "go-conf", gotFilter["slug"])
	assert.Equal(t, stored.Slug, event.Slug)
}

func TestEventGetBySlugNotFound(t *testing.T) {
	repo := NewEventRepository(&fakeCollection{}, zerolog.Nop())
	_, err := repo.GetBySlug(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestEventListUpcomingPagination(t *testing.T) {
	stored := storedEvent("A", "a", []string{"go"})
	var countFilter bson.M
	var findOpts *options.FindOptions
	coll := &fakeCollection{
		countFn: func(filter interface{}) (int64, error) {
			countFilter = filter.(bson.M)
			return 25, nil
		},
		findFn: func(filter interface{}, opts *options.FindOptions) (*mongo.Cursor, error) {
			findOpts = opts
			return documentsCursor(stored)
		},
	}
	repo := NewEventRepository(coll, zerolog.Nop())

	page := repo.ListUpcoming(ctx, 2, 9, query.Filter{}, query.SortSoonest)

	assert.Equal(t, bson.M{"$gte": validation.Today()}, countFilter["date"], "upcoming restricts to date >= today")
	assert.Equal(t, 3, page.TotalPages, "ceil(25/9)")
	assert.Equal(t, 2, page.CurrentPage)
	assert.Len(t, page.Events, 1)
	require.NotNil(t, findOpts.Skip)
	assert.EqualValues(t, 9, *findOpts.Skip)
	require.NotNil(t, findOpts.Limit)
	assert.EqualValues(t, 9, *findOpts.Limit)
	assert.Equal(t, bson.D{{Key: "date", Value: 1}}, findOpts.Sort)
}

func TestEventListUpcomingClampsPage(t *testing.T) {
	var findOpts *options.FindOptions
	coll := &fakeCollection{
		countFn: func(interface{}) (int64, error) { return 5, nil },
		findFn: func(_ interface{}, opts *options.FindOptions) (*mongo.Cursor, error) {
			findOpts = opts
			return documentsCursor()
		},
	}
	repo := NewEventRepository(coll, zerolog.Nop())

	page := repo.ListUpcoming(ctx, 0, 0, query.Filter{}, query.SortSoonest)
	assert.Equal(t, 1, page.CurrentPage)
	assert.EqualValues(t, 0, *findOpts.Skip)
	assert.EqualValues(t, DefaultPageSize, *findOpts.Limit)
}

func TestEventListUpcomingPageBeyondEnd(t *testing.T) {
	coll := &fakeCollection{
		countFn: func(interface{}) (int64, error) { return 3, nil },
		findFn: func(interface{}, *options.FindOptions) (*mongo.Cursor, error) {
			return documentsCursor()
		},
	}
	repo := NewEventRepository(coll, zerolog.Nop())

	page := repo.ListUpcoming(ctx, 7, 9, query.Filter{}, query.SortSoonest)
	assert.Empty(t, page.Events)
	assert.Equal(t, 1, page.TotalPages)
	assert.Equal(t, 7, page.CurrentPage)
}

func TestEventListUpcomingDegradesOnStoreError(t *testing.T) {
	coll := &fakeCollection{
		countFn: func(interface{}) (int64, error) { return 0, context.DeadlineExceeded },
	}
	repo := NewEventRepository(coll, zerolog.Nop())

	page := repo.ListUpcoming(ctx, 1, 9, query.Filter{}, query.SortSoonest)
	assert.NotNil(t, page.Events)
	assert.Empty(t, page.Events)
	assert.Equal(t, 0, page.TotalPages)
}

func TestEventSearchHasNoDateRestriction(t *testing.T) {
	var countFilter bson.M
	coll := &fakeCollection{
		countFn: func(filter interface{}) (int64, error) {
			countFilter = filter.(bson.M)
			return 0, nil
		},
	}
	repo := NewEventRepository(coll, zerolog.Nop())

	repo.Search(ctx, "golang", 1, 9)

	_, hasDate := countFilter["date"]
	assert.False(t, hasDate)
	_, hasOr := countFilter["$or"]
	assert.True(t, hasOr)
}

func TestEventFindSimilar(t *testing.T) {
	refTags := []string{"X", "Y"}
	ref := storedEvent("A", "a", refTags)
	b := storedEvent("B", "b", []string{"Y"})

	var findFilter bson.M
	coll := &fakeCollection{
		findOneFn: func(interface{}) *mongo.SingleResult { return singleResult(ref) },
		findFn: func(filter interface{}, opts *options.FindOptions) (*mongo.Cursor, error) {
			findFilter = filter.(bson.M)
			return documentsCursor(b)
		},
	}
	repo := NewEventRepository(coll, zerolog.Nop())

	similar := repo.FindSimilar(ctx, "a", 5)

	require.Len(t, similar, 1)
	assert.Equal(t, b.Slug, similar[0].Slug)
	assert.Equal(t, bson.M{"$in": refTags}, findFilter["tags"])
	assert.Equal(t, bson.M{"$ne": ref.Id}, findFilter["_id"])
	assert.Equal(t, bson.M{"$gte": validation.Today()}, findFilter["date"])
}

func TestEventFindSimilarUnknownSlug(t *testing.T) {
	repo := NewEventRepository(&fakeCollection{}, zerolog.Nop())
	assert.Empty(t, repo.FindSimilar(ctx, "no-such-event", 5))
}

func TestEventDistinctTags(t *testing.T) {
	coll := &fakeCollection{
		distinctFn: func(fieldName string, _ interface{}) ([]interface{}, error) {
			assert.Equal(t, "tags", fieldName)
			return []interface{}{"go", "", "  ", "devops"}, nil
		},
	}
	repo := NewEventRepository(coll, zerolog.Nop())

	assert.ElementsMatch(t, []string{"go", "devops"}, repo.DistinctTags(ctx))
}

func TestEventCountByMode(t *testing.T) {
	coll := &fakeCollection{
		countFn: func(filter interface{}) (int64, error) {
			f := filter.(bson.M)
			assert.Contains(t, f, "date", "every stat is scoped to upcoming events")
			switch f["mode"] {
			case model.ModeOnline:
				return 2, nil
			case model.ModeOffline:
				return 3, nil
			case model.ModeHybrid:
				return 1, nil
			}
			return 6, nil
		},
	}
	repo := NewEventRepository(coll, zerolog.Nop())

	stats := repo.CountByMode(ctx)
	assert.Equal(t, model.EventStats{Total: 6, Online: 2, Offline: 3, Hybrid: 1}, stats)
}

func TestEventCountByModeDegrades(t *testing.T) {
	coll := &fakeCollection{
		countFn: func(interface{}) (int64, error) { return 0, context.DeadlineExceeded },
	}
	repo := NewEventRepository(coll, zerolog.Nop())
	assert.Equal(t, model.EventStats{}, repo.CountByMode(ctx))
}

func TestEventUpdateRegeneratesSlugOnTitleChange(t *testing.T) {
	current := storedEvent("Old Title", "old-title", []string{"go"})
	var setDoc bson.M
	coll := &fakeCollection{
		findOneFn: func(interface{}) *mongo.SingleResult { return singleResult(current) },
		updateOneFn: func(_, update interface{}) (*mongo.UpdateResult, error) {
			setDoc = update.(bson.M)["$set"].(bson.M)
			return &mongo.UpdateResult{MatchedCount: 1, ModifiedCount: 1}, nil
		},
	}
	repo := NewEventRepository(coll, zerolog.Nop())

	in := eventInput()
	in.Title = "Brand New Title"
	updated, err := repo.Update(ctx, current.Id.Hex(), in)

	require.NoError(t, err)
	assert.Equal(t, "brand-new-title", updated.Slug)
	assert.Equal(t, "brand-new-title", setDoc["slug"])
	assert.True(t, current.CreatedAt.Equal(updated.CreatedAt), "creation time preserved")
}

func TestEventUpdateKeepsSlugWhenTitleUnchanged(t *testing.T) {
	current := storedEvent("Same Title", "same-title", []string{"go"})
	coll := &fakeCollection{
		findOneFn: func(interface{}) *mongo.SingleResult { return singleResult(current) },
	}
	repo := NewEventRepository(coll, zerolog.Nop())

	in := eventInput()
	in.Title = "Same Title"
	updated, err := repo.Update(ctx, current.Id.Hex(), in)

	require.NoError(t, err)
	assert.Equal(t, "same-title", updated.Slug)
}

func TestEventUpdateAllowsPastDateWhenUnchanged(t *testing.T) {
	current := storedEvent("Past Event", "past-event", []string{"go"})
	current.Date = "2001-01-01"
	coll := &fakeCollection{
		findOneFn: func(interface{}) *mongo.SingleResult { return singleResult(current) },
	}
	repo := NewEventRepository(coll, zerolog.Nop())

	in := eventInput()
	in.Title = "Past Event"
	in.Date = "2001-01-01"
	_, err := repo.Update(ctx, current.Id.Hex(), in)
	assert.NoError(t, err)

	in.Date = "2001-01-02"
	_, err = repo.Update(ctx, current.Id.Hex(), in)
	var verrs validation.Errors
	require.ErrorAs(t, err, &verrs, "changing to another past date is rejected")
}

func TestEventUpdateUnknownId(t *testing.T) {
	repo := NewEventRepository(&fakeCollection{}, zerolog.Nop())
	_, err := repo.Update(ctx, primitive.NewObjectID().Hex(), eventInput())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPageCount(t *testing.T) {
	tests := []struct {
		total    int64
		pageSize int
		expected int
	}{
		{0, 9, 0},
		{1, 9, 1},
		{9, 9, 1},
		{10, 9, 2},
		{25, 9, 3},
		{27, 9, 3},
	}
	for _, test := range tests {
		assert.Equalf(t, test.expected, pageCount(test.total, test.pageSize),
			"total=%d pageSize=%d", test.total, test.pageSize)
	}
}
