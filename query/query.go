// Package query compiles typed filter and sort specifications into the
// bson documents the event collection is queried with. Every listing call
// site goes through this one builder instead of assembling filters inline.
package query

import (
	"regexp"
	"strings"

	"eventhub/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SortKey selects the listing order.
type SortKey string

const (
	SortSoonest SortKey = "soonest" // date ascending, the default
	SortLatest  SortKey = "latest"  // date descending
	SortNewest  SortKey = "newest"  // recently added first
	SortPopular SortKey = "popular" // attendees descending, date ascending
)

// ParseSortKey maps a caller-supplied sort name to a SortKey. Unrecognized
// names fall back to SortSoonest.
func ParseSortKey(s string) SortKey {
	switch SortKey(strings.TrimSpace(strings.ToLower(s))) {
	case SortLatest:
		return SortLatest
	case SortNewest:
		return SortNewest
	case SortPopular:
		return SortPopular
	default:
		return SortSoonest
	}
}

// Sort returns the sort document for a key.
func Sort(key SortKey) bson.D {
	switch key {
	case SortLatest:
		return bson.D{{Key: "date", Value: -1}}
	case SortNewest:
		return bson.D{{Key: "created_at", Value: -1}}
	case SortPopular:
		return bson.D{{Key: "attendees", Value: -1}, {Key: "date", Value: 1}}
	default:
		return bson.D{{Key: "date", Value: 1}}
	}
}

// Filter is the typed filter specification for event listings.
type Filter struct {
	Search    string
	Mode      model.Mode
	Tag       string
	DateFloor string
}

// Document compiles the filter into a bson filter document. Blank fields
// contribute nothing; an empty filter matches every event.
func (f Filter) Document() bson.M {
	doc := bson.M{}

	if search := strings.TrimSpace(f.Search); search != "" {
		re := containsRegex(search)
		doc["$or"] = bson.A{
			bson.M{"title": re},
			bson.M{"description": re},
			bson.M{"tags": re},
			bson.M{"organizer": re},
			bson.M{"location": re},
		}
	}
	if mode := model.Mode(strings.TrimSpace(string(f.Mode))); mode != "" {
		doc["mode"] = mode
	}
	if tag := strings.TrimSpace(f.Tag); tag != "" {
		doc["tags"] = containsRegex(tag)
	}
	if f.DateFloor != "" {
		doc["date"] = bson.M{"$gte": f.DateFloor}
	}

	return doc
}

// containsRegex builds a case-insensitive substring matcher with the user
// text quoted so regex metacharacters match literally.
func containsRegex(s string) primitive.Regex {
	return primitive.Regex{Pattern: regexp.QuoteMeta(s), Options: "i"}
}
