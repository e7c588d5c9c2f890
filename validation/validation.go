// Package validation holds the field rules for events and bookings. All
// violated fields are reported together so form-driven callers can render
// per-field errors in one round trip.
package validation

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"eventhub/model"
)

// DateLayout is the calendar-date format events are stored with.
const DateLayout = "2006-01-02"

var (
	dateRe  = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	timeRe  = regexp.MustCompile(`^([01]?[0-9]|2[0-3]):[0-5][0-9]$`)
	emailRe = regexp.MustCompile(`^[a-zA-Z0-9.!#$%&'*+/=?^_` + "`" + `{|}~-]+@[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?(?:\.[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?)+$`)
)

// FieldError names one violated field with a human-readable message.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Errors aggregates every violated field of one input.
type Errors []FieldError

func (e Errors) Error() string {
	msgs := make([]string, len(e))
	for i, fe := range e {
		msgs[i] = fmt.Sprintf("%s: %s", fe.Field, fe.Message)
	}
	return strings.Join(msgs, "; ")
}

// Event checks every organizer-supplied field. checkDateFloor applies the
// not-before-today rule and must be set on create and whenever the date
// field changed on update.
func Event(in model.EventInput, checkDateFloor bool) Errors {
	var errs Errors

	errs = requireBounded(errs, "title", in.Title, 120)
	errs = requireBounded(errs, "description", in.Description, 2000)
	errs = requireBounded(errs, "overview", in.Overview, 500)
	errs = requireBounded(errs, "venue", in.Venue, 100)
	errs = requireBounded(errs, "location", in.Location, 200)
	errs = requireBounded(errs, "audience", in.Audience, 100)
	errs = requireBounded(errs, "organizer", in.Organizer, 100)

	if in.Image == "" {
		errs = append(errs, FieldError{"image", "is required"})
	} else if !isAbsoluteURL(in.Image) {
		errs = append(errs, FieldError{"image", "must be a well-formed URL"})
	}
	if in.RegistrationUrl != "" && !isAbsoluteURL(in.RegistrationUrl) {
		errs = append(errs, FieldError{"registration_url", "must be a well-formed URL"})
	}

	if !dateRe.MatchString(in.Date) {
		errs = append(errs, FieldError{"date", "must be in YYYY-MM-DD format"})
	} else if _, err := time.Parse(DateLayout, in.Date); err != nil {
		errs = append(errs, FieldError{"date", "is not a valid calendar date"})
	} else if checkDateFloor && in.Date < Today() {
		// ISO dates compare correctly as strings.
		errs = append(errs, FieldError{"date", "cannot be in the past"})
	}

	if !timeRe.MatchString(in.Time) {
		errs = append(errs, FieldError{"time", "must be in HH:MM 24-hour format"})
	}
	if !in.Mode.Valid() {
		errs = append(errs, FieldError{"mode", "must be one of online, offline, hybrid"})
	}
	if len(in.Agenda) == 0 {
		errs = append(errs, FieldError{"agenda", "must have at least one item"})
	}
	if len(in.Tags) == 0 {
		errs = append(errs, FieldError{"tags", "must have at least one tag"})
	}
	if in.Price < 0 {
		errs = append(errs, FieldError{"price", "cannot be negative"})
	}
	if in.Capacity != nil && *in.Capacity <= 0 {
		errs = append(errs, FieldError{"capacity", "must be a positive integer"})
	}

	return errs
}

// Booking checks the attendee-supplied fields. Email is expected to be
// normalized (trimmed, lowercased) before validation.
func Booking(email, fullName string) Errors {
	var errs Errors

	if email == "" {
		errs = append(errs, FieldError{"email", "is required"})
	} else if !emailRe.MatchString(email) {
		errs = append(errs, FieldError{"email", "is not a valid email address"})
	}
	errs = requireBounded(errs, "full_name", fullName, 100)

	return errs
}

// NormalizeEmail trims and lowercases an address for storage and matching.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func requireBounded(errs Errors, field, value string, max int) Errors {
	if value == "" {
		return append(errs, FieldError{field, "is required"})
	}
	// Bounds are character counts, so multibyte input is measured in runes.
	if utf8.RuneCountInString(value) > max {
		return append(errs, FieldError{field, fmt.Sprintf("must be at most %d characters", max)})
	}
	return errs
}

func isAbsoluteURL(s string) bool {
	u, err := url.Parse(s)
	return err == nil && u.Scheme != "" && u.Host != ""
}

// Today returns the store-local current calendar day in DateLayout,
// the floor used for "upcoming" queries.
func Today() string {
	return time.Now().Format(DateLayout)
}
