package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Mode is the attendance modality of an event.
type Mode string

const (
	ModeOnline  Mode = "online"
	ModeOffline Mode = "offline"
	ModeHybrid  Mode = "hybrid"
)

// Valid reports whether m is one of the known modes.
func (m Mode) Valid() bool {
	return m == ModeOnline || m == ModeOffline || m == ModeHybrid
}

type Event struct {
	Id              primitive.ObjectID `json:"_id" bson:"_id"`
	Title           string             `json:"title" bson:"title"`
	Slug            string             `json:"slug" bson:"slug"`
	Description     string             `json:"description" bson:"description"`
	Overview        string             `json:"overview" bson:"overview"`
	Image           string             `json:"image" bson:"image"`
	Venue           string             `json:"venue" bson:"venue"`
	Location        string             `json:"location" bson:"location"`
	Date            string             `json:"date" bson:"date"`
	Time            string             `json:"time" bson:"time"`
	Mode            Mode               `json:"mode" bson:"mode"`
	Audience        string             `json:"audience" bson:"audience"`
	Agenda          []string           `json:"agenda" bson:"agenda"`
	Organizer       string             `json:"organizer" bson:"organizer"`
	Tags            []string           `json:"tags" bson:"tags"`
	Price           float64            `json:"price" bson:"price"`
	Capacity        *int               `json:"capacity,omitempty" bson:"capacity,omitempty"`
	RegistrationUrl string             `json:"registration_url,omitempty" bson:"registration_url,omitempty"`
	Attendees       int                `json:"attendees" bson:"attendees"`
	CreatedAt       time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt       time.Time          `json:"updated_at" bson:"updated_at"`
}

// EventInput carries the organizer-supplied fields for create and update.
// Slug, attendees and timestamps are owned by the repository.
type EventInput struct {
	Title           string   `json:"title"`
	Description     string   `json:"description"`
	Overview        string   `json:"overview"`
	Image           string   `json:"image"`
	Venue           string   `json:"venue"`
	Location        string   `json:"location"`
	Date            string   `json:"date"`
	Time            string   `json:"time"`
	Mode            Mode     `json:"mode"`
	Audience        string   `json:"audience"`
	Agenda          []string `json:"agenda"`
	Organizer       string   `json:"organizer"`
	Tags            []string `json:"tags"`
	Price           float64  `json:"price"`
	Capacity        *int     `json:"capacity,omitempty"`
	RegistrationUrl string   `json:"registration_url,omitempty"`
}

// EventStats are the upcoming-event counts broken down by mode.
type EventStats struct {
	Total   int64 `json:"total"`
	Online  int64 `json:"online"`
	Offline int64 `json:"offline"`
	Hybrid  int64 `json:"hybrid"`
}
