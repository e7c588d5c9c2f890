package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// BookingStatus is the lifecycle state of a booking.
type BookingStatus string

const (
	BookingConfirmed  BookingStatus = "confirmed"
	BookingCancelled  BookingStatus = "cancelled"
	BookingWaitlisted BookingStatus = "waitlisted"
)

type Booking struct {
	Id        primitive.ObjectID `json:"_id" bson:"_id"`
	EventId   primitive.ObjectID `json:"event_id" bson:"event_id"`
	Email     string             `json:"email" bson:"email"`
	FullName  string             `json:"full_name" bson:"full_name"`
	Status    BookingStatus      `json:"status" bson:"status"`
	CreatedAt time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time          `json:"updated_at" bson:"updated_at"`
}

// BookingInput carries the attendee-supplied fields for registration.
type BookingInput struct {
	EventId  string `json:"event_id"`
	Email    string `json:"email"`
	FullName string `json:"full_name"`
}
