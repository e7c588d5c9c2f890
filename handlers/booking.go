package handlers

import (
	"context"

	apperrors "eventhub/errors"
	"eventhub/model"
	"eventhub/repository"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
)

// BookingStore is the slice of the booking repository the HTTP layer calls.
type BookingStore interface {
	Create(ctx context.Context, in model.BookingInput) (*model.Booking, error)
	Cancel(ctx context.Context, bookingId string) (*model.Booking, error)
	ListByEvent(ctx context.Context, eventId string, page, pageSize int) repository.BookingPage
}

type BookingHandler struct {
	bookings BookingStore
	log      zerolog.Logger
}

func NewBookingHandler(bookings BookingStore, log zerolog.Logger) *BookingHandler {
	return &BookingHandler{bookings: bookings, log: log.With().Str("component", "booking_handler").Logger()}
}

func (h *BookingHandler) CreateBooking(c *fiber.Ctx) error {
	in := new(model.BookingInput)
	if err := c.BodyParser(in); err != nil {
		return apperrors.RaiseBadRequestError(c, "unacceptable booking parameters")
	}

	booking, err := h.bookings.Create(c.Context(), *in)
	if err != nil {
		return raiseDomainError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(booking)
}

func (h *BookingHandler) CancelBooking(c *fiber.Ctx) error {
	booking, err := h.bookings.Cancel(c.Context(), c.Params("bookingId"))
	if err != nil {
		return raiseDomainError(c, h.log, err)
	}
	return c.JSON(booking)
}

// GetBookings lists the confirmed bookings of one event, newest first.
func (h *BookingHandler) GetBookings(c *fiber.Ctx) error {
	page := h.bookings.ListByEvent(
		c.Context(),
		c.Params("id"),
		queryInt(c, "page", 1),
		queryInt(c, "page_size", repository.DefaultPageSize),
	)
	return c.JSON(page)
}
