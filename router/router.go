package router

import (
	"eventhub/handlers"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
)

func SetupRoutes(app *fiber.App, events *handlers.EventHandler, bookings *handlers.BookingHandler, uploads *handlers.UploadHandler) {
	api := app.Group("/api", logger.New())

	//Events
	event := api.Group("/events")
	event.Get("/", events.GetEvents)
	event.Get("/search", events.SearchEvents)
	event.Get("/tags", events.GetTags)
	event.Get("/stats", events.GetStats)
	event.Post("/", events.CreateEvent)
	event.Get("/:slug", events.GetEvent)
	event.Get("/:slug/similar", events.GetSimilarEvents)
	event.Put("/:id", events.UpdateEvent)
	event.Get("/:id/bookings", bookings.GetBookings)

	//Bookings
	booking := api.Group("/bookings")
	booking.Post("/", bookings.CreateBooking)
	booking.Patch("/:bookingId/cancel", bookings.CancelBooking)

	//Uploads
	api.Post("/uploads", uploads.UploadImage)
}
