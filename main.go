package main

import (
	"context"
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"eventhub/config"
	"eventhub/database"
	"eventhub/handlers"
	"eventhub/imagestore"
	"eventhub/repository"
	"eventhub/router"
)

func main() {
	log := zerolog.New(os.Stdout).With().Timestamp().Logger()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("configuration error")
	}

	provider := database.NewProvider(cfg.MongoConnString, cfg.DBName, log)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := provider.EnsureIndexes(ctx); err != nil {
		// The unique indexes are the correctness backstop; refuse to
		// serve without them.
		log.Fatal().Err(err).Msg("cannot ensure indexes")
	}
	cancel()

	events := repository.NewEventRepository(
		database.NewLazyCollection(provider, database.EventsCollection), log)
	bookings := repository.NewBookingRepository(
		database.NewLazyCollection(provider, database.BookingsCollection), events, log)
	images := imagestore.NewCDNStore(cfg.ImageStoreURL, cfg.ImageStoreKey, log)

	app := fiber.New()
	router.SetupRoutes(app,
		handlers.NewEventHandler(events, log),
		handlers.NewBookingHandler(bookings, log),
		handlers.NewUploadHandler(images, log),
	)

	if err := app.Listen(cfg.ListenAddr); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
