package handlers

import (
	"context"

	apperrors "eventhub/errors"
	"eventhub/model"
	"eventhub/query"
	"eventhub/repository"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
)

// EventStore is the slice of the event repository the HTTP layer calls.
type EventStore interface {
	Create(ctx context.Context, in model.EventInput) (*model.Event, error)
	Update(ctx context.Context, id string, in model.EventInput) (*model.Event, error)
	GetBySlug(ctx context.Context, slug string) (*model.Event, error)
	ListUpcoming(ctx context.Context, page, pageSize int, f query.Filter, sort query.SortKey) repository.EventPage
	Search(ctx context.Context, q string, page, pageSize int) repository.EventPage
	FindSimilar(ctx context.Context, slug string, limit int) []model.Event
	DistinctTags(ctx context.Context) []string
	CountByMode(ctx context.Context) model.EventStats
}

type EventHandler struct {
	events EventStore
	log    zerolog.Logger
}

func NewEventHandler(events EventStore, log zerolog.Logger) *EventHandler {
	return &EventHandler{events: events, log: log.With().Str("component", "event_handler").Logger()}
}

// GetEvents lists upcoming events, narrowed by search/mode/tag query
// parameters and ordered by the sort parameter.
func (h *EventHandler) GetEvents(c *fiber.Ctx) error {
	filter := query.Filter{
		Search: c.Query("search"),
		Mode:   model.Mode(c.Query("mode")),
		Tag:    c.Query("tag"),
	}
	page := h.events.ListUpcoming(
		c.Context(),
		queryInt(c, "page", 1),
		queryInt(c, "page_size", repository.DefaultPageSize),
		filter,
		query.ParseSortKey(c.Query("sort")),
	)
	return c.JSON(page)
}

// SearchEvents matches free text across all events, upcoming or not.
func (h *EventHandler) SearchEvents(c *fiber.Ctx) error {
	page := h.events.Search(
		c.Context(),
		c.Query("q"),
		queryInt(c, "page", 1),
		queryInt(c, "page_size", repository.DefaultPageSize),
	)
	return c.JSON(page)
}

func (h *EventHandler) GetEvent(c *fiber.Ctx) error {
	event, err := h.events.GetBySlug(c.Context(), c.Params("slug"))
	if err != nil {
		return raiseDomainError(c, h.log, err)
	}
	return c.JSON(event)
}

func (h *EventHandler) GetSimilarEvents(c *fiber.Ctx) error {
	similar := h.events.FindSimilar(c.Context(), c.Params("slug"), queryInt(c, "limit", 4))
	return c.JSON(similar)
}

func (h *EventHandler) GetTags(c *fiber.Ctx) error {
	return c.JSON(h.events.DistinctTags(c.Context()))
}

func (h *EventHandler) GetStats(c *fiber.Ctx) error {
	return c.JSON(h.events.CountByMode(c.Context()))
}

func (h *EventHandler) CreateEvent(c *fiber.Ctx) error {
	in := new(model.EventInput)
	if err := c.BodyParser(in); err != nil {
		return apperrors.RaiseBadRequestError(c, "unacceptable event parameters")
	}

	event, err := h.events.Create(c.Context(), *in)
	if err != nil {
		return raiseDomainError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(event)
}

func (h *EventHandler) UpdateEvent(c *fiber.Ctx) error {
	in := new(model.EventInput)
	if err := c.BodyParser(in); err != nil {
		return apperrors.RaiseBadRequestError(c, "unacceptable event parameters")
	}

	event, err := h.events.Update(c.Context(), c.Params("id"), *in)
	if err != nil {
		return raiseDomainError(c, h.log, err)
	}
	return c.JSON(event)
}
