// Package handlers is the HTTP surface over the event/booking core. It
// only translates requests and typed repository outcomes; every rule lives
// below it.
package handlers

import (
	"errors"
	"strconv"

	apperrors "eventhub/errors"
	"eventhub/repository"
	"eventhub/validation"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
)

// raiseDomainError maps a typed repository outcome to its status code:
// validation 400, not-found 404, duplicates and capacity 409, store
// connectivity 503, anything else a logged 500 with no detail leaked.
func raiseDomainError(c *fiber.Ctx, log zerolog.Logger, err error) error {
	var verrs validation.Errors
	switch {
	case errors.As(err, &verrs):
		return apperrors.RaiseError(c, fiber.StatusBadRequest, "validation failed", verrs)
	case errors.Is(err, repository.ErrNotFound):
		return apperrors.RaiseNotFoundError(c, err.Error())
	case errors.Is(err, repository.ErrDuplicateSlug),
		errors.Is(err, repository.ErrDuplicateBooking),
		errors.Is(err, repository.ErrCapacityFull):
		return apperrors.RaiseConflictError(c, err.Error())
	case errors.Is(err, repository.ErrStoreUnavailable):
		return apperrors.RaiseServiceUnavailableError(c, repository.ErrStoreUnavailable.Error())
	default:
		log.Error().Err(err).Str("path", c.Path()).Msg("unexpected error")
		return apperrors.RaiseInternalServerError(c, "unexpected error")
	}
}

func queryInt(c *fiber.Ctx, key string, fallback int) int {
	v, err := strconv.Atoi(c.Query(key))
	if err != nil {
		return fallback
	}
	return v
}
