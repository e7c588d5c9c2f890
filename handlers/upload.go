package handlers

import (
	"errors"
	"io"

	apperrors "eventhub/errors"
	"eventhub/imagestore"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
)

type UploadHandler struct {
	store imagestore.Store
	log   zerolog.Logger
}

func NewUploadHandler(store imagestore.Store, log zerolog.Logger) *UploadHandler {
	return &UploadHandler{store: store, log: log.With().Str("component", "upload_handler").Logger()}
}

// UploadImage forwards a multipart image to the CDN and returns its public
// URL for use as an event image.
func (h *UploadHandler) UploadImage(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return apperrors.RaiseBadRequestError(c, "a file field is required")
	}

	file, err := fileHeader.Open()
	if err != nil {
		return apperrors.RaiseBadRequestError(c, "unreadable file")
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, imagestore.MaxUploadSize+1))
	if err != nil {
		return apperrors.RaiseBadRequestError(c, "unreadable file")
	}

	url, err := h.store.Upload(c.Context(), data, fileHeader.Header.Get("Content-Type"))
	switch {
	case errors.Is(err, imagestore.ErrTooLarge), errors.Is(err, imagestore.ErrUnsupportedType):
		return apperrors.RaiseBadRequestError(c, err.Error())
	case err != nil:
		h.log.Error().Err(err).Msg("image upload failed")
		return apperrors.RaiseInternalServerError(c, imagestore.ErrUploadFailed.Error())
	}

	return c.JSON(fiber.Map{"url": url})
}
