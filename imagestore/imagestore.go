// Package imagestore uploads event images to the hosted CDN through a
// narrow interface. The core never touches CDN specifics beyond this.
package imagestore

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// MaxUploadSize is the payload limit the CDN accepts.
const MaxUploadSize = 5 << 20

// ErrTooLarge and ErrUnsupportedType are caller mistakes, reportable as
// validation failures.
var (
	ErrTooLarge        = errors.New("image exceeds the 5MB upload limit")
	ErrUnsupportedType = errors.New("image must be JPEG, PNG or WebP")
)

// ErrUploadFailed covers every CDN-side failure. Auth and transport
// problems are distinguishable in the logs but not to callers.
var ErrUploadFailed = errors.New("upload failed")

var extensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
}

// Store is the interface the rest of the system consumes.
type Store interface {
	Upload(ctx context.Context, data []byte, contentType string) (string, error)
}

// CDNStore posts images to the configured CDN endpoint and returns the
// public URL the CDN assigns.
type CDNStore struct {
	endpoint string
	apiKey   string
	client   *http.Client
	log      zerolog.Logger
}

func NewCDNStore(endpoint, apiKey string, log zerolog.Logger) *CDNStore {
	return &CDNStore{
		endpoint: endpoint,
		apiKey:   apiKey,
		client:   &http.Client{Timeout: 30 * time.Second},
		log:      log.With().Str("component", "imagestore").Logger(),
	}
}

func (s *CDNStore) Upload(ctx context.Context, data []byte, contentType string) (string, error) {
	if len(data) > MaxUploadSize {
		return "", ErrTooLarge
	}
	ext, ok := extensions[contentType]
	if !ok {
		return "", ErrUnsupportedType
	}

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("file", uuid.NewString()+ext)
	if err != nil {
		return "", fmt.Errorf("cannot build upload request: %w", err)
	}
	if _, err := part.Write(data); err != nil {
		return "", fmt.Errorf("cannot build upload request: %w", err)
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("cannot build upload request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, body)
	if err != nil {
		return "", fmt.Errorf("cannot build upload request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.SetBasicAuth(s.apiKey, "")

	resp, err := s.client.Do(req)
	if err != nil {
		s.log.Error().Err(err).Msg("cdn unreachable")
		return "", ErrUploadFailed
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		s.log.Error().Int("status", resp.StatusCode).Msg("cdn rejected credentials")
		return "", ErrUploadFailed
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		s.log.Error().Int("status", resp.StatusCode).Msg("cdn upload rejected")
		return "", ErrUploadFailed
	}

	var uploaded struct {
		URL string `json:"url"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&uploaded); err != nil || uploaded.URL == "" {
		s.log.Error().Err(err).Msg("cdn returned an unusable response")
		return "", ErrUploadFailed
	}

	return uploaded.URL, nil
}
