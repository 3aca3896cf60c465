package handlers

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"
	"strconv"

	"github.com/danielgtaylor/huma/v2"
	"github.com/tinylink/tinylink/internal/shortener"
	"go.uber.org/zap"
)

// URLHandler translates HTTP requests into core operations and core
// errors back into HTTP statuses. All user-facing formatting lives
// here; the core only returns structured errors.
type URLHandler struct {
	service *shortener.Service
	baseURL string
	logger  *zap.Logger
}

// NewURLHandler creates a new URL handler.
func NewURLHandler(service *shortener.Service, baseURL string, logger *zap.Logger) *URLHandler {
	return &URLHandler{
		service: service,
		baseURL: baseURL,
		logger:  logger,
	}
}

func (h *URLHandler) CreateShortURL(ctx context.Context, req *ShortenRequest) (*ShortenResponse, error) {
	meta := RequestMetaFromContext(ctx)

	mapping, err := h.service.Shorten(ctx, req.Body.URL, meta.ClientID)
	if err != nil {
		return nil, h.mapError(err, "", meta)
	}

	shortURL := fmt.Sprintf("%s/%s", h.baseURL, mapping.Code)

	resp := &ShortenResponse{}
	resp.Headers.Location = shortURL
	resp.Body.Code = string(mapping.Code)
	resp.Body.ShortURL = shortURL
	resp.Body.OriginalURL = mapping.OriginalURL
	resp.Body.ExpiresAt = mapping.ExpiresAt

	return resp, nil
}

func (h *URLHandler) RedirectToURL(ctx context.Context, req *RedirectRequest) (*RedirectResponse, error) {
	meta := RequestMetaFromContext(ctx)

	target, err := h.service.Resolve(ctx, shortener.Code(req.Code), meta.ClientID)
	if err != nil {
		return nil, h.mapError(err, req.Code, meta)
	}

	resp := &RedirectResponse{
		Status: http.StatusFound,
	}
	resp.Headers.Location = target

	return resp, nil
}

// mapError maps core error kinds onto HTTP statuses. Transient store
// failures surface as 503, never as 404. code is the requested short
// code when the operation has one.
func (h *URLHandler) mapError(err error, code string, meta RequestMeta) error {
	var rateLimited *shortener.RateLimitError

	switch {
	case errors.Is(err, shortener.ErrURLTooLong):
		return huma.Error400BadRequest(
			fmt.Sprintf("url exceeds the maximum length of %d characters", shortener.MaxURLLength))
	case errors.Is(err, shortener.ErrInvalidURL):
		return huma.Error400BadRequest("invalid url: scheme and host are required")
	case errors.Is(err, shortener.ErrNotFound):
		return huma.Error404NotFound(
			fmt.Sprintf("the short url '%s' does not exist", code))
	case errors.Is(err, shortener.ErrExpired):
		return huma.NewError(http.StatusGone,
			fmt.Sprintf("the short url '%s' has expired and is no longer accessible", code))
	case errors.As(err, &rateLimited):
		retryAfter := int(math.Ceil(rateLimited.RetryAfter.Seconds()))
		if retryAfter < 1 {
			retryAfter = 1
		}

		return huma.ErrorWithHeaders(
			huma.NewError(http.StatusTooManyRequests,
				fmt.Sprintf("rate limit exceeded, retry in %d seconds", retryAfter)),
			http.Header{"Retry-After": []string{strconv.Itoa(retryAfter)}},
		)
	case errors.Is(err, shortener.ErrStoreUnavailable):
		h.logger.Error("store unavailable",
			zap.String("request_id", meta.RequestID),
			zap.Error(err),
		)

		return huma.NewError(http.StatusServiceUnavailable, "service temporarily unavailable")
	case errors.Is(err, shortener.ErrGenerationExhausted):
		h.logger.Error("short code generation exhausted",
			zap.String("request_id", meta.RequestID),
		)

		return huma.Error500InternalServerError("failed to allocate a short code")
	default:
		h.logger.Error("unexpected error",
			zap.String("request_id", meta.RequestID),
			zap.Error(err),
		)

		return huma.Error500InternalServerError("internal error")
	}
}
