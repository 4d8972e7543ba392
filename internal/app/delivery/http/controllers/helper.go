package controllers

import (
	"context"
	"errors"
	"io"
	"net/http"
	"telemed-service/internal/app/config"
	"telemed-service/internal/pkg/exceptions"
	"time"

	"github.com/goccy/go-json"
)

const (
	defaultRequestTimeout = 30 * time.Second
	requestDeadlineMargin = 5 * time.Second
)

// decodeJSON reads a bounded request body into dst.
func decodeJSON(r *http.Request, cfg *config.InternalConfig, dst interface{}) error {
	limit := int64(cfg.App.RequestBodyLimitInMegabyte) << 20
	if limit <= 0 {
		limit = 1 << 20
	}
	decoder := json.NewDecoder(io.LimitReader(r.Body, limit))
	if err := decoder.Decode(dst); err != nil {
		return exceptions.ErrCannotParseJSON(err)
	}
	return nil
}

func requestContext(r *http.Request, cfg *config.InternalConfig) (context.Context, context.CancelFunc) {
	return requestContextAtLeast(r, cfg, 0)
}

// requestContextAtLeast extends the request deadline so an inner lookup bounded
// by minimum can expire and degrade before the request does.
func requestContextAtLeast(r *http.Request, cfg *config.InternalConfig, minimum time.Duration) (context.Context, context.CancelFunc) {
	timeout := time.Duration(cfg.App.RequestTimeoutInSeconds) * time.Second
	if timeout <= 0 {
		timeout = defaultRequestTimeout
	}
	if minimum > 0 && timeout < minimum+requestDeadlineMargin {
		timeout = minimum + requestDeadlineMargin
	}
	return context.WithTimeout(r.Context(), timeout)
}

// mapContextError turns a request deadline into the 504 client error.
func mapContextError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		var customErr *exceptions.CustomError
		if !errors.As(err, &customErr) {
			return exceptions.ErrServerDeadlineExceeded(err)
		}
	}
	return err
}
