package services

import (
	"context"
	"errors"
	"time"

	"adminhub/internal/apperr"
	"adminhub/internal/infra/rabbitmq"
	"adminhub/internal/logger"
	"adminhub/internal/repository"

	"go.uber.org/zap"
)

const publishTimeout = 5 * time.Second

// notFoundOr turns repository.ErrNotFound into nf and wraps anything else
// as an internal error.
func notFoundOr(err error, nf *apperr.Error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repository.ErrNotFound):
		return nf
	}
	var ae *apperr.Error
	if errors.As(err, &ae) {
		return ae
	}
	return apperr.Internal("database error", err)
}

// publishAsync hands an event to the broker without blocking the request.
// Failures are logged, never returned.
func publishAsync(ctx context.Context, log *zap.Logger, pub rabbitmq.PublisherInterface, event string, data any) {
	if pub == nil {
		return
	}
	l := logger.For(ctx, log)
	go func() {
		pctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
		defer cancel()
		if err := pub.Publish(pctx, event, data); err != nil {
			l.Warn("failed to publish event", zap.String("event", event), zap.Error(err))
		}
	}()
}
