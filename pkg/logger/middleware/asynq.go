package middleware

import (
	"context"
	"time"

	"github.com/hibiken/asynq"

	"github.com/victor-lby/sos-cidadao-sub000/pkg/logger"
)

// LoggingMiddlewareAsynq logs every task processed by the worker, with its
// type, duration and outcome.
func LoggingMiddlewareAsynq(log logger.Logger) asynq.MiddlewareFunc {
	return func(h asynq.Handler) asynq.Handler {
		return asynq.HandlerFunc(func(ctx context.Context, t *asynq.Task) error {
			start := time.Now()
			err := h.ProcessTask(ctx, t)
			elapsed := time.Since(start)

			if err != nil {
				log.ErrorWithContext(ctx, "task ", t.Type(), " failed after ", elapsed, ": ", err)
				return err
			}
			log.InfoWithContext(ctx, "task ", t.Type(), " done in ", elapsed)
			return nil
		})
	}
}
