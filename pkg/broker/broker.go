// Package broker wraps the task queue behind a small publish interface so the
// dispatch pipeline never touches queue internals directly.
package broker

import (
	"context"
	"errors"
	"time"

	"github.com/hibiken/asynq"
)

// Client publishes one message to a destination. A publish with an idempotency
// key already seen by the queue is acknowledged without enqueueing a second
// task.
type Client interface {
	Publish(ctx context.Context, destination string, body []byte, idempotencyKey string, timeout time.Duration) error
}

type AsynqClient struct {
	client *asynq.Client
}

func NewAsynqClient(client *asynq.Client) *AsynqClient {
	return &AsynqClient{client: client}
}

func (a *AsynqClient) Publish(ctx context.Context, destination string, body []byte, idempotencyKey string, timeout time.Duration) error {
	task := asynq.NewTask(destination, body)
	_, err := a.client.EnqueueContext(ctx, task,
		asynq.TaskID(idempotencyKey),
		asynq.Timeout(timeout),
		asynq.MaxRetry(0),
		asynq.Retention(24*time.Hour),
	)
	if errors.Is(err, asynq.ErrTaskIDConflict) {
		// Already enqueued by a previous attempt. Counts as delivered.
		return nil
	}
	return err
}
