package queue

import (
	"context"

	"github.com/mwolniarski/project-management-backend/internal/application/ports"
)

// NoopEnqueuer is used when Redis/Asynq is not configured.
type NoopEnqueuer struct{}

var _ ports.TaskEnqueuer = (*NoopEnqueuer)(nil)

func NewNoopEnqueuer() *NoopEnqueuer {
	return &NoopEnqueuer{}
}

func (q *NoopEnqueuer) EnqueueSendConfirmation(ctx context.Context, email, token string) error {
	return nil
}

func (q *NoopEnqueuer) EnqueueSendPasswordReset(ctx context.Context, email, token string) error {
	return nil
}
