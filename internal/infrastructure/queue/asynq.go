// Package queue delivers outbound email through Asynq backed by Redis.
package queue

import (
	"context"
	"encoding/json"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"

	"github.com/mwolniarski/project-management-backend/internal/application/ports"
)

const (
	TypeSendConfirmation  = "email:confirmation"
	TypeSendPasswordReset = "email:password_reset"
)

type TaskEnqueuer struct {
	client *asynq.Client
	log    zerolog.Logger
}

var _ ports.TaskEnqueuer = (*TaskEnqueuer)(nil)

func NewAsynqEnqueuer(redisOpt asynq.RedisClientOpt, log zerolog.Logger) *TaskEnqueuer {
	return &TaskEnqueuer{client: asynq.NewClient(redisOpt), log: log}
}

func (q *TaskEnqueuer) Close() error {
	return q.client.Close()
}

func (q *TaskEnqueuer) EnqueueSendConfirmation(ctx context.Context, email, token string) error {
	payload, _ := json.Marshal(map[string]string{
		"email": email,
		"token": token,
	})
	task := asynq.NewTask(TypeSendConfirmation, payload)
	if _, err := q.client.EnqueueContext(ctx, task); err != nil {
		q.log.Warn().Err(err).Str("email", email).Msg("enqueue confirmation email failed")
		return err
	}
	return nil
}

func (q *TaskEnqueuer) EnqueueSendPasswordReset(ctx context.Context, email, token string) error {
	payload, _ := json.Marshal(map[string]string{
		"email": email,
		"token": token,
	})
	task := asynq.NewTask(TypeSendPasswordReset, payload)
	if _, err := q.client.EnqueueContext(ctx, task); err != nil {
		q.log.Warn().Err(err).Str("email", email).Msg("enqueue password reset email failed")
		return err
	}
	return nil
}
