package queue

import (
	"context"
	"encoding/json"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"
)

// emailPayload matches the JSON enqueued by TaskEnqueuer.
type emailPayload struct {
	Email string `json:"email"`
	Token string `json:"token"`
}

// Worker runs the Asynq handlers for outbound email. Call Run to start.
type Worker struct {
	srv *asynq.Server
	mux *asynq.ServeMux
	log zerolog.Logger
}

func NewWorker(redisOpt asynq.RedisClientOpt, log zerolog.Logger) *Worker {
	srv := asynq.NewServer(redisOpt, asynq.Config{
		Concurrency: 2,
		LogLevel:    asynq.InfoLevel,
	})
	mux := asynq.NewServeMux()
	w := &Worker{srv: srv, mux: mux, log: log}
	mux.HandleFunc(TypeSendConfirmation, w.handleSendConfirmation)
	mux.HandleFunc(TypeSendPasswordReset, w.handleSendPasswordReset)
	return w
}

func (w *Worker) handleSendConfirmation(ctx context.Context, t *asynq.Task) error {
	var p emailPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		w.log.Error().Err(err).Msg("confirmation task payload invalid")
		return err
	}
	// Dev: log the token; production would send email via SMTP/sendgrid etc.
	w.log.Info().
		Str("email", p.Email).
		Str("token", p.Token).
		Msg("confirmation email (log only; configure SMTP for real email)")
	return nil
}

func (w *Worker) handleSendPasswordReset(ctx context.Context, t *asynq.Task) error {
	var p emailPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		w.log.Error().Err(err).Msg("password reset task payload invalid")
		return err
	}
	w.log.Info().
		Str("email", p.Email).
		Str("token", p.Token).
		Msg("password reset email (log only; configure SMTP for real email)")
	return nil
}

// Run blocks until shutdown. Use Shutdown for graceful stop.
func (w *Worker) Run() error {
	return w.srv.Run(w.mux)
}

// Shutdown stops the worker.
func (w *Worker) Shutdown() {
	w.srv.Shutdown()
}
