package ports

import "context"

// TaskEnqueuer enqueues async email tasks. Implementations must be safe
// for concurrent use; failures are logged, not surfaced to the caller's
// request.
type TaskEnqueuer interface {
	EnqueueSendConfirmation(ctx context.Context, email, token string) error
	EnqueueSendPasswordReset(ctx context.Context, email, token string) error
}

// AuthTokenStore persists the short-lived confirmation and password-reset
// tokens. These reuse the same expiry pattern as session tokens but are
// plain data records, not part of request authorization.
type AuthTokenStore interface {
	CreateConfirmationToken(ctx context.Context, userID int64, token string, expiresAtUnix int64) error
	GetConfirmationToken(ctx context.Context, token string) (userID int64, expiresAtUnix int64, confirmed bool, err error)
	MarkConfirmed(ctx context.Context, token string) error
	CreateResetToken(ctx context.Context, userID int64, token string, expiresAtUnix int64) error
	GetResetToken(ctx context.Context, token string) (userID int64, expiresAtUnix int64, used bool, err error)
	MarkResetUsed(ctx context.Context, token string) error
}
