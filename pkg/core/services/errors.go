package services

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/jakechorley/volunteer-connect/pkg/clients/apiclient"
	"github.com/jakechorley/volunteer-connect/pkg/session"
)

// ErrSessionExpired is returned after the backend rejected the stored
// session. By then the session has been cleared and a change signal emitted.
var ErrSessionExpired = errors.New("session expired: please log in again")

// UserError is a failure already phrased for the user. Err keeps the cause.
type UserError struct {
	Message string
	Err     error
}

func (e *UserError) Error() string {
	return e.Message
}

func (e *UserError) Unwrap() error {
	return e.Err
}

// callFailure converts a failed API call into an error for the user.
// A 401 or 403 always invalidates the session, whichever call produced it.
func callFailure(ctx context.Context, store *session.Store, logger *zap.Logger, err error, fallback, unexpected string) error {
	if errors.Is(err, apiclient.ErrNoToken) {
		return session.ErrNotAuthenticated
	}
	if apiclient.IsAuthFailure(err) {
		return invalidateSession(ctx, store, logger, err)
	}
	return &UserError{
		Message: apiclient.UserMessage(err, fallback, unexpected),
		Err:     err,
	}
}

func invalidateSession(ctx context.Context, store *session.Store, logger *zap.Logger, cause error) error {
	logger.Warn("Backend rejected session, logging out", zap.Error(cause))

	if err := store.Clear(ctx); err != nil {
		logger.Error("Failed to clear rejected session", zap.Error(err))
		return fmt.Errorf("%w: %w", ErrSessionExpired, err)
	}
	if err := store.Notify(ctx, session.ReasonExpired); err != nil {
		logger.Warn("Failed to announce session expiry", zap.Error(err))
	}
	return fmt.Errorf("%w: %w", ErrSessionExpired, cause)
}
