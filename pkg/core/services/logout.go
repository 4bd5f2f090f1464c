package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/jakechorley/volunteer-connect/pkg/session"
)

// Logout removes the session and emits exactly one change signal
func Logout(ctx context.Context, store *session.Store, logger *zap.Logger) error {
	if err := store.Clear(ctx); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	if err := store.Notify(ctx, session.ReasonLogout); err != nil {
		logger.Warn("Failed to announce logout", zap.Error(err))
	}

	logger.Info("Logged out")
	return nil
}
