package services

import (
	"context"
	"fmt"
	"strconv"

	"go.uber.org/zap"

	"github.com/jakechorley/volunteer-connect/pkg/clients/apiclient"
	"github.com/jakechorley/volunteer-connect/pkg/session"
)

const (
	loginFailedMessage     = "Login failed. Please check your credentials."
	loginUnexpectedMessage = "An unexpected error occurred during login."
)

// AuthClient defines the unauthenticated backend operations
type AuthClient interface {
	Login(ctx context.Context, req apiclient.LoginRequest) (*apiclient.LoginResponse, error)
	Register(ctx context.Context, req apiclient.RegisterRequest) (string, error)
}

// LoginForm holds the submitted credentials
type LoginForm struct {
	Username string `form:"username" validate:"required"`
	Password string `form:"password" validate:"required"`
}

// Login exchanges credentials for a token, stores the session and emits one
// change signal. The store is untouched when login fails.
func Login(ctx context.Context, client AuthClient, store *session.Store, logger *zap.Logger, form LoginForm) (session.Session, error) {
	logger.Debug("Starting login", zap.String("username", form.Username))

	if err := validateForm(form, "Please enter your username and password."); err != nil {
		return session.Session{}, err
	}

	resp, err := client.Login(ctx, apiclient.LoginRequest{Username: form.Username, Password: form.Password})
	if err != nil {
		logger.Debug("Login request failed", zap.Error(err))
		return session.Session{}, &UserError{
			Message: apiclient.UserMessage(err, loginFailedMessage, loginUnexpectedMessage),
			Err:     err,
		}
	}

	username := resp.Username
	if username == "" {
		username = form.Username
	}

	var userID string
	if id := resp.AccountID(); id != 0 {
		userID = strconv.FormatInt(id, 10)
	}

	sess := session.Session{
		Token:    resp.Token,
		UserID:   userID,
		Username: username,
		Roles:    resp.AllRoles(),
	}

	if err := store.Write(ctx, sess); err != nil {
		return session.Session{}, &UserError{
			Message: loginUnexpectedMessage,
			Err:     fmt.Errorf("failed to store session: %w", err),
		}
	}
	if err := store.Notify(ctx, session.ReasonLogin); err != nil {
		logger.Warn("Failed to announce login", zap.Error(err))
	}

	logger.Info("Logged in", zap.String("username", sess.Username), zap.String("userId", sess.UserID))
	return sess, nil
}
