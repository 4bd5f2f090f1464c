package services

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/jakechorley/volunteer-connect/pkg/clients/apiclient"
	"github.com/jakechorley/volunteer-connect/pkg/core/model"
)

const (
	signUpFailedMessage     = "Registration failed."
	signUpUnexpectedMessage = "An unexpected error occurred during registration."
	signUpDefaultMessage    = "User registered successfully!"
)

// SignUpForm is the account registration form. An empty Role leaves the
// choice to the backend, which defaults to VOLUNTEER.
type SignUpForm struct {
	Username  string `form:"username" validate:"required"`
	Password  string `form:"password" validate:"required"`
	Email     string `form:"email" validate:"required,email"`
	FirstName string `form:"firstName"`
	LastName  string `form:"lastName"`
	Role      string `form:"role" validate:"omitempty,oneof=VOLUNTEER ORGANIZER ADMIN"`
}

// SignUp creates an account. It does not log in.
func SignUp(ctx context.Context, client AuthClient, logger *zap.Logger, form SignUpForm) (string, error) {
	logger.Debug("Starting signUp", zap.String("username", form.Username))

	form.Role = strings.ToUpper(strings.TrimSpace(form.Role))
	if err := validateForm(form, "Please correct the highlighted fields."); err != nil {
		return "", err
	}

	msg, err := client.Register(ctx, apiclient.RegisterRequest{
		Username:  form.Username,
		Password:  form.Password,
		Email:     form.Email,
		FirstName: form.FirstName,
		LastName:  form.LastName,
		Role:      model.Role(form.Role),
	})
	if err != nil {
		return "", &UserError{
			Message: apiclient.UserMessage(err, signUpFailedMessage, signUpUnexpectedMessage),
			Err:     err,
		}
	}
	if msg == "" {
		msg = signUpDefaultMessage
	}

	logger.Info("Registered account", zap.String("username", form.Username))
	return msg, nil
}
