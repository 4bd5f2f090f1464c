package commands

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jakechorley/volunteer-connect/internal/config"
	"github.com/jakechorley/volunteer-connect/pkg/clients/apiclient"
	"github.com/jakechorley/volunteer-connect/pkg/core/services"
	"github.com/jakechorley/volunteer-connect/pkg/session"
)

// AppContext holds the application dependencies shared across all commands
type AppContext struct {
	Cfg    *config.Config
	Client *apiclient.Client
	Store  *session.Store
	// Listener is set when sessions are shared through Redis
	Listener *session.RedisBroker
	Events   *services.EventBoard
	Profile  *services.ProfileEditor
	Notices  *services.NoticeBoard
	Logger   *zap.Logger
	Ctx      context.Context

	// In is shared by prompts and the interactive loop
	In  *bufio.Reader
	Out io.Writer
	// Terminal reports whether In reads from an interactive terminal
	Terminal bool
	// Interactive is set while the interactive shell owns the terminal
	Interactive bool
}

// protected wraps a command body with the route guard: nothing runs or
// prints before a stored token is confirmed
func protected(app *AppContext, run func(cmd *cobra.Command, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		if err := session.RequireToken(app.Ctx, app.Store); err != nil {
			return userFacing(err)
		}
		return userFacing(run(cmd, args))
	}
}

// userFacing rewrites session failures into the instruction shown to the user
func userFacing(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, services.ErrSessionExpired):
		return fmt.Errorf("your session has expired, please log in again (run 'login')")
	case errors.Is(err, session.ErrNotAuthenticated):
		return fmt.Errorf("you are not logged in, please log in first (run 'login')")
	}
	return err
}

// post shows a notice. The interactive shell keeps it above the prompt
// until it expires.
func (app *AppContext) post(n services.Notice) {
	if n.Text == "" {
		return
	}
	if app.Interactive {
		app.Notices.Post(n)
		return
	}
	printNotice(app.Out, n)
}

func (app *AppContext) currentState() session.State {
	sess, ok, err := app.Store.Read(app.Ctx)
	if err != nil {
		app.Logger.Warn("Failed to read session", zap.Error(err))
		return session.State{}
	}
	return session.Derive(sess, ok)
}
