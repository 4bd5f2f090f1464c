package commands

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jakechorley/volunteer-connect/pkg/core/services"
)

func parseEventID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id < 1 {
		return 0, fmt.Errorf("event id must be a positive integer, got: %s", arg)
	}
	return id, nil
}

// EventsCmd creates the events command
func EventsCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "events",
		Short: "List events and whether you can register",
		Args:  cobra.NoArgs,
		RunE: protected(app, func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(app.Out, "Loading events...")
			if err := app.Events.Load(app.Ctx); err != nil {
				return err
			}

			views, err := app.Events.Views(app.Ctx)
			if err != nil {
				return err
			}
			printEventList(app.Out, views)
			return nil
		}),
	}
}

// EventCmd creates the event command
func EventCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "event <event_id>",
		Short: "Show a single event",
		Args:  cobra.ExactArgs(1),
		RunE: protected(app, func(cmd *cobra.Command, args []string) error {
			id, err := parseEventID(args[0])
			if err != nil {
				return err
			}

			view, err := services.ShowEvent(app.Ctx, app.Client, app.Store, app.Logger, id, time.Now())
			if err != nil {
				return err
			}
			printEventDetail(app.Out, view)
			return nil
		}),
	}
}

// RegisterCmd creates the register command
func RegisterCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "register <event_id>",
		Short: "Register as a volunteer for an event",
		Args:  cobra.ExactArgs(1),
		RunE: protected(app, func(cmd *cobra.Command, args []string) error {
			id, err := parseEventID(args[0])
			if err != nil {
				return err
			}

			// Outside the interactive shell the list has not been loaded yet
			if state, _ := app.Events.State(); state != services.ViewReady {
				if err := app.Events.Load(app.Ctx); err != nil {
					return err
				}
			}

			app.Logger.Debug("register command", zap.Int64("event_id", id))

			notice, err := app.Events.Register(app.Ctx, id)
			app.post(notice)
			if err != nil {
				if notice.Text != "" && !errors.Is(err, services.ErrSessionExpired) {
					return nil
				}
				return err
			}
			return nil
		}),
	}
}
