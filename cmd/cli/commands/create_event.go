package commands

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/jakechorley/volunteer-connect/pkg/core/services"
)

// CreateEventCmd creates the createEvent command
func CreateEventCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "createEvent",
		Short: "Create an event (organizers only)",
		Long: `Create an event. Date is YYYY-MM-DD and time is HH:mm.

Use --repeat with an RRULE to create one event per occurrence, for example:
  createEvent --title "Park tidy" ... --repeat "FREQ=WEEKLY;COUNT=4"`,
		Args: cobra.NoArgs,
		RunE: protected(app, func(cmd *cobra.Command, args []string) error {
			form := services.NewEventForm()
			flags := cmd.Flags()
			form.Title, _ = flags.GetString("title")
			form.Description, _ = flags.GetString("description")
			form.Location, _ = flags.GetString("location")
			form.Date, _ = flags.GetString("date")
			form.Time, _ = flags.GetString("time")
			form.Capacity, _ = flags.GetInt("capacity")
			form.RequiredSkills, _ = flags.GetString("skills")
			form.Repeat, _ = flags.GetString("repeat")
			if inactive, _ := flags.GetBool("inactive"); inactive {
				form.Active = false
			}
			if flags.Changed("org") {
				orgID, _ := flags.GetInt64("org")
				form.OrganizationID = &orgID
			}

			result, err := services.CreateEvent(app.Ctx, app.Client, app.Store, app.Logger, &form, time.Now())
			if err != nil {
				var vErr *services.ValidationError
				if errors.As(err, &vErr) {
					printValidation(app.Out, vErr)
					return errors.New("event not submitted")
				}
				if result != nil {
					for _, e := range result.Events {
						fmt.Fprintf(app.Out, "  ✓ created #%d on %s\n", e.ID, e.EventDate)
					}
				}
				return err
			}

			app.post(result.Notice)
			for _, e := range result.Events {
				fmt.Fprintf(app.Out, "  #%d %s on %s\n", e.ID, e.Title, e.EventDate)
			}
			fmt.Fprintln(app.Out)
			return nil
		}),
	}

	cmd.Flags().String("title", "", "Event title")
	cmd.Flags().String("description", "", "Event description")
	cmd.Flags().String("location", "", "Event location")
	cmd.Flags().String("date", "", "Event date (YYYY-MM-DD)")
	cmd.Flags().String("time", "", "Event start time (HH:mm)")
	cmd.Flags().Int("capacity", 0, "Maximum number of volunteers")
	cmd.Flags().String("skills", "", "Required skills, comma separated")
	cmd.Flags().Int64("org", 0, "Organization id (see 'organizations')")
	cmd.Flags().Bool("inactive", false, "Create the event as inactive")
	cmd.Flags().String("repeat", "", "RRULE with COUNT or UNTIL to create recurring events")

	return cmd
}

// OrganizationsCmd creates the organizations command
func OrganizationsCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "organizations",
		Short: "List organizations events can be created under",
		Args:  cobra.NoArgs,
		RunE: protected(app, func(cmd *cobra.Command, args []string) error {
			orgs, err := services.ListOrganizations(app.Ctx, app.Client, app.Store, app.Logger)
			if err != nil {
				return err
			}
			printOrganizations(app.Out, orgs)
			return nil
		}),
	}
}
