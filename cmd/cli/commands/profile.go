package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jakechorley/volunteer-connect/pkg/core/services"
)

// ProfileCmd creates the profile command
func ProfileCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "profile",
		Short: "Show your profile",
		Args:  cobra.NoArgs,
		RunE: protected(app, func(cmd *cobra.Command, args []string) error {
			profile, err := app.Profile.Load(app.Ctx)
			if err != nil {
				return err
			}
			printProfile(app.Out, profile)
			return nil
		}),
	}
}

// EditProfileCmd creates the editProfile command
func EditProfileCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "editProfile",
		Short: "Update your email and name",
		Long: `Update your email, first name or last name. Only the flags given are changed.
Without flags you are prompted for each field; press enter to keep the current value.`,
		Args: cobra.NoArgs,
		RunE: protected(app, func(cmd *cobra.Command, args []string) error {
			current, err := app.Profile.Load(app.Ctx)
			if err != nil {
				return err
			}
			if err := app.Profile.BeginEdit(); err != nil {
				return err
			}

			changes, err := profileChanges(app, cmd, current.Email, current.FirstName, current.LastName)
			if err != nil {
				app.Profile.Cancel()
				return err
			}
			if err := app.Profile.Apply(changes); err != nil {
				app.Profile.Cancel()
				return err
			}

			notice, err := app.Profile.Save(app.Ctx)
			if err != nil {
				app.Profile.Cancel()
				var vErr *services.ValidationError
				if errors.As(err, &vErr) {
					printValidation(app.Out, vErr)
					return errors.New("profile not saved")
				}
				return err
			}

			app.post(notice)
			printProfile(app.Out, app.Profile.Profile())
			return nil
		}),
	}

	cmd.Flags().String("email", "", "New email address")
	cmd.Flags().String("first-name", "", "New first name")
	cmd.Flags().String("last-name", "", "New last name")

	return cmd
}

// profileChanges reads edits from flags, or prompts when no flag was given
func profileChanges(app *AppContext, cmd *cobra.Command, email, first, last string) (services.ProfileChanges, error) {
	var changes services.ProfileChanges
	fields := []struct {
		flag    string
		label   string
		current string
		target  **string
	}{
		{"email", "Email", email, &changes.Email},
		{"first-name", "First name", first, &changes.FirstName},
		{"last-name", "Last name", last, &changes.LastName},
	}

	anyFlag := false
	for _, f := range fields {
		if cmd.Flags().Changed(f.flag) {
			anyFlag = true
			v, _ := cmd.Flags().GetString(f.flag)
			*f.target = &v
		}
	}
	if anyFlag {
		return changes, nil
	}

	for _, f := range fields {
		v, err := app.prompt(fmt.Sprintf("%s [%s]: ", f.label, f.current))
		if err != nil {
			return services.ProfileChanges{}, err
		}
		if v != "" {
			*f.target = &v
		}
	}
	return changes, nil
}
