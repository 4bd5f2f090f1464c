package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jakechorley/volunteer-connect/pkg/core/services"
	"github.com/jakechorley/volunteer-connect/pkg/session"
)

// LoginCmd creates the login command
func LoginCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "login [username]",
		Short: "Log in and store the session",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			password, _ := cmd.Flags().GetString("password")

			var username string
			var err error
			if len(args) > 0 {
				username = args[0]
			} else if username, err = app.prompt("Username: "); err != nil {
				return err
			}
			if password == "" {
				if password, err = app.promptSecret("Password: "); err != nil {
					return err
				}
			}

			sess, err := services.Login(app.Ctx, app.Client, app.Store, app.Logger, services.LoginForm{
				Username: username,
				Password: password,
			})
			if err != nil {
				var vErr *services.ValidationError
				if errors.As(err, &vErr) {
					printValidation(app.Out, vErr)
					return errors.New("login not submitted")
				}
				return err
			}

			fmt.Fprintf(app.Out, "\n✓ Logged in as %s\n\n", sess.Username)
			if !app.Interactive {
				printNav(app.Out, services.NavLinks(session.Derive(sess, true)))
			}
			return nil
		},
	}

	cmd.Flags().StringP("password", "p", "", "Password (prompted for when omitted)")

	return cmd
}

// LogoutCmd creates the logout command
func LogoutCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Log out and remove the stored session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := services.Logout(app.Ctx, app.Store, app.Logger); err != nil {
				return err
			}
			fmt.Fprintln(app.Out, "✓ Logged out")
			return nil
		},
	}
}

// WhoamiCmd creates the whoami command
func WhoamiCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the stored session and navigation",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			state := app.currentState()
			printNav(app.Out, services.NavLinks(state))

			if !state.LoggedIn {
				fmt.Fprintln(app.Out, "\nNot logged in.")
				return nil
			}

			fmt.Fprintf(app.Out, "\nUsername: %s\n", state.Username)
			fmt.Fprintf(app.Out, "User ID:  %s\n", state.UserID)
			fmt.Fprintf(app.Out, "Roles:    %v\n", state.Roles.Slice())

			token, _, err := app.Store.Token(app.Ctx)
			if err != nil {
				return fmt.Errorf("failed to read token: %w", err)
			}
			claims, err := session.ParseClaims(token)
			if err != nil {
				app.Logger.Debug("Token is not a readable JWT", zap.Error(err))
				fmt.Fprintln(app.Out, "Token:    opaque")
				return nil
			}
			if claims.Subject != "" {
				fmt.Fprintf(app.Out, "Subject:  %s\n", claims.Subject)
			}
			if claims.IssuedAt != nil {
				fmt.Fprintf(app.Out, "Issued:   %s\n", claims.IssuedAt.Local().Format(displayDateLayout))
			}
			if claims.ExpiresAt != nil {
				fmt.Fprintf(app.Out, "Expires:  %s (not checked locally)\n", claims.ExpiresAt.Local().Format(displayDateLayout))
			}
			fmt.Fprintln(app.Out)
			return nil
		},
	}
}

// SignupCmd creates the signup command
func SignupCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "signup <username>",
		Short: "Create a new account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			form := services.SignUpForm{Username: args[0]}
			form.Password, _ = cmd.Flags().GetString("password")
			form.Email, _ = cmd.Flags().GetString("email")
			form.FirstName, _ = cmd.Flags().GetString("first-name")
			form.LastName, _ = cmd.Flags().GetString("last-name")
			form.Role, _ = cmd.Flags().GetString("role")

			if form.Password == "" {
				var err error
				if form.Password, err = app.promptSecret("Password: "); err != nil {
					return err
				}
			}

			msg, err := services.SignUp(app.Ctx, app.Client, app.Logger, form)
			if err != nil {
				var vErr *services.ValidationError
				if errors.As(err, &vErr) {
					printValidation(app.Out, vErr)
					return errors.New("signup not submitted")
				}
				return err
			}

			fmt.Fprintf(app.Out, "✓ %s\n", msg)
			return nil
		},
	}

	cmd.Flags().StringP("password", "p", "", "Password (prompted for when omitted)")
	cmd.Flags().String("email", "", "Email address")
	cmd.Flags().String("first-name", "", "First name")
	cmd.Flags().String("last-name", "", "Last name")
	cmd.Flags().String("role", "", "VOLUNTEER, ORGANIZER or ADMIN (backend defaults to VOLUNTEER)")

	return cmd
}
