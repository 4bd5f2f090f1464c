package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"
	"unicode"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/jakechorley/volunteer-connect/pkg/core/services"
	"github.com/jakechorley/volunteer-connect/pkg/session"
)

// InteractiveCmd creates the interactive command
func InteractiveCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "interactive",
		Short: "Start an interactive session that follows logins and logouts as they happen",
		Long: `Start an interactive session where you can run multiple commands.
The navigation bar is reprinted whenever the session changes, including
logins and logouts made by other processes sharing a Redis session.
The session will keep running until you type 'exit' or 'quit'.

Type 'help' to see available commands.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithCancel(app.Ctx)
			defer cancel()

			app.Interactive = true
			defer func() { app.Interactive = false }()

			observer := session.NewObserver(ctx, app.Store, app.Logger)
			observer.OnChange(func(state session.State) {
				fmt.Fprintln(app.Out)
				printNav(app.Out, services.NavLinks(state))
			})
			stop, err := observer.Start(ctx)
			if err != nil {
				return fmt.Errorf("failed to watch session: %w", err)
			}
			defer stop()

			if app.Listener != nil {
				go func() {
					if err := app.Listener.Listen(ctx); err != nil && !errors.Is(err, context.Canceled) {
						app.Logger.Warn("Stopped listening for shared session changes", zap.Error(err))
					}
				}()
			}

			fmt.Fprintln(app.Out, "\n🚀 Starting interactive session...")
			fmt.Fprintln(app.Out, "Type 'help' for available commands, 'exit' or 'quit' to leave")
			printNav(app.Out, services.NavLinks(observer.State()))

			// Get all sibling commands (excluding interactive itself)
			rootCmd := cmd.Parent()
			commands := make(map[string]*cobra.Command)
			for _, subCmd := range rootCmd.Commands() {
				if subCmd.Name() != "interactive" && subCmd.Name() != "completion" && subCmd.Name() != "help" {
					commands[subCmd.Name()] = subCmd
				}
			}

			for {
				if n, ok := app.Notices.Current(time.Now()); ok {
					printNotice(app.Out, n)
				}
				fmt.Fprint(app.Out, "> ")

				line, readErr := app.In.ReadString('\n')
				if readErr != nil && line == "" {
					if errors.Is(readErr, io.EOF) {
						return nil
					}
					return fmt.Errorf("error reading input: %w", readErr)
				}

				line = strings.TrimSpace(line)
				if line == "" {
					continue
				}

				// Parse command (respecting quotes)
				parts, err := parseCommandLine(line)
				if err != nil {
					fmt.Fprintf(app.Out, "❌ Error parsing command: %v\n\n", err)
					continue
				}
				if len(parts) == 0 {
					continue
				}
				cmdName := parts[0]
				cmdArgs := parts[1:]

				// Handle exit
				if cmdName == "exit" || cmdName == "quit" {
					fmt.Fprintln(app.Out, "👋 Goodbye!")
					return nil
				}

				// Handle help
				if cmdName == "help" {
					printInteractiveHelp(app.Out, commands)
					continue
				}

				targetCmd, exists := commands[cmdName]
				if !exists {
					fmt.Fprintf(app.Out, "❌ Unknown command: %s (type 'help' for available commands)\n\n", cmdName)
					continue
				}

				if err := runInShell(targetCmd, cmdArgs); err != nil {
					fmt.Fprintf(app.Out, "❌ Error: %v\n\n", err)
				}
			}
		},
	}

	return cmd
}

// runInShell executes a command's RunE directly, bypassing the full
// Execute() flow so PersistentPreRunE does not rebuild the app
func runInShell(targetCmd *cobra.Command, args []string) error {
	// Reset command flags and args
	targetCmd.Flags().VisitAll(func(flag *pflag.Flag) {
		flag.Changed = false
		flag.Value.Set(flag.DefValue)
	})

	if err := targetCmd.ParseFlags(args); err != nil {
		return fmt.Errorf("error parsing flags: %w", err)
	}

	// Get non-flag args after parsing flags
	args = targetCmd.Flags().Args()

	if targetCmd.Args != nil {
		if err := targetCmd.Args(targetCmd, args); err != nil {
			return err
		}
	}

	if targetCmd.RunE != nil {
		return targetCmd.RunE(targetCmd, args)
	}
	if targetCmd.Run != nil {
		targetCmd.Run(targetCmd, args)
	}
	return nil
}

func printInteractiveHelp(w io.Writer, commands map[string]*cobra.Command) {
	fmt.Fprintln(w, "\nAvailable commands:")

	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)

	// Print each command with its short description
	for _, name := range names {
		cmd := commands[name]
		fmt.Fprintf(w, "  %-30s %s\n", cmd.Use, cmd.Short)
	}

	fmt.Fprintln(w, "\n  help                           Show this help message")
	fmt.Fprintln(w, "  exit, quit                     Exit the interactive session")
}

// parseCommandLine splits a command line into arguments, respecting quoted strings
// Supports both single and double quotes
func parseCommandLine(line string) ([]string, error) {
	var args []string
	var current strings.Builder
	var inQuote rune // 0 if not in quote, '"' or '\'' if in quote

	for _, r := range line {
		switch {
		case inQuote != 0:
			if r == inQuote {
				inQuote = 0
			} else {
				current.WriteRune(r)
			}
		case r == '"' || r == '\'':
			inQuote = r
		case unicode.IsSpace(r):
			if current.Len() > 0 {
				args = append(args, current.String())
				current.Reset()
			}
		default:
			current.WriteRune(r)
		}
	}

	if inQuote != 0 {
		return nil, fmt.Errorf("unclosed quote: %c", inQuote)
	}

	// Add final argument if present
	if current.Len() > 0 {
		args = append(args, current.String())
	}

	return args, nil
}
