package commands

import (
	"fmt"
	"os"
	"strings"

	"golang.org/x/term"
)

// prompt reads one line of input after printing label
func (app *AppContext) prompt(label string) (string, error) {
	fmt.Fprint(app.Out, label)
	line, err := app.In.ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	return strings.TrimSpace(line), nil
}

// promptSecret reads a line without echo when stdin is a terminal
func (app *AppContext) promptSecret(label string) (string, error) {
	if !app.Terminal || app.In.Buffered() > 0 {
		return app.prompt(label)
	}
	fd := int(os.Stdin.Fd())

	fmt.Fprint(app.Out, label)
	secret, err := term.ReadPassword(fd)
	fmt.Fprintln(app.Out)
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	return string(secret), nil
}
