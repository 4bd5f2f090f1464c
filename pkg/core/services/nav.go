package services

import (
	"fmt"

	"github.com/jakechorley/volunteer-connect/pkg/core/model"
	"github.com/jakechorley/volunteer-connect/pkg/session"
)

// NavLink is one entry of the navigation bar. Command is the CLI command it runs.
type NavLink struct {
	Label   string
	Command string
}

// NavLinks lists the navigation entries for a session state
func NavLinks(state session.State) []NavLink {
	links := []NavLink{{Label: "Home", Command: "help"}}
	if !state.LoggedIn {
		return append(links, NavLink{Label: "Login", Command: "login"})
	}

	links = append(links,
		NavLink{Label: "Events", Command: "events"},
		NavLink{Label: "Profile", Command: "profile"},
	)
	if state.HasRole(model.RoleOrganizer) {
		links = append(links, NavLink{Label: "Create Event", Command: "createEvent"})
	}

	label := fmt.Sprintf("Logout (%s)", state.Username)
	if role := state.PrimaryRole(); role != "" {
		label = fmt.Sprintf("Logout (%s (%s))", state.Username, role)
	}
	return append(links, NavLink{Label: label, Command: "logout"})
}
