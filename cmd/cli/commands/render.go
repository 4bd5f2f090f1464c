package commands

import (
	"fmt"
	"io"
	"strings"

	"github.com/jakechorley/volunteer-connect/pkg/core/model"
	"github.com/jakechorley/volunteer-connect/pkg/core/services"
)

// ANSI color codes
const (
	colorReset = "\033[0m"
	colorGreen = "\033[32m"
	colorRed   = "\033[31m"
	colorDim   = "\033[2m"
	colorBold  = "\033[1m"
)

const displayDateLayout = "Mon 02 Jan 2006 15:04"

func printNav(w io.Writer, links []services.NavLink) {
	parts := make([]string, len(links))
	for i, l := range links {
		parts[i] = fmt.Sprintf("%s [%s]", l.Label, l.Command)
	}
	fmt.Fprintf(w, "%s%s%s\n", colorDim, strings.Join(parts, " | "), colorReset)
}

func printNotice(w io.Writer, n services.Notice) {
	switch n.Kind {
	case services.NoticeSuccess:
		fmt.Fprintf(w, "%s✓ %s%s\n", colorGreen, n.Text, colorReset)
	default:
		fmt.Fprintf(w, "%s✗ %s%s\n", colorRed, n.Text, colorReset)
	}
}

func eventDate(e model.Event) string {
	t, err := e.ParsedDate()
	if err != nil {
		return e.EventDate
	}
	return t.Format(displayDateLayout)
}

// registerButton renders the register action as it would appear in a list
func registerButton(v services.EventView) string {
	if v.CanRegister {
		return fmt.Sprintf("%s[%s]%s", colorGreen, v.RegisterLabel, colorReset)
	}
	return fmt.Sprintf("%s[%s]%s", colorDim, v.RegisterLabel, colorReset)
}

func printEventList(w io.Writer, views []services.EventView) {
	if len(views) == 0 {
		fmt.Fprintln(w, "No events found.")
		return
	}

	fmt.Fprintf(w, "\nFound %d events:\n\n", len(views))
	for _, v := range views {
		e := v.Event
		marker := ""
		if v.IsOrganizer {
			marker = " (organized by you)"
		}
		fmt.Fprintf(w, "%s#%d %s%s%s\n", colorBold, e.ID, e.Title, colorReset, marker)
		fmt.Fprintf(w, "    %s @ %s\n", eventDate(e), e.Location)
		fmt.Fprintf(w, "    %d/%d volunteers  %s\n", len(e.RegisteredVolunteers), e.Capacity, registerButton(v))
	}
	fmt.Fprintln(w)
}

func printEventDetail(w io.Writer, v services.EventView) {
	e := v.Event

	fmt.Fprintf(w, "\n%s%s%s (#%d)\n\n", colorBold, e.Title, colorReset, e.ID)
	fmt.Fprintf(w, "Date:         %s\n", eventDate(e))
	fmt.Fprintf(w, "Location:     %s\n", e.Location)
	fmt.Fprintf(w, "Description:  %s\n", e.Description)
	fmt.Fprintf(w, "Capacity:     %d/%d\n", len(e.RegisteredVolunteers), e.Capacity)
	if skills := e.Skills(); len(skills) > 0 {
		fmt.Fprintf(w, "Skills:       %s\n", strings.Join(skills, ", "))
	}
	if e.Organizer != nil {
		fmt.Fprintf(w, "Organizer:    %s\n", e.Organizer.Username)
	}
	if e.Organization != nil {
		fmt.Fprintf(w, "Organization: %s\n", e.Organization.Name)
	}
	if !e.Active {
		fmt.Fprintln(w, "Status:       inactive")
	}

	if len(e.RegisteredVolunteers) > 0 {
		fmt.Fprintln(w, "\nVolunteers:")
		for _, u := range e.RegisteredVolunteers {
			fmt.Fprintf(w, "  - %s\n", u.Username)
		}
	}
	fmt.Fprintf(w, "\n%s\n\n", registerButton(v))
}

func printProfile(w io.Writer, p model.UserProfile) {
	fmt.Fprintf(w, "\nUsername:  %s\n", p.Username)
	fmt.Fprintf(w, "Name:      %s\n", p.FullName())
	fmt.Fprintf(w, "Email:     %s\n", p.Email)
	fmt.Fprintf(w, "Role:      %s\n\n", p.Role)
}

func printOrganizations(w io.Writer, orgs []model.Organization) {
	if len(orgs) == 0 {
		fmt.Fprintln(w, "No organizations found.")
		return
	}

	fmt.Fprintf(w, "\nFound %d organizations:\n\n", len(orgs))
	for _, o := range orgs {
		status := ""
		if !o.Active {
			status = " (inactive)"
		}
		fmt.Fprintf(w, "- #%d %s%s", o.ID, o.Name, status)
		if o.ContactEmail != "" {
			fmt.Fprintf(w, " - %s", o.ContactEmail)
		}
		fmt.Fprintln(w)
	}
	fmt.Fprintln(w)
}

func printValidation(w io.Writer, err *services.ValidationError) {
	fmt.Fprintf(w, "%s✗ %s%s\n", colorRed, err.Summary, colorReset)
	for _, f := range err.Fields {
		fmt.Fprintf(w, "  - %s\n", f.Message)
	}
}
