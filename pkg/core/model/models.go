package model

import (
	"strings"
	"time"
)

type Role string

const (
	RoleVolunteer Role = "VOLUNTEER"
	RoleOrganizer Role = "ORGANIZER"
	RoleAdmin     Role = "ADMIN"
)

// IsKnown reports whether the role is one the backend issues today.
// Unknown roles are still carried through the session untouched.
func (r Role) IsKnown() bool {
	return r == RoleVolunteer || r == RoleOrganizer || r == RoleAdmin
}

// EventDateLayout is the LocalDateTime format the backend emits and accepts
const EventDateLayout = "2006-01-02T15:04:05"

// UserSummary is the compact user projection embedded in events
type UserSummary struct {
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email,omitempty"`
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
}

// OrganizationSummary is the compact organization projection embedded in events
type OrganizationSummary struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	ContactEmail string `json:"contactEmail,omitempty"`
}

// Organization is the full organization record returned by /api/organizations
type Organization struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	Description  string `json:"description,omitempty"`
	ContactEmail string `json:"contactEmail,omitempty"`
	PhoneNumber  string `json:"phoneNumber,omitempty"`
	WebsiteURL   string `json:"websiteUrl,omitempty"`
	Address      string `json:"address,omitempty"`
	Active       bool   `json:"active"`
}

// Event is the client-side view of a backend event. It is never mutated locally;
// a write returns a fresh copy that replaces the old one.
type Event struct {
	ID                   int64                `json:"id"`
	Title                string               `json:"title"`
	Description          string               `json:"description"`
	EventDate            string               `json:"eventDate"`
	Location             string               `json:"location"`
	Capacity             int                  `json:"capacity"`
	Active               bool                 `json:"active"`
	RequiredSkills       string               `json:"requiredSkills,omitempty"`
	Organizer            *UserSummary         `json:"organizer,omitempty"`
	Organization         *OrganizationSummary `json:"organization,omitempty"`
	RegisteredVolunteers []UserSummary        `json:"registeredVolunteers"`
}

// ParsedDate parses EventDate. The backend omits a zone, so it is read as local time.
// A trailing fractional second or zone suffix is tolerated.
func (e Event) ParsedDate() (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, e.EventDate); err == nil {
		return t, nil
	}
	s := e.EventDate
	if i := strings.IndexByte(s, '.'); i >= 0 {
		s = s[:i]
	}
	if len(s) == len("2006-01-02T15:04") {
		return time.ParseInLocation("2006-01-02T15:04", s, time.Local)
	}
	return time.ParseInLocation(EventDateLayout, s, time.Local)
}

// Skills splits the free-text requiredSkills field on commas
func (e Event) Skills() []string {
	skills := []string{}
	for _, s := range strings.Split(e.RequiredSkills, ",") {
		if s = strings.TrimSpace(s); s != "" {
			skills = append(skills, s)
		}
	}
	return skills
}

// UserProfile is the profile returned by GET /api/users/{id}
type UserProfile struct {
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Role      Role   `json:"role"`
}

// FullName joins first and last name, falling back to N/A when both are empty
func (p UserProfile) FullName() string {
	name := strings.TrimSpace(p.FirstName + " " + p.LastName)
	if name == "" {
		return "N/A"
	}
	return name
}
