package session

import (
	mapset "github.com/deckarep/golang-set/v2"

	"github.com/jakechorley/volunteer-connect/pkg/core/model"
)

// Capability is something a role set may allow. Every check here is advisory;
// the backend makes the authoritative decision.
type Capability int

const (
	CapCreateEvent Capability = iota
	CapRegisterForEvent
)

var capabilityRoles = map[Capability]mapset.Set[model.Role]{
	CapCreateEvent:      mapset.NewSet(model.RoleOrganizer),
	CapRegisterForEvent: mapset.NewSet(model.RoleVolunteer),
}

func (c Capability) String() string {
	switch c {
	case CapCreateEvent:
		return "create events"
	case CapRegisterForEvent:
		return "register for events"
	default:
		return "unknown"
	}
}

// Roles is an ordered role list with set semantics for membership checks.
// Order is kept only so the first entry can be shown as the primary role.
type Roles struct {
	ordered []model.Role
	set     mapset.Set[model.Role]
}

func NewRoles(roles ...model.Role) Roles {
	ordered := make([]model.Role, 0, len(roles))
	set := mapset.NewThreadUnsafeSet[model.Role]()
	for _, r := range roles {
		if r == "" || set.Contains(r) {
			continue
		}
		set.Add(r)
		ordered = append(ordered, r)
	}
	return Roles{ordered: ordered, set: set}
}

func (r Roles) Has(role model.Role) bool {
	return r.set != nil && r.set.Contains(role)
}

// Can reports whether any role in the set grants the capability
func (r Roles) Can(c Capability) bool {
	allowed, ok := capabilityRoles[c]
	if !ok || r.set == nil {
		return false
	}
	for _, role := range r.ordered {
		if allowed.Contains(role) {
			return true
		}
	}
	return false
}

// Primary returns the first role, or "" when there is none
func (r Roles) Primary() model.Role {
	if len(r.ordered) == 0 {
		return ""
	}
	return r.ordered[0]
}

func (r Roles) Slice() []model.Role {
	out := make([]model.Role, len(r.ordered))
	copy(out, r.ordered)
	return out
}

func (r Roles) Len() int {
	return len(r.ordered)
}
