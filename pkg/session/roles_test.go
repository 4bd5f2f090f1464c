package session

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jakechorley/volunteer-connect/pkg/core/model"
)

func TestState_HasRole(t *testing.T) {
	tests := []struct {
		name     string
		sess     Session
		ok       bool
		role     model.Role
		expected bool
	}{
		{
			name:     "organizer primary role",
			sess:     Session{Token: "t", UserID: "1", Username: "a", Roles: []model.Role{model.RoleOrganizer}},
			ok:       true,
			role:     model.RoleOrganizer,
			expected: true,
		},
		{
			name:     "volunteer is not organizer",
			sess:     Session{Token: "t", UserID: "1", Username: "a", Roles: []model.Role{model.RoleVolunteer}},
			ok:       true,
			role:     model.RoleOrganizer,
			expected: false,
		},
		{
			name:     "absent session",
			sess:     Session{Roles: []model.Role{model.RoleOrganizer}},
			ok:       false,
			role:     model.RoleOrganizer,
			expected: false,
		},
		{
			name:     "no roles",
			sess:     Session{Token: "t", UserID: "1", Username: "a", Roles: []model.Role{}},
			ok:       true,
			role:     model.RoleOrganizer,
			expected: false,
		},
		{
			name:     "secondary role counts",
			sess:     Session{Token: "t", UserID: "1", Username: "a", Roles: []model.Role{model.RoleVolunteer, model.RoleOrganizer}},
			ok:       true,
			role:     model.RoleOrganizer,
			expected: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			state := Derive(tt.sess, tt.ok)
			assert.Equal(t, tt.expected, state.HasRole(tt.role))
		})
	}
}

func TestRoles_PrimaryAndDedup(t *testing.T) {
	roles := NewRoles(model.RoleVolunteer, model.RoleOrganizer, model.RoleVolunteer, "")

	assert.Equal(t, model.RoleVolunteer, roles.Primary())
	assert.Equal(t, []model.Role{model.RoleVolunteer, model.RoleOrganizer}, roles.Slice())
	assert.Equal(t, 2, roles.Len())
}

func TestRoles_Can(t *testing.T) {
	assert.True(t, NewRoles(model.RoleOrganizer).Can(CapCreateEvent))
	assert.False(t, NewRoles(model.RoleOrganizer).Can(CapRegisterForEvent))
	assert.True(t, NewRoles(model.RoleVolunteer).Can(CapRegisterForEvent))
	assert.False(t, NewRoles(model.RoleAdmin).Can(CapCreateEvent))
	assert.False(t, Roles{}.Can(CapCreateEvent))
	assert.Equal(t, model.Role(""), Roles{}.Primary())
}

func TestState_LoggedOutHasNoPrimaryRole(t *testing.T) {
	state := Derive(Session{Roles: []model.Role{model.RoleAdmin}}, false)
	assert.False(t, state.LoggedIn)
	assert.Equal(t, model.Role(""), state.PrimaryRole())
	assert.False(t, state.Can(CapCreateEvent))
}
