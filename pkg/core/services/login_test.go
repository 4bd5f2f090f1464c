package services

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/jakechorley/volunteer-connect/pkg/clients/apiclient"
	"github.com/jakechorley/volunteer-connect/pkg/core/model"
	"github.com/jakechorley/volunteer-connect/pkg/session"
)

func TestLogin_StoresSessionAndShowsCreateEvent(t *testing.T) {
	ctx := context.Background()
	store, signals := testStore(t)
	client := &mockAuthClient{loginResp: &apiclient.LoginResponse{
		Token:    "t1",
		UserID:   7,
		Username: "alice",
		Role:     model.RoleOrganizer,
	}}

	_, err := Login(ctx, client, store, zap.NewNop(), LoginForm{Username: "alice", Password: "pw"})
	require.NoError(t, err)

	sess, ok, err := store.Read(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, session.Session{
		Token:    "t1",
		UserID:   "7",
		Username: "alice",
		Roles:    []model.Role{model.RoleOrganizer},
	}, sess)

	got := drain(signals)
	require.Len(t, got, 1)
	assert.Equal(t, session.ReasonLogin, got[0].Reason)

	var labels []string
	for _, l := range NavLinks(session.Derive(sess, ok)) {
		labels = append(labels, l.Label)
	}
	assert.Contains(t, labels, "Create Event")
	assert.Contains(t, labels, "Logout (alice (ORGANIZER))")
}

func TestLogin_RolesArrayAndLegacyID(t *testing.T) {
	ctx := context.Background()
	store, _ := testStore(t)
	client := &mockAuthClient{loginResp: &apiclient.LoginResponse{
		Token: "t2",
		ID:    12,
		Roles: []model.Role{model.RoleVolunteer, model.RoleOrganizer},
	}}

	sess, err := Login(ctx, client, store, zap.NewNop(), LoginForm{Username: "bob", Password: "pw"})
	require.NoError(t, err)

	assert.Equal(t, "12", sess.UserID)
	assert.Equal(t, "bob", sess.Username, "falls back to the submitted username")
	assert.Equal(t, []model.Role{model.RoleVolunteer, model.RoleOrganizer}, sess.Roles)
}

func TestLogin_Failures(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		wantMsg string
	}{
		{
			name:    "backend message shown verbatim",
			err:     apiErr(http.StatusUnauthorized, "Invalid username or password"),
			wantMsg: "Invalid username or password",
		},
		{
			name:    "backend error without message",
			err:     apiErr(http.StatusUnauthorized, ""),
			wantMsg: "Login failed. Please check your credentials.",
		},
		{
			name:    "network error",
			err:     errors.New("connection refused"),
			wantMsg: "An unexpected error occurred during login.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			store, signals := testStore(t)
			client := &mockAuthClient{loginErr: tt.err}

			_, err := Login(ctx, client, store, zap.NewNop(), LoginForm{Username: "alice", Password: "pw"})
			require.Error(t, err)

			var userErr *UserError
			require.ErrorAs(t, err, &userErr)
			assert.Equal(t, tt.wantMsg, userErr.Message)

			_, ok, err := store.Read(ctx)
			require.NoError(t, err)
			assert.False(t, ok, "failed login must not write a session")
			assert.Empty(t, drain(signals))
		})
	}
}

func TestLogin_ValidationBlocksRequest(t *testing.T) {
	store, _ := testStore(t)
	client := &mockAuthClient{}

	_, err := Login(context.Background(), client, store, zap.NewNop(), LoginForm{Username: "alice"})

	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	require.Len(t, vErr.Fields, 1)
	assert.Equal(t, "password", vErr.Fields[0].Field)
	assert.Empty(t, client.loginCalls)
}

func TestLogout_ClearsAndSignalsOnce(t *testing.T) {
	ctx := context.Background()
	store, signals := loggedInStore(t, "7", model.RoleVolunteer)

	require.NoError(t, Logout(ctx, store, zap.NewNop()))

	_, ok, err := store.Token(ctx)
	require.NoError(t, err)
	assert.False(t, ok)
	_, ok, err = store.UserID(ctx)
	require.NoError(t, err)
	assert.False(t, ok)
	got := drain(signals)
	require.Len(t, got, 1)
	assert.Equal(t, session.ReasonLogout, got[0].Reason)
}

func TestSignUp(t *testing.T) {
	t.Run("sends form and returns backend text", func(t *testing.T) {
		client := &mockAuthClient{registerMsg: "User registered successfully!"}
		msg, err := SignUp(context.Background(), client, zap.NewNop(), SignUpForm{
			Username: "carol",
			Password: "secret",
			Email:    "carol@example.com",
			Role:     "organizer",
		})
		require.NoError(t, err)
		assert.Equal(t, "User registered successfully!", msg)
		require.Len(t, client.registered, 1)
		assert.Equal(t, model.RoleOrganizer, client.registered[0].Role)
	})

	t.Run("rejects unknown role", func(t *testing.T) {
		client := &mockAuthClient{}
		_, err := SignUp(context.Background(), client, zap.NewNop(), SignUpForm{
			Username: "carol",
			Password: "secret",
			Email:    "carol@example.com",
			Role:     "wizard",
		})
		var vErr *ValidationError
		require.ErrorAs(t, err, &vErr)
		assert.Empty(t, client.registered)
	})

	t.Run("taken username", func(t *testing.T) {
		client := &mockAuthClient{registerErr: apiErr(http.StatusBadRequest, "Username is already taken!")}
		_, err := SignUp(context.Background(), client, zap.NewNop(), SignUpForm{
			Username: "carol",
			Password: "secret",
			Email:    "carol@example.com",
		})
		require.Error(t, err)
		assert.Equal(t, "Username is already taken!", err.Error())
	})
}
