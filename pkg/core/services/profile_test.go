package services

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/jakechorley/volunteer-connect/pkg/clients/apiclient"
	"github.com/jakechorley/volunteer-connect/pkg/core/model"
	"github.com/jakechorley/volunteer-connect/pkg/session"
)

// mockProfileClient implements ProfileClient
type mockProfileClient struct {
	profile    *model.UserProfile
	getErr     error
	getIDs     []string
	updateResp *model.UserProfile
	updateErr  error
	updates    []apiclient.UserUpdateRequest
}

func (m *mockProfileClient) GetUser(ctx context.Context, id string) (*model.UserProfile, error) {
	m.getIDs = append(m.getIDs, id)
	if m.getErr != nil {
		return nil, m.getErr
	}
	p := *m.profile
	return &p, nil
}

func (m *mockProfileClient) UpdateUser(ctx context.Context, id string, req apiclient.UserUpdateRequest) (*model.UserProfile, error) {
	m.updates = append(m.updates, req)
	if m.updateErr != nil {
		return nil, m.updateErr
	}
	return m.updateResp, nil
}

func aliceProfile() *model.UserProfile {
	return &model.UserProfile{
		ID:        7,
		Username:  "alice",
		Email:     "alice@example.com",
		FirstName: "Alice",
		LastName:  "Smith",
		Role:      model.RoleVolunteer,
	}
}

func strPtr(s string) *string { return &s }

func TestProfileEditor_Load(t *testing.T) {
	store, _ := loggedInStore(t, "7", model.RoleVolunteer)
	client := &mockProfileClient{profile: aliceProfile()}
	editor := NewProfileEditor(client, store, zap.NewNop())

	profile, err := editor.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Alice Smith", profile.FullName())
	assert.Equal(t, []string{"7"}, client.getIDs)
}

func TestProfileEditor_LoadWithoutUserID(t *testing.T) {
	store, _ := testStore(t)
	client := &mockProfileClient{profile: aliceProfile()}

	_, err := NewProfileEditor(client, store, zap.NewNop()).Load(context.Background())
	assert.ErrorIs(t, err, session.ErrNotAuthenticated)
	assert.Empty(t, client.getIDs)
}

func TestProfileEditor_ForbiddenClearsSession(t *testing.T) {
	ctx := context.Background()
	store, signals := loggedInStore(t, "7", model.RoleVolunteer)
	core, logs := observer.New(zapcore.WarnLevel)

	client := &mockProfileClient{getErr: errForbidden}
	_, err := NewProfileEditor(client, store, zap.New(core)).Load(ctx)
	require.ErrorIs(t, err, ErrSessionExpired)

	_, ok, readErr := store.Read(ctx)
	require.NoError(t, readErr)
	assert.False(t, ok, "session must be cleared")

	got := drain(signals)
	require.Len(t, got, 1)
	assert.Equal(t, session.ReasonExpired, got[0].Reason)

	assert.Equal(t, 1, logs.FilterMessage("Backend rejected session, logging out").Len())
}

func TestProfileEditor_EditCancelRestores(t *testing.T) {
	store, _ := loggedInStore(t, "7", model.RoleVolunteer)
	editor := NewProfileEditor(&mockProfileClient{profile: aliceProfile()}, store, zap.NewNop())
	_, err := editor.Load(context.Background())
	require.NoError(t, err)

	require.NoError(t, editor.BeginEdit())
	require.NoError(t, editor.Apply(ProfileChanges{FirstName: strPtr("Ally")}))
	assert.Equal(t, "Ally", editor.Profile().FirstName)

	editor.Cancel()
	assert.False(t, editor.Editing())
	assert.Equal(t, *aliceProfile(), editor.Profile())
}

func TestProfileEditor_Save(t *testing.T) {
	t.Run("empty response keeps draft", func(t *testing.T) {
		store, _ := loggedInStore(t, "7", model.RoleVolunteer)
		client := &mockProfileClient{profile: aliceProfile()}
		editor := NewProfileEditor(client, store, zap.NewNop())
		_, err := editor.Load(context.Background())
		require.NoError(t, err)

		require.NoError(t, editor.BeginEdit())
		require.NoError(t, editor.Apply(ProfileChanges{Email: strPtr("new@example.com")}))

		notice, err := editor.Save(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "Profile updated successfully!", notice.Text)
		assert.False(t, editor.Editing())
		assert.Equal(t, "new@example.com", editor.Profile().Email)
		require.Len(t, client.updates, 1)
		assert.Equal(t, apiclient.UserUpdateRequest{
			Email:     "new@example.com",
			FirstName: "Alice",
			LastName:  "Smith",
		}, client.updates[0])
	})

	t.Run("response replaces profile", func(t *testing.T) {
		store, _ := loggedInStore(t, "7", model.RoleVolunteer)
		saved := aliceProfile()
		saved.LastName = "Jones"
		client := &mockProfileClient{profile: aliceProfile(), updateResp: saved}
		editor := NewProfileEditor(client, store, zap.NewNop())
		_, err := editor.Load(context.Background())
		require.NoError(t, err)
		require.NoError(t, editor.BeginEdit())

		_, err = editor.Save(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "Jones", editor.Profile().LastName)
	})

	t.Run("invalid email blocks request", func(t *testing.T) {
		store, _ := loggedInStore(t, "7", model.RoleVolunteer)
		client := &mockProfileClient{profile: aliceProfile()}
		editor := NewProfileEditor(client, store, zap.NewNop())
		_, err := editor.Load(context.Background())
		require.NoError(t, err)
		require.NoError(t, editor.BeginEdit())
		require.NoError(t, editor.Apply(ProfileChanges{Email: strPtr("not-an-email")}))

		_, err = editor.Save(context.Background())
		var vErr *ValidationError
		require.ErrorAs(t, err, &vErr)
		assert.Equal(t, "email", vErr.Fields[0].Field)
		assert.Empty(t, client.updates)
		assert.True(t, editor.Editing(), "stays in edit mode")
	})

	t.Run("backend failure", func(t *testing.T) {
		store, _ := loggedInStore(t, "7", model.RoleVolunteer)
		client := &mockProfileClient{profile: aliceProfile(), updateErr: apiErr(http.StatusBadRequest, "")}
		editor := NewProfileEditor(client, store, zap.NewNop())
		_, err := editor.Load(context.Background())
		require.NoError(t, err)
		require.NoError(t, editor.BeginEdit())

		_, err = editor.Save(context.Background())
		require.Error(t, err)
		assert.Equal(t, "Error updating profile.", err.Error())
	})
}

func TestProfileEditor_SaveRequiresEditMode(t *testing.T) {
	store, _ := loggedInStore(t, "7", model.RoleVolunteer)
	editor := NewProfileEditor(&mockProfileClient{profile: aliceProfile()}, store, zap.NewNop())

	_, err := editor.Save(context.Background())
	assert.Error(t, err)
	assert.Error(t, editor.BeginEdit(), "cannot edit before loading")
}
