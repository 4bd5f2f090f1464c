package services

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/jakechorley/volunteer-connect/pkg/clients/apiclient"
	"github.com/jakechorley/volunteer-connect/pkg/core/model"
	"github.com/jakechorley/volunteer-connect/pkg/session"
)

const (
	fetchProfileFailedMessage      = "Error fetching user profile."
	fetchProfileUnexpectedMessage  = "An unexpected error occurred while fetching your profile."
	updateProfileFailedMessage     = "Error updating profile."
	updateProfileUnexpectedMessage = "An unexpected error occurred while updating your profile."
	updateProfileSuccessMessage    = "Profile updated successfully!"
)

// ProfileClient defines the user operations needed by the profile page
type ProfileClient interface {
	GetUser(ctx context.Context, id string) (*model.UserProfile, error)
	UpdateUser(ctx context.Context, id string, req apiclient.UserUpdateRequest) (*model.UserProfile, error)
}

// ProfileChanges holds edits to apply; nil fields are left as they are
type ProfileChanges struct {
	Email     *string
	FirstName *string
	LastName  *string
}

type profileForm struct {
	Email     string `form:"email" validate:"required,email"`
	FirstName string `form:"firstName"`
	LastName  string `form:"lastName"`
}

// ProfileEditor is the profile page. It keeps the last fetched profile so
// that Cancel can restore it.
type ProfileEditor struct {
	client ProfileClient
	store  *session.Store
	logger *zap.Logger

	mu      sync.Mutex
	userID  string
	fetched model.UserProfile
	draft   model.UserProfile
	editing bool
}

func NewProfileEditor(client ProfileClient, store *session.Store, logger *zap.Logger) *ProfileEditor {
	return &ProfileEditor{client: client, store: store, logger: logger}
}

// Load fetches the profile of the stored user id
func (p *ProfileEditor) Load(ctx context.Context) (model.UserProfile, error) {
	userID, ok, err := p.store.UserID(ctx)
	if err != nil {
		return model.UserProfile{}, fmt.Errorf("failed to read session: %w", err)
	}
	if !ok {
		return model.UserProfile{}, session.ErrNotAuthenticated
	}

	profile, err := p.client.GetUser(ctx, userID)
	if err != nil {
		return model.UserProfile{}, callFailure(ctx, p.store, p.logger, err, fetchProfileFailedMessage, fetchProfileUnexpectedMessage)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	p.userID = userID
	p.fetched = *profile
	p.draft = *profile
	p.editing = false

	p.logger.Debug("Fetched profile", zap.String("userId", userID))
	return *profile, nil
}

// Profile returns the displayed profile: the draft while editing
func (p *ProfileEditor) Profile() model.UserProfile {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.editing {
		return p.draft
	}
	return p.fetched
}

func (p *ProfileEditor) Editing() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.editing
}

// BeginEdit switches to edit mode starting from the fetched profile
func (p *ProfileEditor) BeginEdit() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.userID == "" {
		return fmt.Errorf("profile not loaded")
	}
	p.draft = p.fetched
	p.editing = true
	return nil
}

// Apply updates the draft. Only email, first name and last name are editable.
func (p *ProfileEditor) Apply(changes ProfileChanges) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.editing {
		return fmt.Errorf("profile is not being edited")
	}
	if changes.Email != nil {
		p.draft.Email = strings.TrimSpace(*changes.Email)
	}
	if changes.FirstName != nil {
		p.draft.FirstName = strings.TrimSpace(*changes.FirstName)
	}
	if changes.LastName != nil {
		p.draft.LastName = strings.TrimSpace(*changes.LastName)
	}
	return nil
}

// Cancel discards the draft and restores the last fetched profile
func (p *ProfileEditor) Cancel() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.draft = p.fetched
	p.editing = false
}

// Save sends the draft. When the backend answers without a body the draft
// becomes the displayed profile.
func (p *ProfileEditor) Save(ctx context.Context) (Notice, error) {
	p.mu.Lock()
	if !p.editing {
		p.mu.Unlock()
		return Notice{}, fmt.Errorf("profile is not being edited")
	}
	userID := p.userID
	draft := p.draft
	p.mu.Unlock()

	form := profileForm{Email: draft.Email, FirstName: draft.FirstName, LastName: draft.LastName}
	if err := validateForm(form, updateProfileFailedMessage); err != nil {
		return Notice{}, err
	}

	saved, err := p.client.UpdateUser(ctx, userID, apiclient.UserUpdateRequest{
		Email:     form.Email,
		FirstName: form.FirstName,
		LastName:  form.LastName,
	})
	if err != nil {
		return Notice{}, callFailure(ctx, p.store, p.logger, err, updateProfileFailedMessage, updateProfileUnexpectedMessage)
	}
	if saved == nil {
		saved = &draft
	}

	p.mu.Lock()
	p.fetched = *saved
	p.draft = *saved
	p.editing = false
	p.mu.Unlock()

	p.logger.Info("Updated profile", zap.String("userId", userID))
	return newNotice(NoticeSuccess, updateProfileSuccessMessage, time.Now()), nil
}
