package apiclient

import (
	"context"
	"net/http"
	"net/url"

	"github.com/jakechorley/volunteer-connect/pkg/core/model"
)

// UserUpdateRequest carries the editable subset of a profile
type UserUpdateRequest struct {
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

func (c *Client) GetUser(ctx context.Context, id string) (*model.UserProfile, error) {
	var profile model.UserProfile
	if err := c.doJSON(ctx, c.authed, http.MethodGet, "/users/"+url.PathEscape(id), nil, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

// UpdateUser saves the editable fields. The backend may answer with the saved
// profile or with no body, in which case nil is returned.
func (c *Client) UpdateUser(ctx context.Context, id string, req UserUpdateRequest) (*model.UserProfile, error) {
	var profile *model.UserProfile
	if err := c.doJSON(ctx, c.authed, http.MethodPut, "/users/"+url.PathEscape(id), req, &profile); err != nil {
		return nil, err
	}
	return profile, nil
}
