package apiclient

import (
	"context"
	"net/http"
	"strings"

	"github.com/jakechorley/volunteer-connect/pkg/core/model"
)

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse accepts both backend revisions: a single "role" string and
// the older "roles" array, and "userId" as well as the older "id".
type LoginResponse struct {
	Token     string       `json:"token"`
	UserID    int64        `json:"userId"`
	ID        int64        `json:"id"`
	Username  string       `json:"username"`
	Email     string       `json:"email,omitempty"`
	FirstName string       `json:"firstName,omitempty"`
	LastName  string       `json:"lastName,omitempty"`
	Role      model.Role   `json:"role,omitempty"`
	Roles     []model.Role `json:"roles,omitempty"`
}

// AllRoles returns the role list, preferring the array form when present
func (r LoginResponse) AllRoles() []model.Role {
	if len(r.Roles) > 0 {
		return r.Roles
	}
	if r.Role != "" {
		return []model.Role{r.Role}
	}
	return []model.Role{}
}

// AccountID returns the user id from whichever field the backend filled
func (r LoginResponse) AccountID() int64 {
	if r.UserID != 0 {
		return r.UserID
	}
	return r.ID
}

// RegisterRequest creates a new account. An empty Role lets the backend default to VOLUNTEER.
type RegisterRequest struct {
	Username  string     `json:"username"`
	Password  string     `json:"password"`
	Email     string     `json:"email"`
	FirstName string     `json:"firstName,omitempty"`
	LastName  string     `json:"lastName,omitempty"`
	Role      model.Role `json:"role,omitempty"`
}

// Login exchanges credentials for a token
func (c *Client) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	var resp LoginResponse
	if err := c.doJSON(ctx, c.anon, http.MethodPost, "/auth/login", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Register creates an account and returns the backend's confirmation text
func (c *Client) Register(ctx context.Context, req RegisterRequest) (string, error) {
	body, err := c.doRaw(ctx, c.anon, http.MethodPost, "/auth/register", req)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(body)), nil
}
