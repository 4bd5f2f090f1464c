// Package session holds the client's authenticated identity: the key/value
// store it lives in, the change signal emitted when it moves, and the observer
// that derives navigation state from it.
package session

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jakechorley/volunteer-connect/pkg/core/model"
)

// Storage keys. The names match what earlier clients wrote so an existing
// session file stays readable.
const (
	KeyToken    = "jwtToken"
	KeyRoles    = "userRoles"
	KeyUserID   = "userId"
	KeyUsername = "username"
)

// AllKeys lists every key owned by a session
var AllKeys = []string{KeyToken, KeyRoles, KeyUserID, KeyUsername}

var (
	// ErrNotAuthenticated is returned when a command needs a session and none is stored
	ErrNotAuthenticated = errors.New("not authenticated: please log in")
	// ErrIncompleteSession is returned when writing a session with a required field missing
	ErrIncompleteSession = errors.New("incomplete session")
)

// Session is the authenticated identity held by the client
type Session struct {
	Token    string
	UserID   string
	Username string
	Roles    []model.Role
}

// RoleSet returns the session's roles as a set
func (s Session) RoleSet() Roles {
	return NewRoles(s.Roles...)
}

func (s Session) validate() error {
	switch {
	case s.Token == "":
		return fmt.Errorf("%w: token is empty", ErrIncompleteSession)
	case s.UserID == "":
		return fmt.Errorf("%w: user id is empty", ErrIncompleteSession)
	case s.Username == "":
		return fmt.Errorf("%w: username is empty", ErrIncompleteSession)
	}
	return nil
}

func encodeRoles(roles []model.Role) (string, error) {
	if roles == nil {
		roles = []model.Role{}
	}
	data, err := json.Marshal(roles)
	if err != nil {
		return "", fmt.Errorf("failed to encode roles: %w", err)
	}
	return string(data), nil
}

func decodeRoles(raw string) ([]model.Role, error) {
	var roles []model.Role
	if err := json.Unmarshal([]byte(raw), &roles); err != nil {
		return nil, fmt.Errorf("failed to decode roles: %w", err)
	}
	if roles == nil {
		return nil, fmt.Errorf("failed to decode roles: not a sequence")
	}
	return roles, nil
}
