package session

import (
	"context"
)

// RequireToken is the route guard for protected commands. It only checks that
// a token is present; whether the backend still accepts it is found out by
// the first call that uses it.
func RequireToken(ctx context.Context, store *Store) error {
	_, ok, err := store.Token(ctx)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotAuthenticated
	}
	return nil
}
