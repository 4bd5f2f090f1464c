package apiclient

import (
	"context"
	"errors"

	"golang.org/x/oauth2"
)

// ErrNoToken is returned for authenticated calls made without a stored token
var ErrNoToken = errors.New("no session token stored")

// TokenReader is the part of the session store the client needs
type TokenReader interface {
	Token(ctx context.Context) (string, bool, error)
}

// StoreTokenSource reads the bearer token from the session store on every
// request, so a login or logout in the same process takes effect immediately
type StoreTokenSource struct {
	ctx    context.Context
	reader TokenReader
}

var _ oauth2.TokenSource = (*StoreTokenSource)(nil)

func NewStoreTokenSource(ctx context.Context, reader TokenReader) *StoreTokenSource {
	return &StoreTokenSource{ctx: ctx, reader: reader}
}

func (s *StoreTokenSource) Token() (*oauth2.Token, error) {
	token, ok, err := s.reader.Token(s.ctx)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNoToken
	}
	return &oauth2.Token{AccessToken: token, TokenType: "Bearer"}, nil
}
