package session

import (
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// Claims are the fields of the backend's JWT shown by whoami
type Claims struct {
	jwt.RegisteredClaims
	Roles []string `json:"roles,omitempty"`
}

// ParseClaims decodes token without verifying its signature or expiry.
// The result is for display only; the backend remains the judge of validity.
func ParseClaims(token string) (*Claims, error) {
	parser := jwt.NewParser(jwt.WithoutClaimsValidation())
	parsed, _, err := parser.ParseUnverified(token, &Claims{})
	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok {
		return nil, fmt.Errorf("invalid claims type in token")
	}
	return claims, nil
}
