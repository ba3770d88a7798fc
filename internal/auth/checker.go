package auth

import "context"

var _ Authenticator = (*Service)(nil)

// Authenticator turns a bearer token into claims, rejecting invalid, expired and revoked tokens.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*Claims, error)
}
