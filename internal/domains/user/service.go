package user

import "context"

// Service implements the authentication use-cases.
type Service interface {
	// Login verifies credentials and issues a session token.
	// Unknown email and wrong password fail identically.
	Login(ctx context.Context, req LoginRequest) (*LoginResponse, error)

	// Register creates a new account. It does not authenticate:
	// the caller logs in afterwards to obtain a token.
	Register(ctx context.Context, req RegisterRequest) (*User, error)

	// ValidateToken resolves a session token back to its user.
	ValidateToken(ctx context.Context, token string) (*ValidateTokenResponse, error)
}
