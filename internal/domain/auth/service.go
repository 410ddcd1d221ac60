package auth

import (
	"context"
)

type AuthService interface {
	Login(ctx context.Context, req LoginRequest) (TokenResponse, error)
	// LoginWithGoogle signs in an existing user matched by the verified Google email.
	LoginWithGoogle(ctx context.Context, email, googleID string, verified bool) (TokenResponse, error)
}
