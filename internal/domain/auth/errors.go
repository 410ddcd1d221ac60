package auth

import "errors"

var (
	ErrInvalidCredentials     = errors.New("invalid email or password")
	ErrInvalidToken           = errors.New("invalid or expired token")
	ErrGoogleAccountNotLinked = errors.New("no account registered for this google email")
	ErrGoogleEmailNotVerified = errors.New("google email is not verified")
	ErrStateMismatch          = errors.New("oauth state mismatch")
	ErrCodeValueEmpty         = errors.New("oauth code is empty")
)
