package user

import (
	"context"
)

type UserRepository interface {
	GetByEmail(ctx context.Context, email string) (User, error)
	GetByID(ctx context.Context, id string) (User, error)
	LinkGoogleAccount(ctx context.Context, userID, googleID string) error
	Update(ctx context.Context, id string, req UpdateUserRequest) (User, error)
}
