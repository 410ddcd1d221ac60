package user

import (
	"context"

	"github.com/cmlabs-hris/branch-report-go/internal/domain/access"
)

type UserService interface {
	Me(ctx context.Context, actor access.Actor) (MeResponse, error)
	Update(ctx context.Context, actor access.Actor, id string, req UpdateUserRequest) (UserResponse, error)
}
