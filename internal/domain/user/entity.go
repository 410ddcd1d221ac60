package user

import (
	"time"

	"github.com/cmlabs-hris/branch-report-go/internal/domain/access"
)

type User struct {
	ID                string
	Username          string
	Email             string
	Name              string
	PasswordHash      *string
	Role              access.Role
	BranchID          *string
	AssignedBranchIDs []string
	GoogleID          *string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// Actor is the access view of the user.
func (u *User) Actor() access.Actor {
	var home string
	if u.BranchID != nil {
		home = *u.BranchID
	}
	assigned := u.AssignedBranchIDs
	if assigned == nil {
		assigned = []string{}
	}
	return access.Actor{
		UserID:            u.ID,
		Role:              u.Role,
		BranchID:          home,
		AssignedBranchIDs: assigned,
	}
}

func (u *User) IsAdmin() bool {
	return u.Role == access.RoleAdmin
}

func (u *User) ToResponse() UserResponse {
	assigned := u.AssignedBranchIDs
	if assigned == nil {
		assigned = []string{}
	}
	return UserResponse{
		ID:                u.ID,
		Username:          u.Username,
		Email:             u.Email,
		Name:              u.Name,
		Role:              string(u.Role),
		BranchID:          u.BranchID,
		AssignedBranchIDs: assigned,
		CreatedAt:         u.CreatedAt.Format(time.RFC3339),
		UpdatedAt:         u.UpdatedAt.Format(time.RFC3339),
	}
}
