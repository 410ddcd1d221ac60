package user

import (
	"strings"

	"github.com/cmlabs-hris/branch-report-go/internal/domain/access"
	"github.com/cmlabs-hris/branch-report-go/internal/pkg/validator"
)

// UserResponse represents user data in API responses
type UserResponse struct {
	ID                string   `json:"id"`
	Username          string   `json:"username"`
	Email             string   `json:"email"`
	Name              string   `json:"name"`
	Role              string   `json:"role"`
	BranchID          *string  `json:"branchId"`
	AssignedBranchIDs []string `json:"assignedBranchIds"`
	CreatedAt         string   `json:"createdAt"`
	UpdatedAt         string   `json:"updatedAt"`
}

// MeResponse describes the session: who the caller is and what they can reach.
type MeResponse struct {
	UserResponse
	Permissions         []access.Permission `json:"permissions"`
	AccessibleBranchIDs []string            `json:"accessibleBranchIds"`
}

// UpdateUserRequest is a partial profile update; nil fields are left as is.
type UpdateUserRequest struct {
	Username *string `json:"username,omitempty"`
	Email    *string `json:"email,omitempty"`
	Name     *string `json:"name,omitempty"`
	BranchID *string `json:"branchId,omitempty"`
}

func (r *UpdateUserRequest) Normalize() {
	trim := func(p *string) {
		if p != nil {
			v := strings.TrimSpace(*p)
			*p = v
		}
	}
	trim(r.Username)
	trim(r.Email)
	trim(r.Name)
	trim(r.BranchID)
	if r.Email != nil {
		v := strings.ToLower(*r.Email)
		r.Email = &v
	}
}

func (r *UpdateUserRequest) IsEmpty() bool {
	return r.Username == nil && r.Email == nil && r.Name == nil && r.BranchID == nil
}

func (r *UpdateUserRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.IsEmpty() {
		errs = append(errs, validator.ValidationError{
			Field:   "body",
			Message: "at least one of username, email, name, branchId is required",
		})
	}

	if r.Username != nil && !validator.IsValidUsername(*r.Username) {
		errs = append(errs, validator.ValidationError{
			Field:   "username",
			Message: "username must be 3-50 characters of letters, numbers, dots, underscores, and hyphens",
		})
	}

	if r.Email != nil {
		if validator.IsEmpty(*r.Email) {
			errs = append(errs, validator.ValidationError{
				Field:   "email",
				Message: "email must not be empty",
			})
		} else if !validator.IsValidEmail(*r.Email) {
			errs = append(errs, validator.ValidationError{
				Field:   "email",
				Message: "invalid email format",
			})
		}
	}

	if r.Name != nil {
		if validator.IsEmpty(*r.Name) {
			errs = append(errs, validator.ValidationError{
				Field:   "name",
				Message: "name must not be empty",
			})
		}
		if len(*r.Name) > 100 {
			errs = append(errs, validator.ValidationError{
				Field:   "name",
				Message: "name must not exceed 100 characters",
			})
		}
	}

	if r.BranchID != nil && validator.IsEmpty(*r.BranchID) {
		errs = append(errs, validator.ValidationError{
			Field:   "branchId",
			Message: "branchId must not be empty",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}
