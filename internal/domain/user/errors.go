package user

import "errors"

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrUserEmailExists    = errors.New("email already registered")
	ErrUsernameExists     = errors.New("username already taken")
	ErrCannotEditUser     = errors.New("cannot edit another user's profile")
	ErrCannotChangeBranch = errors.New("not allowed to change branch assignment")
)
