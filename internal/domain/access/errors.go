package access

import "errors"

var (
	ErrUnknownRole        = errors.New("unknown role")
	ErrPermissionDenied   = errors.New("insufficient permissions")
	ErrBranchAccessDenied = errors.New("no access to this branch")
	ErrNoBranchAssigned   = errors.New("user is not assigned to any branch")
)
