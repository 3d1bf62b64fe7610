package user

import "errors"

var (
	ErrInvalidRole             = errors.New("invalid role")
	ErrInsufficientPermissions = errors.New("insufficient permissions")
	ErrCorporateIDRequired     = errors.New("corporate ID is required")
	ErrEmployeeIDRequired      = errors.New("employee ID is required")
)
