package tenant

import "errors"

var (
	ErrTenantRequired    = errors.New("tenant context is required")
	ErrCrossTenantAccess = errors.New("access to another tenant is not allowed")
)
