package tenant

import (
	"context"
	"strings"

	"github.com/okboz/okboz-backend-go/internal/domain/user"
)

// HeadOfficeID is the corporate id of the Head Office tenant.
const HeadOfficeID = "admin"

// Context identifies who is acting and on behalf of which tenant.
// Every service operation receives it explicitly.
type Context struct {
	CorporateID  string
	UserID       string
	EmployeeID   string
	Role         user.Role
	IsSuperAdmin bool
}

// IsHeadOffice reports whether the acting tenant is the Head Office.
func (c Context) IsHeadOffice() bool {
	return c.CorporateID == HeadOfficeID
}

// Validate checks that the context carries a tenant and a known role.
func (c Context) Validate() error {
	if strings.TrimSpace(c.CorporateID) == "" {
		return ErrTenantRequired
	}
	if !c.Role.IsValid() {
		return user.ErrInvalidRole
	}
	return nil
}

// ActingAs returns a copy scoped to another corporate. Only a super admin
// may switch tenants; for everyone else the requested id must match.
func (c Context) ActingAs(corporateID string) (Context, error) {
	corporateID = strings.TrimSpace(corporateID)
	if corporateID == "" || corporateID == c.CorporateID {
		return c, nil
	}
	if !c.IsSuperAdmin {
		return Context{}, ErrCrossTenantAccess
	}
	scoped := c
	scoped.CorporateID = corporateID
	return scoped, nil
}

type ctxKey string

const contextKey ctxKey = "tenant"

// WithContext stores the tenant context in ctx.
func WithContext(ctx context.Context, tc Context) context.Context {
	return context.WithValue(ctx, contextKey, tc)
}

// FromContext returns the tenant context stored by the HTTP middleware.
func FromContext(ctx context.Context) (Context, error) {
	tc, ok := ctx.Value(contextKey).(Context)
	if !ok {
		return Context{}, ErrTenantRequired
	}
	return tc, nil
}
