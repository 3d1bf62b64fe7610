package middleware

import (
	"fmt"
	"net/http"

	"github.com/okboz/okboz-backend-go/internal/domain/tenant"
	"github.com/okboz/okboz-backend-go/internal/domain/user"
	"github.com/okboz/okboz-backend-go/internal/handler/http/response"
)

// RequirePermission checks if user has specific permission
func RequirePermission(permission user.Permission) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tc, err := tenant.FromContext(r.Context())
			if err != nil {
				response.Forbidden(w, fmt.Sprintf("Insufficient permissions: required '%s'", permission))
				return
			}

			if !user.HasPermission(tc.Role, permission) {
				response.Forbidden(w, fmt.Sprintf("Insufficient permissions: required '%s', but user role is '%s'", permission, tc.Role))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
