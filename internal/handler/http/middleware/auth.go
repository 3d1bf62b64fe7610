package middleware

import (
	"net/http"

	"github.com/go-chi/jwtauth/v5"
	"github.com/okboz/okboz-backend-go/internal/domain/tenant"
	"github.com/okboz/okboz-backend-go/internal/handler/http/response"
	"github.com/okboz/okboz-backend-go/internal/pkg/jwt"
)

// AuthRequired accepts only verified access tokens and puts the caller's
// tenant context on the request. A super admin may act for another tenant
// with the corporate_id query parameter.
func AuthRequired(next http.Handler) http.Handler {
	hfn := func(w http.ResponseWriter, r *http.Request) {
		token, claims, err := jwtauth.FromContext(r.Context())
		if err != nil {
			response.Unauthorized(w, err.Error())
			return
		}
		if token == nil {
			response.Unauthorized(w, "Invalid token")
			return
		}

		c, err := jwt.ClaimsFromMap(claims, jwt.TokenTypeAccess)
		if err != nil {
			response.Unauthorized(w, "Invalid token")
			return
		}

		tc, err := c.Tenant().ActingAs(r.URL.Query().Get("corporate_id"))
		if err != nil {
			response.HandleError(w, err)
			return
		}

		next.ServeHTTP(w, r.WithContext(tenant.WithContext(r.Context(), tc)))
	}
	return http.HandlerFunc(hfn)
}
