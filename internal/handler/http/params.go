package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/okboz/okboz-backend-go/internal/domain/tenant"
	"github.com/okboz/okboz-backend-go/internal/handler/http/response"
)

// tenantFrom returns the caller's tenant context, writing a 401 when the
// request did not pass through AuthRequired.
func tenantFrom(w http.ResponseWriter, r *http.Request) (tenant.Context, bool) {
	tc, err := tenant.FromContext(r.Context())
	if err != nil {
		response.Unauthorized(w, "Unauthorized")
		return tenant.Context{}, false
	}
	return tc, true
}

// getIntQueryParam gets an int query parameter with a default value
func getIntQueryParam(r *http.Request, key string, defaultVal int) int {
	val := r.URL.Query().Get(key)
	if val == "" {
		return defaultVal
	}
	intVal, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}
	return intVal
}

// getBoolQueryParam gets a bool query parameter with a default value
func getBoolQueryParam(r *http.Request, key string, defaultVal bool) bool {
	val := r.URL.Query().Get(key)
	if val == "" {
		return defaultVal
	}
	return val == "true" || val == "1"
}

func optionalQuery(r *http.Request, key string) *string {
	val := r.URL.Query().Get(key)
	if val == "" {
		return nil
	}
	return &val
}

// optionalDateQuery parses a "YYYY-MM-DD" query parameter.
func optionalDateQuery(r *http.Request, key string) (*time.Time, bool) {
	val := r.URL.Query().Get(key)
	if val == "" {
		return nil, true
	}
	t, err := time.Parse("2006-01-02", val)
	if err != nil {
		return nil, false
	}
	return &t, true
}
