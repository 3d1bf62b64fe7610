package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"golang.org/x/time/rate"
)

func TestExtractIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.7:5123"
	assert.Equal(t, "10.0.0.7", extractIP(req))

	req.Header.Set("X-Forwarded-For", "203.0.113.9, 10.0.0.1")
	assert.Equal(t, "203.0.113.9", extractIP(req))
}

func TestIPLimiter_PerClient(t *testing.T) {
	ipl := newIPLimiter(rate.Limit(0.001), 1)

	assert.True(t, ipl.getLimiter("a").Allow())
	assert.False(t, ipl.getLimiter("a").Allow())
	assert.True(t, ipl.getLimiter("b").Allow())
}

func TestIPLimiter_Sweep(t *testing.T) {
	ipl := newIPLimiter(rate.Limit(1), 1)
	ipl.getLimiter("a")
	ipl.limiters["a"].lastSeen = time.Now().Add(-time.Hour)
	ipl.getLimiter("b")

	ipl.sweep(10 * time.Minute)

	assert.NotContains(t, ipl.limiters, "a")
	assert.Contains(t, ipl.limiters, "b")
}
