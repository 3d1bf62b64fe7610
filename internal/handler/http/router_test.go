package http

import (
	"bufio"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/okboz/okboz-backend-go/internal/config"
	"github.com/okboz/okboz-backend-go/internal/domain/advance"
	"github.com/okboz/okboz-backend-go/internal/domain/notification"
	"github.com/okboz/okboz-backend-go/internal/domain/payroll"
	"github.com/okboz/okboz-backend-go/internal/domain/settlement"
	"github.com/okboz/okboz-backend-go/internal/domain/tenant"
	"github.com/okboz/okboz-backend-go/internal/domain/user"
	"github.com/okboz/okboz-backend-go/internal/pkg/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Fakes embed the service interface so only the methods a test touches
// need an implementation.

type fakePayrollService struct {
	payroll.PayrollService
	recomputeCalls int
	lastTenant     tenant.Context
}

func (f *fakePayrollService) Recompute(_ context.Context, tc tenant.Context, req payroll.RecomputeRequest) (payroll.DraftResponse, error) {
	f.recomputeCalls++
	f.lastTenant = tc
	return payroll.DraftResponse{}, nil
}

func (f *fakePayrollService) ExportHistory(_ context.Context, tc tenant.Context, id string) (payroll.ExportFile, error) {
	if id != "h1" {
		return payroll.ExportFile{}, payroll.ErrHistoryNotFound
	}
	return payroll.ExportFile{
		FileName:    "payroll-2025-01.xlsx",
		ContentType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		Content:     []byte("xlsx"),
	}, nil
}

type fakeAdvanceService struct {
	advance.AdvanceService
	approveErr error
	lastID     string
}

func (f *fakeAdvanceService) Approve(_ context.Context, tc tenant.Context, req advance.ApproveAdvanceRequest) (advance.AdvanceResponse, error) {
	f.lastID = req.ID
	return advance.AdvanceResponse{}, f.approveErr
}

type fakeSettlementService struct {
	settlement.SettlementService
	lastRecord settlement.RecordPaymentRequest
}

func (f *fakeSettlementService) RecordPayment(_ context.Context, tc tenant.Context, req settlement.RecordPaymentRequest) (settlement.RecordResponse, error) {
	f.lastRecord = req
	return settlement.RecordResponse{}, nil
}

type fakeNotificationService struct {
	notification.Service
	events chan notification.SSEEvent
	subTC  chan tenant.Context
}

func (f *fakeNotificationService) Subscribe(_ context.Context, tc tenant.Context) (<-chan notification.SSEEvent, func()) {
	f.subTC <- tc
	return f.events, func() {}
}

type testAPI struct {
	router       http.Handler
	jwt          jwt.Service
	payroll      *fakePayrollService
	advance      *fakeAdvanceService
	settlement   *fakeSettlementService
	notification *fakeNotificationService
}

func newTestAPI(t *testing.T, burst int) *testAPI {
	t.Helper()

	cfg := &config.Config{
		App:       config.AppConfig{Env: "test", AllowedOrigins: []string{"http://localhost:3000"}},
		RateLimit: config.RateLimitConfig{RequestsPerSecond: 0.001, Burst: burst},
	}
	api := &testAPI{
		jwt:          jwt.NewJWTService("test-secret", "1h"),
		payroll:      &fakePayrollService{},
		advance:      &fakeAdvanceService{},
		settlement:   &fakeSettlementService{},
		notification: &fakeNotificationService{events: make(chan notification.SSEEvent, 1), subTC: make(chan tenant.Context, 1)},
	}

	stop := make(chan struct{})
	t.Cleanup(func() { close(stop) })

	api.router = NewRouter(cfg, api.jwt, Handlers{
		Payroll:       NewPayrollHandler(api.payroll),
		Advance:       NewAdvanceHandler(api.advance),
		DriverPayment: NewDriverPaymentHandler(nil),
		Settlement:    NewSettlementHandler(api.settlement),
		Notification:  NewNotificationHandler(api.notification, api.jwt),
	}, stop)
	return api
}

func (a *testAPI) token(t *testing.T, claims jwt.Claims) string {
	t.Helper()
	token, _, err := a.jwt.GenerateAccessToken(claims)
	require.NoError(t, err)
	return token
}

func (a *testAPI) do(t *testing.T, method, path, token, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Success bool `json:"success"`
		Error   struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.False(t, body.Success)
	return body.Error.Code
}

var owner = jwt.Claims{UserID: "u1", CorporateID: "corp-1", Role: user.RoleCorporate}

func TestRouter_RequiresToken(t *testing.T) {
	api := newTestAPI(t, 10)

	rec := api.do(t, http.MethodPost, "/api/v1/payroll/drafts/recompute", "", `{"year":2025,"month":1}`)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Zero(t, api.payroll.recomputeCalls)
}

func TestRouter_RejectsSSETokenAsAccessToken(t *testing.T) {
	api := newTestAPI(t, 10)
	sseToken, _, err := api.jwt.GenerateSSEToken(owner)
	require.NoError(t, err)

	rec := api.do(t, http.MethodGet, "/api/v1/payroll/history", sseToken, "")

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRouter_PermissionByRole(t *testing.T) {
	api := newTestAPI(t, 10)
	staff := api.token(t, jwt.Claims{UserID: "u2", CorporateID: "corp-1", EmployeeID: "e1", Role: user.RoleEmployee})

	rec := api.do(t, http.MethodPost, "/api/v1/payroll/drafts/recompute", staff, `{"year":2025,"month":1}`)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "FORBIDDEN", decodeError(t, rec))

	rec = api.do(t, http.MethodPost, "/api/v1/payroll/drafts/recompute", api.token(t, owner), `{"year":2025,"month":1}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, api.payroll.recomputeCalls)
	assert.Equal(t, "corp-1", api.payroll.lastTenant.CorporateID)
}

func TestRouter_TenantOverride(t *testing.T) {
	api := newTestAPI(t, 10)

	t.Run("owner cannot act for another corporate", func(t *testing.T) {
		rec := api.do(t, http.MethodPost, "/api/v1/payroll/drafts/recompute?corporate_id=corp-2", api.token(t, owner), `{"year":2025,"month":1}`)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("super admin acts for the requested corporate", func(t *testing.T) {
		admin := api.token(t, jwt.Claims{UserID: "root", CorporateID: tenant.HeadOfficeID, Role: user.RoleAdmin, IsSuperAdmin: true})
		rec := api.do(t, http.MethodPost, "/api/v1/payroll/drafts/recompute?corporate_id=corp-2", admin, `{"year":2025,"month":1}`)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "corp-2", api.payroll.lastTenant.CorporateID)
	})
}

func TestRouter_MalformedBody(t *testing.T) {
	api := newTestAPI(t, 10)

	rec := api.do(t, http.MethodPost, "/api/v1/payroll/drafts/recompute", api.token(t, owner), `{`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "BAD_REQUEST", decodeError(t, rec))
}

func TestRouter_ExportDownload(t *testing.T) {
	api := newTestAPI(t, 10)
	token := api.token(t, owner)

	rec := api.do(t, http.MethodGet, "/api/v1/payroll/history/h1/export", token, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, `attachment; filename="payroll-2025-01.xlsx"`, rec.Header().Get("Content-Disposition"))
	assert.Equal(t, "xlsx", rec.Body.String())

	rec = api.do(t, http.MethodGet, "/api/v1/payroll/history/missing/export", token, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRouter_AdvanceErrors(t *testing.T) {
	api := newTestAPI(t, 10)
	api.advance.approveErr = advance.ErrAdvanceAlreadyProcessed

	rec := api.do(t, http.MethodPost, "/api/v1/advances/adv-1/approve", api.token(t, owner), `{"amount_approved":"1000","payment_mode":"UPI"}`)

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "adv-1", api.advance.lastID)
}

func TestRouter_SettlementPathParams(t *testing.T) {
	api := newTestAPI(t, 10)
	token := api.token(t, owner)

	rec := api.do(t, http.MethodPost, "/api/v1/settlements/2025-01/partners/x/payments", token, `{"amount":"100","method":"UPI"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = api.do(t, http.MethodPost, "/api/v1/settlements/2025-01/partners/1/payments", token, `{"amount":"100","method":"UPI"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "2025-01", api.settlement.lastRecord.Month)
	assert.Equal(t, 1, api.settlement.lastRecord.PartnerIndex)
	assert.Equal(t, "100", api.settlement.lastRecord.Amount.String())
}

func TestRouter_RateLimitsMutations(t *testing.T) {
	api := newTestAPI(t, 1)
	token := api.token(t, owner)

	rec := api.do(t, http.MethodPost, "/api/v1/payroll/drafts/recompute", token, `{"year":2025,"month":1}`)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = api.do(t, http.MethodPost, "/api/v1/payroll/drafts/recompute", token, `{"year":2025,"month":1}`)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "60", rec.Header().Get("Retry-After"))

	// reads are never limited
	rec = api.do(t, http.MethodGet, "/api/v1/payroll/history/h1/export", token, "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRouter_SSETokenAndStream(t *testing.T) {
	api := newTestAPI(t, 10)

	rec := api.do(t, http.MethodPost, "/api/v1/notifications/sse-token", api.token(t, owner), "")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Data notification.SSETokenResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.NotEmpty(t, body.Data.Token)
	assert.Equal(t, 300, body.Data.ExpiresIn)

	srv := httptest.NewServer(api.router)
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/api/v1/notifications/stream")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	api.notification.events <- notification.SSEEvent{Event: "data_changed", Data: map[string]string{"entity": "payroll"}}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/api/v1/notifications/stream?token="+body.Data.Token, nil)
	require.NoError(t, err)
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	tc := <-api.notification.subTC
	assert.Equal(t, "corp-1", tc.CorporateID)
	assert.Equal(t, user.RoleCorporate, tc.Role)

	var lines []string
	scanner := bufio.NewScanner(resp.Body)
	for scanner.Scan() {
		if line := scanner.Text(); line != "" {
			lines = append(lines, line)
		}
		if len(lines) == 4 {
			break
		}
	}
	require.Len(t, lines, 4)
	assert.Equal(t, "event: connected", lines[0])
	assert.Equal(t, "event: data_changed", lines[2])
	assert.Equal(t, `data: {"entity":"payroll"}`, lines[3])
}
