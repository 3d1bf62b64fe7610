package http

import (
	"log/slog"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
	"github.com/okboz/okboz-backend-go/internal/config"
	"github.com/okboz/okboz-backend-go/internal/domain/user"
	"github.com/okboz/okboz-backend-go/internal/handler/http/middleware"
	"github.com/okboz/okboz-backend-go/internal/pkg/jwt"
	"golang.org/x/time/rate"
)

// Handlers groups the HTTP handlers mounted under /api/v1.
type Handlers struct {
	Payroll       PayrollHandler
	Advance       AdvanceHandler
	DriverPayment DriverPaymentHandler
	Settlement    SettlementHandler
	Notification  NotificationHandler
}

// NewRouter builds the API router. Closing stop ends the rate limiter's
// background sweeper.
func NewRouter(cfg *config.Config, JWTService jwt.Service, h Handlers, stop <-chan struct{}) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(cfg.App.Env != "development")
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "okboz-payroll"),
		slog.String("version", "v1.0.0"),
		slog.String("env", cfg.App.Env),
	)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.App.AllowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link", "Content-Disposition"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelInfo,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.AllowContentEncoding("application/json"))
	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	limit := middleware.RateLimit(rate.Limit(cfg.RateLimit.RequestsPerSecond), cfg.RateLimit.Burst, stop)

	r.Route("/api/v1", func(r chi.Router) {
		// EventSource cannot send headers, so the stream authenticates with
		// a short-lived token in the query string.
		r.Get("/notifications/stream", h.Notification.Stream)

		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
			r.Use(middleware.AuthRequired)
			r.Use(limit)

			r.Route("/payroll", func(r chi.Router) {
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequirePermission(user.PermissionPayrollView))
					r.Get("/drafts/{period}", h.Payroll.GetDraft)
					r.Get("/history", h.Payroll.ListHistory)
					r.Get("/history/{id}", h.Payroll.GetHistory)
					r.Get("/history/{id}/export", h.Payroll.ExportHistory)
					r.Get("/employees/{employeeId}/structure", h.Payroll.GetSalaryStructure)
				})

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequirePermission(user.PermissionPayrollManage))
					r.Post("/drafts/recompute", h.Payroll.Recompute)
					r.Patch("/drafts/{period}/entries/{employeeId}", h.Payroll.UpdateEntry)
					r.Delete("/drafts/{period}", h.Payroll.DiscardDraft)
					r.Post("/history", h.Payroll.SaveBatch)
					r.Delete("/history/{id}", h.Payroll.DeleteHistory)
				})
			})

			r.Route("/advances", func(r chi.Router) {
				r.With(middleware.RequirePermission(user.PermissionAdvanceCreate)).Post("/", h.Advance.Create)
				r.With(middleware.RequirePermission(user.PermissionAdvanceViewOwn)).Get("/my", h.Advance.ListMine)
				r.With(middleware.RequirePermission(user.PermissionAdvanceViewOwn)).Get("/{id}", h.Advance.Get)

				r.With(middleware.RequirePermission(user.PermissionAdvanceViewAll)).Get("/", h.Advance.List)

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequirePermission(user.PermissionAdvanceApprove))
					r.Post("/{id}/approve", h.Advance.Approve)
					r.Post("/{id}/reject", h.Advance.Reject)
				})
			})

			r.Route("/driver-payments", func(r chi.Router) {
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequirePermission(user.PermissionDriverPaymentView))
					r.Get("/rules", h.DriverPayment.GetRules)
					r.Post("/preview", h.DriverPayment.Preview)
					r.Get("/", h.DriverPayment.List)
					r.Get("/{id}", h.DriverPayment.Get)
				})

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequirePermission(user.PermissionDriverPaymentManage))
					r.Put("/rules", h.DriverPayment.UpdateRules)
					r.Post("/", h.DriverPayment.Create)
					r.Patch("/{id}/status", h.DriverPayment.UpdateStatus)
				})
			})

			r.Route("/settlements", func(r chi.Router) {
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequirePermission(user.PermissionSettlementView))
					r.Get("/partners", h.Settlement.ListPartners)
					r.Get("/{month}", h.Settlement.GetMonthSummary)
					r.Get("/{month}/partners/{partner}/outstanding", h.Settlement.GetPreviousOutstanding)
				})

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequirePermission(user.PermissionSettlementManage))
					r.Post("/{month}/partners/{partner}/payments", h.Settlement.RecordPayment)
					r.Delete("/{month}/partners/{partner}/payments/{transactionId}", h.Settlement.DeleteTransaction)
				})
			})

			r.Route("/notifications", func(r chi.Router) {
				r.Use(middleware.RequirePermission(user.PermissionNotificationView))
				r.Get("/", h.Notification.List)
				r.Get("/unread-count", h.Notification.UnreadCount)
				r.Post("/read", h.Notification.MarkAsRead)
				r.Post("/read-all", h.Notification.MarkAllAsRead)
				r.Post("/sse-token", h.Notification.GetSSEToken)
			})
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "Not Found", http.StatusNotFound)
	})
	return r
}
