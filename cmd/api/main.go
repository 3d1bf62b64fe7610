package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/okboz/okboz-backend-go/internal/config"
	"github.com/okboz/okboz-backend-go/internal/domain/payroll"
	"github.com/okboz/okboz-backend-go/internal/domain/tenant"
	appHTTP "github.com/okboz/okboz-backend-go/internal/handler/http"
	"github.com/okboz/okboz-backend-go/internal/pkg/cron"
	"github.com/okboz/okboz-backend-go/internal/pkg/database"
	"github.com/okboz/okboz-backend-go/internal/pkg/jwt"
	"github.com/okboz/okboz-backend-go/internal/pkg/sse"
	"github.com/okboz/okboz-backend-go/internal/pkg/storage"
	"github.com/okboz/okboz-backend-go/internal/repository/postgresql"
	"github.com/okboz/okboz-backend-go/internal/repository/redis"
	advanceService "github.com/okboz/okboz-backend-go/internal/service/advance"
	driverPaymentService "github.com/okboz/okboz-backend-go/internal/service/driverpayment"
	notificationService "github.com/okboz/okboz-backend-go/internal/service/notification"
	payrollService "github.com/okboz/okboz-backend-go/internal/service/payroll"
	settlementService "github.com/okboz/okboz-backend-go/internal/service/settlement"
)

const rulesCacheTTL = 10 * time.Minute

func main() {
	if err := run(); err != nil {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("error loading config: %w", err)
	}
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel(cfg.App.LogLevel)})))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgreSQLDB(ctx, cfg.DatabaseURL(), database.PoolOptions{
		MaxConns: cfg.Database.MaxConns,
		MinConns: cfg.Database.MinConns,
	})
	if err != nil {
		return fmt.Errorf("error connecting to database: %w", err)
	}
	defer db.Close()

	rdb, err := redis.NewClient(ctx, redis.Options{
		Addr:     cfg.Redis.Addr,
		Username: cfg.Redis.Username,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		return fmt.Errorf("error connecting to redis: %w", err)
	}
	defer rdb.Close()

	archive, err := storage.New(ctx, storage.Options{
		Type:      cfg.Storage.Type,
		BasePath:  cfg.Storage.BasePath,
		Bucket:    cfg.Storage.Bucket,
		Region:    cfg.Storage.Region,
		Endpoint:  cfg.Storage.Endpoint,
		AccessKey: cfg.Storage.AccessKey,
		SecretKey: cfg.Storage.SecretKey,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize archive storage: %w", err)
	}

	// Repositories
	employeeRepo := postgresql.NewEmployeeRepository(db)
	attendanceRepo := postgresql.NewAttendanceRepository(db)
	advanceRepo := postgresql.NewAdvanceRepository(db)
	historyRepo := postgresql.NewPayrollHistoryRepository(db)
	driverPaymentRepo := postgresql.NewDriverPaymentRepository(db)
	driverRulesRepo := postgresql.NewDriverRulesRepository(db)
	settlementRepo := postgresql.NewSettlementRepository(db)
	partnerRepo := postgresql.NewPartnerRepository(db)
	ledgerRepo := postgresql.NewLedgerRepository(db)
	notificationRepo := postgresql.NewNotificationRepository(db)

	draftStore := redis.NewPayrollDraftStore(rdb)
	rulesCache := redis.NewRulesCache(rdb, rulesCacheTTL)
	changeFeed := redis.NewChangeFeed(rdb)

	// Services
	hub := sse.NewHub()
	notifSvc := notificationService.NewNotificationService(notificationRepo, hub, notificationService.Config{
		BatchSize:     cfg.Notification.BatchSize,
		FlushInterval: cfg.Notification.FlushInterval,
		WorkerCount:   cfg.Notification.WorkerCount,
		QueueSize:     cfg.Notification.QueueSize,
	})
	defer notifSvc.Stop()

	JWTService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)

	calc := payrollService.NewCalculator(payroll.SplitPolicy{
		BasicPercent:     cfg.Payroll.BasicPercent,
		HRAPercent:       cfg.Payroll.HRAPercent,
		AllowancePercent: cfg.Payroll.AllowancePercent,
	}, cfg.Payroll.CompensationFallback)

	payrollSvc := payrollService.NewPayrollService(
		employeeRepo,
		attendanceRepo,
		advanceRepo,
		historyRepo,
		draftStore,
		archive,
		notifSvc,
		changeFeed,
		calc,
		cfg.Payroll.DraftTTL,
	)
	advanceSvc := advanceService.NewAdvanceService(advanceRepo, employeeRepo, notifSvc, changeFeed)
	driverPaymentSvc := driverPaymentService.NewDriverPaymentService(driverRulesRepo, rulesCache, driverPaymentRepo, notifSvc, changeFeed)
	settlementSvc := settlementService.NewSettlementService(settlementRepo, partnerRepo, ledgerRepo, changeFeed)

	// Relay tenant changes from every instance to the local SSE streams
	relayDone := make(chan struct{})
	defer func() {
		stop()
		<-relayDone
	}()
	go func() {
		defer close(relayDone)
		err := changeFeed.Relay(ctx, func(ev tenant.ChangeEvent) {
			hub.Publish(ev.CorporateID, sse.Event{Event: notificationService.EventDataChanged, Data: ev})
		})
		if err != nil {
			slog.Error("change feed relay stopped", "error", err)
		}
	}()

	scheduler := cron.NewScheduler(ctx)
	cron.NewSettlementJobs(settlementRepo, settlementSvc, notifSvc).RegisterJobs(scheduler)
	scheduler.Start()
	defer scheduler.Stop()

	routerStop := make(chan struct{})
	defer close(routerStop)

	router := appHTTP.NewRouter(cfg, JWTService, appHTTP.Handlers{
		Payroll:       appHTTP.NewPayrollHandler(payrollSvc),
		Advance:       appHTTP.NewAdvanceHandler(advanceSvc),
		DriverPayment: appHTTP.NewDriverPaymentHandler(driverPaymentSvc),
		Settlement:    appHTTP.NewSettlementHandler(settlementSvc),
		Notification:  appHTTP.NewNotificationHandler(notifSvc, JWTService),
	}, routerStop)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		// Open SSE streams end when the process is asked to stop
		BaseContext: func(net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server running", "addr", server.Addr, "env", cfg.App.Env)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	slog.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

func logLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
