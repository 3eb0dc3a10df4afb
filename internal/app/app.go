package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"hospital-dashboard/internal/apiclient"
	"hospital-dashboard/internal/authz"
	"hospital-dashboard/internal/config"
	"hospital-dashboard/internal/event"
	"hospital-dashboard/internal/handler"
	"hospital-dashboard/internal/metrics"
	"hospital-dashboard/internal/middleware"
	"hospital-dashboard/internal/model"
	"hospital-dashboard/internal/repository"
	"hospital-dashboard/internal/router"
	"hospital-dashboard/internal/service"
	"hospital-dashboard/internal/session"
	"hospital-dashboard/internal/storage"
)

type App struct {
	server       *http.Server
	session      *session.Session
	cleanupFuncs []func()
}

func New() (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	store, err := storage.NewFileStore(cfg.CredentialFile, cfg.CredentialKey)
	if err != nil {
		return nil, fmt.Errorf("failed to open credential store: %w", err)
	}

	return Build(cfg, store, nil)
}

// Build wires the dashboard around store. httpClient, when set, replaces the
// client used for hospital API calls.
func Build(cfg *config.Config, store storage.CredentialStore, httpClient *http.Client) (*App, error) {
	m := metrics.New()
	bus := event.NewBus()

	activity, unsubscribe := bus.Subscribe()
	go event.LogActivity(activity)

	sess := session.New(store,
		session.WithExpiryEnforcement(cfg.SessionEnforceExpiry),
		session.WithLoginHook(func(claim model.Claim) {
			m.Login()
			bus.Publish(event.New(event.TypeSessionStarted, claim.Subject, map[string]string{"role": claim.Role.String()}))
		}),
		session.WithTeardownHook(func(reason session.TeardownReason, claim model.Claim) {
			m.Teardown(string(reason))
			bus.Publish(event.New(event.TypeSessionEnded, claim.Subject, map[string]string{"reason": string(reason)}))
		}),
	)
	if sess.Restore() {
		slog.Info("resumed stored session")
	}

	clientOpts := []apiclient.Option{apiclient.WithMetrics(m)}
	if httpClient != nil {
		clientOpts = append(clientOpts, apiclient.WithHTTPClient(httpClient))
	}
	client, err := apiclient.New(apiclient.Config{
		BaseURL:         cfg.APIBaseURL,
		Timeout:         cfg.APITimeout,
		RateLimitRPS:    cfg.APIRateLimitRPS,
		RateLimitBurst:  cfg.APIRateLimitBurst,
		BreakerFailures: uint32(cfg.APIBreakerFailures),
		BreakerTimeout:  cfg.APIBreakerTimeout,
	}, sess, clientOpts...)
	if err != nil {
		unsubscribe()
		return nil, fmt.Errorf("failed to initialize hospital API client: %w", err)
	}

	gate := authz.Default()

	tokenRepo := repository.NewTokenRepository(client)
	patientRepo := repository.NewPatientRepository(client)
	staffRepo := repository.NewStaffRepository(client)
	appointmentRepo := repository.NewAppointmentRepository(client)
	bedRepo := repository.NewBedRepository(client)
	pharmacyRepo := repository.NewPharmacyRepository(client)
	invoiceRepo := repository.NewInvoiceRepository(client)

	authService := service.NewAuthService(tokenRepo, sess, gate)
	recordsService := service.NewRecordsService(patientRepo, staffRepo, appointmentRepo)
	bedService := service.NewBedService(bedRepo, patientRepo, bus, sess, m)
	pharmacyService := service.NewPharmacyService(pharmacyRepo, bus, sess, m)
	billingService := service.NewBillingService(invoiceRepo, bus, sess)

	appRouter := router.New(cfg, middleware.NewSessionGuard(sess, gate), router.Handlers{
		Session:    handler.NewSessionHandler(authService),
		Navigation: handler.NewNavigationHandler(sess, gate),
		Records:    handler.NewRecordsHandler(recordsService),
		Beds:       handler.NewBedHandler(bedService),
		Billing:    handler.NewBillingHandler(billingService),
		Pharmacy:   handler.NewPharmacyHandler(pharmacyService),
	}, m)

	server := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           appRouter,
		ReadHeaderTimeout: cfg.ServerReadHeaderTimeout,
		WriteTimeout:      cfg.ServerWriteTimeout,
		IdleTimeout:       cfg.ServerIdleTimeout,
	}

	return &App{
		server:       server,
		session:      sess,
		cleanupFuncs: []func(){unsubscribe},
	}, nil
}

func (a *App) Handler() http.Handler {
	return a.server.Handler
}

func (a *App) Session() *session.Session {
	return a.session
}

func (a *App) Close() {
	for _, cleanup := range a.cleanupFuncs {
		cleanup()
	}
	a.cleanupFuncs = nil
}

func (a *App) Run() error {
	go func() {
		slog.Info("server starting", "addr", a.server.Addr)
		if serveErr := a.server.ListenAndServe(); serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
			slog.Error("server failed", "error", serveErr)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := a.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}

	a.Close()

	slog.Info("server stopped")
	return nil
}
