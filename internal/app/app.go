package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"

	"golang.org/x/sync/errgroup"

	"github.com/heartmarshall/ledgerlens-backend/internal/adapter/postgres"
	"github.com/heartmarshall/ledgerlens-backend/internal/adapter/postgres/document"
	"github.com/heartmarshall/ledgerlens-backend/internal/adapter/postgres/notification"
	"github.com/heartmarshall/ledgerlens-backend/internal/adapter/postgres/ratesnapshot"
	"github.com/heartmarshall/ledgerlens-backend/internal/adapter/postgres/revision"
	supplierrepo "github.com/heartmarshall/ledgerlens-backend/internal/adapter/postgres/supplier"
	"github.com/heartmarshall/ledgerlens-backend/internal/adapter/provider/openrates"
	"github.com/heartmarshall/ledgerlens-backend/internal/adapter/redis"
	"github.com/heartmarshall/ledgerlens-backend/internal/auth"
	"github.com/heartmarshall/ledgerlens-backend/internal/config"
	"github.com/heartmarshall/ledgerlens-backend/internal/service/currency"
	documentsvc "github.com/heartmarshall/ledgerlens-backend/internal/service/document"
	"github.com/heartmarshall/ledgerlens-backend/internal/service/intake"
	notificationsvc "github.com/heartmarshall/ledgerlens-backend/internal/service/notification"
	"github.com/heartmarshall/ledgerlens-backend/internal/service/supplier"
	"github.com/heartmarshall/ledgerlens-backend/internal/transport/middleware"
	"github.com/heartmarshall/ledgerlens-backend/internal/transport/rest"
)

// Run is the application entry point. It loads configuration, connects to
// the database and blob store, wires every service and serves HTTP until ctx
// is cancelled.
func Run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := NewLogger(cfg.Log)

	logger.Info("starting application",
		slog.String("version", BuildVersion()),
		slog.String("log_level", cfg.Log.Level),
		slog.String("processor", cfg.Extraction.Processor),
		slog.String("storage", cfg.Storage.Driver),
	)

	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer pool.Close()

	blobs, closeBlobs, err := NewBlobStore(ctx, cfg.Storage, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := closeBlobs(); err != nil {
			logger.Warn("close blob store", slog.String("error", err.Error()))
		}
	}()

	// Repositories
	txm := postgres.NewTxManager(pool)
	documents := document.New(pool)
	revisions := revision.New(pool)
	suppliers := supplierrepo.New(pool)
	rates := ratesnapshot.New(pool)
	notifications := notification.New(pool)

	// Services
	currencySvc := currency.NewService(logger, rates,
		openrates.NewProviderWithURL(cfg.Currency.LiveURL, cfg.Currency.LiveTimeout, logger),
		currency.Config{
			Canonical:       cfg.Currency.Canonical,
			Pivot:           cfg.Currency.Pivot,
			FallbackRates:   cfg.Currency.FallbackRates,
			FallbackVersion: cfg.Currency.FallbackVersion,
			HistoryDays:     cfg.Currency.HistoryDays,
		})
	supplierSvc := supplier.NewService(logger, suppliers, supplier.Config{
		BlockThreshold: cfg.Supplier.BlockThreshold,
		WarnThreshold:  cfg.Supplier.WarnThreshold,
		MaxCandidates:  cfg.Supplier.MaxCandidates,
	})
	intakeSvc := intake.NewService(logger,
		newExtractor(cfg.Extraction.Processor, cfg.Extraction, logger),
		newExtractor(cfg.Extraction.Fallback, cfg.Extraction, logger),
		blobs, documents, supplierSvc, currencySvc, notifications,
		intake.Config{
			ExtractionTimeout: cfg.Extraction.Timeout,
			MaxUploadBytes:    cfg.Intake.MaxUploadBytes,
			Available:         AvailableProcessors,
		})
	documentSvc := documentsvc.NewService(logger, documents, revisions, suppliers, currencySvc, txm)
	notificationSvc := notificationsvc.NewService(logger, notifications)

	healthChecks := []rest.HealthCheck{{Name: "database", Critical: true, Ping: pool.Ping}}
	currencyHandler := rest.NewCurrencyHandler(currencySvc, logger)

	if cfg.Redis.Enabled() {
		locker, err := redis.NewLocker(ctx, cfg.Redis, logger)
		if err != nil {
			return fmt.Errorf("connect to redis: %w", err)
		}
		defer locker.Close()

		healthChecks = append(healthChecks, rest.HealthCheck{Name: "redis", Ping: locker.Ping})
		currencyHandler = rest.NewCurrencyHandler(lockedCurrency{Service: currencySvc, locker: locker}, logger)
	}

	// Transport
	jwtManager := auth.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.JWTIssuer, cfg.Auth.AccessTTL)
	limiter := middleware.NewRateLimiter(cfg.RateLimit.CleanupInterval)
	defer limiter.Stop()

	router := rest.NewRouter(rest.Handlers{
		Health:        rest.NewHealthHandler(Version, healthChecks...),
		Documents:     rest.NewDocumentHandler(intakeSvc, documentSvc, cfg.Intake.MaxUploadBytes, logger),
		Suppliers:     rest.NewSupplierHandler(supplierSvc, logger),
		Currency:      currencyHandler,
		Notifications: rest.NewNotificationHandler(notificationSvc, logger),
	}, middleware.Auth(jwtManager), limiter.Limit(cfg.RateLimit.UploadsPerMinute))

	handler := middleware.Chain(
		middleware.RequestID(),
		middleware.Logger(logger),
		middleware.Recovery(logger),
		middleware.CORS(cfg.CORS),
	)(router)

	srv := &http.Server{
		Addr:         net.JoinHostPort(cfg.Server.Host, strconv.Itoa(cfg.Server.Port)),
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("http server listening", slog.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), cfg.Server.ShutdownTimeout)
		defer cancel()
		logger.Info("shutting down http server")
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
