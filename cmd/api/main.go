package main

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

	_ "github.com/LucianBellevue/ba-website/docs"
	"github.com/LucianBellevue/ba-website/internal/core"
	transporthttp "github.com/LucianBellevue/ba-website/internal/http"
	"github.com/LucianBellevue/ba-website/internal/http/handlers"
	"github.com/LucianBellevue/ba-website/internal/http/health"
	"github.com/LucianBellevue/ba-website/internal/jobs"
	"github.com/LucianBellevue/ba-website/internal/middleware"
	"github.com/LucianBellevue/ba-website/internal/notify"
	"github.com/LucianBellevue/ba-website/internal/platform/config"
	"github.com/LucianBellevue/ba-website/internal/platform/logging"
	"github.com/LucianBellevue/ba-website/internal/rates"
	"github.com/LucianBellevue/ba-website/internal/store/dynamo"
	"github.com/LucianBellevue/ba-website/internal/store/memory"
	"github.com/LucianBellevue/ba-website/internal/store/mongo"
)

const (
	shutdownTimeout   = 15 * time.Second
	ratesPollInterval = time.Minute
)

// leadStore is a lead repository that can also report readiness.
type leadStore interface {
	core.LeadRepo
	health.Pinger
}

func main() {
	cfg := config.MustLoad()
	log := logging.NewWithLevel(os.Stdout, cfg.Env, cfg.LogLevel)

	if err := run(cfg, log); err != nil {
		log.Error("api stopped", "err", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info("starting api", "env", cfg.Env, "port", cfg.Port, "db", cfg.DBType)

	// 1) Rate tables
	registry, err := loadRates(cfg.RatesFile)
	if err != nil {
		return err
	}
	log.Info("rates loaded", "version", registry.Current().Version, "file", cfg.RatesFile)

	// 2) Lead store
	store, closeStore, err := openStore(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer closeStore()

	// 3) Collaborators and services
	estimator := core.NewEstimator(registry)
	httpClient := &http.Client{Timeout: 30 * time.Second}

	var notifier core.Notifier = notify.NewLogNotifier(log)
	if cfg.EmailEnabled() {
		notifier = notify.NewEmailSender(notify.EmailConfig{
			URL:    cfg.EmailAPIURL,
			APIKey: cfg.EmailAPIKey,
			From:   cfg.EmailFrom,
			To:     cfg.EmailTo,
		}, httpClient, log)
	}
	var crm core.CRMClient
	if cfg.CRMEnabled() {
		crm = notify.NewCRM(cfg.CRMAPIURL, cfg.CRMAPIKey, httpClient)
	}

	leads := core.NewLeadService(store, estimator, notifier, crm, core.LeadServiceOptions{
		NotifyTimeout:  cfg.NotifyTimeout(),
		MaxCRMAttempts: cfg.CRMMaxAttempts,
	}, log)

	// 4) Background workers
	workers := []jobs.Worker{jobs.NewCRMSyncWorker(leads, cfg.WorkerInterval(), log)}
	if cfg.RatesFile != "" {
		workers = append(workers, jobs.NewRatesReloadWorker(registry, cfg.RatesFile, ratesPollInterval, log))
	}
	waitWorkers := jobs.Run(ctx, workers...)

	apiLimiter := middleware.PerMinute(cfg.RateLimitRPM)
	leadLimiter := middleware.PerMinute(cfg.LeadRateLimitRPM)
	go apiLimiter.Run(ctx)
	go leadLimiter.Run(ctx)

	// 5) HTTP
	leadHandler := handlers.NewLeadHandler(leads, log)
	leadHandler.Throttle = leadLimiter.Middleware

	router := transporthttp.NewRouter(transporthttp.Deps{
		Log:    log,
		Health: health.New(log, store, cfg.MongoOpTimeout()+time.Second, estimator.RatesVersion),
		Public: []handlers.Mountable{
			leadHandler,
			handlers.NewEstimateHandler(estimator, log),
			handlers.NewProductHandler(estimator, log),
		},
		Admin:          []handlers.Mountable{handlers.NewAdminHandler(leads, registry, cfg.RatesFile, log)},
		APIKey:         cfg.APIKey,
		AllowedOrigins: cfg.AllowedOrigins,
		RateLimiter:    apiLimiter,
		RequestTimeout: time.Duration(cfg.HTTPRequestTimeoutSec) * time.Second,
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.HTTPReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTPWriteTimeoutSec) * time.Second,
		IdleTimeout:  time.Duration(cfg.HTTPIdleTimeoutSec) * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		log.Info("shutting down")
	case err := <-errCh:
		stop()
		waitWorkers()
		return fmt.Errorf("http server: %w", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", "err", err)
	}
	waitWorkers()
	log.Info("stopped")
	return nil
}

func loadRates(path string) (*rates.Registry, error) {
	if path == "" {
		return rates.NewRegistry(rates.Default()), nil
	}
	set, err := rates.LoadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load rates: %w", err)
	}
	return rates.NewRegistry(set), nil
}

func openStore(ctx context.Context, cfg *config.Config, log *slog.Logger) (leadStore, func(), error) {
	switch cfg.DBType {
	case config.DBMongo:
		client, err := mongo.NewClient(ctx, cfg, log)
		if err != nil {
			return nil, nil, fmt.Errorf("connect mongo: %w", err)
		}
		closeFn := func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := client.Close(ctx); err != nil {
				log.Warn("mongo close failed", "err", err)
			}
		}
		if err := mongo.EnsureIndexes(ctx, client.DB); err != nil {
			closeFn()
			return nil, nil, fmt.Errorf("mongo indexes: %w", err)
		}
		return pingingRepo{mongo.NewLeadRepo(client.DB, cfg.MongoOpTimeout()), client}, closeFn, nil

	case config.DBDynamo:
		client, err := dynamo.NewClient(ctx, dynamo.Config{
			Region:          cfg.AWSRegion,
			Endpoint:        cfg.DynamoDBEndpoint,
			AccessKeyID:     cfg.AWSAccessKeyID,
			SecretAccessKey: cfg.AWSSecretAccessKey,
		}, log)
		if err != nil {
			return nil, nil, fmt.Errorf("connect dynamodb: %w", err)
		}
		if err := dynamo.EnsureTables(ctx, client.DB, cfg.DynamoLeadsTable, log); err != nil {
			return nil, nil, fmt.Errorf("dynamodb tables: %w", err)
		}
		return pingingRepo{dynamo.NewLeadRepo(client.DB, cfg.DynamoLeadsTable), client}, func() {}, nil

	default:
		log.Warn("using in-memory lead store; leads are lost on restart")
		return memory.NewLeadRepo(), func() {}, nil
	}
}

// pingingRepo pairs a repository with the client that can ping its database.
type pingingRepo struct {
	core.LeadRepo
	health.Pinger
}
