package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/Charldewet/pharmacy-api-webservice-sub001/api/routes"
	"github.com/Charldewet/pharmacy-api-webservice-sub001/internal/comms"
	"github.com/Charldewet/pharmacy-api-webservice-sub001/internal/debtors"
	"github.com/Charldewet/pharmacy-api-webservice-sub001/internal/ingest"
	"github.com/Charldewet/pharmacy-api-webservice-sub001/internal/pharmacies"
	"github.com/Charldewet/pharmacy-api-webservice-sub001/internal/reconcile"
	"github.com/Charldewet/pharmacy-api-webservice-sub001/internal/reports"
	"github.com/Charldewet/pharmacy-api-webservice-sub001/pkg/config"
	"github.com/Charldewet/pharmacy-api-webservice-sub001/pkg/db"
	"github.com/Charldewet/pharmacy-api-webservice-sub001/pkg/logger"
	"github.com/Charldewet/pharmacy-api-webservice-sub001/pkg/metrics"
	"github.com/Charldewet/pharmacy-api-webservice-sub001/pkg/migrate"
	"github.com/Charldewet/pharmacy-api-webservice-sub001/pkg/redis"
	"github.com/Charldewet/pharmacy-api-webservice-sub001/pkg/textextract"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	promRegistry := prometheus.NewRegistry()
	promRegistry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	ingestMetrics := metrics.NewIngestMetrics(promRegistry)

	pharmacyService, err := pharmacies.NewService(pharmacies.NewRepository(dbClient.DB()))
	if err != nil {
		logg.Error(context.Background(), "failed to create pharmacy service", err)
		os.Exit(1)
	}

	debtorService, err := debtors.NewService(debtors.NewRepository(dbClient.DB()))
	if err != nil {
		logg.Error(context.Background(), "failed to create debtor service", err)
		os.Exit(1)
	}

	reportService, err := reports.NewService(reports.NewRepository(dbClient.DB()))
	if err != nil {
		logg.Error(context.Background(), "failed to create report service", err)
		os.Exit(1)
	}

	locker, err := reconcile.NewLocker(redisClient, cfg.Reconcile)
	if err != nil {
		logg.Error(context.Background(), "failed to create reconcile locker", err)
		os.Exit(1)
	}

	reconcileService, err := reconcile.NewService(reconcile.ServiceParams{
		Repo:   reconcile.NewRepository(dbClient.DB()),
		Locker: locker,
		Logger: logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create reconcile service", err)
		os.Exit(1)
	}

	segmenter, err := ingest.NewSegmenter()
	if err != nil {
		logg.Error(context.Background(), "failed to create report segmenter", err)
		os.Exit(1)
	}

	ingestService, err := ingest.NewService(ingest.ServiceParams{
		Extractor:  textextract.NewCommandExtractor(cfg.Ingest.PdftotextPath, cfg.Ingest.ExtractTimeout),
		Segmenter:  segmenter,
		Reconciler: reconcileService,
		Metrics:    ingestMetrics,
		Logger:     logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create ingest service", err)
		os.Exit(1)
	}

	provider, err := comms.NewLogProvider(logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create delivery provider", err)
		os.Exit(1)
	}

	commService, err := comms.NewService(comms.ServiceParams{
		Repo:        comms.NewRepository(dbClient.DB()),
		Provider:    provider,
		Debtors:     debtorService,
		Credentials: pharmacyService,
		Logger:      logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create communication service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(
			cfg, logg, dbClient, redisClient, promRegistry,
			pharmacyService, ingestService, reportService, debtorService, commService,
		),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
