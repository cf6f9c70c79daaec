package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/planbridge/planbridge/pkg/billing"
	"github.com/planbridge/planbridge/pkg/config"
	"github.com/planbridge/planbridge/pkg/dedup"
	"github.com/planbridge/planbridge/pkg/httpserver"
	"github.com/planbridge/planbridge/pkg/logger"
	"github.com/planbridge/planbridge/pkg/pg"
	"github.com/planbridge/planbridge/pkg/plan"
	"github.com/planbridge/planbridge/pkg/reconcile"
	"github.com/planbridge/planbridge/pkg/redis"
	"github.com/planbridge/planbridge/pkg/subscriber"

	billingmod "github.com/planbridge/planbridge/modules/billing"
)

func main() {
	ctx := context.Background()

	var logCfg logger.Config
	config.MustLoad(&logCfg)
	log := logger.New(
		logger.WithConfig(logCfg),
		logger.WithContextValue("request_id", chimw.RequestIDKey),
	)
	logger.SetAsDefault(log)

	if err := run(ctx, log); err != nil {
		log.ErrorContext(ctx, "service exited", logger.Error(err))
		os.Exit(1)
	}
}

func run(ctx context.Context, log *slog.Logger) error {
	var (
		pgCfg      pg.Config
		redisCfg   redis.Config
		planCfg    plan.Config
		billingCfg billing.Config
		subCfg     subscriber.Config
		dedupCfg   dedup.Config
		moduleCfg  billingmod.Config
		httpCfg    httpserver.Config
	)
	config.MustLoad(&pgCfg)
	config.MustLoad(&redisCfg)
	config.MustLoad(&planCfg)
	config.MustLoad(&billingCfg)
	config.MustLoad(&subCfg)
	config.MustLoad(&dedupCfg)
	config.MustLoad(&moduleCfg)
	config.MustLoad(&httpCfg)

	pool, err := pg.Connect(ctx, pgCfg)
	if err != nil {
		return err
	}
	defer pool.Close()

	if err := pg.Migrate(ctx, pool, pgCfg, log); err != nil {
		return err
	}

	mapping, err := plan.NewMappingFromConfig(planCfg)
	if err != nil {
		return err
	}

	processor, err := billing.NewStripeClient(billingCfg)
	if err != nil {
		return err
	}
	verifier, err := billing.NewSignatureVerifier(billingCfg)
	if err != nil {
		return err
	}

	// The dedup guard is best-effort: an unreachable Redis degrades to
	// reprocessing retries, which the pipeline tolerates.
	var guard *dedup.Guard
	readiness := []func(context.Context) error{pg.Healthcheck(pool)}
	if rdb, err := redis.Connect(ctx, redisCfg); err != nil {
		log.WarnContext(ctx, "redis unavailable, dedup guard disabled", logger.Error(err))
	} else {
		defer func() { _ = rdb.Close() }()
		guard = dedup.NewGuard(rdb, dedupCfg)
		readiness = append(readiness, redis.Healthcheck(rdb))
	}

	svc := billingmod.NewService(
		moduleCfg,
		verifier,
		reconcile.NewEngine(processor, mapping, log),
		subscriber.NewWriter(subscriber.NewPGStore(pool, subCfg), subCfg.CreateIfMissing),
		guard,
		processor,
		mapping,
		log,
	)

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)

	r.Get("/health/live", httpserver.HealthCheckHandler(ctx, log))
	r.Get("/health/ready", httpserver.HealthCheckHandler(ctx, log, readiness...))
	r.Mount("/billing", svc.Handle())

	srv := httpserver.NewFromConfig(httpCfg, httpserver.WithLogger(log))
	return srv.Run(ctx, r)
}
