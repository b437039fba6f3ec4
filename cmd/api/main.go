package main

import (
	"context"
	"net/http"
	"os"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"github.com/adforge/adforge-backend/api/routes"
	"github.com/adforge/adforge-backend/internal/approvals"
	"github.com/adforge/adforge-backend/internal/assets"
	"github.com/adforge/adforge-backend/internal/briefs"
	"github.com/adforge/adforge-backend/internal/creatives"
	"github.com/adforge/adforge-backend/internal/generation"
	"github.com/adforge/adforge-backend/internal/ideas"
	"github.com/adforge/adforge-backend/internal/settings"
	"github.com/adforge/adforge-backend/pkg/config"
	"github.com/adforge/adforge-backend/pkg/db"
	"github.com/adforge/adforge-backend/pkg/db/models"
	"github.com/adforge/adforge-backend/pkg/logger"
	"github.com/adforge/adforge-backend/pkg/metrics"
	"github.com/adforge/adforge-backend/pkg/migrate"
	"github.com/adforge/adforge-backend/pkg/redis"
	"github.com/adforge/adforge-backend/pkg/storage/local"
	"github.com/prometheus/client_golang/prometheus"
)

// ideaLookup and briefLookup let the creative and idea services read lineage
// rows straight from the repositories, which breaks the construction cycle
// between the brief, idea, and creative services.
type ideaLookup struct{ repo *ideas.Repository }

func (l ideaLookup) Get(ctx context.Context, id uuid.UUID) (*models.Idea, error) {
	return l.repo.FindByID(ctx, id)
}

type briefLookup struct{ repo *briefs.Repository }

func (l briefLookup) Get(ctx context.Context, id uuid.UUID) (*models.Brief, error) {
	return l.repo.FindByID(ctx, id)
}

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

	dbClient, err := db.New(context.Background(), cfg.DB, cfg.FeatureFlags.UseSQLite, logg)
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

	redisClient, err := redis.New(context.Background(), cfg.Redis)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	store, err := local.New(cfg.Storage.RootDir)
	if err != nil {
		logg.Error(context.Background(), "failed to prepare artifact storage", err)
		os.Exit(1)
	}

	briefRepo := briefs.NewRepository(dbClient)
	ideaRepo := ideas.NewRepository(dbClient)
	creativeRepo := creatives.NewRepository(dbClient)

	settingsService, err := settings.NewService(settings.NewRepository(dbClient.DB()))
	if err != nil {
		logg.Error(context.Background(), "failed to create settings service", err)
		os.Exit(1)
	}

	generationService, err := generation.NewService(
		settingsService,
		store,
		cfg.Generation,
		metrics.NewGenerationMetrics(prometheus.DefaultRegisterer),
		logg,
	)
	if err != nil {
		logg.Error(context.Background(), "failed to create generation service", err)
		os.Exit(1)
	}

	assetService, err := assets.NewService(assets.NewRepository(dbClient.DB()), store, cfg.Uploads.MaxUploadMB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create asset service", err)
		os.Exit(1)
	}

	approvalService, err := approvals.NewService(approvals.NewRepository(dbClient.DB()), cfg.Approval.HomeRegion)
	if err != nil {
		logg.Error(context.Background(), "failed to create approval service", err)
		os.Exit(1)
	}

	creativeService, err := creatives.NewService(
		creativeRepo,
		ideaLookup{repo: ideaRepo},
		briefLookup{repo: briefRepo},
		assetService,
		generationService,
		store,
		logg,
	)
	if err != nil {
		logg.Error(context.Background(), "failed to create creative service", err)
		os.Exit(1)
	}

	ideaService, err := ideas.NewService(ideaRepo, briefLookup{repo: briefRepo}, generationService, creativeService)
	if err != nil {
		logg.Error(context.Background(), "failed to create idea service", err)
		os.Exit(1)
	}

	briefService, err := briefs.NewService(
		briefRepo,
		store,
		assetService,
		generationService,
		ideaService,
		creativeService,
		logg,
	)
	if err != nil {
		logg.Error(context.Background(), "failed to create brief service", err)
		os.Exit(1)
	}

	newLock, err := briefs.NewRedisLockFactory(redisClient, redisClient.LockKey("generation-queue"), 0)
	if err != nil {
		logg.Error(context.Background(), "failed to configure execution lock", err)
		os.Exit(1)
	}

	briefExecutor, err := briefs.NewExecutor(briefService, creativeService, ideaService, generationService, newLock, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create brief executor", err)
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
			cfg,
			logg,
			dbClient,
			redisClient,
			briefService,
			briefExecutor,
			ideaService,
			creativeService,
			approvalService,
			assetService,
			settingsService,
		),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
