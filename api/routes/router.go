package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/adforge/adforge-backend/api/controllers"
	"github.com/adforge/adforge-backend/api/middleware"
	"github.com/adforge/adforge-backend/internal/approvals"
	"github.com/adforge/adforge-backend/internal/assets"
	"github.com/adforge/adforge-backend/internal/briefs"
	"github.com/adforge/adforge-backend/internal/creatives"
	"github.com/adforge/adforge-backend/internal/ideas"
	"github.com/adforge/adforge-backend/internal/settings"
	"github.com/adforge/adforge-backend/pkg/config"
	"github.com/adforge/adforge-backend/pkg/db"
	"github.com/adforge/adforge-backend/pkg/logger"
	"github.com/adforge/adforge-backend/pkg/redis"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisClient *redis.Client,
	briefService briefs.Service,
	briefExecutor *briefs.Executor,
	ideaService ideas.Service,
	creativeService creatives.Service,
	approvalService approvals.Service,
	assetService assets.Service,
	settingsService settings.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, dbP, redisClient, logg))
	})

	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/briefs", func(r chi.Router) {
			r.Get("/", controllers.BriefList(briefService, logg))
			r.Post("/", controllers.BriefCreate(briefService, cfg.Uploads.MaxUploadMB, logg))
			r.Get("/{briefId}", controllers.BriefGet(briefService, logg))
			r.Delete("/{briefId}", controllers.BriefDelete(briefService, logg))
			r.Post("/{briefId}/execute", controllers.BriefExecute(briefExecutor, logg))
			r.Get("/{briefId}/ideas", controllers.BriefIdeas(briefService, ideaService, logg))
		})

		r.Route("/ideas", func(r chi.Router) {
			r.Get("/{ideaId}", controllers.IdeaGet(ideaService, logg))
			r.Post("/{ideaId}/regenerate", controllers.IdeaRegenerate(ideaService, logg))
			r.Post("/{ideaId}/duplicate", controllers.IdeaDuplicate(ideaService, logg))
			r.Post("/{ideaId}/generate-creative", controllers.IdeaGenerateCreatives(creativeService, logg))
			r.Delete("/{ideaId}", controllers.IdeaDelete(ideaService, logg))
		})

		r.Route("/creatives", func(r chi.Router) {
			r.Get("/", controllers.CreativeList(creativeService, logg))
			r.Delete("/by-idea/{ideaId}", controllers.CreativeDeleteByIdea(creativeService, logg))
			r.Get("/{creativeId}", controllers.CreativeGet(creativeService, logg))
			r.Get("/{creativeId}/file", controllers.CreativeFile(creativeService, logg))
			r.Post("/{creativeId}/regenerate", controllers.CreativeRegenerate(creativeService, logg))
			r.Delete("/{creativeId}", controllers.CreativeDelete(creativeService, logg))
			r.Post("/{creativeId}/approve-creative", controllers.ApprovalApproveCreative(approvalService, logg))
			r.Post("/{creativeId}/approve-regional", controllers.ApprovalApproveRegional(approvalService, logg))
			r.Post("/{creativeId}/deploy", controllers.ApprovalDeploy(approvalService, logg))
		})

		r.Route("/assets", func(r chi.Router) {
			r.Get("/", controllers.AssetList(assetService, logg))
			r.Post("/", controllers.AssetUpload(assetService, cfg.Uploads.MaxUploadMB, logg))
			r.Get("/{assetId}", controllers.AssetGet(assetService, logg))
			r.Get("/{assetId}/file", controllers.AssetFile(assetService, logg))
			r.Delete("/{assetId}", controllers.AssetDelete(assetService, logg))
		})

		r.Route("/settings", func(r chi.Router) {
			r.Get("/", controllers.SettingsGet(settingsService, logg))
			r.Post("/", controllers.SettingsUpdate(settingsService, logg))
			r.Delete("/{key}", controllers.SettingsDelete(settingsService, logg))
		})
	})

	return r
}
