package cmd

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

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humaecho"
	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/donaldgifford/relister/internal/api/handlers"
	"github.com/donaldgifford/relister/internal/api/middleware"
	"github.com/donaldgifford/relister/internal/config"
	"github.com/donaldgifford/relister/internal/grouping"
	"github.com/donaldgifford/relister/internal/images"
	"github.com/donaldgifford/relister/internal/pipeline"
	"github.com/donaldgifford/relister/internal/seo"
	"github.com/donaldgifford/relister/internal/store"
	"github.com/donaldgifford/relister/internal/vision"
	"github.com/donaldgifford/relister/pkg/logger"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the API server and the stuck-item sweeper",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(_ *cobra.Command, _ []string) error {
	_ = godotenv.Load()

	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	log := logger.New(cfg.Logging.Level, cfg.Logging.Format)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	st, err := store.NewPostgresStore(ctx, cfg.Database.DSN())
	cancel()
	if err != nil {
		return fmt.Errorf("connecting to database: %w", err)
	}
	defer st.Close()

	backend, err := visionBackend(cfg)
	if err != nil {
		return err
	}

	limiter := vision.NewRateLimiter(
		cfg.Vision.RateLimit.PerSecond,
		cfg.Vision.RateLimit.Burst,
		cfg.Vision.RateLimit.DailyLimit,
	)

	srcCtx, srcCancel := context.WithTimeout(context.Background(), 10*time.Second)
	source, err := images.NewS3Source(srcCtx, cfg.Images.S3.Bucket, cfg.Images.S3.Region)
	srcCancel()
	if err != nil {
		return fmt.Errorf("creating image source: %w", err)
	}

	analyzer := vision.NewExtractor(backend, source, vision.WithRateLimiter(limiter))

	var enricher seo.Enricher = seo.NewNoOpEnricher(logger.Component(log, "seo"))
	if cfg.SEO.Enabled {
		enricher = seo.NewModelEnricher(backend)
	}

	resolver := grouping.NewResolver(st, logger.Component(log, "grouping"))
	generator := pipeline.NewGenerator(st, analyzer,
		pipeline.WithGeneratorLogger(logger.Component(log, "pipeline")),
		pipeline.WithVisionTimeout(cfg.Vision.Timeout),
		pipeline.WithEnricher(enricher),
	)
	orchestrator := pipeline.NewOrchestrator(resolver, generator,
		pipeline.WithOrchestratorLogger(logger.Component(log, "pipeline")),
		pipeline.WithItemDelay(cfg.Pipeline.ItemDelay),
	)

	sweeper := pipeline.NewSweeper(st,
		pipeline.WithSweeperLogger(logger.Component(log, "sweep")),
		pipeline.WithStuckThreshold(cfg.Pipeline.StuckThreshold),
	)
	scheduler, err := pipeline.NewScheduler(sweeper, cfg.Pipeline.SweepInterval, logger.Component(log, "sweep"))
	if err != nil {
		return fmt.Errorf("creating scheduler: %w", err)
	}
	scheduler.Start()

	e := newServer(cfg, log, st, resolver, orchestrator, limiter)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	log.Info("starting server", "addr", addr, "vision_backend", backend.Name())

	go func() {
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "err", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server")

	<-scheduler.Stop().Done()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down server: %w", err)
	}

	log.Info("server stopped")
	return nil
}

// newServer assembles the Echo instance: middleware, operational
// endpoints, and the Huma-registered API routes.
func newServer(
	cfg *config.Config,
	log *slog.Logger,
	st store.Store,
	resolver *grouping.Resolver,
	orchestrator *pipeline.Orchestrator,
	limiter *vision.RateLimiter,
) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Server.ReadTimeout = cfg.Server.ReadTimeout
	e.Server.WriteTimeout = cfg.Server.WriteTimeout

	apiLog := logger.Component(log, "api")
	e.Use(middleware.RequestLog(apiLog))
	e.Use(middleware.Recovery(apiLog))
	e.Use(middleware.Metrics())

	healthHandler := handlers.NewHealthHandler(st)
	e.GET("/healthz", healthHandler.Healthz)
	e.GET("/readyz", healthHandler.Readyz)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	api := humaecho.New(e, huma.DefaultConfig("Relister API", Version))

	handlers.RegisterPhotoRoutes(api, handlers.NewPhotosHandler(st))
	handlers.RegisterGroupRoutes(api, handlers.NewGroupsHandler(resolver))
	handlers.RegisterItemRoutes(api, handlers.NewItemsHandler(st))
	handlers.RegisterGenerateRoutes(api, handlers.NewGenerateHandler(orchestrator))
	handlers.RegisterQuotaRoutes(api, handlers.NewQuotaHandler(limiter))

	return e
}

// visionBackend builds the configured vision backend. API keys come from
// the environment (ANTHROPIC_API_KEY, GEMINI_API_KEY).
func visionBackend(cfg *config.Config) (vision.Backend, error) {
	switch cfg.Vision.Backend {
	case "anthropic":
		return vision.NewAnthropicBackend(
			vision.WithAnthropicModel(cfg.Vision.Anthropic.Model),
		), nil
	case "gemini":
		return vision.NewGeminiBackend(
			vision.WithGeminiModel(cfg.Vision.Gemini.Model),
		), nil
	default:
		return nil, fmt.Errorf("unknown vision backend %q", cfg.Vision.Backend)
	}
}
