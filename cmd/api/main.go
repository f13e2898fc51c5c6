package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/swagger"
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"hrdocs/docs"
	"hrdocs/internal/config"
	"hrdocs/internal/database"
	"hrdocs/internal/database/migration"
	"hrdocs/internal/events"
	handlers "hrdocs/internal/http/handler"
	"hrdocs/internal/http/middleware"
	"hrdocs/internal/logger"
	"hrdocs/internal/metrics"
	"hrdocs/internal/otel"
	"hrdocs/internal/repository/postgres"
	"hrdocs/internal/service"
	"hrdocs/internal/storage"
)

const shutdownTimeout = 10 * time.Second

// @title HR Documents API
// @version 1.0
// @BasePath /
func main() {
	cfg := config.Load()
	loc := logger.Location(cfg.Timezone)
	log := logger.New("hrdocs", cfg.LogLevel, loc)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, loc, log); err != nil {
		log.Error("server_exit", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.AppConfig, loc *time.Location, log *slog.Logger) error {
	shutdownTracing, err := otel.Init(ctx, log)
	if err != nil {
		return err
	}

	db, err := database.NewPostgres(cfg.Database, log)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := migration.EnsureMigrated(ctx, db, log, cfg.Database.Host); err != nil {
		return err
	}

	// Archive is optional; nil disables it.
	archive, err := storage.NewMinIO(ctx, cfg.MinIO, log)
	if err != nil {
		return err
	}

	var publisher events.Publisher = events.Noop{}
	if cfg.NATS.URL != "" {
		np, err := events.NewNATS(cfg.NATS.URL, cfg.NATS.Subject, log)
		if err != nil {
			return err
		}
		publisher = np
	}
	defer publisher.Close()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	docMetrics, err := metrics.NewDocumentMetrics(reg)
	if err != nil {
		return err
	}
	promMW, err := middleware.NewPrometheusMiddleware(reg)
	if err != nil {
		return err
	}

	docSvc := service.NewDocumentService(service.Deps{
		Repo:    postgres.NewEntityPostgres(db),
		Store:   archive,
		Events:  publisher,
		Metrics: docMetrics,
		Log:     log,
	}, service.ConfigFrom(cfg.Documents))

	app := fiber.New(fiber.Config{
		ErrorHandler: handlers.ErrorHandler(),
		BodyLimit:    int(maxUpload(cfg.Documents)) + 1<<20,
	})

	app.Use(otelfiber.Middleware())
	app.Use(middleware.RequestID())
	app.Use(middleware.Logger(loc))
	app.Use(promMW.Handler())

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))

	handlers.RegisterRoutes(app, db, docSvc)

	// Swagger UI with dynamic host and scheme
	app.Get("/swagger/*", func(c *fiber.Ctx) error {
		scheme := c.Protocol()
		if proto := c.Get("X-Forwarded-Proto"); proto != "" {
			scheme = strings.Split(proto, ",")[0]
		}

		docs.SwaggerInfo.Host = c.Get("Host")
		docs.SwaggerInfo.Schemes = []string{scheme}

		return swagger.HandlerDefault(c)
	})

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		addr := ":" + cfg.Port
		log.Info("server_start", "addr", addr)
		return app.Listen(addr)
	})
	g.Go(func() error {
		<-gctx.Done()
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		log.Info("server_shutdown")
		err := app.ShutdownWithContext(sctx)
		if terr := shutdownTracing(sctx); terr != nil {
			err = errors.Join(err, terr)
		}
		return err
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func maxUpload(c config.DocumentsConfig) int64 {
	return max(c.MaxGeneralBytes, c.MaxRecruitmentBytes, c.MaxPhotoBytes)
}
