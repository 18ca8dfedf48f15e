package commands

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/wolfeidau/logview/internal/buildcfg"
	"github.com/wolfeidau/logview/internal/bundler"
	"github.com/wolfeidau/logview/internal/devserver"
	"github.com/wolfeidau/logview/internal/logger"
	"github.com/wolfeidau/logview/internal/project"
	"github.com/wolfeidau/logview/internal/telemetry"
)

type ServeCmd struct {
	Dir         string   `arg:"" optional:"" help:"Project directory" default:"."`
	Listen      string   `help:"Listen address, overrides the manifest" env:"LOGVIEW_LISTEN"`
	CORSOrigins []string `help:"allowed CORS origins for asset requests, overrides the manifest" env:"LOGVIEW_CORS_ORIGINS"`
	CacheDir    string   `help:"Directory for the remote module cache (empty keeps it in memory)" env:"LOGVIEW_CACHE_DIR"`
	Title       string   `help:"Page title for the generated index" default:"Log Viewer"`
	NoReload    bool     `help:"Serve the initial build without watching for changes" default:"false"`
	Tracing     bool     `help:"enable tracing" default:"false" env:"LOGVIEW_TRACING"`
}

func (c *ServeCmd) Run(ctx context.Context, globals *Globals) error {
	log := logger.Setup(globals.Debug)

	log.Info().Str("version", globals.Version).Bool("debug", globals.Debug).Msg("Starting dev server")

	// Setup telemetry if enabled
	if c.Tracing {
		log.Info().Msg("Tracing is enabled")
		shutdown, err := telemetry.InitTelemetry(ctx, "logview-serve", globals.Version)
		if err != nil {
			log.Warn().Err(err).Msg("Failed to initialize telemetry, continuing without metrics")
			shutdown = func(ctx context.Context) error { return nil }
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := shutdown(shutdownCtx); err != nil {
				log.Error().Err(err).Msg("Failed to shutdown telemetry")
			}
		}()
	}

	proj, err := project.Load(c.Dir)
	if err != nil {
		return fmt.Errorf("failed to load project: %w", err)
	}
	if c.Listen != "" {
		proj.Server.Listen = c.Listen
	}
	if len(c.CORSOrigins) > 0 {
		proj.Server.CORSOrigins = c.CORSOrigins
	}

	cfg := buildcfg.Resolve(buildcfg.Capture(), proj)

	opts := bundler.DefaultOptions()
	opts.Minify = false // keep served output readable
	opts.SourceMap = true
	opts.CacheDir = c.CacheDir

	pipeline := bundler.New(cfg, proj, opts)

	if _, err := pipeline.Build(ctx); err != nil {
		return fmt.Errorf("initial build failed: %w", err)
	}

	srv, err := devserver.New(devserver.Config{
		Listen:      proj.Server.Listen,
		CORSOrigins: proj.Server.CORSOrigins,
		Title:       c.Title,
	}, proj, pipeline)
	if err != nil {
		return fmt.Errorf("failed to configure dev server: %w", err)
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	httpServer := configureHTTPServer(proj.Server.Listen, srv.Handler())

	serverErrors := make(chan error, 1)
	go func() {
		log.Info().Str("addr", proj.Server.Listen).Str("root", proj.Root).Msg("Dev server listening")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrors <- err
		}
	}()

	// Rebuild on source changes and push the new build id to connected
	// browsers.
	if !c.NoReload {
		go func() {
			if err := pipeline.Watch(ctx, func(m *bundler.Manifest) {
				srv.Reload().Notify(m.BuildID)
			}); err != nil {
				log.Error().Err(err).Msg("Watcher stopped")
			}
		}()
	}

	select {
	case err := <-serverErrors:
		return fmt.Errorf("dev server failed: %w", err)
	case <-ctx.Done():
	}

	log.Info().Msg("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shutdown dev server: %w", err)
	}

	return nil
}
