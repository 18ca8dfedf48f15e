package commands

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/wolfeidau/logview/internal/archive"
	"github.com/wolfeidau/logview/internal/buildcfg"
	"github.com/wolfeidau/logview/internal/bundler"
	"github.com/wolfeidau/logview/internal/logger"
	"github.com/wolfeidau/logview/internal/project"
	"github.com/wolfeidau/logview/internal/telemetry"
)

type BuildCmd struct {
	Dir       string `arg:"" optional:"" help:"Project directory" default:"."`
	Minify    bool   `help:"Minify bundled output" default:"true" negatable:"" env:"LOGVIEW_MINIFY"`
	SourceMap bool   `help:"Emit linked source maps" default:"true" negatable:"" env:"LOGVIEW_SOURCEMAP"`
	CacheDir  string `help:"Directory for the remote module cache (empty keeps it in memory)" env:"LOGVIEW_CACHE_DIR"`
	Tracing   bool   `help:"enable tracing" default:"false" env:"LOGVIEW_TRACING"`

	// Archive configuration
	Archive    bool   `help:"Archive the output directory after a successful build" default:"false" env:"LOGVIEW_ARCHIVE"`
	ArchiveDir string `help:"Directory receiving build archives, relative to the project" default:"archives" env:"LOGVIEW_ARCHIVE_DIR"`
	Clean      bool   `help:"Remove the output directory once archived" default:"false"`
	Retention  int    `help:"Days to keep old archives, 0 disables cleanup" default:"30" env:"LOGVIEW_ARCHIVE_RETENTION"`
}

func (c *BuildCmd) Run(ctx context.Context, globals *Globals) error {
	log := logger.Setup(globals.Debug)

	log.Info().Str("version", globals.Version).Bool("debug", globals.Debug).Msg("Starting build")

	// Setup telemetry if enabled
	if c.Tracing {
		log.Info().Msg("Tracing is enabled")
		shutdown, err := telemetry.InitTelemetry(ctx, "logview-build", globals.Version)
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

	cfg := buildcfg.Resolve(buildcfg.Capture(), proj)

	opts := bundler.DefaultOptions()
	opts.Minify = c.Minify
	opts.SourceMap = c.SourceMap
	opts.CacheDir = c.CacheDir

	manifest, err := bundler.New(cfg, proj, opts).Build(ctx)
	if err != nil {
		return fmt.Errorf("failed to build assets: %w", err)
	}

	log.Info().
		Str("build_id", manifest.BuildID).
		Int("outputs", len(manifest.Files)).
		Str("out_dir", proj.OutDir).
		Msg("Build complete")

	if !c.Archive {
		return nil
	}

	archiveDir := filepath.Join(proj.Root, c.ArchiveDir)

	archivePath, err := archive.Create(proj.OutPath(), archiveDir, "logview-"+manifest.BuildID, c.Clean)
	if err != nil {
		var cleanupErr *archive.CleanupError
		if errors.As(err, &cleanupErr) {
			// The archive itself is safe, only the source removal failed
			log.Warn().Err(err).Str("archive", archivePath).Msg("Archived but could not remove the output directory")
		} else {
			return fmt.Errorf("failed to archive build output: %w", err)
		}
	}

	log.Info().Str("archive", archivePath).Msg("Build output archived")

	if c.Retention > 0 {
		if err := archive.Cleanup(archiveDir, c.Retention); err != nil {
			log.Warn().Err(err).Msg("Failed to clean up old archives")
		}
	}

	return nil
}
