// Package ytdlp manages the yt-dlp executable the extraction engine runs
package ytdlp

import (
	"context"
	"fmt"
	"os/exec"
	"sync/atomic"

	ytdlp "github.com/lrstanley/go-ytdlp"
	"github.com/rs/zerolog"

	"github.com/bhhshwXD/HDTokster/config"
)

// installFunc matches ytdlp.Install
type installFunc func(ctx context.Context, opts *ytdlp.InstallOptions) (*ytdlp.ResolvedInstall, error)

// Runtime makes sure a yt-dlp executable is available and reports it
type Runtime struct {
	cfg       *config.ExtractorConfig
	logger    zerolog.Logger
	install   installFunc
	lookPath  func(file string) (string, error)
	installed atomic.Bool
}

// NewRuntime creates a new yt-dlp runtime
func NewRuntime(cfg *config.ExtractorConfig, logger zerolog.Logger) *Runtime {
	return &Runtime{
		cfg:      cfg,
		logger:   logger.With().Str("component", "ytdlp-runtime").Logger(),
		install:  ytdlp.Install,
		lookPath: exec.LookPath,
	}
}

// Prepare downloads yt-dlp when auto install is enabled, otherwise it
// only checks the configured executable and logs a warning when missing.
func (r *Runtime) Prepare(ctx context.Context) error {
	if !r.cfg.AutoInstall {
		path, err := r.lookPath(r.cfg.Executable)
		if err != nil {
			r.logger.Warn().Err(err).Str("executable", r.cfg.Executable).Msg("yt-dlp executable not found, downloads will fail")
			return nil
		}
		r.logger.Info().Str("executable", path).Msg("Using yt-dlp executable")
		return nil
	}

	r.logger.Info().Msg("Installing yt-dlp...")
	if _, err := r.install(ctx, nil); err != nil {
		return fmt.Errorf("failed to install yt-dlp: %w", err)
	}
	r.installed.Store(true)
	r.logger.Info().Msg("yt-dlp installed")
	return nil
}

// IsHealthy reports whether an executable is available
func (r *Runtime) IsHealthy() bool {
	if r.cfg.AutoInstall {
		return r.installed.Load()
	}
	_, err := r.lookPath(r.cfg.Executable)
	return err == nil
}
