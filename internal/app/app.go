// Package app contains application bootstrap
package app

import (
	"time"

	"go.uber.org/fx"

	"github.com/bhhshwXD/HDTokster/config"
	"github.com/bhhshwXD/HDTokster/internal/domain"
	"github.com/bhhshwXD/HDTokster/internal/infrastructure"
)

// startTimeout leaves room for downloading yt-dlp on first start
const startTimeout = 2 * time.Minute

// CreateApp creates fx application with all modules
func CreateApp() fx.Option {
	return fx.Options(
		// Configuration
		fx.Provide(config.Out),

		// Infrastructure (logger, metrics, yt-dlp, telegram bot, http server)
		infrastructure.Module,

		// Domain (relay business logic)
		domain.Module,

		fx.StartTimeout(startTimeout),
	)
}
