// Package infrastructure contains infrastructure layer components
package infrastructure

import (
	"go.uber.org/fx"

	"github.com/bhhshwXD/HDTokster/internal/infrastructure/http"
	"github.com/bhhshwXD/HDTokster/internal/infrastructure/logger"
	"github.com/bhhshwXD/HDTokster/internal/infrastructure/metrics"
	"github.com/bhhshwXD/HDTokster/internal/infrastructure/telegram"
	"github.com/bhhshwXD/HDTokster/internal/infrastructure/ytdlp"
)

// Module provides all infrastructure components for fx dependency injection
var Module = fx.Module("infrastructure",
	logger.Module,
	metrics.Module,
	ytdlp.Module,
	telegram.Module,
	http.Module,
)
