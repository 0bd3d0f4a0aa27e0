// Package http contains the HTTP delivery layer of the relay domain
package http

import (
	"encoding/json"
	"time"

	"github.com/rs/zerolog"
	"github.com/valyala/fasthttp"
	"go.uber.org/fx"

	"github.com/bhhshwXD/HDTokster/config"
	"github.com/bhhshwXD/HDTokster/internal/domain/relay/deps"
	"github.com/bhhshwXD/HDTokster/pkg/workerpool"
)

// HealthStatus represents the overall health status
type HealthStatus string

const (
	HealthStatusHealthy   HealthStatus = "healthy"
	HealthStatusDegraded  HealthStatus = "degraded"
	HealthStatusUnhealthy HealthStatus = "unhealthy"
)

// ComponentHealth represents health status of a single component
type ComponentHealth struct {
	Name    string `json:"name"`
	Healthy bool   `json:"healthy"`
	Message string `json:"message,omitempty"`
}

// Load reports how many downloads are running
type Load struct {
	ActiveDownloads int `json:"active_downloads"`
	Limit           int `json:"limit"`
}

// HealthResponse represents the JSON response for health check
type HealthResponse struct {
	Status     HealthStatus      `json:"status"`
	Timestamp  time.Time         `json:"timestamp"`
	Components []ComponentHealth `json:"components"`
	Load       *Load             `json:"load,omitempty"`
}

// HealthHandler handles HTTP health check requests
type HealthHandler struct {
	engine    deps.HealthChecker
	publisher deps.HealthChecker
	pool      *workerpool.Pool
	kafka     bool
	logger    zerolog.Logger
}

// HealthHandlerParams defines parameters for HealthHandler with optional dependencies
type HealthHandlerParams struct {
	fx.In

	Engine    deps.HealthChecker `name:"engine_health"`
	Publisher deps.HealthChecker `name:"publisher_health" optional:"true"`
	Pool      *workerpool.Pool   `optional:"true"`
	Kafka     *config.KafkaConfig
	Logger    zerolog.Logger
}

// NewHealthHandler creates a new health check handler
func NewHealthHandler(params HealthHandlerParams) *HealthHandler {
	return &HealthHandler{
		engine:    params.Engine,
		publisher: params.Publisher,
		pool:      params.Pool,
		kafka:     params.Kafka != nil && params.Kafka.Enabled(),
		logger:    params.Logger,
	}
}

// Handle handles the health check request for fasthttp
func (h *HealthHandler) Handle(ctx *fasthttp.RequestCtx) {
	components := h.checkComponents()
	status := h.determineOverallStatus(components)

	response := HealthResponse{
		Status:     status,
		Timestamp:  time.Now().UTC(),
		Components: components,
	}
	if h.pool != nil {
		response.Load = &Load{
			ActiveDownloads: h.pool.Active(),
			Limit:           h.pool.Limit(),
		}
	}

	statusCode := fasthttp.StatusOK
	if status == HealthStatusUnhealthy {
		statusCode = fasthttp.StatusServiceUnavailable
	}

	logEvent := h.logger.Debug()
	if status == HealthStatusUnhealthy {
		logEvent = h.logger.Warn()
	} else if status == HealthStatusDegraded {
		logEvent = h.logger.Info()
	}
	logEvent.
		Str("status", string(status)).
		Int("status_code", statusCode).
		Interface("components", components).
		Msg("Health check completed")

	ctx.SetContentType("application/json")
	ctx.SetStatusCode(statusCode)

	body, err := json.Marshal(response)
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to encode health check response")
		ctx.SetStatusCode(fasthttp.StatusInternalServerError)
		return
	}

	ctx.SetBody(body)
}

func (h *HealthHandler) checkComponents() []ComponentHealth {
	components := make([]ComponentHealth, 0, 2)

	engineHealthy := h.engine != nil && h.engine.IsHealthy()
	engineMsg := ""
	if !engineHealthy {
		engineMsg = "yt-dlp executable is not available"
	}
	components = append(components, ComponentHealth{
		Name:    "extraction_engine",
		Healthy: engineHealthy,
		Message: engineMsg,
	})

	// Events are optional; the component is reported only when enabled
	if h.kafka {
		producerHealthy := h.publisher != nil && h.publisher.IsHealthy()
		producerMsg := ""
		if !producerHealthy {
			producerMsg = "Kafka producer is not healthy"
		}
		components = append(components, ComponentHealth{
			Name:    "kafka_producer",
			Healthy: producerHealthy,
			Message: producerMsg,
		})
	}

	return components
}

// determineOverallStatus determines overall health status based on component health
func (h *HealthHandler) determineOverallStatus(components []ComponentHealth) HealthStatus {
	allHealthy := true
	anyHealthy := false

	for _, component := range components {
		if !component.Healthy {
			allHealthy = false
		} else {
			anyHealthy = true
		}
	}

	if allHealthy {
		return HealthStatusHealthy
	} else if anyHealthy {
		return HealthStatusDegraded
	}

	return HealthStatusUnhealthy
}
