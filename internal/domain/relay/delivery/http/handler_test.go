package http

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/fasthttp/router"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valyala/fasthttp"

	"github.com/bhhshwXD/HDTokster/config"
	"github.com/bhhshwXD/HDTokster/pkg/workerpool"
)

type mockHealthChecker struct {
	healthy bool
}

func (m *mockHealthChecker) IsHealthy() bool {
	return m.healthy
}

func newHandler(engine, publisher bool, kafkaEnabled bool) *HealthHandler {
	kafka := &config.KafkaConfig{RelayTopic: "media.relay.completed"}
	if kafkaEnabled {
		kafka.Brokers = []string{"localhost:9092"}
	}
	return NewHealthHandler(HealthHandlerParams{
		Engine:    &mockHealthChecker{healthy: engine},
		Publisher: &mockHealthChecker{healthy: publisher},
		Pool:      workerpool.New(4),
		Kafka:     kafka,
		Logger:    zerolog.Nop(),
	})
}

func serve(t *testing.T, h *HealthHandler) (*fasthttp.RequestCtx, HealthResponse) {
	t.Helper()

	r := router.New()
	NewRouter(h).RegisterRoutes(r)

	ctx := &fasthttp.RequestCtx{}
	ctx.Request.Header.SetMethod(fasthttp.MethodGet)
	ctx.Request.SetRequestURI("/health")
	r.Handler(ctx)

	var response HealthResponse
	require.NoError(t, json.Unmarshal(ctx.Response.Body(), &response))
	return ctx, response
}

func TestHealthHandler_AllHealthy(t *testing.T) {
	ctx, response := serve(t, newHandler(true, true, true))

	assert.Equal(t, fasthttp.StatusOK, ctx.Response.StatusCode())
	assert.Equal(t, "application/json", string(ctx.Response.Header.ContentType()))
	assert.Equal(t, HealthStatusHealthy, response.Status)
	assert.Len(t, response.Components, 2)
	require.NotNil(t, response.Load)
	assert.Equal(t, 4, response.Load.Limit)
	assert.Equal(t, 0, response.Load.ActiveDownloads)
}

func TestHealthHandler_KafkaDisabledOmitsProducer(t *testing.T) {
	_, response := serve(t, newHandler(true, false, false))

	assert.Equal(t, HealthStatusHealthy, response.Status)
	require.Len(t, response.Components, 1)
	assert.Equal(t, "extraction_engine", response.Components[0].Name)
}

func TestHealthHandler_ProducerUnhealthyIsDegraded(t *testing.T) {
	ctx, response := serve(t, newHandler(true, false, true))

	assert.Equal(t, fasthttp.StatusOK, ctx.Response.StatusCode())
	assert.Equal(t, HealthStatusDegraded, response.Status)
	for _, comp := range response.Components {
		if comp.Name == "kafka_producer" {
			assert.False(t, comp.Healthy)
			assert.NotEmpty(t, comp.Message)
		}
	}
}

func TestHealthHandler_EngineMissingIsUnhealthy(t *testing.T) {
	ctx, response := serve(t, newHandler(false, false, false))

	assert.Equal(t, fasthttp.StatusServiceUnavailable, ctx.Response.StatusCode())
	assert.Equal(t, HealthStatusUnhealthy, response.Status)
}

func TestHealthHandler_MethodNotAllowed(t *testing.T) {
	r := router.New()
	NewRouter(newHandler(true, true, true)).RegisterRoutes(r)

	ctx := &fasthttp.RequestCtx{}
	ctx.Request.Header.SetMethod(fasthttp.MethodPost)
	ctx.Request.SetRequestURI("/health")
	r.Handler(ctx)

	assert.Equal(t, fasthttp.StatusMethodNotAllowed, ctx.Response.StatusCode())
}

func TestHealthHandler_TimestampIsRecent(t *testing.T) {
	before := time.Now().UTC()
	_, response := serve(t, newHandler(true, true, true))
	after := time.Now().UTC()

	assert.False(t, response.Timestamp.Before(before.Add(-time.Second)))
	assert.False(t, response.Timestamp.After(after.Add(time.Second)))
}
