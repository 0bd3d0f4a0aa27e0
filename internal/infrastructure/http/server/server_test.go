package server

import (
	"context"
	"net"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valyala/fasthttp"
)

func TestServer_MetricsRoute(t *testing.T) {
	srv := NewServer("hdtokster", "0", zerolog.Nop())
	srv.RegisterMetrics()

	var ctx fasthttp.RequestCtx
	ctx.Request.Header.SetMethod(fasthttp.MethodGet)
	ctx.Request.SetRequestURI("/metrics")

	srv.Router.Handler(&ctx)

	assert.Equal(t, fasthttp.StatusOK, ctx.Response.StatusCode())
	assert.Contains(t, string(ctx.Response.Body()), "go_goroutines")
}

func TestServer_StartFailsWhenPortTaken(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	_, port, err := net.SplitHostPort(ln.Addr().String())
	require.NoError(t, err)

	srv := NewServer("hdtokster", port, zerolog.Nop())
	srv.addr = "127.0.0.1:" + port

	assert.Error(t, srv.Start())
}

func TestServer_StartAndShutdown(t *testing.T) {
	srv := NewServer("hdtokster", "0", zerolog.Nop())
	srv.addr = "127.0.0.1:0"

	require.NoError(t, srv.Start())
	assert.NoError(t, srv.Shutdown(context.Background()))
}
