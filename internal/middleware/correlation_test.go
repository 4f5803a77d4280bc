package middleware

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"
)

func newRequestCtx(method, uri string) *fasthttp.RequestCtx {
	var req fasthttp.Request
	req.Header.SetMethod(method)
	req.SetRequestURI(uri)

	ctx := &fasthttp.RequestCtx{}
	ctx.Init(&req, nil, nil)
	return ctx
}

func TestCorrelationPreservesInboundID(t *testing.T) {
	ctx := newRequestCtx("GET", "/api/flight-strips/")
	ctx.Request.Header.Set(CorrelationHeader, "client-supplied-id")

	var seen string
	handler := Correlation(zap.NewNop())(func(ctx *fasthttp.RequestCtx) {
		seen = CorrelationID(ctx)
	})
	handler(ctx)

	assert.Equal(t, "client-supplied-id", seen)
	assert.Equal(t, "client-supplied-id", string(ctx.Response.Header.Peek(CorrelationHeader)))
}

func TestCorrelationGeneratesID(t *testing.T) {
	ctx := newRequestCtx("GET", "/api/flight-strips/")

	var seen string
	handler := Correlation(zap.NewNop())(func(ctx *fasthttp.RequestCtx) {
		seen = CorrelationID(ctx)
	})
	handler(ctx)

	require.NotEmpty(t, seen)
	_, err := uuid.Parse(seen)
	assert.NoError(t, err)
	assert.Equal(t, seen, string(ctx.Response.Header.Peek(CorrelationHeader)))
}

func TestCorrelationTrimsWhitespaceHeader(t *testing.T) {
	ctx := newRequestCtx("GET", "/api/flight-strips/")
	ctx.Request.Header.Set(CorrelationHeader, "   ")

	handler := Correlation(zap.NewNop())(func(ctx *fasthttp.RequestCtx) {})
	handler(ctx)

	id := string(ctx.Response.Header.Peek(CorrelationHeader))
	require.NotEmpty(t, id)
	_, err := uuid.Parse(id)
	assert.NoError(t, err)
}

func TestCorrelationIDWithoutMiddleware(t *testing.T) {
	ctx := newRequestCtx("GET", "/api/flight-strips/")
	assert.Empty(t, CorrelationID(ctx))
	assert.Empty(t, CorrelationID(nil))
}
