package handlers

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

type pingerFunc func(ctx context.Context) error

func (f pingerFunc) PingContext(ctx context.Context) error { return f(ctx) }

func TestHealthz(t *testing.T) {
	h := newHarness(t, func(d *Deps) {
		d.DB = pingerFunc(func(context.Context) error { return nil })
	})
	rec := h.do(http.MethodGet, "/healthz", nil, false)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())

	down := newHarness(t, func(d *Deps) {
		d.DB = pingerFunc(func(context.Context) error { return errors.New("connection refused") })
	})
	rec = down.do(http.MethodGet, "/healthz", nil, false)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestPing(t *testing.T) {
	h := newHarness(t)
	for _, path := range []string{"/ping", "/api/ping"} {
		rec := h.do(http.MethodGet, path, nil, false)
		assert.Equal(t, http.StatusOK, rec.Code, path)
		assert.JSONEq(t, `{"message":"pong"}`, rec.Body.String())
	}
}

func TestCORSPreflight(t *testing.T) {
	h := newHarness(t, func(d *Deps) { d.CORSOrigins = []string{"https://example.com"} })

	req, _ := http.NewRequest(http.MethodOptions, "/api/admin/services", nil)
	req.Header.Set("Origin", "https://example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := h.serve(req)

	assert.Equal(t, "https://example.com", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", rec.Header().Get("Access-Control-Allow-Credentials"))
}
