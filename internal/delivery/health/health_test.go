package health

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap/zaptest"
)

type pingerFunc func(ctx context.Context) error

func (f pingerFunc) Ping(ctx context.Context) error { return f(ctx) }

func TestRoot(t *testing.T) {
	h := NewHealthHandler(pingerFunc(func(context.Context) error { return nil }), zaptest.NewLogger(t).Sugar())
	rec := httptest.NewRecorder()
	h.Root(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"message":"Achievements API is running"}`, rec.Body.String())
}

func TestHealth(t *testing.T) {
	healthy := NewHealthHandler(pingerFunc(func(context.Context) error { return nil }), zaptest.NewLogger(t).Sugar())
	rec := httptest.NewRecorder()
	healthy.Health(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"healthy"}`, rec.Body.String())

	broken := NewHealthHandler(pingerFunc(func(context.Context) error { return errors.New("redis down") }), zaptest.NewLogger(t).Sugar())
	rec = httptest.NewRecorder()
	broken.Health(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.JSONEq(t, `{"status":"unhealthy"}`, rec.Body.String())
}
