package handler

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/mentor-availability-api/internal/service"
)

type pingerStub struct{ err error }

func (p pingerStub) PingContext(ctx context.Context) error { return p.err }

func TestMetricsHandlerReady(t *testing.T) {
	handler := NewMetricsHandler(nil, map[string]Pinger{"postgres": pingerStub{}, "redis": pingerStub{}})
	c, w := newQueryContext("/ready")

	handler.Ready(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "ready")
}

func TestMetricsHandlerReadyDegraded(t *testing.T) {
	handler := NewMetricsHandler(nil, map[string]Pinger{"redis": pingerStub{err: errors.New("connection refused")}})
	c, w := newQueryContext("/ready")

	handler.Ready(c)
	require.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), "connection refused")
}

func TestMetricsHandlerPrometheus(t *testing.T) {
	metrics := service.NewMetricsService()
	metrics.RecordSaveItem("create", true)
	metrics.AddMaterializedSlots(3)
	handler := NewMetricsHandler(metrics, nil)
	c, w := newQueryContext("/metrics")

	handler.Prometheus(c)
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, `availability_save_items_total{outcome="ok",phase="create"} 1`)
	assert.Contains(t, body, "materialized_slots_total 3")
}
