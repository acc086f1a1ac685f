package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"vedic_counter/internal/metrics"
	"vedic_counter/internal/service"

	"github.com/gin-gonic/gin"
)

func TestMetricsRoute_RecordsRequests(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := metrics.New()
	r := NewHandler(&service.Service{}, nil).WithMetrics(m).InitRoutes()

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("health: %d", w.Code)
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("metrics: %d", w.Code)
	}
	body := w.Body.String()
	if !strings.Contains(body, `vedic_http_requests_total{method="GET",route="/health",status="200"} 1`) {
		t.Fatalf("request not recorded:\n%s", body)
	}
}

func TestMetricsRoute_AbsentWithoutMetrics(t *testing.T) {
	r := newTestRouter(&service.Service{})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 without metrics, got %d", w.Code)
	}
}
