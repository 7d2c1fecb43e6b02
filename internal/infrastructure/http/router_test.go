package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/skroflin/workforce-api/internal/infrastructure/http/handlers"
)

func TestOpsRouter_Routes(t *testing.T) {
	e := NewOpsRouter(handlers.DependencyCheck{Name: "redis", Check: func(context.Context) error { return nil }})

	for _, path := range []string{"/health", "/health/ready", "/metrics"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("%s: expected 200, got %d", path, rec.Code)
		}
	}
}

func TestOpsRouter_MetricsExposesGoCollector(t *testing.T) {
	e := NewOpsRouter()
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if !strings.Contains(rec.Body.String(), "go_goroutines") {
		t.Fatalf("expected default collectors in /metrics output")
	}
}
