package metrics_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/switchyard-io/switchyard/internal/metrics"
)

func scrape(t *testing.T, handler http.Handler) string {
	t.Helper()

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("scrape status = %d, want %d", rec.Code, http.StatusOK)
	}

	body, err := io.ReadAll(rec.Body)
	if err != nil {
		t.Fatalf("read scrape body: %v", err)
	}
	return string(body)
}

func TestHTTPMetricsMiddleware(t *testing.T) {
	m := metrics.NewHTTPMetrics()

	handler := m.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/ask" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))

	paths := []string{
		"/api/ask",
		"/api/documents/3e9c5f7a-1f4d-4e0a-9d2b-8c1a6f0e4b21",
		"/api/documents/3e9c5f7a-1f4d-4e0a-9d2b-8c1a6f0e4b21/sections",
		"/api/departments/procurement/digest",
	}
	for _, path := range paths {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	}

	body := scrape(t, m.Handler())

	wantSeries := []string{
		`switchyard_http_requests_total{method="GET",path="/api/ask",status="400"} 1`,
		`switchyard_http_requests_total{method="GET",path="/api/documents/{id}",status="200"} 1`,
		`switchyard_http_requests_total{method="GET",path="/api/documents/{id}/sections",status="200"} 1`,
		`switchyard_http_requests_total{method="GET",path="/api/departments/{code}/digest",status="200"} 1`,
	}
	for _, want := range wantSeries {
		if !strings.Contains(body, want) {
			t.Errorf("scrape missing series %q", want)
		}
	}

	if !strings.Contains(body, "switchyard_http_request_duration_seconds") {
		t.Error("scrape missing duration histogram")
	}
	if !strings.Contains(body, "switchyard_http_in_flight_requests 0") {
		t.Error("in-flight gauge did not return to zero")
	}
}

func TestWorkerMetrics(t *testing.T) {
	m := metrics.NewWorkerMetrics()

	m.StartJob()
	m.FinishJob("ready", 250*time.Millisecond)
	m.StartJob()
	m.FinishJob("failed", time.Second)
	m.RecordStageFailure("extract")
	m.RecordStageFailure("extract")
	m.RecordStageFailure("summary")

	body := scrape(t, m.Handler())

	wantSeries := []string{
		`switchyard_worker_jobs_total{outcome="ready"} 1`,
		`switchyard_worker_jobs_total{outcome="failed"} 1`,
		`switchyard_worker_stage_failures_total{stage="extract"} 2`,
		`switchyard_worker_stage_failures_total{stage="summary"} 1`,
		`switchyard_worker_jobs_in_flight 0`,
	}
	for _, want := range wantSeries {
		if !strings.Contains(body, want) {
			t.Errorf("scrape missing series %q", want)
		}
	}

	if !strings.Contains(body, "switchyard_worker_job_duration_seconds") {
		t.Error("scrape missing job duration histogram")
	}
}
