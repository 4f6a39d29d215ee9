package test

import (
	"io"
	"net/http"
	"strings"
	"testing"
)

// TestHealthEndpoint verifies the liveness probe answers regardless of
// backing stores.
func TestHealthEndpoint(t *testing.T) {
	server := NewTestServer(t)
	defer server.Close()

	resp, err := http.Get(server.URL() + "/healthz")
	if err != nil {
		t.Fatalf("Health check failed: %v", err)
	}
	defer resp.Body.Close()

	AssertStatusCode(t, resp, http.StatusOK)

	body := DecodeJSON(t, resp)
	if body["status"] != "ok" {
		t.Errorf("status = %v, want ok", body["status"])
	}
}

// TestReadinessReportsMissingStores verifies readiness degrades to 503 with
// per-dependency detail when Postgres and Redis are absent.
func TestReadinessReportsMissingStores(t *testing.T) {
	server := NewTestServer(t)
	defer server.Close()

	resp, err := http.Get(server.URL() + "/readyz")
	if err != nil {
		t.Fatalf("Readiness check failed: %v", err)
	}
	defer resp.Body.Close()

	AssertStatusCode(t, resp, http.StatusServiceUnavailable)

	body := DecodeJSON(t, resp)
	if body["status"] != "not_ready" {
		t.Errorf("status = %v, want not_ready", body["status"])
	}
	checks, _ := body["checks"].(map[string]any)
	if checks["postgres"] != "not configured" || checks["redis"] != "not configured" {
		t.Errorf("checks = %v", checks)
	}
}

// TestMetricsEndpoint verifies the Prometheus registry is exposed.
func TestMetricsEndpoint(t *testing.T) {
	server := NewTestServer(t)
	defer server.Close()

	resp, err := http.Get(server.URL() + "/metrics")
	if err != nil {
		t.Fatalf("Metrics endpoint failed: %v", err)
	}
	defer resp.Body.Close()

	AssertStatusCode(t, resp, http.StatusOK)

	body, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(body), "go_goroutines") {
		t.Error("metrics output missing standard collectors")
	}
}
