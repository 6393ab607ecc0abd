package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestRegistryHandler(t *testing.T) {
	reg := NewRegistry()
	reg.RunsTotal.WithLabelValues("success").Inc()
	reg.RowsLoaded.WithLabelValues("product_guide").Add(42)
	reg.RunDuration.Observe(1.5)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w := httptest.NewRecorder()
	reg.Handler().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	body := w.Body.String()
	for _, metric := range []string{"etl_runs_total", "etl_rows_loaded_total", "etl_run_duration_seconds"} {
		if !strings.Contains(body, metric) {
			t.Errorf("metrics output missing %s", metric)
		}
	}
}

func TestRegistriesIndependent(t *testing.T) {
	a := NewRegistry()
	b := NewRegistry()
	a.RunsTotal.WithLabelValues("failure").Inc()

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w := httptest.NewRecorder()
	b.Handler().ServeHTTP(w, req)

	if strings.Contains(w.Body.String(), `etl_runs_total{status="failure"} 1`) {
		t.Error("registries should not share counters")
	}
}
