package metrics

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"skiff-hq/skiff/pkg/config"
)

func testCollector() *Collector {
	return NewCollector(&config.MetricsConfig{
		Namespace: "skiff",
		Subsystem: "export",
		Path:      "/metrics",
	})
}

// TestCollector_RecordsRunLifecycle verifies run counters and the
// active-runs gauge.
func TestCollector_RecordsRunLifecycle(t *testing.T) {
	c := testCollector()

	c.Export.RunStarted()
	c.Export.RecordStep("csv", 25*time.Millisecond, 50)
	c.Export.RecordStep("csv", 30*time.Millisecond, 50)
	c.Export.RecordArtifactBytes("csv", 2048)
	c.Export.RunFinished("completed")

	c.Export.RunStarted()
	c.Export.RunFinished("failed")

	body := scrape(t, c)

	assertContains(t, body, `skiff_export_runs_total{status="completed"} 1`)
	assertContains(t, body, `skiff_export_runs_total{status="failed"} 1`)
	assertContains(t, body, `skiff_export_rows_total{format="csv"} 100`)
	assertContains(t, body, `skiff_export_artifact_bytes_total{format="csv"} 2048`)
	assertContains(t, body, `skiff_export_active_runs 0`)
}

// TestCollector_StepDurationHistogram verifies histogram observation.
func TestCollector_StepDurationHistogram(t *testing.T) {
	c := testCollector()

	c.Export.RecordStep("jsonl", 100*time.Millisecond, 10)

	body := scrape(t, c)
	assertContains(t, body, `skiff_export_step_duration_seconds_count{format="jsonl"} 1`)
}

func scrape(t *testing.T, c *Collector) string {
	t.Helper()

	req := httptest.NewRequest("GET", "/metrics", nil)
	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, req)

	if rec.Code != 200 {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	return rec.Body.String()
}

func assertContains(t *testing.T, body, want string) {
	t.Helper()
	if !strings.Contains(body, want) {
		t.Errorf("expected metrics output to contain %q", want)
	}
}
