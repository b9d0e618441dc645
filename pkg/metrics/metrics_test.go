package metrics

import (
	"errors"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestCollector_ObserveAndScrape(t *testing.T) {
	c := New()
	c.Observe(5*time.Millisecond, nil)
	c.Observe(10*time.Millisecond, errors.New("boom"))

	req := httptest.NewRequest("GET", "/metrics", nil)
	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, req)

	body := rec.Body.String()
	if !strings.Contains(body, `abihost_invocations_total{outcome="ok"} 1`) {
		t.Fatalf("missing ok counter in output:\n%s", body)
	}
	if !strings.Contains(body, `abihost_invocations_total{outcome="error"} 1`) {
		t.Fatalf("missing error counter in output:\n%s", body)
	}
	if !strings.Contains(body, "abihost_invocation_duration_seconds") {
		t.Fatalf("missing duration histogram in output:\n%s", body)
	}
}

func TestCollector_NilIsNoop(t *testing.T) {
	var c *Collector
	c.Observe(time.Second, nil) // must not panic
}
