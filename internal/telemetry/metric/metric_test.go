package metric

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

type fakeStats struct {
	keys    int
	pending int
}

func (s fakeStats) Keys() int            { return s.keys }
func (s fakeStats) PendingExpiries() int { return s.pending }

// ============================================================
// Registry
// ============================================================

func TestObserveCommand(t *testing.T) {
	r := NewRegistry()
	r.ObserveCommand("GET", 5*time.Millisecond)
	r.ObserveCommand("GET", time.Millisecond)
	r.ObserveCommand("SET", time.Millisecond)

	body := scrape(t, r)
	if !strings.Contains(body, `lorikv_commands_total{command="GET"} 2`) {
		t.Errorf("missing GET counter:\n%s", body)
	}
	if !strings.Contains(body, `lorikv_commands_total{command="SET"} 1`) {
		t.Errorf("missing SET counter:\n%s", body)
	}
	if !strings.Contains(body, `lorikv_command_duration_seconds_count{command="GET"} 2`) {
		t.Errorf("missing GET histogram count:\n%s", body)
	}
}

func TestConnectionGauge(t *testing.T) {
	r := NewRegistry()
	r.ConnOpened()
	r.ConnOpened()
	r.ConnClosed()

	if !strings.Contains(scrape(t, r), "lorikv_connections_active 1") {
		t.Error("connections gauge not at 1")
	}
}

func TestExpiryCounters(t *testing.T) {
	r := NewRegistry()
	r.KeyExpired(false)
	r.KeyExpired(true)
	r.KeyExpired(true)
	r.ObserveSweep(time.Millisecond, 3)

	body := scrape(t, r)
	if !strings.Contains(body, `lorikv_expired_keys_total{mode="passive"} 1`) {
		t.Errorf("missing passive eviction counter:\n%s", body)
	}
	if !strings.Contains(body, `lorikv_expired_keys_total{mode="sweep"} 2`) {
		t.Errorf("missing sweep eviction counter:\n%s", body)
	}
	if !strings.Contains(body, "lorikv_stale_expiry_entries_total 3") {
		t.Errorf("missing stale entry counter:\n%s", body)
	}
}

// ============================================================
// Key space collector
// ============================================================

func TestKeySpaceCollector(t *testing.T) {
	r := NewRegistry()
	r.MustRegister(NewKeySpaceCollector(fakeStats{keys: 7, pending: 9}))

	body := scrape(t, r)
	if !strings.Contains(body, "lorikv_keys 7") {
		t.Errorf("missing keys gauge:\n%s", body)
	}
	if !strings.Contains(body, "lorikv_pending_expiries 9") {
		t.Errorf("missing pending expiries gauge:\n%s", body)
	}
}

func scrape(t *testing.T, r *Registry) string {
	t.Helper()
	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	if rec.Code != 200 {
		t.Fatalf("scrape status = %d", rec.Code)
	}
	return rec.Body.String()
}
