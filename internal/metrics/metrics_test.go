package metrics

import (
	"strings"
	"testing"
)

func TestNewRegistry(t *testing.T) {
	reg := NewRegistry()
	if reg == nil {
		t.Fatal("expected non-nil registry")
	}

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather failed: %v", err)
	}
	// Should have go runtime metrics at minimum
	if len(mfs) == 0 {
		t.Error("expected some metrics to be registered")
	}
}

func TestRegistry_RecordTick(t *testing.T) {
	reg := NewRegistry()

	reg.RecordTick("dashboard", 0.05)
	reg.RecordFetchFailure("dashboard", "API_FAILED")
	reg.RecordStaleDrop("chart")
	reg.RecordForcedLogout()

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather failed: %v", err)
	}

	found := map[string]bool{}
	for _, mf := range mfs {
		if strings.HasPrefix(mf.GetName(), "fxpulse_") {
			found[mf.GetName()] = true
		}
	}

	for _, name := range []string{
		"fxpulse_poll_ticks_total",
		"fxpulse_fetch_failures_total",
		"fxpulse_stale_ticks_dropped_total",
		"fxpulse_forced_logouts_total",
	} {
		if !found[name] {
			t.Errorf("expected metric %s to be gatherable", name)
		}
	}
}

func TestRegistry_InFlight(t *testing.T) {
	reg := NewRegistry()

	reg.TickInFlightInc("dashboard")
	reg.TickInFlightDec("dashboard")

	if _, err := reg.Gather(); err != nil {
		t.Fatalf("gather failed: %v", err)
	}
}
