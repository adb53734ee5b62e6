package monitoring

import (
	"testing"
)

func TestHealth_Snapshot(t *testing.T) {
	h := NewHealth()
	h.SetComponent("redis", "ok")

	report := h.Snapshot()

	value, exists := report["redis"]
	if !exists {
		t.Fatalf("Expected 'redis' to be present in report, but it was not")
	}
	if value != "ok" {
		t.Errorf("Expected 'redis' to be \"ok\", but got %v", value)
	}

	if _, exists = report["uptime_seconds"]; !exists {
		t.Errorf("Expected 'uptime_seconds' to be present in report, but it was not")
	}
	if report["status"] != "ok" {
		t.Errorf("Expected 'status' to be \"ok\", but got %v", report["status"])
	}
}

func TestHealth_Component(t *testing.T) {
	h := NewHealth()

	if _, exists := h.Component("advisor"); exists {
		t.Errorf("Expected 'advisor' to be unset, but it was present")
	}

	h.SetComponent("advisor", "disabled")
	state, exists := h.Component("advisor")
	if !exists {
		t.Fatalf("Expected 'advisor' to be present after SetComponent, but it was not")
	}
	if state != "disabled" {
		t.Errorf("Expected 'advisor' state to be \"disabled\", but got %v", state)
	}
}
