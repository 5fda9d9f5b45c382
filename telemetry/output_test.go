package telemetry

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestOutputManagerDisabled(t *testing.T) {
	om, err := NewOutputManager("")
	if err != nil {
		t.Fatalf("NewOutputManager(\"\") failed: %v", err)
	}
	if om != nil {
		t.Fatal("expected nil manager when dir is empty")
	}

	// Nil manager must be a safe no-op everywhere.
	if err := om.WriteStats(WindowStats{}); err != nil {
		t.Errorf("nil WriteStats: %v", err)
	}
	if err := om.WriteFlight(FlightRow{}); err != nil {
		t.Errorf("nil WriteFlight: %v", err)
	}
	if err := om.WriteEvent(EventRow{}); err != nil {
		t.Errorf("nil WriteEvent: %v", err)
	}
	if om.Dir() != "" {
		t.Errorf("nil Dir() = %q, want empty", om.Dir())
	}
	if err := om.Close(); err != nil {
		t.Errorf("nil Close: %v", err)
	}
}

func TestOutputManagerCreatesFiles(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "run1")

	om, err := NewOutputManager(dir)
	if err != nil {
		t.Fatalf("NewOutputManager failed: %v", err)
	}
	defer om.Close()

	for _, name := range []string{"stats.csv", "flight.csv", "events.csv", "perf.csv"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("%s not created: %v", name, err)
		}
	}
	if om.Dir() != dir {
		t.Errorf("Dir() = %q, want %q", om.Dir(), dir)
	}
}

func TestOutputManagerWritesHeaderOnce(t *testing.T) {
	dir := t.TempDir()

	om, err := NewOutputManager(dir)
	if err != nil {
		t.Fatalf("NewOutputManager failed: %v", err)
	}

	if err := om.WriteStats(WindowStats{WindowEndTick: 600, Hull: 100, Alert: "green"}); err != nil {
		t.Fatalf("WriteStats: %v", err)
	}
	if err := om.WriteStats(WindowStats{WindowEndTick: 1200, Hull: 80, Alert: "yellow"}); err != nil {
		t.Fatalf("WriteStats: %v", err)
	}
	if err := om.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "stats.csv"))
	if err != nil {
		t.Fatalf("read stats.csv: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 3 {
		t.Fatalf("stats.csv has %d lines, want header + 2 rows", len(lines))
	}
	if !strings.HasPrefix(lines[0], "window_end,") {
		t.Errorf("header = %q, want window_end first", lines[0])
	}
	if strings.HasPrefix(lines[1], "window_end") || strings.HasPrefix(lines[2], "window_end") {
		t.Error("header repeated in data rows")
	}
	if !strings.Contains(lines[2], "yellow") {
		t.Errorf("second row missing alert value: %q", lines[2])
	}
}

func TestOutputManagerFlightAndEvents(t *testing.T) {
	dir := t.TempDir()

	om, err := NewOutputManager(dir)
	if err != nil {
		t.Fatalf("NewOutputManager failed: %v", err)
	}

	if err := om.WriteFlight(FlightRow{SimTimeSec: 1.0, Z: 55, Speed: 55, Hull: 100}); err != nil {
		t.Fatalf("WriteFlight: %v", err)
	}
	if err := om.WriteEvent(EventRow{SimTimeSec: 2.5, Event: "shields_down"}); err != nil {
		t.Fatalf("WriteEvent: %v", err)
	}
	if err := om.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	flight, err := os.ReadFile(filepath.Join(dir, "flight.csv"))
	if err != nil {
		t.Fatalf("read flight.csv: %v", err)
	}
	if lines := strings.Split(strings.TrimSpace(string(flight)), "\n"); len(lines) != 2 {
		t.Errorf("flight.csv has %d lines, want header + 1 row", len(lines))
	}

	events, err := os.ReadFile(filepath.Join(dir, "events.csv"))
	if err != nil {
		t.Fatalf("read events.csv: %v", err)
	}
	if !strings.Contains(string(events), "shields_down") {
		t.Errorf("events.csv missing cue name: %q", string(events))
	}
}
