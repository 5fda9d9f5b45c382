package telemetry

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"

	"github.com/lcrow/starhelm/config"
)

// OutputManager handles structured run output with CSV logging.
type OutputManager struct {
	dir        string
	statsFile  *os.File
	flightFile *os.File
	eventsFile *os.File
	perfFile   *os.File

	// Track if headers have been written
	statsHeaderWritten  bool
	flightHeaderWritten bool
	eventsHeaderWritten bool
	perfHeaderWritten   bool
}

// NewOutputManager creates a new output manager and initializes the output directory.
// Returns nil if dir is empty (output disabled).
func NewOutputManager(dir string) (*OutputManager, error) {
	if dir == "" {
		return nil, nil
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	om := &OutputManager{dir: dir}

	statsPath := filepath.Join(dir, "stats.csv")
	f, err := os.Create(statsPath)
	if err != nil {
		return nil, fmt.Errorf("creating stats.csv: %w", err)
	}
	om.statsFile = f

	flightPath := filepath.Join(dir, "flight.csv")
	f, err = os.Create(flightPath)
	if err != nil {
		om.statsFile.Close()
		return nil, fmt.Errorf("creating flight.csv: %w", err)
	}
	om.flightFile = f

	eventsPath := filepath.Join(dir, "events.csv")
	f, err = os.Create(eventsPath)
	if err != nil {
		om.statsFile.Close()
		om.flightFile.Close()
		return nil, fmt.Errorf("creating events.csv: %w", err)
	}
	om.eventsFile = f

	perfPath := filepath.Join(dir, "perf.csv")
	f, err = os.Create(perfPath)
	if err != nil {
		om.statsFile.Close()
		om.flightFile.Close()
		om.eventsFile.Close()
		return nil, fmt.Errorf("creating perf.csv: %w", err)
	}
	om.perfFile = f

	return om, nil
}

// WriteConfig saves the current configuration as YAML.
func (om *OutputManager) WriteConfig(cfg *config.Config) error {
	if om == nil {
		return nil
	}
	configPath := filepath.Join(om.dir, "config.yaml")
	return cfg.WriteYAML(configPath)
}

// WriteStats writes a window stats record to stats.csv.
func (om *OutputManager) WriteStats(stats WindowStats) error {
	if om == nil {
		return nil
	}

	records := []WindowStats{stats}

	if !om.statsHeaderWritten {
		// First write includes headers
		if err := gocsv.Marshal(records, om.statsFile); err != nil {
			return fmt.Errorf("writing stats: %w", err)
		}
		om.statsHeaderWritten = true
	} else {
		// Subsequent writes skip headers
		if err := gocsv.MarshalWithoutHeaders(records, om.statsFile); err != nil {
			return fmt.Errorf("writing stats: %w", err)
		}
	}

	return nil
}

// WriteFlight writes a flight recorder sample to flight.csv.
func (om *OutputManager) WriteFlight(row FlightRow) error {
	if om == nil {
		return nil
	}

	records := []FlightRow{row}

	if !om.flightHeaderWritten {
		if err := gocsv.Marshal(records, om.flightFile); err != nil {
			return fmt.Errorf("writing flight: %w", err)
		}
		om.flightHeaderWritten = true
	} else {
		if err := gocsv.MarshalWithoutHeaders(records, om.flightFile); err != nil {
			return fmt.Errorf("writing flight: %w", err)
		}
	}

	return nil
}

// WriteEvent writes a gameplay cue record to events.csv.
func (om *OutputManager) WriteEvent(row EventRow) error {
	if om == nil {
		return nil
	}

	records := []EventRow{row}

	if !om.eventsHeaderWritten {
		if err := gocsv.Marshal(records, om.eventsFile); err != nil {
			return fmt.Errorf("writing event: %w", err)
		}
		om.eventsHeaderWritten = true
	} else {
		if err := gocsv.MarshalWithoutHeaders(records, om.eventsFile); err != nil {
			return fmt.Errorf("writing event: %w", err)
		}
	}

	return nil
}

// WritePerf writes a performance stats record to perf.csv.
func (om *OutputManager) WritePerf(stats PerfStats, windowEnd int32) error {
	if om == nil {
		return nil
	}

	csvRecord := stats.ToCSV(windowEnd)
	records := []PerfStatsCSV{csvRecord}

	if !om.perfHeaderWritten {
		if err := gocsv.Marshal(records, om.perfFile); err != nil {
			return fmt.Errorf("writing perf: %w", err)
		}
		om.perfHeaderWritten = true
	} else {
		if err := gocsv.MarshalWithoutHeaders(records, om.perfFile); err != nil {
			return fmt.Errorf("writing perf: %w", err)
		}
	}

	return nil
}

// Dir returns the output directory path.
func (om *OutputManager) Dir() string {
	if om == nil {
		return ""
	}
	return om.dir
}

// Close flushes and closes all output files.
func (om *OutputManager) Close() error {
	if om == nil {
		return nil
	}

	var firstErr error

	if om.statsFile != nil {
		if err := om.statsFile.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}

	if om.flightFile != nil {
		if err := om.flightFile.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}

	if om.eventsFile != nil {
		if err := om.eventsFile.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}

	if om.perfFile != nil {
		if err := om.perfFile.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}

	return firstErr
}
