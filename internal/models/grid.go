package models

import "time"

// GridStatus classifies the household's current relationship to the grid.
type GridStatus string

const (
	GridAutark    GridStatus = "autark"         // running on its own production
	GridConsuming GridStatus = "grid_consuming" // drawing power from the grid
	GridFeeding   GridStatus = "grid_feeding"   // exporting power to the grid
	GridUnknown   GridStatus = "unknown"        // no signal allows a verdict
)

// GridPeriod is one manually curated date range during which the installation
// was physically connected to the grid. GridOff == nil means "still connected".
type GridPeriod struct {
	GridOn  time.Time  `yaml:"grid_on" json:"grid_on"`
	GridOff *time.Time `yaml:"grid_off" json:"grid_off,omitempty"`
}

// Open reports whether the period has no disconnect date yet.
func (p GridPeriod) Open() bool { return p.GridOff == nil }

// TelemetrySample is one (timestamp, value) pair from an inverter channel,
// e.g. cumulative grid-import energy in kWh.
type TelemetrySample struct {
	Timestamp time.Time `json:"timestamp"`
	Value     float64   `json:"value"`
}
