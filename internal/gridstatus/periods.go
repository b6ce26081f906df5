package gridstatus

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"homewatch/internal/models"
)

// The period file is a hand-maintained audit log of physical grid
// (dis)connection events. It is loaded once at startup and validated hard:
// a malformed file is a configuration error, not something to limp past.

const dateLayout = "2006-01-02"

type periodsFile struct {
	Periods []periodEntry `yaml:"periods"`
}

type periodEntry struct {
	GridOn  string `yaml:"grid_on"`
	GridOff string `yaml:"grid_off"` // empty means still connected
}

var errNoPeriodsFile = errors.New("grid periods file not configured")

// LoadPeriods reads and validates the grid period list from a YAML file.
// An empty path returns an empty list: the resolver then simply reports
// unknown whenever the manual layer is reached.
func LoadPeriods(path string) ([]models.GridPeriod, error) {
	if path == "" {
		return nil, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read grid periods: %w", err)
	}

	var f periodsFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse grid periods: %w", err)
	}

	periods := make([]models.GridPeriod, 0, len(f.Periods))
	for i, e := range f.Periods {
		p, err := e.toPeriod()
		if err != nil {
			return nil, fmt.Errorf("grid period %d: %w", i, err)
		}
		periods = append(periods, p)
	}
	if err := ValidatePeriods(periods); err != nil {
		return nil, err
	}
	return periods, nil
}

func (e periodEntry) toPeriod() (models.GridPeriod, error) {
	if e.GridOn == "" {
		return models.GridPeriod{}, errors.New("grid_on is required")
	}
	on, err := time.Parse(dateLayout, e.GridOn)
	if err != nil {
		return models.GridPeriod{}, fmt.Errorf("grid_on %q: %w", e.GridOn, err)
	}
	p := models.GridPeriod{GridOn: on}
	if e.GridOff != "" {
		off, err := time.Parse(dateLayout, e.GridOff)
		if err != nil {
			return models.GridPeriod{}, fmt.Errorf("grid_off %q: %w", e.GridOff, err)
		}
		p.GridOff = &off
	}
	return p, nil
}

// ValidatePeriods enforces the structural invariants: chronological order,
// no overlaps, each range well-formed, and at most one open period, which
// must be the last.
func ValidatePeriods(periods []models.GridPeriod) error {
	for i, p := range periods {
		if p.GridOff != nil && p.GridOff.Before(p.GridOn) {
			return fmt.Errorf("grid period %d: grid_off %s before grid_on %s",
				i, p.GridOff.Format(dateLayout), p.GridOn.Format(dateLayout))
		}
		if i == 0 {
			continue
		}
		prev := periods[i-1]
		if prev.Open() {
			return fmt.Errorf("grid period %d: previous period is still open", i)
		}
		if !p.GridOn.After(*prev.GridOff) {
			return fmt.Errorf("grid period %d: overlaps previous period ending %s",
				i, prev.GridOff.Format(dateLayout))
		}
	}
	return nil
}
