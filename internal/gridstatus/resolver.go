// Package gridstatus classifies whether the household is drawing from the
// grid, feeding it, or running autark, from noisy and intermittent inverter
// telemetry.
package gridstatus

import (
	"time"

	"homewatch/internal/logger"
	"homewatch/internal/models"
)

const (
	// PowerThresholdW absorbs sensor noise around zero on the live grid
	// power channel. Strictly greater/less than, never equal.
	PowerThresholdW = 50.0

	// minTrendSamples is the smallest history that allows a trend verdict.
	minTrendSamples = 3

	// trendWindow is how far back the "overall" trend comparison reaches.
	trendWindow = 10
)

// Input bundles everything a detector may look at.
type Input struct {
	GridPowerW *float64
	History    []models.TelemetrySample
	Periods    []models.GridPeriod
	Now        time.Time
}

// Detector inspects the input and either returns a verdict or declines.
// Detectors must never guess: declining is the correct answer when the
// available signal cannot distinguish the remaining states.
type Detector func(in Input) (models.GridStatus, bool)

// Resolver runs an ordered detector cascade. Earlier detectors are strictly
// authoritative over later ones.
type Resolver struct {
	detectors []Detector
	log       *logger.Logger
}

// NewResolver builds the default three-layer cascade: live power reading,
// cumulative-import trend, manual connection periods.
func NewResolver(log *logger.Logger) *Resolver {
	return &Resolver{
		detectors: []Detector{
			DetectLivePower,
			DetectImportTrend,
			DetectManualPeriods,
		},
		log: log,
	}
}

// Resolve classifies the grid connection. It is a pure function of its
// arguments and always produces a displayable status; GridUnknown is a
// terminal classification, not an error.
func (r *Resolver) Resolve(gridPowerW *float64, history []models.TelemetrySample, periods []models.GridPeriod, now time.Time) models.GridStatus {
	in := Input{GridPowerW: gridPowerW, History: history, Periods: periods, Now: now}
	for i, detect := range r.detectors {
		if st, ok := detect(in); ok {
			if r.log != nil {
				r.log.Debugw("grid status resolved", "layer", i+1, "status", st)
			}
			return st
		}
	}
	return models.GridUnknown
}

// DetectLivePower classifies from the instantaneous grid power channel.
// It always verdicts when the channel is present.
func DetectLivePower(in Input) (models.GridStatus, bool) {
	if in.GridPowerW == nil {
		return models.GridUnknown, false
	}
	switch p := *in.GridPowerW; {
	case p > PowerThresholdW:
		return models.GridConsuming, true
	case p < -PowerThresholdW:
		return models.GridFeeding, true
	default:
		return models.GridAutark, true
	}
}

// DetectImportTrend classifies from the cumulative grid-import counter. An
// increase over the recent or overall window proves consumption. A flat
// counter proves nothing: import energy is monotonically non-decreasing, so
// this layer structurally cannot tell feeding from autark and declines
// rather than guess.
func DetectImportTrend(in Input) (models.GridStatus, bool) {
	h := in.History
	n := len(h)
	if n < minTrendSamples {
		return models.GridUnknown, false
	}

	last := h[n-1].Value
	recent := h[n-2].Value
	first := n - trendWindow
	if first < 0 {
		first = 0
	}
	overall := h[first].Value

	if last > recent || last > overall {
		return models.GridConsuming, true
	}
	return models.GridUnknown, false
}

// DetectManualPeriods classifies from the hand-maintained connection log.
// It always verdicts: an open period, or one containing now, means the
// installation is wired to the grid (consuming); a period that ended before
// now means it has been disconnected since (autark); no match at all is
// unknown. Periods are scanned in chronological order and an open period
// wins outright.
func DetectManualPeriods(in Input) (models.GridStatus, bool) {
	matchedClosed := false
	for _, p := range in.Periods {
		if p.GridOn.After(in.Now) {
			continue
		}
		if p.Open() || in.Now.Before(*p.GridOff) {
			return models.GridConsuming, true
		}
		// now >= gridOff: disconnected since this period, unless a later
		// period matches too.
		matchedClosed = true
	}
	if matchedClosed {
		return models.GridAutark, true
	}
	return models.GridUnknown, true
}
