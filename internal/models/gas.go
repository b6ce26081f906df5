package models

import "time"

// GasBottle is a manually tracked propane bottle. EndedAt == nil marks the
// bottle currently in use; level is maintained by hand from the UI.
type GasBottle struct {
	ID        string     `json:"id"`
	SizeKg    float64    `json:"size_kg"`   // e.g. 11 or 33
	LevelPct  float64    `json:"level_pct"` // 0..100
	Note      string     `json:"note,omitempty"`
	StartedAt time.Time  `json:"started_at"`
	EndedAt   *time.Time `json:"ended_at,omitempty"`
}

// Active reports whether the bottle is the one currently connected.
func (b GasBottle) Active() bool { return b.EndedAt == nil }
