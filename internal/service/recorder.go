package service

import (
	"context"
	"time"

	"homewatch/internal/logger"
	"homewatch/internal/models"
	"homewatch/internal/repository"
)

// RecorderService samples the dashboard on a fixed tick and appends a
// history row, so the charts keep filling even when nobody has the UI open.
type RecorderService struct {
	dashboard  Dashboard
	repo       repository.ReadingRepo
	outdoorRef string
	log        *logger.Logger
}

func NewRecorderService(dashboard Dashboard, repo repository.ReadingRepo, outdoorRef string, log *logger.Logger) *RecorderService {
	if outdoorRef == "" {
		outdoorRef = "Outdoor"
	}
	return &RecorderService{
		dashboard:  dashboard,
		repo:       repo,
		outdoorRef: outdoorRef,
		log:        log,
	}
}

// Run ticks at the given interval until ctx is canceled. A snapshot with no
// solar section is skipped entirely; charts later interpolate the gap.
func (s *RecorderService) Run(ctx context.Context, tick time.Duration) {
	t := time.NewTicker(tick)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-t.C:
			d := s.dashboard.Snapshot(ctx)
			if d.Solar == nil {
				if s.log != nil {
					s.log.Warnw("skipping history row, solar section unavailable", "errors", d.Errors)
				}
				continue
			}

			rd := models.Reading{
				TakenAt:    now.UTC(),
				SolarW:     d.Solar.PowerW,
				GridW:      d.Solar.GridPowerW,
				GridStatus: d.Solar.GridStatus,
			}
			if d.Stove != nil {
				v := d.Stove.StoveTempC
				rd.StoveC = &v
			}
			if t := s.outdoorTemp(d.Sensors); t != nil {
				rd.OutdoorC = t
			}

			if err := s.repo.Append(ctx, rd); err != nil && s.log != nil {
				s.log.Errorw("append history row failed", "err", err)
			}
		}
	}
}

// outdoorTemp picks the configured outdoor sensor out of the readings.
func (s *RecorderService) outdoorTemp(readings []models.SensorReading) *float64 {
	for _, r := range readings {
		if r.Name == s.outdoorRef {
			v := r.TempC
			return &v
		}
	}
	return nil
}
