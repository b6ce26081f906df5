package service

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"homewatch/internal/models"
)

// DashboardService fans out to every section concurrently. A failed section
// never fails the whole snapshot: the UI always renders something, with the
// failure noted per section.
type DashboardService struct {
	solar   Solar
	sensors Sensors
	stove   Stove
	weather Weather
	now     func() time.Time
}

func NewDashboardService(solar Solar, sensors Sensors, stove Stove, weather Weather) *DashboardService {
	return &DashboardService{
		solar:   solar,
		sensors: sensors,
		stove:   stove,
		weather: weather,
		now:     time.Now,
	}
}

func (s *DashboardService) Snapshot(ctx context.Context) models.Dashboard {
	var (
		mu sync.Mutex
		d  = models.Dashboard{TakenAt: s.now().UTC()}
	)
	fail := func(section string, err error) {
		mu.Lock()
		if d.Errors == nil {
			d.Errors = make(map[string]string)
		}
		d.Errors[section] = err.Error()
		mu.Unlock()
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if snap, err := s.solar.Snapshot(ctx); err != nil {
			fail("solar", err)
		} else {
			d.Solar = &snap
		}
		return nil
	})
	g.Go(func() error {
		if readings, err := s.sensors.Readings(ctx); err != nil {
			fail("sensors", err)
		} else {
			d.Sensors = readings
		}
		return nil
	})
	g.Go(func() error {
		if st, err := s.stove.Status(ctx); err != nil {
			fail("stove", err)
		} else {
			d.Stove = &st
		}
		return nil
	})
	g.Go(func() error {
		if fc, err := s.weather.Forecast(ctx); err != nil {
			fail("weather", err)
		} else {
			d.Weather = fc
		}
		return nil
	})

	// Section errors are reported in-band; the goroutines never return one.
	_ = g.Wait()
	return d
}
