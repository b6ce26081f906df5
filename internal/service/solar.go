package service

import (
	"context"
	"time"

	"homewatch/internal/fetchcache"
	"homewatch/internal/gridstatus"
	"homewatch/internal/logger"
	"homewatch/internal/models"
	"homewatch/internal/upstream"
)

const (
	cacheKeySolarStats  = "victron:stats"
	cacheKeyGridHistory = "victron:grid_history"

	// The cumulative counter moves slowly; no point polling it as often as
	// the live channels.
	gridHistoryTTL = 5 * time.Minute
)

// SolarService combines the cached VRM telemetry with the grid status
// cascade.
type SolarService struct {
	cache    *fetchcache.Cache
	victron  VictronAPI
	resolver *gridstatus.Resolver
	periods  []models.GridPeriod
	ttl      time.Duration
	log      *logger.Logger
	now      func() time.Time
}

func NewSolarService(cache *fetchcache.Cache, victron VictronAPI, resolver *gridstatus.Resolver, periods []models.GridPeriod, ttl time.Duration, log *logger.Logger) *SolarService {
	return &SolarService{
		cache:    cache,
		victron:  victron,
		resolver: resolver,
		periods:  periods,
		ttl:      ttl,
		log:      log,
		now:      time.Now,
	}
}

// Snapshot fetches the live stats (through the cache) and classifies the
// grid connection. The import-history channel is only consulted when the
// live grid power channel is absent; a failed history fetch degrades to an
// empty history rather than failing the snapshot, since the resolver's
// manual layer can still verdict.
func (s *SolarService) Snapshot(ctx context.Context) (models.SolarSnapshot, error) {
	stats, err := fetchcache.Fetch(ctx, s.cache, cacheKeySolarStats, s.ttl,
		func(ctx context.Context) (upstream.VictronStats, error) {
			return s.victron.Stats(ctx)
		})
	if err != nil {
		return models.SolarSnapshot{}, err
	}

	var history []models.TelemetrySample
	if stats.GridPowerW == nil {
		history, err = fetchcache.Fetch(ctx, s.cache, cacheKeyGridHistory, gridHistoryTTL,
			func(ctx context.Context) ([]models.TelemetrySample, error) {
				return s.victron.GridHistory(ctx)
			})
		if err != nil {
			if s.log != nil {
				s.log.Warnw("grid history unavailable", "err", err)
			}
			history = nil
		}
	}

	status := s.resolver.Resolve(stats.GridPowerW, history, s.periods, s.now().UTC())
	return models.SolarSnapshot{
		PowerW:       stats.SolarPowerW,
		ConsumptionW: stats.ConsumptionW,
		BatterySOC:   stats.BatterySOC,
		GridPowerW:   stats.GridPowerW,
		GridStatus:   status,
		UpdatedAt:    s.now().UTC(),
	}, nil
}
