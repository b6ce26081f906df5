package service

import (
	"context"
	"time"

	"homewatch/internal/fetchcache"
	"homewatch/internal/models"
)

// The sensor, stove and weather services are the same shape: one upstream
// call behind one cache key.

type SensorService struct {
	cache  *fetchcache.Cache
	shelly ShellyAPI
	ttl    time.Duration
}

func NewSensorService(cache *fetchcache.Cache, shelly ShellyAPI, ttl time.Duration) *SensorService {
	return &SensorService{cache: cache, shelly: shelly, ttl: ttl}
}

func (s *SensorService) Readings(ctx context.Context) ([]models.SensorReading, error) {
	return fetchcache.Fetch(ctx, s.cache, "shelly:status", s.ttl,
		func(ctx context.Context) ([]models.SensorReading, error) {
			return s.shelly.Readings(ctx)
		})
}

type StoveService struct {
	cache *fetchcache.Cache
	stove StoveAPI
	ttl   time.Duration
}

func NewStoveService(cache *fetchcache.Cache, stove StoveAPI, ttl time.Duration) *StoveService {
	return &StoveService{cache: cache, stove: stove, ttl: ttl}
}

func (s *StoveService) Status(ctx context.Context) (models.StoveStatus, error) {
	return fetchcache.Fetch(ctx, s.cache, "stove:status", s.ttl,
		func(ctx context.Context) (models.StoveStatus, error) {
			return s.stove.Status(ctx)
		})
}

type WeatherService struct {
	cache   *fetchcache.Cache
	weather WeatherAPI
	ttl     time.Duration
}

func NewWeatherService(cache *fetchcache.Cache, weather WeatherAPI, ttl time.Duration) *WeatherService {
	return &WeatherService{cache: cache, weather: weather, ttl: ttl}
}

func (s *WeatherService) Forecast(ctx context.Context) ([]models.ForecastDay, error) {
	return fetchcache.Fetch(ctx, s.cache, "openweather:daily", s.ttl,
		func(ctx context.Context) ([]models.ForecastDay, error) {
			return s.weather.Forecast(ctx)
		})
}

// LaundryService feeds the cached forecast to the advisor. The long TTL is
// deliberate: one LLM call per window, the forecast doesn't change faster.
type LaundryService struct {
	cache   *fetchcache.Cache
	advisor LaundryAPI
	weather Weather
	ttl     time.Duration
}

func NewLaundryService(cache *fetchcache.Cache, advisor LaundryAPI, weather Weather, ttl time.Duration) *LaundryService {
	return &LaundryService{cache: cache, advisor: advisor, weather: weather, ttl: ttl}
}

func (s *LaundryService) Advice(ctx context.Context) (models.LaundryAdvice, error) {
	return fetchcache.Fetch(ctx, s.cache, "laundry:advice", s.ttl,
		func(ctx context.Context) (models.LaundryAdvice, error) {
			forecast, err := s.weather.Forecast(ctx)
			if err != nil {
				return models.LaundryAdvice{}, err
			}
			return s.advisor.Advise(ctx, forecast)
		})
}
