package service

import (
	"context"
	"time"

	"homewatch/internal/fetchcache"
	"homewatch/internal/gridstatus"
	"homewatch/internal/logger"
	"homewatch/internal/models"
	"homewatch/internal/repository"
	"homewatch/internal/upstream"
)

type Authorization interface {
	SignUp(ctx context.Context, username, password string) (int, error)
	GenerateToken(ctx context.Context, username, password string) (string, error)
	ParseToken(accessToken string) (int, error)
}

// Solar exposes the inverter snapshot including the resolved grid status.
type Solar interface {
	Snapshot(ctx context.Context) (models.SolarSnapshot, error)
}

// Sensors exposes the Shelly temperature/humidity readings.
type Sensors interface {
	Readings(ctx context.Context) ([]models.SensorReading, error)
}

// Stove exposes the wood-stove readings.
type Stove interface {
	Status(ctx context.Context) (models.StoveStatus, error)
}

// Weather exposes the daily forecast.
type Weather interface {
	Forecast(ctx context.Context) ([]models.ForecastDay, error)
}

// Laundry exposes the best-laundry-day advice.
type Laundry interface {
	Advice(ctx context.Context) (models.LaundryAdvice, error)
}

// Gas exposes the manually maintained gas-bottle tracker.
type Gas interface {
	List(ctx context.Context) ([]models.GasBottle, error)
	Add(ctx context.Context, p GasParams) (models.GasBottle, error)
	UpdateLevel(ctx context.Context, id string, levelPct float64, note string) (models.GasBottle, error)
	Swap(ctx context.Context, p GasParams) (models.GasBottle, error)
	Delete(ctx context.Context, id string) error
}

// Dashboard aggregates every section in one call.
type Dashboard interface {
	Snapshot(ctx context.Context) models.Dashboard
}

// History exposes the recorded telemetry rows for charts.
type History interface {
	Range(ctx context.Context, from, to time.Time) ([]models.Reading, error)
}

// Recorder runs the background sampling loop. Stop via context cancellation
// in main() for graceful shutdown.
type Recorder interface {
	Run(ctx context.Context, tick time.Duration)
}

// Upstream client seams, implemented by internal/upstream and stubbed in tests.

type VictronAPI interface {
	Stats(ctx context.Context) (upstream.VictronStats, error)
	GridHistory(ctx context.Context) ([]models.TelemetrySample, error)
}

type ShellyAPI interface {
	Readings(ctx context.Context) ([]models.SensorReading, error)
}

type StoveAPI interface {
	Status(ctx context.Context) (models.StoveStatus, error)
}

type WeatherAPI interface {
	Forecast(ctx context.Context) ([]models.ForecastDay, error)
}

type LaundryAPI interface {
	Advise(ctx context.Context, forecast []models.ForecastDay) (models.LaundryAdvice, error)
}

// TTLs are the per-endpoint cache windows. Upstream data is "fresh as of
// TTL", never real-time.
type TTLs struct {
	Solar   time.Duration
	Sensors time.Duration
	Stove   time.Duration
	Weather time.Duration
	Laundry time.Duration
}

// DefaultTTLs mirrors how aggressively each upstream rate-limits.
func DefaultTTLs() TTLs {
	return TTLs{
		Solar:   time.Minute,
		Sensors: 2 * time.Minute,
		Stove:   time.Minute,
		Weather: 30 * time.Minute,
		Laundry: 6 * time.Hour,
	}
}

// Deps carries everything the service layer is wired with.
type Deps struct {
	Repos       *repository.Repository
	Cache       *fetchcache.Cache
	Resolver    *gridstatus.Resolver
	GridPeriods []models.GridPeriod

	Victron VictronAPI
	Shelly  ShellyAPI
	Stove   StoveAPI
	Weather WeatherAPI
	Laundry LaundryAPI

	TTLs       TTLs
	JWTKey     string
	OutdoorRef string // sensor name used as the outdoor temperature in history rows

	Log *logger.Logger
}

// Service aggregates all sub-services.
type Service struct {
	Solar
	Sensors
	Stove
	Weather
	Laundry
	Gas
	Dashboard
	History
	Recorder
	Authorization
}

func NewService(d Deps) *Service {
	solar := NewSolarService(d.Cache, d.Victron, d.Resolver, d.GridPeriods, d.TTLs.Solar, d.Log)
	sensors := NewSensorService(d.Cache, d.Shelly, d.TTLs.Sensors)
	stove := NewStoveService(d.Cache, d.Stove, d.TTLs.Stove)
	weather := NewWeatherService(d.Cache, d.Weather, d.TTLs.Weather)
	dashboard := NewDashboardService(solar, sensors, stove, weather)

	return &Service{
		Solar:         solar,
		Sensors:       sensors,
		Stove:         stove,
		Weather:       weather,
		Laundry:       NewLaundryService(d.Cache, d.Laundry, weather, d.TTLs.Laundry),
		Gas:           NewGasService(d.Repos.Gas),
		Dashboard:     dashboard,
		History:       NewHistoryService(d.Repos.Readings),
		Recorder:      NewRecorderService(dashboard, d.Repos.Readings, d.OutdoorRef, d.Log),
		Authorization: NewAuthService(d.Repos.Auth, d.JWTKey),
	}
}
