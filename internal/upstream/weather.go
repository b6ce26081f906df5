package upstream

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"homewatch/internal/models"
)

// WeatherConfig configures the OpenWeather daily-forecast client.
type WeatherConfig struct {
	BaseURL string
	APIKey  string
	Lat     float64
	Lon     float64
	Days    int
}

// WeatherClient fetches the daily forecast from OpenWeather.
type WeatherClient struct {
	cfg    WeatherConfig
	client *http.Client
}

func NewWeatherClient(cfg WeatherConfig, client *http.Client) *WeatherClient {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.openweathermap.org"
	}
	if cfg.Days <= 0 {
		cfg.Days = 7
	}
	if client == nil {
		client = NewHTTPClient()
	}
	return &WeatherClient{cfg: cfg, client: client}
}

type owForecastResponse struct {
	List []struct {
		Dt   int64 `json:"dt"`
		Temp struct {
			Min float64 `json:"min"`
			Max float64 `json:"max"`
		} `json:"temp"`
		Humidity float64 `json:"humidity"`
		Rain     float64 `json:"rain"`
		Clouds   float64 `json:"clouds"`
	} `json:"list"`
}

// Forecast fetches the configured number of forecast days.
func (c *WeatherClient) Forecast(ctx context.Context) ([]models.ForecastDay, error) {
	q := url.Values{}
	q.Set("lat", strconv.FormatFloat(c.cfg.Lat, 'f', -1, 64))
	q.Set("lon", strconv.FormatFloat(c.cfg.Lon, 'f', -1, 64))
	q.Set("cnt", strconv.Itoa(c.cfg.Days))
	q.Set("units", "metric")
	q.Set("appid", c.cfg.APIKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.cfg.BaseURL+"/data/2.5/forecast/daily?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	var resp owForecastResponse
	if err := doJSON(c.client, req, &resp); err != nil {
		return nil, fmt.Errorf("openweather forecast: %w", err)
	}

	out := make([]models.ForecastDay, 0, len(resp.List))
	for _, d := range resp.List {
		out = append(out, models.ForecastDay{
			Date:     time.Unix(d.Dt, 0).UTC().Truncate(24 * time.Hour),
			TempMinC: d.Temp.Min,
			TempMaxC: d.Temp.Max,
			Humidity: d.Humidity,
			RainMM:   d.Rain,
			Clouds:   d.Clouds,
		})
	}
	return out, nil
}
