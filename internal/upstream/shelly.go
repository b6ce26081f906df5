package upstream

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"homewatch/internal/models"
)

// ShellyConfig configures the Shelly cloud client. Devices maps device id to
// the human-readable room name shown on the dashboard.
type ShellyConfig struct {
	BaseURL string
	AuthKey string
	Devices map[string]string
}

// ShellyClient fetches temperature/humidity readings from the Shelly cloud
// bulk status endpoint. Shelly rate-limits this endpoint aggressively, so
// callers go through the fetch cache.
type ShellyClient struct {
	cfg    ShellyConfig
	client *http.Client
}

func NewShellyClient(cfg ShellyConfig, client *http.Client) *ShellyClient {
	if client == nil {
		client = NewHTTPClient()
	}
	return &ShellyClient{cfg: cfg, client: client}
}

const shellyUpdatedLayout = "2006-01-02 15:04:05"

type shellyStatusResponse struct {
	IsOK bool `json:"isok"`
	Data struct {
		DevicesStatus map[string]shellyDeviceStatus `json:"devices_status"`
	} `json:"data"`
}

type shellyDeviceStatus struct {
	Updated string `json:"_updated"`
	Tmp     struct {
		Value float64 `json:"value"`
	} `json:"tmp"`
	Hum struct {
		Value float64 `json:"value"`
	} `json:"hum"`
	Bat struct {
		Value int `json:"value"`
	} `json:"bat"`
}

// Readings fetches the status of every configured device. Devices missing
// from the response are skipped; the remaining readings come back sorted by
// name for stable rendering.
func (c *ShellyClient) Readings(ctx context.Context) ([]models.SensorReading, error) {
	form := url.Values{}
	form.Set("auth_key", c.cfg.AuthKey)
	for id := range c.cfg.Devices {
		form.Add("id", id)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.cfg.BaseURL+"/device/all_status", strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	var resp shellyStatusResponse
	if err := doJSON(c.client, req, &resp); err != nil {
		return nil, fmt.Errorf("shelly status: %w", err)
	}
	if !resp.IsOK {
		return nil, fmt.Errorf("shelly status: isok=false")
	}

	out := make([]models.SensorReading, 0, len(c.cfg.Devices))
	for id, name := range c.cfg.Devices {
		st, ok := resp.Data.DevicesStatus[id]
		if !ok {
			continue
		}
		updated, err := time.Parse(shellyUpdatedLayout, st.Updated)
		if err != nil {
			updated = time.Time{}
		}
		out = append(out, models.SensorReading{
			DeviceID:  id,
			Name:      name,
			TempC:     st.Tmp.Value,
			Humidity:  st.Hum.Value,
			Battery:   st.Bat.Value,
			UpdatedAt: updated.UTC(),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}
