package upstream

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"homewatch/internal/models"
)

// StoveClient reads the wood-stove JSON API exported by the Raspberry Pi on
// the LAN.
type StoveClient struct {
	baseURL string
	client  *http.Client
}

func NewStoveClient(baseURL string, client *http.Client) *StoveClient {
	if client == nil {
		client = NewHTTPClient()
	}
	return &StoveClient{baseURL: baseURL, client: client}
}

type stoveStatusResponse struct {
	StoveTemp float64 `json:"stove_temp"`
	FlueTemp  float64 `json:"flue_temp"`
	RoomTemp  float64 `json:"room_temp"`
	Burning   bool    `json:"burning"`
	Updated   int64   `json:"updated"` // unix seconds
}

// Status fetches the current stove readings.
func (c *StoveClient) Status(ctx context.Context) (models.StoveStatus, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/status", nil)
	if err != nil {
		return models.StoveStatus{}, fmt.Errorf("creating request: %w", err)
	}

	var resp stoveStatusResponse
	if err := doJSON(c.client, req, &resp); err != nil {
		return models.StoveStatus{}, fmt.Errorf("stove status: %w", err)
	}
	return models.StoveStatus{
		StoveTempC: resp.StoveTemp,
		FlueTempC:  resp.FlueTemp,
		RoomTempC:  resp.RoomTemp,
		Burning:    resp.Burning,
		UpdatedAt:  time.Unix(resp.Updated, 0).UTC(),
	}, nil
}
