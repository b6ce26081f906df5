package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"sync"
	"time"

	"homewatch/internal/models"
)

// VictronConfig configures the VRM cloud client.
type VictronConfig struct {
	BaseURL        string
	Username       string
	Password       string
	InstallationID string
}

// VictronClient talks to the Victron VRM API. VRM logins issue a bearer
// token; the client logs in lazily, keeps the token, and on a 401 re-logins
// once and retries the call.
type VictronClient struct {
	cfg    VictronConfig
	client *http.Client

	mu    sync.Mutex
	token string
}

// NewVictronClient creates a VRM client. If baseURL is empty it defaults to
// the public VRM endpoint.
func NewVictronClient(cfg VictronConfig, client *http.Client) *VictronClient {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://vrmapi.victronenergy.com"
	}
	if client == nil {
		client = NewHTTPClient()
	}
	return &VictronClient{cfg: cfg, client: client}
}

// VictronStats is the live system overview for the installation. GridPowerW
// is nil when the grid power channel is absent from the payload, which
// happens whenever the grid meter is offline.
type VictronStats struct {
	SolarPowerW  float64
	ConsumptionW float64
	BatterySOC   float64
	GridPowerW   *float64
}

type vrmLoginResponse struct {
	Token string `json:"token"`
}

type vrmStatsResponse struct {
	Records struct {
		SolarPowerW  float64  `json:"solar_power"`
		ConsumptionW float64  `json:"consumption"`
		BatterySOC   float64  `json:"battery_soc"`
		GridPowerW   *float64 `json:"grid_power"`
	} `json:"records"`
}

type vrmHistoryResponse struct {
	Records struct {
		GridHistoryFrom [][]float64 `json:"grid_history_from"`
	} `json:"records"`
}

// Stats fetches the live channels for the installation.
func (c *VictronClient) Stats(ctx context.Context) (VictronStats, error) {
	var resp vrmStatsResponse
	path := fmt.Sprintf("/v2/installations/%s/stats?type=live_feed", c.cfg.InstallationID)
	if err := c.authed(ctx, path, &resp); err != nil {
		return VictronStats{}, fmt.Errorf("victron stats: %w", err)
	}
	return VictronStats{
		SolarPowerW:  resp.Records.SolarPowerW,
		ConsumptionW: resp.Records.ConsumptionW,
		BatterySOC:   resp.Records.BatterySOC,
		GridPowerW:   resp.Records.GridPowerW,
	}, nil
}

// GridHistory fetches the cumulative grid-import counter, ordered by
// timestamp ascending. Samples are (unix seconds, kWh) pairs on the wire;
// malformed pairs are skipped.
func (c *VictronClient) GridHistory(ctx context.Context) ([]models.TelemetrySample, error) {
	var resp vrmHistoryResponse
	path := fmt.Sprintf("/v2/installations/%s/stats?type=kwh&attributeCodes[]=grid_history_from", c.cfg.InstallationID)
	if err := c.authed(ctx, path, &resp); err != nil {
		return nil, fmt.Errorf("victron grid history: %w", err)
	}

	out := make([]models.TelemetrySample, 0, len(resp.Records.GridHistoryFrom))
	for _, pair := range resp.Records.GridHistoryFrom {
		if len(pair) < 2 {
			continue
		}
		out = append(out, models.TelemetrySample{
			Timestamp: time.Unix(int64(pair[0]), 0).UTC(),
			Value:     pair[1],
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Timestamp.Before(out[j].Timestamp) })
	return out, nil
}

// authed performs a token-authenticated GET, logging in first if needed and
// retrying exactly once after a 401.
func (c *VictronClient) authed(ctx context.Context, path string, out any) error {
	token, err := c.ensureToken(ctx)
	if err != nil {
		return err
	}

	err = c.doAuthed(ctx, token, path, out)
	var se *StatusError
	if errors.As(err, &se) && se.StatusCode == http.StatusUnauthorized {
		c.dropToken(token)
		token, err = c.ensureToken(ctx)
		if err != nil {
			return err
		}
		return c.doAuthed(ctx, token, path, out)
	}
	return err
}

func (c *VictronClient) doAuthed(ctx context.Context, token, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.BaseURL+path, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("X-Authorization", "Bearer "+token)
	return doJSON(c.client, req, out)
}

// ensureToken returns the cached token or logs in to obtain one.
func (c *VictronClient) ensureToken(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.token != "" {
		return c.token, nil
	}

	body, err := json.Marshal(map[string]string{
		"username": c.cfg.Username,
		"password": c.cfg.Password,
	})
	if err != nil {
		return "", err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+"/v2/auth/login", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("creating login request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	var resp vrmLoginResponse
	if err := doJSON(c.client, req, &resp); err != nil {
		return "", fmt.Errorf("victron login: %w", err)
	}
	if resp.Token == "" {
		return "", errors.New("victron login: empty token")
	}
	c.token = resp.Token
	return c.token, nil
}

// dropToken forgets the token, but only if nobody replaced it already.
func (c *VictronClient) dropToken(stale string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.token == stale {
		c.token = ""
	}
}
