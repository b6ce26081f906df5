package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"homewatch/internal/models"
)

// LaundryConfig configures the chat-completions advisor. Any
// OpenAI-compatible endpoint works.
type LaundryConfig struct {
	BaseURL string
	APIKey  string
	Model   string
}

// LaundryClient asks an LLM which forecast day is best for drying laundry
// outside. One structured question, one structured answer; the model is
// treated as a black box.
type LaundryClient struct {
	cfg    LaundryConfig
	client *http.Client
}

func NewLaundryClient(cfg LaundryConfig, client *http.Client) *LaundryClient {
	if cfg.Model == "" {
		cfg.Model = "gpt-4o-mini"
	}
	if client == nil {
		client = NewHTTPClient()
	}
	return &LaundryClient{cfg: cfg, client: client}
}

const laundrySystemPrompt = `You pick the best day to dry laundry outdoors. ` +
	`Answer with a single JSON object {"best_day":"YYYY-MM-DD","reason":"..."} and nothing else. ` +
	`Prefer dry, warm, low-humidity days.`

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

type adviceJSON struct {
	BestDay string `json:"best_day"`
	Reason  string `json:"reason"`
}

// Advise asks the model for the best laundry day given the forecast.
func (c *LaundryClient) Advise(ctx context.Context, forecast []models.ForecastDay) (models.LaundryAdvice, error) {
	if len(forecast) == 0 {
		return models.LaundryAdvice{}, errors.New("laundry advice: empty forecast")
	}

	body, err := json.Marshal(chatRequest{
		Model: c.cfg.Model,
		Messages: []chatMessage{
			{Role: "system", Content: laundrySystemPrompt},
			{Role: "user", Content: forecastPrompt(forecast)},
		},
	})
	if err != nil {
		return models.LaundryAdvice{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.cfg.BaseURL+"/v1/chat/completions", bytes.NewReader(body))
	if err != nil {
		return models.LaundryAdvice{}, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)

	var resp chatResponse
	if err := doJSON(c.client, req, &resp); err != nil {
		return models.LaundryAdvice{}, fmt.Errorf("laundry advice: %w", err)
	}
	if len(resp.Choices) == 0 {
		return models.LaundryAdvice{}, errors.New("laundry advice: no choices in response")
	}
	return parseAdvice(resp.Choices[0].Message.Content)
}

// forecastPrompt renders the forecast as compact one-line-per-day text.
func forecastPrompt(forecast []models.ForecastDay) string {
	var b strings.Builder
	b.WriteString("Forecast:\n")
	for _, d := range forecast {
		fmt.Fprintf(&b, "%s: min %.1fC max %.1fC humidity %.0f%% rain %.1fmm clouds %.0f%%\n",
			d.Date.Format("2006-01-02"), d.TempMinC, d.TempMaxC, d.Humidity, d.RainMM, d.Clouds)
	}
	return b.String()
}

// parseAdvice extracts the JSON verdict from the model output, tolerating
// surrounding prose or markdown fences.
func parseAdvice(content string) (models.LaundryAdvice, error) {
	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start < 0 || end <= start {
		return models.LaundryAdvice{}, fmt.Errorf("laundry advice: no JSON object in %q", content)
	}

	var a adviceJSON
	if err := json.Unmarshal([]byte(content[start:end+1]), &a); err != nil {
		return models.LaundryAdvice{}, fmt.Errorf("laundry advice: parse verdict: %w", err)
	}
	day, err := time.Parse("2006-01-02", a.BestDay)
	if err != nil {
		return models.LaundryAdvice{}, fmt.Errorf("laundry advice: best_day %q: %w", a.BestDay, err)
	}
	return models.LaundryAdvice{
		BestDay:   day,
		Reason:    a.Reason,
		CreatedAt: time.Now().UTC(),
	}, nil
}
