package upstream

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"homewatch/internal/models"
)

func testForecast() []models.ForecastDay {
	return []models.ForecastDay{
		{Date: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), TempMinC: 4, TempMaxC: 12, Humidity: 80, RainMM: 5, Clouds: 90},
		{Date: time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC), TempMinC: 6, TempMaxC: 18, Humidity: 40, RainMM: 0, Clouds: 10},
	}
}

func TestLaundryClient_Advise(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer llm-key" {
			t.Errorf("Authorization = %q", got)
		}
		var req chatRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		if len(req.Messages) != 2 || !strings.Contains(req.Messages[1].Content, "2024-03-02") {
			t.Errorf("forecast missing from prompt: %+v", req.Messages)
		}
		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"{\"best_day\":\"2024-03-02\",\"reason\":\"dry and warm\"}"}}]}`))
	}))
	defer srv.Close()

	c := NewLaundryClient(LaundryConfig{BaseURL: srv.URL, APIKey: "llm-key"}, nil)
	advice, err := c.Advise(context.Background(), testForecast())
	if err != nil {
		t.Fatalf("Advise: %v", err)
	}
	if advice.BestDay.Format("2006-01-02") != "2024-03-02" {
		t.Fatalf("best day = %v", advice.BestDay)
	}
	if advice.Reason != "dry and warm" {
		t.Fatalf("reason = %q", advice.Reason)
	}
}

func TestParseAdvice(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		content string
		wantDay string
		wantErr bool
	}{
		{"bare json", `{"best_day":"2024-03-02","reason":"sunny"}`, "2024-03-02", false},
		{"fenced json", "```json\n{\"best_day\":\"2024-03-02\",\"reason\":\"sunny\"}\n```", "2024-03-02", false},
		{"prose around json", `Sure! {"best_day":"2024-03-02","reason":"sunny"} Enjoy.`, "2024-03-02", false},
		{"no json", "Tuesday looks nice.", "", true},
		{"bad date", `{"best_day":"tomorrow","reason":"sunny"}`, "", true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := parseAdvice(tc.content)
			if tc.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("parseAdvice: %v", err)
			}
			if got.BestDay.Format("2006-01-02") != tc.wantDay {
				t.Fatalf("best day = %v", got.BestDay)
			}
		})
	}
}

func TestLaundryClient_EmptyForecast(t *testing.T) {
	t.Parallel()
	c := NewLaundryClient(LaundryConfig{BaseURL: "http://unused"}, nil)
	if _, err := c.Advise(context.Background(), nil); err == nil {
		t.Fatal("expected error for empty forecast")
	}
}
