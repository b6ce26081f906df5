package upstream

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestShellyClient_Readings(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/device/all_status" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if err := r.ParseForm(); err != nil {
			t.Fatalf("parse form: %v", err)
		}
		if r.PostForm.Get("auth_key") != "key123" {
			t.Errorf("auth_key = %q", r.PostForm.Get("auth_key"))
		}
		_, _ = w.Write([]byte(`{
			"isok": true,
			"data": {"devices_status": {
				"aaa111": {"_updated":"2024-03-01 10:30:00","tmp":{"value":21.4},"hum":{"value":48},"bat":{"value":92}},
				"bbb222": {"_updated":"2024-03-01 10:31:00","tmp":{"value":18.0},"hum":{"value":60},"bat":{"value":77}}
			}}
		}`))
	}))
	defer srv.Close()

	c := NewShellyClient(ShellyConfig{
		BaseURL: srv.URL,
		AuthKey: "key123",
		Devices: map[string]string{
			"aaa111": "Living room",
			"bbb222": "Cellar",
			"ccc333": "Offline shed", // not in the response
		},
	}, nil)

	readings, err := c.Readings(context.Background())
	if err != nil {
		t.Fatalf("Readings: %v", err)
	}
	if len(readings) != 2 {
		t.Fatalf("expected 2 readings, got %d", len(readings))
	}
	// Sorted by name: Cellar before Living room.
	if readings[0].Name != "Cellar" || readings[1].Name != "Living room" {
		t.Fatalf("unexpected order: %+v", readings)
	}
	if readings[1].TempC != 21.4 || readings[1].Humidity != 48 || readings[1].Battery != 92 {
		t.Fatalf("unexpected living room reading: %+v", readings[1])
	}
	if readings[0].UpdatedAt.IsZero() {
		t.Fatal("updated timestamp not parsed")
	}
}

func TestShellyClient_NotOK(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"isok": false}`))
	}))
	defer srv.Close()

	c := NewShellyClient(ShellyConfig{BaseURL: srv.URL}, nil)
	if _, err := c.Readings(context.Background()); err == nil {
		t.Fatal("expected error on isok=false")
	}
}

func TestStoveClient_Status(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/status" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		_, _ = w.Write([]byte(`{"stove_temp":186.5,"flue_temp":240.1,"room_temp":22.3,"burning":true,"updated":1714000000}`))
	}))
	defer srv.Close()

	st, err := NewStoveClient(srv.URL, nil).Status(context.Background())
	if err != nil {
		t.Fatalf("Status: %v", err)
	}
	if st.StoveTempC != 186.5 || !st.Burning {
		t.Fatalf("unexpected status: %+v", st)
	}
	if st.UpdatedAt.Unix() != 1714000000 {
		t.Fatalf("unexpected timestamp: %v", st.UpdatedAt)
	}
}
