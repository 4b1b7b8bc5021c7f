package wttr_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/ewilliams-labs/cadence/internal/adapters/wttr"
	"github.com/ewilliams-labs/cadence/internal/core/domain"
)

const seoulPayload = `{
  "current_condition": [{"temp_C": "21", "weatherDesc": [{"value": "Partly cloudy"}]}],
  "nearest_area": [{"areaName": [{"value": "Seoul"}], "country": [{"value": "South Korea"}]}]
}`

func TestClient_ByCity(t *testing.T) {
	tests := []struct {
		name       string
		city       string
		status     int
		body       string
		wantPath   string
		wantErr    bool
		wantResult domain.Observation
	}{
		{
			name:     "happy path",
			city:     "Seoul,South Korea",
			status:   http.StatusOK,
			body:     seoulPayload,
			wantPath: "/Seoul%2CSouth%20Korea",
			wantResult: domain.Observation{
				Description: "Partly cloudy", TemperatureC: 21, Area: "Seoul", Country: "South Korea",
			},
		},
		{
			name:     "negative temperature without area",
			city:     "Incheon",
			status:   http.StatusOK,
			body:     `{"current_condition":[{"temp_C":"-7","weatherDesc":[{"value":"Light snow"}]}]}`,
			wantPath: "/Incheon",
			wantResult: domain.Observation{
				Description: "Light snow", TemperatureC: -7,
			},
		},
		{
			name:     "server error",
			city:     "Busan",
			status:   http.StatusServiceUnavailable,
			body:     `{}`,
			wantPath: "/Busan",
			wantErr:  true,
		},
		{
			name:     "missing current condition",
			city:     "Ulsan",
			status:   http.StatusOK,
			body:     `{"current_condition":[]}`,
			wantPath: "/Ulsan",
			wantErr:  true,
		},
		{
			name:     "non numeric temperature",
			city:     "Daegu",
			status:   http.StatusOK,
			body:     `{"current_condition":[{"temp_C":"n/a","weatherDesc":[{"value":"Sunny"}]}]}`,
			wantPath: "/Daegu",
			wantErr:  true,
		},
		{
			name:     "malformed json",
			city:     "Daejeon",
			status:   http.StatusOK,
			body:     `{"current_condition":`,
			wantPath: "/Daejeon",
			wantErr:  true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var gotPath, gotFormat string
			ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotPath = r.URL.EscapedPath()
				gotFormat = r.URL.Query().Get("format")
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tc.status)
				_, _ = w.Write([]byte(tc.body))
			}))
			defer ts.Close()

			client := wttr.NewClient(ts.Client(), wttr.Config{BaseURL: ts.URL})
			got, err := client.ByCity(context.Background(), tc.city)
			if (err != nil) != tc.wantErr {
				t.Fatalf("unexpected error state: got err=%v wantErr=%v", err, tc.wantErr)
			}
			if gotPath != tc.wantPath {
				t.Errorf("path: got %s, want %s", gotPath, tc.wantPath)
			}
			if gotFormat != "j1" {
				t.Errorf("format: got %q, want j1", gotFormat)
			}
			if !tc.wantErr && got != tc.wantResult {
				t.Errorf("observation: got %+v, want %+v", got, tc.wantResult)
			}
		})
	}
}

func TestClient_ByCoordinates(t *testing.T) {
	var gotPath string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		_, _ = w.Write([]byte(seoulPayload))
	}))
	defer ts.Close()

	client := wttr.NewClient(ts.Client(), wttr.Config{BaseURL: ts.URL})
	obs, err := client.ByCoordinates(context.Background(), 37.5665, 126.978)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotPath != "/37.5665,126.9780" {
		t.Errorf("path = %s", gotPath)
	}
	if obs.Area != "Seoul" {
		t.Errorf("area = %s", obs.Area)
	}
}

func TestClient_EmptyCityRejected(t *testing.T) {
	client := wttr.NewClient(nil, wttr.Config{BaseURL: "http://127.0.0.1:1"})
	_, err := client.ByCity(context.Background(), "  ")
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

// TestClient_BreakerOpens verifies repeated failures short-circuit further calls.
func TestClient_BreakerOpens(t *testing.T) {
	var hits int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer ts.Close()

	client := wttr.NewClient(ts.Client(), wttr.Config{
		BaseURL:        ts.URL,
		BreakerTrips:   2,
		BreakerTimeout: time.Hour,
	})
	for i := 0; i < 2; i++ {
		if _, err := client.ByCity(context.Background(), "Seoul"); err == nil {
			t.Fatalf("call %d: expected error", i)
		}
	}
	_, err := client.ByCity(context.Background(), "Seoul")
	if !errors.Is(err, gobreaker.ErrOpenState) {
		t.Fatalf("expected open circuit, got %v", err)
	}
	if got := atomic.LoadInt32(&hits); got != 2 {
		t.Fatalf("server hits = %d, want 2", got)
	}
}

func TestClient_HonoursContextDeadline(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer ts.Close()

	client := wttr.NewClient(ts.Client(), wttr.Config{BaseURL: ts.URL})
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	if _, err := client.ByCity(ctx, "Seoul"); err == nil {
		t.Fatal("expected deadline error")
	}
}
