package services

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/ewilliams-labs/cadence/internal/core/domain"
)

// TestClassifyWeather verifies first-match-wins keyword classification.
func TestClassifyWeather(t *testing.T) {
	tests := []struct {
		desc string
		want domain.Weather
	}{
		{"Sunny", domain.Sunny},
		{"Clear", domain.Sunny},
		{"맑음", domain.Sunny},
		{"Partly cloudy", domain.Cloudy},
		{"Overcast", domain.Cloudy},
		{"Mist", domain.Cloudy},
		{"Light rain", domain.Rainy},
		{"Patchy light drizzle", domain.Rainy},
		{"소나기", domain.Rainy},
		{"Heavy snow", domain.Snowy},
		{"Blizzard", domain.Snowy},
		{"Windy", domain.Windy},
		{"바람", domain.Windy},
		// "clear" appears before "rain" in the table
		{"Clearing after rain", domain.Sunny},
		// "cloudy" precedes "rain"
		{"Cloudy with rain", domain.Cloudy},
		{"Thundery outbreaks", domain.Cloudy},
		{"", domain.Cloudy},
	}
	for _, tc := range tests {
		t.Run(tc.desc, func(t *testing.T) {
			if got := ClassifyWeather(tc.desc); got != tc.want {
				t.Errorf("ClassifyWeather(%q) = %s, want %s", tc.desc, got, tc.want)
			}
		})
	}
}

func TestPlausibleTemperature(t *testing.T) {
	tests := []struct {
		temp float64
		want bool
	}{
		{-35, true}, {45, true}, {20, true},
		{-35.1, false}, {45.5, false}, {50, false},
	}
	for _, tc := range tests {
		if got := PlausibleTemperature(tc.temp); got != tc.want {
			t.Errorf("PlausibleTemperature(%v) = %v, want %v", tc.temp, got, tc.want)
		}
	}
}

// TestSeasonalWeather walks the season × hour table.
func TestSeasonalWeather(t *testing.T) {
	tests := []struct {
		name     string
		month    time.Month
		hour     int
		want     domain.Weather
		wantTemp string
	}{
		{"spring day", time.April, 12, domain.Sunny, "15°C"},
		{"spring night", time.May, 22, domain.Cloudy, "10°C"},
		{"july afternoon monsoon", time.July, 15, domain.Rainy, "25°C"},
		{"july morning", time.July, 9, domain.Sunny, "30°C"},
		{"august day", time.August, 15, domain.Sunny, "30°C"},
		{"summer night", time.June, 23, domain.Cloudy, "25°C"},
		{"september", time.September, 3, domain.Sunny, "20°C"},
		{"late autumn", time.November, 12, domain.Cloudy, "10°C"},
		{"january night", time.January, 22, domain.Snowy, "-5°C"},
		{"january early morning", time.January, 7, domain.Snowy, "-5°C"},
		{"december night", time.December, 23, domain.Cloudy, "0°C"},
		{"february day", time.February, 13, domain.Cloudy, "5°C"},
		{"january day", time.January, 8, domain.Cloudy, "5°C"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			now := time.Date(2024, tc.month, 10, tc.hour, 0, 0, 0, time.UTC)
			report := SeasonalWeather(now)
			if report.Weather != tc.want {
				t.Errorf("weather = %s, want %s", report.Weather, tc.want)
			}
			if !strings.Contains(report.Description, tc.wantTemp) {
				t.Errorf("description %q missing %s", report.Description, tc.wantTemp)
			}
			if report.Provenance != domain.ProvenanceSeasonalFallback {
				t.Errorf("provenance = %s", report.Provenance)
			}
		})
	}
}

// TestWeatherResolver_Cascade verifies stage ordering and fall-through.
func TestWeatherResolver_Cascade(t *testing.T) {
	seoul := &domain.Coordinates{Lat: 37.5665, Lon: 126.978}
	fixed := time.Date(2024, time.July, 2, 15, 0, 0, 0, time.UTC)

	tests := []struct {
		name           string
		lookup         *fakeLookup
		query          domain.WeatherQuery
		wantProvenance domain.Provenance
		wantWeather    domain.Weather
		wantCities     []string
		wantLocation   string
	}{
		{
			name: "gps succeeds",
			lookup: &fakeLookup{
				coords: domain.Observation{Description: "Light rain", TemperatureC: 18, Area: "Jung-gu", Country: "South Korea"},
			},
			query:          domain.WeatherQuery{Coordinates: seoul},
			wantProvenance: domain.ProvenanceGPS,
			wantWeather:    domain.Rainy,
			wantLocation:   "Jung-gu, South Korea",
		},
		{
			name: "gps temperature implausible falls to backup city",
			lookup: &fakeLookup{
				coords: domain.Observation{Description: "Sunny", TemperatureC: 50},
				cities: map[string]domain.Observation{
					"Seoul,South Korea": {Description: "Overcast", TemperatureC: 21, Area: "Seoul", Country: "South Korea"},
				},
			},
			query:          domain.WeatherQuery{Coordinates: seoul},
			wantProvenance: domain.ProvenanceBackupCity,
			wantWeather:    domain.Cloudy,
			wantCities:     []string{"Seoul,South Korea"},
			wantLocation:   "Seoul, South Korea",
		},
		{
			name: "gps error walks backups in priority order",
			lookup: &fakeLookup{
				coordsErr: errors.New("connection refused"),
				cities: map[string]domain.Observation{
					"Suwon,South Korea": {Description: "Heavy snow", TemperatureC: -3, Area: "Suwon"},
				},
			},
			query:          domain.WeatherQuery{Coordinates: seoul},
			wantProvenance: domain.ProvenanceBackupCity,
			wantWeather:    domain.Snowy,
			wantCities:     []string{"Seoul,South Korea", "Incheon,South Korea", "Suwon,South Korea"},
			wantLocation:   "Suwon",
		},
		{
			name: "explicit city is tried first",
			lookup: &fakeLookup{
				cities: map[string]domain.Observation{
					"Tokyo": {Description: "Windy", TemperatureC: 12, Area: "Tokyo", Country: "Japan"},
				},
			},
			query:          domain.WeatherQuery{City: "Tokyo"},
			wantProvenance: domain.ProvenanceBackupCity,
			wantWeather:    domain.Windy,
			wantCities:     []string{"Tokyo"},
			wantLocation:   "Tokyo, Japan",
		},
		{
			name:   "only first five backup cities are tried",
			lookup: &fakeLookup{},
			query:  domain.WeatherQuery{},
			// Anyang onwards must never be queried
			wantProvenance: domain.ProvenanceSeasonalFallback,
			wantWeather:    domain.Rainy,
			wantCities: []string{
				"Seoul,South Korea", "Incheon,South Korea", "Suwon,South Korea",
				"Hwaseong,South Korea", "Goyang,South Korea",
			},
			wantLocation: "current region (estimated)",
		},
		{
			name:   "explicit city uses one of the five attempts",
			lookup: &fakeLookup{},
			query:  domain.WeatherQuery{City: "Tokyo"},
			wantCities: []string{
				"Tokyo", "Seoul,South Korea", "Incheon,South Korea",
				"Suwon,South Korea", "Hwaseong,South Korea",
			},
			wantProvenance: domain.ProvenanceSeasonalFallback,
			wantWeather:    domain.Rainy,
			wantLocation:   "current region (estimated)",
		},
		{
			name:   "known city name is expanded and not repeated",
			lookup: &fakeLookup{},
			query:  domain.WeatherQuery{City: "incheon"},
			wantCities: []string{
				"Incheon,South Korea", "Seoul,South Korea", "Suwon,South Korea",
				"Hwaseong,South Korea", "Goyang,South Korea",
			},
			wantProvenance: domain.ProvenanceSeasonalFallback,
			wantWeather:    domain.Rainy,
			wantLocation:   "current region (estimated)",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			r := NewWeatherResolver(tc.lookup, ResolverConfig{
				AttemptTimeout: time.Second,
				Now:            func() time.Time { return fixed },
			})
			report := r.Resolve(context.Background(), tc.query)

			if report.Provenance != tc.wantProvenance {
				t.Errorf("provenance = %s, want %s", report.Provenance, tc.wantProvenance)
			}
			if report.Weather != tc.wantWeather {
				t.Errorf("weather = %s, want %s", report.Weather, tc.wantWeather)
			}
			if report.Location != tc.wantLocation {
				t.Errorf("location = %q, want %q", report.Location, tc.wantLocation)
			}
			got := tc.lookup.calledCities()
			if len(got) != len(tc.wantCities) {
				t.Fatalf("cities queried = %v, want %v", got, tc.wantCities)
			}
			for i := range got {
				if got[i] != tc.wantCities[i] {
					t.Errorf("city[%d] = %s, want %s", i, got[i], tc.wantCities[i])
				}
			}
		})
	}
}

func TestWeatherResolver_AttemptTimeout(t *testing.T) {
	lookup := &fakeLookup{block: true}
	r := NewWeatherResolver(lookup, ResolverConfig{
		AttemptTimeout: 10 * time.Millisecond,
		BackupAttempts: 1,
	})

	start := time.Now()
	report := r.Resolve(context.Background(), domain.WeatherQuery{Coordinates: &domain.Coordinates{Lat: 1, Lon: 1}})
	if report.Provenance != domain.ProvenanceSeasonalFallback {
		t.Fatalf("provenance = %s, want seasonal fallback", report.Provenance)
	}
	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Fatalf("attempts were not bounded: took %v", elapsed)
	}
	if n := len(lookup.calledCities()); n != 1 {
		t.Fatalf("expected one backup attempt, got %d", n)
	}
}

func TestWeatherResolver_NilLookupIsOffline(t *testing.T) {
	r := NewWeatherResolver(nil, ResolverConfig{})
	report := r.Resolve(context.Background(), domain.WeatherQuery{City: "Seoul"})
	if report.Provenance != domain.ProvenanceSeasonalFallback {
		t.Fatalf("provenance = %s", report.Provenance)
	}
}

func TestWeatherResolver_EmptyStrategiesStillAnswer(t *testing.T) {
	r := NewWeatherResolverWithStrategies()
	report := r.Resolve(context.Background(), domain.WeatherQuery{})
	if !report.Weather.Valid() || report.Provenance != domain.ProvenanceSeasonalFallback {
		t.Fatalf("unexpected report %+v", report)
	}
}

// --- Fakes ---

// fakeLookup is a scripted weather service.
type fakeLookup struct {
	coords    domain.Observation
	coordsErr error
	cities    map[string]domain.Observation
	block     bool

	mu     sync.Mutex
	called []string
}

func (f *fakeLookup) ByCoordinates(ctx context.Context, lat, lon float64) (domain.Observation, error) {
	if f.block {
		<-ctx.Done()
		return domain.Observation{}, ctx.Err()
	}
	if f.coordsErr != nil {
		return domain.Observation{}, f.coordsErr
	}
	if f.coords.Description == "" {
		return domain.Observation{}, errors.New("no coordinate data")
	}
	return f.coords, nil
}

func (f *fakeLookup) ByCity(ctx context.Context, city string) (domain.Observation, error) {
	f.mu.Lock()
	f.called = append(f.called, city)
	f.mu.Unlock()
	if f.block {
		<-ctx.Done()
		return domain.Observation{}, ctx.Err()
	}
	obs, ok := f.cities[city]
	if !ok {
		return domain.Observation{}, errors.New("status 503")
	}
	return obs, nil
}

func (f *fakeLookup) calledCities() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.called...)
}
