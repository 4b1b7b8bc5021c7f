package services

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/ewilliams-labs/cadence/internal/core/domain"
)

// Plausible temperature window for remote observations, in °C.
const (
	MinPlausibleTempC = -35.0
	MaxPlausibleTempC = 45.0
)

type weatherKeyword struct {
	keyword string
	weather domain.Weather
}

// weatherKeywords is evaluated in order and the first substring match wins.
// Reordering entries changes classification results.
var weatherKeywords = []weatherKeyword{
	{"clear", domain.Sunny},
	{"sunny", domain.Sunny},
	{"맑음", domain.Sunny},
	{"partly cloudy", domain.Cloudy},
	{"cloudy", domain.Cloudy},
	{"흐림", domain.Cloudy},
	{"overcast", domain.Cloudy},
	{"fog", domain.Cloudy},
	{"mist", domain.Cloudy},
	{"rain", domain.Rainy},
	{"rainy", domain.Rainy},
	{"비", domain.Rainy},
	{"drizzle", domain.Rainy},
	{"shower", domain.Rainy},
	{"소나기", domain.Rainy},
	{"snow", domain.Snowy},
	{"snowy", domain.Snowy},
	{"눈", domain.Snowy},
	{"blizzard", domain.Snowy},
	{"sleet", domain.Snowy},
	{"wind", domain.Windy},
	{"windy", domain.Windy},
	{"바람", domain.Windy},
}

// ClassifyWeather normalises a free-text description to a Weather value.
// Unmatched descriptions are cloudy.
func ClassifyWeather(description string) domain.Weather {
	lower := strings.ToLower(description)
	for _, kw := range weatherKeywords {
		if strings.Contains(lower, kw.keyword) {
			return kw.weather
		}
	}
	return domain.Cloudy
}

// PlausibleTemperature reports whether t lies inside the sanity window.
func PlausibleTemperature(t float64) bool {
	return t >= MinPlausibleTempC && t <= MaxPlausibleTempC
}

// BackupCity is a named location tried when coordinates are unavailable.
type BackupCity struct {
	Name     string
	Local    string
	Priority int
	// Query is what the weather service is asked for.
	Query string
}

// DefaultBackupCities is the priority-ordered list of backup locations.
var DefaultBackupCities = []BackupCity{
	{Name: "Seoul", Local: "서울", Priority: 1, Query: "Seoul,South Korea"},
	{Name: "Incheon", Local: "인천", Priority: 2, Query: "Incheon,South Korea"},
	{Name: "Suwon", Local: "수원", Priority: 3, Query: "Suwon,South Korea"},
	{Name: "Hwaseong", Local: "화성", Priority: 4, Query: "Hwaseong,South Korea"},
	{Name: "Goyang", Local: "고양", Priority: 5, Query: "Goyang,South Korea"},
	{Name: "Anyang", Local: "안양", Priority: 6, Query: "Anyang,South Korea"},
	{Name: "Bucheon", Local: "부천", Priority: 7, Query: "Bucheon,South Korea"},
	{Name: "Busan", Local: "부산", Priority: 8, Query: "Busan,South Korea"},
	{Name: "Daegu", Local: "대구", Priority: 9, Query: "Daegu,South Korea"},
	{Name: "Daejeon", Local: "대전", Priority: 10, Query: "Daejeon,South Korea"},
	{Name: "Gwangju", Local: "광주", Priority: 11, Query: "Gwangju,South Korea"},
	{Name: "Ulsan", Local: "울산", Priority: 12, Query: "Ulsan,South Korea"},
}

// SeasonalWeather estimates the weather from the calendar and clock alone.
// It encodes Korean seasonal climate: a July afternoon monsoon, dry autumn
// and snowy January nights.
func SeasonalWeather(now time.Time) domain.WeatherReport {
	month := now.Month()
	hour := now.Hour()

	var (
		w    domain.Weather
		desc string
		temp string
	)
	switch month {
	case time.March, time.April, time.May:
		if hour >= 6 && hour <= 18 {
			w, desc, temp = domain.Sunny, "spring clear", "15"
		} else {
			w, desc, temp = domain.Cloudy, "spring evening overcast", "10"
		}
	case time.June, time.July, time.August:
		switch {
		case month == time.July && hour >= 14 && hour <= 18:
			w, desc, temp = domain.Rainy, "monsoon season showers", "25"
		case hour >= 6 && hour <= 18:
			w, desc, temp = domain.Sunny, "summer heat", "30"
		default:
			w, desc, temp = domain.Cloudy, "humid summer night", "25"
		}
	case time.September, time.October, time.November:
		if month == time.September {
			w, desc, temp = domain.Sunny, "cool early autumn", "20"
		} else {
			w, desc, temp = domain.Cloudy, "chilly autumn", "10"
		}
	default:
		if hour < 8 || hour > 20 {
			if month == time.January {
				w, desc, temp = domain.Snowy, "midwinter snow", "-5"
			} else {
				w, desc, temp = domain.Cloudy, "winter cold snap", "0"
			}
		} else {
			w, desc, temp = domain.Cloudy, "winter overcast", "5"
		}
	}

	return domain.WeatherReport{
		Weather:     w,
		Description: fmt.Sprintf("%s, %s°C (seasonal estimate)", desc, temp),
		Location:    "current region (estimated)",
		Provenance:  domain.ProvenanceSeasonalFallback,
	}
}

func describeObservation(obs domain.Observation) (string, string) {
	desc := fmt.Sprintf("%s, %s°C", obs.Description, strconv.FormatFloat(obs.TemperatureC, 'f', -1, 64))
	location := obs.Area
	if obs.Country != "" {
		if location != "" {
			location += ", "
		}
		location += obs.Country
	}
	return desc, location
}
