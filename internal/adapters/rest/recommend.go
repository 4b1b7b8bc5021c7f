package rest

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/ewilliams-labs/cadence/internal/core/domain"
	"github.com/ewilliams-labs/cadence/internal/core/services"
)

type recommendRequest struct {
	Emotion     string   `json:"emotion" validate:"required_without=ScenarioIDs,emotion"`
	Activity    string   `json:"activity" validate:"required_without=ScenarioIDs,activity"`
	ScenarioIDs []int    `json:"scenario_ids" validate:"omitempty,max=19,dive,min=1,max=19"`
	Weather     string   `json:"weather" validate:"weather"`
	TimeOfDay   string   `json:"time_of_day" validate:"timeofday"`
	Lat         *float64 `json:"lat" validate:"omitempty,gte=-90,lte=90"`
	Lon         *float64 `json:"lon" validate:"omitempty,gte=-180,lte=180"`
	City        string   `json:"city" validate:"max=100"`
	Randomize   *bool    `json:"randomize"`
	Tracks      bool     `json:"tracks"`
}

// toService parses the enum names. Scenario ids, when present, take
// precedence over emotion and activity. Randomization is on unless the body
// sets it to false.
func (req recommendRequest) toService() (services.RecommendRequest, error) {
	out := services.RecommendRequest{
		Randomize:  req.Randomize == nil || *req.Randomize,
		WithTracks: req.Tracks,
	}

	if len(req.ScenarioIDs) > 0 {
		selected := make([]domain.Scenario, 0, len(req.ScenarioIDs))
		for _, id := range req.ScenarioIDs {
			s, err := domain.ScenarioByID(id)
			if err != nil {
				return out, err
			}
			selected = append(selected, s)
		}
		emotion, activity, err := domain.CombineScenarios(selected)
		if err != nil {
			return out, err
		}
		out.Emotion, out.Activity = emotion, activity
	} else {
		var err error
		if out.Emotion, err = domain.ParseEmotion(req.Emotion); err != nil {
			return out, err
		}
		if out.Activity, err = domain.ParseActivity(req.Activity); err != nil {
			return out, err
		}
	}

	if req.Weather != "" {
		w, err := domain.ParseWeather(req.Weather)
		if err != nil {
			return out, err
		}
		out.Weather = &w
	}
	if req.TimeOfDay != "" {
		t, err := domain.ParseTimeOfDay(req.TimeOfDay)
		if err != nil {
			return out, err
		}
		out.TimeOfDay = &t
	}

	q, err := weatherQuery(req.Lat, req.Lon, req.City)
	if err != nil {
		return out, err
	}
	out.Location = q
	return out, nil
}

func weatherQuery(lat, lon *float64, city string) (domain.WeatherQuery, error) {
	if (lat == nil) != (lon == nil) {
		return domain.WeatherQuery{}, &domain.InvalidInputError{Field: "coordinates", Value: "lat and lon must be given together"}
	}
	q := domain.WeatherQuery{City: strings.TrimSpace(city)}
	if lat != nil {
		q.Coordinates = &domain.Coordinates{Lat: *lat, Lon: *lon}
	}
	return q, nil
}

// Recommend handles POST /recommend
func (h *Handler) Recommend(w http.ResponseWriter, r *http.Request) {
	var req recommendRequest
	if !decodeBody(w, r, &req) {
		return
	}

	svcReq, err := req.toService()
	if err != nil {
		writeServiceError(w, err)
		return
	}

	result, err := h.svc.Recommend(r.Context(), svcReq)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if result.Recommendation.ID != "" {
		w.Header().Set("Location", "/recommendations/"+result.Recommendation.ID)
	}
	writeJSON(w, http.StatusOK, result)
}

// Weather handles GET /weather?lat=&lon=&city=
func (h *Handler) Weather(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	lat, err := optionalFloat(query.Get("lat"), "lat", -90, 90)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	lon, err := optionalFloat(query.Get("lon"), "lon", -180, 180)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	q, err := weatherQuery(lat, lon, query.Get("city"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, h.svc.ResolveWeather(r.Context(), q))
}

func optionalFloat(raw, field string, lo, hi float64) (*float64, error) {
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || v < lo || v > hi {
		return nil, &domain.InvalidInputError{Field: field, Value: raw}
	}
	return &v, nil
}

// Scenarios handles GET /scenarios
func (h *Handler) Scenarios(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, domain.Scenarios())
}
