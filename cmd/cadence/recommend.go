package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/ewilliams-labs/cadence/internal/core/domain"
	"github.com/ewilliams-labs/cadence/internal/core/services"
)

type recommendFlags struct {
	emotion   string
	activity  string
	weather   string
	timeOfDay string
	city      string
	lat, lon  float64
	scenarios []int
	randomize bool
	tracks    bool
	save      bool
	asJSON    bool
}

func newRecommendCmd(c *cli) *cobra.Command {
	f := &recommendFlags{}
	cmd := &cobra.Command{
		Use:   "recommend",
		Short: "Produce one recommendation and print its analysis",
		Example: `  cadence recommend --emotion happy --activity exercise
  cadence recommend --scenario 4 --scenario 5 --city Busan --tracks
  cadence recommend --emotion calm --activity study --weather rainy --time night --json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := f.request(cmd)
			if err != nil {
				return err
			}
			svc, err := wire(cmd.Context(), c.cfg, wireOptions{history: f.save})
			if err != nil {
				return err
			}
			defer svc.Close()

			result, err := svc.Recommend(cmd.Context(), req)
			if err != nil {
				return err
			}
			return printResult(cmd.OutOrStdout(), result, f.asJSON)
		},
	}

	fl := cmd.Flags()
	fl.StringVar(&f.emotion, "emotion", "", "one of: "+joinNames(domain.AllEmotions()))
	fl.StringVar(&f.activity, "activity", "", "one of: "+joinNames(domain.AllActivities()))
	fl.StringVar(&f.weather, "weather", "", "skip the lookup and use this weather: "+joinNames(domain.AllWeathers()))
	fl.StringVar(&f.timeOfDay, "time", "", "time of day (default from the clock): "+joinNames(domain.AllTimesOfDay()))
	fl.StringVar(&f.city, "city", "", "city to look the weather up for")
	fl.Float64Var(&f.lat, "lat", 0, "latitude for the weather lookup")
	fl.Float64Var(&f.lon, "lon", 0, "longitude for the weather lookup")
	fl.IntSliceVar(&f.scenarios, "scenario", nil, "scenario id(s) to derive emotion and activity from (see 'cadence scenarios')")
	fl.BoolVar(&f.randomize, "randomize", true, "vary order and offset so repeated searches differ (--randomize=false for stable parameters)")
	fl.BoolVar(&f.tracks, "tracks", false, "search the catalogue for matching tracks")
	fl.BoolVar(&f.save, "save", false, "record the recommendation in the history database")
	fl.BoolVar(&f.asJSON, "json", false, "print JSON instead of the text analysis")
	cmd.MarkFlagsRequiredTogether("lat", "lon")
	cmd.MarkFlagsMutuallyExclusive("scenario", "emotion")
	cmd.MarkFlagsMutuallyExclusive("scenario", "activity")
	return cmd
}

func (f *recommendFlags) request(cmd *cobra.Command) (services.RecommendRequest, error) {
	req := services.RecommendRequest{Randomize: f.randomize, WithTracks: f.tracks}

	switch {
	case len(f.scenarios) > 0:
		selected := make([]domain.Scenario, 0, len(f.scenarios))
		for _, id := range f.scenarios {
			s, err := domain.ScenarioByID(id)
			if err != nil {
				return req, err
			}
			selected = append(selected, s)
		}
		e, a, err := domain.CombineScenarios(selected)
		if err != nil {
			return req, err
		}
		req.Emotion, req.Activity = e, a
	case f.emotion == "" || f.activity == "":
		return req, fmt.Errorf("either --scenario or both --emotion and --activity are required")
	default:
		var err error
		if req.Emotion, err = domain.ParseEmotion(f.emotion); err != nil {
			return req, err
		}
		if req.Activity, err = domain.ParseActivity(f.activity); err != nil {
			return req, err
		}
	}

	if f.weather != "" {
		w, err := domain.ParseWeather(f.weather)
		if err != nil {
			return req, err
		}
		req.Weather = &w
	}
	if f.timeOfDay != "" {
		t, err := domain.ParseTimeOfDay(f.timeOfDay)
		if err != nil {
			return req, err
		}
		req.TimeOfDay = &t
	}
	req.Location.City = strings.TrimSpace(f.city)
	if cmd.Flags().Changed("lat") {
		req.Location.Coordinates = &domain.Coordinates{Lat: f.lat, Lon: f.lon}
	}
	return req, nil
}

func printResult(w io.Writer, result services.RecommendResult, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}

	fmt.Fprintf(w, "Weather: %s (%s, %s) via %s\n",
		result.Weather.Weather, result.Weather.Description, result.Weather.Location, result.Weather.Provenance)
	fmt.Fprintln(w, result.Analysis)
	fmt.Fprintf(w, "Search: %s\n", result.Recommendation.APIParams.Encode())

	if result.CatalogError != "" {
		fmt.Fprintf(w, "Catalogue unavailable: %s\n", result.CatalogError)
	}
	for i, t := range result.Tracks {
		fmt.Fprintf(w, "%2d. %s - %s\n", i+1, t.Artist, t.Name)
	}
	return nil
}

func joinNames[T fmt.Stringer](values []T) string {
	names := make([]string, len(values))
	for i, v := range values {
		names[i] = v.String()
	}
	return strings.Join(names, ", ")
}
