package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ewilliams-labs/cadence/internal/core/domain"
)

func newWeatherCmd(c *cli) *cobra.Command {
	var (
		city     string
		lat, lon float64
	)
	cmd := &cobra.Command{
		Use:   "weather",
		Short: "Resolve the current weather through the fallback cascade",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := wire(cmd.Context(), c.cfg, wireOptions{})
			if err != nil {
				return err
			}
			defer svc.Close()

			q := domain.WeatherQuery{City: strings.TrimSpace(city)}
			if cmd.Flags().Changed("lat") {
				q.Coordinates = &domain.Coordinates{Lat: lat, Lon: lon}
			}
			report := svc.ResolveWeather(cmd.Context(), q)
			fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\t%s\n", report.Weather, report.Provenance, report.Location, report.Description)
			return nil
		},
	}
	cmd.Flags().StringVar(&city, "city", "", "city name, e.g. Busan")
	cmd.Flags().Float64Var(&lat, "lat", 0, "latitude")
	cmd.Flags().Float64Var(&lon, "lon", 0, "longitude")
	cmd.MarkFlagsRequiredTogether("lat", "lon")
	return cmd
}
