package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ewilliams-labs/cadence/internal/core/domain"
	"github.com/ewilliams-labs/cadence/internal/core/services"
)

type demoCase struct {
	name        string
	description string
	emotion     domain.Emotion
	activity    domain.Activity
}

var demoCases = []demoCase{
	{"Stressed focus session", "Under pressure but the work needs concentration", domain.Stressed, domain.Focus},
	{"Happy morning workout", "Heading out to exercise in a good mood", domain.Happy, domain.Exercise},
	{"Romantic evening date", "Sweet time with a partner", domain.Romantic, domain.Social},
	{"Meditative wind-down", "Quietly closing the day with meditation", domain.Peaceful, domain.Meditation},
}

func newDemoCmd(c *cli) *cobra.Command {
	var city string
	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Run preset scenarios against the current weather",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := wire(cmd.Context(), c.cfg, wireOptions{})
			if err != nil {
				return err
			}
			defer svc.Close()

			out := cmd.OutOrStdout()
			report := svc.ResolveWeather(cmd.Context(), domain.WeatherQuery{City: city})
			fmt.Fprintf(out, "Location: %s\nWeather: %s (%s) via %s\n", report.Location, report.Weather, report.Description, report.Provenance)
			fmt.Fprintln(out, strings.Repeat("=", 60))

			for i, dc := range demoCases {
				fmt.Fprintf(out, "\n%d. %s\n   %s\n%s\n", i+1, dc.name, dc.description, strings.Repeat("-", 40))
				result, err := svc.Recommend(cmd.Context(), services.RecommendRequest{
					Emotion:   dc.emotion,
					Activity:  dc.activity,
					Weather:   &report.Weather,
					Randomize: true,
				})
				if err != nil {
					return err
				}
				fmt.Fprintln(out, result.Analysis)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&city, "city", "", "city to look the weather up for")
	return cmd
}
