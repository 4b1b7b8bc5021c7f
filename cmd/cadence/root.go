package main

import (
	"github.com/spf13/cobra"

	"github.com/ewilliams-labs/cadence/internal/config"
	"github.com/ewilliams-labs/cadence/internal/logging"
)

// cli carries state shared by the subcommands.
type cli struct {
	cfgFile  string
	logLevel string
	offline  bool
	cfg      *config.Config
}

func newRootCmd() *cobra.Command {
	c := &cli{}
	root := &cobra.Command{
		Use:   "cadence",
		Short: "Weather- and mood-aware music recommendations",
		Long: `Cadence blends how you feel, what you are doing, the weather outside and the
time of day into catalogue search parameters, with a full explanation of how
each parameter was scored.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.init(cmd)
		},
	}

	root.PersistentFlags().StringVar(&c.cfgFile, "config", "", "config file (default: $CADENCE_CONFIG or ./cadence.yaml)")
	root.PersistentFlags().StringVar(&c.logLevel, "log-level", "", "override logging.level")
	root.PersistentFlags().BoolVar(&c.offline, "offline", false, "skip remote weather lookups and use the seasonal estimate")

	root.AddCommand(
		newServeCmd(c),
		newRecommendCmd(c),
		newWeatherCmd(c),
		newScenariosCmd(c),
		newDemoCmd(c),
	)
	return root
}

func (c *cli) init(cmd *cobra.Command) error {
	cfg, err := config.Load(c.cfgFile)
	if err != nil {
		return err
	}
	if c.logLevel != "" {
		cfg.Logging.Level = c.logLevel
	}
	if c.offline {
		cfg.Weather.Offline = true
	}
	c.cfg = cfg

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cmd.ErrOrStderr(),
	})
	return nil
}
