package main

import (
	"errors"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/robalobadob/rollbot/internal/config"
	"github.com/robalobadob/rollbot/internal/roller"
	"github.com/robalobadob/rollbot/internal/store"
)

// errReported marks failures a command already printed.
var errReported = errors.New("failure already reported")

// app carries state shared by subcommands once the root pre-run has loaded it.
type app struct {
	cfg config.Config
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:   "rollbot",
		Short: "Dice roller for Discord, HTTP and the terminal",
		Long: `rollbot rolls tabletop dice expressions such as 2d6+3 or d20aa.
It runs as a Discord bot and JSON API (serve) or rolls directly in the terminal (roll).`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			a.cfg = cfg
			setupLogging(cfg)
			return nil
		},
	}

	root.AddCommand(
		newServeCmd(a),
		newRollCmd(a),
		newTokenCmd(a),
		newVersionCmd(),
	)
	return root
}

// setupLogging configures the global zerolog logger. Logs go to stderr.
func setupLogging(cfg config.Config) {
	if lvl, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}
	if cfg.LogFormat == "console" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}
}

// newRoller builds the roll service from configuration. A nil reg disables metrics.
func (a *app) newRoller(reg prometheus.Registerer) *roller.Service {
	var m *roller.Metrics
	if reg != nil {
		m = roller.NewMetrics(reg)
	}
	return roller.New(roller.Options{
		Limits: roller.Limits{
			MaxDice:        a.cfg.MaxDice,
			MaxAdvantage:   a.cfg.MaxAdvantage,
			MaxInputLength: a.cfg.MaxInputLength,
		},
		Cache:    store.NewMemoryStore(a.cfg.ParseCacheSize),
		Metrics:  m,
		SeedSalt: a.cfg.SeedSalt,
	})
}
