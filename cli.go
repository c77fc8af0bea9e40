package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

// app carries the collaborators the commands need.  Tests replace open and
// clock to run without hardware or real sleeps.
type app struct {
	open   func(backend string, logger *slog.Logger) (PinController, error)
	clock  Clock
	stderr io.Writer
}

func newApp() *app {
	return &app{open: openController, clock: realClock{}, stderr: os.Stderr}
}

// setup loads the config file, applies explicit flags and validates the
// result.  No pin is touched here.
func (a *app) setup(cmd *cobra.Command) (Config, *slog.Logger, error) {
	path, err := cmd.Flags().GetString("config")
	if err != nil {
		return Config{}, nil, err
	}
	cfg, err := loadConfig(path)
	if err != nil {
		return Config{}, nil, err
	}
	if err := applyFlags(&cfg, cmd.Flags()); err != nil {
		return Config{}, nil, err
	}
	return cfg, newLogger(cfg.Logging, a.stderr), nil
}

// runner validates cfg, opens the configured backend and returns a Runner
// bound to it.
func (a *app) runner(cmd *cobra.Command, cfg Config, logger *slog.Logger, journal *EventLogger) (*Runner, error) {
	interval, err := cfg.validate()
	if err != nil {
		return nil, err
	}
	ctrl, err := a.open(cfg.Backend, logger)
	if err != nil {
		return nil, err
	}
	logger.Debug("controller opened", "backend", cfg.Backend, "pin", cfg.Pin)
	return NewRunner(ctrl, a.clock, cfg.Pin, cfg.Count, interval, cmd.OutOrStdout(), logger, journal), nil
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "ledblink <blinks|light>",
		Short: "Blink or light the LED on a GPIO pin",
		Long: `ledblink drives an LED wired to a GPIO pin.

  blinks  switch the LED on and off once per interval, five times by default
  light   keep the LED lit for five intervals by default

Any other mode is ignored.`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			// Unrecognised modes are ignored before the config is even read.
			if _, ok := parseMode(args[0]); !ok {
				return nil
			}
			cfg, logger, err := a.setup(cmd)
			if err != nil {
				return err
			}
			r, err := a.runner(cmd, cfg, logger, NewEventLogger(cfg.EventLog))
			if err != nil {
				return err
			}
			return dispatch(cmd.Context(), r, args[0])
		},
	}

	flags := root.PersistentFlags()
	flags.StringP("config", "c", defaultConfigPath, "Path to configuration file")
	flags.String("backend", "periph", fmt.Sprintf("Pin controller backend %v", knownBackends))
	flags.Int("pin", 18, "GPIO pin driving the LED (BCM numbering)")
	flags.String("log-level", "info", "Logging level (debug, info, warn, error)")

	// Only "sequence" is a subcommand; "completion" stays an ignored mode.
	root.CompletionOptions.DisableDefaultCmd = true
	root.AddCommand(newSequenceCmd(a))
	return root
}

func newSequenceCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "sequence <off|blinks|light>...",
		Short: "Run LED events in order through the LED state machine",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			events := make([]Event, 0, len(args))
			for _, arg := range args {
				ev, err := parseEvent(arg)
				if err != nil {
					return err
				}
				events = append(events, ev)
			}
			cfg, logger, err := a.setup(cmd)
			if err != nil {
				return err
			}
			journal := NewEventLogger(cfg.EventLog)
			r, err := a.runner(cmd, cfg, logger, journal)
			if err != nil {
				return err
			}
			m := newLEDMachine(r, logger, journal)
			for _, ev := range events {
				if _, err := m.Fire(cmd.Context(), ev); err != nil {
					return err
				}
			}
			fmt.Fprintf(cmd.OutOrStdout(), "final state: %s\n", m.State())
			return nil
		},
	}
}
