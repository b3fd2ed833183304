package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"

	"github.com/rttmon/rttmon/config"
)

const AppName = "rttmon"

type App struct {
	logger zerolog.Logger
	cli    *cli.App
}

func New() *App {

	// Set default log level to info
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	logger :=
		log.Output(zerolog.ConsoleWriter{
			Out:        os.Stderr,
			TimeFormat: time.RFC3339Nano,
		})

	app := &App{
		logger: logger,
		cli: &cli.App{
			Name:  AppName,
			Usage: "Monitor embedded test execution over J-Link RTT",
			Flags: []cli.Flag{
				&cli.BoolFlag{
					Name:  "verbose",
					Usage: "Enable verbose (debug) logging",
				},
			},
			Before: func(ctx *cli.Context) error {
				if ctx.Bool("verbose") {
					zerolog.SetGlobalLevel(zerolog.DebugLevel)
				}
				return nil
			},
		},
	}
	app.cli.Commands = append(app.cli.Commands, &cli.Command{
		Name:   "run",
		Usage:  "Flash firmware (optional), monitor the RTT test stream, and record the result",
		Action: app.run,
		Flags: append([]cli.Flag{
			&cli.StringFlag{
				Name:  "firmware",
				Usage: "Firmware image to flash before monitoring",
			},
		}, monitorFlags()...),
	})
	app.cli.Commands = append(app.cli.Commands, &cli.Command{
		Name:   "monitor",
		Usage:  "Monitor a wire-format stream from standard input (no debug probe)",
		Action: app.monitorStdin,
		Flags:  monitorFlags(),
	})
	app.cli.Commands = append(app.cli.Commands, &cli.Command{
		Name:   "simulate",
		Usage:  "Run the simulated target suite and print its wire-format stream",
		Action: app.simulate,
	})
	app.cli.Commands = append(app.cli.Commands, &cli.Command{
		Name:   "list",
		Usage:  "List previous monitoring runs",
		Action: app.list,
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "limit",
				Aliases: []string{"n"},
				Usage:   "Limit number of results (default: 20)",
				Value:   20,
			},
		},
	})
	app.cli.Commands = append(app.cli.Commands, &cli.Command{
		Name:      "view",
		Usage:     "View the result of a previous run",
		ArgsUsage: "[ID|INDEX]",
		Action:    app.view,
		Description: `View the result of a previous monitoring run.

Arguments:
  0           View last run (default)
  -1          View 2nd last run
  -2          View 3rd last run
  <hex-id>    View run matching the hex ID prefix`,
	})
	return app
}

// monitorFlags are shared by run and monitor.
func monitorFlags() []cli.Flag {
	defaults := config.Defaults()
	return []cli.Flag{
		&cli.StringFlag{
			Name:  "device",
			Usage: "Target device identifier (e.g. STM32F407VG)",
		},
		&cli.StringFlag{
			Name:  "interface",
			Usage: "Debug interface name",
			Value: defaults.Interface,
		},
		&cli.IntFlag{
			Name:  "speed",
			Usage: "Debug interface speed in kHz",
			Value: defaults.Speed,
		},
		&cli.IntFlag{
			Name:  "timeout",
			Usage: "Monitor timeout in seconds",
			Value: defaults.TimeoutSeconds,
		},
		&cli.StringSliceFlag{
			Name:  "complete-when",
			Usage: "Extra completion expression (can be specified multiple times)",
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "Also write the result document to this path",
		},
		&cli.StringFlag{
			Name:  "config",
			Usage: "Path to the config file",
			Value: config.FileName,
		},
	}
}

func (a *App) Run(args []string) error {
	return a.cli.Run(args)
}

// SetVersion sets the version information for the CLI application
func (a *App) SetVersion(version, commit, date string) {
	a.cli.Version = version
	if commit != "none" && commit != "" {
		a.cli.Version = fmt.Sprintf("%s (commit: %s, built: %s)", version, commit[:8], date)
	}
}
