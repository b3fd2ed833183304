package cli

import (
	"os"

	"github.com/urfave/cli/v2"

	"github.com/rttmon/rttmon/target"
)

// simulate runs the example target suite in-process and prints the
// wire stream it would emit over RTT. Pipe it into "rttmon monitor"
// for a probe-free end-to-end run.
func (a *App) simulate(ctx *cli.Context) error {
	if target.NewSuite(os.Stdout).Run() {
		return nil
	}
	return cli.Exit("simulated suite reported failures", 1)
}
