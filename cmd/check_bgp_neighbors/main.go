// Command check_bgp_neighbors reports the state of every BGP neighbor of a
// Cisco router from CISCO-BGP4-MIB.
package main

import (
	"context"
	"io"
	"os"

	"github.com/HerbHall/snmpcheck/internal/bgp"
	"github.com/HerbHall/snmpcheck/internal/cli"
	"github.com/HerbHall/snmpcheck/internal/nagios"
)

func main() {
	status := cli.Execute(command(), os.Args[1:], os.Stdout, os.Stderr)
	os.Exit(status.ExitCode())
}

func command() cli.Command {
	return cli.Command{
		Name:     "check_bgp_neighbors",
		Short:    "Check that every BGP neighbor is established",
		Defaults: map[string]any{"bgp.retry_delay": bgp.DefaultRetryDelay},
		Run:      run,
	}
}

func run(ctx context.Context, env *cli.Env, w io.Writer) (nagios.Status, error) {
	retryDelay := env.Config.GetDuration("bgp.retry_delay")
	collector := bgp.NewCollector(env.Client, retryDelay, env.Logger)
	return bgp.NewChecker(collector, env.Verbose, env.Metrics, env.Logger).Run(ctx, w)
}
