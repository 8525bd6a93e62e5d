// Command check_env raises an alarm for every CISCO-ENTITY-SENSOR-MIB
// threshold a sensor reading crosses.
package main

import (
	"context"
	"io"
	"os"

	"github.com/HerbHall/snmpcheck/internal/cli"
	"github.com/HerbHall/snmpcheck/internal/envmon"
	"github.com/HerbHall/snmpcheck/internal/nagios"
)

func main() {
	status := cli.Execute(cli.Command{
		Name:  "check_env",
		Short: "Check environmental sensors against their configured thresholds",
		Run:   run,
	}, os.Args[1:], os.Stdout, os.Stderr)
	os.Exit(status.ExitCode())
}

func run(ctx context.Context, env *cli.Env, w io.Writer) (nagios.Status, error) {
	return envmon.NewChecker(env.Client, env.Verbose, env.Metrics, env.Logger).Run(ctx, w)
}
