// Command check_iosxr_env checks IOS-XR environmental sensors against their
// minimum and maximum thresholds.
package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/HerbHall/snmpcheck/internal/cli"
	"github.com/HerbHall/snmpcheck/internal/iosxr"
	"github.com/HerbHall/snmpcheck/internal/nagios"
)

func main() {
	status := cli.Execute(command(), os.Args[1:], os.Stdout, os.Stderr)
	os.Exit(status.ExitCode())
}

func command() cli.Command {
	return cli.Command{
		Name:  "check_iosxr_env",
		Short: "Check IOS-XR environmental sensors",
		Run:   run,
	}
}

func run(ctx context.Context, env *cli.Env, w io.Writer) (nagios.Status, error) {
	var extra []iosxr.Override
	if err := env.Config.UnmarshalKey("iosxr.overrides", &extra); err != nil {
		return nagios.Unknown, fmt.Errorf("decoding iosxr.overrides: %w", err)
	}
	overrides := iosxr.MergeOverrides(extra)
	return iosxr.NewChecker(env.Client, env.Verbose, overrides, env.Metrics, env.Logger).Run(ctx, w)
}
