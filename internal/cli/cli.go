// Package cli is the command shell shared by the check binaries: flag and
// config handling, logger setup, the SNMP session and the exit status.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/HerbHall/snmpcheck/internal/config"
	"github.com/HerbHall/snmpcheck/internal/metrics"
	"github.com/HerbHall/snmpcheck/internal/nagios"
	"github.com/HerbHall/snmpcheck/internal/snmp"
)

// Version is stamped at build time with -ldflags "-X ...cli.Version=...".
var Version = "dev"

// Env is what a check receives for one run.
type Env struct {
	Client   snmp.Client
	Settings *config.Settings
	// Config exposes the keys only one check reads, such as bgp.* and
	// iosxr.*.
	Config  *viper.Viper
	Verbose bool
	Metrics *metrics.Recorder // nil unless metrics.textfile is set
	Logger  *zap.Logger
}

// RunFunc performs a check and writes its report to w.
type RunFunc func(ctx context.Context, env *Env, w io.Writer) (nagios.Status, error)

// DialFunc opens the SNMP session for a run.
type DialFunc func(ctx context.Context, cfg snmp.Config, logger *zap.Logger) (snmp.Client, error)

// Command describes one check binary.
type Command struct {
	Name  string
	Short string
	Run   RunFunc
	// Defaults seeds the check's own config keys.
	Defaults map[string]any
	// Dial defaults to snmp.Dial.
	Dial DialFunc
}

// errUsage marks failures that are answered with the usage text.
var errUsage = errors.New("usage")

type usageError struct{ err error }

func (e *usageError) Error() string {
	if e.err == nil {
		return "host and community are required"
	}
	return e.err.Error()
}
func (e *usageError) Unwrap() error { return errUsage }

func dialGoSNMP(ctx context.Context, cfg snmp.Config, logger *zap.Logger) (snmp.Client, error) {
	return snmp.Dial(ctx, cfg, logger)
}

// Execute runs the check with args and returns the plugin status. The
// report, usage text and UNKNOWN lines go to stdout; logs go to stderr.
func Execute(c Command, args []string, stdout, stderr io.Writer) nagios.Status {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	status := nagios.OK
	cmd := newCommand(c, stdout, &status)
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	if err := cmd.ExecuteContext(ctx); err != nil {
		if errors.Is(err, errUsage) {
			var ue *usageError
			if errors.As(err, &ue) && ue.err != nil {
				fmt.Fprintf(stdout, "UNKNOWN - %v\n", ue.err)
			}
			_ = cmd.Usage()
		} else {
			fmt.Fprintf(stdout, "UNKNOWN - %v\n", err)
		}
		return nagios.Unknown
	}
	return status
}

func newCommand(c Command, stdout io.Writer, status *nagios.Status) *cobra.Command {
	cmd := &cobra.Command{
		Use:     c.Name + " -H host -c community [-v]",
		Short:   c.Short,
		Version: Version,
		Args:    cobra.NoArgs,

		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := cmd.Flags()
	flags.StringP("host", "H", "", "hostname or address of the SNMP agent")
	flags.StringP("community", "c", "", "SNMP community")
	flags.BoolP("verbose", "v", false, "use verbose output")
	flags.String("config", "", "config file (default: snmpcheck.yaml in ., ./configs, /etc/snmpcheck)")

	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &usageError{err: err}
	})

	cmd.RunE = func(cmd *cobra.Command, _ []string) error {
		s, err := run(cmd.Context(), c, cmd.Flags(), stdout)
		*status = s
		return err
	}
	return cmd
}

func run(ctx context.Context, c Command, flags *pflag.FlagSet, stdout io.Writer) (nagios.Status, error) {
	configPath, _ := flags.GetString("config")
	v, err := config.LoadConfig(configPath)
	if err != nil {
		return nagios.Unknown, err
	}
	for key, value := range c.Defaults {
		v.SetDefault(key, value)
	}
	if err := bindFlags(v, flags); err != nil {
		return nagios.Unknown, err
	}

	settings, err := config.Decode(v)
	if err != nil {
		return nagios.Unknown, err
	}
	if settings.SNMP.Target == "" || (settings.SNMP.Community == "" && settings.SNMP.UsesCommunity()) {
		return nagios.Unknown, &usageError{}
	}

	logger, err := config.NewLogger(v, c.Name)
	if err != nil {
		return nagios.Unknown, err
	}
	defer func() { _ = logger.Sync() }()

	var rec *metrics.Recorder
	if settings.Metrics.Textfile != "" {
		rec = metrics.New(c.Name)
	}

	start := time.Now()
	env := &Env{
		Settings: settings,
		Config:   v,
		Verbose:  v.GetBool("verbose"),
		Metrics:  rec,
		Logger:   logger,
	}
	status, err := dialAndRun(ctx, c, env, stdout)
	if err != nil {
		logger.Error("check failed", zap.Error(err))
	}
	logger.Debug("check finished",
		zap.Stringer("status", status),
		zap.Duration("elapsed", time.Since(start)),
	)

	if rec != nil {
		rec.Finish(status.ExitCode(), time.Since(start))
		if werr := rec.WriteTextfile(settings.Metrics.Textfile); werr != nil {
			logger.Warn("metrics export failed", zap.Error(werr))
		}
	}
	return status, err
}

func dialAndRun(ctx context.Context, c Command, env *Env, stdout io.Writer) (nagios.Status, error) {
	dial := c.Dial
	if dial == nil {
		dial = dialGoSNMP
	}

	client, err := dial(ctx, env.Settings.SNMP, env.Logger)
	if err != nil {
		return nagios.Unknown, err
	}
	defer func() {
		if cerr := client.Close(); cerr != nil {
			env.Logger.Debug("closing snmp session", zap.Error(cerr))
		}
	}()

	env.Client = client
	return c.Run(ctx, env, stdout)
}

// bindFlags lets the command-line flags take precedence over the config
// file and environment.
func bindFlags(v *viper.Viper, flags *pflag.FlagSet) error {
	bindings := map[string]string{
		"snmp.target":    "host",
		"snmp.community": "community",
		"verbose":        "verbose",
	}
	for key, name := range bindings {
		if err := v.BindPFlag(key, flags.Lookup(name)); err != nil {
			return fmt.Errorf("binding flag %s: %w", name, err)
		}
	}
	return nil
}
