package bgp

import (
	"context"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"

	"github.com/HerbHall/snmpcheck/internal/metrics"
	"github.com/HerbHall/snmpcheck/internal/nagios"
)

const rule = "---------------------------------------------------------------"

// Checker evaluates BGP neighbor state and writes the plugin report.
type Checker struct {
	collector *Collector
	verbose   bool
	metrics   *metrics.Recorder
	logger    *zap.Logger
}

// NewChecker creates a checker. In verbose mode every peer is listed and no
// alarm is raised. rec may be nil.
func NewChecker(collector *Collector, verbose bool, rec *metrics.Recorder, logger *zap.Logger) *Checker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Checker{collector: collector, verbose: verbose, metrics: rec, logger: logger}
}

// Run polls both peer tables and writes the report to w.
func (c *Checker) Run(ctx context.Context, w io.Writer) (nagios.Status, error) {
	v4, err := c.collector.IPv4Peers(ctx)
	if err != nil {
		return nagios.Unknown, err
	}
	v6, err := c.collector.IPv6Peers(ctx)
	if err != nil {
		return nagios.Unknown, err
	}

	// Neither table answering is treated as an SNMP failure, not as a
	// router without neighbors.
	if len(v4) == 0 && len(v6) == 0 {
		fmt.Fprintln(w, "No SNMP data")
		return nagios.Unknown, nil
	}

	for _, p := range append(append([]Peer(nil), v4...), v6...) {
		c.metrics.Peer(string(p.Family), p.Address, p.RemoteAS, p.State.String(), p.Established())
	}

	if c.verbose {
		c.writeTable(w, v4, v6)
		return nagios.OK, nil
	}
	return c.evaluate(w, v4, v6), nil
}

func (c *Checker) evaluate(w io.Writer, v4, v6 []Peer) nagios.Status {
	var down []string
	upV4, upV6 := 0, 0

	for _, p := range v4 {
		if p.Established() {
			upV4++
			continue
		}
		down = append(down, downMessage(p))
	}
	for _, p := range v6 {
		if p.Established() {
			upV6++
			continue
		}
		down = append(down, downMessage(p))
	}

	if len(down) > 0 {
		c.logger.Info("bgp neighbors down", zap.Int("count", len(down)))
		fmt.Fprintln(w, strings.Join(down, " "))
		return nagios.Critical
	}

	fmt.Fprintf(w, "%d IPv4 neighbors ESTAB, %d IPv6 neighbors ESTAB\n", upV4, upV6)
	return nagios.OK
}

func downMessage(p Peer) string {
	return fmt.Sprintf("Neighbor %s (AS%s) is DOWN (%s) -", p.Address, p.RemoteAS, p.State)
}

func (c *Checker) writeTable(w io.Writer, v4, v6 []Peer) {
	fmt.Fprintln(w, "Neighbor\t\tAS\tState\tLast known reason")
	fmt.Fprintln(w, rule)
	for _, p := range v4 {
		fmt.Fprintf(w, "%s\t\t%s\t%s\t%s\n", p.Address, p.RemoteAS, p.State, p.LastError)
	}
	// IPv6 addresses are wide enough to fill the first column on their own.
	for _, p := range v6 {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", p.Address, p.RemoteAS, p.State, p.LastError)
	}
	fmt.Fprintln(w, rule)
	fmt.Fprintf(w, "Total number of peers: %d\n", len(v4)+len(v6))
}
