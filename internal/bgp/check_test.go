package bgp

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/HerbHall/snmpcheck/internal/metrics"
	"github.com/HerbHall/snmpcheck/internal/mib"
	"github.com/HerbHall/snmpcheck/internal/nagios"
	"github.com/HerbHall/snmpcheck/internal/snmp"
	"github.com/HerbHall/snmpcheck/internal/testutil"
)

var (
	v4Root = snmp.JoinOID(mib.OIDCbgpPeer2State, mib.PeerIndexIPv4)
	v6Root = snmp.JoinOID(mib.OIDCbgpPeer2State, mib.PeerIndexIPv6)
)

const v6Index = "32.1.7.248.0.13.0.252.0.0.0.0.0.0.0.115"

// addPeer registers the AS and last-error rows for a peer index.
func addPeer(agent *testutil.FakeAgent, prefix, index, asn, reason string) {
	agent.Set(snmp.JoinOID(mib.OIDCbgpPeer2RemoteAs, prefix, index), asn)
	agent.Set(snmp.JoinOID(mib.OIDCbgpPeer2LastErrorTxt, prefix, index), reason)
}

func newAgent() *testutil.FakeAgent {
	agent := testutil.NewFakeAgent()
	agent.AddWalk(v4Root,
		testutil.Row{Suffix: "192.0.2.1", Value: "6"},
		testutil.Row{Suffix: "192.0.2.2", Value: "3"},
	)
	agent.AddWalk(v6Root,
		testutil.Row{Suffix: v6Index, Value: "1"},
	)
	addPeer(agent, mib.PeerIndexIPv4, "192.0.2.1", "65001", "")
	addPeer(agent, mib.PeerIndexIPv4, "192.0.2.2", "65002", "hold time expired")
	addPeer(agent, mib.PeerIndexIPv6, v6Index, "6939", "peer closed the session")
	return agent
}

func runCheck(t *testing.T, agent *testutil.FakeAgent, verbose bool) (nagios.Status, string, error) {
	t.Helper()
	logger := zaptest.NewLogger(t)
	checker := NewChecker(NewCollector(agent, 0, logger), verbose, nil, logger)

	var out bytes.Buffer
	status, err := checker.Run(context.Background(), &out)
	return status, out.String(), err
}

func TestChecker_PeersDown(t *testing.T) {
	status, out, err := runCheck(t, newAgent(), false)
	require.NoError(t, err)

	assert.Equal(t, nagios.Critical, status)
	assert.Equal(t,
		"Neighbor 192.0.2.2 (AS65002) is DOWN (ACTV) - Neighbor 2001:7f8:d:fc::73 (AS6939) is DOWN (IDLE) -\n",
		out)
}

func TestChecker_AllEstablished(t *testing.T) {
	agent := testutil.NewFakeAgent()
	agent.AddWalk(v4Root,
		testutil.Row{Suffix: "192.0.2.1", Value: "6"},
		testutil.Row{Suffix: "198.51.100.7", Value: "6"},
	)
	agent.AddWalk(v6Root, testutil.Row{Suffix: v6Index, Value: "6"})
	addPeer(agent, mib.PeerIndexIPv4, "192.0.2.1", "65001", "")
	addPeer(agent, mib.PeerIndexIPv4, "198.51.100.7", "65003", "")
	addPeer(agent, mib.PeerIndexIPv6, v6Index, "6939", "")

	status, out, err := runCheck(t, agent, false)
	require.NoError(t, err)

	assert.Equal(t, nagios.OK, status)
	assert.Equal(t, "2 IPv4 neighbors ESTAB, 1 IPv6 neighbors ESTAB\n", out)
}

func TestChecker_Verbose(t *testing.T) {
	status, out, err := runCheck(t, newAgent(), true)
	require.NoError(t, err)

	assert.Equal(t, nagios.OK, status, "verbose mode never raises an alarm")
	want := "Neighbor\t\tAS\tState\tLast known reason\n" +
		rule + "\n" +
		"192.0.2.1\t\t65001\tESTAB\t\n" +
		"192.0.2.2\t\t65002\tACTV\thold time expired\n" +
		"2001:7f8:d:fc::73\t6939\tIDLE\tpeer closed the session\n" +
		rule + "\n" +
		"Total number of peers: 3\n"
	assert.Equal(t, want, out)
}

func TestChecker_NoData(t *testing.T) {
	for _, verbose := range []bool{false, true} {
		agent := testutil.NewFakeAgent()

		status, out, err := runCheck(t, agent, verbose)
		require.NoError(t, err)

		assert.Equal(t, nagios.Unknown, status)
		assert.Equal(t, "No SNMP data\n", out)
		// Empty IPv4 table is walked twice, IPv6 once.
		assert.Equal(t, []string{v4Root, v4Root, v6Root}, agent.Walked)
	}
}

func TestChecker_IPv4RetryAfterEmptyWalk(t *testing.T) {
	agent := testutil.NewFakeAgent()
	agent.AddWalk(v4Root)
	agent.AddWalk(v4Root, testutil.Row{Suffix: "192.0.2.1", Value: "6"})
	addPeer(agent, mib.PeerIndexIPv4, "192.0.2.1", "65001", "")

	status, out, err := runCheck(t, agent, false)
	require.NoError(t, err)

	assert.Equal(t, nagios.OK, status)
	assert.Equal(t, "1 IPv4 neighbors ESTAB, 0 IPv6 neighbors ESTAB\n", out)
	assert.Equal(t, []string{v4Root, v4Root, v6Root}, agent.Walked)
}

func TestChecker_NoRetryWhenIPv4Answers(t *testing.T) {
	agent := newAgent()

	_, _, err := runCheck(t, agent, false)
	require.NoError(t, err)
	assert.Equal(t, []string{v4Root, v6Root}, agent.Walked)
}

func TestChecker_OnlyIPv6Peers(t *testing.T) {
	agent := testutil.NewFakeAgent()
	agent.AddWalk(v6Root, testutil.Row{Suffix: v6Index, Value: "6"})
	addPeer(agent, mib.PeerIndexIPv6, v6Index, "6939", "")

	status, out, err := runCheck(t, agent, false)
	require.NoError(t, err)

	assert.Equal(t, nagios.OK, status)
	assert.Equal(t, "0 IPv4 neighbors ESTAB, 1 IPv6 neighbors ESTAB\n", out)
}

func TestChecker_UnrecognizedState(t *testing.T) {
	agent := testutil.NewFakeAgent()
	agent.AddWalk(v4Root, testutil.Row{Suffix: "192.0.2.1", Value: "7"})

	status, _, err := runCheck(t, agent, false)
	require.Error(t, err)
	assert.Equal(t, nagios.Unknown, status)

	var codeErr *mib.UnknownCodeError
	assert.True(t, errors.As(err, &codeErr))
}

func TestChecker_WalkError(t *testing.T) {
	agent := testutil.NewFakeAgent()
	agent.FailWalk(v6Root, errors.New("request timeout"))
	agent.AddWalk(v4Root, testutil.Row{Suffix: "192.0.2.1", Value: "6"})
	addPeer(agent, mib.PeerIndexIPv4, "192.0.2.1", "65001", "")

	status, _, err := runCheck(t, agent, false)
	require.Error(t, err)
	assert.Equal(t, nagios.Unknown, status)
	assert.Contains(t, err.Error(), "request timeout")
}

func TestChecker_RecordsMetrics(t *testing.T) {
	rec := metrics.New("check_bgp_neighbors")
	checker := NewChecker(NewCollector(newAgent(), 0, nil), false, rec, nil)

	var out bytes.Buffer
	_, err := checker.Run(context.Background(), &out)
	require.NoError(t, err)

	families, err := rec.Gatherer().Gather()
	require.NoError(t, err)

	var series int
	for _, mf := range families {
		if mf.GetName() == "snmpcheck_bgp_peer_established" {
			series = len(mf.GetMetric())
		}
	}
	assert.Equal(t, 3, series)
}

func TestCollector_RetryHonorsContext(t *testing.T) {
	agent := testutil.NewFakeAgent()
	collector := NewCollector(agent, time.Hour, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := collector.IPv4Peers(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, []string{v4Root}, agent.Walked)
}

func TestNewCollector_DefaultRetryDelay(t *testing.T) {
	c := NewCollector(testutil.NewFakeAgent(), -1, nil)
	assert.Equal(t, DefaultRetryDelay, c.retryDelay)
}
