// Package bgp checks BGP neighbor state through CISCO-BGP4-MIB.
package bgp

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/HerbHall/snmpcheck/internal/mib"
	"github.com/HerbHall/snmpcheck/internal/snmp"
)

// DefaultRetryDelay is how long to wait before re-walking an empty IPv4
// peer table. Some agents answer with nothing for a few seconds after the
// polling community changes.
const DefaultRetryDelay = 5 * time.Second

// Family is a peer address family.
type Family string

const (
	FamilyIPv4 Family = "ipv4"
	FamilyIPv6 Family = "ipv6"
)

// Peer is one row of cbgpPeer2Table.
type Peer struct {
	Address   string
	Family    Family
	State     mib.BGPState
	RemoteAS  string
	LastError string
}

// Established reports whether the session is up.
func (p Peer) Established() bool {
	return p.State == mib.BGPStateEstablished
}

// Collector reads the peer table from an agent.
type Collector struct {
	client     snmp.Client
	logger     *zap.Logger
	retryDelay time.Duration
}

// NewCollector creates a collector. A negative retryDelay selects
// DefaultRetryDelay.
func NewCollector(client snmp.Client, retryDelay time.Duration, logger *zap.Logger) *Collector {
	if logger == nil {
		logger = zap.NewNop()
	}
	if retryDelay < 0 {
		retryDelay = DefaultRetryDelay
	}
	return &Collector{client: client, logger: logger, retryDelay: retryDelay}
}

// IPv4Peers walks the IPv4 peer table. An empty first walk is retried once
// after the retry delay and the second result is used as is.
func (c *Collector) IPv4Peers(ctx context.Context) ([]Peer, error) {
	root := snmp.JoinOID(mib.OIDCbgpPeer2State, mib.PeerIndexIPv4)

	rows, err := c.client.Walk(ctx, root)
	if err != nil {
		return nil, fmt.Errorf("walk ipv4 peers: %w", err)
	}

	if len(rows) == 0 {
		c.logger.Debug("empty ipv4 peer walk, retrying",
			zap.Duration("delay", c.retryDelay),
		)
		if err := sleep(ctx, c.retryDelay); err != nil {
			return nil, err
		}
		rows, err = c.client.Walk(ctx, root)
		if err != nil {
			return nil, fmt.Errorf("walk ipv4 peers: %w", err)
		}
	}

	return c.peers(ctx, rows, FamilyIPv4, mib.PeerIndexIPv4, ipv4FromIndex)
}

// IPv6Peers walks the IPv6 peer table.
func (c *Collector) IPv6Peers(ctx context.Context) ([]Peer, error) {
	root := snmp.JoinOID(mib.OIDCbgpPeer2State, mib.PeerIndexIPv6)

	rows, err := c.client.Walk(ctx, root)
	if err != nil {
		return nil, fmt.Errorf("walk ipv6 peers: %w", err)
	}

	return c.peers(ctx, rows, FamilyIPv6, mib.PeerIndexIPv6, ipv6FromIndex)
}

func (c *Collector) peers(ctx context.Context, rows []snmp.Variable, family Family, indexPrefix string, address func(string) (string, error)) ([]Peer, error) {
	peers := make([]Peer, 0, len(rows))
	for _, row := range rows {
		addr, err := address(row.Suffix)
		if err != nil {
			return nil, err
		}

		state, err := mib.ParseBGPState(row.Value.String())
		if err != nil {
			return nil, fmt.Errorf("peer %s: %w", addr, err)
		}

		asn, err := c.client.Get(ctx, snmp.JoinOID(mib.OIDCbgpPeer2RemoteAs, indexPrefix, row.Suffix))
		if err != nil {
			return nil, fmt.Errorf("peer %s remote AS: %w", addr, err)
		}

		reason, err := c.client.Get(ctx, snmp.JoinOID(mib.OIDCbgpPeer2LastErrorTxt, indexPrefix, row.Suffix))
		if err != nil {
			return nil, fmt.Errorf("peer %s last error: %w", addr, err)
		}

		peers = append(peers, Peer{
			Address:   addr,
			Family:    family,
			State:     state,
			RemoteAS:  asn.String(),
			LastError: reason.String(),
		})
	}

	c.logger.Debug("bgp peers collected",
		zap.String("family", string(family)),
		zap.Int("count", len(peers)),
	)
	return peers, nil
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
