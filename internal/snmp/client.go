// Package snmp provides the typed SNMP client the checks poll devices with.
package snmp

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/gosnmp/gosnmp"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Client is the SNMP surface the checks consume.
type Client interface {
	// Walk returns every variable below root in agent order. An empty
	// subtree yields an empty slice and a nil error.
	Walk(ctx context.Context, root string) ([]Variable, error)
	// Get reads a single OID. An OID the agent does not implement yields
	// Missing and a nil error; transport failures are returned as errors.
	Get(ctx context.Context, oid string) (Value, error)
	Close() error
}

// Config describes how to reach and authenticate against an agent.
type Config struct {
	Target         string        `mapstructure:"target"`
	Port           int           `mapstructure:"port"`
	Version        string        `mapstructure:"version"` // "1", "2c" or "3"
	Community      string        `mapstructure:"community"`
	Timeout        time.Duration `mapstructure:"timeout"`
	Retries        int           `mapstructure:"retries"`
	MaxRepetitions uint32        `mapstructure:"max_repetitions"`
	RateLimit      float64       `mapstructure:"rate_limit"` // requests per second, 0 = unlimited
	V3             V3Config      `mapstructure:"v3"`
}

// V3Config holds the SNMPv3 user security model fields.
type V3Config struct {
	Username              string `mapstructure:"username"`
	AuthProtocol          string `mapstructure:"auth_protocol"` // "MD5", "SHA", "SHA-256", etc.
	AuthPassphrase        string `mapstructure:"auth_passphrase"`
	PrivacyProtocol       string `mapstructure:"priv_protocol"` // "DES", "AES", "AES-256", etc.
	PrivacyPassphrase     string `mapstructure:"priv_passphrase"`
	SecurityLevel         string `mapstructure:"security_level"` // "noAuthNoPriv", "authNoPriv", "authPriv"
	ContextName           string `mapstructure:"context_name"`
	AuthoritativeEngineID string `mapstructure:"authoritative_engine_id"`
}

// DefaultConfig returns an SNMPv2c configuration that inherits gosnmp's
// timeout and retry defaults.
func DefaultConfig() Config {
	return Config{
		Port:    int(gosnmp.Default.Port),
		Version: "2c",
		Timeout: gosnmp.Default.Timeout,
		Retries: gosnmp.Default.Retries,
	}
}

// NormalizedVersion returns the protocol version as "1", "2c" or "3".
// Empty selects "2c"; unrecognized values are returned unchanged.
func (c Config) NormalizedVersion() string {
	switch v := strings.ToLower(strings.TrimSpace(c.Version)); v {
	case "1", "v1":
		return "1"
	case "2c", "v2c", "2", "":
		return "2c"
	case "3", "v3":
		return "3"
	default:
		return v
	}
}

// UsesCommunity reports whether the session authenticates with a
// community string rather than USM credentials.
func (c Config) UsesCommunity() bool {
	return c.NormalizedVersion() != "3"
}

// Compile-time interface guard.
var _ Client = (*GoSNMPClient)(nil)

// GoSNMPClient implements Client on top of a connected gosnmp session.
type GoSNMPClient struct {
	g       *gosnmp.GoSNMP
	limiter *rate.Limiter
	logger  *zap.Logger
}

// Dial configures and connects a session to cfg.Target.
func Dial(ctx context.Context, cfg Config, logger *zap.Logger) (*GoSNMPClient, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	g, err := newGoSNMP(cfg)
	if err != nil {
		return nil, fmt.Errorf("configure SNMP: %w", err)
	}
	g.Context = ctx

	if err := g.Connect(); err != nil {
		return nil, fmt.Errorf("connect to %s: %w", cfg.Target, err)
	}

	limit := rate.Inf
	if cfg.RateLimit > 0 {
		limit = rate.Limit(cfg.RateLimit)
	}

	logger.Debug("SNMP session opened",
		zap.String("target", g.Target),
		zap.Uint16("port", g.Port),
		zap.String("version", g.Version.String()),
	)

	return &GoSNMPClient{
		g:       g,
		limiter: rate.NewLimiter(limit, 1),
		logger:  logger,
	}, nil
}

// newGoSNMP creates a configured GoSNMP instance. The returned session is
// not yet connected.
func newGoSNMP(cfg Config) (*gosnmp.GoSNMP, error) {
	if cfg.Target == "" {
		return nil, fmt.Errorf("empty target")
	}

	host, portStr, err := net.SplitHostPort(cfg.Target)
	if err != nil {
		// No port in the target, fall back to the configured one.
		host = cfg.Target
		portStr = strconv.Itoa(cfg.Port)
		if cfg.Port == 0 {
			portStr = "161"
		}
	}

	port, err := strconv.ParseUint(portStr, 10, 16)
	if err != nil {
		return nil, fmt.Errorf("invalid port %q: %w", portStr, err)
	}

	g := &gosnmp.GoSNMP{
		Target:         host,
		Port:           uint16(port),
		Timeout:        cfg.Timeout,
		Retries:        cfg.Retries,
		MaxOids:        gosnmp.MaxOids,
		MaxRepetitions: cfg.MaxRepetitions,
	}
	if g.Timeout <= 0 {
		g.Timeout = gosnmp.Default.Timeout
	}
	if g.Retries < 0 {
		g.Retries = gosnmp.Default.Retries
	}

	switch cfg.NormalizedVersion() {
	case "1":
		g.Version = gosnmp.Version1
		g.Community = cfg.Community

	case "2c":
		g.Version = gosnmp.Version2c
		g.Community = cfg.Community

	case "3":
		g.Version = gosnmp.Version3
		g.SecurityModel = gosnmp.UserSecurityModel

		switch cfg.V3.SecurityLevel {
		case "noAuthNoPriv":
			g.MsgFlags = gosnmp.NoAuthNoPriv
		case "authNoPriv":
			g.MsgFlags = gosnmp.AuthNoPriv
		default:
			g.MsgFlags = gosnmp.AuthPriv
		}

		g.SecurityParameters = &gosnmp.UsmSecurityParameters{
			UserName:                 cfg.V3.Username,
			AuthenticationProtocol:   mapAuthProtocol(cfg.V3.AuthProtocol),
			AuthenticationPassphrase: cfg.V3.AuthPassphrase,
			PrivacyProtocol:          mapPrivProtocol(cfg.V3.PrivacyProtocol),
			PrivacyPassphrase:        cfg.V3.PrivacyPassphrase,
			AuthoritativeEngineID:    cfg.V3.AuthoritativeEngineID,
		}
		g.ContextName = cfg.V3.ContextName

	default:
		return nil, fmt.Errorf("unsupported SNMP version: %s", cfg.Version)
	}

	return g, nil
}

// mapAuthProtocol converts an auth protocol string to the gosnmp constant.
func mapAuthProtocol(s string) gosnmp.SnmpV3AuthProtocol {
	switch strings.ToUpper(s) {
	case "MD5":
		return gosnmp.MD5
	case "SHA-224", "SHA224":
		return gosnmp.SHA224
	case "SHA-256", "SHA256":
		return gosnmp.SHA256
	case "SHA-384", "SHA384":
		return gosnmp.SHA384
	case "SHA-512", "SHA512":
		return gosnmp.SHA512
	default:
		return gosnmp.SHA
	}
}

// mapPrivProtocol converts a privacy protocol string to the gosnmp constant.
func mapPrivProtocol(s string) gosnmp.SnmpV3PrivProtocol {
	switch strings.ToUpper(s) {
	case "DES":
		return gosnmp.DES
	case "AES-192", "AES192":
		return gosnmp.AES192
	case "AES-256", "AES256":
		return gosnmp.AES256
	case "AES-192C", "AES192C":
		return gosnmp.AES192C
	case "AES-256C", "AES256C":
		return gosnmp.AES256C
	default:
		return gosnmp.AES
	}
}

// Walk retrieves the subtree below root. SNMPv1 sessions use GETNEXT,
// later versions use GETBULK.
func (c *GoSNMPClient) Walk(ctx context.Context, root string) ([]Variable, error) {
	if !isValidOID(root) {
		return nil, fmt.Errorf("invalid OID %q", root)
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	root = normalizeOID(root)
	start := time.Now()

	var (
		pdus []gosnmp.SnmpPDU
		err  error
	)
	if c.g.Version == gosnmp.Version1 {
		pdus, err = c.g.WalkAll(root)
	} else {
		pdus, err = c.g.BulkWalkAll(root)
	}
	if err != nil {
		return nil, fmt.Errorf("snmp walk %s: %w", root, err)
	}

	vars := make([]Variable, 0, len(pdus))
	for _, pdu := range pdus {
		suffix, ok := oidSuffix(root, pdu.Name)
		if !ok {
			continue
		}
		v := valueFromPDU(pdu)
		if !v.Exists() {
			continue
		}
		vars = append(vars, Variable{
			OID:    normalizeOID(pdu.Name),
			Suffix: suffix,
			Value:  v,
		})
	}

	c.logger.Debug("SNMP walk",
		zap.String("oid", root),
		zap.Int("rows", len(vars)),
		zap.Duration("elapsed", time.Since(start)),
	)

	return vars, nil
}

// Get reads one OID.
func (c *GoSNMPClient) Get(ctx context.Context, oid string) (Value, error) {
	if !isValidOID(oid) {
		return Missing, fmt.Errorf("invalid OID %q", oid)
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return Missing, err
	}

	oid = normalizeOID(oid)
	result, err := c.g.Get([]string{oid})
	if err != nil {
		return Missing, fmt.Errorf("snmp get %s: %w", oid, err)
	}

	// SNMPv1 agents report unknown OIDs through the PDU error status.
	if result.Error == gosnmp.NoSuchName {
		return Missing, nil
	}
	if result.Error != gosnmp.NoError {
		return Missing, fmt.Errorf("snmp get %s: agent error %s", oid, result.Error)
	}
	if len(result.Variables) == 0 {
		return Missing, nil
	}

	v := valueFromPDU(result.Variables[0])
	c.logger.Debug("SNMP get",
		zap.String("oid", oid),
		zap.Bool("exists", v.Exists()),
		zap.String("value", v.String()),
	)
	return v, nil
}

// Close releases the session's socket.
func (c *GoSNMPClient) Close() error {
	if c.g.Conn == nil {
		return nil
	}
	return c.g.Conn.Close()
}
