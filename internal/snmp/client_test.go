package snmp

import (
	"context"
	"testing"
	"time"

	"github.com/gosnmp/gosnmp"
	"go.uber.org/zap/zaptest"
	"golang.org/x/time/rate"
)

func TestNewGoSNMP_V2c(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Target = "192.168.1.1"
	cfg.Community = "public"

	g, err := newGoSNMP(cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if g.Target != "192.168.1.1" {
		t.Errorf("target = %q, want %q", g.Target, "192.168.1.1")
	}
	if g.Port != 161 {
		t.Errorf("port = %d, want 161", g.Port)
	}
	if g.Version != gosnmp.Version2c {
		t.Errorf("version = %v, want Version2c", g.Version)
	}
	if g.Community != "public" {
		t.Errorf("community = %q, want %q", g.Community, "public")
	}
	if g.Timeout != gosnmp.Default.Timeout {
		t.Errorf("timeout = %v, want %v", g.Timeout, gosnmp.Default.Timeout)
	}
	if g.Retries != gosnmp.Default.Retries {
		t.Errorf("retries = %d, want %d", g.Retries, gosnmp.Default.Retries)
	}
}

func TestNewGoSNMP_TargetWithPort(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Target = "192.168.1.1:1161"
	cfg.Community = "public"

	g, err := newGoSNMP(cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if g.Target != "192.168.1.1" {
		t.Errorf("target = %q, want %q", g.Target, "192.168.1.1")
	}
	if g.Port != 1161 {
		t.Errorf("port = %d, want 1161", g.Port)
	}
}

func TestNewGoSNMP_ConfiguredPortAndTimeout(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Target = "core1.example.net"
	cfg.Port = 10161
	cfg.Timeout = 750 * time.Millisecond
	cfg.Retries = 0

	g, err := newGoSNMP(cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if g.Port != 10161 {
		t.Errorf("port = %d, want 10161", g.Port)
	}
	if g.Timeout != 750*time.Millisecond {
		t.Errorf("timeout = %v, want 750ms", g.Timeout)
	}
	if g.Retries != 0 {
		t.Errorf("retries = %d, want 0", g.Retries)
	}
}

func TestNewGoSNMP_V1(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Target = "10.0.0.1"
	cfg.Version = "1"
	cfg.Community = "private"

	g, err := newGoSNMP(cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if g.Version != gosnmp.Version1 {
		t.Errorf("version = %v, want Version1", g.Version)
	}
	if g.Community != "private" {
		t.Errorf("community = %q, want %q", g.Community, "private")
	}
}

func TestNewGoSNMP_V3(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Target = "10.0.0.1"
	cfg.Version = "3"
	cfg.V3 = V3Config{
		Username:          "admin",
		AuthProtocol:      "SHA-256",
		AuthPassphrase:    "authpass123",
		PrivacyProtocol:   "AES-256",
		PrivacyPassphrase: "privpass123",
		SecurityLevel:     "authPriv",
		ContextName:       "mycontext",
	}

	g, err := newGoSNMP(cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if g.Version != gosnmp.Version3 {
		t.Errorf("version = %v, want Version3", g.Version)
	}
	if g.SecurityModel != gosnmp.UserSecurityModel {
		t.Errorf("security model = %v, want UserSecurityModel", g.SecurityModel)
	}
	if g.MsgFlags != gosnmp.AuthPriv {
		t.Errorf("msg flags = %v, want AuthPriv", g.MsgFlags)
	}
	if g.ContextName != "mycontext" {
		t.Errorf("context name = %q, want %q", g.ContextName, "mycontext")
	}

	usp, ok := g.SecurityParameters.(*gosnmp.UsmSecurityParameters)
	if !ok {
		t.Fatal("security parameters is not *UsmSecurityParameters")
	}
	if usp.UserName != "admin" {
		t.Errorf("username = %q, want %q", usp.UserName, "admin")
	}
	if usp.AuthenticationProtocol != gosnmp.SHA256 {
		t.Errorf("auth protocol = %v, want SHA256", usp.AuthenticationProtocol)
	}
	if usp.PrivacyProtocol != gosnmp.AES256 {
		t.Errorf("priv protocol = %v, want AES256", usp.PrivacyProtocol)
	}
}

func TestNewGoSNMP_V3_SecurityLevels(t *testing.T) {
	tests := []struct {
		level string
		want  gosnmp.SnmpV3MsgFlags
	}{
		{"noAuthNoPriv", gosnmp.NoAuthNoPriv},
		{"authNoPriv", gosnmp.AuthNoPriv},
		{"authPriv", gosnmp.AuthPriv},
		{"unknown", gosnmp.AuthPriv}, // default
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.Target = "10.0.0.1"
			cfg.Version = "3"
			cfg.V3 = V3Config{Username: "user", SecurityLevel: tt.level}

			g, err := newGoSNMP(cfg)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if g.MsgFlags != tt.want {
				t.Errorf("MsgFlags = %v, want %v", g.MsgFlags, tt.want)
			}
		})
	}
}

func TestNewGoSNMP_Errors(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
	}{
		{"empty target", Config{Version: "2c"}},
		{"bad version", Config{Target: "10.0.0.1", Version: "4"}},
		{"bad port", Config{Target: "10.0.0.1:notaport", Version: "2c"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := newGoSNMP(tt.cfg); err == nil {
				t.Fatal("expected error, got nil")
			}
		})
	}
}

func TestMapAuthProtocol(t *testing.T) {
	tests := []struct {
		input string
		want  gosnmp.SnmpV3AuthProtocol
	}{
		{"MD5", gosnmp.MD5},
		{"md5", gosnmp.MD5},
		{"SHA", gosnmp.SHA},
		{"SHA-224", gosnmp.SHA224},
		{"SHA256", gosnmp.SHA256},
		{"SHA-384", gosnmp.SHA384},
		{"SHA512", gosnmp.SHA512},
		{"", gosnmp.SHA},
		{"unknown", gosnmp.SHA},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := mapAuthProtocol(tt.input); got != tt.want {
				t.Errorf("mapAuthProtocol(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestMapPrivProtocol(t *testing.T) {
	tests := []struct {
		input string
		want  gosnmp.SnmpV3PrivProtocol
	}{
		{"DES", gosnmp.DES},
		{"aes", gosnmp.AES},
		{"AES-192", gosnmp.AES192},
		{"AES256", gosnmp.AES256},
		{"AES-192C", gosnmp.AES192C},
		{"AES256C", gosnmp.AES256C},
		{"", gosnmp.AES},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := mapPrivProtocol(tt.input); got != tt.want {
				t.Errorf("mapPrivProtocol(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestDial_RateLimit(t *testing.T) {
	tests := []struct {
		name  string
		limit float64
		want  rate.Limit
	}{
		{"unlimited by default", 0, rate.Inf},
		{"configured", 20, rate.Limit(20)},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.Target = "127.0.0.1"
			cfg.Community = "public"
			cfg.RateLimit = tc.limit

			c, err := Dial(context.Background(), cfg, zaptest.NewLogger(t))
			if err != nil {
				t.Fatalf("Dial: %v", err)
			}
			defer c.Close()

			if got := c.limiter.Limit(); got != tc.want {
				t.Errorf("limit = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestGoSNMPClient_RejectsInvalidOID(t *testing.T) {
	c, err := Dial(context.Background(), Config{Target: "127.0.0.1", Community: "public"}, nil)
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	defer c.Close()

	if _, err := c.Get(context.Background(), "1.3.x"); err == nil {
		t.Error("expected error for invalid OID in Get")
	}
	if _, err := c.Walk(context.Background(), ""); err == nil {
		t.Error("expected error for empty walk root")
	}
}

func TestConfig_NormalizedVersion(t *testing.T) {
	tests := []struct {
		version   string
		want      string
		community bool
	}{
		{"", "2c", true},
		{"2c", "2c", true},
		{"v2c", "2c", true},
		{"2", "2c", true},
		{"1", "1", true},
		{"V1", "1", true},
		{"3", "3", false},
		{"v3", "3", false},
		{" V3 ", "3", false},
		{"4", "4", true},
	}

	for _, tt := range tests {
		cfg := Config{Version: tt.version}
		if got := cfg.NormalizedVersion(); got != tt.want {
			t.Errorf("NormalizedVersion(%q) = %q, want %q", tt.version, got, tt.want)
		}
		if got := cfg.UsesCommunity(); got != tt.community {
			t.Errorf("UsesCommunity(%q) = %v, want %v", tt.version, got, tt.community)
		}
	}
}

func TestNewGoSNMP_V3Alias(t *testing.T) {
	g, err := newGoSNMP(Config{
		Target:  "10.0.0.1",
		Version: "v3",
		V3:      V3Config{Username: "monitor", SecurityLevel: "noAuthNoPriv"},
	})
	if err != nil {
		t.Fatalf("newGoSNMP: %v", err)
	}
	if g.Version != gosnmp.Version3 {
		t.Errorf("Version = %v, want %v", g.Version, gosnmp.Version3)
	}
}
