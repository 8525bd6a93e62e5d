package snmp

import (
	"strconv"
	"strings"
)

// JoinOID appends index components to a base OID.
// JoinOID("1.3.6.1.2.1.47.1.1.1.1.2", "1005") returns "1.3.6.1.2.1.47.1.1.1.1.2.1005".
func JoinOID(base string, parts ...string) string {
	var b strings.Builder
	b.WriteString(normalizeOID(base))
	for _, p := range parts {
		p = strings.Trim(p, ".")
		if p == "" {
			continue
		}
		b.WriteByte('.')
		b.WriteString(p)
	}
	return b.String()
}

// oidSuffix returns the components of name below root, or false when name
// is outside the subtree.
func oidSuffix(root, name string) (string, bool) {
	root = normalizeOID(root)
	name = normalizeOID(name)
	if !strings.HasPrefix(name, root+".") {
		return "", false
	}
	return name[len(root)+1:], true
}

func normalizeOID(oid string) string {
	return strings.TrimPrefix(strings.TrimSpace(oid), ".")
}

// isValidOID checks that oid is a dotted list of integers.
func isValidOID(oid string) bool {
	oid = normalizeOID(oid)
	if oid == "" {
		return false
	}
	for _, part := range strings.Split(oid, ".") {
		if _, err := strconv.ParseUint(part, 10, 32); err != nil {
			return false
		}
	}
	return true
}
