package snmp

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/gosnmp/gosnmp"
)

// ErrNoSuchObject is returned when a value is read from an OID the agent
// does not implement (noSuchObject, noSuchInstance, endOfMibView).
var ErrNoSuchObject = errors.New("snmp: no such object")

// Value is the result of a single SNMP read. It is either present, holding
// the agent's value rendered as text, or missing. Conversion to integers
// happens only when a caller needs the number.
type Value struct {
	text    string
	present bool
}

// Missing is the value of an OID the agent does not implement.
var Missing = Value{}

// StringValue returns a present value holding s.
func StringValue(s string) Value {
	return Value{text: s, present: true}
}

// IntValue returns a present value holding n.
func IntValue(n int64) Value {
	return Value{text: strconv.FormatInt(n, 10), present: true}
}

// Exists reports whether the agent returned a value.
func (v Value) Exists() bool {
	return v.present
}

// String returns the value text, or "" when the value is missing.
func (v Value) String() string {
	return v.text
}

// Int parses the value as a base-10 integer.
func (v Value) Int() (int, error) {
	if !v.present {
		return 0, ErrNoSuchObject
	}
	n, err := strconv.Atoi(strings.TrimSpace(v.text))
	if err != nil {
		return 0, fmt.Errorf("parse integer %q: %w", v.text, err)
	}
	return n, nil
}

// Variable is one row returned by a walk.
type Variable struct {
	OID    string // full OID without leading dot
	Suffix string // OID components after the walked root
	Value  Value
}

// valueFromPDU converts a gosnmp PDU into a Value.
func valueFromPDU(pdu gosnmp.SnmpPDU) Value {
	switch pdu.Type {
	case gosnmp.NoSuchObject, gosnmp.NoSuchInstance, gosnmp.EndOfMibView, gosnmp.Null:
		return Missing
	}

	switch v := pdu.Value.(type) {
	case []byte:
		return StringValue(string(v))
	case string:
		return StringValue(v)
	case int:
		return IntValue(int64(v))
	case int32:
		return IntValue(int64(v))
	case int64:
		return IntValue(v)
	case uint:
		return StringValue(strconv.FormatUint(uint64(v), 10))
	case uint32:
		return StringValue(strconv.FormatUint(uint64(v), 10))
	case uint64:
		return StringValue(strconv.FormatUint(v, 10))
	case nil:
		return Missing
	default:
		return StringValue(fmt.Sprintf("%v", v))
	}
}
