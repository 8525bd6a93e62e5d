// Package testutil provides an in-memory SNMP agent for check tests.
package testutil

import (
	"context"
	"strings"
	"sync"

	"github.com/HerbHall/snmpcheck/internal/snmp"
)

// Compile-time interface guard.
var _ snmp.Client = (*FakeAgent)(nil)

// FakeAgent serves canned GET values and walk responses.
type FakeAgent struct {
	mu       sync.Mutex
	values   map[string]snmp.Value
	walks    map[string][][]snmp.Variable
	walkErrs map[string]error
	getErrs  map[string]error

	Gets   []string // OIDs requested with Get, in order
	Walked []string // roots requested with Walk, in order
	Closed bool
}

// NewFakeAgent returns an agent with no data.
func NewFakeAgent() *FakeAgent {
	return &FakeAgent{
		values:   make(map[string]snmp.Value),
		walks:    make(map[string][][]snmp.Variable),
		walkErrs: make(map[string]error),
		getErrs:  make(map[string]error),
	}
}

// Set stores a string value at oid.
func (a *FakeAgent) Set(oid, value string) *FakeAgent {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.values[trim(oid)] = snmp.StringValue(value)
	return a
}

// SetInt stores an integer value at oid.
func (a *FakeAgent) SetInt(oid string, value int) *FakeAgent {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.values[trim(oid)] = snmp.IntValue(int64(value))
	return a
}

// AddWalk queues one walk response for root. Successive walks of the same
// root consume queued responses in order; the last one repeats.
func (a *FakeAgent) AddWalk(root string, rows ...Row) *FakeAgent {
	a.mu.Lock()
	defer a.mu.Unlock()

	root = trim(root)
	vars := make([]snmp.Variable, 0, len(rows))
	for _, r := range rows {
		vars = append(vars, snmp.Variable{
			OID:    root + "." + r.Suffix,
			Suffix: r.Suffix,
			Value:  snmp.StringValue(r.Value),
		})
	}
	a.walks[root] = append(a.walks[root], vars)
	return a
}

// FailWalk makes walks of root return err.
func (a *FakeAgent) FailWalk(root string, err error) *FakeAgent {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.walkErrs[trim(root)] = err
	return a
}

// FailGet makes gets of oid return err.
func (a *FakeAgent) FailGet(oid string, err error) *FakeAgent {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.getErrs[trim(oid)] = err
	return a
}

// Row is one walk result, the suffix below the walked root and its value.
type Row struct {
	Suffix string
	Value  string
}

func (a *FakeAgent) Walk(_ context.Context, root string) ([]snmp.Variable, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	root = trim(root)
	a.Walked = append(a.Walked, root)
	if err := a.walkErrs[root]; err != nil {
		return nil, err
	}

	queue := a.walks[root]
	if len(queue) == 0 {
		return []snmp.Variable{}, nil
	}
	resp := queue[0]
	if len(queue) > 1 {
		a.walks[root] = queue[1:]
	}
	return append([]snmp.Variable(nil), resp...), nil
}

func (a *FakeAgent) Get(_ context.Context, oid string) (snmp.Value, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	oid = trim(oid)
	a.Gets = append(a.Gets, oid)
	if err := a.getErrs[oid]; err != nil {
		return snmp.Missing, err
	}
	v, ok := a.values[oid]
	if !ok {
		return snmp.Missing, nil
	}
	return v, nil
}

func (a *FakeAgent) Close() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.Closed = true
	return nil
}

// GetCount returns how many times oid was read.
func (a *FakeAgent) GetCount(oid string) int {
	a.mu.Lock()
	defer a.mu.Unlock()

	oid = trim(oid)
	n := 0
	for _, g := range a.Gets {
		if g == oid {
			n++
		}
	}
	return n
}

func trim(oid string) string {
	return strings.TrimPrefix(oid, ".")
}
