// Package iosxr checks IOS-XR environmental sensors against their minimum
// and maximum thresholds.
package iosxr

import (
	"context"
	"errors"
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/HerbHall/snmpcheck/internal/metrics"
	"github.com/HerbHall/snmpcheck/internal/mib"
	"github.com/HerbHall/snmpcheck/internal/nagios"
	"github.com/HerbHall/snmpcheck/internal/snmp"
)

// Threshold slots holding the minimum and maximum on IOS-XR.
const (
	slotMin = "1"
	slotMax = "2"
)

// Checker evaluates every sensor found in the entity table.
type Checker struct {
	client    snmp.Client
	verbose   bool
	overrides map[string]Override
	metrics   *metrics.Recorder
	logger    *zap.Logger
}

// NewChecker creates a checker. A nil overrides map selects
// DefaultOverrides. In verbose mode in-range sensors are listed too.
// rec may be nil.
func NewChecker(client snmp.Client, verbose bool, overrides map[string]Override, rec *metrics.Recorder, logger *zap.Logger) *Checker {
	if logger == nil {
		logger = zap.NewNop()
	}
	if overrides == nil {
		overrides = DefaultOverrides()
	}
	return &Checker{
		client:    client,
		verbose:   verbose,
		overrides: overrides,
		metrics:   rec,
		logger:    logger,
	}
}

// sensor is one operating sensor with its effective range.
type sensor struct {
	index      string
	name       string
	descr      string
	value      int
	display    string
	min, max   int
	displayMin int
	displayMax int
}

func (s *sensor) inRange() bool {
	return s.value > s.min && s.value < s.max
}

// Run walks entPhysicalName and writes the report to w.
func (c *Checker) Run(ctx context.Context, w io.Writer) (nagios.Status, error) {
	rows, err := c.client.Walk(ctx, mib.OIDEntPhysicalName)
	if err != nil {
		return nagios.Unknown, fmt.Errorf("walk physical names: %w", err)
	}

	status := nagios.OK
	inRange := 0

	for _, row := range rows {
		index, name := row.Suffix, row.Value.String()

		statusVal, err := c.get(ctx, mib.OIDEntSensorStatus, index)
		if err != nil {
			return nagios.Unknown, err
		}
		if !statusVal.Exists() {
			// Not a sensor.
			continue
		}
		st, err := mib.ParseSensorStatus(statusVal.String())
		if err != nil {
			return nagios.Unknown, fmt.Errorf("sensor %s: %w", index, err)
		}

		switch st {
		case mib.SensorStatusUnavailable:
			continue
		case mib.SensorStatusNonOperational:
			descr, err := c.get(ctx, mib.OIDEntPhysicalDescr, index)
			if err != nil {
				return nagios.Unknown, err
			}
			fmt.Fprintf(w, "WARNING - Sensor \"%s (%s)\" is %s\n", name, descr.String(), st)
			status = status.Raise(nagios.Critical)
			continue
		}

		s, ok, err := c.sensor(ctx, index, name)
		if err != nil {
			return nagios.Unknown, err
		}
		if !ok {
			continue
		}

		c.metrics.SensorValue(s.index, s.descr, s.value)
		c.metrics.SensorInRange(s.index, s.descr, s.inRange())

		if s.inRange() {
			inRange++
			if c.verbose {
				if err := c.writeReading(ctx, w, "OK", s); err != nil {
					return nagios.Unknown, err
				}
			}
			continue
		}

		if err := c.writeReading(ctx, w, "WARNING", s); err != nil {
			return nagios.Unknown, err
		}
		status = status.Raise(nagios.Critical)
	}

	if status == nagios.OK && !c.verbose {
		fmt.Fprintf(w, "All %d sensors working and within threshold values\n", inRange)
	}
	return status, nil
}

// sensor reads an ok sensor's value and range. It reports false when the
// range is not applicable.
func (c *Checker) sensor(ctx context.Context, index, name string) (*sensor, bool, error) {
	precision, err := c.get(ctx, mib.OIDEntSensorPrecision, index)
	if err != nil {
		return nil, false, err
	}
	descr, err := c.get(ctx, mib.OIDEntPhysicalDescr, index)
	if err != nil {
		return nil, false, err
	}
	raw, err := c.get(ctx, mib.OIDEntSensorValue, index)
	if err != nil {
		return nil, false, err
	}
	value, err := raw.Int()
	if err != nil {
		return nil, false, fmt.Errorf("sensor %s value: %w", index, err)
	}

	lo, err := c.threshold(ctx, index, slotMin)
	if err != nil {
		return nil, false, err
	}
	hi, err := c.threshold(ctx, index, slotMax)
	if err != nil {
		return nil, false, err
	}

	s := &sensor{
		index:      index,
		name:       name,
		descr:      descr.String(),
		value:      value,
		display:    raw.String(),
		min:        lo,
		max:        hi,
		displayMin: lo,
		displayMax: hi,
	}

	if o, ok := c.overrides[s.descr]; ok {
		s.min, s.max = o.Min, o.Max
		s.displayMin, s.displayMax = o.DisplayMin, o.DisplayMax
		s.display = o.displayValue(raw.String())
		c.logger.Debug("threshold override applied",
			zap.String("index", index),
			zap.String("description", s.descr),
			zap.String("reported_precision", precision.String()),
		)
	}

	if s.min == mib.ThresholdNotConfigured || s.max == mib.ThresholdNotConfigured {
		c.logger.Debug("sensor range not applicable",
			zap.String("index", index),
			zap.String("name", name),
		)
		return nil, false, nil
	}
	return s, true, nil
}

// threshold reads one threshold slot. A missing row counts as not
// configured.
func (c *Checker) threshold(ctx context.Context, index, slot string) (int, error) {
	v, err := c.get(ctx, mib.OIDEntSensorThresholdValue, index, slot)
	if err != nil {
		return 0, err
	}
	n, err := v.Int()
	if errors.Is(err, snmp.ErrNoSuchObject) {
		return mib.ThresholdNotConfigured, nil
	}
	if err != nil {
		return 0, fmt.Errorf("sensor %s threshold %s: %w", index, slot, err)
	}
	return n, nil
}

func (c *Checker) writeReading(ctx context.Context, w io.Writer, level string, s *sensor) error {
	typeVal, err := c.get(ctx, mib.OIDEntSensorType, s.index)
	if err != nil {
		return err
	}
	sensorType, err := mib.ParseSensorType(typeVal.String())
	if err != nil {
		return fmt.Errorf("sensor %s: %w", s.index, err)
	}

	c.logger.Debug("sensor reading",
		zap.String("index", s.index),
		zap.String("value", s.display),
		zap.Stringer("type", sensorType),
	)

	fmt.Fprintf(w, "%s - Sensor \"%s (%s)\" is reading %s %s (min:%d, max:%d)\n",
		level, s.name, s.descr, s.display, sensorType, s.displayMin, s.displayMax)
	return nil
}

func (c *Checker) get(ctx context.Context, base string, index ...string) (snmp.Value, error) {
	oid := snmp.JoinOID(base, index...)
	v, err := c.client.Get(ctx, oid)
	if err != nil {
		return snmp.Missing, fmt.Errorf("get %s: %w", oid, err)
	}
	return v, nil
}
