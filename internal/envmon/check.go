// Package envmon checks CISCO-ENTITY-SENSOR-MIB threshold rows against
// live sensor readings.
package envmon

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"

	"go.uber.org/zap"

	"github.com/HerbHall/snmpcheck/internal/metrics"
	"github.com/HerbHall/snmpcheck/internal/mib"
	"github.com/HerbHall/snmpcheck/internal/nagios"
	"github.com/HerbHall/snmpcheck/internal/snmp"
)

const rule = "---------------------------------------------------------------"

// Checker evaluates every configured threshold of every working sensor.
type Checker struct {
	client   snmp.Client
	verbose  bool
	metrics  *metrics.Recorder
	logger   *zap.Logger
	entities map[string]*entity
}

// NewChecker creates a checker. In verbose mode every checked threshold is
// listed and no alarm is raised. rec may be nil.
func NewChecker(client snmp.Client, verbose bool, rec *metrics.Recorder, logger *zap.Logger) *Checker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Checker{
		client:   client,
		verbose:  verbose,
		metrics:  rec,
		logger:   logger,
		entities: make(map[string]*entity),
	}
}

// reading is one evaluated threshold slot.
type reading struct {
	index     string
	slot      int
	value     int
	relation  mib.ThresholdRelation
	threshold int
	notify    bool
}

// alarm reports whether the slot raises an alarm: the relation holds and
// notifications are enabled for it.
func (r reading) alarm() bool {
	return r.notify && r.relation.Holds(r.value, r.threshold)
}

// Run walks the sensor table and writes the report to w.
func (c *Checker) Run(ctx context.Context, w io.Writer) (nagios.Status, error) {
	indexes, err := c.workingSensors(ctx)
	if err != nil {
		return nagios.Unknown, err
	}

	status := nagios.OK
	var checked []reading

	for _, index := range indexes {
		readings, err := c.thresholds(ctx, index)
		if err != nil {
			return nagios.Unknown, err
		}

		for _, r := range readings {
			checked = append(checked, r)
			c.metrics.ThresholdBreach(r.index, r.slot, r.relation.Holds(r.value, r.threshold))

			if c.verbose || !r.alarm() {
				continue
			}
			line, err := c.alarmLine(ctx, r)
			if err != nil {
				return nagios.Unknown, err
			}
			fmt.Fprintln(w, line)
			status = status.Raise(nagios.Critical)
		}
	}

	c.logger.Debug("sensor thresholds evaluated",
		zap.Int("sensors", len(indexes)),
		zap.Int("checked", len(checked)),
	)

	if c.verbose {
		if err := c.writeTable(ctx, w, checked); err != nil {
			return nagios.Unknown, err
		}
		fmt.Fprintf(w, "Total number of sensors: %d, values checked: %d\n", len(indexes), len(checked))
		return nagios.OK, nil
	}

	if status == nagios.OK {
		fmt.Fprintf(w, "All %d sensors are working and all %d values within limits\n", len(indexes), len(checked))
	}
	return status, nil
}

// workingSensors returns the indexes whose entSensorStatus is ok.
func (c *Checker) workingSensors(ctx context.Context) ([]string, error) {
	rows, err := c.client.Walk(ctx, mib.OIDEntSensorStatus)
	if err != nil {
		return nil, fmt.Errorf("walk sensor status: %w", err)
	}

	var indexes []string
	for _, row := range rows {
		st, err := mib.ParseSensorStatus(row.Value.String())
		if err != nil {
			return nil, fmt.Errorf("sensor %s: %w", row.Suffix, err)
		}
		if st != mib.SensorStatusOK {
			c.logger.Debug("skipping sensor",
				zap.String("index", row.Suffix),
				zap.Stringer("status", st),
			)
			continue
		}
		indexes = append(indexes, row.Suffix)
	}
	return indexes, nil
}

// thresholds reads the configured threshold slots of one sensor. Slots
// without a threshold are left out.
func (c *Checker) thresholds(ctx context.Context, index string) ([]reading, error) {
	var (
		out      []reading
		value    int
		hasValue bool
	)

	for slot := 1; slot <= mib.ThresholdSlots; slot++ {
		row := snmp.JoinOID(index, strconv.Itoa(slot))

		threshold, configured, err := c.threshold(ctx, row)
		if err != nil {
			return nil, fmt.Errorf("sensor %s slot %d: %w", index, slot, err)
		}
		if !configured {
			continue
		}

		if !hasValue {
			value, err = c.getInt(ctx, snmp.JoinOID(mib.OIDEntSensorValue, index))
			if err != nil {
				return nil, fmt.Errorf("sensor %s value: %w", index, err)
			}
			hasValue = true
			c.metrics.SensorValue(index, "", value)
		}

		relVal, err := c.client.Get(ctx, snmp.JoinOID(mib.OIDEntSensorThresholdRelation, row))
		if err != nil {
			return nil, fmt.Errorf("sensor %s slot %d relation: %w", index, slot, err)
		}
		relation, err := mib.ParseThresholdRelation(relVal.String())
		if err != nil {
			return nil, fmt.Errorf("sensor %s slot %d: %w", index, slot, err)
		}

		notify, err := c.notificationEnabled(ctx, row)
		if err != nil {
			return nil, fmt.Errorf("sensor %s slot %d notification: %w", index, slot, err)
		}

		out = append(out, reading{
			index:     index,
			slot:      slot,
			value:     value,
			relation:  relation,
			threshold: threshold,
			notify:    notify,
		})
	}
	return out, nil
}

// threshold reads one threshold value. A missing row or the -32768
// sentinel means the slot is not configured.
func (c *Checker) threshold(ctx context.Context, row string) (int, bool, error) {
	v, err := c.getInt(ctx, snmp.JoinOID(mib.OIDEntSensorThresholdValue, row))
	if errors.Is(err, snmp.ErrNoSuchObject) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	if v == mib.ThresholdNotConfigured {
		return 0, false, nil
	}
	return v, true, nil
}

func (c *Checker) notificationEnabled(ctx context.Context, row string) (bool, error) {
	v, err := c.getInt(ctx, snmp.JoinOID(mib.OIDEntSensorThresholdNotifyEnable, row))
	if errors.Is(err, snmp.ErrNoSuchObject) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return v == mib.TruthValueTrue, nil
}

func (c *Checker) getInt(ctx context.Context, oid string) (int, error) {
	v, err := c.client.Get(ctx, oid)
	if err != nil {
		return 0, err
	}
	return v.Int()
}

func (c *Checker) alarmLine(ctx context.Context, r reading) (string, error) {
	e, err := c.entity(ctx, r.index)
	if err != nil {
		return "", err
	}
	scale := e.scale.Prefix()
	return fmt.Sprintf("%s reads %d %s %s which %s %d %s %s",
		e.label(), r.value, scale, e.sensorType,
		r.relation.Phrase(), r.threshold, scale, e.sensorType,
	), nil
}

func (c *Checker) writeTable(ctx context.Context, w io.Writer, checked []reading) error {
	fmt.Fprintln(w, "Sensor\tSlot\tValue\tRelation\tThreshold\tNotify\tAlarm\tDescription")
	fmt.Fprintln(w, rule)
	for _, r := range checked {
		e, err := c.entity(ctx, r.index)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%s\t%d\t%d\t%s\t%d\t%t\t%t\t%s\n",
			r.index, r.slot, r.value, r.relation, r.threshold, r.notify, r.alarm(), e.label())
	}
	fmt.Fprintln(w, rule)
	return nil
}
