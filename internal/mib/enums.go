// Package mib holds the OIDs the checks poll and decoders for the
// enumerated values those OIDs return.
package mib

import (
	"fmt"
	"strconv"
	"strings"
)

// UnknownCodeError is returned when an agent reports a code outside an
// enumeration's defined range.
type UnknownCodeError struct {
	Enum string
	Code string
}

func (e *UnknownCodeError) Error() string {
	return fmt.Sprintf("unrecognized %s code %q", e.Enum, e.Code)
}

// parseCode converts an agent-reported code to an int in [1, n].
func parseCode(enum, code string, n int) (int, error) {
	v, err := strconv.Atoi(strings.TrimSpace(code))
	if err != nil || v < 1 || v > n {
		return 0, &UnknownCodeError{Enum: enum, Code: code}
	}
	return v, nil
}

// BGPState is cbgpPeer2State, the BGP finite state machine state.
type BGPState int

const (
	BGPStateIdle        BGPState = 1
	BGPStateConnect     BGPState = 2
	BGPStateActive      BGPState = 3
	BGPStateOpenSent    BGPState = 4
	BGPStateOpenConfirm BGPState = 5
	BGPStateEstablished BGPState = 6
)

var bgpStateLabels = [...]string{"", "IDLE", "CONN", "ACTV", "OPENS", "OPENC", "ESTAB"}

// ParseBGPState decodes a cbgpPeer2State value.
func ParseBGPState(code string) (BGPState, error) {
	v, err := parseCode("BGP state", code, len(bgpStateLabels)-1)
	if err != nil {
		return 0, err
	}
	return BGPState(v), nil
}

// String returns the short label printed in check output (IDLE, ESTAB...).
func (s BGPState) String() string {
	if s < BGPStateIdle || s > BGPStateEstablished {
		return fmt.Sprintf("BGPState(%d)", int(s))
	}
	return bgpStateLabels[s]
}

// PhysicalClass is ENTITY-MIB entPhysicalClass.
type PhysicalClass int

var physicalClassLabels = [...]string{
	"", "other", "unknown", "chassis", "backplane", "container", "powerSupply",
	"fan", "sensor", "module", "port", "stack", "cpu",
}

// ParsePhysicalClass decodes an entPhysicalClass value.
func ParsePhysicalClass(code string) (PhysicalClass, error) {
	v, err := parseCode("physical class", code, len(physicalClassLabels)-1)
	if err != nil {
		return 0, err
	}
	return PhysicalClass(v), nil
}

func (c PhysicalClass) String() string {
	if c < 1 || int(c) >= len(physicalClassLabels) {
		return fmt.Sprintf("PhysicalClass(%d)", int(c))
	}
	return physicalClassLabels[c]
}

// SensorType is entSensorType (SensorDataType).
type SensorType int

var sensorTypeLabels = [...]string{
	"", "other", "unknown", "volts AC", "volts DC", "amperes", "watts", "hertz",
	"degrees celsius", "percent RH", "rpm", "cmm", "truthvalue", "special Enum", "dBm",
}

// ParseSensorType decodes an entSensorType value.
func ParseSensorType(code string) (SensorType, error) {
	v, err := parseCode("sensor type", code, len(sensorTypeLabels)-1)
	if err != nil {
		return 0, err
	}
	return SensorType(v), nil
}

func (t SensorType) String() string {
	if t < 1 || int(t) >= len(sensorTypeLabels) {
		return fmt.Sprintf("SensorType(%d)", int(t))
	}
	return sensorTypeLabels[t]
}

// SensorScale is entSensorScale (SensorDataScale), a metric prefix.
type SensorScale int

// SensorScaleUnits is units(9), the scale with no prefix.
const SensorScaleUnits SensorScale = 9

var sensorScaleLabels = [...]string{
	"", "yocto", "zepto", "atto", "femto", "pico", "nano", "micro", "milli",
	"units", "kilo", "mega", "giga", "tera", "exa", "peta", "zetta", "yotta",
}

// ParseSensorScale decodes an entSensorScale value.
func ParseSensorScale(code string) (SensorScale, error) {
	v, err := parseCode("sensor scale", code, len(sensorScaleLabels)-1)
	if err != nil {
		return 0, err
	}
	return SensorScale(v), nil
}

// String returns the MIB name of the scale.
func (s SensorScale) String() string {
	if s < 1 || int(s) >= len(sensorScaleLabels) {
		return fmt.Sprintf("SensorScale(%d)", int(s))
	}
	return sensorScaleLabels[s]
}

// Prefix is the label used in threshold alarm sentences. Units renders as
// a single space.
func (s SensorScale) Prefix() string {
	if s == SensorScaleUnits {
		return " "
	}
	return s.String()
}

// SensorStatus is entSensorStatus.
type SensorStatus int

const (
	SensorStatusOK             SensorStatus = 1
	SensorStatusUnavailable    SensorStatus = 2
	SensorStatusNonOperational SensorStatus = 3
)

var sensorStatusLabels = [...]string{"", "ok", "unavailable", "nonoperational"}

// ParseSensorStatus decodes an entSensorStatus value.
func ParseSensorStatus(code string) (SensorStatus, error) {
	v, err := parseCode("sensor status", code, len(sensorStatusLabels)-1)
	if err != nil {
		return 0, err
	}
	return SensorStatus(v), nil
}

func (s SensorStatus) String() string {
	if s < SensorStatusOK || s > SensorStatusNonOperational {
		return fmt.Sprintf("SensorStatus(%d)", int(s))
	}
	return sensorStatusLabels[s]
}

// ThresholdRelation is entSensorThresholdRelation. The sensor value is the
// left operand and the threshold the right one.
type ThresholdRelation int

const (
	RelationLessThan       ThresholdRelation = 1
	RelationLessOrEqual    ThresholdRelation = 2
	RelationGreaterThan    ThresholdRelation = 3
	RelationGreaterOrEqual ThresholdRelation = 4
	RelationEqualTo        ThresholdRelation = 5
	RelationNotEqualTo     ThresholdRelation = 6
)

var relationNames = [...]string{
	"", "lessThan", "lessOrEqual", "greaterThan", "greaterOrEqual", "equalTo", "notEqualTo",
}

var relationPhrases = [...]string{
	"", "is less than", "is less or equal than", "is greater than",
	"is greater or equal than", "is equal to", "is not equal to",
}

// ParseThresholdRelation decodes an entSensorThresholdRelation value.
func ParseThresholdRelation(code string) (ThresholdRelation, error) {
	v, err := parseCode("threshold relation", code, len(relationNames)-1)
	if err != nil {
		return 0, err
	}
	return ThresholdRelation(v), nil
}

func (r ThresholdRelation) String() string {
	if r < RelationLessThan || r > RelationNotEqualTo {
		return fmt.Sprintf("ThresholdRelation(%d)", int(r))
	}
	return relationNames[r]
}

// Phrase is the verb phrase used in alarm sentences ("is greater than").
func (r ThresholdRelation) Phrase() string {
	if r < RelationLessThan || r > RelationNotEqualTo {
		return r.String()
	}
	return relationPhrases[r]
}

// Holds reports whether value relates to threshold as r requires.
func (r ThresholdRelation) Holds(value, threshold int) bool {
	switch r {
	case RelationLessThan:
		return value < threshold
	case RelationLessOrEqual:
		return value <= threshold
	case RelationGreaterThan:
		return value > threshold
	case RelationGreaterOrEqual:
		return value >= threshold
	case RelationEqualTo:
		return value == threshold
	case RelationNotEqualTo:
		return value != threshold
	default:
		return false
	}
}
