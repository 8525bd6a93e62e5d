package mib

// CISCO-BGP4-MIB cbgpPeer2Table (1.3.6.1.4.1.9.9.187.1.2.5.1).
// Rows are indexed by cbgpPeer2Type.length.address.
const (
	OIDCbgpPeer2State        = "1.3.6.1.4.1.9.9.187.1.2.5.1.3"
	OIDCbgpPeer2RemoteAs     = "1.3.6.1.4.1.9.9.187.1.2.5.1.11"
	OIDCbgpPeer2LastErrorTxt = "1.3.6.1.4.1.9.9.187.1.2.5.1.28"

	// Index prefixes for the two address families.
	PeerIndexIPv4 = "1.4"
	PeerIndexIPv6 = "2.16"
)

// CISCO-ENTITY-SENSOR-MIB entSensorValueTable (1.3.6.1.4.1.9.9.91.1.1.1.1),
// indexed by entPhysicalIndex.
const (
	OIDEntSensorType      = "1.3.6.1.4.1.9.9.91.1.1.1.1.1"
	OIDEntSensorScale     = "1.3.6.1.4.1.9.9.91.1.1.1.1.2"
	OIDEntSensorPrecision = "1.3.6.1.4.1.9.9.91.1.1.1.1.3"
	OIDEntSensorValue     = "1.3.6.1.4.1.9.9.91.1.1.1.1.4"
	OIDEntSensorStatus    = "1.3.6.1.4.1.9.9.91.1.1.1.1.5"
)

// CISCO-ENTITY-SENSOR-MIB entSensorThresholdTable (1.3.6.1.4.1.9.9.91.1.2.1.1),
// indexed by entPhysicalIndex.entSensorThresholdIndex.
const (
	OIDEntSensorThresholdRelation     = "1.3.6.1.4.1.9.9.91.1.2.1.1.3"
	OIDEntSensorThresholdValue        = "1.3.6.1.4.1.9.9.91.1.2.1.1.4"
	OIDEntSensorThresholdNotifyEnable = "1.3.6.1.4.1.9.9.91.1.2.1.1.6"
)

// ENTITY-MIB entPhysicalTable (1.3.6.1.2.1.47.1.1.1.1).
const (
	OIDEntPhysicalDescr = "1.3.6.1.2.1.47.1.1.1.1.2"
	OIDEntPhysicalClass = "1.3.6.1.2.1.47.1.1.1.1.5"
	OIDEntPhysicalName  = "1.3.6.1.2.1.47.1.1.1.1.7"
)

// ThresholdNotConfigured is the entSensorThresholdValue agents report for
// a threshold that has no value.
const ThresholdNotConfigured = -32768

// ThresholdSlots is the number of threshold rows checked per sensor.
const ThresholdSlots = 6

// TruthValueTrue is SNMPv2-TC TruthValue true(1).
const TruthValueTrue = 1
