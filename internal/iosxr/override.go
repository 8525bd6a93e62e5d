package iosxr

// Override replaces the agent-reported thresholds of sensors whose
// entPhysicalDescr matches Description. Some IOS-XR releases report
// thresholds for these sensors that do not match the value's precision.
type Override struct {
	Description string `mapstructure:"description"`
	Min         int    `mapstructure:"min"`
	Max         int    `mapstructure:"max"`
	DisplayMin  int    `mapstructure:"display_min"`
	DisplayMax  int    `mapstructure:"display_max"`
	// Point is where a decimal point is inserted into the raw value for
	// display. Zero leaves the value as reported.
	Point int `mapstructure:"point"`
}

// DefaultOverrides returns the built-in override table keyed by
// description.
func DefaultOverrides() map[string]Override {
	return map[string]Override{
		"Transceiver Temperature Sensor": {
			Description: "Transceiver Temperature Sensor",
			Min:         0, Max: 700, DisplayMin: 0, DisplayMax: 70, Point: 2,
		},
		"Inlet Temperature SensorInlet0": {
			Description: "Inlet Temperature SensorInlet0",
			Min:         0, Max: 350, DisplayMin: 0, DisplayMax: 35, Point: 2,
		},
		"Hot Temperature SensorHotspot0": {
			Description: "Hot Temperature SensorHotspot0",
			Min:         0, Max: 550, DisplayMin: 0, DisplayMax: 55, Point: 2,
		},
	}
}

// MergeOverrides returns the built-in table extended with extra. An extra
// entry replaces a built-in one with the same description.
func MergeOverrides(extra []Override) map[string]Override {
	table := DefaultOverrides()
	for _, o := range extra {
		if o.Description == "" {
			continue
		}
		table[o.Description] = o
	}
	return table
}

// displayValue inserts the override's decimal point into raw.
func (o Override) displayValue(raw string) string {
	if o.Point <= 0 {
		return raw
	}
	p := min(o.Point, len(raw))
	return raw[:p] + "." + raw[p:]
}
