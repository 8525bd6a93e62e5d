package envmon

import (
	"context"
	"fmt"

	"github.com/HerbHall/snmpcheck/internal/mib"
	"github.com/HerbHall/snmpcheck/internal/snmp"
)

// entity is the ENTITY-MIB and sensor metadata of one physical index.
type entity struct {
	class      mib.PhysicalClass
	descr      string
	name       string
	sensorType mib.SensorType
	scale      mib.SensorScale
}

// label renders the "<class>: <descr> (<name>)" prefix of report lines.
func (e *entity) label() string {
	return fmt.Sprintf("%s: %s (%s)", e.class, e.descr, e.name)
}

// entity returns the metadata for index, fetching it on first use.
func (c *Checker) entity(ctx context.Context, index string) (*entity, error) {
	if e, ok := c.entities[index]; ok {
		return e, nil
	}

	get := func(base string) (snmp.Value, error) {
		v, err := c.client.Get(ctx, snmp.JoinOID(base, index))
		if err != nil {
			return snmp.Missing, fmt.Errorf("sensor %s: %w", index, err)
		}
		return v, nil
	}

	classVal, err := get(mib.OIDEntPhysicalClass)
	if err != nil {
		return nil, err
	}
	class, err := mib.ParsePhysicalClass(classVal.String())
	if err != nil {
		return nil, fmt.Errorf("sensor %s: %w", index, err)
	}

	descr, err := get(mib.OIDEntPhysicalDescr)
	if err != nil {
		return nil, err
	}
	name, err := get(mib.OIDEntPhysicalName)
	if err != nil {
		return nil, err
	}

	typeVal, err := get(mib.OIDEntSensorType)
	if err != nil {
		return nil, err
	}
	sensorType, err := mib.ParseSensorType(typeVal.String())
	if err != nil {
		return nil, fmt.Errorf("sensor %s: %w", index, err)
	}

	scaleVal, err := get(mib.OIDEntSensorScale)
	if err != nil {
		return nil, err
	}
	scale, err := mib.ParseSensorScale(scaleVal.String())
	if err != nil {
		return nil, fmt.Errorf("sensor %s: %w", index, err)
	}

	e := &entity{
		class:      class,
		descr:      descr.String(),
		name:       name.String(),
		sensorType: sensorType,
		scale:      scale,
	}
	c.entities[index] = e
	return e, nil
}
