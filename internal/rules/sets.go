package rules

import "fmt"

// setValues replaces the allowed value set called name.
func (t *Table) setValues(name string, values []string) error {
	switch name {
	case "position":
		t.PositionValues = values
	case "gain":
		t.GainValues = values
	case "camera":
		t.CameraValues = values
	case "continuum":
		t.ContinuumValues = values
	case "prefilter":
		t.Prefilters = values
	default:
		return fmt.Errorf("unknown value set %q", name)
	}
	return nil
}

// setRange replaces the numeric range called name.
func (t *Table) setRange(name string, r Range) error {
	switch name {
	case "wavelength":
		t.Wavelength = r
	case "exposure":
		t.Exposure = r
	case "numsum":
		t.Numsum = r
	case "angle":
		t.Angle = r
	default:
		return fmt.Errorf("unknown range %q", name)
	}
	return nil
}
