package instrument

// Class is the kind of exposure a data command takes in the current state.
type Class int

const (
	ClassNone Class = iota
	ClassDark
	ClassFlat
	ClassCoronal
	ClassCalibration
)

func (c Class) String() string {
	switch c {
	case ClassDark:
		return "dark"
	case ClassFlat:
		return "flat"
	case ClassCoronal:
		return "coronal"
	case ClassCalibration:
		return "calibration"
	default:
		return "none"
	}
}

// Classify evaluates the four predicates. They are mutually exclusive.
func (s *State) Classify() Class {
	switch {
	case s.IsDark():
		return ClassDark
	case s.IsFlat():
		return ClassFlat
	case s.IsCoronal():
		return ClassCoronal
	case s.IsCalibration():
		return ClassCalibration
	default:
		return ClassNone
	}
}
