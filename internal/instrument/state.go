// Package instrument simulates the UCoMP configuration while a script runs.
//
// State is a plain struct with one field per mechanism. Commands update it
// after they have been validated; data commands are classified against it
// (dark, flat, coronal, calibration) and keyed by signatures that match
// calibration exposures to the science exposures they calibrate.
package instrument

import (
	"strconv"
	"strings"

	"github.com/vk/ucompcheck/internal/rules"
)

const (
	In  = "in"
	Out = "out"

	DefaultExposure = "80"
	DefaultGain     = "high"
)

// State is the simulated instrument configuration. Unset positions are "".
type State struct {
	Exposure       string // milliseconds, numeric string
	Gain           string
	Shutter        string
	Cover          string
	Occulter       string
	CalUnit        string
	Diffuser       string
	DistortionGrid string
	ND             string
	Prefilter      string
	CalRetarder    string // degrees
	CalPolarizer   string // degrees

	timing rules.Timing
}

// New returns the state every menu starts from, using the given timing
// constants for hardware and integration estimates.
func New(timing rules.Timing) *State {
	return &State{
		Exposure: DefaultExposure,
		Gain:     DefaultGain,
		timing:   timing,
	}
}

// field returns the state field driven by command name, or nil when the
// command has no state effect.
func (s *State) field(name string) *string {
	switch name {
	case "exposure":
		return &s.Exposure
	case "gain":
		return &s.Gain
	case "shut":
		return &s.Shutter
	case "cover":
		return &s.Cover
	case "occ":
		return &s.Occulter
	case "calib":
		return &s.CalUnit
	case "diffuser":
		return &s.Diffuser
	case "distortiongrid":
		return &s.DistortionGrid
	case "nd":
		return &s.ND
	case "prefilterrange":
		return &s.Prefilter
	case "calret":
		return &s.CalRetarder
	case "calpol":
		return &s.CalPolarizer
	default:
		return nil
	}
}

// Update overwrites the field driven by command name with value and returns
// the hardware time in seconds the move costs. Only a change of value is
// charged; re-issuing the stored position is free. Commands that drive no
// field are ignored. Update must only be called for validated commands.
func (s *State) Update(name, value string) float64 {
	f := s.field(name)
	if f == nil {
		return 0
	}
	var cost float64
	if *f != value {
		cost = s.timing.HardwareSec[name]
	}
	*f = value
	return cost
}

// IsDark reports whether the shutter blocks the beam.
func (s *State) IsDark() bool {
	return s.Shutter == In
}

// IsFlat reports whether only the diffuser is in an open beam.
func (s *State) IsFlat() bool {
	return s.Shutter == Out && s.CalUnit == Out && s.Diffuser == In
}

// IsCoronal reports whether the beam is open with all calibration optics out.
func (s *State) IsCoronal() bool {
	return s.Shutter == Out && s.CalUnit == Out && s.Diffuser == Out
}

// IsCalibration reports whether the calibration unit and diffuser are in an
// open beam.
func (s *State) IsCalibration() bool {
	return s.Shutter == Out && s.CalUnit == In && s.Diffuser == In
}

// IntegrationMs estimates the camera time of one data command summing numsum
// images at the current exposure and gain.
func (s *State) IntegrationMs(numsum int) float64 {
	exposure, err := strconv.ParseFloat(s.Exposure, 64)
	if err != nil {
		exposure = 0
	}
	readout := s.timing.ReadoutMs[s.Gain]
	return s.timing.RelaxationMs + (exposure+readout)*s.timing.FramesPerSum*float64(numsum)
}

// ExposureSignature keys the exposure class used to match darks: exposure,
// gain and numsum.
func (s *State) ExposureSignature(numsum string) string {
	return signature(s.Exposure, s.Gain, numsum)
}

// FullSignature keys the class used to match flats: gain, numsum, camera,
// continuum and wavelength.
func (s *State) FullSignature(camera, continuum, wavelength, numsum string) string {
	return signature(s.Gain, numsum, camera, continuum, wavelength)
}

func signature(parts ...string) string {
	return strings.Join(parts, "/")
}
