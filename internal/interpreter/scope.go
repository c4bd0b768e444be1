package interpreter

import (
	"github.com/vk/ucompcheck/internal/instrument"
	"github.com/vk/ucompcheck/internal/model"
)

// Scope is the signature record of one menu, or of a directly validated
// cookbook or recipe, as handed to collaborators.
type Scope struct {
	Path            model.Path
	Darks           []string
	Flats           []string
	CoronalExposure []string
	CoronalFull     []string
}

// accumulator collects the signatures recorded while a scope is open.
type accumulator struct {
	path        model.Path
	darks       *instrument.SignatureSet
	flats       *instrument.SignatureSet
	coronalExp  *instrument.SignatureSet
	coronalFull *instrument.SignatureSet
}

func newAccumulator(path model.Path) *accumulator {
	return &accumulator{
		path:        path,
		darks:       instrument.NewSignatureSet(),
		flats:       instrument.NewSignatureSet(),
		coronalExp:  instrument.NewSignatureSet(),
		coronalFull: instrument.NewSignatureSet(),
	}
}

// record files the data command's signatures under the class the state
// currently classifies as.
func (a *accumulator) record(class instrument.Class, s *instrument.State, cmd model.Command) {
	cam, cont, wave, sums := cmd.Args[0], cmd.Args[1], cmd.Args[2], cmd.Args[3]
	switch class {
	case instrument.ClassDark:
		a.darks.Add(s.ExposureSignature(sums))
	case instrument.ClassFlat:
		a.flats.Add(s.FullSignature(cam, cont, wave, sums))
	case instrument.ClassCoronal:
		a.coronalExp.Add(s.ExposureSignature(sums))
		a.coronalFull.Add(s.FullSignature(cam, cont, wave, sums))
	}
}

func (a *accumulator) snapshot() Scope {
	return Scope{
		Path:            a.path,
		Darks:           a.darks.Values(),
		Flats:           a.flats.Values(),
		CoronalExposure: a.coronalExp.Values(),
		CoronalFull:     a.coronalFull.Values(),
	}
}
