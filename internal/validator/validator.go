// Package validator checks single instrument commands against a rule table.
package validator

import (
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/vk/ucompcheck/internal/model"
	"github.com/vk/ucompcheck/internal/rules"
)

// Validator is stateless apart from the rule table it reads.
type Validator struct {
	rules *rules.Table
}

// New returns a Validator for the given rule table.
func New(table *rules.Table) *Validator {
	return &Validator{rules: table}
}

// Validate returns the finding for cmd, or nil when cmd is valid. The
// returned issue has no scope; the caller owns the script context. A warning
// (an angle outside its normal range) does not make the command invalid.
func (v *Validator) Validate(cmd model.Command) *model.Issue {
	if v.rules.IsIgnored(cmd.Name) {
		return nil
	}
	if !v.rules.IsValid(cmd.Name) {
		return v.errorf(cmd, model.CodeUnknownCommand, "", "Unknown command: %s", cmd.Name)
	}

	switch {
	case cmd.Name == "data":
		return v.validateData(cmd)
	case cmd.Name == "exposure":
		return v.validateExposure(cmd)
	case cmd.Name == "gain":
		return v.validateEnum(cmd, model.FieldGain, v.rules.GainValues)
	case v.rules.IsPosition(cmd.Name):
		return v.validateEnum(cmd, model.FieldPosition, v.rules.PositionValues)
	case cmd.Name == "prefilterrange":
		return v.validateEnum(cmd, model.FieldPrefilter, v.rules.Prefilters)
	case cmd.Name == "calret" || cmd.Name == "calpol":
		return v.validateAngle(cmd)
	}
	return nil
}

func (v *Validator) validateData(cmd model.Command) *model.Issue {
	if issue := v.arity(cmd, 4); issue != nil {
		return issue
	}
	cam, cont, wave, sums := cmd.Args[0], cmd.Args[1], cmd.Args[2], cmd.Args[3]

	if !slices.Contains(v.rules.CameraValues, cam) {
		return v.errorf(cmd, model.CodeInvalidArgumentValue, model.FieldCamera,
			"Invalid camera: %s (valid: %s)", cam, strings.Join(v.rules.CameraValues, ", "))
	}
	if !slices.Contains(v.rules.ContinuumValues, cont) {
		return v.errorf(cmd, model.CodeInvalidArgumentValue, model.FieldContinuum,
			"Invalid continuum: %s (valid: %s)", cont, strings.Join(v.rules.ContinuumValues, ", "))
	}

	w, err := parseNumber(wave)
	if err != nil {
		return v.errorf(cmd, model.CodeInvalidArgumentValue, model.FieldWavelength,
			"Wavelength must be a number: %s", wave)
	}
	if !v.rules.Wavelength.Contains(w) {
		return v.errorf(cmd, model.CodeInvalidArgumentValue, model.FieldWavelength,
			"Wavelength %s out of range (%s)", wave, v.rules.Wavelength)
	}

	n, err := strconv.Atoi(sums)
	if err != nil {
		return v.errorf(cmd, model.CodeInvalidArgumentValue, model.FieldNumsum,
			"Numsum must be an integer: %s", sums)
	}
	if !v.rules.Numsum.Contains(float64(n)) {
		return v.errorf(cmd, model.CodeInvalidArgumentValue, model.FieldNumsum,
			"Numsum %s out of range (%s)", sums, v.rules.Numsum)
	}
	return nil
}

func (v *Validator) validateExposure(cmd model.Command) *model.Issue {
	if issue := v.arity(cmd, 1); issue != nil {
		return issue
	}
	exp, err := parseNumber(cmd.Args[0])
	if err != nil {
		return v.errorf(cmd, model.CodeInvalidArgumentValue, model.FieldExposure,
			"Exposure must be a number: %s", cmd.Args[0])
	}
	if !v.rules.Exposure.Contains(exp) {
		return v.errorf(cmd, model.CodeInvalidArgumentValue, model.FieldExposure,
			"Exposure %sms out of range (%sms)", cmd.Args[0], v.rules.Exposure)
	}
	return nil
}

func (v *Validator) validateEnum(cmd model.Command, field string, allowed []string) *model.Issue {
	if issue := v.arity(cmd, 1); issue != nil {
		return issue
	}
	if !slices.Contains(allowed, cmd.Args[0]) {
		return v.errorf(cmd, model.CodeInvalidArgumentValue, field,
			"Invalid %s for %s: %s (valid: %s)", field, cmd.Name, cmd.Args[0], strings.Join(allowed, ", "))
	}
	return nil
}

func (v *Validator) validateAngle(cmd model.Command) *model.Issue {
	if issue := v.arity(cmd, 1); issue != nil {
		return issue
	}
	angle, err := parseNumber(cmd.Args[0])
	if err != nil {
		return v.errorf(cmd, model.CodeInvalidArgumentValue, model.FieldAngle,
			"Angle must be a number: %s", cmd.Args[0])
	}
	if !v.rules.Angle.Contains(angle) {
		issue := v.errorf(cmd, model.CodeAngleOutOfRange, model.FieldAngle,
			"Angle %s outside normal range (%s)", cmd.Args[0], v.rules.Angle)
		issue.Severity = model.SeverityWarning
		return issue
	}
	return nil
}

func (v *Validator) arity(cmd model.Command, want int) *model.Issue {
	if len(cmd.Args) == want {
		return nil
	}
	return v.errorf(cmd, model.CodeInvalidArgumentCount, "",
		"%s command requires %d argument(s), got %d", strings.ToUpper(cmd.Name), want, len(cmd.Args))
}

func (v *Validator) errorf(cmd model.Command, code model.Code, field, format string, args ...any) *model.Issue {
	return &model.Issue{
		Severity: model.SeverityError,
		Code:     code,
		Field:    field,
		Line:     cmd.Line,
		Message:  fmt.Sprintf(format, args...),
		Context:  cmd.String(),
	}
}

// parseNumber accepts finite decimal numbers only; "nan" and "inf" are not
// instrument values.
func parseNumber(s string) (float64, error) {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("%q is not a finite number", s)
	}
	return f, nil
}
