package validator

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vk/ucompcheck/internal/model"
	"github.com/vk/ucompcheck/internal/rules"
)

func command(text string) model.Command {
	return model.NewLine(7, text).Command()
}

func TestValidate(t *testing.T) {
	t.Parallel()

	v := New(rules.Default())

	testCases := []struct {
		name     string
		input    string
		code     model.Code // empty means valid
		field    string
		severity model.Severity
	}{
		{name: "Valid data command", input: "data tcam both 1074 8"},
		{name: "Valid data command upper-case", input: "DATA RCAM Red 530 1"},
		{name: "Bad camera", input: "data xcam both 1074 8", code: model.CodeInvalidArgumentValue, field: model.FieldCamera},
		{name: "Bad continuum", input: "data tcam green 1074 8", code: model.CodeInvalidArgumentValue, field: model.FieldContinuum},
		{name: "Wavelength out of range", input: "data tcam both 2000 8", code: model.CodeInvalidArgumentValue, field: model.FieldWavelength},
		{name: "Wavelength not numeric", input: "data tcam both abc 8", code: model.CodeInvalidArgumentValue, field: model.FieldWavelength},
		{name: "Numsum out of range", input: "data tcam both 1074 32", code: model.CodeInvalidArgumentValue, field: model.FieldNumsum},
		{name: "Numsum not an integer", input: "data tcam both 1074 2.5", code: model.CodeInvalidArgumentValue, field: model.FieldNumsum},
		{name: "Data arity", input: "data tcam both 1074", code: model.CodeInvalidArgumentCount},
		{name: "Exposure in range", input: "exposure 80"},
		{name: "Exposure out of range", input: "exposure 90", code: model.CodeInvalidArgumentValue, field: model.FieldExposure},
		{name: "Exposure zero", input: "exposure 0", code: model.CodeInvalidArgumentValue, field: model.FieldExposure},
		{name: "Exposure NaN", input: "exposure nan", code: model.CodeInvalidArgumentValue, field: model.FieldExposure},
		{name: "Exposure arity", input: "exposure", code: model.CodeInvalidArgumentCount},
		{name: "Gain low", input: "gain low"},
		{name: "Gain invalid", input: "gain medium", code: model.CodeInvalidArgumentValue, field: model.FieldGain},
		{name: "Position in", input: "occ in"},
		{name: "Position out", input: "distortiongrid out"},
		{name: "Position invalid", input: "cover open", code: model.CodeInvalidArgumentValue, field: model.FieldPosition},
		{name: "Position arity", input: "shut in out", code: model.CodeInvalidArgumentCount},
		{name: "Prefilter valid", input: "prefilterrange 1074"},
		{name: "Prefilter invalid", input: "prefilterrange 1075", code: model.CodeInvalidArgumentValue, field: model.FieldPrefilter},
		{name: "Angle valid", input: "calret 45.5"},
		{name: "Angle boundary", input: "calpol 360"},
		{name: "Angle out of range warns", input: "calpol 400", code: model.CodeAngleOutOfRange, field: model.FieldAngle, severity: model.SeverityWarning},
		{name: "Negative angle warns", input: "calret -10", code: model.CodeAngleOutOfRange, field: model.FieldAngle, severity: model.SeverityWarning},
		{name: "Angle not numeric", input: "calret north", code: model.CodeInvalidArgumentValue, field: model.FieldAngle},
		{name: "Recognized command without rule", input: "modwait 5"},
		{name: "Ignored command", input: "author Jane Doe"},
		{name: "Unknown command", input: "focus 12", code: model.CodeUnknownCommand},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			// --- Act ---
			issue := v.Validate(command(tc.input))

			// --- Assert ---
			if tc.code == "" {
				require.Nil(t, issue)
				return
			}
			require.NotNil(t, issue)
			require.Equal(t, tc.code, issue.Code)
			require.Equal(t, tc.field, issue.Field)
			require.Equal(t, tc.severity, issue.Severity)
			require.Equal(t, 7, issue.Line)
			require.NotEmpty(t, issue.Message)
			require.Equal(t, model.NewLine(7, tc.input).Text(), issue.Context)
		})
	}
}

func TestValidate_UsesConfiguredRanges(t *testing.T) {
	t.Parallel()

	table := rules.Default()
	table.Wavelength = rules.Range{Min: 1000, Max: 1100}
	v := New(table)

	require.Nil(t, v.Validate(command("data tcam both 1074 8")))
	issue := v.Validate(command("data tcam both 637 8"))
	require.NotNil(t, issue)
	require.Equal(t, model.FieldWavelength, issue.Field)
}
