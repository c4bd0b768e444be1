package instrument

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/ucompcheck/internal/rules"
)

func newState() *State {
	return New(rules.Default().Timing)
}

func TestNew_Defaults(t *testing.T) {
	t.Parallel()

	s := newState()
	assert.Equal(t, "80", s.Exposure)
	assert.Equal(t, "high", s.Gain)
	assert.Empty(t, s.Shutter)
	assert.Empty(t, s.Occulter)
	assert.False(t, s.IsDark())
	assert.False(t, s.IsFlat())
	assert.False(t, s.IsCoronal())
	assert.False(t, s.IsCalibration())
}

func TestUpdate_ChargesOnlyOnChange(t *testing.T) {
	t.Parallel()

	s := newState()

	// First move away from the unset position is charged.
	require.Equal(t, 20.0, s.Update("occ", "out"))
	// Re-issuing the same position is free.
	require.Equal(t, 0.0, s.Update("occ", "out"))
	require.Equal(t, 20.0, s.Update("occ", "in"))
	require.Equal(t, 20.0, s.Update("occ", "out"))
	require.Equal(t, "out", s.Occulter)

	costs := map[string]float64{
		"cover":          60,
		"prefilterrange": 25,
		"calret":         5,
		"calpol":         5,
		"calib":          20,
		"diffuser":       20,
	}
	values := map[string]string{
		"cover":          "in",
		"prefilterrange": "1074",
		"calret":         "45",
		"calpol":         "90",
		"calib":          "in",
		"diffuser":       "in",
	}
	for cmd, cost := range costs {
		require.Equal(t, cost, s.Update(cmd, values[cmd]), cmd)
		require.Equal(t, 0.0, s.Update(cmd, values[cmd]), cmd)
	}

	// Moves without a hardware constant are free but still stored.
	require.Equal(t, 0.0, s.Update("shut", "in"))
	require.Equal(t, "in", s.Shutter)
	require.Equal(t, 0.0, s.Update("exposure", "40"))
	require.Equal(t, "40", s.Exposure)
	require.Equal(t, 0.0, s.Update("modwait", "1"))
}

func TestClassification(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name                         string
		shut, calib, diffuser        string
		dark, flat, coronal, calibra bool
	}{
		{name: "Dark", shut: In, calib: Out, diffuser: Out, dark: true},
		{name: "Dark regardless of optics", shut: In, calib: In, diffuser: In, dark: true},
		{name: "Flat", shut: Out, calib: Out, diffuser: In, flat: true},
		{name: "Coronal", shut: Out, calib: Out, diffuser: Out, coronal: true},
		{name: "Calibration", shut: Out, calib: In, diffuser: In, calibra: true},
		{name: "Calibration unit without diffuser", shut: Out, calib: In, diffuser: Out},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			s := newState()
			s.Update("shut", tc.shut)
			s.Update("calib", tc.calib)
			s.Update("diffuser", tc.diffuser)

			assert.Equal(t, tc.dark, s.IsDark())
			assert.Equal(t, tc.flat, s.IsFlat())
			assert.Equal(t, tc.coronal, s.IsCoronal())
			assert.Equal(t, tc.calibra, s.IsCalibration())
		})
	}
}

func TestIntegrationMs(t *testing.T) {
	t.Parallel()

	s := newState()
	// 300 + (80 + 13.7) * 4 * 8
	require.InDelta(t, 3298.4, s.IntegrationMs(8), 1e-9)

	s.Update("gain", "low")
	s.Update("exposure", "20")
	// 300 + (20 + 7.6) * 4 * 2
	require.InDelta(t, 520.8, s.IntegrationMs(2), 1e-9)
}

func TestSignatures(t *testing.T) {
	t.Parallel()

	s := newState()
	require.Equal(t, "80/high/8", s.ExposureSignature("8"))
	require.Equal(t, "high/8/tcam/both/1074", s.FullSignature("tcam", "both", "1074", "8"))

	s.Update("exposure", "40")
	require.NotEqual(t, "80/high/8", s.ExposureSignature("8"))
}

func TestSignatureSet(t *testing.T) {
	t.Parallel()

	set := NewSignatureSet()
	require.True(t, set.Add("b"))
	require.True(t, set.Add("a"))
	require.False(t, set.Add("b"))
	require.True(t, set.Has("a"))
	require.False(t, set.Has("c"))
	require.Equal(t, 2, set.Len())
	require.Equal(t, []string{"b", "a"}, set.Values())
}

func TestClassify(t *testing.T) {
	t.Parallel()

	s := newState()
	require.Equal(t, ClassNone, s.Classify())
	s.Update("shut", In)
	require.Equal(t, ClassDark, s.Classify())
	s.Update("shut", Out)
	s.Update("calib", Out)
	s.Update("diffuser", In)
	require.Equal(t, ClassFlat, s.Classify())
	s.Update("diffuser", Out)
	require.Equal(t, ClassCoronal, s.Classify())
	s.Update("calib", In)
	s.Update("diffuser", In)
	require.Equal(t, ClassCalibration, s.Classify())
	require.Equal(t, "calibration", s.Classify().String())
}
