// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
package model

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLines(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	content := "Data TCAM Both 1074 8   # coronal\r\n\r\n# only a comment\nocc\tIN\n"

	// --- Act ---
	lines := ParseLines(content)

	// --- Assert ---
	want := []Line{
		{No: 1, Fields: []string{"data", "tcam", "both", "1074", "8"}, Raw: []string{"Data", "TCAM", "Both", "1074", "8"}},
		{No: 2, Fields: []string{}, Raw: []string{}},
		{No: 3, Fields: []string{}, Raw: []string{}},
		{No: 4, Fields: []string{"occ", "in"}, Raw: []string{"occ", "IN"}},
	}
	if diff := cmp.Diff(want, lines); diff != "" {
		t.Errorf("ParseLines mismatch (-want +got):\n%s", diff)
	}
	assert.True(t, lines[1].Empty())
	assert.Equal(t, "", lines[2].First())
	assert.Equal(t, "occ in", lines[3].Text())
}

func TestLine_Command(t *testing.T) {
	t.Parallel()

	cmd := NewLine(7, "Exposure 40").Command()

	assert.Equal(t, Command{Name: "exposure", Args: []string{"40"}, Line: 7}, cmd)
	assert.Equal(t, "exposure 40", cmd.String())
	assert.Equal(t, "saveall", NewLine(1, "saveall").Command().String())
}

func TestKind(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name  string
		file  string
		kind  Kind
		child Kind
	}{
		{name: "menu", file: "night.menu", kind: KindMenu, child: KindCookbook},
		{name: "cookbook upper-case", file: "WAVE.CBK", kind: KindCookbook, child: KindRecipe},
		{name: "recipe", file: "dir/setup.rcp", kind: KindRecipe, child: KindRecipe},
		{name: "other", file: "notes.txt", kind: KindUnknown, child: KindUnknown},
	}

	s := DefaultSuffixes()
	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			k := s.KindOf(tc.file)
			assert.Equal(t, tc.kind, k)
			assert.Equal(t, tc.child, k.Child())
		})
	}
	assert.Equal(t, ".cbk", s.For(KindCookbook))
	assert.Equal(t, "recipe", KindRecipe.String())
}

func TestSuffixes_Validate(t *testing.T) {
	t.Parallel()

	require.NoError(t, DefaultSuffixes().Validate())

	err := Suffixes{Menu: ".menu", Cookbook: "", Recipe: ".rcp"}.Validate()
	require.ErrorContains(t, err, "suffix for cookbook scripts must not be empty")

	err = Suffixes{Menu: ".MENU", Cookbook: ".cbk", Recipe: ".rcp"}.Validate()
	require.ErrorContains(t, err, "must be lower-case")

	err = Suffixes{Menu: ".menu", Cookbook: ".rcp", Recipe: ".rcp"}.Validate()
	require.ErrorContains(t, err, "is used by both cookbook and recipe scripts")
}

func TestPath(t *testing.T) {
	t.Parallel()

	root := Path{"night.menu"}
	child := root.Child("a.cbk")

	assert.Equal(t, "night.menu.a.cbk", child.String())
	assert.Equal(t, "a.cbk", child.Leaf())
	assert.Equal(t, "night.menu", child.Root())
	assert.Len(t, root, 1, "Child must not modify the receiver")
	assert.Equal(t, "", Path(nil).Leaf())
}

func TestIssue_String(t *testing.T) {
	t.Parallel()

	withLine := Issue{
		Severity: SeverityError,
		Code:     CodeInvalidArgumentValue,
		Scope:    Path{"night.menu", "a.cbk"},
		Line:     4,
		Message:  "Invalid exposure: 90 (valid range: 1-84)",
		Context:  "exposure 90",
	}
	assert.Equal(t, "[ERROR] night.menu.a.cbk:4: Invalid exposure: 90 (valid range: 1-84) (context: exposure 90)", withLine.String())

	noLine := Issue{Severity: SeverityWarning, Scope: Path{"a.cbk"}, Message: "Missing dark for configuration: 80/high/8"}
	assert.Equal(t, "[WARNING] a.cbk: Missing dark for configuration: 80/high/8", noLine.String())

	issues := Issues{withLine, noLine}
	assert.Equal(t, 1, issues.Count(SeverityError))
	assert.True(t, issues.HasErrors())
	assert.True(t, issues.HasWarnings())
	assert.False(t, Issues{noLine}.HasErrors())
}

func TestTiming(t *testing.T) {
	t.Parallel()

	total := Timing{IntegrationMs: 60000, HardwareSec: 30}.Add(Timing{IntegrationMs: 60000, HardwareSec: 90})

	assert.InDelta(t, 2.0, total.IntegrationMinutes(), 1e-9)
	assert.InDelta(t, 2.0, total.HardwareMinutes(), 1e-9)
	assert.InDelta(t, 4.0, total.TotalMinutes(), 1e-9)
}

func TestReadScriptNode(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "Quiet.menu")
	require.NoError(t, os.WriteFile(path, []byte("NOWARNING\nnight.cbk\n"), 0o600))

	node, err := ReadScriptNode(path, KindMenu)
	require.NoError(t, err)
	assert.Equal(t, "Quiet.menu", node.Name)
	assert.Len(t, node.Lines, 2)
	assert.True(t, node.Suppressed())
	assert.False(t, NewScriptNode("x.cbk", KindCookbook, "NOWARNING").Suppressed())

	_, err = ReadScriptNode(filepath.Join(dir, "gone.menu"), KindMenu)
	require.ErrorContains(t, err, "failed to read menu")
}
