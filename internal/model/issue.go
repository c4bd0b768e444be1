// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
package model

import (
	"fmt"
	"strings"
)

// Severity of a finding. Only errors are expected to fail a CI run; warnings
// are advisory unless the driver is told otherwise.
type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
)

func (s Severity) String() string {
	if s == SeverityWarning {
		return "WARNING"
	}
	return "ERROR"
}

// Code identifies the kind of finding.
type Code string

const (
	CodeMissingFile          Code = "MissingFile"
	CodeCyclicReference      Code = "CyclicReference"
	CodeUnknownCommand       Code = "UnknownCommand"
	CodeInvalidArgumentCount Code = "InvalidArgumentCount"
	CodeInvalidArgumentValue Code = "InvalidArgumentValue"
	CodeAngleOutOfRange      Code = "AngleOutOfRange"
	CodeMalformedLoop        Code = "MalformedLoop"
	CodeMissingDark          Code = "MissingDark"
	CodeMissingFlat          Code = "MissingFlat"
)

// Argument fields named by InvalidArgumentValue findings.
const (
	FieldCamera     = "camera"
	FieldContinuum  = "continuum"
	FieldWavelength = "wavelength"
	FieldNumsum     = "numsum"
	FieldExposure   = "exposure"
	FieldGain       = "gain"
	FieldPosition   = "position"
	FieldPrefilter  = "prefilter"
	FieldAngle      = "angle"
)

// Issue is one validation finding. Line is 0 when the finding is not tied to
// a source line. Issues are values and are never modified once appended.
type Issue struct {
	Severity Severity
	Code     Code
	Field    string
	Scope    Path
	Line     int
	Message  string
	Context  string
}

// Location renders "scope:line", or just the scope when there is no line.
func (i Issue) Location() string {
	if i.Line > 0 {
		return fmt.Sprintf("%s:%d", i.Scope, i.Line)
	}
	return i.Scope.String()
}

func (i Issue) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "[%s] %s: %s", i.Severity, i.Location(), i.Message)
	if i.Context != "" {
		fmt.Fprintf(&sb, " (context: %s)", i.Context)
	}
	return sb.String()
}

// Issues is an ordered list of findings.
type Issues []Issue

// Count returns the number of issues with the given severity.
func (is Issues) Count(s Severity) int {
	n := 0
	for _, i := range is {
		if i.Severity == s {
			n++
		}
	}
	return n
}

// HasErrors reports whether any issue is an error.
func (is Issues) HasErrors() bool {
	return is.Count(SeverityError) > 0
}

// HasWarnings reports whether any issue is a warning.
func (is Issues) HasWarnings() bool {
	return is.Count(SeverityWarning) > 0
}
