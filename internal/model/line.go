// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
package model

import "strings"

// commentMarker starts a trailing comment on any script line.
const commentMarker = "#"

// Line is one normalized source line. Fields are lower-cased tokens; Raw keeps
// the original casing so script references can still be resolved on
// case-sensitive file systems.
type Line struct {
	No     int
	Fields []string
	Raw    []string
}

// Empty reports whether the line carries no tokens after comment stripping.
func (l Line) Empty() bool {
	return len(l.Fields) == 0
}

// First returns the first token, or "" for an empty line.
func (l Line) First() string {
	if l.Empty() {
		return ""
	}
	return l.Fields[0]
}

// Text rejoins the normalized tokens with single spaces.
func (l Line) Text() string {
	return strings.Join(l.Fields, " ")
}

// Command returns the command view of the line.
func (l Line) Command() Command {
	cmd := Command{Line: l.No}
	if l.Empty() {
		return cmd
	}
	cmd.Name = l.Fields[0]
	cmd.Args = append([]string(nil), l.Fields[1:]...)
	return cmd
}

// NewLine strips the comment from text, tokenizes it on whitespace and
// lower-cases the tokens.
func NewLine(no int, text string) Line {
	if i := strings.Index(text, commentMarker); i >= 0 {
		text = text[:i]
	}
	raw := strings.Fields(text)
	fields := make([]string, len(raw))
	for i, tok := range raw {
		fields[i] = strings.ToLower(tok)
	}
	return Line{No: no, Fields: fields, Raw: raw}
}

// ParseLines normalizes every line of content. Line numbers start at 1.
func ParseLines(content string) []Line {
	content = strings.ReplaceAll(content, "\r\n", "\n")
	texts := strings.Split(content, "\n")
	if len(texts) > 0 && texts[len(texts)-1] == "" {
		texts = texts[:len(texts)-1]
	}
	lines := make([]Line, len(texts))
	for i, text := range texts {
		lines[i] = NewLine(i+1, text)
	}
	return lines
}
