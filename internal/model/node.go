// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
package model

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// NoWarningMarker excludes a menu from validation when it appears anywhere in
// the menu's raw text.
const NoWarningMarker = "NOWARNING"

// ScriptNode is one loaded script file.
type ScriptNode struct {
	Name    string // base name as found on disk
	Path    string // resolved path
	Kind    Kind
	Content string
	Lines   []Line
}

// NewScriptNode builds a node from already-read content.
func NewScriptNode(path string, kind Kind, content string) *ScriptNode {
	return &ScriptNode{
		Name:    filepath.Base(path),
		Path:    path,
		Kind:    kind,
		Content: content,
		Lines:   ParseLines(content),
	}
}

// ReadScriptNode reads the file at path into a node of the given kind.
func ReadScriptNode(path string, kind Kind) (*ScriptNode, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s %s: %w", kind, path, err)
	}
	return NewScriptNode(path, kind, string(data)), nil
}

// Suppressed reports whether the node is a menu carrying the NOWARNING marker.
func (n *ScriptNode) Suppressed() bool {
	return n.Kind == KindMenu && strings.Contains(n.Content, NoWarningMarker)
}
