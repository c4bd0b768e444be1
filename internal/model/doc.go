// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// Package model holds the in-memory representation of UCoMP observing
// scripts and of the findings produced while validating them.
//
// # Core Concepts
//
//   - Kind: the three script kinds, selected by file-name suffix. A Menu
//     references Cookbooks, a Cookbook references Recipes (and may contain
//     for/endfor loops), a Recipe is a flat list of commands and may call
//     other Recipes.
//
//   - ScriptNode: one loaded script file, its kind and its raw lines. Nodes
//     are read once and never modified afterwards.
//
//   - Line and Command: a comment-stripped, lower-cased, tokenized source
//     line, and the command view of it (name plus arguments).
//
//   - Issue: a single finding with a severity, a code and the dotted Path of
//     the scripts that led to it.
//
//   - Timing: integration (milliseconds) and hardware (seconds) totals.
package model
