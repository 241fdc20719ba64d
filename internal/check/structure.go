// Copyright 2024 The Chromium OS Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package check

import (
	"fmt"
	"regexp"
	"strings"
)

// DefaultDisallowMacros are the macro names recognized as constructor
// suppression macros. Each takes the enclosing type's name as its sole
// argument and must be the last thing in the class body.
var DefaultDisallowMacros = []string{
	"DISALLOW_COPY_AND_ASSIGN",
	"DISALLOW_IMPLICIT_CONSTRUCTORS",
}

// macroNameRE matches a C identifier.
var macroNameRE = regexp.MustCompile(`^[A-Za-z_]\w*$`)

// ValidateMacros checks that every configured macro name is a plain C
// identifier.
func ValidateMacros(macros []string) error {
	for _, m := range macros {
		if !macroNameRE.MatchString(m) {
			return fmt.Errorf("macro name %q must be an identifier", m)
		}
	}
	return nil
}

// Options configures ClassStructure.
type Options struct {
	// DisallowMacros lists the macro names checked for end-of-class
	// placement. Defaults to DefaultDisallowMacros when empty.
	DisallowMacros []string
}

// reporter accumulates issues found while scanning one file.
type reporter struct {
	path   string
	issues []*Issue
}

func (r *reporter) report(line int, category string, confidence int, msg string) {
	r.issues = append(r.issues, &Issue{
		Pos:        Position{Filename: r.path, Line: line},
		Msg:        msg,
		Category:   category,
		Confidence: confidence,
		Link:       categoryLinks[category],
	})
}

// ClassStructure checks that C++ class, struct and namespace blocks in a
// file are well formed: constructor suppression macros come last in their
// class, closing braces line up with the declaration they close, access
// specifiers are indented one space, and namespaces end with the
// conventional comment. Nested and function-local classes are checked the
// same way as top-level ones.
//
// data is the raw file content. NOLINT suppressions are not applied here;
// see ParseSuppressions and DropSuppressedIssues.
func ClassStructure(path string, data []byte, opts *Options) []*Issue {
	macros := DefaultDisallowMacros
	if opts != nil && len(opts.DisallowMacros) > 0 {
		macros = opts.DisallowMacros
	}
	// Macro names come from configuration; quote them so that a stray
	// metacharacter cannot break the scanner's patterns.
	quoted := make([]string, len(macros))
	for i, m := range macros {
		quoted[i] = regexp.QuoteMeta(m)
	}

	lines := splitLines(data)
	// Pad with marker comments so that line numbers and slice indices
	// both start at 1 and the last line ends in a known way.
	padded := make([]string, 0, len(lines)+2)
	padded = append(padded, "// marker so line numbers and indices both start at 1")
	padded = append(padded, lines...)
	padded = append(padded, "// marker so line numbers end in a known way")

	rep := &reporter{path: path}
	removeMultiLineComments(padded, rep)
	cl := NewCleansedLines(padded)

	state := &nestingState{macroAlt: strings.Join(quoted, "|")}
	for i := 0; i < cl.NumLines(); i++ {
		state.update(cl, i, rep)
	}
	state.checkCompletedBlocks(rep)

	return rep.issues
}

// splitLines splits file content into lines, accepting both LF and CRLF
// endings. A trailing newline does not produce a final empty line.
func splitLines(data []byte) []string {
	lines := strings.Split(string(data), "\n")
	if n := len(lines); n > 0 && lines[n-1] == "" {
		lines = lines[:n-1]
	}
	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}
	return lines
}
