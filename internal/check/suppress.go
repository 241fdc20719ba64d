// Copyright 2024 The Chromium OS Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package check

import (
	"fmt"
	"regexp"
	"strings"
)

// nolintRE matches NOLINT and NOLINTNEXTLINE comments with an optional
// category in parentheses.
var nolintRE = regexp.MustCompile(`\bNOLINT(NEXTLINE)?\b(\([^)]+\))?`)

// Suppressions records the NOLINT comments of one file.
type Suppressions struct {
	byCategory map[string]map[int]bool
	all        map[int]bool
}

// ParseSuppressions scans a file for NOLINT and NOLINTNEXTLINE comments.
// A bare NOLINT or NOLINT(*) suppresses every category on its line;
// NOLINT(category) suppresses only that category. Comments naming an
// unknown category are reported as issues, except cpplint categories this
// linter does not implement and categories belonging to other tools that
// share the NOLINT syntax.
func ParseSuppressions(path string, data []byte) (*Suppressions, []*Issue) {
	sup := &Suppressions{
		byCategory: make(map[string]map[int]bool),
		all:        make(map[int]bool),
	}
	var issues []*Issue

	for i, rawLine := range splitLines(data) {
		linenum := i + 1
		m := nolintRE.FindStringSubmatch(rawLine)
		if m == nil {
			continue
		}
		suppressedLine := linenum
		if m[1] != "" { // NOLINTNEXTLINE
			suppressedLine = linenum + 1
		}

		category := m[2]
		if category == "" || category == "(*)" {
			sup.all[suppressedLine] = true
			continue
		}
		category = strings.TrimSuffix(strings.TrimPrefix(category, "("), ")")
		switch {
		case knownCategory(category):
			if sup.byCategory[category] == nil {
				sup.byCategory[category] = make(map[int]bool)
			}
			sup.byCategory[category][suppressedLine] = true
		case compatCategory(category) || otherToolCategory(category):
			// Ignored.
		default:
			issues = append(issues, &Issue{
				Pos:        Position{Filename: path, Line: linenum},
				Msg:        fmt.Sprintf("Unknown NOLINT error category: %s", category),
				Category:   "readability/nolint",
				Confidence: 5,
			})
		}
	}
	return sup, issues
}

// Suppressed reports whether an issue of the given category on the given
// line should be dropped.
func (s *Suppressions) Suppressed(category string, line int) bool {
	return s.all[line] || s.byCategory[category][line]
}

// DropSuppressedIssues returns the issues not silenced by NOLINT comments.
func DropSuppressedIssues(issues []*Issue, sup *Suppressions) []*Issue {
	var kept []*Issue
	for _, issue := range issues {
		if !sup.Suppressed(issue.Category, issue.Pos.Line) {
			kept = append(kept, issue)
		}
	}
	return kept
}
