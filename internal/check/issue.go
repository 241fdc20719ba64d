// Copyright 2024 The Chromium OS Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package check implements lint checks for the structure of C++ class,
// struct and namespace blocks.
package check

import (
	"fmt"
	"sort"
	"strings"
)

// Position identifies a line in a checked file.
type Position struct {
	Filename string
	Line     int
}

// Issue holds an issue reported by the linter.
type Issue struct {
	Pos      Position
	Msg      string
	Category string
	// Confidence scores how certain the check is that this is a real
	// problem, from 1 (could be legitimate) to 5 (certain).
	Confidence int
	Link       string
}

func (i *Issue) String() string {
	return fmt.Sprintf("%s:%d:  %s  [%s] [%d]", i.Pos.Filename, i.Pos.Line, i.Msg, i.Category, i.Confidence)
}

// SortIssues sorts issues by file path and position.
func SortIssues(issues []*Issue) {
	sort.Slice(issues, func(i, j int) bool {
		pi := issues[i].Pos
		pj := issues[j].Pos
		if pi.Filename != pj.Filename {
			return pi.Filename < pj.Filename
		}
		if pi.Line != pj.Line {
			return pi.Line < pj.Line
		}
		return issues[i].Category < issues[j].Category
	})
}

// ValidateFilters checks that every filter is a category prefix preceded
// by '+' or '-'.
func ValidateFilters(filters []string) error {
	for _, f := range filters {
		if !strings.HasPrefix(f, "+") && !strings.HasPrefix(f, "-") {
			return fmt.Errorf("filter %q must start with '+' or '-'", f)
		}
	}
	return nil
}

// FilterIssues drops issues whose confidence is below minConfidence, as
// well as issues excluded by category filters. Filters apply in order: a
// "-prefix" filter drops categories starting with prefix, and a later
// "+prefix" filter restores them.
func FilterIssues(issues []*Issue, minConfidence int, filters []string) []*Issue {
	var kept []*Issue
	for _, issue := range issues {
		if issue.Confidence < minConfidence {
			continue
		}
		excluded := false
		for _, f := range filters {
			if strings.HasPrefix(issue.Category, f[1:]) {
				excluded = f[0] == '-'
			}
		}
		if !excluded {
			kept = append(kept, issue)
		}
	}
	return kept
}
