// Copyright 2024 The Chromium OS Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package check

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func verifyIssues(t *testing.T, issues []*Issue, want []string) {
	t.Helper()

	SortIssues(issues)

	got := make([]string, len(issues))
	for i, issue := range issues {
		got[i] = issue.String()
	}

	if diff := cmp.Diff(got, want, cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("Issues mismatch (-got +want):\n%s", diff)
	}
}

// lintLines runs ClassStructure over the given lines as the content of
// foo.cc, with NOLINT suppressions applied.
func lintLines(t *testing.T, lines ...string) []*Issue {
	t.Helper()

	data := []byte(strings.Join(lines, "\n") + "\n")
	issues := ClassStructure("foo.cc", data, nil)
	sup, supIssues := ParseSuppressions("foo.cc", data)
	issues = append(issues, supIssues...)
	return DropSuppressedIssues(issues, sup)
}
