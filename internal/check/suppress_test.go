// Copyright 2024 The Chromium OS Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package check

import "testing"

func TestParseSuppressions(t *testing.T) {
	data := []byte(`// Copyright 2014 Your Company.
int a;  // NOLINT
int b;  // NOLINT(*)
int c;  // NOLINT(readability/namespace)
// NOLINTNEXTLINE
int d;
int e;  // NOLINT(clang-analyzer-core.CallAndMessage)
int f;  // NOLINT(readability/streams)
int g;  // NOLINT(runtime/int)
`)
	sup, issues := ParseSuppressions("foo.cc", data)
	verifyIssues(t, issues, nil)

	for _, tc := range []struct {
		category string
		line     int
		want     bool
	}{
		{"build/class", 2, true},
		{"build/class", 3, true},
		{"readability/namespace", 4, true},
		{"build/class", 4, false},
		{"build/class", 6, true},
		{"build/class", 5, false},
		{"build/class", 7, false},
		{"readability/streams", 8, false},
		{"runtime/int", 9, false},
	} {
		if got := sup.Suppressed(tc.category, tc.line); got != tc.want {
			t.Errorf("Suppressed(%q, %d) = %v; want %v", tc.category, tc.line, got, tc.want)
		}
	}
}

func TestParseSuppressionsUnknownCategory(t *testing.T) {
	data := []byte(`// Copyright 2014 Your Company.
int a;  // NOLINT(readability/nonexistent)
`)
	_, issues := ParseSuppressions("foo.cc", data)
	verifyIssues(t, issues, []string{
		"foo.cc:2:  Unknown NOLINT error category: readability/nonexistent  [readability/nolint] [5]",
	})
}

func TestNolintNextLineSuppression(t *testing.T) {
	issues := lintLines(t,
		"// Copyright 2014 Your Company.",
		"class SomeClass {",
		" private:",
		"  // NOLINTNEXTLINE(readability/constructors)",
		"  DISALLOW_COPY_AND_ASSIGN(SomeClass);",
		"  int member_;",
		"};",
	)
	verifyIssues(t, issues, nil)
}

func TestBareNolintSuppressesAllCategories(t *testing.T) {
	lines := append([]string{
		"// Copyright 2014 Your Company.",
		"namespace foo {",
	}, namespaceBody()...)
	lines = append(lines, "}  // NOLINT")
	verifyIssues(t, lintLines(t, lines...), nil)
}

func TestDropSuppressedIssuesKeepsOthers(t *testing.T) {
	issues := lintLines(t,
		"// Copyright 2014 Your Company.",
		"class SomeClass {",
		" private:",
		"  DISALLOW_COPY_AND_ASSIGN(SomeClass);  // NOLINT(build/class)",
		"  int member_;",
		"};",
	)
	verifyIssues(t, issues, []string{
		"foo.cc:4:  DISALLOW_COPY_AND_ASSIGN should be the last thing in the class  [readability/constructors] [3]",
	})
}
