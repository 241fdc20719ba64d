// Copyright 2024 The Chromium OS Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package check

import (
	"fmt"
	"testing"
)

// namespaceBody returns enough filler lines for a namespace to be large
// enough that a missing end comment is reported.
func namespaceBody() []string {
	var lines []string
	for i := 0; i < 10; i++ {
		lines = append(lines, fmt.Sprintf("void Func%d();", i))
	}
	return lines
}

func TestNamespaceMissingEndComment(t *testing.T) {
	lines := append([]string{
		"// Copyright 2014 Your Company.",
		"namespace foo {",
	}, namespaceBody()...)
	lines = append(lines, "}")
	verifyIssues(t, lintLines(t, lines...), []string{
		`foo.cc:13:  Namespace should be terminated with "// namespace foo"  [readability/namespace] [5]`,
	})
}

func TestNamespaceEndComment(t *testing.T) {
	lines := append([]string{
		"// Copyright 2014 Your Company.",
		"namespace foo {",
	}, namespaceBody()...)
	lines = append(lines, "}  // namespace foo")
	verifyIssues(t, lintLines(t, lines...), nil)
}

// A wrong end comment is reported even on a namespace too short to
// require one.
func TestNamespaceWrongEndComment(t *testing.T) {
	issues := lintLines(t,
		"// Copyright 2014 Your Company.",
		"namespace foo {",
		"}  // namespace bar",
	)
	verifyIssues(t, issues, []string{
		`foo.cc:3:  Namespace should be terminated with "// namespace foo"  [readability/namespace] [5]`,
	})
}

func TestShortNamespaceNeedsNoEndComment(t *testing.T) {
	issues := lintLines(t,
		"// Copyright 2014 Your Company.",
		"namespace foo {",
		"void Func();",
		"}",
	)
	verifyIssues(t, issues, nil)
}

func TestAnonymousNamespaceMissingEndComment(t *testing.T) {
	lines := append([]string{
		"// Copyright 2014 Your Company.",
		"namespace {",
	}, namespaceBody()...)
	lines = append(lines, "}")
	verifyIssues(t, lintLines(t, lines...), []string{
		`foo.cc:13:  Anonymous namespace should be terminated with "// namespace"  [readability/namespace] [5]`,
	})
}

func TestAnonymousNamespaceEndComment(t *testing.T) {
	for _, comment := range []string{"}  // namespace", "}  // anonymous namespace"} {
		lines := append([]string{
			"// Copyright 2014 Your Company.",
			"namespace {",
		}, namespaceBody()...)
		lines = append(lines, comment)
		verifyIssues(t, lintLines(t, lines...), nil)
	}
}

func TestAnonymousNamespaceWordedEndComment(t *testing.T) {
	issues := lintLines(t,
		"// Copyright 2014 Your Company.",
		"namespace {",
		"}  // namespace anonymous",
	)
	verifyIssues(t, issues, []string{
		`foo.cc:3:  Anonymous namespace should be terminated with "// namespace" or "// anonymous namespace"  [readability/namespace] [5]`,
	})
}

func TestNestedNamespacesOnOneLine(t *testing.T) {
	issues := lintLines(t,
		"// Copyright 2014 Your Company.",
		"namespace proto2 { namespace bridge { class MessageSet; } }",
	)
	verifyIssues(t, issues, nil)
}

func TestUnclosedNamespace(t *testing.T) {
	issues := lintLines(t,
		"// Copyright 2014 Your Company.",
		"namespace foo {",
		"void Func();",
	)
	verifyIssues(t, issues, []string{
		"foo.cc:2:  Failed to find complete declaration of namespace foo  [build/namespaces] [5]",
	})
}
