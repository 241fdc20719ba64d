// Copyright 2024 The Chromium OS Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package check

import "testing"

// Conditional compilation may open a block in both branches; the stack
// checkpointing must keep brace matching consistent.
func TestNestingPreprocessorConditional(t *testing.T) {
	issues := lintLines(t,
		"// Copyright 2014 Your Company.",
		"#ifdef SWIG",
		"struct ResultDetailsPageElementExtensionPoint {",
		"#else",
		"struct ResultDetailsPageElementExtensionPoint : public Extension {",
		"#endif",
		" private:",
		"  int member_;",
		"};",
	)
	verifyIssues(t, issues, nil)
}

func TestNestingExternC(t *testing.T) {
	issues := lintLines(t,
		"// Copyright 2014 Your Company.",
		`extern "C" {`,
		"void Func();",
		"}",
	)
	verifyIssues(t, issues, nil)
}

// "class" in a function signature declares nothing.
func TestNestingClassKeywordInSignature(t *testing.T) {
	issues := lintLines(t,
		"// Copyright 2014 Your Company.",
		"void Func(class Arg* arg);",
		"class Ret* Other();",
	)
	verifyIssues(t, issues, nil)
}

// Braces inside inline assembly do not open real blocks.
func TestNestingInlineAsm(t *testing.T) {
	issues := lintLines(t,
		"// Copyright 2014 Your Company.",
		"void Func() {",
		"  asm volatile (",
		`      "mov %0, %1\n"`,
		"      : \"=r\" (dst)",
		"      : \"r\" (src));",
		"}",
	)
	verifyIssues(t, issues, nil)
}

func TestCloseExpression(t *testing.T) {
	cl := NewCleansedLines([]string{
		"int a = foo(b(c), d);",
		"std::map<int,",
		"         std::pair<int, int>> m;",
	})

	for _, tc := range []struct {
		line, pos int
		wantLine  int
		wantPos   int
	}{
		{0, 11, 0, 20}, // foo( ... )
		{0, 13, 0, 16}, // b( ... )
		{1, 8, 2, 29},  // map< spanning lines
	} {
		gotLine, gotPos := closeExpression(cl, tc.line, tc.pos)
		if gotLine != tc.wantLine || gotPos != tc.wantPos {
			t.Errorf("closeExpression(%d, %d) = (%d, %d); want (%d, %d)",
				tc.line, tc.pos, gotLine, gotPos, tc.wantLine, tc.wantPos)
		}
	}
}
