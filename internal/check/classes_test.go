// Copyright 2024 The Chromium OS Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package check

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
)

// The DISALLOW macros must be the last thing in a class if present.
func TestDisallowMacroNotLast(t *testing.T) {
	for _, macro := range DefaultDisallowMacros {
		issues := lintLines(t,
			"// Copyright 2014 Your Company.",
			"class SomeClass {",
			" private:",
			fmt.Sprintf("  %s(SomeClass);", macro),
			"  int member_;",
			"};",
		)
		verifyIssues(t, issues, []string{
			fmt.Sprintf("foo.cc:4:  %s should be the last thing in the class  [readability/constructors] [3]", macro),
		})
	}
}

func TestDisallowMacroNotLastInNestedClass(t *testing.T) {
	for _, macro := range DefaultDisallowMacros {
		issues := lintLines(t,
			"// Copyright 2014 Your Company.",
			"class OuterClass {",
			" private:",
			"  struct InnerClass {",
			"   private:",
			fmt.Sprintf("    %s(InnerClass);", macro),
			"    int member;",
			"  };",
			"};",
		)
		verifyIssues(t, issues, []string{
			fmt.Sprintf("foo.cc:6:  %s should be the last thing in the class  [readability/constructors] [3]", macro),
		})
	}
}

func TestDisallowMacroLast(t *testing.T) {
	for _, macro := range DefaultDisallowMacros {
		issues := lintLines(t,
			"// Copyright 2014 Your Company.",
			"class SomeClass {",
			" private:",
			"  int member_;",
			fmt.Sprintf("  %s(SomeClass);", macro),
			"};",
		)
		verifyIssues(t, issues, nil)
	}
}

// Trailing comments and blank lines after the macro do not count as class
// content.
func TestDisallowMacroFollowedByComment(t *testing.T) {
	issues := lintLines(t,
		"// Copyright 2014 Your Company.",
		"struct SomeStruct {",
		" private:",
		"  DISALLOW_COPY_AND_ASSIGN(SomeStruct);",
		"  // comment",
		"",
		"};",
	)
	verifyIssues(t, issues, nil)
}

func TestDisallowMacroInLocalClass(t *testing.T) {
	issues := lintLines(t,
		"// Copyright 2014 Your Company.",
		"void Func() {",
		"  struct LocalClass {",
		"   private:",
		"    int member_;",
		"    DISALLOW_COPY_AND_ASSIGN(LocalClass);",
		"  } variable;",
		"}",
	)
	verifyIssues(t, issues, nil)

	issues = lintLines(t,
		"// Copyright 2014 Your Company.",
		"void Func() {",
		"  struct LocalClass {",
		"   private:",
		"    DISALLOW_COPY_AND_ASSIGN(LocalClass);",
		"    int member_;",
		"  } variable;",
		"}",
	)
	verifyIssues(t, issues, []string{
		"foo.cc:5:  DISALLOW_COPY_AND_ASSIGN should be the last thing in the class  [readability/constructors] [3]",
	})
}

// The macro of another class does not terminate the scan for the
// enclosing class.
func TestDisallowMacroNamesEnclosingClass(t *testing.T) {
	issues := lintLines(t,
		"// Copyright 2014 Your Company.",
		"class Outer {",
		" private:",
		"  DISALLOW_COPY_AND_ASSIGN(Outer);",
		"  class Inner {",
		"   private:",
		"    DISALLOW_COPY_AND_ASSIGN(Inner);",
		"  };",
		"};",
	)
	verifyIssues(t, issues, []string{
		"foo.cc:4:  DISALLOW_COPY_AND_ASSIGN should be the last thing in the class  [readability/constructors] [3]",
	})
}

func TestDisallowMacroSuppressed(t *testing.T) {
	issues := lintLines(t,
		"// Copyright 2014 Your Company.",
		"class SomeClass {",
		" private:",
		"  DISALLOW_COPY_AND_ASSIGN(SomeClass);  // NOLINT(readability/constructors)",
		"  int member_;",
		"};",
	)
	verifyIssues(t, issues, nil)
}

// The shipped fixture files place every macro correctly at three nesting
// depths and must come out clean.
func TestDisallowFixtures(t *testing.T) {
	for _, name := range []string{"copy_and_assign.cc", "implicit_constructors.cc"} {
		path := filepath.Join("testdata", "disallow", name)
		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatal(err)
		}
		verifyIssues(t, ClassStructure(path, data, nil), nil)
	}
}

func TestCustomDisallowMacro(t *testing.T) {
	opts := &Options{DisallowMacros: []string{"DISALLOW_EVIL_CONSTRUCTORS"}}
	data := []byte(`// Copyright 2014 Your Company.
class SomeClass {
 private:
  DISALLOW_EVIL_CONSTRUCTORS(SomeClass);
  int member_;
};
`)
	verifyIssues(t, ClassStructure("foo.cc", data, opts), []string{
		"foo.cc:4:  DISALLOW_EVIL_CONSTRUCTORS should be the last thing in the class  [readability/constructors] [3]",
	})
}

// Configured macro names are quoted before being built into patterns, so
// names holding regexp metacharacters must not crash the scanner.
func TestDisallowMacroNameWithMetacharacters(t *testing.T) {
	opts := &Options{DisallowMacros: []string{"FOO("}}
	data := []byte(`// Copyright 2014 Your Company.
class SomeClass {
 private:
  DISALLOW_COPY_AND_ASSIGN(SomeClass);
  int member_;
};
`)
	verifyIssues(t, ClassStructure("foo.cc", data, opts), nil)
}

func TestValidateMacros(t *testing.T) {
	if err := ValidateMacros([]string{"DISALLOW_EVIL_CONSTRUCTORS", "_Private1"}); err != nil {
		t.Errorf("ValidateMacros failed for identifiers: %v", err)
	}
	for _, m := range []string{"FOO(", "A|B", ""} {
		if err := ValidateMacros([]string{m}); err == nil {
			t.Errorf("ValidateMacros(%q) unexpectedly succeeded", m)
		}
	}
}

func TestClosingBraceAlignment(t *testing.T) {
	issues := lintLines(t,
		"// Copyright 2014 Your Company.",
		"class Foo {",
		" private:",
		"  int member_;",
		"  };",
	)
	verifyIssues(t, issues, []string{
		"foo.cc:5:  Closing brace should be aligned with beginning of class Foo  [whitespace/indent] [3]",
	})
}

func TestAccessSpecifierIndent(t *testing.T) {
	issues := lintLines(t,
		"// Copyright 2014 Your Company.",
		"class Foo {",
		"public:",
		"  int member_;",
		"};",
	)
	verifyIssues(t, issues, []string{
		"foo.cc:3:  public: should be indented +1 space inside class Foo  [whitespace/indent] [3]",
	})
}

func TestStructAccessSpecifierIndent(t *testing.T) {
	issues := lintLines(t,
		"// Copyright 2014 Your Company.",
		"struct Foo {",
		"   private:",
		"  int member_;",
		"};",
	)
	verifyIssues(t, issues, []string{
		"foo.cc:3:  private: should be indented +1 space inside struct Foo  [whitespace/indent] [3]",
	})
}

func TestForwardDeclarationIsNotABlock(t *testing.T) {
	issues := lintLines(t,
		"// Copyright 2014 Your Company.",
		"class Foo;",
		"struct Bar;",
	)
	verifyIssues(t, issues, nil)
}

func TestUnclosedClass(t *testing.T) {
	issues := lintLines(t,
		"// Copyright 2014 Your Company.",
		"class Foo {",
		" private:",
		"  int member_;",
	)
	verifyIssues(t, issues, []string{
		"foo.cc:2:  Failed to find complete declaration of class Foo  [build/class] [5]",
	})
}

// Template arguments mentioning "class" must not be taken for class
// declarations.
func TestTemplateArgumentsAreNotClasses(t *testing.T) {
	issues := lintLines(t,
		"// Copyright 2014 Your Company.",
		"template <class T,",
		"          class U = Default<T>>",
		"void Function() {}",
	)
	verifyIssues(t, issues, nil)
}
