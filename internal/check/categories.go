// Copyright 2024 The Chromium OS Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package check

import "strings"

// Categories lists every error category this linter can report. NOLINT
// comments naming a category outside this list are themselves an error.
var Categories = []string{
	"build/class",
	"build/namespaces",
	"readability/constructors",
	"readability/multiline_comment",
	"readability/namespace",
	"readability/nolint",
	"whitespace/indent",
}

// categoryLinks maps categories to the style guide sections explaining them.
// Categories without an entry produce issues with an empty Link.
var categoryLinks = map[string]string{
	"readability/constructors": "https://google.github.io/styleguide/cppguide.html#Copyable_Movable_Types",
	"readability/namespace":    "https://google.github.io/styleguide/cppguide.html#Namespaces",
}

// compatCategories are cpplint error categories this linter does not
// implement. NOLINT comments naming them are common in existing codebases,
// so they are accepted silently rather than reported as unknown.
var compatCategories = []string{
	"build/c++11",
	"build/c++14",
	"build/c++tr1",
	"build/deprecated",
	"build/endif_comment",
	"build/explicit_make_pair",
	"build/forward_decl",
	"build/header_guard",
	"build/include",
	"build/include_alpha",
	"build/include_order",
	"build/include_subdir",
	"build/include_what_you_use",
	"build/namespaces_headers",
	"build/namespaces_literals",
	"build/printf_format",
	"build/storage_class",
	"legal/copyright",
	"readability/alt_tokens",
	"readability/braces",
	"readability/casting",
	"readability/check",
	"readability/fn_size",
	"readability/function",
	"readability/inheritance",
	"readability/multiline_string",
	"readability/nul",
	"readability/streams",
	"readability/strings",
	"readability/todo",
	"readability/utf8",
	"runtime/arrays",
	"runtime/casting",
	"runtime/explicit",
	"runtime/indentation_namespace",
	"runtime/init",
	"runtime/int",
	"runtime/invalid_increment",
	"runtime/member_string_references",
	"runtime/memset",
	"runtime/operator",
	"runtime/printf",
	"runtime/printf_format",
	"runtime/references",
	"runtime/string",
	"runtime/threadsafe_fn",
	"runtime/vlog",
	"whitespace/blank_line",
	"whitespace/braces",
	"whitespace/comma",
	"whitespace/comments",
	"whitespace/empty_conditional_body",
	"whitespace/empty_if_body",
	"whitespace/empty_loop_body",
	"whitespace/end_of_line",
	"whitespace/ending_newline",
	"whitespace/forcolon",
	"whitespace/line_length",
	"whitespace/newline",
	"whitespace/operators",
	"whitespace/parens",
	"whitespace/semicolon",
	"whitespace/tab",
	"whitespace/todo",
}

// otherToolPrefixes are NOLINT category prefixes owned by other tools that
// share the NOLINT comment syntax, e.g. clang-tidy. Such categories are
// ignored rather than reported as unknown.
var otherToolPrefixes = []string{
	"clang-analyzer",
}

func knownCategory(category string) bool {
	for _, c := range Categories {
		if c == category {
			return true
		}
	}
	return false
}

func compatCategory(category string) bool {
	for _, c := range compatCategories {
		if c == category {
			return true
		}
	}
	return false
}

func otherToolCategory(category string) bool {
	for _, p := range otherToolPrefixes {
		if strings.HasPrefix(category, p) {
			return true
		}
	}
	return false
}
