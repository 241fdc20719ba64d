// Copyright 2024 The Chromium OS Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package check

import (
	"fmt"
	"regexp"
	"strings"
)

// closingBraceIndentRE captures the indentation of a closing brace that
// is preceded only by whitespace.
var closingBraceIndentRE = regexp.MustCompile(`^( *)\}`)

// classInfo stores information about a class or struct block. This covers
// top-level declarations, classes nested in other classes, and local
// classes declared inside function bodies alike.
type classInfo struct {
	blockInfo
	name     string
	isStruct bool
	// access is the active access control specifier: structs start
	// public, classes private.
	access string
	// classIndent is the indentation of the declaration, remembered from
	// the raw line so that leading comments do not shift it.
	classIndent int
}

func newClassInfo(name, kind string, cl *CleansedLines, linenum int) *classInfo {
	ci := &classInfo{
		blockInfo:   blockInfo{startLine: linenum},
		name:        name,
		isStruct:    kind == "struct",
		classIndent: indentLevel(cl.Raw[linenum]),
	}
	if ci.isStruct {
		ci.access = "public"
	} else {
		ci.access = "private"
	}
	return ci
}

func (ci *classInfo) clone() block {
	c := *ci
	return &c
}

// qualified returns the declaration-style name, e.g. "struct Foo".
func (ci *classInfo) qualified() string {
	if ci.isStruct {
		return "struct " + ci.name
	}
	return "class " + ci.name
}

func (ci *classInfo) checkEnd(s *nestingState, cl *CleansedLines, linenum int, rep *reporter) {
	// If the class uses a constructor suppression macro, the macro must
	// be the last thing before the closing brace. Scanning happens on
	// elided lines, so trailing comments and blank lines do not count.
	disallowRE := regexp.MustCompile(`\b(` + s.macroAlt + `)\(` + regexp.QuoteMeta(ci.name) + `\)`)
	seenLastThingInClass := false
	for i := linenum - 1; i > ci.startLine; i-- {
		if m := disallowRE.FindStringSubmatch(cl.Elided[i]); m != nil {
			if seenLastThingInClass {
				rep.report(i, "readability/constructors", 3,
					m[1]+" should be the last thing in the class")
			}
			break
		}
		if strings.TrimSpace(cl.Elided[i]) != "" {
			seenLastThingInClass = true
		}
	}

	// The closing brace should be aligned with the beginning of the
	// class. Only checked when the brace is preceded by whitespace only,
	// which leaves single-line class definitions alone.
	if m := closingBraceIndentRE.FindStringSubmatch(cl.Elided[linenum]); m != nil && len(m[1]) != ci.classIndent {
		rep.report(linenum, "whitespace/indent", 3,
			fmt.Sprintf("Closing brace should be aligned with beginning of %s", ci.qualified()))
	}
}
