// Copyright 2024 The Chromium OS Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package check

import (
	"fmt"
	"regexp"
)

// namespaceEndCommentRE matches a closing brace followed by any comment
// mentioning "namespace". C style comments are accepted besides line
// comments so that namespaces closed inside preprocessor macros can still
// be annotated.
var namespaceEndCommentRE = regexp.MustCompile(`^\s*};*\s*(//|/\*).*\bnamespace\b`)

// anonNamespaceEndRE accepts the forms terminating an anonymous
// namespace, e.g. "}  // namespace".
var anonNamespaceEndRE = regexp.MustCompile(`^\s*};*\s*(//|/\*).*\bnamespace[*/.\s\\]*$`)

// anonNamespaceWordedRE matches end comments that spell out "anonymous
// namespace" in some form; those get a gentler suggestion.
var anonNamespaceWordedRE = regexp.MustCompile(`^\s*}.*\b(namespace anonymous|anonymous namespace)\b`)

// minNamespaceBodyLines is the smallest namespace body for which a
// missing end comment is reported. Short namespaces are exempt, but an
// existing incorrect comment is flagged regardless of size.
const minNamespaceBodyLines = 10

// namespaceInfo stores information about a namespace block. An anonymous
// namespace has an empty name.
type namespaceInfo struct {
	blockInfo
	name string
}

func (ni *namespaceInfo) clone() block {
	c := *ni
	return &c
}

func (ni *namespaceInfo) checkEnd(s *nestingState, cl *CleansedLines, linenum int, rep *reporter) {
	// The end comment check looks at the raw line: the comment is the
	// whole point here.
	line := cl.Raw[linenum]

	if linenum-ni.startLine < minNamespaceBodyLines && !namespaceEndCommentRE.MatchString(line) {
		return
	}

	if ni.name != "" {
		// We accept "// namespace <name>" with optional trailing period,
		// and nothing looser; anything else risks false negatives when
		// an existing comment happens to contain the expected text as a
		// substring.
		endRE := regexp.MustCompile(`^\s*};*\s*(//|/\*).*\bnamespace\s+` + regexp.QuoteMeta(ni.name) + `[*/.\s\\]*$`)
		if !endRE.MatchString(line) {
			rep.report(linenum, "readability/namespace", 5,
				fmt.Sprintf(`Namespace should be terminated with "// namespace %s"`, ni.name))
		}
		return
	}

	if !anonNamespaceEndRE.MatchString(line) {
		if anonNamespaceWordedRE.MatchString(line) {
			// "// namespace anonymous" and "// anonymous namespace (more
			// text)" get pointed at the acceptable spellings.
			rep.report(linenum, "readability/namespace", 5,
				`Anonymous namespace should be terminated with "// namespace" or "// anonymous namespace"`)
		} else {
			rep.report(linenum, "readability/namespace", 5,
				`Anonymous namespace should be terminated with "// namespace"`)
		}
	}
}
