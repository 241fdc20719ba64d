// Copyright 2024 The Chromium OS Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package check

import (
	"regexp"
	"strings"
)

// includeRE matches #include directives. Angle brackets and quotes inside
// them must not be treated as string or comparison tokens.
var includeRE = regexp.MustCompile(`^\s*#\s*include\s*([<"])([^>"]*)[>"].*$`)

// escapesRE matches standard C++ escape sequences per 2.13.2.3 of the
// C++ standard.
var escapesRE = regexp.MustCompile(`\\([abfnrtv?"\\']|\d+|x[0-9a-fA-F]+)`)

// quoteRE splits a line at the first quote character.
var quoteRE = regexp.MustCompile(`^([^'"]*)(['"])(.*)$`)

// digitSepHeadRE matches a numeric literal immediately before a single
// quote, in which case the quote is a C++14 digit separator rather than
// the start of a character literal.
var digitSepHeadRE = regexp.MustCompile(`\b(?:0[bBxX]?|[1-9])[0-9a-fA-F]*$`)

// numericLiteralRE consumes the remainder of a numeric literal containing
// digit separators.
var numericLiteralRE = regexp.MustCompile(`^((?:'?[0-9a-zA-Z_])*)(.*)$`)

// cCommentRE matches a single C style comment contained in one line.
var cCommentRE = regexp.MustCompile(`/\*([^*]|\*+[^*/])*\*+/`)

// rawStringStartRE matches the beginning of a C++11 raw string literal.
// See 2.14.15 [lex.string] for the syntax.
var rawStringStartRE = regexp.MustCompile(`^(.*?)\b(?:R|u8R|uR|UR|LR)"([^\s\\()]*)\((.*)$`)

// rawStringInCommentRE matches when text before a raw string marker is
// inside a line comment, in which case the marker is not a raw string.
var rawStringInCommentRE = regexp.MustCompile(`^([^'"]|'(\\.|[^'])*'|"(\\.|[^"])*")*//`)

var leadingSpaceRE = regexp.MustCompile(`^(\s*)\S`)

// CleansedLines holds copies of all lines of a file with different
// preprocessing applied:
//
//  1. Raw contains the lines exactly as read.
//  2. Lines contains lines with comments removed.
//  3. Elided contains lines with comments removed and string and character
//     literals collapsed to empty "" or '' blocks, so that quote and brace
//     counting is not fooled by literal contents.
//
// All three slices have the same length.
type CleansedLines struct {
	Raw    []string
	Lines  []string
	Elided []string
}

// NewCleansedLines preprocesses raw lines of a C++ file. Multi-line
// comments must have been removed already (see removeMultiLineComments);
// this function only elides comments contained in a single line.
func NewCleansedLines(raw []string) *CleansedLines {
	cl := &CleansedLines{Raw: raw}
	for _, line := range cleanseRawStrings(raw) {
		cl.Lines = append(cl.Lines, cleanseComments(line))
		cl.Elided = append(cl.Elided, cleanseComments(collapseStrings(line)))
	}
	return cl
}

// NumLines returns the number of lines represented.
func (cl *CleansedLines) NumLines() int {
	return len(cl.Raw)
}

// collapseStrings collapses string and character literals on a line to
// empty "" or '' blocks. Strings are nixed first so that we're not fooled
// by text like '"http://"'. C++14 digit separators are recognized and
// removed so that numeric literals like 1'000'000 do not look like
// character literals.
func collapseStrings(elided string) string {
	if includeRE.MatchString(elided) {
		return elided
	}

	// Remove escaped characters first to make quote collapsing basic.
	// Things that look like escaped characters shouldn't occur outside
	// of strings and chars.
	elided = escapesRE.ReplaceAllString(elided, "")

	var collapsed strings.Builder
	for {
		m := quoteRE.FindStringSubmatch(elided)
		if m == nil {
			collapsed.WriteString(elided)
			break
		}
		head, quote, tail := m[1], m[2], m[3]

		if quote == `"` {
			second := strings.Index(tail, `"`)
			if second < 0 {
				// Unmatched double quote, don't bother processing the
				// rest of the line since this is probably a multiline
				// string.
				collapsed.WriteString(elided)
				break
			}
			collapsed.WriteString(head + `""`)
			elided = tail[second+1:]
			continue
		}

		if digitSepHeadRE.MatchString(head) {
			// The single quote continues a numeric literal.
			lm := numericLiteralRE.FindStringSubmatch("'" + tail)
			collapsed.WriteString(head + strings.ReplaceAll(lm[1], "'", ""))
			elided = lm[2]
			continue
		}

		second := strings.Index(tail, "'")
		if second < 0 {
			// Unmatched single quote.
			collapsed.WriteString(elided)
			break
		}
		collapsed.WriteString(head + "''")
		elided = tail[second+1:]
	}
	return collapsed.String()
}

// cleanseComments removes //-comments and single-line /* */ comments.
// A comment ending the line is stripped together with the whitespace
// around it; a comment in the middle of a line keeps one separator so
// that tokens on either side do not merge.
func cleanseComments(line string) string {
	if pos := strings.Index(line, "//"); pos != -1 && !isCppString(line[:pos]) {
		line = strings.TrimRight(line[:pos], " \t")
	}

	for {
		loc := cCommentRE.FindStringIndex(line)
		if loc == nil {
			return line
		}
		head, tail := line[:loc[0]], line[loc[1]:]
		switch {
		case strings.TrimSpace(tail) == "":
			line = strings.TrimRight(head, " \t")
		case tail[0] == ' ' || tail[0] == '\t':
			line = head + strings.TrimLeft(tail, " \t")
		case strings.HasSuffix(head, " ") || strings.HasSuffix(head, "\t"):
			if isWordByte(tail[0]) {
				line = head + tail
			} else {
				line = strings.TrimRight(head, " \t") + tail
			}
		default:
			line = head + tail
		}
	}
}

func isWordByte(b byte) bool {
	return b == '_' || ('0' <= b && b <= '9') || ('a' <= b && b <= 'z') || ('A' <= b && b <= 'Z')
}

// isCppString returns whether line terminates inside a string constant, so
// that the next character appended to it would be part of the string. This
// function does not consider comments.
func isCppString(line string) bool {
	// After this, \\" does not match to \".
	line = strings.ReplaceAll(line, `\\`, "XX")
	return (strings.Count(line, `"`)-strings.Count(line, `\"`)-strings.Count(line, `'"'`))&1 == 1
}

// cleanseRawStrings replaces C++11 raw strings with empty ordinary
// strings, blanking the interior lines of multi-line raw strings:
//
//  Before:
//    static const char kData[] = R"(
//        multi-line string
//        )";
//
//  After:
//    static const char kData[] = ""
//        (replaced by blank line)
//        "";
func cleanseRawStrings(raw []string) []string {
	delimiter := ""
	var out []string
	for _, line := range raw {
		if delimiter != "" {
			// Inside a raw string, look for the end.
			if end := strings.Index(line, delimiter); end >= 0 {
				lead := ""
				if m := leadingSpaceRE.FindStringSubmatch(line); m != nil {
					lead = m[1]
				}
				line = lead + `""` + line[end+len(delimiter):]
				delimiter = ""
			} else {
				line = `""`
			}
		}

		// Replace raw strings starting on this line with empty strings.
		// This is done in a loop to handle multiple raw strings on the
		// same line. A marker preceded by a line comment is not a raw
		// string; comments are cleansed after raw strings, not before,
		// because some checks need comments preserved while no check
		// should look inside raw string contents.
		for delimiter == "" {
			m := rawStringStartRE.FindStringSubmatch(line)
			if m == nil || rawStringInCommentRE.MatchString(m[1]) {
				break
			}
			delimiter = ")" + m[2] + `"`
			if end := strings.Index(m[3], delimiter); end >= 0 {
				// Raw string ended on the same line.
				line = m[1] + `""` + m[3][end+len(delimiter):]
				delimiter = ""
			} else {
				// Start of a multi-line raw string.
				line = m[1] + `""`
			}
		}

		out = append(out, line)
	}
	return out
}

// findNextMultiLineCommentStart finds the beginning marker of a comment
// that extends beyond its starting line.
func findNextMultiLineCommentStart(lines []string, ix int) int {
	for ; ix < len(lines); ix++ {
		trimmed := strings.TrimSpace(lines[ix])
		if strings.HasPrefix(trimmed, "/*") && !strings.Contains(trimmed[2:], "*/") {
			return ix
		}
	}
	return len(lines)
}

// findNextMultiLineCommentEnd finds the end marker when inside a comment.
func findNextMultiLineCommentEnd(lines []string, ix int) int {
	for ; ix < len(lines); ix++ {
		if strings.HasSuffix(strings.TrimSpace(lines[ix]), "*/") {
			return ix
		}
	}
	return len(lines)
}

// removeMultiLineComments clears multi-line C style comments from lines in
// place. Cleared lines become "/**/" rather than empty so that they do not
// later look like blank lines.
func removeMultiLineComments(lines []string, rep *reporter) {
	ix := 0
	for ix < len(lines) {
		begin := findNextMultiLineCommentStart(lines, ix)
		if begin >= len(lines) {
			return
		}
		end := findNextMultiLineCommentEnd(lines, begin)
		if end >= len(lines) {
			rep.report(begin+1, "readability/multiline_comment", 5,
				"Could not find end of multi-line comment")
			return
		}
		for i := begin; i <= end; i++ {
			lines[i] = "/**/"
		}
		ix = end + 1
	}
}
