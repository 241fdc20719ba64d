// Copyright 2024 The Chromium OS Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package check

import (
	"fmt"
	"regexp"
	"strings"
)

// asmState tracks the inline assembly state of a block.
type asmState int

const (
	noAsm     asmState = iota // outside of inline assembly block
	insideAsm                 // inside inline assembly block
	endAsm                    // last line of inline assembly block
	blockAsm                  // the whole block is an inline assembly block
)

// asmRE matches the start of an assembly block.
var asmRE = regexp.MustCompile(`^\s*(?:asm|_asm|__asm|__asm__)(?:\s+(volatile|__volatile__))?\s*[{(]`)

// namespaceDeclRE matches the start of a namespace declaration.
var namespaceDeclRE = regexp.MustCompile(`^\s*namespace\b\s*([:\w]+)?(.*)$`)

// classDeclRE matches a class or struct declaration, accounting for
// decorated classes such as:
//   class LOCKABLE API Object {
var classDeclRE = regexp.MustCompile(
	`^(\s*(?:template\s*<[\w\s<>,:=]*>\s*)?` +
		`(class|struct)\s+(?:[a-zA-Z0-9_]+\s+)*(\w+(?:::\w+)*))` +
		`(.*)$`)

// accessRE matches an access control specifier inside a class body.
var accessRE = regexp.MustCompile(`^(.*)\b(public|private|protected|signals)(\s+(?:slots\s*)?)?:(?:[^:]|$)`)

// braceTokenRE matches the first brace, semicolon or closing parenthesis
// with whatever precedes it.
var braceTokenRE = regexp.MustCompile(`^[^{;)}]*([{;)}])(.*)$`)

// externCRE matches the start of an extern "C" block.
var externCRE = regexp.MustCompile(`^extern\s*"[^"]*"\s*\{`)

var (
	ppIfRE    = regexp.MustCompile(`^\s*#\s*(if|ifdef|ifndef)\b`)
	ppElseRE  = regexp.MustCompile(`^\s*#\s*(else|elif)\b`)
	ppEndifRE = regexp.MustCompile(`^\s*#\s*endif\b`)
)

// templateTokenRE finds the earliest character that might delimit a
// template argument list.
var templateTokenRE = regexp.MustCompile(`^[^{};=\[\]\.<>]*(.)`)

var operatorTailRE = regexp.MustCompile(`\boperator\s*$`)

// indentLevel returns the number of leading spaces in line.
func indentLevel(line string) int {
	n := 0
	for n < len(line) && line[n] == ' ' {
		n++
	}
	if n == len(line) {
		return 0
	}
	return n
}

// blockInfo stores information about a generic brace block. It is
// embedded by the class, namespace and extern "C" variants.
type blockInfo struct {
	startLine     int
	seenOpenBrace bool
	openParens    int
	inlineAsm     asmState
}

// block is an entry of the nesting stack: a class or struct, a namespace,
// an extern "C" block, or some other kind of block.
type block interface {
	info() *blockInfo
	clone() block
	// checkBegin runs checks on the lines between the declaration and
	// its opening brace.
	checkBegin(s *nestingState, cl *CleansedLines, linenum int, rep *reporter)
	// checkEnd runs checks when the closing brace is seen.
	checkEnd(s *nestingState, cl *CleansedLines, linenum int, rep *reporter)
}

func (b *blockInfo) info() *blockInfo { return b }

func (b *blockInfo) clone() block {
	c := *b
	return &c
}

func (b *blockInfo) checkBegin(s *nestingState, cl *CleansedLines, linenum int, rep *reporter) {}
func (b *blockInfo) checkEnd(s *nestingState, cl *CleansedLines, linenum int, rep *reporter)   {}

// externCInfo stores information about an 'extern "C"' block.
type externCInfo struct {
	blockInfo
}

func (b *externCInfo) clone() block {
	c := *b
	return &c
}

// preprocessorInfo stores checkpoints of the nesting stack when #if or
// #else is seen.
type preprocessorInfo struct {
	stackBeforeIf   []block
	stackBeforeElse []block
	seenElse        bool
}

// nestingState tracks brace nesting while scanning a file line by line.
type nestingState struct {
	// stack holds all open braces. An entry is pushed whenever a "{" is
	// seen and popped on "}".
	stack []block

	// previousStackTop is the top of the stack before the last update
	// call. The stack is updated at the end of each line, so checks that
	// need the scope at the beginning of a line consult this instead.
	previousStackTop block

	ppStack []*preprocessorInfo

	// macroAlt is the union of recognized constructor suppression macro
	// names, ready for embedding into a regular expression.
	macroAlt string
}

// seenOpenBrace reports whether the opening brace of the innermost block
// has been seen.
func (s *nestingState) seenOpenBrace() bool {
	return len(s.stack) == 0 || s.stack[len(s.stack)-1].info().seenOpenBrace
}

// innermostClass returns the innermost enclosing class on the stack, or
// nil when outside any class.
func (s *nestingState) innermostClass() *classInfo {
	for i := len(s.stack) - 1; i >= 0; i-- {
		if ci, ok := s.stack[i].(*classInfo); ok {
			return ci
		}
	}
	return nil
}

func cloneStack(stack []block) []block {
	cloned := make([]block, len(stack))
	for i, b := range stack {
		cloned[i] = b.clone()
	}
	return cloned
}

// updatePreprocessor keeps the nesting stack consistent across
// preprocessor conditionals like:
//
//   #ifdef SWIG
//   struct ResultDetailsPageElementExtensionPoint {
//   #else
//   struct ResultDetailsPageElementExtensionPoint : public Extension {
//   #endif
//
// The condition is assumed to hold from #if up to the first #else or
// #elif, and to fail from there up to #endif. Lines in failing branches
// are still checked but do not affect the nesting stack.
func (s *nestingState) updatePreprocessor(line string) {
	if ppIfRE.MatchString(line) {
		// Save the nesting stack so that it can be restored in the
		// #else case.
		s.ppStack = append(s.ppStack, &preprocessorInfo{stackBeforeIf: cloneStack(s.stack)})
	} else if ppElseRE.MatchString(line) {
		if len(s.ppStack) == 0 {
			return
		}
		pp := s.ppStack[len(s.ppStack)-1]
		if !pp.seenElse {
			// First #else or #elif of this conditional. Remember the
			// whole stack up to this point; it is what survives #endif.
			pp.seenElse = true
			pp.stackBeforeElse = cloneStack(s.stack)
		}
		s.stack = cloneStack(pp.stackBeforeIf)
	} else if ppEndifRE.MatchString(line) {
		if len(s.ppStack) == 0 {
			return
		}
		pp := s.ppStack[len(s.ppStack)-1]
		if pp.seenElse {
			s.stack = pp.stackBeforeElse
		}
		s.ppStack = s.ppStack[:len(s.ppStack)-1]
	}
}

// update advances the nesting state over the line at linenum.
func (s *nestingState) update(cl *CleansedLines, linenum int, rep *reporter) {
	line := cl.Elided[linenum]

	if len(s.stack) > 0 {
		s.previousStackTop = s.stack[len(s.stack)-1]
	} else {
		s.previousStackTop = nil
	}

	s.updatePreprocessor(line)

	// Count parentheses. This keeps struct arguments in function
	// signatures off the nesting stack.
	if len(s.stack) > 0 {
		inner := s.stack[len(s.stack)-1].info()
		depthChange := strings.Count(line, "(") - strings.Count(line, ")")
		inner.openParens += depthChange

		switch {
		case inner.inlineAsm == noAsm || inner.inlineAsm == endAsm:
			if depthChange != 0 && inner.openParens == 1 && asmRE.MatchString(line) {
				inner.inlineAsm = insideAsm
			} else {
				inner.inlineAsm = noAsm
			}
		case inner.inlineAsm == insideAsm && inner.openParens == 0:
			inner.inlineAsm = endAsm
		}
	}

	// Consume namespace declarations at the beginning of the line. Done
	// in a loop to catch same-line declarations like:
	//   namespace proto2 { namespace bridge { class MessageSet; } }
	for {
		m := namespaceDeclRE.FindStringSubmatch(line)
		if m == nil {
			break
		}
		ns := &namespaceInfo{blockInfo: blockInfo{startLine: linenum}, name: m[1]}
		s.stack = append(s.stack, ns)
		line = m[2]
		if brace := strings.Index(line, "{"); brace != -1 {
			ns.seenOpenBrace = true
			line = line[brace+1:]
		}
	}

	// Look for a class declaration in whatever is left of the line after
	// parsing namespaces.
	if m := classDeclRE.FindStringSubmatch(line); m != nil &&
		(len(s.stack) == 0 || s.stack[len(s.stack)-1].info().openParens == 0) {
		// Do not accept classes that are actually template arguments:
		//   template <class Ignore1,
		//             class Ignore2 = Default<Args>,
		//             template <Args> class Ignore3>
		//   void Function() {};
		//
		// To avoid them, scan forward looking for an unmatched '>'; if
		// one is found we are inside a template argument list.
		if !s.inTemplateArgumentList(cl, linenum, len(m[1])) {
			s.stack = append(s.stack, newClassInfo(m[3], m[2], cl, linenum))
			line = m[4]
		}
	}

	// If the opening brace of the innermost block has not been seen yet,
	// run its begin checks here.
	if !s.seenOpenBrace() {
		s.stack[len(s.stack)-1].checkBegin(s, cl, linenum, rep)
	}

	// Update access control if we are inside a class or struct.
	if len(s.stack) > 0 {
		if ci, ok := s.stack[len(s.stack)-1].(*classInfo); ok {
			if m := accessRE.FindStringSubmatch(line); m != nil {
				ci.access = m[2]

				// Access specifiers are indented +1 space relative to
				// the class. Skip the check when they are preceded by
				// non-whitespace.
				indent := m[1]
				if len(indent) != ci.classIndent+1 && strings.TrimSpace(indent) == "" {
					rep.report(linenum, "whitespace/indent", 3,
						fmt.Sprintf("%s%s: should be indented +1 space inside %s", m[2], m[3], ci.qualified()))
				}
			}
		}
	}

	// Consume braces and semicolons from what's left of the line.
	for {
		m := braceTokenRE.FindStringSubmatch(line)
		if m == nil {
			break
		}
		switch token := m[1]; token {
		case "{":
			// If a namespace or class has not seen its opening brace
			// yet, mark its head as complete. Otherwise push a new
			// block onto the stack.
			if !s.seenOpenBrace() {
				s.stack[len(s.stack)-1].info().seenOpenBrace = true
			} else if externCRE.MatchString(line) {
				s.stack = append(s.stack, &externCInfo{blockInfo{startLine: linenum, seenOpenBrace: true}})
			} else {
				b := &blockInfo{startLine: linenum, seenOpenBrace: true}
				if asmRE.MatchString(line) {
					b.inlineAsm = blockAsm
				}
				s.stack = append(s.stack, b)
			}
		case ";", ")":
			// A semicolon before the opening brace means a forward
			// declaration; a closing parenthesis means function
			// arguments with extra "class" or "struct" keywords. Pop
			// the stack for both.
			if !s.seenOpenBrace() {
				s.stack = s.stack[:len(s.stack)-1]
			}
		default: // "}"
			if len(s.stack) > 0 {
				s.stack[len(s.stack)-1].checkEnd(s, cl, linenum, rep)
				s.stack = s.stack[:len(s.stack)-1]
			}
		}
		line = m[2]
	}
}

// inTemplateArgumentList reports whether the position just after a
// suspected template argument is inside template arguments.
func (s *nestingState) inTemplateArgumentList(cl *CleansedLines, linenum, pos int) bool {
	for linenum < cl.NumLines() {
		line := cl.Elided[linenum]
		m := templateTokenRE.FindStringSubmatch(line[pos:])
		if m == nil {
			linenum++
			pos = 0
			continue
		}
		token := m[1]
		pos += len(m[0])

		// These do not look like a template argument list:
		//   class Suspect {
		//   class Suspect x; }
		if token == "{" || token == "}" || token == ";" {
			return false
		}
		// These do:
		//   template <class Suspect>
		//   template <class Suspect = default_value>
		//   template <class Suspect[]>
		//   template <class Suspect...>
		if token == ">" || token == "=" || token == "[" || token == "]" || token == "." {
			return true
		}

		if token != "<" {
			pos++
			if pos >= len(line) {
				linenum++
				pos = 0
			}
			continue
		}

		// A single '<' is ambiguous; find its matching '>'.
		endLine, endPos := closeExpression(cl, linenum, pos-1)
		if endPos < 0 {
			// Either not a template argument list or a syntax error.
			return false
		}
		linenum = endLine
		pos = endPos
	}
	return false
}

var shiftOrCompareRE = regexp.MustCompile(`^<[<=]`)

// closeExpression finds the position just past the token closing the
// bracket at (linenum, pos), which must be one of ( { [ <. It returns the
// line number and position past the close, or (NumLines, -1) when the
// close is never found. Strings and comments are ignored while matching.
func closeExpression(cl *CleansedLines, linenum, pos int) (int, int) {
	line := cl.Elided[linenum]
	if pos >= len(line) || !strings.ContainsRune("({[<", rune(line[pos])) || shiftOrCompareRE.MatchString(line[pos:]) {
		return cl.NumLines(), -1
	}

	endPos, stack := findEndOfExpressionInLine(line, pos, nil)
	if endPos > -1 {
		return linenum, endPos
	}

	for len(stack) > 0 && linenum < cl.NumLines()-1 {
		linenum++
		endPos, stack = findEndOfExpressionInLine(cl.Elided[linenum], 0, stack)
		if endPos > -1 {
			return linenum, endPos
		}
	}
	return cl.NumLines(), -1
}

// findEndOfExpressionInLine scans line from startpos for the end of the
// current bracketed expression, carrying the bracket stack across lines.
// It returns (index just past the matching close, nil) on success,
// (-1, nil) on an unclosed expression, and (-1, stack) when the line ends
// with the expression still open.
func findEndOfExpressionInLine(line string, startpos int, stack []byte) (int, []byte) {
	for i := startpos; i < len(line); i++ {
		switch char := line[i]; {
		case char == '(' || char == '[' || char == '{':
			stack = append(stack, char)

		case char == '<':
			if i > 0 && line[i-1] == '<' {
				// Left shift operator.
				if len(stack) > 0 && stack[len(stack)-1] == '<' {
					stack = stack[:len(stack)-1]
					if len(stack) == 0 {
						return -1, nil
					}
				}
			} else if i > 0 && operatorTailRE.MatchString(line[:i]) {
				// operator<, not a bracket.
			} else {
				// Tentative start of template argument list.
				stack = append(stack, '<')
			}

		case char == ')' || char == ']' || char == '}':
			// If a matching '>' is still expected, the pending '<'
			// must have been an operator; unwind them.
			for len(stack) > 0 && stack[len(stack)-1] == '<' {
				stack = stack[:len(stack)-1]
			}
			if len(stack) == 0 {
				return -1, nil
			}
			top := stack[len(stack)-1]
			if (top == '(' && char == ')') || (top == '[' && char == ']') || (top == '{' && char == '}') {
				stack = stack[:len(stack)-1]
				if len(stack) == 0 {
					return i + 1, nil
				}
			} else {
				// Mismatched brackets.
				return -1, nil
			}

		case char == '>':
			// Ignore "->" and operator functions.
			if i > 0 && (line[i-1] == '-' || operatorTailRE.MatchString(line[:i-1])) {
				continue
			}
			// Pop a matching '<' if there is one; otherwise this '>'
			// is an operator.
			if len(stack) > 0 && stack[len(stack)-1] == '<' {
				stack = stack[:len(stack)-1]
				if len(stack) == 0 {
					return i + 1, nil
				}
			}

		case char == ';':
			// A statement end; template argument lists do not contain
			// statements, so pending '<' were operators.
			for len(stack) > 0 && stack[len(stack)-1] == '<' {
				stack = stack[:len(stack)-1]
			}
			if len(stack) == 0 {
				return -1, nil
			}
		}
	}
	return -1, stack
}

// checkCompletedBlocks reports classes and namespaces that were never
// closed. This can false-positive when #ifdef constructs confuse brace
// matching.
func (s *nestingState) checkCompletedBlocks(rep *reporter) {
	for _, b := range s.stack {
		switch b := b.(type) {
		case *classInfo:
			rep.report(b.startLine, "build/class", 5,
				fmt.Sprintf("Failed to find complete declaration of class %s", b.name))
		case *namespaceInfo:
			rep.report(b.startLine, "build/namespaces", 5,
				fmt.Sprintf("Failed to find complete declaration of namespace %s", b.name))
		}
	}
}
