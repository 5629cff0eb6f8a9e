// SPDX-License-Identifier: MPL-2.0

package luadep

import (
	"strings"
)

type (
	// Form classifies the syntactic shape a require reference was found in.
	Form int

	// Require is a statically detected module reference: the literal module
	// name, the form it was written in, and its position in the source.
	Require struct {
		// Module is the literal module name (e.g. "foo.bar" or "./local").
		Module string
		// Form is the syntactic shape of the statement.
		Form Form
		// Line and Col locate the require keyword (1-based).
		Line, Col int
	}

	// lexState tracks which lexical region the scanner is currently inside.
	// Require keywords are only recognized in stateNormal, so references that
	// appear inside strings or comments are never extracted.
	lexState int

	// Lexer is a lightweight Lua scanner that yields static require
	// references in textual order. It performs no evaluation and no parsing
	// beyond what is needed to skip strings and comments correctly.
	//
	// A Lexer is single-use; construct a new one to restart the sequence.
	Lexer struct {
		src  string
		path string

		pos       int
		line      int
		lineStart int

		state lexState
		// bracketLevel is the '=' count of the long bracket that opened the
		// current long string or block comment.
		bracketLevel int
	}
)

const (
	// FormQuoted is `require 'name'` or `require "name"` without parentheses.
	FormQuoted Form = iota
	// FormParenQuoted is `require('name')` or `require("name")`.
	FormParenQuoted
	// FormLongBracket is `require([[name]])` (or the paren-less variant).
	FormLongBracket
	// FormUnsupported is any other shape that lexically begins a require
	// statement. Encountering it aborts the resolution run.
	FormUnsupported
)

const (
	stateNormal lexState = iota
	stateStringSingle
	stateStringDouble
	stateLongString
	stateLineComment
	stateBlockComment
)

// String returns a human-readable form name.
func (f Form) String() string {
	switch f {
	case FormQuoted:
		return "quoted"
	case FormParenQuoted:
		return "paren-quoted"
	case FormLongBracket:
		return "long-bracket"
	default:
		return "unsupported"
	}
}

// NewLexer creates a Lexer over the full text of one source file. The path
// is used only for error reporting.
func NewLexer(src, path string) *Lexer {
	return &Lexer{src: src, path: path, line: 1}
}

// ExtractRequires scans an entire source text and returns every static
// require reference in textual order. It is a convenience wrapper around
// Lexer.Next.
func ExtractRequires(src, path string) ([]Require, error) {
	lx := NewLexer(src, path)
	var out []Require
	for {
		req, err := lx.Next()
		if err != nil {
			return nil, err
		}
		if req == nil {
			return out, nil
		}
		out = append(out, *req)
	}
}

// Next returns the next static require reference, or nil when the source is
// exhausted. A require statement whose argument is not a literal string
// yields an UnsupportedRequireError and poisons the lexer.
func (l *Lexer) Next() (*Require, error) {
	for l.pos < len(l.src) {
		c := l.src[l.pos]

		l.updateState(c)

		if l.state == stateNormal && l.matchKeyword("require") {
			req, err := l.parseRequire()
			if err != nil {
				return nil, err
			}
			// Step past the last consumed byte so the next call does not
			// re-scan the literal's closing delimiter.
			l.pos++
			return req, nil
		}

		if c == '\n' {
			l.line++
			l.lineStart = l.pos + 1
		}
		l.pos++
	}
	return nil, nil
}

// col returns the 1-based column of the given byte offset on the current line.
func (l *Lexer) col(pos int) int {
	return pos - l.lineStart + 1
}

// matchKeyword reports whether the keyword starts at the current position as
// a standalone identifier. Member access (obj.require, obj:require) and
// longer identifiers (required, _require) do not match.
func (l *Lexer) matchKeyword(kw string) bool {
	if !strings.HasPrefix(l.src[l.pos:], kw) {
		return false
	}
	if l.pos > 0 {
		prev := l.src[l.pos-1]
		if isIdentByte(prev) || prev == '.' || prev == ':' {
			return false
		}
	}
	if next := l.pos + len(kw); next < len(l.src) && isIdentByte(l.src[next]) {
		return false
	}
	return true
}

func isIdentByte(b byte) bool {
	return b == '_' ||
		(b >= 'a' && b <= 'z') ||
		(b >= 'A' && b <= 'Z') ||
		(b >= '0' && b <= '9')
}

// updateState advances the string/comment state machine for the byte at the
// current position.
func (l *Lexer) updateState(c byte) {
	switch l.state {
	case stateNormal:
		switch {
		case c == '-' && l.peek(1) == '-':
			if l.peek(2) == '[' {
				if level, ok := l.bracketLevelAt(l.pos + 2); ok {
					l.state = stateBlockComment
					l.bracketLevel = level
					return
				}
			}
			l.state = stateLineComment
		case c == '\'':
			l.state = stateStringSingle
		case c == '"':
			l.state = stateStringDouble
		case c == '[':
			if level, ok := l.bracketLevelAt(l.pos); ok {
				l.state = stateLongString
				l.bracketLevel = level
			}
		}
	case stateStringSingle:
		if c == '\'' && l.notEscaped() {
			l.state = stateNormal
		}
	case stateStringDouble:
		if c == '"' && l.notEscaped() {
			l.state = stateNormal
		}
	case stateLongString:
		if c == ']' && l.closingBracketAt(l.pos, l.bracketLevel) {
			l.state = stateNormal
		}
	case stateLineComment:
		if c == '\n' {
			l.state = stateNormal
		}
	case stateBlockComment:
		if c == ']' && l.closingBracketAt(l.pos, l.bracketLevel) {
			l.state = stateNormal
		}
	}
}

// peek returns the byte at the given offset from the current position, or 0
// past the end of the source.
func (l *Lexer) peek(offset int) byte {
	if p := l.pos + offset; p < len(l.src) {
		return l.src[p]
	}
	return 0
}

// notEscaped reports whether the byte at the current position is not escaped
// by a backslash (an even run of preceding backslashes means unescaped).
func (l *Lexer) notEscaped() bool {
	n := 0
	for p := l.pos - 1; p >= 0 && l.src[p] == '\\'; p-- {
		n++
	}
	return n%2 == 0
}

// bracketLevelAt returns the '=' count of a long-bracket opener [=*[ starting
// at pos, or ok=false if pos does not start a valid opener.
func (l *Lexer) bracketLevelAt(pos int) (int, bool) {
	if pos >= len(l.src) || l.src[pos] != '[' {
		return 0, false
	}
	p := pos + 1
	level := 0
	for p < len(l.src) && l.src[p] == '=' {
		level++
		p++
	}
	if p < len(l.src) && l.src[p] == '[' {
		return level, true
	}
	return 0, false
}

// closingBracketAt reports whether pos starts a closing bracket ]=*] with the
// expected level.
func (l *Lexer) closingBracketAt(pos, level int) bool {
	if pos >= len(l.src) || l.src[pos] != ']' {
		return false
	}
	p := pos + 1
	n := 0
	for p < len(l.src) && l.src[p] == '=' {
		n++
		p++
	}
	return p < len(l.src) && l.src[p] == ']' && n == level
}

// parseRequire consumes a require statement starting at the current position
// and extracts its module name. The position is left on the last byte of the
// consumed literal.
func (l *Lexer) parseRequire() (*Require, error) {
	startPos := l.pos
	startLine := l.line
	startCol := l.col(l.pos)

	l.pos += len("require")
	l.skipSpace()

	paren := false
	if l.byteAt(l.pos) == '(' {
		paren = true
		l.pos++
		l.skipSpace()
	}

	switch c := l.byteAt(l.pos); {
	case c == '"' || c == '\'':
		name, err := l.extractQuoted(startPos, startLine, startCol)
		if err != nil {
			return nil, err
		}
		form := FormQuoted
		if paren {
			form = FormParenQuoted
		}
		return &Require{Module: name, Form: form, Line: startLine, Col: startCol}, nil
	case c == '[':
		if level, ok := l.bracketLevelAt(l.pos); ok {
			name, err := l.extractLongBracket(level, startPos, startLine, startCol)
			if err != nil {
				return nil, err
			}
			return &Require{Module: name, Form: FormLongBracket, Line: startLine, Col: startCol}, nil
		}
	}

	// Anything else (bare identifier, expression, table constructor) is a
	// dynamic require that static analysis cannot follow.
	return nil, l.unsupported(startPos, startLine, startCol, "")
}

// byteAt returns the byte at pos, or 0 past the end.
func (l *Lexer) byteAt(pos int) byte {
	if pos < len(l.src) {
		return l.src[pos]
	}
	return 0
}

// skipSpace advances past whitespace, keeping line accounting correct.
func (l *Lexer) skipSpace() {
	for l.pos < len(l.src) {
		switch l.src[l.pos] {
		case ' ', '\t', '\r':
			l.pos++
		case '\n':
			l.line++
			l.lineStart = l.pos + 1
			l.pos++
		default:
			return
		}
	}
}

// extractQuoted consumes a single- or double-quoted literal starting at the
// current position and returns its content. The position is left on the
// closing quote.
func (l *Lexer) extractQuoted(startPos, startLine, startCol int) (string, error) {
	quote := l.src[l.pos]
	l.pos++

	var b strings.Builder
	for l.pos < len(l.src) {
		c := l.src[l.pos]
		if c == quote && l.notEscaped() {
			name := b.String()
			if err := l.rejectConcatenation(l.pos+1, startPos, startLine, startCol); err != nil {
				return "", err
			}
			return name, nil
		}
		if c == '\\' && l.pos+1 < len(l.src) {
			b.WriteByte(c)
			l.pos++
			b.WriteByte(l.src[l.pos])
			l.pos++
			continue
		}
		if c == '\n' {
			l.line++
			l.lineStart = l.pos + 1
		}
		b.WriteByte(c)
		l.pos++
	}
	return "", l.unsupported(startPos, startLine, startCol, "unterminated string in require statement")
}

// extractLongBracket consumes a long-bracket literal [=*[...]=*] of the given
// level and returns its content. The position is left on the final closing
// bracket byte.
func (l *Lexer) extractLongBracket(level, startPos, startLine, startCol int) (string, error) {
	l.pos += 2 + level

	var b strings.Builder
	for l.pos < len(l.src) {
		if l.src[l.pos] == ']' && l.closingBracketAt(l.pos, level) {
			name := b.String()
			end := l.pos + 2 + level
			if err := l.rejectConcatenation(end, startPos, startLine, startCol); err != nil {
				return "", err
			}
			l.pos = end - 1
			return name, nil
		}
		if l.src[l.pos] == '\n' {
			l.line++
			l.lineStart = l.pos + 1
		}
		b.WriteByte(l.src[l.pos])
		l.pos++
	}
	return "", l.unsupported(startPos, startLine, startCol, "unterminated long string in require statement")
}

// rejectConcatenation fails the run if the literal is followed by the `..`
// operator: a concatenated module name is dynamic no matter how literal its
// first operand looks.
func (l *Lexer) rejectConcatenation(after, startPos, startLine, startCol int) error {
	p := after
	for p < len(l.src) {
		switch l.src[p] {
		case ' ', '\t', '\n', '\r':
			p++
			continue
		}
		break
	}
	if p+1 < len(l.src) && l.src[p] == '.' && l.src[p+1] == '.' {
		return l.unsupported(startPos, startLine, startCol, "string concatenation in require argument")
	}
	return nil
}

// unsupported builds an UnsupportedRequireError for the statement starting at
// startPos. If detail is empty, the offending statement text is used.
func (l *Lexer) unsupported(startPos, startLine, startCol int, detail string) error {
	statement := detail
	if statement == "" {
		end := startPos
		for end < len(l.src) && l.src[end] != '\n' && l.src[end] != ';' {
			end++
		}
		statement = strings.TrimSpace(l.src[startPos:end])
	}
	// Poison the lexer so a caller that ignores the error cannot keep
	// iterating past the unsupported statement.
	l.pos = len(l.src)
	return &UnsupportedRequireError{Path: l.path, Line: startLine, Col: startCol, Statement: statement}
}
