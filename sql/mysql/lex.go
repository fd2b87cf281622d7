// Copyright 2021-present The Atlas Authors. All rights reserved.
// This source code is licensed under the Apache 2.0 license found
// in the LICENSE file in the root directory of this source tree.

package mysql

import (
	"errors"
	"strings"
	"unicode"
	"unicode/utf8"

	"ariga.io/blueprint/sql/definition"
)

// stream is a cursor over the tokens of a single clause. It supports
// pushing back exactly one token between two calls to next.
type stream struct {
	clause string
	tokens []string
	pos    int
	back   string
	pushed bool
}

var errPushedBack = errors.New("mysql: token stream supports a single pushed back token")

func newStream(clause string) *stream {
	return &stream{clause: clause, tokens: lex(clause)}
}

// next consumes the next token. It reports false at end of clause.
func (s *stream) next() (string, bool) {
	if s.pushed {
		s.pushed = false
		return s.back, true
	}
	if s.pos >= len(s.tokens) {
		return "", false
	}
	t := s.tokens[s.pos]
	s.pos++
	return t, true
}

// putBack returns the given token to the stream.
func (s *stream) putBack(t string) error {
	if s.pushed {
		return errPushedBack
	}
	s.back, s.pushed = t, true
	return nil
}

// peek returns the n-th token ahead (0 is the next one) without consuming it.
func (s *stream) peek(n int) (string, bool) {
	if s.pushed {
		if n == 0 {
			return s.back, true
		}
		n--
	}
	if s.pos+n >= len(s.tokens) {
		return "", false
	}
	return s.tokens[s.pos+n], true
}

// rest consumes all remaining tokens.
func (s *stream) rest() []string {
	var ts []string
	for t, ok := s.next(); ok; t, ok = s.next() {
		ts = append(ts, t)
	}
	return ts
}

// expect consumes the next token and fails if it does not match
// one of the given keywords (case-insensitive).
func (s *stream) expect(kws ...string) (string, error) {
	t, ok := s.next()
	for _, kw := range kws {
		if ok && strings.EqualFold(t, kw) {
			return t, nil
		}
	}
	return t, s.unexpected(strings.Join(kws, " or "), t)
}

// accept consumes the next token if it matches the given keyword.
func (s *stream) accept(kw string) bool {
	if t, ok := s.peek(0); ok && strings.EqualFold(t, kw) {
		s.next()
		return true
	}
	return false
}

// acceptSeq consumes the given keywords if all of them are next in the stream.
func (s *stream) acceptSeq(kws ...string) bool {
	for i, kw := range kws {
		if t, ok := s.peek(i); !ok || !strings.EqualFold(t, kw) {
			return false
		}
	}
	for range kws {
		s.next()
	}
	return true
}

func (s *stream) unexpected(expected, found string) error {
	return &ParseError{Clause: s.clause, Expected: expected, Found: found, Err: ErrUnexpectedToken}
}

// lex splits the clause on whitespace. A balanced parenthesized group,
// a quoted string or an inline comment is kept within a single token.
func lex(clause string) []string {
	var (
		tokens []string
		depth  int
		start  = -1
	)
	for i := 0; i < len(clause); {
		r, w := utf8.DecodeRuneInString(clause[i:])
		switch {
		case unicode.IsSpace(r) && depth == 0:
			if start != -1 {
				tokens = append(tokens, clause[start:i])
				start = -1
			}
		case start == -1 && strings.HasPrefix(clause[i:], "/*"):
			end := strings.Index(clause[i+2:], "*/")
			if end == -1 {
				return append(tokens, clause[i:])
			}
			tokens = append(tokens, clause[i:i+end+4])
			i += end + 4
			continue
		default:
			if start == -1 {
				start = i
			}
			switch r {
			case '(':
				depth++
			case ')':
				if depth > 0 {
					depth--
				}
			case '\'', '"', '`':
				i = skipQuote(clause, i+w, r)
				continue
			}
		}
		i += w
	}
	if start != -1 {
		tokens = append(tokens, clause[start:])
	}
	return tokens
}

// skipQuote returns the position after the closing quote that
// matches the one ending right before position i.
func skipQuote(s string, i int, quote rune) int {
	for i < len(s) {
		r, w := utf8.DecodeRuneInString(s[i:])
		i += w
		switch r {
		case '\\':
			if quote != '`' && i < len(s) {
				_, w := utf8.DecodeRuneInString(s[i:])
				i += w
			}
		case quote:
			return i
		}
	}
	return i
}

// unquote strips one layer of identifier quoting. Trailing text after the
// closing backtick, such as a key-part length or order, is dropped.
func unquote(t string) string {
	t = strings.TrimSpace(t)
	if !strings.HasPrefix(t, "`") {
		if i := strings.IndexAny(t, "( "); i > 0 {
			return t[:i]
		}
		return t
	}
	end := skipQuote(t, 1, '`')
	if end < 2 || t[end-1] != '`' {
		return strings.Trim(t, "`")
	}
	return t[1 : end-1]
}

// columnList splits a parenthesized column-list token into its
// identifiers, preserving their order. A bare identifier is accepted
// as a single-column list.
func (s *stream) columnList(t string) (definition.Parts, error) {
	malformed := &ParseError{Clause: s.clause, Expected: "column list", Found: t, Err: ErrMalformedColumnList}
	t = strings.TrimSpace(t)
	if t == "" {
		return nil, malformed
	}
	if strings.HasPrefix(t, "(") {
		if !strings.HasSuffix(t, ")") || !balanced(t) {
			return nil, malformed
		}
		t = t[1 : len(t)-1]
	}
	var parts definition.Parts
	for _, c := range splitList(t) {
		if c = strings.TrimSpace(c); c == "" {
			return nil, malformed
		}
		if c = unquote(c); c == "" {
			return nil, malformed
		}
		parts = append(parts, c)
	}
	if len(parts) == 0 {
		return nil, malformed
	}
	return parts, nil
}

// splitList splits the given text by its top-level commas.
func splitList(s string) []string {
	var (
		parts []string
		depth int
		last  int
	)
	for i := 0; i < len(s); {
		r, w := utf8.DecodeRuneInString(s[i:])
		switch r {
		case '(':
			depth++
		case ')':
			depth--
		case '\'', '"', '`':
			i = skipQuote(s, i+w, r)
			continue
		case ',':
			if depth == 0 {
				parts = append(parts, s[last:i])
				last = i + 1
			}
		}
		i += w
	}
	return append(parts, s[last:])
}
