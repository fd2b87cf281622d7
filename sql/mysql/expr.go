// Copyright 2021-present The Atlas Authors. All rights reserved.
// This source code is licensed under the Apache 2.0 license found
// in the LICENSE file in the root directory of this source tree.

package mysql

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// TrimParens strips the superfluous parentheses that wrap the whole
// expression. MySQL wraps CHECK clauses one or more times, for example
// "((a) or (b))". A layer is stripped only if the inner text remains
// balanced, so "(a) or (b)" is returned as is.
func TrimParens(x string) string {
	x = strings.TrimSpace(x)
	for strings.HasPrefix(x, "(") && strings.HasSuffix(x, ")") {
		inner := strings.TrimSpace(x[1 : len(x)-1])
		if !balanced(inner) {
			break
		}
		x = inner
	}
	return x
}

// balanced reports if the parentheses of the given text are balanced.
// Parentheses inside quoted strings or identifiers are ignored.
func balanced(s string) bool {
	var depth int
	for i := 0; i < len(s); {
		r, w := utf8.DecodeRuneInString(s[i:])
		switch r {
		case '(':
			depth++
		case ')':
			if depth--; depth < 0 {
				return false
			}
		case '\'', '"', '`':
			i = skipQuote(s, i+w, r)
			continue
		}
		i += w
	}
	return depth == 0
}

// reIntroducer matches a character set introducer that prefixes a string
// literal. For example, "_utf8mb4'admin'".
var reIntroducer = regexp.MustCompile(`^_[a-z0-9]+['"]`)

// StripIntroducers removes the character set introducers that MySQL adds
// to string literals when it prints CHECK expressions. Literals and
// identifiers themselves are left untouched.
func StripIntroducers(x string) string {
	var b strings.Builder
	for i := 0; i < len(x); {
		r, w := utf8.DecodeRuneInString(x[i:])
		switch {
		case r == '\'' || r == '"' || r == '`':
			end := skipQuote(x, i+w, r)
			b.WriteString(x[i:end])
			i = end
			continue
		case r == '_' && (i == 0 || !isIdent(x[i-1])):
			if loc := reIntroducer.FindStringIndex(x[i:]); loc != nil {
				// Skip the introducer and keep the quote.
				i += loc[1] - 1
				continue
			}
		}
		b.WriteRune(r)
		i += w
	}
	return b.String()
}

func isIdent(c byte) bool {
	return c == '_' || c == '$' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9'
}
