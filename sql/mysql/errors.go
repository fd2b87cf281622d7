// Copyright 2021-present The Atlas Authors. All rights reserved.
// This source code is licensed under the Apache 2.0 license found
// in the LICENSE file in the root directory of this source tree.

package mysql

import (
	"errors"
	"fmt"
)

var (
	// ErrUnexpectedToken is returned when an expected keyword or token is absent.
	ErrUnexpectedToken = errors.New("unexpected token")
	// ErrMalformedColumnList is returned when a column list is empty or its parentheses are unbalanced.
	ErrMalformedColumnList = errors.New("malformed column list")
	// ErrArityMismatch is returned when the foreign-key columns do not match the referenced columns.
	ErrArityMismatch = errors.New("arity mismatch")
)

// A ParseError describes a failure to tokenize a single clause.
type ParseError struct {
	Clause   string // Clause text.
	Expected string // Expected token, if known.
	Found    string // Found token. Empty means end of clause.
	Err      error  // One of the Err* errors above.
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	found := e.Found
	if found == "" {
		found = "end of clause"
	} else {
		found = fmt.Sprintf("%q", found)
	}
	if e.Expected != "" {
		return fmt.Sprintf("mysql: %v in clause %q: expected %s, found %s", e.Err, e.Clause, e.Expected, found)
	}
	return fmt.Sprintf("mysql: %v in clause %q: found %s", e.Err, e.Clause, found)
}

// Unwrap returns the underlying error kind.
func (e *ParseError) Unwrap() error { return e.Err }

// IsParseError reports if the error is a ParseError.
func IsParseError(err error) bool {
	var e *ParseError
	return errors.As(err, &e)
}
