// Copyright 2021-present The Atlas Authors. All rights reserved.
// This source code is licensed under the Apache 2.0 license found
// in the LICENSE file in the root directory of this source tree.

// Package sqltest holds the sqlmock helpers shared by the inspector tests.
package sqltest

import (
	"database/sql/driver"
	"regexp"
	"strings"
	"unicode"

	"github.com/DATA-DOG/go-sqlmock"
)

// Rows converts MySQL table output to sql.Rows. All row values are
// parsed as text except the "nil" and NULL keywords. For example:
//
//	+---------------+--------+
//	| Variable_name | Value  |
//	+---------------+--------+
//	| version       | 8.0.32 |
//	+---------------+--------+
func Rows(table string) *sqlmock.Rows {
	var (
		nc   int
		rows *sqlmock.Rows
	)
	for _, line := range strings.Split(table, "\n") {
		line = strings.TrimFunc(line, unicode.IsSpace)
		// Skip new lines, header and footer.
		if line == "" || strings.IndexAny(line, "+-") == 0 {
			continue
		}
		columns := strings.FieldsFunc(line, func(r rune) bool {
			return r == '|'
		})
		for i, c := range columns {
			columns[i] = strings.TrimSpace(c)
		}
		if rows == nil {
			nc = len(columns)
			rows = sqlmock.NewRows(columns)
			continue
		}
		values := make([]driver.Value, nc)
		for i, c := range columns {
			switch c {
			case "", "nil", "NULL":
			default:
				values[i] = c
			}
		}
		rows.AddRow(values...)
	}
	return rows
}

// ExpectVersion registers the server version query on the given mock.
func ExpectVersion(m sqlmock.Sqlmock, version string) {
	m.ExpectQuery(Escape("SHOW VARIABLES LIKE 'version'")).
		WillReturnRows(sqlmock.NewRows([]string{"Variable_name", "Value"}).AddRow("version", version))
}

// ExpectCreate registers the SHOW CREATE TABLE query of the given table.
// The statement is returned as is, since it spans multiple lines.
func ExpectCreate(m sqlmock.Sqlmock, table, stmt string) {
	m.ExpectQuery(Escape("SHOW CREATE TABLE `" + table + "`")).
		WillReturnRows(sqlmock.NewRows([]string{"Table", "Create Table"}).AddRow(table, stmt))
}

// Escape escapes all regular expression metacharacters in the given query.
func Escape(query string) string {
	rows := strings.Split(query, "\n")
	for i := range rows {
		rows[i] = strings.TrimPrefix(rows[i], " ")
	}
	query = strings.Join(rows, " ")
	return strings.TrimSpace(regexp.QuoteMeta(query)) + "$"
}
