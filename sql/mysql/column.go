// Copyright 2021-present The Atlas Authors. All rights reserved.
// This source code is licensed under the Apache 2.0 license found
// in the LICENSE file in the root directory of this source tree.

package mysql

import (
	"strings"

	"ariga.io/blueprint/sql/definition"
)

// ParseColumn tokenizes a single column clause as printed by SHOW CREATE
// TABLE. For example:
//
//	`id` int(9) unsigned NOT NULL AUTO_INCREMENT
//	`note` varchar(255) COLLATE utf8mb4_unicode_ci DEFAULT NULL COMMENT 'free text'
//	`updated_at` timestamp NULL DEFAULT NULL ON UPDATE CURRENT_TIMESTAMP
func ParseColumn(clause string) (*definition.ColumnDef, error) {
	s := newStream(clause)
	t, ok := s.next()
	if !ok {
		return nil, s.unexpected("column name", "")
	}
	// Columns are nullable unless stated otherwise.
	c := &definition.ColumnDef{Name: unquote(t), Null: true}
	if err := s.consumeType(c); err != nil {
		return nil, err
	}
	if err := s.consumeAttrs(c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *stream) consumeType(c *definition.ColumnDef) error {
	t, ok := s.next()
	if !ok {
		return s.unexpected("column type", "")
	}
	ct, err := s.parseType(t)
	if err != nil {
		return err
	}
	// Multi-word types.
	if ct.T == tDouble && s.accept("PRECISION") {
		ct.Raw += " precision"
	}
	for {
		switch w, _ := s.peek(0); strings.ToLower(w) {
		case "unsigned":
			ct.Unsigned = true
		case "signed", "zerofill":
		default:
			c.Type = ct
			return nil
		}
		w, _ := s.next()
		ct.Raw += " " + strings.ToLower(w)
	}
}

// parseType parses a type token, e.g. "int(9)" or "enum('a','b')".
func (s *stream) parseType(t string) (*definition.ColumnType, error) {
	ct := &definition.ColumnType{Raw: t, T: strings.ToLower(t)}
	i := strings.IndexByte(t, '(')
	if i == -1 {
		return ct, nil
	}
	if i == 0 || !strings.HasSuffix(t, ")") || !balanced(t[i:]) {
		return nil, s.unexpected("column type", t)
	}
	ct.T = strings.ToLower(t[:i])
	ct.Raw = ct.T + t[i:]
	for _, a := range splitList(t[i+1 : len(t)-1]) {
		a = strings.TrimSpace(a)
		if strings.HasPrefix(a, "'") {
			a = unquoteLiteral(a)
		}
		ct.Args = append(ct.Args, a)
	}
	return ct, nil
}

func (s *stream) consumeAttrs(c *definition.ColumnDef) error {
	for {
		t, ok := s.next()
		if !ok {
			return nil
		}
		if strings.HasPrefix(t, "/*") {
			continue
		}
		switch upper := strings.ToUpper(t); upper {
		case "NOT":
			if _, err := s.expect("NULL"); err != nil {
				return err
			}
			c.Null = false
		case "NULL":
			c.Null = true
		case "DEFAULT":
			v, ok := s.next()
			if !ok {
				return s.unexpected("default value", "")
			}
			c.Default = parseDefault(v)
		case "AUTO_INCREMENT":
			c.AutoIncrement = true
		case "ON":
			if _, err := s.expect("UPDATE"); err != nil {
				return err
			}
			v, _ := s.next()
			if _, ok := parseDefault(v).(*definition.CurrentTimestamp); !ok {
				return s.unexpected("CURRENT_TIMESTAMP", v)
			}
			c.OnUpdateCurrent = true
		case "PRIMARY", "KEY":
			if upper == "PRIMARY" {
				if _, err := s.expect("KEY"); err != nil {
					return err
				}
			}
			// Primary key columns are implicitly not null.
			c.Primary, c.Null = true, false
		case "UNIQUE":
			s.accept("KEY")
			c.Unique = true
		case "COMMENT":
			v, ok := s.next()
			if !ok {
				return s.unexpected("comment", "")
			}
			c.Comment = unquoteLiteral(v)
		case "CHARACTER", "CHARSET":
			if upper == "CHARACTER" {
				if _, err := s.expect("SET"); err != nil {
					return err
				}
			}
			v, ok := s.next()
			if !ok {
				return s.unexpected("character set", "")
			}
			c.Charset = v
		case "COLLATE":
			v, ok := s.next()
			if !ok {
				return s.unexpected("collation", "")
			}
			c.Collation = v
		case "GENERATED":
			if _, err := s.expect("ALWAYS"); err != nil {
				return err
			}
		case "AS":
			v, ok := s.next()
			if !ok || !strings.HasPrefix(v, "(") {
				return s.unexpected("generation expression", v)
			}
			c.Generated = &definition.Generated{Expr: TrimParens(v)}
		case "VIRTUAL", "STORED", "PERSISTENT":
			if c.Generated == nil {
				return s.unexpected("AS", t)
			}
			c.Generated.Stored = upper != "VIRTUAL"
		case "CHECK":
			v, _ := s.next()
			// MariaDB represents JSON columns as LONGTEXT with a JSON_VALID check.
			if c.Type.T == tLongText && isJSONValid(v, c.Name) {
				c.Type.T, c.Type.Raw = tJSON, tJSON
			}
		case "SRID":
			s.next()
		case "VISIBLE", "INVISIBLE":
		default:
			return s.unexpected("column attribute", t)
		}
	}
}

// parseDefault parses the value of a DEFAULT clause.
func parseDefault(v string) definition.Expr {
	upper := strings.ToUpper(v)
	switch {
	case upper == "NULL":
		return &definition.NullDefault{}
	case strings.HasPrefix(upper, "CURRENT_TIMESTAMP"), strings.HasPrefix(upper, "NOW("), strings.HasPrefix(upper, "LOCALTIMESTAMP"):
		ts := &definition.CurrentTimestamp{}
		if i := strings.IndexByte(v, '('); i != -1 && strings.HasSuffix(v, ")") {
			ts.Precision = v[i+1 : len(v)-1]
		}
		return ts
	case strings.HasPrefix(v, "'"), strings.HasPrefix(v, `"`):
		return &definition.Literal{V: unquoteLiteral(v), Quoted: true}
	case strings.HasPrefix(v, "("):
		return &definition.RawExpr{X: TrimParens(v)}
	default:
		return &definition.Literal{V: v}
	}
}

// unquoteLiteral unquotes a single or double-quoted SQL string literal.
func unquoteLiteral(v string) string {
	if len(v) < 2 || v[0] != v[len(v)-1] || v[0] != '\'' && v[0] != '"' {
		return v
	}
	q := v[:1]
	v = v[1 : len(v)-1]
	return strings.NewReplacer(q+q, q, `\\`, `\`, `\`+q, q, `\n`, "\n", `\t`, "\t").Replace(v)
}

// isJSONValid reports if the check expression is "json_valid(`name`)".
func isJSONValid(x, name string) bool {
	x = strings.ToLower(TrimParens(x))
	return x == "json_valid(`"+strings.ToLower(name)+"`)"
}

const (
	tDouble   = "double"
	tLongText = "longtext"
	tJSON     = "json"
)
