// Copyright 2021-present The Atlas Authors. All rights reserved.
// This source code is licensed under the Apache 2.0 license found
// in the LICENSE file in the root directory of this source tree.

package mysql

import (
	"strings"

	"ariga.io/blueprint/sql/definition"
)

// ParseIndex tokenizes a single index or constraint clause as printed by
// SHOW CREATE TABLE. For example:
//
//	PRIMARY KEY (`id`)
//	UNIQUE KEY `users_email_unique` (`email`)
//	KEY `password_resets_email_index` (`email`)
//	CONSTRAINT `fk_user_id` FOREIGN KEY (`user_id`) REFERENCES `users` (`id`) ON DELETE CASCADE
//	CONSTRAINT `t1_chk_1` CHECK ((`c1` > 10))
func ParseIndex(clause string) (definition.Index, error) {
	p := &indexParser{stream: newStream(clause)}
	if err := p.consumeType(); err != nil {
		return nil, err
	}
	// Primary keys are unnamed at this stage.
	if p.kind != definition.KindPrimary {
		if err := p.consumeName(); err != nil {
			return nil, err
		}
	}
	var err error
	switch p.kind {
	case definition.KindForeign:
		err = p.consumeForeignKey()
	case definition.KindCheck:
		err = p.consumeCheck()
	default:
		err = p.consumeColumns()
	}
	if err != nil {
		return nil, err
	}
	if p.kind == definition.KindPrimary && p.name == "" && p.columns.IsMultiColumn() {
		p.name = "primary"
	}
	return p.definition(), nil
}

// indexParser holds the state of tokenizing one index clause.
type indexParser struct {
	*stream
	kind    definition.Kind
	name    string
	columns definition.Parts
	fk      definition.ForeignKey
	check   string
}

// IsIndexClause reports if the clause describes an index or a constraint,
// rather than a column.
func IsIndexClause(clause string) bool {
	t, ok := newStream(clause).next()
	if !ok {
		return false
	}
	switch strings.ToUpper(t) {
	case "PRIMARY", "UNIQUE", "FULLTEXT", "SPATIAL", "KEY", "INDEX", "CONSTRAINT":
		return true
	}
	return false
}

func (p *indexParser) consumeType() error {
	t, ok := p.next()
	if !ok {
		return p.unexpected("index type", "")
	}
	switch upper := strings.ToUpper(t); upper {
	case "PRIMARY", "UNIQUE", "FULLTEXT", "SPATIAL":
		p.kind = definition.Kind(strings.ToLower(upper))
		if _, err := p.expect("KEY", "INDEX"); err != nil {
			return err
		}
	case "KEY", "INDEX":
		p.kind = definition.KindIndex
	case "CONSTRAINT":
		// The constraint name is followed by the token that
		// determines the kind of the constraint.
		switch d, _ := p.peek(1); strings.ToUpper(d) {
		case "FOREIGN":
			p.kind = definition.KindForeign
		default:
			p.kind = definition.KindCheck
		}
	default:
		return p.unexpected("PRIMARY, UNIQUE, FULLTEXT, SPATIAL, KEY or CONSTRAINT", t)
	}
	return nil
}

func (p *indexParser) consumeName() error {
	t, ok := p.next()
	if !ok {
		return p.unexpected("index name", "")
	}
	// Unnamed keys, e.g. "KEY (`c`)".
	if strings.HasPrefix(t, "(") && p.kind != definition.KindForeign && p.kind != definition.KindCheck {
		return p.putBack(t)
	}
	p.name = unquote(t)
	return nil
}

func (p *indexParser) consumeColumns() error {
	t, _ := p.next()
	columns, err := p.columnList(t)
	if err != nil {
		return err
	}
	p.columns = columns
	// Index options, such as USING BTREE or COMMENT, are ignored.
	return nil
}

func (p *indexParser) consumeForeignKey() error {
	t, ok := p.next()
	if !ok || !strings.EqualFold(t, "FOREIGN") {
		if ok {
			if err := p.putBack(t); err != nil {
				return err
			}
		}
		return p.unexpected("FOREIGN", t)
	}
	if _, err := p.expect("KEY"); err != nil {
		return err
	}
	t, _ = p.next()
	columns, err := p.columnList(t)
	if err != nil {
		return err
	}
	if _, err := p.expect("REFERENCES"); err != nil {
		return err
	}
	t, ok = p.next()
	if !ok {
		return p.unexpected("referenced table", "")
	}
	p.fk.RefTable = unquoteQualified(t)
	t, _ = p.next()
	refs, err := p.columnList(t)
	if err != nil {
		return err
	}
	if len(columns) != len(refs) {
		return &ParseError{
			Clause:   p.clause,
			Expected: "referenced columns matching " + strings.Join(columns, ", "),
			Found:    t,
			Err:      ErrArityMismatch,
		}
	}
	p.columns, p.fk.Columns, p.fk.RefColumns = columns, columns, refs
	return p.consumeActions()
}

// consumeActions consumes the ON UPDATE and ON DELETE clauses.
func (p *indexParser) consumeActions() error {
	for {
		t, ok := p.next()
		if !ok {
			return nil
		}
		if !strings.EqualFold(t, "ON") {
			return p.putBack(t)
		}
		trigger, err := p.expect("UPDATE", "DELETE")
		if err != nil {
			return err
		}
		method, ok := p.next()
		if !ok {
			return p.unexpected("CASCADE, RESTRICT, NO ACTION, SET NULL or SET DEFAULT", "")
		}
		var opt definition.ReferenceOption
		switch strings.ToLower(method) {
		case "no":
			if _, err := p.expect("ACTION"); err != nil {
				return err
			}
			opt = definition.Restrict
		case "set":
			v, ok := p.next()
			if !ok {
				return p.unexpected("NULL or DEFAULT", "")
			}
			opt = definition.ReferenceOption("set " + v)
		default:
			opt = definition.ReferenceOption(strings.ToLower(method))
		}
		p.fk.Actions.Set(strings.ToLower(trigger), opt)
	}
}

func (p *indexParser) consumeCheck() error {
	if _, err := p.expect("CHECK"); err != nil {
		return err
	}
	var parts []string
	for _, t := range p.rest() {
		// Version comments, e.g. "/*!80016 NOT ENFORCED */".
		if !strings.HasPrefix(t, "/*") {
			parts = append(parts, t)
		}
	}
	if len(parts) == 0 {
		return p.unexpected("check expression", "")
	}
	p.check = TrimParens(strings.Join(parts, " "))
	return nil
}

// definition returns the definition built from the consumed tokens.
func (p *indexParser) definition() definition.Index {
	switch p.kind {
	case definition.KindPrimary:
		return &definition.PrimaryKey{Name: p.name, Columns: p.columns}
	case definition.KindUnique:
		return &definition.UniqueKey{Name: p.name, Columns: p.columns}
	case definition.KindFulltext:
		return &definition.FulltextKey{Name: p.name, Columns: p.columns}
	case definition.KindSpatial:
		return &definition.SpatialKey{Name: p.name, Columns: p.columns}
	case definition.KindForeign:
		fk := p.fk
		fk.Symbol = p.name
		return &fk
	case definition.KindCheck:
		return &definition.Check{Name: p.name, Expr: p.check}
	default:
		return &definition.Key{Name: p.name, Columns: p.columns}
	}
}

// unquoteQualified returns the table name of a possibly schema-qualified
// identifier, e.g. "`db`.`users`".
func unquoteQualified(t string) string {
	if i := strings.Index(t, "`.`"); i != -1 {
		return unquote(t[i+2:])
	}
	if i := strings.LastIndexByte(t, '.'); i != -1 && !strings.HasPrefix(t, "`") {
		return t[i+1:]
	}
	return unquote(t)
}
