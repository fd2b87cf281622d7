// Copyright 2021-present The Atlas Authors. All rights reserved.
// This source code is licensed under the Apache 2.0 license found
// in the LICENSE file in the root directory of this source tree.

// Package normalize rewrites the tokenized definitions of a table into the
// higher-level constructs of the migration DSL, such as identity columns,
// polymorphic relations and current-timestamp defaults.
//
// Rules never fail. A rule whose pattern does not match exactly leaves the
// table untouched.
package normalize

import (
	"strings"

	"ariga.io/blueprint/sql/definition"
	"ariga.io/blueprint/sql/mysql"
)

// Options configures the optional normalization rules.
type Options struct {
	// StripCharsetIntroducers removes the character set introducers
	// from the string literals of CHECK expressions.
	StripCharsetIntroducers bool
}

// A Rule rewrites the definitions of a table in place. Rules must replace
// the columns and indexes they change, rather than modifying them.
type Rule struct {
	Name  string
	Apply func(*definition.Table, Options)
}

// Rules holds the normalization rules in the order they are applied.
var Rules = []Rule{
	{Name: "primary key", Apply: foldPrimaryKey},
	{Name: "identity", Apply: collapseIdentity},
	{Name: "morphs", Apply: collapseMorphs},
	{Name: "timestamps", Apply: useCurrent},
	{Name: "introducers", Apply: stripIntroducers},
}

// Table returns a normalized copy of the given table. The definitions
// of the given table are not modified.
func Table(t *definition.Table, opts Options) *definition.Table {
	n := &definition.Table{
		Name:    t.Name,
		Columns: append([]definition.Column(nil), t.Columns...),
		Indexes: append([]definition.Index(nil), t.Indexes...),
	}
	for _, r := range Rules {
		r.Apply(n, opts)
	}
	return n
}

// foldPrimaryKey folds a single-column primary key index into its column.
func foldPrimaryKey(t *definition.Table, _ Options) {
	pk, i, ok := t.PrimaryKey()
	if !ok || len(pk.Columns) != 1 {
		return
	}
	c, j, ok := t.Column(pk.Columns[0])
	if !ok {
		return
	}
	c = c.Copy()
	c.Primary, c.Null = true, false
	t.Columns[j] = c
	t.RemoveIndex(i)
}

// collapseIdentity replaces the auto-incrementing integer column that
// is the sole primary key of the table with an identity column.
func collapseIdentity(t *definition.Table, _ Options) {
	// A remaining primary key index spans multiple columns.
	if _, _, ok := t.PrimaryKey(); ok {
		return
	}
	var (
		pk  *definition.ColumnDef
		pos int
	)
	for i, c := range t.Columns {
		c, ok := c.(*definition.ColumnDef)
		if !ok || !c.Primary {
			continue
		}
		if pk != nil {
			return
		}
		pk, pos = c, i
	}
	if pk == nil || pk.Null || !pk.AutoIncrement || !pk.Type.Is(tInt, tInteger, tBigInt) {
		return
	}
	t.Columns[pos] = &definition.Identity{Name: pk.Name, Big: pk.Type.Is(tBigInt)}
}

// collapseMorphs replaces "{X}_id" and "{X}_type" column pairs
// with a polymorphic relation on X.
func collapseMorphs(t *definition.Table, _ Options) {
	for i := 0; i < len(t.Columns); i++ {
		id, ok := t.Columns[i].(*definition.ColumnDef)
		if !ok || !strings.HasSuffix(id.Name, "_id") || id.Name == "_id" {
			continue
		}
		name := strings.TrimSuffix(id.Name, "_id")
		typ, j, ok := t.Column(name + "_type")
		if !ok || !typ.Type.Is(tVarchar, tChar) || id.Primary || id.AutoIncrement {
			continue
		}
		m := &definition.Morphs{Name: name, Null: id.Null && typ.Null}
		switch {
		case id.Type.Is(tChar) && id.Type.Size() == "36", id.Type.Is(tUUID):
			m.UUID = true
		case id.Type.Is(tTinyInt, tSmallInt, tMediumInt, tInt, tInteger, tBigInt) && id.Type.Unsigned:
		default:
			continue
		}
		// The relation takes the position of the first column of the pair.
		first, last := i, j
		if j < i {
			first, last = j, i
		}
		t.Columns[first] = m
		t.Columns = append(t.Columns[:last:last], t.Columns[last+1:]...)
		dropMorphIndex(t, m)
		i = first
	}
}

// dropMorphIndex drops the plain index that is created by the morphs construct.
func dropMorphIndex(t *definition.Table, m *definition.Morphs) {
	parts := definition.Parts{m.Name + "_type", m.Name + "_id"}
	for i, idx := range t.Indexes {
		if k, ok := idx.(*definition.Key); ok && k.Columns.Equal(parts) {
			t.RemoveIndex(i)
			return
		}
	}
}

// useCurrent flags timestamp columns that default to, or are
// updated with, the current timestamp.
func useCurrent(t *definition.Table, _ Options) {
	for i, c := range t.Columns {
		c, ok := c.(*definition.ColumnDef)
		if !ok || !c.Type.Is(tTimestamp, tDateTime) {
			continue
		}
		_, current := c.Default.(*definition.CurrentTimestamp)
		switch {
		case current:
			c = c.Copy()
			c.UseCurrent = true
			c.UseCurrentOnUpdate = c.OnUpdateCurrent
		case c.OnUpdateCurrent && c.NullDefaulted():
			// The engine represents such columns as implicitly nullable.
			c = c.Copy()
			c.Null, c.UseCurrentOnUpdate = true, true
		case c.OnUpdateCurrent:
			c = c.Copy()
			c.UseCurrentOnUpdate = true
		default:
			continue
		}
		t.Columns[i] = c
	}
}

// stripIntroducers removes character set introducers from CHECK expressions.
func stripIntroducers(t *definition.Table, opts Options) {
	if !opts.StripCharsetIntroducers {
		return
	}
	for i, idx := range t.Indexes {
		if c, ok := idx.(*definition.Check); ok {
			t.Indexes[i] = &definition.Check{Name: c.Name, Expr: mysql.StripIntroducers(c.Expr)}
		}
	}
}

const (
	tTinyInt   = "tinyint"
	tSmallInt  = "smallint"
	tMediumInt = "mediumint"
	tInt       = "int"
	tInteger   = "integer"
	tBigInt    = "bigint"
	tChar      = "char"
	tVarchar   = "varchar"
	tUUID      = "uuid"
	tTimestamp = "timestamp"
	tDateTime  = "datetime"
)
