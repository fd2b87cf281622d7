// Copyright 2021-present The Atlas Authors. All rights reserved.
// This source code is licensed under the Apache 2.0 license found
// in the LICENSE file in the root directory of this source tree.

// Package definition holds the structured model produced by tokenizing
// the clauses of a "describe table" output. Index and constraint kinds
// are modeled as distinct types implementing the Index interface, and
// columns as types implementing the Column interface.
package definition

type (
	// A Table is the ordered collection of definitions that were
	// produced for a single table.
	Table struct {
		Name    string
		Columns []Column
		Indexes []Index
	}

	// Index is implemented by all index and constraint definitions.
	Index interface {
		Kind() Kind
		idx()
	}

	// Column is implemented by all column entries of a table. A plain
	// *ColumnDef may be replaced by a richer construct (e.g. *Identity
	// or *Morphs) after normalization.
	Column interface {
		// Names returns the table columns covered by this entry.
		Names() []string
		col()
	}

	// Kind describes the kind of an index or constraint definition.
	Kind string
)

// List of index and constraint kinds.
const (
	KindPrimary  Kind = "primary"
	KindUnique   Kind = "unique"
	KindFulltext Kind = "fulltext"
	KindSpatial  Kind = "spatial"
	KindIndex    Kind = "index"
	KindForeign  Kind = "foreign"
	KindCheck    Kind = "check"
)

type (
	// Parts holds the ordered column names of an index.
	Parts []string

	// PrimaryKey is a PRIMARY KEY definition. Name is empty unless the
	// key spans multiple columns.
	PrimaryKey struct {
		Name    string
		Columns Parts
	}

	// UniqueKey is a UNIQUE KEY definition.
	UniqueKey struct {
		Name    string
		Columns Parts
	}

	// FulltextKey is a FULLTEXT KEY definition.
	FulltextKey struct {
		Name    string
		Columns Parts
	}

	// SpatialKey is a SPATIAL KEY definition.
	SpatialKey struct {
		Name    string
		Columns Parts
	}

	// Key is a plain (non-unique) KEY definition.
	Key struct {
		Name    string
		Columns Parts
	}

	// ForeignKey is a FOREIGN KEY constraint. Columns and RefColumns
	// are positional and always have the same length.
	ForeignKey struct {
		Symbol     string // Constraint name.
		Columns    Parts
		RefTable   string
		RefColumns Parts
		Actions    Actions
	}

	// Check is a CHECK constraint. Expr holds the constraint expression
	// with superfluous wrapping parentheses removed.
	Check struct {
		Name string
		Expr string
	}

	// Actions holds the referential actions of a foreign key.
	// An empty value means the action was not specified.
	Actions struct {
		OnUpdate ReferenceOption
		OnDelete ReferenceOption
	}

	// ReferenceOption describes a foreign-key action method.
	ReferenceOption string
)

// List of foreign-key action methods as they are rendered.
const (
	Cascade    ReferenceOption = "cascade"
	Restrict   ReferenceOption = "restrict"
	SetNull    ReferenceOption = "set NULL"
	SetDefault ReferenceOption = "set DEFAULT"
)

// Kind implements the Index interface.
func (*PrimaryKey) Kind() Kind { return KindPrimary }

// Kind implements the Index interface.
func (*UniqueKey) Kind() Kind { return KindUnique }

// Kind implements the Index interface.
func (*FulltextKey) Kind() Kind { return KindFulltext }

// Kind implements the Index interface.
func (*SpatialKey) Kind() Kind { return KindSpatial }

// Kind implements the Index interface.
func (*Key) Kind() Kind { return KindIndex }

// Kind implements the Index interface.
func (*ForeignKey) Kind() Kind { return KindForeign }

// Kind implements the Index interface.
func (*Check) Kind() Kind { return KindCheck }

func (*PrimaryKey) idx()  {}
func (*UniqueKey) idx()   {}
func (*FulltextKey) idx() {}
func (*SpatialKey) idx()  {}
func (*Key) idx()         {}
func (*ForeignKey) idx()  {}
func (*Check) idx()       {}

// IsMultiColumn reports if the parts span more than one column.
func (p Parts) IsMultiColumn() bool { return len(p) > 1 }

// Equal reports if the two parts hold the same columns in the same order.
func (p Parts) Equal(o Parts) bool {
	if len(p) != len(o) {
		return false
	}
	for i := range p {
		if p[i] != o[i] {
			return false
		}
	}
	return true
}

// Set sets the action for the given trigger ("update" or "delete").
// It reports false if the trigger is unknown.
func (a *Actions) Set(trigger string, o ReferenceOption) bool {
	switch trigger {
	case "update":
		a.OnUpdate = o
	case "delete":
		a.OnDelete = o
	default:
		return false
	}
	return true
}

// Len returns the number of actions set.
func (a Actions) Len() (n int) {
	if a.OnUpdate != "" {
		n++
	}
	if a.OnDelete != "" {
		n++
	}
	return n
}

// IndexName returns the name of the given index definition, or an
// empty string if it has none.
func IndexName(idx Index) string {
	switch idx := idx.(type) {
	case *PrimaryKey:
		return idx.Name
	case *UniqueKey:
		return idx.Name
	case *FulltextKey:
		return idx.Name
	case *SpatialKey:
		return idx.Name
	case *Key:
		return idx.Name
	case *ForeignKey:
		return idx.Symbol
	case *Check:
		return idx.Name
	}
	return ""
}

// IndexColumns returns the local columns of the given index definition.
// Check constraints have no columns.
func IndexColumns(idx Index) Parts {
	switch idx := idx.(type) {
	case *PrimaryKey:
		return idx.Columns
	case *UniqueKey:
		return idx.Columns
	case *FulltextKey:
		return idx.Columns
	case *SpatialKey:
		return idx.Columns
	case *Key:
		return idx.Columns
	case *ForeignKey:
		return idx.Columns
	}
	return nil
}

// Column returns the first plain column that matched the given name.
func (t *Table) Column(name string) (*ColumnDef, int, bool) {
	for i, c := range t.Columns {
		if c, ok := c.(*ColumnDef); ok && c.Name == name {
			return c, i, true
		}
	}
	return nil, -1, false
}

// PrimaryKey returns the primary key index of the table, if exists.
func (t *Table) PrimaryKey() (*PrimaryKey, int, bool) {
	for i, idx := range t.Indexes {
		if pk, ok := idx.(*PrimaryKey); ok {
			return pk, i, true
		}
	}
	return nil, -1, false
}

// RemoveIndex removes the index at position i.
func (t *Table) RemoveIndex(i int) {
	t.Indexes = append(t.Indexes[:i:i], t.Indexes[i+1:]...)
}
