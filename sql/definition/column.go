// Copyright 2021-present The Atlas Authors. All rights reserved.
// This source code is licensed under the Apache 2.0 license found
// in the LICENSE file in the root directory of this source tree.

package definition

type (
	// ColumnDef is a plain column definition as it was tokenized.
	ColumnDef struct {
		Name          string
		Type          *ColumnType
		Null          bool
		Default       Expr // nil if the column has no DEFAULT clause.
		Comment       string
		Charset       string
		Collation     string
		AutoIncrement bool
		Primary       bool
		Unique        bool

		// OnUpdateCurrent indicates the column carries an
		// "ON UPDATE CURRENT_TIMESTAMP" clause.
		OnUpdateCurrent bool
		// Generated holds the expression of a generated column.
		Generated *Generated

		// Flags set by the normalizer.
		UseCurrent         bool
		UseCurrentOnUpdate bool
	}

	// ColumnType describes the SQL type of a column.
	ColumnType struct {
		Raw      string   // Raw type as tokenized, e.g. "int(9) unsigned".
		T        string   // Lower-cased base type, e.g. "int".
		Args     []string // Type arguments, e.g. ["9"] or enum values.
		Unsigned bool
	}

	// Generated describes a generated (computed) column.
	Generated struct {
		Expr   string
		Stored bool
	}

	// Expr is implemented by the default values of a column.
	Expr interface {
		expr()
	}

	// Literal is a literal default value. Quoted literals are unquoted.
	Literal struct {
		V      string
		Quoted bool
	}

	// RawExpr is an expression default value, e.g. "(uuid())".
	RawExpr struct {
		X string
	}

	// NullDefault marks "DEFAULT NULL".
	NullDefault struct{}

	// CurrentTimestamp marks "DEFAULT CURRENT_TIMESTAMP" and its synonyms.
	CurrentTimestamp struct {
		Precision string
	}
)

type (
	// Identity is an auto-incrementing integer column that is the sole
	// primary key of its table.
	Identity struct {
		Name string
		Big  bool
	}

	// Morphs is a polymorphic relation that replaces the "{Name}_id"
	// and "{Name}_type" column pair.
	Morphs struct {
		Name string
		UUID bool
		Null bool
	}
)

func (*Literal) expr()          {}
func (*RawExpr) expr()          {}
func (*NullDefault) expr()      {}
func (*CurrentTimestamp) expr() {}
func (*ColumnDef) col()         {}
func (*Identity) col()          {}
func (*Morphs) col()            {}

// Names implements the Column interface.
func (c *ColumnDef) Names() []string { return []string{c.Name} }

// Names implements the Column interface.
func (i *Identity) Names() []string { return []string{i.Name} }

// Names implements the Column interface.
func (m *Morphs) Names() []string { return []string{m.Name + "_id", m.Name + "_type"} }

// Copy returns a shallow copy of the column that can be modified
// without affecting the original.
func (c *ColumnDef) Copy() *ColumnDef {
	cp := *c
	return &cp
}

// NullDefaulted reports if the column has no default value or its default is NULL.
func (c *ColumnDef) NullDefaulted() bool {
	switch c.Default.(type) {
	case nil, *NullDefault:
		return true
	}
	return false
}

// Is reports if the column type matches one of the given base types.
func (t *ColumnType) Is(types ...string) bool {
	if t == nil {
		return false
	}
	for _, n := range types {
		if t.T == n {
			return true
		}
	}
	return false
}

// Size returns the first type argument, if exists. For example, 36 for
// "char(36)" or 9 for "int(9)".
func (t *ColumnType) Size() string {
	if t == nil || len(t.Args) == 0 {
		return ""
	}
	return t.Args[0]
}
