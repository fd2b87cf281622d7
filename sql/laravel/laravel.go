// Copyright 2021-present The Atlas Authors. All rights reserved.
// This source code is licensed under the Apache 2.0 license found
// in the LICENSE file in the root directory of this source tree.

// Package laravel renders table definitions as Laravel schema builder
// statements, e.g. "$table->string('email')->unique()".
package laravel

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"ariga.io/blueprint/sql/definition"

	"github.com/go-openapi/inflect"
	"golang.org/x/mod/semver"
)

// Options configures the rendering of definitions.
type Options struct {
	// UseDefinedIndexNames passes the names of plain, full-text,
	// spatial and multi-column primary key indexes.
	UseDefinedIndexNames bool
	// UseDefinedUniqueKeyIndexNames passes the names of unique keys.
	UseDefinedUniqueKeyIndexNames bool
	// UseDefinedForeignKeyIndexNames passes the names of foreign keys.
	UseDefinedForeignKeyIndexNames bool
	// Version is the target framework version, e.g. "v10" or "8.83".
	// An empty version means the latest.
	Version string
}

// ErrUnknownDefinition is returned when rendering a nil or unknown definition.
var ErrUnknownDefinition = errors.New("laravel: unknown definition")

// before reports if the target version is before v.
func (o Options) before(v string) bool {
	if o.Version == "" {
		return false
	}
	t := o.Version
	if !strings.HasPrefix(t, "v") {
		t = "v" + t
	}
	return semver.Compare(t, v) < 0
}

// RenderIndex returns the statement of the given index or constraint.
func RenderIndex(idx definition.Index, opts Options) (string, error) {
	b := &builder{}
	switch idx := idx.(type) {
	case *definition.PrimaryKey:
		name := ""
		if idx.Columns.IsMultiColumn() && opts.UseDefinedIndexNames {
			name = idx.Name
		}
		b.call("primary", list(idx.Columns), optional(name))
	case *definition.UniqueKey:
		b.call("unique", list(idx.Columns), optional(gate(idx.Name, opts.UseDefinedUniqueKeyIndexNames)))
	case *definition.Key:
		b.call("index", list(idx.Columns), optional(gate(idx.Name, opts.UseDefinedIndexNames)))
	case *definition.FulltextKey:
		b.call("full_text", list(idx.Columns), optional(gate(idx.Name, opts.UseDefinedIndexNames)))
	case *definition.SpatialKey:
		b.call("spatial_index", list(idx.Columns), optional(gate(idx.Name, opts.UseDefinedIndexNames)))
	case *definition.ForeignKey:
		b.call("foreign", columns(idx.Columns), optional(gate(idx.Symbol, opts.UseDefinedForeignKeyIndexNames)))
		b.call("references", columns(idx.RefColumns))
		b.call("on", quote(idx.RefTable))
		if a := idx.Actions.OnUpdate; a != "" {
			b.call("on_update", quote(string(a)))
		}
		if a := idx.Actions.OnDelete; a != "" {
			b.call("on_delete", quote(string(a)))
		}
	case *definition.Check:
		b.call("check_constraint", dquote(idx.Expr), quote(idx.Name))
	default:
		return "", fmt.Errorf("%w: %T", ErrUnknownDefinition, idx)
	}
	return b.String(), nil
}

// RenderColumn returns the statement of the given column entry.
func RenderColumn(c definition.Column, opts Options) (string, error) {
	b := &builder{}
	switch c := c.(type) {
	case *definition.Identity:
		switch {
		case !c.Big:
			b.call("increments", quote(c.Name))
		case c.Name == "id" && !opts.before("v7"):
			b.call("id")
		default:
			b.call("big_increments", quote(c.Name))
		}
	case *definition.Morphs:
		m := "morphs"
		if c.UUID {
			m = "uuid_morphs"
		}
		b.call(m, quote(c.Name))
		if c.Null {
			b.call("nullable")
		}
	case *definition.ColumnDef:
		if c == nil || c.Type == nil {
			return "", fmt.Errorf("%w: column without type", ErrUnknownDefinition)
		}
		columnType(b, c)
		modifiers(b, c, opts)
	default:
		return "", fmt.Errorf("%w: %T", ErrUnknownDefinition, c)
	}
	return b.String(), nil
}

// columnType writes the base call of a plain column.
func columnType(b *builder, c *definition.ColumnDef) {
	t, name := c.Type, quote(c.Name)
	unsigned := func(m string) string {
		if t.Unsigned {
			return "unsigned_" + m
		}
		return m
	}
	switch t.T {
	case "tinyint":
		if t.Size() == "1" && !t.Unsigned {
			b.call("boolean", name)
			return
		}
		b.call(unsigned("tiny_integer"), name)
	case "bool", "boolean":
		b.call("boolean", name)
	case "smallint":
		b.call(unsigned("small_integer"), name)
	case "mediumint":
		b.call(unsigned("medium_integer"), name)
	case "int", "integer":
		b.call(unsigned("integer"), name)
	case "bigint":
		b.call(unsigned("big_integer"), name)
	case "decimal", "numeric", "fixed":
		b.call(unsigned("decimal"), append([]string{name}, t.Args...)...)
	case "float", "real":
		b.call(unsigned("float"), append([]string{name}, t.Args...)...)
	case "double":
		b.call(unsigned("double"), append([]string{name}, t.Args...)...)
	case "char":
		b.call("char", name, t.Size())
	case "varchar":
		size := t.Size()
		if size == defaultStringLength {
			size = ""
		}
		b.call("string", name, size)
	case "tinytext":
		b.call("tiny_text", name)
	case "text":
		b.call("text", name)
	case "mediumtext":
		b.call("medium_text", name)
	case "longtext":
		b.call("long_text", name)
	case "binary", "varbinary", "tinyblob", "blob", "mediumblob", "longblob":
		b.call("binary", name)
	case "enum", "set":
		vs := make([]string, len(t.Args))
		for i, a := range t.Args {
			vs[i] = quote(a)
		}
		b.call(t.T, name, "["+strings.Join(vs, ", ")+"]")
	case "date":
		b.call("date", name)
	case "datetime":
		b.call("date_time", name, t.Size())
	case "timestamp":
		b.call("timestamp", name, t.Size())
	case "time":
		b.call("time", name, t.Size())
	case "year":
		b.call("year", name)
	case "json":
		b.call("json", name)
	case "uuid":
		b.call("uuid", name)
	case "geometry", "point", "polygon":
		b.call(t.T, name)
	case "linestring":
		b.call("line_string", name)
	case "multipoint":
		b.call("multi_point", name)
	case "multilinestring":
		b.call("multi_line_string", name)
	case "multipolygon":
		b.call("multi_polygon", name)
	case "geometrycollection", "geomcollection":
		b.call("geometry_collection", name)
	default:
		b.call("add_column", quote(t.T), name)
	}
}

// modifiers writes the modifier calls of a plain column in their fixed order.
func modifiers(b *builder, c *definition.ColumnDef, opts Options) {
	// useCurrentOnUpdate was added in v8.
	rawOnUpdate := c.UseCurrentOnUpdate && opts.before("v8")
	if c.Null {
		b.call("nullable")
	}
	if d := defaultValue(c, rawOnUpdate); d != "" {
		b.call("default", d)
	}
	if c.Charset != "" {
		b.call("charset", quote(c.Charset))
	}
	if c.Collation != "" {
		b.call("collation", quote(c.Collation))
	}
	if c.AutoIncrement {
		b.call("auto_increment")
	}
	if c.Primary {
		b.call("primary")
	}
	if c.Unique {
		b.call("unique")
	}
	if c.UseCurrent && !rawOnUpdate {
		b.call("use_current")
	}
	if c.UseCurrentOnUpdate && !rawOnUpdate {
		b.call("use_current_on_update")
	}
	if rawOnUpdate {
		b.call("default", raw(onUpdateDefault(c)))
	}
	if g := c.Generated; g != nil {
		m := "virtual_as"
		if g.Stored {
			m = "stored_as"
		}
		b.call(m, quote(g.Expr))
	}
	if c.Comment != "" {
		b.call("comment", quote(c.Comment))
	}
}

// defaultValue returns the argument of the default modifier, if any.
func defaultValue(c *definition.ColumnDef, rawOnUpdate bool) string {
	if rawOnUpdate {
		return ""
	}
	switch d := c.Default.(type) {
	case *definition.Literal:
		switch {
		case d.Quoted:
			return quote(d.V)
		case isNumber(d.V):
			return d.V
		default:
			return raw(d.V)
		}
	case *definition.RawExpr:
		return raw(d.X)
	case *definition.CurrentTimestamp:
		// Rendered by useCurrent.
		if c.UseCurrent {
			return ""
		}
		x := "CURRENT_TIMESTAMP"
		if d.Precision != "" {
			x += "(" + d.Precision + ")"
		}
		return raw(x)
	}
	return ""
}

// onUpdateDefault returns the raw default of a column that is
// updated to the current timestamp, keeping its literal default.
func onUpdateDefault(c *definition.ColumnDef) string {
	x := "CURRENT_TIMESTAMP"
	switch d := c.Default.(type) {
	case *definition.Literal:
		x = d.V
		if d.Quoted {
			x = "'" + strings.ReplaceAll(d.V, "'", "''") + "'"
		}
	case *definition.RawExpr:
		x = "(" + d.X + ")"
	}
	return x + " ON UPDATE CURRENT_TIMESTAMP"
}

func isNumber(s string) bool {
	_, err := strconv.ParseFloat(s, 64)
	return err == nil
}

// builder builds a method-chain statement on the $table variable.
type builder struct {
	strings.Builder
}

// call appends a method call. The method is given in snake case, and
// empty arguments are omitted.
func (b *builder) call(method string, args ...string) {
	if b.Len() == 0 {
		b.WriteString("$table")
	}
	b.WriteString("->")
	b.WriteString(inflect.CamelizeDownFirst(method))
	b.WriteByte('(')
	var n int
	for _, a := range args {
		if a == "" {
			continue
		}
		if n > 0 {
			b.WriteString(", ")
		}
		b.WriteString(a)
		n++
	}
	b.WriteByte(')')
}

// gate returns the name if the gate is open.
func gate(name string, open bool) string {
	if !open {
		return ""
	}
	return name
}

// optional returns the quoted value, or an empty argument.
func optional(s string) string {
	if s == "" {
		return ""
	}
	return quote(s)
}

// list returns the PHP array of the given columns.
func list(p definition.Parts) string {
	vs := make([]string, len(p))
	for i, c := range p {
		vs[i] = quote(c)
	}
	return "[" + strings.Join(vs, ", ") + "]"
}

// columns returns a single quoted column, or the array of multiple ones.
func columns(p definition.Parts) string {
	if len(p) == 1 {
		return quote(p[0])
	}
	return list(p)
}

// quote returns a single-quoted PHP string.
func quote(s string) string {
	return "'" + strings.NewReplacer(`\`, `\\`, `'`, `\'`).Replace(s) + "'"
}

// dquote returns a double-quoted PHP string.
func dquote(s string) string {
	return `"` + strings.NewReplacer(`\`, `\\`, `"`, `\"`, `$`, `\$`).Replace(s) + `"`
}

// raw returns a raw database expression.
func raw(x string) string {
	return "DB::raw(" + quote(x) + ")"
}

const defaultStringLength = "255"
