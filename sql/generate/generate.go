// Copyright 2021-present The Atlas Authors. All rights reserved.
// This source code is licensed under the Apache 2.0 license found
// in the LICENSE file in the root directory of this source tree.

// Package generate turns the raw clauses of database tables into
// Laravel schema builder statements.
package generate

import (
	"context"
	"fmt"
	"path"
	"strings"

	"ariga.io/blueprint/sql/definition"
	"ariga.io/blueprint/sql/laravel"
	"ariga.io/blueprint/sql/mysql"
	"ariga.io/blueprint/sql/normalize"
	"ariga.io/blueprint/sql/sqlclient"

	"golang.org/x/sync/errgroup"
)

type (
	// Options configures the generation of table statements.
	Options struct {
		Render    laravel.Options
		Normalize normalize.Options

		// SkipInvalid collects the clauses that failed to tokenize
		// instead of failing the whole table.
		SkipInvalid bool

		// Concurrency limits the number of tables that are
		// processed concurrently. Zero means no limit.
		Concurrency int
	}

	// Result holds the generated statements of a single table.
	Result struct {
		Table      *definition.Table
		Statements []string
		Skipped    []Skipped
	}

	// Skipped describes a clause that was not tokenized.
	Skipped struct {
		Clause string
		Err    error
	}
)

// Schema returns the statements as the body of a table blueprint.
func (r *Result) Schema() string {
	if len(r.Statements) == 0 {
		return ""
	}
	return strings.Join(r.Statements, ";\n") + ";"
}

// Table tokenizes, normalizes and renders the clauses of one table.
// Columns are rendered first, followed by indexes and constraints,
// each in their definition order.
func Table(name string, clauses []string, opts Options) (*Result, error) {
	r := &Result{}
	t := &definition.Table{Name: name}
	for _, c := range clauses {
		if c = strings.TrimSpace(c); c == "" {
			continue
		}
		if err := add(t, c); err != nil {
			if !opts.SkipInvalid || !mysql.IsParseError(err) {
				return nil, fmt.Errorf("generate: table %q: %w", name, err)
			}
			r.Skipped = append(r.Skipped, Skipped{Clause: c, Err: err})
		}
	}
	r.Table = normalize.Table(t, opts.Normalize)
	for _, c := range r.Table.Columns {
		s, err := laravel.RenderColumn(c, opts.Render)
		if err != nil {
			return nil, fmt.Errorf("generate: table %q: %w", name, err)
		}
		r.Statements = append(r.Statements, s)
	}
	for _, idx := range r.Table.Indexes {
		s, err := laravel.RenderIndex(idx, opts.Render)
		if err != nil {
			return nil, fmt.Errorf("generate: table %q: %w", name, err)
		}
		r.Statements = append(r.Statements, s)
	}
	return r, nil
}

// add tokenizes the clause and adds its definition to the table.
func add(t *definition.Table, clause string) error {
	if mysql.IsIndexClause(clause) {
		idx, err := mysql.ParseIndex(clause)
		if err != nil {
			return err
		}
		t.Indexes = append(t.Indexes, idx)
		return nil
	}
	c, err := mysql.ParseColumn(clause)
	if err != nil {
		return err
	}
	t.Columns = append(t.Columns, c)
	return nil
}

// Tables inspects and generates the given tables concurrently. If no names
// are given, all tables returned by the inspector are generated. Results
// are returned in the order of the table names.
func Tables(ctx context.Context, insp sqlclient.Inspector, names []string, opts Options) ([]*Result, error) {
	if len(names) == 0 {
		var err error
		if names, err = insp.TableNames(ctx); err != nil {
			return nil, fmt.Errorf("generate: list tables: %w", err)
		}
	}
	results := make([]*Result, len(names))
	g, ctx := errgroup.WithContext(ctx)
	if opts.Concurrency > 0 {
		g.SetLimit(opts.Concurrency)
	}
	for i, name := range names {
		i, name := i, name
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			clauses, err := insp.Clauses(ctx, name)
			if err != nil {
				return fmt.Errorf("generate: inspect table %q: %w", name, err)
			}
			r, err := Table(name, clauses, opts)
			if err != nil {
				return err
			}
			results[i] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// Exclude returns the names that do not match any of the given patterns.
// Patterns are matched using path.Match.
func Exclude(names, patterns []string) ([]string, error) {
	var kept []string
Names:
	for _, n := range names {
		for _, p := range patterns {
			ok, err := path.Match(p, n)
			if err != nil {
				return nil, fmt.Errorf("generate: invalid exclude pattern %q: %w", p, err)
			}
			if ok {
				continue Names
			}
		}
		kept = append(kept, n)
	}
	return kept, nil
}
