// Copyright 2021-present The Atlas Authors. All rights reserved.
// This source code is licensed under the Apache 2.0 license found
// in the LICENSE file in the root directory of this source tree.

package cmdlog

import (
	"encoding/json"
	"fmt"
	"text/template"

	"ariga.io/blueprint/sql/generate"

	"github.com/fatih/color"
)

var (
	// ColorTemplateFuncs are globally available functions to color strings in a report template.
	ColorTemplateFuncs = template.FuncMap{
		"cyan":   color.CyanString,
		"green":  color.HiGreenString,
		"red":    color.HiRedString,
		"yellow": color.YellowString,
	}

	// TemplateFuncs are global functions available in the report templates.
	TemplateFuncs = merge(ColorTemplateFuncs, template.FuncMap{
		"json": jsonEncode,
	})

	// TablesTemplate holds the default template of the 'inspect' and 'parse' commands.
	TablesTemplate = template.Must(template.
			New("tables").
			Funcs(TemplateFuncs).
			Parse(`{{- range .Tables -}}
{{ yellow "--" }} table {{ cyan .Name }}
{{ range .Statements -}}
{{ . }};
{{ end -}}
{{ range .Skipped -}}
{{ red "-- skipped:" }} {{ .Clause }}
{{ red "--" }} {{ .Error }}
{{ end -}}
{{ end -}}
{{ yellow "--" }} {{ len .Tables }} tables, {{ .CountStmts }} statements
{{- with .CountSkipped }}, {{ red (printf "%d skipped" .) }}{{ end }}
`))
)

type (
	// Tables contains a summary of the generated tables.
	Tables struct {
		Tables []*Table `json:"Tables,omitempty"`
	}

	// Table holds the statements generated for a table.
	Table struct {
		Name       string     `json:"Name"`
		Statements []string   `json:"Statements,omitempty"`
		Skipped    []*Skipped `json:"Skipped,omitempty"`
	}

	// Skipped is a clause that failed to tokenize.
	Skipped struct {
		Clause string `json:"Clause"`
		Error  string `json:"Error"`
	}
)

// NewTables returns a Tables report for the given results.
func NewTables(results []*generate.Result) *Tables {
	r := &Tables{Tables: make([]*Table, 0, len(results))}
	for _, res := range results {
		t := &Table{Name: res.Table.Name, Statements: res.Statements}
		for _, s := range res.Skipped {
			t.Skipped = append(t.Skipped, &Skipped{Clause: s.Clause, Error: s.Err.Error()})
		}
		r.Tables = append(r.Tables, t)
	}
	return r
}

// CountStmts returns the total number of generated statements.
func (r *Tables) CountStmts() (n int) {
	for _, t := range r.Tables {
		n += len(t.Statements)
	}
	return n
}

// CountSkipped returns the total number of skipped clauses.
func (r *Tables) CountSkipped() (n int) {
	for _, t := range r.Tables {
		n += len(t.Skipped)
	}
	return n
}

func jsonEncode(v any, args ...string) (string, error) {
	var (
		b   []byte
		err error
	)
	switch len(args) {
	case 0:
		b, err = json.Marshal(v)
	case 1:
		b, err = json.MarshalIndent(v, "", args[0])
	default:
		b, err = json.MarshalIndent(v, args[0], args[1])
	}
	if err != nil {
		return "", fmt.Errorf("cmdlog: json encode: %w", err)
	}
	return string(b), nil
}

func merge(maps ...template.FuncMap) template.FuncMap {
	switch n := len(maps); {
	case n == 1:
		return maps[0]
	case n > 1:
		m := make(template.FuncMap)
		for _, fns := range maps {
			for name, fn := range fns {
				m[name] = fn
			}
		}
		return m
	}
	return nil
}
