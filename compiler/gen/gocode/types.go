package gocode

import (
	"fmt"
	"strings"

	"github.com/dave/jennifer/jen"

	"github.com/croutondev/crouton/compiler/gen"
	"github.com/croutondev/crouton/dialect"
	"github.com/croutondev/crouton/schema/field"
)

// runtimePkg is the import path of the runtime package generated
// handlers depend on.
const runtimePkg = "github.com/croutondev/crouton"

// treepathPkg is the materialized-path runtime used by move handlers.
const treepathPkg = "github.com/croutondev/crouton/treepath"

// uuidPkg generates row ids on create.
const uuidPkg = "github.com/google/uuid"

// baseType returns the Go type for a field kind, without optionality.
func baseType(k field.Kind) jen.Code {
	switch k {
	case field.KindString, field.KindText, field.KindReference:
		return jen.String()
	case field.KindNumber:
		return jen.Int64()
	case field.KindDecimal:
		return jen.Float64()
	case field.KindBoolean:
		return jen.Bool()
	case field.KindDate:
		return jen.Qual("time", "Time")
	case field.KindJSON, field.KindArray, field.KindRepeater:
		// JSON-typed values travel as raw bytes so database/sql can
		// bind them without a custom Valuer.
		return jen.Qual("encoding/json", "RawMessage")
	default:
		return jen.Any()
	}
}

// goType returns the entity struct type for a field: optional fields
// become pointers so absent and zero stay distinguishable.
func goType(f *gen.Field) jen.Code {
	if f.Required() || f.Kind == field.KindBoolean {
		return baseType(f.Kind)
	}
	return jen.Op("*").Add(baseType(f.Kind))
}

// inputType returns the request-body type for a field. Every input
// field is a pointer for PATCH presence detection, and dates travel as
// RFC 3339 strings coerced by the handler.
func inputType(f *gen.Field) jen.Code {
	if f.Kind == field.KindDate {
		return jen.Op("*").String()
	}
	return jen.Op("*").Add(baseType(f.Kind))
}

// newFile creates a Jennifer file carrying the configured header.
func newFile(c *gen.Collection) *jen.File {
	f := jen.NewFile(c.PackageDir())
	f.HeaderComment(c.Config.Header)
	return f
}

// placeholders renders the dialect's bind markers for positions
// [from, from+n). SQL strings are fixed at generation time, so the
// dialect decision never leaks into generated code.
func placeholders(d dialect.Dialect, from, n int) []string {
	out := make([]string, n)
	for i := 0; i < n; i++ {
		if d == dialect.Postgres {
			out[i] = fmt.Sprintf("$%d", from+i)
		} else {
			out[i] = "?"
		}
	}
	return out
}

func placeholder(d dialect.Dialect, pos int) string {
	return placeholders(d, pos, 1)[0]
}

// columnNames lists every column of the collection's table in emitted
// order: id, user fields, feature columns, translations, team columns,
// audit columns. The entity struct, the scan helper and every query
// share this order.
func columnNames(c *gen.Collection) []string {
	cols := []string{"id"}
	for _, f := range c.Fields {
		cols = append(cols, f.Column())
	}
	if c.Hierarchy {
		cols = append(cols, "parent_id", "path", "depth", "order")
	} else if c.OrderField() != nil {
		cols = append(cols, "order")
	}
	if c.Translatable() {
		cols = append(cols, "translations")
	}
	if c.Config.UseTeams {
		cols = append(cols, "team_id", "owner_id")
	}
	if c.Config.UseMetadata {
		cols = append(cols, "created_at", "updated_at")
	}
	return cols
}

func quoteColumns(cols []string) []string {
	out := make([]string, len(cols))
	for i, c := range cols {
		out[i] = `"` + c + `"`
	}
	return out
}

func selectList(c *gen.Collection) string {
	return strings.Join(quoteColumns(columnNames(c)), ", ")
}

// orderBy returns the default listing order: trees by path, sortable
// collections by their order column, everything else by id.
func orderBy(c *gen.Collection) string {
	switch {
	case c.Hierarchy:
		return `"path"`
	case c.OrderField() != nil:
		return `"order"`
	default:
		return `"id"`
	}
}
