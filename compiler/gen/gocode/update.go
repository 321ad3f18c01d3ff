package gocode

import (
	"github.com/dave/jennifer/jen"

	"github.com/croutondev/crouton/compiler/gen"
	"github.com/croutondev/crouton/schema/field"
)

// genUpdate generates update.go (PATCH). Only fields present in the
// body are written; parent moves are rejected here and go through the
// move endpoint so paths stay consistent.
func genUpdate(c *gen.Collection) *jen.File {
	f := newFile(c)

	f.Commentf("Update applies a partial %s update.", c.Singular())
	handlerFunc(f, "Update").BlockFunc(func(g *jen.Group) {
		teamGate(g, c)
		g.Id("id").Op(":=").Id("r").Dot("PathValue").Call(jen.Lit("id"))
		genDecodeInput(g, c, true)
		if c.Hierarchy {
			g.If(jen.Id("in").Dot("ParentID").Op("!=").Nil()).Block(
				jen.Id("writeJSON").Call(
					jen.Id("w"), jen.Qual("net/http", "StatusBadRequest"),
					jen.Map(jen.String()).String().Values(jen.Dict{
						jen.Lit("error"): jen.Lit("use the move endpoint to change the parent"),
					}),
				),
				jen.Return(),
			)
		}

		g.Var().Id("sets").Index().String()
		g.Var().Id("args").Index().Any()
		for _, fd := range c.Fields {
			genUpdateSet(g, fd)
		}
		if c.Translatable() {
			genSetClause(g, "translations", jen.Op("*").Id("in").Dot("Translations"),
				jen.Id("in").Dot("Translations").Op("!=").Nil())
		}
		g.If(jen.Len(jen.Id("sets")).Op("==").Lit(0)).Block(
			jen.Id("writeJSON").Call(
				jen.Id("w"), jen.Qual("net/http", "StatusBadRequest"),
				jen.Map(jen.String()).String().Values(jen.Dict{jen.Lit("error"): jen.Lit("empty update")}),
			),
			jen.Return(),
		)
		if c.Config.UseMetadata {
			genSetClause(g, "updated_at", jen.Qual("time", "Now").Call().Dot("UTC").Call(), nil)
		}

		g.Id("args").Op("=").Append(jen.Id("args"), jen.Id("id"))
		g.Id("query").Op(":=").Lit(`UPDATE "`+c.Table()+`" SET `).Op("+").
			Qual("strings", "Join").Call(jen.Id("sets"), jen.Lit(", ")).Op("+").
			Lit(` WHERE "id" = `).Op("+").Id("bind").Call(jen.Len(jen.Id("args")))
		if c.Config.UseTeams {
			g.Id("args").Op("=").Append(jen.Id("args"), jen.Id("teamID"))
			g.Id("query").Op("+=").Lit(` AND "team_id" = `).Op("+").Id("bind").Call(jen.Len(jen.Id("args")))
		}

		g.List(jen.Id("res"), jen.Id("xerr")).Op(":=").Id("h").Dot("db").Dot("ExecContext").Call(
			jen.Id("r").Dot("Context").Call(), jen.Id("query"), jen.Id("args").Op("..."),
		)
		g.If(jen.Id("xerr").Op("!=").Nil()).Block(
			jen.Id("writeError").Call(jen.Id("w"), jen.Id("xerr")),
			jen.Return(),
		)
		g.If(
			jen.List(jen.Id("n"), jen.Id("_")).Op(":=").Id("res").Dot("RowsAffected").Call(),
			jen.Id("n").Op("==").Lit(0),
		).Block(
			jen.Id("writeError").Call(jen.Id("w"), jen.Qual(runtimePkg, "NewNotFoundError").Call(jen.Lit(c.Name), jen.Id("id"))),
			jen.Return(),
		)

		readArgs := []jen.Code{
			jen.Id("r").Dot("Context").Call(),
			jen.Id("get" + c.TypeName() + "SQL"),
			jen.Id("id"),
		}
		if c.Config.UseTeams {
			readArgs = append(readArgs, jen.Id("teamID"))
		}
		g.List(jen.Id("ent"), jen.Id("serr")).Op(":=").Id("scan"+c.TypeName()).Call(
			jen.Id("h").Dot("db").Dot("QueryRowContext").Call(readArgs...),
		)
		g.If(jen.Id("serr").Op("!=").Nil()).Block(
			jen.Id("writeError").Call(jen.Id("w"), jen.Id("serr")),
			jen.Return(),
		)
		g.Id("writeJSON").Call(jen.Id("w"), jen.Qual("net/http", "StatusOK"), jen.Id("ent"))
	})
	return f
}

// genUpdateSet appends one field's SET clause when present in the body.
func genUpdateSet(g *jen.Group, fd *gen.Field) {
	present := jen.Id("in").Dot(fd.StructField()).Op("!=").Nil()
	if fd.Kind == field.KindDate {
		body := []jen.Code{
			jen.List(jen.Id("v"), jen.Id("_")).Op(":=").Qual("time", "Parse").Call(
				jen.Qual("time", "RFC3339"), jen.Op("*").Id("in").Dot(fd.StructField()),
			),
		}
		g.If(present).Block(append(body, setClause(fd.Column(), jen.Id("v"))...)...)
		return
	}
	genSetClause(g, fd.Column(), jen.Op("*").Id("in").Dot(fd.StructField()), present)
}

// genSetClause appends a SET clause, optionally guarded by presence.
func genSetClause(g *jen.Group, column string, value jen.Code, when *jen.Statement) {
	if when == nil {
		for _, s := range setClause(column, value) {
			g.Add(s)
		}
		return
	}
	g.If(when).Block(setClause(column, value)...)
}

func setClause(column string, value jen.Code) []jen.Code {
	return []jen.Code{
		jen.Id("sets").Op("=").Append(
			jen.Id("sets"),
			jen.Lit(`"`+column+`" = `).Op("+").Id("bind").Call(jen.Len(jen.Id("args")).Op("+").Lit(1)),
		),
		jen.Id("args").Op("=").Append(jen.Id("args"), value),
	}
}
