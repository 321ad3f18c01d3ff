package gocode

import (
	"github.com/dave/jennifer/jen"

	"github.com/croutondev/crouton/compiler/gen"
)

// teamGate emits the tenant-check prologue shared by every verb.
func teamGate(g *jen.Group, c *gen.Collection) {
	if !c.Config.UseTeams {
		return
	}
	g.List(jen.Id("teamID"), jen.Id("err")).Op(":=").Id("h").Dot("team").Call(jen.Id("r"))
	g.If(jen.Id("err").Op("!=").Nil()).Block(
		jen.Id("writeError").Call(jen.Id("w"), jen.Id("err")),
		jen.Return(),
	)
}

func handlerFunc(f *jen.File, name string) *jen.Statement {
	return f.Func().Params(jen.Id("h").Op("*").Id("Handler")).Id(name).Params(
		jen.Id("w").Qual("net/http", "ResponseWriter"),
		jen.Id("r").Op("*").Qual("net/http", "Request"),
	)
}

// genList generates list.go (GET collection).
func genList(c *gen.Collection) *jen.File {
	f := newFile(c)
	d := c.Config.Dialect

	query := `SELECT ` + selectList(c) + ` FROM "` + c.Table() + `"`
	if c.Config.UseTeams {
		query += ` WHERE "team_id" = ` + placeholder(d, 1)
	}
	query += ` ORDER BY ` + orderBy(c)
	f.Const().Id("list" + c.PluralPascal() + "SQL").Op("=").Lit(query)

	f.Commentf("List returns every %s row, ordered for display.", c.Singular())
	handlerFunc(f, "List").BlockFunc(func(g *jen.Group) {
		teamGate(g, c)
		queryArgs := []jen.Code{
			jen.Id("r").Dot("Context").Call(),
			jen.Id("list" + c.PluralPascal() + "SQL"),
		}
		if c.Config.UseTeams {
			queryArgs = append(queryArgs, jen.Id("teamID"))
		}
		g.List(jen.Id("rows"), jen.Id("qerr")).Op(":=").Id("h").Dot("db").Dot("QueryContext").Call(queryArgs...)
		g.If(jen.Id("qerr").Op("!=").Nil()).Block(
			jen.Id("writeError").Call(jen.Id("w"), jen.Id("qerr")),
			jen.Return(),
		)
		g.Defer().Id("rows").Dot("Close").Call()
		g.Id("out").Op(":=").Index().Op("*").Id(c.TypeName()).Values()
		g.For(jen.Id("rows").Dot("Next").Call()).Block(
			jen.List(jen.Id("ent"), jen.Id("serr")).Op(":=").Id("scan"+c.TypeName()).Call(jen.Id("rows")),
			jen.If(jen.Id("serr").Op("!=").Nil()).Block(
				jen.Id("writeError").Call(jen.Id("w"), jen.Id("serr")),
				jen.Return(),
			),
			jen.Id("out").Op("=").Append(jen.Id("out"), jen.Id("ent")),
		)
		g.If(jen.Id("rerr").Op(":=").Id("rows").Dot("Err").Call(), jen.Id("rerr").Op("!=").Nil()).Block(
			jen.Id("writeError").Call(jen.Id("w"), jen.Id("rerr")),
			jen.Return(),
		)
		g.Id("writeJSON").Call(jen.Id("w"), jen.Qual("net/http", "StatusOK"), jen.Id("out"))
	})
	return f
}

// genGet generates get.go (GET by id).
func genGet(c *gen.Collection) *jen.File {
	f := newFile(c)
	d := c.Config.Dialect

	query := `SELECT ` + selectList(c) + ` FROM "` + c.Table() + `" WHERE "id" = ` + placeholder(d, 1)
	if c.Config.UseTeams {
		query += ` AND "team_id" = ` + placeholder(d, 2)
	}
	f.Const().Id("get" + c.TypeName() + "SQL").Op("=").Lit(query)

	f.Commentf("Get returns one %s by id.", c.Singular())
	handlerFunc(f, "Get").BlockFunc(func(g *jen.Group) {
		teamGate(g, c)
		g.Id("id").Op(":=").Id("r").Dot("PathValue").Call(jen.Lit("id"))
		queryArgs := []jen.Code{
			jen.Id("r").Dot("Context").Call(),
			jen.Id("get" + c.TypeName() + "SQL"),
			jen.Id("id"),
		}
		if c.Config.UseTeams {
			queryArgs = append(queryArgs, jen.Id("teamID"))
		}
		g.List(jen.Id("ent"), jen.Id("serr")).Op(":=").Id("scan"+c.TypeName()).Call(
			jen.Id("h").Dot("db").Dot("QueryRowContext").Call(queryArgs...),
		)
		g.If(jen.Qual("errors", "Is").Call(jen.Id("serr"), jen.Qual("database/sql", "ErrNoRows"))).Block(
			jen.Id("writeError").Call(jen.Id("w"), jen.Qual(runtimePkg, "NewNotFoundError").Call(jen.Lit(c.Name), jen.Id("id"))),
			jen.Return(),
		)
		g.If(jen.Id("serr").Op("!=").Nil()).Block(
			jen.Id("writeError").Call(jen.Id("w"), jen.Id("serr")),
			jen.Return(),
		)
		g.Id("writeJSON").Call(jen.Id("w"), jen.Qual("net/http", "StatusOK"), jen.Id("ent"))
	})
	return f
}

// genDelete generates delete.go (DELETE by id). For trees the cascade
// on parent_id removes the whole subtree with the row.
func genDelete(c *gen.Collection) *jen.File {
	f := newFile(c)
	d := c.Config.Dialect

	query := `DELETE FROM "` + c.Table() + `" WHERE "id" = ` + placeholder(d, 1)
	if c.Config.UseTeams {
		query += ` AND "team_id" = ` + placeholder(d, 2)
	}
	f.Const().Id("delete" + c.TypeName() + "SQL").Op("=").Lit(query)

	f.Commentf("Delete removes one %s by id.", c.Singular())
	handlerFunc(f, "Delete").BlockFunc(func(g *jen.Group) {
		teamGate(g, c)
		g.Id("id").Op(":=").Id("r").Dot("PathValue").Call(jen.Lit("id"))
		execArgs := []jen.Code{
			jen.Id("r").Dot("Context").Call(),
			jen.Id("delete" + c.TypeName() + "SQL"),
			jen.Id("id"),
		}
		if c.Config.UseTeams {
			execArgs = append(execArgs, jen.Id("teamID"))
		}
		g.List(jen.Id("res"), jen.Id("xerr")).Op(":=").Id("h").Dot("db").Dot("ExecContext").Call(execArgs...)
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
		g.Id("w").Dot("WriteHeader").Call(jen.Qual("net/http", "StatusNoContent"))
	})
	return f
}
