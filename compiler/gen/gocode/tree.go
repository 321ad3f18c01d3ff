package gocode

import (
	"github.com/dave/jennifer/jen"

	"github.com/croutondev/crouton/compiler/gen"
)

// genMove generates move.go (POST {id}/move) for tree collections.
// The cycle check and the subtree rebase both run before the first
// UPDATE, and every UPDATE happens inside one transaction, so a
// rejected or failed move leaves no half-moved rows behind.
func genMove(c *gen.Collection) *jen.File {
	f := newFile(c)
	d := c.Config.Dialect
	t := c.TypeName()

	subtree := `SELECT "id", "path" FROM "` + c.Table() + `" WHERE ("path" = ` + placeholder(d, 1) +
		` OR "path" LIKE ` + placeholder(d, 2) + ` || '/%')`
	moveRow := `UPDATE "` + c.Table() + `" SET "path" = ` + placeholder(d, 1) +
		`, "depth" = ` + placeholder(d, 2) + ` WHERE "id" = ` + placeholder(d, 3)
	moveRoot := `UPDATE "` + c.Table() + `" SET "parent_id" = ` + placeholder(d, 1) +
		`, "path" = ` + placeholder(d, 2) + `, "depth" = ` + placeholder(d, 3) +
		` WHERE "id" = ` + placeholder(d, 4)
	if c.Config.UseTeams {
		subtree += ` AND "team_id" = ` + placeholder(d, 3)
		moveRow += ` AND "team_id" = ` + placeholder(d, 4)
		moveRoot += ` AND "team_id" = ` + placeholder(d, 5)
	}
	f.Const().Id("subtree" + c.PluralPascal() + "SQL").Op("=").Lit(subtree)
	f.Const().Id("move" + t + "SQL").Op("=").Lit(moveRow)
	f.Const().Id("move" + t + "RootSQL").Op("=").Lit(moveRoot)

	reqName := "move" + t + "Request"
	f.Type().Id(reqName).Struct(
		jen.Id("NewParentID").Op("*").String().Tag(map[string]string{"json": "newParentId"}),
	)

	f.Commentf("Move reparents one %s and rewrites its subtree's paths.", c.Singular())
	handlerFunc(f, "Move").BlockFunc(func(g *jen.Group) {
		teamGate(g, c)
		g.Id("id").Op(":=").Id("r").Dot("PathValue").Call(jen.Lit("id"))
		g.Var().Id("req").Id(reqName)
		g.If(
			jen.Id("derr").Op(":=").Qual("encoding/json", "NewDecoder").Call(jen.Id("r").Dot("Body")).Dot("Decode").Call(jen.Op("&").Id("req")),
			jen.Id("derr").Op("!=").Nil(),
		).Block(
			jen.Id("writeJSON").Call(
				jen.Id("w"), jen.Qual("net/http", "StatusBadRequest"),
				jen.Map(jen.String()).String().Values(jen.Dict{jen.Lit("error"): jen.Lit("invalid request body")}),
			),
			jen.Return(),
		)

		genPathLookup(g, c, "nodePath", jen.Id("id"))
		g.Id("newParentPath").Op(":=").Lit("")
		g.If(jen.Id("req").Dot("NewParentID").Op("!=").Nil()).BlockFunc(func(inner *jen.Group) {
			genPathLookupInto(inner, c, "newParentPath", jen.Op("*").Id("req").Dot("NewParentID"))
		})

		g.If(
			jen.Id("cerr").Op(":=").Qual(treepathPkg, "CheckMove").Call(jen.Id("nodePath"), jen.Id("newParentPath")),
			jen.Id("cerr").Op("!=").Nil(),
		).Block(
			jen.Id("writeError").Call(jen.Id("w"), jen.Qual(runtimePkg, "ErrCycle")),
			jen.Return(),
		)

		subtreeArgs := []jen.Code{
			jen.Id("r").Dot("Context").Call(),
			jen.Id("subtree" + c.PluralPascal() + "SQL"),
			jen.Id("nodePath"), jen.Id("nodePath"),
		}
		if c.Config.UseTeams {
			subtreeArgs = append(subtreeArgs, jen.Id("teamID"))
		}
		g.List(jen.Id("rows"), jen.Id("qerr")).Op(":=").Id("h").Dot("db").Dot("QueryContext").Call(subtreeArgs...)
		g.If(jen.Id("qerr").Op("!=").Nil()).Block(
			jen.Id("writeError").Call(jen.Id("w"), jen.Id("qerr")),
			jen.Return(),
		)
		g.Id("idsByPath").Op(":=").Map(jen.String()).String().Values()
		g.Var().Id("paths").Index().String()
		g.For(jen.Id("rows").Dot("Next").Call()).Block(
			jen.Var().List(jen.Id("rowID"), jen.Id("rowPath")).String(),
			jen.If(
				jen.Id("serr").Op(":=").Id("rows").Dot("Scan").Call(jen.Op("&").Id("rowID"), jen.Op("&").Id("rowPath")),
				jen.Id("serr").Op("!=").Nil(),
			).Block(
				jen.Id("rows").Dot("Close").Call(),
				jen.Id("writeError").Call(jen.Id("w"), jen.Id("serr")),
				jen.Return(),
			),
			jen.Id("idsByPath").Index(jen.Id("rowPath")).Op("=").Id("rowID"),
			jen.Id("paths").Op("=").Append(jen.Id("paths"), jen.Id("rowPath")),
		)
		g.Id("rows").Dot("Close").Call()
		g.If(jen.Id("rerr").Op(":=").Id("rows").Dot("Err").Call(), jen.Id("rerr").Op("!=").Nil()).Block(
			jen.Id("writeError").Call(jen.Id("w"), jen.Id("rerr")),
			jen.Return(),
		)

		g.List(jen.Id("rebased"), jen.Id("berr")).Op(":=").Qual(treepathPkg, "Rebase").Call(
			jen.Id("nodePath"), jen.Id("newParentPath"), jen.Id("paths"),
		)
		g.If(jen.Id("berr").Op("!=").Nil()).Block(
			jen.Id("writeError").Call(jen.Id("w"), jen.Id("berr")),
			jen.Return(),
		)

		g.List(jen.Id("tx"), jen.Id("terr")).Op(":=").Id("h").Dot("db").Dot("BeginTx").Call(
			jen.Id("r").Dot("Context").Call(), jen.Nil(),
		)
		g.If(jen.Id("terr").Op("!=").Nil()).Block(
			jen.Id("writeError").Call(jen.Id("w"), jen.Id("terr")),
			jen.Return(),
		)
		g.Defer().Id("tx").Dot("Rollback").Call()

		rootArgs := []jen.Code{
			jen.Id("r").Dot("Context").Call(),
			jen.Id("move" + t + "RootSQL"),
			jen.Id("req").Dot("NewParentID"),
			jen.Id("rebased").Index(jen.Id("nodePath")),
			jen.Int64().Call(jen.Qual(treepathPkg, "Depth").Call(jen.Id("rebased").Index(jen.Id("nodePath")))),
			jen.Id("id"),
		}
		if c.Config.UseTeams {
			rootArgs = append(rootArgs, jen.Id("teamID"))
		}
		g.If(
			jen.List(jen.Id("_"), jen.Id("xerr")).Op(":=").Id("tx").Dot("ExecContext").Call(rootArgs...),
			jen.Id("xerr").Op("!=").Nil(),
		).Block(
			jen.Id("writeError").Call(jen.Id("w"), jen.Id("xerr")),
			jen.Return(),
		)

		rowArgs := []jen.Code{
			jen.Id("r").Dot("Context").Call(),
			jen.Id("move" + t + "SQL"),
			jen.Id("newPath"),
			jen.Int64().Call(jen.Qual(treepathPkg, "Depth").Call(jen.Id("newPath"))),
			jen.Id("idsByPath").Index(jen.Id("oldPath")),
		}
		if c.Config.UseTeams {
			rowArgs = append(rowArgs, jen.Id("teamID"))
		}
		g.For(jen.List(jen.Id("oldPath"), jen.Id("newPath")).Op(":=").Range().Id("rebased")).Block(
			jen.If(jen.Id("oldPath").Op("==").Id("nodePath")).Block(jen.Continue()),
			jen.If(
				jen.List(jen.Id("_"), jen.Id("xerr")).Op(":=").Id("tx").Dot("ExecContext").Call(rowArgs...),
				jen.Id("xerr").Op("!=").Nil(),
			).Block(
				jen.Id("writeError").Call(jen.Id("w"), jen.Id("xerr")),
				jen.Return(),
			),
		)
		g.If(
			jen.Id("cerr").Op(":=").Id("tx").Dot("Commit").Call(),
			jen.Id("cerr").Op("!=").Nil(),
		).Block(
			jen.Id("writeError").Call(jen.Id("w"), jen.Id("cerr")),
			jen.Return(),
		)

		readArgs := []jen.Code{
			jen.Id("r").Dot("Context").Call(),
			jen.Id("get" + t + "SQL"),
			jen.Id("id"),
		}
		if c.Config.UseTeams {
			readArgs = append(readArgs, jen.Id("teamID"))
		}
		g.List(jen.Id("ent"), jen.Id("serr")).Op(":=").Id("scan"+t).Call(
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

// genPathLookup declares name and loads the path of the row with the
// given id, mapping no-rows onto not-found.
func genPathLookup(g *jen.Group, c *gen.Collection, name string, id jen.Code) {
	g.Var().Id(name).String()
	genPathLookupScan(g, c, name, id)
}

func genPathLookupInto(g *jen.Group, c *gen.Collection, name string, id jen.Code) {
	genPathLookupScan(g, c, name, id)
}

func genPathLookupScan(g *jen.Group, c *gen.Collection, name string, id jen.Code) {
	queryArgs := []jen.Code{
		jen.Id("r").Dot("Context").Call(),
		jen.Id("path" + c.TypeName() + "ByIDSQL"),
		id,
	}
	if c.Config.UseTeams {
		queryArgs = append(queryArgs, jen.Id("teamID"))
	}
	g.Id("perr").Op(":=").Id("h").Dot("db").Dot("QueryRowContext").Call(queryArgs...).Dot("Scan").Call(jen.Op("&").Id(name))
	g.If(jen.Qual("errors", "Is").Call(jen.Id("perr"), jen.Qual("database/sql", "ErrNoRows"))).Block(
		jen.Id("writeError").Call(jen.Id("w"), jen.Qual(runtimePkg, "NewNotFoundError").Call(jen.Lit(c.Name), id)),
		jen.Return(),
	)
	g.If(jen.Id("perr").Op("!=").Nil()).Block(
		jen.Id("writeError").Call(jen.Id("w"), jen.Id("perr")),
		jen.Return(),
	)
}

// genReorder generates reorder.go (POST reorder) for sortable and tree
// collections: the posted id order becomes the stored order values.
func genReorder(c *gen.Collection) *jen.File {
	f := newFile(c)
	d := c.Config.Dialect
	t := c.TypeName()

	query := `UPDATE "` + c.Table() + `" SET "order" = ` + placeholder(d, 1) +
		` WHERE "id" = ` + placeholder(d, 2)
	if c.Config.UseTeams {
		query += ` AND "team_id" = ` + placeholder(d, 3)
	}
	f.Const().Id("reorder" + t + "SQL").Op("=").Lit(query)

	reqName := "reorder" + c.PluralPascal() + "Request"
	f.Type().Id(reqName).Struct(
		jen.Id("IDs").Index().String().Tag(map[string]string{"json": "ids"}),
	)

	f.Commentf("Reorder persists the posted %s ordering atomically.", c.Singular())
	handlerFunc(f, "Reorder").BlockFunc(func(g *jen.Group) {
		teamGate(g, c)
		g.Var().Id("req").Id(reqName)
		g.If(
			jen.Id("derr").Op(":=").Qual("encoding/json", "NewDecoder").Call(jen.Id("r").Dot("Body")).Dot("Decode").Call(jen.Op("&").Id("req")),
			jen.Id("derr").Op("!=").Nil(),
		).Block(
			jen.Id("writeJSON").Call(
				jen.Id("w"), jen.Qual("net/http", "StatusBadRequest"),
				jen.Map(jen.String()).String().Values(jen.Dict{jen.Lit("error"): jen.Lit("invalid request body")}),
			),
			jen.Return(),
		)

		g.List(jen.Id("tx"), jen.Id("terr")).Op(":=").Id("h").Dot("db").Dot("BeginTx").Call(
			jen.Id("r").Dot("Context").Call(), jen.Nil(),
		)
		g.If(jen.Id("terr").Op("!=").Nil()).Block(
			jen.Id("writeError").Call(jen.Id("w"), jen.Id("terr")),
			jen.Return(),
		)
		g.Defer().Id("tx").Dot("Rollback").Call()

		execArgs := []jen.Code{
			jen.Id("r").Dot("Context").Call(),
			jen.Id("reorder" + t + "SQL"),
			jen.Int64().Call(jen.Id("i")),
			jen.Id("id"),
		}
		if c.Config.UseTeams {
			execArgs = append(execArgs, jen.Id("teamID"))
		}
		g.For(jen.List(jen.Id("i"), jen.Id("id")).Op(":=").Range().Id("req").Dot("IDs")).Block(
			jen.List(jen.Id("res"), jen.Id("xerr")).Op(":=").Id("tx").Dot("ExecContext").Call(execArgs...),
			jen.If(jen.Id("xerr").Op("!=").Nil()).Block(
				jen.Id("writeError").Call(jen.Id("w"), jen.Id("xerr")),
				jen.Return(),
			),
			jen.If(
				jen.List(jen.Id("n"), jen.Id("_")).Op(":=").Id("res").Dot("RowsAffected").Call(),
				jen.Id("n").Op("==").Lit(0),
			).Block(
				jen.Id("writeError").Call(jen.Id("w"), jen.Qual(runtimePkg, "NewNotFoundError").Call(jen.Lit(c.Name), jen.Id("id"))),
				jen.Return(),
			),
		)
		g.If(
			jen.Id("cerr").Op(":=").Id("tx").Dot("Commit").Call(),
			jen.Id("cerr").Op("!=").Nil(),
		).Block(
			jen.Id("writeError").Call(jen.Id("w"), jen.Id("cerr")),
			jen.Return(),
		)
		g.Id("w").Dot("WriteHeader").Call(jen.Qual("net/http", "StatusNoContent"))
	})
	return f
}
