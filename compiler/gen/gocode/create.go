package gocode

import (
	"strings"

	"github.com/dave/jennifer/jen"

	"github.com/croutondev/crouton/compiler/gen"
	"github.com/croutondev/crouton/schema/field"
)

// genCreate generates create.go (POST). Request dates arrive as
// RFC 3339 strings and are coerced to time.Time before the insert;
// tree rows get their path and depth computed from the parent row.
func genCreate(c *gen.Collection) *jen.File {
	f := newFile(c)
	d := c.Config.Dialect
	cols := columnNames(c)

	insert := `INSERT INTO "` + c.Table() + `" (` + strings.Join(quoteColumns(cols), ", ") +
		`) VALUES (` + strings.Join(placeholders(d, 1, len(cols)), ", ") + `)`
	f.Const().Id("insert" + c.TypeName() + "SQL").Op("=").Lit(insert)

	if c.Hierarchy {
		// Path lookup by id, shared with the move handler.
		parent := `SELECT "path" FROM "` + c.Table() + `" WHERE "id" = ` + placeholder(d, 1)
		if c.Config.UseTeams {
			parent += ` AND "team_id" = ` + placeholder(d, 2)
		}
		f.Const().Id("path" + c.TypeName() + "ByIDSQL").Op("=").Lit(parent)
	}
	if c.Hierarchy || c.OrderField() != nil {
		next := `SELECT COALESCE(MAX("order"), -1) + 1 FROM "` + c.Table() + `"`
		if c.Config.UseTeams {
			next += ` WHERE "team_id" = ` + placeholder(d, 1)
		}
		f.Const().Id("next" + c.TypeName() + "OrderSQL").Op("=").Lit(next)
	}

	f.Commentf("Create inserts one %s from a validated request body.", c.Singular())
	handlerFunc(f, "Create").BlockFunc(func(g *jen.Group) {
		teamGate(g, c)
		genDecodeInput(g, c, false)

		g.Id("ent").Op(":=").Op("&").Id(c.TypeName()).Values(jen.Dict{
			jen.Id("ID"): jen.Qual(uuidPkg, "NewString").Call(),
		})
		for _, fd := range c.Fields {
			genAssignField(g, fd)
		}
		if c.Translatable() {
			g.If(jen.Id("in").Dot("Translations").Op("!=").Nil()).Block(
				jen.Id("ent").Dot("Translations").Op("=").Op("*").Id("in").Dot("Translations"),
			)
		}
		if c.Hierarchy {
			genCreatePath(g, c)
		}
		if c.Hierarchy || c.OrderField() != nil {
			genNextOrder(g, c)
		}
		if c.Config.UseTeams {
			g.Id("ent").Dot("TeamID").Op("=").Id("teamID")
			g.Id("ent").Dot("OwnerID").Op("=").Id("r").Dot("Header").Dot("Get").Call(jen.Lit("X-User-Id"))
		}
		if c.Config.UseMetadata {
			g.Id("now").Op(":=").Qual("time", "Now").Call().Dot("UTC").Call()
			g.List(jen.Id("ent").Dot("CreatedAt"), jen.Id("ent").Dot("UpdatedAt")).Op("=").List(jen.Id("now"), jen.Id("now"))
		}

		g.If(
			jen.List(jen.Id("_"), jen.Id("xerr")).Op(":=").Id("h").Dot("db").Dot("ExecContext").CallFunc(func(args *jen.Group) {
				args.Id("r").Dot("Context").Call()
				args.Id("insert" + c.TypeName() + "SQL")
				for _, name := range scanFields(c) {
					args.Id("ent").Dot(name)
				}
			}),
			jen.Id("xerr").Op("!=").Nil(),
		).Block(
			jen.Id("writeError").Call(jen.Id("w"), jen.Id("xerr")),
			jen.Return(),
		)
		g.Id("writeJSON").Call(jen.Id("w"), jen.Qual("net/http", "StatusCreated"), jen.Id("ent"))
	})
	return f
}

// genDecodeInput emits the decode-and-validate prologue.
func genDecodeInput(g *jen.Group, c *gen.Collection, partial bool) {
	g.Var().Id("in").Id(c.TypeName() + "Input")
	g.If(
		jen.Id("derr").Op(":=").Qual("encoding/json", "NewDecoder").Call(jen.Id("r").Dot("Body")).Dot("Decode").Call(jen.Op("&").Id("in")),
		jen.Id("derr").Op("!=").Nil(),
	).Block(
		jen.Id("writeJSON").Call(
			jen.Id("w"), jen.Qual("net/http", "StatusBadRequest"),
			jen.Map(jen.String()).String().Values(jen.Dict{jen.Lit("error"): jen.Lit("invalid request body")}),
		),
		jen.Return(),
	)
	g.If(
		jen.Id("verr").Op(":=").Id("Validate"+c.TypeName()+"Input").Call(jen.Op("&").Id("in"), jen.Lit(partial)),
		jen.Id("verr").Op("!=").Nil(),
	).Block(
		jen.Id("writeError").Call(jen.Id("w"), jen.Id("verr")),
		jen.Return(),
	)
}

// genAssignField copies one input field onto the entity. Validation
// already ran, so required fields are present and dates parse.
func genAssignField(g *jen.Group, fd *gen.Field) {
	in := jen.Id("in").Dot(fd.StructField())
	ent := jen.Id("ent").Dot(fd.StructField())
	switch {
	case fd.Kind == field.KindDate && fd.Required():
		g.List(ent.Clone(), jen.Id("_")).Op("=").Qual("time", "Parse").Call(
			jen.Qual("time", "RFC3339"), jen.Op("*").Add(in.Clone()),
		)
	case fd.Kind == field.KindDate:
		g.If(in.Clone().Op("!=").Nil()).Block(
			jen.List(jen.Id("v"), jen.Id("_")).Op(":=").Qual("time", "Parse").Call(
				jen.Qual("time", "RFC3339"), jen.Op("*").Add(in.Clone()),
			),
			ent.Clone().Op("=").Op("&").Id("v"),
		)
	case fd.Kind == field.KindBoolean:
		g.If(in.Clone().Op("!=").Nil()).Block(
			ent.Clone().Op("=").Op("*").Add(in.Clone()),
		)
	case fd.Required():
		g.Add(ent.Clone()).Op("=").Op("*").Add(in.Clone())
	default:
		g.Add(ent.Clone()).Op("=").Add(in.Clone())
	}
}

// genCreatePath resolves the parent path and derives the new row's
// path and depth. Roots hang directly off the path separator.
func genCreatePath(g *jen.Group, c *gen.Collection) {
	g.Id("ent").Dot("ParentID").Op("=").Id("in").Dot("ParentID")
	queryArgs := []jen.Code{
		jen.Id("r").Dot("Context").Call(),
		jen.Id("path" + c.TypeName() + "ByIDSQL"),
		jen.Op("*").Id("in").Dot("ParentID"),
	}
	if c.Config.UseTeams {
		queryArgs = append(queryArgs, jen.Id("teamID"))
	}
	g.If(jen.Id("in").Dot("ParentID").Op("!=").Nil()).Block(
		jen.Var().Id("parentPath").String(),
		jen.Id("perr").Op(":=").Id("h").Dot("db").Dot("QueryRowContext").Call(queryArgs...).Dot("Scan").Call(jen.Op("&").Id("parentPath")),
		jen.If(jen.Qual("errors", "Is").Call(jen.Id("perr"), jen.Qual("database/sql", "ErrNoRows"))).Block(
			jen.Id("writeError").Call(jen.Id("w"), jen.Qual(runtimePkg, "NewNotFoundError").Call(
				jen.Lit(c.Name), jen.Op("*").Id("in").Dot("ParentID"),
			)),
			jen.Return(),
		),
		jen.If(jen.Id("perr").Op("!=").Nil()).Block(
			jen.Id("writeError").Call(jen.Id("w"), jen.Id("perr")),
			jen.Return(),
		),
		jen.Id("ent").Dot("Path").Op("=").Qual(treepathPkg, "Join").Call(jen.Id("parentPath"), jen.Id("ent").Dot("ID")),
	).Else().Block(
		jen.Id("ent").Dot("Path").Op("=").Qual(treepathPkg, "Root").Call(jen.Id("ent").Dot("ID")),
	)
	g.Id("ent").Dot("Depth").Op("=").Int64().Call(jen.Qual(treepathPkg, "Depth").Call(jen.Id("ent").Dot("Path")))
}

// genNextOrder appends the new row after its siblings.
func genNextOrder(g *jen.Group, c *gen.Collection) {
	queryArgs := []jen.Code{
		jen.Id("r").Dot("Context").Call(),
		jen.Id("next" + c.TypeName() + "OrderSQL"),
	}
	if c.Config.UseTeams {
		queryArgs = append(queryArgs, jen.Id("teamID"))
	}
	g.If(
		jen.Id("oerr").Op(":=").Id("h").Dot("db").Dot("QueryRowContext").Call(queryArgs...).Dot("Scan").Call(jen.Op("&").Id("ent").Dot("Order")),
		jen.Id("oerr").Op("!=").Nil(),
	).Block(
		jen.Id("writeError").Call(jen.Id("w"), jen.Id("oerr")),
		jen.Return(),
	)
}
