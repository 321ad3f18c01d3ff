package gocode

import (
	"github.com/dave/jennifer/jen"

	"github.com/croutondev/crouton/compiler/gen"
	"github.com/croutondev/crouton/dialect"
)

func basePath(c *gen.Collection) string {
	return "/" + c.Layer + "/" + c.Table()
}

// genHandler generates handler.go: the Handler struct, route mounting
// and the request helpers every verb shares.
func genHandler(c *gen.Collection) *jen.File {
	f := newFile(c)

	f.Commentf("Handler serves the %s REST endpoints.", c.Table())
	f.Type().Id("Handler").StructFunc(func(g *jen.Group) {
		g.Id("db").Op("*").Qual("database/sql", "DB")
		if c.Config.UseTeams {
			g.Id("teams").Qual(runtimePkg, "TeamService")
		}
	})

	f.Comment("NewHandler returns a handler backed by db.")
	if c.Config.UseTeams {
		f.Func().Id("NewHandler").Params(
			jen.Id("db").Op("*").Qual("database/sql", "DB"),
			jen.Id("teams").Qual(runtimePkg, "TeamService"),
		).Op("*").Id("Handler").Block(
			jen.Return(jen.Op("&").Id("Handler").Values(jen.Dict{
				jen.Id("db"):    jen.Id("db"),
				jen.Id("teams"): jen.Id("teams"),
			})),
		)
	} else {
		f.Func().Id("NewHandler").Params(
			jen.Id("db").Op("*").Qual("database/sql", "DB"),
		).Op("*").Id("Handler").Block(
			jen.Return(jen.Op("&").Id("Handler").Values(jen.Dict{
				jen.Id("db"): jen.Id("db"),
			})),
		)
	}

	genMount(f, c)
	if c.Config.UseTeams {
		genTeamHelper(f, c)
	}
	genBind(f, c)
	genWriteHelpers(f)
	return f
}

// genBind generates the bind-marker helper used by queries assembled
// at runtime, such as PATCH set lists.
func genBind(f *jen.File, c *gen.Collection) {
	f.Comment("bind returns the bind marker for argument position n.")
	if c.Config.Dialect == dialect.Postgres {
		f.Func().Id("bind").Params(jen.Id("n").Int()).String().Block(
			jen.Return(jen.Qual("fmt", "Sprintf").Call(jen.Lit("$%d"), jen.Id("n"))),
		)
	} else {
		f.Func().Id("bind").Params(jen.Id("n").Int()).String().Block(
			jen.Return(jen.Lit("?")),
		)
	}
}

func genMount(f *jen.File, c *gen.Collection) {
	base := basePath(c)
	f.Commentf("Mount registers the %s routes on mux.", c.Table())
	f.Func().Params(jen.Id("h").Op("*").Id("Handler")).Id("Mount").Params(
		jen.Id("mux").Op("*").Qual("net/http", "ServeMux"),
	).BlockFunc(func(g *jen.Group) {
		g.Id("mux").Dot("HandleFunc").Call(jen.Lit("GET "+base), jen.Id("h").Dot("List"))
		g.Id("mux").Dot("HandleFunc").Call(jen.Lit("GET "+base+"/{id}"), jen.Id("h").Dot("Get"))
		g.Id("mux").Dot("HandleFunc").Call(jen.Lit("POST "+base), jen.Id("h").Dot("Create"))
		g.Id("mux").Dot("HandleFunc").Call(jen.Lit("PATCH "+base+"/{id}"), jen.Id("h").Dot("Update"))
		g.Id("mux").Dot("HandleFunc").Call(jen.Lit("DELETE "+base+"/{id}"), jen.Id("h").Dot("Delete"))
		if c.Hierarchy {
			g.Id("mux").Dot("HandleFunc").Call(jen.Lit("POST "+base+"/{id}/move"), jen.Id("h").Dot("Move"))
		}
		if c.Hierarchy || c.OrderField() != nil {
			g.Id("mux").Dot("HandleFunc").Call(jen.Lit("POST "+base+"/reorder"), jen.Id("h").Dot("Reorder"))
		}
	})
}

// genTeamHelper generates the tenant gate: resolve the team slug from
// the query string, then verify the caller's membership. Every verb
// calls it before touching rows.
func genTeamHelper(f *jen.File, c *gen.Collection) {
	f.Func().Params(jen.Id("h").Op("*").Id("Handler")).Id("team").Params(
		jen.Id("r").Op("*").Qual("net/http", "Request"),
	).Params(jen.String(), jen.Error()).Block(
		jen.Id("slug").Op(":=").Id("r").Dot("URL").Dot("Query").Call().Dot("Get").Call(jen.Lit("team")),
		jen.If(jen.Id("slug").Op("==").Lit("")).Block(
			jen.Return(jen.Lit(""), jen.Qual(runtimePkg, "NewTeamNotFoundError").Call(jen.Lit(""))),
		),
		jen.List(jen.Id("teamID"), jen.Id("err")).Op(":=").Id("h").Dot("teams").Dot("ResolveTeam").Call(
			jen.Id("r").Dot("Context").Call(), jen.Id("slug"),
		),
		jen.If(jen.Id("err").Op("!=").Nil()).Block(
			jen.Return(jen.Lit(""), jen.Id("err")),
		),
		jen.Id("userID").Op(":=").Id("r").Dot("Header").Dot("Get").Call(jen.Lit("X-User-Id")),
		jen.List(jen.Id("ok"), jen.Id("err")).Op(":=").Id("h").Dot("teams").Dot("IsMember").Call(
			jen.Id("r").Dot("Context").Call(), jen.Id("teamID"), jen.Id("userID"),
		),
		jen.If(jen.Id("err").Op("!=").Nil()).Block(
			jen.Return(jen.Lit(""), jen.Id("err")),
		),
		jen.If(jen.Op("!").Id("ok")).Block(
			jen.Return(jen.Lit(""), jen.Qual(runtimePkg, "NewNotMemberError").Call(jen.Id("teamID"), jen.Id("userID"))),
		),
		jen.Return(jen.Id("teamID"), jen.Nil()),
	)
}

func genWriteHelpers(f *jen.File) {
	f.Comment("writeError maps runtime errors onto HTTP statuses.")
	f.Func().Id("writeError").Params(
		jen.Id("w").Qual("net/http", "ResponseWriter"),
		jen.Id("err").Error(),
	).Block(
		jen.Id("status").Op(":=").Qual("net/http", "StatusInternalServerError"),
		jen.Switch().Block(
			jen.Case(
				jen.Qual(runtimePkg, "IsTeamNotFound").Call(jen.Id("err")),
				jen.Qual(runtimePkg, "IsNotFound").Call(jen.Id("err")),
			).Block(jen.Id("status").Op("=").Qual("net/http", "StatusNotFound")),
			jen.Case(jen.Qual(runtimePkg, "IsNotMember").Call(jen.Id("err"))).Block(
				jen.Id("status").Op("=").Qual("net/http", "StatusForbidden"),
			),
			jen.Case(jen.Qual(runtimePkg, "IsMissingField").Call(jen.Id("err"))).Block(
				jen.Id("status").Op("=").Qual("net/http", "StatusUnprocessableEntity"),
			),
			jen.Case(jen.Qual("errors", "Is").Call(jen.Id("err"), jen.Qual(runtimePkg, "ErrCycle"))).Block(
				jen.Id("status").Op("=").Qual("net/http", "StatusConflict"),
			),
		),
		jen.Id("writeJSON").Call(
			jen.Id("w"), jen.Id("status"),
			jen.Map(jen.String()).String().Values(jen.Dict{
				jen.Lit("error"): jen.Id("err").Dot("Error").Call(),
			}),
		),
	)

	f.Func().Id("writeJSON").Params(
		jen.Id("w").Qual("net/http", "ResponseWriter"),
		jen.Id("status").Int(),
		jen.Id("v").Any(),
	).Block(
		jen.Id("w").Dot("Header").Call().Dot("Set").Call(jen.Lit("Content-Type"), jen.Lit("application/json")),
		jen.Id("w").Dot("WriteHeader").Call(jen.Id("status")),
		jen.Id("_").Op("=").Qual("encoding/json", "NewEncoder").Call(jen.Id("w")).Dot("Encode").Call(jen.Id("v")),
	)
}
