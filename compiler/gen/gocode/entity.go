package gocode

import (
	"github.com/dave/jennifer/jen"

	"github.com/croutondev/crouton/compiler/gen"
)

// genEntity generates the entity file ({singular}.go): the row struct,
// the request-body struct and the scan helper every query shares.
func genEntity(c *gen.Collection) *jen.File {
	f := newFile(c)
	genEntityStruct(f, c)
	genInputStruct(f, c)
	genScanner(f, c)
	return f
}

func genEntityStruct(f *jen.File, c *gen.Collection) {
	f.Commentf("%s is one row of the %s table.", c.TypeName(), c.Table())
	f.Type().Id(c.TypeName()).StructFunc(func(g *jen.Group) {
		g.Id("ID").String().Tag(map[string]string{"json": "id"})
		for _, fd := range c.Fields {
			g.Id(fd.StructField()).Add(goType(fd)).Tag(jsonTag(fd.Camel(), !fd.Required()))
		}
		if c.Hierarchy {
			g.Id("ParentID").Op("*").String().Tag(jsonTag("parentId", true))
			g.Id("Path").String().Tag(map[string]string{"json": "path"})
			g.Id("Depth").Int64().Tag(map[string]string{"json": "depth"})
			g.Id("Order").Int64().Tag(map[string]string{"json": "order"})
		} else if c.OrderField() != nil {
			g.Id("Order").Int64().Tag(map[string]string{"json": "order"})
		}
		if c.Translatable() {
			g.Id("Translations").Qual("encoding/json", "RawMessage").Tag(jsonTag("translations", true))
		}
		if c.Config.UseTeams {
			g.Id("TeamID").String().Tag(map[string]string{"json": "teamId"})
			g.Id("OwnerID").String().Tag(map[string]string{"json": "ownerId"})
		}
		if c.Config.UseMetadata {
			g.Id("CreatedAt").Qual("time", "Time").Tag(map[string]string{"json": "createdAt"})
			g.Id("UpdatedAt").Qual("time", "Time").Tag(map[string]string{"json": "updatedAt"})
		}
	})
}

func genInputStruct(f *jen.File, c *gen.Collection) {
	name := c.TypeName() + "Input"
	f.Commentf("%s is the request body accepted by create and update.", name)
	f.Commentf("Every field is a pointer so PATCH can tell absent from zero.")
	f.Type().Id(name).StructFunc(func(g *jen.Group) {
		for _, fd := range c.Fields {
			g.Id(fd.StructField()).Add(inputType(fd)).Tag(jsonTag(fd.Camel(), true))
		}
		if c.Hierarchy {
			g.Id("ParentID").Op("*").String().Tag(jsonTag("parentId", true))
		}
		if c.Translatable() {
			g.Id("Translations").Op("*").Qual("encoding/json", "RawMessage").Tag(jsonTag("translations", true))
		}
	})
}

// genScanner generates scan{Type}, used by both row and rows scans.
func genScanner(f *jen.File, c *gen.Collection) {
	f.Type().Id("scanner").Interface(
		jen.Id("Scan").Params(jen.Op("...").Any()).Error(),
	)

	f.Commentf("scan%s reads one row in the shared column order.", c.TypeName())
	f.Func().Id("scan" + c.TypeName()).Params(jen.Id("row").Id("scanner")).Params(
		jen.Op("*").Id(c.TypeName()), jen.Error(),
	).BlockFunc(func(g *jen.Group) {
		g.Var().Id(c.Receiver()).Id(c.TypeName())
		g.If(
			jen.Id("err").Op(":=").Id("row").Dot("Scan").CallFunc(func(args *jen.Group) {
				for _, fieldName := range scanFields(c) {
					args.Op("&").Id(c.Receiver()).Dot(fieldName)
				}
			}),
			jen.Id("err").Op("!=").Nil(),
		).Block(jen.Return(jen.Nil(), jen.Id("err")))
		g.Return(jen.Op("&").Id(c.Receiver()), jen.Nil())
	})
}

// scanFields lists struct field names in the shared column order.
func scanFields(c *gen.Collection) []string {
	names := []string{"ID"}
	for _, fd := range c.Fields {
		names = append(names, fd.StructField())
	}
	if c.Hierarchy {
		names = append(names, "ParentID", "Path", "Depth", "Order")
	} else if c.OrderField() != nil {
		names = append(names, "Order")
	}
	if c.Translatable() {
		names = append(names, "Translations")
	}
	if c.Config.UseTeams {
		names = append(names, "TeamID", "OwnerID")
	}
	if c.Config.UseMetadata {
		names = append(names, "CreatedAt", "UpdatedAt")
	}
	return names
}

func jsonTag(name string, omitempty bool) map[string]string {
	if omitempty {
		return map[string]string{"json": name + ",omitempty"}
	}
	return map[string]string{"json": name}
}
