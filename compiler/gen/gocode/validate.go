package gocode

import (
	"github.com/dave/jennifer/jen"

	"github.com/croutondev/crouton/compiler/gen"
	"github.com/croutondev/crouton/schema/field"
)

// genValidate generates the validate.go file. Required-ness is read
// from the same Field accessors the table emitter uses, so a field can
// never be NOT NULL in the table yet optional here.
func genValidate(c *gen.Collection) *jen.File {
	f := newFile(c)
	name := "Validate" + c.TypeName() + "Input"

	f.Commentf("%s checks a request body before it is written.", name)
	f.Commentf("partial relaxes presence checks for PATCH requests.")
	f.Func().Id(name).Params(
		jen.Id("in").Op("*").Id(c.TypeName()+"Input"),
		jen.Id("partial").Bool(),
	).Error().BlockFunc(func(g *jen.Group) {
		for _, fd := range c.RequiredFields() {
			g.If(jen.Op("!").Id("partial").Op("&&").Id("in").Dot(fd.StructField()).Op("==").Nil()).Block(
				jen.Return(jen.Qual(runtimePkg, "NewMissingFieldError").Call(
					jen.Lit(c.Name), jen.Lit(fd.Camel()),
				)),
			)
			// An empty string in a required text column is as absent as a
			// nil pointer, on PATCH too.
			if fd.Kind == field.KindString || fd.Kind == field.KindText {
				g.If(
					jen.Id("in").Dot(fd.StructField()).Op("!=").Nil().Op("&&").
						Op("*").Id("in").Dot(fd.StructField()).Op("==").Lit(""),
				).Block(
					jen.Return(jen.Qual(runtimePkg, "NewMissingFieldError").Call(
						jen.Lit(c.Name), jen.Lit(fd.Camel()),
					)),
				)
			}
		}
		for _, fd := range c.Fields {
			switch {
			case fd.Kind == field.KindString && fd.Meta.MaxLength > 0:
				g.If(
					jen.Id("in").Dot(fd.StructField()).Op("!=").Nil().Op("&&").
						Len(jen.Op("*").Id("in").Dot(fd.StructField())).Op(">").Lit(fd.Meta.MaxLength),
				).Block(
					jen.Return(jen.Qual("fmt", "Errorf").Call(
						jen.Lit(fd.Camel()+" exceeds %d characters"), jen.Lit(fd.Meta.MaxLength),
					)),
				)
			case fd.Kind == field.KindDate:
				g.If(jen.Id("in").Dot(fd.StructField()).Op("!=").Nil()).Block(
					jen.If(
						jen.List(jen.Id("_"), jen.Id("err")).Op(":=").Qual("time", "Parse").Call(
							jen.Qual("time", "RFC3339"), jen.Op("*").Id("in").Dot(fd.StructField()),
						),
						jen.Id("err").Op("!=").Nil(),
					).Block(
						jen.Return(jen.Qual("fmt", "Errorf").Call(
							jen.Lit(fd.Camel()+" must be an RFC 3339 timestamp: %w"), jen.Id("err"),
						)),
					),
				)
			}
		}
		g.Return(jen.Nil())
	})
	return f
}
