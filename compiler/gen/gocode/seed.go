package gocode

import (
	"bytes"
	"fmt"
	"path"
	"strings"

	"github.com/dave/jennifer/jen"

	"github.com/croutondev/crouton/compiler/gen"
	"github.com/croutondev/crouton/schema/field"
)

// seedRows is how many sample rows each seed function inserts.
const seedRows = 3

// SeedEmitter produces dev-fixture seed functions, one file per
// collection under server/database/seed. Gated by the seed feature.
type SeedEmitter struct{}

// NewSeedEmitter returns the seed emitter.
func NewSeedEmitter() *SeedEmitter {
	return &SeedEmitter{}
}

// Name implements gen.Emitter.
func (*SeedEmitter) Name() string { return "seed" }

// Emit implements gen.Emitter.
func (e *SeedEmitter) Emit(c *gen.Collection) ([]*gen.Artifact, error) {
	if !c.Config.FeatureEnabled("seed") {
		return nil, nil
	}
	// A required reference column cannot be filled with synthetic data
	// without violating its foreign key, so such collections get no
	// seed fixture.
	for _, fd := range c.Fields {
		if fd.Kind == field.KindReference && fd.Required() {
			return nil, nil
		}
	}
	f := jen.NewFile("seed")
	f.HeaderComment(c.Config.Header)

	d := c.Config.Dialect
	cols := columnNames(c)
	insert := `INSERT INTO "` + c.Table() + `" (` + strings.Join(quoteColumns(cols), ", ") +
		`) VALUES (` + strings.Join(placeholders(d, 1, len(cols)), ", ") + `)`
	f.Const().Id("insert" + c.TypeName() + "SQL").Op("=").Lit(insert)

	name := "Seed" + c.PluralPascal()
	f.Commentf("%s inserts %d sample %s rows for development.", name, seedRows, c.Singular())
	f.Func().Id(name).Params(
		jen.Id("ctx").Qual("context", "Context"),
		jen.Id("db").Op("*").Qual("database/sql", "DB"),
	).Error().BlockFunc(func(g *jen.Group) {
		if c.Config.UseMetadata {
			g.Id("now").Op(":=").Qual("time", "Now").Call().Dot("UTC").Call()
		}
		g.For(jen.Id("i").Op(":=").Lit(0), jen.Id("i").Op("<").Lit(seedRows), jen.Id("i").Op("++")).Block(
			jen.Id("id").Op(":=").Qual(uuidPkg, "NewString").Call(),
			jen.If(
				jen.List(jen.Id("_"), jen.Id("err")).Op(":=").Id("db").Dot("ExecContext").CallFunc(func(args *jen.Group) {
					args.Id("ctx")
					args.Id("insert" + c.TypeName() + "SQL")
					args.Id("id")
					for _, fd := range c.Fields {
						args.Add(seedValue(c, fd))
					}
					if c.Hierarchy {
						args.Nil()
						args.Qual(treepathPkg, "Root").Call(jen.Id("id"))
						args.Lit(0)
						args.Int64().Call(jen.Id("i"))
					} else if c.OrderField() != nil {
						args.Int64().Call(jen.Id("i"))
					}
					if c.Translatable() {
						args.Nil()
					}
					if c.Config.UseTeams {
						args.Lit("seed-team")
						args.Lit("seed-user")
					}
					if c.Config.UseMetadata {
						args.Id("now")
						args.Id("now")
					}
				}),
				jen.Id("err").Op("!=").Nil(),
			).Block(
				jen.Return(jen.Id("err")),
			),
		)
		g.Return(jen.Nil())
	})

	var buf bytes.Buffer
	if err := f.Render(&buf); err != nil {
		return nil, gen.NewEmitError(e.Name(), c.Name, "render seed", err)
	}
	return []*gen.Artifact{{
		Path:       path.Join(gen.SeedDir(c.Layer), c.Table()+".go"),
		Content:    buf.Bytes(),
		Category:   gen.CategorySeed,
		Layer:      c.Layer,
		Collection: c.Name,
	}}, nil
}

// seedValue returns a deterministic sample literal for one field.
func seedValue(c *gen.Collection, fd *gen.Field) jen.Code {
	if !fd.Required() && fd.Kind != field.KindBoolean {
		return jen.Nil()
	}
	switch fd.Kind {
	case field.KindString, field.KindText:
		return jen.Qual("fmt", "Sprintf").Call(
			jen.Lit(fmt.Sprintf("Sample %s %s %%d", c.Singular(), fd.Camel())), jen.Id("i").Op("+").Lit(1),
		)
	case field.KindNumber:
		return jen.Int64().Call(jen.Id("i").Op("+").Lit(1))
	case field.KindDecimal:
		return jen.Float64().Call(jen.Id("i").Op("+").Lit(1))
	case field.KindBoolean:
		return jen.Id("i").Op("%").Lit(2).Op("==").Lit(0)
	case field.KindDate:
		return jen.Qual("time", "Now").Call().Dot("UTC").Call()
	case field.KindArray, field.KindRepeater:
		return jen.Lit("[]")
	case field.KindJSON:
		return jen.Lit("{}")
	default:
		return jen.Nil()
	}
}
