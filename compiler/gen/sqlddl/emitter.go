package sqlddl

import (
	"path"

	"github.com/croutondev/crouton/compiler/gen"
)

// Emitter produces one .sql artifact per collection.
type Emitter struct{}

// NewEmitter returns the table emitter.
func NewEmitter() *Emitter {
	return &Emitter{}
}

// Name implements gen.Emitter.
func (*Emitter) Name() string { return "sqlddl" }

// Emit implements gen.Emitter.
func (e *Emitter) Emit(c *gen.Collection) ([]*gen.Artifact, error) {
	t := Build(c)
	ddl, err := Render(t, c.Config.Dialect)
	if err != nil {
		return nil, gen.NewEmitError(e.Name(), c.Name, "render table", err)
	}
	content := "-- " + c.Config.Header + "\n\n" + ddl
	return []*gen.Artifact{{
		Path:       path.Join(gen.DatabaseDir(c.Layer), c.Table()+".sql"),
		Content:    []byte(content),
		Category:   gen.CategorySchema,
		Layer:      c.Layer,
		Collection: c.Name,
	}}, nil
}
