// Package gocode emits the Go artifacts of a collection: the entity
// struct, the input validator and the REST handlers. Everything is
// built as a Jennifer AST and rendered per file, so emitted code is
// always well formed and import blocks are computed, not guessed.
package gocode

import (
	"bytes"
	"path"

	"github.com/dave/jennifer/jen"

	"github.com/croutondev/crouton/compiler/gen"
)

// Emitter produces the per-collection Go files under server/api.
type Emitter struct{}

// NewEmitter returns the Go code emitter.
func NewEmitter() *Emitter {
	return &Emitter{}
}

// Name implements gen.Emitter.
func (*Emitter) Name() string { return "gocode" }

// Emit implements gen.Emitter. The entity and validator are always
// emitted; handler files follow the handlers feature flag.
func (e *Emitter) Emit(c *gen.Collection) ([]*gen.Artifact, error) {
	type genFile struct {
		name string
		file *jen.File
	}
	files := []genFile{
		{c.Singular() + ".go", genEntity(c)},
		{"validate.go", genValidate(c)},
	}
	if c.Config.FeatureEnabled("handlers") {
		files = append(files,
			genFile{"handler.go", genHandler(c)},
			genFile{"list.go", genList(c)},
			genFile{"get.go", genGet(c)},
			genFile{"create.go", genCreate(c)},
			genFile{"update.go", genUpdate(c)},
			genFile{"delete.go", genDelete(c)},
		)
		if c.Hierarchy {
			files = append(files, genFile{"move.go", genMove(c)})
		}
		if c.Hierarchy || c.OrderField() != nil {
			files = append(files, genFile{"reorder.go", genReorder(c)})
		}
	}

	arts := make([]*gen.Artifact, 0, len(files))
	for _, gf := range files {
		var buf bytes.Buffer
		if err := gf.file.Render(&buf); err != nil {
			return nil, gen.NewEmitError(e.Name(), c.Name, "render "+gf.name, err)
		}
		arts = append(arts, &gen.Artifact{
			Path:       path.Join(gen.APIDir(c), gf.name),
			Content:    buf.Bytes(),
			Category:   gen.CategoryServer,
			Layer:      c.Layer,
			Collection: c.Name,
		})
	}
	return arts, nil
}
