// Package ui emits the view-component artifacts of a collection: a
// form, a list and, for dependent fields, the input/select/mini-card
// trio. Emitted files are html/template partials for the target
// application; the emitter's own templates use [[ ]] delimiters so the
// {{ }} actions they produce pass through untouched.
//
// Per-field rendering is resolved through an explicit Registry keyed
// by (collection, field), populated at construction time. There is no
// name-guessing at render time: a field either has a registered
// renderer or falls back to the kind default.
package ui

import (
	"path"

	"github.com/croutondev/crouton/compiler/gen"
)

// Renderer produces the markup of one form control.
type Renderer interface {
	Render(c *gen.Collection, f *gen.Field) (string, error)
}

// RendererFunc adapts a function to the Renderer interface.
type RendererFunc func(c *gen.Collection, f *gen.Field) (string, error)

// Render implements Renderer.
func (fn RendererFunc) Render(c *gen.Collection, f *gen.Field) (string, error) {
	return fn(c, f)
}

type rendererKey struct {
	collection string
	field      string
}

// Registry maps (collection, field) pairs to control renderers.
type Registry struct {
	overrides map[rendererKey]Renderer
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{overrides: make(map[rendererKey]Renderer)}
}

// Register installs a control renderer for one collection field,
// replacing the kind default.
func (r *Registry) Register(collection, fieldName string, renderer Renderer) {
	r.overrides[rendererKey{collection: collection, field: fieldName}] = renderer
}

func (r *Registry) lookup(collection, fieldName string) (Renderer, bool) {
	renderer, ok := r.overrides[rendererKey{collection: collection, field: fieldName}]
	return renderer, ok
}

// Emitter produces the component artifacts under app/components.
type Emitter struct {
	registry *Registry
}

// NewEmitter returns a component emitter. A nil registry means kind
// defaults everywhere.
func NewEmitter(registry *Registry) *Emitter {
	if registry == nil {
		registry = NewRegistry()
	}
	return &Emitter{registry: registry}
}

// Name implements gen.Emitter.
func (*Emitter) Name() string { return "ui" }

// Emit implements gen.Emitter. Gated by the ui feature.
func (e *Emitter) Emit(c *gen.Collection) ([]*gen.Artifact, error) {
	if !c.Config.FeatureEnabled("ui") {
		return nil, nil
	}
	var arts []*gen.Artifact
	add := func(name, content string) {
		arts = append(arts, &gen.Artifact{
			Path:       path.Join(gen.ComponentsDir(c), name),
			Content:    []byte(content),
			Category:   gen.CategoryApp,
			Layer:      c.Layer,
			Collection: c.Name,
		})
	}

	form, err := e.renderForm(c)
	if err != nil {
		return nil, gen.NewEmitError(e.Name(), c.Name, "render form", err)
	}
	add("form.tmpl", form)

	list, err := e.renderList(c)
	if err != nil {
		return nil, gen.NewEmitError(e.Name(), c.Name, "render list", err)
	}
	add("list.tmpl", list)

	for _, f := range c.DependentFields() {
		trio, err := e.renderDependent(c, f)
		if err != nil {
			return nil, gen.NewEmitError(e.Name(), c.Name, "render dependent "+f.Name, err)
		}
		add(f.Column()+"_input.tmpl", trio.Input)
		add(f.Column()+"_select.tmpl", trio.Select)
		add(f.Column()+"_card_mini.tmpl", trio.CardMini)
	}
	return arts, nil
}
