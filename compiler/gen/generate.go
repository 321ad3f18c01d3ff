package gen

import (
	"context"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"
)

// An Emitter turns one collection into artifacts. Emitters are pure:
// they read the graph and return content, never touching the file
// system themselves.
type Emitter interface {
	// Name identifies the emitter in errors.
	Name() string
	// Emit renders the artifacts for one collection.
	Emit(c *Collection) ([]*Artifact, error)
}

// Generator fans the graph out to its emitters and hands the collected
// artifacts to a writer. Emission runs in parallel; the result is
// sorted by path so runs stay deterministic.
type Generator struct {
	graph    *Graph
	emitters []Emitter
}

// NewGenerator creates a generator over the graph.
func NewGenerator(g *Graph, emitters ...Emitter) *Generator {
	return &Generator{graph: g, emitters: emitters}
}

// Emit renders every (collection, emitter) pair in memory.
// Any emitter failure aborts the whole run: no partial output.
func (g *Generator) Emit(ctx context.Context) ([]*Artifact, error) {
	var (
		mu  sync.Mutex
		out []*Artifact
	)
	errg, ctx := errgroup.WithContext(ctx)
	errg.SetLimit(g.graph.Config.Workers)

	for _, c := range g.graph.Collections {
		c := c
		for _, e := range g.emitters {
			e := e
			errg.Go(func() error {
				select {
				case <-ctx.Done():
					return ctx.Err()
				default:
				}
				artifacts, err := e.Emit(c)
				if err != nil {
					return NewEmitError(e.Name(), c.Name, "", err)
				}
				mu.Lock()
				out = append(out, artifacts...)
				mu.Unlock()
				return nil
			})
		}
	}
	if err := errg.Wait(); err != nil {
		return nil, err
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out, nil
}

// Generate emits all artifacts and writes them through the writer.
func (g *Generator) Generate(ctx context.Context, w *Writer) (*Report, error) {
	artifacts, err := g.Emit(ctx)
	if err != nil {
		return nil, err
	}
	return w.WriteAll(ctx, artifacts)
}
