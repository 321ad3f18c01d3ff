package gocode

import (
	"go/parser"
	"go/token"
	"strings"
	"testing"

	"github.com/dave/jennifer/jen"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/croutondev/crouton/compiler/gen"
	"github.com/croutondev/crouton/compiler/gen/sqlddl"
	"github.com/croutondev/crouton/compiler/load"
	"github.com/croutondev/crouton/dialect"
	"github.com/croutondev/crouton/schema/field"
)

func testCollection(t *testing.T, lc *load.Collection, opts ...gen.Option) *gen.Collection {
	t.Helper()
	base := []gen.Option{gen.WithDialect(dialect.SQLite), gen.WithRoot(t.TempDir())}
	cfg, err := gen.NewConfig(append(base, opts...)...)
	require.NoError(t, err)
	col, err := gen.NewCollection(cfg, lc)
	require.NoError(t, err)
	return col
}

func tasksCollection(t *testing.T, opts ...gen.Option) *gen.Collection {
	return testCollection(t, &load.Collection{
		CollectionConfig: &load.CollectionConfig{Name: "tasks"},
		Layer:            "todo",
		Fields: load.Fields{
			{Name: "done", Kind: field.KindBoolean},
			{Name: "dueDate", Kind: field.KindDate},
			{Name: "notes", Kind: field.KindText},
			{Name: "title", Kind: field.KindString, Meta: field.Meta{Required: true, MaxLength: 255}},
		},
	}, opts...)
}

func pagesCollection(t *testing.T, opts ...gen.Option) *gen.Collection {
	return testCollection(t, &load.Collection{
		CollectionConfig: &load.CollectionConfig{Name: "pages", Hierarchy: true},
		Layer:            "site",
		Fields: load.Fields{
			{Name: "title", Kind: field.KindString, Meta: field.Meta{Required: true}},
		},
	}, opts...)
}

func render(t *testing.T, f *jen.File) string {
	t.Helper()
	var b strings.Builder
	require.NoError(t, f.Render(&b))
	return b.String()
}

// Every rendered file must be parseable Go.
func requireParses(t *testing.T, src string) {
	t.Helper()
	_, err := parser.ParseFile(token.NewFileSet(), "gen.go", src, parser.AllErrors)
	require.NoError(t, err, src)
}

func TestEmitterFileSet(t *testing.T) {
	e := NewEmitter()
	assert.Equal(t, "gocode", e.Name())

	t.Run("flat collection", func(t *testing.T) {
		arts, err := e.Emit(tasksCollection(t))
		require.NoError(t, err)
		var names []string
		for _, a := range arts {
			assert.Equal(t, gen.CategoryServer, a.Category)
			assert.True(t, strings.HasPrefix(a.Path, "todo/server/api/tasks/"), a.Path)
			requireParses(t, string(a.Content))
			names = append(names, a.Path[strings.LastIndex(a.Path, "/")+1:])
		}
		assert.Equal(t, []string{
			"task.go", "validate.go", "handler.go", "list.go",
			"get.go", "create.go", "update.go", "delete.go",
		}, names)
	})

	t.Run("tree collection adds move and reorder", func(t *testing.T) {
		arts, err := e.Emit(pagesCollection(t))
		require.NoError(t, err)
		var names []string
		for _, a := range arts {
			requireParses(t, string(a.Content))
			names = append(names, a.Path[strings.LastIndex(a.Path, "/")+1:])
		}
		assert.Contains(t, names, "move.go")
		assert.Contains(t, names, "reorder.go")
	})

	t.Run("handlers feature off", func(t *testing.T) {
		arts, err := e.Emit(tasksCollection(t, gen.WithFeatures(gen.FeatureUI)))
		require.NoError(t, err)
		require.Len(t, arts, 2)
		assert.True(t, strings.HasSuffix(arts[0].Path, "task.go"))
		assert.True(t, strings.HasSuffix(arts[1].Path, "validate.go"))
	})
}

// collapse folds whitespace runs so assertions are immune to gofmt's
// struct-field alignment.
func collapse(src string) string {
	return strings.Join(strings.Fields(src), " ")
}

func TestEntity(t *testing.T) {
	src := render(t, genEntity(tasksCollection(t, gen.WithTeams(true), gen.WithMetadata(true))))
	requireParses(t, src)
	flat := collapse(src)

	assert.Contains(t, flat, "type Task struct")
	assert.Contains(t, flat, "Title string `json:\"title\"`")
	assert.Contains(t, flat, "Notes *string `json:\"notes,omitempty\"`")
	assert.Contains(t, flat, "DueDate *time.Time `json:\"dueDate,omitempty\"`")
	assert.Contains(t, flat, "TeamID string `json:\"teamId\"`")
	assert.Contains(t, flat, "CreatedAt time.Time `json:\"createdAt\"`")
	assert.Contains(t, flat, "type TaskInput struct")
	assert.Contains(t, flat, "DueDate *string `json:\"dueDate,omitempty\"`")
	assert.Contains(t, flat, "func scanTask(row scanner) (*Task, error)")
}

func TestValidatorMatchesTableNullability(t *testing.T) {
	col := tasksCollection(t)
	src := render(t, genValidate(col))
	requireParses(t, src)

	table := sqlddl.Build(col)
	for _, f := range col.Fields {
		tc, ok := table.Column(f.Column())
		require.True(t, ok, f.Name)
		if f.Kind == field.KindBoolean {
			continue
		}
		if !tc.Nullable {
			assert.Contains(t, src, `NewMissingFieldError("tasks", "`+f.Camel()+`")`,
				"NOT NULL column %s must be required in the validator", f.Column())
		} else {
			assert.NotContains(t, src, `NewMissingFieldError("tasks", "`+f.Camel()+`")`,
				"nullable column %s must not be required in the validator", f.Column())
		}
	}
	assert.Contains(t, src, "exceeds %d characters")
	assert.Contains(t, src, "RFC 3339")

	// A required string present as "" must be rejected like an absent
	// one, or an empty value lands in a NOT NULL column.
	assert.Contains(t, collapse(src), `if in.Title != nil && *in.Title == "" {`)
	assert.NotContains(t, collapse(src), `if in.Notes != nil && *in.Notes == "" {`,
		"optional text fields accept the empty string")
}

func TestCreateHandler(t *testing.T) {
	t.Run("team scoped", func(t *testing.T) {
		src := render(t, genCreate(tasksCollection(t, gen.WithTeams(true), gen.WithMetadata(true))))
		requireParses(t, src)
		assert.Contains(t, src, "uuid.NewString()")
		assert.Contains(t, src, "h.team(r)")
		assert.Contains(t, src, "time.Parse(time.RFC3339")
		assert.Contains(t, src, "ent.TeamID = teamID")
		assert.Contains(t, src, `r.Header.Get("X-User-Id")`)
		assert.Contains(t, src, "ent.CreatedAt, ent.UpdatedAt = now, now")
	})

	t.Run("unscoped has no team code", func(t *testing.T) {
		src := render(t, genCreate(tasksCollection(t)))
		requireParses(t, src)
		assert.NotContains(t, src, "teamID")
		assert.NotContains(t, src, "team_id")
	})

	t.Run("tree create derives path and depth", func(t *testing.T) {
		src := render(t, genCreate(pagesCollection(t)))
		requireParses(t, src)
		assert.Contains(t, src, "treepath.Join(parentPath, ent.ID)")
		assert.Contains(t, src, "treepath.Root(ent.ID)")
		assert.Contains(t, src, "treepath.Depth(ent.Path)")
		assert.Contains(t, src, `COALESCE(MAX("order"), -1) + 1`)
	})
}

func TestListQueryShape(t *testing.T) {
	t.Run("sqlite placeholders", func(t *testing.T) {
		src := render(t, genList(tasksCollection(t, gen.WithTeams(true))))
		requireParses(t, src)
		assert.Contains(t, src, `WHERE \"team_id\" = ?`)
	})

	t.Run("postgres placeholders", func(t *testing.T) {
		col := tasksCollection(t, gen.WithTeams(true), gen.WithDialect(dialect.Postgres))
		src := render(t, genList(col))
		requireParses(t, src)
		assert.Contains(t, src, `WHERE \"team_id\" = $1`)
	})

	t.Run("tree listing orders by path", func(t *testing.T) {
		src := render(t, genList(pagesCollection(t)))
		assert.Contains(t, src, `ORDER BY \"path\"`)
	})
}

func TestUpdateHandler(t *testing.T) {
	src := render(t, genUpdate(tasksCollection(t, gen.WithTeams(true), gen.WithMetadata(true))))
	requireParses(t, src)
	assert.Contains(t, src, "bind(len(args)+1)")
	assert.Contains(t, src, `"empty update"`)
	assert.Contains(t, src, `\"updated_at\" = `)

	treeSrc := render(t, genUpdate(pagesCollection(t)))
	requireParses(t, treeSrc)
	assert.Contains(t, treeSrc, "use the move endpoint to change the parent")
}

func TestMoveHandler(t *testing.T) {
	src := render(t, genMove(pagesCollection(t, gen.WithTeams(true))))
	requireParses(t, src)
	assert.Contains(t, src, "treepath.CheckMove(nodePath, newParentPath)")
	assert.Contains(t, src, "treepath.Rebase(nodePath, newParentPath, paths)")
	assert.Contains(t, src, "crouton.ErrCycle")
	assert.Contains(t, src, "h.db.BeginTx")
	assert.Contains(t, src, "defer tx.Rollback()")
	// Subtree query must match the node and every descendant.
	assert.Contains(t, src, `\"path\" LIKE `)
}

func TestReorderHandler(t *testing.T) {
	src := render(t, genReorder(pagesCollection(t)))
	requireParses(t, src)
	assert.Contains(t, src, `SET \"order\" = `)
	assert.Contains(t, src, "tx.Commit()")
}

func TestHandlerFile(t *testing.T) {
	src := render(t, genHandler(pagesCollection(t, gen.WithTeams(true))))
	requireParses(t, src)
	assert.Contains(t, src, `mux.HandleFunc("GET /site/pages", h.List)`)
	assert.Contains(t, src, `mux.HandleFunc("POST /site/pages/{id}/move", h.Move)`)
	assert.Contains(t, src, "crouton.TeamService")
	assert.Contains(t, src, "http.StatusForbidden")
	assert.Contains(t, src, "http.StatusConflict")

	pg := render(t, genHandler(tasksCollection(t, gen.WithDialect(dialect.Postgres))))
	requireParses(t, pg)
	assert.Contains(t, pg, `fmt.Sprintf("$%d", n)`)
}

func TestSeedEmitter(t *testing.T) {
	e := NewSeedEmitter()
	assert.Equal(t, "seed", e.Name())

	t.Run("off by default", func(t *testing.T) {
		arts, err := e.Emit(tasksCollection(t))
		require.NoError(t, err)
		assert.Empty(t, arts)
	})

	t.Run("emits fixture function", func(t *testing.T) {
		arts, err := e.Emit(tasksCollection(t, gen.WithFeatures(gen.FeatureSeed)))
		require.NoError(t, err)
		require.Len(t, arts, 1)
		assert.Equal(t, "todo/server/database/seed/tasks.go", arts[0].Path)
		assert.Equal(t, gen.CategorySeed, arts[0].Category)
		src := string(arts[0].Content)
		requireParses(t, src)
		assert.Contains(t, src, "func SeedTasks(ctx context.Context, db *sql.DB) error")
		assert.Contains(t, src, "uuid.NewString()")
	})

	t.Run("skips collections with required references", func(t *testing.T) {
		col := testCollection(t, &load.Collection{
			CollectionConfig: &load.CollectionConfig{Name: "products"},
			Layer:            "shop",
			Fields: load.Fields{
				{Name: "category", Kind: field.KindReference, RefTarget: "categories", Meta: field.Meta{Required: true}},
				{Name: "name", Kind: field.KindString, Meta: field.Meta{Required: true}},
			},
		}, gen.WithFeatures(gen.FeatureSeed))

		// Synthetic rows cannot satisfy the category foreign key.
		arts, err := e.Emit(col)
		require.NoError(t, err)
		assert.Empty(t, arts)
	})

	t.Run("optional references seed as NULL", func(t *testing.T) {
		col := testCollection(t, &load.Collection{
			CollectionConfig: &load.CollectionConfig{Name: "products"},
			Layer:            "shop",
			Fields: load.Fields{
				{Name: "category", Kind: field.KindReference, RefTarget: "categories"},
				{Name: "name", Kind: field.KindString, Meta: field.Meta{Required: true}},
			},
		}, gen.WithFeatures(gen.FeatureSeed))

		arts, err := e.Emit(col)
		require.NoError(t, err)
		require.Len(t, arts, 1)
		src := string(arts[0].Content)
		requireParses(t, src)
		assert.NotContains(t, src, "Sample product category")
	})
}

func TestGeneratedHeader(t *testing.T) {
	src := render(t, genEntity(tasksCollection(t)))
	assert.True(t, strings.HasPrefix(src, "// "+gen.DefaultHeader))
}
