package gen

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testArtifacts(layer, collection string) []*Artifact {
	return []*Artifact{
		{
			Path:       filepath.Join(layer, "server", "database", collection+".sql"),
			Content:    []byte("CREATE TABLE t (id TEXT PRIMARY KEY);\n"),
			Category:   CategorySchema,
			Layer:      layer,
			Collection: collection,
		},
		{
			Path:       filepath.Join(layer, "app", "components", collection, "form.tmpl"),
			Content:    []byte("<form></form>\n"),
			Category:   CategoryApp,
			Layer:      layer,
			Collection: collection,
		},
	}
}

func TestWriteAll(t *testing.T) {
	t.Run("writes artifacts and manifest", func(t *testing.T) {
		cfg := testConfig(t)
		w := NewWriter(cfg)
		report, err := w.WriteAll(context.Background(), testArtifacts("todo", "tasks"))
		require.NoError(t, err)
		assert.Len(t, report.Written, 2)
		assert.Empty(t, report.Skipped)
		assert.NotEmpty(t, report.RunID)

		data, err := os.ReadFile(filepath.Join(cfg.Root, "todo", "server", "database", "tasks.sql"))
		require.NoError(t, err)
		assert.Contains(t, string(data), "CREATE TABLE")

		m, err := ReadManifest(cfg.Root, "todo", "tasks")
		require.NoError(t, err)
		assert.Equal(t, report.RunID, m.RunID)
		assert.Len(t, m.Files, 2)
		for _, f := range m.Files {
			assert.Len(t, f.SHA256, 64)
		}
	})

	t.Run("skips existing files without force", func(t *testing.T) {
		cfg := testConfig(t)
		w := NewWriter(cfg)
		_, err := w.WriteAll(context.Background(), testArtifacts("todo", "tasks"))
		require.NoError(t, err)

		report, err := w.WriteAll(context.Background(), testArtifacts("todo", "tasks"))
		require.NoError(t, err)
		assert.Empty(t, report.Written)
		assert.Len(t, report.Skipped, 2)
	})

	t.Run("force overwrites", func(t *testing.T) {
		cfg := testConfig(t, WithForce(true))
		w := NewWriter(cfg)
		_, err := w.WriteAll(context.Background(), testArtifacts("todo", "tasks"))
		require.NoError(t, err)
		report, err := w.WriteAll(context.Background(), testArtifacts("todo", "tasks"))
		require.NoError(t, err)
		assert.Len(t, report.Written, 2)
		assert.Empty(t, report.Skipped)
	})

	t.Run("dry run touches nothing", func(t *testing.T) {
		cfg := testConfig(t, WithDryRun(true))
		w := NewWriter(cfg)
		report, err := w.WriteAll(context.Background(), testArtifacts("todo", "tasks"))
		require.NoError(t, err)
		assert.True(t, report.DryRun)
		assert.Len(t, report.Written, 2)

		_, err = os.Stat(filepath.Join(cfg.Root, "todo"))
		assert.True(t, os.IsNotExist(err))
	})

	t.Run("formats generated go files", func(t *testing.T) {
		cfg := testConfig(t)
		w := NewWriter(cfg)
		arts := []*Artifact{{
			Path:       "todo/server/api/tasks/task.go",
			Content:    []byte("package tasks\n\ntype   Task struct{ID string}\n"),
			Category:   CategoryServer,
			Layer:      "todo",
			Collection: "tasks",
		}}
		_, err := w.WriteAll(context.Background(), arts)
		require.NoError(t, err)
		data, err := os.ReadFile(filepath.Join(cfg.Root, "todo", "server", "api", "tasks", "task.go"))
		require.NoError(t, err)
		assert.Contains(t, string(data), "type Task struct{ ID string }")
	})

	t.Run("manifest hashes match the bytes on disk", func(t *testing.T) {
		cfg := testConfig(t)
		w := NewWriter(cfg)
		arts := []*Artifact{{
			Path:       "todo/server/api/tasks/task.go",
			Content:    []byte("package tasks\n\ntype   Task struct{ID string}\n"),
			Category:   CategoryServer,
			Layer:      "todo",
			Collection: "tasks",
		}}
		_, err := w.WriteAll(context.Background(), arts)
		require.NoError(t, err)

		m, err := ReadManifest(cfg.Root, "todo", "tasks")
		require.NoError(t, err)
		require.Len(t, m.Files, 1)
		data, err := os.ReadFile(filepath.Join(cfg.Root, m.Files[0].Path))
		require.NoError(t, err)
		sum := sha256.Sum256(data)
		assert.Equal(t, hex.EncodeToString(sum[:]), m.Files[0].SHA256)
	})
}

func TestRollback(t *testing.T) {
	cfg := testConfig(t)
	w := NewWriter(cfg)
	_, err := w.WriteAll(context.Background(), testArtifacts("todo", "tasks"))
	require.NoError(t, err)

	// An unrelated file in the layer must survive the rollback.
	unrelated := filepath.Join(cfg.Root, "todo", "notes.md")
	require.NoError(t, os.WriteFile(unrelated, []byte("keep"), 0o644))

	t.Run("dry run lists without deleting", func(t *testing.T) {
		paths, err := Rollback(cfg.Root, "todo", "tasks", true)
		require.NoError(t, err)
		assert.Len(t, paths, 2)
		_, err = os.Stat(filepath.Join(cfg.Root, "todo", "server", "database", "tasks.sql"))
		assert.NoError(t, err)
	})

	t.Run("deletes manifest files only", func(t *testing.T) {
		paths, err := Rollback(cfg.Root, "todo", "tasks", false)
		require.NoError(t, err)
		assert.Len(t, paths, 2)

		_, err = os.Stat(filepath.Join(cfg.Root, "todo", "server", "database", "tasks.sql"))
		assert.True(t, os.IsNotExist(err))
		_, err = os.Stat(unrelated)
		assert.NoError(t, err)

		// Manifest gone: a second rollback has nothing to do.
		_, err = Rollback(cfg.Root, "todo", "tasks", false)
		require.Error(t, err)
	})
}

func TestGeneratorEmitDeterministicOrder(t *testing.T) {
	cfg := testConfig(t)
	g, err := NewGraph(cfg, nil)
	require.NoError(t, err)
	gen := NewGenerator(g, stubEmitter{})
	arts, err := gen.Emit(context.Background())
	require.NoError(t, err)
	assert.Empty(t, arts)
}

type stubEmitter struct{}

func (stubEmitter) Name() string { return "stub" }

func (stubEmitter) Emit(c *Collection) ([]*Artifact, error) {
	return []*Artifact{{Path: c.Table() + ".txt", Layer: c.Layer, Collection: c.Name}}, nil
}
