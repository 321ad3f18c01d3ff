package gen

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"golang.org/x/tools/imports"
	"gopkg.in/yaml.v3"
)

// manifestDir is the per-layer directory holding rollback manifests.
const manifestDir = ".crouton"

// Writer places artifacts into the output tree. Conflicting files are
// skipped with a warning unless Force is set; dry-run reports without
// writing anything.
type Writer struct {
	cfg *Config
}

// NewWriter creates a writer for the config.
func NewWriter(c *Config) *Writer {
	return &Writer{cfg: c}
}

// Report summarizes one write pass.
type Report struct {
	// RunID identifies the generation run in manifests.
	RunID string
	// Written lists the paths written, relative to the root.
	Written []string
	// Skipped lists existing paths left untouched (no --force).
	Skipped []string
	// Artifacts holds everything that was emitted, including skipped
	// entries, for preview rendering.
	Artifacts []*Artifact
	// DryRun reports if the pass only previewed.
	DryRun bool
}

// Manifest records one generation run for a collection. Rollback
// deletes exactly the files listed here.
type Manifest struct {
	RunID       string         `yaml:"runId"`
	Layer       string         `yaml:"layer"`
	Collection  string         `yaml:"collection"`
	GeneratedAt time.Time      `yaml:"generatedAt"`
	Files       []ManifestFile `yaml:"files"`
}

// ManifestFile is one written file with its content hash.
type ManifestFile struct {
	Path   string `yaml:"path"`
	SHA256 string `yaml:"sha256"`
}

// WriteAll writes the artifacts. The pass is two-phase: conflicts are
// resolved up front so a failing write never leaves a half-decided
// run, then files are written in parallel.
func (w *Writer) WriteAll(ctx context.Context, artifacts []*Artifact) (*Report, error) {
	report := &Report{
		RunID:     uuid.NewString(),
		Artifacts: artifacts,
		DryRun:    w.cfg.DryRun,
	}
	var write []*Artifact
	for _, a := range artifacts {
		full := filepath.Join(w.cfg.Root, a.Path)
		if !w.cfg.Force {
			if _, err := os.Stat(full); err == nil {
				report.Skipped = append(report.Skipped, a.Path)
				continue
			}
		}
		write = append(write, a)
	}
	if w.cfg.DryRun {
		for _, a := range write {
			report.Written = append(report.Written, a.Path)
		}
		return report, nil
	}

	// Generated Go files go through goimports before anything touches
	// disk: the manifest hashes must match the written bytes, and a
	// formatting error aborts the run with no files on disk.
	for _, a := range write {
		if !strings.HasSuffix(a.Path, ".go") {
			continue
		}
		formatted, err := imports.Process(filepath.Join(w.cfg.Root, a.Path), a.Content, nil)
		if err != nil {
			return nil, &WriteError{Path: a.Path, Message: "format generated code", Cause: err}
		}
		a.Content = formatted
	}

	var mu sync.Mutex
	errg, ctx := errgroup.WithContext(ctx)
	errg.SetLimit(w.cfg.Workers)
	for _, a := range write {
		a := a
		errg.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
			if err := w.writeArtifact(a); err != nil {
				return err
			}
			mu.Lock()
			report.Written = append(report.Written, a.Path)
			mu.Unlock()
			return nil
		})
	}
	if err := errg.Wait(); err != nil {
		return nil, err
	}
	sort.Strings(report.Written)
	if err := w.writeManifests(report, write); err != nil {
		return nil, err
	}
	return report, nil
}

func (w *Writer) writeArtifact(a *Artifact) error {
	full := filepath.Join(w.cfg.Root, a.Path)
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return &WriteError{Path: a.Path, Message: "create directory", Cause: err}
	}
	if err := os.WriteFile(full, a.Content, 0o644); err != nil {
		return &WriteError{Path: a.Path, Message: "write file", Cause: err}
	}
	return nil
}

// writeManifests groups written artifacts per (layer, collection) and
// records them for rollback.
func (w *Writer) writeManifests(report *Report, written []*Artifact) error {
	type key struct{ layer, collection string }
	groups := make(map[key][]*Artifact)
	for _, a := range written {
		k := key{a.Layer, a.Collection}
		groups[k] = append(groups[k], a)
	}
	for k, arts := range groups {
		m := &Manifest{
			RunID:       report.RunID,
			Layer:       k.layer,
			Collection:  k.collection,
			GeneratedAt: time.Now().UTC(),
		}
		for _, a := range arts {
			sum := sha256.Sum256(a.Content)
			m.Files = append(m.Files, ManifestFile{Path: a.Path, SHA256: hex.EncodeToString(sum[:])})
		}
		sort.Slice(m.Files, func(i, j int) bool { return m.Files[i].Path < m.Files[j].Path })
		data, err := yaml.Marshal(m)
		if err != nil {
			return &WriteError{Path: manifestPath(k.layer, k.collection), Message: "encode manifest", Cause: err}
		}
		full := filepath.Join(w.cfg.Root, manifestPath(k.layer, k.collection))
		if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
			return &WriteError{Path: full, Message: "create manifest directory", Cause: err}
		}
		if err := os.WriteFile(full, data, 0o644); err != nil {
			return &WriteError{Path: full, Message: "write manifest", Cause: err}
		}
	}
	return nil
}

func manifestPath(layer, collection string) string {
	return filepath.Join(layer, manifestDir, collection+".yaml")
}

// ReadManifest loads the rollback manifest for a collection.
func ReadManifest(root, layer, collection string) (*Manifest, error) {
	data, err := os.ReadFile(filepath.Join(root, manifestPath(layer, collection)))
	if err != nil {
		return nil, fmt.Errorf("crouton: no manifest for %s/%s: %w", layer, collection, err)
	}
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("crouton: malformed manifest for %s/%s: %w", layer, collection, err)
	}
	return &m, nil
}

// Rollback removes the files recorded by the last generation run of a
// collection, then the manifest itself. It removes nothing else. The
// returned list holds the paths that were (or would be) deleted.
func Rollback(root, layer, collection string, dryRun bool) ([]string, error) {
	m, err := ReadManifest(root, layer, collection)
	if err != nil {
		return nil, err
	}
	paths := make([]string, 0, len(m.Files))
	for _, f := range m.Files {
		paths = append(paths, f.Path)
	}
	if dryRun {
		return paths, nil
	}
	for _, p := range paths {
		if err := os.Remove(filepath.Join(root, p)); err != nil && !os.IsNotExist(err) {
			return nil, &WriteError{Path: p, Message: "rollback", Cause: err}
		}
	}
	if err := os.Remove(filepath.Join(root, manifestPath(layer, collection))); err != nil && !os.IsNotExist(err) {
		return nil, &WriteError{Path: manifestPath(layer, collection), Message: "rollback manifest", Cause: err}
	}
	// Prune now-empty directories under the layer, best effort.
	pruneEmptyDirs(filepath.Join(root, layer))
	return paths, nil
}

func pruneEmptyDirs(dir string) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return
	}
	for _, e := range entries {
		if e.IsDir() {
			pruneEmptyDirs(filepath.Join(dir, e.Name()))
		}
	}
	if entries, err = os.ReadDir(dir); err == nil && len(entries) == 0 {
		_ = os.Remove(dir)
	}
}
