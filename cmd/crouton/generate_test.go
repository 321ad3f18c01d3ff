package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/croutondev/crouton/compiler/load"
)

func testCollections() []*load.Collection {
	return []*load.Collection{
		{CollectionConfig: &load.CollectionConfig{Name: "tasks"}, Layer: "todo"},
		{CollectionConfig: &load.CollectionConfig{Name: "notes"}, Layer: "todo"},
		{CollectionConfig: &load.CollectionConfig{Name: "products"}, Layer: "shop"},
	}
}

func TestFilterCollections(t *testing.T) {
	cols := testCollections()

	assert.Len(t, filterCollections(cols, nil), 3)

	byLayer := filterCollections(cols, []string{"todo"})
	require.Len(t, byLayer, 2)
	assert.Equal(t, "tasks", byLayer[0].Name)
	assert.Equal(t, "notes", byLayer[1].Name)

	one := filterCollections(cols, []string{"shop", "products"})
	require.Len(t, one, 1)
	assert.Equal(t, "products", one[0].Name)

	assert.Empty(t, filterCollections(cols, []string{"shop", "tasks"}))
	assert.Empty(t, filterCollections(cols, []string{"crm"}))
}

func TestCollectionFlags(t *testing.T) {
	plain := &load.Collection{CollectionConfig: &load.CollectionConfig{Name: "tasks"}}
	assert.Equal(t, "-", collectionFlags(plain))

	tree := &load.Collection{CollectionConfig: &load.CollectionConfig{
		Name:              "pages",
		Hierarchy:         true,
		TranslationFields: []string{"title", "body"},
	}}
	assert.Equal(t, "hierarchy translations(title,body)", collectionFlags(tree))

	sortable := &load.Collection{CollectionConfig: &load.CollectionConfig{Name: "items", Sortable: true}}
	assert.Equal(t, "sortable", collectionFlags(sortable))
}

func TestCommonOptionsRejectsUnknownFeature(t *testing.T) {
	opts := &generateOptions{
		rootOptions: &rootOptions{},
		features:    []string{"sead"},
	}

	_, err := opts.commonOptions()
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown feature "sead"`)

	opts.features = []string{"seed"}
	got, err := opts.commonOptions()
	require.NoError(t, err)
	assert.Len(t, got, 4)
}

func TestResolveRunAdHocNeedsDialect(t *testing.T) {
	opts := &generateOptions{
		rootOptions: &rootOptions{},
		fieldsFile:  "schemas/tasks.json",
	}

	_, _, err := resolveRun(opts, []string{"todo"})
	require.Error(t, err)

	_, _, err = resolveRun(opts, []string{"todo", "tasks"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--dialect")
}
