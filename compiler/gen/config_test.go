package gen

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/croutondev/crouton/compiler/load"
	"github.com/croutondev/crouton/dialect"
)

func TestNewConfig(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		c, err := NewConfig(WithDialect(dialect.Postgres))
		require.NoError(t, err)
		assert.Equal(t, "layers", c.Root)
		assert.Equal(t, DefaultHeader, c.Header)
		assert.Positive(t, c.Workers)
	})

	t.Run("requires dialect", func(t *testing.T) {
		_, err := NewConfig()
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrMissingConfig)
	})

	t.Run("rejects bad options", func(t *testing.T) {
		_, err := NewConfig(WithDialect(dialect.SQLite), WithWorkers(0))
		require.Error(t, err)
		assert.True(t, IsConfigError(err))

		_, err = NewConfig(WithDialect(dialect.SQLite), WithRoot(""))
		require.Error(t, err)

		_, err = NewConfig(WithDialect("mysql"))
		require.Error(t, err)
	})
}

func TestFromProject(t *testing.T) {
	pc := &load.ProjectConfig{
		Dialect: dialect.Postgres,
		Flags:   load.Flags{UseTeamUtility: true, UseMetadata: true},
	}
	c, err := NewConfig(FromProject(pc)...)
	require.NoError(t, err)
	assert.Equal(t, dialect.Postgres, c.Dialect)
	assert.True(t, c.UseTeams)
	assert.True(t, c.UseMetadata)
}

func TestFeatures(t *testing.T) {
	c, err := NewConfig(WithDialect(dialect.SQLite), WithFeatures(FeatureSeed))
	require.NoError(t, err)
	assert.True(t, c.FeatureEnabled("seed"))
	assert.False(t, c.FeatureEnabled("ui"))

	f, err := ParseFeature("handlers")
	require.NoError(t, err)
	assert.Equal(t, FeatureHandlers, f)
	_, err = ParseFeature("nope")
	require.Error(t, err)

	defaults := DefaultFeatures()
	names := make([]string, len(defaults))
	for i, f := range defaults {
		names[i] = f.Name
	}
	assert.Equal(t, []string{"ui", "handlers"}, names)
}
