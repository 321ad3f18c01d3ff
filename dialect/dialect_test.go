package dialect

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	d, err := Parse("sqlite")
	require.NoError(t, err)
	assert.Equal(t, SQLite, d)

	d, err = Parse("postgres")
	require.NoError(t, err)
	assert.Equal(t, Postgres, d)

	_, err = Parse("mysql")
	require.Error(t, err)

	_, err = Parse("")
	require.Error(t, err)
}

func TestValid(t *testing.T) {
	assert.True(t, SQLite.Valid())
	assert.True(t, Postgres.Valid())
	assert.False(t, Dialect("oracle").Valid())
}
