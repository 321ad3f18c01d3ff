package treepath

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJoinRootDepth(t *testing.T) {
	root := Root("a")
	assert.Equal(t, "/a", root)
	assert.Equal(t, 0, Depth(root))

	child := Join(root, "b")
	assert.Equal(t, "/a/b", child)
	assert.Equal(t, 1, Depth(child))
	assert.Equal(t, "b", ID(child))
	assert.Equal(t, "/a", Parent(child))
	assert.Equal(t, "", Parent(root))
}

func TestValidate(t *testing.T) {
	for _, ok := range []string{"/a", "/a/b", "/a/b/c"} {
		assert.NoError(t, Validate(ok), ok)
	}
	for _, bad := range []string{"", "a", "/", "/a/", "/a//b", "//a"} {
		assert.Error(t, Validate(bad), bad)
	}
}

func TestIsDescendant(t *testing.T) {
	assert.True(t, IsDescendant("/a", "/a/b"))
	assert.True(t, IsDescendant("/a", "/a/b/c"))
	assert.False(t, IsDescendant("/a", "/a"))
	assert.False(t, IsDescendant("/a/b", "/a"))
	// Prefix of a sibling id is not an ancestor.
	assert.False(t, IsDescendant("/a", "/ab"))
	assert.False(t, IsDescendant("/a", "/ab/c"))
}

func TestCheckMove(t *testing.T) {
	t.Run("to root", func(t *testing.T) {
		assert.NoError(t, CheckMove("/a/b", ""))
	})
	t.Run("to sibling", func(t *testing.T) {
		assert.NoError(t, CheckMove("/a/b", "/a/c"))
	})
	t.Run("to itself", func(t *testing.T) {
		assert.ErrorIs(t, CheckMove("/a/b", "/a/b"), ErrCycle)
	})
	t.Run("to own descendant", func(t *testing.T) {
		assert.ErrorIs(t, CheckMove("/a", "/a/b/c"), ErrCycle)
	})
}

func TestRebase(t *testing.T) {
	subtree := []string{"/a/b", "/a/b/c", "/a/b/c/d", "/a/b/e"}

	t.Run("under new parent", func(t *testing.T) {
		got, err := Rebase("/a/b", "/x/y", subtree)
		require.NoError(t, err)
		assert.Equal(t, map[string]string{
			"/a/b":     "/x/y/b",
			"/a/b/c":   "/x/y/b/c",
			"/a/b/c/d": "/x/y/b/c/d",
			"/a/b/e":   "/x/y/b/e",
		}, got)
	})

	t.Run("to root", func(t *testing.T) {
		got, err := Rebase("/a/b", "", subtree)
		require.NoError(t, err)
		assert.Equal(t, "/b", got["/a/b"])
		assert.Equal(t, "/b/c/d", got["/a/b/c/d"])
	})

	t.Run("relative depth preserved", func(t *testing.T) {
		got, err := Rebase("/a/b", "/x/y", subtree)
		require.NoError(t, err)
		for old, new_ := range got {
			assert.Equal(t, Depth(old)-Depth("/a/b"), Depth(new_)-Depth(got["/a/b"]), old)
		}
	})

	t.Run("cycle rejected before any mutation", func(t *testing.T) {
		_, err := Rebase("/a/b", "/a/b/c", subtree)
		assert.ErrorIs(t, err, ErrCycle)
	})

	t.Run("foreign path rejected", func(t *testing.T) {
		_, err := Rebase("/a/b", "/x", []string{"/a/b", "/a/z"})
		require.Error(t, err)
	})
}
