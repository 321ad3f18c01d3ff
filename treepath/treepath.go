// Package treepath implements materialized-path maintenance for
// hierarchy-enabled collections. A path is the slash-separated chain
// of ancestor ids ending in the node's own id ("/a/b/c"); depth is the
// number of ids on the chain minus one. Storing the chain per row
// answers descendant queries without recursive joins.
//
// Generated move/reorder handlers call into this package; it has no
// dependencies and no state.
package treepath

import (
	"errors"
	"fmt"
	"strings"
)

// Sep separates path segments.
const Sep = "/"

// ErrCycle is returned when a move would place a node under one of its
// own descendants (or under itself).
var ErrCycle = errors.New("treepath: move would create a cycle")

// Join appends an id to a parent path. An empty parent produces a root
// path.
func Join(parent, id string) string {
	return parent + Sep + id
}

// Root returns the path of a root node.
func Root(id string) string {
	return Sep + id
}

// Validate checks that the path is well formed: absolute, no empty
// segments, no trailing separator.
func Validate(path string) error {
	if path == "" || !strings.HasPrefix(path, Sep) {
		return fmt.Errorf("treepath: path %q must start with %q", path, Sep)
	}
	if strings.HasSuffix(path, Sep) {
		return fmt.Errorf("treepath: path %q has a trailing separator", path)
	}
	for _, seg := range strings.Split(path[1:], Sep) {
		if seg == "" {
			return fmt.Errorf("treepath: path %q has an empty segment", path)
		}
	}
	return nil
}

// Depth returns the depth encoded in a path. Roots have depth 0.
func Depth(path string) int {
	return strings.Count(path, Sep) - 1
}

// ID returns the last segment of the path: the node's own id.
func ID(path string) string {
	return path[strings.LastIndex(path, Sep)+1:]
}

// Parent returns the parent path, or "" for a root path.
func Parent(path string) string {
	i := strings.LastIndex(path, Sep)
	if i <= 0 {
		return ""
	}
	return path[:i]
}

// IsDescendant reports whether candidate lies strictly below ancestor.
// A path is not its own descendant.
func IsDescendant(ancestor, candidate string) bool {
	return len(candidate) > len(ancestor) && strings.HasPrefix(candidate, ancestor+Sep)
}

// CheckMove verifies that moving the node at nodePath under newParent
// does not create a cycle. newParent may be "" to move to the root.
func CheckMove(nodePath, newParentPath string) error {
	if newParentPath == "" {
		return nil
	}
	if newParentPath == nodePath || IsDescendant(nodePath, newParentPath) {
		return ErrCycle
	}
	return nil
}

// Rebase recomputes the paths of a moved subtree. oldPath is the
// subtree root's current path, newParentPath the destination parent
// ("" for root); paths holds the current paths of the root and every
// descendant. The returned map gives each input path its new value;
// relative structure (and therefore relative depth) is preserved.
//
// Rebase fails with ErrCycle before producing anything if the
// destination lies inside the subtree.
func Rebase(oldPath, newParentPath string, paths []string) (map[string]string, error) {
	if err := CheckMove(oldPath, newParentPath); err != nil {
		return nil, err
	}
	newRoot := newParentPath + Sep + ID(oldPath)
	out := make(map[string]string, len(paths))
	for _, p := range paths {
		if p != oldPath && !IsDescendant(oldPath, p) {
			return nil, fmt.Errorf("treepath: %q is not part of the subtree at %q", p, oldPath)
		}
		out[p] = newRoot + strings.TrimPrefix(p, oldPath)
	}
	return out, nil
}
