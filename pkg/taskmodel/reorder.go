package taskmodel

import (
	"slices"

	"github.com/mesh-intelligence/boards/pkg/types"
)

// Reorder moves the element identified by sourceID so that it sits
// immediately before or after the element identified by targetID. Other
// elements keep their relative order. The source is removed before the
// target position is computed, so InsertAfter always lands right behind
// the target's final position.
//
// Reorder returns a new slice and true on success. It returns the input
// and false when either ID is missing, the IDs are equal, or mode is
// invalid.
func Reorder[T any](items []T, id func(T) string, sourceID, targetID string, mode types.InsertionMode) ([]T, bool) {
	if sourceID == targetID || !mode.Valid() {
		return items, false
	}
	src := slices.IndexFunc(items, func(it T) bool { return id(it) == sourceID })
	if src < 0 {
		return items, false
	}

	out := slices.Clone(items)
	moved := out[src]
	out = slices.Delete(out, src, src+1)

	dst := slices.IndexFunc(out, func(it T) bool { return id(it) == targetID })
	if dst < 0 {
		return items, false
	}
	if mode == types.InsertAfter {
		dst++
	}
	return slices.Insert(out, dst, moved), true
}
