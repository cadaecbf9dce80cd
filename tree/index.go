package tree

import "math/bits"

// Nodes are addressed by a canonical index combining their layer and their
// horizontal offset within the layer:
//
//	index = 2^layer + offset
//
// with layer 0 being the root layer and offset counting nodes from the
// left starting at 0. The root is always index 1.
//
//	     1 *          <- tree root
//	     /   \
//	  2 *     3 *     <- inner nodes
//	   / \    / \
//	4 o   o  o   o    <- leaves (indices 4..7, offsets 0..3)
//
// The index of a node's parent is index/2, its children are 2*index and
// 2*index+1, and its sibling is index XOR 1.

// MaxDepth is the largest supported tree depth; it keeps every canonical
// index of the tree representable in a uint64.
const MaxDepth = 63

// IndexOf provides the canonical index of the node at the given layer and
// offset. It reports ErrOffsetOutOfRange for offsets not within the layer.
func IndexOf(layer int, offset uint64) (uint64, error) {
	if layer < 0 || layer > MaxDepth {
		return 0, ErrInvalidDepth
	}
	if offset >= uint64(1)<<layer {
		return 0, ErrOffsetOutOfRange
	}
	return uint64(1)<<layer + offset, nil
}

// LayerOffsetOf is the inverse of IndexOf - it decomposes a canonical index
// into the layer and the offset within the layer.
func LayerOffsetOf(index uint64) (layer int, offset uint64, err error) {
	if index == 0 {
		return 0, 0, ErrOffsetOutOfRange
	}
	layer = bits.Len64(index) - 1
	offset = index - uint64(1)<<layer
	return layer, offset, nil
}

// Parent provides the canonical index of the parent node.
// The root (index 1) has no parent.
func Parent(index uint64) uint64 {
	return index / 2
}

// Children provides the canonical indices of the two child nodes.
func Children(index uint64) (left, right uint64) {
	return 2 * index, 2*index + 1
}

// Sibling provides the canonical index of the other child of the parent.
// Valid for any node but the root.
func Sibling(index uint64) uint64 {
	return index ^ 1
}

// IsLeftIndex returns true if the node is the left child of its parent.
func IsLeftIndex(index uint64) bool {
	return index%2 == 0
}

// PathFromLeaf provides the canonical indices of all nodes on the path from
// the leaf at the given offset up to the root, both inclusive. The result
// has exactly depth+1 entries.
func PathFromLeaf(offset uint64, depth int) ([]uint64, error) {
	leaf, err := IndexOf(depth, offset)
	if err != nil {
		return nil, err
	}
	path := make([]uint64, depth+1)
	for i := range path {
		path[i] = leaf
		leaf = Parent(leaf)
	}
	return path, nil
}
