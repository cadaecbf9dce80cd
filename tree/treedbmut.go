package tree

import (
	"fmt"

	"github.com/frisitano/binary-merkle-tree/backend/store"
	"github.com/frisitano/binary-merkle-tree/common"
)

// TreeDBMut is a mutable binary merkle tree. Every insertion rebuilds the
// leaf and its ancestors, stores the rebuilt nodes and advances the working
// root to the new digest. Nodes of previous roots are never modified or
// removed, so earlier roots stay readable through a TreeDB - every root is
// an immutable snapshot.
//
// All read operations of TreeDB are available and observe the working root.
// A TreeDBMut instance must not be used concurrently; independent writers
// starting from the same root may proceed in parallel and produce
// independently valid roots.
type TreeDBMut struct {
	TreeDB
}

// NewTreeDBMut constructs a mutable tree whose working root starts at the
// given root digest. Use EmptyTreeRoot to start from a tree with no values.
func NewTreeDBMut(s store.Store, root common.Hash, depth int, provider common.HashProvider) (*TreeDBMut, error) {
	db, err := NewTreeDB(s, root, depth, provider)
	if err != nil {
		return nil, err
	}
	return &TreeDBMut{TreeDB: *db}, nil
}

// stagedEntry is a piece of content to be stored, together with the digest
// the tree derived for it. The store must derive the same key.
type stagedEntry struct {
	data   []byte
	digest common.Hash
}

// InsertValue stores the given value at the given offset and returns the
// value previously stored there, or nil if the offset was unset. The
// working root advances only after all rebuilt nodes reached the store;
// on failure the previous root remains valid and bound to this tree.
//
// Inserting the empty value resets the leaf to its canonical empty digest,
// which serves as deletion.
func (t *TreeDBMut) InsertValue(offset uint64, value []byte) ([]byte, error) {
	if offset >= t.Capacity() {
		return nil, ErrOffsetOutOfRange
	}

	// Walk down to the leaf, keeping the sibling of every node on the
	// path - the unchanged half of each ancestor to be rebuilt.
	type pathStep struct {
		sibling common.Hash
		isRight bool // the path continues into the right child
	}
	steps := make([]pathStep, t.depth)
	current := t.root
	for layer := 0; layer < t.depth; layer++ {
		node, err := t.getInnerNode(current, layer)
		if err != nil {
			return nil, err
		}
		if t.goesLeft(offset, layer) {
			steps[layer] = pathStep{sibling: node.Right, isRight: false}
			current = node.Left
		} else {
			steps[layer] = pathStep{sibling: node.Left, isRight: true}
			current = node.Right
		}
	}

	// Capture the value being replaced.
	var oldValue []byte
	if current != t.empty[t.depth] {
		leafNode, err := t.getLeafNode(current)
		if err != nil {
			return nil, err
		}
		oldValue, err = t.valueOf(leafNode)
		if err != nil {
			return nil, err
		}
	}

	// Rebuild the leaf and all its ancestors bottom-up.
	staged := make([]stagedEntry, 0, t.depth+2)
	valueDigest := t.provider.HashOf(value)
	staged = append(staged, stagedEntry{data: value, digest: valueDigest})

	encoded := LeafNode{Value: valueDigest}.Encode()
	newDigest := t.provider.HashOf(encoded)
	staged = append(staged, stagedEntry{data: encoded, digest: newDigest})

	for layer := t.depth - 1; layer >= 0; layer-- {
		var node InnerNode
		if steps[layer].isRight {
			node = InnerNode{Left: steps[layer].sibling, Right: newDigest}
		} else {
			node = InnerNode{Left: newDigest, Right: steps[layer].sibling}
		}
		encoded = node.Encode()
		newDigest = t.provider.HashOf(encoded)
		staged = append(staged, stagedEntry{data: encoded, digest: newDigest})
	}

	// Commit all rebuilt nodes, then advance the working root. A failed
	// write leaves the previous root intact and readable.
	for _, entry := range staged {
		key, err := t.store.Put(entry.data)
		if err != nil {
			return nil, fmt.Errorf("failed to store rebuilt node; %w", err)
		}
		if key != entry.digest {
			return nil, fmt.Errorf("%w: %x != %x", ErrDigestMismatch, key, entry.digest)
		}
	}
	t.root = newDigest
	return oldValue, nil
}
