package tree

import (
	"errors"
	"fmt"
	"unsafe"

	"github.com/frisitano/binary-merkle-tree/backend/store"
	"github.com/frisitano/binary-merkle-tree/common"
)

// TreeRecorder observes the digests of nodes resolved from the backing
// store during read operations.
type TreeRecorder interface {

	// Record is called for every node loaded from the backing store.
	Record(node common.Hash)
}

// TreeDB is a read-only view of a binary merkle tree identified by its root
// digest, resolving nodes from a content-addressed backing store.
//
// Nodes are immutable once stored, so a TreeDB may be shared by concurrent
// readers without coordination, provided the backing store supports
// concurrent reads and no recorder is attached.
type TreeDB struct {
	store      store.Store
	provider   common.HashProvider
	root       common.Hash
	depth      int
	empty      []common.Hash // digests of all-empty subtrees per layer
	emptyValue common.Hash
	recorder   TreeRecorder
}

// NewTreeDB constructs a read-only tree view bound to the given root digest,
// depth and backing store. The provider must match the one the store
// content was written with.
func NewTreeDB(s store.Store, root common.Hash, depth int, provider common.HashProvider) (*TreeDB, error) {
	if depth < 0 || depth > MaxDepth {
		return nil, ErrInvalidDepth
	}
	return &TreeDB{
		store:      s,
		provider:   provider,
		root:       root,
		depth:      depth,
		empty:      EmptyHashes(provider, depth),
		emptyValue: provider.HashOf(nil),
	}, nil
}

// SetRecorder attaches a recorder observing all nodes resolved by
// subsequent reads. Pass nil to detach.
func (t *TreeDB) SetRecorder(recorder TreeRecorder) {
	t.recorder = recorder
}

// Root provides the root digest identifying the tree state.
func (t *TreeDB) Root() common.Hash {
	return t.root
}

// Depth provides the distance from the root to the leaf layer.
func (t *TreeDB) Depth() int {
	return t.depth
}

// Capacity provides the number of addressable value offsets.
func (t *TreeDB) Capacity() uint64 {
	return uint64(1) << t.depth
}

// GetValue provides the value stored at the given offset. An offset never
// written yields the canonical empty value. It fails with ErrNotFound if a
// node or value on the path is absent from the backing store.
func (t *TreeDB) GetValue(offset uint64) ([]byte, error) {
	leaf, err := t.leafDigest(offset)
	if err != nil {
		return nil, err
	}
	node, err := t.getLeafNode(leaf)
	if err != nil {
		return nil, err
	}
	return t.valueOf(node)
}

// GetLeaf provides the digest of the leaf node at the given offset.
func (t *TreeDB) GetLeaf(offset uint64) (common.Hash, error) {
	return t.leafDigest(offset)
}

// GetProof provides an inclusion proof for the value at the given offset,
// containing the sibling digest of every node on the leaf-to-root path.
// Unpopulated sibling subtrees contribute their canonical empty digest.
func (t *TreeDB) GetProof(offset uint64) (*Proof, error) {
	if offset >= t.Capacity() {
		return nil, ErrOffsetOutOfRange
	}
	siblings := make([]common.Hash, t.depth)
	current := t.root
	for layer := 0; layer < t.depth; layer++ {
		node, err := t.getInnerNode(current, layer)
		if err != nil {
			return nil, err
		}
		// siblings are ordered leaf layer first
		if t.goesLeft(offset, layer) {
			current = node.Left
			siblings[t.depth-1-layer] = node.Right
		} else {
			current = node.Right
			siblings[t.depth-1-layer] = node.Left
		}
	}
	leafNode, err := t.getLeafNode(current)
	if err != nil {
		return nil, err
	}
	value, err := t.valueOf(leafNode)
	if err != nil {
		return nil, err
	}
	return &Proof{
		Offset:   offset,
		Value:    value,
		Siblings: siblings,
	}, nil
}

// GetMemoryFootprint provides the size of the tree view in memory in bytes
func (t *TreeDB) GetMemoryFootprint() *common.MemoryFootprint {
	mf := common.NewMemoryFootprint(
		unsafe.Sizeof(*t) + uintptr(len(t.empty))*unsafe.Sizeof(common.Hash{}))
	mf.AddChild("store", t.store.GetMemoryFootprint())
	return mf
}

// goesLeft determines whether the path to the given offset descends into
// the left child of the inner node at the given layer.
func (t *TreeDB) goesLeft(offset uint64, layer int) bool {
	return (offset>>(t.depth-1-layer))&1 == 0
}

// leafDigest resolves the digest of the leaf node at the given offset by
// walking the inner nodes from the root down.
func (t *TreeDB) leafDigest(offset uint64) (common.Hash, error) {
	if offset >= t.Capacity() {
		return common.Hash{}, ErrOffsetOutOfRange
	}
	current := t.root
	for layer := 0; layer < t.depth; layer++ {
		node, err := t.getInnerNode(current, layer)
		if err != nil {
			return common.Hash{}, err
		}
		if t.goesLeft(offset, layer) {
			current = node.Left
		} else {
			current = node.Right
		}
	}
	return current, nil
}

// getInnerNode loads the inner node with the given digest. Digests of
// all-empty subtrees resolve without store access, as their nodes are
// never materialized.
func (t *TreeDB) getInnerNode(key common.Hash, layer int) (InnerNode, error) {
	data, err := t.store.Get(key)
	if errors.Is(err, store.ErrNotFound) {
		if key == t.empty[layer] {
			return InnerNode{Left: t.empty[layer+1], Right: t.empty[layer+1]}, nil
		}
		return InnerNode{}, fmt.Errorf("%w: inner node %x at layer %d", ErrNotFound, key, layer)
	}
	if err != nil {
		return InnerNode{}, fmt.Errorf("failed to load inner node %x; %w", key, err)
	}
	t.record(key)
	node, err := decodeInnerNode(data)
	if err != nil {
		return InnerNode{}, fmt.Errorf("%w: inner node %x at layer %d", err, key, layer)
	}
	return node, nil
}

// getLeafNode loads the leaf node with the given digest, synthesizing the
// empty leaf for the canonical empty-leaf digest.
func (t *TreeDB) getLeafNode(key common.Hash) (LeafNode, error) {
	data, err := t.store.Get(key)
	if errors.Is(err, store.ErrNotFound) {
		if key == t.empty[t.depth] {
			return LeafNode{Value: t.emptyValue}, nil
		}
		return LeafNode{}, fmt.Errorf("%w: leaf node %x", ErrNotFound, key)
	}
	if err != nil {
		return LeafNode{}, fmt.Errorf("failed to load leaf node %x; %w", key, err)
	}
	t.record(key)
	node, err := decodeLeafNode(data)
	if err != nil {
		return LeafNode{}, fmt.Errorf("%w: leaf node %x", err, key)
	}
	return node, nil
}

// valueOf loads the value bytes referenced by the given leaf node.
func (t *TreeDB) valueOf(node LeafNode) ([]byte, error) {
	if node.Value == t.emptyValue {
		return []byte{}, nil
	}
	data, err := t.store.Get(node.Value)
	if errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("%w: value %x", ErrNotFound, node.Value)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load value %x; %w", node.Value, err)
	}
	return data, nil
}

func (t *TreeDB) record(node common.Hash) {
	if t.recorder != nil {
		t.recorder.Record(node)
	}
}
