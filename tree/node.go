package tree

import "github.com/frisitano/binary-merkle-tree/common"

// Node encodings carry a one-byte kind tag, so a leaf encoding can never
// collide with an inner-node encoding under the same digest algorithm.
const (
	leafNodeTag  byte = 0
	innerNodeTag byte = 1

	leafNodeSize  = 1 + common.HashLength
	innerNodeSize = 1 + 2*common.HashLength
)

// InnerNode links a node to its two children by their digests.
// Present on every layer above the leaves.
type InnerNode struct {
	Left  common.Hash
	Right common.Hash
}

// Encode provides the canonical byte encoding of the inner node,
// the input of its digest.
func (n InnerNode) Encode() []byte {
	data := make([]byte, innerNodeSize)
	data[0] = innerNodeTag
	copy(data[1:], n.Left[:])
	copy(data[1+common.HashLength:], n.Right[:])
	return data
}

// LeafNode references the value at its offset by the digest of the
// value bytes. Present on the leaf layer only.
type LeafNode struct {
	Value common.Hash
}

// Encode provides the canonical byte encoding of the leaf node,
// the input of its digest.
func (n LeafNode) Encode() []byte {
	data := make([]byte, leafNodeSize)
	data[0] = leafNodeTag
	copy(data[1:], n.Value[:])
	return data
}

func decodeInnerNode(data []byte) (InnerNode, error) {
	if len(data) != innerNodeSize || data[0] != innerNodeTag {
		return InnerNode{}, ErrCorruptedNode
	}
	var node InnerNode
	copy(node.Left[:], data[1:])
	copy(node.Right[:], data[1+common.HashLength:])
	return node, nil
}

func decodeLeafNode(data []byte) (LeafNode, error) {
	if len(data) != leafNodeSize || data[0] != leafNodeTag {
		return LeafNode{}, ErrCorruptedNode
	}
	var node LeafNode
	copy(node.Value[:], data[1:])
	return node, nil
}

// EmptyHashes provides the digests of all-empty subtrees, indexed by layer.
// Entry depth is the digest of a leaf holding the empty value, entry 0 the
// root digest of a tree with no values. Derivable without any store access.
func EmptyHashes(provider common.HashProvider, depth int) []common.Hash {
	hashes := make([]common.Hash, depth+1)
	hashes[depth] = provider.HashOf(LeafNode{Value: provider.HashOf(nil)}.Encode())
	for layer := depth - 1; layer >= 0; layer-- {
		node := InnerNode{Left: hashes[layer+1], Right: hashes[layer+1]}
		hashes[layer] = provider.HashOf(node.Encode())
	}
	return hashes
}

// EmptyTreeRoot provides the root digest of a tree of the given depth with
// no values inserted.
func EmptyTreeRoot(provider common.HashProvider, depth int) common.Hash {
	return EmptyHashes(provider, depth)[0]
}
