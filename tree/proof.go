package tree

import "github.com/frisitano/binary-merkle-tree/common"

// Proof is an inclusion proof for a single value. It carries the digest of
// the sibling of every node on the leaf-to-root path, ordered from the leaf
// layer upwards, so a verifier can recompute the root from the value alone.
type Proof struct {

	// Offset is the claimed position of the value in the leaf layer.
	Offset uint64

	// Value is the claimed value bytes.
	Value []byte

	// Siblings holds one digest per layer, from the leaf layer up to (but
	// not including) the root. Its length always equals the tree depth.
	Siblings []common.Hash
}

// VerifyProof checks an inclusion proof against the given root digest
// without any store access, by recomputing the root from the proof's value
// and sibling digests. It uses the same node encodings as the tree, so it
// accepts exactly the proofs produced by GetProof for that root.
//
// A proof whose length does not match the depth is rejected with
// ErrMalformedProof; an offset beyond the capacity with ErrOffsetOutOfRange.
func VerifyProof(provider common.HashProvider, root common.Hash, depth int, proof *Proof) (bool, error) {
	if depth < 0 || depth > MaxDepth {
		return false, ErrInvalidDepth
	}
	if proof == nil || len(proof.Siblings) != depth {
		return false, ErrMalformedProof
	}
	if proof.Offset >= uint64(1)<<depth {
		return false, ErrOffsetOutOfRange
	}

	current := provider.HashOf(LeafNode{Value: provider.HashOf(proof.Value)}.Encode())
	for i, sibling := range proof.Siblings {
		var node InnerNode
		if (proof.Offset>>i)&1 == 0 {
			node = InnerNode{Left: current, Right: sibling}
		} else {
			node = InnerNode{Left: sibling, Right: current}
		}
		current = provider.HashOf(node.Encode())
	}
	return current == root, nil
}
