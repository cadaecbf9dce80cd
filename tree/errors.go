package tree

import "github.com/frisitano/binary-merkle-tree/common"

const (
	// ErrOffsetOutOfRange is returned when an offset exceeds the capacity
	// given by the tree depth. The operation performs no store access.
	ErrOffsetOutOfRange = common.ConstError("offset out of range")

	// ErrNotFound is returned when a node or value expected under the
	// current root is absent from the backing store - the root is
	// inconsistent with the store, or the store lost content.
	ErrNotFound = common.ConstError("node not found in the backing store")

	// ErrMalformedProof is returned by the proof verifier when the number
	// of sibling digests does not match the tree depth.
	ErrMalformedProof = common.ConstError("proof length does not match the tree depth")

	// ErrCorruptedNode is returned when data loaded from the backing store
	// cannot be decoded as the expected node kind.
	ErrCorruptedNode = common.ConstError("node data cannot be decoded")

	// ErrInvalidDepth is returned when a tree is created with a depth
	// outside the supported range.
	ErrInvalidDepth = common.ConstError("tree depth out of supported range")

	// ErrDigestMismatch is returned when the backing store derives a key
	// for stored content different from the digest computed by the tree,
	// i.e. tree and store disagree on the digest algorithm.
	ErrDigestMismatch = common.ConstError("store derived an unexpected content digest")
)
