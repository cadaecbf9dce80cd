// Package tree implements an index-addressed binary merkle tree over a
// content-addressed backing store.
//
// A tree has a fixed depth chosen at construction, giving it a capacity of
// 2^depth value offsets. Inner nodes commit to the digests of their two
// children, leaves to the digest of their value, and the resulting root
// digest commits to the entire content. Because every node is addressed in
// the store by its own digest, an insertion only rebuilds the leaf-to-root
// path of the touched offset; all other nodes are shared with the previous
// version, and previous roots stay readable indefinitely.
//
// TreeDB answers value, leaf and inclusion-proof queries for one root,
// TreeDBMut additionally inserts values and advances its working root, and
// VerifyProof checks inclusion proofs with no store access at all.
package tree
