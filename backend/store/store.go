package store

//go:generate mockgen -source store.go -destination store_mocks.go -package store

import (
	"github.com/frisitano/binary-merkle-tree/common"
)

// ErrNotFound is returned by Get when the store does not contain the key.
const ErrNotFound = common.ConstError("key not found in the store")

// Store is a content-addressed byte store. Every entry is keyed by the
// digest of its content, computed with the HashProvider the store was
// constructed with. Entries are immutable - putting the same content twice
// yields the same key and is a no-op for the stored state.
//
// Removal of unreferenced entries is the store owner's concern; the tree
// never calls Remove.
type Store interface {

	// Get returns the content stored under the given key.
	// It returns ErrNotFound if the store does not contain the key.
	Get(key common.Hash) ([]byte, error)

	// Put stores the given content and returns the key it is addressable by.
	Put(data []byte) (common.Hash, error)

	// Has returns true if the store contains the given key.
	Has(key common.Hash) (bool, error)

	// Remove drops the content stored under the given key.
	// Removing a missing key is not an error.
	Remove(key common.Hash) error

	// Close closes the store and releases held resources.
	Close() error

	common.MemoryFootprintProvider
}
