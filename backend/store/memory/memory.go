package memory

import (
	"sync"
	"unsafe"

	"github.com/frisitano/binary-merkle-tree/backend/store"
	"github.com/frisitano/binary-merkle-tree/common"
	"golang.org/x/exp/maps"
)

// Memory is an in-memory store.Store implementation - it maps content
// digests to the stored content. Concurrent readers are safe; writers are
// serialized against readers by an internal lock.
type Memory struct {
	provider common.HashProvider
	lock     sync.RWMutex
	data     map[common.Hash][]byte
}

// NewMemory constructs a new instance of Memory.
// It needs the digest provider used to derive keys of stored content.
func NewMemory(provider common.HashProvider) *Memory {
	return &Memory{
		provider: provider,
		data:     map[common.Hash][]byte{},
	}
}

func (m *Memory) Get(key common.Hash) ([]byte, error) {
	m.lock.RLock()
	data, exists := m.data[key]
	m.lock.RUnlock()
	if !exists {
		return nil, store.ErrNotFound
	}
	res := make([]byte, len(data))
	copy(res, data)
	return res, nil
}

func (m *Memory) Put(data []byte) (common.Hash, error) {
	key := m.provider.HashOf(data)
	stored := make([]byte, len(data))
	copy(stored, data)
	m.lock.Lock()
	m.data[key] = stored
	m.lock.Unlock()
	return key, nil
}

func (m *Memory) Has(key common.Hash) (bool, error) {
	m.lock.RLock()
	_, exists := m.data[key]
	m.lock.RUnlock()
	return exists, nil
}

func (m *Memory) Remove(key common.Hash) error {
	m.lock.Lock()
	delete(m.data, key)
	m.lock.Unlock()
	return nil
}

// Hashes provides a snapshot of all keys currently present in the store.
// It is used by garbage-collecting owners and by tests checking which
// nodes a mutation has touched.
func (m *Memory) Hashes() []common.Hash {
	m.lock.RLock()
	defer m.lock.RUnlock()
	return maps.Keys(m.data)
}

// Close the store
func (m *Memory) Close() error {
	return nil // no-op for in-memory store
}

// GetMemoryFootprint provides the size of the store in memory in bytes
func (m *Memory) GetMemoryFootprint() *common.MemoryFootprint {
	m.lock.RLock()
	defer m.lock.RUnlock()
	size := unsafe.Sizeof(*m)
	for _, data := range m.data {
		size += unsafe.Sizeof(common.Hash{}) + uintptr(len(data))
	}
	return common.NewMemoryFootprint(size)
}
