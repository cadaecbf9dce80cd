package ldb

import (
	"errors"
	"fmt"
	"unsafe"

	"github.com/frisitano/binary-merkle-tree/backend"
	"github.com/frisitano/binary-merkle-tree/backend/store"
	"github.com/frisitano/binary-merkle-tree/common"
	"github.com/syndtr/goleveldb/leveldb"
)

// Store is a LevelDB-backed store.Store implementation. All keys are
// prefixed with a tablespace, so multiple stores can share one database
// instance. Closing the underlying database is the responsibility of its
// opener, not of this store.
type Store struct {
	db       backend.LevelDB
	table    backend.TableSpace
	provider common.HashProvider
}

// NewStore constructs a new instance of the LevelDB store.
func NewStore(db backend.LevelDB, table backend.TableSpace, provider common.HashProvider) *Store {
	return &Store{
		db:       db,
		table:    table,
		provider: provider,
	}
}

func (s *Store) Get(key common.Hash) ([]byte, error) {
	data, err := s.db.Get(s.table.ToDBKey(key).ToBytes(), nil)
	if errors.Is(err, leveldb.ErrNotFound) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read the store; %w", err)
	}
	return data, nil
}

func (s *Store) Put(data []byte) (common.Hash, error) {
	key := s.provider.HashOf(data)
	if err := s.db.Put(s.table.ToDBKey(key).ToBytes(), data, nil); err != nil {
		return common.Hash{}, fmt.Errorf("failed to write the store; %w", err)
	}
	return key, nil
}

func (s *Store) Has(key common.Hash) (bool, error) {
	return s.db.Has(s.table.ToDBKey(key).ToBytes(), nil)
}

func (s *Store) Remove(key common.Hash) error {
	return s.db.Delete(s.table.ToDBKey(key).ToBytes(), nil)
}

// Close the store - the underlying database is left open for its owner.
func (s *Store) Close() error {
	return nil
}

// GetMemoryFootprint provides the size of the store in memory in bytes
func (s *Store) GetMemoryFootprint() *common.MemoryFootprint {
	mf := common.NewMemoryFootprint(unsafe.Sizeof(*s))
	if provider, ok := s.db.(common.MemoryFootprintProvider); ok {
		mf.AddChild("levelDb", provider.GetMemoryFootprint())
	}
	return mf
}
