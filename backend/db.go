package backend

import (
	"github.com/frisitano/binary-merkle-tree/common"
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/opt"
)

// TableSpace divides a key-value database into spaces by adding a prefix
// to every key, allowing multiple content stores to share one database.
type TableSpace byte

const (
	// NodeStoreKey is a tablespace for content-addressed tree nodes and values
	NodeStoreKey TableSpace = 'N'
	// ArchiveStoreKey is a tablespace for an archival copy of historic tree content
	ArchiveStoreKey TableSpace = 'A'
)

// DbKey is a key of the database - a tablespace prefix followed by a digest.
type DbKey [1 + common.HashLength]byte

func (d DbKey) ToBytes() []byte {
	return d[:]
}

// ToDBKey converts the given digest to its database key in this tablespace.
func (t TableSpace) ToDBKey(hash common.Hash) DbKey {
	var dbKey DbKey
	dbKey[0] = byte(t)
	copy(dbKey[1:], hash[:])
	return dbKey
}

// LevelDB is the subset of LevelDB operations used by the stores of this
// module. A content store never iterates its keys, so no iterator access
// is exposed.
type LevelDB interface {

	// Get gets the value for the given key. It returns leveldb.ErrNotFound
	// if the DB does not contain the key.
	Get(key []byte, ro *opt.ReadOptions) (value []byte, err error)

	// Has returns true if the DB does contain the given key.
	Has(key []byte, ro *opt.ReadOptions) (bool, error)

	// Put sets the value for the given key. It overwrites any previous value
	// for that key.
	Put(key, value []byte, wo *opt.WriteOptions) error

	// Delete deletes the value for the given key.
	Delete(key []byte, wo *opt.WriteOptions) error
}

// OpenLevelDb opens the LevelDB connection and provides it wrapped in
// a memory-footprint-reporting object.
func OpenLevelDb(path string, options *opt.Options) (*LevelDbMemoryFootprintWrapper, error) {
	ldb, err := leveldb.OpenFile(path, options)
	if err != nil {
		return nil, err
	}
	return &LevelDbMemoryFootprintWrapper{ldb}, nil
}

// LevelDbMemoryFootprintWrapper is a LevelDB wrapper adding a memory footprint providing method.
type LevelDbMemoryFootprintWrapper struct {
	*leveldb.DB
}

func (wrapper *LevelDbMemoryFootprintWrapper) GetMemoryFootprint() *common.MemoryFootprint {
	var stats leveldb.DBStats
	if err := wrapper.DB.Stats(&stats); err != nil {
		return common.NewMemoryFootprint(0)
	}
	return common.NewMemoryFootprint(uintptr(stats.BlockCacheSize))
}
