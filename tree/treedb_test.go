package tree_test

import (
	"bytes"
	"errors"
	"testing"

	"github.com/frisitano/binary-merkle-tree/backend"
	"github.com/frisitano/binary-merkle-tree/backend/store"
	"github.com/frisitano/binary-merkle-tree/backend/store/ldb"
	"github.com/frisitano/binary-merkle-tree/backend/store/memory"
	"github.com/frisitano/binary-merkle-tree/common"
	"github.com/frisitano/binary-merkle-tree/tree"
	"github.com/golang/mock/gomock"
)

type storeFactory struct {
	label    string
	getStore func(t *testing.T, provider common.HashProvider) store.Store
}

func getStoreFactories() []storeFactory {
	return []storeFactory{
		{
			label: "Memory",
			getStore: func(t *testing.T, provider common.HashProvider) store.Store {
				return memory.NewMemory(provider)
			},
		},
		{
			label: "LevelDb",
			getStore: func(t *testing.T, provider common.HashProvider) store.Store {
				db, err := backend.OpenLevelDb(t.TempDir(), nil)
				if err != nil {
					t.Fatalf("failed to open LevelDB; %v", err)
				}
				t.Cleanup(func() { _ = db.Close() })
				return ldb.NewStore(db, backend.NodeStoreKey, provider)
			},
		},
	}
}

func newMemoryStore(t *testing.T, provider common.HashProvider) store.Store {
	s := memory.NewMemory(provider)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestTreeDB_EmptyTreeReadsEmptyValues(t *testing.T) {
	for _, factory := range getStoreFactories() {
		t.Run(factory.label, func(t *testing.T) {
			provider := common.Sha256Provider()
			s := factory.getStore(t, provider)
			defer s.Close()

			const depth = 3
			db, err := tree.NewTreeDB(s, tree.EmptyTreeRoot(provider, depth), depth, provider)
			if err != nil {
				t.Fatalf("failed to create tree; %v", err)
			}

			for offset := uint64(0); offset < db.Capacity(); offset++ {
				value, err := db.GetValue(offset)
				if err != nil {
					t.Fatalf("failed to get value at %d; %v", offset, err)
				}
				if len(value) != 0 {
					t.Errorf("unexpected value at %d in an empty tree: %x", offset, value)
				}
			}
		})
	}
}

func TestTreeDB_EmptyTreeLeavesHaveCanonicalDigest(t *testing.T) {
	for _, factory := range getStoreFactories() {
		t.Run(factory.label, func(t *testing.T) {
			provider := common.Sha256Provider()
			s := factory.getStore(t, provider)
			defer s.Close()

			const depth = 2
			db, err := tree.NewTreeDB(s, tree.EmptyTreeRoot(provider, depth), depth, provider)
			if err != nil {
				t.Fatalf("failed to create tree; %v", err)
			}

			want := provider.HashOf(tree.LeafNode{Value: provider.HashOf(nil)}.Encode())
			for offset := uint64(0); offset < db.Capacity(); offset++ {
				leaf, err := db.GetLeaf(offset)
				if err != nil {
					t.Fatalf("failed to get leaf at %d; %v", offset, err)
				}
				if leaf != want {
					t.Errorf("unexpected empty leaf digest at %d, wanted %x, got %x", offset, want, leaf)
				}
			}
		})
	}
}

func TestTreeDB_ReadsValuesWrittenByWriter(t *testing.T) {
	for _, factory := range getStoreFactories() {
		t.Run(factory.label, func(t *testing.T) {
			provider := common.Sha256Provider()
			s := factory.getStore(t, provider)
			defer s.Close()

			const depth = 3
			writer, err := tree.NewTreeDBMut(s, tree.EmptyTreeRoot(provider, depth), depth, provider)
			if err != nil {
				t.Fatalf("failed to create tree; %v", err)
			}
			for offset := uint64(0); offset < writer.Capacity(); offset++ {
				if _, err := writer.InsertValue(offset, []byte{byte(offset), 0xAB}); err != nil {
					t.Fatalf("failed to insert at %d; %v", offset, err)
				}
			}

			db, err := tree.NewTreeDB(s, writer.Root(), depth, provider)
			if err != nil {
				t.Fatalf("failed to create reader; %v", err)
			}
			for offset := uint64(0); offset < db.Capacity(); offset++ {
				value, err := db.GetValue(offset)
				if err != nil {
					t.Fatalf("failed to get value at %d; %v", offset, err)
				}
				if !bytes.Equal(value, []byte{byte(offset), 0xAB}) {
					t.Errorf("unexpected value at %d: %x", offset, value)
				}
			}
		})
	}
}

func TestTreeDB_OffsetsBeyondCapacityAreRejected(t *testing.T) {
	for _, factory := range getStoreFactories() {
		t.Run(factory.label, func(t *testing.T) {
			provider := common.Sha256Provider()
			s := factory.getStore(t, provider)
			defer s.Close()

			const depth = 2
			db, err := tree.NewTreeDB(s, tree.EmptyTreeRoot(provider, depth), depth, provider)
			if err != nil {
				t.Fatalf("failed to create tree; %v", err)
			}

			if _, err := db.GetValue(4); !errors.Is(err, tree.ErrOffsetOutOfRange) {
				t.Errorf("GetValue beyond capacity not rejected, got %v", err)
			}
			if _, err := db.GetLeaf(4); !errors.Is(err, tree.ErrOffsetOutOfRange) {
				t.Errorf("GetLeaf beyond capacity not rejected, got %v", err)
			}
			if _, err := db.GetProof(4); !errors.Is(err, tree.ErrOffsetOutOfRange) {
				t.Errorf("GetProof beyond capacity not rejected, got %v", err)
			}
		})
	}
}

func TestTreeDB_InconsistentRootReportsNotFound(t *testing.T) {
	for _, factory := range getStoreFactories() {
		t.Run(factory.label, func(t *testing.T) {
			provider := common.Sha256Provider()
			s := factory.getStore(t, provider)
			defer s.Close()

			// a root digest whose nodes were never written to this store
			root := provider.HashOf([]byte("unknown root"))
			db, err := tree.NewTreeDB(s, root, 2, provider)
			if err != nil {
				t.Fatalf("failed to create tree; %v", err)
			}

			if _, err := db.GetValue(0); !errors.Is(err, tree.ErrNotFound) {
				t.Errorf("expected ErrNotFound, got %v", err)
			}
			if _, err := db.GetProof(0); !errors.Is(err, tree.ErrNotFound) {
				t.Errorf("expected ErrNotFound, got %v", err)
			}
		})
	}
}

func TestTreeDB_OldRootsRemainReadableAfterUpdates(t *testing.T) {
	for _, factory := range getStoreFactories() {
		t.Run(factory.label, func(t *testing.T) {
			provider := common.Sha256Provider()
			s := factory.getStore(t, provider)
			defer s.Close()

			const depth = 2
			writer, err := tree.NewTreeDBMut(s, tree.EmptyTreeRoot(provider, depth), depth, provider)
			if err != nil {
				t.Fatalf("failed to create tree; %v", err)
			}
			if _, err := writer.InsertValue(1, []byte("old")); err != nil {
				t.Fatalf("failed to insert; %v", err)
			}
			oldRoot := writer.Root()
			if _, err := writer.InsertValue(1, []byte("new")); err != nil {
				t.Fatalf("failed to insert; %v", err)
			}

			oldDb, err := tree.NewTreeDB(s, oldRoot, depth, provider)
			if err != nil {
				t.Fatalf("failed to create reader; %v", err)
			}
			value, err := oldDb.GetValue(1)
			if err != nil {
				t.Fatalf("failed to read the old snapshot; %v", err)
			}
			if !bytes.Equal(value, []byte("old")) {
				t.Errorf("old snapshot changed, got %x", value)
			}
		})
	}
}

func TestTreeDB_RecorderObservesPathNodes(t *testing.T) {
	provider := common.Sha256Provider()
	s := memory.NewMemory(provider)
	defer s.Close()

	const depth = 3
	writer, err := tree.NewTreeDBMut(s, tree.EmptyTreeRoot(provider, depth), depth, provider)
	if err != nil {
		t.Fatalf("failed to create tree; %v", err)
	}
	if _, err := writer.InsertValue(5, []byte("value")); err != nil {
		t.Fatalf("failed to insert; %v", err)
	}

	db, err := tree.NewTreeDB(s, writer.Root(), depth, provider)
	if err != nil {
		t.Fatalf("failed to create reader; %v", err)
	}
	recorder := tree.NewRecorder()
	db.SetRecorder(recorder)

	if _, err := db.GetValue(5); err != nil {
		t.Fatalf("failed to get value; %v", err)
	}
	if !recorder.Visited(writer.Root()) {
		t.Errorf("root node not recorded")
	}
	leaf, _ := db.GetLeaf(5)
	if !recorder.Visited(leaf) {
		t.Errorf("leaf node not recorded")
	}
	// depth inner nodes plus the leaf are on the path
	if got := len(recorder.Drain()); got != depth+1 {
		t.Errorf("unexpected number of recorded nodes, wanted %d, got %d", depth+1, got)
	}
	if got := len(recorder.Drain()); got != 0 {
		t.Errorf("recorder not reset by drain, still %d nodes", got)
	}
}

func TestTreeDB_StoreFailuresArePropagated(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	injected := errors.New("injected store failure")
	s := store.NewMockStore(ctrl)
	s.EXPECT().Get(gomock.Any()).Return(nil, injected)

	provider := common.Sha256Provider()
	db, err := tree.NewTreeDB(s, provider.HashOf([]byte("root")), 2, provider)
	if err != nil {
		t.Fatalf("failed to create tree; %v", err)
	}
	if _, err := db.GetValue(0); !errors.Is(err, injected) {
		t.Errorf("store failure not propagated, got %v", err)
	}
}

func TestTreeDB_RejectsUnsupportedDepths(t *testing.T) {
	provider := common.Sha256Provider()
	s := memory.NewMemory(provider)
	defer s.Close()

	if _, err := tree.NewTreeDB(s, common.Hash{}, -1, provider); !errors.Is(err, tree.ErrInvalidDepth) {
		t.Errorf("negative depth not rejected, got %v", err)
	}
	if _, err := tree.NewTreeDB(s, common.Hash{}, tree.MaxDepth+1, provider); !errors.Is(err, tree.ErrInvalidDepth) {
		t.Errorf("depth above MaxDepth not rejected, got %v", err)
	}
}
