package ldb

import (
	"bytes"
	"errors"
	"testing"

	"github.com/frisitano/binary-merkle-tree/backend"
	"github.com/frisitano/binary-merkle-tree/backend/store"
	"github.com/frisitano/binary-merkle-tree/common"
)

func openStore(t *testing.T) (*Store, *backend.LevelDbMemoryFootprintWrapper) {
	t.Helper()
	db, err := backend.OpenLevelDb(t.TempDir(), nil)
	if err != nil {
		t.Fatalf("failed to open database; %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return NewStore(db, backend.NodeStoreKey, common.Sha256Provider()), db
}

func TestLevelDbStore_PutGetRoundTrip(t *testing.T) {
	s, _ := openStore(t)
	defer s.Close()

	data := []byte("node content")
	key, err := s.Put(data)
	if err != nil {
		t.Fatalf("failed to put; %v", err)
	}
	if want := common.Sha256Provider().HashOf(data); key != want {
		t.Errorf("unexpected key, wanted %x, got %x", want, key)
	}

	loaded, err := s.Get(key)
	if err != nil {
		t.Fatalf("failed to get; %v", err)
	}
	if !bytes.Equal(loaded, data) {
		t.Errorf("unexpected content, wanted %x, got %x", data, loaded)
	}
}

func TestLevelDbStore_MissingKeyReportsNotFound(t *testing.T) {
	s, _ := openStore(t)
	defer s.Close()

	if _, err := s.Get(common.Hash{1}); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if exists, err := s.Has(common.Hash{1}); err != nil || exists {
		t.Errorf("missing key reported as present (%t, %v)", exists, err)
	}
}

func TestLevelDbStore_RemoveDropsEntry(t *testing.T) {
	s, _ := openStore(t)
	defer s.Close()

	key, _ := s.Put([]byte{1, 2, 3})
	if err := s.Remove(key); err != nil {
		t.Fatalf("failed to remove; %v", err)
	}
	if _, err := s.Get(key); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("removed key still readable")
	}
}

func TestLevelDbStore_TableSpacesAreIsolated(t *testing.T) {
	db, err := backend.OpenLevelDb(t.TempDir(), nil)
	if err != nil {
		t.Fatalf("failed to open database; %v", err)
	}
	defer db.Close()

	provider := common.Sha256Provider()
	nodes := NewStore(db, backend.NodeStoreKey, provider)
	archive := NewStore(db, backend.ArchiveStoreKey, provider)

	key, err := nodes.Put([]byte{1, 2, 3})
	if err != nil {
		t.Fatalf("failed to put; %v", err)
	}
	if _, err := archive.Get(key); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("content leaked across tablespaces")
	}
	if _, err := nodes.Get(key); err != nil {
		t.Errorf("failed to get content from its own tablespace; %v", err)
	}
}

func TestLevelDbStore_ContentSurvivesReopening(t *testing.T) {
	dir := t.TempDir()
	provider := common.Sha256Provider()

	db, err := backend.OpenLevelDb(dir, nil)
	if err != nil {
		t.Fatalf("failed to open database; %v", err)
	}
	key, err := NewStore(db, backend.NodeStoreKey, provider).Put([]byte{1, 2, 3})
	if err != nil {
		t.Fatalf("failed to put; %v", err)
	}
	if err := db.Close(); err != nil {
		t.Fatalf("failed to close database; %v", err)
	}

	db, err = backend.OpenLevelDb(dir, nil)
	if err != nil {
		t.Fatalf("failed to reopen database; %v", err)
	}
	defer db.Close()
	loaded, err := NewStore(db, backend.NodeStoreKey, provider).Get(key)
	if err != nil {
		t.Fatalf("failed to get after reopening; %v", err)
	}
	if !bytes.Equal(loaded, []byte{1, 2, 3}) {
		t.Errorf("unexpected content after reopening: %x", loaded)
	}
}
