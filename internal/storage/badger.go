package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	badger "github.com/dgraph-io/badger/v4"

	"github.com/seergraph/seer-go/internal/bizgraph"
)

// Badger keys for the snapshot segments.
const (
	keyGraph = "snapshot:graph"
	keyMeta  = "snapshot:meta"
)

// BadgerStore is a BadgerDB-backed SnapshotStore.
type BadgerStore struct {
	db *badger.DB
}

// NewBadgerStore creates an uninitialized BadgerStore.
func NewBadgerStore() *BadgerStore {
	return &BadgerStore{}
}

// Initialize implements SnapshotStore.
func (s *BadgerStore) Initialize(path string, readOnly bool) error {
	opts := badger.DefaultOptions(path).
		WithLogger(nil).
		WithReadOnly(readOnly)

	db, err := badger.Open(opts)
	if err != nil {
		return fmt.Errorf("opening badger at %s: %w", path, err)
	}
	s.db = db
	return nil
}

// Close implements SnapshotStore.
func (s *BadgerStore) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// SaveGraph implements SnapshotStore. The graph and its meta are written in
// one transaction so readers never observe a half-saved snapshot.
func (s *BadgerStore) SaveGraph(ctx context.Context, g *bizgraph.Graph, meta *Meta) error {
	graphJSON, err := json.Marshal(g)
	if err != nil {
		return fmt.Errorf("encoding graph: %w", err)
	}
	metaJSON, err := json.Marshal(meta)
	if err != nil {
		return fmt.Errorf("encoding meta: %w", err)
	}

	err = s.db.Update(func(txn *badger.Txn) error {
		if err := txn.Set([]byte(keyGraph), graphJSON); err != nil {
			return err
		}
		return txn.Set([]byte(keyMeta), metaJSON)
	})
	if err != nil {
		return fmt.Errorf("saving snapshot: %w", err)
	}
	return nil
}

// LoadGraph implements SnapshotStore.
func (s *BadgerStore) LoadGraph(ctx context.Context) (*bizgraph.Graph, error) {
	var g *bizgraph.Graph
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(keyGraph))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			g = &bizgraph.Graph{}
			return json.Unmarshal(val, g)
		})
	})
	if err != nil {
		return nil, fmt.Errorf("loading graph: %w", err)
	}
	return g, nil
}

// LoadMeta implements SnapshotStore.
func (s *BadgerStore) LoadMeta(ctx context.Context) (*Meta, error) {
	var meta *Meta
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(keyMeta))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			meta = &Meta{}
			return json.Unmarshal(val, meta)
		})
	})
	if err != nil {
		return nil, fmt.Errorf("loading meta: %w", err)
	}
	return meta, nil
}
