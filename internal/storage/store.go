// Package storage persists synthesized business graphs.
//
// It defines the SnapshotStore protocol that lets CLI commands export and
// inspect a graph without re-running synthesis, along with an in-memory
// implementation for tests.
package storage

import (
	"context"
	"time"

	"github.com/seergraph/seer-go/internal/bizgraph"
	"github.com/seergraph/seer-go/internal/synthesis"
)

// Meta describes a stored snapshot.
type Meta struct {
	// Version is the seer version that produced the snapshot.
	Version string `json:"version"`

	// FactsPath is the facts file the snapshot was synthesized from.
	FactsPath string `json:"factsPath"`

	// Result is the pipeline summary.
	Result synthesis.PipelineResult `json:"result"`

	// SavedAt is when the snapshot was written.
	SavedAt time.Time `json:"savedAt"`
}

// SnapshotStore defines the interface for snapshot persistence.
type SnapshotStore interface {
	// Initialize opens or creates the store at the given path.
	// If readOnly is true, the store is opened in read-only mode.
	Initialize(path string, readOnly bool) error

	// Close releases all resources held by the store.
	Close() error

	// SaveGraph replaces the stored graph.
	SaveGraph(ctx context.Context, g *bizgraph.Graph, meta *Meta) error

	// LoadGraph returns the stored graph, or nil if none exists.
	LoadGraph(ctx context.Context) (*bizgraph.Graph, error)

	// LoadMeta returns the stored snapshot meta, or nil if none exists.
	LoadMeta(ctx context.Context) (*Meta, error)
}

// MemoryStore is an in-memory SnapshotStore for tests.
type MemoryStore struct {
	graph *bizgraph.Graph
	meta  *Meta
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Initialize implements SnapshotStore.
func (m *MemoryStore) Initialize(path string, readOnly bool) error {
	return nil
}

// Close implements SnapshotStore.
func (m *MemoryStore) Close() error {
	m.graph = nil
	m.meta = nil
	return nil
}

// SaveGraph implements SnapshotStore.
func (m *MemoryStore) SaveGraph(ctx context.Context, g *bizgraph.Graph, meta *Meta) error {
	m.graph = g
	m.meta = meta
	return nil
}

// LoadGraph implements SnapshotStore.
func (m *MemoryStore) LoadGraph(ctx context.Context) (*bizgraph.Graph, error) {
	return m.graph, nil
}

// LoadMeta implements SnapshotStore.
func (m *MemoryStore) LoadMeta(ctx context.Context) (*Meta, error) {
	return m.meta, nil
}
