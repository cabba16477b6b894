package bizgraph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArena_AddNode(t *testing.T) {
	t.Parallel()

	t.Run("FirstWriterWins", func(t *testing.T) {
		t.Parallel()
		a := newArena()

		a.AddNode(&Node{ID: "component-TodoList", Type: NodeComponent, Label: "TodoList"})
		a.AddNode(&Node{ID: "component-TodoList", Type: NodeComponent, Label: "Duplicate"})

		require.Len(t, a.nodes, 1)
		assert.Equal(t, "TodoList", a.Node("component-TodoList").Label)
	})

	t.Run("MissingNodeIsNil", func(t *testing.T) {
		t.Parallel()
		a := newArena()
		assert.Nil(t, a.Node("nope"))
	})
}

func TestArena_AddEdge(t *testing.T) {
	t.Parallel()

	twoNodes := func() *arena {
		a := newArena()
		a.AddNode(&Node{ID: "a", Type: NodeComponent, Label: "A"})
		a.AddNode(&Node{ID: "b", Type: NodeComponent, Label: "B"})
		return a
	}

	t.Run("DuplicateKeyDropped", func(t *testing.T) {
		t.Parallel()
		a := twoNodes()

		a.AddEdge(&Edge{Source: "a", Target: "b", Type: EdgeTransforms, Label: "first"})
		a.AddEdge(&Edge{Source: "a", Target: "b", Type: EdgeTransforms, Label: "second"})

		require.Len(t, a.edges, 1)
		assert.Equal(t, "first", a.edges[0].Label)
	})

	t.Run("SamePairDifferentTypeKept", func(t *testing.T) {
		t.Parallel()
		a := twoNodes()

		a.AddEdge(&Edge{Source: "a", Target: "b", Type: EdgeTransforms})
		a.AddEdge(&Edge{Source: "a", Target: "b", Type: EdgeInvolves})

		assert.Len(t, a.edges, 2)
	})

	t.Run("MissingEndpointDropped", func(t *testing.T) {
		t.Parallel()
		a := twoNodes()

		a.AddEdge(&Edge{Source: "a", Target: "ghost", Type: EdgeTransforms})
		a.AddEdge(&Edge{Source: "ghost", Target: "b", Type: EdgeTransforms})

		assert.Empty(t, a.edges)
	})

	t.Run("EdgeIDIsCompositeKey", func(t *testing.T) {
		t.Parallel()
		a := twoNodes()

		a.AddEdge(&Edge{Source: "a", Target: "b", Type: EdgeTransforms})

		assert.Equal(t, "a|b|transforms", a.edges[0].ID)
	})

	t.Run("ConnectivityCountsBothDirections", func(t *testing.T) {
		t.Parallel()
		a := twoNodes()
		a.AddNode(&Node{ID: "c", Type: NodeComponent, Label: "C"})

		a.AddEdge(&Edge{Source: "a", Target: "b", Type: EdgeTransforms})
		a.AddEdge(&Edge{Source: "b", Target: "c", Type: EdgeTransforms})

		assert.Equal(t, 1, a.Connectivity("a"))
		assert.Equal(t, 2, a.Connectivity("b"))
		assert.Equal(t, 1, a.Connectivity("c"))
		assert.Equal(t, 0, a.Connectivity("ghost"))
	})
}
