package synthesis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seergraph/seer-go/internal/facts"
)

func pipelineDoc() *facts.Document {
	return &facts.Document{
		Components: []facts.Component{
			{
				Name: "TodoPage",
				Hooks: []facts.Hook{
					{Name: "useState"},
				},
				Children: []string{"TodoList", "TodoForm"},
			},
			{
				Name: "TodoList",
				Props: []facts.Prop{
					{Name: "items"},
					{Name: "onToggle"},
				},
				Hooks: []facts.Hook{
					{Name: "useFetchTodos"},
				},
			},
			{
				Name: "TodoForm",
				Props: []facts.Prop{
					{Name: "onSubmit"},
				},
				Hooks: []facts.Hook{
					{Name: "useState"},
				},
			},
		},
		UserStories: []facts.UserStory{
			{ID: "s1", Title: "Add a todo", Priority: "critical"},
		},
		Capabilities: []facts.BusinessCapability{
			{
				ID:            "cap-1",
				Name:          "Task Management",
				Description:   "track work items",
				BusinessValue: "core",
				UserStories:   []string{"s1"},
				Components:    []string{"TodoList", "TodoForm"},
			},
		},
		Personas: []string{"user"},
	}
}

func TestRunPipeline(t *testing.T) {
	t.Parallel()

	t.Run("FullRun", func(t *testing.T) {
		t.Parallel()
		graph, result := RunPipeline(pipelineDoc(), DefaultConfig(), nil)
		require.NotNil(t, graph)
		require.NotNil(t, result)

		assert.Equal(t, 3, result.Components)
		assert.Equal(t, 2, result.Features) // capability feature + UI infrastructure
		assert.Equal(t, 1, result.Journeys) // TodoPage is the only entry point
		assert.Equal(t, result.Nodes, graph.Metadata.Statistics.NodeCount)
		assert.Equal(t, result.Edges, graph.Metadata.Statistics.EdgeCount)
		assert.Equal(t, len(graph.Nodes), result.Nodes)
		assert.Equal(t, len(graph.Edges), result.Edges)
		assert.GreaterOrEqual(t, result.DurationSecs, 0.0)
	})

	t.Run("ProgressReportsEveryPhase", func(t *testing.T) {
		t.Parallel()
		phases := map[string]int{}
		RunPipeline(pipelineDoc(), DefaultConfig(), func(phase string, pct float64) {
			phases[phase]++
			assert.GreaterOrEqual(t, pct, 0.0)
			assert.LessOrEqual(t, pct, 1.0)
		})

		for _, phase := range []string{
			"Mapping components",
			"Identifying features",
			"Clustering domains",
			"Tracing journeys",
			"Building graph",
		} {
			assert.Equal(t, 2, phases[phase], "phase %q should report start and end", phase)
		}
	})

	t.Run("NilProgressIsAllowed", func(t *testing.T) {
		t.Parallel()
		assert.NotPanics(t, func() {
			RunPipeline(pipelineDoc(), DefaultConfig(), nil)
		})
	})

	t.Run("EmptyDocumentProducesEmptyGraph", func(t *testing.T) {
		t.Parallel()
		graph, result := RunPipeline(&facts.Document{}, DefaultConfig(), nil)
		require.NotNil(t, graph)
		assert.Zero(t, result.Components)
		assert.Zero(t, result.Features)
		assert.Zero(t, result.Journeys)
		assert.Empty(t, graph.Nodes)
		assert.Empty(t, graph.Edges)
	})

	t.Run("Deterministic", func(t *testing.T) {
		t.Parallel()
		g1, r1 := RunPipeline(pipelineDoc(), DefaultConfig(), nil)
		g2, r2 := RunPipeline(pipelineDoc(), DefaultConfig(), nil)

		assert.Equal(t, g1.Nodes, g2.Nodes)
		assert.Equal(t, g1.Edges, g2.Edges)
		assert.Equal(t, g1.Clusters, g2.Clusters)
		assert.Equal(t, r1.Nodes, r2.Nodes)
		assert.Equal(t, r1.Edges, r2.Edges)
	})

	t.Run("ConfigDrivesTracerAndLayout", func(t *testing.T) {
		t.Parallel()
		cfg := DefaultConfig()
		cfg.DefaultPersona = "operator"
		cfg.LayoutWidth = 600
		graph, _ := RunPipeline(pipelineDoc(), cfg, nil)

		var foundPersona bool
		for _, n := range graph.Nodes {
			if n.ID == "persona-user" {
				foundPersona = true
			}
			if n.Position != nil {
				assert.LessOrEqual(t, n.Position.X, 600.0)
			}
		}
		assert.True(t, foundPersona)
	})
}
