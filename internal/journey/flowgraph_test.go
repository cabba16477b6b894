package journey

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildDataFlowGraph(t *testing.T) {
	t.Parallel()

	tracer := NewTracer()

	t.Run("SharedTransitionsCollapse", func(t *testing.T) {
		t.Parallel()
		journeys := []UserJourney{
			{
				ID:      "journey-0",
				Persona: "user",
				Steps: []JourneyStep{
					{Component: "TodoForm", Type: StepInteraction, Operation: OpCreate},
					{Component: "TodoList", Type: StepProcess, Operation: OpRead},
				},
			},
			{
				ID:      "journey-1",
				Persona: "user",
				Steps: []JourneyStep{
					{Component: "TodoForm", Type: StepInteraction, Operation: OpCreate},
					{Component: "TodoList", Type: StepProcess, Operation: OpRead},
				},
			},
		}

		graph := tracer.BuildDataFlowGraph(journeys)

		// Two journeys, one distinct transition.
		require.Len(t, graph.Edges, 1)
		assert.Equal(t, "TodoForm", graph.Edges[0].From)
		assert.Equal(t, "TodoList", graph.Edges[0].To)
		assert.Len(t, graph.Nodes, 2)
	})

	t.Run("SelfTransitionsSkipped", func(t *testing.T) {
		t.Parallel()
		journeys := []UserJourney{
			{
				ID:      "journey-0",
				Persona: "user",
				Steps: []JourneyStep{
					{Component: "TodoForm", Type: StepInteraction},
					{Component: "TodoForm", Type: StepProcess},
				},
			},
		}

		graph := tracer.BuildDataFlowGraph(journeys)

		assert.Empty(t, graph.Edges)
		assert.Len(t, graph.Nodes, 1)
	})

	t.Run("NodesCarryDomains", func(t *testing.T) {
		t.Parallel()
		journeys := []UserJourney{
			{
				ID:      "journey-0",
				Persona: "user",
				Steps: []JourneyStep{
					{Component: "LoginForm", Type: StepInteraction},
					{Component: "TodoList", Type: StepProcess},
				},
			},
		}

		graph := tracer.BuildDataFlowGraph(journeys)

		require.Len(t, graph.Nodes, 2)
		// Sorted by component name.
		assert.Equal(t, FlowNode{Component: "LoginForm", Domain: "Identity & Access"}, graph.Nodes[0])
		assert.Equal(t, FlowNode{Component: "TodoList", Domain: "Work Management"}, graph.Nodes[1])

		require.Len(t, graph.Clusters, 2)
		assert.Equal(t, "Identity & Access", graph.Clusters[0].Name)
		assert.Equal(t, []string{"LoginForm"}, graph.Clusters[0].Components)
	})

	t.Run("FirstWriterKeepsCriticality", func(t *testing.T) {
		t.Parallel()
		journeys := []UserJourney{
			{
				ID:      "journey-0",
				Persona: "user",
				Steps: []JourneyStep{
					{Component: "A", Type: StepNavigation, Operation: OpRead},
					{Component: "B", Type: StepProcess, Operation: OpRead},
				},
			},
			{
				ID:      "journey-1",
				Persona: "admin",
				Steps: []JourneyStep{
					{Component: "A", Type: StepNavigation, Operation: OpRead},
					{Component: "B", Type: StepProcess, Operation: OpRead},
				},
			},
		}

		graph := tracer.BuildDataFlowGraph(journeys)

		require.Len(t, graph.Edges, 1)
		// journey-0 wrote first; the admin journey does not upgrade it.
		assert.Equal(t, "low", graph.Edges[0].Criticality)
	})
}

func TestEdgeCriticality(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		step    JourneyStep
		persona string
		want    string
	}{
		{"DeleteIsCritical", JourneyStep{Type: StepInteraction, Operation: OpDelete}, "user", "critical"},
		{"DataOperationIsHigh", JourneyStep{Type: StepDataOperation, Operation: OpRead}, "user", "high"},
		{"AdminIsHigh", JourneyStep{Type: StepProcess, Operation: OpRead}, "admin", "high"},
		{"NavigationIsLow", JourneyStep{Type: StepNavigation, Operation: OpRead}, "user", "low"},
		{"DefaultIsMedium", JourneyStep{Type: StepProcess, Operation: OpRead}, "user", "medium"},
		{"DeleteBeatsAdmin", JourneyStep{Type: StepDataOperation, Operation: OpDelete}, "admin", "critical"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, edgeCriticality(tt.step, tt.persona))
		})
	}
}
