package mapper

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seergraph/seer-go/internal/facts"
)

// todoDoc is the shared todo-app fixture: one core capability claiming two
// of the four components.
func todoDoc() *facts.Document {
	return &facts.Document{
		Components: []facts.Component{
			{
				Name:     "TodoPage",
				Hooks:    []facts.Hook{{Name: "useState"}},
				Children: []string{"TodoList", "TodoForm"},
			},
			{
				Name:  "TodoList",
				Props: []facts.Prop{{Name: "items"}, {Name: "onToggle"}},
				Hooks: []facts.Hook{{Name: "useFetchTodos"}},
			},
			{
				Name:  "TodoForm",
				Props: []facts.Prop{{Name: "onSubmit"}},
				Hooks: []facts.Hook{{Name: "useState"}},
			},
			{Name: "Footer"},
		},
		UserStories: []facts.UserStory{
			{ID: "story-1", Title: "Add a todo", Priority: "critical", Personas: []string{"user"}},
			{ID: "story-2", Title: "Complete a todo", Priority: "high", Personas: []string{"user"}},
		},
		Capabilities: []facts.BusinessCapability{
			{
				ID:            "cap-1",
				Name:          "Task Management",
				BusinessValue: "core",
				UserStories:   []string{"story-1", "story-2"},
				Components:    []string{"TodoList", "TodoForm"},
				DataEntities:  []string{"entity-1"},
			},
		},
		DataEntities: []facts.DataEntity{
			{ID: "entity-1", Name: "Todo", Attributes: []string{"title", "done"}},
		},
		Rules: []facts.BusinessRule{
			{ID: "rule-1", Name: "Todo title required", Entities: []string{"entity-1"}, Components: []string{"TodoForm"}},
		},
		Personas: []string{"user"},
	}
}

func TestIdentifyBusinessFeatures(t *testing.T) {
	t.Parallel()

	doc := todoDoc()
	m := NewMapper()
	mappings := m.MapComponents(doc)

	features := m.IdentifyBusinessFeatures(mappings, doc.Capabilities, doc.StoriesByID())

	require.Len(t, features, 2)

	t.Run("CapabilityFeature", func(t *testing.T) {
		f := features[0]
		assert.Equal(t, "feature-cap-1", f.ID)
		assert.Equal(t, "Task Management", f.Name)
		assert.Equal(t, CategoryCore, f.Category)
		assert.ElementsMatch(t, []string{"TodoList", "TodoForm"}, f.ComponentNames())

		// core base 40 + critical 10 + high 7
		assert.Equal(t, 57, f.BusinessValue)
		assert.Positive(t, f.TechnicalComplexity)
		assert.LessOrEqual(t, f.TechnicalComplexity, 100)

		// TodoList carries the only api_call pattern
		assert.Equal(t, 1, f.Metrics.IntegrationPoints)
	})

	t.Run("UIInfrastructureCollectsUnclaimed", func(t *testing.T) {
		infra := features[1]
		assert.Equal(t, UIInfrastructureID, infra.ID)
		assert.Equal(t, "UI Infrastructure", infra.Name)
		assert.Equal(t, CategoryUtility, infra.Category)
		assert.Equal(t, 10, infra.BusinessValue)
		// Sorted by name for determinism
		assert.Equal(t, []string{"Footer", "TodoPage"}, infra.ComponentNames())
	})

	t.Run("EveryComponentInExactlyOneFeature", func(t *testing.T) {
		seen := make(map[string]int)
		for _, f := range features {
			for _, name := range f.ComponentNames() {
				seen[name]++
			}
		}
		assert.Len(t, seen, len(mappings))
		for name, count := range seen {
			assert.Equal(t, 1, count, "component %s claimed %d times", name, count)
		}
	})
}

func TestIdentifyBusinessFeatures_FirstCapabilityWins(t *testing.T) {
	t.Parallel()

	doc := &facts.Document{
		Components: []facts.Component{{Name: "Shared"}},
		Capabilities: []facts.BusinessCapability{
			{ID: "cap-a", Name: "First", BusinessValue: "core", Components: []string{"Shared"}},
			{ID: "cap-b", Name: "Second", BusinessValue: "core", Components: []string{"Shared"}},
		},
	}

	m := NewMapper()
	mappings := m.MapComponents(doc)
	features := m.IdentifyBusinessFeatures(mappings, doc.Capabilities, nil)

	require.Len(t, features, 2)
	assert.Equal(t, []string{"Shared"}, features[0].ComponentNames())
	assert.Empty(t, features[1].ComponentNames())
}

func TestIdentifyBusinessFeatures_NoUnclaimedNoInfraFeature(t *testing.T) {
	t.Parallel()

	doc := &facts.Document{
		Components: []facts.Component{{Name: "Only"}},
		Capabilities: []facts.BusinessCapability{
			{ID: "cap-1", Name: "Everything", BusinessValue: "core", Components: []string{"Only"}},
		},
	}

	m := NewMapper()
	mappings := m.MapComponents(doc)
	features := m.IdentifyBusinessFeatures(mappings, doc.Capabilities, nil)

	require.Len(t, features, 1)
	assert.Equal(t, "feature-cap-1", features[0].ID)
}

func TestComputeBusinessValue(t *testing.T) {
	t.Parallel()

	stories := map[string]facts.UserStory{
		"s1": {ID: "s1", Priority: "critical"},
		"s2": {ID: "s2", Priority: "high"},
		"s3": {ID: "s3", Priority: "medium"},
		"s4": {ID: "s4", Priority: "low"},
	}

	tests := []struct {
		name string
		cap  facts.BusinessCapability
		want int
	}{
		{"CoreBase", facts.BusinessCapability{BusinessValue: "core"}, 40},
		{"SupportingBase", facts.BusinessCapability{BusinessValue: "supporting"}, 20},
		{"UtilityBase", facts.BusinessCapability{BusinessValue: "utility"}, 10},
		{
			"AllPriorities",
			facts.BusinessCapability{BusinessValue: "core", UserStories: []string{"s1", "s2", "s3", "s4"}},
			40 + 10 + 7 + 4 + 1,
		},
		{
			"UnknownStorySkipped",
			facts.BusinessCapability{BusinessValue: "core", UserStories: []string{"missing"}},
			40,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, computeBusinessValue(tt.cap, stories))
		})
	}

	t.Run("CappedAt100", func(t *testing.T) {
		t.Parallel()
		var ids []string
		for range 10 {
			ids = append(ids, "s1")
		}
		cap100 := facts.BusinessCapability{BusinessValue: "core", UserStories: ids}
		assert.Equal(t, 100, computeBusinessValue(cap100, stories))
	})
}

func TestComputeComplexity(t *testing.T) {
	t.Parallel()

	components := []*ComponentMapping{
		{
			Type:     TypeHybrid, // 8
			Patterns: []InteractionPattern{{Type: PatternDisplay}},
			DataFlow: DataFlowPattern{
				Inputs:          []DataInput{{Name: "a"}, {Name: "b"}},
				Transformations: []string{"validation"},
			},
		},
	}

	// 8 + 3*1 + 2*2 + 5*1
	assert.Equal(t, 20, computeComplexity(components))

	t.Run("CappedAt100", func(t *testing.T) {
		t.Parallel()
		var many []*ComponentMapping
		for range 20 {
			many = append(many, components[0])
		}
		assert.Equal(t, 100, computeComplexity(many))
	})
}

func TestCreateFeatureRelationships(t *testing.T) {
	t.Parallel()

	t.Run("DeclaredDependencyWins", func(t *testing.T) {
		t.Parallel()
		caps := []facts.BusinessCapability{
			// Shared component would also match, but the declared
			// dependency takes precedence.
			{ID: "a", Name: "A", Components: []string{"Shared"}, DependsOn: []string{"b"}},
			{ID: "b", Name: "B", Components: []string{"Shared"}},
		}
		features := []BusinessFeature{
			{ID: "feature-a"},
			{ID: "feature-b"},
		}

		m := NewMapper()
		features = m.CreateFeatureRelationships(features, caps)

		require.Len(t, features[0].Dependencies, 1)
		assert.Equal(t, FeatureDependency{
			FeatureID: "feature-b",
			Type:      "depends_on",
			Strength:  1.0,
		}, features[0].Dependencies[0])

		// The reverse direction has no declared dependency, so the
		// shared component rule applies.
		require.Len(t, features[1].Dependencies, 1)
		assert.Equal(t, "complements", features[1].Dependencies[0].Type)
	})

	t.Run("SharedComponentStrength", func(t *testing.T) {
		t.Parallel()
		caps := []facts.BusinessCapability{
			{ID: "a", Name: "A", Components: []string{"X", "Y"}},
			{ID: "b", Name: "B", Components: []string{"Y", "Z", "W"}},
		}
		features := []BusinessFeature{
			{ID: "feature-a"},
			{ID: "feature-b"},
		}

		m := NewMapper()
		features = m.CreateFeatureRelationships(features, caps)

		require.Len(t, features[0].Dependencies, 1)
		dep := features[0].Dependencies[0]
		assert.Equal(t, "complements", dep.Type)
		assert.InDelta(t, 1.0/3.0, dep.Strength, 1e-9)
	})

	t.Run("SharedEntitiesFallback", func(t *testing.T) {
		t.Parallel()
		caps := []facts.BusinessCapability{
			{ID: "a", Name: "A", Components: []string{"X"}},
			{ID: "b", Name: "B", Components: []string{"Y"}},
		}
		features := []BusinessFeature{
			{ID: "feature-a", DataEntities: []string{"entity-1"}},
			{ID: "feature-b", DataEntities: []string{"entity-1"}},
		}

		m := NewMapper()
		features = m.CreateFeatureRelationships(features, caps)

		require.Len(t, features[0].Dependencies, 1)
		assert.Equal(t, "complements", features[0].Dependencies[0].Type)
		assert.Equal(t, 0.5, features[0].Dependencies[0].Strength)
	})

	t.Run("UnrelatedFeaturesGetNothing", func(t *testing.T) {
		t.Parallel()
		caps := []facts.BusinessCapability{
			{ID: "a", Name: "A", Components: []string{"X"}},
			{ID: "b", Name: "B", Components: []string{"Y"}},
		}
		features := []BusinessFeature{
			{ID: "feature-a"},
			{ID: "feature-b"},
		}

		m := NewMapper()
		features = m.CreateFeatureRelationships(features, caps)

		assert.Empty(t, features[0].Dependencies)
		assert.Empty(t, features[1].Dependencies)
	})
}
