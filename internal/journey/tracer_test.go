package journey

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seergraph/seer-go/internal/facts"
	"github.com/seergraph/seer-go/internal/mapper"
)

func mapDoc(t *testing.T, doc *facts.Document) map[string]*mapper.ComponentMapping {
	t.Helper()
	return mapper.NewMapper().MapComponents(doc)
}

func TestFindEntryPoints(t *testing.T) {
	t.Parallel()

	t.Run("MarkerNames", func(t *testing.T) {
		t.Parallel()
		doc := &facts.Document{
			Components: []facts.Component{
				{Name: "TodoPage"},
				{Name: "SettingsView"},
				{Name: "HomeScreen"},
				{Name: "Dashboard"},
				{Name: "Button"},
			},
		}

		tracer := NewTracer()
		entries := tracer.FindEntryPoints(doc)

		assert.ElementsMatch(t, []string{"TodoPage", "SettingsView", "HomeScreen", "Dashboard"}, entries)
	})

	t.Run("RootFormWithoutParent", func(t *testing.T) {
		t.Parallel()
		doc := &facts.Document{
			Components: []facts.Component{
				{Name: "ContactForm"},
				{Name: "Wrapper", Children: []string{"NestedForm"}},
				{Name: "NestedForm"},
			},
		}

		tracer := NewTracer()
		entries := tracer.FindEntryPoints(doc)

		// NestedForm has a parent, so it is not an entry point.
		assert.Equal(t, []string{"ContactForm"}, entries)
	})

	t.Run("ExtraMarkers", func(t *testing.T) {
		t.Parallel()
		doc := &facts.Document{
			Components: []facts.Component{
				{Name: "CheckoutWizard"},
			},
		}

		tracer := NewTracer(WithEntryMarkers("wizard"))
		entries := tracer.FindEntryPoints(doc)

		assert.Equal(t, []string{"CheckoutWizard"}, entries)
	})
}

func TestTraceJourney(t *testing.T) {
	t.Parallel()

	t.Run("CyclicReferencesTerminate", func(t *testing.T) {
		t.Parallel()
		doc := &facts.Document{
			Components: []facts.Component{
				{Name: "PageA", Props: []facts.Prop{{Name: "items"}}, Children: []string{"PageB"}},
				{Name: "PageB", Props: []facts.Prop{{Name: "items"}}, Children: []string{"PageA"}},
			},
		}
		mappings := mapDoc(t, doc)

		tracer := NewTracer()
		j := tracer.TraceJourney(doc, mappings, "PageA", "user")

		// One display step per component, each visited once.
		require.Len(t, j.Steps, 2)
		assert.Equal(t, "PageA", j.Steps[0].Component)
		assert.Equal(t, "PageB", j.Steps[1].Component)
	})

	t.Run("ChildrenInDeclarationOrder", func(t *testing.T) {
		t.Parallel()
		doc := &facts.Document{
			Components: []facts.Component{
				{Name: "TodoPage", Props: []facts.Prop{{Name: "items"}}, Children: []string{"First", "Second"}},
				{Name: "First", Props: []facts.Prop{{Name: "items"}}},
				{Name: "Second", Props: []facts.Prop{{Name: "items"}}},
			},
		}
		mappings := mapDoc(t, doc)

		tracer := NewTracer()
		j := tracer.TraceJourney(doc, mappings, "TodoPage", "user")

		require.Len(t, j.Steps, 3)
		assert.Equal(t, "TodoPage", j.Steps[0].Component)
		assert.Equal(t, "First", j.Steps[1].Component)
		assert.Equal(t, "Second", j.Steps[2].Component)

		for i, s := range j.Steps {
			assert.Equal(t, i, s.Order)
		}
	})

	t.Run("AuthenticatedEntryGetsPrecondition", func(t *testing.T) {
		t.Parallel()
		doc := &facts.Document{
			Components: []facts.Component{{Name: "Dashboard"}},
		}
		mappings := mapDoc(t, doc)

		tracer := NewTracer()
		j := tracer.TraceJourney(doc, mappings, "Dashboard", "user")

		assert.Equal(t, []string{"authenticated session"}, j.Preconditions)
	})

	t.Run("NameTriggerAndGoal", func(t *testing.T) {
		t.Parallel()
		doc := &facts.Document{
			Components: []facts.Component{{Name: "TodoPage"}},
		}
		mappings := mapDoc(t, doc)

		tracer := NewTracer()
		j := tracer.TraceJourney(doc, mappings, "TodoPage", "user")

		assert.Equal(t, "Journey from TodoPage", j.Name)
		assert.Equal(t, "navigates to TodoPage", j.Trigger)
		assert.Equal(t, "user", j.Persona)
		assert.Equal(t, "track work items", j.Goal)
	})
}

func TestStepDurationsAndTypes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		pattern      mapper.PatternType
		wantType     StepType
		wantDuration int
	}{
		{mapper.PatternUserInput, StepInteraction, 5},
		{mapper.PatternAPICall, StepDataOperation, 3},
		{mapper.PatternDisplay, StepProcess, 2},
		{mapper.PatternNavigation, StepNavigation, 1},
		{mapper.PatternStateManagement, StepProcess, 1},
	}

	for _, tt := range tests {
		t.Run(string(tt.pattern), func(t *testing.T) {
			t.Parallel()
			step := makeStep(0, "X", mapper.InteractionPattern{Type: tt.pattern})
			assert.Equal(t, tt.wantType, step.Type)
			assert.Equal(t, tt.wantDuration, step.DurationSecs)
		})
	}
}

func TestInferOperation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		component string
		triggers  []string
		want      DataOperation
	}{
		{"AddTodoForm", nil, OpCreate},
		{"Form", []string{"onSubmit"}, OpCreate},
		{"EditProfile", nil, OpUpdate},
		{"Item", []string{"onToggle"}, OpUpdate},
		{"DeleteButton", nil, OpDelete},
		{"Input", []string{"onClear"}, OpDelete},
		{"Validator", nil, OpValidate},
		{"TodoItem", nil, OpRead},
	}

	for _, tt := range tests {
		t.Run(tt.component, func(t *testing.T) {
			t.Parallel()
			op := inferOperation(tt.component, mapper.InteractionPattern{Triggers: tt.triggers})
			assert.Equal(t, tt.want, op)
		})
	}
}

func TestDeriveOutcomes(t *testing.T) {
	t.Parallel()

	t.Run("SuccessAlways", func(t *testing.T) {
		t.Parallel()
		outcomes := deriveOutcomes(JourneyMetrics{})
		require.Len(t, outcomes, 1)
		assert.Equal(t, "success", outcomes[0].Type)
	})

	t.Run("FailureWithIntegrationPoints", func(t *testing.T) {
		t.Parallel()
		outcomes := deriveOutcomes(JourneyMetrics{IntegrationPoints: 1})
		require.Len(t, outcomes, 2)
		assert.Equal(t, "failure", outcomes[1].Type)
	})

	t.Run("PartialForLongJourneys", func(t *testing.T) {
		t.Parallel()
		outcomes := deriveOutcomes(JourneyMetrics{StepCount: 4})
		require.Len(t, outcomes, 2)
		assert.Equal(t, "partial", outcomes[1].Type)

		// Exactly three steps is not long enough.
		assert.Len(t, deriveOutcomes(JourneyMetrics{StepCount: 3}), 1)
	})
}

func TestDeriveAlternatives(t *testing.T) {
	t.Parallel()

	steps := []JourneyStep{
		{Order: 0, Component: "TodoForm", Type: StepInteraction, Operation: OpCreate},
		{Order: 1, Component: "TodoList", Type: StepProcess, Operation: OpRead},
		{Order: 2, Component: "TodoAPI", Type: StepDataOperation, Operation: OpCreate},
	}

	paths := deriveAlternatives(steps)

	// Only interaction and data_operation steps branch.
	require.Len(t, paths, 2)

	first := paths[0]
	assert.Equal(t, 0, first.FromStep)
	assert.Equal(t, 0, first.ReturnsTo)
	assert.Equal(t, 0.1, first.Probability)
	require.Len(t, first.Steps, 2)
	assert.Equal(t, "display error on TodoForm", first.Steps[0].Description)
	assert.Equal(t, "retry on TodoForm", first.Steps[1].Description)
	assert.Equal(t, OpCreate, first.Steps[1].Operation)
}

func TestTraceJourneys(t *testing.T) {
	t.Parallel()

	doc := &facts.Document{
		Components: []facts.Component{
			{
				Name:     "TodoPage",
				Hooks:    []facts.Hook{{Name: "useState"}},
				Children: []string{"TodoList", "TodoForm"},
			},
			{
				Name:  "TodoList",
				Props: []facts.Prop{{Name: "items"}},
				Hooks: []facts.Hook{{Name: "useFetchTodos"}},
			},
			{
				Name:  "TodoForm",
				Props: []facts.Prop{{Name: "onSubmit"}},
			},
			{Name: "SettingsPage", Hooks: []facts.Hook{{Name: "useState"}}},
		},
		Personas: []string{"member"},
	}
	mappings := mapDoc(t, doc)

	tracer := NewTracer()
	jm := tracer.TraceJourneys(doc, mappings)

	require.Len(t, jm.Journeys, 2)

	t.Run("SequentialIDs", func(t *testing.T) {
		assert.Equal(t, "journey-0", jm.Journeys[0].ID)
		assert.Equal(t, "journey-1", jm.Journeys[1].ID)
	})

	t.Run("FirstPersonaWins", func(t *testing.T) {
		assert.Equal(t, "member", jm.Journeys[0].Persona)
	})

	t.Run("MetricsAccumulate", func(t *testing.T) {
		j := jm.Journeys[0]
		assert.Equal(t, len(j.Steps), j.Metrics.StepCount)

		total := 0
		for _, s := range j.Steps {
			total += s.DurationSecs
		}
		assert.Equal(t, total, j.Metrics.DurationSecs)
	})

	t.Run("FailureOutcomeFromAPIStep", func(t *testing.T) {
		// TodoList carries an api_call pattern, so journey-0 touches an
		// integration point.
		j := jm.Journeys[0]
		require.Positive(t, j.Metrics.IntegrationPoints)

		var types []string
		for _, o := range j.Outcomes {
			types = append(types, o.Type)
		}
		assert.Contains(t, types, "failure")
	})
}

func TestRelateJourneys(t *testing.T) {
	t.Parallel()

	t.Run("LeadsTo", func(t *testing.T) {
		t.Parallel()
		journeys := []UserJourney{
			{
				ID:    "journey-0",
				Name:  "Journey from A",
				Steps: []JourneyStep{{Component: "A"}, {Component: "Shared"}},
			},
			{
				ID:    "journey-1",
				Name:  "Journey from Shared",
				Steps: []JourneyStep{{Component: "Shared"}, {Component: "B"}},
			},
		}

		rels := relateJourneys(journeys)

		require.Len(t, rels, 1)
		assert.Equal(t, JourneyRelationship{From: "journey-0", To: "journey-1", Type: "leads_to"}, rels[0])
	})

	t.Run("RequiresLogin", func(t *testing.T) {
		t.Parallel()
		journeys := []UserJourney{
			{
				ID:            "journey-0",
				Name:          "Journey from Dashboard",
				Preconditions: []string{"authenticated session"},
				Steps:         []JourneyStep{{Component: "Dashboard"}},
			},
			{
				ID:    "journey-1",
				Name:  "Journey from LoginPage",
				Steps: []JourneyStep{{Component: "LoginPage"}},
			},
		}

		rels := relateJourneys(journeys)

		require.Len(t, rels, 1)
		assert.Equal(t, JourneyRelationship{From: "journey-0", To: "journey-1", Type: "requires"}, rels[0])
	})
}
