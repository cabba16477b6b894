package mapper

import (
	"strings"

	"github.com/seergraph/seer-go/internal/facts"
)

// Mapper turns component facts into business-level mappings.
type Mapper struct {
	classifier Classifier
}

// Option configures a Mapper.
type Option func(*Mapper)

// WithClassifier swaps the default heuristic classifier.
func WithClassifier(c Classifier) Option {
	return func(m *Mapper) {
		m.classifier = c
	}
}

// NewMapper creates a Mapper with the default heuristic classifier.
func NewMapper(opts ...Option) *Mapper {
	m := &Mapper{classifier: NewHeuristicClassifier()}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// MapComponents produces one ComponentMapping per component, keyed by name.
// Each mapping is created exactly once and not mutated after this pass.
func (m *Mapper) MapComponents(doc *facts.Document) map[string]*ComponentMapping {
	mappings := make(map[string]*ComponentMapping, len(doc.Components))

	for i := range doc.Components {
		c := &doc.Components[i]
		sig := Signature{Name: c.Name, Hooks: hookNames(c)}

		mappings[c.Name] = &ComponentMapping{
			ComponentName:  c.Name,
			Type:           classifyComponentType(c),
			Responsibility: m.classifier.Responsibility(sig),
			Purpose:        m.classifier.Purpose(sig),
			Patterns:       extractInteractionPatterns(c, doc.Imports[c.Name]),
			DataFlow:       analyzeDataFlow(c),
		}
	}

	return mappings
}

// classifyComponentType applies a fixed decision table over four signals:
// local state bindings, children, binding count, and declared props.
// Priority order is hybrid > container > presentational > functional.
func classifyComponentType(c *facts.Component) ComponentType {
	hasState := hasStateBinding(c)
	hasChildren := len(c.Children) > 0
	manyBindings := len(c.Hooks) > 3

	switch {
	case hasState && hasChildren:
		return TypeHybrid
	case hasState || manyBindings:
		return TypeContainer
	case hasChildren || len(c.Props) > 0:
		return TypePresentational
	default:
		return TypeFunctional
	}
}

// extractInteractionPatterns derives zero or more interaction patterns from
// input-naming conventions, known input names, import analysis, and binding
// presence. A component may carry several patterns at once.
func extractInteractionPatterns(c *facts.Component, imports []string) []InteractionPattern {
	var patterns []InteractionPattern

	// Handler-prefixed inputs indicate user input.
	var handlers []string
	for _, p := range c.Props {
		lower := strings.ToLower(p.Name)
		if strings.HasPrefix(lower, "on") || strings.HasPrefix(lower, "handle") {
			handlers = append(handlers, p.Name)
		}
	}
	if len(handlers) > 0 {
		patterns = append(patterns, InteractionPattern{
			Type:     PatternUserInput,
			Triggers: handlers,
			Outcomes: []string{"state change", "event propagation"},
		})
	}

	// Known data-carrying input names indicate display.
	for _, p := range c.Props {
		lower := strings.ToLower(p.Name)
		if lower == "data" || lower == "items" || lower == "value" || lower == "children" {
			patterns = append(patterns, InteractionPattern{
				Type:     PatternDisplay,
				Triggers: []string{p.Name + " received"},
				Outcomes: []string{"render content"},
			})
			break
		}
	}

	if referencesModule(imports, "router", "navigation", "link", "history") ||
		containsAny(strings.ToLower(c.Name), "nav", "link", "menu") {
		patterns = append(patterns, InteractionPattern{
			Type:     PatternNavigation,
			Triggers: []string{"user selection"},
			Outcomes: []string{"route change"},
		})
	}

	if hasStateBinding(c) || hasBinding(c, "reducer") || hasBinding(c, "context") {
		patterns = append(patterns, InteractionPattern{
			Type:     PatternStateManagement,
			Triggers: []string{"state transition"},
			Outcomes: []string{"re-render"},
		})
	}

	if referencesModule(imports, "api", "service", "http", "client") || hasFetchBinding(c) {
		patterns = append(patterns, InteractionPattern{
			Type:     PatternAPICall,
			Triggers: []string{"data requirement"},
			Outcomes: []string{"remote call", "data refresh"},
		})
	}

	return patterns
}

// analyzeDataFlow records per-input sources, transformation heuristics,
// outputs, and side-effect flags for one component.
func analyzeDataFlow(c *facts.Component) DataFlowPattern {
	flow := DataFlowPattern{Outputs: []string{"render"}}

	for _, p := range c.Props {
		flow.Inputs = append(flow.Inputs, DataInput{Name: p.Name, Source: "props"})
	}

	hasHandlers := false
	for _, p := range c.Props {
		lower := strings.ToLower(p.Name)
		if strings.HasPrefix(lower, "on") || strings.HasPrefix(lower, "handle") {
			hasHandlers = true
		}
		if strings.Contains(lower, "valid") {
			flow.Transformations = append(flow.Transformations, "validation")
		}
	}

	for _, h := range c.Hooks {
		lower := strings.ToLower(h.Name)
		switch {
		case strings.Contains(lower, "state"):
			flow.Inputs = append(flow.Inputs, DataInput{Name: h.Name, Source: "state"})
		case strings.Contains(lower, "context"):
			flow.Inputs = append(flow.Inputs, DataInput{Name: h.Name, Source: "context"})
		case isFetchHook(lower):
			flow.Inputs = append(flow.Inputs, DataInput{Name: h.Name, Source: "api"})
		case strings.Contains(lower, "param") || strings.Contains(lower, "route") ||
			strings.Contains(lower, "location"):
			flow.Inputs = append(flow.Inputs, DataInput{Name: h.Name, Source: "route"})
		}

		if strings.Contains(lower, "memo") || strings.Contains(lower, "callback") {
			flow.Transformations = append(flow.Transformations, "memoization")
		}
		if strings.Contains(lower, "valid") {
			flow.Transformations = append(flow.Transformations, "validation")
		}
		if strings.Contains(lower, "effect") {
			flow.HasSideEffects = true
		}
	}

	if hasStateBinding(c) {
		flow.Outputs = append(flow.Outputs, "state_update")
	}
	if hasFetchBinding(c) {
		flow.Outputs = append(flow.Outputs, "api_call")
	}
	if hasBinding(c, "navigate") || hasBinding(c, "history") {
		flow.Outputs = append(flow.Outputs, "navigation")
	}
	if hasHandlers {
		flow.Outputs = append(flow.Outputs, "event")
	}

	return flow
}

// Helpers

func hookNames(c *facts.Component) []string {
	names := make([]string, 0, len(c.Hooks))
	for _, h := range c.Hooks {
		names = append(names, h.Name)
	}
	return names
}

func hasStateBinding(c *facts.Component) bool {
	return hasBinding(c, "state")
}

func hasBinding(c *facts.Component, substr string) bool {
	for _, h := range c.Hooks {
		if strings.Contains(strings.ToLower(h.Name), substr) {
			return true
		}
	}
	return false
}

func hasFetchBinding(c *facts.Component) bool {
	for _, h := range c.Hooks {
		if isFetchHook(strings.ToLower(h.Name)) {
			return true
		}
	}
	return false
}

func referencesModule(imports []string, substrs ...string) bool {
	for _, imp := range imports {
		lower := strings.ToLower(imp)
		for _, s := range substrs {
			if strings.Contains(lower, s) {
				return true
			}
		}
	}
	return false
}

func containsAny(s string, substrs ...string) bool {
	for _, sub := range substrs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
