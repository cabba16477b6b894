package journey

import (
	"fmt"
	"strings"

	"github.com/seergraph/seer-go/internal/facts"
	"github.com/seergraph/seer-go/internal/mapper"
)

// Fixed duration estimates per interaction pattern type, in seconds.
var stepDurations = map[mapper.PatternType]int{
	mapper.PatternUserInput:       5,
	mapper.PatternAPICall:         3,
	mapper.PatternDisplay:         2,
	mapper.PatternNavigation:      1,
	mapper.PatternStateManagement: 1,
}

// Fixed step-type lookup per interaction pattern type.
var stepTypes = map[mapper.PatternType]StepType{
	mapper.PatternUserInput:       StepInteraction,
	mapper.PatternDisplay:         StepProcess,
	mapper.PatternStateManagement: StepProcess,
	mapper.PatternNavigation:      StepNavigation,
	mapper.PatternAPICall:         StepDataOperation,
}

// Tracer traces user journeys over the component hierarchy.
type Tracer struct {
	classifier mapper.Classifier

	// extraEntryMarkers are additional name substrings treated as
	// entry points, on top of the built-in set.
	extraEntryMarkers []string

	defaultPersona string
}

// TracerOption configures a Tracer.
type TracerOption func(*Tracer)

// WithEntryMarkers adds extra entry-point name markers.
func WithEntryMarkers(markers ...string) TracerOption {
	return func(t *Tracer) {
		t.extraEntryMarkers = append(t.extraEntryMarkers, markers...)
	}
}

// WithDefaultPersona overrides the persona assigned when the facts carry none.
func WithDefaultPersona(persona string) TracerOption {
	return func(t *Tracer) {
		t.defaultPersona = persona
	}
}

// NewTracer creates a Tracer.
func NewTracer(opts ...TracerOption) *Tracer {
	t := &Tracer{
		classifier:     mapper.NewHeuristicClassifier(),
		defaultPersona: "user",
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// TraceJourneys traces one journey per entry point and derives patterns,
// journey relationships, and the cross-journey data-flow graph.
func (t *Tracer) TraceJourneys(doc *facts.Document, mappings map[string]*mapper.ComponentMapping) *JourneyMap {
	persona := t.defaultPersona
	if len(doc.Personas) > 0 {
		persona = doc.Personas[0]
	}

	entries := t.FindEntryPoints(doc)

	journeys := make([]UserJourney, 0, len(entries))
	for i, entry := range entries {
		j := t.TraceJourney(doc, mappings, entry, persona)
		j.ID = fmt.Sprintf("journey-%d", i)
		journeys = append(journeys, j)
	}

	return &JourneyMap{
		Journeys:      journeys,
		Patterns:      MinePatterns(journeys),
		Relationships: relateJourneys(journeys),
		FlowGraph:     t.BuildDataFlowGraph(journeys),
	}
}

// FindEntryPoints returns the names of components heuristically identified
// as the start of a user-facing flow: page/view/screen/dashboard/home names,
// or a root-level form or list with no parent reference.
func (t *Tracer) FindEntryPoints(doc *facts.Document) []string {
	hasParent := make(map[string]bool)
	for _, c := range doc.Components {
		for _, child := range c.Children {
			hasParent[child] = true
		}
	}

	markers := append([]string{"page", "view", "screen", "dashboard", "home"}, t.extraEntryMarkers...)

	var entries []string
	for _, c := range doc.Components {
		lower := strings.ToLower(c.Name)

		matched := false
		for _, marker := range markers {
			if strings.Contains(lower, marker) {
				matched = true
				break
			}
		}

		if !matched && !hasParent[c.Name] {
			if strings.Contains(lower, "form") || strings.Contains(lower, "list") {
				matched = true
			}
		}

		if matched {
			entries = append(entries, c.Name)
		}
	}

	return entries
}

// TraceJourney walks the component-child hierarchy depth-first from one
// entry point. The walk uses an explicit stack and a visited set, so it
// terminates even over cyclic component references.
func (t *Tracer) TraceJourney(
	doc *facts.Document,
	mappings map[string]*mapper.ComponentMapping,
	entry, persona string,
) UserJourney {
	j := UserJourney{
		Name:    "Journey from " + entry,
		Persona: persona,
		Trigger: "navigates to " + entry,
	}

	if m, ok := mappings[entry]; ok {
		j.Goal = m.Purpose
	}
	if requiresAuthentication(entry) {
		j.Preconditions = append(j.Preconditions, "authenticated session")
	}

	visited := make(map[string]bool)
	stack := []string{entry}

	for len(stack) > 0 {
		name := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if visited[name] {
			continue
		}
		visited[name] = true

		if m, ok := mappings[name]; ok {
			for _, p := range m.Patterns {
				j.Steps = append(j.Steps, makeStep(len(j.Steps), name, p))
			}
		}

		// Push children in reverse so traversal order matches
		// declaration order.
		if c := doc.ComponentByName(name); c != nil {
			for i := len(c.Children) - 1; i >= 0; i-- {
				if !visited[c.Children[i]] {
					stack = append(stack, c.Children[i])
				}
			}
		}
	}

	j.DataFlows = deriveDataFlows(j.Steps)
	j.Metrics = computeMetrics(j.Steps)
	j.Outcomes = deriveOutcomes(j.Metrics)
	j.Alternatives = deriveAlternatives(j.Steps)

	return j
}

// makeStep converts one interaction pattern into a journey step.
func makeStep(order int, component string, p mapper.InteractionPattern) JourneyStep {
	desc := string(p.Type) + " on " + component
	if len(p.Outcomes) > 0 {
		desc = p.Outcomes[0] + " on " + component
	}

	return JourneyStep{
		Order:        order,
		Component:    component,
		Type:         stepTypes[p.Type],
		Description:  desc,
		Operation:    inferOperation(component, p),
		DurationSecs: stepDurations[p.Type],
	}
}

// inferOperation picks a data operation by name-substring match over the
// component and trigger names.
func inferOperation(component string, p mapper.InteractionPattern) DataOperation {
	subject := strings.ToLower(component)
	for _, trigger := range p.Triggers {
		subject += " " + strings.ToLower(trigger)
	}

	switch {
	case containsAny(subject, "add", "create", "new", "submit"):
		return OpCreate
	case containsAny(subject, "edit", "update", "save", "toggle"):
		return OpUpdate
	case containsAny(subject, "delete", "remove", "clear"):
		return OpDelete
	case strings.Contains(subject, "valid"):
		return OpValidate
	default:
		return OpRead
	}
}

// deriveDataFlows records a flow for each consecutive step pair that
// crosses a component boundary.
func deriveDataFlows(steps []JourneyStep) []JourneyDataFlow {
	var flows []JourneyDataFlow
	for i := 0; i+1 < len(steps); i++ {
		if steps[i].Component == steps[i+1].Component {
			continue
		}
		flows = append(flows, JourneyDataFlow{
			From: steps[i].Component,
			To:   steps[i+1].Component,
			Data: string(steps[i].Operation),
		})
	}
	return flows
}

func computeMetrics(steps []JourneyStep) JourneyMetrics {
	m := JourneyMetrics{StepCount: len(steps)}
	for _, s := range steps {
		m.DurationSecs += s.DurationSecs
		if isDecisionPoint(s) {
			m.DecisionPoints++
		}
		if s.Type == StepDataOperation {
			m.IntegrationPoints++
		}
	}
	return m
}

// isDecisionPoint reports whether a step can branch: user interactions and
// data operations can both fail or diverge.
func isDecisionPoint(s JourneyStep) bool {
	return s.Type == StepInteraction || s.Type == StepDataOperation
}

// deriveOutcomes always yields a success outcome, adds a failure outcome
// when the journey touches an integration point, and a partial outcome when
// the journey is long enough to abandon midway.
func deriveOutcomes(m JourneyMetrics) []JourneyOutcome {
	outcomes := []JourneyOutcome{
		{Type: "success", Description: "user completes the journey"},
	}
	if m.IntegrationPoints > 0 {
		outcomes = append(outcomes, JourneyOutcome{
			Type:        "failure",
			Description: "a remote call fails before completion",
		})
	}
	if m.StepCount > 3 {
		outcomes = append(outcomes, JourneyOutcome{
			Type:        "partial",
			Description: "user abandons the journey midway",
		})
	}
	return outcomes
}

// deriveAlternatives synthesizes a fixed two-step error-handling branch for
// every decision-point step, looping back to the original step.
func deriveAlternatives(steps []JourneyStep) []AlternativePath {
	var paths []AlternativePath
	for _, s := range steps {
		if !isDecisionPoint(s) {
			continue
		}
		paths = append(paths, AlternativePath{
			FromStep: s.Order,
			Steps: []JourneyStep{
				{
					Order:        0,
					Component:    s.Component,
					Type:         StepProcess,
					Description:  "display error on " + s.Component,
					Operation:    OpRead,
					DurationSecs: stepDurations[mapper.PatternDisplay],
				},
				{
					Order:        1,
					Component:    s.Component,
					Type:         StepInteraction,
					Description:  "retry on " + s.Component,
					Operation:    s.Operation,
					DurationSecs: stepDurations[mapper.PatternUserInput],
				},
			},
			ReturnsTo:   s.Order,
			Probability: 0.1,
			Description: "error handling",
		})
	}
	return paths
}

// requiresAuthentication flags entry components that imply a signed-in user.
func requiresAuthentication(name string) bool {
	return containsAny(strings.ToLower(name), "dashboard", "profile", "account", "settings", "admin")
}

// relateJourneys links journeys: leads_to when one journey's last step
// component equals another's first step component (name equality, so name
// collisions can produce spurious links), and requires when an
// authentication precondition points at a login journey.
func relateJourneys(journeys []UserJourney) []JourneyRelationship {
	var rels []JourneyRelationship
	for i := range journeys {
		for k := range journeys {
			if i == k {
				continue
			}
			a, b := &journeys[i], &journeys[k]

			if len(a.Steps) > 0 && len(b.Steps) > 0 &&
				a.Steps[len(a.Steps)-1].Component == b.Steps[0].Component {
				rels = append(rels, JourneyRelationship{From: a.ID, To: b.ID, Type: "leads_to"})
			}

			if mentionsAuthentication(a.Preconditions) &&
				strings.Contains(strings.ToLower(b.Name), "login") {
				rels = append(rels, JourneyRelationship{From: a.ID, To: b.ID, Type: "requires"})
			}
		}
	}
	return rels
}

func mentionsAuthentication(preconditions []string) bool {
	for _, p := range preconditions {
		if strings.Contains(strings.ToLower(p), "auth") {
			return true
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
