// Package journey traces user journeys through the component hierarchy.
//
// It identifies entry-point components, walks their descendant graphs to
// produce ordered journey steps, mines cross-journey patterns, and builds a
// deduplicated data-flow graph across all journeys.
package journey

// StepType classifies a journey step.
type StepType string

const (
	StepInteraction   StepType = "interaction"
	StepProcess       StepType = "process"
	StepNavigation    StepType = "navigation"
	StepDataOperation StepType = "data_operation"
)

// DataOperation is the inferred data effect of a step.
type DataOperation string

const (
	OpCreate   DataOperation = "create"
	OpRead     DataOperation = "read"
	OpUpdate   DataOperation = "update"
	OpDelete   DataOperation = "delete"
	OpValidate DataOperation = "validate"
)

// JourneyStep is one step in a traced journey. Step order is traversal
// order, not verified temporal causality.
type JourneyStep struct {
	// Order is the zero-based position within the journey.
	Order int `json:"order"`

	// Component is the component the step occurs on.
	Component string `json:"component"`

	Type        StepType      `json:"type"`
	Description string        `json:"description"`
	Operation   DataOperation `json:"operation"`

	// DurationSecs is a fixed per-pattern-type estimate.
	DurationSecs int `json:"durationSecs"`
}

// JourneyDataFlow records data moving between two consecutive steps.
type JourneyDataFlow struct {
	From string `json:"from"`
	To   string `json:"to"`
	Data string `json:"data"`
}

// JourneyOutcome is a possible end state of a journey.
type JourneyOutcome struct {
	// Type is success, failure, or partial.
	Type        string `json:"type"`
	Description string `json:"description"`
}

// AlternativePath is a synthesized branch off a decision-point step that
// loops back to the original step.
type AlternativePath struct {
	// FromStep is the order of the decision-point step.
	FromStep int `json:"fromStep"`

	Steps []JourneyStep `json:"steps"`

	// ReturnsTo is the step order the path loops back to.
	ReturnsTo   int     `json:"returnsTo"`
	Probability float64 `json:"probability"`
	Description string  `json:"description"`
}

// JourneyMetrics carries per-journey aggregates.
type JourneyMetrics struct {
	StepCount         int `json:"stepCount"`
	DurationSecs      int `json:"durationSecs"`
	DecisionPoints    int `json:"decisionPoints"`
	IntegrationPoints int `json:"integrationPoints"`
}

// UserJourney is an ordered sequence of inferred user-facing steps traced
// from one entry-point component.
type UserJourney struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Persona string `json:"persona"`
	Goal    string `json:"goal"`
	Trigger string `json:"trigger"`

	// Preconditions are trigger preconditions (e.g., an authenticated
	// session).
	Preconditions []string `json:"preconditions,omitempty"`

	Steps        []JourneyStep     `json:"steps"`
	DataFlows    []JourneyDataFlow `json:"dataFlows,omitempty"`
	Outcomes     []JourneyOutcome  `json:"outcomes"`
	Alternatives []AlternativePath `json:"alternatives,omitempty"`
	Metrics      JourneyMetrics    `json:"metrics"`
}

// JourneyPattern is a step-type subsequence shared by more than one journey.
type JourneyPattern struct {
	// Key encodes the (type, first word of description) sequence.
	Key string `json:"key"`

	// Journeys lists the IDs of journeys exhibiting the pattern.
	Journeys []string `json:"journeys"`

	Occurrences int `json:"occurrences"`
}

// JourneyRelationship links two journeys.
type JourneyRelationship struct {
	From string `json:"from"`
	To   string `json:"to"`

	// Type is leads_to or requires.
	Type string `json:"type"`
}

// FlowNode is a component appearing in any journey step.
type FlowNode struct {
	Component string `json:"component"`

	// Domain is inferred from the component name.
	Domain string `json:"domain"`
}

// FlowEdge is a deduplicated step-to-step transition. One edge per (from,to)
// pair across all journeys; per-journey attribution is not retained.
type FlowEdge struct {
	From        string `json:"from"`
	To          string `json:"to"`
	Criticality string `json:"criticality"`
}

// FlowCluster groups flow nodes sharing a name-inferred domain.
type FlowCluster struct {
	Name       string   `json:"name"`
	Components []string `json:"components"`
}

// DataFlowGraph is the cross-journey transition graph.
type DataFlowGraph struct {
	Nodes    []FlowNode    `json:"nodes"`
	Edges    []FlowEdge    `json:"edges"`
	Clusters []FlowCluster `json:"clusters,omitempty"`
}

// JourneyMap bundles every tracer output.
type JourneyMap struct {
	Journeys      []UserJourney         `json:"journeys"`
	Patterns      []JourneyPattern      `json:"patterns,omitempty"`
	Relationships []JourneyRelationship `json:"relationships,omitempty"`
	FlowGraph     DataFlowGraph         `json:"flowGraph"`
}
