// Package mapper maps structural component facts to business-level
// features and domains.
//
// It classifies each component, infers its responsibility and purpose,
// derives interaction and data-flow patterns, and groups the resulting
// mappings (together with externally supplied capabilities and stories)
// into business features and domains.
package mapper

// ComponentType classifies the structural role of a component.
type ComponentType string

const (
	TypeContainer      ComponentType = "container"
	TypePresentational ComponentType = "presentational"
	TypeFunctional     ComponentType = "functional"
	TypeHybrid         ComponentType = "hybrid"
)

// PatternType identifies a kind of component interaction.
type PatternType string

const (
	PatternUserInput       PatternType = "user_input"
	PatternDisplay         PatternType = "display"
	PatternNavigation      PatternType = "navigation"
	PatternStateManagement PatternType = "state_management"
	PatternAPICall         PatternType = "api_call"
)

// InteractionPattern describes one way a component interacts with users
// or the system. A component may carry several patterns at once.
type InteractionPattern struct {
	Type     PatternType `json:"type"`
	Triggers []string    `json:"triggers,omitempty"`
	Outcomes []string    `json:"outcomes,omitempty"`
}

// DataInput records where one component input comes from.
type DataInput struct {
	Name string `json:"name"`

	// Source is one of props, state, context, api, route.
	Source string `json:"source"`
}

// DataFlowPattern summarizes how data moves through a component.
type DataFlowPattern struct {
	Inputs          []DataInput `json:"inputs,omitempty"`
	Transformations []string    `json:"transformations,omitempty"`
	Outputs         []string    `json:"outputs,omitempty"`
	HasSideEffects  bool        `json:"hasSideEffects"`
}

// ComponentMapping is the per-component result of a mapping pass.
// Mappings are created once and not mutated afterwards.
type ComponentMapping struct {
	// ComponentName is the unique key of the mapped component.
	ComponentName string `json:"componentName"`

	// Type is the classified structural role.
	Type ComponentType `json:"type"`

	// Responsibility is the inferred technical responsibility.
	Responsibility string `json:"responsibility"`

	// Purpose is the inferred business purpose. Heuristic, low confidence.
	Purpose string `json:"purpose"`

	Patterns []InteractionPattern `json:"patterns,omitempty"`
	DataFlow DataFlowPattern      `json:"dataFlow"`
}

// FeatureCategory ranks a feature's business tier.
type FeatureCategory string

const (
	CategoryCore       FeatureCategory = "core"
	CategorySupporting FeatureCategory = "supporting"
	CategoryUtility    FeatureCategory = "utility"
)

// FeatureDependency is a directed relationship between two features.
type FeatureDependency struct {
	// FeatureID is the related feature.
	FeatureID string `json:"featureId"`

	// Type is depends_on or complements.
	Type string `json:"type"`

	// Strength is in [0,1].
	Strength float64 `json:"strength"`
}

// FeatureMetrics carries per-feature aggregates.
type FeatureMetrics struct {
	ComponentCount      int `json:"componentCount"`
	PatternCount        int `json:"patternCount"`
	IntegrationPoints   int `json:"integrationPoints"`
	TransformationCount int `json:"transformationCount"`
}

// BusinessFeature groups components under one capability.
//
// Every component belongs to exactly one feature; components not claimed
// by any capability land in the implicit "UI Infrastructure" feature.
type BusinessFeature struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Category FeatureCategory `json:"category"`

	Components   []*ComponentMapping `json:"components,omitempty"`
	UserStories  []string            `json:"userStories,omitempty"`
	DataEntities []string            `json:"dataEntities,omitempty"`

	// DeclaredComponents is the capability-declared component list. Owned
	// Components are exclusive, so overlap checks run over declared lists.
	DeclaredComponents []string `json:"declaredComponents,omitempty"`

	// BusinessValue is in [0,100].
	BusinessValue int `json:"businessValue"`

	// TechnicalComplexity is in [0,100].
	TechnicalComplexity int `json:"technicalComplexity"`

	Dependencies []FeatureDependency `json:"dependencies,omitempty"`
	Metrics      FeatureMetrics      `json:"metrics"`
}

// ComponentNames returns the names of the feature's components.
func (f *BusinessFeature) ComponentNames() []string {
	names := make([]string, 0, len(f.Components))
	for _, m := range f.Components {
		names = append(names, m.ComponentName)
	}
	return names
}

// BusinessDomain is a named cluster of features and their components.
type BusinessDomain struct {
	Name     string   `json:"name"`
	Features []string `json:"features,omitempty"`

	// CoreComponents appear in more than one feature within the domain.
	CoreComponents []string `json:"coreComponents,omitempty"`

	// BoundaryComponents exhibit an api_call pattern and so touch the
	// outside world.
	BoundaryComponents []string `json:"boundaryComponents,omitempty"`

	// Vocabulary is the extracted domain vocabulary.
	Vocabulary []string `json:"vocabulary,omitempty"`
}
