// Package facts defines the structural and business fact inputs for Seer.
//
// Facts are produced by out-of-scope collaborators (the source parser and
// the requirement-text extractor) and are consumed read-only. Missing fields
// decode to zero values; the synthesis core never validates them.
package facts

// Prop is a declared component input.
type Prop struct {
	// Name is the prop name (e.g., "onSubmit", "items").
	Name string `json:"name"`

	// Type is the declared type, if known.
	Type string `json:"type"`
}

// Hook is a stateful binding on a component (state, effect, context, data
// fetching, and so on).
type Hook struct {
	// Name is the hook name (e.g., "useState", "useEffect").
	Name string `json:"name"`

	// DependsOn lists the binding's declared dependencies.
	DependsOn []string `json:"dependsOn,omitempty"`
}

// Component is a structural code unit with declared inputs, internal
// stateful bindings, and nested child units.
type Component struct {
	// Name is the component name and its unique key.
	Name string `json:"name"`

	// FilePath is the path to the file defining the component.
	FilePath string `json:"filePath"`

	// Type is the structural kind reported by the parser.
	Type string `json:"type"`

	// Props are the declared inputs.
	Props []Prop `json:"props,omitempty"`

	// Hooks are the stateful bindings.
	Hooks []Hook `json:"hooks,omitempty"`

	// Children are the names of nested child components.
	Children []string `json:"children,omitempty"`
}

// DataFlow is a directed data-flow fact between two components.
type DataFlow struct {
	From string `json:"from"`
	To   string `json:"to"`
	Type string `json:"type"`
	Data string `json:"data"`
}

// UserStory is an extracted user story, consumed as-is.
type UserStory struct {
	ID       string   `json:"id"`
	Title    string   `json:"title"`
	Priority string   `json:"priority"`
	Personas []string `json:"personas,omitempty"`
}

// BusinessCapability is an extracted capability, consumed as-is.
type BusinessCapability struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	Description   string   `json:"description,omitempty"`
	BusinessValue string   `json:"businessValue"`
	UserStories   []string `json:"userStories,omitempty"`
	Components    []string `json:"components,omitempty"`
	DataEntities  []string `json:"dataEntities,omitempty"`

	// DependsOn lists IDs of capabilities this one declares a dependency on.
	DependsOn []string `json:"dependsOn,omitempty"`
}

// DataEntity is an extracted business data entity.
type DataEntity struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Attributes []string `json:"attributes,omitempty"`
	Operations []string `json:"operations,omitempty"`
}

// BusinessRule is an extracted business rule.
type BusinessRule struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Entities    []string `json:"entities,omitempty"`
	Components  []string `json:"components,omitempty"`
}

// Document bundles every fact the synthesis pipeline consumes.
type Document struct {
	Components   []Component          `json:"components,omitempty"`
	DataFlows    []DataFlow           `json:"dataFlows,omitempty"`
	UserStories  []UserStory          `json:"userStories,omitempty"`
	Capabilities []BusinessCapability `json:"capabilities,omitempty"`
	DataEntities []DataEntity         `json:"dataEntities,omitempty"`
	Rules        []BusinessRule       `json:"businessRules,omitempty"`
	Personas     []string             `json:"personas,omitempty"`

	// Imports maps a component name to the module paths it references,
	// used by interaction-pattern extraction.
	Imports map[string][]string `json:"imports,omitempty"`
}

// ComponentByName returns the component with the given name, or nil.
func (d *Document) ComponentByName(name string) *Component {
	for i := range d.Components {
		if d.Components[i].Name == name {
			return &d.Components[i]
		}
	}
	return nil
}

// StoriesByID indexes user stories by ID.
func (d *Document) StoriesByID() map[string]UserStory {
	m := make(map[string]UserStory, len(d.UserStories))
	for _, s := range d.UserStories {
		m[s.ID] = s
	}
	return m
}
