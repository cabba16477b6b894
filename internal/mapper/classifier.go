package mapper

import "strings"

// Signature is the minimal view of a component a Classifier gets to see.
type Signature struct {
	// Name is the component name.
	Name string

	// Hooks are the binding names on the component.
	Hooks []string
}

// Classifier infers business-level categories from a component signature.
//
// The default implementation is a name-substring dictionary with a
// binding-based fallback. Keeping it behind an interface lets the heuristic
// be swapped for a rule-based or learned classifier without touching
// feature or graph assembly.
type Classifier interface {
	// Responsibility infers the technical responsibility.
	Responsibility(sig Signature) string

	// Purpose infers the business purpose.
	Purpose(sig Signature) string

	// Domain names the business domain a feature or component belongs to.
	Domain(name string) string
}

// HeuristicClassifier is the default substring-dictionary classifier.
type HeuristicClassifier struct{}

// NewHeuristicClassifier creates the default classifier.
func NewHeuristicClassifier() *HeuristicClassifier {
	return &HeuristicClassifier{}
}

// responsibilityRules maps name substrings to responsibilities.
// First match wins; order matters.
var responsibilityRules = []struct {
	substr string
	value  string
}{
	{"list", "display and manage a collection"},
	{"table", "display tabular data"},
	{"form", "collect and submit user input"},
	{"modal", "present focused dialog content"},
	{"button", "trigger a user action"},
	{"card", "summarize a single record"},
	{"detail", "present a single record in depth"},
	{"nav", "route the user between views"},
	{"menu", "route the user between views"},
	{"header", "frame page-level context"},
	{"footer", "frame page-level context"},
	{"search", "filter and locate records"},
	{"filter", "filter and locate records"},
	{"dashboard", "aggregate status at a glance"},
	{"chart", "visualize quantitative data"},
	{"page", "compose a full user-facing view"},
	{"view", "compose a full user-facing view"},
	{"screen", "compose a full user-facing view"},
}

// purposeRules maps name substrings to business purposes.
var purposeRules = []struct {
	substr string
	value  string
}{
	{"login", "authenticate the user"},
	{"auth", "authenticate the user"},
	{"signup", "register a new user"},
	{"register", "register a new user"},
	{"profile", "manage user identity"},
	{"account", "manage user identity"},
	{"cart", "assemble a purchase"},
	{"checkout", "complete a purchase"},
	{"payment", "complete a purchase"},
	{"order", "track a transaction"},
	{"product", "browse the catalog"},
	{"todo", "track work items"},
	{"task", "track work items"},
	{"settings", "configure preferences"},
	{"notification", "inform the user of events"},
	{"report", "summarize business outcomes"},
	{"dashboard", "summarize business outcomes"},
}

// domainRules maps name substrings to domain clusters.
var domainRules = []struct {
	substr string
	value  string
}{
	{"auth", "Identity & Access"},
	{"login", "Identity & Access"},
	{"user", "User Management"},
	{"profile", "User Management"},
	{"account", "User Management"},
	{"product", "Commerce"},
	{"cart", "Commerce"},
	{"order", "Commerce"},
	{"checkout", "Commerce"},
	{"payment", "Commerce"},
	{"todo", "Work Management"},
	{"task", "Work Management"},
	{"project", "Work Management"},
	{"dashboard", "Analytics"},
	{"report", "Analytics"},
	{"chart", "Analytics"},
	{"analytic", "Analytics"},
	{"notification", "Messaging"},
	{"message", "Messaging"},
	{"chat", "Messaging"},
}

// Responsibility implements Classifier.
func (c *HeuristicClassifier) Responsibility(sig Signature) string {
	lower := strings.ToLower(sig.Name)
	for _, rule := range responsibilityRules {
		if strings.Contains(lower, rule.substr) {
			return rule.value
		}
	}

	// Binding-based fallback when the name reveals nothing.
	for _, hook := range sig.Hooks {
		h := strings.ToLower(hook)
		if isFetchHook(h) {
			return "load and present remote data"
		}
		if strings.Contains(h, "context") {
			return "distribute shared application state"
		}
	}

	return "support the user interface"
}

// Purpose implements Classifier.
func (c *HeuristicClassifier) Purpose(sig Signature) string {
	lower := strings.ToLower(sig.Name)
	for _, rule := range purposeRules {
		if strings.Contains(lower, rule.substr) {
			return rule.value
		}
	}

	for _, hook := range sig.Hooks {
		if isFetchHook(strings.ToLower(hook)) {
			return "surface business data to the user"
		}
	}

	return "general user interface support"
}

// Domain implements Classifier.
func (c *HeuristicClassifier) Domain(name string) string {
	lower := strings.ToLower(name)
	for _, rule := range domainRules {
		if strings.Contains(lower, rule.substr) {
			return rule.value
		}
	}
	return "General"
}

// isFetchHook reports whether a binding name looks like remote data access.
func isFetchHook(name string) bool {
	return strings.Contains(name, "fetch") ||
		strings.Contains(name, "query") ||
		strings.Contains(name, "swr") ||
		strings.Contains(name, "api")
}
