package mapper

import (
	"sort"
	"strings"
)

// IdentifyBusinessDomains clusters features into named domains using the
// classifier's fixed name-substring categories (fallback "General").
//
// Within each domain, core components are those declared by more than one
// feature of the cluster; boundary components are those exhibiting an
// api_call pattern. Ownership is exclusive, so core detection counts over
// the capability-declared component lists, not the owned ones.
func (m *Mapper) IdentifyBusinessDomains(features []BusinessFeature) []BusinessDomain {
	byName := make(map[string]*BusinessDomain)

	for i := range features {
		f := &features[i]
		domainName := m.classifier.Domain(f.Name)

		domain, ok := byName[domainName]
		if !ok {
			domain = &BusinessDomain{Name: domainName}
			byName[domainName] = domain
		}
		domain.Features = append(domain.Features, f.ID)

		for _, c := range f.Components {
			for _, p := range c.Patterns {
				if p.Type == PatternAPICall {
					domain.BoundaryComponents = appendUnique(domain.BoundaryComponents, c.ComponentName)
					break
				}
			}
		}

		domain.Vocabulary = mergeVocabulary(domain.Vocabulary, f)
	}

	// Core components need a second pass: count appearances across the
	// cluster's features.
	domains := make([]BusinessDomain, 0, len(byName))
	names := make([]string, 0, len(byName))
	for name := range byName {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		domain := byName[name]
		counts := make(map[string]int)
		for i := range features {
			f := &features[i]
			if !containsString(domain.Features, f.ID) {
				continue
			}
			seen := make(map[string]bool)
			for _, comp := range declaredOrOwned(f) {
				if seen[comp] {
					continue
				}
				seen[comp] = true
				counts[comp]++
			}
		}
		var core []string
		for comp, n := range counts {
			if n > 1 {
				core = append(core, comp)
			}
		}
		sort.Strings(core)
		domain.CoreComponents = core
		domains = append(domains, *domain)
	}

	return domains
}

// declaredOrOwned prefers the capability-declared component list; features
// without one (UI infrastructure) fall back to owned components.
func declaredOrOwned(f *BusinessFeature) []string {
	if len(f.DeclaredComponents) > 0 {
		return f.DeclaredComponents
	}
	return f.ComponentNames()
}

// mergeVocabulary extracts lowercase words from the feature name and its
// data entities into the domain vocabulary.
func mergeVocabulary(vocab []string, f *BusinessFeature) []string {
	for _, word := range strings.Fields(strings.ToLower(f.Name)) {
		if len(word) > 2 {
			vocab = appendUnique(vocab, word)
		}
	}
	for _, entity := range f.DataEntities {
		vocab = appendUnique(vocab, strings.ToLower(entity))
	}
	return vocab
}

func appendUnique(list []string, s string) []string {
	for _, existing := range list {
		if existing == s {
			return list
		}
	}
	return append(list, s)
}

func containsString(list []string, s string) bool {
	for _, existing := range list {
		if existing == s {
			return true
		}
	}
	return false
}
