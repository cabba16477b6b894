package mapper

import (
	"sort"
	"strings"

	"github.com/seergraph/seer-go/internal/facts"
)

// UIInfrastructureID is the ID of the implicit catch-all feature that
// collects components not claimed by any capability.
const UIInfrastructureID = "feature-ui-infrastructure"

// Priority weights for story contributions to business value.
var priorityWeights = map[string]int{
	"critical": 10,
	"high":     7,
	"medium":   4,
	"low":      1,
}

// Per-type complexity weights.
var typeComplexity = map[ComponentType]int{
	TypeHybrid:         8,
	TypeContainer:      5,
	TypeFunctional:     3,
	TypePresentational: 2,
}

// IdentifyBusinessFeatures groups component mappings into features, one per
// capability, plus the implicit "UI Infrastructure" feature for everything
// a capability did not claim. Every component ends up in exactly one
// feature; when several capabilities reference the same component the first
// capability (in input order) wins.
func (m *Mapper) IdentifyBusinessFeatures(
	mappings map[string]*ComponentMapping,
	caps []facts.BusinessCapability,
	stories map[string]facts.UserStory,
) []BusinessFeature {
	features := make([]BusinessFeature, 0, len(caps)+1)
	claimed := make(map[string]bool, len(mappings))

	for _, cap := range caps {
		feature := BusinessFeature{
			ID:                 "feature-" + cap.ID,
			Name:               cap.Name,
			Category:           featureCategory(cap.BusinessValue),
			UserStories:        cap.UserStories,
			DataEntities:       cap.DataEntities,
			DeclaredComponents: cap.Components,
		}

		for _, name := range cap.Components {
			mapping, ok := mappings[name]
			if !ok || claimed[name] {
				continue
			}
			claimed[name] = true
			feature.Components = append(feature.Components, mapping)
		}

		feature.BusinessValue = computeBusinessValue(cap, stories)
		feature.TechnicalComplexity = computeComplexity(feature.Components)
		feature.Metrics = computeFeatureMetrics(feature.Components)
		features = append(features, feature)
	}

	// Catch-all feature guarantees full component coverage.
	var unclaimed []*ComponentMapping
	names := make([]string, 0, len(mappings))
	for name := range mappings {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if !claimed[name] {
			unclaimed = append(unclaimed, mappings[name])
		}
	}
	if len(unclaimed) > 0 {
		infra := BusinessFeature{
			ID:                  UIInfrastructureID,
			Name:                "UI Infrastructure",
			Category:            CategoryUtility,
			Components:          unclaimed,
			BusinessValue:       10,
			TechnicalComplexity: computeComplexity(unclaimed),
			Metrics:             computeFeatureMetrics(unclaimed),
		}
		features = append(features, infra)
	}

	return features
}

// featureCategory maps a capability's declared tier to a feature category.
func featureCategory(businessValue string) FeatureCategory {
	switch strings.ToLower(businessValue) {
	case "core":
		return CategoryCore
	case "supporting":
		return CategorySupporting
	default:
		return CategoryUtility
	}
}

// computeBusinessValue is the tier base plus story-priority weights,
// capped at 100.
func computeBusinessValue(cap facts.BusinessCapability, stories map[string]facts.UserStory) int {
	value := 10
	switch strings.ToLower(cap.BusinessValue) {
	case "core":
		value = 40
	case "supporting":
		value = 20
	}

	for _, id := range cap.UserStories {
		story, ok := stories[id]
		if !ok {
			continue
		}
		value += priorityWeights[strings.ToLower(story.Priority)]
	}

	if value > 100 {
		value = 100
	}
	return value
}

// computeComplexity sums per-component weights: type weight + 3 per
// interaction pattern + 2 per input + 5 per transformation, capped at 100.
func computeComplexity(components []*ComponentMapping) int {
	total := 0
	for _, c := range components {
		total += typeComplexity[c.Type]
		total += 3 * len(c.Patterns)
		total += 2 * len(c.DataFlow.Inputs)
		total += 5 * len(c.DataFlow.Transformations)
	}
	if total > 100 {
		total = 100
	}
	return total
}

func computeFeatureMetrics(components []*ComponentMapping) FeatureMetrics {
	metrics := FeatureMetrics{ComponentCount: len(components)}
	for _, c := range components {
		metrics.PatternCount += len(c.Patterns)
		metrics.TransformationCount += len(c.DataFlow.Transformations)
		for _, p := range c.Patterns {
			if p.Type == PatternAPICall {
				metrics.IntegrationPoints++
			}
		}
	}
	return metrics
}

// CreateFeatureRelationships scans every ordered feature pair and records
// the first matching relationship per pair. Precedence: declared capability
// dependency, then shared-component overlap, then shared-data-entity
// overlap. Direction follows outer-loop iteration order.
func (m *Mapper) CreateFeatureRelationships(features []BusinessFeature, caps []facts.BusinessCapability) []BusinessFeature {
	declared := make(map[string]map[string]bool, len(caps))
	// Capability-declared component lists may overlap even though feature
	// ownership is exclusive; overlap detection uses the declared lists.
	declaredComponents := make(map[string][]string, len(caps))
	for _, cap := range caps {
		id := "feature-" + cap.ID
		declaredComponents[id] = cap.Components
		if len(cap.DependsOn) == 0 {
			continue
		}
		declared[id] = make(map[string]bool, len(cap.DependsOn))
		for _, dep := range cap.DependsOn {
			declared[id]["feature-"+dep] = true
		}
	}

	componentsOf := func(f *BusinessFeature) []string {
		if names, ok := declaredComponents[f.ID]; ok {
			return names
		}
		return f.ComponentNames()
	}

	for i := range features {
		for j := range features {
			if i == j {
				continue
			}
			a, b := &features[i], &features[j]

			if declared[a.ID][b.ID] {
				a.Dependencies = append(a.Dependencies, FeatureDependency{
					FeatureID: b.ID,
					Type:      "depends_on",
					Strength:  1.0,
				})
				continue
			}

			aComps, bComps := componentsOf(a), componentsOf(b)
			if shared := sharedStrings(aComps, bComps); shared > 0 {
				maxSize := len(aComps)
				if len(bComps) > maxSize {
					maxSize = len(bComps)
				}
				a.Dependencies = append(a.Dependencies, FeatureDependency{
					FeatureID: b.ID,
					Type:      "complements",
					Strength:  float64(shared) / float64(maxSize),
				})
				continue
			}

			if sharedStrings(a.DataEntities, b.DataEntities) > 0 {
				a.Dependencies = append(a.Dependencies, FeatureDependency{
					FeatureID: b.ID,
					Type:      "complements",
					Strength:  0.5,
				})
			}
		}
	}

	return features
}

func sharedStrings(a, b []string) int {
	set := make(map[string]bool, len(a))
	for _, s := range a {
		set[s] = true
	}
	count := 0
	for _, s := range b {
		if set[s] {
			count++
		}
	}
	return count
}
