package journey

import (
	"sort"
	"strings"
)

// MinePatterns extracts every contiguous length-2 and length-3 step-type
// subsequence from each journey and promotes any subsequence appearing in
// more than one journey to a shared pattern.
func MinePatterns(journeys []UserJourney) []JourneyPattern {
	// key -> set of journey IDs, plus total occurrence count.
	sightings := make(map[string]map[string]bool)
	occurrences := make(map[string]int)

	for _, j := range journeys {
		for _, length := range []int{2, 3} {
			for start := 0; start+length <= len(j.Steps); start++ {
				key := encodeSequence(j.Steps[start : start+length])
				if sightings[key] == nil {
					sightings[key] = make(map[string]bool)
				}
				sightings[key][j.ID] = true
				occurrences[key]++
			}
		}
	}

	var patterns []JourneyPattern
	for key, ids := range sightings {
		if len(ids) < 2 {
			continue
		}
		journeyIDs := make([]string, 0, len(ids))
		for id := range ids {
			journeyIDs = append(journeyIDs, id)
		}
		sort.Strings(journeyIDs)
		patterns = append(patterns, JourneyPattern{
			Key:         key,
			Journeys:    journeyIDs,
			Occurrences: occurrences[key],
		})
	}

	sort.Slice(patterns, func(i, k int) bool {
		return patterns[i].Key < patterns[k].Key
	})
	return patterns
}

// encodeSequence keys a step subsequence by each step's type and the first
// word of its description.
func encodeSequence(steps []JourneyStep) string {
	parts := make([]string, 0, len(steps))
	for _, s := range steps {
		parts = append(parts, string(s.Type)+":"+firstWord(s.Description))
	}
	return strings.Join(parts, "->")
}

func firstWord(s string) string {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}
