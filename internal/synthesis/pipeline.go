// Package synthesis orchestrates the business graph synthesis pipeline.
package synthesis

import (
	"time"

	"github.com/seergraph/seer-go/internal/bizgraph"
	"github.com/seergraph/seer-go/internal/facts"
	"github.com/seergraph/seer-go/internal/journey"
	"github.com/seergraph/seer-go/internal/mapper"
)

// PipelineResult summarizes a synthesis run.
type PipelineResult struct {
	Components   int     `json:"components"`
	Features     int     `json:"features"`
	Domains      int     `json:"domains"`
	Journeys     int     `json:"journeys"`
	Patterns     int     `json:"patterns"`
	Nodes        int     `json:"nodes"`
	Edges        int     `json:"edges"`
	DurationSecs float64 `json:"durationSecs"`
}

// ProgressCallback is called with phase name and progress (0.0-1.0).
type ProgressCallback func(phase string, progress float64)

// RunPipeline runs the full synthesis pipeline: component mapping, feature
// identification, domain clustering, journey tracing, and graph assembly.
//
// The pipeline is a pure transform over the facts document: it performs no
// I/O, never fails on the happy path, and degrades to a smaller graph when
// facts are missing.
func RunPipeline(doc *facts.Document, cfg *Config, progress ProgressCallback) (*bizgraph.Graph, *PipelineResult) {
	start := time.Now()
	result := &PipelineResult{}

	report := func(phase string, pct float64) {
		if progress != nil {
			progress(phase, pct)
		}
	}

	report("Mapping components", 0.0)
	m := mapper.NewMapper()
	mappings := m.MapComponents(doc)
	result.Components = len(mappings)
	report("Mapping components", 1.0)

	report("Identifying features", 0.0)
	features := m.IdentifyBusinessFeatures(mappings, doc.Capabilities, doc.StoriesByID())
	features = m.CreateFeatureRelationships(features, doc.Capabilities)
	result.Features = len(features)
	report("Identifying features", 1.0)

	report("Clustering domains", 0.0)
	domains := m.IdentifyBusinessDomains(features)
	result.Domains = len(domains)
	report("Clustering domains", 1.0)

	report("Tracing journeys", 0.0)
	tracer := journey.NewTracer(
		journey.WithEntryMarkers(cfg.EntryMarkers...),
		journey.WithDefaultPersona(cfg.DefaultPersona),
	)
	journeyMap := tracer.TraceJourneys(doc, mappings)
	result.Journeys = len(journeyMap.Journeys)
	result.Patterns = len(journeyMap.Patterns)
	report("Tracing journeys", 1.0)

	report("Building graph", 0.0)
	builder := bizgraph.NewBuilder(
		bizgraph.WithLayoutWidth(cfg.LayoutWidth),
		bizgraph.WithProvenance(cfg.Provenance),
	)
	graph := builder.BuildGraph(
		&bizgraph.BusinessContext{
			Stories:      doc.UserStories,
			Capabilities: doc.Capabilities,
			Entities:     doc.DataEntities,
			Rules:        doc.Rules,
			Personas:     doc.Personas,
		},
		&bizgraph.ComponentGraph{
			Mappings: mappings,
			Features: features,
			Domains:  domains,
		},
		journeyMap,
	)
	report("Building graph", 1.0)

	result.Nodes = graph.Metadata.Statistics.NodeCount
	result.Edges = graph.Metadata.Statistics.EdgeCount
	result.DurationSecs = time.Since(start).Seconds()

	return graph, result
}
