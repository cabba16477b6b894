// Package cmd provides CLI command implementations for Seer.
package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	"github.com/fatih/color"

	"github.com/seergraph/seer-go/internal/bizgraph"
	"github.com/seergraph/seer-go/internal/export"
	"github.com/seergraph/seer-go/internal/facts"
	"github.com/seergraph/seer-go/internal/storage"
	"github.com/seergraph/seer-go/internal/synthesis"
	"github.com/seergraph/seer-go/mcp"
)

// Version is set at build time via ldflags.
var Version = "dev"

// SynthCmd synthesizes a business graph from a facts file.
type SynthCmd struct {
	Facts  string `arg:"" optional:"" default:"facts.json" help:"Path to facts file"`
	Config string `short:"c" default:"seer.yaml" help:"Path to synthesis config"`
	Repo   string `default:"." help:"Repository the facts were extracted from (for provenance)"`
}

// Run executes the synth command.
func (c *SynthCmd) Run() error {
	ctx := context.Background()

	factsPath, err := filepath.Abs(c.Facts)
	if err != nil {
		return fmt.Errorf("resolving path: %w", err)
	}

	doc, err := facts.LoadDocument(factsPath)
	if err != nil {
		return fmt.Errorf("loading facts: %w", err)
	}

	cfg, err := synthesis.LoadConfig(c.Config)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	cfg.Provenance = synthesis.ReadProvenance(c.Repo)

	color.Green("Synthesizing %s", factsPath)

	// Create .seer directory
	seerDir, err := ensureSeerDir()
	if err != nil {
		return err
	}

	// Initialize BadgerDB snapshot store
	store := storage.NewBadgerStore()
	if err := store.Initialize(filepath.Join(seerDir, "badger"), false); err != nil {
		return fmt.Errorf("initializing storage: %w", err)
	}
	defer func() { _ = store.Close() }()

	progress := func(phase string, pct float64) {
		fmt.Printf("\r\033[K%s (%.0f%%)", phase, pct*100)
	}

	graph, result := synthesis.RunPipeline(doc, cfg, progress)

	fmt.Println() // Newline after progress

	meta := &storage.Meta{
		Version:   Version,
		FactsPath: factsPath,
		Result:    *result,
		SavedAt:   time.Now().UTC(),
	}

	if err := store.SaveGraph(ctx, graph, meta); err != nil {
		return fmt.Errorf("saving snapshot: %w", err)
	}

	// Write meta.json
	metaPath := filepath.Join(seerDir, "meta.json")
	metaJSON, _ := json.MarshalIndent(meta, "", "  ")
	if err := os.WriteFile(metaPath, metaJSON, 0o644); err != nil {
		return fmt.Errorf("writing meta.json: %w", err)
	}

	// Print summary
	color.Green("\n✓ Synthesis complete")
	fmt.Printf("  Components:  %d\n", result.Components)
	fmt.Printf("  Features:    %d\n", result.Features)
	fmt.Printf("  Domains:     %d\n", result.Domains)
	fmt.Printf("  Journeys:    %d\n", result.Journeys)
	fmt.Printf("  Nodes:       %d\n", result.Nodes)
	fmt.Printf("  Edges:       %d\n", result.Edges)
	fmt.Printf("  Duration:    %.2fs\n", result.DurationSecs)

	return nil
}

// ExportCmd exports the synthesized graph in a presentation format.
type ExportCmd struct {
	Format      string `short:"f" help:"Export format (json|cytoscape|d3|graphml|gexf|vis); defaults to the config's export.format"`
	Config      string `short:"c" default:"seer.yaml" help:"Path to synthesis config"`
	Output      string `short:"o" help:"Output file (default: stdout)"`
	NoMetadata  bool   `help:"Omit graph metadata and per-node data"`
	NoPositions bool   `help:"Omit layout positions"`
	NoMetrics   bool   `help:"Omit node metrics"`
	NoClusters  bool   `help:"Omit clusters"`
}

// Run executes the export command.
func (c *ExportCmd) Run() error {
	graph, _, err := loadSnapshot()
	if err != nil {
		return err
	}

	cfg, err := synthesis.LoadConfig(c.Config)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	format := c.Format
	if format == "" {
		format = cfg.Export.Format
	}

	// Config supplies the include defaults; --no-* flags force them off.
	opts := export.DefaultOptions()
	opts.Format = export.Format(format)
	opts.IncludeMetadata = includeFlag(cfg.Export.IncludeMetadata, c.NoMetadata)
	opts.IncludePositions = includeFlag(cfg.Export.IncludePositions, c.NoPositions)
	opts.IncludeMetrics = includeFlag(cfg.Export.IncludeMetrics, c.NoMetrics)
	opts.IncludeClusters = !c.NoClusters

	data, err := export.Export(graph, opts)
	if err != nil {
		return fmt.Errorf("exporting: %w", err)
	}

	if c.Output == "" {
		fmt.Println(string(data))
		return nil
	}

	if err := os.WriteFile(c.Output, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", c.Output, err)
	}
	color.Green("✓ Wrote %s (%d bytes)", c.Output, len(data))

	return nil
}

// FeaturesCmd lists synthesized business features.
type FeaturesCmd struct {
	Category string `help:"Filter by category (core|supporting|utility|integration)"`
}

// Run executes the features command.
func (c *FeaturesCmd) Run() error {
	graph, _, err := loadSnapshot()
	if err != nil {
		return err
	}

	features := nodesOfType(graph, bizgraph.NodeBusinessFeature)
	if len(features) == 0 {
		fmt.Println("No features found")
		return nil
	}

	// Highest business value first
	sort.SliceStable(features, func(i, j int) bool {
		return dataInt(features[i], "businessValue") > dataInt(features[j], "businessValue")
	})

	count := 0
	for _, n := range features {
		category, _ := n.Data["category"].(string)
		if c.Category != "" && category != c.Category {
			continue
		}
		count++

		fmt.Printf("\n%d. %s (%s)\n", count, n.Label, category)
		fmt.Printf("   ID:          %s\n", n.ID)
		fmt.Printf("   Value:       %d\n", dataInt(n, "businessValue"))
		fmt.Printf("   Complexity:  %d\n", dataInt(n, "technicalComplexity"))
		if n.Metrics != nil {
			fmt.Printf("   Importance:  %d\n", n.Metrics.Importance)
		}
	}

	if count == 0 {
		fmt.Printf("No features in category '%s'\n", c.Category)
	}

	return nil
}

// JourneysCmd lists traced user journeys.
type JourneysCmd struct {
	Persona string `help:"Filter by persona"`
}

// Run executes the journeys command.
func (c *JourneysCmd) Run() error {
	graph, _, err := loadSnapshot()
	if err != nil {
		return err
	}

	journeys := nodesOfType(graph, bizgraph.NodeUserJourney)
	if len(journeys) == 0 {
		fmt.Println("No journeys found")
		return nil
	}

	count := 0
	for _, n := range journeys {
		persona, _ := n.Data["persona"].(string)
		if c.Persona != "" && persona != c.Persona {
			continue
		}
		count++

		fmt.Printf("\n%d. %s\n", count, n.Label)
		fmt.Printf("   ID:       %s\n", n.ID)
		fmt.Printf("   Persona:  %s\n", persona)
		if trigger, ok := n.Data["trigger"].(string); ok && trigger != "" {
			fmt.Printf("   Trigger:  %s\n", trigger)
		}
		fmt.Printf("   Steps:    %d\n", dataInt(n, "stepCount"))
		if n.Description != "" {
			fmt.Printf("   Goal:     %s\n", n.Description)
		}
	}

	if count == 0 {
		fmt.Printf("No journeys for persona '%s'\n", c.Persona)
	}

	return nil
}

// StatsCmd shows snapshot statistics for the current directory.
type StatsCmd struct{}

// Run executes the stats command.
func (c *StatsCmd) Run() error {
	graph, meta, err := loadSnapshot()
	if err != nil {
		return err
	}

	stats := graph.Metadata.Statistics

	fmt.Println("## Business Graph Snapshot")
	if meta != nil {
		fmt.Printf("  Version:       %s\n", meta.Version)
		fmt.Printf("  Facts:         %s\n", meta.FactsPath)
		fmt.Printf("  Synthesized:   %s\n", meta.SavedAt.Format(time.RFC3339))
	}
	fmt.Println()
	fmt.Printf("  Nodes:         %d\n", stats.NodeCount)
	fmt.Printf("  Edges:         %d\n", stats.EdgeCount)
	fmt.Printf("  Density:       %.4f\n", stats.Density)
	fmt.Printf("  Connectivity:  %.2f avg\n", stats.AvgConnectivity)
	fmt.Printf("  Isolated:      %d\n", stats.IsolatedNodes)

	if len(stats.NodesByType) > 0 {
		fmt.Println("\n  Nodes by type:")
		for _, t := range bizgraph.NodeTypes {
			if n := stats.NodesByType[t]; n > 0 {
				fmt.Printf("    %-20s %d\n", string(t), n)
			}
		}
	}

	if prov := graph.Metadata.Provenance; prov.Commit != "" {
		fmt.Println("\n  Provenance:")
		fmt.Printf("    Commit:  %s\n", prov.Commit)
		if prov.Branch != "" {
			fmt.Printf("    Branch:  %s\n", prov.Branch)
		}
	}

	return nil
}

// WatchCmd re-synthesizes the graph whenever the facts file changes.
type WatchCmd struct {
	Facts  string `arg:"" optional:"" default:"facts.json" help:"Path to facts file"`
	Config string `short:"c" default:"seer.yaml" help:"Path to synthesis config"`
}

// Run executes the watch command.
func (c *WatchCmd) Run() error {
	factsPath, err := filepath.Abs(c.Facts)
	if err != nil {
		return fmt.Errorf("resolving path: %w", err)
	}

	cfg, err := synthesis.LoadConfig(c.Config)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	cfg.Provenance = synthesis.ReadProvenance(filepath.Dir(factsPath))

	seerDir, err := ensureSeerDir()
	if err != nil {
		return err
	}

	store := storage.NewBadgerStore()
	if err := store.Initialize(filepath.Join(seerDir, "badger"), false); err != nil {
		return fmt.Errorf("initializing storage: %w", err)
	}
	defer func() { _ = store.Close() }()

	fmt.Println("## Watch Mode")
	fmt.Printf("Watching %s for changes (Ctrl+C to stop)\n\n", factsPath)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle Ctrl+C
	go func() {
		<-osSignalChannel()
		fmt.Println("\nStopping watch mode...")
		cancel()
	}()

	resynth := func(doc *facts.Document) error {
		graph, result := synthesis.RunPipeline(doc, cfg, nil)
		meta := &storage.Meta{
			Version:   Version,
			FactsPath: factsPath,
			Result:    *result,
			SavedAt:   time.Now().UTC(),
		}
		if err := store.SaveGraph(ctx, graph, meta); err != nil {
			return err
		}
		fmt.Printf("Re-synthesized: %d nodes, %d edges (%.2fs)\n",
			result.Nodes, result.Edges, result.DurationSecs)
		return nil
	}

	// Synthesize once before watching so the snapshot exists
	if doc, err := facts.LoadDocument(factsPath); err == nil {
		if err := resynth(doc); err != nil {
			return fmt.Errorf("initial synthesis: %w", err)
		}
	}

	err = synthesis.WatchFacts(ctx, factsPath, resynth)
	if err != nil && err != context.Canceled {
		return fmt.Errorf("watch error: %w", err)
	}

	fmt.Println("Watch mode stopped.")
	return nil
}

// ServeCmd starts the MCP server with optional watch mode.
type ServeCmd struct {
	Watch  bool   `short:"w" help:"Re-synthesize when the facts file changes"`
	Config string `short:"c" default:"seer.yaml" help:"Path to synthesis config"`
}

// Run executes the serve command.
func (c *ServeCmd) Run() error {
	ctx := context.Background()

	store := storage.NewBadgerStore()
	dbPath := filepath.Join(".seer", "badger")
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		return fmt.Errorf("no snapshot found. Run 'seer synth' first")
	}
	if err := store.Initialize(dbPath, !c.Watch); err != nil {
		return fmt.Errorf("initializing storage: %w", err)
	}
	defer func() { _ = store.Close() }()

	server := mcp.NewServer(store)

	if c.Watch {
		meta, err := store.LoadMeta(ctx)
		if err != nil || meta == nil || meta.FactsPath == "" {
			return fmt.Errorf("snapshot has no facts path; re-run 'seer synth'")
		}

		cfg, err := synthesis.LoadConfig(c.Config)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		cfg.Provenance = synthesis.ReadProvenance(filepath.Dir(meta.FactsPath))

		watchCtx, cancel := context.WithCancel(ctx)
		defer cancel()

		go func() {
			err := synthesis.WatchFacts(watchCtx, meta.FactsPath, func(doc *facts.Document) error {
				graph, result := synthesis.RunPipeline(doc, cfg, nil)
				return store.SaveGraph(watchCtx, graph, &storage.Meta{
					Version:   Version,
					FactsPath: meta.FactsPath,
					Result:    *result,
					SavedAt:   time.Now().UTC(),
				})
			})
			if err != nil && err != context.Canceled {
				fmt.Fprintf(os.Stderr, "Watch error: %v\n", err)
			}
		}()

		fmt.Fprintln(os.Stderr, "Starting MCP server with watch mode...")
	} else {
		fmt.Fprintln(os.Stderr, "Starting MCP server...")
	}

	// Note: No output to stdout - MCP server uses stdio for JSON-RPC only
	return server.Run(ctx, os.Stdin, os.Stdout)
}

// SetupCmd configures MCP for various AI clients.
type SetupCmd struct {
	Qwen     bool   `help:"Configure for Qwen CLI"`
	Claude   bool   `help:"Configure for Claude Code"`
	Cursor   bool   `help:"Configure for Cursor"`
	Local    bool   `help:"Create project-local configuration"`
	Global   bool   `help:"Create global configuration"`
	FilePath string `help:"Custom file path for configuration"`
}

// Run executes the setup command.
func (c *SetupCmd) Run() error {
	// If no specific client is specified, output config to stdout
	if !c.Qwen && !c.Claude && !c.Cursor {
		jsonBytes, err := json.MarshalIndent(generateSeerConfig(), "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(jsonBytes))
		return nil
	}

	// If neither local nor global is specified, default to local
	if !c.Local && !c.Global {
		c.Local = true
	}

	for _, client := range []struct {
		enabled  bool
		name     string
		fileName string
	}{
		{c.Qwen, "qwen", "mcp.json"},
		{c.Claude, "claude", "settings.json"},
		{c.Cursor, "cursor", "mcp.json"},
	} {
		if !client.enabled {
			continue
		}

		if c.Global {
			globalPath := getGlobalConfigPath(client.name)
			if err := writeConfig(globalPath, generateSeerConfig()); err != nil {
				return err
			}
			color.Green("✓ Created global %s MCP config at %s", client.name, globalPath)
		}

		if c.Local {
			localPath := filepath.Join("."+client.name, client.fileName)
			if c.FilePath != "" {
				localPath = filepath.Join(c.FilePath, client.fileName)
			}
			if err := writeConfig(localPath, generateSeerConfig()); err != nil {
				return err
			}
			color.Green("✓ Created local %s MCP config at %s", client.name, localPath)
		}
	}

	return nil
}

func generateSeerConfig() map[string]any {
	return map[string]any{
		"mcpServers": map[string]any{
			"seer-go": map[string]any{
				"command": "seer-go",
				"args":    []string{"serve", "--watch"},
			},
		},
	}
}

func getGlobalConfigPath(client string) string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = os.Getenv("HOME")
	}
	return filepath.Join(homeDir, "."+client, "global", "mcp.json")
}

func writeConfig(configPath string, config map[string]any) error {
	if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
		return fmt.Errorf("creating directory: %w", err)
	}

	content, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling JSON: %w", err)
	}
	content = append(content, '\n')

	if err := os.WriteFile(configPath, content, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	return nil
}

// CleanCmd deletes the snapshot for the current directory.
type CleanCmd struct {
	Force bool `short:"f" help:"Skip confirmation"`
}

// Run executes the clean command.
func (c *CleanCmd) Run() error {
	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("getting working directory: %w", err)
	}

	seerDir := filepath.Join(cwd, ".seer")
	if _, err := os.Stat(seerDir); os.IsNotExist(err) {
		return fmt.Errorf("no snapshot found at %s. Nothing to clean", cwd)
	}

	if !c.Force {
		fmt.Printf("Delete snapshot at %s? [y/N] ", seerDir)
		var response string
		_, _ = fmt.Scanln(&response)
		if response != "y" && response != "Y" {
			fmt.Println("Aborted")
			return nil
		}
	}

	if err := os.RemoveAll(seerDir); err != nil {
		return fmt.Errorf("deleting snapshot: %w", err)
	}

	color.Green("Deleted %s", seerDir)
	return nil
}

// Helper functions

// osSignalChannel returns a channel that receives OS signals for graceful shutdown.
func osSignalChannel() <-chan os.Signal {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	return sigChan
}

// includeFlag resolves an export include setting: a --no-* flag always wins,
// otherwise the config value applies, otherwise include.
func includeFlag(cfgValue *bool, disabled bool) bool {
	if disabled {
		return false
	}
	if cfgValue != nil {
		return *cfgValue
	}
	return true
}

func ensureSeerDir() (string, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("getting working directory: %w", err)
	}

	seerDir := filepath.Join(cwd, ".seer")
	if err := os.MkdirAll(seerDir, 0o755); err != nil {
		return "", fmt.Errorf("creating .seer directory: %w", err)
	}

	return seerDir, nil
}

// loadSnapshot opens the snapshot store read-only and loads the stored graph.
func loadSnapshot() (*bizgraph.Graph, *storage.Meta, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, nil, fmt.Errorf("getting working directory: %w", err)
	}

	dbPath := filepath.Join(cwd, ".seer", "badger")
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		return nil, nil, fmt.Errorf("no snapshot found at %s. Run 'seer synth' first", cwd)
	}

	store := storage.NewBadgerStore()
	if err := store.Initialize(dbPath, true); err != nil {
		return nil, nil, fmt.Errorf("initializing storage: %w", err)
	}
	defer func() { _ = store.Close() }()

	ctx := context.Background()
	graph, err := store.LoadGraph(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("loading graph: %w", err)
	}
	if graph == nil {
		return nil, nil, fmt.Errorf("snapshot is empty. Run 'seer synth' first")
	}

	meta, err := store.LoadMeta(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("loading meta: %w", err)
	}

	return graph, meta, nil
}

func nodesOfType(g *bizgraph.Graph, t bizgraph.NodeType) []*bizgraph.Node {
	var nodes []*bizgraph.Node
	for _, n := range g.Nodes {
		if n.Type == t {
			nodes = append(nodes, n)
		}
	}
	return nodes
}

// dataInt reads an integer out of a node's data map. Values arrive as
// float64 after a JSON round-trip through the snapshot store.
func dataInt(n *bizgraph.Node, key string) int {
	switch v := n.Data[key].(type) {
	case int:
		return v
	case float64:
		return int(v)
	default:
		return 0
	}
}

// CLI is the root Kong command structure.
type CLI struct {
	Version kong.VersionFlag `help:"Show version information"`
	Verbose bool             `short:"v" help:"Enable verbose output"`
	Quiet   bool             `short:"q" help:"Suppress non-essential output"`

	// Commands
	Synth    SynthCmd    `cmd:"" help:"Synthesize a business graph from a facts file"`
	Export   ExportCmd   `cmd:"" help:"Export the graph in a presentation format"`
	Features FeaturesCmd `cmd:"" help:"List synthesized business features"`
	Journeys JourneysCmd `cmd:"" help:"List traced user journeys"`
	Stats    StatsCmd    `cmd:"" help:"Show snapshot statistics"`
	Watch    WatchCmd    `cmd:"" help:"Re-synthesize on facts file changes"`
	Serve    ServeCmd    `cmd:"" help:"Start MCP server (stdio transport)"`
	Setup    SetupCmd    `cmd:"" help:"Configure MCP for Claude Code / Cursor"`
	Clean    CleanCmd    `cmd:"" help:"Delete snapshot for current directory"`
}

// NewCLI creates a new CLI instance.
func NewCLI() *CLI {
	return &CLI{}
}

// Execute parses command-line arguments and executes the selected command.
func (c *CLI) Execute(args []string) error {
	kongCtx := kong.Parse(c,
		kong.Name("seer-go"),
		kong.Description("Business graph synthesis engine for component facts"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars{
			"version": Version,
		},
	)

	return kongCtx.Run()
}
