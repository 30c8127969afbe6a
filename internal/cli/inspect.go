package cli

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/tonegraph/pkg/analysis"
	"github.com/matzehuels/tonegraph/pkg/errors"
	"github.com/matzehuels/tonegraph/pkg/graph"
)

// validateCommand creates the validate command. It exits non-zero when the
// graph has issues.
func (c *CLI) validateCommand() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "validate [graph]",
		Short: "Check a graph for structural issues",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := loadGraph(cmd, args[0])
			if err != nil {
				return err
			}
			runner, err := c.newRunner(cmd.Context())
			if err != nil {
				return err
			}
			defer runner.Close()

			issues := runner.Validate(cmd.Context(), g)
			if asJSON {
				if issues == nil {
					issues = []string{}
				}
				if err := writeJSON(cmd, issues); err != nil {
					return err
				}
			} else {
				printIssues(issues)
			}
			if len(issues) > 0 {
				return errors.New(errors.ErrCodeInvalidInput, "graph has %d validation issue(s)", len(issues))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print issues as JSON")
	return cmd
}

type analysisReport struct {
	Components           [][]string             `json:"connected_components"`
	TransformationCycles [][]string             `json:"transformation_cycles"`
	Network              analysis.NetworkReport `json:"transformation_network"`
	Invariants           map[string][]string    `json:"invariant_structures"`
}

// analyzeCommand creates the analyze command.
func (c *CLI) analyzeCommand() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "analyze [graph]",
		Short: "Report components, transformation cycles and network centrality",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := loadGraph(cmd, args[0])
			if err != nil {
				return err
			}
			a := analysis.New(g)
			report := analysisReport{
				Components:           a.ConnectedComponents(),
				TransformationCycles: a.TransformationCycles(),
				Network:              a.AnalyzeTransformationNetwork(),
				Invariants:           a.InvariantStructures(),
			}
			if asJSON {
				return writeJSON(cmd, report)
			}
			printAnalysis(report)
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the report as JSON")
	return cmd
}

func printAnalysis(r analysisReport) {
	fmt.Println(StyleTitle.Render("Analysis"))
	printGroups("Components", r.Components, ", ")
	printGroups("Cycles", r.TransformationCycles, " → ")
	printKeyValue("Transforms", strconv.Itoa(r.Network.NodeCount))
	if r.Network.NodeCount > 0 {
		printKeyValue("Avg. path", r.Network.AveragePathLength.String())
		printScores("Centrality", r.Network.DegreeCentrality, 5)
	}
	if len(r.Invariants) > 0 {
		printKeyValue("Invariants", "")
		for id, fixed := range r.Invariants {
			printDetail("%s fixes %s", id, strings.Join(fixed, ", "))
		}
	}
}

// metricsCommand creates the metrics command.
func (c *CLI) metricsCommand() *cobra.Command {
	var (
		asJSON bool
		output string
	)

	cmd := &cobra.Command{
		Use:   "metrics [graph]",
		Short: "Compute whole-graph statistics",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := loadGraph(cmd, args[0])
			if err != nil {
				return err
			}
			m := analysis.CollectMetrics(g)
			if asJSON || output != "" {
				data, err := json.MarshalIndent(m, "", "  ")
				if err != nil {
					return err
				}
				return writeArtifact(cmd, append(data, '\n'), output)
			}
			printMetrics(m)
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print metrics as JSON")
	cmd.Flags().StringVarP(&output, "output", "o", "", "write JSON metrics to file")
	return cmd
}

func printMetrics(m analysis.Metrics) {
	fmt.Println(StyleTitle.Render("Metrics"))
	printKeyValue("Nodes", strconv.Itoa(m.Basic.Nodes))
	printKeyValue("Edges", strconv.Itoa(m.Basic.Edges))
	printKeyValue("Pitches", strconv.Itoa(m.Basic.PitchClasses))
	printKeyValue("Intervals", strconv.Itoa(m.Basic.Intervals))
	printKeyValue("Transforms", strconv.Itoa(m.Basic.Transformations))
	printKeyValue("Components", fmt.Sprintf("%d (largest %d)", m.Structure.Components, m.Structure.LargestComponentSize))
	printKeyValue("Density", fmt.Sprintf("%.3f", m.Structure.Density))
	printKeyValue("Clustering", fmt.Sprintf("%.3f", m.Structure.AverageClustering))
	printKeyValue("Diameter", m.Structure.Diameter.String())
	printKeyValue("Avg. path", m.Structure.AverageShortestPath.String())
	printScores("Betweenness", m.Centrality.Betweenness, 5)
	printGroups("Sequences", m.Transformations.Sequences, " → ")
}

type queryOpts struct {
	nodeType   string
	label      string
	property   string
	path       string
	components bool
	cycles     bool
}

// queryCommand creates the query command.
func (c *CLI) queryCommand() *cobra.Command {
	var opts queryOpts

	cmd := &cobra.Command{
		Use:   "query [graph]",
		Short: "Select nodes, paths, components or cycles",
		Long: `Select nodes, paths, components or cycles.

Node filters combine: --type pitch_class --label '^C' lists pitch classes whose
label starts with C. --path start,end finds a transformation path between the
first nodes labeled start and end. --components and --cycles work on the
subgraph of --type, or on the whole graph without it.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := loadGraph(cmd, args[0])
			if err != nil {
				return err
			}
			return runQuery(cmd, analysis.NewQuery(g), g, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.nodeType, "type", "t", "", "node type filter")
	cmd.Flags().StringVarP(&opts.label, "label", "l", "", "label regular expression")
	cmd.Flags().StringVar(&opts.property, "property", "", "property filter as key=value")
	cmd.Flags().StringVar(&opts.path, "path", "", "transformation path between two labels, as start,end")
	cmd.Flags().BoolVar(&opts.components, "components", false, "list connected components")
	cmd.Flags().BoolVar(&opts.cycles, "cycles", false, "list cycles")
	return cmd
}

func runQuery(cmd *cobra.Command, q *analysis.Query, g *graph.Graph, opts queryOpts) error {
	var t graph.NodeType
	if opts.nodeType != "" {
		var err error
		if t, err = graph.ParseNodeType(opts.nodeType); err != nil {
			return err
		}
	}

	out := cmd.OutOrStdout()
	switch {
	case opts.path != "":
		start, end, ok := strings.Cut(opts.path, ",")
		if !ok {
			return errors.New(errors.ErrCodeInvalidInput, "--path wants start,end, got %q", opts.path)
		}
		path := q.TransformationPath(strings.TrimSpace(start), strings.TrimSpace(end))
		if path == nil {
			printWarning("No transformation path from %s to %s", start, end)
			return nil
		}
		fmt.Fprintln(out, strings.Join(path, " → "))
	case opts.components:
		for _, comp := range q.Components(t) {
			fmt.Fprintln(out, strings.Join(comp, " "))
		}
	case opts.cycles:
		for _, cycle := range q.Cycles(t) {
			fmt.Fprintln(out, strings.Join(cycle, " → "))
		}
	default:
		nodes, err := selectNodes(q, g, t, opts)
		if err != nil {
			return err
		}
		for _, n := range nodes {
			fmt.Fprintf(out, "%s\t%s\t%s\n", n.ID, n.Type, n.Label)
		}
	}
	return nil
}

// selectNodes intersects every node filter that was given.
func selectNodes(q *analysis.Query, g *graph.Graph, t graph.NodeType, opts queryOpts) ([]graph.Node, error) {
	nodes := g.Nodes()
	keep := func(sel []graph.Node) {
		ids := make(map[string]bool, len(sel))
		for _, n := range sel {
			ids[n.ID] = true
		}
		filtered := nodes[:0]
		for _, n := range nodes {
			if ids[n.ID] {
				filtered = append(filtered, n)
			}
		}
		nodes = filtered
	}

	if t != "" {
		keep(q.NodesByType(t))
	}
	if opts.label != "" {
		sel, err := q.NodesByLabel(opts.label)
		if err != nil {
			return nil, err
		}
		keep(sel)
	}
	if opts.property != "" {
		k, v, ok := strings.Cut(opts.property, "=")
		if !ok {
			return nil, errors.New(errors.ErrCodeInvalidInput, "--property wants key=value, got %q", opts.property)
		}
		var sel []graph.Node
		for _, value := range propertyValues(strings.TrimSpace(v)) {
			sel = append(sel, q.NodesByProperty(strings.TrimSpace(k), value)...)
		}
		keep(sel)
	}
	return nodes, nil
}

// propertyValues reads a command-line value as the scalars it may have been
// decoded to. JSON numbers arrive as float64 while YAML and msgpack keep
// integers, so "4" matches both 4 and 4.0.
func propertyValues(s string) []any {
	if i, err := strconv.Atoi(s); err == nil {
		return []any{i, int64(i), float64(i)}
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return []any{f}
	}
	if b, err := strconv.ParseBool(s); err == nil {
		return []any{b}
	}
	return []any{s}
}

func writeJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
