package cli

import (
	"fmt"
	"maps"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/tonegraph/pkg/compare"
	"github.com/matzehuels/tonegraph/pkg/graph"
	"github.com/matzehuels/tonegraph/pkg/layout"
	"github.com/matzehuels/tonegraph/pkg/optimize"
)

type rewriteOpts struct {
	output string
	format string
}

func (o *rewriteOpts) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&o.output, "output", "o", "", "output file (stdout if empty)")
	cmd.Flags().StringVarP(&o.format, "format", "f", "", "graph format: json (default), graphml, yaml, msgpack")
}

// finish writes g and reports where it went.
func (o *rewriteOpts) finish(cmd *cobra.Command, what string, g *graph.Graph, cached bool) error {
	if err := writeGraph(cmd, g, o.output, o.format); err != nil {
		return err
	}
	if o.output == "" {
		return nil
	}
	printSuccess("%s", what)
	printFile(o.output)
	printStats(g.NodeCount(), g.EdgeCount(), cached)
	return nil
}

// optimizeCommand creates the optimize command.
func (c *CLI) optimizeCommand() *cobra.Command {
	var (
		opts       rewriteOpts
		strategies []string
	)

	cmd := &cobra.Command{
		Use:   "optimize [graph]",
		Short: "Merge duplicate nodes and simplify edges and chains",
		Long: `Merge duplicate nodes and simplify edges and chains.

Without --strategy the strategies from the config file run, or all of them in
order: ` + strings.Join(optimize.Strategies(), ", "),
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := loadGraph(cmd, args[0])
			if err != nil {
				return err
			}
			if len(strategies) == 0 {
				strategies = c.cfg.Optimize.Strategies
			}
			runner, err := c.newRunner(cmd.Context())
			if err != nil {
				return err
			}
			defer runner.Close()

			out, err := runner.Optimize(cmd.Context(), g, strategies...)
			if err != nil {
				return fmt.Errorf("optimize: %w", err)
			}
			loggerFromContext(cmd.Context()).Debug("optimized",
				"nodes_before", g.NodeCount(), "nodes_after", out.NodeCount(),
				"edges_before", g.EdgeCount(), "edges_after", out.EdgeCount())
			return opts.finish(cmd, "Optimized graph", out, false)
		},
	}
	opts.register(cmd)
	cmd.Flags().StringSliceVarP(&strategies, "strategy", "s", nil, "strategies to run, in order")
	return cmd
}

// transformCommand creates the transform command.
func (c *CLI) transformCommand() *cobra.Command {
	var opts rewriteOpts

	cmd := &cobra.Command{
		Use:   "transform [graph] [code]",
		Short: "Apply a transposition, inversion or P/L/R chain",
		Long: `Apply a neo-Riemannian or transposition code to a graph.

Codes: Tn transposes pitch classes up n semitones, In inverts them about C and
transposes by n. P, L and R act on set classes and may be chained, as in
"PLR", to apply each letter left to right.`,
		Args: cobra.ExactArgs(2),
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

			out, err := runner.Transform(cmd.Context(), g, args[1])
			if err != nil {
				return fmt.Errorf("transform: %w", err)
			}
			return opts.finish(cmd, "Applied "+args[1], out, false)
		},
	}
	opts.register(cmd)
	return cmd
}

// layoutCommand creates the layout command.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		opts   rewriteOpts
		name   string
		params []string
	)

	cmd := &cobra.Command{
		Use:   "layout [graph]",
		Short: "Assign node positions",
		Long: `Assign node positions with a named layout.

Layouts: ` + strings.Join(layout.Names(), ", ") + `

Tuning values are passed as --param key=value and override the [layout] params
of the config file. Results are cached locally for faster subsequent runs.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := loadGraph(cmd, args[0])
			if err != nil {
				return err
			}
			p, err := c.layoutParams(params)
			if err != nil {
				return err
			}
			if name == "" {
				name = c.cfg.Layout.Default
			}

			runner, err := c.newRunner(cmd.Context())
			if err != nil {
				return err
			}
			defer runner.Close()

			spinner := newSpinnerWithContext(cmd.Context(), fmt.Sprintf("Computing %s layout...", name))
			spinner.Start()
			out, cacheHit, err := runner.Layout(cmd.Context(), g, name, p)
			spinner.Stop()
			if err != nil {
				return fmt.Errorf("layout: %w", err)
			}
			if err := opts.finish(cmd, "Layout complete", out, cacheHit); err != nil {
				return err
			}
			if opts.output != "" {
				printNewline()
				printNextStep("Render", appName+" export -f svg "+opts.output)
			}
			return nil
		},
	}
	opts.register(cmd)
	cmd.Flags().StringVarP(&name, "layout", "l", "", "layout name (default from config)")
	cmd.Flags().StringArrayVar(&params, "param", nil, "layout parameter as key=value (repeatable)")
	return cmd
}

// layoutParams merges config params with command-line pairs.
func (c *CLI) layoutParams(pairs []string) (layout.Params, error) {
	p := layout.Params{}
	maps.Copy(p, c.cfg.Layout.Params)
	flags, err := layout.ParseParams(pairs)
	if err != nil {
		return nil, err
	}
	maps.Copy(p, flags)
	return p, nil
}

// compareCommand creates the compare command.
func (c *CLI) compareCommand() *cobra.Command {
	var (
		asJSON   bool
		timeout  time.Duration
		maxSteps int
	)

	cmd := &cobra.Command{
		Use:   "compare [graph1] [graph2]",
		Short: "Diff two graphs and score their similarity",
		Long: `Diff two graphs and score their similarity.

Node and edge similarity are Jaccard indices. Structural similarity comes from
an exact graph edit distance, bounded by --timeout and --max-steps; a search
that runs out of budget scores 0.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			g1, err := loadGraph(cmd, args[0])
			if err != nil {
				return err
			}
			g2, err := loadGraph(cmd, args[1])
			if err != nil {
				return err
			}

			opts := c.cfg.CompareOptions()
			if cmd.Flags().Changed("timeout") {
				opts.Timeout = timeout
			}
			if cmd.Flags().Changed("max-steps") {
				opts.MaxSteps = maxSteps
			}

			runner, err := c.newRunner(cmd.Context())
			if err != nil {
				return err
			}
			defer runner.Close()

			spinner := newSpinnerWithContext(cmd.Context(), "Comparing graphs...")
			spinner.Start()
			report, cacheHit, err := runner.Compare(cmd.Context(), g1, g2, opts)
			spinner.Stop()
			if err != nil {
				return fmt.Errorf("compare: %w", err)
			}
			if asJSON {
				return writeJSON(cmd, report)
			}
			printComparison(args[0], args[1], report, cacheHit)
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the full report as JSON")
	cmd.Flags().DurationVar(&timeout, "timeout", compare.DefaultTimeout, "edit-distance time budget")
	cmd.Flags().IntVar(&maxSteps, "max-steps", compare.DefaultMaxSteps, "edit-distance step budget")
	return cmd
}

func printComparison(first, second string, r compare.Report, cached bool) {
	fmt.Println(StyleTitle.Render("Comparison"))
	printKeyValue("First", first)
	printKeyValue("Second", second)
	printScore("Nodes", r.Similarity.Node)
	printScore("Edges", r.Similarity.Edge)
	printScore("Structure", r.Similarity.Structural)
	printKeyValue("Only first", fmt.Sprintf("%d nodes, %d edges", len(r.Nodes.OnlyInFirst), len(r.Edges.OnlyInFirst)))
	printKeyValue("Only second", fmt.Sprintf("%d nodes, %d edges", len(r.Nodes.OnlyInSecond), len(r.Edges.OnlyInSecond)))
	for id, tm := range r.Nodes.TypeMismatches {
		printWarning("%s is %s in the first graph and %s in the second", id, tm.First, tm.Second)
	}
	if cached {
		printDetail("%s", iconCached)
	}
}
