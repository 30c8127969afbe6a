package cli

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/tonegraph/pkg/notation/parsers"
	"github.com/matzehuels/tonegraph/pkg/pipeline"
)

type extractOpts struct {
	parser  string
	output  string
	format  string
	refresh bool
}

// extractCommand creates the extract command.
func (c *CLI) extractCommand() *cobra.Command {
	opts := extractOpts{parser: pipeline.DefaultParser}

	cmd := &cobra.Command{
		Use:   "extract [file...]",
		Short: "Extract a graph from text or image notation",
		Long: `Extract a graph from text or image notation.

Text files go through the chosen parser; PNG, JPEG, GIF, BMP, TIFF and WebP
images go to parsers that read raster diagrams. Use "-" to read stdin.

With several files the inputs are parsed concurrently and each graph is written
next to its input (or into the --output directory) as <name>.graph.json.

Parsers: ` + strings.Join(parsers.Names(), ", "),
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 1 {
				return c.runExtractBatch(cmd, args, opts)
			}
			return c.runExtract(cmd, args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.parser, "parser", "p", opts.parser, "parser strategy")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file, or directory with several inputs (stdout if empty)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "", "graph format: json (default), graphml, yaml, msgpack")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "ignore cached results")

	return cmd
}

func (c *CLI) runExtract(cmd *cobra.Command, input string, opts extractOpts) error {
	ctx := cmd.Context()
	data, err := readInput(cmd, input)
	if err != nil {
		return err
	}

	runner, err := c.newRunner(ctx)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Extracting with %s parser...", opts.parser))
	spinner.Start()
	g, cacheHit, err := runner.Extract(ctx, opts.parser, data, opts.refresh)
	spinner.Stop()
	if err != nil {
		return fmt.Errorf("extract: %w", err)
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}

	if err := writeGraph(cmd, g, opts.output, opts.format); err != nil {
		return err
	}
	if opts.output == "" {
		return nil
	}

	printSuccess("Extracted graph")
	printFile(opts.output)
	printStats(g.NodeCount(), g.EdgeCount(), cacheHit)
	printNewline()
	printNextStep("Validate", appName+" validate "+opts.output)
	return nil
}

func (c *CLI) runExtractBatch(cmd *cobra.Command, inputs []string, opts extractOpts) error {
	ctx := cmd.Context()
	data := make([][]byte, len(inputs))
	for i, in := range inputs {
		if in == stdinPath {
			return fmt.Errorf("stdin cannot be combined with other inputs")
		}
		b, err := readInput(cmd, in)
		if err != nil {
			return err
		}
		data[i] = b
	}

	runner, err := c.newRunner(ctx)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	prog := newProgress(loggerFromContext(ctx))
	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Extracting %d inputs...", len(inputs)))
	spinner.Start()
	graphs, err := runner.ExtractBatch(ctx, opts.parser, data)
	spinner.Stop()
	if err != nil {
		return fmt.Errorf("extract: %w", err)
	}
	prog.done("Extracted graphs", "count", len(graphs))

	f, err := graphFormat("", opts.format)
	if err != nil {
		return err
	}
	for i, g := range graphs {
		out := batchOutput(inputs[i], opts.output, "."+string(f))
		if err := writeGraph(cmd, g, out, string(f)); err != nil {
			return err
		}
		printFile(out)
		printStats(g.NodeCount(), g.EdgeCount(), false)
	}
	return nil
}

// batchOutput places the graph for input next to it, or in dir when set.
func batchOutput(input, dir, ext string) string {
	out := derivedPath(input, ".graph"+ext)
	if dir != "" {
		out = filepath.Join(dir, filepath.Base(out))
	}
	return out
}
