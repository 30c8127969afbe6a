package cli

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/tonegraph/pkg/errors"
	"github.com/matzehuels/tonegraph/pkg/pipeline"
)

// artifactFormat picks the artifact format from the flag, then from the
// output extension, then fallback.
func artifactFormat(format, output, fallback string) (string, error) {
	if format == "" && output != "" {
		ext := strings.ToLower(filepath.Ext(output))
		for _, f := range pipeline.Formats() {
			if pipeline.Extension(f) == ext {
				format = f
				break
			}
		}
	}
	if format == "" {
		format = fallback
	}
	if format == "" {
		return "", errors.New(errors.ErrCodeInvalidFormat, "no format: pass --format or an --output with a known extension")
	}
	if err := pipeline.ValidateFormat(format); err != nil {
		return "", err
	}
	return format, nil
}

// exportCommand creates the export command.
func (c *CLI) exportCommand() *cobra.Command {
	var (
		output   string
		format   string
		title    string
		detailed bool
	)

	cmd := &cobra.Command{
		Use:   "export [graph]",
		Short: "Write a graph as a document, diagram or score",
		Long: `Write a graph as a document, diagram or score.

Formats: ` + strings.Join(pipeline.Formats(), ", ") + `

The format comes from --format, or from the extension of --output. Scores
(musicxml, mei, humdrum, lilypond) list the graph's pitch classes in order.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := artifactFormat(format, output, "")
			if err != nil {
				return err
			}
			g, err := loadGraph(cmd, args[0])
			if err != nil {
				return err
			}

			runner, err := c.newRunner(cmd.Context())
			if err != nil {
				return err
			}
			defer runner.Close()

			data, err := runner.Render(cmd.Context(), g, f, pipeline.RenderOptions{Title: title, Detailed: detailed})
			if err != nil {
				return fmt.Errorf("export: %w", err)
			}
			if err := writeArtifact(cmd, data, output); err != nil {
				return err
			}
			if output != "" {
				printSuccess("Exported %s", f)
				printFile(output)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (stdout if empty)")
	cmd.Flags().StringVarP(&format, "format", "f", "", "output format")
	cmd.Flags().StringVar(&title, "title", "", "score title")
	cmd.Flags().BoolVar(&detailed, "detailed", false, "show node types in SVG labels")
	return cmd
}

type renderOpts struct {
	parser     string
	output     string
	format     string
	validate   bool
	optimize   bool
	strategies []string
	transform  string
	layout     string
	params     []string
	title      string
	detailed   bool
	refresh    bool
}

// renderCommand creates the render command, which runs the whole pipeline
// from notation to artifact.
func (c *CLI) renderCommand() *cobra.Command {
	opts := renderOpts{parser: pipeline.DefaultParser}

	cmd := &cobra.Command{
		Use:   "render [file]",
		Short: "Extract, rewrite, lay out and render notation in one step",
		Long: `Extract, rewrite, lay out and render notation in one step.

Stages run in order: extract, validate, optimize, transform, layout, render.
Without --output the artifact is written next to the input, so chords.txt
becomes chords.svg.`,
		Example: `  ` + appName + ` render chords.txt
  ` + appName + ` render --optimize --transform T7 -l circle_of_fifths chords.txt
  ` + appName + ` render -f musicxml --title Study chords.txt`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runRender(cmd, args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.parser, "parser", "p", opts.parser, "parser strategy")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "", "output format (default svg, or from the --output extension)")
	cmd.Flags().BoolVar(&opts.validate, "validate", false, "report structural issues")
	cmd.Flags().BoolVar(&opts.optimize, "optimize", false, "run optimization strategies")
	cmd.Flags().StringSliceVarP(&opts.strategies, "strategy", "s", nil, "strategies to run, in order (implies --optimize)")
	cmd.Flags().StringVarP(&opts.transform, "transform", "t", "", "transform code such as T7 or PL")
	cmd.Flags().StringVarP(&opts.layout, "layout", "l", "", "layout name (default from config)")
	cmd.Flags().StringArrayVar(&opts.params, "param", nil, "layout parameter as key=value (repeatable)")
	cmd.Flags().StringVar(&opts.title, "title", "", "score title")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "show node types in SVG labels")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "ignore cached results")
	return cmd
}

func (c *CLI) runRender(cmd *cobra.Command, input string, opts renderOpts) error {
	ctx := cmd.Context()
	data, err := readInput(cmd, input)
	if err != nil {
		return err
	}
	params, err := c.layoutParams(opts.params)
	if err != nil {
		return err
	}
	format, err := artifactFormat(opts.format, opts.output, pipeline.FormatSVG)
	if err != nil {
		return err
	}

	popts := pipeline.Options{
		Parser:       opts.parser,
		Input:        data,
		Refresh:      opts.refresh,
		Validate:     opts.validate,
		Optimize:     opts.optimize || len(opts.strategies) > 0,
		Strategies:   opts.strategies,
		Transform:    opts.transform,
		Layout:       opts.layout,
		LayoutParams: params,
		Format:       format,
		Title:        opts.title,
		Detailed:     opts.detailed,
		Logger:       loggerFromContext(ctx),
	}
	if popts.Optimize && len(popts.Strategies) == 0 {
		popts.Strategies = c.cfg.Optimize.Strategies
	}
	if popts.Layout == "" {
		popts.Layout = c.cfg.Layout.Default
	}
	if err := popts.ValidateAndSetDefaults(); err != nil {
		return err
	}

	output := opts.output
	if output == "" {
		output = derivedPath(input, pipeline.Extension(popts.Format))
	}

	runner, err := c.newRunner(ctx)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	prog := newProgress(loggerFromContext(ctx))
	spinner := newSpinnerWithContext(ctx, "Rendering...")
	spinner.Start()
	result, err := runner.Execute(ctx, popts)
	spinner.Stop()
	if err != nil {
		return err
	}
	if err := writeArtifact(cmd, result.Artifact, output); err != nil {
		return err
	}
	prog.done("Rendered", "format", popts.Format, "bytes", len(result.Artifact))

	if output == "" {
		return nil
	}
	printSuccess("Rendered %s", popts.Format)
	printFile(output)
	printStats(result.Stats.NodeCount, result.Stats.EdgeCount, result.CacheInfo.ExtractHit)
	if len(result.Issues) > 0 {
		printNewline()
		printIssues(result.Issues)
	}
	return nil
}
