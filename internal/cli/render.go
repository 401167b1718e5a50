package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/trifractal/pkg/pipeline"
)

// defaultOutputBase is the file name stem used when --output is not given.
const defaultOutputBase = appName

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	depth       depthFlags
	cache       cacheOpts
	level       int    // level to highlight, -1 for all
	vizType     string // "fractal" or "nodelink"
	view        string // "both", "fractal" or "tree"
	formats     string // comma-separated output formats
	output      string // output file (single format) or base path
	scale       float64
	detailed    bool
	interactive bool
	title       string
	refresh     bool
}

// renderCommand creates the render command for generating static views.
func (c *CLI) renderCommand() *cobra.Command {
	opts := renderOpts{level: -1}

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render the fractal and its construction tree",
		Long: `Render builds the subdivision up to the configured depth and writes the
fractal view, the tree view, or both. Use --level to highlight one depth.`,
		Example: `  trifractal render -d 5 -l 3 -o out.svg
  trifractal render -f svg,png,json -o build/trifractal
  trifractal render -t nodelink -f dot`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runRender(cmd.Context(), &opts)
		},
	}

	opts.depth.register(cmd)
	opts.cache.register(cmd)
	cmd.Flags().IntVarP(&opts.level, "level", "l", opts.level, "highlight one depth level (-1 shows all)")
	cmd.Flags().StringVarP(&opts.vizType, "type", "t", pipeline.DefaultVizType, "visualization type: fractal, nodelink")
	cmd.Flags().StringVar(&opts.view, "view", pipeline.DefaultView, "fractal view: both, fractal, tree")
	cmd.Flags().StringVarP(&opts.formats, "format", "f", "", "output format(s): svg (default), png, pdf, json, dot (comma-separated)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().Float64Var(&opts.scale, "scale", pipeline.DefaultScale, "PNG scale factor")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "label nodelink nodes with area and position")
	cmd.Flags().BoolVar(&opts.interactive, "interactive", false, "embed hover highlighting by depth in SVG output")
	cmd.Flags().StringVar(&opts.title, "title", "", "SVG document title")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "re-render even if the result is cached")

	return cmd
}

// toPipelineOptions resolves the effective config and maps flags onto
// pipeline options.
func (c *CLI) toPipelineOptions(opts *renderOpts) (pipeline.Options, error) {
	cfg, err := c.loadConfig()
	if err != nil {
		return pipeline.Options{}, err
	}
	opts.depth.apply(&cfg)

	p := pipeline.Options{
		Config:      cfg,
		VizType:     opts.vizType,
		View:        opts.view,
		Formats:     parseFormats(opts.formats),
		Scale:       opts.scale,
		Detailed:    opts.detailed,
		Interactive: opts.interactive,
		Title:       opts.title,
		Refresh:     opts.refresh,
		Logger:      c.Logger,
	}
	if opts.level >= 0 {
		p.Level = pipeline.Level(opts.level)
	}
	if err := p.ValidateAndSetDefaults(); err != nil {
		return pipeline.Options{}, err
	}
	return p, nil
}

func (c *CLI) runRender(ctx context.Context, opts *renderOpts) error {
	popts, err := c.toPipelineOptions(opts)
	if err != nil {
		return err
	}

	runner, err := c.newRunner(ctx, opts.cache)
	if err != nil {
		return err
	}
	defer runner.Close()

	prog := newProgress(loggerFromContext(ctx))
	spinner := newSpinnerWithContext(ctx, "Rendering...")
	spinner.Start()
	result, err := runner.Execute(ctx, popts)
	if err != nil {
		spinner.StopWithError("Render failed")
		return err
	}
	spinner.Stop()
	prog.done("rendered", "depth", result.Snapshot.MaxDepth, "formats", popts.Formats, "cached", result.CacheHit)

	paths, err := writeArtifacts(result.Artifacts, opts.output)
	if err != nil {
		return err
	}

	printSuccess("Rendered %s", strings.Join(popts.Formats, ", "))
	printStats(result.Stats.NodeCount, len(result.Levels), result.CacheHit)
	for _, p := range paths {
		printFile(p)
	}
	return nil
}

// outputPaths maps each format to a file path. A single format with an
// explicit output is written there verbatim; otherwise output (minus any
// known extension) is used as the base name.
func outputPaths(formats []string, output string) map[string]string {
	paths := make(map[string]string, len(formats))
	if len(formats) == 1 && output != "" && filepath.Ext(output) != "" {
		paths[formats[0]] = output
		return paths
	}
	base := basePath(output)
	for _, f := range formats {
		paths[f] = base + "." + f
	}
	return paths
}

// basePath strips a known format extension from output, defaulting to
// the application name.
func basePath(output string) string {
	if output == "" {
		return defaultOutputBase
	}
	ext := filepath.Ext(output)
	if pipeline.ValidFormats[strings.TrimPrefix(ext, ".")] {
		return strings.TrimSuffix(output, ext)
	}
	return output
}

// writeArtifacts writes every artifact and returns the written paths in
// sorted order.
func writeArtifacts(artifacts map[string][]byte, output string) ([]string, error) {
	formats := make([]string, 0, len(artifacts))
	for f := range artifacts {
		formats = append(formats, f)
	}
	sort.Strings(formats)

	paths := outputPaths(formats, output)
	written := make([]string, 0, len(formats))
	for _, f := range formats {
		path := paths[f]
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("create output dir: %w", err)
			}
		}
		if err := os.WriteFile(path, artifacts[f], 0o644); err != nil {
			return nil, fmt.Errorf("write %s: %w", path, err)
		}
		written = append(written, path)
	}
	return written, nil
}
