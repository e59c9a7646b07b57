package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/versegraph/versegraph/pkg/pipeline"
)

// viewCommand creates the view command: fetch, lay out, and render one verse.
func (c *CLI) viewCommand() *cobra.Command {
	var (
		formatsStr string
		output     string
		sourceFlag string
		noCache    bool
	)
	opts := pipeline.Options{}

	cmd := &cobra.Command{
		Use:   "view [osis]",
		Short: "Render the research graph around a verse",
		Long: `Render the research graph around a verse.

The view command fetches the graph payload for an OSIS reference (e.g.
John.3.16), runs the deterministic force layout, applies any facet
selection, and writes the result as SVG, PNG, DOT, or JSON.

Payloads are cached locally; the layout itself is recomputed on every run
and is identical across runs for the same payload and seed.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.OSIS = args[0]
			opts.Formats = parseFormats(formatsStr)
			if err := pipeline.ValidateFormats(opts.Formats); err != nil {
				return err
			}
			return c.runView(cmd.Context(), opts, output, sourceFlag, noCache)
		},
	}

	// Common flags
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVar(&sourceFlag, "source", "", "payload source: a base URL or a local payload directory")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable payload caching")
	cmd.Flags().BoolVar(&opts.Refresh, "refresh", false, "bypass the cache and refetch the payload")

	// Layout flags
	cmd.Flags().Float64Var(&opts.Width, "width", 0, "canvas width (default 800)")
	cmd.Flags().Float64Var(&opts.Height, "height", 0, "canvas height (default 600)")
	cmd.Flags().Uint64Var(&opts.Seed, "seed", 0, "layout seed (default 42)")

	// Facet flags
	cmd.Flags().StringSliceVar(&opts.Perspectives, "perspective", nil, "perspectives to keep (repeatable; default all)")
	cmd.Flags().StringSliceVar(&opts.SourceTypes, "source-type", nil, "source types to keep (repeatable; default all)")

	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), png, dot, json (comma-separated)")

	return cmd
}

// runView executes the pipeline and writes the rendered artifacts.
func (c *CLI) runView(ctx context.Context, opts pipeline.Options, output, sourceFlag string, noCache bool) error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}

	// Flags win; unset layout flags fall back to the configured defaults.
	if opts.Width == 0 {
		opts.Width = cfg.Layout.Width
	}
	if opts.Height == 0 {
		opts.Height = cfg.Layout.Height
	}
	if opts.Seed == 0 {
		opts.Seed = cfg.Layout.Seed
	}

	runner, err := c.newRunner(ctx, cfg, sourceFlag, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	opts.Logger = c.Logger

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Building graph for %s...", opts.OSIS))
	spinner.Start()

	result, err := runner.Execute(ctx, opts)
	if err != nil {
		spinner.StopWithError("Graph build failed")
		return err
	}
	spinner.Stop()

	printSuccess("Rendered %s", opts.OSIS)
	printStats(result.Stats.NodeCount, result.View.VisibleEdgeCount, result.View.TotalEdgeCount, result.CacheInfo.PayloadHit)
	if result.Stats.DroppedEdges > 0 {
		printWarning("Dropped %d malformed entries", result.Stats.DroppedEdges)
	}

	return writeArtifacts(opts.OSIS, output, opts.Formats, result.Artifacts)
}

// writeArtifacts writes each rendered format to disk.
// With a single format and an explicit output path the artifact goes exactly
// there; otherwise file names are derived as base.format, where base is the
// output path (extension stripped) or the OSIS reference.
func writeArtifacts(osis, output string, formats []string, artifacts map[string][]byte) error {
	if len(formats) == 1 && output != "" {
		return writeArtifact(output, artifacts[formats[0]])
	}

	base := output
	if base == "" {
		base = osis
	} else if ext := filepath.Ext(base); pipeline.ValidFormats[strings.TrimPrefix(ext, ".")] {
		base = strings.TrimSuffix(base, ext)
	}

	for _, format := range formats {
		if err := writeArtifact(base+"."+format, artifacts[format]); err != nil {
			return err
		}
	}
	return nil
}

func writeArtifact(path string, data []byte) error {
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	printFile(path)
	return nil
}
