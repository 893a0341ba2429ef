package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bgpfig/bgpfig/pkg/cache"
	"github.com/bgpfig/bgpfig/pkg/pipeline"
)

// previewCommand creates the preview command for quick topology rendering.
func (c *CLI) previewCommand() *cobra.Command {
	var (
		formatsStr string
		output     string
		weights    bool
		noCache    bool
	)

	cmd := &cobra.Command{
		Use:   "preview [network.json]",
		Short: "Render a quick Graphviz preview of a snapshot",
		Long: `Render a quick Graphviz preview of a network snapshot.

The preview command renders the topology as an SVG (or raw DOT) without
going through LaTeX, so the result can be opened directly in a browser.
Internal routers appear as circles, external routers as diamonds.

Results are cached locally for faster subsequent runs.

Use 'export' to produce the full LaTeX/TikZ document.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			formats := parsePreviewFormats(formatsStr)
			if err := pipeline.ValidateFormats(formats); err != nil {
				return err
			}
			return c.runPreview(cmd.Context(), args[0], formats, output, weights, noCache)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (single format, '-' for stdout) or base path (multiple)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), dot (comma-separated)")
	cmd.Flags().BoolVar(&weights, "weights", false, "show link weight labels")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

// parsePreviewFormats parses the --format flag, defaulting to svg.
func parsePreviewFormats(s string) []string {
	if s == "" {
		return []string{pipeline.FormatSVG}
	}
	return parseFormats(s)
}

// runPreview loads the snapshot and renders the preview formats.
func (c *CLI) runPreview(ctx context.Context, input string, formats []string, output string, weights, noCache bool) error {
	runner, err := c.newRunner(noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	opts := pipeline.Options{
		Source:  input,
		Formats: formats,
		Weights: weights,
		NoCache: noCache,
		Logger:  c.Logger,
	}

	net, raw, err := runner.Load(ctx, opts)
	if err != nil {
		return err
	}

	spinner := newSpinnerWithContext(ctx, "Rendering preview...")
	spinner.Start()

	artifacts, cacheHit, err := runner.RenderWithCacheInfo(ctx, net, cache.Hash(raw), opts)
	if err != nil {
		spinner.StopWithError("Preview failed")
		return err
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	return writeArtifacts(artifactWriteParams{
		artifacts: artifacts,
		formats:   formats,
		input:     input,
		output:    output,
		cacheHit:  cacheHit,
		routers:   net.RouterCount(),
		links:     net.LinkCount(),
	})
}
