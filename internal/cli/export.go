package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/bgpfig/bgpfig/pkg/cache"
	"github.com/bgpfig/bgpfig/pkg/errors"
	"github.com/bgpfig/bgpfig/pkg/pipeline"
	"github.com/bgpfig/bgpfig/pkg/render/tikz"
)

// exportOpts holds the command-line flags for the export command.
type exportOpts struct {
	output      string   // output file (single format) or base path (multiple)
	overlays    []string // overlay switches to activate in the document
	prefix      string   // prefix whose switch stays active
	weights     bool     // weight labels in dot/svg previews
	noCache     bool     // bypass the document cache
	interactive bool     // pick overlays and prefix interactively
}

// exportCommand creates the export command for rendering snapshots.
//
// Default settings:
//   - format: tex (the standalone LaTeX/TikZ document)
//   - all overlay switches stay commented out
//   - results cached under the user cache directory
func (c *CLI) exportCommand() *cobra.Command {
	var formatsStr string
	opts := exportOpts{}

	cmd := &cobra.Command{
		Use:   "export [network.json]",
		Short: "Export a network snapshot to a TikZ document",
		Long: `Export a network snapshot to a standalone LaTeX/TikZ document.

The exported document compiles as-is and carries every overlay as a
commented-out switch. Use --enable to activate overlays in the output, or
--interactive to pick them from a list. Additional formats render the same
snapshot as a Graphviz preview (dot, svg) or re-encode it as JSON.

Examples:
  bgpfig export network.json                              # network.tex
  bgpfig export network.json --enable bgp-sessions        # sessions visible
  bgpfig export network.json --prefix 100.0.0.0/24        # select one prefix
  bgpfig export network.json -f tex,svg -o out/figure     # multiple formats`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			formats := parseFormats(formatsStr)
			if err := pipeline.ValidateFormats(formats); err != nil {
				return err
			}
			return c.runExport(cmd.Context(), args[0], formats, &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format, '-' for stdout) or base path (multiple)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): tex (default), dot, svg, json (comma-separated)")
	cmd.Flags().StringArrayVar(&opts.overlays, "enable", nil, "activate an overlay switch: "+strings.Join(overlayNames(), ", ")+" (repeatable)")
	cmd.Flags().StringVar(&opts.prefix, "prefix", "", "keep only this prefix's switch active")
	cmd.Flags().BoolVar(&opts.weights, "weights", false, "show link weight labels in dot/svg previews")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVarP(&opts.interactive, "interactive", "i", false, "pick overlays and prefix interactively")

	return cmd
}

// runExport loads the snapshot, optionally runs the interactive picker, and
// renders the requested formats.
func (c *CLI) runExport(ctx context.Context, input string, formats []string, opts *exportOpts) error {
	logger := loggerFromContext(ctx)

	runner, err := c.newRunner(opts.noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	pOpts := pipeline.Options{
		Source:   input,
		Formats:  formats,
		Overlays: opts.overlays,
		Prefix:   opts.prefix,
		Weights:  opts.weights,
		NoCache:  opts.noCache,
		Logger:   logger,
	}

	net, raw, err := runner.Load(ctx, pOpts)
	if err != nil {
		return err
	}
	logger.Debugf("Loaded %s: %d routers, %d links", input, net.RouterCount(), net.LinkCount())

	if opts.interactive {
		sel, ok, err := pickToggles(net.Prefixes(), pOpts.Overlays, pOpts.Prefix)
		if err != nil {
			return fmt.Errorf("interactive selection: %w", err)
		}
		if !ok {
			printInfo("Export cancelled")
			return nil
		}
		pOpts.Overlays = sel.overlays
		pOpts.Prefix = sel.prefix
	}

	prog := newProgress(logger)
	spinner := newSpinnerWithContext(ctx, "Exporting...")
	spinner.Start()

	artifacts, cacheHit, err := runner.RenderWithCacheInfo(ctx, net, cache.Hash(raw), pOpts)
	if err != nil {
		spinner.StopWithError("Export failed")
		return err
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}
	prog.done(fmt.Sprintf("Exported %d format(s)", len(artifacts)))

	return writeArtifacts(artifactWriteParams{
		artifacts: artifacts,
		formats:   pOpts.Formats,
		input:     input,
		output:    opts.output,
		cacheHit:  cacheHit,
		routers:   net.RouterCount(),
		links:     net.LinkCount(),
	})
}

// overlayNames lists the overlay flag forms in skeleton order.
func overlayNames() []string {
	names := make([]string, len(tikz.Overlays))
	for i, o := range tikz.Overlays {
		names[i] = o.String()
	}
	return names
}

// =============================================================================
// Artifact Output
// =============================================================================

// artifactWriteParams bundles everything writeArtifacts needs to place
// rendered artifacts on disk and report them.
type artifactWriteParams struct {
	artifacts map[string][]byte
	formats   []string
	input     string // snapshot path, used to derive default output paths
	output    string // --output flag value
	cacheHit  bool
	routers   int
	links     int
}

// writeArtifacts writes each rendered format to its output path and prints
// a summary. A single format honors --output exactly ('-' means stdout);
// multiple formats treat --output as a base path and append the format
// extension.
func writeArtifacts(p artifactWriteParams) error {
	if len(p.formats) == 1 && p.output == "-" {
		_, err := os.Stdout.Write(p.artifacts[p.formats[0]])
		return err
	}
	if p.output != "" {
		if err := errors.ValidateOutputPath(p.output); err != nil {
			return err
		}
	}

	base := basePath(p.output, p.input)
	var paths []string
	for _, format := range p.formats {
		path := base + "." + format
		if len(p.formats) == 1 && p.output != "" {
			path = p.output
		}
		if err := writeFile(path, p.artifacts[format]); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		paths = append(paths, path)
	}

	printSuccess("Export complete")
	for _, path := range paths {
		printFile(path)
	}
	printStats(p.routers, p.links, p.cacheHit)

	for _, path := range paths {
		if strings.HasSuffix(path, "."+pipeline.FormatTeX) {
			printNewline()
			printNextStep("Compile", "pdflatex "+path)
			break
		}
	}
	return nil
}

// basePath derives the base output path from the output and input paths.
// If output is empty, it strips the extension from input. If output ends in
// a known format extension, that extension is stripped.
func basePath(output, input string) string {
	if output == "" {
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	ext := filepath.Ext(output)
	if pipeline.ValidFormats[strings.TrimPrefix(ext, ".")] {
		return strings.TrimSuffix(output, ext)
	}
	return output
}

// writeFile writes data to path, creating parent directories as needed.
func writeFile(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, data, 0644)
}
