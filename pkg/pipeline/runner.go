package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"

	"github.com/bgpfig/bgpfig/pkg/cache"
	"github.com/bgpfig/bgpfig/pkg/errors"
	pkgio "github.com/bgpfig/bgpfig/pkg/io"
	"github.com/bgpfig/bgpfig/pkg/network"
	"github.com/bgpfig/bgpfig/pkg/observability"
	"github.com/bgpfig/bgpfig/pkg/render/dot"
	"github.com/bgpfig/bgpfig/pkg/render/tikz"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API can use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs the complete load → render pipeline with caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	r.applyLogger(&opts)

	result := &Result{
		Artifacts: make(map[string][]byte),
	}

	// Stage 1: Load
	loadStart := time.Now()
	net, raw, err := r.Load(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}
	result.Network = net
	result.SnapshotHash = cache.Hash(raw)
	result.Stats.LoadTime = time.Since(loadStart)
	result.Stats.RouterCount = net.RouterCount()
	result.Stats.LinkCount = net.LinkCount()

	r.Logger.Info("loaded network",
		"routers", net.RouterCount(),
		"links", net.LinkCount(),
		"duration", result.Stats.LoadTime)

	// Stage 2: Render
	renderStart := time.Now()
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, net, result.SnapshotHash, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// Load decodes the snapshot named by opts. It returns the model together
// with the raw snapshot bytes, which callers hash for cache keys.
func (r *Runner) Load(ctx context.Context, opts Options) (*network.Network, []byte, error) {
	if err := opts.ValidateForLoad(); err != nil {
		return nil, nil, err
	}
	r.applyLogger(&opts)

	source := opts.Source
	if source == "" {
		source = "inline"
	}

	hooks := observability.Export()
	hooks.OnLoadStart(ctx, source)
	start := time.Now()

	raw := opts.Snapshot
	if opts.Source != "" {
		data, err := os.ReadFile(opts.Source)
		if err != nil {
			if os.IsNotExist(err) {
				err = errors.Wrap(errors.ErrCodeFileNotFound, err, "snapshot %s", opts.Source)
			}
			hooks.OnLoadComplete(ctx, source, 0, time.Since(start), err)
			return nil, nil, err
		}
		raw = data
	}

	net, err := pkgio.ReadJSON(bytes.NewReader(raw))
	if err != nil {
		err = errors.Wrap(errors.ErrCodeInvalidSnapshot, err, "decode snapshot")
		hooks.OnLoadComplete(ctx, source, 0, time.Since(start), err)
		return nil, nil, err
	}

	hooks.OnLoadComplete(ctx, source, net.RouterCount(), time.Since(start), nil)
	return net, raw, nil
}

// RenderWithCacheInfo renders all requested formats with caching and
// returns cache hit info. The snapshotHash keys the document cache; pass
// an empty string to disable caching for this call.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, net *network.Network, snapshotHash string, opts Options) (map[string][]byte, bool, error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, false, err
	}
	r.applyLogger(&opts)

	cacheHooks := observability.Cache()

	// Try to get all formats from cache
	if !opts.NoCache && snapshotHash != "" {
		allCached := true
		artifacts := make(map[string][]byte)

		for _, format := range opts.Formats {
			cacheKey := r.Keyer.DocumentKey(snapshotHash, opts.DocumentKeyOpts(format))
			if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
				cacheHooks.OnCacheHit(ctx, "document")
				artifacts[format] = data
			} else {
				cacheHooks.OnCacheMiss(ctx, "document")
				allCached = false
				break
			}
		}

		if allCached && len(artifacts) == len(opts.Formats) {
			return artifacts, true, nil // All artifacts from cache
		}
	}

	// Render all formats
	rendered, err := r.renderFormats(ctx, net, opts)
	if err != nil {
		return nil, false, err
	}

	// Cache each format
	if !opts.NoCache && snapshotHash != "" {
		for format, data := range rendered {
			cacheKey := r.Keyer.DocumentKey(snapshotHash, opts.DocumentKeyOpts(format))
			if err := r.Cache.Set(ctx, cacheKey, data, cache.TTLDocument); err == nil {
				cacheHooks.OnCacheSet(ctx, "document", len(data))
			}
		}
	}

	return rendered, false, nil // Cache miss
}

// Render is a convenience wrapper that calls RenderWithCacheInfo and discards the cache hit info.
func (r *Runner) Render(ctx context.Context, net *network.Network, snapshotHash string, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, net, snapshotHash, opts)
	return artifacts, err
}

// renderFormats renders every requested format, emitting hook events per
// format.
func (r *Runner) renderFormats(ctx context.Context, net *network.Network, opts Options) (map[string][]byte, error) {
	hooks := observability.Export()
	artifacts := make(map[string][]byte)

	for _, format := range opts.Formats {
		hooks.OnRenderStart(ctx, format)
		start := time.Now()

		data, err := renderFormat(net, format, opts)
		hooks.OnRenderComplete(ctx, format, len(data), time.Since(start), err)
		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}

	return artifacts, nil
}

// renderFormat renders a single format.
func renderFormat(net *network.Network, format string, opts Options) ([]byte, error) {
	switch format {
	case FormatTeX:
		doc, err := tikz.Export(net)
		if err != nil {
			return nil, err
		}
		doc, err = applyToggles(doc, opts)
		if err != nil {
			return nil, err
		}
		return []byte(doc), nil

	case FormatDOT:
		return []byte(dot.ToDOT(net, dot.Options{Weights: opts.Weights})), nil

	case FormatSVG:
		graphDOT := dot.ToDOT(net, dot.Options{Weights: opts.Weights})
		return dot.RenderSVG(graphDOT)

	case FormatJSON:
		var buf bytes.Buffer
		if err := pkgio.WriteJSON(net, &buf); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil

	default:
		return nil, ValidateFormat(format)
	}
}

// applyToggles activates the requested overlays and prefix selection in a
// rendered document.
func applyToggles(doc string, opts Options) (string, error) {
	for _, name := range opts.Overlays {
		ov, err := tikz.ParseOverlay(name)
		if err != nil {
			return "", errors.Wrap(errors.ErrCodeInvalidOverlay, err, "invalid overlay: %q", name)
		}
		doc, err = tikz.EnableOverlay(doc, ov)
		if err != nil {
			return "", err
		}
	}

	if opts.Prefix != "" {
		selected, err := tikz.SelectPrefix(doc, network.Prefix(opts.Prefix))
		if err != nil {
			return "", errors.Wrap(errors.ErrCodeInvalidPrefix, err, "select prefix %q", opts.Prefix)
		}
		doc = selected
	}

	return doc, nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
