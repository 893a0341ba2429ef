// Package pipeline provides the core export pipeline for bgpfig.
//
// This package implements the complete load → render pipeline that can be
// used by CLI and API components. By centralizing this logic, we ensure
// consistent behavior across all entry points and avoid code duplication.
//
// # Architecture
//
// The pipeline consists of two stages:
//
//  1. Load: Decode a network snapshot from a file or request body
//  2. Render: Generate output in various formats (TeX, DOT, SVG, JSON)
//
// Rendering is deterministic, so rendered documents are cached by snapshot
// content hash. Loading is not cached; decoding a snapshot is cheap.
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.Options{
//	    Source:  "network.json",
//	    Formats: []string{"tex"},
//	}
//	result, err := runner.Execute(ctx, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	doc := result.Artifacts["tex"]
//
// Run individual stages:
//
//	// Load only
//	net, raw, err := runner.Load(ctx, opts)
//
//	// Render with an existing network
//	artifacts, err := runner.Render(ctx, net, hash, opts)
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/bgpfig/bgpfig/pkg/cache"
	"github.com/bgpfig/bgpfig/pkg/errors"
	"github.com/bgpfig/bgpfig/pkg/network"
	"github.com/bgpfig/bgpfig/pkg/render/tikz"
)

// Format constants for output formats.
const (
	FormatTeX  = "tex"
	FormatDOT  = "dot"
	FormatSVG  = "svg"
	FormatJSON = "json"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatTeX:  true,
	FormatDOT:  true,
	FormatSVG:  true,
	FormatJSON: true,
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the export pipeline.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Load options. Exactly one of Source and Snapshot must be set:
	// Source names a snapshot file, Snapshot carries the document inline.
	Source   string `json:"source,omitempty"`
	Snapshot []byte `json:"snapshot,omitempty"`

	// Render options
	Formats  []string `json:"formats,omitempty"`
	Overlays []string `json:"overlays,omitempty"` // Overlay switches to activate in TeX output
	Prefix   string   `json:"prefix,omitempty"`   // Prefix to select in TeX output
	Weights  bool     `json:"weights,omitempty"`  // Weight labels in DOT/SVG previews
	NoCache  bool     `json:"no_cache,omitempty"` // Bypass the document cache

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool `json:"-"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Network is the decoded network model.
	Network *network.Network

	// SnapshotHash is the content hash of the snapshot document.
	SnapshotHash string

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks whether rendering hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	RouterCount int
	LinkCount   int
	LoadTime    time.Duration
	RenderTime  time.Duration
}

// CacheInfo tracks cache hits for the render stage.
type CacheInfo struct {
	RenderHit bool // Whether all artifacts came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat, "invalid format: %q (must be one of: tex, dot, svg, json)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateOverlays checks that all overlay names are valid.
func ValidateOverlays(overlays []string) error {
	for _, name := range overlays {
		if _, err := tikz.ParseOverlay(name); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidOverlay, err, "invalid overlay: %q", name)
		}
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks required fields and applies defaults for the full pipeline.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForLoad(); err != nil {
		return err
	}
	o.SetRenderDefaults()
	if err := o.ValidateForRender(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// ValidateForLoad checks required fields for loading.
func (o *Options) ValidateForLoad() error {
	if o.Source == "" && len(o.Snapshot) == 0 {
		return errors.New(errors.ErrCodeInvalidInput, "source or snapshot is required")
	}
	if o.Source != "" && len(o.Snapshot) > 0 {
		return errors.New(errors.ErrCodeInvalidInput, "source and snapshot are mutually exclusive")
	}
	if len(o.Snapshot) > 0 {
		if err := errors.ValidateSnapshotSize(len(o.Snapshot)); err != nil {
			return err
		}
	}

	// Logger default
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}

	return nil
}

// SetRenderDefaults sets default values for rendering.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatTeX}
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForRender validates and sets defaults for rendering.
func (o *Options) ValidateForRender() error {
	o.SetRenderDefaults()
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if err := ValidateOverlays(o.Overlays); err != nil {
		return err
	}
	if o.Prefix != "" {
		if err := errors.ValidatePrefix(o.Prefix); err != nil {
			return err
		}
	}
	return nil
}

// NeedsGraphviz returns true if any requested format requires Graphviz
// rendering.
func (o *Options) NeedsGraphviz() bool {
	for _, f := range o.Formats {
		if f == FormatSVG {
			return true
		}
	}
	return false
}

// DocumentKeyOpts returns cache key options for the given format.
func (o *Options) DocumentKeyOpts(format string) cache.DocumentKeyOpts {
	return cache.DocumentKeyOpts{
		Format:   format,
		Overlays: o.Overlays,
		Prefix:   o.Prefix,
		Weights:  o.Weights,
	}
}
