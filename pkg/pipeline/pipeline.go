// Package pipeline provides the core layout pipeline for phylogram.
//
// This package implements the complete normalize → layout → render pipeline
// that can be used by CLI and server components. By centralizing this logic,
// we ensure consistent behavior across all entry points and avoid code
// duplication.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Normalize: Canonicalize the input tree (root designation, synthetic
//     names, unclassified extraction, depth pruning)
//  2. Layout: Compute depth/rank coordinates and drawable primitives
//  3. Render: Generate output in various formats (SVG, PNG, DOT, JSON)
//
// Each stage can be run independently or as part of the complete pipeline.
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.Options{
//	    Orientation: "right",
//	    Formats:     []string{"svg"},
//	}
//	result, err := runner.Execute(ctx, root, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/cladekit/phylogram/pkg/cache"
	"github.com/cladekit/phylogram/pkg/errors"
	"github.com/cladekit/phylogram/pkg/layout"
	"github.com/cladekit/phylogram/pkg/tree"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and Server
// =============================================================================

const (
	// DefaultScale is the default PNG scale factor (2x for high-DPI displays).
	DefaultScale = 2.0
)

// Format constants for output formats.
const (
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatDOT  = "dot"
	FormatJSON = "json"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:  true,
	FormatPNG:  true,
	FormatDOT:  true,
	FormatJSON: true,
}

// View constants for the rendered figure style.
const (
	// ViewCladogram draws the computed layout: depth/rank coordinates
	// with right-angle branch elbows.
	ViewCladogram = "cladogram"

	// ViewNodeLink draws the tree topology as a Graphviz node-link
	// diagram, independent of branch lengths.
	ViewNodeLink = "nodelink"
)

// DefaultView is the view used when none is configured.
const DefaultView = ViewCladogram

// ValidViews is the set of supported views.
var ValidViews = map[string]bool{
	ViewCladogram: true,
	ViewNodeLink:  true,
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the layout pipeline.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Normalize options
	//
	// DisplayLevel caps the tree depth: nodes at this level or deeper lose
	// their children. Zero means unlimited. Negative values are rejected.
	DisplayLevel int `json:"display_level,omitempty"`

	// Layout options
	Orientation string `json:"orientation,omitempty"`

	// Render options
	Formats     []string `json:"formats,omitempty"`
	View        string   `json:"view,omitempty"`         // Figure style: cladogram (default) or nodelink
	ShowLengths bool     `json:"show_lengths,omitempty"` // Label DOT edges with branch lengths
	Scale       float64  `json:"scale,omitempty"`        // PNG scale factor

	// Cache options
	Refresh bool `json:"refresh,omitempty"` // Bypass the cache and recompute

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool `json:"-"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// RunID uniquely identifies this pipeline execution.
	RunID string

	// Tree is the normalized tree used for layout.
	Tree *tree.Node

	// Unclassified is the extracted unclassified subtree, if any.
	Unclassified *tree.Node

	// TreeHash is the content hash of the input tree.
	TreeHash string

	// Layout contains the computed coordinates and primitives.
	Layout layout.Result

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	NodeCount     int
	LeafCount     int
	NormalizeTime time.Duration
	LayoutTime    time.Duration
	RenderTime    time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	LayoutHit bool // Whether the layout result came from cache
	RenderHit bool // Whether all artifacts came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat,
			"invalid format: %q (must be one of: svg, png, dot, json)", format)
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

// ValidateView checks that a view is valid.
func ValidateView(view string) error {
	if !ValidViews[view] {
		return errors.New(errors.ErrCodeInvalidFormat,
			"invalid view: %q (must be one of: cladogram, nodelink)", view)
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks all fields and applies defaults for the full
// pipeline. This method is idempotent - calling it multiple times has the
// same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForNormalize(); err != nil {
		return err
	}
	if err := o.ValidateForLayout(); err != nil {
		return err
	}
	if err := o.ValidateForRender(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// ValidateForNormalize checks the normalization options.
func (o *Options) ValidateForNormalize() error {
	if o.DisplayLevel < 0 {
		return errors.New(errors.ErrCodeInvalidDisplayLevel,
			"display level must be non-negative, got %d", o.DisplayLevel)
	}
	o.setLogger()
	return nil
}

// ValidateForLayout validates and sets defaults for layout computation.
func (o *Options) ValidateForLayout() error {
	orientation, err := layout.ParseOrientation(o.Orientation)
	if err != nil {
		return err
	}
	o.Orientation = string(orientation)
	o.setLogger()
	return nil
}

// SetRenderDefaults sets default values for rendering.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if o.View == "" {
		o.View = DefaultView
	}
	if o.Scale == 0 {
		o.Scale = DefaultScale
	}
	o.setLogger()
}

// ValidateForRender validates and sets defaults for rendering.
func (o *Options) ValidateForRender() error {
	o.SetRenderDefaults()
	if err := ValidateView(o.View); err != nil {
		return err
	}
	return ValidateFormats(o.Formats)
}

// NodeLinkView reports whether the node-link view was requested.
func (o *Options) NodeLinkView() bool {
	return o.View == ViewNodeLink
}

func (o *Options) setLogger() {
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// LayoutKeyOpts returns cache key options for layout computation.
func (o *Options) LayoutKeyOpts() cache.LayoutKeyOpts {
	return cache.LayoutKeyOpts{
		DisplayLevel: o.DisplayLevel,
		Orientation:  o.Orientation,
	}
}

// ArtifactKeyOpts returns cache key options for artifact rendering.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{
		Format:      format,
		View:        o.View,
		Scale:       o.Scale,
		ShowLengths: o.ShowLengths,
	}
}
