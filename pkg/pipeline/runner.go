package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/cladekit/phylogram/pkg/cache"
	"github.com/cladekit/phylogram/pkg/layout"
	"github.com/cladekit/phylogram/pkg/observability"
	"github.com/cladekit/phylogram/pkg/render"
	"github.com/cladekit/phylogram/pkg/tree"
	"github.com/cladekit/phylogram/pkg/tree/transform"
	"github.com/cladekit/phylogram/pkg/treeio"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and server can use this to avoid duplicating caching logic.
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

// Execute runs the complete normalize → layout → render pipeline with caching.
// The input tree is never mutated.
func (r *Runner) Execute(ctx context.Context, root *tree.Node, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	r.applyLogger(&opts)

	result := &Result{
		RunID:     uuid.NewString(),
		Artifacts: make(map[string][]byte),
	}

	// The tree hash keys every cached stage: normalization and layout are
	// pure functions of (tree, options).
	treeData, err := treeio.MarshalTree(root)
	if err != nil {
		return nil, err
	}
	result.TreeHash = cache.Hash(treeData)

	// Stage 1: Normalize
	normStart := time.Now()
	observability.Pipeline().OnNormalizeStart(ctx, tree.Count(root))
	normalized, unclassified, err := r.Normalize(root, opts)
	result.Stats.NormalizeTime = time.Since(normStart)
	if err != nil {
		observability.Pipeline().OnNormalizeComplete(ctx, 0, 0, result.Stats.NormalizeTime, err)
		return nil, fmt.Errorf("normalize: %w", err)
	}
	result.Tree = normalized
	result.Unclassified = unclassified
	result.Stats.NodeCount = tree.Count(normalized)
	result.Stats.LeafCount = len(tree.Leaves(normalized))
	observability.Pipeline().OnNormalizeComplete(ctx,
		result.Stats.NodeCount, result.Stats.LeafCount, result.Stats.NormalizeTime, nil)

	r.Logger.Info("normalized tree",
		"run_id", result.RunID,
		"nodes", result.Stats.NodeCount,
		"leaves", result.Stats.LeafCount,
		"duration", result.Stats.NormalizeTime)

	// Stage 2: Layout
	layoutStart := time.Now()
	observability.Pipeline().OnLayoutStart(ctx, opts.Orientation, result.Stats.NodeCount)
	layoutRes, layoutHit, err := r.GenerateLayoutWithCacheInfo(ctx, result.TreeHash, normalized, unclassified, opts)
	result.Stats.LayoutTime = time.Since(layoutStart)
	observability.Pipeline().OnLayoutComplete(ctx, opts.Orientation, result.Stats.LayoutTime, err)
	if err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}
	result.Layout = layoutRes
	result.CacheInfo.LayoutHit = layoutHit

	r.Logger.Info("computed layout",
		"primitives", len(layoutRes.Primitives),
		"cache_hit", layoutHit,
		"duration", result.Stats.LayoutTime)

	// Stage 3: Render
	renderStart := time.Now()
	observability.Pipeline().OnRenderStart(ctx, opts.Formats)
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, layoutRes, normalized, opts)
	result.Stats.RenderTime = time.Since(renderStart)
	observability.Pipeline().OnRenderComplete(ctx, opts.Formats, result.Stats.RenderTime, err)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.CacheInfo.RenderHit = renderHit

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"cache_hit", renderHit,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// Normalize canonicalizes the input tree according to the options.
func (r *Runner) Normalize(root *tree.Node, opts Options) (*tree.Node, *tree.Node, error) {
	if err := opts.ValidateForNormalize(); err != nil {
		return nil, nil, err
	}
	return transform.Normalize(root, effectiveLevel(opts))
}

// GenerateLayoutWithCacheInfo computes a layout with caching and returns
// cache hit info. The treeHash must be the hash of the pre-normalization
// input so identical inputs hit regardless of normalization cost.
func (r *Runner) GenerateLayoutWithCacheInfo(ctx context.Context, treeHash string, normalized, unclassified *tree.Node, opts Options) (layout.Result, bool, error) {
	if err := opts.ValidateForLayout(); err != nil {
		return layout.Result{}, false, err
	}
	r.applyLogger(&opts)

	cacheKey := r.Keyer.LayoutKey(treeHash, opts.LayoutKeyOpts())

	// Try cache first (unless refresh requested)
	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			cached, err := treeio.UnmarshalLayout(data)
			if err == nil {
				observability.Cache().OnCacheHit(ctx, "layout")
				return cached, true, nil
			}
			// If deserialization fails, fall through to recompute
		}
		observability.Cache().OnCacheMiss(ctx, "layout")
	}

	orientation, err := layout.ParseOrientation(opts.Orientation)
	if err != nil {
		return layout.Result{}, false, err
	}
	res, err := layout.Build(normalized, unclassified, orientation)
	if err != nil {
		return layout.Result{}, false, err
	}

	if data, err := treeio.MarshalLayout(res); err == nil {
		_ = r.Cache.Set(ctx, cacheKey, data, cache.TTLLayout)
		observability.Cache().OnCacheSet(ctx, "layout", len(data))
	}

	return res, false, nil
}

// GenerateLayout is a convenience wrapper that normalizes and lays out a
// tree without caching metadata.
func (r *Runner) GenerateLayout(ctx context.Context, root *tree.Node, opts Options) (layout.Result, error) {
	normalized, unclassified, err := r.Normalize(root, opts)
	if err != nil {
		return layout.Result{}, err
	}
	treeData, err := treeio.MarshalTree(root)
	if err != nil {
		return layout.Result{}, err
	}
	res, _, err := r.GenerateLayoutWithCacheInfo(ctx, cache.Hash(treeData), normalized, unclassified, opts)
	return res, err
}

// RenderWithCacheInfo generates artifacts with caching and returns cache hit info.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, layoutRes layout.Result, normalized *tree.Node, opts Options) (map[string][]byte, bool, error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, false, err
	}
	r.applyLogger(&opts)

	layoutData, err := treeio.MarshalLayout(layoutRes)
	if err != nil {
		return nil, false, fmt.Errorf("serialize layout for cache key: %w", err)
	}
	layoutHash := cache.Hash(layoutData)

	// Try to get all formats from cache
	allCached := true
	artifacts := make(map[string][]byte)

	if !opts.Refresh {
		for _, format := range opts.Formats {
			cacheKey := r.Keyer.ArtifactKey(layoutHash, opts.ArtifactKeyOpts(format))
			if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
				observability.Cache().OnCacheHit(ctx, "artifact")
				artifacts[format] = data
			} else {
				observability.Cache().OnCacheMiss(ctx, "artifact")
				allCached = false
				break
			}
		}
		if allCached && len(artifacts) == len(opts.Formats) {
			return artifacts, true, nil
		}
	}

	rendered, err := r.renderFormats(ctx, layoutRes, normalized, opts)
	if err != nil {
		return nil, false, err
	}

	for format, data := range rendered {
		cacheKey := r.Keyer.ArtifactKey(layoutHash, opts.ArtifactKeyOpts(format))
		_ = r.Cache.Set(ctx, cacheKey, data, cache.TTLArtifact)
		observability.Cache().OnCacheSet(ctx, "artifact", len(data))
	}

	return rendered, false, nil
}

// renderFormats produces each requested artifact from the layout result.
// The cladogram view draws the computed primitives; the nodelink view hands
// the tree topology to Graphviz.
func (r *Runner) renderFormats(ctx context.Context, layoutRes layout.Result, normalized *tree.Node, opts Options) (map[string][]byte, error) {
	artifacts := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		switch format {
		case FormatSVG:
			if opts.NodeLinkView() {
				dot := render.ToDOT(normalized, render.DOTOptions{ShowLengths: opts.ShowLengths})
				svg, err := render.GraphvizSVG(ctx, dot)
				if err != nil {
					return nil, fmt.Errorf("render nodelink svg: %w", err)
				}
				artifacts[format] = svg
				continue
			}
			artifacts[format] = render.RenderSVG(layoutRes)
		case FormatPNG:
			if opts.NodeLinkView() {
				dot := render.ToDOT(normalized, render.DOTOptions{ShowLengths: opts.ShowLengths})
				png, err := render.GraphvizPNG(ctx, dot)
				if err != nil {
					return nil, fmt.Errorf("render nodelink png: %w", err)
				}
				artifacts[format] = png
				continue
			}
			svg := render.RenderSVG(layoutRes)
			png, err := render.ToPNG(svg, opts.Scale)
			if err != nil {
				return nil, fmt.Errorf("render png: %w", err)
			}
			artifacts[format] = png
		case FormatDOT:
			dot := render.ToDOT(normalized, render.DOTOptions{ShowLengths: opts.ShowLengths})
			artifacts[format] = []byte(dot)
		case FormatJSON:
			data, err := treeio.MarshalLayout(layoutRes)
			if err != nil {
				return nil, fmt.Errorf("render json: %w", err)
			}
			artifacts[format] = data
		default:
			if err := ValidateFormat(format); err != nil {
				return nil, err
			}
		}
	}
	return artifacts, nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// effectiveLevel maps the option's zero value to unbounded pruning.
// Negative values pass through so validation rejects them.
func effectiveLevel(opts Options) int {
	if opts.DisplayLevel == 0 {
		return transform.Unbounded
	}
	return opts.DisplayLevel
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
