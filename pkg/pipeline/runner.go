package pipeline

import (
	"context"
	"encoding/json"
	"time"

	"github.com/charmbracelet/log"

	"github.com/versegraph/versegraph/pkg/cache"
	"github.com/versegraph/versegraph/pkg/errors"
	"github.com/versegraph/versegraph/pkg/graph"
	"github.com/versegraph/versegraph/pkg/layout"
	"github.com/versegraph/versegraph/pkg/model"
	"github.com/versegraph/versegraph/pkg/observability"
	"github.com/versegraph/versegraph/pkg/render"
	"github.com/versegraph/versegraph/pkg/source"
	"github.com/versegraph/versegraph/pkg/view"
)

// Runner encapsulates pipeline execution with payload caching.
//
// The Runner is stateless except for the source, cache, and logger - it
// doesn't store pipeline results. Multiple goroutines can safely use the
// same Runner with different options.
type Runner struct {
	Source source.Source
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner over the given source.
// If keyer is nil, a DefaultKeyer is used.
// If c is nil, a NullCache is used (caching disabled).
func NewRunner(src source.Source, c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
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
		Source: src,
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs the complete fetch → build → layout → view → render pipeline.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	r.applyLogger(&opts)

	result := &Result{
		Artifacts: make(map[string][]byte),
	}

	// Stage 1: Fetch (the only cacheable stage)
	fetchStart := time.Now()
	payload, payloadHit, err := r.FetchWithCacheInfo(ctx, opts)
	if err != nil {
		return nil, err
	}
	result.Payload = payload
	result.Stats.FetchTime = time.Since(fetchStart)
	result.CacheInfo.PayloadHit = payloadHit

	if data, err := graph.MarshalPayload(payload); err == nil {
		result.PayloadHash = cache.Hash(data)
	}

	opts.Logger.Info("fetched payload",
		"osis", opts.OSIS,
		"nodes", len(payload.Nodes),
		"edges", len(payload.Edges),
		"cached", payloadHit,
		"duration", result.Stats.FetchTime)

	// Stage 2: Build + Layout, recomputed every run
	layoutStart := time.Now()
	built := model.Build(payload, opts.ModelOptions())
	observability.Pipeline().OnBuildComplete(ctx, opts.OSIS, len(built.Nodes), built.Dropped, nil)
	if built.Empty() {
		// A payload with zero nodes is "no data", not an empty view; the
		// layout engine is never invoked for it.
		return nil, errors.New(errors.ErrCodeNoGraphData,
			"no graph data for %s: payload has no nodes", opts.OSIS)
	}
	if built.Dropped > 0 {
		opts.Logger.Warn("dropped malformed entries",
			"osis", opts.OSIS,
			"dropped", built.Dropped)
	}

	observability.Pipeline().OnLayoutStart(ctx, opts.OSIS, len(built.Nodes))
	positioned := layout.Compute(built)
	result.Built = built
	result.Positioned = positioned
	result.Stats.LayoutTime = time.Since(layoutStart)
	result.Stats.NodeCount = len(built.Nodes)
	result.Stats.EdgeCount = len(built.Edges)
	result.Stats.DroppedEdges = built.Dropped
	observability.Pipeline().OnLayoutComplete(ctx, opts.OSIS, result.Stats.LayoutTime, nil)

	opts.Logger.Info("computed layout",
		"osis", opts.OSIS,
		"nodes", len(built.Nodes),
		"duration", result.Stats.LayoutTime)

	// Stage 3: View + Render
	renderStart := time.Now()
	result.View = view.Compute(positioned, opts.Selection())
	result.Scene = render.BuildScene(positioned, result.View)

	observability.Pipeline().OnRenderStart(ctx, opts.Formats)
	artifacts, err := renderFormats(ctx, result.Scene, opts.Formats)
	result.Stats.RenderTime = time.Since(renderStart)
	observability.Pipeline().OnRenderComplete(ctx, opts.Formats, result.Stats.RenderTime, err)
	if err != nil {
		return nil, err
	}
	result.Artifacts = artifacts

	opts.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"visible_edges", result.View.VisibleEdgeCount,
		"total_edges", result.View.TotalEdgeCount,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// FetchWithCacheInfo retrieves the payload with caching and reports whether
// it was a cache hit. Negative answers (NO_GRAPH_DATA) are cached briefly so
// repeated lookups of unannotated verses don't hammer the backend.
func (r *Runner) FetchWithCacheInfo(ctx context.Context, opts Options) (graph.Payload, bool, error) {
	if err := errors.ValidateOSIS(opts.OSIS); err != nil {
		return graph.Payload{}, false, err
	}

	payloadKey := r.Keyer.PayloadKey(opts.OSIS)
	negativeKey := r.Keyer.NegativeKey(opts.OSIS)

	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, payloadKey); err == nil && hit {
			if p, err := graph.UnmarshalPayload(data); err == nil {
				observability.Cache().OnCacheHit(ctx, "payload")
				return p, true, nil
			}
		}
		if _, hit, err := r.Cache.Get(ctx, negativeKey); err == nil && hit {
			observability.Cache().OnCacheHit(ctx, "nodata")
			return graph.Payload{}, true,
				errors.New(errors.ErrCodeNoGraphData, "no graph data for %s", opts.OSIS)
		}
		observability.Cache().OnCacheMiss(ctx, "payload")
	}

	observability.Pipeline().OnFetchStart(ctx, opts.OSIS)
	start := time.Now()
	p, err := r.Source.Fetch(ctx, opts.OSIS)
	observability.Pipeline().OnFetchComplete(ctx, opts.OSIS, len(p.Edges), time.Since(start), err)

	if err != nil {
		if errors.Is(err, errors.ErrCodeNoGraphData) {
			_ = r.Cache.Set(ctx, negativeKey, []byte("1"), cache.NegativeTTL)
		}
		return graph.Payload{}, false, err
	}

	if data, merr := graph.MarshalPayload(p); merr == nil {
		_ = r.Cache.Set(ctx, payloadKey, data, cache.PayloadTTL)
		observability.Cache().OnCacheSet(ctx, "payload", len(data))
	}
	return p, false, nil
}

// Compute runs fetch → build → layout and returns the positioned graph
// without rendering. The server and the facet explorer use this: they compute
// the structural layout once and then re-filter it per selection without
// re-entering the layout engine.
func (r *Runner) Compute(ctx context.Context, opts Options) (*layout.Positioned, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	r.applyLogger(&opts)

	payload, _, err := r.FetchWithCacheInfo(ctx, opts)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	built := model.Build(payload, opts.ModelOptions())
	observability.Pipeline().OnBuildComplete(ctx, opts.OSIS, len(built.Nodes), built.Dropped, nil)
	if built.Empty() {
		return nil, errors.New(errors.ErrCodeNoGraphData,
			"no graph data for %s: payload has no nodes", opts.OSIS)
	}
	observability.Pipeline().OnLayoutStart(ctx, opts.OSIS, len(built.Nodes))
	positioned := layout.Compute(built)
	observability.Pipeline().OnLayoutComplete(ctx, opts.OSIS, time.Since(start), nil)

	opts.Logger.Info("computed layout",
		"osis", opts.OSIS,
		"nodes", len(built.Nodes),
		"duration", time.Since(start))

	return positioned, nil
}

// Fetch is a convenience wrapper that discards the cache hit info.
func (r *Runner) Fetch(ctx context.Context, opts Options) (graph.Payload, error) {
	p, _, err := r.FetchWithCacheInfo(ctx, opts)
	return p, err
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

// renderFormats renders the scene into each requested format.
func renderFormats(ctx context.Context, s render.Scene, formats []string) (map[string][]byte, error) {
	artifacts := make(map[string][]byte, len(formats))
	for _, format := range formats {
		switch format {
		case FormatSVG:
			artifacts[format] = render.RenderSVG(s)
		case FormatDOT:
			artifacts[format] = []byte(render.RenderDOT(s))
		case FormatPNG:
			data, err := render.RenderPNG(ctx, s)
			if err != nil {
				return nil, errors.Wrap(errors.ErrCodeInternal, err, "render png")
			}
			artifacts[format] = data
		case FormatJSON:
			data, err := json.MarshalIndent(s, "", "  ")
			if err != nil {
				return nil, errors.Wrap(errors.ErrCodeInternal, err, "encode scene")
			}
			artifacts[format] = data
		default:
			return nil, errors.New(errors.ErrCodeInvalidFormat, "invalid format: %q", format)
		}
	}
	return artifacts, nil
}
