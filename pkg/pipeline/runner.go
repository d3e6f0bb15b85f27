package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/pearls/pkg/cache"
	"github.com/matzehuels/pearls/pkg/composition"
	"github.com/matzehuels/pearls/pkg/observability"
	"github.com/matzehuels/pearls/pkg/raster"
	"github.com/matzehuels/pearls/pkg/shape"
)

// Cache key types reported to cache hooks.
const (
	keyTypeComposition = "composition"
	keyTypeArtifact    = "artifact"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and server use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
	Hooks  observability.PipelineHooks
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
// Hooks default to the globally registered pipeline hooks.
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
		Hooks:  observability.Pipeline(),
	}
}

// Execute runs the complete compose → render pipeline with caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	result := &Result{}

	// Stage 1: Compose
	composeStart := time.Now()
	comp, composeHit, err := r.ComposeWithCacheInfo(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("compose: %w", err)
	}
	result.Composition = comp
	result.CacheInfo.ComposeHit = composeHit
	if result.Hash, err = Hash(comp); err != nil {
		return nil, err
	}

	result.Stats = CompositionStats(comp)
	result.Stats.ComposeTime = time.Since(composeStart)

	r.Logger.Info("composed layers",
		"layers", result.Stats.Layers,
		"cells", result.Stats.FilledCells,
		"seed", opts.Seed,
		"cached", composeHit,
		"duration", result.Stats.ComposeTime)

	// Stage 2: Render
	renderStart := time.Now()
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, comp, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	r.Logger.Info("rendered outputs",
		"type", opts.VizType,
		"formats", opts.Formats,
		"cached", renderHit,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// ComposeWithCacheInfo generates or loads the grids for opts, binds them to
// the style, and reports whether the grids came from cache.
func (r *Runner) ComposeWithCacheInfo(ctx context.Context, opts Options) (*composition.Composition, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForCompose(); err != nil {
		return nil, false, err
	}

	params := opts.Params()
	style := opts.Style()
	cacheKey := r.Keyer.CompositionKey(opts.CompositionKeyOpts())
	hooks := observability.Cache()

	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			var grids []*raster.Grid
			if err := json.Unmarshal(data, &grids); err == nil && len(grids) == params.Layers {
				if comp, err := composition.Compose(grids, style); err == nil {
					hooks.OnCacheHit(ctx, keyTypeComposition)
					return comp, true, nil
				}
			}
			// Undecodable entries fall through and are overwritten.
		} else if err != nil {
			opts.Logger.Warn("cache read failed", "key", cacheKey, "err", err)
		}
	}
	hooks.OnCacheMiss(ctx, keyTypeComposition)

	r.hooks().OnComposeStart(ctx, params.Rows, params.Cols, params.Layers)
	start := time.Now()
	grids, err := composition.Generate(params)
	var comp *composition.Composition
	if err == nil {
		comp, err = composition.Compose(grids, style)
	}
	r.hooks().OnComposeComplete(ctx, params.Layers, time.Since(start), err)
	if err != nil {
		return nil, false, err
	}

	if data, err := json.Marshal(grids); err == nil {
		if err := r.Cache.Set(ctx, cacheKey, data, cache.TTLComposition); err != nil {
			opts.Logger.Warn("cache write failed", "key", cacheKey, "err", err)
		} else {
			hooks.OnCacheSet(ctx, keyTypeComposition, len(data))
		}
	}

	return comp, false, nil
}

// Compose is a convenience wrapper that calls ComposeWithCacheInfo and discards the cache hit info.
func (r *Runner) Compose(ctx context.Context, opts Options) (*composition.Composition, error) {
	comp, _, err := r.ComposeWithCacheInfo(ctx, opts)
	return comp, err
}

// RenderWithCacheInfo generates artifacts with caching and returns cache hit info.
// The hit is reported only when every requested format came from cache.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, comp *composition.Composition, opts Options) (map[string][]byte, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForRender(); err != nil {
		return nil, false, err
	}

	compHash, err := Hash(comp)
	if err != nil {
		return nil, false, err
	}
	hooks := observability.Cache()

	artifacts := make(map[string][]byte, len(opts.Formats))
	var missing []string
	for _, format := range opts.Formats {
		cacheKey := r.Keyer.ArtifactKey(compHash, opts.ArtifactKeyOpts(format))
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			hooks.OnCacheHit(ctx, keyTypeArtifact)
			artifacts[format] = data
			continue
		}
		hooks.OnCacheMiss(ctx, keyTypeArtifact)
		missing = append(missing, format)
	}
	if len(missing) == 0 {
		return artifacts, true, nil
	}

	renderOpts := opts
	renderOpts.Formats = missing
	r.hooks().OnRenderStart(ctx, opts.VizType, missing)
	start := time.Now()
	rendered, err := Render(ctx, comp, renderOpts)
	r.hooks().OnRenderComplete(ctx, opts.VizType, missing, time.Since(start), err)
	if err != nil {
		return nil, false, err
	}

	for format, data := range rendered {
		cacheKey := r.Keyer.ArtifactKey(compHash, opts.ArtifactKeyOpts(format))
		if err := r.Cache.Set(ctx, cacheKey, data, cache.TTLArtifact); err != nil {
			opts.Logger.Warn("cache write failed", "key", cacheKey, "err", err)
		} else {
			hooks.OnCacheSet(ctx, keyTypeArtifact, len(data))
		}
		artifacts[format] = data
	}

	return artifacts, false, nil
}

// Render is a convenience wrapper that calls RenderWithCacheInfo and discards the cache hit info.
func (r *Runner) Render(ctx context.Context, comp *composition.Composition, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, comp, opts)
	return artifacts, err
}

// CompositionStats counts the layers, filled cells and primitives of comp.
// Timings are left zero.
func CompositionStats(comp *composition.Composition) Stats {
	stats := Stats{Layers: len(comp.Layers)}
	comp.Walk(func(_ *composition.Layer, _ shape.Primitive) { stats.Primitives++ })
	for _, l := range comp.Layers {
		stats.FilledCells += l.Grid.Filled()
	}
	return stats
}

// Hash returns the content hash of a composition's grids. Compositions
// with equal grids hash equal regardless of style.
func Hash(comp *composition.Composition) (string, error) {
	data, err := json.Marshal(comp.Grids())
	if err != nil {
		return "", fmt.Errorf("serialize grids for cache key: %w", err)
	}
	return cache.Hash(data), nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

func (r *Runner) hooks() observability.PipelineHooks {
	if r.Hooks == nil {
		return observability.NoopPipelineHooks{}
	}
	return r.Hooks
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
