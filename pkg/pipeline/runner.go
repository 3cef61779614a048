package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/wordcloud/pkg/cache"
	"github.com/matzehuels/wordcloud/pkg/cloud"
	"github.com/matzehuels/wordcloud/pkg/layout"
	"github.com/matzehuels/wordcloud/pkg/measure"
	"github.com/matzehuels/wordcloud/pkg/observability"
	"github.com/matzehuels/wordcloud/pkg/render/sink"
	"github.com/matzehuels/wordcloud/pkg/reproject"
)

// Runner encapsulates pipeline execution with caching.
// The CLI, the editor and the server all use this to avoid duplicating
// caching logic.
//
// The Runner is stateless except for the cache, the measurers and the
// logger. Multiple goroutines can safely use the same Runner with
// different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger

	// Measurer measures preview text in pixels.
	Measurer layout.TextMeasurer
	// DocMeasurer measures document text in millimetres.
	DocMeasurer layout.TextMeasurer
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
		Cache:       c,
		Keyer:       keyer,
		Logger:      logger,
		Measurer:    measure.NewScreen(),
		DocMeasurer: sink.NewPDFMeasurer(),
	}
}

// Execute runs the complete layout → render pipeline with caching.
func (r *Runner) Execute(ctx context.Context, entries []cloud.NameEntry, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForRender(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	result := &Result{Artifacts: make(map[string][]byte)}
	if h, err := cache.HashJSON(entries); err == nil {
		result.EntriesHash = h
	}

	// Stage 1: Layout
	layoutStart := time.Now()
	res, layoutHit, err := r.LayoutWithCacheInfo(ctx, entries, opts)
	if err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}
	result.Layout = res
	result.Stats.LayoutTime = time.Since(layoutStart)
	result.Stats.Words = len(res.Words)
	result.Stats.Fallbacks = len(res.Fallbacks)
	result.CacheInfo.LayoutHit = layoutHit

	r.Logger.Info("computed layout",
		"words", len(res.Words),
		"fallbacks", len(res.Fallbacks),
		"duration", result.Stats.LayoutTime)

	// Stage 2: Render
	renderStart := time.Now()
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, res, opts)
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

// LayoutWithCacheInfo places the roster with caching and returns cache hit info.
func (r *Runner) LayoutWithCacheInfo(ctx context.Context, entries []cloud.NameEntry, opts Options) (layout.Result, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForLayout(); err != nil {
		return layout.Result{}, false, err
	}
	if err := cloud.ValidateEntries(entries, opts.Config); err != nil {
		return layout.Result{}, false, err
	}

	entriesHash, err := cache.HashJSON(entries)
	if err != nil {
		return layout.Result{}, false, fmt.Errorf("hash entries: %w", err)
	}
	cacheKey := r.Keyer.LayoutKey(entriesHash, opts.LayoutKeyOpts())

	// Try cache first
	if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
		var cached layout.Result
		if err := json.Unmarshal(data, &cached); err == nil {
			observability.Cache().OnCacheHit(ctx, "layout")
			return cached, true, nil
		}
		// If deserialization fails, fall through to recompute
	}
	observability.Cache().OnCacheMiss(ctx, "layout")

	hooks := observability.Layout()
	hooks.OnLayoutStart(ctx, len(entries))
	start := time.Now()

	res := Layout(entries, opts.Config, opts.Seed, opts.Canvas(), r.Measurer)

	for i, w := range res.Words {
		if w.Fallback {
			hooks.OnFallback(ctx, i, w.Text)
		}
	}
	hooks.OnLayoutComplete(ctx, len(res.Words), len(res.Fallbacks), time.Since(start), nil)
	opts.Logger.Debug("placed words", "words", len(res.Words), "fallbacks", len(res.Fallbacks), "seed", opts.Seed)

	if data, err := json.Marshal(res); err == nil {
		if err := r.Cache.Set(ctx, cacheKey, data, cache.TTLLayout); err == nil {
			observability.Cache().OnCacheSet(ctx, "layout", len(data))
		}
	}

	return res, false, nil
}

// Layout is a convenience wrapper that calls LayoutWithCacheInfo and discards the cache hit info.
func (r *Runner) Layout(ctx context.Context, entries []cloud.NameEntry, opts Options) (layout.Result, error) {
	res, _, err := r.LayoutWithCacheInfo(ctx, entries, opts)
	return res, err
}

// RenderWithCacheInfo generates artifacts with caching and returns cache hit info.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, res layout.Result, opts Options) (map[string][]byte, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForRender(); err != nil {
		return nil, false, err
	}

	layoutData, err := json.Marshal(res)
	if err != nil {
		return nil, false, fmt.Errorf("serialize layout for cache key: %w", err)
	}
	// The scheme and seed are not part of the layout itself.
	layoutHash := cache.Hash(append(layoutData, fmt.Sprintf("|%s|%s|%d", opts.Config.ColorScheme, opts.Config.TextCase, opts.Seed)...))

	// Try to get all formats from cache
	artifacts := make(map[string][]byte, len(opts.Formats))
	allCached := true
	for _, format := range opts.Formats {
		cacheKey := r.Keyer.ArtifactKey(layoutHash, opts.ArtifactKeyOpts(format))
		data, hit, err := r.Cache.Get(ctx, cacheKey)
		if err != nil || !hit {
			allCached = false
			break
		}
		artifacts[format] = data
	}
	if allCached && len(artifacts) == len(opts.Formats) {
		observability.Cache().OnCacheHit(ctx, "artifact")
		return artifacts, true, nil
	}
	observability.Cache().OnCacheMiss(ctx, "artifact")

	hooks := observability.Export()
	hooks.OnRenderStart(ctx, opts.Formats)
	start := time.Now()

	rendered := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		data, err := RenderFormat(res, opts, format, r.DocMeasurer)
		if err != nil {
			hooks.OnRenderComplete(ctx, opts.Formats, time.Since(start), err)
			return nil, false, fmt.Errorf("render %s: %w", format, err)
		}
		rendered[format] = data
	}
	hooks.OnRenderComplete(ctx, opts.Formats, time.Since(start), nil)

	for format, data := range rendered {
		cacheKey := r.Keyer.ArtifactKey(layoutHash, opts.ArtifactKeyOpts(format))
		if err := r.Cache.Set(ctx, cacheKey, data, cache.TTLArtifact); err == nil {
			observability.Cache().OnCacheSet(ctx, "artifact", len(data))
		}
	}

	return rendered, false, nil
}

// Render is a convenience wrapper that calls RenderWithCacheInfo and discards the cache hit info.
func (r *Runner) Render(ctx context.Context, res layout.Result, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, res, opts)
	return artifacts, err
}

// Export writes the printable document for a layout. It bypasses the
// artifact cache because the caller also receives the projection, whose
// unresolved words are reported to the export hooks.
func (r *Runner) Export(ctx context.Context, res layout.Result, opts Options) ([]byte, reproject.Result, error) {
	opts.Formats = []string{FormatPDF}
	r.applyLogger(&opts)
	if err := opts.ValidateForRender(); err != nil {
		return nil, reproject.Result{}, err
	}

	hooks := observability.Export()
	hooks.OnRenderStart(ctx, opts.Formats)
	start := time.Now()

	data, proj, err := renderDocument(res, opts, r.DocMeasurer)
	hooks.OnRenderComplete(ctx, opts.Formats, time.Since(start), err)
	if err != nil {
		return nil, reproject.Result{}, err
	}
	if n := len(proj.Unresolved); n > 0 {
		hooks.OnUnresolved(ctx, n)
		opts.Logger.Warn("words overlap on the page", "count", n)
	}
	return data, proj, nil
}

// Close releases resources held by the runner.
func (r *Runner) Close() error {
	if c, ok := r.Measurer.(interface{ Close() error }); ok {
		_ = c.Close()
	}
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
