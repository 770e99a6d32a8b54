package replay

import (
	"context"
	"encoding/json"
	"fmt"
	"maps"
	"slices"
	"time"

	"github.com/charmbracelet/log"

	"github.com/flipgraph/flipgraph/pkg/cache"
	"github.com/flipgraph/flipgraph/pkg/graph"
	"github.com/flipgraph/flipgraph/pkg/observability"
	"github.com/flipgraph/flipgraph/pkg/partition"
	"github.com/flipgraph/flipgraph/pkg/render"
	"github.com/flipgraph/flipgraph/pkg/updaters"
)

// Runner encapsulates replay execution with caching.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store replay results. Multiple goroutines can safely use the same
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

// Execute runs the complete load → replay → render pipeline with caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	r.applyLogger(&opts)

	result := &Result{
		Values:    make(map[string][]byte),
		Artifacts: make(map[string][]byte),
	}

	// Stage 1: Load
	loadStart := time.Now()
	g, mapping, err := r.Load(opts)
	if err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}
	result.Graph = g
	result.Stats.LoadTime = time.Since(loadStart)
	result.Stats.NodeCount = g.NodeCount()
	result.Stats.EdgeCount = g.EdgeCount()

	if graphData, err := graph.MarshalGraph(g); err == nil {
		result.GraphHash = cache.Hash(graphData)
	}

	var steps []Step
	if opts.StepsPath != "" {
		steps, err = ReadStepsFile(opts.StepsPath)
		if err != nil {
			return nil, fmt.Errorf("load: %w", err)
		}
	}
	result.Stats.StepCount = len(steps)

	r.Logger.Info("loaded inputs",
		"nodes", g.NodeCount(),
		"edges", g.EdgeCount(),
		"steps", len(steps),
		"duration", result.Stats.LoadTime)

	registry := updaters.Standard(opts.TallyAttrs...)
	names := slices.Sorted(maps.Keys(registry))
	replayHash := replayInputHash(mapping, steps, opts.TallyAttrs)

	// Serve final values from cache when nothing forces a replay.
	if !opts.Refresh && !opts.WantsRender() {
		if values, ok := r.cachedValues(ctx, result.GraphHash, replayHash, names); ok {
			result.Values = values
			result.CacheInfo.StatsHit = true
			if slices.Contains(opts.Formats, FormatJSON) {
				data, err := marshalValues(values)
				if err != nil {
					return nil, fmt.Errorf("render: %w", err)
				}
				result.Artifacts[FormatJSON] = data
			}
			return result, nil
		}
	}

	// Stage 2: Replay
	replayStart := time.Now()
	final, err := r.ReplayChain(ctx, g, mapping, steps, registry)
	if err != nil {
		return nil, fmt.Errorf("replay: %w", err)
	}
	result.Final = final
	result.Stats.ReplayTime = time.Since(replayStart)

	r.Logger.Info("replayed chain",
		"steps", len(steps),
		"parts", final.Len(),
		"duration", result.Stats.ReplayTime)

	// Encode and cache the final statistic values.
	for _, name := range names {
		valueStart := time.Now()
		v, err := final.Value(name)
		if err != nil {
			observability.Chain().OnUpdaterComplete(ctx, name, time.Since(valueStart), err)
			return nil, fmt.Errorf("replay: %w", err)
		}
		data, err := encodeValue(v)
		observability.Chain().OnUpdaterComplete(ctx, name, time.Since(valueStart), err)
		if err != nil {
			return nil, fmt.Errorf("encode %s: %w", name, err)
		}
		result.Values[name] = data

		key := r.Keyer.StatsKey(result.GraphHash, replayHash, name)
		if err := r.Cache.Set(ctx, key, data, cache.TTLStats); err == nil {
			observability.Cache().OnCacheSet(ctx, "stats", len(data))
		}
	}

	// Stage 3: Render
	if len(opts.Formats) > 0 {
		renderStart := time.Now()
		artifacts, renderHit, err := r.RenderArtifacts(ctx, final, result, opts)
		if err != nil {
			return nil, fmt.Errorf("render: %w", err)
		}
		result.Artifacts = artifacts
		result.Stats.RenderTime = time.Since(renderStart)
		result.CacheInfo.RenderHit = renderHit

		r.Logger.Info("rendered outputs",
			"formats", opts.Formats,
			"duration", result.Stats.RenderTime)
	}

	return result, nil
}

// Load reads the graph and derives the initial node→part mapping.
func (r *Runner) Load(opts Options) (*graph.Graph, map[string]string, error) {
	if err := opts.ValidateForLoad(); err != nil {
		return nil, nil, err
	}

	g, err := graph.ReadGraphFile(opts.GraphPath)
	if err != nil {
		return nil, nil, err
	}

	var mapping map[string]string
	if opts.AssignmentPath != "" {
		mapping, err = ReadMappingFile(opts.AssignmentPath)
		if err != nil {
			return nil, nil, err
		}
	} else {
		a, err := partition.FromAttribute(g, opts.AssignmentAttr)
		if err != nil {
			return nil, nil, err
		}
		mapping = a.Mapping()
	}

	return g, mapping, nil
}

// ReplayChain builds the root partition and merges every step in order,
// returning the final partition. Hooks fire per step and per replay.
func (r *Runner) ReplayChain(ctx context.Context, g *graph.Graph, mapping map[string]string, steps []Step, registry partition.Updaters) (*partition.Partition, error) {
	start := time.Now()
	observability.Chain().OnReplayStart(ctx, g.NodeCount(), len(steps))

	p, err := partition.NewFromMapping(g, mapping, registry)
	if err != nil {
		observability.Chain().OnReplayComplete(ctx, len(steps), time.Since(start), err)
		return nil, err
	}

	for i, step := range steps {
		if err := ctx.Err(); err != nil {
			observability.Chain().OnReplayComplete(ctx, len(steps), time.Since(start), err)
			return nil, err
		}

		observability.Chain().OnStepStart(ctx, i, len(step))
		stepStart := time.Now()
		next, err := p.Merge(step)
		observability.Chain().OnStepComplete(ctx, i, len(step), time.Since(stepStart), err)
		if err != nil {
			observability.Chain().OnReplayComplete(ctx, len(steps), time.Since(start), err)
			return nil, fmt.Errorf("step %d: %w", i, err)
		}
		p = next
	}

	observability.Chain().OnReplayComplete(ctx, len(steps), time.Since(start), nil)
	return p, nil
}

// RenderArtifacts generates the requested output formats for the final
// partition. Image formats are cached by graph and assignment hash; DOT and
// JSON are recomputed since they are cheap and deterministic.
func (r *Runner) RenderArtifacts(ctx context.Context, p *partition.Partition, result *Result, opts Options) (map[string][]byte, bool, error) {
	opts.SetRenderDefaults()

	dot, err := render.ToDOT(p, render.Options{Detailed: opts.Detailed, Engine: opts.Engine})
	if err != nil {
		return nil, false, err
	}

	mappingData, err := json.Marshal(p.Assignment().Mapping())
	if err != nil {
		return nil, false, err
	}
	assignHash := cache.Hash(mappingData)

	artifacts := make(map[string][]byte)
	allCached := true

	for _, format := range opts.Formats {
		switch format {
		case FormatDOT:
			artifacts[format] = []byte(dot)
			allCached = false

		case FormatJSON:
			data, err := marshalValues(result.Values)
			if err != nil {
				return nil, false, err
			}
			artifacts[format] = data
			allCached = false

		case FormatSVG, FormatPNG:
			key := r.Keyer.RenderKey(result.GraphHash, assignHash, cache.RenderKeyOpts{Format: format})
			if !opts.Refresh {
				if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
					observability.Cache().OnCacheHit(ctx, "render")
					artifacts[format] = data
					continue
				}
				observability.Cache().OnCacheMiss(ctx, "render")
			}
			allCached = false

			observability.Render().OnRenderStart(ctx, format, p.Graph().NodeCount())
			renderStart := time.Now()
			var data []byte
			if format == FormatSVG {
				data, err = render.RenderSVG(ctx, dot)
			} else {
				data, err = render.RenderPNG(ctx, dot)
			}
			observability.Render().OnRenderComplete(ctx, format, time.Since(renderStart), err)
			if err != nil {
				return nil, false, fmt.Errorf("render %s: %w", format, err)
			}
			artifacts[format] = data

			if err := r.Cache.Set(ctx, key, data, cache.TTLRender); err == nil {
				observability.Cache().OnCacheSet(ctx, "render", len(data))
			}

		default:
			return nil, false, fmt.Errorf("unsupported format: %s", format)
		}
	}

	return artifacts, allCached && opts.WantsRender(), nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// cachedValues fetches every updater's final value from the cache. It only
// reports success when all names hit, so a partial cache never mixes cached
// and recomputed values.
func (r *Runner) cachedValues(ctx context.Context, graphHash, replayHash string, names []string) (map[string][]byte, bool) {
	values := make(map[string][]byte, len(names))
	for _, name := range names {
		key := r.Keyer.StatsKey(graphHash, replayHash, name)
		data, hit, err := r.Cache.Get(ctx, key)
		if err != nil || !hit {
			observability.Cache().OnCacheMiss(ctx, "stats")
			return nil, false
		}
		observability.Cache().OnCacheHit(ctx, "stats")
		values[name] = data
	}
	return values, true
}

// replayInputHash fingerprints everything besides the graph that determines
// the final values: the initial mapping, the step sequence, and the tally
// attributes.
func replayInputHash(mapping map[string]string, steps []Step, tallyAttrs []string) string {
	payload, _ := json.Marshal(struct {
		Mapping map[string]string `json:"mapping"`
		Steps   []Step            `json:"steps"`
		Tallies []string          `json:"tallies"`
	}{mapping, steps, tallyAttrs})
	return cache.Hash(payload)
}

// marshalValues assembles the per-updater JSON encodings into one document.
func marshalValues(values map[string][]byte) ([]byte, error) {
	doc := make(map[string]json.RawMessage, len(values))
	for name, data := range values {
		doc[name] = json.RawMessage(data)
	}
	return json.MarshalIndent(doc, "", "  ")
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
