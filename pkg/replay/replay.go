// Package replay provides the core chain execution pipeline for flipgraph.
//
// This package implements the complete load → replay → render pipeline that
// can be used by the CLI and by library consumers. By centralizing this
// logic, we ensure consistent behavior across all entry points and avoid
// code duplication.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Load: Read the graph and derive the initial assignment
//  2. Replay: Merge each step into the chain, carrying statistics forward
//  3. Render: Generate output in various formats (SVG, PNG, DOT, JSON)
//
// Each stage can be run independently or as part of the complete pipeline.
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := replay.NewRunner(cache, nil, logger)
//	opts := replay.Options{
//	    GraphPath:      "graph.json",
//	    AssignmentAttr: "district",
//	    StepsPath:      "steps.json",
//	    TallyAttrs:     []string{"population"},
//	}
//	result, err := runner.Execute(ctx, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	sizes := result.Values["sizes"]
package replay

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	apperrors "github.com/flipgraph/flipgraph/pkg/errors"
	"github.com/flipgraph/flipgraph/pkg/graph"
	"github.com/flipgraph/flipgraph/pkg/partition"
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

// DefaultEngine is the default Graphviz layout engine for rendering.
const DefaultEngine = "neato"

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the replay pipeline.
// This struct supports JSON serialization for config files.
type Options struct {
	// Load options
	GraphPath      string `json:"graph_path"`
	AssignmentAttr string `json:"assignment_attr,omitempty"` // Node attribute holding the initial part
	AssignmentPath string `json:"assignment_path,omitempty"` // JSON node→part mapping file

	// Replay options
	StepsPath  string   `json:"steps_path,omitempty"`
	TallyAttrs []string `json:"tally_attrs,omitempty"`
	Refresh    bool     `json:"refresh,omitempty"`

	// Render options
	Formats  []string `json:"formats,omitempty"`
	Engine   string   `json:"engine,omitempty"`
	Detailed bool     `json:"detailed,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool `json:"-"`
}

// Result contains the outputs of a replay run.
type Result struct {
	// Graph is the loaded graph.
	Graph *graph.Graph

	// GraphHash is the content hash of the graph.
	GraphHash string

	// Final is the last partition in the chain. It is nil when every
	// requested output came from the cache and no replay was needed.
	Final *partition.Partition

	// Values contains the final statistic values keyed by updater name,
	// in their canonical JSON encoding.
	Values map[string][]byte

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains replay execution statistics.
type Stats struct {
	NodeCount  int
	EdgeCount  int
	StepCount  int
	LoadTime   time.Duration
	ReplayTime time.Duration
	RenderTime time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	StatsHit  bool // Whether final statistic values came from cache
	RenderHit bool // Whether all artifacts came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return fmt.Errorf("invalid format: %q (must be one of: svg, png, dot, json)", format)
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

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks required fields and applies defaults for the
// full pipeline. This method is idempotent - calling it multiple times has
// the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForLoad(); err != nil {
		return err
	}
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	o.SetRenderDefaults()
	o.validated = true
	return nil
}

// ValidateForLoad checks required fields for the load stage.
func (o *Options) ValidateForLoad() error {
	if o.GraphPath == "" {
		return fmt.Errorf("graph path is required")
	}
	if o.AssignmentAttr == "" && o.AssignmentPath == "" {
		return fmt.Errorf("assignment attribute or assignment path is required")
	}
	if o.AssignmentAttr != "" && o.AssignmentPath != "" {
		return fmt.Errorf("assignment attribute and assignment path are mutually exclusive")
	}
	for _, attr := range o.TallyAttrs {
		if err := apperrors.ValidateUpdaterName(attr); err != nil {
			return fmt.Errorf("tally attribute: %w", err)
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
	if o.Engine == "" {
		o.Engine = DefaultEngine
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// WantsRender reports whether any image or DOT output was requested.
func (o *Options) WantsRender() bool {
	for _, f := range o.Formats {
		if f != FormatJSON {
			return true
		}
	}
	return false
}
