// Package pipeline orchestrates the fetch → build → layout → view → render
// stages of the research graph engine.
//
// Centralizing the staged flow keeps CLI, API, and TUI behavior identical:
// every entry point validates the same options, caches the same content, and
// emits the same observability events.
//
// # Caching
//
// Only the raw payload is cached. Computed coordinates are ephemeral by
// contract - a layout lives exactly as long as one graph instance - so the
// runner recomputes build and layout on every run and never writes positions
// to any cache backend. With a fixed seed the recomputation is deterministic,
// which makes the restriction cheap.
//
// # Usage
//
//	runner := pipeline.NewRunner(src, cache, nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    OSIS:    "John.3.16",
//	    Formats: []string{pipeline.FormatSVG},
//	})
//	if err != nil { ... }
//	svg := result.Artifacts[pipeline.FormatSVG]
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/versegraph/versegraph/pkg/errors"
	"github.com/versegraph/versegraph/pkg/graph"
	"github.com/versegraph/versegraph/pkg/layout"
	"github.com/versegraph/versegraph/pkg/model"
	"github.com/versegraph/versegraph/pkg/render"
	"github.com/versegraph/versegraph/pkg/view"
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

// Options contains all configuration for one pipeline run.
// This struct supports JSON serialization for API requests.
type Options struct {
	// OSIS is the focal verse reference. Required.
	OSIS string `json:"osis"`

	// Layout options. Zero values take the engine defaults (800×600, seed 42).
	Width  float64 `json:"width,omitempty"`
	Height float64 `json:"height,omitempty"`
	Seed   uint64  `json:"seed,omitempty"`

	// Facet selection. Nil slices mean "everything selected" on that axis.
	Perspectives []string `json:"perspectives,omitempty"`
	SourceTypes  []string `json:"source_types,omitempty"`

	// Render options.
	Formats []string `json:"formats,omitempty"`

	// Refresh bypasses the payload cache.
	Refresh bool `json:"refresh,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool `json:"-"`
}

// ValidateAndSetDefaults checks required fields and applies defaults.
// This method is idempotent - calling it multiple times has the same effect
// as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := errors.ValidateOSIS(o.OSIS); err != nil {
		return err
	}
	if o.Width == 0 {
		o.Width = model.DefaultWidth
	}
	if o.Height == 0 {
		o.Height = model.DefaultHeight
	}
	if o.Seed == 0 {
		o.Seed = model.DefaultSeed
	}
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	o.validated = true
	return nil
}

// ModelOptions translates pipeline options into builder options.
func (o *Options) ModelOptions() model.Options {
	return model.Options{Width: o.Width, Height: o.Height, Seed: o.Seed}
}

// Selection translates the facet fields into a view selection.
func (o *Options) Selection() view.Selection {
	return view.Selection{
		Perspectives: o.Perspectives,
		SourceTypes:  o.SourceTypes,
	}
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Payload is the raw graph payload the run was built from.
	Payload graph.Payload

	// PayloadHash is the content hash of the payload.
	PayloadHash string

	// Built is the normalized, layout-ready graph.
	Built *model.Built

	// Positioned is the graph with settled coordinates.
	Positioned *layout.Positioned

	// View is the facet-filtered subset.
	View view.View

	// Scene is the styled render contract for the view.
	Scene render.Scene

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks whether the payload came from cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	NodeCount    int
	EdgeCount    int
	DroppedEdges int
	FetchTime    time.Duration
	LayoutTime   time.Duration
	RenderTime   time.Duration
}

// CacheInfo tracks cache hits. Only the fetch stage is cacheable; build and
// layout are always recomputed so coordinates never persist.
type CacheInfo struct {
	PayloadHit bool // Whether the payload came from cache
}
