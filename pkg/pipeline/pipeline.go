// Package pipeline runs the roster → layout → render chain for wordcloud.
//
// The CLI, the terminal editor and the HTTP server all go through a
// [Runner], so layouts and artifacts are computed and cached the same way
// everywhere.
//
// # Stages
//
//  1. Layout: expand the roster into tokens, size them and place them on
//     the canvas ([Layout] is the pure form; [Runner.Layout] adds caching)
//  2. Render: produce previews and exports (SVG, PNG, PDF, JSON)
//
// # Usage
//
//	runner := pipeline.NewRunner(cache.NewNullCache(), nil, logger)
//	opts := pipeline.Options{Config: cloud.DefaultConfig(), Formats: []string{"svg", "pdf"}}
//	result, err := runner.Execute(ctx, roster.Entries(), opts)
//	if err != nil {
//	    return err
//	}
//	pdf := result.Artifacts["pdf"]
package pipeline

import (
	"fmt"
	"io"
	"slices"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/wordcloud/pkg/cache"
	"github.com/matzehuels/wordcloud/pkg/cloud"
	"github.com/matzehuels/wordcloud/pkg/errors"
	"github.com/matzehuels/wordcloud/pkg/layout"
	"github.com/matzehuels/wordcloud/pkg/reproject"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI, TUI and Server
// =============================================================================

const (
	// DefaultWidth and DefaultHeight are the A4 content area at 96 DPI, so a
	// preview pixel maps onto the printed page without scaling.
	DefaultWidth  = 680.0
	DefaultHeight = 1009.0

	// DefaultSeed is the default random seed for reproducibility.
	DefaultSeed = uint64(42)

	// DefaultScale is the PNG resolution multiplier.
	DefaultScale = 2.0

	DefaultFontFamily = "Go"
	DefaultFontWeight = "bold"
)

// Format constants for output formats.
const (
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatPDF  = "pdf"
	FormatJSON = "json"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:  true,
	FormatPNG:  true,
	FormatPDF:  true,
	FormatJSON: true,
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for one pipeline run.
// This struct supports JSON serialization for API requests.
type Options struct {
	Config cloud.LayoutConfig `json:"config"`
	Seed   uint64             `json:"seed,omitempty"`

	// Canvas options, in screen pixels
	Width         float64 `json:"width,omitempty"`
	Height        float64 `json:"height,omitempty"`
	Spacing       float64 `json:"spacing,omitempty"`
	Attempts      int     `json:"attempts,omitempty"`
	FontFamily    string  `json:"font_family,omitempty"`
	FontWeight    string  `json:"font_weight,omitempty"`
	LetterSpacing float64 `json:"letter_spacing,omitempty"`

	// Render options
	Formats   []string `json:"formats,omitempty"`
	Scale     float64  `json:"scale,omitempty"`
	EmbedFont bool     `json:"embed_font,omitempty"`

	// Document options, in millimetres
	PageMargin  float64 `json:"page_margin,omitempty"`
	WordSpacing float64 `json:"word_spacing,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Layout is the placed canvas.
	Layout layout.Result

	// EntriesHash is the content hash of the roster.
	EntriesHash string

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	Stats     Stats
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Words      int
	Fallbacks  int
	LayoutTime time.Duration
	RenderTime time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	LayoutHit bool // Whether layout result came from cache
	RenderHit bool // Whether all artifacts came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidInput, "invalid format: %q (must be one of: svg, png, pdf, json)", format)
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

// SetLayoutDefaults sets default values for layout computation. A zero
// seed selects DefaultSeed.
func (o *Options) SetLayoutDefaults() {
	o.Config = o.Config.Merge(cloud.DefaultConfig()).Normalize()
	if o.Width == 0 {
		o.Width = DefaultWidth
	}
	if o.Height == 0 {
		o.Height = DefaultHeight
	}
	if o.Spacing == 0 {
		o.Spacing = layout.DefaultSpacing
	}
	if o.Attempts == 0 {
		o.Attempts = layout.DefaultAttempts
	}
	if o.FontFamily == "" {
		o.FontFamily = DefaultFontFamily
	}
	if o.FontWeight == "" {
		o.FontWeight = DefaultFontWeight
	}
	if o.Seed == 0 {
		o.Seed = DefaultSeed
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForLayout validates and sets defaults for layout computation.
func (o *Options) ValidateForLayout() error {
	o.SetLayoutDefaults()
	if o.Width <= 0 || o.Height <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "canvas must be positive, got %vx%v", o.Width, o.Height)
	}
	if o.Spacing < 0 || o.Attempts < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "spacing and attempts cannot be negative")
	}
	return o.Config.Validate()
}

// SetRenderDefaults sets default values for rendering.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if o.Scale == 0 {
		o.Scale = DefaultScale
	}
	if o.PageMargin == 0 {
		o.PageMargin = reproject.A4.Margin
	}
	if o.WordSpacing == 0 {
		o.WordSpacing = reproject.DefaultSpacing
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForRender validates and sets defaults for rendering.
func (o *Options) ValidateForRender() error {
	if err := o.ValidateForLayout(); err != nil {
		return err
	}
	o.SetRenderDefaults()
	if o.PageMargin < 0 || 2*o.PageMargin >= reproject.A4.Width {
		return errors.New(errors.ErrCodeInvalidConfig, "page margin %vmm does not fit the page", o.PageMargin)
	}
	return ValidateFormats(o.Formats)
}

// Canvas returns the placement surface described by o.
func (o *Options) Canvas() Canvas {
	return Canvas{
		Width:    o.Width,
		Height:   o.Height,
		Spacing:  o.Spacing,
		Attempts: o.Attempts,
		Font:     layout.Font{Family: o.FontFamily, Weight: o.FontWeight, LetterSpacing: o.LetterSpacing},
	}
}

// Page returns the document page described by o.
func (o *Options) Page() reproject.Page {
	p := reproject.A4
	p.Margin = o.PageMargin
	return p
}

// HasFormat reports whether format is requested.
func (o *Options) HasFormat(format string) bool { return slices.Contains(o.Formats, format) }

// LayoutKeyOpts returns cache key options for layout computation.
func (o *Options) LayoutKeyOpts() cache.LayoutKeyOpts {
	return cache.LayoutKeyOpts{
		Seed:                o.Seed,
		Width:               o.Width,
		Height:              o.Height,
		Spacing:             o.Spacing,
		Attempts:            o.Attempts,
		MinFontSize:         o.Config.MinFontSize,
		MaxFontSize:         o.Config.MaxFontSize,
		ColorScheme:         string(o.Config.ColorScheme),
		TextCase:            string(o.Config.TextCase),
		HighlightMultiplier: o.Config.HighlightMultiplier,
		FontFamily:          o.FontFamily + "/" + o.FontWeight,
		LetterSpacing:       o.LetterSpacing,
	}
}

// ArtifactKeyOpts returns cache key options for artifact rendering.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	k := cache.ArtifactKeyOpts{Format: format}
	switch format {
	case FormatPNG:
		k.Scale = o.Scale
	case FormatSVG:
		k.EmbedFont = o.EmbedFont
	case FormatPDF:
		k.PageMargin = o.PageMargin
		k.WordSpacing = o.WordSpacing
	}
	return k
}

func (o *Options) String() string {
	return fmt.Sprintf("%vx%v seed=%d scheme=%s case=%s", o.Width, o.Height, o.Seed, o.Config.ColorScheme, o.Config.TextCase)
}
