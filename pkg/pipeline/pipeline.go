// Package pipeline provides the compose → render pipeline for pearls.
//
// The CLI, the HTTP server and the interactive editor all go through this
// package, so defaults, validation and caching behave the same everywhere.
//
// # Architecture
//
// The pipeline has two stages:
//
//  1. Compose: generate one grid per palette color from the seed and bind
//     the grids to the style.
//  2. Render: produce output bytes in each requested format, concurrently.
//
// Each stage can be run independently or as part of the complete pipeline.
// Compose results are cached by shape parameters only, so changing colors,
// stroke, margin or size reuses the cached grids.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Rows:    8,
//	    Cols:    8,
//	    Seed:    42,
//	    Formats: []string{"svg", "png"},
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
//
// Run individual stages:
//
//	comp, err := runner.Compose(ctx, opts)
//	artifacts, err := runner.Render(ctx, comp, opts)
package pipeline

import (
	"io"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/pearls/pkg/cache"
	"github.com/matzehuels/pearls/pkg/composition"
	perrors "github.com/matzehuels/pearls/pkg/errors"
	"github.com/matzehuels/pearls/pkg/palette"
	"github.com/matzehuels/pearls/pkg/render/sink"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI, API, and TUI
// =============================================================================

// Visualization types.
const (
	VizTypePearls   = "pearls"
	VizTypeNodelink = "nodelink"
)

// DefaultVizType is the default visualization type.
const DefaultVizType = VizTypePearls

// Format constants for output formats.
const (
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatPDF  = "pdf"
	FormatJSON = "json"
	FormatDOT  = "dot"
)

// ValidFormats is the set of formats supported by pearls rendering.
var ValidFormats = map[string]bool{
	FormatSVG:  true,
	FormatPNG:  true,
	FormatPDF:  true,
	FormatJSON: true,
}

// ValidNodelinkFormats is the set of formats supported by nodelink rendering.
var ValidNodelinkFormats = map[string]bool{
	FormatSVG: true,
	FormatPNG: true,
	FormatDOT: true,
}

// ValidVizTypes is the set of supported visualization types.
var ValidVizTypes = map[string]bool{
	VizTypePearls:   true,
	VizTypeNodelink: true,
}

// ContentTypes maps output formats to MIME types.
var ContentTypes = map[string]string{
	FormatSVG:  "image/svg+xml",
	FormatPNG:  "image/png",
	FormatPDF:  "application/pdf",
	FormatJSON: "application/json",
	FormatDOT:  "text/vnd.graphviz",
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the pipeline.
// This struct supports JSON serialization for API requests and BSON for
// gallery storage.
//
// Zero values mean "use the default", except Seed and StrokeWidth where
// zero is a meaningful value. Density and MarginFraction are pointers
// because zero is valid for both: nil means default.
type Options struct {
	// Compose options
	Rows    int      `json:"rows,omitempty" bson:"rows"`
	Cols    int      `json:"cols,omitempty" bson:"cols"`
	Density *float64 `json:"density,omitempty" bson:"density,omitempty"`
	Seed    uint64   `json:"seed" bson:"seed"`
	Refresh bool     `json:"refresh,omitempty" bson:"-"`

	// Style options
	Background     string   `json:"background,omitempty" bson:"background"`
	Colors         []string `json:"colors,omitempty" bson:"colors"`
	StrokeWidth    float64  `json:"stroke_width,omitempty" bson:"stroke_width"`
	MarginFraction *float64 `json:"margin_fraction,omitempty" bson:"margin_fraction,omitempty"`
	Size           float64  `json:"size,omitempty" bson:"size"`

	// Render options
	VizType  string   `json:"viz_type,omitempty" bson:"viz_type"`
	Formats  []string `json:"formats,omitempty" bson:"-"`
	Scale    float64  `json:"scale,omitempty" bson:"scale,omitempty"`
	Title    string   `json:"title,omitempty" bson:"title,omitempty"`
	Detailed bool     `json:"detailed,omitempty" bson:"detailed,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-" bson:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// Float64 returns a pointer to v, for the optional Options fields.
func Float64(v float64) *float64 { return &v }

// Result contains the outputs of a pipeline run.
type Result struct {
	// Composition is the composed layer stack.
	Composition *composition.Composition

	// Hash is the content hash of the generated grids.
	Hash string

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Layers      int
	FilledCells int
	Primitives  int
	ComposeTime time.Duration
	RenderTime  time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	ComposeHit bool // Whether the grids came from cache
	RenderHit  bool // Whether all artifacts came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid for pearls rendering.
func ValidateFormat(format string) error {
	return ValidateFormatFor(VizTypePearls, format)
}

// ValidateFormatFor checks that a format is supported by the visualization
// type.
func ValidateFormatFor(vizType, format string) error {
	valid := ValidFormats
	if vizType == VizTypeNodelink {
		valid = ValidNodelinkFormats
	}
	if !valid[format] {
		return perrors.New(perrors.ErrCodeInvalidFormat, "invalid format for %s: %q (must be one of: %s)",
			vizType, format, strings.Join(sortedKeys(valid), ", "))
	}
	return nil
}

// ValidateFormats checks that all formats are valid for pearls rendering.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateVizType checks that a visualization type is valid.
func ValidateVizType(vizType string) error {
	if !ValidVizTypes[vizType] {
		return perrors.New(perrors.ErrCodeInvalidVizType, "invalid viz_type: %q (must be one of: pearls, nodelink)", vizType)
	}
	return nil
}

func sortedKeys(m map[string]bool) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults applies defaults and validates the full pipeline.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForCompose(); err != nil {
		return err
	}
	if err := o.ValidateForRender(); err != nil {
		return err
	}
	if err := o.validateRaster(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// validateRaster rejects PNG requests whose pixel buffer would exceed
// perrors.MaxRasterPixels. Tall grids scale the canvas height by rows/cols.
func (o *Options) validateRaster() error {
	if o.IsNodelink() || !slices.Contains(o.Formats, FormatPNG) {
		return nil
	}
	scale := o.Scale
	if scale == 0 {
		scale = sink.DefaultPNGScale
	}
	w, h := composition.Geometry(o.Style(), o.Cols).Size(o.Rows, o.Cols)
	return perrors.ValidateRasterSize(w*scale, h*scale)
}

// SetComposeDefaults sets default values for grid generation and style.
func (o *Options) SetComposeDefaults() {
	if o.Rows == 0 {
		o.Rows = composition.DefaultRows
	}
	if o.Cols == 0 {
		o.Cols = composition.DefaultCols
	}
	if o.Density == nil {
		o.Density = Float64(composition.DefaultDensity)
	}
	def := palette.Default()
	if o.Background == "" {
		o.Background = def.Background
	}
	if len(o.Colors) == 0 {
		o.Colors = def.Colors
	}
	if o.MarginFraction == nil {
		o.MarginFraction = Float64(composition.DefaultMarginFraction)
	}
	if o.Size == 0 {
		o.Size = composition.DefaultSize
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForCompose sets defaults and checks grid and style parameters.
func (o *Options) ValidateForCompose() error {
	o.SetComposeDefaults()
	if err := o.Style().Validate(); err != nil {
		return err
	}
	return o.Params().Validate()
}

// SetRenderDefaults sets default values for rendering.
func (o *Options) SetRenderDefaults() {
	if o.VizType == "" {
		o.VizType = DefaultVizType
	}
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForRender sets defaults and checks the visualization type and
// formats.
func (o *Options) ValidateForRender() error {
	o.SetRenderDefaults()
	if err := ValidateVizType(o.VizType); err != nil {
		return err
	}
	for _, f := range o.Formats {
		if err := ValidateFormatFor(o.VizType, f); err != nil {
			return err
		}
	}
	return perrors.ValidateScale(o.Scale)
}

// IsNodelink returns true if this is a nodelink visualization.
func (o *Options) IsNodelink() bool {
	return o.VizType == VizTypeNodelink
}

// Params returns the shape-determining parameters. The layer count is the
// number of colors.
func (o *Options) Params() composition.Params {
	return composition.Params{
		Rows:    o.Rows,
		Cols:    o.Cols,
		Density: o.density(),
		Seed:    o.Seed,
		Layers:  len(o.Colors),
	}
}

// Palette returns the configured palette.
func (o *Options) Palette() palette.Palette {
	return palette.Palette{
		Background: o.Background,
		Colors:     slices.Clone(o.Colors),
	}
}

// Style returns the drawing style.
func (o *Options) Style() composition.Style {
	return composition.Style{
		Palette:        o.Palette(),
		StrokeWidth:    o.StrokeWidth,
		MarginFraction: o.marginFraction(),
		Size:           o.Size,
	}
}

func (o *Options) density() float64 {
	if o.Density == nil {
		return composition.DefaultDensity
	}
	return *o.Density
}

func (o *Options) marginFraction() float64 {
	if o.MarginFraction == nil {
		return composition.DefaultMarginFraction
	}
	return *o.MarginFraction
}

// CompositionKeyOpts returns cache key options for grid generation.
func (o *Options) CompositionKeyOpts() cache.CompositionKeyOpts {
	p := o.Params()
	return cache.CompositionKeyOpts{
		Rows:    p.Rows,
		Cols:    p.Cols,
		Density: p.Density,
		Seed:    p.Seed,
		Layers:  p.Layers,
	}
}

// ArtifactKeyOpts returns cache key options for artifact rendering.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	pal := o.Palette().Normalize()
	return cache.ArtifactKeyOpts{
		Format:         format,
		VizType:        o.VizType,
		Background:     pal.Background,
		Colors:         pal.Colors,
		StrokeWidth:    o.StrokeWidth,
		MarginFraction: o.marginFraction(),
		Size:           o.Size,
		Scale:          o.Scale,
		Title:          o.Title,
		Detailed:       o.Detailed,
	}
}
