// Package pipeline provides the load → layout → render pipeline for rrgraph.
//
// The CLI and the HTTP server both drive the pipeline through a [Runner] so
// that defaults, validation and caching behave identically on every entry
// point.
//
// # Stages
//
//  1. Load: decode a sector batch (JSON or msgpack) or a stored layout
//  2. Layout: compute the domain, map and resolve markers ([layout.Build])
//  3. Render: emit SVG, PNG, PDF, JSON or msgpack artifacts
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Execute(ctx, sectors, pipeline.Options{
//	    Formats: []string{"svg", "json"},
//	    Hover:   "XLK",
//	})
//	svg := result.Artifacts["svg"]
//
// Layouts are memoized by the hash of the sector batch and the layout
// options, so re-rendering the same batch in another format or with a
// different hover target skips the collision pass.
package pipeline

import (
	"io"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/rrgraph/pkg/cache"
	"github.com/matzehuels/rrgraph/pkg/errors"
	"github.com/matzehuels/rrgraph/pkg/interact"
	"github.com/matzehuels/rrgraph/pkg/layout"
	"github.com/matzehuels/rrgraph/pkg/render/styles"
	"github.com/matzehuels/rrgraph/pkg/rrg"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and API
// =============================================================================

const (
	// DefaultWidth is the default frame width in pixels.
	DefaultWidth = 500.0

	// DefaultHeight is the default frame height in pixels.
	DefaultHeight = 400.0

	// DefaultScale is the PNG resolution multiplier.
	DefaultScale = 2.0

	// DefaultStyle is the default visual style.
	DefaultStyle = styles.NameDark

	// MaxFrameSize bounds width and height.
	MaxFrameSize = 10000.0

	// MaxRounds bounds the collision relaxation budget.
	MaxRounds = 1000
)

// Format constants for output formats.
const (
	FormatSVG     = "svg"
	FormatPNG     = "png"
	FormatPDF     = "pdf"
	FormatJSON    = "json"
	FormatMsgpack = "msgpack"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:     true,
	FormatPNG:     true,
	FormatPDF:     true,
	FormatJSON:    true,
	FormatMsgpack: true,
}

// FormatNames returns the supported formats, sorted.
func FormatNames() []string {
	out := make([]string, 0, len(ValidFormats))
	for f := range ValidFormats {
		out = append(out, f)
	}
	sort.Strings(out)
	return out
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the pipeline. It is the request
// body of the HTTP API, so every field carries a JSON name.
type Options struct {
	// Layout options. Zero selects the default, except for the pointer
	// fields where zero is meaningful and nil selects the default.
	Width             float64  `json:"width,omitempty"`
	Height            float64  `json:"height,omitempty"`
	Radius            float64  `json:"radius,omitempty"`
	Gap               *float64 `json:"gap,omitempty"`
	Rounds            int      `json:"rounds,omitempty"`
	Padding           float64  `json:"padding,omitempty"`
	MinRatioSpread    *float64 `json:"min_ratio_spread,omitempty"`
	MinMomentumSpread *float64 `json:"min_momentum_spread,omitempty"`
	RatioTicks        int      `json:"ratio_ticks,omitempty"`
	MomentumTicks     int      `json:"momentum_ticks,omitempty"`

	// Render options
	Formats     []string    `json:"formats,omitempty"`
	Style       string      `json:"style,omitempty"`
	Interactive bool        `json:"interactive,omitempty"`
	Legend      bool        `json:"legend,omitempty"`
	Hover       string      `json:"hover,omitempty"`
	Pointer     *rrg.Screen `json:"pointer,omitempty"`
	Scale       float64     `json:"scale,omitempty"`

	// Refresh skips cache reads; results are still written back.
	Refresh bool `json:"refresh,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// SectorsHash is the content hash of the sector batch.
	SectorsHash string

	Layout    layout.Layout
	Artifacts map[string][]byte
	Stats     Stats
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Sectors    int
	Rounds     int
	Converged  bool
	LayoutTime time.Duration
	RenderTime time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	LayoutHit bool // Whether the layout came from cache
	RenderHit bool // Whether all artifacts came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat,
			"invalid format: %q (must be one of: %s)", format, strings.Join(FormatNames(), ", "))
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

// ValidateStyle checks that a style is registered.
func ValidateStyle(style string) error {
	if _, ok := styles.Lookup(style); !ok {
		return errors.New(errors.ErrCodeInvalidStyle,
			"invalid style: %q (must be one of: %s)", style, strings.Join(styles.Names(), ", "))
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// SetLayoutDefaults sets default values for layout computation.
func (o *Options) SetLayoutDefaults() {
	if o.Width == 0 {
		o.Width = DefaultWidth
	}
	if o.Height == 0 {
		o.Height = DefaultHeight
	}
	if o.Radius == 0 {
		o.Radius = rrg.DefaultRadius
	}
	if o.Gap == nil {
		o.Gap = layout.Float64(rrg.DefaultGap)
	}
	if o.Rounds == 0 {
		o.Rounds = rrg.DefaultRounds
	}
	if o.Padding == 0 {
		o.Padding = rrg.DefaultPadding
	}
	if o.MinRatioSpread == nil {
		o.MinRatioSpread = layout.Float64(rrg.DefaultMinRatioSpread)
	}
	if o.MinMomentumSpread == nil {
		o.MinMomentumSpread = layout.Float64(rrg.DefaultMinMomentumSpread)
	}
	if o.RatioTicks == 0 {
		o.RatioTicks = rrg.DefaultTickIntervals
	}
	if o.MomentumTicks == 0 {
		o.MomentumTicks = rrg.DefaultTickIntervals
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForLayout sets layout defaults and rejects out-of-range values.
func (o *Options) ValidateForLayout() error {
	o.SetLayoutDefaults()

	pad := rrg.DefaultInsets
	switch {
	case o.Width <= pad.Left+pad.Right || o.Width > MaxFrameSize:
		return errors.New(errors.ErrCodeInvalidInput, "width must be in (%.0f, %.0f]", pad.Left+pad.Right, MaxFrameSize)
	case o.Height <= pad.Top+pad.Bottom || o.Height > MaxFrameSize:
		return errors.New(errors.ErrCodeInvalidInput, "height must be in (%.0f, %.0f]", pad.Top+pad.Bottom, MaxFrameSize)
	case o.Radius < 0:
		return errors.New(errors.ErrCodeInvalidInput, "radius must be positive")
	case *o.Gap < 0:
		return errors.New(errors.ErrCodeInvalidInput, "gap must not be negative")
	case o.Rounds < 0 || o.Rounds > MaxRounds:
		return errors.New(errors.ErrCodeInvalidInput, "rounds must be in [1, %d]", MaxRounds)
	case o.Padding < 0:
		return errors.New(errors.ErrCodeInvalidInput, "padding must be positive")
	case *o.MinRatioSpread < 0 || *o.MinMomentumSpread < 0:
		return errors.New(errors.ErrCodeInvalidInput, "minimum spreads must not be negative")
	case o.RatioTicks < 0 || o.MomentumTicks < 0:
		return errors.New(errors.ErrCodeInvalidInput, "tick counts must not be negative")
	case o.Style != "":
		return ValidateStyle(strings.ToLower(o.Style))
	}
	return nil
}

// SetRenderDefaults sets default values for rendering.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if o.Style == "" {
		o.Style = DefaultStyle
	}
	if o.Scale == 0 {
		o.Scale = DefaultScale
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForRender validates and sets defaults for rendering.
func (o *Options) ValidateForRender() error {
	o.SetRenderDefaults()
	o.Style = strings.ToLower(o.Style)
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if o.Scale < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "scale must be positive")
	}
	return ValidateStyle(o.Style)
}

// LayoutOptions converts o into layout.Build options.
func (o *Options) LayoutOptions() layout.Options {
	frame := rrg.DefaultFrame()
	frame.Width, frame.Height = o.Width, o.Height
	return layout.Options{
		Frame:             frame,
		Radius:            o.Radius,
		Gap:               o.Gap,
		Rounds:            o.Rounds,
		Padding:           o.Padding,
		MinRatioSpread:    o.MinRatioSpread,
		MinMomentumSpread: o.MinMomentumSpread,
		RatioTicks:        o.RatioTicks,
		MomentumTicks:     o.MomentumTicks,
		Style:             strings.ToLower(o.Style),
	}
}

// value dereferences an optional option, treating nil as -1 so it never
// collides with an explicit zero in a cache key.
func value(p *float64) float64 {
	if p == nil {
		return -1
	}
	return *p
}

// LayoutKeyOpts returns cache key options for layout computation.
func (o *Options) LayoutKeyOpts() cache.LayoutKeyOpts {
	return cache.LayoutKeyOpts{
		Width:             o.Width,
		Height:            o.Height,
		Radius:            o.Radius,
		Gap:               value(o.Gap),
		Rounds:            o.Rounds,
		Padding:           o.Padding,
		MinRatioSpread:    value(o.MinRatioSpread),
		MinMomentumSpread: value(o.MinMomentumSpread),
		RatioTicks:        o.RatioTicks,
		MomentumTicks:     o.MomentumTicks,
	}
}

// ArtifactKeyOpts returns cache key options for artifact rendering.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	k := cache.ArtifactKeyOpts{
		Format:      format,
		Style:       o.Style,
		Interactive: o.Interactive,
		Legend:      o.Legend,
		Hover:       o.Hover,
	}
	if o.Pointer != nil {
		k.PointerX, k.PointerY = o.Pointer.X, o.Pointer.Y
	}
	if format == FormatPNG {
		k.Scale = o.Scale
	}
	return k
}

// HoverView replays the requested hover target on a fresh machine and
// returns the overlay for l. The pointer defaults to the marker's centre.
// An empty or unknown target yields an idle view.
func (o *Options) HoverView(l layout.Layout) interact.View {
	if o.Hover == "" {
		return interact.View{}
	}
	mk, ok := l.Marker(o.Hover)
	if !ok {
		return interact.View{}
	}
	pointer := mk.Center()
	if o.Pointer != nil {
		pointer = *o.Pointer
	}
	m := interact.NewMachine()
	m.Enter(o.Hover, pointer)
	return interact.Render(l, m, interact.Options{})
}
