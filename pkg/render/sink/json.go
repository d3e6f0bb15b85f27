package sink

import (
	"encoding/json"

	"github.com/matzehuels/pearls/pkg/composition"
	"github.com/matzehuels/pearls/pkg/palette"
	"github.com/matzehuels/pearls/pkg/raster"
	"github.com/matzehuels/pearls/pkg/shape"
)

// JSONOption configures JSON rendering via [RenderJSON].
type JSONOption func(*jsonRenderer)

type jsonRenderer struct {
	params   *composition.Params
	outlines bool
}

// WithJSONParams records the generation parameters, enabling reproducible
// re-rendering from the JSON alone.
func WithJSONParams(p composition.Params) JSONOption {
	return func(r *jsonRenderer) { r.params = &p }
}

// WithJSONOutlines includes the sampled polygon of every concave blob.
// Off by default since each blob adds 186 points.
func WithJSONOutlines() JSONOption { return func(r *jsonRenderer) { r.outlines = true } }

type jsonOutput struct {
	Width       float64             `json:"width"`
	Height      float64             `json:"height"`
	Rows        int                 `json:"rows"`
	Cols        int                 `json:"cols"`
	Margin      float64             `json:"margin"`
	Radius      float64             `json:"radius"`
	StrokeWidth float64             `json:"stroke_width"`
	Background  string              `json:"background"`
	Params      *composition.Params `json:"params,omitempty"`
	Layers      []jsonLayer         `json:"layers"`
}

type jsonLayer struct {
	Index      int             `json:"index"`
	Color      string          `json:"color"`
	Grid       *raster.Grid    `json:"grid"`
	Counts     map[string]int  `json:"counts"`
	Primitives []jsonPrimitive `json:"primitives"`
}

type jsonPrimitive struct {
	Kind        shape.Kind        `json:"kind"`
	Cell        *raster.Cell      `json:"cell,omitempty"`
	From        *raster.Cell      `json:"from,omitempty"`
	To          *raster.Cell      `json:"to,omitempty"`
	Center      *shape.Point      `json:"center,omitempty"`
	Origin      *shape.Point      `json:"origin,omitempty"`
	Radius      float64           `json:"radius,omitempty"`
	HalfExtent  float64           `json:"half_extent,omitempty"`
	Orientation shape.Orientation `json:"orientation,omitempty"`
	Corner      shape.Corner      `json:"corner,omitempty"`
	Outline     []shape.Point     `json:"outline,omitempty"`
}

// RenderJSON exports the composition as a pretty-printed JSON document:
// canvas geometry, then per layer its color, grid and primitive stream in
// draw order. It does not modify comp and is safe to call concurrently.
func RenderJSON(comp *composition.Composition, opts ...JSONOption) ([]byte, error) {
	r := jsonRenderer{}
	for _, opt := range opts {
		opt(&r)
	}

	out := jsonOutput{
		Width:       comp.Width,
		Height:      comp.Height,
		Rows:        comp.Rows,
		Cols:        comp.Cols,
		Margin:      comp.Geometry.Margin,
		Radius:      comp.Geometry.Radius,
		StrokeWidth: comp.Style.StrokeWidth,
		Background:  palette.Hex(comp.Background),
		Params:      r.params,
		Layers:      make([]jsonLayer, len(comp.Layers)),
	}
	for i, l := range comp.Layers {
		out.Layers[i] = r.buildLayer(comp, l)
	}
	return json.MarshalIndent(out, "", "  ")
}

func (r *jsonRenderer) buildLayer(comp *composition.Composition, l composition.Layer) jsonLayer {
	jl := jsonLayer{
		Index:      l.Index,
		Color:      palette.Hex(l.RGBA),
		Grid:       l.Grid,
		Counts:     map[string]int{},
		Primitives: []jsonPrimitive{},
	}
	shape.Render(l.Grid, comp.Geometry, func(p shape.Primitive) {
		jl.Counts[string(p.Kind())]++
		jl.Primitives = append(jl.Primitives, r.buildPrimitive(p))
	})
	return jl
}

func (r *jsonRenderer) buildPrimitive(p shape.Primitive) jsonPrimitive {
	jp := jsonPrimitive{Kind: p.Kind()}
	switch p := p.(type) {
	case shape.Circle:
		jp.Cell, jp.Center, jp.Radius = &p.Cell, &p.Center, p.Radius
	case shape.BridgeRect:
		jp.From, jp.To, jp.Center = &p.From, &p.To, &p.Center
		jp.HalfExtent, jp.Orientation = p.HalfExtent, p.Orientation
	case shape.ConcaveBlob:
		jp.From, jp.To, jp.Origin = &p.From, &p.To, &p.Origin
		jp.Radius, jp.Corner = p.Radius, p.Corner
		if r.outlines {
			jp.Outline = p.Outline()
		}
	}
	return jp
}
