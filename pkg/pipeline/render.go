package pipeline

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/pearls/pkg/composition"
	perrors "github.com/matzehuels/pearls/pkg/errors"
	"github.com/matzehuels/pearls/pkg/render/nodelink"
	"github.com/matzehuels/pearls/pkg/render/sink"
)

// Render generates output artifacts in the requested formats. Formats are
// rendered concurrently; the composition is only read.
func Render(ctx context.Context, comp *composition.Composition, opts Options) (map[string][]byte, error) {
	var (
		mu        sync.Mutex
		artifacts = make(map[string][]byte, len(opts.Formats))
	)

	g, ctx := errgroup.WithContext(ctx)
	for _, format := range opts.Formats {
		g.Go(func() error {
			data, err := renderFormat(ctx, comp, opts, format)
			if err != nil {
				return fmt.Errorf("render %s: %w", format, err)
			}
			mu.Lock()
			artifacts[format] = data
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return artifacts, nil
}

func renderFormat(ctx context.Context, comp *composition.Composition, opts Options, format string) ([]byte, error) {
	if opts.IsNodelink() {
		return renderNodelink(ctx, comp, opts, format)
	}
	return renderPearls(comp, opts, format)
}

// renderPearls generates pearl outputs.
func renderPearls(comp *composition.Composition, opts Options, format string) ([]byte, error) {
	switch format {
	case FormatSVG:
		var svgOpts []sink.SVGOption
		if opts.Title != "" {
			svgOpts = append(svgOpts, sink.WithTitle(opts.Title))
		}
		return sink.RenderSVG(comp, svgOpts...), nil
	case FormatPNG:
		return sink.RenderPNG(comp, sink.WithScale(opts.Scale))
	case FormatPDF:
		return sink.RenderPDF(comp)
	case FormatJSON:
		return sink.RenderJSON(comp, sink.WithJSONParams(opts.Params()))
	default:
		return nil, perrors.New(perrors.ErrCodeUnsupported, "unsupported pearls format: %s", format)
	}
}

// renderNodelink generates connectivity diagrams for all layers.
func renderNodelink(ctx context.Context, comp *composition.Composition, opts Options, format string) ([]byte, error) {
	dot := nodelink.CompositionDOT(comp, nodelink.Options{Detailed: opts.Detailed})
	switch format {
	case FormatDOT:
		return []byte(dot), nil
	case FormatSVG:
		return nodelink.RenderSVG(ctx, dot)
	case FormatPNG:
		return nodelink.RenderPNG(ctx, dot)
	default:
		return nil, perrors.New(perrors.ErrCodeUnsupported, "unsupported nodelink format: %s", format)
	}
}
