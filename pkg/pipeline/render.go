package pipeline

import (
	"context"
	"fmt"

	errs "github.com/matzehuels/trifractal/pkg/errors"
	"github.com/matzehuels/trifractal/pkg/render/nodelink"
	"github.com/matzehuels/trifractal/pkg/render/sink"
	"github.com/matzehuels/trifractal/pkg/session"
)

// Render generates output artifacts in the requested formats.
func Render(ctx context.Context, snap session.Snapshot, opts Options) (map[string][]byte, error) {
	if opts.IsNodelink() {
		return renderNodelink(ctx, snap, opts)
	}
	return renderFractal(ctx, snap, opts)
}

// renderNodelink draws the construction tree through Graphviz.
func renderNodelink(ctx context.Context, snap session.Snapshot, opts Options) (map[string][]byte, error) {
	dot := nodelink.ToDOT(snap.Root, snap.Selection, nodelink.Options{Detailed: opts.Detailed})
	artifacts := make(map[string][]byte)

	for _, format := range opts.Formats {
		var data []byte
		var err error

		switch format {
		case FormatSVG:
			data, err = nodelink.RenderSVG(ctx, dot)
		case FormatPNG:
			data, err = nodelink.RenderPNG(ctx, dot, opts.Scale)
		case FormatPDF:
			data, err = nodelink.RenderPDF(ctx, dot)
		case FormatDOT:
			data = []byte(dot)
		case FormatJSON:
			data, err = sink.RenderJSON(snap)
		default:
			return nil, errs.New(errs.ErrCodeInvalidFormat, "unsupported nodelink format: %s", format)
		}

		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}

	return artifacts, nil
}

// renderFractal draws the triangle and dendrogram views.
func renderFractal(ctx context.Context, snap session.Snapshot, opts Options) (map[string][]byte, error) {
	svgOpts := buildSVGOptions(opts)
	artifacts := make(map[string][]byte)

	for _, format := range opts.Formats {
		var data []byte
		var err error

		switch format {
		case FormatSVG:
			data = sink.RenderSVG(snap, svgOpts...)
		case FormatPNG:
			data, err = sink.RenderPNG(ctx, snap, sink.WithPNGSVGOptions(svgOpts...), sink.WithScale(opts.Scale))
		case FormatPDF:
			data, err = sink.RenderPDF(ctx, snap, sink.WithPDFSVGOptions(svgOpts...))
		case FormatJSON:
			data, err = sink.RenderJSON(snap)
		case FormatDOT:
			data = []byte(nodelink.ToDOT(snap.Root, snap.Selection, nodelink.Options{Detailed: opts.Detailed}))
		default:
			return nil, errs.New(errs.ErrCodeInvalidFormat, "unsupported fractal format: %s", format)
		}

		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}

	return artifacts, nil
}

// buildSVGOptions maps pipeline options to sink options.
func buildSVGOptions(opts Options) []sink.SVGOption {
	var svgOpts []sink.SVGOption

	switch opts.View {
	case ViewFractal:
		svgOpts = append(svgOpts, sink.WithFractalOnly())
	case ViewTree:
		svgOpts = append(svgOpts, sink.WithTreeOnly())
	}
	if opts.Interactive {
		svgOpts = append(svgOpts, sink.WithInteraction())
	}
	if opts.Title != "" {
		svgOpts = append(svgOpts, sink.WithTitle(opts.Title))
	}
	return svgOpts
}
