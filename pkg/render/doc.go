// Package render provides visualization rendering for trifractal sessions.
//
// # Overview
//
// This package contains the rendering side of the build, layout, render
// pipeline. It provides:
//
//   - Generic format conversion (SVG to PDF/PNG)
//   - Scene extraction (in [scene] subpackage)
//   - The fractal and dendrogram view (in [sink] subpackage)
//   - Node-link diagrams of the construction tree (in [nodelink] subpackage)
//
// # Format Conversion
//
// The [ToPDF] and [ToPNG] functions convert any SVG to other formats using
// the external rsvg-convert tool (from librsvg). Both sinks use them.
//
//	svg := sink.RenderSVG(snapshot, opts...)
//	pdf, err := render.ToPDF(ctx, svg)
//	png, err := render.ToPNG(ctx, svg, 2.0)  // 2x scale
//
// # Node-Link Diagrams
//
// The [nodelink] subpackage renders the construction tree as a Graphviz
// digraph instead of the hand-rolled dendrogram.
//
//	dot := nodelink.ToDOT(snapshot.Root, snapshot.Selection, nodelink.Options{})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// [scene]: github.com/matzehuels/trifractal/pkg/render/scene
// [sink]: github.com/matzehuels/trifractal/pkg/render/sink
// [nodelink]: github.com/matzehuels/trifractal/pkg/render/nodelink
package render
