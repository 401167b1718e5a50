// Package sink provides output format renderers for session snapshots.
//
// # Overview
//
// A "sink" transforms a [session.Snapshot] into a final output format.
// This package provides renderers for:
//
//   - SVG: the fractal view and the tree view side by side
//   - JSON: scene data export for external tools
//   - PDF: Print-ready output (requires rsvg-convert)
//   - PNG: Raster image output (requires rsvg-convert)
//
// # SVG Output
//
// [RenderSVG] draws every triangle of the current selection with a white
// outline, and the dendrogram with parent-coloured edges and discs labelled
// by depth. Discs on the selected level get a thick red outline.
//
//	svg := sink.RenderSVG(sess.Snapshot(),
//	    sink.WithInteraction(),
//	    sink.WithTitle("depth 4"),
//	)
//
// # SVG Options
//
//   - [WithFractalOnly]: Draw only the triangles
//   - [WithTreeOnly]: Draw only the dendrogram
//   - [WithInteraction]: Highlight all shapes of a depth on hover
//   - [WithTitle]: Set the document title
//
// # PDF and PNG Output
//
// [RenderPDF] and [RenderPNG] first generate SVG, then convert via
// [render.ToPDF] and [render.ToPNG]:
//
//	pdf, err := sink.RenderPDF(ctx, snap, sink.WithPDFSVGOptions(sink.WithTreeOnly()))
//	png, err := sink.RenderPNG(ctx, snap, sink.WithScale(2))
//
// [session.Snapshot]: github.com/matzehuels/trifractal/pkg/session.Snapshot
// [render.ToPDF]: github.com/matzehuels/trifractal/pkg/render.ToPDF
// [render.ToPNG]: github.com/matzehuels/trifractal/pkg/render.ToPNG
package sink
