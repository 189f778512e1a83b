// Package render turns dependency graphs into images.
//
// The [nodelink] subpackage lays out a [graph.Matrix] with Graphviz and
// produces SVG. This package converts SVG to other formats with the
// external rsvg-convert tool (from librsvg):
//
//	svg, err := nodelink.RenderSVG(ctx, dot)
//	pdf, err := render.ToPDF(ctx, svg)
//	png, err := render.ToPNG(ctx, svg, 2.0) // 2x scale
//
// [FormatFromPath] maps an output file name to a [Format].
package render
