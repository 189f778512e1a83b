// Package nodelink renders dependency graphs as node-link diagrams.
//
// # Overview
//
// This package produces directed graph visualizations using Graphviz, where
// package instances appear as boxes connected by arrows from dependent to
// dependency.
//
// # Usage
//
// Convert a [graph.Matrix] to DOT format, then render to SVG:
//
//	dot := nodelink.ToDOT(m, "app@1.0.0", nodelink.Options{})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// For PDF or PNG output, pass the SVG to [render.Convert].
//
// # Layout
//
// Nodes are ranked by their breadth-first distance from the root, so each
// row of the diagram is one hop further away. By default only identities
// reachable from the root are drawn; [Options.IncludeUnreachable] adds the
// rest (for example dev-only installs) on a separate dashed rank.
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering.
package nodelink
