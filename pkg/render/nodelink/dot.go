package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"maps"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/nmgraph/pkg/graph"
)

// Options configures node-link diagram rendering.
type Options struct {
	// Detailed adds depth and edge counts to node labels.
	// When false, only the identity is shown.
	Detailed bool

	// IncludeUnreachable draws identities that cannot be reached from the
	// root. They are placed on one extra rank below the deepest node.
	IncludeUnreachable bool
}

// ToDOT converts m to Graphviz DOT format, laid out from root.
// The resulting DOT string can be rendered using [RenderSVG].
//
// An unknown root draws nothing unless IncludeUnreachable is set.
func ToDOT(m *graph.Matrix, root string, opts Options) string {
	depth := m.Depths(root)
	if depth == nil {
		depth = map[string]int{}
	}

	var ids, unreachable []string
	for _, id := range m.IDs() {
		if _, ok := depth[id]; ok {
			ids = append(ids, id)
		} else if opts.IncludeUnreachable {
			unreachable = append(unreachable, id)
		}
	}
	drawn := m.Subgraph(slices.Concat(ids, unreachable))

	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=24, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.5;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	for _, id := range ids {
		attrs := fmtAttrs(m, id, depth[id], opts.Detailed)
		if id == root {
			attrs = append(attrs, "penwidth=3", "fillcolor=lightyellow")
		}
		fmt.Fprintf(&buf, "  %q [%s];\n", id, strings.Join(attrs, ", "))
	}
	for _, id := range unreachable {
		attrs := fmtAttrs(m, id, -1, opts.Detailed)
		attrs = append(attrs, "style=\"rounded,filled,dashed\"", "fillcolor=lightgrey")
		fmt.Fprintf(&buf, "  %q [%s];\n", id, strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	writeRanks(&buf, depth, ids, unreachable)

	buf.WriteString("\n")
	for _, from := range slices.Concat(ids, unreachable) {
		for _, to := range drawn.Targets(from) {
			fmt.Fprintf(&buf, "  %q -> %q;\n", from, to)
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

// writeRanks pins every node of one BFS depth to the same row.
func writeRanks(buf *bytes.Buffer, depth map[string]int, ids, unreachable []string) {
	rows := make(map[int][]string)
	for _, id := range ids {
		rows[depth[id]] = append(rows[depth[id]], id)
	}
	for _, d := range slices.Sorted(maps.Keys(rows)) {
		writeRank(buf, rows[d])
	}
	writeRank(buf, unreachable)
}

func writeRank(buf *bytes.Buffer, ids []string) {
	if len(ids) == 0 {
		return
	}
	quoted := make([]string, len(ids))
	for i, id := range ids {
		quoted[i] = strconv.Quote(id)
	}
	fmt.Fprintf(buf, "  { rank=same; %s; }\n", strings.Join(quoted, "; "))
}

func fmtLabel(m *graph.Matrix, id string, depth int, detailed bool) string {
	if !detailed {
		return id
	}

	d := "unreachable"
	if depth >= 0 {
		d = strconv.Itoa(depth)
	}
	parts := []string{
		"depth: " + d,
		fmt.Sprintf("deps: %d", len(m.Targets(id))),
		fmt.Sprintf("dependents: %d", len(m.Sources(id))),
	}
	return id + "\n" + strings.Join(parts, "\n")
}

func fmtAttrs(m *graph.Matrix, id string, depth int, detailed bool) []string {
	return []string{fmt.Sprintf("label=%q", fmtLabel(m, id, depth, detailed))}
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
// Returns the SVG bytes ready for display or further conversion with [render.Convert].
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}
