package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/deptree/pkg/format"
	"github.com/matzehuels/deptree/pkg/graph"
)

// Options configures node-link diagram rendering.
type Options struct {
	// Pattern formats node labels. Defaults to the {p} pattern.
	Pattern *format.Pattern

	// Detailed adds license and depth to node labels and highlights shared
	// packages.
	Detailed bool
}

var edgeStyles = map[graph.DependencyKind]string{
	graph.NormalDep: "solid",
	graph.BuildDep:  "dashed",
	graph.DevDep:    "dotted",
}

// ToDOT converts a dependency graph to Graphviz DOT format.
// Each edge carries its dependency kind as a label; a package that is both a
// normal and a build dependency of the same parent gets two edges.
func ToDOT(g *graph.Graph, opts Options) string {
	pattern := opts.Pattern
	if pattern == nil {
		pattern = format.MustParse(format.Default)
	}
	root, hasRoot := g.Root()

	order := g.SortedNodes()

	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.5;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	for _, i := range order {
		n := g.Node(i)
		attrs := fmtAttrs(n, fmtLabel(n, pattern, opts.Detailed), opts.Detailed, hasRoot && i == root)
		fmt.Fprintf(&buf, "  %q [%s];\n", n.ID.Repr, strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	edges := g.SortedEdges()
	for _, e := range edges {
		fmt.Fprintf(&buf, "  %q -> %q [label=%q, style=%s];\n",
			g.Node(e.From).ID.Repr, g.Node(e.To).ID.Repr, e.Kind.String(), edgeStyles[e.Kind])
	}

	buf.WriteString("}\n")
	return buf.String()
}

func fmtLabel(n *graph.Node, pattern *format.Pattern, detailed bool) string {
	label := pattern.Display(n)
	if !detailed {
		return label
	}

	parts := []string{label}
	if n.License != "" {
		parts = append(parts, "license: "+n.License)
	}
	if n.Depth >= 0 {
		parts = append(parts, fmt.Sprintf("depth: %d", n.Depth))
	}
	return strings.Join(parts, "\n")
}

func fmtAttrs(n *graph.Node, label string, detailed, root bool) []string {
	attrs := []string{fmt.Sprintf("label=%q", label)}
	switch {
	case root:
		attrs = append(attrs, "style=\"rounded,filled,bold\"", "penwidth=2")
	case detailed && n.Shared:
		attrs = append(attrs, "fillcolor=lightgrey")
	}
	return attrs
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
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

// normalizeViewBox replaces graphviz's pt-sized svg tag with one sized in
// pixels from the viewBox.
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

	tag := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(tag))
}
