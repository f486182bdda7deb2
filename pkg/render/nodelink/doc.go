// Package nodelink renders dependency graphs as traditional node-link diagrams.
//
// # Overview
//
// This package produces Graphviz diagrams of the pruned dependency graph,
// where packages appear as boxes connected by arrows. It complements the text
// tree for cases where a picture of the whole graph is wanted.
//
// # Usage
//
// Convert a graph to DOT format, then render to SVG:
//
//	dot := nodelink.ToDOT(g, nodelink.Options{Pattern: pattern})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// # DOT Format
//
// The [ToDOT] function produces Graphviz DOT source that can be:
//
//   - Rendered directly via [RenderSVG]
//   - Saved and processed with external Graphviz tools
//
// Nodes are emitted in identity order and edges by source then target, so the
// DOT text is stable for a given graph. Build edges are dashed and
// development edges dotted; the root is drawn bold. Packages reached through
// more than one dependent are filled grey when [Options.Detailed] is set.
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering.
package nodelink
