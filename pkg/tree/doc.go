// Package tree prints a dependency graph as an indented text tree.
//
// [Render] walks the graph depth-first from one root, either following
// dependencies ([graph.Outgoing]) or dependents ([graph.Incoming], the
// inverted tree). Children are grouped by dependency kind in the order
// normal, build, development, and sorted by package identity inside a group,
// so the output is stable for a given graph.
//
// # Truncation
//
// Three independent conditions stop the walk at a node, checked in order:
//
//  1. The node is at the depth limit. It is printed as a plain leaf and is
//     not remembered as printed.
//  2. Unless ShowAll is set, the node was already expanded earlier in this
//     traversal. It is printed with the " (*)" marker.
//  3. The node is its own ancestor on the current path. It is printed with
//     the marker so that graphs with cycles terminate even with ShowAll.
//
// # Prefixes
//
// With [PrefixIndent] lines carry box-drawing connectors and build and
// development groups get a "[build-dependencies]" or "[dev-dependencies]"
// header line:
//
//	app v0.1.0 (/src/app)
//	├── log v0.4.8
//	└── serde v1.0.100
//	    └── serde_derive v1.0.100
//	[build-dependencies]
//	└── cc v1.0.50
//
// [PrefixDepth] replaces the connectors with the depth number and
// [PrefixNone] prints a flat list. [ASCII] swaps the connectors for plain
// characters.
package tree
