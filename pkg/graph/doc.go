// Package graph holds the in-memory dependency graph that deptree renders.
//
// A [Graph] is built once per run from a resolved [metadata.Document] and is
// read-only afterwards. Nodes live in an arena addressed by small integer
// indices; adjacency is stored per node as lists of ([Neighbor] index, kind)
// pairs in both directions, so the same ordered pair of packages may be
// connected once per [DependencyKind].
//
// # Identity
//
// A [PackageID] is the (name, version, source) triple of a resolved package
// together with the resolver's opaque id string. Several versions of one name
// may coexist in a graph. Ordering is by name, then semantic version, then
// source, which is the order the renderer and [FindDuplicates] use.
//
// # Building
//
//	doc, _ := metadata.Decode(r)
//	g, err := graph.Build(doc, graph.BuildOptions{NoDevDependencies: true})
//	if err != nil {
//	    // MALFORMED_INPUT: the resolver did not report dependency kinds
//	}
//
// When the document designates a root package, [Build] keeps only the nodes
// reachable from it and records for each node the breadth-first depth at which
// it was discovered.
//
// [metadata.Document]: github.com/matzehuels/deptree/pkg/metadata.Document
package graph
