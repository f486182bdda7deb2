// Package pkg provides the libraries behind deptree, a dependency tree viewer
// for Cargo workspaces.
//
// # Overview
//
// deptree prints the resolved dependency graph of a Rust package as an
// indented tree, the way `cargo tree` does. The pkg directory is organized
// into these areas:
//
//  1. [metadata] - Obtain the resolved document from `cargo metadata` or a file
//  2. [graph] - Build the pruned dependency graph, find duplicates and cycles
//  3. [format] - Parse node format patterns such as "{p} {l}"
//  4. [tree] - Walk the graph and print the tree
//  5. [pipeline] - Orchestration (metadata → graph → tree)
//  6. [render/nodelink] and [io] - Graphviz and JSON exports
//
// # Architecture
//
// The typical data flow through deptree:
//
//	cargo metadata / captured JSON
//	         ↓
//	    [metadata] package (decode the resolve section)
//	         ↓
//	    [graph] package (dedup edge kinds, prune to the root)
//	         ↓
//	    [tree] package (one tree, or one per duplicated package)
//	         ↓
//	    text on stdout
//
// # Quick Start
//
//	runner := pipeline.NewRunner(&metadata.Cargo{}, logger)
//	_, err := runner.Execute(ctx, os.Stdout, pipeline.Options{Invert: true, Package: "log"})
//
// # Supporting Packages
//
//   - [errors] - Structured error codes shared by every stage
//   - [observability] - Hooks for progress reporting around each stage
//   - [buildinfo] - Version information injected at build time
//
// [metadata]: github.com/matzehuels/deptree/pkg/metadata
// [graph]: github.com/matzehuels/deptree/pkg/graph
// [format]: github.com/matzehuels/deptree/pkg/format
// [tree]: github.com/matzehuels/deptree/pkg/tree
// [pipeline]: github.com/matzehuels/deptree/pkg/pipeline
// [render/nodelink]: github.com/matzehuels/deptree/pkg/render/nodelink
// [io]: github.com/matzehuels/deptree/pkg/io
// [errors]: github.com/matzehuels/deptree/pkg/errors
// [observability]: github.com/matzehuels/deptree/pkg/observability
// [buildinfo]: github.com/matzehuels/deptree/pkg/buildinfo
package pkg
