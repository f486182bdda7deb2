// Package metadata obtains the resolved dependency document that deptree
// renders.
//
// The document is the JSON emitted by `cargo metadata --format-version 1`:
// every package in the resolved graph with its identity and descriptive
// fields, plus a resolve section mapping each package to its dependency edges.
// Each edge carries the set of dependency kinds (normal, build, dev) that
// justify it. deptree does not resolve anything itself; it only consumes this
// document.
//
// Two [Provider] implementations exist:
//
//   - [Cargo] runs the cargo binary (honouring $CARGO) and, unless all targets
//     are requested, infers the host target from `rustc -vV` (honouring $RUSTC)
//     to pass as --filter-platform.
//   - [File] decodes a previously captured document from a file or stdin.
//
// # Example
//
//	p := &metadata.Cargo{Options: metadata.Options{ManifestPath: "Cargo.toml"}}
//	doc, err := p.Metadata(ctx)
//	if err != nil {
//	    return err
//	}
//	fmt.Println(len(doc.Packages), "packages")
package metadata
