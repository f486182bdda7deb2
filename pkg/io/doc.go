// Package io provides JSON export for dependency graphs.
//
// # Overview
//
// The export is meant for tools that want the resolved, pruned graph without
// parsing tree text or the much larger cargo metadata document. It contains
// every node reachable from the root and every edge with its kind:
//
//	{
//	  "root": "app 0.1.0 (path+file:///src/app)",
//	  "nodes": [
//	    {"id": "app 0.1.0 (path+file:///src/app)", "name": "app", "version": "0.1.0", "depth": 0},
//	    {"id": "log 0.4.8 (registry+...)", "name": "log", "version": "0.4.8", "source": "registry+...", "depth": 1}
//	  ],
//	  "edges": [
//	    {"from": "app 0.1.0 (path+file:///src/app)", "to": "log 0.4.8 (registry+...)", "kind": "normal"}
//	  ]
//	}
//
// # Node Fields
//
// Required:
//   - id: the package identity as reported by cargo
//   - name, version: package name and version
//   - depth: shortest distance from the root, -1 if unreachable
//
// Optional:
//   - source: registry, git or path source; empty for path packages
//   - license, repository, description: package metadata
//   - shared: true when more than one package depends on this one
//
// # Ordering
//
// Nodes are sorted by package identity and edges by (from, to, kind), so the
// output of two runs over the same metadata is byte-identical.
package io
