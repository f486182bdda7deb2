package tree

import (
	"bytes"
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/matzehuels/deptree/pkg/format"
	"github.com/matzehuels/deptree/pkg/graph"
	"github.com/matzehuels/deptree/pkg/metadata"
)

func fixtureGraph(t *testing.T, opts graph.BuildOptions) *graph.Graph {
	t.Helper()
	f, err := os.Open("../metadata/testdata/app.json")
	require.NoError(t, err)
	defer f.Close()

	doc, err := metadata.Decode(f)
	require.NoError(t, err)
	g, err := graph.Build(doc, opts)
	require.NoError(t, err)
	return g
}

type edge struct {
	from, to string
	kinds    []string
}

func dep(from, to string, kinds ...string) edge {
	if len(kinds) == 0 {
		kinds = []string{metadata.KindNormal}
	}
	return edge{from: from, to: to, kinds: kinds}
}

// buildGraph creates a graph of crates.io packages at version 1.0.0, rooted
// at the first name listed.
func buildGraph(t *testing.T, pkgs []string, edges ...edge) *graph.Graph {
	t.Helper()
	doc := &metadata.Document{Resolve: &metadata.Resolve{Root: pkgs[0]}}
	pos := map[string]int{}
	for i, name := range pkgs {
		doc.Packages = append(doc.Packages, metadata.Package{
			ID: name, Name: name, Version: "1.0.0", Source: metadata.CratesIOSource,
		})
		doc.Resolve.Nodes = append(doc.Resolve.Nodes, metadata.Node{ID: name})
		pos[name] = i
	}
	for _, e := range edges {
		n := &doc.Resolve.Nodes[pos[e.from]]
		var dk []metadata.DepKind
		for _, k := range e.kinds {
			dk = append(dk, metadata.DepKind{Kind: k})
		}
		n.Dependencies = append(n.Dependencies, e.to)
		n.Deps = append(n.Deps, metadata.Dep{Name: e.to, Pkg: e.to, DepKinds: dk})
	}

	g, err := graph.Build(doc, graph.BuildOptions{})
	require.NoError(t, err)
	return g
}

func render(t *testing.T, g *graph.Graph, root string, opts Options) string {
	t.Helper()
	idx, err := SelectRoot(g, root)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, Render(&buf, g, idx, format.MustParse(format.Default), opts))
	return buf.String()
}

func lines(ls ...string) string {
	var b bytes.Buffer
	for _, l := range ls {
		b.WriteString(l)
		b.WriteByte('\n')
	}
	return b.String()
}
