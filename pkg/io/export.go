package io

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/samber/lo"

	"github.com/matzehuels/deptree/pkg/graph"
)

type document struct {
	Root  string `json:"root,omitempty"`
	Nodes []node `json:"nodes"`
	Edges []edge `json:"edges"`
}

type node struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Version     string `json:"version"`
	Source      string `json:"source,omitempty"`
	License     string `json:"license,omitempty"`
	Repository  string `json:"repository,omitempty"`
	Description string `json:"description,omitempty"`
	Depth       int    `json:"depth"`
	Shared      bool   `json:"shared,omitempty"`
}

type edge struct {
	From string `json:"from"`
	To   string `json:"to"`
	Kind string `json:"kind"`
}

// WriteJSON encodes g as indented JSON and writes it to w.
func WriteJSON(g *graph.Graph, w io.Writer) error {
	order := g.SortedNodes()

	var out document
	if root, ok := g.Root(); ok {
		out.Root = g.Node(root).ID.Repr
	}
	out.Nodes = lo.Map(order, func(i int, _ int) node {
		n := g.Node(i)
		return node{
			ID:          n.ID.Repr,
			Name:        n.ID.Name,
			Version:     n.ID.Version,
			Source:      n.ID.Source,
			License:     n.License,
			Repository:  n.Repository,
			Description: n.Description,
			Depth:       n.Depth,
			Shared:      n.Shared,
		}
	})

	edges := g.SortedEdges()
	out.Edges = lo.Map(edges, func(e graph.Edge, _ int) edge {
		return edge{From: g.Node(e.From).ID.Repr, To: g.Node(e.To).ID.Repr, Kind: e.Kind.String()}
	})

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}
