package graph

import (
	"errors"
	"slices"

	dgraph "github.com/dominikbraun/graph"
)

// Cycles returns the groups of nodes that can reach themselves through one or
// more edges, each group sorted by identity. A well-formed resolve contains
// none; the renderer terminates on them regardless.
func (g *Graph) Cycles() ([][]int, error) {
	// Vertices are keyed by index+1: the component search stops popping its
	// stack at the zero key, so index 0 must not be used as a key.
	sg := dgraph.New(dgraph.IntHash, dgraph.Directed())
	for i := range g.nodes {
		if err := sg.AddVertex(i + 1); err != nil {
			return nil, err
		}
	}
	for from, list := range g.out {
		for _, n := range list {
			// One edge per ordered pair is enough to find components.
			if err := sg.AddEdge(from+1, n.Node+1); err != nil && !errors.Is(err, dgraph.ErrEdgeAlreadyExists) {
				return nil, err
			}
		}
	}

	sccs, err := dgraph.StronglyConnectedComponents(sg)
	if err != nil {
		return nil, err
	}

	var cycles [][]int
	for _, keys := range sccs {
		scc := make([]int, 0, len(keys))
		for _, k := range keys {
			scc = append(scc, k-1)
		}
		if len(scc) == 0 || len(scc) == 1 && !g.hasSelfLoop(scc[0]) {
			continue
		}
		slices.SortFunc(scc, func(a, b int) int { return g.nodes[a].ID.Compare(g.nodes[b].ID) })
		cycles = append(cycles, scc)
	}
	slices.SortFunc(cycles, func(a, b []int) int { return g.nodes[a[0]].ID.Compare(g.nodes[b[0]].ID) })
	return cycles, nil
}

func (g *Graph) hasSelfLoop(i int) bool {
	return slices.ContainsFunc(g.out[i], func(n Neighbor) bool { return n.Node == i })
}
