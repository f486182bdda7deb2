package graph

import (
	"cmp"
	"slices"
)

// Graph is a directed multigraph of packages. Node indices are stable for the
// lifetime of the value. The zero value is an empty graph with no root.
type Graph struct {
	nodes     []Node
	index     map[string]int // PackageID.Repr -> node index
	out       [][]Neighbor
	in        [][]Neighbor
	edgeCount int

	root   int    // -1 when absent or missing from the package list
	rootID string // the designated root id, kept even when root == -1
}

// New returns an empty graph.
func New() *Graph {
	return &Graph{index: make(map[string]int), root: -1}
}

// NodeCount returns the number of nodes.
func (g *Graph) NodeCount() int { return len(g.nodes) }

// EdgeCount returns the number of edges, counting one per (from, to, kind).
func (g *Graph) EdgeCount() int { return g.edgeCount }

// Node returns the node at index i. It panics if i is out of range.
func (g *Graph) Node(i int) *Node { return &g.nodes[i] }

// Nodes returns all nodes in index order.
func (g *Graph) Nodes() []Node { return g.nodes }

// Lookup returns the index of the node with the given resolver id.
func (g *Graph) Lookup(repr string) (int, bool) {
	i, ok := g.index[repr]
	return i, ok
}

// Root returns the designated root's index, or false when the document had
// no root or the root was not among its packages.
func (g *Graph) Root() (int, bool) { return g.root, g.root >= 0 }

// RootID returns the designated root id as written in the document.
func (g *Graph) RootID() string { return g.rootID }

// Neighbors returns the adjacency list of node i in the given direction. For
// Outgoing these are the node's dependencies; for Incoming its dependents.
// The returned slice must not be modified.
func (g *Graph) Neighbors(i int, dir Direction) []Neighbor {
	if dir == Incoming {
		return g.in[i]
	}
	return g.out[i]
}

// Edges returns every edge ordered by source index, then insertion order.
func (g *Graph) Edges() []Edge {
	edges := make([]Edge, 0, g.edgeCount)
	for from, list := range g.out {
		for _, n := range list {
			edges = append(edges, Edge{From: from, To: n.Node, Kind: n.Kind})
		}
	}
	return edges
}

// SortedNodes returns every node index ordered by package identity.
func (g *Graph) SortedNodes() []int {
	order := make([]int, len(g.nodes))
	for i := range order {
		order[i] = i
	}
	slices.SortFunc(order, func(a, b int) int { return g.nodes[a].ID.Compare(g.nodes[b].ID) })
	return order
}

// SortedEdges returns every edge ordered by source identity, then target
// identity, then kind. The order does not depend on node indices.
func (g *Graph) SortedEdges() []Edge {
	edges := g.Edges()
	slices.SortFunc(edges, func(a, b Edge) int {
		if c := g.nodes[a.From].ID.Compare(g.nodes[b.From].ID); c != 0 {
			return c
		}
		if c := g.nodes[a.To].ID.Compare(g.nodes[b.To].ID); c != 0 {
			return c
		}
		return cmp.Compare(a.Kind, b.Kind)
	})
	return edges
}

// HasEdge reports whether the (from, to, kind) edge exists.
func (g *Graph) HasEdge(from, to int, kind DependencyKind) bool {
	return slices.Contains(g.out[from], Neighbor{Node: to, Kind: kind})
}

func (g *Graph) addNode(n Node) int {
	i := len(g.nodes)
	g.nodes = append(g.nodes, n)
	g.index[n.ID.Repr] = i
	g.out = append(g.out, nil)
	g.in = append(g.in, nil)
	return i
}

// addEdge adds the edge unless an identical one already exists.
func (g *Graph) addEdge(from, to int, kind DependencyKind) bool {
	if g.HasEdge(from, to, kind) {
		return false
	}
	g.out[from] = append(g.out[from], Neighbor{Node: to, Kind: kind})
	g.in[to] = append(g.in[to], Neighbor{Node: from, Kind: kind})
	g.edgeCount++
	return true
}

// retain keeps only the nodes for which keep is true, renumbering indices and
// dropping every edge that touches a removed node.
func (g *Graph) retain(keep []bool) {
	remap := make([]int, len(g.nodes))
	var nodes []Node
	for i, n := range g.nodes {
		if !keep[i] {
			remap[i] = -1
			continue
		}
		remap[i] = len(nodes)
		nodes = append(nodes, n)
	}

	out := make([][]Neighbor, len(nodes))
	in := make([][]Neighbor, len(nodes))
	count := 0
	for from, list := range g.out {
		nf := remap[from]
		if nf < 0 {
			continue
		}
		for _, e := range list {
			nt := remap[e.Node]
			if nt < 0 {
				continue
			}
			out[nf] = append(out[nf], Neighbor{Node: nt, Kind: e.Kind})
			in[nt] = append(in[nt], Neighbor{Node: nf, Kind: e.Kind})
			count++
		}
	}

	index := make(map[string]int, len(nodes))
	for i, n := range nodes {
		index[n.ID.Repr] = i
	}

	if g.root >= 0 {
		g.root = remap[g.root]
	}
	g.nodes, g.out, g.in, g.index, g.edgeCount = nodes, out, in, index, count
}
