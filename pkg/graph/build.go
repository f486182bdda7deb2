package graph

import (
	"slices"

	"github.com/samber/lo"

	errs "github.com/matzehuels/deptree/pkg/errors"
	"github.com/matzehuels/deptree/pkg/metadata"
)

// BuildOptions controls which edges Build keeps.
type BuildOptions struct {
	// NoDevDependencies drops every DevDep edge.
	NoDevDependencies bool
}

// Build converts a resolved document into a Graph.
//
// Every dependency entry must carry at least one kind tag, and the tagged and
// untagged edge lists must agree in length. Documents from resolvers that do
// not report kinds are rejected with MALFORMED_INPUT.
//
// If the document names a root package, only the nodes reachable from it are
// kept. A root id that is not among the packages is recorded but leaves the
// graph unpruned; callers that need the root get ROOT_NOT_FOUND from the
// tree package.
func Build(doc *metadata.Document, opts BuildOptions) (*Graph, error) {
	if doc == nil || doc.Resolve == nil {
		return nil, errs.New(errs.ErrCodeMalformedInput, "metadata has no resolve section")
	}

	g := New()
	for _, p := range doc.Packages {
		if _, dup := g.index[p.ID]; dup {
			return nil, errs.New(errs.ErrCodeMalformedInput, "package `%s` is listed more than once", p.ID)
		}
		g.addNode(Node{
			ID:           NewPackageID(p.ID, p.Name, p.Version, p.Source),
			License:      p.License,
			LicenseFile:  p.LicenseFile,
			Repository:   p.Repository,
			Description:  p.Description,
			Authors:      p.Authors,
			ManifestPath: p.ManifestPath,
			Depth:        -1,
		})
	}

	for _, rn := range doc.Resolve.Nodes {
		from, ok := g.index[rn.ID]
		if !ok {
			return nil, errs.New(errs.ErrCodeMalformedInput, "resolve node `%s` is not a known package", rn.ID)
		}
		if len(rn.Deps) != len(rn.Dependencies) {
			return nil, errMissingKinds()
		}
		for _, dep := range rn.Deps {
			if len(dep.DepKinds) == 0 {
				return nil, errMissingKinds()
			}
			to, ok := g.index[dep.Pkg]
			if !ok {
				return nil, errs.New(errs.ErrCodeMalformedInput,
					"dependency `%s` of `%s` is not a known package", dep.Pkg, rn.ID)
			}
			kinds, err := depKinds(dep)
			if err != nil {
				return nil, errs.Wrap(errs.ErrCodeMalformedInput, err, "dependency `%s` of `%s`", dep.Name, rn.ID)
			}
			for _, k := range kinds {
				if k == DevDep && opts.NoDevDependencies {
					continue
				}
				g.addEdge(from, to, k)
			}
		}
	}

	if doc.Resolve.Root != "" {
		g.rootID = doc.Resolve.Root
		if root, ok := g.index[doc.Resolve.Root]; ok {
			g.root = root
			g.prune()
		}
	}
	g.markShared()
	return g, nil
}

func errMissingKinds() error {
	return errs.New(errs.ErrCodeMalformedInput,
		"dependency kinds are missing from the resolve data; requires cargo 1.41 or newer")
}

// depKinds returns the distinct kinds of one dependency entry in render order.
// The same kind may appear once per platform target.
func depKinds(dep metadata.Dep) ([]DependencyKind, error) {
	kinds := make([]DependencyKind, 0, len(dep.DepKinds))
	for _, dk := range dep.DepKinds {
		k, err := ParseKind(dk.Kind)
		if err != nil {
			return nil, err
		}
		kinds = append(kinds, k)
	}
	kinds = lo.Uniq(kinds)
	slices.Sort(kinds)
	return kinds, nil
}

// prune removes every node not reachable from the root and records the
// breadth-first discovery depth of the survivors.
func (g *Graph) prune() {
	depth := make([]int, len(g.nodes))
	for i := range depth {
		depth[i] = -1
	}
	depth[g.root] = 0
	queue := []int{g.root}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, n := range g.out[cur] {
			if depth[n.Node] < 0 {
				depth[n.Node] = depth[cur] + 1
				queue = append(queue, n.Node)
			}
		}
	}

	keep := make([]bool, len(g.nodes))
	for i, d := range depth {
		keep[i] = d >= 0
		g.nodes[i].Depth = d
	}
	g.retain(keep)
}

// markShared flags nodes with more than one distinct dependent. Self-loops do
// not count.
func (g *Graph) markShared() {
	for i := range g.nodes {
		parents := lo.Uniq(lo.FilterMap(g.in[i], func(n Neighbor, _ int) (int, bool) {
			return n.Node, n.Node != i
		}))
		g.nodes[i].Shared = len(parents) > 1
	}
}
