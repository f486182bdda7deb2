package tree

import (
	"slices"
	"strings"

	"github.com/hashicorp/go-version"
	"github.com/samber/lo"

	errs "github.com/matzehuels/deptree/pkg/errors"
	"github.com/matzehuels/deptree/pkg/graph"
)

// Candidates returns the indices of the nodes matching query, sorted by
// package identity. A query is a package name, optionally followed by
// ":version". Versions compare semantically, so "1.0" matches "1.0.0".
func Candidates(g *graph.Graph, query string) ([]int, error) {
	if err := errs.ValidatePackageQuery(query); err != nil {
		return nil, err
	}
	name, ver, hasVersion := strings.Cut(query, ":")

	var want *version.Version
	if hasVersion {
		v, err := version.NewVersion(ver)
		if err != nil {
			return nil, errs.Wrap(errs.ErrCodeInvalidPackage, err, "error parsing package version")
		}
		want = v
	}

	var matches []int
	for i, n := range g.Nodes() {
		if n.ID.Name != name {
			continue
		}
		if want != nil && !versionMatches(n.ID, ver, want) {
			continue
		}
		matches = append(matches, i)
	}
	slices.SortFunc(matches, func(a, b int) int { return g.Node(a).ID.Compare(g.Node(b).ID) })
	return matches, nil
}

func versionMatches(id graph.PackageID, raw string, want *version.Version) bool {
	if v := id.Semver(); v != nil {
		return v.Equal(want)
	}
	return id.Version == raw
}

// FindPackage resolves query to exactly one node.
func FindPackage(g *graph.Graph, query string) (int, error) {
	matches, err := Candidates(g, query)
	if err != nil {
		return -1, err
	}
	switch len(matches) {
	case 0:
		return -1, errs.New(errs.ErrCodePackageNotFound, "no crates found for package `%s`", query)
	case 1:
		return matches[0], nil
	default:
		specs := lo.Map(matches, func(i int, _ int) string { return g.Node(i).ID.Spec() })
		return -1, errs.New(errs.ErrCodeAmbiguousPackage,
			"multiple crates found for package `%s`: %s", query, strings.Join(specs, ", "))
	}
}

// SelectRoot returns the node to start the tree at: the match for query when
// it is not empty, otherwise the graph's designated root.
func SelectRoot(g *graph.Graph, query string) (int, error) {
	if query != "" {
		return FindPackage(g, query)
	}
	if root, ok := g.Root(); ok {
		return root, nil
	}
	if id := g.RootID(); id != "" {
		return -1, errs.New(errs.ErrCodeRootNotFound, "root package `%s` is missing from the metadata", id)
	}
	return -1, errs.New(errs.ErrCodeRootNotFound,
		"this command requires running against an actual package in this workspace")
}
