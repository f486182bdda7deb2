package graph

import (
	"slices"

	"github.com/samber/lo"
)

// FindDuplicates returns the identities of every package whose name occurs
// with more than one identity in g, sorted by full identity.
func FindDuplicates(g *Graph) []PackageID {
	byName := lo.GroupBy(g.nodes, func(n Node) string { return n.ID.Name })

	var dups []PackageID
	for _, group := range byName {
		if len(group) < 2 {
			continue
		}
		for _, n := range group {
			dups = append(dups, n.ID)
		}
	}
	slices.SortFunc(dups, PackageID.Compare)
	return dups
}
