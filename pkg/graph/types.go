package graph

import (
	"cmp"
	"fmt"
	"strings"

	"github.com/hashicorp/go-version"

	"github.com/matzehuels/deptree/pkg/metadata"
)

// =============================================================================
// DependencyKind
// =============================================================================

// DependencyKind classifies why an edge exists.
type DependencyKind int

const (
	// NormalDep is a runtime dependency.
	NormalDep DependencyKind = iota
	// BuildDep is a build-script (build-time tool) dependency.
	BuildDep
	// DevDep is a test, example or benchmark dependency.
	DevDep
)

// Kinds lists every kind in render order.
var Kinds = []DependencyKind{NormalDep, BuildDep, DevDep}

// String returns the kind name used in dep_kinds entries ("normal" for the
// null tag).
func (k DependencyKind) String() string {
	switch k {
	case NormalDep:
		return "normal"
	case BuildDep:
		return metadata.KindBuild
	case DevDep:
		return metadata.KindDev
	default:
		return fmt.Sprintf("DependencyKind(%d)", int(k))
	}
}

// ParseKind converts a dep_kinds tag into a DependencyKind.
func ParseKind(tag string) (DependencyKind, error) {
	switch tag {
	case metadata.KindNormal, "normal":
		return NormalDep, nil
	case metadata.KindBuild:
		return BuildDep, nil
	case metadata.KindDev:
		return DevDep, nil
	default:
		return 0, fmt.Errorf("unknown dependency kind %q", tag)
	}
}

// =============================================================================
// PackageID
// =============================================================================

// PackageID identifies one resolved package. It is immutable; compare values
// with Equal or Compare rather than ==.
type PackageID struct {
	Name    string
	Version string
	Source  string // empty for path packages
	Repr    string // the resolver's opaque id

	semver *version.Version // nil when Version does not parse
}

// NewPackageID creates a PackageID, parsing the version for ordering.
func NewPackageID(repr, name, ver, source string) PackageID {
	id := PackageID{Name: name, Version: ver, Source: source, Repr: repr}
	if v, err := version.NewSemver(ver); err == nil {
		id.semver = v
	}
	return id
}

// Compare orders ids by name, semantic version, source and finally the opaque
// id string.
func (id PackageID) Compare(o PackageID) int {
	if c := strings.Compare(id.Name, o.Name); c != 0 {
		return c
	}
	if c := id.compareVersion(o); c != 0 {
		return c
	}
	if c := strings.Compare(id.Source, o.Source); c != 0 {
		return c
	}
	return strings.Compare(id.Repr, o.Repr)
}

// compareVersion orders semantic versions before unparsable ones. Semantic
// versions compare by precedence, ties and unparsable versions by text.
func (id PackageID) compareVersion(o PackageID) int {
	switch {
	case id.semver != nil && o.semver != nil:
		if c := id.semver.Compare(o.semver); c != 0 {
			return c
		}
	case id.semver != nil:
		return -1
	case o.semver != nil:
		return 1
	}
	return cmp.Compare(id.Version, o.Version)
}

// Equal reports whether both ids name the same package.
func (id PackageID) Equal(o PackageID) bool { return id.Compare(o) == 0 }

// Semver returns the parsed version, or nil if it is not a semantic version.
func (id PackageID) Semver() *version.Version { return id.semver }

// Spec returns the "name:version" form accepted by package queries.
func (id PackageID) Spec() string { return id.Name + ":" + id.Version }

// String returns "name vversion".
func (id PackageID) String() string { return id.Name + " v" + id.Version }

// =============================================================================
// Node, Edge, Neighbor
// =============================================================================

// Node is a package in the graph plus the metadata needed to format it.
type Node struct {
	ID           PackageID
	License      string
	LicenseFile  string
	Repository   string
	Description  string
	Authors      []string
	ManifestPath string

	// Depth is the breadth-first depth from the root at which the node was
	// first discovered, or -1 when the graph has no root.
	Depth int

	// Shared is set when the node has more than one distinct dependent.
	Shared bool
}

// Edge is a directed, kind-tagged dependency between two node indices.
type Edge struct {
	From int
	To   int
	Kind DependencyKind
}

// Neighbor is one entry of an adjacency list.
type Neighbor struct {
	Node int
	Kind DependencyKind
}

// Direction selects which endpoint of an edge is treated as the child.
type Direction int

const (
	// Outgoing follows edges from dependents to dependencies.
	Outgoing Direction = iota
	// Incoming follows edges from dependencies to dependents.
	Incoming
)

func (d Direction) String() string {
	if d == Incoming {
		return "incoming"
	}
	return "outgoing"
}
