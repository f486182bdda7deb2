package metadata

// Dependency kind tags as they appear in dep_kinds entries. The normal kind is
// encoded as a JSON null and decodes to the empty string.
const (
	KindNormal = ""
	KindDev    = "dev"
	KindBuild  = "build"
)

// CratesIOSource is the source string of packages fetched from crates.io.
const CratesIOSource = "registry+https://github.com/rust-lang/crates.io-index"

// Document is the resolved dependency document.
type Document struct {
	Packages         []Package `json:"packages"`
	WorkspaceMembers []string  `json:"workspace_members"`
	Resolve          *Resolve  `json:"resolve"`
	WorkspaceRoot    string    `json:"workspace_root"`
	Version          int       `json:"version"`
}

// Package describes one resolved package.
type Package struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Version      string   `json:"version"`
	Source       string   `json:"source"` // empty for path packages
	Authors      []string `json:"authors"`
	Description  string   `json:"description"`
	License      string   `json:"license"`
	LicenseFile  string   `json:"license_file"`
	Repository   string   `json:"repository"`
	ManifestPath string   `json:"manifest_path"`
}

// Resolve is the dependency-edge section of the document.
type Resolve struct {
	Nodes []Node `json:"nodes"`
	Root  string `json:"root"` // empty for virtual workspaces
}

// Node lists the outgoing edges of one package.
//
// Dependencies holds the bare target ids; Deps holds the same edges with
// their kind tags. Resolvers too old to report kinds fill only Dependencies.
type Node struct {
	ID           string   `json:"id"`
	Dependencies []string `json:"dependencies"`
	Deps         []Dep    `json:"deps"`
}

// Dep is a single dependency edge with the kinds that justify it.
type Dep struct {
	Name     string    `json:"name"`
	Pkg      string    `json:"pkg"`
	DepKinds []DepKind `json:"dep_kinds"`
}

// DepKind is one (kind, target) reason for an edge.
type DepKind struct {
	Kind   string `json:"kind"`
	Target string `json:"target"`
}

// Package returns the package with the given id.
func (d *Document) Package(id string) (*Package, bool) {
	for i := range d.Packages {
		if d.Packages[i].ID == id {
			return &d.Packages[i], true
		}
	}
	return nil, false
}
