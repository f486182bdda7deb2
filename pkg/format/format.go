// Package format renders a single package as a one-line label.
//
// A [Pattern] is parsed once from a format string such as "{p} {l}" and then
// applied to every node the tree prints. Recognized placeholders:
//
//	{p}  package: "name vVERSION", followed by " (source)" for packages not
//	     from crates.io, or " (dir)" with the manifest directory for path
//	     packages
//	{l}  license, empty when unset
//	{r}  repository URL, empty when unset
//
// Literal braces are written "{{" and "}}". Any other placeholder, an
// unterminated "{" or a lone "}" is rejected with FORMAT_PATTERN so that no
// tree output is produced for a bad pattern.
package format

import (
	"path/filepath"
	"strings"

	errs "github.com/matzehuels/deptree/pkg/errors"
	"github.com/matzehuels/deptree/pkg/graph"
	"github.com/matzehuels/deptree/pkg/metadata"
)

// Default is the pattern used when none is given.
const Default = "{p}"

type chunkKind int

const (
	chunkText chunkKind = iota
	chunkPackage
	chunkLicense
	chunkRepository
)

type chunk struct {
	kind chunkKind
	text string
}

// Pattern is a parsed format string. It is immutable and safe for concurrent
// use.
type Pattern struct {
	source string
	chunks []chunk
}

// Parse compiles a format string.
func Parse(format string) (*Pattern, error) {
	p := &Pattern{source: format}
	var text strings.Builder

	flush := func() {
		if text.Len() > 0 {
			p.chunks = append(p.chunks, chunk{kind: chunkText, text: text.String()})
			text.Reset()
		}
	}

	for i := 0; i < len(format); i++ {
		c := format[i]
		switch {
		case c == '{' && strings.HasPrefix(format[i:], "{{"):
			text.WriteByte('{')
			i++
		case c == '}' && strings.HasPrefix(format[i:], "}}"):
			text.WriteByte('}')
			i++
		case c == '}':
			return nil, errs.New(errs.ErrCodeFormatPattern, "unexpected '}' at offset %d in pattern %q", i, format)
		case c == '{':
			end := strings.IndexByte(format[i+1:], '}')
			if end < 0 {
				return nil, errs.New(errs.ErrCodeFormatPattern, "unterminated '{' at offset %d in pattern %q", i, format)
			}
			arg := format[i+1 : i+1+end]
			kind, ok := argument(arg)
			if !ok {
				return nil, errs.New(errs.ErrCodeFormatPattern, "unsupported pattern `%s`", arg)
			}
			flush()
			p.chunks = append(p.chunks, chunk{kind: kind})
			i += end + 1
		default:
			text.WriteByte(c)
		}
	}
	flush()
	return p, nil
}

// MustParse is like Parse but panics on error. Intended for constants.
func MustParse(format string) *Pattern {
	p, err := Parse(format)
	if err != nil {
		panic(err)
	}
	return p
}

func argument(name string) (chunkKind, bool) {
	switch name {
	case "p":
		return chunkPackage, true
	case "l":
		return chunkLicense, true
	case "r":
		return chunkRepository, true
	}
	return 0, false
}

// String returns the pattern as it was written.
func (p *Pattern) String() string { return p.source }

// Display renders n according to the pattern.
func (p *Pattern) Display(n *graph.Node) string {
	var b strings.Builder
	for _, c := range p.chunks {
		switch c.kind {
		case chunkText:
			b.WriteString(c.text)
		case chunkPackage:
			b.WriteString(Package(n))
		case chunkLicense:
			b.WriteString(n.License)
		case chunkRepository:
			b.WriteString(n.Repository)
		}
	}
	return b.String()
}

// Package returns the {p} rendering of n.
func Package(n *graph.Node) string {
	s := n.ID.String()
	switch {
	case n.ID.Source == "":
		if n.ManifestPath != "" {
			s += " (" + filepath.Dir(n.ManifestPath) + ")"
		}
	case n.ID.Source != metadata.CratesIOSource:
		s += " (" + n.ID.Source + ")"
	}
	return s
}
