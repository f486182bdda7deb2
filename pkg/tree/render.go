package tree

import (
	"bufio"
	"io"
	"slices"
	"strconv"

	errs "github.com/matzehuels/deptree/pkg/errors"
	"github.com/matzehuels/deptree/pkg/format"
	"github.com/matzehuels/deptree/pkg/graph"
)

// Marker is appended to packages that are not expanded because they were
// already printed.
const Marker = " (*)"

var groupHeaders = map[graph.DependencyKind]string{
	graph.BuildDep: "[build-dependencies]",
	graph.DevDep:   "[dev-dependencies]",
}

// Render writes the tree rooted at node index root to w.
//
// Options and root are checked before anything is written. Lines are
// streamed through a bufio.Writer as the walk proceeds; a write error is
// reported by the final flush.
func Render(w io.Writer, g *graph.Graph, root int, pattern *format.Pattern, opts Options) error {
	if err := check(g, pattern, opts); err != nil {
		return err
	}
	if root < 0 || root >= g.NodeCount() {
		return errs.New(errs.ErrCodeRootNotFound, "root index %d is not in the graph", root)
	}

	bw := bufio.NewWriter(w)
	newWalker(bw, g, pattern, opts).visit(root)
	return bw.Flush()
}

// RenderDuplicates writes one tree per package in roots, separated by a blank
// line. Each tree starts with an empty printed set.
func RenderDuplicates(w io.Writer, g *graph.Graph, roots []graph.PackageID, pattern *format.Pattern, opts Options) error {
	if err := check(g, pattern, opts); err != nil {
		return err
	}
	idx := make([]int, len(roots))
	for i, id := range roots {
		n, ok := g.Lookup(id.Repr)
		if !ok {
			return errs.New(errs.ErrCodePackageNotFound, "package `%s` is not in the graph", id.Repr)
		}
		idx[i] = n
	}

	bw := bufio.NewWriter(w)
	for i, root := range idx {
		if i > 0 {
			bw.WriteString("\n")
		}
		newWalker(bw, g, pattern, opts).visit(root)
	}
	return bw.Flush()
}

func check(g *graph.Graph, pattern *format.Pattern, opts Options) error {
	if g == nil {
		return errs.New(errs.ErrCodeInternal, "nil graph")
	}
	if pattern == nil {
		return errs.New(errs.ErrCodeFormatPattern, "no format pattern")
	}
	return opts.validate()
}

// walker holds the state of one traversal.
type walker struct {
	w       *bufio.Writer
	g       *graph.Graph
	pattern *format.Pattern
	opts    Options
	sym     Symbols

	printed []bool // expanded at least once in this traversal
	onPath  []bool // ancestors of the current node, including itself
	levels  []bool // per ancestor level: more siblings follow
}

func newWalker(w *bufio.Writer, g *graph.Graph, pattern *format.Pattern, opts Options) *walker {
	return &walker{
		w:       w,
		g:       g,
		pattern: pattern,
		opts:    opts,
		sym:     opts.Charset.Symbols(),
		printed: make([]bool, g.NodeCount()),
		onPath:  make([]bool, g.NodeCount()),
	}
}

func (t *walker) visit(n int) {
	depth := len(t.levels)

	if t.opts.MaxDepth >= 0 && depth >= t.opts.MaxDepth {
		t.line(n, false)
		return
	}
	if (!t.opts.ShowAll && t.printed[n]) || t.onPath[n] {
		t.line(n, true)
		return
	}

	t.printed[n] = true
	t.line(n, false)

	t.onPath[n] = true
	for _, kind := range graph.Kinds {
		t.group(n, kind)
	}
	t.onPath[n] = false
}

func (t *walker) group(n int, kind graph.DependencyKind) {
	var children []int
	for _, nb := range t.g.Neighbors(n, t.opts.Direction) {
		if nb.Kind == kind {
			children = append(children, nb.Node)
		}
	}
	if len(children) == 0 {
		return
	}
	slices.SortFunc(children, func(a, b int) int {
		return t.g.Node(a).ID.Compare(t.g.Node(b).ID)
	})

	if header, ok := groupHeaders[kind]; ok && t.opts.Prefix == PrefixIndent {
		for _, more := range t.levels {
			t.continuation(more)
		}
		t.w.WriteString(header)
		t.w.WriteString("\n")
	}

	for i, c := range children {
		t.levels = append(t.levels, i < len(children)-1)
		t.visit(c)
		t.levels = t.levels[:len(t.levels)-1]
	}
}

func (t *walker) line(n int, marked bool) {
	switch t.opts.Prefix {
	case PrefixDepth:
		t.w.WriteString(strconv.Itoa(len(t.levels)))
		t.w.WriteString(" ")
	case PrefixIndent:
		if last := len(t.levels) - 1; last >= 0 {
			for _, more := range t.levels[:last] {
				t.continuation(more)
			}
			branch := t.sym.Ell
			if t.levels[last] {
				branch = t.sym.Tee
			}
			t.w.WriteString(branch + t.sym.Right + t.sym.Right + " ")
		}
	}

	t.w.WriteString(t.pattern.Display(t.g.Node(n)))
	if marked {
		t.w.WriteString(Marker)
	}
	t.w.WriteString("\n")
}

func (t *walker) continuation(more bool) {
	if more {
		t.w.WriteString(t.sym.Down + "   ")
	} else {
		t.w.WriteString("    ")
	}
}
