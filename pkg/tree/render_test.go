package tree

import (
	"bytes"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	errs "github.com/matzehuels/deptree/pkg/errors"
	"github.com/matzehuels/deptree/pkg/format"
	"github.com/matzehuels/deptree/pkg/graph"
)

func withOpts(f func(*Options)) Options {
	o := DefaultOptions()
	f(&o)
	return o
}

func TestRenderFixture(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		root string
		want string
	}{
		{
			name: "default",
			opts: DefaultOptions(),
			want: lines(
				"app v0.1.0 (/src/app)",
				"├── log v0.4.8",
				"├── rand_core v0.6.0",
				"└── serde v1.0.100",
				"    └── serde_derive v1.0.100",
				"[build-dependencies]",
				"├── cc v1.0.50",
				"└── log v0.4.8 (*)",
				"[dev-dependencies]",
				"└── rand v0.7.3",
				"    ├── log v0.4.8 (*)",
				"    └── rand_core v0.5.1",
			),
		},
		{
			name: "ascii",
			opts: withOpts(func(o *Options) { o.Charset = ASCII }),
			want: lines(
				"app v0.1.0 (/src/app)",
				"|-- log v0.4.8",
				"|-- rand_core v0.6.0",
				"`-- serde v1.0.100",
				"    `-- serde_derive v1.0.100",
				"[build-dependencies]",
				"|-- cc v1.0.50",
				"`-- log v0.4.8 (*)",
				"[dev-dependencies]",
				"`-- rand v0.7.3",
				"    |-- log v0.4.8 (*)",
				"    `-- rand_core v0.5.1",
			),
		},
		{
			name: "depth prefix",
			opts: withOpts(func(o *Options) { o.Prefix = PrefixDepth }),
			want: lines(
				"0 app v0.1.0 (/src/app)",
				"1 log v0.4.8",
				"1 rand_core v0.6.0",
				"1 serde v1.0.100",
				"2 serde_derive v1.0.100",
				"1 cc v1.0.50",
				"1 log v0.4.8 (*)",
				"1 rand v0.7.3",
				"2 log v0.4.8 (*)",
				"2 rand_core v0.5.1",
			),
		},
		{
			name: "no prefix",
			opts: withOpts(func(o *Options) { o.Prefix = PrefixNone }),
			want: lines(
				"app v0.1.0 (/src/app)",
				"log v0.4.8",
				"rand_core v0.6.0",
				"serde v1.0.100",
				"serde_derive v1.0.100",
				"cc v1.0.50",
				"log v0.4.8 (*)",
				"rand v0.7.3",
				"log v0.4.8 (*)",
				"rand_core v0.5.1",
			),
		},
		{
			name: "show all",
			opts: withOpts(func(o *Options) { o.ShowAll = true }),
			want: lines(
				"app v0.1.0 (/src/app)",
				"├── log v0.4.8",
				"├── rand_core v0.6.0",
				"└── serde v1.0.100",
				"    └── serde_derive v1.0.100",
				"[build-dependencies]",
				"├── cc v1.0.50",
				"└── log v0.4.8",
				"[dev-dependencies]",
				"└── rand v0.7.3",
				"    ├── log v0.4.8",
				"    └── rand_core v0.5.1",
			),
		},
		{
			name: "depth limit prints leaves without marker",
			opts: withOpts(func(o *Options) { o.MaxDepth = 1 }),
			want: lines(
				"app v0.1.0 (/src/app)",
				"├── log v0.4.8",
				"├── rand_core v0.6.0",
				"└── serde v1.0.100",
				"[build-dependencies]",
				"├── cc v1.0.50",
				"└── log v0.4.8",
				"[dev-dependencies]",
				"└── rand v0.7.3",
			),
		},
		{
			name: "inverted",
			opts: withOpts(func(o *Options) { o.Direction = graph.Incoming }),
			root: "log",
			want: lines(
				"log v0.4.8",
				"├── app v0.1.0 (/src/app)",
				"└── rand v0.7.3",
				"    [dev-dependencies]",
				"    └── app v0.1.0 (/src/app) (*)",
				"[build-dependencies]",
				"└── app v0.1.0 (/src/app) (*)",
			),
		},
		{
			name: "package query",
			opts: DefaultOptions(),
			root: "serde:1.0.100",
			want: lines(
				"serde v1.0.100",
				"└── serde_derive v1.0.100",
			),
		},
	}

	g := fixtureGraph(t, graph.BuildOptions{})
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := render(t, g, tt.root, tt.opts)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Render() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestRenderNoDevDependencies(t *testing.T) {
	g := fixtureGraph(t, graph.BuildOptions{NoDevDependencies: true})
	want := lines(
		"app v0.1.0 (/src/app)",
		"├── log v0.4.8",
		"├── rand_core v0.6.0",
		"└── serde v1.0.100",
		"    └── serde_derive v1.0.100",
		"[build-dependencies]",
		"├── cc v1.0.50",
		"└── log v0.4.8 (*)",
	)
	if diff := cmp.Diff(want, render(t, g, "", DefaultOptions())); diff != "" {
		t.Errorf("Render() mismatch (-want +got):\n%s", diff)
	}
}

func TestRenderDepthZero(t *testing.T) {
	g := fixtureGraph(t, graph.BuildOptions{})
	for _, showAll := range []bool{false, true} {
		for _, prefix := range []Prefix{PrefixIndent, PrefixNone, PrefixDepth} {
			opts := Options{MaxDepth: 0, ShowAll: showAll, Prefix: prefix}
			got := render(t, g, "", opts)
			want := "app v0.1.0 (/src/app)\n"
			if prefix == PrefixDepth {
				want = "0 " + want
			}
			assert.Equal(t, want, got, "showAll=%v prefix=%s", showAll, prefix)
		}
	}
}

func TestRenderDiamond(t *testing.T) {
	g := buildGraph(t, []string{"a", "b", "c", "d"},
		dep("a", "b"), dep("a", "c"), dep("b", "d"), dep("c", "d"))

	want := lines(
		"a v1.0.0",
		"├── b v1.0.0",
		"│   └── d v1.0.0",
		"└── c v1.0.0",
		"    └── d v1.0.0 (*)",
	)
	if diff := cmp.Diff(want, render(t, g, "", DefaultOptions())); diff != "" {
		t.Errorf("Render() mismatch (-want +got):\n%s", diff)
	}
}

func TestRenderCycles(t *testing.T) {
	tests := []struct {
		name  string
		pkgs  []string
		edges []edge
		want  string
	}{
		{
			name:  "two node cycle",
			pkgs:  []string{"a", "b"},
			edges: []edge{dep("a", "b"), dep("b", "a")},
			want: lines(
				"a v1.0.0",
				"└── b v1.0.0",
				"    └── a v1.0.0 (*)",
			),
		},
		{
			name:  "self loop",
			pkgs:  []string{"a"},
			edges: []edge{dep("a", "a")},
			want: lines(
				"a v1.0.0",
				"└── a v1.0.0 (*)",
			),
		},
		{
			name:  "cycle reachable by two paths",
			pkgs:  []string{"a", "b", "c"},
			edges: []edge{dep("a", "b"), dep("a", "c"), dep("b", "c"), dep("c", "b")},
			want: lines(
				"a v1.0.0",
				"├── b v1.0.0",
				"│   └── c v1.0.0",
				"│       └── b v1.0.0 (*)",
				"└── c v1.0.0",
				"    └── b v1.0.0",
				"        └── c v1.0.0 (*)",
			),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := buildGraph(t, tt.pkgs, tt.edges...)
			opts := withOpts(func(o *Options) { o.ShowAll = true })
			if diff := cmp.Diff(tt.want, render(t, g, "", opts)); diff != "" {
				t.Errorf("Render() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestRenderKindsStaySeparate(t *testing.T) {
	g := buildGraph(t, []string{"a", "c"}, dep("a", "c", "", "build"))

	want := lines(
		"a v1.0.0",
		"└── c v1.0.0",
		"[build-dependencies]",
		"└── c v1.0.0 (*)",
	)
	if diff := cmp.Diff(want, render(t, g, "", DefaultOptions())); diff != "" {
		t.Errorf("Render() mismatch (-want +got):\n%s", diff)
	}
}

func TestRenderInversion(t *testing.T) {
	g := buildGraph(t, []string{"a", "b"}, dep("a", "b"))

	opts := withOpts(func(o *Options) { o.Direction = graph.Incoming })
	assert.Equal(t, lines("b v1.0.0", "└── a v1.0.0"), render(t, g, "b", opts))
	assert.Equal(t, lines("a v1.0.0"), render(t, g, "a", opts))
}

func TestRenderDepthLimitDoesNotMarkPrinted(t *testing.T) {
	// x is first reached at the limit under a, then again at depth 1 where it
	// must still be expanded.
	g := buildGraph(t, []string{"r", "a", "x", "y"},
		dep("r", "a"), dep("a", "x"), dep("r", "x"), dep("x", "y"))

	limited := withOpts(func(o *Options) { o.MaxDepth = 2 })
	want := lines(
		"r v1.0.0",
		"├── a v1.0.0",
		"│   └── x v1.0.0",
		"└── x v1.0.0",
		"    └── y v1.0.0",
	)
	if diff := cmp.Diff(want, render(t, g, "", limited)); diff != "" {
		t.Errorf("limited Render() mismatch (-want +got):\n%s", diff)
	}

	want = lines(
		"r v1.0.0",
		"├── a v1.0.0",
		"│   └── x v1.0.0",
		"│       └── y v1.0.0",
		"└── x v1.0.0 (*)",
	)
	if diff := cmp.Diff(want, render(t, g, "", DefaultOptions())); diff != "" {
		t.Errorf("unlimited Render() mismatch (-want +got):\n%s", diff)
	}
}

func TestRenderIdempotent(t *testing.T) {
	g := fixtureGraph(t, graph.BuildOptions{})
	for _, opts := range []Options{
		DefaultOptions(),
		withOpts(func(o *Options) { o.ShowAll = true; o.Direction = graph.Incoming }),
	} {
		root := ""
		if opts.Direction == graph.Incoming {
			root = "log"
		}
		assert.Equal(t, render(t, g, root, opts), render(t, g, root, opts))
	}
}

func TestRenderDuplicates(t *testing.T) {
	g := fixtureGraph(t, graph.BuildOptions{})
	opts := withOpts(func(o *Options) { o.Direction = graph.Incoming })

	var buf bytes.Buffer
	err := RenderDuplicates(&buf, g, graph.FindDuplicates(g), format.MustParse(format.Default), opts)
	require.NoError(t, err)

	want := lines(
		"rand_core v0.5.1",
		"└── rand v0.7.3",
		"    [dev-dependencies]",
		"    └── app v0.1.0 (/src/app)",
		"",
		"rand_core v0.6.0",
		"└── app v0.1.0 (/src/app)",
	)
	if diff := cmp.Diff(want, buf.String()); diff != "" {
		t.Errorf("RenderDuplicates() mismatch (-want +got):\n%s", diff)
	}
}

func TestRenderDuplicatesEmpty(t *testing.T) {
	g := fixtureGraph(t, graph.BuildOptions{NoDevDependencies: true})
	var buf bytes.Buffer
	require.NoError(t, RenderDuplicates(&buf, g, graph.FindDuplicates(g), format.MustParse(format.Default), DefaultOptions()))
	assert.Empty(t, buf.String())
}

func TestRenderFormatPattern(t *testing.T) {
	g := fixtureGraph(t, graph.BuildOptions{})
	root, err := SelectRoot(g, "serde")
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, Render(&buf, g, root, format.MustParse("{p} {l}"), DefaultOptions()))
	assert.Equal(t, lines(
		"serde v1.0.100 MIT OR Apache-2.0",
		"└── serde_derive v1.0.100 MIT OR Apache-2.0",
	), buf.String())
}

func TestRenderValidatesBeforeWriting(t *testing.T) {
	g := fixtureGraph(t, graph.BuildOptions{})
	pattern := format.MustParse(format.Default)

	tests := []struct {
		name    string
		root    int
		pattern *format.Pattern
		opts    Options
		code    errs.Code
	}{
		{"root out of range", g.NodeCount(), pattern, DefaultOptions(), errs.ErrCodeRootNotFound},
		{"negative root", -1, pattern, DefaultOptions(), errs.ErrCodeRootNotFound},
		{"bad prefix", 0, pattern, Options{Prefix: 7}, errs.ErrCodeInvalidInput},
		{"bad charset", 0, pattern, Options{Charset: 3}, errs.ErrCodeInvalidInput},
		{"bad direction", 0, pattern, Options{Direction: 5}, errs.ErrCodeInvalidInput},
		{"no pattern", 0, nil, DefaultOptions(), errs.ErrCodeFormatPattern},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			err := Render(&buf, g, tt.root, tt.pattern, tt.opts)
			require.Error(t, err)
			assert.True(t, errs.Is(err, tt.code), "code = %s", errs.GetCode(err))
			assert.Zero(t, buf.Len())
		})
	}
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestRenderWriteError(t *testing.T) {
	g := fixtureGraph(t, graph.BuildOptions{})
	root, _ := g.Root()
	err := Render(failingWriter{}, g, root, format.MustParse(format.Default), DefaultOptions())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
}

func TestParseOptions(t *testing.T) {
	for _, name := range []string{"indent", "none", "depth"} {
		p, err := ParsePrefix(name)
		require.NoError(t, err)
		assert.Equal(t, name, p.String())
	}
	_, err := ParsePrefix("tabs")
	assert.True(t, errs.Is(err, errs.ErrCodeInvalidInput))

	for _, name := range []string{"utf8", "ascii"} {
		c, err := ParseCharset(name)
		require.NoError(t, err)
		assert.Equal(t, name, c.String())
	}
	_, err = ParseCharset("ebcdic")
	assert.True(t, errs.Is(err, errs.ErrCodeInvalidInput))
}
