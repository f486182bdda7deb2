// Package pipeline provides the metadata → graph → tree pipeline for deptree.
//
// The CLI subcommands share this package so that option defaults, validation
// and logging behave the same for every output.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Metadata: obtain the resolved document from a [metadata.Provider]
//  2. Build: convert it into a [graph.Graph], pruned to the root package
//  3. Render: write one tree, or one tree per duplicated package
//
// Options are validated and the format pattern is parsed before the first
// stage runs, so a bad flag never produces partial output.
//
// # Usage
//
//	runner := pipeline.NewRunner(&metadata.Cargo{}, logger)
//	result, err := runner.Execute(ctx, os.Stdout, pipeline.Options{
//	    Package: "serde",
//	    Invert:  true,
//	})
//
// Build the graph only:
//
//	g, stats, err := runner.Load(ctx, opts)
//
// [metadata.Provider]: github.com/matzehuels/deptree/pkg/metadata.Provider
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	errs "github.com/matzehuels/deptree/pkg/errors"
	"github.com/matzehuels/deptree/pkg/format"
	"github.com/matzehuels/deptree/pkg/graph"
	"github.com/matzehuels/deptree/pkg/tree"
)

// =============================================================================
// Default Values
// =============================================================================

const (
	// DefaultCharset is the default connector charset.
	DefaultCharset = "utf8"

	// DefaultPrefix is the default line prefix style.
	DefaultPrefix = "indent"

	// DefaultFormat is the default node format pattern.
	DefaultFormat = format.Default
)

// Mode names reported to hooks and logs.
const (
	ModeTree       = "tree"
	ModeDuplicates = "duplicates"
)

// =============================================================================
// Options
// =============================================================================

// Options contains all configuration for one pipeline run.
type Options struct {
	// Root selection
	Package    string // "name" or "name:version"; empty selects the workspace root
	Duplicates bool   // one inverted tree per duplicated package

	// Graph options
	NoDevDependencies bool

	// Render options
	Invert   bool
	ShowAll  bool
	MaxDepth *int // nil means unlimited
	Charset  string
	Prefix   string
	Format   string

	// Choose picks one of several packages matching Package. When nil an
	// ambiguous query is an error.
	Choose Chooser

	// Runtime options
	Logger *log.Logger

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// Chooser selects one node among candidates, returned sorted by identity.
type Chooser func(g *graph.Graph, query string, candidates []int) (int, error)

// Result contains the outputs of a pipeline run.
type Result struct {
	// Graph is the pruned dependency graph.
	Graph *graph.Graph

	// Roots are the node indices trees were printed from.
	Roots []int

	// Stats contains timing and size information.
	Stats Stats
}

// Stats contains pipeline execution statistics.
type Stats struct {
	PackageCount int
	NodeCount    int
	EdgeCount    int
	Cycles       int
	MetadataTime time.Duration
	BuildTime    time.Duration
	RenderTime   time.Duration
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateCharset checks that a charset name is valid.
func ValidateCharset(charset string) error {
	_, err := tree.ParseCharset(charset)
	return err
}

// ValidatePrefix checks that a prefix style name is valid.
func ValidatePrefix(prefix string) error {
	_, err := tree.ParsePrefix(prefix)
	return err
}

// ValidateDepth checks that a depth limit is not negative.
func ValidateDepth(depth int) error {
	if depth < 0 {
		return errs.New(errs.ErrCodeInvalidInput, "invalid depth %d (must not be negative)", depth)
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks every field and applies defaults.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.Charset == "" {
		o.Charset = DefaultCharset
	}
	if o.Prefix == "" {
		o.Prefix = DefaultPrefix
	}
	if o.Format == "" {
		o.Format = DefaultFormat
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}

	if err := ValidateCharset(o.Charset); err != nil {
		return err
	}
	if err := ValidatePrefix(o.Prefix); err != nil {
		return err
	}
	if o.MaxDepth != nil {
		if err := ValidateDepth(*o.MaxDepth); err != nil {
			return err
		}
	}
	if o.Package != "" {
		if o.Duplicates {
			return errs.New(errs.ErrCodeInvalidInput, "--package cannot be combined with --duplicates")
		}
		if err := errs.ValidatePackageQuery(o.Package); err != nil {
			return err
		}
	}
	o.validated = true
	return nil
}

// Mode returns ModeDuplicates or ModeTree.
func (o *Options) Mode() string {
	if o.Duplicates {
		return ModeDuplicates
	}
	return ModeTree
}

// Direction returns the edge direction the tree follows. Duplicate reports
// are always inverted.
func (o *Options) Direction() graph.Direction {
	if o.Invert || o.Duplicates {
		return graph.Incoming
	}
	return graph.Outgoing
}

// TreeOptions converts the options for the tree package. Call
// ValidateAndSetDefaults first.
func (o *Options) TreeOptions() (tree.Options, error) {
	charset, err := tree.ParseCharset(o.Charset)
	if err != nil {
		return tree.Options{}, err
	}
	prefix, err := tree.ParsePrefix(o.Prefix)
	if err != nil {
		return tree.Options{}, err
	}

	opts := tree.DefaultOptions()
	opts.Direction = o.Direction()
	opts.ShowAll = o.ShowAll
	opts.Charset = charset
	opts.Prefix = prefix
	if o.MaxDepth != nil {
		opts.MaxDepth = *o.MaxDepth
	}
	return opts, nil
}

// BuildOptions converts the options for the graph package.
func (o *Options) BuildOptions() graph.BuildOptions {
	return graph.BuildOptions{NoDevDependencies: o.NoDevDependencies}
}
