package pipeline

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/samber/lo"

	errs "github.com/matzehuels/deptree/pkg/errors"
	"github.com/matzehuels/deptree/pkg/format"
	"github.com/matzehuels/deptree/pkg/graph"
	"github.com/matzehuels/deptree/pkg/metadata"
	"github.com/matzehuels/deptree/pkg/observability"
	"github.com/matzehuels/deptree/pkg/tree"
)

// Runner executes the pipeline against one metadata provider.
//
// The Runner holds no per-run state; the graph and output of a run are
// returned to the caller.
type Runner struct {
	Provider metadata.Provider
	Logger   *log.Logger
}

// NewRunner creates a runner reading metadata from provider.
// If logger is nil, log.Default() is used.
func NewRunner(provider metadata.Provider, logger *log.Logger) *Runner {
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Provider: provider, Logger: logger}
}

// Execute runs metadata → build → render, writing the tree to w.
func (r *Runner) Execute(ctx context.Context, w io.Writer, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	pattern, err := format.Parse(opts.Format)
	if err != nil {
		return nil, err
	}
	treeOpts, err := opts.TreeOptions()
	if err != nil {
		return nil, err
	}

	g, stats, err := r.Load(ctx, opts)
	if err != nil {
		return nil, err
	}
	result := &Result{Graph: g, Stats: stats}

	mode := opts.Mode()
	hooks := observability.Pipeline()
	hooks.OnRenderStart(ctx, mode)
	renderStart := time.Now()

	if opts.Duplicates {
		dups := graph.FindDuplicates(g)
		result.Roots = lo.Map(dups, func(id graph.PackageID, _ int) int {
			i, _ := g.Lookup(id.Repr)
			return i
		})
		if len(dups) == 0 {
			opts.Logger.Info("no duplicate packages")
		}
		err = tree.RenderDuplicates(w, g, dups, pattern, treeOpts)
	} else {
		var root int
		root, err = r.selectRoot(g, opts)
		if err == nil {
			result.Roots = []int{root}
			err = tree.Render(w, g, root, pattern, treeOpts)
		}
	}

	result.Stats.RenderTime = time.Since(renderStart)
	hooks.OnRenderComplete(ctx, mode, result.Stats.RenderTime, err)
	if err != nil {
		return nil, err
	}

	r.Logger.Debug("rendered tree",
		"mode", mode,
		"roots", len(result.Roots),
		"duration", result.Stats.RenderTime)
	return result, nil
}

// Load obtains the metadata and builds the graph.
func (r *Runner) Load(ctx context.Context, opts Options) (*graph.Graph, Stats, error) {
	var stats Stats
	if r.Provider == nil {
		return nil, stats, errs.New(errs.ErrCodeInternal, "no metadata provider")
	}
	if err := ctx.Err(); err != nil {
		return nil, stats, err
	}
	hooks := observability.Pipeline()
	name := r.Provider.Name()

	hooks.OnMetadataStart(ctx, name)
	start := time.Now()
	doc, err := r.Provider.Metadata(ctx)
	stats.MetadataTime = time.Since(start)
	if doc != nil {
		stats.PackageCount = len(doc.Packages)
	}
	hooks.OnMetadataComplete(ctx, name, stats.PackageCount, stats.MetadataTime, err)
	if err != nil {
		return nil, stats, err
	}
	r.Logger.Debug("loaded metadata",
		"provider", name,
		"packages", stats.PackageCount,
		"duration", stats.MetadataTime)

	start = time.Now()
	g, err := graph.Build(doc, opts.BuildOptions())
	stats.BuildTime = time.Since(start)
	if g != nil {
		stats.NodeCount, stats.EdgeCount = g.NodeCount(), g.EdgeCount()
	}
	hooks.OnBuildComplete(ctx, stats.NodeCount, stats.EdgeCount, stats.BuildTime, err)
	if err != nil {
		return nil, stats, err
	}
	r.Logger.Debug("built graph",
		"nodes", stats.NodeCount,
		"edges", stats.EdgeCount,
		"duration", stats.BuildTime)

	cycles, err := g.Cycles()
	if err != nil {
		return nil, stats, errs.Wrap(errs.ErrCodeInternal, err, "cycle check")
	}
	stats.Cycles = len(cycles)
	for _, c := range cycles {
		ids := lo.Map(c, func(i int, _ int) string { return g.Node(i).ID.String() })
		r.Logger.Warn("dependency cycle", "packages", strings.Join(ids, ", "))
	}
	return g, stats, nil
}

func (r *Runner) selectRoot(g *graph.Graph, opts Options) (int, error) {
	root, err := tree.SelectRoot(g, opts.Package)
	if err == nil || opts.Choose == nil || !errs.Is(err, errs.ErrCodeAmbiguousPackage) {
		return root, err
	}
	candidates, cerr := tree.Candidates(g, opts.Package)
	if cerr != nil {
		return -1, cerr
	}
	return opts.Choose(g, opts.Package, candidates)
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
