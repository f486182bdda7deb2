package cli

import (
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	errs "github.com/matzehuels/deptree/pkg/errors"
	"github.com/matzehuels/deptree/pkg/format"
	"github.com/matzehuels/deptree/pkg/pipeline"
	"github.com/matzehuels/deptree/pkg/render/nodelink"
)

// dotFlags holds the flags of the dot command.
type dotFlags struct {
	source   sourceFlags
	noDev    bool
	format   string
	detailed bool
	svg      bool
	output   string
}

// dotCommand creates the command that exports the pruned graph for Graphviz.
func (c *CLI) dotCommand() *cobra.Command {
	flags := dotFlags{}

	cmd := &cobra.Command{
		Use:   "dot",
		Short: "Export the dependency graph in Graphviz DOT format",
		Long: `Export the dependency graph in Graphviz DOT format.

The graph holds every package reachable from the workspace root. Edges are
labeled with their dependency kind. With --svg the graph is laid out with
Graphviz and written as SVG.`,
		Example: `  deptree dot -o deps.dot
  deptree dot --svg --detailed -o deps.svg`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runDot(cmd, flags)
		},
	}

	fs := cmd.Flags()
	fs.BoolVar(&flags.noDev, "no-dev-dependencies", false, "skip dev dependencies")
	fs.StringVarP(&flags.format, "format", "f", pipeline.DefaultFormat, "format string for node labels")
	fs.BoolVar(&flags.detailed, "detailed", false, "add license and depth to labels and shade shared packages")
	fs.BoolVar(&flags.svg, "svg", false, "render SVG instead of DOT")
	fs.StringVarP(&flags.output, "output", "o", "", "output file (stdout if empty)")
	flags.source.register(fs)

	return cmd
}

func (c *CLI) runDot(cmd *cobra.Command, flags dotFlags) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)

	if err := flags.source.validate(); err != nil {
		return err
	}
	pattern, err := format.Parse(flags.format)
	if err != nil {
		return err
	}

	opts := pipeline.Options{NoDevDependencies: flags.noDev, Logger: c.Logger}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return err
	}
	g, stats, err := c.newRunner(&flags.source).Load(ctx, opts)
	if err != nil {
		return err
	}
	logger.Debug("loaded graph", "nodes", stats.NodeCount, "edges", stats.EdgeCount)

	dot := nodelink.ToDOT(g, nodelink.Options{Pattern: pattern, Detailed: flags.detailed})
	data := []byte(dot)
	if flags.svg {
		prog := newProgress(logger)
		data, err = nodelink.RenderSVG(ctx, dot)
		if err != nil {
			return errs.Wrap(errs.ErrCodeInternal, err, "render svg")
		}
		prog.done("rendered svg")
	}

	if flags.output == "" {
		_, err = cmd.OutOrStdout().Write(data)
		return err
	}
	if err := afero.WriteFile(c.Fs, flags.output, data, 0o644); err != nil {
		return err
	}
	printFile(cmd.ErrOrStderr(), flags.output)
	return nil
}
