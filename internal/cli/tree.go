package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	errs "github.com/matzehuels/deptree/pkg/errors"
	"github.com/matzehuels/deptree/pkg/metadata"
	"github.com/matzehuels/deptree/pkg/pipeline"
)

// sourceFlags selects where the resolved metadata comes from. They are shared
// by every command that loads a graph.
type sourceFlags struct {
	cargo        metadata.Options
	metadataFile string
}

func (s *sourceFlags) register(fs *pflag.FlagSet) {
	fs.StringVar(&s.cargo.ManifestPath, "manifest-path", "", "path to Cargo.toml")
	fs.StringVar(&s.cargo.Features, "features", "", "space-separated list of features to activate")
	fs.BoolVar(&s.cargo.AllFeatures, "all-features", false, "activate all available features")
	fs.BoolVar(&s.cargo.NoDefaultFeatures, "no-default-features", false, "do not activate the `default` feature")
	fs.StringVar(&s.cargo.Target, "target", "", "set the target triple (default: host)")
	fs.BoolVar(&s.cargo.AllTargets, "all-targets", false, "return dependencies for all targets")
	fs.BoolVar(&s.cargo.Frozen, "frozen", false, "require Cargo.lock and cache are up to date")
	fs.BoolVar(&s.cargo.Locked, "locked", false, "require Cargo.lock is up to date")
	fs.BoolVar(&s.cargo.Offline, "offline", false, "run without accessing the network")
	fs.StringArrayVarP(&s.cargo.UnstableFlags, "unstable", "Z", nil, "unstable (nightly-only) flags to cargo")
	fs.BoolVarP(&s.cargo.Quiet, "quiet", "q", false, "no output printed to stderr by cargo")
	fs.StringVar(&s.cargo.Color, "color", "", "cargo coloring: auto, always, never")
	fs.StringVar(&s.metadataFile, "metadata-file", "", "read `cargo metadata` output from a file (- for stdin)")
}

func (s *sourceFlags) validate() error {
	if s.metadataFile != "" && s.cargo.ManifestPath != "" {
		return errs.New(errs.ErrCodeInvalidInput, "--metadata-file cannot be combined with --manifest-path")
	}
	switch s.cargo.Color {
	case "", "auto", "always", "never":
		return nil
	}
	return errs.New(errs.ErrCodeInvalidInput, "invalid color %q (must be auto, always or never)", s.cargo.Color)
}

// treeFlags holds the flags of the tree command.
type treeFlags struct {
	source      sourceFlags
	pkg         string
	invert      bool
	duplicates  bool
	all         bool
	noDev       bool
	depth       int
	charset     string
	prefix      string
	noIndent    bool
	prefixDepth bool
	format      string
	interactive bool
}

// treeCommand creates the command that prints the dependency tree. It is used
// as the root command.
func (c *CLI) treeCommand() *cobra.Command {
	flags := treeFlags{}

	cmd := &cobra.Command{
		Short: "Display a tree visualization of a dependency graph",
		Long: `Display a tree visualization of a Cargo dependency graph.

The tree starts at the workspace root package, or at --package. Packages
that were already printed are marked (*) and not expanded again unless
--all is given. Build and dev dependencies are listed under their own
headers.

Metadata is obtained by running cargo metadata, or read from a file
captured earlier with --metadata-file.`,
		Example: `  # Tree for the package in the current directory
  deptree

  # Which packages depend on log 0.4.8?
  deptree --invert --package log:0.4.8

  # Packages that appear in more than one version
  deptree --duplicates

  # Flat list with depths and licenses
  deptree --prefix depth --format "{p} {l}"`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runTree(cmd, flags)
		},
	}

	fs := cmd.Flags()
	fs.StringVarP(&flags.pkg, "package", "p", "", "package to be used as the root of the tree (name or name:version)")
	fs.BoolVarP(&flags.invert, "invert", "i", false, "invert the tree direction")
	fs.BoolVarP(&flags.duplicates, "duplicates", "d", false, "show only packages that appear in more than one version")
	fs.BoolVarP(&flags.all, "all", "a", false, "display all dependencies, even if they were already printed")
	fs.BoolVar(&flags.noDev, "no-dev-dependencies", false, "skip dev dependencies")
	fs.IntVar(&flags.depth, "depth", 0, "maximum display depth (unlimited when not given)")
	fs.StringVar(&flags.charset, "charset", pipeline.DefaultCharset, "character set for connectors: utf8, ascii")
	fs.StringVar(&flags.prefix, "prefix", pipeline.DefaultPrefix, "line prefix: indent, depth, none")
	fs.BoolVar(&flags.noIndent, "no-indent", false, "display the tree without indentation (same as --prefix none)")
	fs.BoolVar(&flags.prefixDepth, "prefix-depth", false, "display the depth before each line (same as --prefix depth)")
	fs.StringVarP(&flags.format, "format", "f", pipeline.DefaultFormat, "format string for each package: {p} package, {l} license, {r} repository")
	fs.BoolVar(&flags.interactive, "interactive", false, "pick a version when --package matches several")
	cmd.MarkFlagsMutuallyExclusive("prefix", "no-indent", "prefix-depth")
	cmd.MarkFlagsMutuallyExclusive("package", "duplicates")
	flags.source.register(fs)
	registerTreeCompletions(cmd)

	return cmd
}

func (c *CLI) runTree(cmd *cobra.Command, flags treeFlags) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)

	if err := flags.source.validate(); err != nil {
		return err
	}

	opts, err := c.treeOptions(cmd, flags)
	if err != nil {
		return err
	}
	if flags.interactive {
		if !c.Interactive {
			return errs.New(errs.ErrCodeInvalidInput, "--interactive requires a terminal")
		}
		opts.Choose = c.choosePackage
	}

	prog := newProgress(logger)
	result, err := c.newRunner(&flags.source).Execute(ctx, cmd.OutOrStdout(), opts)
	if err != nil {
		return err
	}
	logger.Debug("done",
		"packages", result.Stats.PackageCount,
		"nodes", result.Stats.NodeCount,
		"edges", result.Stats.EdgeCount)
	if c.verbose > 0 {
		prog.done("printed " + plural(len(result.Roots), "tree"))
	}
	return nil
}

// treeOptions merges the config file and the command line. Explicit flags win.
func (c *CLI) treeOptions(cmd *cobra.Command, flags treeFlags) (pipeline.Options, error) {
	opts := pipeline.Options{
		Package:           flags.pkg,
		Duplicates:        flags.duplicates,
		NoDevDependencies: flags.noDev,
		Invert:            flags.invert,
		ShowAll:           flags.all,
		Charset:           flags.charset,
		Prefix:            flags.prefix,
		Format:            flags.format,
		Logger:            c.Logger,
	}
	switch {
	case flags.noIndent:
		opts.Prefix = "none"
	case flags.prefixDepth:
		opts.Prefix = "depth"
	}
	changed := cmd.Flags().Changed
	if changed("depth") {
		depth := flags.depth
		opts.MaxDepth = &depth
	}

	cfg, err := c.loadConfig()
	if err != nil {
		return opts, err
	}
	if cfg.Path != "" {
		c.Logger.Debug("loaded config", "path", cfg.Path)
	}
	cfg.Apply(&opts, changed)

	if err := opts.ValidateAndSetDefaults(); err != nil {
		return opts, err
	}
	return opts, nil
}

func plural(n int, word string) string {
	if n == 1 {
		return "1 " + word
	}
	return fmt.Sprintf("%d %ss", n, word)
}
