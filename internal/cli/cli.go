// Package cli implements the deptree command-line interface.
//
// The root command prints the dependency tree of a Cargo package. The dot
// and json subcommands export the same graph, and completion generates
// shell completion scripts. The CLI is built using cobra and supports verbose
// logging via the charmbracelet/log library.
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Logs go to
// stderr; the tree itself is the only thing written to stdout. Loggers are
// passed through context.Context.
package cli

import (
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/matzehuels/deptree/internal/config"
	"github.com/matzehuels/deptree/pkg/buildinfo"
	"github.com/matzehuels/deptree/pkg/metadata"
	"github.com/matzehuels/deptree/pkg/observability"
	"github.com/matzehuels/deptree/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "deptree"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// Fs is used for config and metadata files and for -o output.
	Fs afero.Fs

	// Stdin feeds --metadata-file - and the interactive picker.
	Stdin io.Reader

	// Stderr receives cargo's diagnostics and status output.
	Stderr io.Writer

	// Interactive reports whether prompts and the spinner may be shown.
	Interactive bool

	verbose    int
	configPath string
}

// New creates a new CLI instance with a logger writing to w.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger:      newLogger(w, level),
		Fs:          afero.NewOsFs(),
		Stdin:       os.Stdin,
		Stderr:      w,
		Interactive: isTerminal(os.Stdin) && isTerminal(w),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
// The root command itself prints the tree.
func (c *CLI) RootCommand() *cobra.Command {
	root := c.treeCommand()
	root.Use = appName
	root.Version = buildinfo.Version
	root.SilenceUsage = true
	root.SilenceErrors = true
	root.SetVersionTemplate(buildinfo.Template())

	root.PersistentFlags().CountVarP(&c.verbose, "verbose", "v", "verbose logging (repeat to pass -v to cargo)")
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/deptree/config.toml)")
	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		level := LogInfo
		if c.verbose > 0 {
			level = LogDebug
		}
		c.SetLogLevel(level)

		hooks := &cliHooks{logger: c.Logger}
		if c.Interactive {
			hooks.stderr = c.Stderr
		}
		observability.SetPipelineHooks(hooks)
		observability.SetCommandHooks(hooks)

		cmd.SetContext(withLogger(cmd.Context(), c.Logger))
		return nil
	}

	root.AddCommand(c.dotCommand())
	root.AddCommand(c.jsonCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(src *sourceFlags) *pipeline.Runner {
	return pipeline.NewRunner(c.provider(src), c.Logger)
}

func (c *CLI) provider(src *sourceFlags) metadata.Provider {
	if src.metadataFile != "" {
		return &metadata.File{Fs: c.Fs, Path: src.metadataFile, Stdin: c.Stdin}
	}
	opts := src.cargo
	opts.Verbose = max(c.verbose-1, 0)
	return &metadata.Cargo{Options: opts, Stderr: c.Stderr, Logger: c.Logger}
}

// loadConfig reads the config file named by --config, or the default one.
func (c *CLI) loadConfig() (*config.Config, error) {
	if c.configPath != "" {
		return config.Load(c.Fs, c.configPath, true)
	}
	return config.Load(c.Fs, config.DefaultPath(), false)
}
