package cli

import (
	"bytes"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	graphio "github.com/matzehuels/deptree/pkg/io"
	"github.com/matzehuels/deptree/pkg/pipeline"
)

// jsonCommand creates the command that exports the pruned graph as JSON.
func (c *CLI) jsonCommand() *cobra.Command {
	var (
		source sourceFlags
		noDev  bool
		output string
	)

	cmd := &cobra.Command{
		Use:   "json",
		Short: "Export the dependency graph as JSON",
		Long: `Export the dependency graph as JSON.

The document lists every package reachable from the workspace root with its
depth, and every dependency edge with its kind.`,
		Example: `  deptree json | jq '.nodes[] | select(.shared) | .name'`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := source.validate(); err != nil {
				return err
			}
			opts := pipeline.Options{NoDevDependencies: noDev, Logger: c.Logger}
			if err := opts.ValidateAndSetDefaults(); err != nil {
				return err
			}
			g, _, err := c.newRunner(&source).Load(cmd.Context(), opts)
			if err != nil {
				return err
			}

			if output == "" {
				return graphio.WriteJSON(g, cmd.OutOrStdout())
			}
			var buf bytes.Buffer
			if err := graphio.WriteJSON(g, &buf); err != nil {
				return err
			}
			if err := afero.WriteFile(c.Fs, output, buf.Bytes(), 0o644); err != nil {
				return err
			}
			printFile(cmd.ErrOrStderr(), output)
			return nil
		},
	}

	fs := cmd.Flags()
	fs.BoolVar(&noDev, "no-dev-dependencies", false, "skip dev dependencies")
	fs.StringVarP(&output, "output", "o", "", "output file (stdout if empty)")
	source.register(fs)

	return cmd
}
