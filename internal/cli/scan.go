package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// scanCommand creates the scan command, a dry run that lists the candidate
// package names without fetching anything.
func (c *CLI) scanCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "scan <dockerfile>",
		Short: "List the pip packages a Dockerfile installs",
		Long: `Scan a Dockerfile for $PIP_INSTALL sections and print each candidate
package name on its own line, in order and including duplicates.

No metadata is fetched and no files are written.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig(cmd)
			if err != nil {
				return err
			}
			runner, logger, err := newRunner(contextOf(cmd), cfg, cmd.OutOrStdout())
			if err != nil {
				return err
			}

			prog := newProgress(logger)
			names, err := runner.Scan(args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, name := range names {
				fmt.Fprintln(out, name)
			}
			prog.done(fmt.Sprintf("Scanned %d packages", len(names)))
			return nil
		},
	}
}
