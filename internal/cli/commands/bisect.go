package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/plsweave/plsweave/internal/bisect"
	"github.com/plsweave/plsweave/internal/cli/output"
)

// NewBisectCommand creates the bisect command.
func NewBisectCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "bisect <file>",
		Short: "Locate a file's first failing line by binary search",
		Long: `Binary-search line prefixes of a file to find where syntax errors
begin. This is a second opinion on the parser's own diagnostics: the
two should agree on the neighborhood of the problem.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", args[0], err)
			}

			res := bisect.Run(string(src))
			styles := output.NewStyles(output.ColorEnabled())
			if res.Clean {
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s parses clean (%d lines)\n",
					styles.Success.Render("✓"), args[0], res.TotalLines)
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s errors begin near %s:%d (of %d lines)\n",
				styles.Error.Render("✗"), args[0], res.FirstBadLine, res.TotalLines)
			return nil
		},
	}
}
