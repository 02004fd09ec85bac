package commands

import (
	"fmt"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/plsweave/plsweave/internal/cli/output"
	"github.com/plsweave/plsweave/pkg/parser"
)

// NewTokensCommand creates the tokens command.
func NewTokensCommand() *cobra.Command {
	var withTrivia bool

	cmd := &cobra.Command{
		Use:   "tokens <file>",
		Short: "Dump the token stream of a file",
		Long: `Scan a file and print every token with its type, position and text.
Scanning is total: unrecognizable bytes come out as INVALID tokens
rather than stopping the stream. Useful for debugging how a source
construct is being read.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", args[0], err)
			}

			tree := parser.Parse(string(src))

			t := output.NewTable(cmd.OutOrStdout())
			if withTrivia {
				t.AppendHeader(table.Row{"POS", "TYPE", "TEXT", "LEADING"})
			} else {
				t.AppendHeader(table.Row{"POS", "TYPE", "TEXT"})
			}
			for _, tok := range tree.Tokens() {
				pos := fmt.Sprintf("%d:%d", tok.Span.Start.Line, tok.Span.Start.Column)
				text := truncate(tok.Literal, 40)
				if withTrivia {
					var lead string
					for _, tr := range tok.Leading {
						if lead != "" {
							lead += " "
						}
						lead += tr.Kind.String()
					}
					t.AppendRow(table.Row{pos, tok.Type.String(), text, lead})
				} else {
					t.AppendRow(table.Row{pos, tok.Type.String(), text})
				}
			}
			t.Render()
			fmt.Fprintf(cmd.OutOrStdout(), "%d tokens\n", len(tree.Tokens()))
			return nil
		},
	}

	cmd.Flags().BoolVar(&withTrivia, "trivia", false, "Show leading trivia attached to each token")
	return cmd
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-1] + "…"
}
