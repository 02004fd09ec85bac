package commands

import (
	"encoding/json"
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/plsweave/plsweave/internal/cli/output"
	"github.com/plsweave/plsweave/internal/index"
)

// NewSearchCommand creates the search command.
func NewSearchCommand() *cobra.Command {
	var limit int
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "search <name-prefix>",
		Short: "Search the symbol index by name",
		Long: `Look up symbols in the index by case-insensitive name prefix. Run
"plsweave index" first to build or refresh the index.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := GetConfig(cmd.Context())

			store := index.NewSQLiteStore()
			if err := store.Open(cfg.IndexPath); err != nil {
				return fmt.Errorf("failed to open index (run \"plsweave index\" first): %w", err)
			}
			defer func() { _ = store.Close() }()

			symbols, err := store.Search(args[0], limit)
			if err != nil {
				return err
			}

			if jsonOut {
				type jsonSym struct {
					Name       string `json:"name"`
					Kind       string `json:"kind"`
					Visibility string `json:"visibility"`
					Path       string `json:"path"`
					Line       int    `json:"line"`
					Column     int    `json:"column"`
				}
				out := make([]jsonSym, 0, len(symbols))
				for _, s := range symbols {
					out = append(out, jsonSym{
						Name: s.Name, Kind: s.Kind, Visibility: s.Visibility,
						Path: s.Path, Line: s.Line, Column: s.Column,
					})
				}
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(out)
			}

			if len(symbols) == 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "No symbols matching %q\n", args[0])
				return nil
			}
			t := output.NewTable(cmd.OutOrStdout())
			t.AppendHeader(table.Row{"NAME", "KIND", "VISIBILITY", "LOCATION"})
			for _, s := range symbols {
				t.AppendRow(table.Row{
					s.Name, s.Kind, s.Visibility,
					fmt.Sprintf("%s:%d:%d", s.Path, s.Line, s.Column),
				})
			}
			t.Render()
			fmt.Fprintf(cmd.OutOrStdout(), "%d symbols\n", len(symbols))
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 100, "Maximum number of results")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit results as JSON")
	return cmd
}
