package commands

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/plsweave/plsweave/internal/cli/output"
	"github.com/plsweave/plsweave/pkg/cst"
	"github.com/plsweave/plsweave/pkg/parser"
)

// NewQueryCommand creates the query command.
func NewQueryCommand() *cobra.Command {
	var (
		kindName    string
		nameFilter  string
		interactive bool
		jsonOut     bool
	)

	cmd := &cobra.Command{
		Use:   "query <file>",
		Short: "Run structural queries against a parsed file",
		Long: `Parse a file and list the nodes matching a structural query. Nodes
are selected by kind (--kind Procedure, --kind Directive, ...) and
optionally filtered by declared name. With --interactive an exploratory
shell is opened on the parsed tree instead.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", args[0], err)
			}
			tree := parser.Parse(string(src))

			if interactive {
				return runQueryREPL(cmd, args[0], tree)
			}
			if kindName == "" {
				return fmt.Errorf("--kind is required (or use --interactive)")
			}

			kind, ok := cst.KindByName(kindName)
			if !ok {
				return fmt.Errorf("unknown node kind %q; try one of: %s", kindName, strings.Join(queryableKinds(), ", "))
			}

			q := cst.Query{Kind: kind}
			if nameFilter != "" {
				want := strings.ToUpper(nameFilter)
				q.Where = func(n cst.Node) bool {
					return strings.ToUpper(n.Name()) == want
				}
			}
			nodes := q.Find(tree)

			if jsonOut {
				return renderNodesJSON(cmd, nodes)
			}
			renderNodesTable(cmd, nodes)
			return nil
		},
	}

	cmd.Flags().StringVarP(&kindName, "kind", "k", "", "Node kind to match (e.g. Procedure, Function, Directive)")
	cmd.Flags().StringVarP(&nameFilter, "name", "n", "", "Filter matches by declared name (case-insensitive)")
	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "Open an interactive query shell")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit matches as JSON")

	_ = cmd.RegisterFlagCompletionFunc("kind", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return queryableKinds(), cobra.ShellCompDirectiveNoFileComp
	})
	return cmd
}

// queryableKinds lists the kinds worth offering in completion and help.
func queryableKinds() []string {
	return []string{
		"PackageSpec", "PackageBody", "Procedure", "Function",
		"CursorDecl", "ConstantDecl", "VariableDecl", "ExceptionDecl",
		"TypeDecl", "SubtypeDecl", "Annotation", "Directive",
		"Entity", "Enumeration", "Views", "Storage",
		"ViewDef", "ColumnDef", "TableDef", "IndexDef", "SequenceDef",
		"SqlStmt", "Error",
	}
}

func renderNodesTable(cmd *cobra.Command, nodes []cst.Node) {
	t := output.NewTable(cmd.OutOrStdout())
	t.AppendHeader(table.Row{"POS", "KIND", "NAME", "VISIBILITY"})
	for _, n := range nodes {
		start := n.Span().Start
		name := n.Name()
		vis := ""
		if name != "" {
			vis = cst.VisibilityOf(name).String()
		}
		t.AppendRow(table.Row{
			fmt.Sprintf("%d:%d", start.Line, start.Column),
			n.Kind().String(),
			name,
			vis,
		})
	}
	t.Render()
	fmt.Fprintf(cmd.OutOrStdout(), "%d matches\n", len(nodes))
}

func renderNodesJSON(cmd *cobra.Command, nodes []cst.Node) error {
	type jsonNode struct {
		Kind       string `json:"kind"`
		Name       string `json:"name,omitempty"`
		Visibility string `json:"visibility,omitempty"`
		Line       int    `json:"line"`
		Column     int    `json:"column"`
		EndLine    int    `json:"end_line"`
		EndColumn  int    `json:"end_column"`
	}
	out := make([]jsonNode, 0, len(nodes))
	for _, n := range nodes {
		sp := n.Span()
		jn := jsonNode{
			Kind:      n.Kind().String(),
			Name:      n.Name(),
			Line:      sp.Start.Line,
			Column:    sp.Start.Column,
			EndLine:   sp.End.Line,
			EndColumn: sp.End.Column,
		}
		if jn.Name != "" {
			jn.Visibility = cst.VisibilityOf(jn.Name).String()
		}
		out = append(out, jn)
	}
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
