package commands

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/chzyer/readline"
	"github.com/spf13/cobra"

	"github.com/plsweave/plsweave/pkg/cst"
)

// replPageSize limits how many matches a query prints before pausing.
const replPageSize = 25

// runQueryREPL opens an interactive shell on a parsed tree. Queries are
// kind names with an optional name filter (`Procedure Get_Info`); dot
// commands inspect the tree itself.
func runQueryREPL(cmd *cobra.Command, path string, tree *cst.Tree) error {
	historyFile := filepath.Join(os.TempDir(), "plsweave_query_history")

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "plsweave> ",
		HistoryFile:     historyFile,
		AutoComplete:    newKindCompleter(),
		InterruptPrompt: "^C",
		EOFPrompt:       ".quit",
	})
	if err != nil {
		return fmt.Errorf("failed to initialize shell: %w", err)
	}
	defer func() { _ = rl.Close() }()

	out := cmd.OutOrStdout()
	_, _ = fmt.Fprintf(out, "plsweave query shell (%s: %d nodes, %d errors)\n",
		path, tree.Len(), tree.ErrorCount())
	_, _ = fmt.Fprintln(out, "Type .help for commands, .quit to exit")
	_, _ = fmt.Fprintln(out)

	// paging state left by the previous query
	var pending *cst.Cursor
	var pendingKind cst.Kind
	var pendingName string

	for {
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			pending = nil
			continue
		}
		if errors.Is(err, io.EOF) {
			break
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if strings.HasPrefix(line, ".") {
			if line == ".quit" || line == ".exit" {
				break
			}
			if line == ".more" {
				if pending == nil {
					_, _ = fmt.Fprintln(out, "No query in progress")
					continue
				}
				if !pageMatches(out, pending, pendingKind, pendingName) {
					pending = nil
				}
				continue
			}
			handleREPLDot(cmd, tree, line)
			continue
		}

		parts := strings.Fields(line)
		kind, ok := cst.KindByName(parts[0])
		if !ok {
			_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Unknown kind %q (try .kinds)\n", parts[0])
			continue
		}
		name := ""
		if len(parts) > 1 {
			name = strings.ToUpper(parts[1])
		}

		pending = cst.NewCursor(tree)
		pendingKind, pendingName = kind, name
		if !pageMatches(out, pending, kind, name) {
			pending = nil
		}
	}
	return nil
}

// pageMatches prints up to replPageSize matches from the cursor. Returns
// true when the cursor may hold more matches.
func pageMatches(w io.Writer, c *cst.Cursor, kind cst.Kind, name string) bool {
	printed := 0
	for {
		n := c.Next()
		if !n.IsValid() {
			if printed == 0 {
				_, _ = fmt.Fprintln(w, "No matches")
			}
			return false
		}
		if n.Kind() != kind {
			continue
		}
		if name != "" && strings.ToUpper(n.Name()) != name {
			continue
		}
		start := n.Span().Start
		_, _ = fmt.Fprintf(w, "  %d:%d  %s", start.Line, start.Column, n.Kind())
		if nm := n.Name(); nm != "" {
			_, _ = fmt.Fprintf(w, "  %s (%s)", nm, cst.VisibilityOf(nm))
		}
		_, _ = fmt.Fprintln(w)
		printed++
		if printed == replPageSize {
			_, _ = fmt.Fprintln(w, "  ... (.more for the next page)")
			return true
		}
	}
}

func handleREPLDot(cmd *cobra.Command, tree *cst.Tree, line string) {
	out := cmd.OutOrStdout()
	parts := strings.Fields(line)

	switch strings.ToLower(parts[0]) {
	case ".help":
		printQueryREPLHelp(out)

	case ".kinds":
		for _, k := range queryableKinds() {
			_, _ = fmt.Fprintf(out, "  %s\n", k)
		}

	case ".errors":
		diags := tree.Diagnostics()
		if len(diags) == 0 {
			_, _ = fmt.Fprintln(out, "No syntax errors")
			return
		}
		for _, d := range diags {
			_, _ = fmt.Fprintf(out, "  %d:%d: %s\n", d.Span.Start.Line, d.Span.Start.Column, d.Message)
		}

	case ".at":
		if len(parts) < 2 {
			_, _ = fmt.Fprintln(cmd.ErrOrStderr(), "Usage: .at <byte-offset>")
			return
		}
		off, err := strconv.Atoi(parts[1])
		if err != nil {
			_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Bad offset: %v\n", err)
			return
		}
		n := tree.NodeAt(off)
		if !n.IsValid() {
			_, _ = fmt.Fprintln(out, "Offset is outside the file")
			return
		}
		// Print the kind chain from the innermost node up to the root.
		for n.IsValid() {
			start := n.Span().Start
			_, _ = fmt.Fprintf(out, "  %s at %d:%d", n.Kind(), start.Line, start.Column)
			if nm := n.Name(); nm != "" {
				_, _ = fmt.Fprintf(out, " (%s)", nm)
			}
			_, _ = fmt.Fprintln(out)
			n = n.Parent()
		}

	case ".clear":
		fmt.Print("\033[H\033[2J")

	default:
		_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Unknown command: %s (type .help for commands)\n", parts[0])
	}
}

func printQueryREPLHelp(w io.Writer) {
	help := `
Queries:
  <Kind> [name]   List nodes of a kind, optionally filtered by name
                  e.g.  Procedure         Function Get_Info___

Commands:
  .help           Show this help message
  .kinds          List queryable node kinds
  .errors         Show the file's syntax diagnostics
  .at <offset>    Show the node chain covering a byte offset
  .more           Next page of the previous query
  .clear          Clear the screen
  .quit / .exit   Exit the shell
`
	_, _ = fmt.Fprintln(w, help)
}

// newKindCompleter builds tab completion over kind names and commands.
func newKindCompleter() *readline.PrefixCompleter {
	var items []readline.PrefixCompleterInterface
	for _, k := range queryableKinds() {
		items = append(items, readline.PcItem(k))
	}
	items = append(items,
		readline.PcItem(".help"),
		readline.PcItem(".kinds"),
		readline.PcItem(".errors"),
		readline.PcItem(".at"),
		readline.PcItem(".more"),
		readline.PcItem(".clear"),
		readline.PcItem(".quit"),
		readline.PcItem(".exit"),
	)
	return readline.NewPrefixCompleter(items...)
}
