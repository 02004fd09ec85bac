package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/plsweave/plsweave/internal/cli/output"
	"github.com/plsweave/plsweave/pkg/cst"
	"github.com/plsweave/plsweave/pkg/parser"
)

// NewParseCommand creates the parse command.
func NewParseCommand() *cobra.Command {
	var watch bool
	var format string

	cmd := &cobra.Command{
		Use:   "parse <file>...",
		Short: "Parse files and report syntax diagnostics",
		Long: `Parse one or more IFS source files and report their structure and
syntax diagnostics. Parsing never fails: a malformed file produces a
tree covering the whole input with the problems marked inside it.

With --watch, the command keeps running and re-parses a file whenever
it changes, reusing unaffected parts of the previous tree.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if watch {
				if len(args) != 1 {
					return fmt.Errorf("--watch takes exactly one file")
				}
				return watchFile(cmd, args[0], format)
			}

			failed := 0
			for _, path := range args {
				src, err := os.ReadFile(path)
				if err != nil {
					return fmt.Errorf("failed to read %s: %w", path, err)
				}
				tree := parser.Parse(string(src))
				if tree.HasErrors() {
					failed++
				}
				reportTree(cmd.OutOrStdout(), path, tree, format)
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d files have syntax errors", failed, len(args))
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "Re-parse on file change")
	cmd.Flags().StringVar(&format, "format", "", "Output format (text|json); defaults to the global output setting")
	return cmd
}

// reportTree prints one file's parse outcome.
func reportTree(w io.Writer, path string, tree *cst.Tree, format string) {
	diags := tree.Diagnostics()

	if format == "json" {
		type jsonDiag struct {
			Line    int    `json:"line"`
			Column  int    `json:"column"`
			Message string `json:"message"`
		}
		out := struct {
			Path        string     `json:"path"`
			Form        string     `json:"form"`
			Nodes       int        `json:"nodes"`
			Errors      int        `json:"errors"`
			Diagnostics []jsonDiag `json:"diagnostics"`
		}{
			Path:   path,
			Form:   formOf(tree),
			Nodes:  tree.Len(),
			Errors: tree.ErrorCount(),
		}
		for _, d := range diags {
			out.Diagnostics = append(out.Diagnostics, jsonDiag{
				Line:    d.Span.Start.Line,
				Column:  d.Span.Start.Column,
				Message: d.Message,
			})
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		_ = enc.Encode(out)
		return
	}

	styles := output.NewStyles(output.ColorEnabled())
	if tree.HasErrors() {
		fmt.Fprintf(w, "%s %s (%s, %d nodes, %d errors)\n",
			styles.Error.Render("✗"), path, formOf(tree), tree.Len(), tree.ErrorCount())
		for _, d := range diags {
			fmt.Fprintf(w, "  %s:%d:%d: %s\n", path, d.Span.Start.Line, d.Span.Start.Column, d.Message)
		}
		return
	}
	fmt.Fprintf(w, "%s %s (%s, %d nodes)\n",
		styles.Success.Render("✓"), path, formOf(tree), tree.Len())
}

// formOf names the file form the parser detected.
func formOf(tree *cst.Tree) string {
	root := tree.Root()
	for _, c := range root.Children() {
		switch c.Kind() {
		case cst.KindEntity, cst.KindEnumeration, cst.KindViews, cst.KindStorage:
			return c.Kind().String()
		}
	}
	return "PLSQL"
}

// watchFile re-parses path on every change until interrupted. Changes
// are applied as a single edit against the previous source so the
// incremental engine can reuse untouched members.
func watchFile(cmd *cobra.Command, path string, format string) error {
	log := GetLogger(cmd.Context())

	src, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	tree := parser.Parse(string(src))
	reportTree(cmd.OutOrStdout(), path, tree, format)

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to start watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	// Watch the directory: editors replace files on save, which drops
	// a watch registered on the file itself.
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		return fmt.Errorf("failed to watch %s: %w", path, err)
	}

	abs, _ := filepath.Abs(path)
	for {
		select {
		case <-cmd.Context().Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			evAbs, _ := filepath.Abs(event.Name)
			if evAbs != abs || !event.Has(fsnotify.Write|fsnotify.Create) {
				continue
			}
			next, err := os.ReadFile(path)
			if err != nil {
				log.Warn("failed to re-read file", "path", path, "error", err)
				continue
			}
			edit, changed := diffEdit(tree.Src(), string(next))
			if !changed {
				continue
			}
			newTree, err := parser.Reparse(tree, edit)
			if err != nil {
				// Should not happen for a computed edit; fall back.
				log.Warn("incremental reparse rejected edit", "error", err)
				newTree = parser.Parse(string(next))
			}
			tree = newTree
			reportTree(cmd.OutOrStdout(), path, tree, format)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Warn("watch error", "error", err)
		}
	}
}

// diffEdit computes the single contiguous edit turning old into new:
// the replaced region is what remains after trimming the longest common
// prefix and suffix. Returns changed=false for identical inputs.
func diffEdit(old, new string) (parser.Edit, bool) {
	if old == new {
		return parser.Edit{}, false
	}
	p := 0
	for p < len(old) && p < len(new) && old[p] == new[p] {
		p++
	}
	so, sn := len(old), len(new)
	for so > p && sn > p && old[so-1] == new[sn-1] {
		so--
		sn--
	}
	return parser.Edit{
		StartByte:  p,
		OldEndByte: so,
		NewEndByte: sn,
		NewText:    new[p:sn],
	}, true
}
