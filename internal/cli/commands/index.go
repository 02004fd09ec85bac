package commands

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/plsweave/plsweave/internal/cli/output"
	"github.com/plsweave/plsweave/internal/index"
	"github.com/plsweave/plsweave/pkg/parser"
)

// sourceExtensions are the file forms the indexer picks up.
var sourceExtensions = map[string]bool{
	".plsql":       true,
	".entity":      true,
	".enumeration": true,
	".views":       true,
	".storage":     true,
}

// NewIndexCommand creates the index command.
func NewIndexCommand() *cobra.Command {
	var jobs int

	cmd := &cobra.Command{
		Use:   "index [dir]...",
		Short: "Build the symbol index",
		Long: `Walk the configured source directories (or the directories given as
arguments), parse every IFS source file and store its top-level symbols
in the index database. Files that fail to parse cleanly are still
indexed, with their error count recorded.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := GetConfig(cmd.Context())
			log := GetLogger(cmd.Context())

			dirs := args
			if len(dirs) == 0 {
				dirs = cfg.SourceDirs
			}
			if len(dirs) == 0 {
				dirs = []string{"."}
			}

			store := index.NewSQLiteStore()
			if err := os.MkdirAll(filepath.Dir(cfg.IndexPath), 0o755); err != nil {
				return fmt.Errorf("failed to create index directory: %w", err)
			}
			if err := store.Open(cfg.IndexPath); err != nil {
				return fmt.Errorf("failed to open index: %w", err)
			}
			defer func() { _ = store.Close() }()
			if err := store.Migrate(); err != nil {
				return fmt.Errorf("failed to migrate index: %w", err)
			}

			var paths []string
			for _, dir := range dirs {
				err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
					if err != nil {
						return err
					}
					if d.IsDir() {
						return nil
					}
					if sourceExtensions[filepath.Ext(path)] {
						paths = append(paths, path)
					}
					return nil
				})
				if err != nil {
					return fmt.Errorf("failed to walk %s: %w", dir, err)
				}
			}
			if len(paths) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No source files found")
				return nil
			}

			if jobs <= 0 {
				jobs = runtime.NumCPU()
			}

			start := time.Now()
			var mu sync.Mutex // SaveFile calls serialize through one store
			var indexed, withErrors int

			g, ctx := errgroup.WithContext(cmd.Context())
			g.SetLimit(jobs)
			for _, path := range paths {
				g.Go(func() error {
					if err := ctx.Err(); err != nil {
						return err
					}
					src, err := os.ReadFile(path)
					if err != nil {
						return fmt.Errorf("failed to read %s: %w", path, err)
					}
					tree := parser.Parse(string(src))
					symbols := index.Extract(tree)

					f := &index.File{
						Path:       path,
						Form:       fileFormName(path),
						ErrorCount: tree.ErrorCount(),
						IndexedAt:  time.Now().UTC(),
					}
					mu.Lock()
					err = store.SaveFile(f, symbols)
					if err == nil {
						indexed++
						if f.ErrorCount > 0 {
							withErrors++
						}
					}
					mu.Unlock()
					if err != nil {
						return fmt.Errorf("failed to index %s: %w", path, err)
					}
					log.Debug("indexed file", "path", path, "symbols", len(symbols), "errors", f.ErrorCount)
					return nil
				})
			}
			if err := g.Wait(); err != nil {
				return err
			}

			styles := output.NewStyles(output.ColorEnabled())
			files, symbols, err := store.Stats()
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s indexed %d files (%d symbols) in %s\n",
				styles.Success.Render("✓"), indexed, symbols, time.Since(start).Round(time.Millisecond))
			if withErrors > 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "%s %d of %d files have syntax errors (plsweave index --errors to list)\n",
					styles.Warning.Render("!"), withErrors, files)
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&jobs, "jobs", "j", 0, "Parallel parse jobs (default: number of CPUs)")
	cmd.AddCommand(newIndexErrorsCommand())
	return cmd
}

// fileFormName derives the form label from the extension.
func fileFormName(path string) string {
	switch filepath.Ext(path) {
	case ".entity":
		return "Entity"
	case ".enumeration":
		return "Enumeration"
	case ".views":
		return "Views"
	case ".storage":
		return "Storage"
	}
	return "PLSQL"
}

// newIndexErrorsCommand lists indexed files carrying syntax errors.
func newIndexErrorsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "errors",
		Short: "List indexed files with syntax errors",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := GetConfig(cmd.Context())

			store := index.NewSQLiteStore()
			if err := store.Open(cfg.IndexPath); err != nil {
				return fmt.Errorf("failed to open index: %w", err)
			}
			defer func() { _ = store.Close() }()

			files, err := store.FilesWithErrors()
			if err != nil {
				return err
			}
			if len(files) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No indexed files have syntax errors")
				return nil
			}
			for _, f := range files {
				fmt.Fprintf(cmd.OutOrStdout(), "%s: %d errors\n", f.Path, f.ErrorCount)
			}
			return nil
		},
	}
}
