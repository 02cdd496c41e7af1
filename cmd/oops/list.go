package main

import (
	"context"
	"fmt"
	"io"
	"runtime"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"oops/internal/report"
)

var listDir string

func init() {
	listCmd.Flags().StringVar(&listDir, "dir", "", "directory to scan (default: temporary directory)")
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored crash reports",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		entries, err := loadReports(cmd.Context(), listDir)
		if err != nil {
			return err
		}
		renderList(cmd.OutOrStdout(), entries)
		return nil
	},
}

type listEntry struct {
	Path   string
	Report report.Report
	Err    error
}

// loadReports decodes every report in dir concurrently. Reports that fail to
// decode are kept with their error so one broken file does not hide the rest.
func loadReports(ctx context.Context, dir string) ([]listEntry, error) {
	paths, err := report.List(dir)
	if err != nil {
		return nil, err
	}

	entries := make([]listEntry, len(paths))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, min(runtime.GOMAXPROCS(0), len(paths))))

	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			rep, err := report.Load(path)
			entries[i] = listEntry{Path: path, Report: rep, Err: err}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return entries, nil
}

func renderList(w io.Writer, entries []listEntry) {
	if len(entries) == 0 {
		fmt.Fprintln(w, "no crash reports found")
		return
	}
	for _, e := range entries {
		if e.Err != nil {
			fmt.Fprintf(w, "%s  <unreadable: %v>\n", e.Path, e.Err)
			continue
		}
		cause, _, _ := strings.Cut(e.Report.Cause, "\n")
		fmt.Fprintf(w, "%s  %s v%s  %s\n", e.Path, e.Report.Name, e.Report.Version, cause)
	}
}
