package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/lazyserp/CuraVie/internal/app"
	"github.com/lazyserp/CuraVie/internal/models"
	"github.com/lazyserp/CuraVie/internal/services/report"
	"github.com/lazyserp/CuraVie/internal/services/workers"
	"github.com/lazyserp/CuraVie/internal/worker"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Generate health reports from worker files",
	Long: `Reads worker records (JSON, YAML or TOML) and writes one PDF health report per worker.
With --prompt-only the compiled prompts are printed and no model is called.`,
	RunE: runReport,
}

var (
	reportWorkers     []string
	reportOut         string
	reportPromptOnly  bool
	reportConcurrency int
)

func init() {
	reportCmd.Flags().StringSliceVarP(&reportWorkers, "worker", "w", nil, "Worker record file (.json, .yaml, .yml or .toml), repeatable")
	reportCmd.Flags().StringVarP(&reportOut, "out", "o", "", "Output directory, or output file for a single worker (default: current directory)")
	reportCmd.Flags().BoolVar(&reportPromptOnly, "prompt-only", false, "Print the compiled prompt instead of generating")
	reportCmd.Flags().IntVar(&reportConcurrency, "concurrency", 2, "Reports generated at the same time")
	reportCmd.MarkFlagRequired("worker")
}

func runReport(cmd *cobra.Command, args []string) error {
	if reportPromptOnly {
		// No generation happens, so no provider (and no API key) is needed
		prompts := report.NewService(nil, nil, config.Report.Region, logger, nil)
		return printPrompts(prompts, reportWorkers, cmd.OutOrStdout())
	}

	if len(reportWorkers) > 1 && reportOut != "" && !isDir(reportOut) {
		return fmt.Errorf("--out must be an existing directory when several workers are given")
	}

	application, err := app.New(cmd.Context(), config, logger)
	if err != nil {
		return err
	}
	defer application.Close()

	entries := loadBatch(reportWorkers, reportOut)
	return generateBatch(cmd.Context(), application.ReportService, entries, reportConcurrency, cmd.OutOrStdout(), cmd.ErrOrStderr())
}

func printPrompts(reports *report.Service, sources []string, out io.Writer) error {
	for _, source := range sources {
		w, err := workers.LoadFile(source)
		if err != nil {
			return err
		}
		prompt, err := reports.Prompt(w)
		if err != nil {
			return fmt.Errorf("%s: %w", source, userFacing(err))
		}
		fmt.Fprint(out, prompt)
	}
	return nil
}

// batchEntry is one worker file of a report batch
type batchEntry struct {
	source string
	worker *models.Worker
	err    error  // load or validation failure, reported when the entry runs
	path   string // planned output path, unique within the batch
}

// loadBatch reads every worker file and plans its output path before any
// report is generated.
func loadBatch(sources []string, out string) []batchEntry {
	entries := make([]batchEntry, len(sources))
	for i, source := range sources {
		w, err := workers.LoadFile(source)
		entries[i] = batchEntry{source: source, worker: w, err: err}
	}
	planOutputPaths(entries, out)
	return entries
}

// planOutputPaths gives every loaded worker its own output path. Workers that
// share a display name are told apart by record ID, then by a counter.
func planOutputPaths(entries []batchEntry, out string) {
	if len(entries) == 1 && entries[0].err == nil && out != "" && !isDir(out) {
		entries[0].path = out
		return
	}

	taken := make(map[string]bool)
	for i := range entries {
		e := &entries[i]
		if e.err != nil {
			continue
		}

		filename := models.ReportFilename(e.worker.DisplayName())
		base := strings.TrimSuffix(filename, ".pdf")
		if taken[strings.ToLower(filename)] && e.worker.ID != 0 {
			filename = fmt.Sprintf("%s_%d.pdf", base, e.worker.ID)
		}
		for n := 2; taken[strings.ToLower(filename)]; n++ {
			filename = fmt.Sprintf("%s_%d.pdf", base, n)
		}

		taken[strings.ToLower(filename)] = true
		e.path = filepath.Join(out, filename)
	}
}

// generateBatch runs the entries on a worker pool. Each success prints the
// written path; each failure prints its message and counts toward the error.
func generateBatch(ctx context.Context, reports *report.Service, entries []batchEntry, concurrency int, stdout, stderr io.Writer) error {
	tasks := make([]worker.Task, len(entries))
	for i, entry := range entries {
		tasks[i] = worker.Task{
			ID: entry.source,
			Run: func(ctx context.Context) error {
				if entry.err != nil {
					return entry.err
				}
				if err := writeReport(ctx, reports, entry); err != nil {
					return err
				}
				fmt.Fprintln(stdout, entry.path)
				return nil
			},
		}
	}

	failed := 0
	for _, result := range worker.NewPool(logger, concurrency).Run(ctx, tasks) {
		if result.Err != nil {
			failed++
			fmt.Fprintf(stderr, "%s: %v\n", result.ID, result.Err)
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d reports failed", failed, len(tasks))
	}
	return nil
}

// writeReport generates the report for one entry and stores it at entry.path
func writeReport(ctx context.Context, reports *report.Service, entry batchEntry) error {
	result, err := reports.Generate(ctx, entry.worker)
	if err != nil {
		return userFacing(err)
	}

	if err := writeDocument(entry.path, result.Document.Content); err != nil {
		return err
	}

	logger.Info().
		Str("report_id", result.ReportID).
		Str("path", entry.path).
		Int("pages", result.Document.Pages).
		Msg("Report written")
	return nil
}

// writeDocument writes content to a temporary file beside path and renames it
// into place, so path only ever holds a complete document.
func writeDocument(path string, content io.Reader) (err error) {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".curavie-*.pdf.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temporary file in %s: %w", dir, err)
	}
	defer func() {
		if err != nil {
			os.Remove(tmp.Name())
		}
	}()

	if _, err = io.Copy(tmp, content); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err = os.Chmod(tmp.Name(), 0o644); err != nil {
		return fmt.Errorf("failed to set permissions on %s: %w", path, err)
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to move report into %s: %w", path, err)
	}
	return nil
}

// userFacing replaces a pipeline failure with the message shown to users
func userFacing(err error) error {
	var failure *report.Failure
	if errors.As(err, &failure) {
		return errors.New(failure.UserMessage())
	}
	return err
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
