package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/ledgernorm/internal/config"
	"github.com/cleared-dev/ledgernorm/internal/ingest"
	"github.com/cleared-dev/ledgernorm/internal/model"
	"github.com/cleared-dev/ledgernorm/internal/normalize"
	"github.com/cleared-dev/ledgernorm/internal/report"
	"github.com/cleared-dev/ledgernorm/internal/runlog"
)

type normalizeFlags struct {
	docType string
	format  string
	outDir  string
	jobs    int
	archive bool
}

func newNormalizeCommand(g *globals) *cobra.Command {
	var f normalizeFlags

	cmd := &cobra.Command{
		Use:   "normalize <file|dir>...",
		Short: "Normalize extracted statements into accounts and a summary",
		Long: "Reads text, CSV, XLSX or extraction JSON files (directories are scanned) and\n" +
			"writes one report per input. Exits non-zero if any input yields no accounts.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := g.load()
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("format") {
				f.format = cfg.Output.Format
			}
			if !cmd.Flags().Changed("out") {
				f.outDir = cfg.Output.Dir
			}
			if !cmd.Flags().Changed("jobs") {
				f.jobs = cfg.Output.Jobs
			}
			return runNormalize(cmd.Context(), cfg, logger, args, f)
		},
	}

	cmd.Flags().StringVar(&f.docType, "type", "", "document type hint (balance_sheet, trial_balance, income_statement, DRE, ...)")
	cmd.Flags().StringVar(&f.format, "format", "json", "output format: json or csv")
	cmd.Flags().StringVar(&f.outDir, "out", "", "output directory (default stdout)")
	cmd.Flags().IntVar(&f.jobs, "jobs", 4, "documents normalized in parallel")
	cmd.Flags().BoolVar(&f.archive, "archive", false, "move inputs found by directory scan to processed/ once normalized")

	return cmd
}

// input is one file to normalize; dir is set when it came from a directory scan.
type input struct {
	path string
	dir  string
}

func collectInputs(reg *ingest.Registry, args []string) ([]input, error) {
	var inputs []input
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, fmt.Errorf("reading input: %w", err)
		}
		if !info.IsDir() {
			inputs = append(inputs, input{path: arg})
			continue
		}
		files, err := reg.Scan(arg)
		if err != nil {
			return nil, err
		}
		for _, fi := range files {
			inputs = append(inputs, input{path: fi.Path, dir: arg})
		}
	}
	return inputs, nil
}

func runNormalize(ctx context.Context, cfg *config.Config, logger *slog.Logger, args []string, f normalizeFlags) error {
	switch f.format {
	case report.FormatJSON, report.FormatCSV:
	default:
		return fmt.Errorf("unknown output format %q, want json or csv", f.format)
	}

	reg := ingest.DefaultRegistry()
	inputs, err := collectInputs(reg, args)
	if err != nil {
		return err
	}
	if len(inputs) == 0 {
		return fmt.Errorf("no supported input files in %v", args)
	}

	docs := make([]model.Document, 0, len(inputs))
	for _, in := range inputs {
		doc, err := reg.ReadFile(in.path, f.docType)
		if err != nil {
			return err
		}
		logger.Info("read input", "source", doc.Source, "document_type", doc.Type, "lines", len(doc.Lines))
		docs = append(docs, *doc)
	}

	if f.outDir != "" {
		if err := checkReportPaths(f.outDir, f.format, inputs, docs); err != nil {
			return err
		}
	}

	engine := normalize.NewEngine(cfg.Classifier(), cfg.NormalizeOptions(), logger)
	outcomes, err := engine.NormalizeAll(ctx, docs, f.jobs)
	if err != nil {
		return err
	}

	now := time.Now()
	var entries []runlog.Entry
	failed := 0
	for i, o := range outcomes {
		if o.Err != nil {
			failed++
			if errors.Is(o.Err, normalize.ErrNoAccounts) {
				fmt.Fprintf(os.Stderr, "%s: no accounts identified\n", o.Source)
			} else {
				fmt.Fprintf(os.Stderr, "%s: %v\n", o.Source, o.Err)
			}
			continue
		}

		for _, w := range o.Result.Warnings {
			fmt.Fprintf(os.Stderr, "warning: %s:%d: %s\n", o.Source, w.Line, w.Message)
		}

		env := report.NewEnvelope(o.Source, o.Result, now)
		if f.outDir == "" {
			if err := report.Write(os.Stdout, env, f.format); err != nil {
				return err
			}
		} else {
			path, err := report.WriteFile(f.outDir, env, f.format)
			if err != nil {
				return err
			}
			s := o.Result.Summary
			fmt.Printf("%s -> %s (%d accounts, %s, balanced: %t, %s %s)\n",
				o.Source, path, len(o.Result.Accounts), s.DocumentType, s.IsBalanced,
				s.ResultLabel, s.ResultValue.StringFixed(2))
		}
		entries = append(entries, runlog.FromResult(now, env.RunID, o.Source, o.Result))

		if f.archive && inputs[i].dir != "" {
			if err := ingest.MarkProcessed(inputs[i].dir, filepath.Base(inputs[i].path)); err != nil {
				return err
			}
		}
	}

	if f.outDir != "" && cfg.Output.RunLog != "" && len(entries) > 0 {
		logPath := cfg.Output.RunLog
		if !filepath.IsAbs(logPath) {
			logPath = filepath.Join(f.outDir, logPath)
		}
		if err := runlog.Append(logPath, entries); err != nil {
			return fmt.Errorf("writing run log: %w", err)
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d inputs produced no result", failed, len(outcomes))
	}
	return nil
}

// checkReportPaths fails when two inputs would write the same report file.
func checkReportPaths(dir, format string, inputs []input, docs []model.Document) error {
	written := make(map[string]string) // report path -> input path
	for i, doc := range docs {
		path := report.Path(dir, doc.Source, "", format)
		if prev, dup := written[path]; dup {
			return fmt.Errorf("%s and %s would both write %s", prev, inputs[i].path, path)
		}
		written[path] = inputs[i].path
	}
	return nil
}
