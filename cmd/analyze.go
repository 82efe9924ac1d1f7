package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/Ruchi0214/Regexia/internal/bootstrap"
	"github.com/Ruchi0214/Regexia/internal/domain"
	"github.com/Ruchi0214/Regexia/internal/engine"
	"github.com/Ruchi0214/Regexia/internal/ingest"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

type analyzeOptions struct {
	file        string
	column      string
	rules       []string
	topK        int
	maxRows     int
	maxReturned int
	asJSON      bool
}

func newAnalyzeCommand() *cobra.Command {
	opts := &analyzeOptions{}

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Score one column of a CSV file",
		Example: `  regexia analyze --file posts.csv --column text
  regexia analyze --file posts.csv --column text --rules "Emotional Trigger,Repetition" --json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runAnalyze(cmd, opts)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.file, "file", "f", "", "CSV or XLSX file to analyse (required)")
	f.StringVarP(&opts.column, "column", "c", "", "column holding the text (required)")
	f.StringSliceVarP(&opts.rules, "rules", "r", nil, "comma-separated rule names (default: every rule)")
	f.IntVar(&opts.topK, "top-k", 0, "documents to annotate (default from config)")
	f.IntVar(&opts.maxRows, "max-rows", 0, "rows to read (default from config)")
	f.IntVar(&opts.maxReturned, "max-returned", 0, "ranked rows to report (default from config)")
	f.BoolVar(&opts.asJSON, "json", false, "print the full report as JSON")
	_ = cmd.MarkFlagRequired("file")
	_ = cmd.MarkFlagRequired("column")

	return cmd
}

func runAnalyze(cmd *cobra.Command, opts *analyzeOptions) error {
	cfg, log, err := loadDeps("stderr")
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	eng, err := bootstrap.NewEngine(cfg, log, nil)
	if err != nil {
		return err
	}

	maxRows := cfg.Analysis.MaxRows
	if opts.maxRows > 0 {
		maxRows = opts.maxRows
	}
	batchOpts := engine.Options{TopK: cfg.Analysis.TopK, MaxReturnedRows: cfg.Analysis.MaxReturnedRows}
	if cmd.Flags().Changed("top-k") {
		batchOpts.TopK = opts.topK
	}
	if opts.maxReturned > 0 {
		batchOpts.MaxReturnedRows = opts.maxReturned
	}

	selection := opts.rules
	if len(selection) == 0 {
		selection = eng.ListRuleNames()
	}

	file, err := os.Open(opts.file)
	if err != nil {
		return fmt.Errorf("open %s: %w", opts.file, err)
	}
	defer file.Close()

	docs, _, err := ingest.Read(file, opts.file, opts.column, maxRows)
	if err != nil {
		return err
	}

	report, err := eng.AnalyzeBatch(cmd.Context(), docs, selection, batchOpts)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if opts.asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		enc.SetEscapeHTML(false)
		return enc.Encode(report)
	}
	renderReport(out, report)
	return nil
}

func renderReport(out io.Writer, report *domain.BatchReport) {
	t := table.NewWriter()
	t.SetOutputMirror(out)
	t.SetStyle(table.StyleLight)
	t.SetTitle(fmt.Sprintf("%d rows analysed", report.TotalRows))
	t.AppendHeader(table.Row{"Rank", "ID", "Score", "Matches", "Text"})
	for i, r := range report.Results {
		t.AppendRow(table.Row{i + 1, r.DocumentID, r.Score, formatMatches(r.Matches), r.TextPreview})
	}
	t.Render()

	totals := table.NewWriter()
	totals.SetOutputMirror(out)
	totals.SetStyle(table.StyleLight)
	totals.AppendHeader(table.Row{"Rule", "Matches"})
	for _, name := range report.ActiveRules {
		if n, ok := report.RuleCounts[name]; ok {
			totals.AppendRow(table.Row{name, n})
		}
	}
	totals.Render()
}

func formatMatches(m map[string]int) string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, len(names))
	for i, name := range names {
		parts[i] = fmt.Sprintf("%s:%d", name, m[name])
	}
	return strings.Join(parts, " ")
}
