package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cleansight/cleansight/internal/engine"
	"github.com/cleansight/cleansight/internal/ingest"
)

type AnalyzeOptions struct {
	InputFile    string
	OutputFormat string
	OutputFile   string
	Verbose      bool
}

func NewAnalyzeCmd() *cobra.Command {
	opts := &AnalyzeOptions{}

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Analyze a CSV dataset for data quality problems",
		Long: `Profile every column, run the problem detectors, and print the unified
problem list, cleaning recommendations, and quality score.`,
		Example: `  # Analyze a CSV file
  cleansight analyze --input customers.csv

  # Full report as JSON
  cleansight analyze --input customers.csv --format json --output report.json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Verbose, _ = cmd.Flags().GetBool("verbose")
			return runAnalyze(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVarP(&opts.InputFile, "input", "i", "", "Input CSV file to analyze (required)")
	cmd.Flags().StringVar(&opts.OutputFormat, "format", "text", "Output format (text, json)")
	cmd.Flags().StringVarP(&opts.OutputFile, "output", "o", "-", "Output file (- for stdout)")

	cmd.MarkFlagRequired("input")

	return cmd
}

func runAnalyze(ctx context.Context, opts *AnalyzeOptions) error {
	ds, err := ingest.ReadCSVFile(opts.InputFile)
	if err != nil {
		return err
	}

	eng := engine.New(analysisConfig(), newLogger(opts.Verbose))
	report, err := eng.Analyze(ctx, ds)
	if err != nil {
		return err
	}

	if opts.OutputFormat == "json" {
		return writeJSONOutput(opts.OutputFile, report)
	}

	out, err := openOutput(opts.OutputFile)
	if err != nil {
		return err
	}
	defer out.Close()

	fmt.Fprintf(out, "Dataset: %s (%d rows, %d columns)\n", opts.InputFile, report.Rows, report.Columns)
	fmt.Fprintf(out, "Quality Score: %d/100\n", report.Score.Score)
	fmt.Fprintf(out, "Analysis Time: %dms\n", report.DurationMS)

	fmt.Fprintln(out, "\nColumn Profiles:")
	for _, p := range report.Profiles {
		fmt.Fprintf(out, "- %-20s %-12s missing=%.1f%% unique=%d\n",
			p.Name, p.InferredType, p.MissingRatio*100, p.UniqueCount)
	}

	fmt.Fprintf(out, "\nProblems Found: %d\n", len(report.Problems))
	for _, p := range report.Problems {
		target := p.Column
		if target == "" {
			target = "(rows)"
		}
		fmt.Fprintf(out, "- [%s] %-20s %-22s count=%d probability=%.2f\n",
			p.Severity, target, p.Type, p.Count, p.Probability)
	}

	fmt.Fprintf(out, "\nRecommendations: %d\n", len(report.Recommendations))
	for _, r := range report.Recommendations {
		target := r.Column
		if target == "" {
			target = "(rows)"
		}
		fmt.Fprintf(out, "- [%s] %s on %s (~%d rows): %s\n",
			r.Priority, r.Operation, target, r.EstimatedRowsAffected, r.Reason)
	}

	return nil
}
