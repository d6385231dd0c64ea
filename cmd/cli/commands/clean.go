package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/cleansight/cleansight/internal/engine"
	"github.com/cleansight/cleansight/internal/ingest"
	"github.com/cleansight/cleansight/pkg/models"
)

type CleanOptions struct {
	InputFile      string
	OutputFile     string
	OperationsFile string
	Auto           bool
	ChangeLogFile  string
	Verbose        bool
}

func NewCleanCmd() *cobra.Command {
	opts := &CleanOptions{}

	cmd := &cobra.Command{
		Use:   "clean",
		Short: "Apply approved cleaning operations to a CSV dataset",
		Long: `Apply a list of approved cleaning operations to a dataset and write the
cleaned CSV plus an audit change log. Operations come from a JSON file
(--operations) or from accepting every recommendation (--auto).`,
		Example: `  # Apply reviewed operations
  cleansight clean --input customers.csv --operations approved.json --output cleaned.csv

  # Accept every recommendation
  cleansight clean --input customers.csv --auto --output cleaned.csv --changelog changes.json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Verbose, _ = cmd.Flags().GetBool("verbose")
			return runClean(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVarP(&opts.InputFile, "input", "i", "", "Input CSV file (required)")
	cmd.Flags().StringVarP(&opts.OutputFile, "output", "o", "-", "Cleaned CSV output file (- for stdout)")
	cmd.Flags().StringVar(&opts.OperationsFile, "operations", "", "JSON file with approved operations")
	cmd.Flags().BoolVar(&opts.Auto, "auto", false, "Approve every recommendation from a fresh analysis")
	cmd.Flags().StringVar(&opts.ChangeLogFile, "changelog", "", "Write the change log JSON to this file")

	cmd.MarkFlagRequired("input")

	return cmd
}

func runClean(ctx context.Context, opts *CleanOptions) error {
	if opts.OperationsFile == "" && !opts.Auto {
		return fmt.Errorf("either --operations or --auto is required")
	}

	ds, err := ingest.ReadCSVFile(opts.InputFile)
	if err != nil {
		return err
	}

	eng := engine.New(analysisConfig(), newLogger(opts.Verbose))

	var approved []models.ApprovedOperation
	if opts.Auto {
		report, err := eng.Analyze(ctx, ds)
		if err != nil {
			return err
		}
		for _, r := range report.Recommendations {
			approved = append(approved, models.ApprovedOperation{
				Operation: r.Operation,
				Column:    r.Column,
			})
		}
	} else {
		data, err := os.ReadFile(opts.OperationsFile)
		if err != nil {
			return fmt.Errorf("failed to read operations file: %w", err)
		}
		if err := json.Unmarshal(data, &approved); err != nil {
			return fmt.Errorf("failed to parse operations file: %w", err)
		}
	}

	result, err := eng.Clean(ctx, ds, approved)
	if err != nil {
		return err
	}

	out, err := openOutput(opts.OutputFile)
	if err != nil {
		return err
	}
	defer out.Close()
	if err := ingest.WriteCSV(out, result.Dataset); err != nil {
		return err
	}

	if opts.ChangeLogFile != "" {
		if err := writeJSONOutput(opts.ChangeLogFile, result.ChangeLog); err != nil {
			return err
		}
	}

	fmt.Fprintf(os.Stderr, "Cleaned %d -> %d rows, %d -> %d columns (%d operations)\n",
		result.Summary.OriginalRows, result.Summary.CleanedRows,
		result.Summary.OriginalColumns, result.Summary.CleanedColumns,
		result.Summary.Operations)

	return nil
}
