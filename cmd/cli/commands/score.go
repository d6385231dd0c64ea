package commands

import (
	"context"
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/cleansight/cleansight/internal/engine"
	"github.com/cleansight/cleansight/internal/ingest"
	"github.com/cleansight/cleansight/pkg/models"
)

type ScoreOptions struct {
	InputFile    string
	OutputFormat string
	Verbose      bool
}

func NewScoreCmd() *cobra.Command {
	opts := &ScoreOptions{}

	cmd := &cobra.Command{
		Use:   "score",
		Short: "Compute the quality score of a CSV dataset",
		Example: `  cleansight score --input customers.csv

  # Breakdown as JSON
  cleansight score --input customers.csv --format json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Verbose, _ = cmd.Flags().GetBool("verbose")
			return runScore(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVarP(&opts.InputFile, "input", "i", "", "Input CSV file (required)")
	cmd.Flags().StringVar(&opts.OutputFormat, "format", "text", "Output format (text, json)")

	cmd.MarkFlagRequired("input")

	return cmd
}

func runScore(ctx context.Context, opts *ScoreOptions) error {
	ds, err := ingest.ReadCSVFile(opts.InputFile)
	if err != nil {
		return err
	}

	eng := engine.New(analysisConfig(), newLogger(opts.Verbose))
	score, err := eng.Score(ctx, ds)
	if err != nil {
		return err
	}

	if opts.OutputFormat == "json" {
		return writeJSONOutput("-", score)
	}

	fmt.Printf("Quality Score: %d/100\n", score.Score)
	types := make([]string, 0, len(score.Breakdown))
	for t := range score.Breakdown {
		types = append(types, string(t))
	}
	sort.Strings(types)
	for _, t := range types {
		fmt.Printf("- %-22s penalty %.2f\n", t, score.Breakdown[models.ProblemType(t)])
	}
	return nil
}
