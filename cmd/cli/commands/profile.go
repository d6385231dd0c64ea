package commands

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/cleansight/cleansight/internal/engine"
	"github.com/cleansight/cleansight/internal/ingest"
)

type ProfileOptions struct {
	InputFile  string
	OutputFile string
	Verbose    bool
}

func NewProfileCmd() *cobra.Command {
	opts := &ProfileOptions{}

	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Profile the columns of a CSV dataset",
		Long: `Compute per-column statistics and inferred semantic types without running
the problem detectors.`,
		Example: `  cleansight profile --input customers.csv`,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Verbose, _ = cmd.Flags().GetBool("verbose")
			return runProfile(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVarP(&opts.InputFile, "input", "i", "", "Input CSV file (required)")
	cmd.Flags().StringVarP(&opts.OutputFile, "output", "o", "-", "Output file (- for stdout)")

	cmd.MarkFlagRequired("input")

	return cmd
}

func runProfile(ctx context.Context, opts *ProfileOptions) error {
	ds, err := ingest.ReadCSVFile(opts.InputFile)
	if err != nil {
		return err
	}

	eng := engine.New(analysisConfig(), newLogger(opts.Verbose))
	profiles, err := eng.Profile(ctx, ds)
	if err != nil {
		return err
	}

	return writeJSONOutput(opts.OutputFile, profiles)
}
