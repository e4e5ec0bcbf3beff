package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

// recommendCmd ranks a model's variants for the hardware flags.
var recommendCmd = &cobra.Command{
	Use:   "recommend <source/model-id>",
	Short: "Rank a model's variants for your hardware",
	Long: `Recommend analyzes the model and ranks its variants by a weighted
score over hardware fit, expected throughput, declared quality, and size.
Override the weights with --weights pointing at a YAML file:

  compat: 0.4
  performance: 0.3
  quality: 0.2
  size: 0.1`,
	Args: cobra.ExactArgs(1),
	RunE: runRecommend,
}

func init() {
	rootCmd.AddCommand(recommendCmd)
}

func runRecommend(cmd *cobra.Command, args []string) error {
	scout, err := newScout()
	if err != nil {
		return err
	}
	defer func() { _ = scout.Close() }()

	recs, err := scout.Recommend(cmd.Context(), args[0], callerIdentity())
	if err != nil {
		return err
	}

	return render(recs, func(w *tabwriter.Writer) {
		fmt.Fprintln(w, "RANK\tVARIANT\tSCORE\tSIZE\tRATIONALE")
		for i, rec := range recs {
			fmt.Fprintf(w, "%d\t%s\t%.3f\t%s\t%s\n",
				i+1, rec.Variant.ID, rec.Score,
				formatBytes(rec.Variant.SizeBytes), rec.Rationale)
		}
	})
}
