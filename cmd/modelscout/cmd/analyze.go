package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

// analyzeCmd classifies a model's variants against the hardware flags.
var analyzeCmd = &cobra.Command{
	Use:   "analyze <source/model-id>",
	Short: "Analyze model compatibility with your hardware",
	Long: `Analyze fetches the model's variants and classifies each against the
hardware described by --vram, --ram, --gpu-class, and --cpu-class.

Example:
  modelscout analyze huggingface/TheBloke/Llama-2-7B-Chat-GGUF --vram 12 --gpu-class high-end`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	scout, err := newScout()
	if err != nil {
		return err
	}
	defer func() { _ = scout.Close() }()

	result, err := scout.Analyze(cmd.Context(), args[0], callerIdentity())
	if err != nil {
		return err
	}

	return render(result, func(w *tabwriter.Writer) {
		fmt.Fprintf(w, "%s: %s\n\n", result.ModelKey, result.Level)
		fmt.Fprintln(w, "VARIANT\tLEVEL\tSIZE\tVRAM\tRAM\tTOKENS/S")
		for _, vc := range result.Variants {
			tps := "-"
			if vc.Estimate != nil {
				tps = fmt.Sprintf("%.0f-%.0f", vc.Estimate.TokensPerSecMin, vc.Estimate.TokensPerSecMax)
			}
			marker := ""
			if result.Recommended != nil && vc.Variant.ID == result.Recommended.ID {
				marker = " *"
			}
			fmt.Fprintf(w, "%s%s\t%s\t%s\t%s\t%s\t%s\n",
				vc.Variant.ID, marker, vc.Level,
				formatBytes(vc.Variant.SizeBytes),
				formatBytes(vc.RequiredVRAM),
				formatBytes(vc.RequiredRAM),
				tps)
		}
		for _, warning := range result.Warnings {
			fmt.Fprintf(w, "\nwarning: %s", warning.Message)
		}
		fmt.Fprintln(w)
	})
}
