package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/agentstation/modelscout/pkg/catalogs"
)

var (
	searchCategory string
	searchTask     string
	searchMaxGB    float64
	searchFormats  []string
	searchQuants   []string
	searchSort     string
	searchOffset   int
	searchLimit    int
)

// searchCmd queries the configured sources and prints the merged results.
var searchCmd = &cobra.Command{
	Use:   "search [text]",
	Short: "Search model catalogs",
	Long: `Search the configured model catalogs and print the merged, filtered
results. Variant filters (--max-size, --format, --quant) drop models with no
matching variant; facet counts in verbose output show what each filter
excluded.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSearch,
}

func init() {
	rootCmd.AddCommand(searchCmd)

	searchCmd.Flags().StringVar(&searchCategory, "category", "", "category filter (e.g. chat, code)")
	searchCmd.Flags().StringVar(&searchTask, "task", "", "task filter (e.g. text-generation)")
	searchCmd.Flags().Float64Var(&searchMaxGB, "max-size", 0, "variant size ceiling in GiB (0 = unbounded)")
	searchCmd.Flags().StringSliceVar(&searchFormats, "format", nil, "variant format filter (gguf, gptq, awq, safetensors, onnx)")
	searchCmd.Flags().StringSliceVar(&searchQuants, "quant", nil, "quantization filter (e.g. q4_k, q8_0, fp16)")
	searchCmd.Flags().StringVar(&searchSort, "sort", "relevance", "sort order (relevance, downloads, likes, name, size)")
	searchCmd.Flags().IntVar(&searchOffset, "offset", 0, "pagination offset")
	searchCmd.Flags().IntVar(&searchLimit, "limit", 0, "page size")
}

func runSearch(cmd *cobra.Command, args []string) error {
	scout, err := newScout()
	if err != nil {
		return err
	}
	defer func() { _ = scout.Close() }()

	query := catalogs.SearchQuery{
		Category:     searchCategory,
		Task:         searchTask,
		MaxSizeBytes: gib(searchMaxGB),
		Sort:         catalogs.SortOrder(searchSort),
		Offset:       searchOffset,
		Limit:        searchLimit,
	}
	if len(args) > 0 {
		query.Text = args[0]
	}
	for _, f := range searchFormats {
		query.Formats = append(query.Formats, catalogs.VariantFormat(f))
	}
	for _, q := range searchQuants {
		query.Quantizations = append(query.Quantizations, catalogs.ParseQuantization(q))
	}

	result, err := scout.Search(cmd.Context(), query, callerIdentity())
	if err != nil {
		return err
	}

	return render(result, func(w *tabwriter.Writer) {
		fmt.Fprintln(w, "KEY\tFAMILY\tVARIANTS\tDOWNLOADS\tLIKES")
		for i := range result.Models {
			m := &result.Models[i]
			fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%d\n",
				m.Key(), m.Family, len(m.Variants), m.Downloads, m.Likes)
		}
		fmt.Fprintf(w, "\n%d of %d models", len(result.Models), result.TotalBeforePaging)
		if result.Partial {
			fmt.Fprintf(w, " (partial: %v unavailable)", result.IncompleteSources)
		}
		fmt.Fprintln(w)
	})
}
