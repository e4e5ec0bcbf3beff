package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var trendingLimit int

// trendingCmd lists popular models across the configured sources.
var trendingCmd = &cobra.Command{
	Use:   "trending",
	Short: "List popular models across sources",
	Args:  cobra.NoArgs,
	RunE:  runTrending,
}

func init() {
	rootCmd.AddCommand(trendingCmd)
	trendingCmd.Flags().IntVarP(&trendingLimit, "limit", "n", 10, "models per source")
}

func runTrending(cmd *cobra.Command, _ []string) error {
	scout, err := newScout()
	if err != nil {
		return err
	}
	defer func() { _ = scout.Close() }()

	models, err := scout.Trending(cmd.Context(), trendingLimit, callerIdentity())
	if err != nil {
		return err
	}

	return render(models, func(w *tabwriter.Writer) {
		fmt.Fprintln(w, "KEY\tFAMILY\tDOWNLOADS\tLIKES")
		for i := range models {
			m := &models[i]
			fmt.Fprintf(w, "%s\t%s\t%d\t%d\n", m.Key(), m.Family, m.Downloads, m.Likes)
		}
	})
}
