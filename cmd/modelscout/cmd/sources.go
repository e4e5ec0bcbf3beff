package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/agentstation/modelscout/internal/sources/registry"
	"github.com/agentstation/modelscout/pkg/catalogs"
)

// sourcesCmd lists the source adapters this build knows about.
var sourcesCmd = &cobra.Command{
	Use:   "sources",
	Short: "List available source adapters",
	Args:  cobra.NoArgs,
	RunE: func(_ *cobra.Command, _ []string) error {
		tokens := sourceTokens()
		ids := registry.List()
		return render(ids, func(w *tabwriter.Writer) {
			fmt.Fprintln(w, "SOURCE\tAUTH")
			for _, id := range ids {
				auth := "none"
				if _, ok := tokens[string(id)]; ok {
					auth = "token"
				} else if id == catalogs.SourceGoogleAI {
					auth = "required (GEMINI_API_KEY)"
				}
				fmt.Fprintf(w, "%s\t%s\n", id, auth)
			}
		})
	},
}

func init() {
	rootCmd.AddCommand(sourcesCmd)
}
