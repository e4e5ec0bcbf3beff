package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/goccy/go-yaml"
)

// render writes v to stdout in the format selected by --output. The table
// callback handles the human-readable default.
func render(v any, table func(w *tabwriter.Writer)) error {
	switch outputFmt {
	case "json":
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		return encoder.Encode(v)
	case "yaml":
		data, err := yaml.Marshal(v)
		if err != nil {
			return err
		}
		_, err = os.Stdout.Write(data)
		return err
	case "table", "":
		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		table(w)
		return w.Flush()
	default:
		return fmt.Errorf("unknown output format %q", outputFmt)
	}
}

// formatBytes renders a byte count in a human-readable unit.
func formatBytes(n int64) string {
	const gb = float64(1 << 30)
	if n <= 0 {
		return "-"
	}
	if float64(n) < gb {
		return fmt.Sprintf("%.0fMB", float64(n)/float64(1<<20))
	}
	return fmt.Sprintf("%.1fGB", float64(n)/gb)
}
