package cmd

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/KaramelBytes/datalens-cli/internal/analysis"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

const barWidth = 30

var (
	chIngest ingestFlags
	chLimit  int
)

var chartsCmd = &cobra.Command{
	Use:   "charts <file|url>",
	Short: "Render the chart series of the top comparisons as terminal tables",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c := effectiveConfig()
		popt, err := chIngest.options()
		if err != nil {
			return err
		}
		ds, _, err := loadDataset(cmd.Context(), cmd, c, args[0], popt)
		if err != nil {
			return err
		}
		rep := analysis.Analyze(args[0], ds, analysisOptions(c, chLimit))
		if len(rep.Charts) == 0 {
			warnf(cmd.ErrOrStderr(), "No comparisons found for %s", args[0])
			return nil
		}
		for i, s := range rep.Charts {
			if i > 0 {
				fmt.Fprintln(cmd.OutOrStdout())
			}
			renderSeries(cmd.OutOrStdout(), s)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(chartsCmd)
	chIngest.bind(chartsCmd)
	chartsCmd.Flags().IntVar(&chLimit, "limit", 0, "number of ranked comparisons (default from config)")
}

func renderSeries(w io.Writer, s analysis.ChartSeries) {
	cmp := s.Comparison
	if cmp.Kind == analysis.CategoricalNumeric {
		fmt.Fprintf(w, "%s by %s (%s)\n", cmp.Secondary, cmp.Primary, s.Aggregation)
	} else {
		fmt.Fprintf(w, "%s × %s (%s)\n", cmp.Primary, cmp.Secondary, s.Aggregation)
	}
	peak := 0.0
	for _, p := range s.Points {
		peak = math.Max(peak, math.Abs(p.Value))
	}
	t := tablewriter.NewWriter(w)
	t.SetHeader([]string{"Label", "Value", ""})
	t.SetAutoWrapText(false)
	t.SetColumnAlignment([]int{tablewriter.ALIGN_LEFT, tablewriter.ALIGN_RIGHT, tablewriter.ALIGN_LEFT})
	for _, p := range s.Points {
		t.Append([]string{p.Label, analysis.FormatValue(p.Value), bar(p.Value, peak)})
	}
	t.Render()
}

func bar(v, peak float64) string {
	if peak == 0 {
		return ""
	}
	n := int(math.Round(math.Abs(v) / peak * barWidth))
	return strings.Repeat("█", n)
}
