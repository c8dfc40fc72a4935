package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/KaramelBytes/datalens-cli/internal/analysis"
	"github.com/KaramelBytes/datalens-cli/internal/utils"
	"github.com/spf13/cobra"
)

var (
	anaIngest     ingestFlags
	anaOutputPath string
	anaFormat     string
	anaLimit      int
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <file|url>",
	Short: "Profile a CSV/TSV/XLSX/JSON dataset and rank its comparisons",
	Example: `  datalens analyze sales.csv
  datalens analyze report.xlsx --sheet-name Q3 --format json -o q3.json
  datalens analyze https://example.com/export.csv --limit 3`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		src := args[0]
		c := effectiveConfig()
		popt, err := anaIngest.options()
		if err != nil {
			return err
		}
		format, err := resolveFormat(cmd, anaFormat, c.DefaultFormat)
		if err != nil {
			return err
		}
		ds, name, err := loadDataset(cmd.Context(), cmd, c, src, popt)
		if err != nil {
			return err
		}
		debugf(cmd, "parsed %s: %d rows, %d columns", name, ds.Len(), len(ds.Columns))

		start := time.Now()
		rep := analysis.Analyze(src, ds, analysisOptions(c, anaLimit))
		debugf(cmd, "analyzed in %s: %d comparisons, %d charts", time.Since(start).Round(time.Microsecond), len(rep.Comparisons), len(rep.Charts))
		out, err := renderReport(rep, format)
		if err != nil {
			return err
		}
		for _, w := range rep.Warnings {
			warnf(cmd.ErrOrStderr(), "%s", w)
		}

		if anaOutputPath != "" {
			if err := utils.SafeWriteFile(anaOutputPath, out); err != nil {
				return fmt.Errorf("write output: %w", err)
			}
			okf(cmd.ErrOrStderr(), "Wrote analysis to %s", anaOutputPath)
			return nil
		}
		fmt.Fprintln(cmd.OutOrStdout(), strings.TrimRight(string(out), "\n"))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
	anaIngest.bind(analyzeCmd)
	analyzeCmd.Flags().StringVarP(&anaOutputPath, "output", "o", "", "optional path to write the analysis")
	analyzeCmd.Flags().StringVarP(&anaFormat, "format", "f", "", "output format: markdown|json (default from config)")
	analyzeCmd.Flags().IntVar(&anaLimit, "limit", 0, "number of ranked comparisons (default from config)")
}

// resolveFormat validates the --format flag, falling back to the configured default.
func resolveFormat(cmd *cobra.Command, flagVal, def string) (string, error) {
	f := flagVal
	if !cmd.Flags().Changed("format") || f == "" {
		f = def
	}
	switch strings.ToLower(strings.TrimSpace(f)) {
	case "", "markdown", "md":
		return "markdown", nil
	case "json":
		return "json", nil
	default:
		return "", fmt.Errorf("unsupported --format: %s (use markdown|json)", f)
	}
}

func renderReport(rep *analysis.Report, format string) ([]byte, error) {
	if format == "json" {
		return utils.PrettyJSON(rep)
	}
	return []byte(rep.Markdown()), nil
}

func formatExt(format string) string {
	if format == "json" {
		return ".analysis.json"
	}
	return ".analysis.md"
}
