package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/KaramelBytes/datalens-cli/internal/analysis"
	"github.com/KaramelBytes/datalens-cli/internal/parser"
	"github.com/KaramelBytes/datalens-cli/internal/utils"
	"github.com/spf13/cobra"
)

var (
	abIngest ingestFlags
	abOutDir string
	abFormat string
	abLimit  int
	abQuiet  bool
)

var analyzeBatchCmd = &cobra.Command{
	Use:   "analyze-batch <files...>",
	Short: "Analyze multiple datasets with progress, writing one report per file",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		files := expandInputs(args)
		if len(files) == 0 {
			return fmt.Errorf("no input files matched")
		}
		c := effectiveConfig()
		popt, err := abIngest.options()
		if err != nil {
			return err
		}
		format, err := resolveFormat(cmd, abFormat, c.DefaultFormat)
		if err != nil {
			return err
		}
		if err := utils.EnsureDir(abOutDir); err != nil {
			return fmt.Errorf("create out dir: %w", err)
		}
		aopt := analysisOptions(c, abLimit)
		memo := analysis.NewMemo()
		stderr := cmd.ErrOrStderr()

		total := len(files)
		for i, path := range files {
			if !abQuiet {
				fmt.Fprintf(stderr, "[%d/%d] Processing %s...\n", i+1, total, filepath.Base(path))
			}
			ds, _, err := loadDataset(cmd.Context(), cmd, c, path, popt)
			if err != nil {
				return err
			}
			rep, cached := memo.Analyze(path, ds, aopt)
			if cached {
				debugf(cmd, "%s matches an earlier input, reusing its analysis", path)
			}
			out, err := renderReport(rep, format)
			if err != nil {
				return err
			}
			stem := utils.BaseName(path)
			dest := utils.UniquePath(abOutDir, stem, formatExt(format))
			if dest != filepath.Join(abOutDir, stem+formatExt(format)) && !abQuiet {
				warnf(stderr, "Detected existing report, writing to %s to avoid overwrite.", filepath.Base(dest))
			}
			if err := utils.SafeWriteFile(dest, out); err != nil {
				return fmt.Errorf("write report: %w", err)
			}
			if !abQuiet {
				for _, w := range rep.Warnings {
					warnf(stderr, "%s: %s", filepath.Base(path), w)
				}
				okf(stderr, "Wrote %s", dest)
			}
		}
		if !abQuiet {
			okf(stderr, "Analyzed %d files (%d reused)", total, memo.Hits())
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(analyzeBatchCmd)
	abIngest.bind(analyzeBatchCmd)
	analyzeBatchCmd.Flags().StringVar(&abOutDir, "out-dir", ".", "directory for the generated reports")
	analyzeBatchCmd.Flags().StringVarP(&abFormat, "format", "f", "", "output format: markdown|json (default from config)")
	analyzeBatchCmd.Flags().IntVar(&abLimit, "limit", 0, "number of ranked comparisons (default from config)")
	analyzeBatchCmd.Flags().BoolVar(&abQuiet, "quiet", false, "suppress progress and non-essential output")
}

// expandInputs resolves globs and literal paths, de-duplicated and sorted.
// Files without a registered parser are skipped.
func expandInputs(args []string) []string {
	var files []string
	seen := map[string]struct{}{}
	for _, arg := range args {
		matches, _ := filepath.Glob(arg)
		if len(matches) == 0 {
			// treat as literal path if exists
			if _, err := os.Stat(arg); err == nil {
				matches = []string{arg}
			}
		}
		for _, m := range matches {
			if _, ok := seen[m]; ok || !parser.Supported(m) {
				continue
			}
			seen[m] = struct{}{}
			files = append(files, m)
		}
	}
	sort.Strings(files)
	return files
}
