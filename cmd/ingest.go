package cmd

import (
	"context"
	"fmt"
	"strings"

	cfgpkg "github.com/KaramelBytes/datalens-cli/internal/config"
	"github.com/KaramelBytes/datalens-cli/internal/dataset"
	"github.com/KaramelBytes/datalens-cli/internal/fetch"
	"github.com/KaramelBytes/datalens-cli/internal/parser"
	"github.com/spf13/cobra"
)

// ingestFlags are the parsing flags shared by every command that reads a dataset.
type ingestFlags struct {
	delimiter  string
	decimal    string
	thousands  string
	maxRows    int
	sheetName  string
	sheetIndex int
}

func (f *ingestFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.delimiter, "delimiter", "", "CSV delimiter: ',' | ';' | 'tab'")
	cmd.Flags().StringVar(&f.decimal, "decimal", "", "decimal separator for numbers: '.'|'comma' (auto-detect if omitted)")
	cmd.Flags().StringVar(&f.thousands, "thousands", "", "thousands separator for numbers: ','|'.'|'space' (auto-detect if omitted)")
	cmd.Flags().IntVar(&f.maxRows, "max-rows", 100000, "maximum rows to process (0 = unlimited)")
	cmd.Flags().StringVar(&f.sheetName, "sheet-name", "", "XLSX: sheet name to analyze")
	cmd.Flags().IntVar(&f.sheetIndex, "sheet-index", 1, "XLSX: 1-based sheet index (used if --sheet-name not provided)")
}

func (f *ingestFlags) options() (parser.Options, error) {
	opt := parser.DefaultOptions()
	opt.MaxRows = f.maxRows
	opt.SheetName = f.sheetName
	if f.sheetIndex > 0 {
		opt.SheetIndex = f.sheetIndex
	}
	switch f.delimiter {
	case "":
	case ",":
		opt.Delimiter = ','
	case "\t", "tab":
		opt.Delimiter = '\t'
	case ";":
		opt.Delimiter = ';'
	case "|", "pipe":
		opt.Delimiter = '|'
	default:
		return opt, fmt.Errorf("unsupported --delimiter: %s", f.delimiter)
	}
	switch strings.ToLower(strings.TrimSpace(f.decimal)) {
	case ",", "comma":
		opt.DecimalSeparator = ','
	case ".", "dot":
		opt.DecimalSeparator = '.'
	case "":
	default:
		return opt, fmt.Errorf("unsupported --decimal: %s (use '.'|'comma')", f.decimal)
	}
	switch strings.ToLower(f.thousands) {
	case ",":
		opt.ThousandsSeparator = ','
	case ".":
		opt.ThousandsSeparator = '.'
	case "space", " ":
		opt.ThousandsSeparator = ' '
	case "":
	default:
		return opt, fmt.Errorf("unsupported --thousands: %s (use ','|'.'|'space')", f.thousands)
	}
	return opt, nil
}

// loadDataset reads src from disk, or downloads it when src is an http(s) URL.
// The returned name is the file name used to pick a parser.
func loadDataset(ctx context.Context, cmd *cobra.Command, c *cfgpkg.Global, src string, opt parser.Options) (*dataset.Dataset, string, error) {
	if !fetch.IsURL(src) {
		ds, err := parser.ParseFile(src, opt)
		return ds, src, err
	}
	res, err := newFetchClient(c).Get(ctx, src)
	if err != nil {
		return nil, "", err
	}
	debugf(cmd, "fetched %s (%d bytes, %s) as %s", src, len(res.Body), res.ContentType, res.Name)
	ds, err := parser.ParseBytes(res.Name, res.Body, opt)
	return ds, res.Name, err
}
