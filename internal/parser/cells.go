package parser

import (
	"fmt"
	"math"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/KaramelBytes/datalens-cli/internal/dataset"
)

func withFileDefaults(name string, opt Options) Options {
	if opt.Delimiter == 0 && strings.EqualFold(filepath.Ext(name), ".tsv") {
		opt.Delimiter = '\t'
	}
	return opt
}

// fromRecords builds a dataset from a header and string records. Short
// records are padded with nulls; cells beyond the header are dropped.
func fromRecords(header []string, records [][]string, opt Options) *dataset.Dataset {
	cols := headerNames(header)
	ds := &dataset.Dataset{Columns: cols}
	for _, rec := range records {
		if opt.MaxRows > 0 && len(ds.Rows) >= opt.MaxRows {
			break
		}
		if blankRecord(rec) {
			continue
		}
		row := make(dataset.Row, len(cols))
		for i, c := range cols {
			if i < len(rec) {
				row[c] = parseCell(rec[i], opt)
			} else {
				row[c] = dataset.Null()
			}
		}
		ds.Rows = append(ds.Rows, row)
	}
	return ds
}

// headerNames trims names, fills blanks and de-duplicates with a numeric suffix.
func headerNames(header []string) []string {
	out := make([]string, len(header))
	seen := map[string]int{}
	for i, h := range header {
		name := strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		if name == "" {
			name = fmt.Sprintf("column_%d", i+1)
		}
		if n := seen[name]; n > 0 {
			seen[name] = n + 1
			name = fmt.Sprintf("%s_%d", name, n+1)
		}
		seen[name]++
		out[i] = name
	}
	return out
}

func blankRecord(rec []string) bool {
	for _, v := range rec {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// parseCell maps a raw cell to a scalar: blank is null, anything numeric is
// a number, the rest is text.
func parseCell(raw string, opt Options) dataset.Scalar {
	v := strings.TrimSpace(raw)
	if v == "" {
		return dataset.Null()
	}
	if x, ok := parseNumeric(v, opt); ok {
		return dataset.Number(x)
	}
	return dataset.Text(v)
}

func parseNumeric(s string, opt Options) (float64, bool) {
	raw := strings.TrimSpace(s)
	raw = strings.TrimSuffix(raw, "%")
	raw = strings.ReplaceAll(raw, "\u00a0", " ")
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, false
	}
	dec := opt.DecimalSeparator
	thou := opt.ThousandsSeparator
	if dec == 0 {
		cpos := strings.LastIndex(raw, ",")
		dpos := strings.LastIndex(raw, ".")
		switch {
		case cpos >= 0 && dpos >= 0:
			if cpos > dpos {
				dec, thou = ',', '.'
			} else {
				dec, thou = '.', ','
			}
		case cpos >= 0 && commaGroups(raw):
			dec, thou = '.', ','
		case cpos >= 0:
			dec = ','
		default:
			dec = '.'
		}
	}
	if thou == 0 {
		for _, sep := range []rune{',', '.', ' '} {
			if sep != dec {
				raw = strings.ReplaceAll(raw, string(sep), "")
			}
		}
	} else if thou != dec {
		raw = strings.ReplaceAll(raw, string(thou), "")
	}
	if dec != '.' {
		raw = strings.ReplaceAll(raw, string(dec), ".")
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// commaGroups reports whether every comma-separated group after the first
// has exactly three digits, as in 12,345 or 1,234,567.
func commaGroups(s string) bool {
	parts := strings.Split(strings.TrimLeft(s, "+-"), ",")
	if len(parts) < 2 || len(parts[0]) == 0 || len(parts[0]) > 3 {
		return false
	}
	for _, p := range parts[1:] {
		if len(p) != 3 {
			return false
		}
		for _, r := range p {
			if r < '0' || r > '9' {
				return false
			}
		}
	}
	return true
}
