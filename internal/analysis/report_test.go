package analysis

import (
	"encoding/json"
	"math"
	"strings"
	"testing"

	"github.com/KaramelBytes/datalens-cli/internal/dataset"
)

func TestAnalyzeAndMarkdown(t *testing.T) {
	rep := Analyze("salaries.csv", salaryDataset(), DefaultOptions())
	if rep.ID == "" || rep.Rows != 4 || len(rep.Columns) != 2 {
		t.Fatalf("report = %+v", rep)
	}
	if len(rep.Comparisons) != 1 || len(rep.Charts) != 1 {
		t.Fatalf("comparisons = %d, charts = %d", len(rep.Comparisons), len(rep.Charts))
	}
	if rep.Charts[0].Aggregation != AggSum {
		t.Fatalf("chart aggregation = %s", rep.Charts[0].Aggregation)
	}
	if len(rep.GroupInsights) != 2 {
		t.Fatalf("group insights = %#v", rep.GroupInsights)
	}

	md := rep.Markdown()
	for _, want := range []string{
		"[DATASET SUMMARY]",
		"Source: salaries.csv",
		"Rows: 4",
		"- dept: categorical (non-null 4) — 2 categories",
		"- salary: numeric (non-null 4)",
		"1. dept × salary (categorical_numeric) score 4e+04",
		"- salary by dept (sum)",
		"• Sales: 105000",
		"- Total records: 4",
		"• dept=Eng: avg salary 92500.00",
	} {
		if !strings.Contains(md, want) {
			t.Fatalf("markdown missing %q:\n%s", want, md)
		}
	}
	if strings.Contains(md, "[NOTES]") {
		t.Fatalf("unexpected notes:\n%s", md)
	}
}

func TestAnalyzeEmptyDataset(t *testing.T) {
	rep := Analyze("empty.csv", &dataset.Dataset{Columns: []string{"a"}}, DefaultOptions())
	if len(rep.Comparisons) != 0 || len(rep.Charts) != 0 || len(rep.Insights) != 0 {
		t.Fatalf("empty report = %+v", rep)
	}
	if len(rep.Warnings) != 1 {
		t.Fatalf("warnings = %#v", rep.Warnings)
	}
}

func TestAnalyzeChartCapAndMalformedRows(t *testing.T) {
	ds := dataset.New([]string{"grp", "m1", "m2"}, []dataset.Row{
		{"grp": text("A"), "m1": num(10), "m2": num(0)},
		{"grp": text("A"), "m1": num(10), "m2": num(0)},
		{"grp": text("B"), "m1": num(15), "m2": num(10)},
		{"grp": text("B"), "m1": num(15)},
	})
	opt := DefaultOptions()
	opt.Thresholds.MaxCharts = 1
	rep := Analyze("capped", ds, opt)
	if len(rep.Comparisons) != 2 || len(rep.Charts) != 1 {
		t.Fatalf("comparisons = %d, charts = %d", len(rep.Comparisons), len(rep.Charts))
	}
	md := rep.Markdown()
	if !strings.Contains(md, "charts limited to 1 of 2 comparisons") {
		t.Fatalf("missing chart cap note:\n%s", md)
	}
	if !strings.Contains(md, "1 rows missing expected columns") {
		t.Fatalf("missing malformed row note:\n%s", md)
	}
}

func TestMemoReusesReports(t *testing.T) {
	m := NewMemo()
	first, hit := m.Analyze("a.csv", salaryDataset(), DefaultOptions())
	if hit {
		t.Fatalf("first lookup should miss")
	}
	second, hit := m.Analyze("b.csv", salaryDataset(), DefaultOptions())
	if !hit || m.Hits() != 1 || m.Len() != 1 {
		t.Fatalf("hit = %v, hits = %d, len = %d", hit, m.Hits(), m.Len())
	}
	if second.Name != "b.csv" || first.Name != "a.csv" {
		t.Fatalf("names = %q, %q", first.Name, second.Name)
	}
	if second.ID == first.ID || second.Fingerprint != first.Fingerprint {
		t.Fatalf("ids = %s, %s; fingerprints = %s, %s", first.ID, second.ID, first.Fingerprint, second.Fingerprint)
	}
	second.Charts[0].Points[0].Value = -1
	third, _ := m.Analyze("d.csv", salaryDataset(), DefaultOptions())
	if third.Charts[0].Points[0].Value != 105000 {
		t.Fatalf("cached report was mutated through a copy")
	}
	opt := DefaultOptions()
	opt.Limit = 1
	if _, hit := m.Analyze("c.csv", salaryDataset(), opt); hit {
		t.Fatalf("different limit should miss")
	}
}

func TestAnalyzeLargeValuesStaySerializable(t *testing.T) {
	ds := dataset.New([]string{"grp", "amount"}, []dataset.Row{
		{"grp": text("A"), "amount": num(1e308)},
		{"grp": text("A"), "amount": num(1e308)},
		{"grp": text("B"), "amount": num(1)},
	})
	rep := Analyze("big.json", ds, DefaultOptions())
	if _, err := json.Marshal(rep); err != nil {
		t.Fatalf("report not serializable: %v", err)
	}
	if len(rep.Charts) != 1 || len(rep.Charts[0].Points) != 1 || rep.Charts[0].Points[0].Label != "B" {
		t.Fatalf("charts = %+v, want only the finite B point", rep.Charts)
	}
	if v := rep.Columns[1].Numeric.Variance; v != math.MaxFloat64 {
		t.Fatalf("variance = %v, want saturated", v)
	}
}

func TestFormatValue(t *testing.T) {
	cases := map[float64]string{
		105000:  "105000",
		1234567: "1234567",
		52.5:    "52.50",
		1.875:   "1.88",
		-3:      "-3",
	}
	for in, want := range cases {
		if got := FormatValue(in); got != want {
			t.Fatalf("FormatValue(%v) = %q, want %q", in, got, want)
		}
	}
	if got := FormatValue(math.Inf(1)); got != "+Inf" {
		t.Fatalf("FormatValue(+Inf) = %q", got)
	}
}
