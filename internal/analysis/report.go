package analysis

import (
	"fmt"
	"strings"

	"github.com/KaramelBytes/datalens-cli/internal/dataset"
	"github.com/google/uuid"
)

// Options controls a full analysis run.
type Options struct {
	Thresholds Thresholds
	// Limit is the number of ranked comparisons; 0 uses Thresholds.ComparisonLimit.
	Limit int
}

// DefaultOptions returns reasonable defaults for dataset analysis.
func DefaultOptions() Options {
	return Options{Thresholds: DefaultThresholds()}
}

func (o Options) limit() int {
	if o.Limit > 0 {
		return o.Limit
	}
	return o.Thresholds.withDefaults().ComparisonLimit
}

// Report bundles every engine output for one dataset snapshot.
type Report struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	Rows          int             `json:"rows"`
	Fingerprint   string          `json:"fingerprint"`
	Columns       []ColumnProfile `json:"columns"`
	Label         string          `json:"label,omitempty"`
	Comparisons   []Comparison    `json:"comparisons"`
	Charts        []ChartSeries   `json:"charts"`
	Insights      []string        `json:"insights"`
	GroupInsights []string        `json:"group_insights,omitempty"`
	Warnings      []string        `json:"warnings,omitempty"`
}

// Analyze runs the classifier, ranker, chart builder and insight generator
// over ds. It never fails; an empty dataset produces an empty report.
func Analyze(name string, ds *dataset.Dataset, opt Options) *Report {
	th := opt.Thresholds.withDefaults()
	rep := &Report{
		ID:          uuid.NewString(),
		Name:        name,
		Rows:        ds.Len(),
		Fingerprint: ds.Fingerprint(),
	}
	if ds.Empty() {
		rep.Warnings = append(rep.Warnings, "dataset has no rows")
		return rep
	}
	cls := ClassifyColumns(ds, th)
	for _, col := range cls.Columns {
		rep.Columns = append(rep.Columns, cls.Profiles[col])
	}
	rep.Label = cls.Label

	rep.Comparisons = RankClassified(ds, cls, opt.limit(), th)
	for i, c := range rep.Comparisons {
		if i >= th.MaxCharts {
			rep.Warnings = append(rep.Warnings, fmt.Sprintf("charts limited to %d of %d comparisons", th.MaxCharts, len(rep.Comparisons)))
			break
		}
		if s := BuildChartSeries(ds, c, th); !s.Empty() {
			rep.Charts = append(rep.Charts, s)
		}
	}

	rep.Insights = InsightsClassified(ds, cls)
	for _, c := range rep.Comparisons {
		if c.Kind == CategoricalNumeric {
			rep.GroupInsights = GroupInsights(ds, c, th)
			break
		}
	}
	if n := ds.MalformedRows(); n > 0 {
		rep.Warnings = append(rep.Warnings, fmt.Sprintf("%d rows missing expected columns were skipped for those columns", n))
	}
	return rep
}

// Markdown renders a compact report suitable for terminals or standalone docs.
func (r *Report) Markdown() string {
	var b strings.Builder
	b.WriteString("[DATASET SUMMARY]\n")
	if r.Name != "" {
		b.WriteString(fmt.Sprintf("Source: %s\n", r.Name))
	}
	b.WriteString(fmt.Sprintf("Rows: %d\n", r.Rows))
	b.WriteString(fmt.Sprintf("Columns: %d\n", len(r.Columns)))
	if r.Label != "" {
		b.WriteString(fmt.Sprintf("Label column: %s\n", r.Label))
	}

	if len(r.Columns) > 0 {
		b.WriteString("\n[COLUMNS]\n")
		for _, c := range r.Columns {
			b.WriteString(fmt.Sprintf("- %s: %s (non-null %d)", safeName(c.Name), c.Role, c.NonNull))
			switch {
			case c.Numeric != nil:
				b.WriteString(fmt.Sprintf(" — min %.4g, max %.4g, mean %.4g, variance %.4g", c.Numeric.Min, c.Numeric.Max, c.Numeric.Mean, c.Numeric.Variance))
			case c.Role == RoleCategorical:
				b.WriteString(fmt.Sprintf(" — %d categories", c.Cardinality))
			}
			b.WriteString("\n")
		}
	}

	if len(r.Comparisons) > 0 {
		b.WriteString("\n[COMPARISONS]\n")
		for i, c := range r.Comparisons {
			b.WriteString(fmt.Sprintf("%d. %s × %s (%s) score %.4g\n", i+1, c.Primary, c.Secondary, c.Kind, c.Score))
		}
	}

	if len(r.Charts) > 0 {
		b.WriteString("\n[CHARTS]\n")
		for _, s := range r.Charts {
			b.WriteString(fmt.Sprintf("- %s by %s (%s)\n", s.Comparison.Secondary, s.Comparison.Primary, s.Aggregation))
			for _, p := range s.Points {
				b.WriteString(fmt.Sprintf("  • %s: %s\n", safeVal(p.Label), FormatValue(p.Value)))
			}
		}
	}

	if len(r.Insights) > 0 || len(r.GroupInsights) > 0 {
		b.WriteString("\n[INSIGHTS]\n")
		for _, s := range r.Insights {
			b.WriteString("- " + s + "\n")
		}
		for _, s := range r.GroupInsights {
			b.WriteString("  • " + s + "\n")
		}
	}

	if len(r.Warnings) > 0 {
		b.WriteString("\n[NOTES]\n")
		for _, w := range r.Warnings {
			b.WriteString("- ")
			b.WriteString(w)
			b.WriteString("\n")
		}
	}
	return b.String()
}

func safeName(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "(unnamed)"
	}
	return s
}

func safeVal(s string) string { return strings.ReplaceAll(strings.ReplaceAll(s, "\n", " "), "|", "/") }
