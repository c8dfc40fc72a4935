package analysis

import (
	"strconv"

	"github.com/KaramelBytes/datalens-cli/internal/dataset"
	"github.com/shopspring/decimal"
)

// ChartPoint is one bar of a chart series.
type ChartPoint struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

// ChartSeries is a grouped, aggregated series ready for a bar chart. Points
// keep the first-occurrence order of their grouping key.
type ChartSeries struct {
	Comparison  Comparison   `json:"comparison"`
	Aggregation Aggregation  `json:"aggregation"`
	Points      []ChartPoint `json:"points"`
}

// Empty reports whether the series has nothing to draw.
func (s ChartSeries) Empty() bool { return len(s.Points) == 0 }

// BuildChartSeries materializes cmp over ds.
//
// For categorical x numeric, one aggregation is selected from all values
// that reach a group, so the series stays single-typed, and applied per
// group; points that overflow float64 are dropped. For categorical x
// categorical, each distinct (a, b) pair becomes a count point labelled
// "a / b".
func BuildChartSeries(ds *dataset.Dataset, cmp Comparison, th Thresholds) ChartSeries {
	out := ChartSeries{Comparison: cmp, Aggregation: AggCount}
	if ds.Empty() {
		return out
	}
	switch cmp.Kind {
	case CategoricalNumeric:
		groups := groupNumeric(ds, cmp.Primary, cmp.Secondary)
		var pooled []float64
		for _, g := range groups {
			pooled = append(pooled, g.values...)
		}
		out.Aggregation = SelectAggregation(pooled, th)
		for _, g := range groups {
			if v := out.Aggregation.Apply(g.values); finite(v) {
				out.Points = append(out.Points, ChartPoint{Label: g.key, Value: v})
			}
		}
	case CategoricalCategorical:
		for _, p := range countPairs(ds, cmp.Primary, cmp.Secondary) {
			out.Points = append(out.Points, ChartPoint{Label: p.a + " / " + p.b, Value: float64(p.count)})
		}
	}
	return out
}

// FormatValue renders a chart value for display: whole numbers without a
// fraction, everything else with two decimals.
func FormatValue(f float64) string {
	if !finite(f) {
		return strconv.FormatFloat(f, 'g', -1, 64)
	}
	d := decimal.NewFromFloat(f)
	if d.IsInteger() {
		return d.String()
	}
	return d.StringFixed(2)
}
