package analysis

import (
	"fmt"

	"github.com/KaramelBytes/datalens-cli/internal/dataset"
)

// GenerateInsights classifies ds and summarizes it in short statements.
func GenerateInsights(ds *dataset.Dataset, th Thresholds) []string {
	return InsightsClassified(ds, ClassifyColumns(ds, th))
}

// InsightsClassified emits the record count first, then a sum/average line
// for every numeric column whose non-null values are all numbers. Columns
// holding any text are skipped entirely.
func InsightsClassified(ds *dataset.Dataset, cls Classification) []string {
	if ds.Empty() {
		return nil
	}
	out := []string{fmt.Sprintf("Total records: %d", ds.Len())}
	for _, col := range cls.Numeric() {
		vals, _ := ds.Column(col)
		if !isStrictlyNumericColumn(vals) {
			continue
		}
		var nums []float64
		for _, v := range vals {
			if x, ok := v.Float(); ok {
				nums = append(nums, x)
			}
		}
		out = append(out, fmt.Sprintf("%s: sum %s, average %s", col,
			decimalSum(nums).StringFixed(2), decimalMean(nums).StringFixed(2)))
	}
	return out
}

// GroupInsights describes each group of a categorical x numeric comparison,
// choosing the aggregation from that group's own values.
func GroupInsights(ds *dataset.Dataset, cmp Comparison, th Thresholds) []string {
	if cmp.Kind != CategoricalNumeric {
		return nil
	}
	var out []string
	for _, g := range groupNumeric(ds, cmp.Primary, cmp.Secondary) {
		agg := SelectAggregation(g.values, th)
		out = append(out, fmt.Sprintf("%s=%s: %s %s %s", cmp.Primary, g.key, agg, cmp.Secondary, agg.reduce(g.values).StringFixed(2)))
	}
	return out
}
