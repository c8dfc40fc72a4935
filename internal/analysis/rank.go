package analysis

import (
	"math"
	"sort"

	"github.com/KaramelBytes/datalens-cli/internal/dataset"
)

// ComparisonKind names the shape of a candidate pairing.
type ComparisonKind string

const (
	CategoricalNumeric     ComparisonKind = "categorical_numeric"
	CategoricalCategorical ComparisonKind = "categorical_categorical"
)

// Comparison is a candidate column pairing proposed for a chart. Score is
// only meaningful relative to other comparisons of the same dataset.
type Comparison struct {
	Primary   string         `json:"primary"`
	Secondary string         `json:"secondary"`
	Kind      ComparisonKind `json:"kind"`
	Score     float64        `json:"score"`
}

// RankComparisons classifies ds and returns the top limit comparisons by
// descending score. limit <= 0 uses th.ComparisonLimit.
func RankComparisons(ds *dataset.Dataset, limit int, th Thresholds) []Comparison {
	return RankClassified(ds, ClassifyColumns(ds, th), limit, th)
}

// RankClassified ranks comparisons over an existing classification.
//
// Categorical x numeric pairs score the spread of group means, categorical x
// categorical pairs score the number of distinct joint values. Pairs without
// signal are dropped. Equal scores keep generation order.
func RankClassified(ds *dataset.Dataset, cls Classification, limit int, th Thresholds) []Comparison {
	th = th.withDefaults()
	if ds.Empty() || cls.Empty() {
		return nil
	}
	if limit <= 0 {
		limit = th.ComparisonLimit
	}
	cats := capColumns(cls.Categorical(), th.MaxCandidateColumns)
	nums := capColumns(cls.Numeric(), th.MaxCandidateColumns)

	var out []Comparison
	for _, c := range cats {
		for _, n := range nums {
			if score, ok := meanSpread(groupNumeric(ds, c, n)); ok {
				out = append(out, Comparison{Primary: c, Secondary: n, Kind: CategoricalNumeric, Score: score})
			}
		}
	}
	for i := 0; i < len(cats); i++ {
		for j := i + 1; j < len(cats); j++ {
			combos := len(countPairs(ds, cats[i], cats[j]))
			if combos <= 1 {
				continue
			}
			out = append(out, Comparison{Primary: cats[i], Secondary: cats[j], Kind: CategoricalCategorical, Score: float64(combos)})
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

// meanSpread returns max(group mean) - min(group mean) when there are at
// least two groups and the spread is positive.
func meanSpread(groups []group) (float64, bool) {
	if len(groups) < 2 {
		return 0, false
	}
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, g := range groups {
		m := mean(g.values)
		if m < lo {
			lo = m
		}
		if m > hi {
			hi = m
		}
	}
	score := hi - lo
	if score <= 0 || math.IsNaN(score) || math.IsInf(score, 0) {
		return 0, false
	}
	return score, true
}

func capColumns(cols []string, n int) []string {
	if n > 0 && len(cols) > n {
		return cols[:n]
	}
	return cols
}
