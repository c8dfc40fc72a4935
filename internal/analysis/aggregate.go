package analysis

import (
	"math"

	"github.com/shopspring/decimal"
)

// Aggregation is the reduction applied to grouped numeric values.
type Aggregation string

const (
	AggCount Aggregation = "count"
	AggSum   Aggregation = "sum"
	AggAvg   Aggregation = "avg"
)

// SelectAggregation picks count, avg or sum from the spread of values.
// Small or tightly bounded magnitudes read as counts, values clustered close
// to their scale are averaged, everything else is summed. Empty input is count.
func SelectAggregation(values []float64, th Thresholds) Aggregation {
	th = th.withDefaults()
	if len(values) == 0 {
		return AggCount
	}
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, v := range values {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	diff := hi - lo
	if hi <= th.CountMaxCeiling || diff <= th.CountMaxSpread {
		return AggCount
	}
	if diff/hi < th.AvgSpreadRatio {
		return AggAvg
	}
	return AggSum
}

// Apply reduces values with the aggregation. Count is the number of values.
// Results beyond the float64 range come back as ±Inf.
func (a Aggregation) Apply(values []float64) float64 {
	f, _ := a.reduce(values).Float64()
	return f
}

// reduce is Apply in exact decimal arithmetic, so sums of large finite
// values do not overflow.
func (a Aggregation) reduce(values []float64) decimal.Decimal {
	switch a {
	case AggSum:
		return decimalSum(values)
	case AggAvg:
		return decimalMean(values)
	default:
		return decimal.NewFromInt(int64(len(values)))
	}
}

func decimalSum(values []float64) decimal.Decimal {
	sum := decimal.Zero
	for _, v := range values {
		if finite(v) {
			sum = sum.Add(decimal.NewFromFloat(v))
		}
	}
	return sum
}

func decimalMean(values []float64) decimal.Decimal {
	if len(values) == 0 {
		return decimal.Zero
	}
	return decimalSum(values).Div(decimal.NewFromInt(int64(len(values))))
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
