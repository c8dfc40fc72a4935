package analysis

import "github.com/KaramelBytes/datalens-cli/internal/dataset"

// group is one grouping key with the numeric values collected under it.
type group struct {
	key    string
	values []float64
}

// groupNumeric folds the rows of ds into numeric value lists keyed by the
// text in cat, preserving first-seen key order. Rows with a blank or
// non-text key, or a non-numeric value, are left out of every group.
func groupNumeric(ds *dataset.Dataset, cat, num string) []group {
	if ds.Empty() {
		return nil
	}
	index := map[string]int{}
	var out []group
	for _, row := range ds.Rows {
		k, ok := row.Get(cat)
		if !ok {
			continue
		}
		key := k.Key()
		if key == "" {
			continue
		}
		v, ok := row.Get(num)
		if !ok {
			continue
		}
		x, ok := v.Float()
		if !ok {
			continue
		}
		i, seen := index[key]
		if !seen {
			i = len(out)
			index[key] = i
			out = append(out, group{key: key})
		}
		out[i].values = append(out[i].values, x)
	}
	return out
}

// pairCount is a joint (a, b) key combination with its frequency.
type pairCount struct {
	a, b  string
	count int
}

// countPairs tallies joint key combinations of two categorical columns in
// first-seen order. Rows where either key is blank are skipped.
func countPairs(ds *dataset.Dataset, colA, colB string) []pairCount {
	if ds.Empty() {
		return nil
	}
	index := map[[2]string]int{}
	var out []pairCount
	for _, row := range ds.Rows {
		va, okA := row.Get(colA)
		vb, okB := row.Get(colB)
		if !okA || !okB {
			continue
		}
		a, b := va.Key(), vb.Key()
		if a == "" || b == "" {
			continue
		}
		k := [2]string{a, b}
		i, seen := index[k]
		if !seen {
			i = len(out)
			index[k] = i
			out = append(out, pairCount{a: a, b: b})
		}
		out[i].count++
	}
	return out
}

func mean(values []float64) float64 {
	f, _ := decimalMean(values).Float64()
	return f
}
