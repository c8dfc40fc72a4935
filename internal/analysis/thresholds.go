package analysis

// Thresholds holds every heuristic constant used by the engine. Components
// receive it explicitly so tests and config can tune behavior.
type Thresholds struct {
	// IdentifierSubstrings excludes a column whose lowercased name contains any entry.
	IdentifierSubstrings []string `json:"identifier_substrings"`
	// NumericMajority is the fraction of rows that must hold numbers (strictly exceeded).
	NumericMajority float64 `json:"numeric_majority"`
	// MinCategories and MaxCategories bound the distinct text values of a categorical column.
	MinCategories int `json:"min_categories"`
	MaxCategories int `json:"max_categories"`
	// CountMaxCeiling and CountMaxSpread select count for small or bounded values.
	CountMaxCeiling float64 `json:"count_max_ceiling"`
	CountMaxSpread  float64 `json:"count_max_spread"`
	// AvgSpreadRatio selects avg when (max-min)/max falls below it.
	AvgSpreadRatio float64 `json:"avg_spread_ratio"`
	// ComparisonLimit is the default top-N for ranking.
	ComparisonLimit int `json:"comparison_limit"`
	// MaxCharts bounds how many chart series a report materializes.
	MaxCharts int `json:"max_charts"`
	// MaxCandidateColumns caps categorical and numeric columns entering the ranker; 0 means all.
	MaxCandidateColumns int `json:"max_candidate_columns"`
}

// DefaultThresholds returns the stock heuristic values.
func DefaultThresholds() Thresholds {
	return Thresholds{
		IdentifierSubstrings: []string{"id", "date", "email", "name", "code", "no", "index"},
		NumericMajority:      0.5,
		MinCategories:        2,
		MaxCategories:        40,
		CountMaxCeiling:      120,
		CountMaxSpread:       10,
		AvgSpreadRatio:       0.2,
		ComparisonLimit:      5,
		MaxCharts:            8,
	}
}

// withDefaults fills zero fields so a partially populated Thresholds still works.
func (t Thresholds) withDefaults() Thresholds {
	d := DefaultThresholds()
	if t.IdentifierSubstrings == nil {
		t.IdentifierSubstrings = d.IdentifierSubstrings
	}
	if t.NumericMajority <= 0 {
		t.NumericMajority = d.NumericMajority
	}
	if t.MinCategories <= 0 {
		t.MinCategories = d.MinCategories
	}
	if t.MaxCategories <= 0 {
		t.MaxCategories = d.MaxCategories
	}
	if t.CountMaxCeiling <= 0 {
		t.CountMaxCeiling = d.CountMaxCeiling
	}
	if t.CountMaxSpread <= 0 {
		t.CountMaxSpread = d.CountMaxSpread
	}
	if t.AvgSpreadRatio <= 0 {
		t.AvgSpreadRatio = d.AvgSpreadRatio
	}
	if t.ComparisonLimit <= 0 {
		t.ComparisonLimit = d.ComparisonLimit
	}
	if t.MaxCharts <= 0 {
		t.MaxCharts = d.MaxCharts
	}
	return t
}
