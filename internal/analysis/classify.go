package analysis

import (
	"math"
	"strings"

	"github.com/KaramelBytes/datalens-cli/internal/dataset"
)

// Role is the semantic role assigned to a column.
type Role string

const (
	RoleIdentifier  Role = "identifier"
	RoleNumeric     Role = "numeric"
	RoleCategorical Role = "categorical"
	RoleLabel       Role = "label"
	RoleIgnored     Role = "ignored"
)

// NumericSummary describes the non-null numeric values of a column.
type NumericSummary struct {
	Count    int     `json:"count"`
	Min      float64 `json:"min"`
	Max      float64 `json:"max"`
	Mean     float64 `json:"mean"`
	Variance float64 `json:"variance"`
}

// ColumnProfile is the classifier output for one column.
type ColumnProfile struct {
	Name string `json:"name"`
	Role Role   `json:"role"`
	// Excluded is set when the name matched an identifier substring.
	Excluded bool `json:"excluded,omitempty"`
	NonNull  int  `json:"non_null"`
	// Missing counts rows that do not carry the column at all.
	Missing     int             `json:"missing,omitempty"`
	Numbers     int             `json:"numbers"`
	Texts       int             `json:"texts"`
	Numeric     *NumericSummary `json:"numeric,omitempty"`
	Cardinality int             `json:"cardinality,omitempty"`
}

// Classification maps every column of a dataset to its profile.
type Classification struct {
	Columns  []string                 `json:"columns"`
	Profiles map[string]ColumnProfile `json:"profiles"`
	// Label is the first text-typed column, used for display; "" when none.
	Label string `json:"label,omitempty"`
}

// Profile returns the profile of col.
func (c Classification) Profile(col string) (ColumnProfile, bool) {
	p, ok := c.Profiles[col]
	return p, ok
}

// ByRole lists the columns holding role, in column order.
func (c Classification) ByRole(role Role) []string {
	var out []string
	for _, name := range c.Columns {
		if p, ok := c.Profiles[name]; ok && p.Role == role {
			out = append(out, name)
		}
	}
	return out
}

func (c Classification) Numeric() []string     { return c.ByRole(RoleNumeric) }
func (c Classification) Categorical() []string { return c.ByRole(RoleCategorical) }

// Empty reports whether nothing was classified.
func (c Classification) Empty() bool { return len(c.Profiles) == 0 }

// colAcc accumulates one column in a single pass.
type colAcc struct {
	nonNull   int
	missing   int
	numbers   int
	texts     int
	firstText bool
	seenFirst bool
	// Welford
	n    int
	mean float64
	m2   float64
	min  float64
	max  float64
	cats map[string]struct{}
}

func newColAcc() *colAcc {
	return &colAcc{min: math.Inf(1), max: math.Inf(-1), cats: map[string]struct{}{}}
}

func (a *colAcc) add(v dataset.Scalar) {
	switch v.Kind() {
	case dataset.KindNumber:
		x, _ := v.Float()
		a.nonNull++
		a.numbers++
		a.seenFirst = true
		a.n++
		if x < a.min {
			a.min = x
		}
		if x > a.max {
			a.max = x
		}
		n := float64(a.n)
		prev := a.mean
		a.mean += x/n - prev/n
		a.m2 += (x - prev) * (x - a.mean)
	case dataset.KindText:
		k := v.Key()
		if k == "" {
			return
		}
		a.nonNull++
		a.texts++
		if !a.seenFirst {
			a.seenFirst = true
			a.firstText = true
		}
		a.cats[k] = struct{}{}
	}
}

func (a *colAcc) summary() *NumericSummary {
	if a.n == 0 {
		return nil
	}
	s := &NumericSummary{Count: a.n, Min: a.min, Max: a.max, Mean: a.mean}
	if a.n > 1 {
		s.Variance = a.m2 / float64(a.n-1)
	}
	// spreads wider than float64 saturate instead of turning into Inf
	if math.IsInf(s.Variance, 0) || math.IsNaN(s.Variance) {
		s.Variance = math.MaxFloat64
	}
	return s
}

// ClassifyColumns assigns a role to every column of ds. An empty dataset
// yields an empty classification.
func ClassifyColumns(ds *dataset.Dataset, th Thresholds) Classification {
	th = th.withDefaults()
	out := Classification{Profiles: map[string]ColumnProfile{}}
	if ds.Empty() {
		return out
	}
	out.Columns = append([]string(nil), ds.Columns...)

	accs := make([]*colAcc, len(ds.Columns))
	for i := range accs {
		accs[i] = newColAcc()
	}
	for _, row := range ds.Rows {
		for i, col := range ds.Columns {
			v, ok := row.Get(col)
			if !ok {
				accs[i].missing++
				continue
			}
			accs[i].add(v)
		}
	}

	total := len(ds.Rows)
	for i, col := range ds.Columns {
		a := accs[i]
		p := ColumnProfile{
			Name:    col,
			NonNull: a.nonNull,
			Missing: a.missing,
			Numbers: a.numbers,
			Texts:   a.texts,
		}
		switch {
		case isIdentifierName(col, th.IdentifierSubstrings):
			p.Role = RoleIdentifier
			p.Excluded = true
		case isMajorityNumericColumn(a.numbers, total, th):
			p.Role = RoleNumeric
			p.Numeric = a.summary()
		case len(a.cats) >= th.MinCategories && len(a.cats) <= th.MaxCategories:
			p.Role = RoleCategorical
			p.Cardinality = len(a.cats)
		default:
			p.Role = RoleIgnored
		}
		if out.Label == "" && a.firstText {
			out.Label = col
			if p.Role == RoleIdentifier || p.Role == RoleIgnored {
				p.Role = RoleLabel
			}
		}
		out.Profiles[col] = p
	}
	return out
}

// isIdentifierName reports whether the lowercased column name contains any
// identifier substring. Exclusion wins over every value-based rule.
func isIdentifierName(name string, subs []string) bool {
	lower := strings.ToLower(name)
	for _, s := range subs {
		if s != "" && strings.Contains(lower, s) {
			return true
		}
	}
	return false
}

// isMajorityNumericColumn is the classifier's numeric rule: more than
// NumericMajority of all rows hold a number. Nulls and missing cells count
// against the column.
func isMajorityNumericColumn(numbers, totalRows int, th Thresholds) bool {
	if totalRows == 0 {
		return false
	}
	return float64(numbers)/float64(totalRows) > th.NumericMajority
}

// isStrictlyNumericColumn is the insight rule: every non-null value is a
// number and there is at least one. It is intentionally stricter than
// isMajorityNumericColumn; a column may be classified numeric yet fail here.
func isStrictlyNumericColumn(values []dataset.Scalar) bool {
	seen := false
	for _, v := range values {
		switch v.Kind() {
		case dataset.KindNull:
			continue
		case dataset.KindNumber:
			seen = true
		default:
			if v.Key() == "" {
				continue
			}
			return false
		}
	}
	return seen
}
