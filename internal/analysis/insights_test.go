package analysis

import (
	"reflect"
	"strings"
	"testing"

	"github.com/KaramelBytes/datalens-cli/internal/dataset"
)

func TestGenerateInsightsSalary(t *testing.T) {
	got := GenerateInsights(salaryDataset(), DefaultThresholds())
	want := []string{
		"Total records: 4",
		"salary: sum 290000.00, average 72500.00",
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("insights = %#v, want %#v", got, want)
	}
}

func TestInsightsSkipMixedColumns(t *testing.T) {
	ds := dataset.New([]string{"region", "units", "price"}, []dataset.Row{
		{"region": text("N"), "units": num(1), "price": num(2.5)},
		{"region": text("S"), "units": num(2), "price": dataset.Null()},
		{"region": text("N"), "units": text("three"), "price": num(1.25)},
	})
	cls := ClassifyColumns(ds, DefaultThresholds())
	if p, _ := cls.Profile("units"); p.Role != RoleNumeric {
		t.Fatalf("units should classify numeric by majority, got %s", p.Role)
	}
	got := InsightsClassified(ds, cls)
	want := []string{
		"Total records: 3",
		"price: sum 3.75, average 1.88",
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("insights = %#v, want %#v", got, want)
	}
}

func TestInsightsEmpty(t *testing.T) {
	if got := GenerateInsights(&dataset.Dataset{}, DefaultThresholds()); len(got) != 0 {
		t.Fatalf("empty dataset insights = %#v", got)
	}
}

func TestGroupInsightsChooseAggregationPerGroup(t *testing.T) {
	cmp := Comparison{Primary: "dept", Secondary: "salary", Kind: CategoricalNumeric}
	got := GroupInsights(salaryDataset(), cmp, DefaultThresholds())
	want := []string{
		"dept=Sales: avg salary 52500.00",
		"dept=Eng: avg salary 92500.00",
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("group insights = %#v, want %#v", got, want)
	}
	if got := GroupInsights(salaryDataset(), Comparison{Kind: CategoricalCategorical}, DefaultThresholds()); got != nil {
		t.Fatalf("categorical pair should yield no group insights")
	}
}

func TestInsightsLargeValuesDoNotOverflow(t *testing.T) {
	ds := dataset.New([]string{"grp", "amount"}, []dataset.Row{
		{"grp": text("A"), "amount": num(1e308)},
		{"grp": text("B"), "amount": num(1e308)},
	})
	got := GenerateInsights(ds, DefaultThresholds())
	want := []string{
		"Total records: 2",
		"amount: sum 2" + strings.Repeat("0", 308) + ".00, average 1" + strings.Repeat("0", 308) + ".00",
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("insights = %#v, want %#v", got, want)
	}
	cmp := Comparison{Primary: "grp", Secondary: "amount", Kind: CategoricalNumeric}
	groups := GroupInsights(ds, cmp, DefaultThresholds())
	if len(groups) != 2 || groups[0] != "grp=A: count amount 1.00" {
		t.Fatalf("group insights = %#v", groups)
	}
}
