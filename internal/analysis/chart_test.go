package analysis

import (
	"encoding/json"
	"reflect"
	"testing"

	"github.com/KaramelBytes/datalens-cli/internal/dataset"
)

func TestBuildChartSeriesSalary(t *testing.T) {
	cmp := Comparison{Primary: "dept", Secondary: "salary", Kind: CategoricalNumeric, Score: 40000}
	got := BuildChartSeries(salaryDataset(), cmp, DefaultThresholds())
	if got.Aggregation != AggSum {
		t.Fatalf("aggregation = %s, want sum", got.Aggregation)
	}
	want := []ChartPoint{{Label: "Sales", Value: 105000}, {Label: "Eng", Value: 185000}}
	if !reflect.DeepEqual(got.Points, want) {
		t.Fatalf("points = %+v, want %+v", got.Points, want)
	}
}

func TestBuildChartSeriesKeepsFirstSeenOrder(t *testing.T) {
	ds := dataset.New([]string{"grp", "v"}, []dataset.Row{
		{"grp": text("small"), "v": num(1)},
		{"grp": text("big"), "v": num(9)},
		{"grp": text("small"), "v": num(2)},
		{"grp": dataset.Null(), "v": num(50)},
		{"grp": text("  "), "v": num(50)},
		{"grp": text("big"), "v": text("n/a")},
		{"grp": text("mid"), "v": num(4)},
	})
	cmp := Comparison{Primary: "grp", Secondary: "v", Kind: CategoricalNumeric}
	got := BuildChartSeries(ds, cmp, DefaultThresholds())
	if got.Aggregation != AggCount {
		t.Fatalf("aggregation = %s, want count", got.Aggregation)
	}
	want := []ChartPoint{{Label: "small", Value: 2}, {Label: "big", Value: 1}, {Label: "mid", Value: 1}}
	if !reflect.DeepEqual(got.Points, want) {
		t.Fatalf("points = %+v, want %+v", got.Points, want)
	}
}

func TestBuildChartSeriesCategoricalPairs(t *testing.T) {
	ds := dataset.New([]string{"region", "tier"}, []dataset.Row{
		{"region": text("N"), "tier": text("gold")},
		{"region": text("S"), "tier": text("gold")},
		{"region": text("N"), "tier": text("gold")},
		{"region": text("N")},
	})
	cmp := Comparison{Primary: "region", Secondary: "tier", Kind: CategoricalCategorical}
	got := BuildChartSeries(ds, cmp, DefaultThresholds())
	if got.Aggregation != AggCount {
		t.Fatalf("aggregation = %s, want count", got.Aggregation)
	}
	want := []ChartPoint{{Label: "N / gold", Value: 2}, {Label: "S / gold", Value: 1}}
	if !reflect.DeepEqual(got.Points, want) {
		t.Fatalf("points = %+v, want %+v", got.Points, want)
	}
}

func TestBuildChartSeriesEmpty(t *testing.T) {
	got := BuildChartSeries(&dataset.Dataset{}, Comparison{Kind: CategoricalNumeric}, DefaultThresholds())
	if !got.Empty() || got.Aggregation != AggCount {
		t.Fatalf("empty series = %+v", got)
	}
}

func TestBuildChartSeriesDropsOverflowingPoints(t *testing.T) {
	ds := dataset.New([]string{"grp", "v"}, []dataset.Row{
		{"grp": text("A"), "v": num(1e308)},
		{"grp": text("A"), "v": num(1e308)},
		{"grp": text("B"), "v": num(1)},
	})
	cmp := Comparison{Primary: "grp", Secondary: "v", Kind: CategoricalNumeric}
	got := BuildChartSeries(ds, cmp, DefaultThresholds())
	if got.Aggregation != AggSum {
		t.Fatalf("aggregation = %s, want sum", got.Aggregation)
	}
	want := []ChartPoint{{Label: "B", Value: 1}}
	if !reflect.DeepEqual(got.Points, want) {
		t.Fatalf("points = %+v, want %+v", got.Points, want)
	}
	if _, err := json.Marshal(got); err != nil {
		t.Fatalf("series not serializable: %v", err)
	}
}
