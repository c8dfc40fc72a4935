package parser_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/KaramelBytes/datalens-cli/internal/parser"
	"github.com/xuri/excelize/v2"
)

func TestParseFileCSV(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "harvest.tsv")
	if err := os.WriteFile(p, []byte("plot\tyield\nA1\t12.5\nB3\t10.2\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	ds, err := parser.ParseFile(p, parser.DefaultOptions())
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if ds.Len() != 2 || len(ds.Columns) != 2 || ds.Columns[1] != "yield" {
		t.Fatalf("dataset = %+v", ds)
	}
	if f, ok := ds.Rows[1]["yield"].Float(); !ok || f != 10.2 {
		t.Fatalf("yield = %v", f)
	}
}

func TestParseJSONArrayKeepsOrderAndTypes(t *testing.T) {
	body := `[{"dept":"Sales","salary":50000,"code":"42"},{"salary":90000,"dept":"Eng","extra":true}]`
	ds, err := parser.ParseBytes("result.json", []byte(body), parser.DefaultOptions())
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	want := []string{"dept", "salary", "code", "extra"}
	if len(ds.Columns) != len(want) {
		t.Fatalf("columns = %v, want %v", ds.Columns, want)
	}
	for i := range want {
		if ds.Columns[i] != want[i] {
			t.Fatalf("columns = %v, want %v", ds.Columns, want)
		}
	}
	if !ds.Rows[0]["code"].IsText() {
		t.Fatalf("JSON strings must stay text")
	}
	if !ds.Rows[1]["salary"].IsNumber() {
		t.Fatalf("JSON numbers must be numbers")
	}
	// Each row lacks one column.
	if ds.MalformedRows() != 2 {
		t.Fatalf("malformed = %d, want 2", ds.MalformedRows())
	}
}

func TestParseJSONEnvelope(t *testing.T) {
	body := `{"columns":["region","units"],"rows":[["N",3],["S",null],["N"]]}`
	ds, err := parser.ParseBytes("query.json", []byte(body), parser.DefaultOptions())
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if ds.Len() != 3 {
		t.Fatalf("rows = %d", ds.Len())
	}
	if !ds.Rows[1]["units"].IsNull() {
		t.Fatalf("null cell should be null")
	}
	if _, ok := ds.Rows[2]["units"]; ok {
		t.Fatalf("short positional row should lack units")
	}

	empty, err := parser.ParseBytes("query.json", []byte(`{"columns":["a"],"rows":[]}`), parser.DefaultOptions())
	if err != nil || empty.Len() != 0 {
		t.Fatalf("empty envelope: %+v, %v", empty, err)
	}
	if _, err := parser.ParseBytes("bad.json", []byte(`"scalar"`), parser.DefaultOptions()); err == nil {
		t.Fatalf("expected error for scalar payload")
	}
}

func TestParseXLSXSheetSelection(t *testing.T) {
	f := excelize.NewFile()
	if err := f.SetSheetRow("Sheet1", "A1", &[]interface{}{"ignored"}); err != nil {
		t.Fatalf("set row: %v", err)
	}
	if _, err := f.NewSheet("Data"); err != nil {
		t.Fatalf("new sheet: %v", err)
	}
	rows := [][]interface{}{
		{"dept", "salary"},
		{"Sales", 50000},
		{"Eng", 90000},
	}
	for i, r := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		r := r
		if err := f.SetSheetRow("Data", cell, &r); err != nil {
			t.Fatalf("set row: %v", err)
		}
	}
	path := filepath.Join(t.TempDir(), "book.xlsx")
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("save: %v", err)
	}

	opt := parser.DefaultOptions()
	opt.SheetName = "data"
	ds, err := parser.ParseFile(path, opt)
	if err != nil {
		t.Fatalf("parse by name: %v", err)
	}
	if ds.Len() != 2 || ds.Columns[1] != "salary" {
		t.Fatalf("dataset = %+v", ds)
	}
	if v, ok := ds.Rows[1]["salary"].Float(); !ok || v != 90000 {
		t.Fatalf("salary = %v", v)
	}

	opt = parser.DefaultOptions()
	opt.SheetIndex = 2
	if ds, err := parser.ParseFile(path, opt); err != nil || ds.Len() != 2 {
		t.Fatalf("parse by index: %+v, %v", ds, err)
	}

	opt.SheetName = "Missing"
	if _, err := parser.ParseFile(path, opt); err == nil {
		t.Fatalf("expected missing sheet error")
	}
}

func TestParseUnsupported(t *testing.T) {
	_, err := parser.ParseBytes("notes.docx", []byte("x"), parser.DefaultOptions())
	if !errors.Is(err, parser.ErrUnsupported) {
		t.Fatalf("err = %v, want ErrUnsupported", err)
	}
	if parser.Supported("a.pdf") || !parser.Supported("A.CSV") {
		t.Fatalf("Supported mismatch")
	}
}
