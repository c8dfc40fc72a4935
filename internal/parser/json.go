package parser

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/KaramelBytes/datalens-cli/internal/dataset"
)

// jsonParser reads query-result payloads: either an array of row objects or
// an envelope {"columns": [...], "rows": [...]} whose rows are arrays or
// objects. JSON types are kept as they are; strings are never re-parsed.
type jsonParser struct{}

func (jsonParser) CanParse(filename string) bool {
	return strings.HasSuffix(strings.ToLower(filename), ".json")
}

func (jsonParser) Parse(content []byte, opt Options) (*dataset.Dataset, error) {
	body := bytes.TrimSpace(content)
	if len(body) == 0 {
		return &dataset.Dataset{}, nil
	}
	switch body[0] {
	case '[':
		return objectRows(body, nil, opt)
	case '{':
		var env struct {
			Columns []string        `json:"columns"`
			Rows    json.RawMessage `json:"rows"`
			Data    json.RawMessage `json:"data"`
		}
		if err := json.Unmarshal(body, &env); err != nil {
			return nil, fmt.Errorf("decode payload: %w", err)
		}
		rows := env.Rows
		if len(rows) == 0 {
			rows = env.Data
		}
		if len(bytes.TrimSpace(rows)) == 0 || string(bytes.TrimSpace(rows)) == "null" {
			return &dataset.Dataset{Columns: headerNames(env.Columns)}, nil
		}
		return objectRows(rows, env.Columns, opt)
	default:
		return nil, fmt.Errorf("payload must be a JSON array or object")
	}
}

// objectRows decodes an array of rows. Object keys absent from a row stay
// absent. With declared columns, array rows are positional.
func objectRows(body []byte, columns []string, opt Options) (*dataset.Dataset, error) {
	var raws []json.RawMessage
	if err := json.Unmarshal(body, &raws); err != nil {
		return nil, fmt.Errorf("decode rows: %w", err)
	}
	ds := &dataset.Dataset{Columns: headerNames(columns)}
	known := map[string]bool{}
	for _, c := range ds.Columns {
		known[c] = true
	}
	for i, raw := range raws {
		if opt.MaxRows > 0 && len(ds.Rows) >= opt.MaxRows {
			break
		}
		raw = bytes.TrimSpace(raw)
		if len(raw) == 0 {
			continue
		}
		switch raw[0] {
		case '[':
			if len(ds.Columns) == 0 {
				return nil, fmt.Errorf("row %d: positional row without declared columns", i+1)
			}
			var cells []dataset.Scalar
			if err := json.Unmarshal(raw, &cells); err != nil {
				return nil, fmt.Errorf("row %d: %w", i+1, err)
			}
			row := make(dataset.Row, len(ds.Columns))
			for j, c := range ds.Columns {
				if j < len(cells) {
					row[c] = cells[j]
				}
			}
			ds.Rows = append(ds.Rows, row)
		case '{':
			keys, row, err := orderedObject(raw)
			if err != nil {
				return nil, fmt.Errorf("row %d: %w", i+1, err)
			}
			for _, k := range keys {
				if !known[k] {
					known[k] = true
					ds.Columns = append(ds.Columns, k)
				}
			}
			ds.Rows = append(ds.Rows, row)
		default:
			return nil, fmt.Errorf("row %d: expected object or array", i+1)
		}
	}
	return ds, nil
}

// orderedObject decodes one JSON object, returning its keys in document order.
func orderedObject(raw []byte) ([]string, dataset.Row, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	tok, err := dec.Token()
	if err != nil {
		return nil, nil, err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, nil, fmt.Errorf("expected object")
	}
	var keys []string
	row := dataset.Row{}
	for dec.More() {
		kt, err := dec.Token()
		if err != nil {
			return nil, nil, err
		}
		key, ok := kt.(string)
		if !ok {
			return nil, nil, fmt.Errorf("unexpected token %v", kt)
		}
		var v any
		if err := dec.Decode(&v); err != nil {
			return nil, nil, fmt.Errorf("value of %q: %w", key, err)
		}
		if _, dup := row[key]; !dup {
			keys = append(keys, key)
		}
		row[key] = dataset.FromAny(v)
	}
	return keys, row, nil
}
