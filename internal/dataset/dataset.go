package dataset

import (
	"crypto/sha1"
	"encoding/binary"
	"encoding/hex"
	"math"
)

// Row maps column names to cell values. A declared column absent from the
// map marks the row as malformed for that column.
type Row map[string]Scalar

// Get returns the cell for col and whether the row carries it at all.
func (r Row) Get(col string) (Scalar, bool) {
	v, ok := r[col]
	return v, ok
}

// Dataset is an ordered sequence of rows sharing one column schema.
type Dataset struct {
	Columns []string `json:"columns"`
	Rows    []Row    `json:"rows"`
}

// New builds a dataset from a header and rows.
func New(columns []string, rows []Row) *Dataset {
	return &Dataset{Columns: columns, Rows: rows}
}

// Len returns the number of rows; a nil dataset has none.
func (d *Dataset) Len() int {
	if d == nil {
		return 0
	}
	return len(d.Rows)
}

// Empty reports whether there is nothing to analyze.
func (d *Dataset) Empty() bool {
	return d.Len() == 0 || len(d.Columns) == 0
}

// Column returns every cell of col in row order. Rows missing the column
// contribute a Null and are reported through the second result.
func (d *Dataset) Column(col string) ([]Scalar, int) {
	if d == nil {
		return nil, 0
	}
	out := make([]Scalar, len(d.Rows))
	missing := 0
	for i, r := range d.Rows {
		v, ok := r[col]
		if !ok {
			missing++
			continue
		}
		out[i] = v
	}
	return out, missing
}

// MalformedRows counts rows lacking at least one declared column.
func (d *Dataset) MalformedRows() int {
	if d == nil {
		return 0
	}
	n := 0
	for _, r := range d.Rows {
		for _, c := range d.Columns {
			if _, ok := r[c]; !ok {
				n++
				break
			}
		}
	}
	return n
}

// Fingerprint is a content hash of the schema and every cell, used as the
// dataset identity for memoization.
func (d *Dataset) Fingerprint() string {
	h := sha1.New()
	if d == nil {
		return hex.EncodeToString(h.Sum(nil))
	}
	var buf [8]byte
	for _, c := range d.Columns {
		h.Write([]byte(c))
		h.Write([]byte{0})
	}
	for _, r := range d.Rows {
		for _, c := range d.Columns {
			v, ok := r[c]
			if !ok {
				h.Write([]byte{0xff})
				continue
			}
			h.Write([]byte{byte(v.kind)})
			switch v.kind {
			case KindNumber:
				binary.LittleEndian.PutUint64(buf[:], math.Float64bits(v.num))
				h.Write(buf[:])
			case KindText:
				h.Write([]byte(v.text))
				h.Write([]byte{0})
			}
		}
		h.Write([]byte{'\n'})
	}
	return hex.EncodeToString(h.Sum(nil))
}
