package model

import (
	"bytes"
	"encoding/json"
)

// Column is one name/value pair of a result row.
type Column struct {
	Name  string
	Value any
}

// Row is a single query result row with its columns in result order.  It
// marshals as a JSON object whose keys keep that order, which a plain
// map[string]any cannot guarantee.  Rows are built once by NewRow and
// never modified afterwards.
type Row struct {
	cols []Column
}

// NewRow copies names and values into a Row.  Extra values are dropped;
// missing values become nil.
func NewRow(names []string, values []any) Row {
	cols := make([]Column, len(names))
	for i, n := range names {
		cols[i].Name = n
		if i < len(values) {
			cols[i].Value = values[i]
		}
	}
	return Row{cols: cols}
}

// Len returns the number of columns.
func (r Row) Len() int { return len(r.cols) }

// Columns returns a copy of the row's pairs in result order.
func (r Row) Columns() []Column {
	out := make([]Column, len(r.cols))
	copy(out, r.cols)
	return out
}

// Get returns the value of the first column called name.
func (r Row) Get(name string) (any, bool) {
	for _, c := range r.cols {
		if c.Name == name {
			return c.Value, true
		}
	}
	return nil, false
}

func (r Row) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, c := range r.cols {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(c.Name)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(c.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
