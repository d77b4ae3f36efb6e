package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRowMarshalKeepsColumnOrder(t *testing.T) {
	r := NewRow([]string{"zeta", "alpha", "mid"}, []any{int64(1), "x", nil})

	b, err := json.Marshal(r)
	require.NoError(t, err)
	assert.Equal(t, `{"zeta":1,"alpha":"x","mid":null}`, string(b))
}

func TestRowMarshalEscapesNames(t *testing.T) {
	r := NewRow([]string{`a"b`, "?column?"}, []any{true, 2.5})

	b, err := json.Marshal(r)
	require.NoError(t, err)
	assert.Equal(t, `{"a\"b":true,"?column?":2.5}`, string(b))
}

func TestEmptyRowAndDashboard(t *testing.T) {
	b, err := json.Marshal(NewRow(nil, nil))
	require.NoError(t, err)
	assert.Equal(t, `{}`, string(b))

	b, err = json.Marshal(Dashboard{Data: []Row{}})
	require.NoError(t, err)
	assert.Equal(t, `{"data":[]}`, string(b))
}

func TestNewRowPadsAndTruncates(t *testing.T) {
	r := NewRow([]string{"a", "b"}, []any{1})
	v, ok := r.Get("b")
	assert.True(t, ok)
	assert.Nil(t, v)

	r = NewRow([]string{"a"}, []any{1, 2, 3})
	assert.Equal(t, 1, r.Len())
}

func TestColumnsReturnsCopy(t *testing.T) {
	r := NewRow([]string{"a"}, []any{1})
	cols := r.Columns()
	cols[0].Value = 99

	v, _ := r.Get("a")
	assert.Equal(t, 1, v)
}
