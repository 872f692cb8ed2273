package schema

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_AssignsIndexes(t *testing.T) {
	s := New(
		Column{Name: "a", Type: TypeInteger, Index: 7},
		Column{Name: "b", Type: TypeString},
		Column{Name: "c", Type: TypeBoolean},
	)

	require.Equal(t, 3, s.Len())
	for i, c := range s.Columns() {
		assert.Equal(t, i, c.Index)
	}
	assert.Equal(t, []string{"a", "b", "c"}, s.Names())
}

func TestSchema_Lookup(t *testing.T) {
	s := New(
		Column{Name: "a", Type: TypeInteger},
		Column{Name: "b", Type: TypeString},
		Column{Name: "b", Type: TypeFloat},
	)

	tests := []struct {
		name      string
		lookup    string
		wantFound bool
		wantIndex int
	}{
		{name: "exact match", lookup: "a", wantFound: true, wantIndex: 0},
		{name: "duplicate returns first", lookup: "b", wantFound: true, wantIndex: 1},
		{name: "case sensitive", lookup: "A", wantFound: false},
		{name: "missing", lookup: "z", wantFound: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			col, ok := s.Lookup(tt.lookup)
			assert.Equal(t, tt.wantFound, ok)
			if ok {
				assert.Equal(t, tt.wantIndex, col.Index)
			}
		})
	}
}

func TestType_String(t *testing.T) {
	tests := []struct {
		typ  Type
		want string
	}{
		{TypeBoolean, "boolean"},
		{TypeInteger, "integer"},
		{TypeFloat, "float"},
		{TypeString, "string"},
		{TypeTimestamp, "timestamp"},
		{TypeJSON, "json"},
		{Type(0), "Type(0)"},
		{Type(42), "Type(42)"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.typ.String())
		})
	}
}

func TestRowAccessors(t *testing.T) {
	ts := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	r := Row{true, int64(-3), 1.5, "x", ts, map[string]any{"k": 1}, nil}

	assert.True(t, r.Boolean(0))
	assert.Equal(t, int64(-3), r.Long(1))
	assert.Equal(t, 1.5, r.Double(2))
	assert.Equal(t, "x", r.String(3))
	assert.True(t, r.Timestamp(4).Equal(ts))
	assert.Equal(t, map[string]any{"k": 1}, r.JSON(5))
	assert.True(t, r.IsNull(6))
	assert.False(t, r.IsNull(0))
}

func TestSliceCursor(t *testing.T) {
	cur := NewSliceCursor(Row{"a"}, Row{"b"}, Row{"c"})

	var got []string
	for cur.Next() {
		got = append(got, cur.Record().String(0))
	}
	require.NoError(t, cur.Err())
	assert.Equal(t, []string{"a", "b", "c"}, got)
	assert.False(t, cur.Next(), "exhausted cursor stays exhausted")

	empty := NewSliceCursor()
	assert.False(t, empty.Next())
}
