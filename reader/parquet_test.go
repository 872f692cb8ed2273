package reader

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/parquet-go/parquet-go"
	"github.com/parquet-go/parquet-go/deprecated"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vegasq/pqline/internal/errors"
	"github.com/vegasq/pqline/schema"
)

type typedRow struct {
	Flag  bool      `parquet:"flag"`
	Big   int64     `parquet:"big"`
	Small int32     `parquet:"small"`
	Score float64   `parquet:"score"`
	Ratio float32   `parquet:"ratio"`
	Name  string    `parquet:"name"`
	Note  *string   `parquet:"note,optional"`
	At    time.Time `parquet:"at"`
	Day   int32     `parquet:"day,date"`
	Doc   string    `parquet:"doc,json"`
}

func TestNewReader_Schema(t *testing.T) {
	path := writeParquet(t, "typed.parquet", []typedRow{{}})

	r, err := NewReader(path)
	require.NoError(t, err)
	defer func() { _ = r.Close() }()

	s := r.Schema()
	want := []struct {
		name string
		typ  schema.Type
	}{
		{"flag", schema.TypeBoolean},
		{"big", schema.TypeInteger},
		{"small", schema.TypeInteger},
		{"score", schema.TypeFloat},
		{"ratio", schema.TypeFloat},
		{"name", schema.TypeString},
		{"note", schema.TypeString},
		{"at", schema.TypeTimestamp},
		{"day", schema.TypeTimestamp},
		{"doc", schema.TypeJSON},
	}
	require.Equal(t, len(want), s.Len())
	for _, w := range want {
		col, ok := s.Lookup(w.name)
		require.True(t, ok, w.name)
		assert.Equal(t, w.typ, col.Type, w.name)
	}
	assert.Equal(t, int64(1), r.NumRows())
}

func TestCursor_DecodesValues(t *testing.T) {
	note := "hello"
	at := time.Date(2024, 3, 1, 12, 30, 45, 123456789, time.UTC)
	path := writeParquet(t, "values.parquet", []typedRow{
		{Flag: true, Big: -42, Small: 7, Score: 2.5, Ratio: 0.1, Name: "alice", Note: &note, At: at, Day: 19783, Doc: `{"b":1,"a":2}`},
		{Name: "bob", At: at},
	})

	r, err := NewReader(path)
	require.NoError(t, err)
	defer func() { _ = r.Close() }()

	cur := r.Cursor()
	defer func() { _ = cur.Close() }()

	s := r.Schema()
	idx := func(name string) int {
		col, ok := s.Lookup(name)
		require.True(t, ok)
		return col.Index
	}

	require.True(t, cur.Next())
	rec := cur.Record()
	assert.True(t, rec.Boolean(idx("flag")))
	assert.Equal(t, int64(-42), rec.Long(idx("big")))
	assert.Equal(t, int64(7), rec.Long(idx("small")))
	assert.Equal(t, 2.5, rec.Double(idx("score")))
	assert.Equal(t, 0.1, rec.Double(idx("ratio")))
	assert.Equal(t, "alice", rec.String(idx("name")))
	assert.Equal(t, "hello", rec.String(idx("note")))
	assert.True(t, at.Equal(rec.Timestamp(idx("at"))))
	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), rec.Timestamp(idx("day")))
	assert.JSONEq(t, `{"a":2,"b":1}`, string(rec.JSON(idx("doc")).([]byte)))

	require.True(t, cur.Next())
	rec = cur.Record()
	assert.Equal(t, "bob", rec.String(idx("name")))
	assert.True(t, rec.IsNull(idx("note")))
	assert.False(t, rec.IsNull(idx("flag")))

	assert.False(t, cur.Next())
	require.NoError(t, cur.Err())
}

func TestCursor_PreservesOrderAcrossBatches(t *testing.T) {
	type Row struct {
		N int64 `parquet:"n"`
	}
	rows := make([]Row, 3*batchSize+5)
	for i := range rows {
		rows[i].N = int64(i)
	}
	path := writeParquet(t, "many.parquet", rows)

	r, err := NewReader(path)
	require.NoError(t, err)
	defer func() { _ = r.Close() }()

	cur := r.Cursor()
	defer func() { _ = cur.Close() }()

	var got int64
	for cur.Next() {
		require.Equal(t, got, cur.Record().Long(0))
		got++
	}
	require.NoError(t, cur.Err())
	assert.Equal(t, int64(len(rows)), got)
}

func TestCursor_EmptyFile(t *testing.T) {
	type Row struct {
		N int64 `parquet:"n"`
	}
	path := writeParquet(t, "empty.parquet", []Row{})

	r, err := NewReader(path)
	require.NoError(t, err)
	defer func() { _ = r.Close() }()

	cur := r.Cursor()
	defer func() { _ = cur.Close() }()
	assert.False(t, cur.Next())
	assert.NoError(t, cur.Err())
}

func TestNewReader_RejectsNestedColumns(t *testing.T) {
	type Inner struct {
		X int64 `parquet:"x"`
	}
	type Row struct {
		ID    int64 `parquet:"id"`
		Inner Inner `parquet:"inner"`
	}
	path := writeParquet(t, "nested.parquet", []Row{{ID: 1}})

	_, err := NewReader(path)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrUnsupportedSchema))
	assert.Contains(t, err.Error(), "inner")
}

func TestNewReader_RejectsRepeatedColumns(t *testing.T) {
	type Row struct {
		Tags []string `parquet:"tags"`
	}
	path := writeParquet(t, "repeated.parquet", []Row{{Tags: []string{"a"}}})

	_, err := NewReader(path)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrUnsupportedSchema))
}

func TestNewReader_Errors(t *testing.T) {
	_, err := NewReader(filepath.Join(t.TempDir(), "missing.parquet"))
	require.Error(t, err)

	bad := filepath.Join(t.TempDir(), "bad.parquet")
	require.NoError(t, os.WriteFile(bad, []byte("PAR1 nope"), 0o644))
	_, err = NewReader(bad)
	require.Error(t, err)
}

func TestReader_CloseTwice(t *testing.T) {
	type Row struct {
		N int64 `parquet:"n"`
	}
	r, err := NewReader(writeParquet(t, "close.parquet", []Row{{N: 1}}))
	require.NoError(t, err)
	require.NoError(t, r.Close())
	require.NoError(t, r.Close())
}

func TestDecodeInt96(t *testing.T) {
	// 2000-01-01T00:00:01.5Z: Julian day 2451545, 1.5s into the day.
	nanos := uint64(1500 * time.Millisecond)
	v := int96Value(uint32(nanos), uint32(nanos>>32), 2451545)
	got := decodeInt96(v).(time.Time)
	assert.Equal(t, time.Date(2000, 1, 1, 0, 0, 1, 500000000, time.UTC), got)
}

func TestWidenFloat32(t *testing.T) {
	assert.Equal(t, 0.1, widenFloat32(0.1))
	assert.Equal(t, 1.5, widenFloat32(1.5))
	assert.Equal(t, 3.4028235e38, widenFloat32(3.4028235e38))
}

func TestExpandPattern(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.parquet", "a.parquet", "c.txt"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), nil, 0o644))
	}

	t.Run("glob sorted", func(t *testing.T) {
		got, err := ExpandPattern(filepath.Join(dir, "*.parquet"))
		require.NoError(t, err)
		assert.Equal(t, []string{
			filepath.Join(dir, "a.parquet"),
			filepath.Join(dir, "b.parquet"),
		}, got)
	})

	t.Run("literal path passes through", func(t *testing.T) {
		p := filepath.Join(dir, "missing.parquet")
		got, err := ExpandPattern(p)
		require.NoError(t, err)
		assert.Equal(t, []string{p}, got)
	})

	t.Run("no matches", func(t *testing.T) {
		_, err := ExpandPattern(filepath.Join(dir, "*.orc"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "no files match")
	})

	t.Run("bad pattern", func(t *testing.T) {
		_, err := ExpandPattern(filepath.Join(dir, "[.parquet"))
		require.Error(t, err)
	})
}

func int96Value(lo, mid, hi uint32) parquet.Value {
	return parquet.Int96Value(deprecated.Int96{lo, mid, hi})
}

// writeColumn writes a single-column file with the given leaf node and
// values.
func writeColumn(t *testing.T, node parquet.Node, values ...parquet.Value) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "column.parquet")
	f, err := os.Create(path)
	require.NoError(t, err)

	w := parquet.NewWriter(f, parquet.NewSchema("test", parquet.Group{"v": node}))
	rows := make([]parquet.Row, len(values))
	for i, v := range values {
		rows[i] = parquet.Row{v.Level(0, 0, 0)}
	}
	_, err = w.WriteRows(rows)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	require.NoError(t, f.Close())
	return path
}

func TestCursor_DecodesLogicalTypes(t *testing.T) {
	id := uuid.MustParse("123e4567-e89b-12d3-a456-426614174000")
	big := uint32(4000000000)
	beforeEpochMillis := time.Date(1969, 12, 31, 23, 59, 59, 123000000, time.UTC)
	beforeEpochNanos := time.Date(1969, 12, 31, 23, 59, 59, 123456789, time.UTC)

	tests := []struct {
		name     string
		node     parquet.Node
		value    parquet.Value
		wantType schema.Type
		want     any
	}{
		{
			name:     "uuid",
			node:     parquet.UUID(),
			value:    parquet.FixedLenByteArrayValue(id[:]),
			wantType: schema.TypeString,
			want:     "123e4567-e89b-12d3-a456-426614174000",
		},
		{
			name:     "unsigned int32 above MaxInt32",
			node:     parquet.Uint(32),
			value:    parquet.Int32Value(int32(big)),
			wantType: schema.TypeInteger,
			want:     int64(4000000000),
		},
		{
			name:     "timestamp millis before epoch",
			node:     parquet.Timestamp(parquet.Millisecond),
			value:    parquet.Int64Value(beforeEpochMillis.UnixMilli()),
			wantType: schema.TypeTimestamp,
			want:     beforeEpochMillis,
		},
		{
			name:     "timestamp micros",
			node:     parquet.Timestamp(parquet.Microsecond),
			value:    parquet.Int64Value(created().UnixMicro()),
			wantType: schema.TypeTimestamp,
			want:     created(),
		},
		{
			name:     "timestamp nanos before epoch",
			node:     parquet.Timestamp(parquet.Nanosecond),
			value:    parquet.Int64Value(beforeEpochNanos.UnixNano()),
			wantType: schema.TypeTimestamp,
			want:     beforeEpochNanos,
		},
		{
			name:     "date before epoch",
			node:     parquet.Date(),
			value:    parquet.Int32Value(-1),
			wantType: schema.TypeTimestamp,
			want:     time.Date(1969, 12, 31, 0, 0, 0, 0, time.UTC),
		},
		{
			name:     "int96",
			node:     parquet.Leaf(parquet.Int96Type),
			value:    int96Value(0, 0, 2451545),
			wantType: schema.TypeTimestamp,
			want:     time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			name:     "enum",
			node:     parquet.Enum(),
			value:    parquet.ByteArrayValue([]byte("red")),
			wantType: schema.TypeString,
			want:     "red",
		},
		{
			name:     "json",
			node:     parquet.JSON(),
			value:    parquet.ByteArrayValue([]byte(`{"a":1}`)),
			wantType: schema.TypeJSON,
			want:     []byte(`{"a":1}`),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := NewReader(writeColumn(t, tt.node, tt.value))
			require.NoError(t, err)
			defer func() { _ = r.Close() }()

			require.Equal(t, 1, r.Schema().Len())
			assert.Equal(t, tt.wantType, r.Schema().Column(0).Type)

			cur := r.Cursor()
			defer func() { _ = cur.Close() }()
			require.True(t, cur.Next())
			require.NoError(t, cur.Err())
			assert.Equal(t, tt.want, cur.Record().(schema.Row)[0])
		})
	}
}

func created() time.Time {
	return time.Date(2024, 3, 1, 12, 30, 45, 123456000, time.UTC)
}

func TestNewReader_RejectsUnsupportedTypes(t *testing.T) {
	tests := []struct {
		name string
		node parquet.Node
	}{
		{"decimal", parquet.Decimal(2, 9, parquet.Int32Type)},
		{"time", parquet.Time(parquet.Millisecond)},
		{"unsigned int64", parquet.Uint(64)},
		{"bson", parquet.BSON()},
		{"fixed length bytes", parquet.Leaf(parquet.FixedLenByteArrayType(8))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeColumn(t, tt.node)

			_, err := NewReader(path)
			require.Error(t, err)
			assert.True(t, errors.Is(err, errors.ErrUnsupportedSchema), "%v", err)

			infos, err := ExtractSchemaInfo(path)
			require.NoError(t, err)
			require.Len(t, infos, 1)
			assert.Equal(t, unsupportedColumn, infos[0].ColumnType)
		})
	}
}
