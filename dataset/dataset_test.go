package dataset

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tPnt(i int) time.Time {
	return time.Date(1970, 1, 1, 0, i, 0, 0, time.UTC)
}

func TestNew(t *testing.T) {
	testData := map[string]struct {
		levels  []string
		columns []string
		rows    []Row
		err     error
	}{
		"no levels": {
			columns: []string{"y"},
			err:     ErrNoTimeLevel,
		},
		"no columns": {
			levels: []string{"time"},
			err:    ErrNoColumns,
		},
		"duplicate level": {
			levels:  []string{"series", "series", "time"},
			columns: []string{"y"},
			err:     ErrDuplicateLevel,
		},
		"duplicate column": {
			levels:  []string{"time"},
			columns: []string{"y", "y"},
			err:     ErrDuplicateColumn,
		},
		"key arity mismatch": {
			levels:  []string{"series", "time"},
			columns: []string{"y"},
			rows: []Row{
				{T: tPnt(0), Values: []float64{1}},
			},
			err: ErrKeyArityMismatch,
		},
		"value width mismatch": {
			levels:  []string{"time"},
			columns: []string{"y", "z"},
			rows: []Row{
				{T: tPnt(0), Values: []float64{1}},
			},
			err: ErrValueWidthMismatch,
		},
		"duplicate coordinate": {
			levels:  []string{"series", "time"},
			columns: []string{"y"},
			rows: []Row{
				{Keys: Key{"a"}, T: tPnt(0), Values: []float64{1}},
				{Keys: Key{"a"}, T: tPnt(0), Values: []float64{2}},
			},
			err: ErrDuplicateCoordinate,
		},
		"empty table": {
			levels:  []string{"time"},
			columns: []string{"y"},
		},
		"valid single series": {
			levels:  []string{"time"},
			columns: []string{"y"},
			rows: []Row{
				{T: tPnt(0), Values: []float64{1}},
				{T: tPnt(1), Values: []float64{2}},
			},
		},
		"valid panel": {
			levels:  []string{"series", "time"},
			columns: []string{"y"},
			rows: []Row{
				{Keys: Key{"a"}, T: tPnt(0), Values: []float64{1}},
				{Keys: Key{"b"}, T: tPnt(0), Values: []float64{3}},
				{Keys: Key{"a"}, T: tPnt(1), Values: []float64{2}},
			},
		},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			tb, err := New(td.levels, td.columns, td.rows)
			if td.err != nil {
				assert.ErrorIs(t, err, td.err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, td.levels, tb.Levels())
			assert.Equal(t, td.columns, tb.Columns())
			assert.Equal(t, len(td.rows), tb.Len())
		})
	}
}

func TestNewSortsWithinGroup(t *testing.T) {
	tb, err := New(
		[]string{"series", "time"},
		[]string{"y"},
		[]Row{
			{Keys: Key{"a"}, T: tPnt(2), Values: []float64{2}},
			{Keys: Key{"a"}, T: tPnt(0), Values: []float64{0}},
			{Keys: Key{"a"}, T: tPnt(1), Values: []float64{1}},
		},
	)
	require.NoError(t, err)

	assert.Equal(t, []time.Time{tPnt(0), tPnt(1), tPnt(2)}, tb.Times(Key{"a"}))
	vals, exists := tb.Values(Key{"a"}, "y")
	require.True(t, exists)
	assert.Equal(t, []float64{0, 1, 2}, vals)
}

func TestGroupsFirstSeenOrder(t *testing.T) {
	tb, err := New(
		[]string{"region", "series", "time"},
		[]string{"y"},
		[]Row{
			{Keys: Key{"west", "b"}, T: tPnt(0), Values: []float64{1}},
			{Keys: Key{"east", "a"}, T: tPnt(0), Values: []float64{2}},
			{Keys: Key{"west", "b"}, T: tPnt(1), Values: []float64{3}},
		},
	)
	require.NoError(t, err)

	assert.Equal(t, []Key{{"west", "b"}, {"east", "a"}}, tb.Groups())
	assert.Equal(t, []string{"region", "series"}, tb.GroupLevels())
	assert.Equal(t, 2, tb.NumGroupLevels())
}

func TestNewUnivariate(t *testing.T) {
	testData := map[string]struct {
		t   []time.Time
		y   []float64
		err error
	}{
		"length mismatch": {
			y:   []float64{1},
			err: ErrValueWidthMismatch,
		},
		"empty": {},
		"valid": {
			t: []time.Time{tPnt(0), tPnt(1)},
			y: []float64{1, 2},
		},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			tb, err := NewUnivariate(td.t, td.y)
			if td.err != nil {
				assert.ErrorIs(t, err, td.err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, []string{"time"}, tb.Levels())
			assert.Equal(t, []string{"y"}, tb.Columns())
			assert.Equal(t, len(td.t), tb.Len())
		})
	}
}

func TestAt(t *testing.T) {
	tb, err := New(
		[]string{"series", "time"},
		[]string{"y", "z"},
		[]Row{
			{Keys: Key{"a"}, T: tPnt(0), Values: []float64{1, 10}},
			{Keys: Key{"a"}, T: tPnt(1), Values: []float64{2, 20}},
		},
	)
	require.NoError(t, err)

	vals, exists := tb.At(Key{"a"}, tPnt(1))
	require.True(t, exists)
	assert.Equal(t, []float64{2, 20}, vals)

	_, exists = tb.At(Key{"a"}, tPnt(2))
	assert.False(t, exists)

	_, exists = tb.At(Key{"b"}, tPnt(0))
	assert.False(t, exists)
}

func TestCopy(t *testing.T) {
	tb, err := NewUnivariate([]time.Time{tPnt(0), tPnt(1)}, []float64{1, 2})
	require.NoError(t, err)

	cp := tb.Copy()
	assert.Equal(t, tb.Rows(), cp.Rows())
	assert.Equal(t, tb.Levels(), cp.Levels())
	assert.Equal(t, tb.Columns(), cp.Columns())
}

func TestEndTime(t *testing.T) {
	tb, err := New(
		[]string{"series", "time"},
		[]string{"y"},
		[]Row{
			{Keys: Key{"a"}, T: tPnt(5), Values: []float64{1}},
			{Keys: Key{"b"}, T: tPnt(9), Values: []float64{1}},
		},
	)
	require.NoError(t, err)
	assert.Equal(t, tPnt(9), tb.EndTime())

	empty, err := New([]string{"time"}, []string{"y"}, nil)
	require.NoError(t, err)
	assert.True(t, empty.EndTime().IsZero())
	assert.Empty(t, empty.Groups())
}
