package dataset

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"
)

var (
	ErrNoColumns           = errors.New("no columns in table")
	ErrNoTimeLevel         = errors.New("index must have a trailing time level")
	ErrKeyArityMismatch    = errors.New("row group key has a different arity than the index levels")
	ErrValueWidthMismatch  = errors.New("row values have a different width than the columns")
	ErrDuplicateCoordinate = errors.New("duplicate row coordinate")
	ErrDuplicateLevel      = errors.New("duplicate index level name")
	ErrDuplicateColumn     = errors.New("duplicate column name")
)

// DefaultTimeLevel names the trailing time level when the caller does not
// provide index level names.
const DefaultTimeLevel = "time"

// Key identifies a single series within a panel. It holds one value per
// group level, in level order. An empty Key addresses a plain time series.
type Key []string

// String returns the composite form of the key used for map lookups. Group
// values are joined on a unit separator to keep distinct keys distinct.
func (k Key) String() string {
	return strings.Join(k, "\x1f")
}

// Equal reports whether two keys hold the same values in the same order.
func (k Key) Equal(other Key) bool {
	if len(k) != len(other) {
		return false
	}
	for i := range k {
		if k[i] != other[i] {
			return false
		}
	}
	return true
}

// Row is a single observation addressed by a group key and a time coordinate.
// Keys must have one value per group level of the table's index and Values
// one value per column.
type Row struct {
	Keys   Key       `json:"keys,omitempty"`
	T      time.Time `json:"t"`
	Values []float64 `json:"values"`
}

// series holds one group's observations sorted by time.
type series struct {
	t    []time.Time
	rows [][]float64
}

// Table is an immutable collection of time-indexed rows, optionally nested
// under one or more named group levels. The index is an ordered set of
// levels where the last level is always time. Rows within a group are stored
// sorted by time and every (group, time) coordinate is unique.
type Table struct {
	levels  []string
	columns []string

	groupIdx   map[string]int
	groupOrder []Key
	groups     []*series
}

// New creates a Table from index level names, column names, and rows. The
// last level is the time level; any preceding levels are group levels. Group
// order follows first appearance in rows, and rows are sorted by time within
// each group. A table with no rows is valid and has zero groups. Returns an
// error for mismatched key arity or value width, or duplicate coordinates.
func New(levels, columns []string, rows []Row) (*Table, error) {
	if len(levels) == 0 {
		return nil, ErrNoTimeLevel
	}
	if len(columns) == 0 {
		return nil, ErrNoColumns
	}

	seen := make(map[string]struct{}, len(levels))
	for _, lvl := range levels {
		if _, exists := seen[lvl]; exists {
			return nil, fmt.Errorf("level %q, %w", lvl, ErrDuplicateLevel)
		}
		seen[lvl] = struct{}{}
	}
	seen = make(map[string]struct{}, len(columns))
	for _, col := range columns {
		if _, exists := seen[col]; exists {
			return nil, fmt.Errorf("column %q, %w", col, ErrDuplicateColumn)
		}
		seen[col] = struct{}{}
	}

	k := len(levels) - 1
	tb := &Table{
		levels:   append([]string(nil), levels...),
		columns:  append([]string(nil), columns...),
		groupIdx: make(map[string]int),
	}

	for i, row := range rows {
		if len(row.Keys) != k {
			return nil, fmt.Errorf(
				"row %d has %d group key values, index has %d group levels, %w",
				i, len(row.Keys), k, ErrKeyArityMismatch,
			)
		}
		if len(row.Values) != len(columns) {
			return nil, fmt.Errorf(
				"row %d has %d values, table has %d columns, %w",
				i, len(row.Values), len(columns), ErrValueWidthMismatch,
			)
		}

		gIdx, exists := tb.groupIdx[row.Keys.String()]
		if !exists {
			gIdx = len(tb.groups)
			tb.groupIdx[row.Keys.String()] = gIdx
			tb.groupOrder = append(tb.groupOrder, append(Key(nil), row.Keys...))
			tb.groups = append(tb.groups, &series{})
		}

		grp := tb.groups[gIdx]
		vals := append([]float64(nil), row.Values...)
		grp.t = append(grp.t, row.T)
		grp.rows = append(grp.rows, vals)
	}

	for gIdx, grp := range tb.groups {
		sort.Stable(bySeriesTime{grp})
		for i := 1; i < len(grp.t); i++ {
			if grp.t[i].Equal(grp.t[i-1]) {
				return nil, fmt.Errorf(
					"group %v at %s, %w",
					tb.groupOrder[gIdx], grp.t[i], ErrDuplicateCoordinate,
				)
			}
		}
	}

	return tb, nil
}

// NewUnivariate creates a single series Table with no group levels and one
// column named "y" from a time and value slice of matching lengths.
func NewUnivariate(t []time.Time, y []float64) (*Table, error) {
	if len(t) != len(y) {
		return nil, fmt.Errorf(
			"time has length of %d, but values has a length of %d, %w",
			len(t), len(y), ErrValueWidthMismatch,
		)
	}
	rows := make([]Row, 0, len(t))
	for i := range t {
		rows = append(rows, Row{T: t[i], Values: []float64{y[i]}})
	}
	return New([]string{DefaultTimeLevel}, []string{"y"}, rows)
}

type bySeriesTime struct {
	s *series
}

func (b bySeriesTime) Len() int           { return len(b.s.t) }
func (b bySeriesTime) Less(i, j int) bool { return b.s.t[i].Before(b.s.t[j]) }
func (b bySeriesTime) Swap(i, j int) {
	b.s.t[i], b.s.t[j] = b.s.t[j], b.s.t[i]
	b.s.rows[i], b.s.rows[j] = b.s.rows[j], b.s.rows[i]
}

// Levels returns the ordered index level names including the trailing time
// level.
func (tb *Table) Levels() []string {
	if tb == nil {
		return nil
	}
	return append([]string(nil), tb.levels...)
}

// GroupLevels returns the index level names excluding the trailing time
// level. Empty for a plain time series.
func (tb *Table) GroupLevels() []string {
	if tb == nil {
		return nil
	}
	return append([]string(nil), tb.levels[:len(tb.levels)-1]...)
}

// NumGroupLevels returns the number of group levels in the index.
func (tb *Table) NumGroupLevels() int {
	if tb == nil {
		return 0
	}
	return len(tb.levels) - 1
}

// Columns returns the ordered column names.
func (tb *Table) Columns() []string {
	if tb == nil {
		return nil
	}
	return append([]string(nil), tb.columns...)
}

// ColumnIndex returns the position of a column by name.
func (tb *Table) ColumnIndex(column string) (int, bool) {
	if tb == nil {
		return -1, false
	}
	for i, col := range tb.columns {
		if col == column {
			return i, true
		}
	}
	return -1, false
}

// Groups returns the distinct group keys in first-seen order. A table with
// no group levels has a single empty key.
func (tb *Table) Groups() []Key {
	if tb == nil {
		return nil
	}
	groups := make([]Key, len(tb.groupOrder))
	for i, key := range tb.groupOrder {
		groups[i] = append(Key(nil), key...)
	}
	return groups
}

// Len returns the total number of rows across all groups.
func (tb *Table) Len() int {
	if tb == nil {
		return 0
	}
	var n int
	for _, grp := range tb.groups {
		n += len(grp.t)
	}
	return n
}

// Times returns the sorted time coordinates observed for a group key.
func (tb *Table) Times(key Key) []time.Time {
	grp := tb.lookup(key)
	if grp == nil {
		return nil
	}
	return append([]time.Time(nil), grp.t...)
}

// At returns the row values at a (group, time) coordinate.
func (tb *Table) At(key Key, t time.Time) ([]float64, bool) {
	grp := tb.lookup(key)
	if grp == nil {
		return nil, false
	}
	i := sort.Search(len(grp.t), func(i int) bool { return !grp.t[i].Before(t) })
	if i == len(grp.t) || !grp.t[i].Equal(t) {
		return nil, false
	}
	return append([]float64(nil), grp.rows[i]...), true
}

// Values returns a group's series for one column in time order.
func (tb *Table) Values(key Key, column string) ([]float64, bool) {
	grp := tb.lookup(key)
	if grp == nil {
		return nil, false
	}
	cIdx, exists := tb.ColumnIndex(column)
	if !exists {
		return nil, false
	}
	vals := make([]float64, len(grp.rows))
	for i, row := range grp.rows {
		vals[i] = row[cIdx]
	}
	return vals, true
}

// Rows returns all rows in group then time order.
func (tb *Table) Rows() []Row {
	if tb == nil {
		return nil
	}
	rows := make([]Row, 0, tb.Len())
	for gIdx, grp := range tb.groups {
		for i := range grp.t {
			rows = append(rows, Row{
				Keys:   append(Key(nil), tb.groupOrder[gIdx]...),
				T:      grp.t[i],
				Values: append([]float64(nil), grp.rows[i]...),
			})
		}
	}
	return rows
}

// Copy returns a deep copy of the table.
func (tb *Table) Copy() *Table {
	if tb == nil {
		return nil
	}
	cp := &Table{
		levels:     append([]string(nil), tb.levels...),
		columns:    append([]string(nil), tb.columns...),
		groupIdx:   make(map[string]int, len(tb.groupIdx)),
		groupOrder: make([]Key, len(tb.groupOrder)),
		groups:     make([]*series, len(tb.groups)),
	}
	for key, idx := range tb.groupIdx {
		cp.groupIdx[key] = idx
	}
	for i, key := range tb.groupOrder {
		cp.groupOrder[i] = append(Key(nil), key...)
	}
	for i, grp := range tb.groups {
		cpGrp := &series{
			t:    append([]time.Time(nil), grp.t...),
			rows: make([][]float64, len(grp.rows)),
		}
		for j, row := range grp.rows {
			cpGrp.rows[j] = append([]float64(nil), row...)
		}
		cp.groups[i] = cpGrp
	}
	return cp
}

// EndTime returns the latest time coordinate across all groups.
func (tb *Table) EndTime() time.Time {
	if tb == nil {
		return time.Time{}
	}
	var end time.Time
	for _, grp := range tb.groups {
		if len(grp.t) == 0 {
			continue
		}
		if last := grp.t[len(grp.t)-1]; last.After(end) {
			end = last
		}
	}
	return end
}

func (tb *Table) lookup(key Key) *series {
	if tb == nil {
		return nil
	}
	gIdx, exists := tb.groupIdx[key.String()]
	if !exists {
		return nil
	}
	return tb.groups[gIdx]
}
