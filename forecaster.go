package playback

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/aouyang1/go-playback/dataset"
	"github.com/aouyang1/go-playback/fill"
	"github.com/aouyang1/go-playback/horizon"
)

var (
	ErrUninitializedForecaster = errors.New("uninitialized forecaster")
	ErrNoKnownValues           = errors.New("no known values table")
	ErrNoTrainingData          = errors.New("no training data")
	ErrUntrainedForecaster     = errors.New("forecaster has not been fit yet")
	ErrCannotInferInterval     = errors.New("cannot infer interval from training data time")
)

// Forecaster plays back known or prescribed values as forecasts. The known
// value table is captured at construction and never altered; predictions
// align a requested horizon against it under the configured fill options.
//
// Common uses are a naive baseline with a known expectation, expert
// forecasts passed through the estimator interface, or a counterfactual in
// benchmarking where the truth is replayed.
type Forecaster struct {
	opt   *Options
	known *dataset.Table

	cutoff   time.Time
	interval time.Duration
	trained  bool
}

// New creates a new Forecaster around a known value table using the provided
// options. If no options are provided a default is used. The table is deep
// copied so later changes to the caller's copy do not leak into predictions.
func New(known *dataset.Table, opt *Options) (*Forecaster, error) {
	if known == nil {
		return nil, ErrNoKnownValues
	}
	if opt == nil {
		opt = NewDefaultOptions()
	}
	if err := opt.policy().Valid(); err != nil {
		return nil, fmt.Errorf("invalid fill options, %w", err)
	}

	f := &Forecaster{
		opt:   opt,
		known: known.Copy(),
	}
	return f, nil
}

// Fit records the training cutoff used to resolve relative horizons. The
// forecast values are already known so training values are never read; only
// the last training time and the spacing between training times matter.
func (f *Forecaster) Fit(training *dataset.Table) error {
	if f == nil {
		return ErrUninitializedForecaster
	}
	if training == nil || training.Len() == 0 {
		return ErrNoTrainingData
	}

	interval, ok := inferInterval(training)
	if !ok {
		// single training point, fall back to the known table's spacing
		interval, ok = inferInterval(f.known)
		if !ok {
			return ErrCannotInferInterval
		}
	}

	f.cutoff = training.EndTime()
	f.interval = interval
	f.trained = true
	return nil
}

// FitCutoff records an explicit cutoff time and horizon interval instead of
// inferring them from a training table.
func (f *Forecaster) FitCutoff(cutoff time.Time, interval time.Duration) error {
	if f == nil {
		return ErrUninitializedForecaster
	}
	if interval <= 0 {
		return ErrCannotInferInterval
	}
	f.cutoff = cutoff
	f.interval = interval
	f.trained = true
	return nil
}

// Predict resolves the relative horizon against the recorded cutoff and
// returns the playback of the known values at those times. The exogenous
// table is accepted for interface compatibility and never read.
func (f *Forecaster) Predict(h *horizon.Horizon, x *dataset.Table) (*dataset.Table, error) {
	if f == nil {
		return nil, ErrUninitializedForecaster
	}
	if !f.trained {
		return nil, ErrUntrainedForecaster
	}

	t, err := h.Absolute(f.cutoff, f.interval)
	if err != nil {
		return nil, fmt.Errorf("unable to resolve horizon, %w", err)
	}
	return f.PredictAt(t, x)
}

// PredictAt returns the playback of the known values at the given absolute
// time points. The exogenous table is accepted for interface compatibility
// and never read. Every distinct group key combination of the known table is
// forecast at every requested time. Requested times are deduplicated and
// sorted. Alignment never fails: if the known values cannot be aligned as
// configured the result is a table of the same shape holding the default
// value, or NaN when none is set.
func (f *Forecaster) PredictAt(t []time.Time, x *dataset.Table) (*dataset.Table, error) {
	if f == nil {
		return nil, ErrUninitializedForecaster
	}

	t = normalizeTimes(t)
	keys := expandKeys(f.known)
	p := f.opt.policy()

	pred, err := f.align(keys, t, p)
	if err != nil {
		return f.fallbackTable(keys, t), nil
	}

	pred, err = reconcileColumns(pred, f.known.Columns(), p)
	if err != nil {
		return f.fallbackTable(keys, t), nil
	}
	return pred, nil
}

// align looks up every (group, time) coordinate in the known table applying
// the fill policy group by group. A fill never crosses into another group's
// data.
func (f *Forecaster) align(keys []dataset.Key, t []time.Time, p fill.Policy) (*dataset.Table, error) {
	columns := f.known.Columns()
	rows := make([]dataset.Row, 0, len(keys)*len(t))

	for _, key := range keys {
		knownT := f.known.Times(key)
		src, err := fill.Align(knownT, t, p)
		if err != nil {
			return nil, fmt.Errorf("unable to align group %v, %w", key, err)
		}

		for j := range t {
			vals := make([]float64, len(columns))
			if src[j] >= 0 {
				known, exists := f.known.At(key, knownT[src[j]])
				if !exists {
					return nil, fmt.Errorf("group %v lost its row at %s during alignment", key, knownT[src[j]])
				}
				copy(vals, known)
			} else {
				for i := range vals {
					vals[i] = gapValue(p)
				}
			}
			rows = append(rows, dataset.Row{Keys: key, T: t[j], Values: vals})
		}
	}

	return dataset.New(f.known.Levels(), columns, rows)
}

// fallbackTable builds the shape-correct degraded output used when alignment
// cannot be carried out: every cell holds the default value or NaN.
func (f *Forecaster) fallbackTable(keys []dataset.Key, t []time.Time) *dataset.Table {
	p := f.opt.policy()
	columns := f.known.Columns()
	rows := make([]dataset.Row, 0, len(keys)*len(t))
	for _, key := range keys {
		for j := range t {
			vals := make([]float64, len(columns))
			for i := range vals {
				vals[i] = gapValue(p)
			}
			rows = append(rows, dataset.Row{Keys: key, T: t[j], Values: vals})
		}
	}

	tb, err := dataset.New(f.known.Levels(), columns, rows)
	if err != nil {
		// keys and times are deduplicated so construction cannot collide;
		// an empty table of the right shape is the last resort
		tb, _ = dataset.New(f.known.Levels(), columns, nil)
	}
	return tb
}

// Cutoff returns the last training time recorded by Fit.
func (f *Forecaster) Cutoff() time.Time {
	if f == nil {
		return time.Time{}
	}
	return f.cutoff
}

// Interval returns the horizon step interval recorded by Fit.
func (f *Forecaster) Interval() time.Duration {
	if f == nil {
		return 0
	}
	return f.interval
}

// KnownValues returns a copy of the known value table captured at
// construction.
func (f *Forecaster) KnownValues() *dataset.Table {
	if f == nil {
		return nil
	}
	return f.known.Copy()
}

// expandKeys returns the coordinate groups predictions must cover: the
// Cartesian product of the distinct values observed per group level, in
// first-seen order per level. Every combination is covered even if it never
// appears in the table. A table with no group levels yields the single empty
// key, and a degenerate empty table yields no keys.
func expandKeys(tb *dataset.Table) []dataset.Key {
	groups := tb.Groups()
	k := tb.NumGroupLevels()
	if k == 0 || len(groups) <= 1 {
		return groups
	}

	levelVals := make([][]string, k)
	seen := make([]map[string]struct{}, k)
	for i := 0; i < k; i++ {
		seen[i] = make(map[string]struct{})
	}
	for _, group := range groups {
		for i, val := range group {
			if _, exists := seen[i][val]; exists {
				continue
			}
			seen[i][val] = struct{}{}
			levelVals[i] = append(levelVals[i], val)
		}
	}

	keys := []dataset.Key{{}}
	for i := 0; i < k; i++ {
		next := make([]dataset.Key, 0, len(keys)*len(levelVals[i]))
		for _, key := range keys {
			for _, val := range levelVals[i] {
				grown := make(dataset.Key, 0, len(key)+1)
				grown = append(grown, key...)
				grown = append(grown, val)
				next = append(next, grown)
			}
		}
		keys = next
	}
	return keys
}

// reconcileColumns forces the prediction's column set to exactly match the
// known table's columns in order. Foreign columns are dropped and missing
// columns are added holding the policy's gap value.
func reconcileColumns(pred *dataset.Table, columns []string, p fill.Policy) (*dataset.Table, error) {
	if equalColumns(pred.Columns(), columns) {
		return pred, nil
	}

	srcRows := pred.Rows()
	rows := make([]dataset.Row, 0, len(srcRows))
	for _, row := range srcRows {
		vals := make([]float64, len(columns))
		for i, col := range columns {
			if cIdx, exists := pred.ColumnIndex(col); exists {
				vals[i] = row.Values[cIdx]
			} else {
				vals[i] = gapValue(p)
			}
		}
		rows = append(rows, dataset.Row{Keys: row.Keys, T: row.T, Values: vals})
	}
	return dataset.New(pred.Levels(), columns, rows)
}

func equalColumns(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func gapValue(p fill.Policy) float64 {
	if p.DefaultValue != nil {
		return *p.DefaultValue
	}
	return math.NaN()
}

// normalizeTimes sorts the requested times and drops duplicates so the
// prediction index is canonical.
func normalizeTimes(t []time.Time) []time.Time {
	norm := append([]time.Time(nil), t...)
	sort.Slice(norm, func(i, j int) bool { return norm[i].Before(norm[j]) })
	dedup := norm[:0]
	for i, tPnt := range norm {
		if i > 0 && tPnt.Equal(norm[i-1]) {
			continue
		}
		dedup = append(dedup, tPnt)
	}
	return dedup
}

// inferInterval assumes even spacing and uses the first group with at least
// two time points.
func inferInterval(tb *dataset.Table) (time.Duration, bool) {
	for _, key := range tb.Groups() {
		t := tb.Times(key)
		if len(t) < 2 {
			continue
		}
		return t[1].Sub(t[0]), true
	}
	return 0, false
}
