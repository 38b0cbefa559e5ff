package dataset

import (
	"math"
	"time"

	"gonum.org/v1/gonum/floats"
)

// GenerateT creates n time points at a fixed interval ending just before the
// time returned by nowFunc, truncated to the minute.
func GenerateT(n int, interval time.Duration, nowFunc func() time.Time) []time.Time {
	t := make([]time.Time, 0, n)
	ct := time.Unix(nowFunc().Unix()/60*60, 0).Add(-time.Duration(n) * interval).UTC()
	for i := 0; i < n; i++ {
		t = append(t, ct.Add(interval*time.Duration(i)))
	}
	return t
}

// Series is a value slice with helpers for composing simulated data.
type Series []float64

func (s Series) Add(src Series) Series {
	floats.Add(s, src)
	return s
}

// GenerateConstY creates a series of n constant values.
func GenerateConstY(n int, val float64) Series {
	y := make([]float64, 0, n)
	for i := 0; i < n; i++ {
		y = append(y, val)
	}
	return Series(y)
}

// GenerateLineY creates a series tracking the position of each time point,
// values 0..len(t)-1 plus an offset.
func GenerateLineY(t []time.Time, offset float64) Series {
	y := make([]float64, 0, len(t))
	for i := range t {
		y = append(y, float64(i)+offset)
	}
	return Series(y)
}

// GenerateWaveY creates a sinusoidal series over the given time points.
func GenerateWaveY(t []time.Time, amp, periodSec, order, timeOffset float64) Series {
	n := len(t)
	y := make([]float64, 0, n)
	for i := 0; i < n; i++ {
		val := amp * math.Sin(2.0*math.Pi*order/periodSec*(float64(t[i].Unix())+timeOffset))
		y = append(y, val)
	}
	return Series(y)
}

// GeneratePanel builds a single-column panel table with one group level where
// every group shares the same time points. Series values are keyed by group
// in the order the groups should appear.
func GeneratePanel(groupLevel string, column string, t []time.Time, groups []string, y map[string]Series) (*Table, error) {
	rows := make([]Row, 0, len(groups)*len(t))
	for _, grp := range groups {
		vals := y[grp]
		for i := range t {
			rows = append(rows, Row{
				Keys:   Key{grp},
				T:      t[i],
				Values: []float64{vals[i]},
			})
		}
	}
	return New([]string{groupLevel, DefaultTimeLevel}, []string{column}, rows)
}
