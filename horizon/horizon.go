package horizon

import (
	"errors"
	"fmt"
	"time"

	"github.com/rickar/cal/v2"
	"github.com/rickar/cal/v2/us"
)

var (
	ErrNoSteps            = errors.New("no horizon steps")
	ErrNonIncreasingSteps = errors.New("horizon steps are not strictly increasing")
	ErrNoInterval         = errors.New("horizon interval must be positive")
)

// Horizon is an ordered set of relative forecast steps. Steps are offsets
// from a cutoff time, so step 1 is one interval past the cutoff. Zero and
// negative steps address the cutoff itself and in-sample times.
type Horizon struct {
	steps []int
}

// New creates a Horizon from strictly increasing relative steps.
func New(steps ...int) (*Horizon, error) {
	if len(steps) == 0 {
		return nil, ErrNoSteps
	}
	for i := 1; i < len(steps); i++ {
		if steps[i] <= steps[i-1] {
			return nil, fmt.Errorf("position %d, %w", i, ErrNonIncreasingSteps)
		}
	}
	h := &Horizon{steps: append([]int(nil), steps...)}
	return h, nil
}

// NewRange creates a Horizon covering steps 1 through n.
func NewRange(n int) (*Horizon, error) {
	if n < 1 {
		return nil, ErrNoSteps
	}
	steps := make([]int, 0, n)
	for i := 1; i <= n; i++ {
		steps = append(steps, i)
	}
	return New(steps...)
}

// Steps returns the relative steps in order.
func (h *Horizon) Steps() []int {
	if h == nil {
		return nil
	}
	return append([]int(nil), h.steps...)
}

// Len returns the number of steps.
func (h *Horizon) Len() int {
	if h == nil {
		return 0
	}
	return len(h.steps)
}

// Absolute resolves the relative steps into absolute time points given a
// cutoff time and a fixed interval between steps.
func (h *Horizon) Absolute(cutoff time.Time, interval time.Duration) ([]time.Time, error) {
	if h == nil {
		return nil, ErrNoSteps
	}
	if interval <= 0 {
		return nil, fmt.Errorf("%s, %w", interval, ErrNoInterval)
	}
	t := make([]time.Time, 0, len(h.steps))
	for _, step := range h.steps {
		t = append(t, cutoff.Add(time.Duration(step)*interval))
	}
	return t, nil
}

// AbsoluteWorkdays resolves the relative steps into absolute days counting
// only the business calendar's workdays from the cutoff.
func (h *Horizon) AbsoluteWorkdays(cutoff time.Time, c *cal.BusinessCalendar) ([]time.Time, error) {
	if h == nil {
		return nil, ErrNoSteps
	}
	t := make([]time.Time, 0, len(h.steps))
	for _, step := range h.steps {
		t = append(t, c.WorkdaysFrom(cutoff, step))
	}
	return t, nil
}

// NewUSBusinessCalendar returns a business calendar observing US holidays.
func NewUSBusinessCalendar() *cal.BusinessCalendar {
	c := cal.NewBusinessCalendar()
	c.AddHoliday(us.Holidays...)
	return c
}
