package fill

import (
	"errors"
	"fmt"
	"sort"
	"time"
)

var (
	ErrUnorderedKnown   = errors.New("known times are not strictly increasing")
	ErrUnorderedHorizon = errors.New("horizon times are not strictly increasing")
)

// Align resolves each requested time against the known times of a single
// series, returning one source index per requested time or -1 where the
// policy leaves a gap. Both slices must be strictly increasing. The limit
// bounds the run of consecutive filled positions along the requested times,
// resetting at every exact match.
func Align(known, want []time.Time, p Policy) ([]int, error) {
	if err := ordered(known); err != nil {
		return nil, fmt.Errorf("%s, %w", err, ErrUnorderedKnown)
	}
	if err := ordered(want); err != nil {
		return nil, fmt.Errorf("%s, %w", err, ErrUnorderedHorizon)
	}

	src := make([]int, len(want))
	ins := make([]int, len(want))
	for j, t := range want {
		i := sort.Search(len(known), func(i int) bool { return !known[i].Before(t) })
		ins[j] = i
		if i < len(known) && known[i].Equal(t) {
			src[j] = i
		} else {
			src[j] = -1
		}
	}

	switch p.Method {
	case MethodNone:
	case MethodForward:
		run := 0
		for j := range want {
			if src[j] >= 0 {
				run = 0
				continue
			}
			run++
			if p.Limit > 0 && run > p.Limit {
				continue
			}
			if prev := ins[j] - 1; prev >= 0 {
				src[j] = prev
			}
		}
	case MethodBackward:
		run := 0
		for j := len(want) - 1; j >= 0; j-- {
			if src[j] >= 0 {
				run = 0
				continue
			}
			run++
			if p.Limit > 0 && run > p.Limit {
				continue
			}
			if next := ins[j]; next < len(known) {
				src[j] = next
			}
		}
	case MethodNearest:
		for j := range want {
			if src[j] >= 0 {
				continue
			}
			prev, next := ins[j]-1, ins[j]
			switch {
			case prev < 0 && next >= len(known):
			case prev < 0:
				src[j] = next
			case next >= len(known):
				src[j] = prev
			default:
				dPrev := want[j].Sub(known[prev])
				dNext := known[next].Sub(want[j])
				if dNext < dPrev {
					src[j] = next
				} else {
					src[j] = prev
				}
			}
		}
	default:
		return nil, fmt.Errorf("%d, %w", int(p.Method), ErrUnknownMethod)
	}
	return src, nil
}

func ordered(t []time.Time) error {
	for i := 1; i < len(t); i++ {
		if !t[i].After(t[i-1]) {
			return fmt.Errorf("position %d", i)
		}
	}
	return nil
}
