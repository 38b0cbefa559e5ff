package playback

import "github.com/aouyang1/go-playback/fill"

// Options configures how predictions are aligned against the known values.
// Options are validated once at construction and must not be mutated while
// predictions are running.
type Options struct {
	// FillMethod selects how requested coordinates absent from the known
	// values resolve to a value.
	FillMethod fill.Method `json:"fill_method"`

	// DefaultValue is substituted wherever the fill method leaves a gap. A
	// nil value leaves gaps as NaN.
	DefaultValue *float64 `json:"default_value,omitempty"`

	// Limit caps the run of consecutive forward or backward filled
	// coordinates. Zero is unbounded.
	Limit int `json:"limit,omitempty"`
}

// NewDefaultOptions returns options resolving exact matches only with gaps
// left as NaN.
func NewDefaultOptions() *Options {
	return &Options{
		FillMethod: fill.MethodNone,
	}
}

func (o *Options) policy() fill.Policy {
	return fill.Policy{
		Method:       o.FillMethod,
		Limit:        o.Limit,
		DefaultValue: o.DefaultValue,
	}
}
