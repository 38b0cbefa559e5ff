package fill

import (
	"errors"
	"fmt"
)

var (
	ErrUnknownMethod = errors.New("unknown fill method")
	ErrNegativeLimit = errors.New("fill limit must be positive")
)

// Method selects the rule for assigning a value to a requested time
// coordinate absent from the known values.
type Method int

const (
	// MethodNone only resolves exact coordinate matches.
	MethodNone Method = iota
	// MethodForward resolves from the nearest preceding known coordinate.
	MethodForward
	// MethodBackward resolves from the nearest following known coordinate.
	MethodBackward
	// MethodNearest resolves from whichever neighboring known coordinate is
	// closer in time, ties broken toward the preceding one.
	MethodNearest
)

func (m Method) String() string {
	switch m {
	case MethodNone:
		return "none"
	case MethodForward:
		return "ffill"
	case MethodBackward:
		return "bfill"
	case MethodNearest:
		return "nearest"
	}
	return fmt.Sprintf("unknown(%d)", int(m))
}

// ParseMethod converts a method name into a Method. Accepts the common
// aliases "pad" for ffill and "backfill" for bfill. An empty string maps to
// MethodNone.
func ParseMethod(s string) (Method, error) {
	switch s {
	case "", "none":
		return MethodNone, nil
	case "ffill", "pad", "forward":
		return MethodForward, nil
	case "bfill", "backfill", "backward":
		return MethodBackward, nil
	case "nearest":
		return MethodNearest, nil
	}
	return MethodNone, fmt.Errorf("%q, %w", s, ErrUnknownMethod)
}

// MarshalText serializes the method as its string name.
func (m Method) MarshalText() ([]byte, error) {
	if m < MethodNone || m > MethodNearest {
		return nil, fmt.Errorf("%d, %w", int(m), ErrUnknownMethod)
	}
	return []byte(m.String()), nil
}

// UnmarshalText parses a method name or alias.
func (m *Method) UnmarshalText(data []byte) error {
	parsed, err := ParseMethod(string(data))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// Policy bundles a fill method with its optional limit and default value.
// A zero Limit is unbounded. A nil DefaultValue leaves unresolved gaps as
// NaN.
type Policy struct {
	Method       Method   `json:"method"`
	Limit        int      `json:"limit,omitempty"`
	DefaultValue *float64 `json:"default_value,omitempty"`
}

// Valid checks the policy configuration.
func (p Policy) Valid() error {
	if p.Method < MethodNone || p.Method > MethodNearest {
		return fmt.Errorf("%d, %w", int(p.Method), ErrUnknownMethod)
	}
	if p.Limit < 0 {
		return fmt.Errorf("%d, %w", p.Limit, ErrNegativeLimit)
	}
	return nil
}
