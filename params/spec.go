package params

import (
	"errors"
	"fmt"
	"math"
)

// Kind is the payload type of a parameter.
type Kind int

const (
	KindFloat Kind = iota
	KindChoice
	KindBool
)

func (k Kind) String() string {
	switch k {
	case KindFloat:
		return "float"
	case KindChoice:
		return "choice"
	case KindBool:
		return "bool"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Range describes a continuous parameter.
//
// Step 0 means continuous. Skew shapes the normalized mapping: 1 (or 0) is
// linear, values below 1 give more resolution near Min.
type Range struct {
	Min, Max float64
	Step     float64
	Skew     float64
}

// Choice is one entry of a choice list.
type Choice struct {
	Label string
	Value float64
}

// Spec is one row of a registration table.
//
// Default is a plain value for floats, an index for choices and 0 or 1 for
// booleans.
type Spec struct {
	Name    string
	Kind    Kind
	Unit    string
	Range   Range
	Choices []Choice
	Default float64
}

// Float declares a continuous parameter.
func Float(name string, r Range, def float64, unit string) Spec {
	return Spec{Name: name, Kind: KindFloat, Range: r, Default: def, Unit: unit}
}

// ChoiceOf declares a choice parameter defaulting to choices[defIndex].
func ChoiceOf(name string, choices []Choice, defIndex int) Spec {
	return Spec{Name: name, Kind: KindChoice, Choices: choices, Default: float64(defIndex)}
}

// Bool declares a boolean parameter.
func Bool(name string, def bool) Spec {
	return Spec{Name: name, Kind: KindBool, Default: boolValue(def)}
}

var errInvalidSpec = errors.New("invalid parameter spec")

// Validate reports whether the spec can back a parameter.
func (s Spec) Validate() error {
	if s.Name == "" {
		return fmt.Errorf("%w: empty name", errInvalidSpec)
	}

	switch s.Kind {
	case KindFloat:
		r := s.Range
		if !isFinite(r.Min) || !isFinite(r.Max) || r.Min >= r.Max {
			return fmt.Errorf("%w: %q: range [%v, %v]", errInvalidSpec, s.Name, r.Min, r.Max)
		}
		if r.Step < 0 || !isFinite(r.Step) {
			return fmt.Errorf("%w: %q: step %v", errInvalidSpec, s.Name, r.Step)
		}
		if r.Skew < 0 || !isFinite(r.Skew) {
			return fmt.Errorf("%w: %q: skew %v", errInvalidSpec, s.Name, r.Skew)
		}
		if s.Default < r.Min || s.Default > r.Max {
			return fmt.Errorf("%w: %q: default %v outside [%v, %v]", errInvalidSpec, s.Name, s.Default, r.Min, r.Max)
		}
	case KindChoice:
		if len(s.Choices) == 0 {
			return fmt.Errorf("%w: %q: empty choice list", errInvalidSpec, s.Name)
		}
		if s.Default < 0 || int(s.Default) >= len(s.Choices) || s.Default != math.Trunc(s.Default) {
			return fmt.Errorf("%w: %q: default index %v", errInvalidSpec, s.Name, s.Default)
		}
	case KindBool:
		if s.Default != 0 && s.Default != 1 {
			return fmt.Errorf("%w: %q: default %v", errInvalidSpec, s.Name, s.Default)
		}
	default:
		return fmt.Errorf("%w: %q: unknown kind %v", errInvalidSpec, s.Name, s.Kind)
	}

	return nil
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func boolValue(b bool) float64 {
	if b {
		return 1
	}

	return 0
}
