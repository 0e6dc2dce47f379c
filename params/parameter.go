package params

import (
	"math"
	"strconv"
	"sync/atomic"
)

// Parameter is one named value in a [Store].
//
// Get and the typed readers are safe to call from any goroutine and never
// block. Set is meant for control goroutines because it runs the change
// listeners.
type Parameter struct {
	spec  Spec
	value atomic.Uint64
	store *Store
}

func newParameter(spec Spec, store *Store) *Parameter {
	p := &Parameter{spec: spec, store: store}
	p.value.Store(math.Float64bits(p.sanitize(spec.Default)))

	return p
}

// Name returns the parameter name.
func (p *Parameter) Name() string { return p.spec.Name }

// Kind returns the payload kind.
func (p *Parameter) Kind() Kind { return p.spec.Kind }

// Spec returns the registration row the parameter was built from.
func (p *Parameter) Spec() Spec { return p.spec }

// Default returns the sanitized default value.
func (p *Parameter) Default() float64 { return p.sanitize(p.spec.Default) }

// Get returns the stored value: the plain value of a float, the index of a
// choice, 0 or 1 for a boolean.
func (p *Parameter) Get() float64 {
	return math.Float64frombits(p.value.Load())
}

// Index returns the selected index of a choice parameter. For other kinds it
// returns the stored value truncated to an int.
func (p *Parameter) Index() int {
	return int(p.Get())
}

// Bool reports whether the stored value is non-zero.
func (p *Parameter) Bool() bool {
	return p.Get() != 0
}

// ChoiceValue resolves a choice index to its numeric value. Out-of-range
// indices are clamped. For other kinds it returns Get.
func (p *Parameter) ChoiceValue() float64 {
	if p.spec.Kind != KindChoice {
		return p.Get()
	}

	i := min(max(p.Index(), 0), len(p.spec.Choices)-1)

	return p.spec.Choices[i].Value
}

// ChoiceLabel returns the label of the selected choice, or "" for other
// kinds.
func (p *Parameter) ChoiceLabel() string {
	if p.spec.Kind != KindChoice {
		return ""
	}

	i := min(max(p.Index(), 0), len(p.spec.Choices)-1)

	return p.spec.Choices[i].Label
}

// Set sanitizes v, stores it and notifies listeners if the value changed.
// It returns the stored value.
func (p *Parameter) Set(v float64) float64 {
	v = p.sanitize(v)

	old := math.Float64frombits(p.value.Swap(math.Float64bits(v)))
	if old != v && p.store != nil {
		p.store.notify(Change{Parameter: p, Old: old, New: v})
	}

	return v
}

// SetBool stores b on a boolean parameter.
func (p *Parameter) SetBool(b bool) {
	p.Set(boolValue(b))
}

// Reset restores the default value.
func (p *Parameter) Reset() {
	p.Set(p.spec.Default)
}

// Normalized returns the value mapped to [0, 1].
func (p *Parameter) Normalized() float64 {
	return p.ToNormalized(p.Get())
}

// SetNormalized stores the value at normalized position n.
func (p *Parameter) SetNormalized(n float64) float64 {
	return p.Set(p.FromNormalized(n))
}

// ToNormalized maps a stored value to [0, 1].
func (p *Parameter) ToNormalized(v float64) float64 {
	v = p.sanitize(v)

	switch p.spec.Kind {
	case KindChoice:
		if len(p.spec.Choices) < 2 {
			return 0
		}

		return v / float64(len(p.spec.Choices)-1)
	case KindBool:
		return v
	default:
		r := p.spec.Range
		proportion := (v - r.Min) / (r.Max - r.Min)
		if skew := r.Skew; skew != 0 && skew != 1 && proportion > 0 {
			proportion = math.Pow(proportion, skew)
		}

		return proportion
	}
}

// FromNormalized maps n in [0, 1] to a sanitized stored value.
func (p *Parameter) FromNormalized(n float64) float64 {
	if math.IsNaN(n) {
		return p.Get()
	}

	n = min(max(n, 0), 1)

	switch p.spec.Kind {
	case KindChoice:
		return p.sanitize(n * float64(len(p.spec.Choices)-1))
	case KindBool:
		return p.sanitize(n)
	default:
		r := p.spec.Range
		if skew := r.Skew; skew != 0 && skew != 1 && n > 0 {
			n = math.Exp(math.Log(n) / skew)
		}

		return p.sanitize(r.Min + n*(r.Max-r.Min))
	}
}

// Format renders the current value for display.
func (p *Parameter) Format() string {
	switch p.spec.Kind {
	case KindChoice:
		return p.ChoiceLabel()
	case KindBool:
		if p.Bool() {
			return "On"
		}

		return "Off"
	default:
		s := strconv.FormatFloat(p.Get(), 'f', -1, 64)
		if p.spec.Unit != "" {
			s += " " + p.spec.Unit
		}

		return s
	}
}

func (p *Parameter) sanitize(v float64) float64 {
	if math.IsNaN(v) {
		v = p.spec.Default
	}

	switch p.spec.Kind {
	case KindChoice:
		n := len(p.spec.Choices)
		return min(max(math.Round(v), 0), float64(n-1))
	case KindBool:
		if v >= 0.5 {
			return 1
		}

		return 0
	default:
		r := p.spec.Range
		if r.Step > 0 && !math.IsInf(v, 0) {
			v = r.Min + math.Round((v-r.Min)/r.Step)*r.Step
		}

		return min(max(v, r.Min), r.Max)
	}
}
