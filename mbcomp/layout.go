package mbcomp

import (
	"fmt"

	"github.com/cwbudde/algo-mbcomp/params"
)

// Band identifies one of the three frequency bands.
type Band int

const (
	Low Band = iota
	Mid
	High

	NumBands = 3
)

// Bands lists every band from low to high.
var Bands = [NumBands]Band{Low, Mid, High}

func (b Band) String() string {
	switch b {
	case Low:
		return "Low"
	case Mid:
		return "Mid"
	case High:
		return "High"
	default:
		return fmt.Sprintf("Band(%d)", int(b))
	}
}

// Global parameter names.
const (
	LowMidCrossoverName  = "Low Mid Crossover Freq"
	MidHighCrossoverName = "Mid High Crossover Freq"
	GainInName           = "Gain In"
	GainOutName          = "Gain Out"
)

// Ratios is the fixed list a band's ratio choice selects from.
var Ratios = []float64{1, 1.5, 2, 3, 4, 5, 6, 7, 8, 10, 15, 20, 50, 100}

const defaultRatioIndex = 3

func bandName(prefix string, b Band) string { return prefix + " " + b.String() + " Band" }

// ThresholdName returns the threshold parameter name of b.
func ThresholdName(b Band) string { return bandName("Threshold", b) }

// AttackName returns the attack parameter name of b.
func AttackName(b Band) string { return bandName("Attack", b) }

// ReleaseName returns the release parameter name of b.
func ReleaseName(b Band) string { return bandName("Release", b) }

// RatioName returns the ratio parameter name of b.
func RatioName(b Band) string { return bandName("Ratio", b) }

// BypassName returns the bypass parameter name of b.
func BypassName(b Band) string { return bandName("Bypassed", b) }

// MuteName returns the mute parameter name of b.
func MuteName(b Band) string { return bandName("Mute", b) }

// SoloName returns the solo parameter name of b.
func SoloName(b Band) string { return bandName("Solo", b) }

// Layout returns the registration table for every parameter the engine
// reads. Pass it to [params.NewStore].
func Layout() []params.Spec {
	ratios := make([]params.Choice, len(Ratios))
	for i, r := range Ratios {
		ratios[i] = params.Choice{Label: fmt.Sprintf("%.1f", r), Value: r}
	}

	specs := make([]params.Spec, 0, 7*NumBands+4)

	for _, b := range Bands {
		specs = append(specs, params.Float(ThresholdName(b), params.Range{Min: -60, Max: 12, Step: 1}, 0, "dB"))
	}

	for _, b := range Bands {
		specs = append(specs,
			params.Float(AttackName(b), params.Range{Min: 5, Max: 500, Step: 1}, 50, "ms"),
			params.Float(ReleaseName(b), params.Range{Min: 5, Max: 500, Step: 1}, 250, "ms"),
		)
	}

	for _, b := range Bands {
		specs = append(specs, params.ChoiceOf(RatioName(b), ratios, defaultRatioIndex))
	}

	for _, b := range Bands {
		specs = append(specs,
			params.Bool(BypassName(b), false),
			params.Bool(MuteName(b), false),
			params.Bool(SoloName(b), false),
		)
	}

	return append(specs,
		params.Float(LowMidCrossoverName, params.Range{Min: 20, Max: 999, Step: 1}, 400, "Hz"),
		params.Float(MidHighCrossoverName, params.Range{Min: 1000, Max: 20000, Step: 1}, 2000, "Hz"),
		params.Float(GainInName, params.Range{Min: -24, Max: 24, Step: 0.5}, 0, "dB"),
		params.Float(GainOutName, params.Range{Min: -24, Max: 24, Step: 0.5}, 0, "dB"),
	)
}

// NewStore builds a store from [Layout].
func NewStore() (*params.Store, error) {
	s, err := params.NewStore(Layout())
	if err != nil {
		return nil, fmt.Errorf("mbcomp: %w", err)
	}

	return s, nil
}
