package mbcomp

import (
	"errors"
	"testing"

	"github.com/cwbudde/algo-mbcomp/params"
)

func newStore(t testing.TB) *params.Store {
	t.Helper()

	s, err := NewStore()
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}

	return s
}

func TestLayoutRows(t *testing.T) {
	specs := Layout()
	if len(specs) != 25 {
		t.Fatalf("len(Layout())=%d want 25", len(specs))
	}

	s := newStore(t)

	cases := []struct {
		name string
		kind params.Kind
		def  float64
	}{
		{"Threshold Low Band", params.KindFloat, 0},
		{"Attack Mid Band", params.KindFloat, 50},
		{"Release High Band", params.KindFloat, 250},
		{"Ratio Low Band", params.KindChoice, 3},
		{"Bypassed Mid Band", params.KindBool, 0},
		{"Mute High Band", params.KindBool, 0},
		{"Solo Low Band", params.KindBool, 0},
		{"Low Mid Crossover Freq", params.KindFloat, 400},
		{"Mid High Crossover Freq", params.KindFloat, 2000},
		{"Gain In", params.KindFloat, 0},
		{"Gain Out", params.KindFloat, 0},
	}

	for _, tc := range cases {
		p, err := s.LookupKind(tc.name, tc.kind)
		if err != nil {
			t.Fatalf("%s: %v", tc.name, err)
		}

		if p.Get() != tc.def {
			t.Fatalf("%s default=%v want %v", tc.name, p.Get(), tc.def)
		}
	}

	if got := s.MustGet(RatioName(Mid)).ChoiceValue(); got != 3 {
		t.Fatalf("default ratio=%v want 3", got)
	}
}

func TestLayoutRanges(t *testing.T) {
	s := newStore(t)

	checks := []struct {
		name    string
		in, out float64
	}{
		{ThresholdName(High), 20, 12},
		{ThresholdName(High), -80, -60},
		{AttackName(Low), 1, 5},
		{ReleaseName(Low), 1000, 500},
		{LowMidCrossoverName, 5, 20},
		{LowMidCrossoverName, 1500, 999},
		{MidHighCrossoverName, 500, 1000},
		{MidHighCrossoverName, 30000, 20000},
		{GainInName, 3.3, 3.5},
		{RatioName(Low), 99, float64(len(Ratios) - 1)},
	}

	for _, c := range checks {
		if got := s.MustGet(c.name).Set(c.in); got != c.out {
			t.Fatalf("%s.Set(%v)=%v want %v", c.name, c.in, got, c.out)
		}
	}
}

func TestBandString(t *testing.T) {
	if Low.String() != "Low" || High.String() != "High" || Band(7).String() != "Band(7)" {
		t.Fatal("unexpected band names")
	}
}

func TestNewRejectsIncompleteStore(t *testing.T) {
	specs := Layout()

	partial, err := params.NewStore(specs[1:])
	if err != nil {
		t.Fatal(err)
	}

	if _, err := New(partial); !errors.Is(err, params.ErrUnknownParameter) {
		t.Fatalf("err=%v want ErrUnknownParameter", err)
	}

	swapped := append([]params.Spec(nil), specs...)
	for i, sp := range swapped {
		if sp.Name == GainOutName {
			swapped[i] = params.Bool(GainOutName, false)
		}
	}

	wrong, err := params.NewStore(swapped)
	if err != nil {
		t.Fatal(err)
	}

	if _, err := New(wrong); !errors.Is(err, params.ErrKindMismatch) {
		t.Fatalf("err=%v want ErrKindMismatch", err)
	}

	if _, err := New(nil); err == nil {
		t.Fatal("nil store accepted")
	}
}
