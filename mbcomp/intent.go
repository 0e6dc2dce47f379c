package mbcomp

import (
	"fmt"

	"github.com/cwbudde/algo-mbcomp/params"
)

// BandState is the exclusive user-facing state of one band.
type BandState int

const (
	Normal BandState = iota
	Bypassed
	Muted
	Soloed
)

func (s BandState) String() string {
	switch s {
	case Normal:
		return "Normal"
	case Bypassed:
		return "Bypassed"
	case Muted:
		return "Muted"
	case Soloed:
		return "Soloed"
	default:
		return fmt.Sprintf("BandState(%d)", int(s))
	}
}

// Intent is a user action on a band's state buttons.
type Intent int

const (
	ToggleBypass Intent = iota
	ToggleMute
	ToggleSolo
)

func (i Intent) String() string {
	switch i {
	case ToggleBypass:
		return "ToggleBypass"
	case ToggleMute:
		return "ToggleMute"
	case ToggleSolo:
		return "ToggleSolo"
	default:
		return fmt.Sprintf("Intent(%d)", int(i))
	}
}

func (i Intent) state() BandState {
	switch i {
	case ToggleBypass:
		return Bypassed
	case ToggleMute:
		return Muted
	default:
		return Soloed
	}
}

type bandFlags struct {
	bypass, mute, solo *params.Parameter
}

func lookupFlags(store *params.Store, b Band) (bandFlags, error) {
	var f bandFlags

	var err error
	if f.bypass, err = store.LookupKind(BypassName(b), params.KindBool); err != nil {
		return f, err
	}
	if f.mute, err = store.LookupKind(MuteName(b), params.KindBool); err != nil {
		return f, err
	}
	if f.solo, err = store.LookupKind(SoloName(b), params.KindBool); err != nil {
		return f, err
	}

	return f, nil
}

// BandStateOf reads the state of b. If several flags are set, as a restored
// blob may leave them, solo wins over mute and mute over bypass.
func BandStateOf(store *params.Store, b Band) (BandState, error) {
	f, err := lookupFlags(store, b)
	if err != nil {
		return Normal, fmt.Errorf("mbcomp: %w", err)
	}

	switch {
	case f.solo.Bool():
		return Soloed, nil
	case f.mute.Bool():
		return Muted, nil
	case f.bypass.Bool():
		return Bypassed, nil
	default:
		return Normal, nil
	}
}

// ApplyIntent moves b to the state selected by intent, or back to Normal if
// it is already there, and writes the three flags so that at most one is
// set. It returns the new state.
func ApplyIntent(store *params.Store, b Band, intent Intent) (BandState, error) {
	if intent < ToggleBypass || intent > ToggleSolo {
		return Normal, fmt.Errorf("mbcomp: unknown intent %d", int(intent))
	}

	cur, err := BandStateOf(store, b)
	if err != nil {
		return Normal, err
	}

	next := intent.state()
	if cur == next {
		next = Normal
	}

	f, _ := lookupFlags(store, b)
	f.bypass.SetBool(next == Bypassed)
	f.mute.SetBool(next == Muted)
	f.solo.SetBool(next == Soloed)

	return next, nil
}
