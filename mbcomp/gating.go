package mbcomp

import "github.com/cwbudde/algo-mbcomp/dsp/buffer"

// Contributing returns which bands reach the output. When any band is
// soloed only the soloed bands play, whatever their mute flags; otherwise
// every unmuted band plays.
func Contributing(solo, mute [NumBands]bool) [NumBands]bool {
	var out [NumBands]bool

	anySolo := solo[Low] || solo[Mid] || solo[High]
	for i := range out {
		if anySolo {
			out[i] = solo[i]
		} else {
			out[i] = !mute[i]
		}
	}

	return out
}

// mixBands clears dst and adds every contributing band into it.
func mixBands(dst *buffer.Audio, bands *[NumBands]*buffer.Audio, on [NumBands]bool) {
	dst.Clear()

	for i, src := range bands {
		if on[i] {
			dst.AddFrom(src)
		}
	}
}
