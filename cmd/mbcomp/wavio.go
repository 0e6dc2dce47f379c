package main

import (
	"errors"
	"fmt"
	"math"
	"os"

	"github.com/cwbudde/algo-mbcomp/dsp/dither"
	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

const wavFormatPCM = 1

var errUnsupportedWAV = errors.New("unsupported WAV")

// pcmClip holds a decoded file as de-interleaved samples in [-1, 1).
type pcmClip struct {
	channels   [][]float64
	sampleRate int
	bitDepth   int
}

func (c *pcmClip) frames() int {
	if len(c.channels) == 0 {
		return 0
	}
	return len(c.channels[0])
}

func fullScale(bitDepth int) (float64, error) {
	switch bitDepth {
	case 16, 24, 32:
		return math.Ldexp(1, bitDepth-1), nil
	default:
		return 0, fmt.Errorf("%w: %d-bit samples", errUnsupportedWAV, bitDepth)
	}
}

func readWAV(path string) (*pcmClip, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open input: %w", err)
	}
	defer f.Close()

	dec := wav.NewDecoder(f)
	if !dec.IsValidFile() {
		return nil, fmt.Errorf("%w: %s is not a WAV file", errUnsupportedWAV, path)
	}

	if dec.WavAudioFormat != wavFormatPCM {
		return nil, fmt.Errorf("%w: format tag %d, want integer PCM", errUnsupportedWAV, dec.WavAudioFormat)
	}

	bitDepth := int(dec.BitDepth)
	scale, err := fullScale(bitDepth)
	if err != nil {
		return nil, err
	}

	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}

	numCh := buf.Format.NumChannels
	if numCh <= 0 {
		return nil, fmt.Errorf("%w: %d channels", errUnsupportedWAV, numCh)
	}

	frames := len(buf.Data) / numCh
	clip := &pcmClip{
		channels:   make([][]float64, numCh),
		sampleRate: buf.Format.SampleRate,
		bitDepth:   bitDepth,
	}

	inv := 1 / scale
	for ch := range numCh {
		samples := make([]float64, frames)
		for i := range samples {
			samples[i] = float64(buf.Data[i*numCh+ch]) * inv
		}
		clip.channels[ch] = samples
	}

	return clip, nil
}

// writeWAV quantizes clip with one dither stream per channel and writes it
// as integer PCM.
func writeWAV(path string, clip *pcmClip, dt dither.DitherType, shape bool) (err error) {
	if _, err := fullScale(clip.bitDepth); err != nil {
		return err
	}

	numCh := len(clip.channels)
	frames := clip.frames()

	data := make([]int, frames*numCh)
	column := make([]int, frames)
	for ch, samples := range clip.channels {
		q, err := dither.NewQuantizer(clip.bitDepth,
			dither.WithDitherType(dt),
			dither.WithNoiseShaping(shape),
			dither.WithSeed(uint64(ch)+1))
		if err != nil {
			return err
		}

		q.ProcessInto(column, samples)
		for i, v := range column {
			data[i*numCh+ch] = v
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("close output: %w", cerr)
		}
	}()

	enc := wav.NewEncoder(f, clip.sampleRate, clip.bitDepth, numCh, wavFormatPCM)
	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: numCh, SampleRate: clip.sampleRate},
		Data:           data,
		SourceBitDepth: clip.bitDepth,
	}

	if err := enc.Write(buf); err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}

	if err := enc.Close(); err != nil {
		return fmt.Errorf("finish %s: %w", path, err)
	}

	return nil
}
