package dsp

import (
	"math"

	"github.com/hollow-note/pipsqueak/pkg/audio"
)

// VoiceState is a SamplerVoice's position in its finite-state machine.
type VoiceState int

const (
	// VoiceIdle is a voice that has never been started, or was configured
	// with unusable input and is permanently inert.
	VoiceIdle VoiceState = iota
	// VoicePlaying is a voice currently advancing its phase and rendering.
	VoicePlaying
	// VoiceFinished is a voice that has exhausted its source; it renders
	// silence forever until Start is called again.
	VoiceFinished
)

// SamplerVoice plays a single note from a shared, immutable sample buffer
// using single-stage fractional-phase linear interpolation. Its own state
// (phase, step, gain) is tiny and owned exclusively by the Sampler holding
// it; render must never allocate.
type SamplerVoice struct {
	source *audio.AudioBuffer

	srcChannels uint32
	numFrames   uint32
	lastIndex   float64

	nativeRate float64
	engineRate float64

	phase float64
	step  float64
	gain  float64

	state VoiceState
}

// Configure prepares the voice to play from sample at the given rates. If
// sample has fewer than two frames, or either rate is not positive, the
// voice becomes permanently inert: Start will never bring it out of
// VoiceIdle. Configure otherwise resets the voice to VoiceIdle.
func (v *SamplerVoice) Configure(sample *audio.AudioBuffer, nativeRate, engineRate float64) {
	v.source = sample
	v.nativeRate = nativeRate
	v.engineRate = engineRate
	v.state = VoiceIdle

	if sample == nil || sample.NumFrames() < 2 || nativeRate <= 0 || engineRate <= 0 {
		v.source = nil
		v.srcChannels = 0
		v.numFrames = 0
		v.lastIndex = 0
		return
	}

	v.srcChannels = sample.NumChannels()
	v.numFrames = sample.NumFrames()
	v.lastIndex = float64(v.numFrames - 1)
}

// Start begins playback of note at velocity, using rootNote and tuneCents
// to compute the pitch ratio. A voice configured with unusable input stays
// VoiceIdle regardless of Start's arguments.
func (v *SamplerVoice) Start(note, velocity float64, rootNote, tuneCents float64) {
	if v.source == nil {
		return
	}

	pitchScale := math.Pow(2, (note-rootNote)/12) * math.Pow(2, tuneCents/1200)
	v.step = (v.nativeRate / v.engineRate) * pitchScale
	v.phase = 0
	v.gain = clamp01(velocity)

	if v.step > 0 {
		v.state = VoicePlaying
	} else {
		v.state = VoiceIdle
	}
}

func clamp01(x float64) float64 {
	return min(max(x, 0), 1)
}

// Render additively mixes up to framesToRender frames of this voice's
// output into output, starting at output frame 0. It stops early and
// transitions to VoiceFinished the moment the source runs out.
func (v *SamplerVoice) Render(output *audio.AudioBuffer, framesToRender uint32) {
	if v.state != VoicePlaying {
		return
	}

	outChannels := output.NumChannels()
	multiChannel := v.srcChannels > 1

	for f := uint32(0); f < framesToRender; f++ {
		i := math.Floor(v.phase)
		if i > v.lastIndex {
			v.state = VoiceFinished
			return
		}
		idx := uint32(i)
		frac := v.phase - i

		if !multiChannel {
			s := v.interpolate(0, idx, frac)
			contribution := audio.Sample(v.gain * s)
			for c := uint32(0); c < outChannels; c++ {
				output.SetUnchecked(c, f, output.AtUnchecked(c, f)+contribution)
			}
		} else {
			channels := min(outChannels, v.srcChannels)
			for c := uint32(0); c < channels; c++ {
				s := v.interpolate(c, idx, frac)
				contribution := audio.Sample(v.gain * s)
				output.SetUnchecked(c, f, output.AtUnchecked(c, f)+contribution)
			}
		}

		v.phase += v.step
	}

	if v.phase >= v.lastIndex {
		v.state = VoiceFinished
	}
}

func (v *SamplerVoice) interpolate(channel, i uint32, frac float64) float64 {
	x0 := float64(v.source.AtUnchecked(channel, i))
	if float64(i) == v.lastIndex {
		return x0
	}
	x1 := float64(v.source.AtUnchecked(channel, i+1))
	return x0 + (x1-x0)*frac
}

// IsFinished reports whether the voice has run its source to completion.
// An idle voice (never started, or permanently inert) also counts as
// finished: it produces nothing.
func (v *SamplerVoice) IsFinished() bool {
	return v.state != VoicePlaying
}

// State returns the voice's current finite-state-machine state.
func (v *SamplerVoice) State() VoiceState {
	return v.state
}
