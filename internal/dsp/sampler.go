package dsp

import "github.com/hollow-note/pipsqueak/pkg/audio"

const (
	defaultNativeRate   = 44100.0
	defaultEngineRate   = 48000.0
	defaultRootNote     = 48.0
	defaultTuneCents    = 0.0
	defaultMaxPolyphony = 1
)

// Sampler holds a fixed pool of voices sharing one sample buffer, and
// implements an AudioSource by rendering every non-finished voice into
// each block.
type Sampler struct {
	sample *audio.AudioBuffer
	voices []SamplerVoice

	nativeRate float64
	engineRate float64
	rootNote   float64
	tuneCents  float64
}

// NewSampler builds a sampler over sample with maxPolyphony voices,
// defaulting to a native rate of 44100Hz, engine rate of 48000Hz, root note
// 48 (C3 in MIDI numbering), and zero tune cents. maxPolyphony below 1 is
// treated as 1.
func NewSampler(sample *audio.AudioBuffer, maxPolyphony int) *Sampler {
	if maxPolyphony < 1 {
		maxPolyphony = defaultMaxPolyphony
	}
	s := &Sampler{
		sample:     sample,
		voices:     make([]SamplerVoice, maxPolyphony),
		nativeRate: defaultNativeRate,
		engineRate: defaultEngineRate,
		rootNote:   defaultRootNote,
		tuneCents:  defaultTuneCents,
	}
	for i := range s.voices {
		s.voices[i].Configure(sample, s.nativeRate, s.engineRate)
	}
	return s
}

// SetNativeRate updates the native (source) sample rate and reconfigures
// every voice. Must not be called while the audio thread is rendering this
// sampler; see the concurrency notes on rate changes.
func (s *Sampler) SetNativeRate(rate float64) {
	s.nativeRate = rate
	s.reconfigureVoices()
}

// SetEngineRate updates the engine (output) sample rate and reconfigures
// every voice. Same caller restriction as SetNativeRate.
func (s *Sampler) SetEngineRate(rate float64) {
	s.engineRate = rate
	s.reconfigureVoices()
}

func (s *Sampler) reconfigureVoices() {
	for i := range s.voices {
		s.voices[i].Configure(s.sample, s.nativeRate, s.engineRate)
	}
}

// SetRootNote records the root note for future NoteOn calls.
func (s *Sampler) SetRootNote(note float64) { s.rootNote = note }

// SetTuneCents records the fine-tune offset in cents for future NoteOn
// calls.
func (s *Sampler) SetTuneCents(cents float64) { s.tuneCents = cents }

// NoteOn starts note at velocity on the first finished voice, or steals
// voice 0 if every voice is busy. Voice-stealing beyond "always steal 0" is
// out of scope; this is the documented, intentionally primitive policy.
func (s *Sampler) NoteOn(note, velocity float64) {
	for i := range s.voices {
		if s.voices[i].IsFinished() {
			s.voices[i].Start(note, velocity, s.rootNote, s.tuneCents)
			return
		}
	}
	s.voices[0].Start(note, velocity, s.rootNote, s.tuneCents)
}

// NoteOff is a no-op placeholder; note-off handling is out of scope for
// this sampler and voices always run to their natural end.
func (s *Sampler) NoteOff(note float64) {}

// Process renders every non-finished voice additively into output.
func (s *Sampler) Process(output *audio.AudioBuffer) {
	for i := range s.voices {
		if !s.voices[i].IsFinished() {
			s.voices[i].Render(output, output.NumFrames())
		}
	}
}

// IsFinished reports whether every voice is finished.
func (s *Sampler) IsFinished() bool {
	for i := range s.voices {
		if !s.voices[i].IsFinished() {
			return false
		}
	}
	return true
}
