package dsp

import (
	"sync/atomic"

	"github.com/hollow-note/pipsqueak/pkg/audio"
)

// Mixer is a lock-free, real-time-safe summing bus. Its source list is
// published as an immutable snapshot behind an atomic pointer: writers
// (AddSource, ClearSources) run on control threads and copy-on-write;
// Process runs on the audio thread and does a single acquire-load, then
// iterates the snapshot it captured for the whole block, so a concurrent
// writer never hands the audio thread a partially-updated list.
type Mixer struct {
	sources atomic.Pointer[[]AudioSource]
}

// NewMixer returns an empty mixer.
func NewMixer() *Mixer {
	m := &Mixer{}
	empty := []AudioSource{}
	m.sources.Store(&empty)
	return m
}

// AddSource appends source to the mixer's list. It retries a
// compare-and-swap against the current snapshot so a concurrent AddSource
// from another control thread is never silently lost.
func (m *Mixer) AddSource(source AudioSource) {
	for {
		old := m.sources.Load()
		next := make([]AudioSource, len(*old)+1)
		copy(next, *old)
		next[len(*old)] = source
		if m.sources.CompareAndSwap(old, &next) {
			return
		}
	}
}

// ClearSources replaces the snapshot with an empty list. Unlike AddSource
// this is an unconditional store: the caller's intent is unconditional too
// ("the mixer should have nothing"), so there is nothing to retry against.
func (m *Mixer) ClearSources() {
	empty := []AudioSource{}
	m.sources.Store(&empty)
}

// Process adds every current source's contribution into output. It never
// clears output; the caller owns that. It performs exactly one atomic load
// and no allocation, so it is safe to call from the audio thread.
func (m *Mixer) Process(output *audio.AudioBuffer) {
	snapshot := *m.sources.Load()
	for _, source := range snapshot {
		source.Process(output)
	}
}

// IsFinished reports whether every current source is finished. This is a
// control-side operation: it is only real-time safe if every child's
// IsFinished is.
func (m *Mixer) IsFinished() bool {
	snapshot := *m.sources.Load()
	for _, source := range snapshot {
		if !source.IsFinished() {
			return false
		}
	}
	return true
}
