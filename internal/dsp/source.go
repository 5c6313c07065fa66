// Package dsp implements the real-time signal graph: sources that render
// audio into a shared buffer, and the mixer that sums them.
package dsp

import "github.com/hollow-note/pipsqueak/pkg/audio"

// AudioSource is anything that can contribute audio to a block. Process must
// add its contribution to output, never clear it, and must be real-time
// safe: no allocation, no locking, no syscalls, and work proportional only
// to output's frame count.
//
// IsFinished is advisory. A mixer may still call Process on a finished
// source; that call must be a no-op. A composite source (a nested Mixer) is
// finished iff every one of its children is.
type AudioSource interface {
	Process(output *audio.AudioBuffer)
	IsFinished() bool
}
