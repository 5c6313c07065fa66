// Package audio provides the interleaved multi-channel sample buffer that
// every other package in pipsqueak reads from and writes into, along with
// the buffer registry used to keep loaded sample data alive while voices
// reference it.
package audio

import "errors"

// Sample is the storage type for every audio sample in pipsqueak. All
// buffers, views, and DSP code operate on float32; intermediate math that
// needs extra headroom (phase accumulation, pitch ratios) uses float64 and
// narrows back to Sample at the point of storage.
type Sample = float32

// ErrOutOfRange is returned by bounds-checked accessors when a channel or
// frame index falls outside a buffer's dimensions.
var ErrOutOfRange = errors.New("audio: index out of range")

// Numeric is the set of types FromInterleaved can convert from when
// populating a buffer from externally sourced interleaved data (e.g. the
// int samples a WAV decoder produces).
type Numeric interface {
	~float32 | ~float64 | ~int | ~int8 | ~int16 | ~int32 | ~int64 | ~uint8 | ~uint16 | ~uint32 | ~uint64
}
