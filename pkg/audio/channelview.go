package audio

import (
	"fmt"
	"iter"
)

// RawSpan is an unchecked, strided view over one channel's samples, for hot
// DSP loops that have already validated their bounds. Element i lives at
// data[offset + i*stride].
type RawSpan struct {
	data   []Sample
	offset uint32
	stride uint32
	frames uint32
}

// Len returns the number of frames in the span.
func (s RawSpan) Len() uint32 { return s.frames }

// At returns element i without bounds checking.
func (s RawSpan) At(i uint32) Sample {
	return s.data[s.offset+i*s.stride]
}

// Set writes element i without bounds checking.
func (s RawSpan) Set(i uint32, v Sample) {
	s.data[s.offset+i*s.stride] = v
}

// Add accumulates v into element i without bounds checking, for additive
// mixing into a single channel.
func (s RawSpan) Add(i uint32, v Sample) {
	s.data[s.offset+i*s.stride] += v
}

// ChannelView is a non-owning, read-write view bound to a single channel of
// an AudioBuffer. It stays valid for the lifetime of the referenced buffer
// and while no structural change (resize) to that buffer occurs; pipsqueak
// buffers never resize after construction, so a ChannelView is valid for
// the buffer's whole lifetime.
type ChannelView struct {
	buffer       *AudioBuffer
	channelIndex uint32
}

// Size returns the number of frames in this channel.
func (v *ChannelView) Size() uint32 { return v.buffer.numFrames }

// At returns the sample at frame i, bounds-checked against the channel's
// frame count.
func (v *ChannelView) At(i uint32) (Sample, error) {
	return v.buffer.At(v.channelIndex, i)
}

// Set writes the sample at frame i, bounds-checked against the channel's
// frame count.
func (v *ChannelView) Set(i uint32, val Sample) error {
	idx, ok := v.buffer.index(v.channelIndex, i)
	if !ok {
		return fmt.Errorf("audio: channel %d Set(%d): %w", v.channelIndex, i, ErrOutOfRange)
	}
	v.buffer.data[idx] = val
	return nil
}

// Raw returns an unchecked (ptr, frames, stride) span over this channel.
func (v *ChannelView) Raw() RawSpan {
	return RawSpan{
		data:   v.buffer.data,
		offset: v.channelIndex,
		stride: v.buffer.numChannels,
		frames: v.buffer.numFrames,
	}
}

// ApplyGain multiplies every sample in this channel by gain.
func (v *ChannelView) ApplyGain(gain float64) {
	g := Sample(gain)
	span := v.Raw()
	for i := uint32(0); i < span.frames; i++ {
		span.Set(i, span.At(i)*g)
	}
}

// Fill sets every sample in this channel to value.
func (v *ChannelView) Fill(value Sample) {
	span := v.Raw()
	for i := uint32(0); i < span.frames; i++ {
		span.Set(i, value)
	}
}

// CopyFrom overwrites this channel's leading samples from src. Extra
// source samples are ignored.
func (v *ChannelView) CopyFrom(src []Sample) {
	span := v.Raw()
	n := min(len(src), int(span.frames))
	for i := 0; i < n; i++ {
		span.Set(uint32(i), src[i])
	}
}

// Frames yields (frameIndex, *Sample) pairs in frame order, a pointer per
// step into the underlying interleaved storage advancing by exactly
// InterleaveStride elements each step.
func (v *ChannelView) Frames() iter.Seq2[int, *Sample] {
	return func(yield func(int, *Sample) bool) {
		stride := int(v.buffer.numChannels)
		idx := int(v.channelIndex)
		for f := 0; f < int(v.buffer.numFrames); f++ {
			if !yield(f, &v.buffer.data[idx]) {
				return
			}
			idx += stride
		}
	}
}

// ReadOnlyChannelView is the read-only counterpart of ChannelView.
type ReadOnlyChannelView struct {
	buffer       *AudioBuffer
	channelIndex uint32
}

// Size returns the number of frames in this channel.
func (v *ReadOnlyChannelView) Size() uint32 { return v.buffer.numFrames }

// At returns the sample at frame i, bounds-checked against the channel's
// frame count.
func (v *ReadOnlyChannelView) At(i uint32) (Sample, error) {
	return v.buffer.At(v.channelIndex, i)
}

// Raw returns an unchecked (ptr, frames, stride) span over this channel.
func (v *ReadOnlyChannelView) Raw() RawSpan {
	return RawSpan{
		data:   v.buffer.data,
		offset: v.channelIndex,
		stride: v.buffer.numChannels,
		frames: v.buffer.numFrames,
	}
}

// Frames yields (frameIndex, Sample) pairs in frame order.
func (v *ReadOnlyChannelView) Frames() iter.Seq2[int, Sample] {
	return func(yield func(int, Sample) bool) {
		stride := int(v.buffer.numChannels)
		idx := int(v.channelIndex)
		for f := 0; f < int(v.buffer.numFrames); f++ {
			if !yield(f, v.buffer.data[idx]) {
				return
			}
			idx += stride
		}
	}
}
