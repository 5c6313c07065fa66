package audio

import "fmt"

// AudioBuffer is a fixed-shape container for interleaved multi-channel
// sample data. The sample for channel c at frame f lives at index
// f*numChannels + c; that index arithmetic (the "interleave stride") never
// changes once the buffer is constructed.
type AudioBuffer struct {
	numChannels uint32
	numFrames   uint32
	data        []Sample
}

// NewAudioBuffer allocates a zero-filled buffer with the given dimensions.
// numChannels must be greater than zero.
func NewAudioBuffer(numChannels, numFrames uint32) (*AudioBuffer, error) {
	if numChannels == 0 {
		return nil, fmt.Errorf("audio: NewAudioBuffer: numChannels must be > 0")
	}
	return &AudioBuffer{
		numChannels: numChannels,
		numFrames:   numFrames,
		data:        make([]Sample, uint64(numChannels)*uint64(numFrames)),
	}, nil
}

// FromInterleaved builds a buffer from numChannels*numFrames interleaved
// source samples, converting each by value to Sample. If source is shorter
// than the buffer's capacity the remainder stays zero; if longer, the extra
// samples are ignored.
func FromInterleaved[S Numeric](numChannels, numFrames uint32, source []S) (*AudioBuffer, error) {
	buf, err := NewAudioBuffer(numChannels, numFrames)
	if err != nil {
		return nil, err
	}
	n := min(len(source), len(buf.data))
	for i := 0; i < n; i++ {
		buf.data[i] = Sample(source[i])
	}
	return buf, nil
}

// NumChannels returns the number of audio channels in the buffer.
func (b *AudioBuffer) NumChannels() uint32 { return b.numChannels }

// NumFrames returns the number of sample frames in the buffer.
func (b *AudioBuffer) NumFrames() uint32 { return b.numFrames }

// InterleaveStride returns the number of samples between successive frames
// of the same channel. Always equal to NumChannels.
func (b *AudioBuffer) InterleaveStride() uint32 { return b.numChannels }

// Data returns the raw interleaved sample storage. The returned slice
// aliases the buffer's internal storage; callers operating on it directly
// are responsible for respecting the interleave stride.
func (b *AudioBuffer) Data() []Sample { return b.data }

func (b *AudioBuffer) index(channelNum, frameNum uint32) (int, bool) {
	if channelNum >= b.numChannels || frameNum >= b.numFrames {
		return 0, false
	}
	return int(frameNum)*int(b.numChannels) + int(channelNum), true
}

// At returns the sample at (channelNum, frameNum), bounds-checked against
// the buffer's dimensions.
func (b *AudioBuffer) At(channelNum, frameNum uint32) (Sample, error) {
	idx, ok := b.index(channelNum, frameNum)
	if !ok {
		return 0, fmt.Errorf("audio: At(ch:%d, fr:%d) out of range for [ch:%d, fr:%d]: %w",
			channelNum, frameNum, b.numChannels, b.numFrames, ErrOutOfRange)
	}
	return b.data[idx], nil
}

// AtUnchecked returns the sample at (channelNum, frameNum) without bounds
// checking. Callers must have already validated the indices; behavior is
// undefined (a possible panic from an out-of-range slice index) otherwise.
// Intended for hot paths that have already validated their indices.
func (b *AudioBuffer) AtUnchecked(channelNum, frameNum uint32) Sample {
	return b.data[int(frameNum)*int(b.numChannels)+int(channelNum)]
}

// SetUnchecked writes the sample at (channelNum, frameNum) without bounds
// checking. See AtUnchecked.
func (b *AudioBuffer) SetUnchecked(channelNum, frameNum uint32, v Sample) {
	b.data[int(frameNum)*int(b.numChannels)+int(channelNum)] = v
}

// Channel returns a writable view over a single channel of the buffer.
func (b *AudioBuffer) Channel(channelNum uint32) (*ChannelView, error) {
	if channelNum >= b.numChannels {
		return nil, fmt.Errorf("audio: Channel(%d): %w", channelNum, ErrOutOfRange)
	}
	return &ChannelView{buffer: b, channelIndex: channelNum}, nil
}

// ReadOnlyChannel returns a read-only view over a single channel of the
// buffer.
func (b *AudioBuffer) ReadOnlyChannel(channelNum uint32) (*ReadOnlyChannelView, error) {
	if channelNum >= b.numChannels {
		return nil, fmt.Errorf("audio: ReadOnlyChannel(%d): %w", channelNum, ErrOutOfRange)
	}
	return &ReadOnlyChannelView{buffer: b, channelIndex: channelNum}, nil
}

// Fill sets every sample in the buffer to v.
func (b *AudioBuffer) Fill(v Sample) {
	for i := range b.data {
		b.data[i] = v
	}
}

// ApplyGain multiplies every sample in the buffer by gain.
func (b *AudioBuffer) ApplyGain(gain float64) {
	g := Sample(gain)
	for i := range b.data {
		b.data[i] *= g
	}
}

// CopyFrom overwrites the buffer's leading samples from src. Extra source
// samples are ignored; the buffer's size never changes.
func (b *AudioBuffer) CopyFrom(src []Sample) {
	copy(b.data, src)
}
