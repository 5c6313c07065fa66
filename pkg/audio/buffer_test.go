package audio

import (
	"errors"
	"testing"
)

func TestNewAudioBufferRejectsZeroChannels(t *testing.T) {
	t.Parallel()
	if _, err := NewAudioBuffer(0, 128); err == nil {
		t.Fatalf("NewAudioBuffer(0, 128): expected error, got nil")
	}
}

func TestNewAudioBufferDimensions(t *testing.T) {
	t.Parallel()
	buf, err := NewAudioBuffer(2, 64)
	if err != nil {
		t.Fatalf("NewAudioBuffer: %v", err)
	}
	if got := buf.NumChannels(); got != 2 {
		t.Errorf("NumChannels() = %d, want 2", got)
	}
	if got := buf.NumFrames(); got != 64 {
		t.Errorf("NumFrames() = %d, want 64", got)
	}
	if got := buf.InterleaveStride(); got != 2 {
		t.Errorf("InterleaveStride() = %d, want 2", got)
	}
	if got := len(buf.Data()); got != 128 {
		t.Errorf("len(Data()) = %d, want 128", got)
	}
}

func TestAudioBufferAtSetUnchecked(t *testing.T) {
	t.Parallel()
	buf, err := NewAudioBuffer(2, 4)
	if err != nil {
		t.Fatalf("NewAudioBuffer: %v", err)
	}
	buf.SetUnchecked(1, 2, 0.5)
	got, err := buf.At(1, 2)
	if err != nil {
		t.Fatalf("At(1, 2): %v", err)
	}
	if got != 0.5 {
		t.Errorf("At(1, 2) = %v, want 0.5", got)
	}
	if got := buf.AtUnchecked(1, 2); got != 0.5 {
		t.Errorf("AtUnchecked(1, 2) = %v, want 0.5", got)
	}
}

func TestAudioBufferAtOutOfRange(t *testing.T) {
	t.Parallel()
	buf, err := NewAudioBuffer(2, 4)
	if err != nil {
		t.Fatalf("NewAudioBuffer: %v", err)
	}
	cases := []struct {
		channel, frame uint32
	}{
		{2, 0},
		{0, 4},
		{5, 5},
	}
	for _, c := range cases {
		if _, err := buf.At(c.channel, c.frame); !errors.Is(err, ErrOutOfRange) {
			t.Errorf("At(%d, %d): got %v, want ErrOutOfRange", c.channel, c.frame, err)
		}
	}
}

func TestAudioBufferIndexInterleaving(t *testing.T) {
	t.Parallel()
	buf, err := NewAudioBuffer(2, 3)
	if err != nil {
		t.Fatalf("NewAudioBuffer: %v", err)
	}
	// frame*numChannels + channel
	buf.SetUnchecked(0, 0, 1)
	buf.SetUnchecked(1, 0, 2)
	buf.SetUnchecked(0, 1, 3)
	buf.SetUnchecked(1, 1, 4)
	want := []Sample{1, 2, 3, 4, 0, 0}
	data := buf.Data()
	for i, w := range want {
		if data[i] != w {
			t.Errorf("data[%d] = %v, want %v", i, data[i], w)
		}
	}
}

func TestFromInterleaved(t *testing.T) {
	t.Parallel()
	src := []int16{100, -100, 200, -200}
	buf, err := FromInterleaved[int16](2, 2, src)
	if err != nil {
		t.Fatalf("FromInterleaved: %v", err)
	}
	if got, _ := buf.At(0, 0); got != 100 {
		t.Errorf("At(0,0) = %v, want 100", got)
	}
	if got, _ := buf.At(1, 1); got != -200 {
		t.Errorf("At(1,1) = %v, want -200", got)
	}
}

func TestFromInterleavedShortSource(t *testing.T) {
	t.Parallel()
	src := []float32{1, 2}
	buf, err := FromInterleaved[float32](2, 4, src)
	if err != nil {
		t.Fatalf("FromInterleaved: %v", err)
	}
	if got, _ := buf.At(0, 1); got != 0 {
		t.Errorf("At(0,1) = %v, want 0 (zero-filled remainder)", got)
	}
}

func TestAudioBufferFill(t *testing.T) {
	t.Parallel()
	buf, _ := NewAudioBuffer(2, 4)
	buf.Fill(1.0)
	for i, v := range buf.Data() {
		if v != 1.0 {
			t.Errorf("data[%d] = %v, want 1.0", i, v)
		}
	}
}

func TestAudioBufferApplyGain(t *testing.T) {
	t.Parallel()
	buf, _ := NewAudioBuffer(1, 4)
	buf.Fill(1.0)
	buf.ApplyGain(0.5)
	for i, v := range buf.Data() {
		if v != 0.5 {
			t.Errorf("data[%d] = %v, want 0.5", i, v)
		}
	}
}

func TestAudioBufferCopyFrom(t *testing.T) {
	t.Parallel()
	buf, _ := NewAudioBuffer(1, 4)
	buf.CopyFrom([]Sample{1, 2, 3})
	want := []Sample{1, 2, 3, 0}
	for i, w := range want {
		if buf.Data()[i] != w {
			t.Errorf("data[%d] = %v, want %v", i, buf.Data()[i], w)
		}
	}
}

func TestAudioBufferAtUncheckedZeroAllocations(t *testing.T) {
	buf, _ := NewAudioBuffer(2, 512)
	allocs := testing.AllocsPerRun(100, func() {
		for f := uint32(0); f < buf.NumFrames(); f++ {
			buf.SetUnchecked(0, f, buf.AtUnchecked(0, f)+1)
		}
	})
	if allocs != 0 {
		t.Errorf("AllocsPerRun = %v, want 0", allocs)
	}
}
