package engine

import (
	"errors"
	"testing"
	"time"

	"github.com/hollow-note/pipsqueak/internal/dsp"
	"github.com/hollow-note/pipsqueak/internal/rtaudio"
	"github.com/hollow-note/pipsqueak/pkg/audio"
)

// fakeDevice is a minimal rtaudio.RtAudio double, exercising AudioEngine's
// control-flow without any cgo dependency.
type fakeDevice struct {
	devices []rtaudio.DeviceInfo

	openErr  error
	startErr error
	stopErr  error

	isOpen    bool
	isRunning bool

	openedFrames     uint
	negotiatedFrames uint // if nonzero, Open reports this back instead of the requested value
	cb               rtaudio.Callback
}

func (f *fakeDevice) Destroy()      {}
func (f *fakeDevice) CurrentAPI() rtaudio.API { return rtaudio.APIUnspecified }

func (f *fakeDevice) Devices() ([]rtaudio.DeviceInfo, error) { return f.devices, nil }

func (f *fakeDevice) DefaultOutputDeviceId() int { return 0 }
func (f *fakeDevice) DefaultInputDeviceId() int  { return 0 }
func (f *fakeDevice) DefaultOutputDevice() rtaudio.DeviceInfo {
	return rtaudio.DeviceInfo{}
}
func (f *fakeDevice) DefaultInputDevice() rtaudio.DeviceInfo {
	return rtaudio.DeviceInfo{}
}

func (f *fakeDevice) DeviceByID(id int) (rtaudio.DeviceInfo, error) {
	for _, d := range f.devices {
		if d.ID == id {
			return d, nil
		}
	}
	return rtaudio.DeviceInfo{}, errors.New("fake: no such device")
}

func (f *fakeDevice) Open(out, in *rtaudio.StreamParams, format rtaudio.Format, sampleRate uint, frames *uint, cb rtaudio.Callback, opts *rtaudio.StreamOptions) error {
	if f.openErr != nil {
		return f.openErr
	}
	if f.negotiatedFrames != 0 {
		*frames = f.negotiatedFrames
	}
	f.openedFrames = *frames
	f.cb = cb
	f.isOpen = true
	return nil
}

func (f *fakeDevice) Close() {
	f.isOpen = false
	f.isRunning = false
}

func (f *fakeDevice) Start() error {
	if f.startErr != nil {
		return f.startErr
	}
	f.isRunning = true
	return nil
}

func (f *fakeDevice) Stop() error {
	if f.stopErr != nil {
		return f.stopErr
	}
	f.isRunning = false
	return nil
}

func (f *fakeDevice) Abort() error { f.isRunning = false; return nil }

func (f *fakeDevice) IsOpen() bool    { return f.isOpen }
func (f *fakeDevice) IsRunning() bool { return f.isRunning }

func (f *fakeDevice) Latency() (int, error)             { return 0, nil }
func (f *fakeDevice) SampleRate() (uint, error)         { return 48000, nil }
func (f *fakeDevice) Time() (time.Duration, error)      { return 0, nil }
func (f *fakeDevice) SetTime(time.Duration) error       { return nil }
func (f *fakeDevice) ShowWarnings(bool)                 {}

// fakeBuffer implements rtaudio.Buffer over a float32 slice, standing in
// for the hardware output buffer the real callback receives.
type fakeBuffer struct {
	data []float32
}

func (b *fakeBuffer) Len() int          { return len(b.data) }
func (b *fakeBuffer) Int8() []int8      { return nil }
func (b *fakeBuffer) Int16() []int16    { return nil }
func (b *fakeBuffer) Int24() []rtaudio.Int24 { return nil }
func (b *fakeBuffer) Int32() []int32    { return nil }
func (b *fakeBuffer) Float32() []float32 { return b.data }
func (b *fakeBuffer) Float64() []float64 { return nil }

func stereoDevice() rtaudio.DeviceInfo {
	return rtaudio.DeviceInfo{ID: 1, Name: "fake stereo out", NumOutputChannels: 2}
}

func TestStartStreamNegotiatesChannelsAndStarts(t *testing.T) {
	t.Parallel()
	dev := &fakeDevice{devices: []rtaudio.DeviceInfo{stereoDevice()}}
	e := New(dev, dsp.NewMixer(), nil)

	if err := e.StartStream(1, 48000, 256); err != nil {
		t.Fatalf("StartStream: %v", err)
	}
	if !dev.isRunning {
		t.Errorf("device is not running after StartStream")
	}
	if dev.openedFrames != 256 {
		t.Errorf("openedFrames = %d, want 256", dev.openedFrames)
	}
	if e.mixBuffer.NumChannels() != 2 {
		t.Errorf("mixBuffer channels = %d, want 2", e.mixBuffer.NumChannels())
	}
}

func TestStartStreamSizesMixBufferFromNegotiatedFrames(t *testing.T) {
	t.Parallel()
	dev := &fakeDevice{
		devices:          []rtaudio.DeviceInfo{stereoDevice()},
		negotiatedFrames: 512,
	}
	e := New(dev, dsp.NewMixer(), nil)

	if err := e.StartStream(1, 48000, 256); err != nil {
		t.Fatalf("StartStream: %v", err)
	}
	if dev.openedFrames != 512 {
		t.Errorf("openedFrames = %d, want 512 (the negotiated value)", dev.openedFrames)
	}
	if got := e.mixBuffer.NumFrames(); got != 512 {
		t.Errorf("mixBuffer.NumFrames() = %d, want 512 (negotiated), not the requested 256", got)
	}
}

func TestBlockLoopMatchesHardwareBufferAfterNegotiation(t *testing.T) {
	t.Parallel()
	dev := &fakeDevice{
		devices:          []rtaudio.DeviceInfo{stereoDevice()},
		negotiatedFrames: 8,
	}
	mixer := dsp.NewMixer()
	e := New(dev, mixer, nil)

	if err := e.StartStream(1, 48000, 4); err != nil {
		t.Fatalf("StartStream: %v", err)
	}

	source := &constantSource{value: 0.25}
	mixer.AddSource(source)

	out := &fakeBuffer{data: make([]float32, 8*2)}
	if status := dev.cb(out, nil, 0, 0); status != 0 {
		t.Errorf("blockLoop returned %d, want 0", status)
	}
	for i, v := range out.data {
		if diff := float64(v) - 0.25; diff > 1e-6 || diff < -1e-6 {
			t.Errorf("out.data[%d] = %v, want ~0.25", i, v)
		}
	}
}

func TestStartStreamUnknownDeviceFails(t *testing.T) {
	t.Parallel()
	dev := &fakeDevice{devices: nil}
	e := New(dev, dsp.NewMixer(), nil)
	if err := e.StartStream(1, 48000, 256); err == nil {
		t.Fatalf("StartStream: expected error for unknown device")
	}
}

func TestStartStreamOpenFailureWraps(t *testing.T) {
	t.Parallel()
	openErr := errors.New("device busy")
	dev := &fakeDevice{
		devices: []rtaudio.DeviceInfo{stereoDevice()},
		openErr: openErr,
	}
	e := New(dev, dsp.NewMixer(), nil)
	err := e.StartStream(1, 48000, 256)
	if err == nil {
		t.Fatalf("StartStream: expected error")
	}
	if !errors.Is(err, openErr) {
		t.Errorf("StartStream error %v does not wrap the open error", err)
	}
}

func TestStopStreamIdempotent(t *testing.T) {
	t.Parallel()
	dev := &fakeDevice{devices: []rtaudio.DeviceInfo{stereoDevice()}}
	e := New(dev, dsp.NewMixer(), nil)
	// Stopping before ever starting must not panic or error.
	e.StopStream()

	if err := e.StartStream(1, 48000, 256); err != nil {
		t.Fatalf("StartStream: %v", err)
	}
	e.StopStream()
	if dev.isRunning || dev.isOpen {
		t.Errorf("device still open/running after StopStream")
	}
	// A second stop is a safe no-op.
	e.StopStream()
}

func TestBlockLoopClearsMixesAndCopies(t *testing.T) {
	t.Parallel()
	dev := &fakeDevice{devices: []rtaudio.DeviceInfo{stereoDevice()}}
	mixer := dsp.NewMixer()
	e := New(dev, mixer, nil)

	if err := e.StartStream(1, 48000, 4); err != nil {
		t.Fatalf("StartStream: %v", err)
	}

	source := &constantSource{value: 0.5}
	mixer.AddSource(source)

	out := &fakeBuffer{data: make([]float32, 4*2)}
	// Pre-fill with a sentinel to prove the block loop clears before mixing.
	for i := range out.data {
		out.data[i] = 99
	}
	dev.cb(out, nil, 0, 0)

	for i, v := range out.data {
		if diff := float64(v) - 0.5; diff > 1e-6 || diff < -1e-6 {
			t.Errorf("out.data[%d] = %v, want ~0.5", i, v)
		}
	}
}

type constantSource struct {
	value audio.Sample
}

func (c *constantSource) Process(output *audio.AudioBuffer) {
	for f := uint32(0); f < output.NumFrames(); f++ {
		for ch := uint32(0); ch < output.NumChannels(); ch++ {
			output.SetUnchecked(ch, f, output.AtUnchecked(ch, f)+c.value)
		}
	}
}

func (c *constantSource) IsFinished() bool { return false }
