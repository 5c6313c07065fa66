// Package engine owns the hardware audio stream and drives the block loop
// that pulls audio from the mixing graph into it.
package engine

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/hollow-note/pipsqueak/internal/dsp"
	"github.com/hollow-note/pipsqueak/internal/rtaudio"
	"github.com/hollow-note/pipsqueak/pkg/audio"
)

// AudioEngine owns the hardware output stream and the top-level (master)
// Mixer, and drives the block loop from the hardware callback. mixBuffer is
// allocated once in StartStream, before the stream (and therefore the
// callback) starts, and is exclusively owned by the audio thread for the
// life of the stream.
type AudioEngine struct {
	device rtaudio.RtAudio
	master *dsp.Mixer
	logger *slog.Logger

	mixBuffer *audio.AudioBuffer
}

// New builds an engine driving device, mixing through master. Every engine
// gets its own instance ID so its log lines can be told apart from any
// other engine running in the same process.
func New(device rtaudio.RtAudio, master *dsp.Mixer, logger *slog.Logger) *AudioEngine {
	if logger == nil {
		logger = slog.Default()
	}
	return &AudioEngine{
		device: device,
		master: master,
		logger: logger.With("component", "engine", "engineID", uuid.New()),
	}
}

// MasterMixer returns the engine's master mixer, for the control side to
// add or clear sources on.
func (e *AudioEngine) MasterMixer() *dsp.Mixer {
	return e.master
}

// StartStream opens an output stream on deviceID at sampleRate with
// blockSize frames per callback, negotiates channel count from the
// device's info, and starts the hardware callback loop. The mix buffer is
// allocated with the negotiated channel count and (possibly adjusted)
// block size before the stream starts.
func (e *AudioEngine) StartStream(deviceID int, sampleRate, blockSize uint) error {
	info, err := e.device.DeviceByID(deviceID)
	if err != nil {
		return fmt.Errorf("engine: StartStream: device lookup: %w", err)
	}
	if info.NumOutputChannels == 0 {
		return fmt.Errorf("engine: StartStream: device %d has no output channels", deviceID)
	}
	numChannels := uint(info.NumOutputChannels)

	frames := blockSize
	params := &rtaudio.StreamParams{
		DeviceID:    uint(deviceID),
		NumChannels: numChannels,
	}

	if err := e.device.Open(params, nil, rtaudio.FormatFloat32, sampleRate, &frames, e.blockLoop, nil); err != nil {
		return fmt.Errorf("engine: StartStream: open: %w", err)
	}

	// Open writes the negotiated block size back through frames; the mix
	// buffer must match what the callback will actually receive, not the
	// size requested.
	e.mixBuffer, err = audio.NewAudioBuffer(uint32(numChannels), uint32(frames))
	if err != nil {
		e.device.Close()
		return fmt.Errorf("engine: StartStream: allocate mix buffer: %w", err)
	}

	if err := e.device.Start(); err != nil {
		e.device.Close()
		return fmt.Errorf("engine: StartStream: start: %w", err)
	}

	e.logger.Info("stream started", "device", info.Name, "channels", numChannels, "sampleRate", sampleRate, "blockSize", frames)
	return nil
}

// StopStream is idempotent: it stops and closes the stream if it is
// currently open or running, and is a safe no-op otherwise. Failures are
// logged, never returned, matching the control-path contract for shutdown.
func (e *AudioEngine) StopStream() {
	if !e.device.IsOpen() {
		return
	}
	if e.device.IsRunning() {
		if err := e.device.Stop(); err != nil {
			e.logger.Error("stop stream failed", "error", err)
		}
	}
	e.device.Close()
	e.logger.Info("stream stopped")
}

// IsRunning reports whether the underlying stream is currently running.
func (e *AudioEngine) IsRunning() bool {
	return e.device.IsRunning()
}

// blockLoop is invoked by the underlying audio library on its dedicated
// real-time thread for every block. It clears the mix buffer, asks the
// master mixer to sum its sources into it, and copies the result into the
// hardware's output buffer. It never allocates on the steady-state path.
func (e *AudioEngine) blockLoop(out, in rtaudio.Buffer, _ time.Duration, status rtaudio.StreamStatus) int {
	if status&rtaudio.StatusOutputUnderflow != 0 {
		e.logger.Warn("output underflow")
	}

	e.mixBuffer.Fill(0)
	e.master.Process(e.mixBuffer)
	copy(out.Float32(), e.mixBuffer.Data())
	return 0
}
