package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log/slog"
	"math"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/hollow-note/pipsqueak/internal/config"
	"github.com/hollow-note/pipsqueak/internal/dsp"
	"github.com/hollow-note/pipsqueak/internal/engine"
	"github.com/hollow-note/pipsqueak/internal/rtaudio"
	"github.com/hollow-note/pipsqueak/pkg/audio"
)

func main() {
	configFilePath := flag.String("config", "pipsqueak.yaml", "Path to the config file.")
	samplePath := flag.String("sample", "", "Path to a WAV file to load as the playable instrument.")
	flag.Parse()

	if *samplePath == "" {
		fmt.Fprintln(os.Stderr, "pipsqueakd: -sample is required")
		os.Exit(1)
	}

	if err := config.Load(*configFilePath); err != nil {
		fmt.Fprintf(os.Stderr, "pipsqueakd: load config: %v\n", err)
		os.Exit(1)
	}
	settings := config.Read()

	logFilePointer, err := config.ConfigureLogger(settings.LogLevel, settings.LogFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "pipsqueakd: configure logger: %v\n", err)
		os.Exit(1)
	}
	if logFilePointer != nil {
		defer logFilePointer.Close()
	}

	buf, nativeRate, err := loadSample(*samplePath)
	if err != nil {
		slog.Error("load sample", "error", err)
		os.Exit(1)
	}

	store := audio.NewBufferStore()
	store.Insert(buf)

	sampler := dsp.NewSampler(buf, settings.MaxPolyphony)
	sampler.SetNativeRate(nativeRate)
	sampler.SetEngineRate(float64(settings.SampleRate))
	sampler.SetRootNote(settings.RootNote)
	sampler.SetTuneCents(settings.TuneCents)

	master := dsp.NewMixer()
	master.AddSource(sampler)

	device, err := rtaudio.Create(rtaudio.APIUnspecified)
	if err != nil {
		slog.Error("create audio device controller", "error", err)
		os.Exit(1)
	}
	defer device.Destroy()

	eng := engine.New(device, master, slog.Default())
	if err := eng.StartStream(settings.Device, settings.SampleRate, settings.BlockSize); err != nil {
		slog.Error("start stream", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	slog.Info("pipsqueak ready; type a MIDI note number and press enter to play it")
	go readNotes(ctx, sampler)

	<-ctx.Done()
	eng.StopStream()
}

// loadSample decodes a WAV file into an AudioBuffer and returns the file's
// own sample rate, which becomes the sampler's native rate.
func loadSample(path string) (*audio.AudioBuffer, float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	decoder := wav.NewDecoder(f)
	var pcm *goaudio.IntBuffer
	pcm, err = decoder.FullPCMBuffer()
	if err != nil {
		return nil, 0, fmt.Errorf("decode %s: %w", path, err)
	}

	numChannels := uint32(decoder.NumChans)
	numFrames := uint32(len(pcm.Data)) / numChannels
	buf, err := audio.FromInterleaved(numChannels, numFrames, normalize(pcm.Data))
	if err != nil {
		return nil, 0, err
	}
	return buf, float64(decoder.SampleRate), nil
}

func normalize(data []int) []float32 {
	const maxInt16 = float32(math.MaxInt16)
	out := make([]float32, len(data))
	for i, v := range data {
		out[i] = float32(v) / maxInt16
	}
	return out
}

func readNotes(ctx context.Context, sampler *dsp.Sampler) {
	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		if ctx.Err() != nil {
			return
		}
		fields := strings.Fields(scanner.Text())
		for _, field := range fields {
			note, err := strconv.ParseFloat(field, 64)
			if err != nil {
				slog.Warn("not a note number", "input", field)
				continue
			}
			sampler.NoteOn(note, 1.0)
		}
	}
}
