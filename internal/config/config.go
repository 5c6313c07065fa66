// Package config loads pipsqueak's runtime settings via viper and
// configures the process-wide slog logger from them.
package config

import (
	"errors"
	"log/slog"

	"github.com/spf13/viper"
)

// SetDefaults installs viper defaults for every setting pipsqueak reads.
func SetDefaults() {
	viper.SetDefault("loglevel", "info")
	viper.SetDefault("logfile", "")
	viper.SetDefault("device", 0)
	viper.SetDefault("samplerate", 48000)
	viper.SetDefault("blocksize", 256)
	viper.SetDefault("maxpolyphony", 8)
	viper.SetDefault("rootnote", 48.0)
	viper.SetDefault("tunecents", 0.0)
}

// Load sets defaults, then reads configFilePath into viper. A missing
// config file is not fatal: pipsqueak continues with defaults. Any other
// read error (a malformed file, a permissions problem) is returned.
func Load(configFilePath string) error {
	SetDefaults()
	viper.SetConfigFile(configFilePath)
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			slog.Info("no config file found, using defaults", "path", configFilePath)
			return nil
		}
		return err
	}
	return nil
}

// Settings is the resolved set of pipsqueak settings, read out of viper
// once after Load.
type Settings struct {
	LogLevel     string
	LogFile      string
	Device       int
	SampleRate   uint
	BlockSize    uint
	MaxPolyphony int
	RootNote     float64
	TuneCents    float64
}

// Read pulls the current viper values into a Settings struct.
func Read() Settings {
	return Settings{
		LogLevel:     viper.GetString("loglevel"),
		LogFile:      viper.GetString("logfile"),
		Device:       viper.GetInt("device"),
		SampleRate:   uint(viper.GetInt("samplerate")),
		BlockSize:    uint(viper.GetInt("blocksize")),
		MaxPolyphony: viper.GetInt("maxpolyphony"),
		RootNote:     viper.GetFloat64("rootnote"),
		TuneCents:    viper.GetFloat64("tunecents"),
	}
}
