package config

import (
	"os"
	"strconv"
)

// Config holds runtime configuration, loaded from environment variables.
// Command-line flags override the device and demo settings on top of this.
type Config struct {
	Device string // camera device (platform-specific ffmpeg input)
	FPS    int    // capture frame rate
	Crop   int    // side length of the averaged center patch

	Beep bool // audible blip per beat

	NATSURL     string // empty disables telemetry
	NATSSubject string

	ExportDir string // where WAV exports land
}

// Load reads configuration from environment variables with sane defaults.
// An empty Device means "platform default", resolved by the caller.
func Load() Config {
	return Config{
		Device: envStr("PULSE_DEVICE", ""),
		FPS:    envInt("PULSE_FPS", 60),
		Crop:   envInt("PULSE_CROP", 64),

		Beep: envBool("PULSE_BEEP", true),

		NATSURL:     envStr("PULSE_NATS_URL", ""),
		NATSSubject: envStr("PULSE_NATS_SUBJECT", "pulse.readings"),

		ExportDir: envStr("PULSE_EXPORT_DIR", "."),
	}
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}
