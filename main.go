package main

import (
	"flag"
	"fmt"
	"os"
	"runtime"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/olivier-w/beatline/internal/beep"
	"github.com/olivier-w/beatline/internal/capture"
	"github.com/olivier-w/beatline/internal/config"
	"github.com/olivier-w/beatline/internal/pulse"
	"github.com/olivier-w/beatline/internal/telemetry"
	"github.com/olivier-w/beatline/internal/ui"
)

func main() {
	demo := flag.Bool("demo", false, "use a synthetic pulse source instead of a camera")
	demoBPM := flag.Float64("demo-bpm", 72, "heart rate of the synthetic source")
	device := flag.String("device", "", "camera device (default: platform first camera)")
	flag.Parse()

	cfg := config.Load()
	if *device != "" {
		cfg.Device = *device
	}
	if cfg.Device == "" {
		cfg.Device = capture.DefaultDevice()
	}

	if !*demo && !capture.Available() {
		fmt.Fprintf(os.Stderr, "Error: ffmpeg not found; install it or run with --demo\n")
		os.Exit(1)
	}

	// Audio and telemetry failures degrade the experience, never block it.
	var beeper *beep.Beeper
	if cfg.Beep {
		b, err := beep.New()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: audio unavailable: %v\n", err)
		} else {
			beeper = b
		}
	}

	var publisher *telemetry.Publisher
	if cfg.NATSURL != "" {
		p, err := telemetry.Connect(cfg.NATSURL, cfg.NATSSubject)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: telemetry disabled: %v\n", err)
		} else {
			publisher = p
			defer p.Close()
		}
	}

	newSession := func() (*pulse.Session, error) {
		var src capture.Source
		var torch capture.Illuminator = capture.NoTorch{}
		if *demo {
			src = capture.NewSynthetic(*demoBPM, cfg.FPS)
		} else {
			src = capture.NewCamera(cfg.Device, cfg.FPS, cfg.Crop)
			if runtime.GOOS == "linux" {
				torch = capture.NewV4L2Torch(cfg.Device)
			}
		}
		opts := pulse.Options{Source: src, Torch: torch}
		if beeper != nil {
			opts.OnBeat = beeper.Beat
		}
		return pulse.NewSession(opts)
	}

	model := ui.New(cfg, newSession, publisher)
	program := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
