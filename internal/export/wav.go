// Package export writes a session's raw brightness signal to disk for
// offline analysis. The pipeline itself persists nothing; export is an
// explicit user action on a finished session.
package export

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/olivier-w/beatline/internal/pulse"
)

const bitDepth = 16

// WriteWAV stores the sample window as a mono 16-bit WAV file at the given
// rate. The signal is recentered on the window mean and scaled so the
// observed range fills most of the 16-bit span, since the raw brightness
// swing is a few thousandths of full scale.
func WriteWAV(path string, samples []pulse.Sample, sampleRate int) error {
	if len(samples) == 0 {
		return fmt.Errorf("nothing to export")
	}
	if sampleRate <= 0 {
		return fmt.Errorf("invalid sample rate %d", sampleRate)
	}

	a := pulse.Analyze(samples)
	scale := 0.0
	if a.Range > 0 {
		scale = 28000 / (a.Range / 2)
	}

	data := make([]int, len(samples))
	for i, s := range samples {
		data[i] = int(scale * (s.Value - a.Average))
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}

	enc := wav.NewEncoder(f, sampleRate, bitDepth, 1, 1)
	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: 1, SampleRate: sampleRate},
		Data:           data,
		SourceBitDepth: bitDepth,
	}
	if err := enc.Write(buf); err != nil {
		f.Close()
		return fmt.Errorf("writing PCM: %w", err)
	}
	if err := enc.Close(); err != nil {
		f.Close()
		return fmt.Errorf("finalizing WAV: %w", err)
	}
	return f.Close()
}

// DefaultPath builds a timestamped file name inside dir.
func DefaultPath(dir string, at time.Time) string {
	return filepath.Join(dir, at.Format("pulse-20060102-150405")+".wav")
}
