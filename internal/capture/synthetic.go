package capture

import (
	"math"
	"time"
)

// Synthetic produces a pulse-shaped brightness waveform without any hardware,
// rendered into real RGBA frames so the full extraction path is exercised.
// Each cycle is a baseline with a gaussian systolic peak plus a shallow
// deterministic noise floor, at an amplitude inside the range a real
// fingertip measurement produces.
type Synthetic struct {
	fps   int
	size  int
	bpm   float64
	noise float64

	phase float64
	pix   []byte
	next  time.Time
}

// NewSynthetic creates a demo source beating at the given BPM.
func NewSynthetic(bpm float64, fps int) *Synthetic {
	if fps <= 0 {
		fps = DefaultFPS
	}
	if bpm <= 0 {
		bpm = 72
	}
	size := DefaultCrop
	return &Synthetic{
		fps:   fps,
		size:  size,
		bpm:   bpm,
		noise: 0.0008,
		pix:   make([]byte, size*size*4),
	}
}

func (s *Synthetic) Start() error {
	s.phase = 0
	s.next = time.Now()
	return nil
}

// Next paces itself to the configured frame rate and synthesizes one frame.
func (s *Synthetic) Next() (Frame, error) {
	now := time.Now()
	if wait := s.next.Sub(now); wait > 0 {
		time.Sleep(wait)
		now = s.next
	}
	s.next = s.next.Add(time.Second / time.Duration(s.fps))

	v := s.value()
	s.fill(v)
	s.phase += s.bpm / 60 / float64(s.fps)
	if s.phase >= 1 {
		s.phase -= 1
	}

	return Frame{Pix: s.pix, W: s.size, H: s.size, At: now}, nil
}

func (s *Synthetic) Stop() error { return nil }

// value computes the brightness for the current cycle phase: baseline 0.55,
// systolic rise of ~0.008 with a secondary dicrotic bump.
func (s *Synthetic) value() float64 {
	v := 0.55
	v += 0.008 * gauss(s.phase, 0.25, 0.07)
	v += 0.003 * gauss(s.phase, 0.55, 0.09)
	v += s.noise * math.Sin(2*math.Pi*7.3*s.phase)
	return v
}

// fill writes pixels whose red+green mean reproduces v exactly. A brightness
// swing of 0.008 is far below one byte step per channel, so the target sum is
// dithered across the frame: most channels get the floor byte, the remainder
// get one more.
func (s *Synthetic) fill(v float64) {
	channels := s.size * s.size * 2
	total := int(math.Round(v * float64(channels) * 255))
	base := total / channels
	extra := total - base*channels
	if base > 255 {
		base, extra = 255, 0
	}

	ch := 0
	for i := 0; i+3 < len(s.pix); i += 4 {
		r, g := byte(base), byte(base)
		if ch < extra {
			r = byte(base + 1)
		}
		ch++
		if ch < extra {
			g = byte(base + 1)
		}
		ch++
		s.pix[i] = r
		s.pix[i+1] = g
		s.pix[i+2] = 0
		s.pix[i+3] = 255
	}
}

func gauss(x, mu, sigma float64) float64 {
	z := (x - mu) / sigma
	return math.Exp(-0.5 * z * z)
}
