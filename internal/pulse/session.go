package pulse

import (
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/olivier-w/beatline/internal/capture"
)

// DefaultStabilization is how long a session waits after opening the device
// before ticking begins, so automatic exposure and focus can settle.
const DefaultStabilization = 1500 * time.Millisecond

// Status is the session lifecycle state.
type Status int

const (
	StatusIdle Status = iota
	StatusStabilizing
	StatusRunning
)

func (s Status) String() string {
	switch s {
	case StatusStabilizing:
		return "stabilizing"
	case StatusRunning:
		return "measuring"
	default:
		return "idle"
	}
}

// Reading is one tick's output: the sticky BPM display value plus the
// analysis and window snapshot that produced it.
type Reading struct {
	BPM     int  // rounded to the nearest whole beat per minute
	HasBPM  bool // false until the first estimate of the session
	Updated bool // whether this tick produced a fresh estimate

	Analysis Analysis
	Samples  []Sample
}

// Options wires a session to its collaborators. Source is required; the rest
// default sensibly.
type Options struct {
	Source        capture.Source
	Torch         capture.Illuminator
	Extractor     Extractor
	Stabilization time.Duration

	// OnBeat fires once per newly detected crossing, from the session
	// goroutine. Keep it short.
	OnBeat func()
}

// Session runs one bounded monitoring lifecycle: Idle → Stabilizing →
// Running → Idle. It owns the sample window for its duration and drives the
// whole pipeline synchronously on a single goroutine, one tick per frame.
// Construct a fresh Session per start; the old one keeps its samples for
// inspection after stopping.
type Session struct {
	opts Options
	buf  *Buffer

	mu      sync.Mutex
	status  Status
	warning string
	err     error
	used    bool

	stop     chan struct{}
	stopOnce sync.Once
	done     chan struct{}

	readings chan Reading

	lastBPM  int
	hasBPM   bool
	lastBeat time.Time
}

// NewSession creates an idle session.
func NewSession(opts Options) (*Session, error) {
	if opts.Source == nil {
		return nil, fmt.Errorf("session needs a frame source")
	}
	if opts.Torch == nil {
		opts.Torch = capture.NoTorch{}
	}
	if opts.Extractor == nil {
		opts.Extractor = RedGreen{}
	}
	if opts.Stabilization <= 0 {
		opts.Stabilization = DefaultStabilization
	}
	return &Session{
		opts:     opts,
		buf:      NewBuffer(MaxSamples),
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
		readings: make(chan Reading, 1),
	}, nil
}

// Start opens the device and begins the tick loop after the stabilization
// delay. A device failure aborts the start: the session stays idle with an
// empty buffer and a fresh user action is needed to retry. A torch failure
// is recorded as a warning and monitoring proceeds without illumination.
func (s *Session) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.used {
		return fmt.Errorf("session already started")
	}

	s.buf.Reset()
	if err := s.opts.Source.Start(); err != nil {
		return err
	}
	if err := s.opts.Torch.On(); err != nil {
		s.warning = fmt.Sprintf("torch unavailable: %v", err)
	}
	s.used = true
	s.status = StatusStabilizing

	go s.run()
	return nil
}

// Stop requests the loop to halt. The in-flight tick completes; the loop
// declines to request another frame afterwards. Buffer contents stay intact
// for inspection until the next session.
func (s *Session) Stop() {
	s.stopOnce.Do(func() {
		close(s.stop)
		// Unblock a Next call waiting on the device.
		s.opts.Source.Stop()
	})
}

// Readings is the session's output channel. It holds only the latest
// reading; a slow consumer sees the freshest tick, not a backlog.
func (s *Session) Readings() <-chan Reading {
	return s.readings
}

// Done is closed once the loop has fully wound down.
func (s *Session) Done() <-chan struct{} {
	return s.done
}

// Err reports what killed the loop, or nil after a clean stop.
func (s *Session) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// Status returns the current lifecycle state.
func (s *Session) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// Warning returns the non-fatal start warning, if any.
func (s *Session) Warning() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.warning
}

// Samples returns the retained window after the session has ended. While the
// loop is live it returns nil; the window is confined to the loop goroutine.
func (s *Session) Samples() []Sample {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.used && s.status != StatusIdle {
		return nil
	}
	return s.buf.Snapshot()
}

func (s *Session) run() {
	defer func() {
		s.opts.Torch.Off()
		s.opts.Source.Stop()
		s.mu.Lock()
		s.status = StatusIdle
		s.mu.Unlock()
		close(s.done)
	}()

	select {
	case <-time.After(s.opts.Stabilization):
	case <-s.stop:
		return
	}

	s.mu.Lock()
	s.status = StatusRunning
	s.mu.Unlock()

	for {
		frame, err := s.opts.Source.Next()
		if err != nil {
			select {
			case <-s.stop:
				// Stop killed the device mid-read; not a failure.
			default:
				s.mu.Lock()
				s.err = err
				s.mu.Unlock()
			}
			return
		}

		s.tick(frame)

		select {
		case <-s.stop:
			return
		default:
		}
	}
}

// tick runs one full pipeline pass: extract → push → analyze → estimate →
// publish. Everything completes before the next frame is requested.
func (s *Session) tick(frame capture.Frame) {
	value := s.opts.Extractor.Extract(frame.Pix, frame.W, frame.H)
	s.buf.Push(Sample{Value: value, At: frame.At})

	samples := s.buf.Snapshot()
	analysis := Analyze(samples)

	reading := Reading{
		BPM:      s.lastBPM,
		HasBPM:   s.hasBPM,
		Analysis: analysis,
		Samples:  samples,
	}
	if bpm, ok := EstimateBPM(analysis.Crossings); ok {
		s.lastBPM = int(math.Round(bpm))
		s.hasBPM = true
		reading.BPM = s.lastBPM
		reading.HasBPM = true
		reading.Updated = true
	}

	if n := len(analysis.Crossings); n > 0 && s.opts.OnBeat != nil {
		if latest := analysis.Crossings[n-1]; latest.At.After(s.lastBeat) {
			s.lastBeat = latest.At
			s.opts.OnBeat()
		}
	}

	s.publish(reading)
}

// publish keeps only the most recent reading in the channel.
func (s *Session) publish(r Reading) {
	for {
		select {
		case s.readings <- r:
			return
		default:
			select {
			case <-s.readings:
			default:
			}
		}
	}
}
