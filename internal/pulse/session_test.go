package pulse

import (
	"errors"
	"io"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/olivier-w/beatline/internal/capture"
)

// stubSource replays fixed brightness levels as tiny uniform frames, then
// blocks until stopped like a real device pipe would.
type stubSource struct {
	levels   []byte
	i        int
	startErr error
	stopped  chan struct{}
	once     sync.Once
}

func newStubSource(levels ...byte) *stubSource {
	return &stubSource{levels: levels, stopped: make(chan struct{})}
}

func (s *stubSource) Start() error { return s.startErr }

func (s *stubSource) Next() (capture.Frame, error) {
	if s.i >= len(s.levels) {
		<-s.stopped
		return capture.Frame{}, io.EOF
	}
	level := s.levels[s.i]
	at := time.Unix(0, 0).Add(time.Duration(s.i) * 50 * time.Millisecond)
	s.i++

	pix := make([]byte, 2*2*4)
	for p := 0; p+3 < len(pix); p += 4 {
		pix[p] = level
		pix[p+1] = level
		pix[p+3] = 255
	}
	return capture.Frame{Pix: pix, W: 2, H: 2, At: at}, nil
}

func (s *stubSource) Stop() error {
	s.once.Do(func() { close(s.stopped) })
	return nil
}

type stubTorch struct {
	onErr error
	offs  atomic.Int32
}

func (t *stubTorch) On() error  { return t.onErr }
func (t *stubTorch) Off() error { t.offs.Add(1); return nil }

// awaitReading polls the session output until a reading covers n samples.
func awaitReading(t *testing.T, s *Session, n int) Reading {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		select {
		case r := <-s.Readings():
			if len(r.Samples) >= n {
				return r
			}
		case <-deadline:
			t.Fatalf("timed out waiting for a reading over %d samples", n)
		}
	}
}

func TestSessionRunsFullPipeline(t *testing.T) {
	// Two high runs each followed by a falling edge: two crossings 200ms
	// apart, so the window-mean estimate is 300 BPM (no plausibility clamp).
	src := newStubSource(130, 160, 100, 100, 160, 160, 100, 100, 160)
	var beats atomic.Int32

	s, err := NewSession(Options{
		Source:        src,
		Stabilization: time.Millisecond,
		OnBeat:        func() { beats.Add(1) },
	})
	if err != nil {
		t.Fatalf("NewSession() error = %v", err)
	}
	if err := s.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	r := awaitReading(t, s, len(src.levels))
	if !r.HasBPM {
		t.Fatal("expected a BPM estimate from two crossings")
	}
	if r.BPM != 300 {
		t.Fatalf("BPM = %d, want 300", r.BPM)
	}
	if len(r.Analysis.Crossings) != 2 {
		t.Fatalf("crossings = %d, want 2", len(r.Analysis.Crossings))
	}

	s.Stop()
	select {
	case <-s.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("session did not wind down after Stop")
	}

	if err := s.Err(); err != nil {
		t.Fatalf("Err() = %v, want nil after clean stop", err)
	}
	if got := s.Status(); got != StatusIdle {
		t.Fatalf("Status() = %v, want idle", got)
	}
	if got := len(s.Samples()); got != len(src.levels) {
		t.Fatalf("retained samples = %d, want %d", got, len(src.levels))
	}
	if got := beats.Load(); got != 2 {
		t.Fatalf("beat callbacks = %d, want 2", got)
	}
}

func TestSessionStartAbortsOnDeviceFailure(t *testing.T) {
	src := newStubSource(128)
	src.startErr = errors.New("permission denied")

	s, err := NewSession(Options{Source: src, Stabilization: time.Millisecond})
	if err != nil {
		t.Fatalf("NewSession() error = %v", err)
	}

	if err := s.Start(); err == nil {
		t.Fatal("expected Start to fail when the device is unavailable")
	}
	if got := s.Status(); got != StatusIdle {
		t.Fatalf("Status() = %v, want idle after failed start", got)
	}
	if got := s.Samples(); len(got) != 0 {
		t.Fatalf("expected empty buffer after failed start, got %d samples", len(got))
	}
}

func TestSessionTorchFailureIsNonFatal(t *testing.T) {
	src := newStubSource(130, 160, 100)
	torch := &stubTorch{onErr: errors.New("no torch control")}

	s, err := NewSession(Options{Source: src, Torch: torch, Stabilization: time.Millisecond})
	if err != nil {
		t.Fatalf("NewSession() error = %v", err)
	}
	if err := s.Start(); err != nil {
		t.Fatalf("Start() error = %v, torch failure must not abort", err)
	}
	if s.Warning() == "" {
		t.Fatal("expected a torch warning")
	}

	awaitReading(t, s, len(src.levels))
	s.Stop()
	<-s.Done()

	if torch.offs.Load() == 0 {
		t.Fatal("expected torch Off on wind-down")
	}
}

func TestSessionStopDuringStabilization(t *testing.T) {
	src := newStubSource(128)

	s, err := NewSession(Options{Source: src, Stabilization: 10 * time.Second})
	if err != nil {
		t.Fatalf("NewSession() error = %v", err)
	}
	if err := s.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	s.Stop()

	select {
	case <-s.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("stop during stabilization did not wind down")
	}
	if got := len(s.Samples()); got != 0 {
		t.Fatalf("expected no samples before ticking began, got %d", got)
	}
}

func TestSessionCannotStartTwice(t *testing.T) {
	src := newStubSource(130, 160, 100)

	s, err := NewSession(Options{Source: src, Stabilization: time.Millisecond})
	if err != nil {
		t.Fatalf("NewSession() error = %v", err)
	}
	if err := s.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	defer func() {
		s.Stop()
		<-s.Done()
	}()

	if err := s.Start(); err == nil {
		t.Fatal("expected second Start to fail")
	}
}
