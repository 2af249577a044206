package pulse

// MaxSamples is the sample window capacity: about five seconds of signal at
// the nominal 60 Hz frame rate. The window is bounded by sample count, not
// time, so the effective span stretches when the source runs slower.
const MaxSamples = 300

// Buffer is a fixed-capacity FIFO window over the most recent samples,
// stored as a circular buffer. It is only ever touched from the session
// goroutine, so it carries no lock.
type Buffer struct {
	buf []Sample
	w   int // write position
	n   int // current fill level
}

// NewBuffer creates a buffer holding at most capacity samples.
func NewBuffer(capacity int) *Buffer {
	return &Buffer{buf: make([]Sample, capacity)}
}

// Push appends a sample, evicting the oldest one when the window is full.
func (b *Buffer) Push(s Sample) {
	b.buf[b.w] = s
	b.w = (b.w + 1) % len(b.buf)
	if b.n < len(b.buf) {
		b.n++
	}
}

// Len returns the number of buffered samples.
func (b *Buffer) Len() int {
	return b.n
}

// Snapshot returns the buffered samples in chronological order. The returned
// slice is a copy, so later pushes never mutate a snapshot under analysis.
func (b *Buffer) Snapshot() []Sample {
	if b.n == 0 {
		return nil
	}
	out := make([]Sample, b.n)
	start := (b.w - b.n + len(b.buf)) % len(b.buf)
	for i := range b.n {
		out[i] = b.buf[(start+i)%len(b.buf)]
	}
	return out
}

// Reset clears the window. Called once at the start of each monitoring
// session, never mid-run.
func (b *Buffer) Reset() {
	b.w = 0
	b.n = 0
}
