package capture

import "time"

// Frame is one RGBA pixel block with the wall-clock time it was captured.
// Pix holds 4 bytes per pixel (R, G, B, A) in row-major order. A source may
// reuse the pixel buffer between Next calls; callers consume a frame fully
// before requesting the next one.
type Frame struct {
	Pix []byte
	W   int
	H   int
	At  time.Time
}

// Source produces frames on demand. Start opens the device and begins
// producing, Next blocks until the next frame is ready, Stop releases the
// device. Stop also unblocks a pending Next.
type Source interface {
	Start() error
	Next() (Frame, error)
	Stop() error
}
