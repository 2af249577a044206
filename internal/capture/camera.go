package capture

import (
	"context"
	"fmt"
	"io"
	"os/exec"
	"runtime"
	"strconv"
	"sync"
	"time"
)

const (
	// DefaultFPS is the nominal capture rate. The sample window is sized for
	// this rate (see pulse.MaxSamples).
	DefaultFPS = 60

	// DefaultCrop is the side length in pixels of the downscaled frame that
	// gets averaged. A fingertip covers the whole lens, so a small center
	// patch carries the same signal as the full sensor at a fraction of the
	// pipe bandwidth.
	DefaultCrop = 64
)

// Camera reads raw RGBA frames from a camera device through an ffmpeg
// subprocess.
type Camera struct {
	device string
	fps    int
	size   int

	mu       sync.Mutex
	cmd      *exec.Cmd
	stdout   io.ReadCloser
	cancel   context.CancelFunc
	frameBuf []byte
	started  bool
}

// NewCamera creates a camera source for the given device. fps and size fall
// back to the defaults when zero.
func NewCamera(device string, fps, size int) *Camera {
	if fps <= 0 {
		fps = DefaultFPS
	}
	if size <= 0 {
		size = DefaultCrop
	}
	return &Camera{
		device:   device,
		fps:      fps,
		size:     size,
		frameBuf: make([]byte, size*size*4),
	}
}

// Start launches the ffmpeg capture subprocess. A missing binary or device is
// fatal to starting a session; the caller reports it and stays idle.
func (c *Camera) Start() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.started {
		return fmt.Errorf("camera already started")
	}

	ffmpeg, err := exec.LookPath("ffmpeg")
	if err != nil {
		return fmt.Errorf("ffmpeg not found")
	}

	ctx, cancel := context.WithCancel(context.Background())

	args := []string{
		"-v", "quiet",
		"-f", inputFormat(),
		"-framerate", strconv.Itoa(c.fps),
		"-i", c.device,
		"-f", "rawvideo",
		"-pix_fmt", "rgba",
		"-vf", fmt.Sprintf("crop=min(iw\\,ih):min(iw\\,ih),scale=%d:%d,fps=%d", c.size, c.size, c.fps),
		"pipe:1",
	}

	cmd := exec.CommandContext(ctx, ffmpeg, args...)
	cmd.Stdin = nil

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		cancel()
		return fmt.Errorf("ffmpeg stdout pipe: %w", err)
	}

	if err := cmd.Start(); err != nil {
		cancel()
		return fmt.Errorf("starting ffmpeg capture: %w", err)
	}

	c.cmd = cmd
	c.stdout = stdout
	c.cancel = cancel
	c.started = true

	return nil
}

// Next reads one complete frame off the ffmpeg pipe. The returned frame's
// pixel buffer is reused on the following call.
func (c *Camera) Next() (Frame, error) {
	c.mu.Lock()
	stdout := c.stdout
	c.mu.Unlock()

	if stdout == nil {
		return Frame{}, fmt.Errorf("camera not started")
	}
	if _, err := io.ReadFull(stdout, c.frameBuf); err != nil {
		return Frame{}, fmt.Errorf("reading camera frame: %w", err)
	}
	return Frame{Pix: c.frameBuf, W: c.size, H: c.size, At: time.Now()}, nil
}

// Stop kills the capture subprocess and releases the device. Safe to call
// more than once, and from a goroutine other than the reader.
func (c *Camera) Stop() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.started {
		return nil
	}
	c.started = false
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	if c.cmd != nil {
		c.cmd.Wait()
		c.cmd = nil
	}
	c.stdout = nil
	return nil
}

// inputFormat returns the ffmpeg capture demuxer for the current platform.
func inputFormat() string {
	switch runtime.GOOS {
	case "darwin":
		return "avfoundation"
	case "windows":
		return "dshow"
	default:
		return "v4l2"
	}
}

// DefaultDevice returns the platform's usual first camera device.
func DefaultDevice() string {
	switch runtime.GOOS {
	case "darwin":
		return "0"
	case "windows":
		return "video=0"
	default:
		return "/dev/video0"
	}
}

// Available returns whether camera capture is possible (ffmpeg present).
func Available() bool {
	_, err := exec.LookPath("ffmpeg")
	return err == nil
}
