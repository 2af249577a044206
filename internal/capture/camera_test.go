package capture

import "testing"

func TestNewCameraAppliesDefaults(t *testing.T) {
	c := NewCamera("/dev/video0", 0, 0)
	if c.fps != DefaultFPS {
		t.Fatalf("fps = %d, want %d", c.fps, DefaultFPS)
	}
	if c.size != DefaultCrop {
		t.Fatalf("size = %d, want %d", c.size, DefaultCrop)
	}
	if len(c.frameBuf) != DefaultCrop*DefaultCrop*4 {
		t.Fatalf("frame buffer = %d bytes, want %d", len(c.frameBuf), DefaultCrop*DefaultCrop*4)
	}
}

func TestCameraNextBeforeStartFails(t *testing.T) {
	c := NewCamera("/dev/video0", 30, 32)
	if _, err := c.Next(); err == nil {
		t.Fatal("expected Next to fail before Start")
	}
}

func TestCameraStopIsIdempotent(t *testing.T) {
	c := NewCamera("/dev/video0", 30, 32)
	if err := c.Stop(); err != nil {
		t.Fatalf("Stop() before start error = %v", err)
	}
	if err := c.Stop(); err != nil {
		t.Fatalf("second Stop() error = %v", err)
	}
}
