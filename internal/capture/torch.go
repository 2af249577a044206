package capture

import (
	"fmt"
	"os/exec"
)

// Illuminator toggles the constant light source that backlights the
// fingertip. Failures are reported to the user but never stop monitoring;
// measurement just degrades.
type Illuminator interface {
	On() error
	Off() error
}

// NoTorch is the no-op illuminator for devices without a controllable lamp.
type NoTorch struct{}

func (NoTorch) On() error  { return nil }
func (NoTorch) Off() error { return nil }

// V4L2Torch drives a UVC camera's flash LED in torch mode through v4l2-ctl.
type V4L2Torch struct {
	device string
}

// NewV4L2Torch creates a torch control bound to the given video device.
func NewV4L2Torch(device string) *V4L2Torch {
	return &V4L2Torch{device: device}
}

func (t *V4L2Torch) On() error {
	return t.set(2) // V4L2_FLASH_LED_MODE_TORCH
}

func (t *V4L2Torch) Off() error {
	return t.set(0)
}

func (t *V4L2Torch) set(mode int) error {
	v4l2ctl, err := exec.LookPath("v4l2-ctl")
	if err != nil {
		return fmt.Errorf("v4l2-ctl not found")
	}
	cmd := exec.Command(v4l2ctl, "-d", t.device, fmt.Sprintf("--set-ctrl=flash_led_mode=%d", mode))
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("setting flash_led_mode=%d: %v (%s)", mode, err, out)
	}
	return nil
}
