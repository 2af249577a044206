// Package beep plays the short per-beat blip a bedside monitor makes.
package beep

import (
	"bytes"
	"math"
	"sync"
	"time"

	"github.com/ebitengine/oto/v3"
)

const (
	sampleRate   = 44100
	channelCount = 2

	blipHz  = 880.0
	blipLen = 45 * time.Millisecond
)

var (
	globalOtoCtx *oto.Context
	otoOnce      sync.Once
	otoInitErr   error
)

func initOto() (*oto.Context, error) {
	otoOnce.Do(func() {
		op := &oto.NewContextOptions{
			SampleRate:   sampleRate,
			ChannelCount: channelCount,
			Format:       oto.FormatSignedInt16LE,
		}
		var ready chan struct{}
		globalOtoCtx, ready, otoInitErr = oto.NewContext(op)
		if otoInitErr == nil {
			<-ready
		}
	})
	return globalOtoCtx, otoInitErr
}

// Beeper plays a pre-rendered sine blip through the system audio device.
type Beeper struct {
	ctx *oto.Context
	pcm []byte
}

// New initializes the audio device and renders the blip. An error here means
// no audio output exists; monitoring works fine without it.
func New() (*Beeper, error) {
	ctx, err := initOto()
	if err != nil {
		return nil, err
	}
	return &Beeper{ctx: ctx, pcm: renderBlip()}, nil
}

// Beat plays one blip without blocking the caller.
func (b *Beeper) Beat() {
	p := b.ctx.NewPlayer(bytes.NewReader(b.pcm))
	p.Play()
	go func() {
		time.Sleep(blipLen + 100*time.Millisecond)
		p.Close()
	}()
}

// renderBlip bakes a decaying sine burst as 16-bit LE stereo PCM.
func renderBlip() []byte {
	frames := int(float64(sampleRate) * blipLen.Seconds())
	out := make([]byte, frames*channelCount*2)
	for i := range frames {
		t := float64(i) / sampleRate
		env := 1 - float64(i)/float64(frames)
		v := int16(12000 * env * math.Sin(2*math.Pi*blipHz*t))
		for ch := range channelCount {
			off := (i*channelCount + ch) * 2
			out[off] = byte(v)
			out[off+1] = byte(v >> 8)
		}
	}
	return out
}
