package trace

import (
	"github.com/olivier-w/beatline/internal/pulse"
)

// Point is one vertex of the waveform polyline, in drawing-surface
// coordinates with y growing downward.
type Point struct {
	X float64
	Y float64
}

// Points maps a sample window onto a drawing surface of width×height,
// right-aligned: the newest sample sits flush against the right edge and the
// trace scrolls left as the window fills. stroke is the stroke width; the
// vertical range is inset by it on both edges so line caps never clip.
//
// The mapping is a pure function of its inputs and performs no I/O. A flat
// window (max == min) maps every sample to the inset rather than dividing by
// zero. Consecutive samples landing on the same y emit a single point; the
// skipped duplicates are purely cosmetic and do not affect the data model.
func Points(samples []pulse.Sample, a pulse.Analysis, width, height, stroke int) []Point {
	if len(samples) == 0 || width <= 0 || height <= 0 {
		return nil
	}

	xScale := float64(width) / float64(pulse.MaxSamples)
	xOffset := float64(pulse.MaxSamples-len(samples)) * xScale
	inset := float64(stroke)
	span := a.Max - a.Min
	drawable := float64(height) - 2*inset

	pts := make([]Point, 0, len(samples))
	havePrev := false
	prevY := 0.0
	for i, s := range samples {
		y := inset
		if span > 0 {
			y = inset + (s.Value-a.Min)/span*drawable
		}
		if havePrev && y == prevY {
			continue
		}
		pts = append(pts, Point{X: xOffset + float64(i)*xScale, Y: y})
		prevY = y
		havePrev = true
	}
	return pts
}
