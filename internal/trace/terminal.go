package trace

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/olivier-w/beatline/internal/pulse"
)

var (
	lineStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#C0392B", Dark: "#FF6B6B"})

	midStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#CCCCCC", Dark: "#444444"})
)

const (
	cellEmpty uint8 = iota
	cellLine
	cellMid
)

// Trace rasterizes the waveform into a block of terminal cells. The
// underlying geometry comes from Points; a spring field eases each column
// between ticks so the drawn line moves smoothly at display rate.
type Trace struct {
	field  springField
	fresh  bool
	output string
}

// New creates an empty trace renderer.
func New() *Trace {
	return &Trace{field: newSpringField(60, 10.0, 0.9), fresh: true}
}

// Reset snaps the smoothing state, for the start of a new session.
func (t *Trace) Reset() {
	t.fresh = true
	t.output = ""
}

// Update redraws the trace for the given window into width×height cells.
func (t *Trace) Update(samples []pulse.Sample, a pulse.Analysis, width, height int) {
	if len(samples) == 0 || width < 4 || height < 3 {
		t.output = ""
		return
	}

	pts := Points(samples, a, width, height, 1)
	if len(pts) == 0 {
		t.output = ""
		return
	}

	// Collapse the polyline to one target y per column.
	colY := make([]float64, width)
	colN := make([]int, width)
	for _, p := range pts {
		c := int(p.X)
		if c < 0 {
			c = 0
		}
		if c >= width {
			c = width - 1
		}
		colY[c] += p.Y
		colN[c]++
	}

	if len(t.field.pos) != width {
		t.field.resize(width)
		t.fresh = true
	}

	first := -1
	for c := range width {
		if colN[c] == 0 {
			continue
		}
		target := colY[c] / float64(colN[c])
		if first < 0 {
			first = c
		}
		if t.fresh {
			t.field.snap(c, target)
		} else {
			t.field.step(c, target)
		}
	}
	t.fresh = false
	if first < 0 {
		t.output = ""
		return
	}

	mask := make([][]uint8, height)
	for r := range height {
		mask[r] = make([]uint8, width)
	}
	mid := height / 2
	for c := range width {
		mask[mid][c] = cellMid
	}

	prev := clampRow(t.field.pos[first], height)
	for c := first + 1; c < width; c++ {
		row := clampRow(t.field.pos[c], height)
		drawLineMask(mask, c-1, prev, c, row)
		prev = row
	}
	if first == width-1 {
		mask[prev][first] = cellLine
	}

	t.output = renderMask(mask)
}

// View returns the last rendered block.
func (t *Trace) View() string {
	return t.output
}

func clampRow(y float64, height int) int {
	row := int(y)
	if row < 0 {
		row = 0
	}
	if row >= height {
		row = height - 1
	}
	return row
}

// drawLineMask connects two columns with a Bresenham walk.
func drawLineMask(mask [][]uint8, x0, y0, x1, y1 int) {
	maxY := len(mask)
	if maxY == 0 {
		return
	}
	maxX := len(mask[0])

	dx := absInt(x1 - x0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	dy := -absInt(y1 - y0)
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx + dy

	for {
		if y0 >= 0 && y0 < maxY && x0 >= 0 && x0 < maxX {
			mask[y0][x0] = cellLine
		}
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

// renderMask styles each row in runs so consecutive same-class cells share
// one escape sequence.
func renderMask(mask [][]uint8) string {
	var out strings.Builder
	for r, row := range mask {
		if r > 0 {
			out.WriteByte('\n')
		}
		run := strings.Builder{}
		cur := cellEmpty
		flush := func() {
			if run.Len() == 0 {
				return
			}
			switch cur {
			case cellLine:
				out.WriteString(lineStyle.Render(run.String()))
			case cellMid:
				out.WriteString(midStyle.Render(run.String()))
			default:
				out.WriteString(run.String())
			}
			run.Reset()
		}
		for _, m := range row {
			if m != cur {
				flush()
				cur = m
			}
			switch m {
			case cellLine:
				run.WriteRune('●')
			case cellMid:
				run.WriteRune('·')
			default:
				run.WriteByte(' ')
			}
		}
		flush()
	}
	return out.String()
}

func absInt(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
