package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/olivier-w/beatline/internal/config"
	"github.com/olivier-w/beatline/internal/export"
	"github.com/olivier-w/beatline/internal/pulse"
	"github.com/olivier-w/beatline/internal/telemetry"
	"github.com/olivier-w/beatline/internal/trace"
	"github.com/olivier-w/beatline/internal/util"
)

// Model is the Bubbletea model for the beatline TUI. It owns at most one
// active monitoring session; a fresh session is constructed per start so a
// stopped session keeps its samples around for export.
type Model struct {
	cfg        config.Config
	newSession func() (*pulse.Session, error)
	publisher  *telemetry.Publisher // nil when telemetry is off

	session *pulse.Session
	trace   *trace.Trace
	spinner spinner.Model

	reading     pulse.Reading
	haveReading bool
	status      pulse.Status

	width    int
	height   int
	quitting bool

	startedAt     time.Time
	statusMsg     string
	statusMsgTime time.Time
	exporting     bool
}

// New creates the model. newSession constructs a wired, unstarted session;
// publisher may be nil.
func New(cfg config.Config, newSession func() (*pulse.Session, error), publisher *telemetry.Publisher) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#555555", Dark: "#AAAAAA"})

	return Model{
		cfg:        cfg,
		newSession: newSession,
		publisher:  publisher,
		trace:      trace.New(),
		spinner:    s,
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(tickCmd(), tea.SetWindowTitle("beatline"))
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if isQuit(msg) {
			m.quitting = true
			if m.session != nil {
				m.session.Stop()
			}
			if m.publisher != nil {
				m.publisher.Close()
			}
			return m, tea.Sequence(tea.SetWindowTitle(""), tea.Quit)
		}
		switch msg.String() {
		case " ":
			if m.sessionLive() {
				m.session.Stop()
				return m, nil
			}
			return m.startSession()
		case "e":
			return m.startExport()
		}
		return m, nil

	case readingMsg:
		if msg.session != m.session {
			return m, nil
		}
		m.reading = msg.reading
		m.haveReading = true
		m.status = pulse.StatusRunning
		m.updateTrace()
		cmds := []tea.Cmd{waitForReading(msg.session)}
		if m.publisher != nil && msg.reading.Updated {
			r := msg.reading
			pub := m.publisher
			cmds = append(cmds, func() tea.Msg {
				pub.Publish(r)
				return nil
			})
		}
		return m, tea.Batch(cmds...)

	case sessionEndedMsg:
		if msg.session != m.session {
			return m, nil
		}
		m.status = pulse.StatusIdle
		if msg.err != nil {
			m.setStatusMsg(fmt.Sprintf("Monitoring stopped: %v", msg.err))
		}
		return m, nil

	case exportDoneMsg:
		m.exporting = false
		if msg.err != nil {
			m.setStatusMsg(fmt.Sprintf("Export failed: %v", msg.err))
		} else {
			m.setStatusMsg(fmt.Sprintf("Exported %s", msg.path))
		}
		return m, nil

	case tickMsg:
		if m.session != nil {
			m.status = m.session.Status()
		}
		if m.statusMsg != "" && time.Since(m.statusMsgTime) > 5*time.Second {
			m.statusMsg = ""
		}
		return m, tickCmd()

	case spinner.TickMsg:
		if m.status != pulse.StatusStabilizing {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updateTrace()
		return m, nil
	}

	return m, nil
}

func (m Model) sessionLive() bool {
	return m.session != nil && m.session.Status() != pulse.StatusIdle
}

func (m *Model) startSession() (tea.Model, tea.Cmd) {
	s, err := m.newSession()
	if err != nil {
		m.setStatusMsg(fmt.Sprintf("Cannot start: %v", err))
		return *m, nil
	}
	if err := s.Start(); err != nil {
		m.setStatusMsg(fmt.Sprintf("Cannot start: %v", err))
		return *m, nil
	}
	m.session = s
	m.status = pulse.StatusStabilizing
	m.startedAt = time.Now()
	m.reading = pulse.Reading{}
	m.haveReading = false
	m.trace.Reset()
	if w := s.Warning(); w != "" {
		m.setStatusMsg(w)
	}
	return *m, tea.Batch(waitForReading(s), checkDone(s), m.spinner.Tick)
}

func (m *Model) startExport() (tea.Model, tea.Cmd) {
	if m.session == nil || m.sessionLive() || m.exporting {
		return *m, nil
	}
	samples := m.session.Samples()
	if len(samples) == 0 {
		return *m, nil
	}
	m.exporting = true
	m.setStatusMsg("Exporting...")
	path := export.DefaultPath(m.cfg.ExportDir, time.Now())
	fps := m.cfg.FPS
	return *m, func() tea.Msg {
		err := export.WriteWAV(path, samples, fps)
		return exportDoneMsg{path: path, err: err}
	}
}

func (m *Model) setStatusMsg(s string) {
	m.statusMsg = s
	m.statusMsgTime = time.Now()
}

func (m *Model) updateTrace() {
	if !m.haveReading {
		return
	}
	w, h := m.traceSize()
	m.trace.Update(m.reading.Samples, m.reading.Analysis, w, h)
}

func (m Model) traceSize() (int, int) {
	w := m.width - 4
	if w < 20 {
		w = 20
	}
	h := m.height - 9
	if h < 3 {
		h = 3
	}
	if h > 16 {
		h = 16
	}
	return w, h
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	header := headerStyle.Render("beatline")

	bpm := "--"
	if m.reading.HasBPM {
		bpm = fmt.Sprintf("%d", m.reading.BPM)
	}
	vitals := bpmStyle.Render(fmt.Sprintf("♥ %s bpm", bpm))

	state := m.status.String()
	if m.status == pulse.StatusStabilizing {
		state = m.spinner.View() + " " + state
	}
	if m.sessionLive() {
		state += "  " + util.FormatDuration(time.Since(m.startedAt))
	}
	statusLine := vitals + "   " + statusStyle.Render(state)

	lines := "\n"
	lines += "  " + header + "\n"
	lines += "\n"
	lines += "  " + statusLine + "\n"
	lines += "\n"

	if pane := m.trace.View(); pane != "" {
		lines += indentBlock(pane) + "\n"
	} else {
		_, h := m.traceSize()
		for range h {
			lines += "\n"
		}
	}

	if hint := qualityHint(m.reading.Analysis.Range, m.status); hint != "" {
		lines += "  " + statusStyle.Render(hint) + "\n"
	} else {
		lines += "\n"
	}
	if m.statusMsg != "" {
		lines += "  " + warnStyle.Render(m.statusMsg) + "\n"
	}
	lines += "\n"
	lines += "  " + helpStyle.Render(helpText(m.sessionLive(), m.canExport())) + "\n"

	return lines
}

func (m Model) canExport() bool {
	return m.session != nil && !m.sessionLive() && !m.exporting && m.haveReading
}

// qualityHint classifies the signal range against the band a steady
// fingertip measurement lands in.
func qualityHint(r float64, status pulse.Status) string {
	if status != pulse.StatusRunning || r == 0 {
		return ""
	}
	switch {
	case r < 0.002:
		return "weak signal, press your finger flat over the lens"
	case r > 0.02:
		return "noisy, hold the camera still"
	default:
		return "good contact"
	}
}

func indentBlock(s string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = "  " + line
	}
	return strings.Join(lines, "\n")
}
