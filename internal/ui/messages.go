package ui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/olivier-w/beatline/internal/pulse"
)

type tickMsg time.Time

// readingMsg carries one pipeline tick's output. Tagged with the session so
// late messages from a stopped session are ignored.
type readingMsg struct {
	session *pulse.Session
	reading pulse.Reading
}

// sessionEndedMsg signals the monitoring loop has fully wound down.
type sessionEndedMsg struct {
	session *pulse.Session
	err     error
}

type exportDoneMsg struct {
	path string
	err  error
}

func tickCmd() tea.Cmd {
	return tea.Tick(200*time.Millisecond, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func waitForReading(s *pulse.Session) tea.Cmd {
	return func() tea.Msg {
		select {
		case r := <-s.Readings():
			return readingMsg{session: s, reading: r}
		case <-s.Done():
			return nil
		}
	}
}

func checkDone(s *pulse.Session) tea.Cmd {
	return func() tea.Msg {
		<-s.Done()
		return sessionEndedMsg{session: s, err: s.Err()}
	}
}
