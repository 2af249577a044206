package ui

import tea "github.com/charmbracelet/bubbletea"

func isQuit(msg tea.KeyMsg) bool {
	switch msg.String() {
	case "q", "esc", "ctrl+c":
		return true
	}
	return false
}

func helpText(running bool, canExport bool) string {
	s := "space stop"
	if !running {
		s = "space start"
	}
	if canExport {
		s += "  e export wav"
	}
	s += "  q quit"
	return s
}
