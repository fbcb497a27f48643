package tui

// Message types for tea.Model
type panelsChangedMsg struct{}

type exportDoneMsg struct {
	path string
}

type exportErrorMsg struct {
	err error
}
