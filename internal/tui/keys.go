package tui

import (
	"github.com/Zacy-Sokach/TrollShield/internal/i18n"
	"github.com/charmbracelet/bubbles/key"
)

type keyMap struct {
	Summarize key.Binding
	Next      key.Binding
	Dismiss   key.Binding
	Analysis  key.Binding
	Export    key.Binding
	Quit      key.Binding
}

func newKeyMap(p *i18n.Printer) keyMap {
	return keyMap{
		Summarize: key.NewBinding(key.WithKeys("s"), key.WithHelp("s", p.T(i18n.HelpSummarize))),
		Next:      key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", p.T(i18n.HelpNext))),
		Dismiss:   key.NewBinding(key.WithKeys("x"), key.WithHelp("x", p.T(i18n.HelpDismiss))),
		Analysis:  key.NewBinding(key.WithKeys("a"), key.WithHelp("a", p.T(i18n.HelpAnalysis))),
		Export:    key.NewBinding(key.WithKeys("e"), key.WithHelp("e", p.T(i18n.HelpExport))),
		Quit:      key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", p.T(i18n.HelpQuit))),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Summarize, k.Next, k.Dismiss, k.Analysis, k.Export, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}
