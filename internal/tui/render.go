package tui

import (
	"fmt"
	"strings"

	"github.com/Zacy-Sokach/TrollShield/internal/panel"
	"github.com/charmbracelet/lipgloss"
)

var (
	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("8")).
			Padding(0, 1)
	focusedPanelStyle = panelStyle.BorderForeground(lipgloss.Color("12"))

	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10"))
	idStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	captionStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Italic(true)
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	actionStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("13"))
	statusStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	hintStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// renderPanel 渲染单个面板，width 为面板外框宽度
func renderPanel(p panel.Panel, focused bool, spin string, width int) string {
	var sb strings.Builder

	sb.WriteString(idStyle.Render(fmt.Sprintf("#%d ", p.ID)))
	sb.WriteString(headerStyle.Render(p.Header))
	sb.WriteString("\n")

	if p.Loading {
		sb.WriteString(spin + " " + captionStyle.Render(p.Caption))
	} else {
		body := panel.RenderText(p.Response)
		if p.State == panel.StateError {
			body = errorStyle.Render(body)
		}
		sb.WriteString(body)
	}

	if p.Action != nil {
		sb.WriteString("\n\n")
		sb.WriteString(renderAction(*p.Action, spin))
	}

	style := panelStyle
	if focused {
		style = focusedPanelStyle
	}
	if width > 4 {
		style = style.Width(width - 2)
	}
	return style.Render(sb.String())
}

func renderAction(a panel.Action, spin string) string {
	switch {
	case len(a.Segments) > 0:
		return actionStyle.Render(a.Label) + "\n" + panel.RenderText(a.Segments)
	case a.Running:
		return spin + " " + captionStyle.Render(a.Caption)
	case a.Done:
		// 分析失败时保留进行中的提示
		return captionStyle.Render(a.Caption)
	default:
		return actionStyle.Render("[a] " + a.Label)
	}
}
