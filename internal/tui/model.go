// Package tui 是面板的终端界面：一个容器，按创建顺序显示所有面板。
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/Zacy-Sokach/TrollShield/internal/config"
	"github.com/Zacy-Sokach/TrollShield/internal/i18n"
	"github.com/Zacy-Sokach/TrollShield/internal/panel"
	"github.com/Zacy-Sokach/TrollShield/internal/shield"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type Model struct {
	ctx       context.Context
	orch      *shield.Orchestrator
	printer   *i18n.Printer
	source    string
	exportDir string

	keys     keyMap
	help     help.Model
	viewport viewport.Model
	spinner  spinner.Model

	panels []panel.Panel
	focus  int // 当前面板编号，0 表示没有面板
	status string
	width  int
	ready  bool
}

// Option 配置 Model
type Option func(*Model)

// WithSource 空界面提示中显示的页面
func WithSource(location string) Option {
	return func(m *Model) {
		m.source = location
	}
}

// WithExportDir 导出文件的目录
func WithExportDir(dir string) Option {
	return func(m *Model) {
		m.exportDir = dir
	}
}

// WithLanguage 界面语言
func WithLanguage(lang string) Option {
	return func(m *Model) {
		m.printer = i18n.New(lang)
	}
}

func New(ctx context.Context, orch *shield.Orchestrator, opts ...Option) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))

	m := Model{
		ctx:       ctx,
		orch:      orch,
		printer:   i18n.New(config.DefaultLanguage),
		exportDir: ".",
		help:      help.New(),
		viewport:  viewport.New(80, 20),
		spinner:   sp,
		width:     80,
	}
	for _, opt := range opts {
		opt(&m)
	}
	m.keys = newKeyMap(m.printer)
	m.render()
	return m
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, waitForUpdate(m.orch.Session()))
}

// waitForUpdate 等待下一次面板变化
func waitForUpdate(s *panel.Session) tea.Cmd {
	return func() tea.Msg {
		<-s.Updates()
		return panelsChangedMsg{}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Summarize):
			m.focus = m.orch.OnTriggerCommentary(m.ctx)
			m.status = ""
			m.refresh()
			m.viewport.GotoBottom()
			return m, nil
		case key.Matches(msg, m.keys.Next):
			m.focusNext()
			m.render()
			return m, nil
		case key.Matches(msg, m.keys.Dismiss):
			if m.focus != 0 {
				m.orch.Dismiss(m.focus)
				m.refresh()
			}
			return m, nil
		case key.Matches(msg, m.keys.Analysis):
			if m.focus != 0 && m.orch.OnAnalysisClick(m.ctx, m.focus) {
				m.refresh()
			}
			return m, nil
		case key.Matches(msg, m.keys.Export):
			if p, ok := m.focusedPanel(); ok {
				return m, exportCmd(p, m.exportDir)
			}
			return m, nil
		}

	case tea.WindowSizeMsg:
		height := msg.Height - 3
		if height < 1 {
			height = 1
		}
		if !m.ready {
			m.viewport = viewport.New(msg.Width, height)
			m.ready = true
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = height
		}
		m.width = msg.Width
		m.help.Width = msg.Width
		m.render()

	case panelsChangedMsg:
		m.refresh()
		return m, waitForUpdate(m.orch.Session())

	case spinner.TickMsg:
		m.spinner, cmd = m.spinner.Update(msg)
		if m.busy() {
			m.render()
		}
		return m, cmd

	case exportDoneMsg:
		m.status = m.printer.T(i18n.Exported, msg.path)
		return m, nil

	case exportErrorMsg:
		m.status = m.printer.T(i18n.ExportFailed, msg.err.Error())
		return m, nil
	}

	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if !m.ready {
		return "初始化中..."
	}

	return fmt.Sprintf(
		"%s\n%s\n%s",
		m.viewport.View(),
		statusStyle.Render(m.status),
		m.help.View(m.keys),
	)
}

// refresh 重新读取面板快照，当前面板被关闭时焦点移到最后一个面板
func (m *Model) refresh() {
	m.panels = m.orch.Session().Snapshot()
	if _, ok := m.focusedPanel(); !ok {
		m.focus = 0
		if n := len(m.panels); n > 0 {
			m.focus = m.panels[n-1].ID
		}
	}
	m.render()
}

func (m *Model) focusNext() {
	if len(m.panels) == 0 {
		return
	}
	for i, p := range m.panels {
		if p.ID == m.focus {
			m.focus = m.panels[(i+1)%len(m.panels)].ID
			return
		}
	}
	m.focus = m.panels[0].ID
}

func (m Model) focusedPanel() (panel.Panel, bool) {
	for _, p := range m.panels {
		if p.ID == m.focus {
			return p, true
		}
	}
	return panel.Panel{}, false
}

// busy 是否有面板需要显示加载动画
func (m Model) busy() bool {
	for _, p := range m.panels {
		if p.Loading || (p.Action != nil && p.Action.Running) {
			return true
		}
	}
	return false
}

func (m *Model) render() {
	if len(m.panels) == 0 {
		source := m.source
		if source == "" {
			source = "-"
		}
		m.viewport.SetContent(hintStyle.Render(m.printer.T(i18n.EmptyHint, source)))
		return
	}

	spin := m.spinner.View()
	rendered := make([]string, 0, len(m.panels))
	for _, p := range m.panels {
		rendered = append(rendered, renderPanel(p, p.ID == m.focus, spin, m.width))
	}
	m.viewport.SetContent(strings.Join(rendered, "\n"))
}
