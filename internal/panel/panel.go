// Package panel 管理浮动面板：一个容器，容器里按创建顺序排列多个面板。
// 所有操作都容忍目标面板已经不存在（被用户关闭后后台请求仍可能写入）。
package panel

import (
	"strings"
	"unicode/utf8"
)

// RenderMode 决定一段内容按纯文本还是受信任的标记显示
type RenderMode int

const (
	// PlainText 原样显示，不解释任何标记
	PlainText RenderMode = iota
	// TrustedMarkup 只用于内置的错误提示和分析结果，显示前会经过清理
	TrustedMarkup
)

func (m RenderMode) String() string {
	if m == TrustedMarkup {
		return "markup"
	}
	return "text"
}

// State 面板生命周期
type State int

const (
	StateLoading State = iota
	StateStreaming
	StateDone
	StateError
)

func (s State) String() string {
	switch s {
	case StateStreaming:
		return "streaming"
	case StateDone:
		return "done"
	case StateError:
		return "error"
	default:
		return "loading"
	}
}

// maxMarkupBytes 单个区域最多保存的标记字节数
const maxMarkupBytes = 64 << 10

// Segment 区域中的一段内容
type Segment struct {
	Mode RenderMode
	Text string
}

// Action 面板底部的次级操作（分析与建议）
type Action struct {
	Label    string
	Caption  string
	Segments []Segment
	// Running 期间不响应点击
	Running bool
	// Done 之后点击无效
	Done bool
}

// Panel 一次触发对应的面板
type Panel struct {
	ID       int
	State    State
	Header   string
	Caption  string
	Loading  bool
	Response []Segment
	Action   *Action
}

func (p *Panel) clone() Panel {
	cp := *p
	cp.Response = append([]Segment(nil), p.Response...)
	if p.Action != nil {
		action := *p.Action
		action.Segments = append([]Segment(nil), p.Action.Segments...)
		cp.Action = &action
	}
	return cp
}

// ResponseText 返回响应区域的文本内容，标记会被去掉
func (p Panel) ResponseText() string {
	if p.Loading {
		return ""
	}
	return segmentsText(p.Response)
}

func appendSegment(segments []Segment, mode RenderMode, text string) []Segment {
	if n := len(segments); n > 0 && segments[n-1].Mode == mode {
		segments[n-1].Text += text
		return segments
	}
	return append(segments, Segment{Mode: mode, Text: text})
}

func segmentsText(segments []Segment) string {
	var sb strings.Builder
	for _, seg := range segments {
		if seg.Mode == TrustedMarkup {
			sb.WriteString(MarkupTextContent(seg.Text))
		} else {
			sb.WriteString(seg.Text)
		}
	}
	return sb.String()
}

func markupLen(segments []Segment) int {
	n := 0
	for _, seg := range segments {
		if seg.Mode == TrustedMarkup {
			n += len(seg.Text)
		}
	}
	return n
}

// truncateUTF8 截断到最多 n 个字节，不拆开多字节字符
func truncateUTF8(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
