package tui

import (
	"bytes"
	"fmt"
	"html"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Zacy-Sokach/TrollShield/internal/panel"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/microcosm-cc/bluemonday"
	"github.com/russross/blackfriday/v2"
)

var exportPolicy = bluemonday.UGCPolicy()

const htmlTemplate = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>%s</title>
</head>
<body>
%s</body>
</html>
`

// panelHTML 生成面板正文。纯文本只做转义，保持原样；
// 标记按 Markdown 渲染（分析结果里常见编号列表），最后统一清理。
func panelHTML(p panel.Panel) []byte {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "<h1>%s</h1>\n", html.EscapeString(panelTitle(p)))
	writeSegments(&buf, p.Response)

	if p.Action != nil && len(p.Action.Segments) > 0 {
		fmt.Fprintf(&buf, "<h2>%s</h2>\n", html.EscapeString(p.Action.Label))
		writeSegments(&buf, p.Action.Segments)
	}
	return exportPolicy.SanitizeBytes(buf.Bytes())
}

func panelTitle(p panel.Panel) string {
	if p.Header == "" {
		return fmt.Sprintf("#%d", p.ID)
	}
	return p.Header
}

func writeSegments(buf *bytes.Buffer, segments []panel.Segment) {
	for _, seg := range segments {
		if seg.Mode == panel.TrustedMarkup {
			buf.Write(blackfriday.Run([]byte(seg.Text)))
		} else {
			writePlainText(buf, seg.Text)
		}
	}
}

// writePlainText 空行分段，段内换行用 <br>
func writePlainText(buf *bytes.Buffer, text string) {
	text = strings.ReplaceAll(panel.SafeText(text), "\r\n", "\n")
	for _, para := range strings.Split(text, "\n\n") {
		para = strings.Trim(para, "\n")
		if strings.TrimSpace(para) == "" {
			continue
		}
		lines := strings.Split(para, "\n")
		for i, line := range lines {
			lines[i] = html.EscapeString(line)
		}
		fmt.Fprintf(buf, "<p>%s</p>\n", strings.Join(lines, "<br>\n"))
	}
}

// RenderHTML 生成面板的独立 HTML 页面
func RenderHTML(p panel.Panel) []byte {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, htmlTemplate, html.EscapeString(panelTitle(p)), panelHTML(p))
	return buf.Bytes()
}

// ExportPanel 把面板导出为 dir 下的 HTML 文件，返回文件路径
func ExportPanel(p panel.Panel, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("创建导出目录失败: %w", err)
	}

	name := fmt.Sprintf("trollshield-%d-%s.html", p.ID, time.Now().Format("20060102-150405"))
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, RenderHTML(p), 0644); err != nil {
		return "", fmt.Errorf("写入导出文件失败: %w", err)
	}
	return path, nil
}

func exportCmd(p panel.Panel, dir string) tea.Cmd {
	return func() tea.Msg {
		path, err := ExportPanel(p, dir)
		if err != nil {
			return exportErrorMsg{err: err}
		}
		return exportDoneMsg{path: path}
	}
}
