package tui

import (
	"strings"
	"testing"

	"github.com/Zacy-Sokach/TrollShield/internal/panel"
)

func TestRenderPanel(t *testing.T) {
	tests := []struct {
		name    string
		panel   panel.Panel
		want    []string
		notWant []string
	}{
		{
			name:  "loading",
			panel: panel.Panel{ID: 1, Loading: true, Caption: "思考中..."},
			want:  []string{"#1", "思考中..."},
		},
		{
			name: "streaming text",
			panel: panel.Panel{ID: 2, Header: "AI 酸民護盾", State: panel.StateStreaming,
				Response: []panel.Segment{{Mode: panel.PlainText, Text: "<b>not markup</b>"}}},
			want: []string{"AI 酸民護盾", "<b>not markup</b>"},
		},
		{
			name: "error markup",
			panel: panel.Panel{ID: 3, State: panel.StateError, Response: []panel.Segment{{
				Mode: panel.TrustedMarkup,
				Text: "請確定 API key 是否正確<br><a href='https://platform.openai.com/api-keys'>前往查看</a>",
			}}},
			want:    []string{"請確定 API key 是否正確", "前往查看 (https://platform.openai.com/api-keys)"},
			notWant: []string{"<br>", "<a"},
		},
		{
			name: "control sequences",
			panel: panel.Panel{ID: 6, State: panel.StateStreaming,
				Response: []panel.Segment{{Mode: panel.PlainText, Text: "hi\x1b]52;c;cHduZWQ=\x07\x1b[2J"}}},
			want:    []string{"hi"},
			notWant: []string{"\x1b]52", "\x07", "\x1b[2J"},
		},
		{
			name: "action ready",
			panel: panel.Panel{ID: 4, State: panel.StateDone,
				Action: &panel.Action{Label: "分析與建議"}},
			want: []string{"[a] 分析與建議"},
		},
		{
			name: "action result",
			panel: panel.Panel{ID: 5, State: panel.StateDone,
				Action: &panel.Action{Label: "分析與建議", Done: true,
					Segments: []panel.Segment{{Mode: panel.TrustedMarkup, Text: "<b>法律</b><script>x()</script>"}}}},
			want:    []string{"分析與建議", "法律"},
			notWant: []string{"[a]", "x()"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := renderPanel(tt.panel, false, "*", 100)
			for _, w := range tt.want {
				if !strings.Contains(out, w) {
					t.Errorf("output should contain %q:\n%s", w, out)
				}
			}
			for _, w := range tt.notWant {
				if strings.Contains(out, w) {
					t.Errorf("output should not contain %q:\n%s", w, out)
				}
			}
		})
	}
}
