package sse

import (
	"strings"

	"github.com/tidwall/gjson"
)

const (
	dataPrefix   = "data: "
	doneSentinel = "[DONE]"
)

// EventKind 是一行流数据的解析结果类型
type EventKind int

const (
	// EventIgnored 非 data 行，或没有内容的 data 行（例如心跳、只带 role 的首块）
	EventIgnored EventKind = iota
	// EventContent 带有增量文本
	EventContent
	// EventDone 收到 [DONE]
	EventDone
	// EventMalformed JSON 无法解析
	EventMalformed
)

func (k EventKind) String() string {
	switch k {
	case EventContent:
		return "content"
	case EventDone:
		return "done"
	case EventMalformed:
		return "malformed"
	default:
		return "ignored"
	}
}

// Event 一行解析后的结果
type Event struct {
	Kind    EventKind
	Content string
}

// ParseLine 解析一行完整的 SSE 数据。
// 优先读取 choices[0].delta.content；没有 choices 字段时读取顶层 delta.content。
func ParseLine(line string) Event {
	if !strings.HasPrefix(line, dataPrefix) {
		return Event{Kind: EventIgnored}
	}

	data := strings.TrimSuffix(line[len(dataPrefix):], "\r")
	if data == doneSentinel {
		return Event{Kind: EventDone}
	}

	if !gjson.Valid(data) {
		return Event{Kind: EventMalformed}
	}

	parsed := gjson.Parse(data)
	var content gjson.Result
	if choices := parsed.Get("choices"); choices.Exists() {
		content = choices.Get("0.delta.content")
	} else {
		content = parsed.Get("delta.content")
	}

	if content.Type != gjson.String || content.Str == "" {
		return Event{Kind: EventIgnored}
	}
	return Event{Kind: EventContent, Content: content.Str}
}
