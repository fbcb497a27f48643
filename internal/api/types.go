package api

type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ChatRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	Temperature *float64  `json:"temperature,omitempty"`
	Stream      bool      `json:"stream"`
}

// CompletionRequest 描述一次流式补全：一条 system 提示词加一条用户内容
type CompletionRequest struct {
	Model        string
	SystemPrompt string
	Content      string
	// Temperature 为 nil 时不发送，由服务端使用默认值
	Temperature *float64
}

// Temp 返回温度指针，便于构造 CompletionRequest
func Temp(v float64) *float64 {
	return &v
}

func (r CompletionRequest) chatRequest() ChatRequest {
	return ChatRequest{
		Model: r.Model,
		Messages: []Message{
			{Role: "system", Content: r.SystemPrompt},
			{Role: "user", Content: r.Content},
		},
		Temperature: r.Temperature,
		Stream:      true,
	}
}
