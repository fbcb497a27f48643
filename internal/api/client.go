package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/Zacy-Sokach/TrollShield/internal/utils"
)

const (
	DefaultEndpoint = "https://api.openai.com/v1/chat/completions"

	// 错误响应体最多读取的字节数
	maxErrorBody = 4096
)

// APIError 表示非 2xx 响应，包含状态码和响应内容
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("API请求失败 (状态码: %d): %s", e.StatusCode, e.Message)
}

// 全局共享的HTTP客户端，实现连接池化
var (
	sharedHTTPClient *http.Client
	httpClientOnce   sync.Once
)

// getSharedHTTPClient 返回共享的HTTP客户端实例
// 流式响应可能持续很久，这里不设置整体超时
func getSharedHTTPClient() *http.Client {
	httpClientOnce.Do(func() {
		sharedHTTPClient = &http.Client{
			Transport: &http.Transport{
				Proxy:               http.ProxyFromEnvironment,
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 20,
				IdleConnTimeout:     90 * time.Second,
				TLSHandshakeTimeout: 10 * time.Second,
			},
		}
	})
	return sharedHTTPClient
}

type Client struct {
	apiKey   string
	endpoint string
	client   utils.Doer
}

// Option 配置 Client
type Option func(*Client)

// WithEndpoint 替换 chat completions 地址
func WithEndpoint(endpoint string) Option {
	return func(c *Client) {
		if endpoint != "" {
			c.endpoint = endpoint
		}
	}
}

// WithHTTPClient 替换底层 HTTP 客户端
func WithHTTPClient(d utils.Doer) Option {
	return func(c *Client) {
		if d != nil {
			c.client = d
		}
	}
}

// NewClient 创建新的 chat completions 客户端
func NewClient(apiKey string, opts ...Option) *Client {
	c := &Client{
		apiKey:   apiKey,
		endpoint: DefaultEndpoint,
		client:   getSharedHTTPClient(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Endpoint 返回请求地址
func (c *Client) Endpoint() string {
	return c.endpoint
}

// StreamCompletion 发送一次流式补全请求，只尝试一次。
// 成功时返回响应体，由调用方读取并关闭；非 2xx 状态返回 *APIError。
func (c *Client) StreamCompletion(ctx context.Context, req CompletionRequest) (io.ReadCloser, error) {
	body, err := json.Marshal(req.chatRequest())
	if err != nil {
		return nil, fmt.Errorf("序列化请求失败: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("创建请求失败: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.apiKey))
	httpReq.Header.Set("Accept", "text/event-stream")
	httpReq.Header.Set("Cache-Control", "no-cache")

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("请求失败: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		bodyBytes, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		resp.Body.Close()
		return nil, &APIError{
			StatusCode: resp.StatusCode,
			Message:    string(bodyBytes),
		}
	}

	return resp.Body, nil
}
