package utils

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// maxHistoryEntries 历史文件最多保留的条目数
const maxHistoryEntries = 100

// HistoryEntry 一次完成的评论记录
type HistoryEntry struct {
	Timestamp  time.Time `json:"timestamp"`
	Source     string    `json:"source"`
	PromptType string    `json:"prompt_type"`
	Model      string    `json:"model"`
	Response   string    `json:"response"`
}

// History 以 JSON 文件保存评论历史
type History struct {
	path string
	mu   sync.Mutex
}

// NewHistory 使用指定路径创建历史记录；path 为空时使用配置目录下的 history.json
func NewHistory(path string) (*History, error) {
	if path == "" {
		p, err := getHistoryPath()
		if err != nil {
			return nil, err
		}
		path = p
	}
	return &History{path: path}, nil
}

// Path 返回历史文件路径
func (h *History) Path() string {
	return h.path
}

// Append 追加一条记录，超过上限时丢弃最旧的记录
func (h *History) Append(entry HistoryEntry) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now()
	}

	history, err := h.load()
	if err != nil {
		// 文件损坏时重新开始，不阻塞新的记录
		history = nil
	}

	history = append(history, entry)
	if len(history) > maxHistoryEntries {
		history = history[len(history)-maxHistoryEntries:]
	}

	data, err := json.MarshalIndent(history, "", "  ")
	if err != nil {
		return fmt.Errorf("序列化历史失败: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(h.path), 0755); err != nil {
		return fmt.Errorf("创建历史目录失败: %w", err)
	}

	if err := os.WriteFile(h.path, data, 0644); err != nil {
		return fmt.Errorf("写入历史文件失败: %w", err)
	}

	return nil
}

// Load 读取全部历史记录，文件不存在时返回空切片
func (h *History) Load() ([]HistoryEntry, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.load()
}

func (h *History) load() ([]HistoryEntry, error) {
	if _, err := os.Stat(h.path); os.IsNotExist(err) {
		return []HistoryEntry{}, nil
	}

	data, err := os.ReadFile(h.path)
	if err != nil {
		return nil, fmt.Errorf("读取历史文件失败: %w", err)
	}

	var history []HistoryEntry
	if err := json.Unmarshal(data, &history); err != nil {
		return nil, fmt.Errorf("解析历史文件失败: %w", err)
	}

	return history, nil
}

func getHistoryPath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", fmt.Errorf("获取配置目录失败: %w", err)
	}
	return filepath.Join(configDir, "history.json"), nil
}
