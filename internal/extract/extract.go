// Package extract 读取网页或本地 HTML 文件并提取正文文本。
package extract

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	nurl "net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	readability "github.com/go-shiori/go-readability"

	"github.com/Zacy-Sokach/TrollShield/internal/logger"
)

// maxPageSize 页面最多读取的字节数
const maxPageSize = 5 << 20

// ErrNoContent 页面没有可读的文本
var ErrNoContent = errors.New("页面没有可读的内容")

// Source 一个页面来源：http(s) 地址、本地文件路径，或 "-" 表示标准输入
type Source struct {
	location string
	client   *http.Client
	stdin    io.Reader
}

// NewSource 创建页面来源
func NewSource(location string) *Source {
	return &Source{
		location: location,
		client:   &http.Client{Timeout: 30 * time.Second},
		stdin:    os.Stdin,
	}
}

// Location 返回页面位置
func (s *Source) Location() string {
	return s.location
}

// Extract 读取页面并返回正文文本
func (s *Source) Extract(ctx context.Context) (string, error) {
	raw, pageURL, err := s.fetch(ctx)
	if err != nil {
		return "", err
	}
	return TextContent(raw, pageURL)
}

// TextContent 用 readability 提取正文，失败或为空时退回到 body 的全部文本
func TextContent(raw []byte, pageURL *nurl.URL) (string, error) {
	article, err := readability.FromReader(bytes.NewReader(raw), pageURL)
	if err == nil {
		if text := strings.TrimSpace(article.TextContent); text != "" {
			return text, nil
		}
	} else {
		logger.Debug("readability 解析失败，使用整页文本", "error", err)
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(raw))
	if err != nil {
		return "", fmt.Errorf("解析页面失败: %w", err)
	}
	doc.Find("script, style, noscript, template").Remove()

	text := strings.TrimSpace(doc.Find("body").Text())
	if text == "" {
		return "", ErrNoContent
	}
	return collapseBlankLines(text), nil
}

func (s *Source) fetch(ctx context.Context) ([]byte, *nurl.URL, error) {
	switch {
	case s.location == "-":
		data, err := io.ReadAll(io.LimitReader(s.stdin, maxPageSize))
		if err != nil {
			return nil, nil, fmt.Errorf("读取标准输入失败: %w", err)
		}
		return data, &nurl.URL{Scheme: "file", Path: "/stdin"}, nil

	case strings.HasPrefix(s.location, "http://") || strings.HasPrefix(s.location, "https://"):
		return s.fetchURL(ctx)

	default:
		path, err := filepath.Abs(s.location)
		if err != nil {
			return nil, nil, fmt.Errorf("解析路径失败: %w", err)
		}
		f, err := os.Open(path)
		if err != nil {
			return nil, nil, fmt.Errorf("打开页面文件失败: %w", err)
		}
		defer f.Close()

		data, err := io.ReadAll(io.LimitReader(f, maxPageSize))
		if err != nil {
			return nil, nil, fmt.Errorf("读取页面文件失败: %w", err)
		}
		return data, &nurl.URL{Scheme: "file", Path: filepath.ToSlash(path)}, nil
	}
}

func (s *Source) fetchURL(ctx context.Context) ([]byte, *nurl.URL, error) {
	pageURL, err := nurl.Parse(s.location)
	if err != nil {
		return nil, nil, fmt.Errorf("无效的网址: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL.String(), nil)
	if err != nil {
		return nil, nil, fmt.Errorf("创建请求失败: %w", err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (compatible; TrollShield)")
	req.Header.Set("Accept", "text/html,application/xhtml+xml;q=0.9,*/*;q=0.8")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, nil, fmt.Errorf("获取页面失败: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, nil, fmt.Errorf("获取页面失败: HTTP %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxPageSize))
	if err != nil {
		return nil, nil, fmt.Errorf("读取页面失败: %w", err)
	}
	return data, pageURL, nil
}

func collapseBlankLines(text string) string {
	lines := strings.Split(text, "\n")
	out := lines[:0]
	for _, line := range lines {
		if line = strings.TrimSpace(line); line != "" {
			out = append(out, line)
		}
	}
	return strings.Join(out, "\n")
}
