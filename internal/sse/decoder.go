package sse

import (
	"errors"
	"fmt"
	"io"

	"github.com/Zacy-Sokach/TrollShield/internal/logger"
)

const readBufferSize = 4096

// Decoder 每个流式响应一个，持有行切分状态，不能在多个流之间共享
type Decoder struct {
	r      io.Reader
	framer *Framer
	buf    []byte
	err    error
}

// NewDecoder 创建读取 r 的解码器
func NewDecoder(r io.Reader) *Decoder {
	return &Decoder{
		r:      r,
		framer: NewFramer(),
		buf:    make([]byte, readBufferSize),
	}
}

// Next 读取一次数据并返回其中的内容片段，片段可能为空。
// 响应体读完时返回 io.EOF。收到 [DONE] 只会跳过本次读取中剩余的行，
// 之后仍然继续读取直到响应体结束。
func (d *Decoder) Next() ([]string, error) {
	if d.err != nil {
		return nil, d.err
	}

	n, err := d.r.Read(d.buf)
	var fragments []string
	if n > 0 {
		fragments = d.process(d.buf[:n])
	}

	if err != nil {
		if errors.Is(err, io.EOF) {
			d.finish()
			d.err = io.EOF
		} else {
			d.err = fmt.Errorf("读取流式响应失败: %w", err)
		}
		if len(fragments) > 0 {
			return fragments, nil
		}
		return nil, d.err
	}

	return fragments, nil
}

func (d *Decoder) process(chunk []byte) []string {
	var fragments []string
	for _, line := range d.framer.Feed(chunk) {
		event := ParseLine(line)
		switch event.Kind {
		case EventDone:
			return fragments
		case EventContent:
			fragments = append(fragments, event.Content)
		case EventMalformed:
			logger.Debug("跳过无法解析的流数据", "line", truncate(line, 200))
		}
	}
	return fragments
}

// finish 丢弃没有以换行结尾的最后一行。
// 服务端在最后一块数据后没有换行就断开时，这一行的内容会丢失。
func (d *Decoder) finish() {
	if tail := d.framer.Close(); tail != "" {
		logger.Debug("流结束时丢弃未完成的行", "tail", truncate(tail, 200))
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
