// Package sse 把 chat completions 的流式响应切分成行并解析出增量文本。
package sse

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Framer 按到达顺序接收字节块，输出完整的行。
// 跨块被截断的多字节字符和最后一个不完整的行都会保留到下一次 Feed。
type Framer struct {
	decoder *encoding.Decoder
	pending []byte // 尚未解码的不完整 UTF-8 序列
	buffer  string // 最后一个换行之后的文本
}

// NewFramer 创建新的行切分器
func NewFramer() *Framer {
	return &Framer{decoder: unicode.UTF8.NewDecoder()}
}

// Feed 解码 chunk 并返回其中所有完整的行（不含换行符）
func (f *Framer) Feed(chunk []byte) []string {
	text := f.buffer + f.decode(chunk)
	parts := strings.Split(text, "\n")
	f.buffer = parts[len(parts)-1]
	return parts[:len(parts)-1]
}

// Pending 返回当前保留的不完整行
func (f *Framer) Pending() string {
	return f.buffer
}

// Close 在流结束时调用。保留的不完整行不会被输出，只返回给调用方记录日志。
func (f *Framer) Close() string {
	tail := f.buffer
	f.buffer = ""
	f.pending = nil
	f.decoder.Reset()
	return tail
}

func (f *Framer) decode(chunk []byte) string {
	src := append(f.pending, chunk...)
	f.pending = nil
	if len(src) == 0 {
		return ""
	}

	// 非法字节会被替换成 U+FFFD（3 字节），按 3 倍分配足够
	dst := make([]byte, 3*len(src)+utf8.UTFMax)
	var out strings.Builder
	for len(src) > 0 {
		nDst, nSrc, err := f.decoder.Transform(dst, src, false)
		out.Write(dst[:nDst])
		src = src[nSrc:]

		if err == transform.ErrShortSrc {
			f.pending = append([]byte(nil), src...)
			break
		}
		if err != nil && err != transform.ErrShortDst {
			break
		}
		if nSrc == 0 && nDst == 0 {
			dst = make([]byte, 2*len(dst))
		}
	}
	return out.String()
}
