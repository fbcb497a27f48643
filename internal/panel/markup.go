package panel

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/charmbracelet/x/ansi"
	"github.com/microcosm-cc/bluemonday"
)

var markupPolicy = bluemonday.UGCPolicy()

// SanitizeMarkup 去掉脚本、事件属性等不安全内容
func SanitizeMarkup(markup string) string {
	return markupPolicy.Sanitize(markup)
}

// MarkupTextContent 返回标记的纯文本内容（类似 DOM 的 textContent）
func MarkupTextContent(markup string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return markup
	}
	return doc.Text()
}

// MarkupToText 清理标记后转换成终端可显示的文本。
// <br> 和块级元素换行，链接显示为 “文字 (地址)”。
func MarkupToText(markup string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(SanitizeMarkup(markup)))
	if err != nil {
		return markup
	}

	var sb strings.Builder
	writeSelection(&sb, doc.Find("body"))
	return strings.TrimRight(sb.String(), "\n")
}

// RenderText 把区域内容转换成终端文本：纯文本原样输出，标记经过 MarkupToText。
// 结果经过 SafeText，远端内容不能向终端写入控制序列。
func RenderText(segments []Segment) string {
	var sb strings.Builder
	for _, seg := range segments {
		if seg.Mode == TrustedMarkup {
			sb.WriteString(MarkupToText(seg.Text))
		} else {
			sb.WriteString(seg.Text)
		}
	}
	return SafeText(sb.String())
}

// SafeText 去掉 ANSI/OSC 转义序列以及除 \n、\t 之外的 C0/C1 控制字符
func SafeText(s string) string {
	s = ansi.Strip(s)
	return strings.Map(func(r rune) rune {
		switch {
		case r == '\n' || r == '\t':
			return r
		case r < 0x20, r == 0x7f, r >= 0x80 && r <= 0x9f:
			return -1
		}
		return r
	}, s)
}

func writeSelection(sb *strings.Builder, s *goquery.Selection) {
	s.Contents().Each(func(_ int, child *goquery.Selection) {
		switch goquery.NodeName(child) {
		case "#text":
			sb.WriteString(child.Text())
		case "br":
			sb.WriteString("\n")
		case "a":
			text := child.Text()
			sb.WriteString(text)
			if href, ok := child.Attr("href"); ok && href != "" && href != text {
				sb.WriteString(" (" + href + ")")
			}
		case "p", "div", "ul", "ol", "pre", "blockquote", "h1", "h2", "h3", "h4", "h5", "h6", "table", "tr":
			ensureNewline(sb)
			writeSelection(sb, child)
			ensureNewline(sb)
		case "li":
			ensureNewline(sb)
			sb.WriteString("• ")
			writeSelection(sb, child)
			ensureNewline(sb)
		default:
			writeSelection(sb, child)
		}
	})
}

func ensureNewline(sb *strings.Builder) {
	if s := sb.String(); s != "" && !strings.HasSuffix(s, "\n") {
		sb.WriteString("\n")
	}
}
