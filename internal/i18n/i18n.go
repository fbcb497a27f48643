// Package i18n 提供界面文字的本地化，默认繁体中文，其次英文。
package i18n

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

// 消息键即英文原文
const (
	Thinking       = "Thinking..."
	TrollThinking  = "Troll is thinking..."
	HeaderDefault  = "AI Troll Shield"
	HeaderCustom   = "Custom response"
	MissingAPIKey  = "Please enter your API key in the settings first"
	Analysis       = "Analysis & suggestions"
	Analyzing      = "Analyzing..."
	StatusAuth     = "Please check that your API key is correct<br><a href='https://platform.openai.com/api-keys' target='_blank'>Check it</a>"
	StatusRegion   = "This feature is not available in your region or country<br><a href='https://platform.openai.com/docs/supported-countries' target='_blank'>Supported regions</a>"
	StatusQuota    = "Your request exceeded the current quota, please add at least US$5 in the OpenAI dashboard<br><a href='https://platform.openai.com/account/billing' target='_blank'>Add credit</a> or <a href='https://platform.openai.com/account/limits' target='_blank'>adjust usage limits</a>"
	StatusServer   = "Server error, please check whether OpenAI is operating normally<br><a href='https://status.openai.com/' target='_blank'>Check status</a>"
	StatusOverload = "Too many people are using this right now, please try again later"
	StatusGeneric  = "API request failed %d"
)

// 终端界面
const (
	EmptyHint     = "Press s to generate a commentary for %s"
	Exported      = "Exported to %s"
	ExportFailed  = "Export failed: %s"
	HelpSummarize = "summarize"
	HelpNext      = "next panel"
	HelpDismiss   = "dismiss"
	HelpAnalysis  = "analysis"
	HelpExport    = "export"
	HelpQuit      = "quit"
)

var zhHant = map[string]string{
	Thinking:       "思考中...",
	TrollThinking:  "酸民思考中...",
	HeaderDefault:  "AI 酸民護盾",
	HeaderCustom:   "自訂回應",
	MissingAPIKey:  "請先到設定選項中輸入 API Key",
	Analysis:       "分析與建議",
	Analyzing:      "分析中...",
	StatusAuth:     "請確定 API key 是否正確<br><a href='https://platform.openai.com/api-keys' target='_blank'>前往查看</a>",
	StatusRegion:   "您所在的區域或國家不支援此功能<br><a href='https://platform.openai.com/docs/supported-countries' target='_blank'>支援地區</a>",
	StatusQuota:    "您的請求超出了最低額度，請至少存 US$5 到 OpenAI 後台<br><a href='https://platform.openai.com/account/billing' target='_blank'>前往儲值</a> 或 <a href='https://platform.openai.com/account/limits' target='_blank'>調整使用額度上限</a>",
	StatusServer:   "伺服器錯誤，請查看 Open AI 是否正常運作<br><a href='https://status.openai.com/' target='_blank'>前往查看</a>",
	StatusOverload: "目前太多人使用此功能，請稍後再試試",
	StatusGeneric:  "API 請求失敗 %d",

	EmptyHint:     "按 s 為 %s 產生評論",
	Exported:      "已匯出到 %s",
	ExportFailed:  "匯出失敗: %s",
	HelpSummarize: "產生評論",
	HelpNext:      "下一個面板",
	HelpDismiss:   "關閉",
	HelpAnalysis:  "分析",
	HelpExport:    "匯出",
	HelpQuit:      "離開",
}

var (
	supported = []language.Tag{language.English, language.TraditionalChinese}
	matcher   = language.NewMatcher(supported)
	cat       = newCatalog()
)

func newCatalog() *catalog.Builder {
	b := catalog.NewBuilder(catalog.Fallback(language.English))
	for key, msg := range zhHant {
		if err := b.SetString(language.TraditionalChinese, key, msg); err != nil {
			panic(err)
		}
	}
	return b
}

// Printer 按语言格式化消息
type Printer struct {
	tag language.Tag
	p   *message.Printer
}

// New 根据 BCP 47 语言标签创建 Printer，不支持的语言使用英文
func New(lang string) *Printer {
	tag := language.English
	if t, err := language.Parse(lang); err == nil {
		if _, idx, conf := matcher.Match(t); conf != language.No {
			tag = supported[idx]
		}
	}
	return &Printer{
		tag: tag,
		p:   message.NewPrinter(tag, message.Catalog(cat)),
	}
}

// T 返回 key 对应的本地化文字
func (p *Printer) T(key string, args ...any) string {
	return p.p.Sprintf(key, args...)
}

// Tag 返回实际使用的语言
func (p *Printer) Tag() language.Tag {
	return p.tag
}
