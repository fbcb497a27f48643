// Package shield 协调一次评论：读取配置、提取页面、发起流式请求并写入面板，
// 以及面板上“分析與建議”的二次请求。
package shield

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/Zacy-Sokach/TrollShield/internal/api"
	"github.com/Zacy-Sokach/TrollShield/internal/config"
	"github.com/Zacy-Sokach/TrollShield/internal/i18n"
	"github.com/Zacy-Sokach/TrollShield/internal/logger"
	"github.com/Zacy-Sokach/TrollShield/internal/panel"
	"github.com/Zacy-Sokach/TrollShield/internal/sse"
	"github.com/Zacy-Sokach/TrollShield/internal/utils"
)

// OptionsStore 提供请求开始时的配置
type OptionsStore interface {
	Load(ctx context.Context) (config.Options, error)
}

// ContentSource 提供页面正文
type ContentSource interface {
	Extract(ctx context.Context) (string, error)
}

// Completer 发起一次流式补全
type Completer interface {
	StreamCompletion(ctx context.Context, req api.CompletionRequest) (io.ReadCloser, error)
}

// ClientFactory 根据配置创建 Completer
type ClientFactory func(opts config.Options) Completer

// Recorder 保存完成的评论
type Recorder interface {
	Append(entry utils.HistoryEntry) error
}

type analysisRequest struct {
	client  Completer
	model   string
	printer *i18n.Printer
}

type Orchestrator struct {
	session   *panel.Session
	store     OptionsStore
	source    ContentSource
	newClient ClientFactory
	history   Recorder
	language  string

	mu       sync.Mutex
	analyses map[int]analysisRequest
	wg       sync.WaitGroup
}

// Option 配置 Orchestrator
type Option func(*Orchestrator)

// WithClientFactory 替换 API 客户端的创建方式
func WithClientFactory(f ClientFactory) Option {
	return func(o *Orchestrator) {
		o.newClient = f
	}
}

// WithHistory 完成的评论写入历史
func WithHistory(r Recorder) Option {
	return func(o *Orchestrator) {
		o.history = r
	}
}

// WithLanguage 读取配置之前使用的界面语言（面板的初始提示）
func WithLanguage(lang string) Option {
	return func(o *Orchestrator) {
		o.language = lang
	}
}

func New(session *panel.Session, store OptionsStore, source ContentSource, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		session:   session,
		store:     store,
		source:    source,
		newClient: defaultClientFactory,
		language:  config.DefaultLanguage,
		analyses:  make(map[int]analysisRequest),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

func defaultClientFactory(opts config.Options) Completer {
	return api.NewClient(opts.APIKey, api.WithEndpoint(opts.Endpoint))
}

// Session 返回面板会话
func (o *Orchestrator) Session() *panel.Session {
	return o.session
}

// OnTriggerCommentary 创建新面板并在后台开始评论，立即返回面板编号
func (o *Orchestrator) OnTriggerCommentary(ctx context.Context) int {
	o.session.EnsureContainer()
	id := o.session.CreatePanel(i18n.New(o.language).T(i18n.Thinking))

	o.wg.Add(1)
	go func() {
		defer o.wg.Done()
		o.RunCommentary(ctx, id)
	}()
	return id
}

// RunCommentary 同步执行面板 id 的评论流程，所有错误都显示在面板里
func (o *Orchestrator) RunCommentary(ctx context.Context, id int) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("评论流程发生panic", "panel", id, "panic", r)
			o.fail(id, fmt.Errorf("%v", r))
		}
	}()

	if err := o.summarize(ctx, id); err != nil {
		logger.Warn("评论失败", "panel", id, "error", err)
		o.fail(id, err)
	}
}

// Dismiss 关闭面板。后台仍在进行的请求不会被取消，之后的写入会被忽略。
func (o *Orchestrator) Dismiss(id int) bool {
	o.mu.Lock()
	delete(o.analyses, id)
	o.mu.Unlock()
	return o.session.Dismiss(id)
}

// Wait 等待所有后台请求结束
func (o *Orchestrator) Wait() {
	o.wg.Wait()
}

func (o *Orchestrator) summarize(ctx context.Context, id int) error {
	opts, err := o.store.Load(ctx)
	if err != nil {
		return fmt.Errorf("读取配置失败: %w", err)
	}
	printer := i18n.New(opts.Language)

	if !opts.HasAPIKey() {
		o.session.ReplaceContent(id, printer.T(i18n.MissingAPIKey), panel.TrustedMarkup)
		o.session.MarkError(id)
		return nil
	}

	content, err := o.source.Extract(ctx)
	if err != nil {
		return fmt.Errorf("提取页面内容失败: %w", err)
	}

	plan, err := resolvePrompt(opts, printer)
	if err != nil {
		return err
	}
	if plan.caption != "" {
		o.session.SetThinkingCaption(id, plan.caption)
	}

	client := o.newClient(opts)
	body, err := client.StreamCompletion(ctx, api.CompletionRequest{
		Model:        opts.Model,
		SystemPrompt: plan.system,
		Content:      content,
		Temperature:  plan.temperature,
	})
	if err != nil {
		var apiErr *api.APIError
		if errors.As(err, &apiErr) {
			return &StatusError{
				StatusCode: apiErr.StatusCode,
				Message:    StatusMessage(printer, apiErr.StatusCode),
				Err:        err,
			}
		}
		return err
	}
	defer body.Close()

	if err := o.stream(id, body, plan.header); err != nil {
		return err
	}
	o.session.MarkDone(id)
	o.record(id, opts)

	if opts.IsDefaultPrompt() {
		o.offerAnalysis(id, analysisRequest{client: client, model: opts.Model, printer: printer})
	}
	return nil
}

// offerAnalysis 登记分析请求并显示按钮。面板在流式过程中被关闭时不保留登记。
func (o *Orchestrator) offerAnalysis(id int, req analysisRequest) {
	o.mu.Lock()
	o.analyses[id] = req
	o.mu.Unlock()

	o.session.AddAction(id, req.printer.T(i18n.Analysis))
	if _, ok := o.session.Panel(id); !ok {
		o.mu.Lock()
		delete(o.analyses, id)
		o.mu.Unlock()
	}
}

// stream 读取响应直到结束，每次读取前刷新标题
func (o *Orchestrator) stream(id int, body io.Reader, header string) error {
	decoder := sse.NewDecoder(body)
	for {
		o.session.SetHeader(id, header)

		fragments, err := decoder.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		for _, fragment := range fragments {
			o.session.AppendContent(id, fragment)
		}
	}
}

func (o *Orchestrator) fail(id int, err error) {
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		o.session.ReplaceContent(id, statusErr.Message, panel.TrustedMarkup)
	} else {
		o.session.ReplaceContent(id, err.Error(), panel.PlainText)
	}
	o.session.MarkError(id)
}

func (o *Orchestrator) record(id int, opts config.Options) {
	if o.history == nil {
		return
	}
	text, ok := o.session.ResponseText(id)
	if !ok || text == "" {
		return
	}

	entry := utils.HistoryEntry{
		PromptType: opts.PromptType,
		Model:      opts.Model,
		Response:   text,
	}
	if l, ok := o.source.(interface{ Location() string }); ok {
		entry.Source = l.Location()
	}
	if err := o.history.Append(entry); err != nil {
		logger.Warn("保存历史失败", "error", err)
	}
}

// OnAnalysisClick 点击面板的“分析與建議”。只有第一次点击会发起请求，
// 请求进行中或完成后的点击返回 false。
func (o *Orchestrator) OnAnalysisClick(ctx context.Context, id int) bool {
	o.mu.Lock()
	req, ok := o.analyses[id]
	o.mu.Unlock()
	if !ok {
		return false
	}

	if !o.session.BeginAction(id, req.printer.T(i18n.Analyzing)) {
		return false
	}

	o.wg.Add(1)
	go func() {
		defer o.wg.Done()
		o.runAnalysis(ctx, id, req)
	}()
	return true
}

// runAnalysis 的错误只记录日志，不在界面上显示
func (o *Orchestrator) runAnalysis(ctx context.Context, id int, req analysisRequest) {
	defer o.session.FinishAction(id)
	defer func() {
		if r := recover(); r != nil {
			logger.Debug("分析流程发生panic", "panel", id, "panic", r)
		}
	}()

	content, ok := o.session.ResponseText(id)
	if !ok {
		return
	}

	body, err := req.client.StreamCompletion(ctx, api.CompletionRequest{
		Model:        req.model,
		SystemPrompt: legalPrompt,
		Content:      content,
		Temperature:  api.Temp(analysisTemperature),
	})
	if err != nil {
		logger.Debug("分析请求失败", "panel", id, "error", err)
		return
	}
	defer body.Close()

	decoder := sse.NewDecoder(body)
	for {
		fragments, err := decoder.Next()
		for _, fragment := range fragments {
			o.session.AppendRawMarkup(id, fragment)
		}
		if err != nil {
			if !errors.Is(err, io.EOF) {
				logger.Debug("读取分析结果失败", "panel", id, "error", err)
			}
			return
		}
	}
}
