package panel

import (
	"sync"

	"github.com/Zacy-Sokach/TrollShield/internal/logger"
)

type container struct {
	panels map[int]*Panel
	order  []int
}

// Session 持有容器和面板计数器，替代全局单例。并发安全。
type Session struct {
	mu        sync.Mutex
	container *container
	nextID    int
	updates   chan struct{}
}

// NewSession 创建空会话，容器在第一次使用时创建
func NewSession() *Session {
	return &Session{updates: make(chan struct{}, 1)}
}

// Updates 每次面板内容变化后收到一个通知，多次变化可能合并成一次
func (s *Session) Updates() <-chan struct{} {
	return s.updates
}

func (s *Session) notify() {
	select {
	case s.updates <- struct{}{}:
	default:
	}
}

// EnsureContainer 创建容器，已存在时什么都不做。返回是否新建。
func (s *Session) EnsureContainer() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ensureContainerLocked()
}

func (s *Session) ensureContainerLocked() bool {
	if s.container != nil {
		return false
	}
	s.container = &container{panels: make(map[int]*Panel)}
	return true
}

// HasContainer 容器是否存在
func (s *Session) HasContainer() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.container != nil
}

// Len 当前面板数量
func (s *Session) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.container == nil {
		return 0
	}
	return len(s.container.order)
}

// CreatePanel 分配新的编号并创建处于加载状态的面板
func (s *Session) CreatePanel(caption string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.ensureContainerLocked()
	s.nextID++
	id := s.nextID
	s.container.panels[id] = &Panel{
		ID:      id,
		State:   StateLoading,
		Caption: caption,
		Loading: true,
	}
	s.container.order = append(s.container.order, id)
	s.notify()
	return id
}

// Dismiss 关闭面板；最后一个面板关闭后容器一并移除
func (s *Session) Dismiss(id int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.container == nil {
		return false
	}
	if _, ok := s.container.panels[id]; !ok {
		return false
	}

	delete(s.container.panels, id)
	for i, pid := range s.container.order {
		if pid == id {
			s.container.order = append(s.container.order[:i], s.container.order[i+1:]...)
			break
		}
	}
	if len(s.container.order) == 0 {
		s.container = nil
	}
	s.notify()
	return true
}

// update 在锁内修改面板，面板不存在时忽略
func (s *Session) update(id int, fn func(p *Panel)) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.container == nil {
		return false
	}
	p, ok := s.container.panels[id]
	if !ok {
		return false
	}
	fn(p)
	s.notify()
	return true
}

// SetHeader 设置标题，可以重复调用
func (s *Session) SetHeader(id int, text string) {
	s.mu.Lock()
	if s.container != nil {
		if p, ok := s.container.panels[id]; ok && p.Header != text {
			p.Header = text
			s.notify()
		}
	}
	s.mu.Unlock()
}

// SetThinkingCaption 修改加载提示文字
func (s *Session) SetThinkingCaption(id int, text string) {
	s.update(id, func(p *Panel) {
		p.Caption = text
	})
}

// AppendContent 以纯文本追加内容；第一次追加时清除加载提示
func (s *Session) AppendContent(id int, fragment string) {
	s.update(id, func(p *Panel) {
		if p.Loading {
			p.Loading = false
			p.Response = nil
			p.State = StateStreaming
		}
		p.Response = appendSegment(p.Response, PlainText, fragment)
	})
}

// ReplaceContent 替换整个响应区域，用于错误和提示信息
func (s *Session) ReplaceContent(id int, message string, mode RenderMode) {
	if mode == TrustedMarkup {
		message = truncateUTF8(message, maxMarkupBytes)
	}
	s.update(id, func(p *Panel) {
		p.Loading = false
		p.Response = []Segment{{Mode: mode, Text: message}}
	})
}

// MarkDone 主请求完成
func (s *Session) MarkDone(id int) {
	s.update(id, func(p *Panel) {
		p.Loading = false
		p.State = StateDone
	})
}

// MarkError 主请求失败
func (s *Session) MarkError(id int) {
	s.update(id, func(p *Panel) {
		p.Loading = false
		p.State = StateError
	})
}

// AddAction 在面板底部加入次级操作
func (s *Session) AddAction(id int, label string) {
	s.update(id, func(p *Panel) {
		p.Action = &Action{Label: label}
	})
}

// BeginAction 点击次级操作。执行中或已完成时返回 false，不做任何事。
func (s *Session) BeginAction(id int, caption string) bool {
	started := false
	s.update(id, func(p *Panel) {
		if p.Action == nil || p.Action.Running || p.Action.Done {
			return
		}
		p.Action.Running = true
		p.Action.Caption = caption
		p.Action.Segments = nil
		started = true
	})
	return started
}

// AppendRawMarkup 向次级操作区域追加标记；第一次追加时清除进行中的提示
func (s *Session) AppendRawMarkup(id int, fragment string) {
	s.update(id, func(p *Panel) {
		if p.Action == nil {
			return
		}
		if p.Action.Caption != "" {
			p.Action.Caption = ""
		}
		room := maxMarkupBytes - markupLen(p.Action.Segments)
		if room <= 0 {
			logger.Warn("分析内容超过长度上限，已截断", "panel", id)
			return
		}
		fragment = truncateUTF8(fragment, room)
		if fragment == "" {
			return
		}
		p.Action.Segments = appendSegment(p.Action.Segments, TrustedMarkup, fragment)
	})
}

// FinishAction 标记次级操作完成并恢复交互；之后的点击都会被忽略
func (s *Session) FinishAction(id int) {
	s.update(id, func(p *Panel) {
		if p.Action == nil {
			return
		}
		p.Action.Done = true
		p.Action.Running = false
	})
}

// Panel 返回面板的副本
func (s *Session) Panel(id int) (Panel, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.container == nil {
		return Panel{}, false
	}
	p, ok := s.container.panels[id]
	if !ok {
		return Panel{}, false
	}
	return p.clone(), true
}

// ResponseText 返回面板响应区域当前的文本内容
func (s *Session) ResponseText(id int) (string, bool) {
	p, ok := s.Panel(id)
	if !ok {
		return "", false
	}
	return p.ResponseText(), true
}

// Snapshot 按创建顺序返回所有面板的副本
func (s *Session) Snapshot() []Panel {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.container == nil {
		return nil
	}
	panels := make([]Panel, 0, len(s.container.order))
	for _, id := range s.container.order {
		panels = append(panels, s.container.panels[id].clone())
	}
	return panels
}
