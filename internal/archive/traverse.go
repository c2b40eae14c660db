package archive

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/iabetor/hatenaexport/internal/logger"
)

const tracerName = "github.com/iabetor/hatenaexport/internal/archive"

// Fetcher 按 URI 获取并解析一页 Feed。
type Fetcher interface {
	FetchPage(ctx context.Context, uri string) (*Page, error)
}

// State 遍历过程中的状态。Step 总是返回新值，不修改旧值。
type State struct {
	Next    string    // 下一页 URI，为空表示没有更多页
	Oldest  time.Time // 目前见到的最旧的非草稿发布时间
	Results []Entry   // 符合条件的条目，保持 Feed 中的顺序
	Pages   int
	Visited map[string]bool
}

// NewState 创建初始状态。Oldest 取当前时间，保证至少请求一页。
func NewState(start string, now time.Time) State {
	return State{Next: start, Oldest: now}
}

// Done 判断遍历是否结束：没有下一页，或最旧时间已早于区间起点。
func (s State) Done(r DateRange) bool {
	return s.Next == "" || s.Oldest.Before(r.Start)
}

// Step 处理 uri 对应的一页，返回新的状态。
func Step(s State, uri string, page *Page, r DateRange) (State, error) {
	next, _ := page.Next()

	visited := make(map[string]bool, len(s.Visited)+1)
	for k := range s.Visited {
		visited[k] = true
	}
	visited[uri] = true
	if next != "" && visited[next] {
		return s, &StructuralError{What: "link[rel=next] 指向已访问的页面", Entry: next}
	}

	oldest := s.Oldest
	results := slices.Clip(s.Results)
	for _, e := range page.Entries {
		draft, err := IsDraft(e)
		if err != nil {
			return s, err
		}
		if draft {
			continue
		}
		t, err := PublishedAt(e)
		if err != nil {
			return s, err
		}
		oldest = t
		if r.Contains(t) {
			results = append(results, e)
		}
	}

	return State{
		Next:    next,
		Oldest:  oldest,
		Results: results,
		Pages:   s.Pages + 1,
		Visited: visited,
	}, nil
}

// Option 配置 Traverser。
type Option func(*Traverser)

// WithClock 替换获取当前时间的函数。
func WithClock(now func() time.Time) Option {
	return func(t *Traverser) { t.now = now }
}

// WithProgress 替换每页处理后的进度回调。
func WithProgress(fn func(State)) Option {
	return func(t *Traverser) { t.progress = fn }
}

// Traverser 顺序遍历倒序排列的分页 Feed。
type Traverser struct {
	fetcher  Fetcher
	now      func() time.Time
	progress func(State)
	tracer   trace.Tracer
}

// NewTraverser 创建遍历器。
func NewTraverser(f Fetcher, opts ...Option) *Traverser {
	t := &Traverser{
		fetcher:  f,
		now:      time.Now,
		progress: logProgress,
		tracer:   otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Run 从 start 开始逐页请求，直到确定不会再有符合 r 的条目。
func (t *Traverser) Run(ctx context.Context, start string, r DateRange) ([]Entry, error) {
	if start == "" {
		return nil, errors.New("起始 URI 为空")
	}

	ctx, span := t.tracer.Start(ctx, "archive.Traverse", trace.WithAttributes(
		attribute.String("feed.start", start),
		attribute.String("range.start", r.Start.Format(time.RFC3339)),
		attribute.String("range.end", r.End.Format(time.RFC3339)),
	))
	defer span.End()

	state := NewState(start, t.now().In(r.Start.Location()))
	for !state.Done(r) {
		next, err := t.visit(ctx, state, r)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return nil, err
		}
		state = next
		t.progress(state)
	}

	span.SetAttributes(
		attribute.Int("feed.pages", state.Pages),
		attribute.Int("entries.selected", len(state.Results)),
	)
	return state.Results, nil
}

func (t *Traverser) visit(ctx context.Context, s State, r DateRange) (State, error) {
	ctx, span := t.tracer.Start(ctx, "archive.Page", trace.WithAttributes(
		attribute.String("page.uri", s.Next),
		attribute.Int("page.index", s.Pages),
	))
	defer span.End()

	page, err := t.fetcher.FetchPage(ctx, s.Next)
	if err != nil {
		return s, fmt.Errorf("获取 %s 失败: %w", s.Next, err)
	}
	span.SetAttributes(attribute.Int("page.entries", len(page.Entries)))

	logger.Debugf("[archive] 第 %d 页: %s (%d 个条目)", s.Pages+1, s.Next, len(page.Entries))
	return Step(s, s.Next, page, r)
}

func logProgress(s State) {
	logger.Infof("[archive] 已获取至 %s 的文章（共 %d 篇）", s.Oldest.Format(time.RFC3339), len(s.Results))
}
