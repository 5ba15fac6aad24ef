// Package topology 实现名字表拓扑订阅服务
package topology

import (
	"errors"
	"sync"
	"time"

	"github.com/benbjohnson/clock"

	"github.com/dep2p/go-nametable/pkg/interfaces"
	"github.com/dep2p/go-nametable/pkg/lib/log"
	"github.com/dep2p/go-nametable/pkg/types"
)

var logger = log.Logger("core/topology")

// 确保实现了接口
var _ interfaces.TopologyService = (*Service)(nil)

var (
	// ErrClosed 服务已关闭
	ErrClosed = errors.New("topology service closed")
	// ErrTooManySubscriptions 订阅数量达到上限
	ErrTooManySubscriptions = errors.New("subscription limit reached")
)

// Service 拓扑订阅服务
//
// 管理外部订阅方的区间订阅：建立时挂接到名字表并投递既有状态
// 快照，之后名字表的每次发布/撤销同步产生重叠事件；可选的超时
// 在到期后投递 TIMEOUT 事件并自动拆除订阅。
type Service struct {
	table interfaces.NameTable
	clk   clock.Clock

	bufSize int
	maxSubs int

	mu     sync.Mutex
	subs   map[string]*Subscription
	closed bool
}

// Option 服务配置选项
type Option func(*Service)

// WithClock 指定时钟实现（测试中注入 mock 时钟）
func WithClock(clk clock.Clock) Option {
	return func(s *Service) { s.clk = clk }
}

// WithEventBuffer 指定每个订阅的事件通道缓冲大小
func WithEventBuffer(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.bufSize = n
		}
	}
}

// WithMaxSubscriptions 指定订阅数量上限
func WithMaxSubscriptions(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxSubs = n
		}
	}
}

// NewService 创建拓扑订阅服务
func NewService(table interfaces.NameTable, opts ...Option) *Service {
	s := &Service{
		table:   table,
		clk:     clock.New(),
		bufSize: 64,
		maxSubs: 65535,
		subs:    make(map[string]*Subscription),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Subscribe 建立一个区间订阅
//
// timeoutMillis 为 0 表示不超时。带 FilterCancel 标志的请求
// 取消区间与标志都匹配的既有订阅，返回 (nil, nil)。
func (s *Service) Subscribe(rng types.ServiceRange, filter types.FilterFlags,
	timeoutMillis uint32) (interfaces.TopologySubscription, error) {

	if !rng.Valid() {
		return nil, types.ErrInvalidRange
	}

	if filter.Cancel() {
		s.cancelMatching(rng, filter&^types.FilterCancel)
		return nil, nil
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil, ErrClosed
	}
	if len(s.subs) >= s.maxSubs {
		s.mu.Unlock()
		return nil, ErrTooManySubscriptions
	}
	sub := newSubscription(s, rng, filter, s.bufSize)
	s.mu.Unlock()

	// 先挂接到名字表（快照事件同步投递进订阅通道），再登记到
	// 服务。登记前发现服务已并发关闭时回退挂接，保证 Close 之后
	// 没有订阅残留在名字表上。
	s.table.Subscribe(sub)

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		s.table.Unsubscribe(sub)
		sub.Release()
		return nil, ErrClosed
	}
	s.subs[sub.id] = sub
	if timeoutMillis > 0 {
		sub.timer = s.clk.AfterFunc(time.Duration(timeoutMillis)*time.Millisecond, sub.timeout)
	}
	s.mu.Unlock()

	logger.Debug("建立订阅", "subscription", sub.id,
		"range", rng.String(), "timeoutMillis", timeoutMillis)
	return sub, nil
}

// cancelMatching 取消区间与过滤标志都匹配的既有订阅
func (s *Service) cancelMatching(rng types.ServiceRange, filter types.FilterFlags) {
	s.mu.Lock()
	var victims []*Subscription
	for _, sub := range s.subs {
		if sub.rng == rng && sub.filter == filter {
			victims = append(victims, sub)
		}
	}
	s.mu.Unlock()

	for _, sub := range victims {
		sub.Cancel()
	}
}

// detach 把订阅从服务与名字表中摘除
func (s *Service) detach(sub *Subscription) {
	s.mu.Lock()
	delete(s.subs, sub.id)
	s.mu.Unlock()

	s.table.Unsubscribe(sub)
}

// Count 返回当前订阅数量
func (s *Service) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.subs)
}

// Close 关闭服务并取消所有订阅
func (s *Service) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}
	s.closed = true
	remaining := make([]*Subscription, 0, len(s.subs))
	for _, sub := range s.subs {
		remaining = append(remaining, sub)
	}
	s.mu.Unlock()

	for _, sub := range remaining {
		sub.Cancel()
	}
	logger.Info("拓扑订阅服务已关闭", "cancelled", len(remaining))
	return nil
}
