// Package topology 实现名字表拓扑订阅服务
package topology

import (
	"sync"
	"sync/atomic"

	"github.com/benbjohnson/clock"
	"github.com/google/uuid"

	"github.com/dep2p/go-nametable/pkg/interfaces"
	"github.com/dep2p/go-nametable/pkg/types"
)

// 确保实现了接口
var (
	_ interfaces.Subscriber           = (*Subscription)(nil)
	_ interfaces.TopologySubscription = (*Subscription)(nil)
)

// Subscription 一个区间订阅
//
// 同时扮演两个角色：对名字表是 Subscriber（同步收重叠回调），
// 对外部订阅方是 TopologySubscription（事件通道加取消操作）。
//
// 订阅对象由外部订阅方与名字表的订阅链表共享，引用计数归零
// 后关闭事件通道。名字表回调发生在序列锁内，向通道的写入是
// 非阻塞的：慢消费者丢事件并累计丢弃计数。
type Subscription struct {
	id     string
	rng    types.ServiceRange
	filter types.FilterFlags
	svc    *Service

	out     chan types.TopologyEvent
	refs    atomic.Int32
	dropped atomic.Int64

	timer      *clock.Timer
	cancelOnce sync.Once
}

// newSubscription 创建订阅，初始引用计数 1（外部订阅方）
func newSubscription(svc *Service, rng types.ServiceRange, filter types.FilterFlags, buffer int) *Subscription {
	s := &Subscription{
		id:     uuid.NewString(),
		rng:    rng,
		filter: filter,
		svc:    svc,
		out:    make(chan types.TopologyEvent, buffer),
	}
	s.refs.Store(1)
	return s
}

// ============================================================================
// Subscriber 接口实现（名字表侧）
// ============================================================================

// Range 返回订阅区间
func (s *Subscription) Range() types.ServiceRange {
	return s.rng
}

// Filter 返回过滤标志
func (s *Subscription) Filter() types.FilterFlags {
	return s.filter
}

// ReportOverlap 投递一次重叠事件
//
// 与订阅区间不重叠的事件被丢弃。在名字表序列锁内被调用，
// 只做一次非阻塞通道写。
func (s *Subscription) ReportOverlap(foundLower, foundUpper uint32, event types.EventType,
	port types.PortID, node types.NodeID, scope types.Scope, mustReport bool) {

	if !s.rng.Overlaps(foundLower, foundUpper) {
		return
	}
	s.deliver(types.TopologyEvent{
		Event:      event,
		Type:       s.rng.Type,
		Lower:      foundLower,
		Upper:      foundUpper,
		Port:       port,
		Node:       node,
		Scope:      scope,
		MustReport: mustReport,
	})
}

// deliver 非阻塞投递
func (s *Subscription) deliver(ev types.TopologyEvent) {
	select {
	case s.out <- ev:
	default:
		if s.dropped.Add(1) == 1 {
			logger.Warn("订阅消费过慢，开始丢弃事件", "subscription", s.id)
		}
	}
}

// Hold 增加引用计数
func (s *Subscription) Hold() {
	s.refs.Add(1)
}

// Release 减少引用计数，归零时关闭事件通道
func (s *Subscription) Release() {
	if s.refs.Add(-1) == 0 {
		close(s.out)
	}
}

// ============================================================================
// TopologySubscription 接口实现（订阅方侧）
// ============================================================================

// ID 返回订阅标识
func (s *Subscription) ID() string {
	return s.id
}

// Events 返回事件通道
//
// 订阅的全部引用释放后通道被关闭。
func (s *Subscription) Events() <-chan types.TopologyEvent {
	return s.out
}

// Dropped 返回因消费过慢被丢弃的事件数
func (s *Subscription) Dropped() int64 {
	return s.dropped.Load()
}

// Cancel 取消订阅
//
// 从名字表摘除、停掉超时定时器并释放订阅方引用。
// 并发安全，可多次调用。
func (s *Subscription) Cancel() {
	s.cancelOnce.Do(func() {
		if s.timer != nil {
			s.timer.Stop()
		}
		s.svc.detach(s)
		s.Release()
	})
}

// timeout 超时到期
//
// 投递一次 TIMEOUT 事件后执行与 Cancel 相同的拆除。
func (s *Subscription) timeout() {
	s.cancelOnce.Do(func() {
		s.svc.detach(s)
		s.deliver(types.TopologyEvent{
			Event: types.EventTimeout,
			Type:  s.rng.Type,
			Lower: s.rng.Lower,
			Upper: s.rng.Upper,
		})
		s.Release()
	})
}
