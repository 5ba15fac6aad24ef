// Package nametable 实现名字表核心
package nametable

import (
	"sync"

	"github.com/dep2p/go-nametable/pkg/interfaces"
	"github.com/dep2p/go-nametable/pkg/types"
)

// subRange 服务序列中的一个互不相交区间
//
// 序列内所有 subRange 按 lower 升序排列，区间两两不相交。
// subRange 存在当且仅当其绑定集合非空。
type subRange struct {
	lower    uint32
	upper    uint32
	bindings *bindingSet
}

// service 一个服务类别的全部发布状态
//
// ranges 是容量只增不减（倍增扩容）的有序数组；
// subs 是挂在该类别上的订阅链表。
// 除 detached 的写入外，所有字段都由 mu 保护。
type service struct {
	typ types.ServiceType

	mu sync.Mutex

	// ranges 有序互不相交的区间数组
	ranges []subRange

	// subs 本类别上的订阅
	subs []interfaces.Subscriber

	// detached 已从目录摘除
	//
	// 在持有目录写锁和 mu 时置位；读者锁定 mu 后发现置位
	// 则重走目录查找。
	detached bool
}

// newService 创建服务序列，初始容量为 1
func newService(typ types.ServiceType) *service {
	return &service{
		typ:    typ,
		ranges: make([]subRange, 0, 1),
	}
}

// empty 检查序列是否不再被任何发布或订阅引用
//
// 调用方必须持有 mu。
func (s *service) empty() bool {
	return len(s.ranges) == 0 && len(s.subs) == 0
}

// findSubRange 二分查找包含 instance 的区间
//
// 返回区间下标；不存在时返回 (0, false)。
func (s *service) findSubRange(instance uint32) (int, bool) {
	low, high := 0, len(s.ranges)-1
	for low <= high {
		mid := (low + high) / 2
		switch {
		case instance < s.ranges[mid].lower:
			high = mid - 1
		case instance > s.ranges[mid].upper:
			low = mid + 1
		default:
			return mid, true
		}
	}
	return 0, false
}

// locateSubRange 二分定位 instance 所在或应插入的下标
//
// 存在包含区间时返回其下标，否则返回新区间的插入位置，
// 也是区间扫描的起始位置。
func (s *service) locateSubRange(instance uint32) int {
	low, high := 0, len(s.ranges)-1
	for low <= high {
		mid := (low + high) / 2
		switch {
		case instance < s.ranges[mid].lower:
			high = mid - 1
		case instance > s.ranges[mid].upper:
			low = mid + 1
		default:
			return mid
		}
	}
	return low
}

// insertAt 在 pos 处插入新区间，必要时倍增扩容
func (s *service) insertAt(pos int, lower, upper uint32, bindings *bindingSet) {
	if len(s.ranges) == cap(s.ranges) {
		grown := make([]subRange, len(s.ranges), cap(s.ranges)*2)
		copy(grown, s.ranges)
		s.ranges = grown
	}
	s.ranges = s.ranges[:len(s.ranges)+1]
	copy(s.ranges[pos+1:], s.ranges[pos:])
	s.ranges[pos] = subRange{lower: lower, upper: upper, bindings: bindings}
}

// removeAt 删除 pos 处的区间并压缩数组（容量保持不变）
func (s *service) removeAt(pos int) {
	copy(s.ranges[pos:], s.ranges[pos+1:])
	s.ranges[len(s.ranges)-1] = subRange{}
	s.ranges = s.ranges[:len(s.ranges)-1]
}

// insertPublication 在序列中插入一条发布记录
//
// 与既有区间部分重叠、或在精确匹配区间上重复发布时拒绝，
// 返回 nil。拒绝不产生任何状态变化。
// 调用方必须持有 mu。
func (s *service) insertPublication(lower, upper uint32, scope types.Scope,
	node types.NodeID, port types.PortID, key uint32, own types.NodeID) *publication {

	var bindings *bindingSet
	createdRange := false

	if pos, ok := s.findSubRange(lower); ok {
		sr := &s.ranges[pos]

		// 下界落入既有区间：必须精确匹配
		if sr.lower != lower || sr.upper != upper {
			return nil
		}
		bindings = sr.bindings

		// 相同 (端口, 键, 节点) 的发布已存在
		if bindings.findAll(node, port, key) != nil {
			return nil
		}
	} else {
		pos := s.locateSubRange(lower)

		// 上界不得撞上后继区间
		if pos < len(s.ranges) && upper >= s.ranges[pos].lower {
			return nil
		}

		bindings = newBindingSet()
		s.insertAt(pos, lower, upper, bindings)
		createdRange = true
	}

	p := &publication{
		Publication: types.Publication{
			Type:  s.typ,
			Lower: lower,
			Upper: upper,
			Scope: scope,
			Node:  node,
			Port:  port,
			Key:   key,
		},
	}
	bindings.attach(p, node == own)

	// 同步通知订阅者；此时区间数组与绑定集合均已更新
	for _, sub := range s.subs {
		sub.ReportOverlap(p.Lower, p.Upper, types.EventPublished,
			p.Port, p.Node, p.Scope, createdRange)
	}
	return p
}

// removePublication 从序列中移除一条发布记录
//
// 远端撤销可能与一次从未被本节点接受的远端发布竞争，
// 找不到记录是正常结果，返回 nil。
// 调用方必须持有 mu。
func (s *service) removePublication(instance uint32, node types.NodeID,
	port types.PortID, key uint32) *publication {

	pos, ok := s.findSubRange(instance)
	if !ok {
		return nil
	}
	sr := &s.ranges[pos]

	p := sr.bindings.findAll(node, port, key)
	if p == nil {
		return nil
	}

	sr.bindings.detach(p)

	// 最后一条发布撤销后删除区间
	removedRange := false
	if sr.bindings.empty() {
		s.removeAt(pos)
		removedRange = true
	}

	for _, sub := range s.subs {
		sub.ReportOverlap(p.Lower, p.Upper, types.EventWithdrawn,
			p.Port, p.Node, p.Scope, removedRange)
	}
	return p
}

// subscribe 挂接订阅并投递既有状态快照
//
// 除非订阅抑制状态事件，否则对每个与订阅区间重叠的 subRange，
// 按发布逐条投递 PUBLISHED 事件；每个区间只有第一条发布携带
// mustReport 标记。
// 调用方必须持有 mu。
func (s *service) subscribe(sub interfaces.Subscriber) {
	sub.Hold()
	s.subs = append(s.subs, sub)

	if sub.Filter().NoStatus() {
		return
	}

	rng := sub.Range()
	for i := range s.ranges {
		sr := &s.ranges[i]
		if !rng.Overlaps(sr.lower, sr.upper) {
			continue
		}
		mustReport := true
		sr.bindings.forEachAll(func(p *publication) bool {
			sub.ReportOverlap(sr.lower, sr.upper, types.EventPublished,
				p.Port, p.Node, p.Scope, mustReport)
			mustReport = false
			return true
		})
	}
}

// unsubscribe 摘除订阅并释放其引用
//
// 返回是否找到并摘除。调用方必须持有 mu。
func (s *service) unsubscribe(sub interfaces.Subscriber) bool {
	for i, attached := range s.subs {
		if attached == sub {
			s.subs = append(s.subs[:i], s.subs[i+1:]...)
			sub.Release()
			return true
		}
	}
	return false
}
