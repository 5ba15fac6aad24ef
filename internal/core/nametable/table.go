// Package nametable 实现名字表核心
package nametable

import (
	"sync"

	"github.com/dep2p/go-nametable/pkg/interfaces"
	"github.com/dep2p/go-nametable/pkg/lib/log"
	"github.com/dep2p/go-nametable/pkg/types"
)

var logger = log.Logger("core/nametable")

// 确保实现了接口
var _ interfaces.NameTable = (*Table)(nil)

// Options 名字表构造参数
type Options struct {
	// OwnAddr 本节点地址
	OwnAddr types.NodeID

	// HashBuckets 哈希桶数量，必须是 2 的幂；0 表示默认 1024
	HashBuckets int

	// MaxPublications 本地发布上限；0 表示默认 65535
	MaxPublications uint32

	// Distributor 分发层回调；nil 表示不分发
	Distributor interfaces.Distributor
}

// Table 名字表
//
// 两级锁结构：目录读写锁保护桶链、序列的挂接/摘除与本地发布
// 计数；每个服务序列自带互斥锁保护其区间数组、绑定集合与订阅
// 链表。查找路径只取目录读锁，发布/撤销/订阅取目录写锁。
// 任何路径最多同时持有目录锁和一把序列锁，加锁顺序固定为
// 目录在前、序列在后。
type Table struct {
	own         types.NodeID
	mask        uint32
	maxPubl     uint32
	distributor interfaces.Distributor

	mu         sync.RWMutex
	buckets    [][]*service
	localCount uint32
	stopped    bool

	stats Stats
}

// New 创建名字表
func New(opts Options) *Table {
	buckets := opts.HashBuckets
	if buckets <= 0 {
		buckets = 1024
	}
	maxPubl := opts.MaxPublications
	if maxPubl == 0 {
		maxPubl = 65535
	}
	dist := opts.Distributor
	if dist == nil {
		dist = interfaces.NopDistributor{}
	}
	return &Table{
		own:         opts.OwnAddr,
		mask:        uint32(buckets - 1),
		maxPubl:     maxPubl,
		distributor: dist,
		buckets:     make([][]*service, buckets),
	}
}

// hash 返回类别所在桶下标
func (t *Table) hash(typ types.ServiceType) uint32 {
	return uint32(typ) & t.mask
}

// findServiceLocked 在桶链中查找服务序列
//
// 调用方必须持有目录锁（读或写）。
func (t *Table) findServiceLocked(typ types.ServiceType) *service {
	for _, s := range t.buckets[t.hash(typ)] {
		if s.typ == typ {
			return s
		}
	}
	return nil
}

// lockService 查找并锁定服务序列（读路径）
//
// 目录读锁只在查找期间短暂持有。锁定后发现序列已被并发摘除
// 时重走查找，保证拿到的序列仍挂在目录上。
func (t *Table) lockService(typ types.ServiceType) *service {
	for {
		t.mu.RLock()
		s := t.findServiceLocked(typ)
		t.mu.RUnlock()
		if s == nil {
			return nil
		}
		s.mu.Lock()
		if !s.detached {
			return s
		}
		s.mu.Unlock()
	}
}

// createServiceLocked 查找或创建服务序列并挂入桶链
//
// 调用方必须持有目录写锁。
func (t *Table) createServiceLocked(typ types.ServiceType) *service {
	if s := t.findServiceLocked(typ); s != nil {
		return s
	}
	s := newService(typ)
	idx := t.hash(typ)
	t.buckets[idx] = append(t.buckets[idx], s)
	t.stats.serviceAdded()
	return s
}

// unlinkServiceLocked 把序列摘出桶链
//
// 调用方必须持有目录写锁和序列锁。
func (t *Table) unlinkServiceLocked(s *service) {
	s.detached = true
	idx := t.hash(s.typ)
	chain := t.buckets[idx]
	for i, cur := range chain {
		if cur == s {
			t.buckets[idx] = append(chain[:i], chain[i+1:]...)
			t.stats.serviceRemoved()
			return
		}
	}
}

// insertLocked 写入一条发布记录
//
// 调用方必须持有目录写锁。拒绝不产生状态变化；为本次调用
// 创建的空序列会被立即回收。
func (t *Table) insertLocked(typ types.ServiceType, lower, upper uint32,
	scope types.Scope, node types.NodeID, port types.PortID, key uint32) *types.Publication {

	if !scope.Valid() || lower > upper {
		return nil
	}

	s := t.createServiceLocked(typ)
	s.mu.Lock()
	p := s.insertPublication(lower, upper, scope, node, port, key, t.own)
	if p == nil && s.empty() {
		t.unlinkServiceLocked(s)
	}
	s.mu.Unlock()

	if p == nil {
		return nil
	}
	t.stats.publicationAdded(node == t.own)
	return &p.Publication
}

// removeLocked 移除一条发布记录
//
// 调用方必须持有目录写锁。序列随最后一条发布与订阅消失。
func (t *Table) removeLocked(typ types.ServiceType, lower uint32,
	node types.NodeID, port types.PortID, key uint32) *types.Publication {

	s := t.findServiceLocked(typ)
	if s == nil {
		return nil
	}
	s.mu.Lock()
	p := s.removePublication(lower, node, port, key)
	if p != nil && s.empty() {
		t.unlinkServiceLocked(s)
	}
	s.mu.Unlock()

	if p == nil {
		return nil
	}
	t.stats.publicationRemoved(p.Node == t.own)
	return &p.Publication
}

// Publish 发布本节点的名字绑定
//
// 经过本地发布配额检查后写入，成功时通知分发层传播。
func (t *Table) Publish(typ types.ServiceType, lower, upper uint32,
	scope types.Scope, port types.PortID, key uint32) *types.Publication {

	t.mu.Lock()
	defer t.mu.Unlock()

	if t.stopped {
		return nil
	}
	if t.localCount >= t.maxPubl {
		logger.Warn("发布失败，本地发布数量达到上限",
			"limit", t.maxPubl, "type", uint32(typ))
		return nil
	}

	p := t.insertLocked(typ, lower, upper, scope, t.own, port, key)
	if p == nil {
		return nil
	}
	t.localCount++
	t.distributor.PublicationAdded(p)
	return p
}

// Withdraw 撤销本节点的名字绑定
//
// 成功时通知分发层并返回 true。
func (t *Table) Withdraw(typ types.ServiceType, lower uint32,
	port types.PortID, key uint32) bool {

	t.mu.Lock()
	defer t.mu.Unlock()

	p := t.removeLocked(typ, lower, t.own, port, key)
	if p == nil {
		logger.Error("无法撤销本地发布",
			"type", uint32(typ), "lower", lower,
			"port", uint32(port), "key", key)
		return false
	}
	t.localCount--
	t.distributor.PublicationRemoved(p)
	return true
}

// InsertPublication 写入任意节点的发布记录（分发层入口）
func (t *Table) InsertPublication(typ types.ServiceType, lower, upper uint32,
	scope types.Scope, node types.NodeID, port types.PortID, key uint32) *types.Publication {

	t.mu.Lock()
	defer t.mu.Unlock()

	if t.stopped {
		return nil
	}
	return t.insertLocked(typ, lower, upper, scope, node, port, key)
}

// RemovePublication 移除任意节点的发布记录（分发层入口）
func (t *Table) RemovePublication(typ types.ServiceType, lower uint32,
	node types.NodeID, port types.PortID, key uint32) *types.Publication {

	t.mu.Lock()
	defer t.mu.Unlock()

	return t.removeLocked(typ, lower, node, port, key)
}

// Subscribe 挂接订阅，必要时惰性创建服务序列
//
// 快照事件在序列锁内同步投递完毕后返回。
func (t *Table) Subscribe(sub interfaces.Subscriber) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.stopped {
		return
	}
	s := t.createServiceLocked(sub.Range().Type)
	s.mu.Lock()
	s.subscribe(sub)
	s.mu.Unlock()
}

// Unsubscribe 摘除订阅
//
// 摘除后序列若不再有区间与订阅则随之回收。
func (t *Table) Unsubscribe(sub interfaces.Subscriber) {
	t.mu.Lock()
	defer t.mu.Unlock()

	s := t.findServiceLocked(sub.Range().Type)
	if s == nil {
		return
	}
	s.mu.Lock()
	s.unsubscribe(sub)
	if s.empty() {
		t.unlinkServiceLocked(s)
	}
	s.mu.Unlock()
}

// OwnAddr 返回本节点地址
func (t *Table) OwnAddr() types.NodeID {
	return t.own
}

// LocalPublicationCount 返回当前本地发布数量
func (t *Table) LocalPublicationCount() uint32 {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.localCount
}

// Stats 返回统计快照
func (t *Table) Stats() StatsSnapshot {
	return t.stats.Snapshot()
}

// Stop 清空名字表
//
// 撤销所有残留发布（逐条投递撤销事件）、释放所有订阅引用，
// 此后表拒绝新的发布与订阅。
func (t *Table) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.stopped {
		return
	}
	t.stopped = true

	for idx := range t.buckets {
		for _, s := range t.buckets[idx] {
			t.purgeService(s)
		}
		t.buckets[idx] = nil
	}
	t.localCount = 0
}

// purgeService 清空一个服务序列
//
// 调用方必须持有目录写锁。
func (t *Table) purgeService(s *service) {
	s.mu.Lock()
	for len(s.ranges) > 0 {
		p := s.ranges[0].bindings.firstAll()
		s.removePublication(p.Lower, p.Node, p.Port, p.Key)
		t.stats.publicationRemoved(p.Node == t.own)
	}
	for _, sub := range s.subs {
		sub.Release()
	}
	s.subs = nil
	s.detached = true
	s.mu.Unlock()
	t.stats.serviceRemoved()
}
