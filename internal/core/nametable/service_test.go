package nametable

import (
	"testing"

	"github.com/dep2p/go-nametable/pkg/types"
)

const testOwn = types.NodeID(0x01001001)

// insertRange 测试辅助：插入一条发布
func insertRange(t *testing.T, s *service, lower, upper uint32, node types.NodeID, port types.PortID, key uint32) *publication {
	t.Helper()
	p := s.insertPublication(lower, upper, types.ScopeCluster, node, port, key, testOwn)
	if p == nil {
		t.Fatalf("insertPublication({%d,%d} port=%d key=%d) rejected", lower, upper, port, key)
	}
	return p
}

// ============================================================================
// 二分查找测试
// ============================================================================

// TestService_FindSubRange 测试区间查找
func TestService_FindSubRange(t *testing.T) {
	s := newService(1000)
	insertRange(t, s, 10, 19, 2, 100, 1)
	insertRange(t, s, 30, 39, 2, 101, 2)
	insertRange(t, s, 50, 59, 2, 102, 3)

	tests := []struct {
		instance uint32
		wantPos  int
		wantOK   bool
	}{
		{10, 0, true},
		{15, 0, true},
		{19, 0, true},
		{30, 1, true},
		{59, 2, true},
		{9, 0, false},
		{20, 0, false},
		{45, 0, false},
		{60, 0, false},
	}

	for _, tt := range tests {
		pos, ok := s.findSubRange(tt.instance)
		if ok != tt.wantOK {
			t.Errorf("findSubRange(%d) ok = %v, want %v", tt.instance, ok, tt.wantOK)
			continue
		}
		if ok && pos != tt.wantPos {
			t.Errorf("findSubRange(%d) pos = %d, want %d", tt.instance, pos, tt.wantPos)
		}
	}
}

// TestService_LocateSubRange 测试插入位置定位
func TestService_LocateSubRange(t *testing.T) {
	s := newService(1000)
	insertRange(t, s, 10, 19, 2, 100, 1)
	insertRange(t, s, 30, 39, 2, 101, 2)

	tests := []struct {
		instance uint32
		want     int
	}{
		{5, 0},   // 第一个区间之前
		{15, 0},  // 落在第一个区间内
		{25, 1},  // 两区间之间
		{35, 1},  // 落在第二个区间内
		{45, 2},  // 所有区间之后
	}

	for _, tt := range tests {
		if got := s.locateSubRange(tt.instance); got != tt.want {
			t.Errorf("locateSubRange(%d) = %d, want %d", tt.instance, got, tt.want)
		}
	}
}

// ============================================================================
// 插入测试
// ============================================================================

// TestService_InsertOverlapRejected 测试部分重叠被拒绝
func TestService_InsertOverlapRejected(t *testing.T) {
	s := newService(1000)
	insertRange(t, s, 10, 20, 2, 100, 1)

	overlaps := []struct {
		lower, upper uint32
	}{
		{10, 19}, // 下界命中但上界不同
		{10, 21},
		{15, 25}, // 下界落入区间
		{15, 20},
		{5, 10}, // 上界撞上既有区间
		{5, 15},
		{0, 30}, // 完全覆盖
	}

	for _, o := range overlaps {
		if p := s.insertPublication(o.lower, o.upper, types.ScopeCluster, 2, 200, 99, testOwn); p != nil {
			t.Errorf("insertPublication({%d,%d}) accepted, want rejection", o.lower, o.upper)
		}
	}

	// 拒绝不产生状态变化
	if len(s.ranges) != 1 {
		t.Errorf("len(ranges) = %d after rejected inserts, want 1", len(s.ranges))
	}
}

// TestService_InsertDisjointRanges 测试互不相交区间的插入保持有序
func TestService_InsertDisjointRanges(t *testing.T) {
	s := newService(1000)
	insertRange(t, s, 50, 59, 2, 100, 1)
	insertRange(t, s, 10, 19, 2, 101, 2)
	insertRange(t, s, 30, 39, 2, 102, 3)
	insertRange(t, s, 21, 29, 2, 103, 4) // 紧邻但不相交

	want := []uint32{10, 21, 30, 50}
	if len(s.ranges) != len(want) {
		t.Fatalf("len(ranges) = %d, want %d", len(s.ranges), len(want))
	}
	for i, lower := range want {
		if s.ranges[i].lower != lower {
			t.Errorf("ranges[%d].lower = %d, want %d", i, s.ranges[i].lower, lower)
		}
	}
}

// TestService_InsertDuplicateRejected 测试重复发布被拒绝
func TestService_InsertDuplicateRejected(t *testing.T) {
	s := newService(1000)
	insertRange(t, s, 10, 20, 2, 100, 1)

	// 相同 (端口, 键, 节点)
	if p := s.insertPublication(10, 20, types.ScopeCluster, 2, 100, 1, testOwn); p != nil {
		t.Error("duplicate (port,key,node) accepted")
	}

	// 通配节点的既有记录同样挡住重复
	insertRange(t, s, 30, 40, types.NodeNone, 300, 7)
	if p := s.insertPublication(30, 40, types.ScopeCluster, 9, 300, 7, testOwn); p != nil {
		t.Error("duplicate against wildcard-node record accepted")
	}

	// 不同 (端口, 键) 在精确匹配区间上共存
	if p := s.insertPublication(10, 20, types.ScopeCluster, 2, 101, 2, testOwn); p == nil {
		t.Fatal("distinct (port,key) on exact range rejected")
	}
	if got := s.ranges[0].bindings.all.Len(); got != 2 {
		t.Errorf("all list length = %d, want 2", got)
	}
}

// TestService_ArrayGrowth 测试区间数组倍增扩容
func TestService_ArrayGrowth(t *testing.T) {
	s := newService(1000)
	if cap(s.ranges) != 1 {
		t.Fatalf("initial cap = %d, want 1", cap(s.ranges))
	}

	for i := uint32(0); i < 16; i++ {
		insertRange(t, s, i*10, i*10+5, 2, types.PortID(100+i), i+1)
	}

	if len(s.ranges) != 16 {
		t.Fatalf("len(ranges) = %d, want 16", len(s.ranges))
	}
	// 容量只增不减，且始终是 2 的幂
	if cap(s.ranges) != 16 {
		t.Errorf("cap(ranges) = %d, want 16", cap(s.ranges))
	}
	// 扩容后仍然有序
	for i := 1; i < len(s.ranges); i++ {
		if s.ranges[i-1].lower >= s.ranges[i].lower {
			t.Fatalf("ranges out of order at %d: %d >= %d", i, s.ranges[i-1].lower, s.ranges[i].lower)
		}
	}
}

// TestService_LocalListMembership 测试本地发布同时进入 local 链表
func TestService_LocalListMembership(t *testing.T) {
	s := newService(1000)
	insertRange(t, s, 10, 20, testOwn, 100, 1) // 本地
	insertRange(t, s, 10, 20, 5, 101, 2)       // 远端

	b := s.ranges[0].bindings
	if b.all.Len() != 2 {
		t.Errorf("all list length = %d, want 2", b.all.Len())
	}
	if b.local.Len() != 1 {
		t.Errorf("local list length = %d, want 1", b.local.Len())
	}
	if p := b.firstLocal(); p == nil || p.Port != 100 {
		t.Error("local list does not hold the locally published record")
	}
}

// ============================================================================
// 移除测试
// ============================================================================

// TestService_RemoveCompactsArray 测试最后一条发布撤销后区间删除
func TestService_RemoveCompactsArray(t *testing.T) {
	s := newService(1000)
	insertRange(t, s, 10, 19, 2, 100, 1)
	insertRange(t, s, 30, 39, 2, 101, 2)
	insertRange(t, s, 50, 59, 2, 102, 3)

	p := s.removePublication(35, 2, 101, 2)
	if p == nil {
		t.Fatal("removePublication returned nil for existing record")
	}

	if len(s.ranges) != 2 {
		t.Fatalf("len(ranges) = %d after removal, want 2", len(s.ranges))
	}
	if _, ok := s.findSubRange(35); ok {
		t.Error("findSubRange(35) found a range after its deletion")
	}
	// 剩余区间仍然有序
	if s.ranges[0].lower != 10 || s.ranges[1].lower != 50 {
		t.Errorf("remaining lowers = %d,%d, want 10,50", s.ranges[0].lower, s.ranges[1].lower)
	}
}

// TestService_RemoveKeepsRangeWhileOccupied 测试区间在仍有发布时保留
func TestService_RemoveKeepsRangeWhileOccupied(t *testing.T) {
	s := newService(1000)
	insertRange(t, s, 10, 20, 2, 100, 1)
	insertRange(t, s, 10, 20, 3, 101, 2)

	if p := s.removePublication(15, 2, 100, 1); p == nil {
		t.Fatal("removePublication returned nil for existing record")
	}
	if len(s.ranges) != 1 {
		t.Errorf("len(ranges) = %d, want 1", len(s.ranges))
	}
	if s.ranges[0].bindings.all.Len() != 1 {
		t.Errorf("all list length = %d, want 1", s.ranges[0].bindings.all.Len())
	}
}

// TestService_RemoveMissing 测试撤销不存在的发布
func TestService_RemoveMissing(t *testing.T) {
	s := newService(1000)
	insertRange(t, s, 10, 20, 2, 100, 1)

	if p := s.removePublication(15, 2, 100, 99); p != nil {
		t.Error("removePublication with wrong key returned a record")
	}
	if p := s.removePublication(25, 2, 100, 1); p != nil {
		t.Error("removePublication outside any range returned a record")
	}
	if len(s.ranges) != 1 || s.ranges[0].bindings.all.Len() != 1 {
		t.Error("failed removal corrupted existing state")
	}
}

// TestService_RemoveWildcardNode 测试撤销时的节点通配匹配
func TestService_RemoveWildcardNode(t *testing.T) {
	s := newService(1000)
	insertRange(t, s, 10, 20, types.NodeNone, 100, 1)

	// 记录的节点为 0，任意节点可撤销
	if p := s.removePublication(15, 7, 100, 1); p == nil {
		t.Error("removePublication failed to match wildcard-node record")
	}
}

// ============================================================================
// 订阅测试
// ============================================================================

// TestService_SubscribeSnapshot 测试订阅的既有状态快照
func TestService_SubscribeSnapshot(t *testing.T) {
	s := newService(1000)
	insertRange(t, s, 10, 20, 2, 100, 1)
	insertRange(t, s, 10, 20, 3, 101, 2)
	insertRange(t, s, 50, 60, 2, 102, 3) // 不在订阅区间内

	sub := newRecordingSubscriber(types.NewServiceRange(1000, 0, 30), 0)
	s.subscribe(sub)

	// 一个重叠区间两条发布：恰好 2 个 PUBLISHED 事件
	if len(sub.events) != 2 {
		t.Fatalf("snapshot delivered %d events, want 2", len(sub.events))
	}
	if !sub.events[0].mustReport {
		t.Error("first snapshot event mustReport = false, want true")
	}
	if sub.events[1].mustReport {
		t.Error("second snapshot event mustReport = true, want false")
	}
	for i, ev := range sub.events {
		if ev.event != types.EventPublished {
			t.Errorf("events[%d].event = %v, want published", i, ev.event)
		}
		if ev.lower != 10 || ev.upper != 20 {
			t.Errorf("events[%d] range = {%d,%d}, want {10,20}", i, ev.lower, ev.upper)
		}
	}

	if sub.refs.Load() != 1 {
		t.Errorf("subscriber refs = %d after attach, want 1", sub.refs.Load())
	}
}

// TestService_SubscribeNoStatus 测试 NoStatus 订阅不收快照
func TestService_SubscribeNoStatus(t *testing.T) {
	s := newService(1000)
	insertRange(t, s, 10, 20, 2, 100, 1)

	sub := newRecordingSubscriber(types.NewServiceRange(1000, 0, 100), types.FilterNoStatus)
	s.subscribe(sub)

	if len(sub.events) != 0 {
		t.Fatalf("NoStatus subscription received %d snapshot events, want 0", len(sub.events))
	}

	// 后续变化照常投递
	insertRange(t, s, 30, 40, 2, 101, 2)
	if len(sub.events) != 1 {
		t.Fatalf("NoStatus subscription received %d live events, want 1", len(sub.events))
	}
}

// TestService_LiveEventFlags 测试发布/撤销事件的区间转变标记
func TestService_LiveEventFlags(t *testing.T) {
	s := newService(1000)
	sub := newRecordingSubscriber(types.NewServiceRange(1000, 0, 100), 0)
	s.subscribe(sub)

	insertRange(t, s, 10, 20, 2, 100, 1) // 新区间
	insertRange(t, s, 10, 20, 2, 101, 2) // 既有区间
	s.removePublication(15, 2, 100, 1)   // 区间仍在
	s.removePublication(15, 2, 101, 2)   // 区间随之删除

	wantFlags := []bool{true, false, false, true}
	wantEvents := []types.EventType{
		types.EventPublished, types.EventPublished,
		types.EventWithdrawn, types.EventWithdrawn,
	}
	if len(sub.events) != len(wantFlags) {
		t.Fatalf("received %d events, want %d", len(sub.events), len(wantFlags))
	}
	for i := range wantFlags {
		if sub.events[i].event != wantEvents[i] {
			t.Errorf("events[%d].event = %v, want %v", i, sub.events[i].event, wantEvents[i])
		}
		if sub.events[i].mustReport != wantFlags[i] {
			t.Errorf("events[%d].mustReport = %v, want %v", i, sub.events[i].mustReport, wantFlags[i])
		}
	}
}

// TestService_Unsubscribe 测试摘除订阅并释放引用
func TestService_Unsubscribe(t *testing.T) {
	s := newService(1000)
	sub := newRecordingSubscriber(types.NewServiceRange(1000, 0, 100), 0)
	s.subscribe(sub)

	if !s.unsubscribe(sub) {
		t.Fatal("unsubscribe did not find attached subscriber")
	}
	if sub.refs.Load() != 0 {
		t.Errorf("subscriber refs = %d after detach, want 0", sub.refs.Load())
	}
	if s.unsubscribe(sub) {
		t.Error("second unsubscribe reported success")
	}

	// 摘除后不再收事件
	insertRange(t, s, 10, 20, 2, 100, 1)
	if len(sub.events) != 0 {
		t.Errorf("detached subscriber received %d events, want 0", len(sub.events))
	}
}
