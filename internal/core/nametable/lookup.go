// Package nametable 实现名字表核心
package nametable

import (
	"github.com/dep2p/go-nametable/pkg/interfaces"
	"github.com/dep2p/go-nametable/pkg/types"
)

// Translate 单实例名字翻译
//
// destNode 为 0 时执行就近优先：local 链表非空取其头部，否则取
// all 链表头部；destNode 为本节点时只在 local 链表内选择，空则
// 无匹配；destNode 为其他节点时在 all 链表内选择。三种分支都把
// 选中记录轮转到链表尾部，重复调用在绑定间轮询。
//
// 无匹配时返回 (0, 0)。
func (t *Table) Translate(typ types.ServiceType, instance uint32,
	destNode types.NodeID) (types.PortID, types.NodeID) {

	s := t.lockService(typ)
	if s == nil {
		t.stats.translateMiss()
		return types.PortNone, types.NodeNone
	}
	defer s.mu.Unlock()

	pos, ok := s.findSubRange(instance)
	if !ok {
		t.stats.translateMiss()
		return types.PortNone, types.NodeNone
	}
	b := s.ranges[pos].bindings

	var p *publication
	switch {
	case destNode == types.NodeNone:
		// 就近优先
		if p = b.firstLocal(); p != nil {
			b.rotateLocal(p)
		} else {
			p = b.firstAll()
			b.rotateAll(p)
		}

	case destNode == t.own:
		// 目的地为本节点时只能由本地绑定解析
		if p = b.firstLocal(); p == nil {
			t.stats.translateMiss()
			return types.PortNone, types.NodeNone
		}
		b.rotateLocal(p)

	default:
		p = b.firstAll()
		b.rotateAll(p)
	}

	t.stats.translateHit()
	return p.Port, p.Node
}

// Lookup 按 scope 精确匹配收集目的地集合
//
// 跳过与本节点 (excludePort, own) 相同的自身绑定。all 为 false
// 时取第一个可接受的匹配并把它轮转到尾部；为 true 时收集全部。
// 返回集合是否非空。
func (t *Table) Lookup(typ types.ServiceType, instance uint32, scope types.Scope,
	excludePort types.PortID, all bool, dsts *types.DestinationList) bool {

	s := t.lockService(typ)
	if s == nil {
		return !dsts.IsEmpty()
	}

	if pos, ok := s.findSubRange(instance); ok {
		b := s.ranges[pos].bindings
		b.forEachAll(func(p *publication) bool {
			if p.Scope != scope {
				return true
			}
			if p.Port == excludePort && p.Node == t.own {
				return true
			}
			dsts.Push(p.Node, p.Port)
			if all {
				return true
			}
			b.rotateAll(p)
			return false
		})
	}
	s.mu.Unlock()

	return !dsts.IsEmpty()
}

// MulticastLookup 区间（组播）查找本地端口
//
// 从 lower 的定位点向后扫描所有下界不超过 upper 的区间，收集
// 其本地绑定端口。exact 为 true 时要求 scope 精确相等，否则
// 包含数值更小（更粗）的 scope。
func (t *Table) MulticastLookup(typ types.ServiceType, lower, upper uint32,
	scope types.Scope, exact bool) []types.PortID {

	var ports []types.PortID
	seen := make(map[types.PortID]struct{})

	s := t.lockService(typ)
	if s == nil {
		return ports
	}
	defer s.mu.Unlock()

	for pos := s.locateSubRange(lower); pos < len(s.ranges); pos++ {
		sr := &s.ranges[pos]
		if sr.lower > upper {
			break
		}
		sr.bindings.forEachLocal(func(p *publication) bool {
			if p.Scope == scope || (!exact && p.Scope < scope) {
				if _, dup := seen[p.Port]; !dup {
					seen[p.Port] = struct{}{}
					ports = append(ports, p.Port)
				}
			}
			return true
		})
	}
	return ports
}

// DestinationNodes 收集区间内所有发布节点（广播规划）
func (t *Table) DestinationNodes(typ types.ServiceType, lower, upper uint32) []types.NodeID {
	var nodes []types.NodeID
	seen := make(map[types.NodeID]struct{})

	s := t.lockService(typ)
	if s == nil {
		return nodes
	}
	defer s.mu.Unlock()

	for pos := s.locateSubRange(lower); pos < len(s.ranges); pos++ {
		sr := &s.ranges[pos]
		if sr.lower > upper {
			break
		}
		sr.bindings.forEachAll(func(p *publication) bool {
			if _, dup := seen[p.Node]; !dup {
				seen[p.Node] = struct{}{}
				nodes = append(nodes, p.Node)
			}
			return true
		})
	}
	return nodes
}

// BuildGroup 按 scope 收集组成员到外部结构
//
// 遍历该类别的全部区间，把 scope 精确匹配的发布按
// (节点, 端口, 区间下界) 写入组结构。
func (t *Table) BuildGroup(grp interfaces.GroupSink, typ types.ServiceType, scope types.Scope) {
	s := t.lockService(typ)
	if s == nil {
		return
	}
	defer s.mu.Unlock()

	for pos := range s.ranges {
		s.ranges[pos].bindings.forEachAll(func(p *publication) bool {
			if p.Scope == scope {
				grp.AddMember(p.Node, p.Port, p.Lower)
			}
			return true
		})
	}
}
