package types

// ============================================================================
//                              Destination - 查找结果目的地
// ============================================================================

// Destination 一个 (节点, 端口) 目的地
type Destination struct {
	// Node 目的节点
	Node NodeID

	// Port 目的端口
	Port PortID
}

// key 返回去重键
func (d Destination) key() uint64 {
	return uint64(d.Node)<<32 | uint64(d.Port)
}

// DestinationList 去重的目的地集合
//
// 保持插入顺序，按 (节点, 端口) 去重。零值可直接使用。
type DestinationList struct {
	dests []Destination
	seen  map[uint64]struct{}
}

// Push 追加目的地；已存在时返回 false
func (l *DestinationList) Push(node NodeID, port PortID) bool {
	d := Destination{Node: node, Port: port}
	if l.seen == nil {
		l.seen = make(map[uint64]struct{})
	}
	if _, ok := l.seen[d.key()]; ok {
		return false
	}
	l.seen[d.key()] = struct{}{}
	l.dests = append(l.dests, d)
	return true
}

// Pop 弹出最早加入的目的地
func (l *DestinationList) Pop() (Destination, bool) {
	if len(l.dests) == 0 {
		return Destination{}, false
	}
	d := l.dests[0]
	l.dests = l.dests[1:]
	delete(l.seen, d.key())
	return d, true
}

// Contains 检查目的地是否已存在
func (l *DestinationList) Contains(node NodeID, port PortID) bool {
	if l.seen == nil {
		return false
	}
	_, ok := l.seen[Destination{Node: node, Port: port}.key()]
	return ok
}

// Delete 移除指定目的地；不存在时返回 false
func (l *DestinationList) Delete(node NodeID, port PortID) bool {
	d := Destination{Node: node, Port: port}
	if l.seen == nil {
		return false
	}
	if _, ok := l.seen[d.key()]; !ok {
		return false
	}
	delete(l.seen, d.key())
	for i := range l.dests {
		if l.dests[i] == d {
			l.dests = append(l.dests[:i], l.dests[i+1:]...)
			break
		}
	}
	return true
}

// Purge 清空集合
func (l *DestinationList) Purge() {
	l.dests = nil
	l.seen = nil
}

// Len 返回目的地数量
func (l *DestinationList) Len() int {
	return len(l.dests)
}

// IsEmpty 检查集合是否为空
func (l *DestinationList) IsEmpty() bool {
	return len(l.dests) == 0
}

// All 返回所有目的地（按插入顺序的副本）
func (l *DestinationList) All() []Destination {
	out := make([]Destination, len(l.dests))
	copy(out, l.dests)
	return out
}
