package types

import "fmt"

// ============================================================================
//                              Publication - 名字发布记录
// ============================================================================

// Publication 一条名字发布记录
//
// 描述某个节点在 [Lower, Upper] 区间上绑定的一个端口。
// 创建后不可变；同一条记录在名字表中由 (Port, Key, Node) 唯一确定。
type Publication struct {
	// Type 服务类别
	Type ServiceType

	// Lower 区间下界
	Lower uint32

	// Upper 区间上界
	Upper uint32

	// Scope 可见性范围
	Scope Scope

	// Node 发布节点
	Node NodeID

	// Port 绑定端口
	Port PortID

	// Key 调用方提供的区分键（同端口多次发布时区分各条记录）
	Key uint32
}

// Range 返回发布覆盖的服务区间
func (p *Publication) Range() ServiceRange {
	return ServiceRange{Type: p.Type, Lower: p.Lower, Upper: p.Upper}
}

// String 返回可读形式
func (p *Publication) String() string {
	return fmt.Sprintf("publ{%d,%d,%d scope=%s node=%d port=%d key=%d}",
		uint32(p.Type), p.Lower, p.Upper, p.Scope, uint32(p.Node), uint32(p.Port), p.Key)
}
