package types

import "fmt"

// ============================================================================
//                              节点与端口标识
// ============================================================================

// NodeID 节点地址
//
// 0 表示"无节点"或通配（按具体操作的语义解释）。
type NodeID uint32

// NodeNone 空节点地址（通配）
const NodeNone NodeID = 0

// IsNone 检查是否为空地址
func (n NodeID) IsNone() bool {
	return n == NodeNone
}

// Matches 通配匹配
//
// 发布记录的节点为 0 时匹配任意节点，否则要求相等。
func (n NodeID) Matches(other NodeID) bool {
	return n == NodeNone || n == other
}

// String 返回可读形式
func (n NodeID) String() string {
	return fmt.Sprintf("node-%d", uint32(n))
}

// PortID 端口引用
//
// 节点内唯一的绑定端点标识，0 表示"无端口"。
type PortID uint32

// PortNone 空端口引用
const PortNone PortID = 0

// ============================================================================
//                              可见性范围
// ============================================================================

// Scope 绑定的可见性范围
//
// 数值越小范围越大：Zone < Cluster < Node。
type Scope uint8

const (
	// ScopeZone 全域可见
	ScopeZone Scope = 1
	// ScopeCluster 集群内可见
	ScopeCluster Scope = 2
	// ScopeNode 仅本节点可见
	ScopeNode Scope = 3
)

// MaxScope 允许的最大 scope 值
const MaxScope = ScopeNode

// Valid 检查 scope 是否合法
func (s Scope) Valid() bool {
	return s >= ScopeZone && s <= MaxScope
}

// String 返回可读形式
func (s Scope) String() string {
	switch s {
	case ScopeZone:
		return "zone"
	case ScopeCluster:
		return "cluster"
	case ScopeNode:
		return "node"
	default:
		return fmt.Sprintf("scope-%d", uint8(s))
	}
}
